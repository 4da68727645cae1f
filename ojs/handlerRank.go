// Copyright (c) 2022 OpenOJ
// This code is licensed under the MIT license (see LICENSE.txt for details)

package main

import (
	"net/http"
	"strconv"

	"github.com/openoj/go/oj/db"
)

// ranklistHandler return the rank list of a contest.
// Contest 0 is the global scope: all jobs, all users, full problem catalog.
//
//	GET /contests/:id/ranklist
//	GET /contests/:id/ranklist?scoring_rule=highest&tie_breaker=submission_count
//
// Scoring rule is latest (default) or highest, tie breaker is one of
// submission_time, submission_count, user_id or absent.
func (sc *ServerCatalog) ranklistHandler(w http.ResponseWriter, r *http.Request) {

	contestId, ok := getIntRequestParam(r, "id", 0)
	if !ok {
		invalidArgumentResponse(w, "Invalid contest id: "+getRequestParam(r, "id"))
		return
	}

	rule := r.URL.Query().Get("scoring_rule")
	switch rule {
	case "", latestRule, highestRule:
	default:
		invalidArgumentResponse(w, "Invalid scoring rule: "+rule)
		return
	}

	breaker := r.URL.Query().Get("tie_breaker")
	switch breaker {
	case "", timeBreaker, countBreaker, userIdBreaker:
	default:
		invalidArgumentResponse(w, "Invalid tie breaker: "+breaker)
		return
	}

	var contest *db.ContestRow

	if contestId != 0 {
		c, isFound, err := db.SelectContest(sc.dbConn, contestId)
		if err != nil {
			internalErrorResponse(w, "Error at contest select", err)
			return
		}
		if !isFound {
			notFoundResponse(w, "Contest "+strconv.Itoa(contestId)+" not found.")
			return
		}
		contest = c
	}

	// snapshot users and jobs, ranking itself runs outside of the lock
	sc.theLock.Lock()
	users, err := db.SelectUserList(sc.dbConn)
	var jobs []db.JobRow
	if err == nil {
		jobs, err = db.SelectJobAll(sc.dbConn)
	}
	sc.theLock.Unlock()

	if err != nil {
		internalErrorResponse(w, "Error at rank list select", err)
		return
	}

	jsonResponse(w, r, buildRankList(sc.cfg, users, jobs, contest, rule, breaker))
}
