// Copyright (c) 2022 OpenOJ
// This code is licensed under the MIT license (see LICENSE.txt for details)

package main

import (
	"net/http"
	"sort"
	"strconv"

	"github.com/openoj/go/oj/db"
)

// contestPostHandler create new contest or update existing one.
//
//	POST /contests
//
// Json body: {name, from, to, problem_ids, user_ids, submission_limit} to create
// with id = number of contests, plus {id} to update existing contest.
// Contest id 0 is reserved for the global contest and cannot be posted.
// Every referenced problem id and user id must exist, else it is a not found error.
// Stored problem ids and user ids are sorted ascending.
func (sc *ServerCatalog) contestPostHandler(w http.ResponseWriter, r *http.Request) {

	var c struct {
		ContestId       *int   `json:"id"`
		Name            string `json:"name"`
		From            string `json:"from"`
		To              string `json:"to"`
		ProblemIds      []int  `json:"problem_ids"`
		UserIds         []int  `json:"user_ids"`
		SubmissionLimit int    `json:"submission_limit"`
	}
	if !jsonRequestDecode(w, r, true, &c) {
		return // error at json decode, response done with http error
	}

	if c.ContestId != nil && *c.ContestId == 0 {
		notFoundResponse(w, "Contest id should not be 0.")
		return
	}

	// validate referenced ids
	for _, pId := range c.ProblemIds {
		if _, ok := sc.cfg.ProblemByExternalId(pId); !ok {
			notFoundResponse(w, "Problem "+strconv.Itoa(pId)+" not found.")
			return
		}
	}
	for _, uId := range c.UserIds {
		if _, isFound, err := db.SelectUser(sc.dbConn, uId); err != nil {
			internalErrorResponse(w, "Error at user select", err)
			return
		} else if !isFound {
			notFoundResponse(w, "User "+strconv.Itoa(uId)+" not found.")
			return
		}
	}

	cr := db.ContestRow{
		Name:            c.Name,
		From:            c.From,
		To:              c.To,
		ProblemIds:      append([]int{}, c.ProblemIds...),
		UserIds:         append([]int{}, c.UserIds...),
		SubmissionLimit: c.SubmissionLimit,
	}
	sort.Ints(cr.ProblemIds)
	sort.Ints(cr.UserIds)

	// id assignment and insert must be atomic
	sc.theLock.Lock()
	defer sc.theLock.Unlock()

	if c.ContestId == nil { // create new contest

		if err := db.InsertContest(sc.dbConn, &cr); err != nil {
			internalErrorResponse(w, "Error at contest insert", err)
			return
		}
		jsonResponse(w, r, cr)
		return
	}

	// update existing contest
	if _, isFound, err := db.SelectContest(sc.dbConn, *c.ContestId); err != nil {
		internalErrorResponse(w, "Error at contest select", err)
		return
	} else if !isFound {
		notFoundResponse(w, "Contest "+strconv.Itoa(*c.ContestId)+" not found.")
		return
	}

	cr.ContestId = *c.ContestId
	if err := db.UpdateContest(sc.dbConn, &cr); err != nil {
		internalErrorResponse(w, "Error at contest update", err)
		return
	}
	jsonResponse(w, r, cr)
}

// contestListHandler return all contests in contest id order, the global contest 0 excluded.
//
//	GET /contests
func (sc *ServerCatalog) contestListHandler(w http.ResponseWriter, r *http.Request) {

	cLst, err := db.SelectContestList(sc.dbConn)
	if err != nil {
		internalErrorResponse(w, "Error at contest list select", err)
		return
	}
	jsonResponse(w, r, cLst)
}

// contestGetHandler return single contest by id.
// Contest 0 is the empty global contest, it always exists.
//
//	GET /contests/:id
func (sc *ServerCatalog) contestGetHandler(w http.ResponseWriter, r *http.Request) {

	contestId, ok := getIntRequestParam(r, "id", 0)
	if !ok {
		invalidArgumentResponse(w, "Invalid contest id: "+getRequestParam(r, "id"))
		return
	}

	c, isFound, err := db.SelectContest(sc.dbConn, contestId)
	if err != nil {
		internalErrorResponse(w, "Error at contest select", err)
		return
	}
	if !isFound {
		notFoundResponse(w, "Contest "+strconv.Itoa(contestId)+" not found.")
		return
	}
	jsonResponse(w, r, c)
}
