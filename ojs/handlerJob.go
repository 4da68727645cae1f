// Copyright (c) 2022 OpenOJ
// This code is licensed under the MIT license (see LICENSE.txt for details)

package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/openoj/go/oj/db"
	"github.com/openoj/go/oj/helper"
	"github.com/openoj/go/oj/ojLog"
)

// jobSubmitHandler accept source code submission, judge it synchronously,
// append finalized job to the store and echo the job back.
//
//	POST /jobs
//
// Submission json body: {source_code, language, user_id, contest_id, problem_id}.
// Unknown language, user or problem is a not found error.
// If contest id is not 0 then contest rules are enforced: the user and the problem
// must be enrolled, submission time inside the contest window and under the limit.
func (sc *ServerCatalog) jobSubmitHandler(w http.ResponseWriter, r *http.Request) {

	var sub db.Submission
	if !jsonRequestDecode(w, r, true, &sub) {
		return // error at json decode, response done with http error
	}

	// created time is captured before judging begins
	createdTime := helper.MakeTimeRfc3339(time.Now())

	// validate the submission against configuration and state
	lang, ok := sc.cfg.LanguageByName(sub.Language)
	if !ok {
		notFoundResponse(w, "Language "+sub.Language+" not found.")
		return
	}
	if _, isFound, err := db.SelectUser(sc.dbConn, sub.UserId); err != nil {
		internalErrorResponse(w, "Error at user select", err)
		return
	} else if !isFound {
		notFoundResponse(w, "User "+strconv.Itoa(sub.UserId)+" not found.")
		return
	}
	probIdx, ok := sc.cfg.ProblemByExternalId(sub.ProblemId)
	if !ok {
		notFoundResponse(w, "Problem "+strconv.Itoa(sub.ProblemId)+" not found.")
		return
	}
	if sub.ContestId != 0 {
		if !sc.checkContestRules(w, &sub, createdTime) {
			return // contest rules violated, response done
		}
	}

	// judge the submission, one judging at a time
	sc.judgeLock.Lock()
	cases, score, scoreVec, err := judge(sub.SourceCode, probIdx, lang, sc.cfg)
	sc.judgeLock.Unlock()

	if err != nil {
		ojLog.Log(err)
		internalErrorResponse(w, "Internal judging error.", nil)
		return
	}

	job := db.JobRow{
		CreatedTime: createdTime,
		UpdatedTime: helper.MakeTimeRfc3339(time.Now()),
		Submission:  sub,
		State:       db.FinishedState,
		Result:      aggregateResult(cases),
		Score:       score,
		Cases:       cases,
		ScoreVec:    scoreVec,
	}

	// append to the job store: id assignment and insert are one atomic step
	sc.theLock.Lock()
	err = db.InsertJob(sc.dbConn, &job)
	sc.theLock.Unlock()

	if err != nil {
		internalErrorResponse(w, "Error at job insert", err)
		return
	}
	jsonResponse(w, r, job)
}

// checkContestRules validate submission against its contest:
// contest must exist, user and problem enrolled, submission time inside
// the contest window and the per-user submission limit not reached.
// On violation it writes error response and returns false.
func (sc *ServerCatalog) checkContestRules(w http.ResponseWriter, sub *db.Submission, createdTime string) bool {

	c, isFound, err := db.SelectContest(sc.dbConn, sub.ContestId)
	if err != nil {
		internalErrorResponse(w, "Error at contest select", err)
		return false
	}
	if !isFound {
		notFoundResponse(w, "Contest "+strconv.Itoa(sub.ContestId)+" not found.")
		return false
	}

	if !isIdIn(c.UserIds, sub.UserId) {
		invalidArgumentResponse(w, "User "+strconv.Itoa(sub.UserId)+" not registered in contest "+strconv.Itoa(c.ContestId)+".")
		return false
	}
	if !isIdIn(c.ProblemIds, sub.ProblemId) {
		invalidArgumentResponse(w, "Problem "+strconv.Itoa(sub.ProblemId)+" not in contest "+strconv.Itoa(c.ContestId)+".")
		return false
	}

	// timestamps are RFC 3339 UTC: lexical order is time order
	if createdTime < c.From || createdTime > c.To {
		invalidArgumentResponse(w, "Submission outside of contest time window.")
		return false
	}

	if c.SubmissionLimit > 0 {
		n, err := db.SelectContestSubmissionCount(sc.dbConn, sub.UserId, sub.ContestId)
		if err != nil {
			internalErrorResponse(w, "Error at submission count select", err)
			return false
		}
		if n >= c.SubmissionLimit {
			invalidArgumentResponse(w, "Submission limit of contest "+strconv.Itoa(c.ContestId)+" reached.")
			return false
		}
	}
	return true
}

// isIdIn return true if id is a member of the sorted id list
func isIdIn(ids []int, id int) bool {
	for _, n := range ids {
		if n == id {
			return true
		}
	}
	return false
}

// jobListHandler return jobs filtered by query parameters,
// sorted ascending by created time.
//
//	GET /jobs
//	GET /jobs?user_id=0&user_name=root&contest_id=0&problem_id=0&language=Rust
//	GET /jobs?from=2022-08-27T02:05:29.000Z&to=2022-12-28T00:00:00.000Z&state=Finished&result=Accepted
//
// All filters are conjunctive. Invalid integer or timestamp values are an invalid argument error.
func (sc *ServerCatalog) jobListHandler(w http.ResponseWriter, r *http.Request) {

	q := db.JobQuery{}

	setInt := func(name string, dst **int) bool {
		v := r.URL.Query().Get(name)
		if v == "" {
			return true
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			invalidArgumentResponse(w, "Invalid value of "+name+": "+v)
			return false
		}
		*dst = &n
		return true
	}
	setTime := func(name string, dst **string) bool {
		v := r.URL.Query().Get(name)
		if v == "" {
			return true
		}
		if _, err := time.Parse(time.RFC3339, v); err != nil {
			invalidArgumentResponse(w, "Invalid value of "+name+": "+v)
			return false
		}
		*dst = &v
		return true
	}
	setStr := func(name string, dst **string) {
		if v := r.URL.Query().Get(name); v != "" {
			*dst = &v
		}
	}

	if !setInt("user_id", &q.UserId) || !setInt("contest_id", &q.ContestId) || !setInt("problem_id", &q.ProblemId) {
		return
	}
	if !setTime("from", &q.From) || !setTime("to", &q.To) {
		return
	}
	setStr("user_name", &q.UserName)
	setStr("language", &q.Language)
	setStr("state", &q.State)
	setStr("result", &q.Result)

	jLst, err := db.SelectJobList(sc.dbConn, q)
	if err != nil {
		internalErrorResponse(w, "Error at job list select", err)
		return
	}
	jsonResponse(w, r, jLst)
}

// jobGetHandler return single job by id.
//
//	GET /jobs/:id
func (sc *ServerCatalog) jobGetHandler(w http.ResponseWriter, r *http.Request) {

	jobId, ok := getIntRequestParam(r, "id", 0)
	if !ok {
		invalidArgumentResponse(w, "Invalid job id: "+getRequestParam(r, "id"))
		return
	}

	job, isFound, err := db.SelectJob(sc.dbConn, jobId)
	if err != nil {
		internalErrorResponse(w, "Error at job select", err)
		return
	}
	if !isFound {
		notFoundResponse(w, "Job "+strconv.Itoa(jobId)+" not found.")
		return
	}
	jsonResponse(w, r, job)
}

// jobRerunHandler re-judge existing submission with the current configuration
// and replace the job in place: same id, same submission, new updated time.
//
//	PUT /jobs/:id
//
// Only finished jobs can be rerun, else it is an invalid state error.
func (sc *ServerCatalog) jobRerunHandler(w http.ResponseWriter, r *http.Request) {

	jobId, ok := getIntRequestParam(r, "id", 0)
	if !ok {
		invalidArgumentResponse(w, "Invalid job id: "+getRequestParam(r, "id"))
		return
	}

	job, isFound, err := db.SelectJob(sc.dbConn, jobId)
	if err != nil {
		internalErrorResponse(w, "Error at job select", err)
		return
	}
	if !isFound {
		notFoundResponse(w, "Job "+strconv.Itoa(jobId)+" not found.")
		return
	}
	if job.State != db.FinishedState {
		invalidStateResponse(w, "Job "+strconv.Itoa(jobId)+" not finished.")
		return
	}

	// rerun uses the current configuration, not the one at submission time
	lang, ok := sc.cfg.LanguageByName(job.Submission.Language)
	if !ok {
		notFoundResponse(w, "Language "+job.Submission.Language+" not found.")
		return
	}
	probIdx, ok := sc.cfg.ProblemByExternalId(job.Submission.ProblemId)
	if !ok {
		notFoundResponse(w, "Problem "+strconv.Itoa(job.Submission.ProblemId)+" not found.")
		return
	}

	sc.judgeLock.Lock()
	cases, score, scoreVec, err := judge(job.Submission.SourceCode, probIdx, lang, sc.cfg)
	sc.judgeLock.Unlock()

	if err != nil {
		ojLog.Log(err)
		internalErrorResponse(w, "Internal judging error.", nil)
		return
	}

	job.UpdatedTime = helper.MakeTimeRfc3339(time.Now())
	job.State = db.FinishedState
	job.Result = aggregateResult(cases)
	job.Score = score
	job.Cases = cases
	job.ScoreVec = scoreVec

	sc.theLock.Lock()
	err = db.UpdateJob(sc.dbConn, job)
	sc.theLock.Unlock()

	if err != nil {
		internalErrorResponse(w, "Error at job update", err)
		return
	}
	jsonResponse(w, r, job)
}
