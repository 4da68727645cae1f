// Copyright (c) 2022 OpenOJ
// This code is licensed under the MIT license (see LICENSE.txt for details)

package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/husobee/vestigo"

	"github.com/openoj/go/oj/config"
	"github.com/openoj/go/oj/db"
)

// create server catalog with routed handlers over a fresh in-memory state database.
// Database name must be unique per test: shared cache connections live per process.
func newTestServer(t *testing.T, cfg *config.JudgeConfig, dbName string) *vestigo.Router {
	t.Helper()

	dbConn, err := db.Open("file:" + dbName + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.CloseDb(dbConn) })

	if err := db.CreateStateSchema(dbConn); err != nil {
		t.Fatal(err)
	}

	sc := NewServerCatalog(cfg, dbConn)

	router := vestigo.NewRouter()
	apiGetRoutes(router, sc)
	apiPostRoutes(router, sc)
	return router
}

func doRequest(t *testing.T, router *vestigo.Router, method string, path string, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()

	if err := json.NewDecoder(w.Body).Decode(dst); err != nil {
		t.Fatal("json decode error: ", err)
	}
}

// check error response: http status, reason and code
func checkApiError(t *testing.T, w *httptest.ResponseRecorder, status int, code int) {
	t.Helper()

	if w.Code != status {
		t.Fatalf("expected http status %d return %d: %s", status, w.Code, w.Body.String())
	}
	var e apiError
	decodeBody(t, w, &e)
	if e.Code != code {
		t.Errorf("expected error code %d return %d (%s)", code, e.Code, e.Reason)
	}
}

func TestUserEndpoints(t *testing.T) {

	router := newTestServer(t, oneProblemConfig(), "userTest")

	// create new user: id is next after root
	w := doRequest(t, router, "POST", "/users", `{"name":"alice"}`)
	if w.Code != http.StatusOK {
		t.Fatal("user create failed: ", w.Body.String())
	}
	var u db.UserRow
	decodeBody(t, w, &u)
	if u.UserId != 1 || u.Name != "alice" {
		t.Errorf("expected user (1, alice) return (%d, %s)", u.UserId, u.Name)
	}

	// name collision on create
	w = doRequest(t, router, "POST", "/users", `{"name":"alice"}`)
	checkApiError(t, w, http.StatusBadRequest, errInvalidArgumentCode)

	// rename of a user which does not exist
	w = doRequest(t, router, "POST", "/users", `{"id":9,"name":"carol"}`)
	checkApiError(t, w, http.StatusNotFound, errNotFoundCode)

	// rename collision with another user
	w = doRequest(t, router, "POST", "/users", `{"id":1,"name":"root"}`)
	checkApiError(t, w, http.StatusBadRequest, errInvalidArgumentCode)

	// self-rename to the same name is a no-op and succeeds
	w = doRequest(t, router, "POST", "/users", `{"id":1,"name":"alice"}`)
	if w.Code != http.StatusOK {
		t.Fatal("self-rename failed: ", w.Body.String())
	}

	// rename
	w = doRequest(t, router, "POST", "/users", `{"id":1,"name":"bob"}`)
	if w.Code != http.StatusOK {
		t.Fatal("rename failed: ", w.Body.String())
	}

	// list all users including root
	w = doRequest(t, router, "GET", "/users", "")
	var uLst []db.UserRow
	decodeBody(t, w, &uLst)

	if len(uLst) != 2 || uLst[0].Name != "root" || uLst[1].Name != "bob" {
		t.Errorf("expected users [root bob] return %v", uLst)
	}
}

func TestContestEndpoints(t *testing.T) {

	router := newTestServer(t, oneProblemConfig(), "contestTest")

	doRequest(t, router, "POST", "/users", `{"name":"alice"}`)

	// contest id 0 is reserved
	w := doRequest(t, router, "POST", "/contests", `{"id":0,"name":"x","from":"2022-01-01T00:00:00.000Z","to":"2022-12-31T00:00:00.000Z","problem_ids":[],"user_ids":[],"submission_limit":0}`)
	checkApiError(t, w, http.StatusNotFound, errNotFoundCode)

	// unknown problem id
	w = doRequest(t, router, "POST", "/contests", `{"name":"x","from":"2022-01-01T00:00:00.000Z","to":"2022-12-31T00:00:00.000Z","problem_ids":[9],"user_ids":[],"submission_limit":0}`)
	checkApiError(t, w, http.StatusNotFound, errNotFoundCode)

	// unknown user id
	w = doRequest(t, router, "POST", "/contests", `{"name":"x","from":"2022-01-01T00:00:00.000Z","to":"2022-12-31T00:00:00.000Z","problem_ids":[0],"user_ids":[9],"submission_limit":0}`)
	checkApiError(t, w, http.StatusNotFound, errNotFoundCode)

	// create: first non-reserved contest id is 1, id lists are sorted
	w = doRequest(t, router, "POST", "/contests", `{"name":"weekly","from":"2022-01-01T00:00:00.000Z","to":"2022-12-31T00:00:00.000Z","problem_ids":[0],"user_ids":[1,0],"submission_limit":2}`)
	if w.Code != http.StatusOK {
		t.Fatal("contest create failed: ", w.Body.String())
	}
	var c db.ContestRow
	decodeBody(t, w, &c)
	if c.ContestId != 1 {
		t.Errorf("expected contest id 1 return %d", c.ContestId)
	}
	if len(c.UserIds) != 2 || c.UserIds[0] != 0 || c.UserIds[1] != 1 {
		t.Errorf("expected sorted user ids [0 1] return %v", c.UserIds)
	}

	// update existing contest
	w = doRequest(t, router, "POST", "/contests", `{"id":1,"name":"weekly 2","from":"2022-01-01T00:00:00.000Z","to":"2022-12-31T00:00:00.000Z","problem_ids":[0],"user_ids":[0],"submission_limit":0}`)
	if w.Code != http.StatusOK {
		t.Fatal("contest update failed: ", w.Body.String())
	}

	// update of a contest which does not exist
	w = doRequest(t, router, "POST", "/contests", `{"id":9,"name":"x","from":"2022-01-01T00:00:00.000Z","to":"2022-12-31T00:00:00.000Z","problem_ids":[],"user_ids":[],"submission_limit":0}`)
	checkApiError(t, w, http.StatusNotFound, errNotFoundCode)

	// list excludes the global contest 0
	w = doRequest(t, router, "GET", "/contests", "")
	var cLst []db.ContestRow
	decodeBody(t, w, &cLst)
	if len(cLst) != 1 || cLst[0].ContestId != 1 || cLst[0].Name != "weekly 2" {
		t.Errorf("expected single contest (1, weekly 2) return %v", cLst)
	}

	// the global contest 0 is returned by id
	w = doRequest(t, router, "GET", "/contests/0", "")
	if w.Code != http.StatusOK {
		t.Fatal("contest 0 get failed: ", w.Body.String())
	}
	decodeBody(t, w, &c)
	if c.ContestId != 0 || len(c.ProblemIds) != 0 || len(c.UserIds) != 0 {
		t.Errorf("expected empty global contest return %v", c)
	}

	w = doRequest(t, router, "GET", "/contests/9", "")
	checkApiError(t, w, http.StatusNotFound, errNotFoundCode)
}

func TestJobEndpoints(t *testing.T) {
	setupJudgeTest(t)
	dir := t.TempDir()

	inp := writeTestFile(t, dir, "1.in", "")
	ans := writeTestFile(t, dir, "1.ans", "hello\n")

	cfg := &config.JudgeConfig{
		Problems: []config.Problem{
			{Id: 0, Type: config.StandardProblem, Cases: []config.Case{
				{Score: 100, InputFile: inp, AnswerFile: ans, TimeLimit: 10000000},
			}},
		},
		Languages: []config.Language{shLang},
	}
	router := newTestServer(t, cfg, "jobTest")

	// unknown language, user and problem
	w := doRequest(t, router, "POST", "/jobs", `{"source_code":"x","language":"Rust","user_id":0,"contest_id":0,"problem_id":0}`)
	checkApiError(t, w, http.StatusNotFound, errNotFoundCode)

	w = doRequest(t, router, "POST", "/jobs", `{"source_code":"x","language":"Shell","user_id":9,"contest_id":0,"problem_id":0}`)
	checkApiError(t, w, http.StatusNotFound, errNotFoundCode)

	w = doRequest(t, router, "POST", "/jobs", `{"source_code":"x","language":"Shell","user_id":0,"contest_id":0,"problem_id":9}`)
	checkApiError(t, w, http.StatusNotFound, errNotFoundCode)

	// accepted submission: first job id is 0
	w = doRequest(t, router, "POST", "/jobs", `{"source_code":"#!/bin/sh\necho hello\n","language":"Shell","user_id":0,"contest_id":0,"problem_id":0}`)
	if w.Code != http.StatusOK {
		t.Fatal("job submit failed: ", w.Body.String())
	}
	var job db.JobRow
	decodeBody(t, w, &job)

	if job.JobId != 0 || job.State != db.FinishedState || job.Result != db.AcceptedResult || job.Score != 100 {
		t.Errorf("expected finished accepted job 0 score 100 return %v", job)
	}
	if len(job.Cases) != 2 || job.Cases[0].Result != db.CompileOkResult {
		t.Errorf("expected [Compilation Success, Accepted] cases return %v", job.Cases)
	}
	if job.CreatedTime == "" || job.UpdatedTime < job.CreatedTime {
		t.Errorf("expected updated time after created time return %s %s", job.CreatedTime, job.UpdatedTime)
	}

	// round trip: get the job back by id
	w = doRequest(t, router, "GET", "/jobs/0", "")
	if w.Code != http.StatusOK {
		t.Fatal("job get failed: ", w.Body.String())
	}
	var jGet db.JobRow
	decodeBody(t, w, &jGet)
	if jGet.JobId != job.JobId || jGet.Result != job.Result || jGet.Score != job.Score || jGet.CreatedTime != job.CreatedTime {
		t.Errorf("expected the same job return %v", jGet)
	}

	w = doRequest(t, router, "GET", "/jobs/9", "")
	checkApiError(t, w, http.StatusNotFound, errNotFoundCode)

	// filtered list
	var jLst []db.JobRow

	w = doRequest(t, router, "GET", "/jobs?user_id=0&result=Accepted&state=Finished", "")
	decodeBody(t, w, &jLst)
	if len(jLst) != 1 {
		t.Errorf("expected single accepted job return %d", len(jLst))
	}

	w = doRequest(t, router, "GET", "/jobs?user_name=nosuch", "")
	decodeBody(t, w, &jLst)
	if len(jLst) != 0 {
		t.Errorf("expected no jobs return %d", len(jLst))
	}

	w = doRequest(t, router, "GET", "/jobs?from=not-a-time", "")
	checkApiError(t, w, http.StatusBadRequest, errInvalidArgumentCode)

	w = doRequest(t, router, "GET", "/jobs?user_id=abc", "")
	checkApiError(t, w, http.StatusBadRequest, errInvalidArgumentCode)

	// rerun: same verdicts and score, updated time moves forward
	w = doRequest(t, router, "PUT", "/jobs/0", "")
	if w.Code != http.StatusOK {
		t.Fatal("job rerun failed: ", w.Body.String())
	}
	var jRerun db.JobRow
	decodeBody(t, w, &jRerun)
	if jRerun.JobId != 0 || jRerun.Result != db.AcceptedResult || jRerun.Score != 100 {
		t.Errorf("expected rerun accepted job 0 score 100 return %v", jRerun)
	}
	if jRerun.CreatedTime != job.CreatedTime {
		t.Errorf("expected created time unchanged return %s", jRerun.CreatedTime)
	}

	w = doRequest(t, router, "PUT", "/jobs/9", "")
	checkApiError(t, w, http.StatusNotFound, errNotFoundCode)

	// rank list of the global contest
	w = doRequest(t, router, "GET", "/contests/0/ranklist", "")
	if w.Code != http.StatusOK {
		t.Fatal("ranklist failed: ", w.Body.String())
	}
	var rows []RankRow
	decodeBody(t, w, &rows)
	if len(rows) != 1 || rows[0].User.UserId != 0 || rows[0].Rank != 1 || rows[0].Scores[0] != 100 {
		t.Errorf("expected root rank 1 score 100 return %v", rows)
	}

	w = doRequest(t, router, "GET", "/contests/0/ranklist?scoring_rule=nosuch", "")
	checkApiError(t, w, http.StatusBadRequest, errInvalidArgumentCode)
}

func TestJobContestRules(t *testing.T) {
	setupJudgeTest(t)
	dir := t.TempDir()

	inp := writeTestFile(t, dir, "1.in", "")
	ans := writeTestFile(t, dir, "1.ans", "hello\n")

	cfg := &config.JudgeConfig{
		Problems: []config.Problem{
			{Id: 0, Type: config.StandardProblem, Cases: []config.Case{
				{Score: 100, InputFile: inp, AnswerFile: ans, TimeLimit: 10000000},
			}},
			{Id: 2, Type: config.StandardProblem, Cases: []config.Case{
				{Score: 100, InputFile: inp, AnswerFile: ans, TimeLimit: 10000000},
			}},
		},
		Languages: []config.Language{shLang},
	}
	router := newTestServer(t, cfg, "jobContestTest")

	doRequest(t, router, "POST", "/users", `{"name":"alice"}`)

	// contest open until year 2999 with submission limit 1, only alice and problem 0 enrolled
	w := doRequest(t, router, "POST", "/contests", `{"name":"weekly","from":"2022-01-01T00:00:00.000Z","to":"2999-01-01T00:00:00.000Z","problem_ids":[0],"user_ids":[1],"submission_limit":1}`)
	if w.Code != http.StatusOK {
		t.Fatal("contest create failed: ", w.Body.String())
	}

	// already closed contest: window ended in 2001
	w = doRequest(t, router, "POST", "/contests", `{"name":"closed","from":"2000-01-01T00:00:00.000Z","to":"2001-01-01T00:00:00.000Z","problem_ids":[0],"user_ids":[1],"submission_limit":0}`)
	if w.Code != http.StatusOK {
		t.Fatal("contest create failed: ", w.Body.String())
	}

	// unknown contest
	w = doRequest(t, router, "POST", "/jobs", `{"source_code":"#!/bin/sh\necho hello\n","language":"Shell","user_id":1,"contest_id":9,"problem_id":0}`)
	checkApiError(t, w, http.StatusNotFound, errNotFoundCode)

	// root is not enrolled
	w = doRequest(t, router, "POST", "/jobs", `{"source_code":"#!/bin/sh\necho hello\n","language":"Shell","user_id":0,"contest_id":1,"problem_id":0}`)
	checkApiError(t, w, http.StatusBadRequest, errInvalidArgumentCode)

	// problem 2 exists in the catalog but is not in the contest
	w = doRequest(t, router, "POST", "/jobs", `{"source_code":"#!/bin/sh\necho hello\n","language":"Shell","user_id":1,"contest_id":1,"problem_id":2}`)
	checkApiError(t, w, http.StatusBadRequest, errInvalidArgumentCode)

	// submission outside of the contest time window
	w = doRequest(t, router, "POST", "/jobs", `{"source_code":"#!/bin/sh\necho hello\n","language":"Shell","user_id":1,"contest_id":2,"problem_id":0}`)
	checkApiError(t, w, http.StatusBadRequest, errInvalidArgumentCode)

	// alice submits within the limit
	w = doRequest(t, router, "POST", "/jobs", `{"source_code":"#!/bin/sh\necho hello\n","language":"Shell","user_id":1,"contest_id":1,"problem_id":0}`)
	if w.Code != http.StatusOK {
		t.Fatal("contest submit failed: ", w.Body.String())
	}

	// submission limit reached
	w = doRequest(t, router, "POST", "/jobs", `{"source_code":"#!/bin/sh\necho hello\n","language":"Shell","user_id":1,"contest_id":1,"problem_id":0}`)
	checkApiError(t, w, http.StatusBadRequest, errInvalidArgumentCode)
}
