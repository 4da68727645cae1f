// Copyright (c) 2022 OpenOJ
// This code is licensed under the MIT license (see LICENSE.txt for details)

package main

import (
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/text/number"

	"github.com/openoj/go/oj/db"
)

// rank list row of the judge server wire format
type rankRow struct {
	User            db.UserRow `json:"user"`
	Rank            int        `json:"rank"`
	Scores          []float64  `json:"scores"`
	SubmissionCount int        `json:"submission_count"`
}

// fmtScore return score as locale-aware decimal string
func fmtScore(score float64) string {
	return theCfg.printer.Sprint(number.Decimal(score, number.MaxFractionDigits(6)))
}

// joinIds return id list as space separated string for csv cell
func joinIds(ids []int) string {
	sLst := make([]string, len(ids))
	for k := range ids {
		sLst[k] = strconv.Itoa(ids[k])
	}
	return strings.Join(sLst, " ")
}

// jobList get all jobs from the judge server and write csv or json output
func jobList() error {

	jLst := []db.JobRow{}
	if err := getJson("/jobs", &jLst); err != nil {
		return err
	}
	if theCfg.kind == asJson {
		return toJsonOutput(jLst)
	}

	row := make([]string, 10)
	k := 0

	return toCsvOutput(
		[]string{"job_id", "created_time", "updated_time", "user_id", "contest_id", "problem_id", "language", "state", "result", "score"},
		func() (bool, []string, error) {
			if k >= len(jLst) {
				return true, row, nil // end of job rows
			}
			j := &jLst[k]
			row[0] = strconv.Itoa(j.JobId)
			row[1] = j.CreatedTime
			row[2] = j.UpdatedTime
			row[3] = strconv.Itoa(j.Submission.UserId)
			row[4] = strconv.Itoa(j.Submission.ContestId)
			row[5] = strconv.Itoa(j.Submission.ProblemId)
			row[6] = j.Submission.Language
			row[7] = j.State
			row[8] = j.Result
			row[9] = fmtScore(j.Score)
			k++
			return false, row, nil
		})
}

// userList get all users from the judge server and write csv or json output
func userList() error {

	uLst := []db.UserRow{}
	if err := getJson("/users", &uLst); err != nil {
		return err
	}
	if theCfg.kind == asJson {
		return toJsonOutput(uLst)
	}

	row := make([]string, 2)
	k := 0

	return toCsvOutput(
		[]string{"user_id", "user_name"},
		func() (bool, []string, error) {
			if k >= len(uLst) {
				return true, row, nil // end of user rows
			}
			row[0] = strconv.Itoa(uLst[k].UserId)
			row[1] = uLst[k].Name
			k++
			return false, row, nil
		})
}

// contestList get all contests from the judge server and write csv or json output
func contestList() error {

	cLst := []db.ContestRow{}
	if err := getJson("/contests", &cLst); err != nil {
		return err
	}
	if theCfg.kind == asJson {
		return toJsonOutput(cLst)
	}

	row := make([]string, 7)
	k := 0

	return toCsvOutput(
		[]string{"contest_id", "name", "from", "to", "problem_ids", "user_ids", "submission_limit"},
		func() (bool, []string, error) {
			if k >= len(cLst) {
				return true, row, nil // end of contest rows
			}
			c := &cLst[k]
			row[0] = strconv.Itoa(c.ContestId)
			row[1] = c.Name
			row[2] = c.From
			row[3] = c.To
			row[4] = joinIds(c.ProblemIds)
			row[5] = joinIds(c.UserIds)
			row[6] = strconv.Itoa(c.SubmissionLimit)
			k++
			return false, row, nil
		})
}

// rankList get the rank list of the contest and write csv or json output
func rankList(contestId int, rule string, breaker string) error {

	q := url.Values{}
	if rule != "" {
		q.Set("scoring_rule", rule)
	}
	if breaker != "" {
		q.Set("tie_breaker", breaker)
	}
	apiPath := "/contests/" + strconv.Itoa(contestId) + "/ranklist"
	if len(q) > 0 {
		apiPath += "?" + q.Encode()
	}

	rLst := []rankRow{}
	if err := getJson(apiPath, &rLst); err != nil {
		return err
	}
	if theCfg.kind == asJson {
		return toJsonOutput(rLst)
	}

	row := make([]string, 6)
	k := 0

	return toCsvOutput(
		[]string{"rank", "user_id", "user_name", "total_score", "submission_count", "scores"},
		func() (bool, []string, error) {
			if k >= len(rLst) {
				return true, row, nil // end of rank rows
			}
			r := &rLst[k]

			total := 0.0
			sLst := make([]string, len(r.Scores))
			for j, s := range r.Scores {
				total += s
				sLst[j] = fmtScore(s)
			}

			row[0] = strconv.Itoa(r.Rank)
			row[1] = strconv.Itoa(r.User.UserId)
			row[2] = r.User.Name
			row[3] = fmtScore(total)
			row[4] = strconv.Itoa(r.SubmissionCount)
			row[5] = strings.Join(sLst, " ")
			k++
			return false, row, nil
		})
}
