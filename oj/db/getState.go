// Copyright (c) 2022 OpenOJ
// This code is licensed under the MIT license (see LICENSE.txt for details)

package db

import (
	"database/sql"
	"encoding/json"
)

// SelectUser return user row by id and true if user found.
func SelectUser(dbConn *sql.DB, userId int) (UserRow, bool, error) {

	var r UserRow

	err := SelectFirst(dbConn,
		"SELECT user_id, user_name FROM oj_user WHERE user_id = ?",
		func(row *sql.Row) error {
			return row.Scan(&r.UserId, &r.Name)
		},
		userId)
	switch {
	case err == sql.ErrNoRows:
		return r, false, nil
	case err != nil:
		return r, false, err
	}
	return r, true, nil
}

// SelectUserByName return user row by name and true if user found.
func SelectUserByName(dbConn *sql.DB, name string) (UserRow, bool, error) {

	var r UserRow

	err := SelectFirst(dbConn,
		"SELECT user_id, user_name FROM oj_user WHERE user_name = ?",
		func(row *sql.Row) error {
			return row.Scan(&r.UserId, &r.Name)
		},
		name)
	switch {
	case err == sql.ErrNoRows:
		return r, false, nil
	case err != nil:
		return r, false, err
	}
	return r, true, nil
}

// SelectUserList return all users in user id order.
func SelectUserList(dbConn *sql.DB) ([]UserRow, error) {

	rs := []UserRow{}

	err := SelectRows(dbConn,
		"SELECT user_id, user_name FROM oj_user ORDER BY user_id",
		func(rows *sql.Rows) error {
			var r UserRow
			if err := rows.Scan(&r.UserId, &r.Name); err != nil {
				return err
			}
			rs = append(rs, r)
			return nil
		})
	if err != nil {
		return nil, err
	}
	return rs, nil
}

// SelectContest return contest row by id and true if contest found.
// Contest id 0 is the reserved global contest, it does exist.
func SelectContest(dbConn *sql.DB, contestId int) (*ContestRow, bool, error) {

	var cj string

	err := SelectFirst(dbConn,
		"SELECT contest_json FROM oj_contest WHERE contest_id = ?",
		func(row *sql.Row) error {
			return row.Scan(&cj)
		},
		contestId)
	switch {
	case err == sql.ErrNoRows:
		return nil, false, nil
	case err != nil:
		return nil, false, err
	}

	var r ContestRow
	if err := json.Unmarshal([]byte(cj), &r); err != nil {
		return nil, false, err
	}
	return &r, true, nil
}

// SelectContestList return all contests in contest id order, the reserved contest 0 excluded.
func SelectContestList(dbConn *sql.DB) ([]ContestRow, error) {

	rs := []ContestRow{}

	err := SelectRows(dbConn,
		"SELECT contest_json FROM oj_contest WHERE contest_id <> 0 ORDER BY contest_id",
		func(rows *sql.Rows) error {
			var cj string
			if err := rows.Scan(&cj); err != nil {
				return err
			}
			var r ContestRow
			if err := json.Unmarshal([]byte(cj), &r); err != nil {
				return err
			}
			rs = append(rs, r)
			return nil
		})
	if err != nil {
		return nil, err
	}
	return rs, nil
}

// SelectJob return job row by id and true if job found.
func SelectJob(dbConn *sql.DB, jobId int) (*JobRow, bool, error) {

	var jj, sv string

	err := SelectFirst(dbConn,
		"SELECT job_json, score_vec FROM oj_job WHERE job_id = ?",
		func(row *sql.Row) error {
			return row.Scan(&jj, &sv)
		},
		jobId)
	switch {
	case err == sql.ErrNoRows:
		return nil, false, nil
	case err != nil:
		return nil, false, err
	}
	return scanJob(jj, sv)
}

// SelectJobAll return all jobs in job id order: a ranking snapshot.
func SelectJobAll(dbConn *sql.DB) ([]JobRow, error) {
	return selectJobs(dbConn,
		"SELECT J.job_json, J.score_vec FROM oj_job J ORDER BY J.job_id")
}

// SelectJobList return jobs matching all filters of the query,
// sorted by created time and job id.
func SelectJobList(dbConn *sql.DB, q JobQuery) ([]JobRow, error) {

	sel := "SELECT J.job_json, J.score_vec FROM oj_job J"
	where := ""
	args := []interface{}{}

	addFlt := func(flt string, arg interface{}) {
		if where == "" {
			where = " WHERE " + flt
		} else {
			where += " AND " + flt
		}
		args = append(args, arg)
	}

	if q.UserName != nil {
		sel += " INNER JOIN oj_user U ON (U.user_id = J.user_id)"
		addFlt("U.user_name = ?", *q.UserName)
	}
	if q.UserId != nil {
		addFlt("J.user_id = ?", *q.UserId)
	}
	if q.ContestId != nil {
		addFlt("J.contest_id = ?", *q.ContestId)
	}
	if q.ProblemId != nil {
		addFlt("J.problem_id = ?", *q.ProblemId)
	}
	if q.Language != nil {
		addFlt("J.language = ?", *q.Language)
	}
	if q.From != nil {
		addFlt("J.created_time >= ?", *q.From)
	}
	if q.To != nil {
		addFlt("J.created_time <= ?", *q.To)
	}
	if q.State != nil {
		addFlt("J.state = ?", *q.State)
	}
	if q.Result != nil {
		addFlt("J.result = ?", *q.Result)
	}

	return selectJobs(dbConn, sel+where+" ORDER BY J.created_time, J.job_id", args...)
}

// SelectContestSubmissionCount return number of jobs submitted by the user into the contest.
func SelectContestSubmissionCount(dbConn *sql.DB, userId int, contestId int) (int, error) {

	var n int

	err := SelectFirst(dbConn,
		"SELECT COUNT(*) FROM oj_job WHERE user_id = ? AND contest_id = ?",
		func(row *sql.Row) error {
			return row.Scan(&n)
		},
		userId, contestId)
	if err != nil {
		return 0, err
	}
	return n, nil
}

// select job rows and decode each
func selectJobs(dbConn *sql.DB, query string, args ...interface{}) ([]JobRow, error) {

	rs := []JobRow{}

	err := SelectRows(dbConn, query,
		func(rows *sql.Rows) error {
			var jj, sv string
			if err := rows.Scan(&jj, &sv); err != nil {
				return err
			}
			j, _, err := scanJob(jj, sv)
			if err != nil {
				return err
			}
			rs = append(rs, *j)
			return nil
		},
		args...)
	if err != nil {
		return nil, err
	}
	return rs, nil
}

// decode job document and score vector from json columns
func scanJob(jobJson string, scoreVec string) (*JobRow, bool, error) {

	var r JobRow
	if err := json.Unmarshal([]byte(jobJson), &r); err != nil {
		return nil, false, err
	}
	if err := json.Unmarshal([]byte(scoreVec), &r.ScoreVec); err != nil {
		return nil, false, err
	}
	return &r, true, nil
}
