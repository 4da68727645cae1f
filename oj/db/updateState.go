// Copyright (c) 2022 OpenOJ
// This code is licensed under the MIT license (see LICENSE.txt for details)

package db

import (
	"database/sql"
	"encoding/json"
)

// InsertUser append new user with id = (last user id + 1) and return the stored row.
// Id assignment and insert done in single transaction.
func InsertUser(dbConn *sql.DB, name string) (UserRow, error) {

	r := UserRow{Name: name}

	trx, err := dbConn.Begin()
	if err != nil {
		return r, err
	}

	// user ids are dense: next id is row count
	err = TrxSelectFirst(trx,
		"SELECT COUNT(*) FROM oj_user",
		func(row *sql.Row) error {
			return row.Scan(&r.UserId)
		})
	if err != nil {
		trx.Rollback()
		return r, err
	}

	err = TrxUpdate(trx,
		"INSERT INTO oj_user (user_id, user_name) VALUES (?, ?)", r.UserId, r.Name)
	if err != nil {
		trx.Rollback()
		return r, err
	}
	return r, trx.Commit()
}

// UpdateUserName rename existing user.
func UpdateUserName(dbConn *sql.DB, userId int, name string) error {
	return Update(dbConn,
		"UPDATE oj_user SET user_name = ? WHERE user_id = ?", name, userId)
}

// InsertContest append new contest with id = number of contests and return assigned id.
// Id assignment and insert done in single transaction.
func InsertContest(dbConn *sql.DB, c *ContestRow) error {

	trx, err := dbConn.Begin()
	if err != nil {
		return err
	}

	// contest ids are dense, the reserved contest 0 included: next id is row count
	err = TrxSelectFirst(trx,
		"SELECT COUNT(*) FROM oj_contest",
		func(row *sql.Row) error {
			return row.Scan(&c.ContestId)
		})
	if err != nil {
		trx.Rollback()
		return err
	}

	cj, err := json.Marshal(c)
	if err != nil {
		trx.Rollback()
		return err
	}
	err = TrxUpdate(trx,
		"INSERT INTO oj_contest (contest_id, contest_json) VALUES (?, ?)", c.ContestId, string(cj))
	if err != nil {
		trx.Rollback()
		return err
	}
	return trx.Commit()
}

// UpdateContest replace existing contest.
func UpdateContest(dbConn *sql.DB, c *ContestRow) error {

	cj, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return Update(dbConn,
		"UPDATE oj_contest SET contest_json = ? WHERE contest_id = ?", string(cj), c.ContestId)
}

// InsertJob append finalized job with id = number of jobs and return assigned id.
// Id assignment and insert done in single transaction: job ids are dense and
// ordering by id equals ordering by finalization.
func InsertJob(dbConn *sql.DB, job *JobRow) error {

	trx, err := dbConn.Begin()
	if err != nil {
		return err
	}

	err = TrxSelectFirst(trx,
		"SELECT COUNT(*) FROM oj_job",
		func(row *sql.Row) error {
			return row.Scan(&job.JobId)
		})
	if err != nil {
		trx.Rollback()
		return err
	}

	jj, sv, err := jobJson(job)
	if err != nil {
		trx.Rollback()
		return err
	}
	err = TrxUpdate(trx,
		"INSERT INTO oj_job"+
			" (job_id, created_time, user_id, contest_id, problem_id, language, state, result, job_json, score_vec)"+
			" VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		job.JobId, job.CreatedTime,
		job.Submission.UserId, job.Submission.ContestId, job.Submission.ProblemId, job.Submission.Language,
		job.State, job.Result, jj, sv)
	if err != nil {
		trx.Rollback()
		return err
	}
	return trx.Commit()
}

// UpdateJob replace existing job in place: same id, same submission, new judging outcome.
func UpdateJob(dbConn *sql.DB, job *JobRow) error {

	jj, sv, err := jobJson(job)
	if err != nil {
		return err
	}
	return Update(dbConn,
		"UPDATE oj_job SET state = ?, result = ?, job_json = ?, score_vec = ? WHERE job_id = ?",
		job.State, job.Result, jj, sv, job.JobId)
}

// encode job document and score vector into json column values
func jobJson(job *JobRow) (string, string, error) {

	jj, err := json.Marshal(job)
	if err != nil {
		return "", "", err
	}
	sVec := job.ScoreVec
	if sVec == nil {
		sVec = []float64{}
	}
	sv, err := json.Marshal(sVec)
	if err != nil {
		return "", "", err
	}
	return string(jj), string(sv), nil
}
