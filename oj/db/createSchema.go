// Copyright (c) 2022 OpenOJ
// This code is licensed under the MIT license (see LICENSE.txt for details)

package db

import (
	"database/sql"
	"encoding/json"
)

// CreateStateSchema create judge state tables if not exist
// and seed the root user and the reserved global contest.
func CreateStateSchema(dbConn *sql.DB) error {

	qLst := []string{
		"CREATE TABLE IF NOT EXISTS oj_user (" +
			" user_id   INTEGER PRIMARY KEY," +
			" user_name TEXT NOT NULL UNIQUE" +
			")",
		"CREATE TABLE IF NOT EXISTS oj_contest (" +
			" contest_id   INTEGER PRIMARY KEY," +
			" contest_json TEXT NOT NULL" +
			")",
		"CREATE TABLE IF NOT EXISTS oj_job (" +
			" job_id       INTEGER PRIMARY KEY," +
			" created_time TEXT NOT NULL," +
			" user_id      INT NOT NULL," +
			" contest_id   INT NOT NULL," +
			" problem_id   INT NOT NULL," +
			" language     TEXT NOT NULL," +
			" state        TEXT NOT NULL," +
			" result       TEXT NOT NULL," +
			" job_json     TEXT NOT NULL," +
			" score_vec    TEXT NOT NULL" +
			")",
	}
	for _, q := range qLst {
		if err := Update(dbConn, q); err != nil {
			return err
		}
	}

	// seed user 0: root
	err := Update(dbConn,
		"INSERT OR IGNORE INTO oj_user (user_id, user_name) VALUES (0, 'root')")
	if err != nil {
		return err
	}

	// seed contest 0: the implicit global contest
	gc := ContestRow{
		ContestId:  0,
		ProblemIds: []int{},
		UserIds:    []int{},
	}
	cj, err := json.Marshal(gc)
	if err != nil {
		return err
	}
	return Update(dbConn,
		"INSERT OR IGNORE INTO oj_contest (contest_id, contest_json) VALUES (0, ?)", string(cj))
}
