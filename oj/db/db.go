// Copyright (c) 2022 OpenOJ
// This code is licensed under the MIT license (see LICENSE.txt for details)

/*
Package db to support judge server state database operations.

State database holds users, contests and finalized jobs of the judge server.
It is an in-memory SQLite database created at startup: the state dies with
the process, there is no persistence across restarts.
*/
package db

import (
	"database/sql"
	"errors"

	_ "github.com/mattn/go-sqlite3"

	"github.com/openoj/go/oj/ojLog"
)

// Database connection values
const (
	Sqlite3DbDriver = "sqlite3"                              // SQLite db driver name
	MemoryDbConnStr = "file:ojstate?mode=memory&cache=shared" // default in-memory state database
)

// Open state database connection.
//
// Connection string expected to be in sqlite3 format, default is in-memory database:
//
//	file:ojstate?mode=memory&cache=shared
//
// If connection string empty then default in-memory database used.
func Open(dbConnStr string) (*sql.DB, error) {

	if dbConnStr == "" {
		dbConnStr = MemoryDbConnStr
	}
	ojLog.LogSql("Connect to " + Sqlite3DbDriver + ": " + dbConnStr)

	dbConn, err := sql.Open(Sqlite3DbDriver, dbConnStr)
	if err != nil {
		return nil, err
	}

	// single connection keeps shared in-memory database alive
	// and avoids database lock issues with SQLITE_THREADSAFE=1
	dbConn.SetMaxOpenConns(1)
	dbConn.SetMaxIdleConns(1)

	if err = dbConn.Ping(); err != nil {
		dbConn.Close()
		return nil, err
	}
	return dbConn, nil
}

// CloseDb close db connection and log error if any
func CloseDb(dbConn *sql.DB) {
	if dbConn == nil {
		return
	}
	if err := dbConn.Close(); err != nil {
		ojLog.Log("Error at db close: ", err)
	}
}

// SelectFirst select first db row and pass it to cvt() for row.Scan()
func SelectFirst(dbConn *sql.DB, query string, cvt func(row *sql.Row) error, args ...interface{}) error {
	if dbConn == nil {
		return errors.New("invalid database connection")
	}
	ojLog.LogSql(query)
	return cvt(dbConn.QueryRow(query, args...))
}

// SelectRows select db rows and pass each to cvt() for rows.Scan()
func SelectRows(dbConn *sql.DB, query string, cvt func(rows *sql.Rows) error, args ...interface{}) error {

	if dbConn == nil {
		return errors.New("invalid database connection")
	}
	ojLog.LogSql(query)

	rows, err := dbConn.Query(query, args...) // query db rows
	if err != nil {
		return err
	}
	defer rows.Close()

	// process each row
	for rows.Next() {
		if err = cvt(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

// Update execute sql query outside of transaction scope
func Update(dbConn *sql.DB, query string, args ...interface{}) error {
	if dbConn == nil {
		return errors.New("invalid database connection")
	}
	ojLog.LogSql(query)

	_, err := dbConn.Exec(query, args...)
	return err
}

// TrxSelectFirst select first db row in transaction scope and pass it to cvt() for row.Scan()
func TrxSelectFirst(dbTrx *sql.Tx, query string, cvt func(row *sql.Row) error, args ...interface{}) error {
	if dbTrx == nil {
		return errors.New("invalid database transaction")
	}
	ojLog.LogSql(query)
	return cvt(dbTrx.QueryRow(query, args...))
}

// TrxUpdate execute sql query in transaction scope
func TrxUpdate(dbTrx *sql.Tx, query string, args ...interface{}) error {
	if dbTrx == nil {
		return errors.New("invalid database transaction")
	}
	ojLog.LogSql(query)

	_, err := dbTrx.Exec(query, args...)
	return err
}
