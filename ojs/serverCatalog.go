// Copyright (c) 2022 OpenOJ
// This code is licensed under the MIT license (see LICENSE.txt for details)

package main

import (
	"database/sql"
	"sync"

	"github.com/openoj/go/oj/config"
)

// ServerCatalog is the server scope passed to request handlers:
// immutable judge configuration, state database connection and locks.
//
// theLock guards the short append or replace critical sections of the
// state database: id assignment and the name collision checks must be
// atomic with the insert.
//
// judgeLock serializes judging: the scratch directory is process-wide,
// at most one submission can be judged at a time. It is held from
// scratch directory creation through teardown.
type ServerCatalog struct {
	cfg       *config.JudgeConfig // judge configuration, read-only after startup
	dbConn    *sql.DB             // state database connection
	theLock   sync.Mutex          // state database write lock
	judgeLock sync.Mutex          // global judging lock
}

// NewServerCatalog create new server catalog with loaded configuration and open state database.
func NewServerCatalog(cfg *config.JudgeConfig, dbConn *sql.DB) *ServerCatalog {
	return &ServerCatalog{
		cfg:    cfg,
		dbConn: dbConn,
	}
}
