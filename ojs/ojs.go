// Copyright (c) 2022 OpenOJ
// This code is licensed under the MIT license (see LICENSE.txt for details)

// ojs is an online judge server: http web-service to accept source code
// submissions, judge each one against the configured problem catalog
// and expose the job history, users, contests and rank lists.
package main

import (
	"errors"
	"flag"
	"net/http"
	"os"
	"strings"

	"github.com/husobee/vestigo"

	"github.com/openoj/go/oj/config"
	"github.com/openoj/go/oj/db"
	"github.com/openoj/go/oj/ojLog"
)

// config keys to get values from command line arguments.
const (
	configArgKey     = "config"         // path to judge configuration document, required
	configShortKey   = "c"              // path to judge configuration document (short form)
	flushDataArgKey  = "flush-data"     // reserved: accepted and ignored, state database is in-memory
	logRequestArgKey = "ojs.LogRequest" // if true then log http request
)

// main entry point: wrapper to handle errors
func main() {
	defer exitOnPanic() // fatal error handler: log and exit

	err := mainBody(os.Args)
	if err != nil {
		ojLog.Log(err.Error())
		os.Exit(1)
	}
	ojLog.Log("Done.") // compeleted OK
}

// actual main body
func mainBody(args []string) error {

	// set command line argument keys
	_ = flag.String(configArgKey, "", "path to judge configuration document")
	_ = flag.String(configShortKey, "", "path to judge configuration document (short of "+configArgKey+")")
	_ = flag.Bool(flushDataArgKey, false, "reserved: clear stored state before start")
	_ = flag.Bool(logRequestArgKey, false, "if true then log HTTP requests")

	// pairs of full and short argument names to map short name to full name
	var optFs = []config.FullShort{
		{Full: configArgKey, Short: configShortKey},
	}

	// parse command line arguments
	runOpts, logOpts, extraArgs, err := config.New(optFs)
	if err != nil {
		return errors.New("Invalid arguments: " + err.Error())
	}
	if len(extraArgs) > 0 {
		return errors.New("Invalid arguments: " + strings.Join(extraArgs, " "))
	}
	ojLog.New(logOpts)

	isLogRequest = runOpts.Bool(logRequestArgKey)

	// state database is in-memory and always starts empty
	if runOpts.Bool(flushDataArgKey) {
		ojLog.Log("Flush data: nothing to do, state database is not persistent")
	}

	// judge configuration document required: problem catalog and language toolchains
	cfgPath := runOpts.String(configArgKey)
	if cfgPath == "" {
		return errors.New("Error: configuration file argument cannot be empty")
	}
	cfg, err := config.ReadJudgeConfig(cfgPath)
	if err != nil {
		return err
	}
	ojLog.Log("Configuration: ", cfgPath)

	// open state database and create judge state schema
	dbConn, err := db.Open("")
	if err != nil {
		return errors.New("Error at state database open: " + err.Error())
	}
	defer db.CloseDb(dbConn)

	if err := db.CreateStateSchema(dbConn); err != nil {
		return errors.New("Error at state database initialization: " + err.Error())
	}

	theCatalog := NewServerCatalog(cfg, dbConn)

	// setup router and start server
	router := vestigo.NewRouter()

	apiGetRoutes(router, theCatalog)  // get web-service routes
	apiPostRoutes(router, theCatalog) // post and put web-service routes

	addr := cfg.Addr()
	ojLog.Log("Listen at " + addr)
	ojLog.Log("To finish press Ctrl+C")

	err = http.ListenAndServe(addr, router)
	return err
}

// exitOnPanic log error message and exit with return = 2
func exitOnPanic() {
	r := recover()
	if r == nil {
		return // not in panic
	}
	switch e := r.(type) {
	case error:
		ojLog.Log(e.Error())
	case string:
		ojLog.Log(e)
	default:
		ojLog.Log("FAILED")
	}
	os.Exit(2) // final exit
}

// add http GET routes to web-service
func apiGetRoutes(router *vestigo.Router, sc *ServerCatalog) {

	// GET /jobs
	// GET /jobs?user_id=0&problem_id=0&language=Rust&state=Finished&result=Accepted
	router.Get("/jobs", sc.jobListHandler, logRequest)

	// GET /jobs/:id
	router.Get("/jobs/:id", sc.jobGetHandler, logRequest)

	// GET /users
	router.Get("/users", sc.userListHandler, logRequest)

	// GET /contests
	router.Get("/contests", sc.contestListHandler, logRequest)

	// GET /contests/:id
	router.Get("/contests/:id", sc.contestGetHandler, logRequest)

	// GET /contests/:id/ranklist?scoring_rule=highest&tie_breaker=submission_count
	router.Get("/contests/:id/ranklist", sc.ranklistHandler, logRequest)
}

// add http POST and PUT routes to web-service
func apiPostRoutes(router *vestigo.Router, sc *ServerCatalog) {

	// POST /jobs
	router.Post("/jobs", sc.jobSubmitHandler, logRequest)

	// PUT /jobs/:id
	router.Put("/jobs/:id", sc.jobRerunHandler, logRequest)

	// POST /users
	router.Post("/users", sc.userPostHandler, logRequest)

	// POST /contests
	router.Post("/contests", sc.contestPostHandler, logRequest)

	// POST /internal/exit
	router.Post("/internal/exit", sc.exitHandler, logRequest)
}
