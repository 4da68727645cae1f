// Copyright (c) 2022 OpenOJ
// This code is licensed under the MIT license (see LICENSE.txt for details)

/*
ojget is command line tool to query a running judge server
and export jobs, users, contests or a rank list.

Get all jobs as csv into jobs.csv:

	ojget -do jobs
	ojget -do jobs -ojget.As json
	ojget -do jobs -f my-jobs.csv

Get the rank list of contest 1:

	ojget -do ranklist -ojget.ContestId 1
	ojget -do ranklist -ojget.ContestId 1 -ojget.ScoringRule highest -ojget.TieBreaker submission_count

Query a server on another address:

	ojget -u http://192.168.1.1:12345 -do users
*/
package main

import (
	"errors"
	"flag"
	"os"
	"strings"

	"github.com/jeandeaual/go-locale"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/openoj/go/oj/config"
	"github.com/openoj/go/oj/ojLog"
)

// ojget config keys to get values from command line arguments.
const (
	urlArgKey          = "ojget.Url"         // judge server base url
	urlShortKey        = "u"                 // judge server base url (short form)
	cmdArgKey          = "ojget.Do"          // action, what to do: jobs, users, contests, ranklist
	cmdShortKey        = "do"                // action, what to do (short form)
	contestIdArgKey    = "ojget.ContestId"   // ranklist contest id, 0 = global
	scoringRuleArgKey  = "ojget.ScoringRule" // ranklist scoring rule: latest or highest
	tieBreakerArgKey   = "ojget.TieBreaker"  // ranklist tie breaker
	asArgKey           = "ojget.As"          // output as csv or json, default: csv
	outputFileArgKey   = "ojget.ToFile"      // output file name, default: console only
	outputFileShortKey = "f"                 // output file name (short form)
	langArgKey         = "ojget.Language"    // prefered output language for number formats: fr-CA
	langShortKey       = "lang"              // prefered output language (short form)
)

// output format: csv by default or json
type outputAs int

const (
	asCsv outputAs = iota
	asJson
)

// run options
var theCfg = struct {
	url      string           // judge server base url
	action   string           // action name (what to do)
	kind     outputAs         // output as csv or json
	fileName string           // output file name, empty = console only
	userLang string           // prefered output language: fr-CA
	printer  *message.Printer // locale-aware number printer for csv scores
}{
	url:  "http://127.0.0.1:12345",
	kind: asCsv, // by default output as .csv
}

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

	_ = flag.String(urlArgKey, theCfg.url, "judge server base url")
	_ = flag.String(urlShortKey, theCfg.url, "judge server base url (short of "+urlArgKey+")")
	_ = flag.String(cmdArgKey, "", "action, what to do: jobs, users, contests, ranklist")
	_ = flag.String(cmdShortKey, "", "action, what to do (short of "+cmdArgKey+")")
	_ = flag.Int(contestIdArgKey, 0, "ranklist contest id, 0 = global rank list")
	_ = flag.String(scoringRuleArgKey, "", "ranklist scoring rule: latest or highest")
	_ = flag.String(tieBreakerArgKey, "", "ranklist tie breaker: submission_time, submission_count or user_id")
	_ = flag.String(asArgKey, "", "output as csv or json, default: csv")
	_ = flag.String(outputFileArgKey, "", "output file name, default: console only")
	_ = flag.String(outputFileShortKey, "", "output file name (short of "+outputFileArgKey+")")
	_ = flag.String(langArgKey, "", "prefered output language")
	_ = flag.String(langShortKey, "", "prefered output language (short of "+langArgKey+")")

	// pairs of full and short argument names to map short name to full name
	var optFs = []config.FullShort{
		{Full: urlArgKey, Short: urlShortKey},
		{Full: cmdArgKey, Short: cmdShortKey},
		{Full: outputFileArgKey, Short: outputFileShortKey},
		{Full: langArgKey, Short: langShortKey},
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

	theCfg.url = strings.TrimSuffix(runOpts.String(urlArgKey), "/")
	theCfg.action = runOpts.String(cmdArgKey)
	theCfg.fileName = runOpts.String(outputFileArgKey)
	theCfg.userLang = runOpts.String(langArgKey)

	switch a := strings.ToLower(runOpts.String(asArgKey)); a {
	case "", "csv":
		theCfg.kind = asCsv
	case "json":
		theCfg.kind = asJson
	default:
		return errors.New("Invalid arguments: " + asArgKey + " " + a)
	}

	// get default user language and make locale-aware number printer
	if theCfg.userLang == "" {
		if ln, e := locale.GetLocale(); e == nil {
			theCfg.userLang = ln
		} else {
			ojLog.Log("Warning: unable to get user default language")
		}
	}
	tag := language.English
	if theCfg.userLang != "" {
		if t := language.Make(theCfg.userLang); t != language.Und {
			tag = t
		}
	}
	theCfg.printer = message.NewPrinter(tag)

	// dispatch the command
	switch theCfg.action {
	case "jobs":
		return jobList()
	case "users":
		return userList()
	case "contests":
		return contestList()
	case "ranklist":
		return rankList(
			runOpts.Int(contestIdArgKey, 0), runOpts.String(scoringRuleArgKey), runOpts.String(tieBreakerArgKey))
	}
	return errors.New("Invalid action argument: " + theCfg.action)
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
