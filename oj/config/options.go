// Copyright (c) 2022 OpenOJ
// This code is licensed under the MIT license (see LICENSE.txt for details)

/*
Package config to merge run options: command line arguments and judge configuration document.
Command line arguments control the process (listen address override, log settings),
the configuration document describes the problem catalog and language toolchains.
*/
package config

import (
	"flag"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/openoj/go/oj/helper"
)

/* Log config keys.
Log can be enabled/disabled for two independent streams:
    console  => standard output stream
    log file => log file, truncated on every run, (optional) unique "stamped" name
"Stamped" file name produced by adding time-stamp and/or pid-stamp, i.e.:
  exeName.log => exeName_20120817_160459_0148.1234.log
*/
const (
	LogToConsole      = "OpenOJ.LogToConsole"    // if true then log to standard output
	LogToConsoleShort = "v"                      // if true then log to standard output (short form)
	LogToFile         = "OpenOJ.LogToFile"       // if true then log to file
	LogFilePath       = "OpenOJ.LogFilePath"     // log file path, default = current/dir/exeName.log
	LogUseTs          = "OpenOJ.LogUseTimeStamp" // if true then use time-stamp in log file name
	LogUsePid         = "OpenOJ.LogUsePidStamp"  // if true then use pid-stamp in log file name
	LogNoMsgTime      = "OpenOJ.LogNoMsgTime"    // if true then do not prefix log messages with date-time
	LogSql            = "OpenOJ.LogSql"          // if true then log sql statements into log file
)

// RunOptions is (key,value) map of command line arguments.
type RunOptions struct {
	KeyValue        map[string]string // (key=>value) from command line arguments
	DefaultKeyValue map[string]string // default (key=>value), if non-empty default for command line argument
}

// LogOptions for console and log file output
type LogOptions struct {
	LogPath     string // path to log file
	IsConsole   bool   // if true then log to standard output, default: true
	IsFile      bool   // if true then log to file
	IsNoMsgTime bool   // if true then do not prefix log messages with date-time
	IsLogSql    bool   // if true then log sql statements
	TimeStamp   string // log timestamp string, ie: 20120817_160459_0148
}

// FullShort is pair of full option name and short option name
type FullShort struct {
	Full  string // full option name
	Short string // short option name
}

// New process command-line arguments.
// Application-specific flags must be registered by the caller before the call.
// Return run options, log options and the list of unrecognized extra arguments.
func New(optFs []FullShort) (*RunOptions, *LogOptions, []string, error) {

	runOpts := &RunOptions{
		KeyValue:        make(map[string]string),
		DefaultKeyValue: make(map[string]string),
	}
	logOpts := &LogOptions{
		IsConsole: true,
		TimeStamp: helper.MakeTimeStamp(time.Now()),
	}

	addStandardFlags(logOpts) // add "standard" log config options

	// parse command line arguments
	flag.Parse()

	// collect values of explicitly set command-line arguments
	flag.Visit(func(f *flag.Flag) {
		if f.Name == LogToConsole || f.Name == LogToConsoleShort {
			runOpts.KeyValue[LogToConsole] = strconv.FormatBool(logOpts.IsConsole)
			return
		}
		for _, fs := range optFs {
			if f.Name == fs.Full || f.Name == fs.Short {
				runOpts.KeyValue[fs.Full] = f.Value.String()
				return
			}
		}
		runOpts.KeyValue[f.Name] = f.Value.String()
	})

	// set default (key,value) from flag defaults if not empty
	flag.VisitAll(func(f *flag.Flag) {
		if f.DefValue == "" {
			return
		}
		n := f.Name
		if n == LogToConsoleShort {
			n = LogToConsole
		}
		for _, fs := range optFs {
			if n == fs.Short {
				n = fs.Full
			}
		}
		if runOpts.DefaultKeyValue[n] == "" {
			runOpts.DefaultKeyValue[n] = f.DefValue
		}
	})

	// adjust log settings
	adjustLogOptions(runOpts, logOpts)
	return runOpts, logOpts, flag.Args(), nil
}

// IsExist return true if key is defined as command line argument.
func (opts *RunOptions) IsExist(key string) bool {
	if opts == nil || opts.KeyValue == nil {
		return false
	}
	_, ok := opts.KeyValue[key]
	return ok
}

// String return value by key.
// It can be defined as command line argument or command line default
func (opts *RunOptions) String(key string) string {
	val, _, _ := opts.StringExist(key)
	return val
}

// StringExist return value by key and boolean flags:
// isExist=true if value defined as command line argument,
// isDefault=true if value defined as non-empty default for command line argument.
func (opts *RunOptions) StringExist(key string) (val string, isExist, isDefaultArg bool) {
	if opts == nil || opts.KeyValue == nil {
		return "", false, false
	}
	if val, isExist = opts.KeyValue[key]; isExist {
		return val, isExist, false
	}

	val, isDefaultArg = opts.DefaultKeyValue[key]
	return val, false, isDefaultArg
}

// Bool return boolean value by key.
// If value not defined by command line argument
// or cannot be converted to boolean (see strconv.ParseBool) then return false
func (opts *RunOptions) Bool(key string) bool {
	sVal, isExist, _ := opts.StringExist(key)
	if !isExist || sVal == "" {
		return false
	}
	if val, err := strconv.ParseBool(sVal); err == nil {
		return val
	}
	return false
}

// Int return integer value by key.
// If value not defined by command line argument
// or cannot be converted to integer then default is returned
func (opts *RunOptions) Int(key string, defaultValue int) int {
	sVal, isExist, _ := opts.StringExist(key)
	if !isExist || sVal == "" {
		return defaultValue
	}
	if val, err := strconv.Atoi(sVal); err == nil {
		return val
	}
	return defaultValue
}

// add "standard" log config options to command line arguments
func addStandardFlags(logOpts *LogOptions) {

	flag.BoolVar(&logOpts.IsConsole, LogToConsole, true, "if true then log to standard output")
	flag.BoolVar(&logOpts.IsConsole, LogToConsoleShort, true, "if true then log to standard output (short of "+LogToConsole+")")
	flag.BoolVar(&logOpts.IsFile, LogToFile, false, "if true then log to file")
	flag.StringVar(&logOpts.LogPath, LogFilePath, "", "path to log file")
	_ = flag.Bool(LogUseTs, false, "if true then use time-stamp in log file name")
	_ = flag.Bool(LogUsePid, false, "if true then use pid-stamp in log file name")
	flag.BoolVar(&logOpts.IsNoMsgTime, LogNoMsgTime, false, "if true then do not prefix log messages with date-time")
	flag.BoolVar(&logOpts.IsLogSql, LogSql, false, "if true then log sql statements into log file")
}

// adjust log settings by merging command line arguments
// make sure if LogToFile then log file path is defined and vice versa
// make "stamped" log file name, if required, by adding time-stamp and/or pid-stamp, i.e.:
//
//	exeName.log => exeName_20120817_160459_0148.1234.log
func adjustLogOptions(runOpts *RunOptions, logOpts *LogOptions) {

	// if log file path is not empty then LogToFile must be true
	if logOpts.LogPath != "" || logOpts.IsFile || runOpts.Bool(LogToFile) || runOpts.Bool(LogSql) {
		logOpts.IsFile = true
		runOpts.KeyValue[LogToFile] = strconv.FormatBool(logOpts.IsFile)
	}

	// if LogToFile is true then log file path must not be empty
	if logOpts.IsFile && logOpts.LogPath == "" {

		logOpts.LogPath = runOpts.String(LogFilePath)

		// use exeName.log as default
		if logOpts.LogPath == "" {
			_, exeName := filepath.Split(os.Args[0])
			ext := filepath.Ext(exeName)
			if ext != "" {
				exeName = exeName[:len(exeName)-len(ext)]
			}
			logOpts.LogPath = exeName + ".log"
		}
	}

	// update log settings from command line arguments
	logOpts.IsConsole = !runOpts.IsExist(LogToConsole) || runOpts.Bool(LogToConsole)
	logOpts.IsNoMsgTime = runOpts.Bool(LogNoMsgTime)
	logOpts.IsLogSql = runOpts.Bool(LogSql)

	// update file name with time stamp and pid stamp, if required:
	// exeName.log => exeName_20120817_160459_0148.1234.log
	isTs := logOpts.IsFile && runOpts.Bool(LogUseTs)
	isPid := logOpts.IsFile && runOpts.Bool(LogUsePid)

	if isTs || isPid {

		dir, fName := filepath.Split(logOpts.LogPath)
		ext := filepath.Ext(fName)
		if ext != "" {
			fName = fName[:len(fName)-len(ext)]
		}
		if isTs {
			fName += "_" + logOpts.TimeStamp
		}
		if isPid {
			fName += "." + strconv.Itoa(os.Getpid())
		}
		logOpts.LogPath = filepath.Join(dir, fName+ext)
	}
	runOpts.KeyValue[LogFilePath] = logOpts.LogPath // update value of log file name in run options
}
