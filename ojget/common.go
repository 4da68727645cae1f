// Copyright (c) 2022 OpenOJ
// This code is licensed under the MIT license (see LICENSE.txt for details)

package main

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"runtime"

	"github.com/openoj/go/oj/helper"
)

// return row []string or isEof = true
type rowConverter func() (isEof bool, row []string, err error)

// getJson fetch apiPath from the judge server and decode json response into dst.
// Response body of a failed request is returned as the error text.
func getJson(apiPath string, dst interface{}) error {

	rsp, err := http.Get(theCfg.url + apiPath)
	if err != nil {
		return err
	}
	defer rsp.Body.Close()

	if rsp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(rsp.Body)
		return errors.New("Error at " + apiPath + ": " + rsp.Status + " " + string(b))
	}
	if err := json.NewDecoder(rsp.Body).Decode(dst); err != nil {
		return errors.New("Json decode error at " + apiPath + ": " + err.Error())
	}
	return nil
}

// write src as indented json into output file, if specified, and to console
func toJsonOutput(src interface{}) error {

	s, err := helper.ToJsonIndent(src)
	if err != nil {
		return errors.New("Json encode error: " + err.Error())
	}
	fmt.Println(s)

	if theCfg.fileName != "" {
		return helper.ToJsonIndentFile(theCfg.fileName, src)
	}
	return nil
}

// write csv lines into output file, if specified, and to console
func toCsvOutput(columnNames []string, lineCvt rowConverter) error {

	// create csv file
	isFile := theCfg.fileName != ""
	var f *os.File
	var err error

	if isFile {
		f, err = os.OpenFile(theCfg.fileName, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
		if err != nil {
			return err
		}
		defer f.Close()
	}

	// create csv writers to file and to console
	var wr *csv.Writer

	if isFile {
		wr = csv.NewWriter(f)
	}
	cw := csv.NewWriter(os.Stdout)
	if runtime.GOOS == "windows" {
		cw.UseCRLF = true
	}

	// write header line: column names
	isConsole := true

	if len(columnNames) > 0 {
		err = cw.Write(columnNames)
		isConsole = err == nil

		if isFile {
			if err = wr.Write(columnNames); err != nil {
				return err
			}
		}
	}

	// write csv lines until eof
	for {
		isEof, row, err := lineCvt()
		if err != nil {
			return err
		}
		if isEof {
			break
		}
		if isConsole {
			err = cw.Write(row)
			isConsole = err == nil
			if !isConsole && !isFile {
				return err
			}
		}
		if isFile {
			if err = wr.Write(row); err != nil {
				return err
			}
		}
	}

	// flush and return error, if any
	if isConsole {
		cw.Flush()
	}
	if isFile {
		wr.Flush()
		return wr.Error()
	}
	return nil
}
