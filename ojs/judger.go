// Copyright (c) 2022 OpenOJ
// This code is licensed under the MIT license (see LICENSE.txt for details)

package main

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	ps "github.com/keybase/go-ps"

	"github.com/openoj/go/oj/config"
	"github.com/openoj/go/oj/db"
)

// scratch directory of the judging pipeline.
// It is process-wide: the caller must hold the judging lock from creation through teardown.
const scratchDir = "./TMPDIR"

// compiled artifact name inside the scratch directory
const artifactName = "main"

// judge compile the source and run the artifact against every case of the problem.
//
// Return the case result vector of length 1 + len(problem.cases) where element 0
// is the synthetic compile phase, the total score and the per-case awarded scores.
// Error returned only on system failure: scratch directory problems, spawn failures,
// unreadable case files. Compilation failure is a normal judgment outcome.
func judge(sourceCode string, problemIdx int, lang *config.Language, cfg *config.JudgeConfig) ([]db.CaseResult, float64, []float64, error) {

	prob := &cfg.Problems[problemIdx]

	// fresh scratch directory: if it already exists then previous judging left garbage behind
	if err := os.Mkdir(scratchDir, 0755); err != nil {
		return nil, 0, nil, errors.New("Error: unable to create scratch directory: " + err.Error())
	}
	defer os.RemoveAll(scratchDir)

	// write source code into scratch directory under the language file name
	srcPath := filepath.Join(scratchDir, lang.FileName)
	artPath := filepath.Join(scratchDir, artifactName)

	if err := os.WriteFile(srcPath, []byte(sourceCode), 0644); err != nil {
		return nil, 0, nil, errors.New("Error: unable to write source file: " + err.Error())
	}

	cases := make([]db.CaseResult, 0, len(prob.Cases)+1)

	// compile phase: case id 0
	cr, err := compileSource(lang, srcPath, artPath)
	if err != nil {
		return nil, 0, nil, err
	}
	cases = append(cases, cr)

	if cr.Result == db.CompileErrorResult {

		// no case can run: every case is waiting on the failed compile
		for k := range prob.Cases {
			cases = append(cases, db.CaseResult{CaseId: k + 1, Result: db.WaitingResult})
		}
		return cases, 0, make([]float64, len(prob.Cases)), nil
	}

	// run cases in the order declared
	for k := range prob.Cases {

		caseId := k + 1

		// packing gate: if an earlier case of the same group failed then skip this one
		if isPriorPackFailure(prob.Misc.Packing, caseId, cases) {
			cases = append(cases, db.CaseResult{CaseId: caseId, Result: db.SkippedResult})
			continue
		}

		// artifact must exist to run
		if !fileExist(artPath) {
			cases = append(cases, db.CaseResult{CaseId: caseId, Result: db.WaitingResult})
			continue
		}

		cr, err := runCase(prob, &prob.Cases[k], caseId, artPath)
		if err != nil {
			return nil, 0, nil, err
		}
		cases = append(cases, cr)
	}

	score, scoreVec := scoreCases(prob, cases)
	return cases, score, scoreVec, nil
}

// compileSource materialize the compile command and spawn the compiler.
// Compiler exit failure is a normal outcome: Compilation Error case result.
func compileSource(lang *config.Language, srcPath string, artPath string) (db.CaseResult, error) {

	// substitute placeholders in every command token
	argv := make([]string, len(lang.Command))
	for k, tok := range lang.Command {
		tok = strings.ReplaceAll(tok, config.InputPlaceholder, srcPath)
		tok = strings.ReplaceAll(tok, config.OutputPlaceholder, artPath)
		argv[k] = tok
	}

	cmd := exec.Command(argv[0], argv[1:]...)

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start).Microseconds()

	cr := db.CaseResult{CaseId: 0, Result: db.CompileOkResult, Time: elapsed}

	if err != nil {
		if _, isExit := err.(*exec.ExitError); isExit {
			cr.Result = db.CompileErrorResult // compiler rejected the source
			return cr, nil
		}
		return cr, errors.New("Error: unable to run compiler " + argv[0] + ": " + err.Error())
	}
	return cr, nil
}

// runCase execute the artifact against single case:
// stdin from input file, stdout into scratch out file, stderr discarded,
// wall-clock timeout of case time limit.
func runCase(prob *config.Problem, c *config.Case, caseId int, artPath string) (db.CaseResult, error) {

	cr := db.CaseResult{CaseId: caseId}

	inpF, err := os.Open(c.InputFile)
	if err != nil {
		return cr, errors.New("Error: unable to open case input: " + err.Error())
	}
	defer inpF.Close()

	outPath := filepath.Join(scratchDir, "out")

	outF, err := os.OpenFile(outPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return cr, errors.New("Error: unable to create case output: " + err.Error())
	}
	defer outF.Close()

	cmd := exec.Command(artPath)
	cmd.Stdin = inpF
	cmd.Stdout = outF

	start := time.Now()

	if err := cmd.Start(); err != nil {
		return cr, errors.New("Error: unable to run artifact: " + err.Error())
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	var runErr error

	if c.TimeLimit > 0 {
		select {
		case runErr = <-done:
		case <-time.After(time.Duration(c.TimeLimit) * time.Microsecond):

			// time limit: kill the child, kill its survivors while they are
			// still parented to it, reap and wait until the survivors are gone
			cmd.Process.Kill()
			pLst := killDescendants(cmd.Process.Pid)
			<-done
			waitPidsExit(pLst)

			cr.Result = db.TimeLimitResult
			cr.Time = 0
			return cr, nil
		}
	} else {
		runErr = <-done
	}
	cr.Time = time.Since(start).Microseconds()

	if runErr != nil {
		if _, isExit := runErr.(*exec.ExitError); isExit {
			cr.Result = db.RuntimeErrorResult
			return cr, nil
		}
		return cr, errors.New("Error: unable to run artifact: " + runErr.Error())
	}
	outF.Close() // flush before comparison

	var isMatch bool
	if prob.Type == config.StrictProblem {
		isMatch, err = isStrictMatch(outPath, c.AnswerFile)
	} else {
		isMatch, err = isStandardMatch(outPath, c.AnswerFile)
	}
	if err != nil {
		return cr, errors.New("Error: unable to compare case output: " + err.Error())
	}

	if isMatch {
		cr.Result = db.AcceptedResult
	} else {
		cr.Result = db.WrongAnswerResult
	}
	os.Remove(outPath) // out file removed between compared cases only

	return cr, nil
}

// killDescendants kill processes spawned by the pid and return their pids.
// Kill of the child does not reach processes it spawned, they can outlive it
// and keep writing into the scratch out file. It must be done after the kill
// and before the reap: until the pid is reaped its children are still
// parented to it in the process table.
func killDescendants(pid int) []int {

	pLst, err := ps.Processes()
	if err != nil {
		return nil
	}
	kLst := []int{}

	for _, p := range pLst {
		if p.PPid() != pid {
			continue
		}
		if dp, e := os.FindProcess(p.Pid()); e == nil {
			dp.Kill()
		}
		kLst = append(kLst, p.Pid())
	}
	return kLst
}

// waitPidsExit wait until the pids have left the process table.
// Out file of the killed child is reused by the next case, killed survivors
// are reaped by the system only after the child itself is reaped.
func waitPidsExit(pids []int) {

	for _, pid := range pids {
		for i := 0; i < 50; i++ {
			p, err := ps.FindProcess(pid)
			if err != nil || p == nil {
				break
			}
			time.Sleep(10 * time.Millisecond)
		}
	}
}

// isPriorPackFailure return true if an earlier case of the same packing group already failed.
// Packing groups contain 1-based case ids, cases[caseId] is the result of that case.
func isPriorPackFailure(packing [][]int, caseId int, cases []db.CaseResult) bool {

	for _, g := range packing {
		for k, cId := range g {
			if cId != caseId {
				continue
			}
			for _, prevId := range g[:k] {
				if prevId < len(cases) && cases[prevId].Result != db.AcceptedResult {
					return true
				}
			}
			return false
		}
	}
	return false
}

// scoreCases award scores: sum of accepted case scores, or if the problem
// has packing then a group scores only when every case of the group is accepted.
// Return total score and per-case awarded score vector.
func scoreCases(prob *config.Problem, cases []db.CaseResult) (float64, []float64) {

	scoreVec := make([]float64, len(prob.Cases))
	total := 0.0

	if len(prob.Misc.Packing) <= 0 {

		for k := range prob.Cases {
			if cases[k+1].Result == db.AcceptedResult {
				scoreVec[k] = prob.Cases[k].Score
				total += scoreVec[k]
			}
		}
		return total, scoreVec
	}

	// packed scoring: group score awarded only if every case of the group accepted
	for _, g := range prob.Misc.Packing {

		isAllOk := true
		for _, cId := range g {
			if cases[cId].Result != db.AcceptedResult {
				isAllOk = false
				break
			}
		}
		if !isAllOk {
			continue
		}
		for _, cId := range g {
			scoreVec[cId-1] = prob.Cases[cId-1].Score
			total += scoreVec[cId-1]
		}
	}
	return total, scoreVec
}

// aggregateResult derive job result from the case vector:
// compile failure wins, else the first non-accepted case verdict, else accepted.
func aggregateResult(cases []db.CaseResult) string {

	if len(cases) > 0 && cases[0].Result == db.CompileErrorResult {
		return db.CompileErrorResult
	}
	for k := 1; k < len(cases); k++ {
		if cases[k].Result != db.AcceptedResult {
			return cases[k].Result
		}
	}
	return db.AcceptedResult
}
