// Copyright (c) 2022 OpenOJ
// This code is licensed under the MIT license (see LICENSE.txt for details)

package config

import (
	"errors"
	"strconv"

	"github.com/openoj/go/oj/helper"
)

// problem types
const (
	StandardProblem       = "standard"        // compare output line by line, trailing whitespace ignored
	StrictProblem         = "strict"          // compare output byte by byte
	DynamicRankingProblem = "dynamic_ranking" // standard comparison, score scaled by relative run time
	SpecialJudgeProblem   = "spec_judge"      // reserved: checked by external program, not implemented
)

// command tokens replaced with actual paths when compile command materialized
const (
	InputPlaceholder  = "%INPUT%"  // replaced with source file path
	OutputPlaceholder = "%OUTPUT%" // replaced with artifact path
)

// JudgeConfig is a judge server configuration document:
// server binding, problem catalog and language toolchains.
// It is loaded once at startup and never modified after that.
type JudgeConfig struct {
	Server    ServerBind `json:"server"`    // http server binding
	Problems  []Problem  `json:"problems"`  // problem catalog
	Languages []Language `json:"languages"` // language toolchains
}

// ServerBind is address and port to listen
type ServerBind struct {
	BindAddress *string `json:"bind_address"` // address to listen, default: 127.0.0.1
	BindPort    *int    `json:"bind_port"`    // port to listen, default: 12345
}

// Problem is a catalog entry: externally assigned id, type and ordered test cases
type Problem struct {
	Id    int         `json:"id"`    // externally assigned problem id, not necessary catalog position
	Name  string      `json:"name"`  // problem name
	Type  string      `json:"type"`  // one of: standard, strict, dynamic_ranking, spec_judge
	Misc  ProblemMisc `json:"misc"`  // optional problem extras
	Cases []Case      `json:"cases"` // ordered test cases
}

// ProblemMisc is optional problem extras: packing, special judge command, dynamic ranking ratio
type ProblemMisc struct {
	Packing             [][]int  `json:"packing,omitempty"`               // partition of 1-based case ids into scoring groups
	SpecialJudge        []string `json:"special_judge,omitempty"`         // reserved: external checker command
	DynamicRankingRatio *float64 `json:"dynamic_ranking_ratio,omitempty"` // dynamic_ranking problems only, in [0, 1]
}

// Case is one test input/answer pair
type Case struct {
	Score       float64 `json:"score"`        // score awarded if the case is accepted
	InputFile   string  `json:"input_file"`   // path to input redirected to stdin
	AnswerFile  string  `json:"answer_file"`  // path to expected output
	TimeLimit   int64   `json:"time_limit"`   // run time limit, microseconds, 0 = no limit
	MemoryLimit int64   `json:"memory_limit"` // reserved: memory limit, not enforced
}

// Language is a toolchain descriptor: source file name and compile command template
type Language struct {
	Name     string   `json:"name"`      // language name, ie: Rust
	FileName string   `json:"file_name"` // source file name, ie: main.rs
	Command  []string `json:"command"`   // compile command, %INPUT% and %OUTPUT% replaced with actual paths
}

// ReadJudgeConfig load judge configuration document from json file and validate it.
func ReadJudgeConfig(path string) (*JudgeConfig, error) {

	cfg := &JudgeConfig{}

	isExist, err := helper.FromJsonFile(path, cfg)
	if err != nil {
		return nil, errors.New("Error reading configuration: " + path + " : " + err.Error())
	}
	if !isExist {
		return nil, errors.New("Error: configuration file not exist or empty: " + path)
	}

	// validate problem catalog
	for k := range cfg.Problems {
		p := &cfg.Problems[k]

		switch p.Type {
		case StandardProblem, StrictProblem, DynamicRankingProblem, SpecialJudgeProblem:
		default:
			return nil, errors.New("Error: invalid type of problem " + strconv.Itoa(p.Id) + ": " + p.Type)
		}
		if r := p.Misc.DynamicRankingRatio; r != nil && (*r < 0 || *r > 1) {
			return nil, errors.New("Error: dynamic ranking ratio out of [0, 1] range, problem " + strconv.Itoa(p.Id))
		}
		for _, g := range p.Misc.Packing {
			for _, cId := range g {
				if cId < 1 || cId > len(p.Cases) {
					return nil, errors.New("Error: invalid case id in packing of problem " + strconv.Itoa(p.Id) + ": " + strconv.Itoa(cId))
				}
			}
		}
	}

	// validate language toolchains
	for k := range cfg.Languages {
		if cfg.Languages[k].Name == "" || cfg.Languages[k].FileName == "" || len(cfg.Languages[k].Command) < 1 {
			return nil, errors.New("Error: invalid language toolchain at position " + strconv.Itoa(k))
		}
	}
	return cfg, nil
}

// ProblemByExternalId return catalog index of problem by externally assigned id.
func (cfg *JudgeConfig) ProblemByExternalId(problemId int) (int, bool) {
	for k := range cfg.Problems {
		if cfg.Problems[k].Id == problemId {
			return k, true
		}
	}
	return 0, false
}

// LanguageByName return language toolchain by name.
func (cfg *JudgeConfig) LanguageByName(name string) (*Language, bool) {
	for k := range cfg.Languages {
		if cfg.Languages[k].Name == name {
			return &cfg.Languages[k], true
		}
	}
	return nil, false
}

// Addr return address to listen, ie: 127.0.0.1:12345
func (cfg *JudgeConfig) Addr() string {

	addr := "127.0.0.1"
	port := 12345

	if cfg.Server.BindAddress != nil && *cfg.Server.BindAddress != "" {
		addr = *cfg.Server.BindAddress
	}
	if cfg.Server.BindPort != nil && *cfg.Server.BindPort > 0 {
		port = *cfg.Server.BindPort
	}
	return addr + ":" + strconv.Itoa(port)
}
