// Copyright (c) 2022 OpenOJ
// This code is licensed under the MIT license (see LICENSE.txt for details)

package config

import (
	"path/filepath"
	"testing"

	"github.com/openoj/go/oj/helper"
)

func TestReadJudgeConfig(t *testing.T) {

	cfg, err := ReadJudgeConfig(filepath.Join("testdata", "config.json"))
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Addr() != "127.0.0.1:12345" {
		t.Errorf("expected 127.0.0.1:12345 return %s", cfg.Addr())
	}
	if len(cfg.Problems) != 2 || len(cfg.Languages) != 2 {
		t.Fatalf("expected 2 problems and 2 languages return %d %d", len(cfg.Problems), len(cfg.Languages))
	}

	// problem lookup is by external id, not catalog position
	k, ok := cfg.ProblemByExternalId(2)
	if !ok || k != 1 {
		t.Errorf("expected problem 2 at catalog index 1 return %d found %v", k, ok)
	}
	if _, ok = cfg.ProblemByExternalId(1); ok {
		t.Error("expected problem 1 not found")
	}

	p := &cfg.Problems[1]
	if p.Type != DynamicRankingProblem || p.Misc.DynamicRankingRatio == nil || *p.Misc.DynamicRankingRatio != 0.5 {
		t.Errorf("expected dynamic ranking problem with ratio 0.5 return %v", p)
	}
	if len(p.Misc.Packing) != 1 || len(p.Misc.Packing[0]) != 2 {
		t.Errorf("expected packing [[1 2]] return %v", p.Misc.Packing)
	}

	lang, ok := cfg.LanguageByName("Rust")
	if !ok || lang.FileName != "main.rs" || lang.Command[0] != "rustc" {
		t.Errorf("expected Rust toolchain return %v found %v", lang, ok)
	}
	if _, ok = cfg.LanguageByName("Cobol"); ok {
		t.Error("expected Cobol toolchain not found")
	}
}

func TestReadJudgeConfigDefaults(t *testing.T) {

	p := filepath.Join(t.TempDir(), "empty.json")
	if err := helper.ToJsonFile(p, &JudgeConfig{}); err != nil {
		t.Fatal(err)
	}

	cfg, err := ReadJudgeConfig(p)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr() != "127.0.0.1:12345" {
		t.Errorf("expected default binding 127.0.0.1:12345 return %s", cfg.Addr())
	}
}

func TestReadJudgeConfigInvalid(t *testing.T) {

	if _, err := ReadJudgeConfig(filepath.Join(t.TempDir(), "no-such.json")); err == nil {
		t.Error("expected error on missing configuration file")
	}

	write := func(name string, cfg *JudgeConfig) string {
		p := filepath.Join(t.TempDir(), name)
		if err := helper.ToJsonFile(p, cfg); err != nil {
			t.Fatal(err)
		}
		return p
	}

	// invalid problem type
	p := write("badtype.json", &JudgeConfig{
		Problems: []Problem{{Id: 0, Type: "nosuch"}},
	})
	if _, err := ReadJudgeConfig(p); err == nil {
		t.Error("expected error on invalid problem type")
	}

	// dynamic ranking ratio out of range
	ratio := 1.5
	p = write("badratio.json", &JudgeConfig{
		Problems: []Problem{{Id: 0, Type: DynamicRankingProblem, Misc: ProblemMisc{DynamicRankingRatio: &ratio}}},
	})
	if _, err := ReadJudgeConfig(p); err == nil {
		t.Error("expected error on ratio out of range")
	}

	// packing references case id out of range
	p = write("badpack.json", &JudgeConfig{
		Problems: []Problem{{
			Id: 0, Type: StandardProblem,
			Misc:  ProblemMisc{Packing: [][]int{{1, 3}}},
			Cases: []Case{{Score: 50}, {Score: 50}},
		}},
	})
	if _, err := ReadJudgeConfig(p); err == nil {
		t.Error("expected error on invalid packing case id")
	}

	// language without command
	p = write("badlang.json", &JudgeConfig{
		Languages: []Language{{Name: "Rust", FileName: "main.rs"}},
	})
	if _, err := ReadJudgeConfig(p); err == nil {
		t.Error("expected error on invalid language toolchain")
	}
}
