// Copyright (c) 2022 OpenOJ
// This code is licensed under the MIT license (see LICENSE.txt for details)

package helper

import (
	"testing"
	"time"
)

func TestMakeDateTime(t *testing.T) {

	tv := time.Date(2012, time.August, 17, 16, 4, 59, 148*int(time.Millisecond), time.UTC)

	if s := MakeDateTime(tv); s != "2012-08-17 16:04:59.0148" {
		t.Errorf("expected: 2012-08-17 16:04:59.0148, actual: %s", s)
	}
	if s := MakeTimeStamp(tv); s != "20120817_160459_0148" {
		t.Errorf("expected: 20120817_160459_0148, actual: %s", s)
	}
}

func TestMakeTimeRfc3339(t *testing.T) {

	loc := time.FixedZone("UTC+8", 8*60*60)
	tv := time.Date(2022, time.August, 27, 10, 5, 29, 0, loc)

	if s := MakeTimeRfc3339(tv); s != "2022-08-27T02:05:29.000Z" {
		t.Errorf("expected: 2022-08-27T02:05:29.000Z, actual: %s", s)
	}

	// round trip: result must parse back as RFC 3339
	if _, err := time.Parse(time.RFC3339, MakeTimeRfc3339(time.Now())); err != nil {
		t.Errorf("unexpected: %v", err)
	}
}

func TestCleanPath(t *testing.T) {

	var src = []string{
		"name", "a b", "a/b", "a\\b", "a:b*?", "",
	}
	var expected = []string{
		"name", "a b", "a_b", "a_b", "a_b__", "",
	}
	for k := range src {
		if s := CleanPath(src[k]); s != expected[k] {
			t.Errorf("expected: %s, actual: %s", expected[k], s)
		}
	}
}
