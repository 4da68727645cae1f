// Copyright (c) 2022 OpenOJ
// This code is licensed under the MIT license (see LICENSE.txt for details)

/*
Package helper is a set common helper functions
*/
package helper

import (
	"fmt"
	"regexp"
	"time"
)

// MakeDateTime return date-time string, ie: 2012-08-17 16:04:59.0148
func MakeDateTime(t time.Time) string {
	y, mm, dd := t.Date()
	h, mi, s := t.Clock()
	ms := int(time.Duration(t.Nanosecond()) / time.Millisecond)

	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d.%04d", y, mm, dd, h, mi, s, ms)
}

// MakeTimeStamp return timestamp string as: 20120817_160459_0148
func MakeTimeStamp(t time.Time) string {
	y, mm, dd := t.Date()
	h, mi, s := t.Clock()
	ms := int(time.Duration(t.Nanosecond()) / time.Millisecond)

	return fmt.Sprintf("%04d%02d%02d_%02d%02d%02d_%04d", y, mm, dd, h, mi, s, ms)
}

// MakeTimeRfc3339 return UTC date-time string with millisecond precision, ie: 2022-08-27T02:05:29.000Z
func MakeTimeRfc3339(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

// CleanPath replace special file path characters: "'`:*?><|$}{@&^;/\ by _ underscore
func CleanPath(src string) string {
	re := regexp.MustCompile("[\"'`:*?><|$}{@&^;/\\\\]")
	return re.ReplaceAllString(src, "_")
}
