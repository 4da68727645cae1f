// Copyright (c) 2022 OpenOJ
// This code is licensed under the MIT license (see LICENSE.txt for details)

package main

import (
	"bytes"
	"os"
	"strings"
)

// isStrictMatch compare two files byte by byte.
func isStrictMatch(outPath string, answerPath string) (bool, error) {

	out, err := os.ReadFile(outPath)
	if err != nil {
		return false, err
	}
	ans, err := os.ReadFile(answerPath)
	if err != nil {
		return false, err
	}
	return bytes.Equal(out, ans), nil
}

// isStandardMatch compare two files line by line,
// trailing whitespace of every line ignored, line count must be the same.
// Empty output and empty answer compare equal.
func isStandardMatch(outPath string, answerPath string) (bool, error) {

	out, err := os.ReadFile(outPath)
	if err != nil {
		return false, err
	}
	ans, err := os.ReadFile(answerPath)
	if err != nil {
		return false, err
	}

	oLines := splitLines(string(out))
	aLines := splitLines(string(ans))

	if len(oLines) != len(aLines) {
		return false, nil
	}
	for k := range oLines {
		if strings.TrimRight(oLines[k], " \t\r\n") != strings.TrimRight(aLines[k], " \t\r\n") {
			return false, nil
		}
	}
	return true, nil
}

// splitLines split content into newline-terminated lines.
// Trailing newline does not produce an extra empty line.
func splitLines(src string) []string {

	if src == "" {
		return []string{}
	}
	lines := strings.Split(src, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
