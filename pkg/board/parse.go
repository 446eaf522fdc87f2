package board

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
)

var headerPattern = regexp.MustCompile(`^(\d+)x(\d+)$`)

// Parse builds a board from board-file text: a "<rows>x<cols>" header line
// with positive integers, followed by exactly rows*cols lines each holding
// one whitespace-free card label. Blank lines are ignored; a non-blank line
// containing whitespace is malformed.
func Parse(text string) (*Board, error) {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}

	if len(lines) == 0 {
		return nil, fmt.Errorf("board file is empty")
	}

	m := headerPattern.FindStringSubmatch(lines[0])
	if m == nil {
		return nil, fmt.Errorf("malformed board header %q (expected <rows>x<columns>)", lines[0])
	}
	rows, err := strconv.Atoi(m[1])
	if err != nil {
		return nil, fmt.Errorf("malformed row count in header %q: %w", lines[0], err)
	}
	cols, err := strconv.Atoi(m[2])
	if err != nil {
		return nil, fmt.Errorf("malformed column count in header %q: %w", lines[0], err)
	}
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("board dimensions must be positive, got %dx%d", rows, cols)
	}

	labels := lines[1:]
	if len(labels) != rows*cols {
		return nil, fmt.Errorf("board file has %d cards, %dx%d board needs %d", len(labels), rows, cols, rows*cols)
	}
	for i, label := range labels {
		if !IsValidLabel(label) {
			return nil, fmt.Errorf("card %d has label %q: %w", i, label, ErrInvalidLabel)
		}
	}

	return New(rows, cols, labels)
}

// Load reads and parses a board file from disk.
func Load(path string) (*Board, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read board file: %w", err)
	}

	b, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("invalid board file %s: %w", path, err)
	}
	return b, nil
}
