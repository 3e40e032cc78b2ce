// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package roster

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/danielhkuo/flowhub/models"
)

var ErrUnknownFormat = errors.New("unknown import format")

const bom = "\uFEFF"

// headerNames are first-row values treated as a column header.
var headerNames = []string{"name", "姓名"}

// Parse dispatches on format (models.FormatDelimited or models.FormatLines).
func Parse(r io.Reader, format string) ([]string, error) {
	switch format {
	case models.FormatDelimited, "":
		return ParseDelimited(r)
	case models.FormatLines:
		return ParseLines(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// ParseDelimited reads comma-separated text and returns the first field of
// every row as a name. A header row ("name" or "姓名") in first position and
// rows with an empty name are dropped.
func ParseDelimited(r io.Reader) ([]string, error) {
	cr := csv.NewReader(stripBOM(r))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	var names []string
	first := true
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read delimited roster: %w", err)
		}
		if len(record) == 0 {
			continue
		}
		name := strings.TrimSpace(record[0])
		if first {
			first = false
			if isHeader(name) {
				continue
			}
		}
		if name == "" {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

// ParseLines treats every line as one name. Blank lines are dropped.
func ParseLines(r io.Reader) ([]string, error) {
	sc := bufio.NewScanner(stripBOM(r))
	var names []string
	for sc.Scan() {
		name := strings.TrimSpace(sc.Text())
		if name == "" {
			continue
		}
		names = append(names, name)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read roster lines: %w", err)
	}
	return names, nil
}

func isHeader(name string) bool {
	for _, h := range headerNames {
		if strings.EqualFold(name, h) {
			return true
		}
	}
	return false
}

func stripBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if peek, err := br.Peek(len(bom)); err == nil && string(peek) == bom {
		_, _ = br.Discard(len(bom))
	}
	return br
}
