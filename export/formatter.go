// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package export

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/danielhkuo/flowhub/models"
)

const (
	bom    = "\uFEFF"
	header = "GroupName,MemberName"

	// ContentType is the media type of Format's output.
	ContentType = "text/csv; charset=utf-8"
)

// Write streams groups to w in export format.
func Write(w io.Writer, groups []models.Group) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(bom)
	bw.WriteString(header)
	bw.WriteByte('\n')
	for _, g := range groups {
		name := quote(g.Name)
		for _, m := range g.Members {
			bw.WriteString(name)
			bw.WriteByte(',')
			bw.WriteString(quote(m.Name))
			bw.WriteByte('\n')
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

// Format returns the export bytes for groups.
func Format(groups []models.Group) []byte {
	var buf bytes.Buffer
	// bytes.Buffer writes cannot fail.
	_ = Write(&buf, groups)
	return buf.Bytes()
}

// FileName is the download name for a run created at t.
func FileName(t time.Time) string {
	return fmt.Sprintf("groups_%s.csv", t.Format(time.DateOnly))
}

func quote(field string) string {
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}
