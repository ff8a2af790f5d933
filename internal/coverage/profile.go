// Package coverage runs every test suite with coverage enabled, merges the
// resulting profiles and reports the statement coverage rate.
package coverage

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/tools/cover"
)

// ErrEmptyProfile indicates no coverage data was produced.
var ErrEmptyProfile = errors.New("coverage: empty profile")

// Merge concatenates raw cover profiles into one, keeping the first mode
// line. Blocks reported by several profiles are combined by Parse.
func Merge(mode string, raws ...[]byte) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "mode: %s\n", mode)
	for _, raw := range raws {
		s := bufio.NewScanner(bytes.NewReader(raw))
		for s.Scan() {
			line := strings.TrimSpace(s.Text())
			if line == "" || strings.HasPrefix(line, "mode:") {
				continue
			}
			buf.WriteString(line)
			buf.WriteByte('\n')
		}
	}
	return buf.Bytes()
}

// Parse reads a profile, merging duplicate blocks.
func Parse(r io.Reader) ([]*cover.Profile, error) {
	profiles, err := cover.ParseProfilesFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}
	return profiles, nil
}

// Percent returns the share of covered statements in 0..100.
func Percent(profiles []*cover.Profile) (float64, error) {
	var total, covered int64
	for _, p := range profiles {
		for _, b := range p.Blocks {
			total += int64(b.NumStmt)
			if b.Count > 0 {
				covered += int64(b.NumStmt)
			}
		}
	}
	if total == 0 {
		return 0, ErrEmptyProfile
	}
	return float64(covered) / float64(total) * 100, nil
}

// Write renders profiles back into the text profile format.
func Write(w io.Writer, profiles []*cover.Profile) error {
	if len(profiles) == 0 {
		return ErrEmptyProfile
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "mode: %s\n", profiles[0].Mode)
	for _, p := range profiles {
		for _, b := range p.Blocks {
			fmt.Fprintf(bw, "%s:%d.%d,%d.%d %d %d\n",
				p.FileName, b.StartLine, b.StartCol, b.EndLine, b.EndCol, b.NumStmt, b.Count)
		}
	}
	return bw.Flush()
}
