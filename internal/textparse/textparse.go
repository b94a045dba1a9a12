// Package textparse locates and extracts tabular data from loosely formatted
// report dumps. The dumps put one cell per line, repeat section headers, and
// interleave noise lines, so extraction is heuristic: find every occurrence of
// the expected header token sequence, parse fixed-arity line groups after each
// occurrence, and keep the occurrence that yields the most admitted rows.
package textparse

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrHeaderNotFound means the expected column-label sequence never
	// occurs in the document; the layout assumption itself broke.
	ErrHeaderNotFound = errors.New("header not found")

	// ErrNoRows means a header was located but no line group after any
	// occurrence survived validation and admission.
	ErrNoRows = errors.New("no admitted rows")
)

// TableSpec parameterizes one table type. The same engine handles every
// report; only the header tokens, group arity, caps and predicates differ.
type TableSpec[T any] struct {
	// Name identifies the table in failure reasons.
	Name string

	// Header is the ordered sequence of literal column labels. In the dump
	// format each label occupies its own line.
	Header []string

	// Arity is the number of consecutive lines forming one row group.
	// Zero means len(Header).
	Arity int

	// MaxRows caps the number of admitted rows per header occurrence.
	MaxRows int

	// Stop reports that a group no longer looks like table data (its
	// expected-numeric fields fail to parse); parsing of the current
	// occurrence ends there. A nil Stop never stops early.
	Stop func(group []string) bool

	// Row converts a group into a row record. ok=false skips the group
	// without ending the parse, e.g. a security row captured inside a
	// broker table.
	Row func(group []string) (row T, ok bool)
}

// Parse extracts the best-scoring table from text. When the header occurs
// more than once, the occurrence yielding the greatest number of admitted
// rows wins; ties keep the earliest occurrence.
func Parse[T any](text string, spec TableSpec[T]) ([]T, error) {
	lines := SplitLines(text)

	arity := spec.Arity
	if arity == 0 {
		arity = len(spec.Header)
	}

	starts := headerStarts(lines, spec.Header)
	if len(starts) == 0 {
		return nil, fmt.Errorf("%s: %w", spec.Name, ErrHeaderNotFound)
	}

	var best []T
	for _, start := range starts {
		rows := parseFrom(lines, start+len(spec.Header), arity, spec)
		if len(rows) > len(best) {
			best = rows
		}
	}

	if len(best) == 0 {
		return nil, fmt.Errorf("%s: %w", spec.Name, ErrNoRows)
	}
	return best, nil
}

// SplitLines returns the trimmed, non-empty lines of the document. Adapters
// that walk a dump manually use it too, so the line discipline stays uniform.
func SplitLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		l = strings.TrimSpace(l)
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// headerStarts finds every index at which the full header sequence matches
// consecutively. A document may repeat the header once per section.
func headerStarts(lines, header []string) []int {
	if len(header) == 0 {
		return nil
	}
	var starts []int
	for i := 0; i+len(header) <= len(lines); i++ {
		match := true
		for j, h := range header {
			if lines[i+j] != h {
				match = false
				break
			}
		}
		if match {
			starts = append(starts, i)
		}
	}
	return starts
}

// parseFrom greedily consumes fixed-arity groups until data runs out, the
// stop predicate fires, or the row cap is reached.
func parseFrom[T any](lines []string, from, arity int, spec TableSpec[T]) []T {
	var rows []T
	for i := from; i+arity <= len(lines); i += arity {
		group := lines[i : i+arity]
		if spec.Stop != nil && spec.Stop(group) {
			break
		}
		row, ok := spec.Row(group)
		if !ok {
			continue
		}
		rows = append(rows, row)
		if spec.MaxRows > 0 && len(rows) >= spec.MaxRows {
			break
		}
	}
	return rows
}
