// SPDX-License-Identifier: MIT

// Package qcerr holds the error taxonomy shared by the sieve pipeline.
//
// Two failure classes cross package boundaries:
//
//	ConfigurationError      - an input parameter is out of range; nothing runs.
//	InvariantViolationError - the written node set diverges from the pruned
//	                          node set; fatal, no report is emitted.
//
// Both types implement Is so callers can match with errors.Is against the
// ErrConfiguration / ErrInvariantViolation sentinels, or errors.As to reach
// the details.
package qcerr

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrConfiguration matches any *ConfigurationError.
	ErrConfiguration = errors.New("qcerr: invalid configuration")

	// ErrInvariantViolation matches any *InvariantViolationError.
	ErrInvariantViolation = errors.New("qcerr: invariant violation")
)

// ConfigurationError reports one or more invalid numeric or path parameters.
type ConfigurationError struct {
	// Problems lists human-readable violations, one per parameter,
	// e.g. "--similarity_filter must be between >0 and <=100.".
	Problems []string
}

// NewConfigurationError builds a ConfigurationError from a formatted problem.
func NewConfigurationError(format string, args ...interface{}) *ConfigurationError {
	return &ConfigurationError{Problems: []string{fmt.Sprintf(format, args...)}}
}

// Add appends a formatted problem.
func (e *ConfigurationError) Add(format string, args ...interface{}) {
	e.Problems = append(e.Problems, fmt.Sprintf(format, args...))
}

// OrNil returns e when it carries at least one problem, else nil.
// It returns a plain error so callers do not leak a typed nil.
func (e *ConfigurationError) OrNil() error {
	if e == nil || len(e.Problems) == 0 {
		return nil
	}

	return e
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + strings.Join(e.Problems, " ")
}

// Is reports whether target is ErrConfiguration.
func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// InvariantViolationError reports that the nodes persisted by the writer do
// not match the nodes retained by pruning.
type InvariantViolationError struct {
	Pruned  []string
	Written []string
}

// NewInvariantViolationError copies and sorts both node lists.
func NewInvariantViolationError(pruned, written []string) *InvariantViolationError {
	return &InvariantViolationError{Pruned: sortedCopy(pruned), Written: sortedCopy(written)}
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("WRITTEN nodes and PRUNED node names dont match\nPRUNED NODES:\n%s\n\nWRITTEN NODES:\n%s",
		QuoteList(e.Pruned), QuoteList(e.Written))
}

// Is reports whether target is ErrInvariantViolation.
func (e *InvariantViolationError) Is(target error) bool { return target == ErrInvariantViolation }

// QuoteList renders ids as ['a', 'b'], the format used in run logs.
func QuoteList(ids []string) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = "'" + id + "'"
	}

	return "[" + strings.Join(parts, ", ") + "]"
}

func sortedCopy(ids []string) []string {
	out := append([]string(nil), ids...)
	sort.Strings(out)

	return out
}
