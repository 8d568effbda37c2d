package qfx

import (
	"errors"
	"log"
)

// Conversion failures fall into a small closed taxonomy. Callers match them
// with errors.Is; the conversion wraps them with row or file context.
var (
	// ErrConfiguration reports an unusable mapping file: unreadable,
	// invalid JSON, missing a required section, or carrying a fallback
	// rule whose pattern does not compile.
	ErrConfiguration = errors.New("invalid mapping file")

	// ErrAccountNotMapped reports an account display name absent from the
	// account id mapping.
	ErrAccountNotMapped = errors.New("account not mapped")

	// ErrHeaderNotFound reports an export without a recognizable header
	// row, or one missing a required column.
	ErrHeaderNotFound = errors.New("header row not found")

	// ErrUnknownActivity reports an activity label outside the set of
	// convertible activities.
	ErrUnknownActivity = errors.New("unknown activity")

	// ErrUnresolvedSecurity reports a row with no CUSIP whose description
	// matches none of the fallback rules.
	ErrUnresolvedSecurity = errors.New("unresolved security")

	// ErrMissingIdentifier reports an income row without a CUSIP; income
	// must reference a concrete security.
	ErrMissingIdentifier = errors.New("missing security identifier")

	// ErrIncompleteTransaction reports a trade or transfer row lacking the
	// numeric cells needed to value it.
	ErrIncompleteTransaction = errors.New("incomplete transaction")
)

// logf reports non-fatal conversion diagnostics, like a given price that
// disagrees with the computed one. It is a variable so tests can capture
// the output.
var logf = log.Printf
