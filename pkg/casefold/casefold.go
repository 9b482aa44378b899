// Copyright (c) 2026 Vidora. All rights reserved.

// Package casefold normalizes identity strings for case-insensitive matching.
//
// # Usage
//
// Usernames on Vidora are case-insensitive: "Ana", "ana", and "ANA" all
// address the same channel. Every username is folded once on the write path
// and once on the lookup path so the database only ever sees one canonical
// form.
package casefold

import (
	"strings"

	"golang.org/x/text/cases"
)

// folder performs full Unicode case folding (not just ASCII lowercasing),
// so that e.g. "Straße" and "STRASSE" fold to the same canonical form.
var folder = cases.Fold()

// Username returns the canonical form of a username: trimmed and case-folded.
func Username(s string) string {
	return folder.String(strings.TrimSpace(s))
}

// Email returns the canonical form of an email address. Only whitespace is
// trimmed; the local part of an address is case-sensitive per RFC 5321 so we
// deliberately do not fold it.
func Email(s string) string {
	return strings.TrimSpace(s)
}
