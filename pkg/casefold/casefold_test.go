// Copyright (c) 2026 Vidora. All rights reserved.

package casefold_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vidora/vidora/pkg/casefold"
)

func TestUsername(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercase_passthrough", "ana_k", "ana_k"},
		{"mixed_case", "Ana_K", "ana_k"},
		{"all_caps", "CHAICODE", "chaicode"},
		{"surrounding_whitespace", "  Ana  ", "ana"},
		{"empty", "", ""},
		{"whitespace_only", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, casefold.Username(tt.input))
		})
	}
}

func TestEmail(t *testing.T) {
	// Email local parts are case-sensitive per RFC 5321: only trim.
	assert.Equal(t, "Ana.K@x.com", casefold.Email(" Ana.K@x.com "))
	assert.Equal(t, "", casefold.Email("   "))
}
