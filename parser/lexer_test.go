package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ozontech/condexpr/conf"
)

// Identifier names cap at conf.MaxIdentLength-1 bytes; the cursor stops
// with the name, so the remainder re-lexes as a fresh token.
func TestIdentTruncation(t *testing.T) {
	long := strings.Repeat("a", 40)
	capped := strings.Repeat("a", conf.MaxIdentLength-1)

	var calls []string
	record := func(name string) bool {
		calls = append(calls, name)
		return true
	}

	got := Evaluate(long, record, nil)
	assert.True(t, got)
	// the leftover re-lexes as a trailing identifier, which the top
	// level silently ignores
	require.Equal(t, []string{capped}, calls)
}

func TestIdentTruncationRemainderToken(t *testing.T) {
	prev := conf.MaxIdentLength
	conf.MaxIdentLength = 8
	defer func() { conf.MaxIdentLength = prev }()

	var calls []string
	record := func(name string) bool {
		calls = append(calls, name)
		return true
	}

	// "abcdefghij" splits into "abcdefg" and "hij"; inside parentheses
	// the leftover lands where ')' is required and shows up rendered in
	// the diagnostic
	var diag strings.Builder
	got := Evaluate(`(abcdefghij)`, record, func(f string) {
		diag.WriteString(f)
	})
	assert.False(t, got)
	assert.Equal(t, []string{"abcdefg"}, calls)
	assert.Equal(t, "Error: expected ')', found: ID [hij]\n", diag.String())
}

func TestIdentCharset(t *testing.T) {
	var calls []string
	record := func(name string) bool {
		calls = append(calls, name)
		return true
	}

	// digits continue an identifier but cannot start one
	Evaluate(`x86 && arm64`, record, nil)
	assert.Equal(t, []string{"x86", "arm64"}, calls)

	// a leading digit is rejected and the rest scans as its own identifier
	calls = nil
	var diag strings.Builder
	got := Evaluate(`3d`, record, func(f string) {
		diag.WriteString(f)
	})
	assert.True(t, got)
	assert.Equal(t, []string{"d"}, calls)
	assert.Equal(t, "Unknown character: 3\n", diag.String())
}

func TestOperatorScanning(t *testing.T) {
	var calls []string
	record := func(name string) bool {
		calls = append(calls, name)
		return name == "true"
	}

	// no whitespace required around operators
	got := Evaluate(`!true||(false&&true)`, record, nil)
	assert.False(t, got)
	assert.Equal(t, []string{"true", "false", "true"}, calls)
}
