package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// literalResolver mirrors the classic calibration setup: the identifier
// "true" is true, everything else is false.
func literalResolver(name string) bool {
	return name == "true"
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		expr string
		exp  bool
	}{
		{`true`, true},
		{`false`, false},
		{`true && true`, true},
		{`true && false`, false},
		{`false || true`, true},
		{`false || false`, false},
		{`!true`, false},
		{`!false`, true},

		// precedence of && over ||
		{`true || false && false`, true},
		{`true && true || false`, true},
		{`false || true && false`, false},

		// parentheses override precedence
		{`true && (false || true)`, true},
		{`(true || false) && false`, false},

		// negation
		{`!(true && false)`, true},
		{`!true || false`, false},
		{`!(false || true) && true`, false},
		{`!!true`, true},
		{`!!!true`, false},

		// combinations
		{`!(true && true) || (false && true)`, false},
		{`!(false || false) && (true || false)`, true},
		{`(!true || true) && (true || !false)`, true},
		{`true || !(false && true)`, true},
		{`(true || false) && !(true && false)`, true},
		{`!(true && true) || false`, false},
		{`!((true || false) && (true && true))`, false},
		{`!((true || false) && !(false || true))`, true},
		{`(!((true && false) || (true || false) && !(false || !true)) && (true || false && true) || (!(true && (false || !false)) || !!false))`, false},

		// whitespace
		{"\t\n true \v\f\r", true},
		{`  true&&false  `, false},
		{`!(  true  )`, false},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			var diag strings.Builder
			got := Evaluate(tt.expr, literalResolver, func(f string) {
				diag.WriteString(f)
			})
			require.Empty(t, diag.String())
			assert.Equal(t, tt.exp, got)
		})
	}
}

func TestAssociativity(t *testing.T) {
	// left fold: a && b && c == (a && b) && c, same for ||
	resolver := func(values map[string]bool) Resolver {
		return func(name string) bool { return values[name] }
	}

	for _, values := range []map[string]bool{
		{"a": true, "b": true, "c": false},
		{"a": false, "b": true, "c": true},
		{"a": true, "b": false, "c": true},
	} {
		assert.Equal(t,
			Evaluate(`(a && b) && c`, resolver(values), nil),
			Evaluate(`a && b && c`, resolver(values), nil))
		assert.Equal(t,
			Evaluate(`(a || b) || c`, resolver(values), nil),
			Evaluate(`a || b || c`, resolver(values), nil))
	}
}

// Both operand sides are always resolved: && and || do not short-circuit.
func TestNoShortCircuit(t *testing.T) {
	var calls []string
	record := func(name string) bool {
		calls = append(calls, name)
		return name == "true"
	}

	got := Evaluate(`false && x`, record, nil)
	assert.False(t, got)
	assert.Equal(t, []string{"false", "x"}, calls)

	calls = nil
	got = Evaluate(`true || y`, record, nil)
	assert.True(t, got)
	assert.Equal(t, []string{"true", "y"}, calls)

	calls = nil
	Evaluate(`false && a && b || true || c`, record, nil)
	assert.Equal(t, []string{"false", "a", "b", "true", "c"}, calls)
}

// Input left over after the top-level expression is silently ignored,
// matching the classic behavior: no diagnostic, result of the parsed
// prefix.
func TestTrailingInputIgnored(t *testing.T) {
	var diag strings.Builder
	got := Evaluate(`true )`, literalResolver, func(f string) {
		diag.WriteString(f)
	})
	assert.True(t, got)
	assert.Empty(t, diag.String())

	diag.Reset()
	got = Evaluate(`(true))`, literalResolver, func(f string) {
		diag.WriteString(f)
	})
	assert.True(t, got)
	assert.Empty(t, diag.String())

	diag.Reset()
	got = Evaluate(`false true`, literalResolver, func(f string) {
		diag.WriteString(f)
	})
	assert.False(t, got)
	assert.Empty(t, diag.String())
}

func TestDiagnostics(t *testing.T) {
	tests := []struct {
		name string
		expr string
		exp  bool
		diag string
	}{
		{
			name: "empty input",
			expr: ``,
			exp:  false,
			diag: "Error: expected identifier or '('\n",
		},
		{
			name: "operator first",
			expr: `&& true`,
			exp:  false,
			diag: "Error: expected identifier or '('\n",
		},
		{
			name: "missing rparen at end",
			expr: `(true`,
			exp:  false,
			diag: "Error: expected ')', found: END\n",
		},
		{
			name: "missing rparen before identifier",
			expr: `(true false`,
			exp:  false,
			diag: "Error: expected ')', found: ID [false]\n",
		},
		{
			name: "empty parens",
			expr: `( )`,
			exp:  false,
			diag: "Error: expected identifier or '('\n",
		},
		{
			name: "dangling and",
			expr: `true &&`,
			exp:  false,
			diag: "Error: expected identifier or '('\n",
		},
		{
			name: "unknown character",
			expr: `true @ false`,
			exp:  true,
			diag: "Unknown character: @\n",
		},
		{
			name: "unknown characters each reported",
			expr: `true # $`,
			exp:  true,
			diag: "Unknown character: #\nUnknown character: $\n",
		},
		{
			name: "single ampersand",
			expr: `true & false`,
			exp:  true,
			diag: "Unknown character: &\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var diag strings.Builder
			got := Evaluate(tt.expr, literalResolver, func(f string) {
				diag.WriteString(f)
			})
			assert.Equal(t, tt.diag, diag.String())
			assert.Equal(t, tt.exp, got)
		})
	}
}

// The unknown-character diagnostic arrives as three separate fragments.
func TestDiagnosticFragments(t *testing.T) {
	var fragments []string
	Evaluate("true ¢", literalResolver, func(f string) {
		fragments = append(fragments, f)
	})
	// the scan is byte-oriented: each byte of the two-byte rune is
	// reported as its own unknown character
	require.Len(t, fragments, 6)
	assert.Equal(t, "Unknown character: ", fragments[0])
	assert.Equal(t, "\xc2", fragments[1])
	assert.Equal(t, "\n", fragments[2])
	assert.Equal(t, "\xa2", fragments[4])

	fragments = nil
	Evaluate(`(true ;`, literalResolver, func(f string) {
		fragments = append(fragments, f)
	})
	// unknown ';' first, then the missing ')' with the END rendering
	assert.Equal(t, []string{
		"Unknown character: ", ";", "\n",
		"Error: expected ')', found: ", "END", "\n",
	}, fragments)
}

func TestNilSink(t *testing.T) {
	assert.False(t, Evaluate(``, literalResolver, nil))
	assert.False(t, Evaluate(`(true`, literalResolver, nil))
	assert.True(t, Evaluate(`true @`, literalResolver, nil))
}

func TestResolverGetsVerbatimName(t *testing.T) {
	var calls []string
	record := func(name string) bool {
		calls = append(calls, name)
		return true
	}
	Evaluate(`TRUE && camelCase && x2y`, record, nil)
	assert.Equal(t, []string{"TRUE", "camelCase", "x2y"}, calls)
}
