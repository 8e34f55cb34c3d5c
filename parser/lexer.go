package parser

import (
	"strings"

	"github.com/ozontech/condexpr/conf"
)

// evaluator holds the state of one Evaluate call: a cursor into the
// caller's expression, the single lookahead token and the two injected
// callbacks. It lives on the stack and owns nothing.
type evaluator struct {
	expr string
	pos  int
	tok  token

	// errored is set by the lexer on the first unknown character and
	// never cleared within the call. The grammar rules detect their own
	// failures by token kind, they do not consult it.
	errored bool

	resolve Resolver
	sink    Sink
}

func (e *evaluator) report(fragment string) {
	if e.sink != nil {
		e.sink(fragment)
	}
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isAlnum(c byte) bool {
	return isAlpha(c) || (c >= '0' && c <= '9')
}

// next skips whitespace and scans the token starting at the cursor into
// e.tok, moving the cursor past the consumed bytes. An unknown character
// is reported, skipped and scanning resumes from the following byte, so
// the lookahead is always well defined and the cursor moves strictly
// forward on every path, bounding the scan by the input length.
func (e *evaluator) next() {
	for {
		for e.pos < len(e.expr) && isSpace(e.expr[e.pos]) {
			e.pos++
		}

		tail := e.expr[e.pos:]
		switch {
		case tail == "":
			e.tok = token{kind: tokenEnd}
		case strings.HasPrefix(tail, "&&"):
			e.tok = token{kind: tokenAnd}
			e.pos += 2
		case strings.HasPrefix(tail, "||"):
			e.tok = token{kind: tokenOr}
			e.pos += 2
		case tail[0] == '!':
			e.tok = token{kind: tokenNot}
			e.pos++
		case tail[0] == '(':
			e.tok = token{kind: tokenLParen}
			e.pos++
		case tail[0] == ')':
			e.tok = token{kind: tokenRParen}
			e.pos++
		case isAlpha(tail[0]):
			// The name caps at MaxIdentLength-1 bytes and the cursor
			// stops with it, so the remainder of an over-long
			// identifier is scanned as a fresh token next time around.
			start := e.pos
			limit := conf.MaxIdentLength - 1
			for e.pos < len(e.expr) && isAlnum(e.expr[e.pos]) && e.pos-start < limit {
				e.pos++
			}
			e.tok = token{kind: tokenIdent, name: e.expr[start:e.pos]}
		default:
			e.report("Unknown character: ")
			e.report(tail[:1])
			e.report("\n")
			e.pos++
			e.errored = true
			continue
		}
		return
	}
}
