// Package parser evaluates conditional expressions over named boolean
// flags, e.g. `isWindows && !isDebug`. Expressions combine identifiers
// with `!`, `&&`, `||` and round brackets; identifier values come from a
// caller-supplied Resolver and diagnostics go to a caller-supplied Sink.
//
// Evaluation is folded into a recursive-descent parse — no syntax tree is
// built and nothing is allocated on the happy path. A call keeps no state
// behind, so concurrent calls need no synchronization as long as the
// supplied callbacks are reentrant.
package parser

// Resolver maps an identifier name to its truth value. It is called once
// per identifier occurrence, in source order, including occurrences that
// cannot change the outcome: `&&` and `||` do not short-circuit, both
// operands are always parsed and therefore always resolved.
type Resolver func(name string) bool

// Sink receives diagnostic text in fragments, without any framing; the
// caller concatenates them into a message. One diagnostic arrives as
// several calls and ends with "\n". A nil Sink discards diagnostics.
type Sink func(fragment string)

// Evaluate parses expr and returns its truth value under resolve.
//
// There is no error return: a malformed expression produces Sink output
// and a result assembled from the sub-expressions that did parse, with
// false standing in for the broken node. Input left over after the
// top-level expression (`a ) b`) is silently ignored. Callers that need
// to reject malformed input must treat any Sink output as failure.
func Evaluate(expr string, resolve Resolver, sink Sink) bool {
	e := evaluator{
		expr:    expr,
		resolve: resolve,
		sink:    sink,
	}
	e.next()
	return e.parseExpr()
}

// primary := IDENT | '(' expr ')'
func (e *evaluator) parsePrimary() bool {
	switch e.tok.kind {
	case tokenIdent:
		value := e.resolve(e.tok.name)
		e.next()
		return value
	case tokenLParen:
		e.next()
		value := e.parseExpr()
		if e.tok.kind != tokenRParen {
			e.report("Error: expected ')', found: ")
			e.renderToken()
			e.report("\n")
			return false
		}
		e.next()
		return value
	default:
		e.report("Error: expected identifier or '('\n")
		return false
	}
}

// not := '!'* primary, an even run of '!' cancels out
func (e *evaluator) parseNot() bool {
	nots := 0
	for e.tok.kind == tokenNot {
		nots++
		e.next()
	}

	value := e.parsePrimary()
	if nots%2 != 0 {
		value = !value
	}
	return value
}

// and := not { '&&' not }, folded left, both sides always evaluated
func (e *evaluator) parseAnd() bool {
	value := e.parseNot()
	for e.tok.kind == tokenAnd {
		e.next()
		res := e.parseNot()
		value = value && res
	}
	return value
}

// or := and { '||' and }, folded left, both sides always evaluated
func (e *evaluator) parseOr() bool {
	value := e.parseAnd()
	for e.tok.kind == tokenOr {
		e.next()
		res := e.parseAnd()
		value = value || res
	}
	return value
}

func (e *evaluator) parseExpr() bool {
	return e.parseOr()
}
