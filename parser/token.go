package parser

type tokenKind int

const (
	tokenIdent tokenKind = iota
	tokenLParen
	tokenRParen
	tokenNot
	tokenAnd
	tokenOr
	tokenEnd
)

type token struct {
	kind tokenKind
	// name is a substring of the input, set only for tokenIdent.
	name string
}

// renderToken sends the textual label of the current token to the sink,
// in fragments, the same way diagnostics are emitted.
func (e *evaluator) renderToken() {
	switch e.tok.kind {
	case tokenIdent:
		e.report("ID [")
		e.report(e.tok.name)
		e.report("]")
	case tokenLParen:
		e.report("LPAREN")
	case tokenRParen:
		e.report("RPAREN")
	case tokenNot:
		e.report("NOT")
	case tokenAnd:
		e.report("AND")
	case tokenOr:
		e.report("OR")
	case tokenEnd:
		e.report("END")
	default:
		// unreachable
		e.report("<<UNKNOWN TOKEN>>")
	}
}
