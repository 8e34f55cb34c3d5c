package parser

import (
	"testing"
)

var res bool

func BenchmarkEvaluate(b *testing.B) {
	str := `isWindows && !isDebug`
	for i := 0; i < b.N; i++ {
		res = Evaluate(str, literalResolver, nil)
	}
}

func BenchmarkEvaluateLong(b *testing.B) {
	str := `(!((true && false) || (true || false) && !(false || !true)) && (true || false && true) || (!(true && (false || !false)) || !!false))`
	for i := 0; i < b.N; i++ {
		res = Evaluate(str, literalResolver, nil)
	}
}
