// package main implements a simple stress tool for the expression
// evaluator: it generates a corpus of random well-formed expressions and
// hammers Evaluate from several workers while flipping flag values
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/valyala/fastrand"
	"lukechampine.com/frand"

	"github.com/ozontech/condexpr/parser"
)

const (
	tickerTime = time.Second * 2 // stats ticker
	maxDepth   = 6
)

var vocabulary = []string{
	"isWindows", "isLinux", "isMacos", "isDebug", "isRelease",
	"hasAvx", "hasNeon", "isServer", "isHeadless", "hasVulkan",
}

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	workers := flag.Int("workers", 1, "")
	corpusSize := flag.Int("corpus", 10000, "number of generated expressions")
	flag.Parse()

	log.Printf("Workers: %d, corpus: %d", *workers, *corpusSize)

	ctx, cancel := context.WithCancel(context.Background())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT)

	go func() {
		<-quit
		log.Println("Got signal, quitting")
		cancel()
	}()

	corpus := make([]string, *corpusSize)
	for i := range corpus {
		corpus[i] = genExpr(maxDepth)
	}

	stressEval(ctx, corpus, *workers)
}

// genExpr emits a random well-formed expression, biased towards leaves as
// depth runs out
func genExpr(depth int) string {
	if depth == 0 || frand.Intn(4) == 0 {
		ident := vocabulary[frand.Intn(len(vocabulary))]
		if frand.Intn(3) == 0 {
			return "!" + ident
		}
		return ident
	}

	left := genExpr(depth - 1)
	right := genExpr(depth - 1)

	op := " && "
	if frand.Intn(2) == 0 {
		op = " || "
	}

	expr := left + op + right
	switch frand.Intn(3) {
	case 0:
		return "(" + expr + ")"
	case 1:
		return "!(" + expr + ")"
	}
	return expr
}

func stressEval(ctx context.Context, corpus []string, workers int) {
	var evals, resolved, diagnostics int64

	go func() {
		ticker := time.NewTicker(tickerTime)
		for range ticker.C {
			log.Printf("Evaluations: %d, resolver calls: %d, diagnostics: %d\n",
				atomic.LoadInt64(&evals), atomic.LoadInt64(&resolved), atomic.LoadInt64(&diagnostics))
		}
	}()

	wg := sync.WaitGroup{}
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go evalWorker(ctx, &wg, corpus, &evals, &resolved, &diagnostics)
	}
	wg.Wait()

	log.Printf("Done, evaluations: %d, resolver calls: %d, diagnostics: %d",
		atomic.LoadInt64(&evals), atomic.LoadInt64(&resolved), atomic.LoadInt64(&diagnostics))
}

func evalWorker(ctx context.Context, wg *sync.WaitGroup, corpus []string, evals, resolved, diagnostics *int64) {
	defer wg.Done()

	// fastrand keeps the hot loop free of the shared rand lock
	var rng fastrand.RNG
	rng.Seed(uint32(frand.Uint64n(1 << 32)))

	resolve := func(string) bool {
		atomic.AddInt64(resolved, 1)
		return rng.Uint32n(2) == 0
	}
	sink := func(string) {
		atomic.AddInt64(diagnostics, 1)
	}

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		expr := corpus[rng.Uint32n(uint32(len(corpus)))]
		parser.Evaluate(expr, resolve, sink)
		atomic.AddInt64(evals, 1)
	}
}
