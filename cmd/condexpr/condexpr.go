package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"go.uber.org/atomic"
	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/zap"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/ozontech/condexpr/buildinfo"
	"github.com/ozontech/condexpr/conf"
	"github.com/ozontech/condexpr/flagprovider"
	"github.com/ozontech/condexpr/logger"
	"github.com/ozontech/condexpr/metric"
	"github.com/ozontech/condexpr/network/debugserver"
	"github.com/ozontech/condexpr/parser"
)

const (
	exitTrue        = 0
	exitFalse       = 1
	exitDiagnostics = 2
)

func main() {
	logger.Info("hi, I am condexpr",
		zap.String("version", buildinfo.Version),
		zap.String("build_time", buildinfo.BuildTime),
	)
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	kingpin.Version(buildinfo.Version)
	kingpin.Parse()

	_, _ = maxprocs.Set(maxprocs.Logger(func(tpl string, args ...any) {
		logger.Info(fmt.Sprintf(tpl, args...))
	}))

	if *flagMaxIdentLength < 2 {
		logger.Fatal("max-ident-length must be at least 2", zap.Int("value", *flagMaxIdentLength))
	}
	conf.MaxIdentLength = *flagMaxIdentLength
	conf.CaseSensitive = *flagCaseSensitive

	var serviceReady atomic.Bool
	if *flagDebugAddr != "" {
		debugServer := debugserver.New(*flagDebugAddr, &serviceReady)
		go debugServer.Start()
	}

	provider := newProvider(ctx)
	serviceReady.Store(true)

	resolve := provider.Resolver()

	var code int
	if len(*argExprs) == 0 {
		code = evalStream(os.Stdin, resolve)
	} else {
		code = evalArgs(*argExprs, resolve)
	}
	os.Exit(code)
}

func newProvider(ctx context.Context) *flagprovider.FlagProvider {
	var provider *flagprovider.FlagProvider
	var err error

	if *flagFlagsPath != "" {
		provider, err = flagprovider.New(*flagFlagsPath, flagprovider.WithUpdatePeriod(*flagUpdatePeriod))
		if err != nil {
			logger.Fatal("load flags error", zap.Error(err))
		}
		if *flagWatchFlags {
			provider.WatchUpdates(ctx)
		}
	} else {
		provider, err = flagprovider.New("", flagprovider.WithFlags(map[string]bool{}))
		if err != nil {
			logger.Fatal("init flags error", zap.Error(err))
		}
	}

	for name, raw := range *flagSet {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			logger.Fatal("bad --set value", zap.String("flag", name), zap.String("value", raw))
		}
		if err := provider.Set(name, value); err != nil {
			logger.Fatal("bad --set flag", zap.Error(err))
		}
	}

	return provider
}

// evalOne evaluates a single expression, buffering diagnostic fragments
// into one message.
func evalOne(expr string, resolve parser.Resolver) (bool, string) {
	var diag strings.Builder
	result := parser.Evaluate(expr, resolve, func(fragment string) {
		diag.WriteString(fragment)
	})

	metric.EvaluationsTotal.Inc()
	if diag.Len() > 0 {
		metric.DiagnosticsTotal.WithLabelValues("parse").Inc()
	}
	return result, diag.String()
}

// evalArgs evaluates the positional expressions. With exactly one
// expression the exit code mirrors the result; with several it only
// reflects failures.
func evalArgs(exprs []string, resolve parser.Resolver) int {
	diagnosed := false
	lastResult := false

	for _, expr := range exprs {
		result, diag := evalOne(expr, resolve)
		lastResult = result
		if diag != "" {
			diagnosed = true
			fmt.Fprint(os.Stderr, diag)
		}
		fmt.Println(strconv.FormatBool(result))
	}

	if diagnosed && *flagStrict {
		return exitDiagnostics
	}
	if len(exprs) == 1 && !lastResult {
		return exitFalse
	}
	return exitTrue
}

func evalStream(r io.Reader, resolve parser.Resolver) int {
	diagnosed := false

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		result, diag := evalOne(line, resolve)
		if diag != "" {
			diagnosed = true
			fmt.Fprint(os.Stderr, diag)
		}
		fmt.Println(strconv.FormatBool(result))
	}
	if err := scanner.Err(); err != nil {
		logger.Fatal("reading stdin", zap.Error(err))
	}

	if diagnosed && *flagStrict {
		return exitDiagnostics
	}
	return exitTrue
}
