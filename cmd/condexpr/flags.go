package main

import (
	"gopkg.in/alecthomas/kingpin.v2"
)

var (
	// flag set
	flagFlagsPath    = kingpin.Flag("flags", `path to yaml flag file`).String()
	flagSet          = kingpin.Flag("set", `flag override, e.g. --set isWindows=true (repeatable)`).StringMap()
	flagWatchFlags   = kingpin.Flag("watch-flags", `periodically reload the flag file`).Default("false").Bool()
	flagUpdatePeriod = kingpin.Flag("flags-update-period", `the amount of time between flag file reloads`).Default("30s").Duration()

	// evaluation
	flagStrict         = kingpin.Flag("strict", `treat any diagnostic output as failure`).Default("false").Bool()
	flagMaxIdentLength = kingpin.Flag("max-ident-length", `identifier buffer size, terminator included`).Default("32").Int()
	flagCaseSensitive  = kingpin.Flag("case-sensitive", `case sensitive flag names`).Default("false").Bool()

	// others
	flagDebugAddr = kingpin.Flag("debug-addr", `debug listen addr e.g. ":9200", empty disables`).Default("").String()

	argExprs = kingpin.Arg("expr", `expressions to evaluate; read from stdin, one per line, when empty`).Strings()
)
