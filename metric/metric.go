package metric

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ozontech/condexpr/buildinfo"
)

var (
	Version = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "condexpr",
		Name:      "version",
		Help:      "",
	},
		[]string{"version"})

	EvaluationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "condexpr",
		Subsystem: "eval",
		Name:      "evaluations_total",
		Help:      "expressions evaluated",
	})

	DiagnosticsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "condexpr",
		Subsystem: "eval",
		Name:      "diagnostics_total",
		Help:      "expressions that produced diagnostic output",
	}, []string{"source"})

	FlagReloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "condexpr",
		Subsystem: "flags",
		Name:      "reloads_total",
		Help:      "flag file reload attempts",
	}, []string{"status"})
)

func init() {
	Version.WithLabelValues(buildinfo.Version).Inc()
}
