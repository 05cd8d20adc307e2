// Package codecmetrics defines prometheus metric types for the nlattr
// codec: schema-compile failures, build/parse errors, and unknown
// attributes skipped during parse.
package codecmetrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CompileErrors counts schema-compile failures, by reason
	// (unknown_name, malformed, no_fixed_size).
	CompileErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nlattr_schema_compile_errors_total",
			Help: "Count of schema compile failures by reason.",
		},
		[]string{"reason"},
	)

	// BuildErrors counts attribute build failures, by codec kind.
	BuildErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nlattr_build_errors_total",
			Help: "Count of build() failures by codec kind.",
		},
		[]string{"kind"},
	)

	// ParseErrors counts attribute parse failures, by codec kind.
	ParseErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nlattr_parse_errors_total",
			Help: "Count of parse() failures by codec kind.",
		},
		[]string{"kind"},
	)

	// SkippedAttributes counts unknown attribute ids tolerated (and
	// skipped) during parse rather than treated as fatal.
	SkippedAttributes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nlattr_skipped_attributes_total",
			Help: "Count of unknown attribute ids skipped during parse.",
		},
		[]string{"scope"},
	)
)
