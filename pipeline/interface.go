package pipeline

import (
	"github.com/sirupsen/logrus"

	"github.com/proxyforge/proxyforge/pipeline/ending"
	"github.com/proxyforge/proxyforge/runtime"
)

// Pipeline is an ordered sequence of steps with a single entry point.
type Pipeline interface {
	// Name returns the short name of the pipeline.
	Name() string

	// Description returns a human-readable description of the pipeline.
	Description() string

	// Run initializes and executes the pipeline against the runtime and
	// returns the aggregated result. Run never panics outward; failures are
	// reported through the result.
	Run(rt runtime.Runtime, logger *logrus.Entry) *ending.Result
}
