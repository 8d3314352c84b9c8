// Package nemval is the root of the transaction validation engine. It holds
// the resources shared by every package of the module.
package nemval

import (
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

var logout = zerolog.ConsoleWriter{
	Out:        os.Stdout,
	TimeFormat: time.RFC3339,
}

// Logger is a globally available logger instance.
var Logger = zerolog.New(logout).
	With().Timestamp().Logger().
	With().Caller().Logger().
	Level(zerolog.DebugLevel)

// PromCollectors exposes the Prometheus collectors created in the module. A
// binary can register them to expose the metrics.
var PromCollectors []prometheus.Collector
