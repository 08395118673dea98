package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/healthkeeper/internal/flagx"
	"github.com/dmitrijs2005/healthkeeper/internal/timex"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string     base URL of the server API
//	-t duration   per-request timeout
func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-t"})

	fs := flag.NewFlagSet("client", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "server base URL")
	timeout := &timex.Duration{Duration: cfg.RequestTimeout}
	fs.Var(timeout, "t", "request timeout")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = timeout.Duration
}
