package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/healthkeeper/internal/flagx"
	"github.com/dmitrijs2005/healthkeeper/internal/timex"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   HTTP bind address (e.g. ":3000")
//	-d string   PostgreSQL DSN; empty selects the in-memory store
//	-s string   token HMAC secret
//	-t duration token validity ("7d", "12h")
//	-e string   environment: development | production
//	-l string   log level
//
// os.Args is first filtered to these flags so the -c/-config flag consumed by
// parseJson does not trip this flag set.
func parseFlags(config *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-d", "-s", "-t", "-e", "-l"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "token signing secret")

	validity := &timex.Duration{Duration: config.TokenValidityDuration}
	fs.Var(validity, "t", "token validity duration")

	fs.StringVar(&config.Environment, "e", config.Environment, "environment (development|production)")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.TokenValidityDuration = validity.Duration
}
