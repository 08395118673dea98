// Package flagx lets several independent flag sets share one command line.
// Each consumer filters os.Args down to the flags it owns before parsing, so
// an unknown flag in one layer never aborts another.
package flagx

import (
	"flag"
	"io"
	"strings"
)

// FilterArgs returns the subset of args made of the allowed flags and
// their values.
//
// Supported formats:
//  1. Flag and value as separate arguments: -a :3000
//  2. Flag and value joined with '=':       -a=:3000
//
// Parameters:
//
//	args         the command-line arguments (usually os.Args[1:])
//	allowedFlags flag names to keep, with their dashes (e.g. []string{"-a", "-d"})
//
// Returns:
//
//	A non-nil slice holding the allowed flags and their values.
func FilterArgs(args []string, allowedFlags []string) []string {
	// Set of allowed names for constant-time lookup.
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		// "-f=value": keep or drop the argument as a whole.
		if name, _, ok := strings.Cut(arg, "="); ok && strings.HasPrefix(arg, "-") {
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		// "-f value": the value, if any, is the next argument.
		if _, ok := allowed[arg]; !ok {
			continue
		}
		filtered = append(filtered, arg)

		// A following "-x" is another flag, not a value.
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++ // value consumed
		}
	}

	return filtered
}

// ConfigFileFlag extracts the JSON config path given with -c or -config.
//
// Only these flags are parsed; everything else in args is ignored, so each
// configuration layer can run its own flag set over the same command line.
//
// Parameters:
//
//	args the command-line arguments (usually os.Args[1:])
//
// Returns:
//
//	The config file path, or "" when neither flag is present.
func ConfigFileFlag(args []string) string {
	var path string

	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&path, "config", "", "path to JSON config file")
	fs.StringVar(&path, "c", "", "path to JSON config file (short)")

	// Parse errors are ignored: other layers own the remaining flags.
	_ = fs.Parse(FilterArgs(args, []string{"-c", "-config", "--config"}))

	return path
}
