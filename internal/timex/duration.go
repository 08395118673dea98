// Package timex holds a time.Duration wrapper that reads from JSON, env and
// flags. Besides Go duration syntax ("90m", "1h30m") it accepts a day suffix
// ("7d"), whole or combined with other units ("1d12h").
package timex

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const day = 24 * time.Hour

// Duration is a time.Duration that implements encoding.TextUnmarshaler and
// json.Unmarshaler. JSON numbers are taken as nanoseconds.
type Duration struct {
	time.Duration
}

// ParseDuration parses s as a Go duration with an optional leading "<n>d" part.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("timex: empty duration")
	}

	days, rest, found := strings.Cut(s, "d")
	if !found {
		return time.ParseDuration(s)
	}

	n, err := strconv.ParseInt(days, 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("timex: invalid day count in %q", s)
	}
	if n > math.MaxInt64/int64(day) {
		return 0, fmt.Errorf("timex: duration out of range: %q", s)
	}

	d := time.Duration(n) * day
	if rest == "" {
		return d, nil
	}

	extra, err := time.ParseDuration(rest)
	if err != nil {
		return 0, fmt.Errorf("timex: %w", err)
	}
	if extra > 0 && d > math.MaxInt64-extra {
		return 0, fmt.Errorf("timex: duration out of range: %q", s)
	}
	return d + extra, nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		return d.UnmarshalText([]byte(value))
	default:
		return fmt.Errorf("timex: invalid duration %s", string(b))
	}
}

// String satisfies flag.Value together with Set.
func (d *Duration) String() string {
	return d.Duration.String()
}

func (d *Duration) Set(s string) error {
	return d.UnmarshalText([]byte(s))
}
