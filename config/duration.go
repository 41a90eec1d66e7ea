package config

import (
	"errors"
	"time"
)

// Duration is a [time.Duration] that can be read from configuration files
// and command-line flags.
type Duration time.Duration

// UnmarshalText implements [encoding.TextUnmarshaler].
func (d *Duration) UnmarshalText(b []byte) error {
	dur, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// MarshalText implements [encoding.TextMarshaler].
func (d *Duration) MarshalText() ([]byte, error) {
	if d == nil {
		return nil, errors.New("cannot marshal nil duration")
	}
	return []byte(time.Duration(*d).String()), nil
}

// Set implements [pflag.Value].
func (d *Duration) Set(s string) error { return d.UnmarshalText([]byte(s)) }

// String implements [pflag.Value].
func (d *Duration) String() string { return time.Duration(*d).String() }

// Type implements [pflag.Value].
func (*Duration) Type() string { return "duration" }
