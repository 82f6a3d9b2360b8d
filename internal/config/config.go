// Package config provides functionality for managing configuration options
// of the server and the client using command-line flags, a JSON config file
// and environment variables.
//
// Sources are applied in this order: flag defaults, the JSON file, flags given
// on the command line, environment variables.
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"
)

// Duration is a time.Duration that reads "5s"-style strings from JSON.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("duration must be a string like \"10s\": %w", err)
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// parse runs the shared flag/file/env sequence over target, whose flags are
// already registered on fs. env applies environment overrides last.
func parse(fs *flag.FlagSet, args []string, configPath *string, target any, env func()) error {
	fs.SetOutput(io.Discard)
	if err := fs.Parse(args); err != nil {
		return err
	}

	if p := os.Getenv("CONFIG"); p != "" {
		*configPath = p
	}

	if *configPath != "" {
		data, err := os.ReadFile(*configPath)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return fmt.Errorf("error while reading config file: %w", err)
		default:
			if err := json.Unmarshal(data, target); err != nil {
				return fmt.Errorf("error while parsing config file: %w", err)
			}
			// flags given explicitly win over the file
			if err := fs.Parse(args); err != nil {
				return err
			}
		}
	}

	env()
	return nil
}

func lookupEnv(name string, dst *string) {
	if v := os.Getenv(name); v != "" {
		*dst = v
	}
}

func lookupEnvDuration(name string, dst *time.Duration) error {
	v := os.Getenv(name)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = d
	return nil
}
