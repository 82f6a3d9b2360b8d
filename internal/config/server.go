package config

import (
	"errors"
	"flag"
	"fmt"
	"net"

	"github.com/hashicorp/go-multierror"
)

// ServerOptions holds the configuration of the resource server.
type ServerOptions struct {
	// Address defines the server's listening address (ip:port).
	Address string `json:"server_address"`

	// DatabaseDSN is the PostgreSQL connection string. Empty selects the
	// in-memory store.
	DatabaseDSN string `json:"database_dsn"`

	// LogLevel is the zap level name.
	LogLevel string `json:"log_level"`

	// TLSCert and TLSKey enable HTTPS when both are set.
	TLSCert string `json:"tls_cert"`
	TLSKey  string `json:"tls_key"`

	// Config is the path to the config file.
	Config string `json:"-"`
}

// ParseServer builds ServerOptions from args (without the program name),
// the config file and the environment, then validates the result.
func ParseServer(args []string) (*ServerOptions, error) {
	o := &ServerOptions{}
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.StringVar(&o.Address, "a", "localhost:8080", "run on ip:port server")
	fs.StringVar(&o.DatabaseDSN, "d", "", "db address")
	fs.StringVar(&o.LogLevel, "l", "info", "log level")
	fs.StringVar(&o.TLSCert, "tls-cert", "", "path to server TLS certificate")
	fs.StringVar(&o.TLSKey, "tls-key", "", "path to server TLS key")
	fs.StringVar(&o.Config, "config", "", "path to config file")
	fs.StringVar(&o.Config, "c", "", "path to config file (shorthand)")

	err := parse(fs, args, &o.Config, o, func() {
		lookupEnv("SERVER_ADDRESS", &o.Address)
		lookupEnv("DATABASE_DSN", &o.DatabaseDSN)
		lookupEnv("LOG_LEVEL", &o.LogLevel)
	})
	if err != nil {
		return nil, err
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}
	return o, nil
}

// Validate reports every problem of o at once.
func (o *ServerOptions) Validate() error {
	var result *multierror.Error

	if _, _, err := net.SplitHostPort(o.Address); err != nil {
		result = multierror.Append(result, fmt.Errorf("invalid server address %q: %w", o.Address, err))
	}
	if err := validateLevel(o.LogLevel); err != nil {
		result = multierror.Append(result, err)
	}
	if (o.TLSCert == "") != (o.TLSKey == "") {
		result = multierror.Append(result, errors.New("tls-cert and tls-key must be set together"))
	}
	return result.ErrorOrNil()
}

// TLSEnabled reports whether the server should listen with HTTPS.
func (o *ServerOptions) TLSEnabled() bool {
	return o.TLSCert != "" && o.TLSKey != ""
}
