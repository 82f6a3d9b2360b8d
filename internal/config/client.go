package config

import (
	"errors"
	"flag"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap/zapcore"
)

// Session storage backends of the client.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// ClientOptions holds the configuration of the command-line client.
type ClientOptions struct {
	// APIURL is the base URL of the resource server.
	APIURL string `json:"api_url"`

	// SessionPath is the file (or SQLite database) holding the session.
	SessionPath string `json:"session_path"`

	// SessionBackend is one of file, sqlite or memory.
	SessionBackend string `json:"session_backend"`

	// Timeout bounds each HTTP request.
	Timeout Duration `json:"timeout"`

	// CAFile is an optional PEM CA trusted for HTTPS servers.
	CAFile string `json:"ca_file"`

	// Refresh is the blog list auto-refresh interval; zero disables it.
	Refresh Duration `json:"refresh"`

	LogLevel string `json:"log_level"`

	// Config is the path to the config file.
	Config string `json:"-"`
}

// ParseClient builds ClientOptions from args (without the program name),
// the config file and the environment, then validates the result.
func ParseClient(args []string) (*ClientOptions, error) {
	o := &ClientOptions{}
	fs := flag.NewFlagSet("client", flag.ContinueOnError)
	fs.StringVar(&o.APIURL, "url", "http://localhost:8080", "resource server base URL")
	fs.StringVar(&o.SessionPath, "session", "session.json", "path to the session file or database")
	fs.StringVar(&o.SessionBackend, "session-backend", BackendFile, "session storage: file | sqlite | memory")
	fs.DurationVar(&o.Timeout.Duration, "timeout", 10*time.Second, "HTTP request timeout")
	fs.StringVar(&o.CAFile, "ca", "", "path to CA cert for HTTPS servers")
	fs.DurationVar(&o.Refresh.Duration, "refresh", 0, "blog list auto-refresh interval (0 disables)")
	fs.StringVar(&o.LogLevel, "l", "error", "log level")
	fs.StringVar(&o.Config, "config", "", "path to config file")
	fs.StringVar(&o.Config, "c", "", "path to config file (shorthand)")

	var envErr error
	err := parse(fs, args, &o.Config, o, func() {
		lookupEnv("API_URL", &o.APIURL)
		lookupEnv("SESSION_PATH", &o.SessionPath)
		lookupEnv("SESSION_BACKEND", &o.SessionBackend)
		lookupEnv("LOG_LEVEL", &o.LogLevel)
		envErr = lookupEnvDuration("REFRESH_INTERVAL", &o.Refresh.Duration)
	})
	if err != nil {
		return nil, err
	}
	if envErr != nil {
		return nil, envErr
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}
	return o, nil
}

// Validate reports every problem of o at once.
func (o *ClientOptions) Validate() error {
	var result *multierror.Error

	if u, err := url.Parse(o.APIURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		result = multierror.Append(result, fmt.Errorf("invalid api url %q", o.APIURL))
	}
	switch o.SessionBackend {
	case BackendFile, BackendSQLite:
		if o.SessionPath == "" {
			result = multierror.Append(result, fmt.Errorf("session path is required for the %s backend", o.SessionBackend))
		}
	case BackendMemory:
	default:
		result = multierror.Append(result, fmt.Errorf("unknown session backend %q", o.SessionBackend))
	}
	if o.Timeout.Duration <= 0 {
		result = multierror.Append(result, errors.New("timeout must be positive"))
	}
	if o.Refresh.Duration < 0 {
		result = multierror.Append(result, errors.New("refresh interval must not be negative"))
	}
	if err := validateLevel(o.LogLevel); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}

func validateLevel(level string) error {
	if _, err := zapcore.ParseLevel(strings.ToLower(level)); err != nil {
		return fmt.Errorf("invalid log level %q", level)
	}
	return nil
}
