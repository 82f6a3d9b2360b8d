// Package main is the interactive command-line client of BlogSync.
package main

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/atinyakov/BlogSync/internal/client/api"
	"github.com/atinyakov/BlogSync/internal/client/session"
	"github.com/atinyakov/BlogSync/internal/client/state"
	"github.com/atinyakov/BlogSync/internal/config"
	"github.com/atinyakov/BlogSync/internal/logger"
)

var (
	version   string
	buildDate string
)

// openSessionStore returns the configured session store and the closer releasing it.
func openSessionStore(ctx context.Context, opts *config.ClientOptions) (session.Store, io.Closer, error) {
	switch opts.SessionBackend {
	case config.BackendSQLite:
		s, err := session.OpenSQLite(ctx, opts.SessionPath)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case config.BackendMemory:
		return session.NewMemoryStore(), io.NopCloser(nil), nil
	default:
		return session.NewFileStore(opts.SessionPath), io.NopCloser(nil), nil
	}
}

// currentUserID reports the id of the authenticated user, or "".
func currentUserID(store *state.Store) func() string {
	return func() string {
		st := store.Session.State()
		if !st.IsAuthenticated || st.User == nil {
			return ""
		}
		return st.User.ID
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdin, os.Stdout)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// run wires the client from args and serves the shell on in/out until exit.
// Every resource it opens is released before it returns.
func run(ctx context.Context, args []string, in io.Reader, out io.Writer) error {
	opts, err := config.ParseClient(args)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	fmt.Fprintf(out, "BlogSync client %s (%s)\n", cmp.Or(version, "N/A"), cmp.Or(buildDate, "N/A"))

	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(opts.LogLevel); err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}

	httpClient, err := api.NewHTTPClient(opts.Timeout.Duration, opts.CAFile)
	if err != nil {
		return fmt.Errorf("failed to build http client: %w", err)
	}
	remote := api.New(httpClient, opts.APIURL)

	sessions, closer, err := openSessionStore(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to open session store: %w", err)
	}
	defer func() {
		if err := closer.Close(); err != nil {
			log.Log.Warn("failed to close session store", zap.Error(err))
		}
	}()

	store := state.NewStore(remote, sessions, log.Log)
	unsubscribe := store.Session.Subscribe(func(s state.SessionState) {
		log.Log.Debug("session changed",
			zap.Bool("authenticated", s.IsAuthenticated),
			zap.Bool("loading", s.Loading),
			zap.String("error", s.Error),
		)
	})
	defer unsubscribe()

	if err := store.Session.Bootstrap(ctx); err != nil {
		log.Log.Info("saved session not restored", zap.Error(err))
	}
	if id := currentUserID(store)(); id != "" {
		fmt.Fprintf(out, "Logged in as %s\n", store.Session.State().User.FullName)
		if _, err := store.Blogs.FetchBlogs(ctx, id); err != nil {
			log.Log.Warn("initial blog fetch failed", zap.Error(err))
		}
	}

	if opts.Refresh.Duration > 0 {
		refreshCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		state.StartAutoRefresh(refreshCtx, store.Blogs, currentUserID(store), opts.Refresh.Duration, log.Log)
	}

	newShell(store, in, out).run(ctx)
	return nil
}
