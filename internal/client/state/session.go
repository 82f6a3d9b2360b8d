package state

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/atinyakov/BlogSync/internal/client/api"
	"github.com/atinyakov/BlogSync/internal/client/session"
	"github.com/atinyakov/BlogSync/internal/models"
)

// Option configures a container.
type Option func(*options)

type options struct {
	newID func() string
	now   func() time.Time
}

func defaultOptions() options {
	return options{
		newID: uuid.NewString,
		now:   time.Now,
	}
}

// WithIDFunc overrides the generator of new user ids.
func WithIDFunc(fn func() string) Option {
	return func(o *options) { o.newID = fn }
}

// WithClock overrides the time source used for createdAt and session tokens.
func WithClock(fn func() time.Time) Option {
	return func(o *options) { o.now = fn }
}

// SessionContainer owns the current user and the authentication flag.
type SessionContainer struct {
	*container[SessionState]
	remote Resources
	store  session.Store
	opts   options
}

// NewSessionContainer creates a container with an empty session.
func NewSessionContainer(remote Resources, store session.Store, log *zap.Logger, opts ...Option) *SessionContainer {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &SessionContainer{
		container: newContainer(SessionState{}, ReduceSession, cloneSessionState, log),
		remote:    remote,
		store:     store,
		opts:      o,
	}
}

// State returns the current snapshot. It shares no memory with the container.
func (c *SessionContainer) State() SessionState {
	return c.snapshot()
}

// Register creates a new account unless the email is already taken.
// It does not log the user in on the persisted side.
func (c *SessionContainer) Register(ctx context.Context, in models.RegisterInput) (models.User, error) {
	return runOperation(ctx, OpRegister, c.dispatch, c.log, msgRegisterFailed,
		func(ctx context.Context) (models.User, error) {
			var existing []models.User
			if err := c.remote.List(ctx, api.Users, "email", in.Email, &existing); err != nil {
				return models.User{}, err
			}
			if len(existing) > 0 {
				return models.User{}, ErrEmailRegistered
			}

			u := models.User{
				ID:        c.opts.newID(),
				FullName:  in.FullName,
				Email:     in.Email,
				Password:  in.Password,
				Bio:       in.Bio,
				CreatedAt: c.opts.now().UTC(),
			}
			var created models.User
			if err := c.remote.Create(ctx, api.Users, u, &created); err != nil {
				return models.User{}, err
			}
			return created, nil
		})
}

// Login checks the credentials against the users collection and persists a
// new session on success.
//
// The password is compared as plain text.
func (c *SessionContainer) Login(ctx context.Context, email, password string) (models.User, error) {
	return runOperation(ctx, OpLogin, c.dispatch, c.log, msgLoginFailed,
		func(ctx context.Context) (models.User, error) {
			var found []models.User
			if err := c.remote.List(ctx, api.Users, "email", email, &found); err != nil {
				return models.User{}, err
			}
			if len(found) == 0 {
				return models.User{}, ErrUserNotFound
			}
			u := found[0]
			if u.Password != password {
				return models.User{}, ErrInvalidPassword
			}

			s := session.Session{
				AuthToken: session.NewToken(u.ID, c.opts.now()),
				UserID:    u.ID,
				UserName:  u.FullName,
			}
			if err := c.store.Save(ctx, s); err != nil {
				return models.User{}, fmt.Errorf("save session: %w", err)
			}
			return u, nil
		})
}

// FetchCurrentUser reloads the user named by the persisted session.
// A rejection forces IsAuthenticated to false.
func (c *SessionContainer) FetchCurrentUser(ctx context.Context) (models.User, error) {
	return runOperation(ctx, OpFetchCurrentUser, c.dispatch, c.log, msgFetchUserFailed,
		func(ctx context.Context) (models.User, error) {
			s, err := c.store.Load(ctx)
			if err != nil {
				return models.User{}, fmt.Errorf("load session: %w", err)
			}
			if s.UserID == "" {
				return models.User{}, ErrNoSession
			}
			var u models.User
			if err := c.remote.Get(ctx, api.Users, s.UserID, &u); err != nil {
				return models.User{}, err
			}
			return u, nil
		})
}

// UpdateProfile patches the user record. Only the fulfilled phase changes
// state; loading and error are not touched by this operation.
func (c *SessionContainer) UpdateProfile(ctx context.Context, id string, patch models.UserPatch) (models.User, error) {
	return runOperation(ctx, OpUpdateProfile, c.dispatch, c.log, msgUpdateProfile,
		func(ctx context.Context) (models.User, error) {
			var u models.User
			if err := c.remote.Patch(ctx, api.Users, id, patch, &u); err != nil {
				return models.User{}, err
			}
			return u, nil
		})
}

// Logout clears the user and every persisted session key. In-memory state is
// cleared even when the store fails; that failure is returned.
func (c *SessionContainer) Logout(ctx context.Context) error {
	err := c.store.Clear(ctx)
	c.dispatch(Action{Op: OpLogout})
	if err != nil {
		c.log.Warn("failed to clear persisted session", zap.Error(err))
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// ClearError resets the error field.
func (c *SessionContainer) ClearError() {
	c.dispatch(Action{Op: OpUserClearError})
}

// Bootstrap revalidates a persisted session at startup: when an auth token
// is stored it runs FetchCurrentUser, otherwise it does nothing.
func (c *SessionContainer) Bootstrap(ctx context.Context) error {
	s, err := c.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if s.Empty() {
		c.log.Debug("no saved session")
		return nil
	}
	if s.AuthToken == "" {
		c.log.Warn("saved session has no auth token, not restoring",
			zap.String("userId", s.UserID))
		return nil
	}
	_, err = c.FetchCurrentUser(ctx)
	return err
}
