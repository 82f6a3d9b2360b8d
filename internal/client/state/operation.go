package state

import (
	"context"
	"errors"
	"fmt"

	"github.com/looplab/fsm"
	"go.uber.org/zap"

	"github.com/atinyakov/BlogSync/internal/client/api"
)

const stateIdle = "idle"

// Reasons raised before any remote call is made.
var (
	ErrEmailRegistered = errors.New("email already registered")
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidPassword = errors.New("invalid password")
	ErrNoSession       = errors.New("no user logged in")
)

var reasonMessages = []struct {
	err error
	msg string
}{
	{ErrEmailRegistered, "Email already registered"},
	{ErrUserNotFound, "User not found"},
	{ErrInvalidPassword, "Invalid password"},
	{ErrNoSession, "No user logged in"},
}

// Default messages used when a failure carries no reason of its own.
const (
	msgRegisterFailed  = "Registration failed"
	msgLoginFailed     = "Login failed"
	msgFetchUserFailed = "Failed to fetch user"
	msgUpdateProfile   = "Failed to update profile"

	msgFetchBlogsFailed = "Failed to fetch blogs"
	msgFetchBlogFailed  = "Failed to fetch blog"
	msgCreateBlogFailed = "Failed to create blog"
	msgUpdateBlogFailed = "Failed to update blog"
	msgDeleteBlogFailed = "Failed to delete blog"
	msgLikeBlogFailed   = "Failed to like blog"
)

// RejectError is returned by an operation that ended in the rejected phase.
// Message is exactly what was stored in the container's error field.
type RejectError struct {
	Op      Op
	Message string
	Err     error
}

func (e *RejectError) Error() string {
	return fmt.Sprintf("%s rejected: %s", e.Op, e.Message)
}

func (e *RejectError) Unwrap() error {
	return e.Err
}

// rejectMessage picks the user-facing message for err: a known reason first,
// then the server's message, then the operation default.
func rejectMessage(err error, fallback string) string {
	for _, r := range reasonMessages {
		if errors.Is(err, r.err) {
			return r.msg
		}
	}
	if msg := api.Message(err); msg != "" {
		return msg
	}
	return fallback
}

// newOperation builds the phase machine of one operation instance.
// Entering a phase dispatches the matching action; a settled machine
// accepts no further events.
func newOperation(op Op, dispatch func(Action)) *fsm.FSM {
	return fsm.NewFSM(
		stateIdle,
		fsm.Events{
			{Name: string(PhasePending), Src: []string{stateIdle}, Dst: string(PhasePending)},
			{Name: string(PhaseFulfilled), Src: []string{string(PhasePending)}, Dst: string(PhaseFulfilled)},
			{Name: string(PhaseRejected), Src: []string{string(PhasePending)}, Dst: string(PhaseRejected)},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				a := Action{Op: op, Phase: Phase(e.Dst)}
				if len(e.Args) > 0 {
					a.Payload = e.Args[0]
				}
				if len(e.Args) > 1 {
					a.Err, _ = e.Args[1].(string)
				}
				dispatch(a)
			},
		},
	)
}

// runOperation drives one operation through its phases around work.
func runOperation[T any](
	ctx context.Context,
	op Op,
	dispatch func(Action),
	log *zap.Logger,
	fallback string,
	work func(ctx context.Context) (T, error),
) (T, error) {
	machine := newOperation(op, dispatch)
	// phase events must land even if the caller's context is cancelled mid-flight
	evCtx := context.WithoutCancel(ctx)

	if err := machine.Event(evCtx, string(PhasePending)); err != nil {
		var zero T
		return zero, fmt.Errorf("%s: %w", op, err)
	}

	res, err := work(ctx)
	if err != nil {
		msg := rejectMessage(err, fallback)
		log.Debug("operation rejected",
			zap.String("op", string(op)),
			zap.String("message", msg),
			zap.Error(err),
		)
		if ferr := machine.Event(evCtx, string(PhaseRejected), nil, msg); ferr != nil {
			log.Error("failed to settle operation", zap.String("op", string(op)), zap.Error(ferr))
		}
		var zero T
		return zero, &RejectError{Op: op, Message: msg, Err: err}
	}

	if ferr := machine.Event(evCtx, string(PhaseFulfilled), res); ferr != nil {
		log.Error("failed to settle operation", zap.String("op", string(op)), zap.Error(ferr))
	}
	return res, nil
}
