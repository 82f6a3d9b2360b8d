package state

import "github.com/atinyakov/BlogSync/internal/models"

// SessionState is the session slice of client state.
//
// User is replaced wholesale, never modified in place, so a snapshot may
// share it with later states.
type SessionState struct {
	User            *models.User
	IsAuthenticated bool
	Loading         bool
	Error           string
}

// ReduceSession applies a to s and returns the new state.
func ReduceSession(s SessionState, a Action) SessionState {
	switch a.Op {
	case OpLogout:
		s.User = nil
		s.IsAuthenticated = false
		return s
	case OpUserClearError:
		s.Error = ""
		return s

	case OpRegister, OpLogin:
		switch a.Phase {
		case PhasePending:
			s.Loading = true
			s.Error = ""
		case PhaseFulfilled:
			s.Loading = false
			s.User = userPayload(a.Payload)
			s.IsAuthenticated = true
		case PhaseRejected:
			s.Loading = false
			s.Error = a.Err
		}

	case OpFetchCurrentUser:
		// the error field is left alone in every phase
		switch a.Phase {
		case PhasePending:
			s.Loading = true
		case PhaseFulfilled:
			s.Loading = false
			s.User = userPayload(a.Payload)
			s.IsAuthenticated = true
		case PhaseRejected:
			s.Loading = false
			s.IsAuthenticated = false
		}

	case OpUpdateProfile:
		if a.Phase == PhaseFulfilled {
			s.User = userPayload(a.Payload)
		}
	}
	return s
}

func userPayload(p any) *models.User {
	switch u := p.(type) {
	case models.User:
		return &u
	case *models.User:
		if u == nil {
			return nil
		}
		cp := *u
		return &cp
	}
	return nil
}

func cloneSessionState(s SessionState) SessionState {
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}
