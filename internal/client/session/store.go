// Package session persists the three authentication keys of the client:
// authToken, userId and userName.
package session

import (
	"context"
	"fmt"
	"time"
)

// Persisted key names.
const (
	KeyAuthToken = "authToken"
	KeyUserID    = "userId"
	KeyUserName  = "userName"
)

// Session is the persisted authentication state. The zero value means
// nobody is logged in.
type Session struct {
	AuthToken string `json:"authToken,omitempty"`
	UserID    string `json:"userId,omitempty"`
	UserName  string `json:"userName,omitempty"`
}

// Empty reports whether no key is set.
func (s Session) Empty() bool {
	return s == Session{}
}

// Store reads and writes the persisted session keys.
//
// Save writes all three keys together and Clear removes all of them; a
// partial session is never left behind by either call.
type Store interface {
	Load(ctx context.Context) (Session, error)
	Save(ctx context.Context, s Session) error
	Clear(ctx context.Context) error
}

// NewToken builds the opaque session token recorded on login.
func NewToken(userID string, now time.Time) string {
	return fmt.Sprintf("token_%s_%d", userID, now.UnixMilli())
}
