package state

import (
	"go.uber.org/zap"

	"github.com/atinyakov/BlogSync/internal/client/session"
)

// Store groups the two containers of the application. They share the remote
// client but never reference each other.
type Store struct {
	Session *SessionContainer
	Blogs   *BlogContainer
}

func NewStore(remote Resources, sessions session.Store, log *zap.Logger, opts ...Option) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		Session: NewSessionContainer(remote, sessions, log.Named("session"), opts...),
		Blogs:   NewBlogContainer(remote, log.Named("blogs")),
	}
}
