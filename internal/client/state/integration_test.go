package state_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/atinyakov/BlogSync/internal/client/api"
	"github.com/atinyakov/BlogSync/internal/client/session"
	"github.com/atinyakov/BlogSync/internal/client/state"
	"github.com/atinyakov/BlogSync/internal/models"
	"github.com/atinyakov/BlogSync/internal/repository"
	handler "github.com/atinyakov/BlogSync/internal/server/handler/http"
	"github.com/atinyakov/BlogSync/internal/service"
)

// Runs both containers against the real router backed by the in-memory store.
func TestStoreAgainstResourceServer(t *testing.T) {
	svc := service.NewResourceService(repository.NewMemoryResourceRepository())
	srv := httptest.NewServer(handler.NewRouter(&handler.ResourceHandler{Service: svc}, zap.NewNop()))
	defer srv.Close()

	sessions := session.NewMemoryStore()
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	store := state.NewStore(api.New(srv.Client(), srv.URL), sessions, zap.NewNop(),
		state.WithIDFunc(func() string { return "u1" }),
		state.WithClock(func() time.Time { return now }),
	)
	ctx := context.Background()

	_, err := store.Session.Register(ctx, models.RegisterInput{FullName: "Ann", Email: "ann@example.com", Password: "pw"})
	require.NoError(t, err)
	_, err = store.Session.Register(ctx, models.RegisterInput{FullName: "Ann", Email: "ann@example.com", Password: "pw"})
	require.Error(t, err)
	assert.Equal(t, "Email already registered", store.Session.State().Error)

	u, err := store.Session.Login(ctx, "ann@example.com", "pw")
	require.NoError(t, err)
	assert.True(t, u.CreatedAt.Equal(now))

	for _, id := range []string{"1", "2", "3"} {
		_, err := store.Blogs.CreateBlog(ctx, models.Blog{
			ID: id, Title: "t" + id, Category: "Technology",
			UserID: u.ID, AuthorName: u.FullName, Likes: []string{},
			CreatedAt: now, UpdatedAt: now,
		})
		require.NoError(t, err)
	}

	blogs, err := store.Blogs.FetchBlogs(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, blogs, 3)
	assert.Equal(t, "1", blogs[0].ID)
	assert.Equal(t, "3", blogs[2].ID)

	_, err = store.Blogs.DeleteBlog(ctx, "2")
	require.NoError(t, err)
	got := store.Blogs.State().Blogs
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "3", got[1].ID)

	_, err = store.Blogs.FetchBlogByID(ctx, "2")
	require.Error(t, err)
	assert.ErrorIs(t, err, api.ErrNotFound)
	// the server explains the 404, so its message is surfaced
	assert.Equal(t, "record not found", store.Blogs.State().Error)

	b, err := store.Blogs.ToggleLike(ctx, "1", "u2")
	require.NoError(t, err)
	assert.Equal(t, []string{"u2"}, b.Likes)
	b, err = store.Blogs.ToggleLike(ctx, "1", "u2")
	require.NoError(t, err)
	assert.Empty(t, b.Likes)
	assert.NotNil(t, b.Likes)

	bio := "writer"
	updated, err := store.Session.UpdateProfile(ctx, u.ID, models.UserPatch{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "writer", updated.Bio)
	assert.Equal(t, "ann@example.com", updated.Email)

	require.NoError(t, store.Session.Logout(ctx))
	persisted, err := sessions.Load(ctx)
	require.NoError(t, err)
	assert.True(t, persisted.Empty())
	assert.False(t, store.Session.State().IsAuthenticated)
}
