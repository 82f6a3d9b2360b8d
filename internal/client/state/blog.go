package state

import (
	"context"

	"go.uber.org/zap"

	"github.com/atinyakov/BlogSync/internal/client/api"
	"github.com/atinyakov/BlogSync/internal/models"
)

// BlogContainer owns the in-memory blog list and the currently opened post.
// Operations that need the acting user take its id explicitly.
type BlogContainer struct {
	*container[BlogState]
	remote Resources
}

// NewBlogContainer creates a container with an empty list.
func NewBlogContainer(remote Resources, log *zap.Logger) *BlogContainer {
	return &BlogContainer{
		container: newContainer(BlogState{Blogs: []models.Blog{}}, ReduceBlogs, cloneBlogState, log),
		remote:    remote,
	}
}

// State returns the current snapshot. Blogs, their like sets and
// CurrentBlog are copies.
func (c *BlogContainer) State() BlogState {
	return c.snapshot()
}

// FetchBlogs replaces the list with the posts of userID. Filtering happens on
// the server.
func (c *BlogContainer) FetchBlogs(ctx context.Context, userID string) ([]models.Blog, error) {
	return runOperation(ctx, OpFetchBlogs, c.dispatch, c.log, msgFetchBlogsFailed,
		func(ctx context.Context) ([]models.Blog, error) {
			var blogs []models.Blog
			if err := c.remote.List(ctx, api.Blogs, "userId", userID, &blogs); err != nil {
				return nil, err
			}
			return blogs, nil
		})
}

// FetchBlogByID loads a single post into CurrentBlog.
func (c *BlogContainer) FetchBlogByID(ctx context.Context, id string) (models.Blog, error) {
	return runOperation(ctx, OpFetchBlogByID, c.dispatch, c.log, msgFetchBlogFailed,
		func(ctx context.Context) (models.Blog, error) {
			var b models.Blog
			if err := c.remote.Get(ctx, api.Blogs, id, &b); err != nil {
				return models.Blog{}, err
			}
			return b, nil
		})
}

// CreateBlog stores post as given and appends the stored record to the list.
// The caller supplies every field, including id, author and timestamps.
func (c *BlogContainer) CreateBlog(ctx context.Context, post models.Blog) (models.Blog, error) {
	return runOperation(ctx, OpCreateBlog, c.dispatch, c.log, msgCreateBlogFailed,
		func(ctx context.Context) (models.Blog, error) {
			var b models.Blog
			if err := c.remote.Create(ctx, api.Blogs, post, &b); err != nil {
				return models.Blog{}, err
			}
			return b, nil
		})
}

// UpdateBlog patches a post and swaps the returned record into the list.
// A post missing from the list is not added.
func (c *BlogContainer) UpdateBlog(ctx context.Context, id string, patch models.BlogPatch) (models.Blog, error) {
	return runOperation(ctx, OpUpdateBlog, c.dispatch, c.log, msgUpdateBlogFailed,
		func(ctx context.Context) (models.Blog, error) {
			var b models.Blog
			if err := c.remote.Patch(ctx, api.Blogs, id, patch, &b); err != nil {
				return models.Blog{}, err
			}
			return b, nil
		})
}

// DeleteBlog removes a post remotely, then drops it from the list.
func (c *BlogContainer) DeleteBlog(ctx context.Context, id string) (string, error) {
	return runOperation(ctx, OpDeleteBlog, c.dispatch, c.log, msgDeleteBlogFailed,
		func(ctx context.Context) (string, error) {
			if err := c.remote.Delete(ctx, api.Blogs, id); err != nil {
				return "", err
			}
			return id, nil
		})
}

// ToggleLike adds userID to the post's likes, or removes it when present.
//
// The toggle is a read followed by a separate write of the whole like set.
// Two toggles racing on one post can lose an update; nothing here
// serializes them.
func (c *BlogContainer) ToggleLike(ctx context.Context, id, userID string) (models.Blog, error) {
	return runOperation(ctx, OpToggleLikeBlog, c.dispatch, c.log, msgLikeBlogFailed,
		func(ctx context.Context) (models.Blog, error) {
			var current models.Blog
			if err := c.remote.Get(ctx, api.Blogs, id, &current); err != nil {
				return models.Blog{}, err
			}

			likes := models.ToggleLike(current.Likes, userID)
			var updated models.Blog
			if err := c.remote.Patch(ctx, api.Blogs, id, models.BlogPatch{Likes: &likes}, &updated); err != nil {
				return models.Blog{}, err
			}
			return updated, nil
		})
}

// ClearError resets the error field.
func (c *BlogContainer) ClearError() {
	c.dispatch(Action{Op: OpBlogClearError})
}
