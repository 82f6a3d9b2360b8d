package state

import (
	"slices"

	"github.com/atinyakov/BlogSync/internal/models"
)

// BlogState is the blog collection slice of client state.
// Blogs keeps the order of the server response.
type BlogState struct {
	Blogs       []models.Blog
	Loading     bool
	Error       string
	CurrentBlog *models.Blog
}

// ReduceBlogs applies a to s and returns the new state. The Blogs slice of s
// is never written to; list changes always produce a fresh slice.
func ReduceBlogs(s BlogState, a Action) BlogState {
	if a.Op == OpBlogClearError {
		s.Error = ""
		return s
	}

	switch a.Op {
	case OpToggleLikeBlog:
		// only the fulfilled phase is handled
		if a.Phase == PhaseFulfilled {
			if b, ok := a.Payload.(models.Blog); ok {
				s.Blogs = replaceBlog(s.Blogs, b)
			}
		}
		return s
	case OpFetchBlogs, OpFetchBlogByID, OpCreateBlog, OpUpdateBlog, OpDeleteBlog:
	default:
		return s
	}

	switch a.Phase {
	case PhasePending:
		s.Loading = true
		s.Error = ""
		return s
	case PhaseRejected:
		s.Loading = false
		s.Error = a.Err
		return s
	case PhaseFulfilled:
		s.Loading = false
	default:
		return s
	}

	switch a.Op {
	case OpFetchBlogs:
		blogs, _ := a.Payload.([]models.Blog)
		s.Blogs = slices.Clone(blogs)
		if s.Blogs == nil {
			s.Blogs = []models.Blog{}
		}
	case OpFetchBlogByID:
		if b, ok := a.Payload.(models.Blog); ok {
			s.CurrentBlog = &b
		}
	case OpCreateBlog:
		if b, ok := a.Payload.(models.Blog); ok {
			blogs := make([]models.Blog, 0, len(s.Blogs)+1)
			s.Blogs = append(append(blogs, s.Blogs...), b)
		}
	case OpUpdateBlog:
		if b, ok := a.Payload.(models.Blog); ok {
			s.Blogs = replaceBlog(s.Blogs, b)
		}
	case OpDeleteBlog:
		if id, ok := a.Payload.(string); ok {
			s.Blogs = slices.DeleteFunc(slices.Clone(s.Blogs), func(b models.Blog) bool {
				return b.ID == id
			})
		}
	}
	return s
}

// replaceBlog swaps the entry with b's id for b, keeping its position.
// Unknown ids leave the list as is.
func replaceBlog(blogs []models.Blog, b models.Blog) []models.Blog {
	i := slices.IndexFunc(blogs, func(x models.Blog) bool { return x.ID == b.ID })
	if i < 0 {
		return blogs
	}
	out := slices.Clone(blogs)
	out[i] = b
	return out
}

func cloneBlog(b models.Blog) models.Blog {
	b.Likes = slices.Clone(b.Likes)
	return b
}

func cloneBlogState(s BlogState) BlogState {
	if s.Blogs != nil {
		blogs := make([]models.Blog, len(s.Blogs))
		for i, b := range s.Blogs {
			blogs[i] = cloneBlog(b)
		}
		s.Blogs = blogs
	}
	if s.CurrentBlog != nil {
		b := cloneBlog(*s.CurrentBlog)
		s.CurrentBlog = &b
	}
	return s
}
