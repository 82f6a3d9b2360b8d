// Package state holds the client-side state containers: the user session
// and the blog collection. Each asynchronous operation moves through
// pending, fulfilled and rejected phases, and a container folds the
// resulting actions into its state with a pure reducer.
package state

// Phase is the stage of an asynchronous operation.
type Phase string

const (
	PhasePending   Phase = "pending"
	PhaseFulfilled Phase = "fulfilled"
	PhaseRejected  Phase = "rejected"
)

// Op tags an operation. Synchronous actions (logout, clearError) carry no phase.
type Op string

const (
	OpRegister         Op = "user/register"
	OpLogin            Op = "user/login"
	OpFetchCurrentUser Op = "user/fetchCurrentUser"
	OpUpdateProfile    Op = "user/updateUserProfile"
	OpLogout           Op = "user/logout"
	OpUserClearError   Op = "user/clearError"

	OpFetchBlogs     Op = "blog/fetchBlogs"
	OpFetchBlogByID  Op = "blog/fetchBlogById"
	OpCreateBlog     Op = "blog/createBlog"
	OpUpdateBlog     Op = "blog/updateBlog"
	OpDeleteBlog     Op = "blog/deleteBlog"
	OpToggleLikeBlog Op = "blog/toggleLikeBlog"
	OpBlogClearError Op = "blog/clearError"
)

// Action is a single state transition request handed to a reducer.
type Action struct {
	Op    Op
	Phase Phase
	// Payload is the fulfilled result: models.User, models.Blog, []models.Blog
	// or a deleted post id, depending on Op.
	Payload any
	// Err is the rejection message.
	Err string
}

// Type renders the action the way it appears in logs, e.g. "blog/createBlog/pending".
func (a Action) Type() string {
	if a.Phase == "" {
		return string(a.Op)
	}
	return string(a.Op) + "/" + string(a.Phase)
}
