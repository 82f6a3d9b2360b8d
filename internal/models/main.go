// Package models defines the core data structures for users and blog posts
// shared by the client containers and the resource server.
package models

import "time"

// User is a registered account as stored in the users collection.
type User struct {
	// ID is the opaque identifier assigned at registration. Immutable.
	ID string `json:"id"`
	// FullName is the display name of the user.
	FullName string `json:"fullName"`
	// Email is unique across users.
	Email string `json:"email"`
	// Password is stored and compared as plain text.
	Password string `json:"password"`
	// Bio is an optional free-form description.
	Bio string `json:"bio,omitempty"`
	// CreatedAt is the registration time.
	CreatedAt time.Time `json:"createdAt"`
}

// RegisterInput holds the caller-supplied fields of a new account.
type RegisterInput struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Bio      string `json:"bio,omitempty"`
}

// UserPatch is a partial profile update. Only non-nil fields are sent.
type UserPatch struct {
	FullName *string `json:"fullName,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
	Bio      *string `json:"bio,omitempty"`
}

// Blog is a single post in the blogs collection.
type Blog struct {
	// ID is generated by the client before creation.
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	// Category is one of Categories by convention, but any string is accepted.
	Category string `json:"category"`
	// UserID references User.ID of the author.
	UserID string `json:"userId"`
	// AuthorName is a copy of the author's name taken at creation time.
	AuthorName string `json:"authorName"`
	// Likes is the set of user ids that liked the post.
	Likes     []string  `json:"likes"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BlogPatch is a partial post update. Only non-nil fields are sent; Likes is a
// pointer so that an emptied like set is still transmitted.
type BlogPatch struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Content     *string    `json:"content,omitempty"`
	Category    *string    `json:"category,omitempty"`
	Likes       *[]string  `json:"likes,omitempty"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// Categories lists the category values offered when authoring a post.
var Categories = []string{
	"Technology",
	"Lifestyle",
	"Travel",
	"Food",
	"Health",
	"Business",
	"Other",
}
