package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"

	"github.com/atinyakov/BlogSync/internal/client/state"
	"github.com/atinyakov/BlogSync/internal/models"
)

const helpText = `Available commands:
  help                 show this help
  register             create an account
  login                log in
  logout               log out and forget the saved session
  whoami               show the current user
  profile              edit your name and bio
  list                 list your posts
  get <id>             show a post
  add                  write a new post
  edit <id>            edit a post
  delete <id>          delete a post
  like <id>            like or unlike a post
  exit                 quit`

var errNotLoggedIn = errors.New("please log in first")

// shell is the interactive command loop over the application store.
type shell struct {
	store   *state.Store
	scanner *bufio.Scanner
	out     io.Writer
	now     func() time.Time
	newID   func() string

	fail *color.Color
	ok   *color.Color
	dim  *color.Color
}

func newShell(store *state.Store, in io.Reader, out io.Writer) *shell {
	return &shell{
		store:   store,
		scanner: bufio.NewScanner(in),
		out:     out,
		now:     time.Now,
		newID:   uuid.NewString,
		fail:    color.New(color.FgRed),
		ok:      color.New(color.FgGreen),
		dim:     color.New(color.Faint),
	}
}

// run reads commands until exit or end of input.
func (s *shell) run(ctx context.Context) {
	for {
		fmt.Fprint(s.out, "blogsync> ")
		if !s.scanner.Scan() {
			return
		}
		args := strings.Fields(s.scanner.Text())
		if len(args) == 0 {
			continue
		}
		if args[0] == "exit" {
			fmt.Fprintln(s.out, "Bye")
			return
		}
		if err := s.exec(ctx, args); err != nil {
			s.fail.Fprintln(s.out, "Error:", message(err))
		}
	}
}

func (s *shell) exec(ctx context.Context, args []string) error {
	needID := func() (string, error) {
		if len(args) < 2 {
			return "", fmt.Errorf("usage: %s <id>", args[0])
		}
		return args[1], nil
	}

	switch args[0] {
	case "help":
		fmt.Fprintln(s.out, helpText)
		return nil
	case "register":
		return s.register(ctx)
	case "login":
		return s.login(ctx)
	case "logout":
		if err := s.store.Session.Logout(ctx); err != nil {
			return err
		}
		s.ok.Fprintln(s.out, "Logged out")
		return nil
	case "whoami":
		return s.whoami()
	case "profile":
		return s.profile(ctx)
	case "list":
		return s.list(ctx)
	case "get":
		id, err := needID()
		if err != nil {
			return err
		}
		return s.get(ctx, id)
	case "add":
		return s.add(ctx)
	case "edit":
		id, err := needID()
		if err != nil {
			return err
		}
		return s.edit(ctx, id)
	case "delete":
		id, err := needID()
		if err != nil {
			return err
		}
		if _, err := s.store.Blogs.DeleteBlog(ctx, id); err != nil {
			return err
		}
		s.ok.Fprintln(s.out, "Post deleted")
		return nil
	case "like":
		id, err := needID()
		if err != nil {
			return err
		}
		return s.like(ctx, id)
	default:
		return fmt.Errorf("unknown command %q, type 'help' for a list of commands", args[0])
	}
}

func (s *shell) currentUser() (*models.User, error) {
	st := s.store.Session.State()
	if !st.IsAuthenticated || st.User == nil {
		return nil, errNotLoggedIn
	}
	return st.User, nil
}

func (s *shell) prompt(label string) string {
	fmt.Fprintf(s.out, "%s: ", label)
	if !s.scanner.Scan() {
		return ""
	}
	return strings.TrimSpace(s.scanner.Text())
}

// promptOptional returns nil when the answer is blank.
func (s *shell) promptOptional(label, current string) *string {
	v := s.prompt(fmt.Sprintf("%s [%s]", label, current))
	if v == "" {
		return nil
	}
	return &v
}

func (s *shell) register(ctx context.Context) error {
	s.store.Session.ClearError()
	in := models.RegisterInput{
		FullName: s.prompt("Full name"),
		Email:    s.prompt("Email"),
		Password: s.prompt("Password"),
		Bio:      s.prompt("Bio (optional)"),
	}
	if in.FullName == "" || in.Email == "" || in.Password == "" {
		return errors.New("name, email and password are required")
	}
	u, err := s.store.Session.Register(ctx, in)
	if err != nil {
		return err
	}
	s.ok.Fprintf(s.out, "Registered %s. Use 'login' to start a saved session.\n", u.Email)
	return nil
}

func (s *shell) login(ctx context.Context) error {
	s.store.Session.ClearError()
	u, err := s.store.Session.Login(ctx, s.prompt("Email"), s.prompt("Password"))
	if err != nil {
		return err
	}
	s.ok.Fprintf(s.out, "Welcome back, %s\n", u.FullName)
	_, err = s.store.Blogs.FetchBlogs(ctx, u.ID)
	return err
}

func (s *shell) whoami() error {
	u, err := s.currentUser()
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "%s <%s>\n", u.FullName, u.Email)
	if u.Bio != "" {
		s.dim.Fprintln(s.out, u.Bio)
	}
	return nil
}

func (s *shell) profile(ctx context.Context) error {
	u, err := s.currentUser()
	if err != nil {
		return err
	}
	patch := models.UserPatch{
		FullName: s.promptOptional("Full name", u.FullName),
		Bio:      s.promptOptional("Bio", u.Bio),
	}
	if patch.FullName == nil && patch.Bio == nil {
		fmt.Fprintln(s.out, "Nothing to update")
		return nil
	}
	if _, err := s.store.Session.UpdateProfile(ctx, u.ID, patch); err != nil {
		return err
	}
	s.ok.Fprintln(s.out, "Profile updated")
	return nil
}

func (s *shell) list(ctx context.Context) error {
	u, err := s.currentUser()
	if err != nil {
		return err
	}
	blogs, err := s.store.Blogs.FetchBlogs(ctx, u.ID)
	if err != nil {
		return err
	}
	if len(blogs) == 0 {
		fmt.Fprintln(s.out, "No posts yet. Use 'add' to write one.")
		return nil
	}
	table := tablewriter.NewWriter(s.out)
	table.SetHeader([]string{"ID", "Title", "Category", "Likes"})
	table.SetAutoWrapText(false)
	for _, b := range blogs {
		table.Append([]string{b.ID, b.Title, b.Category, strconv.Itoa(len(b.Likes))})
	}
	table.Render()
	return nil
}

func (s *shell) get(ctx context.Context, id string) error {
	b, err := s.store.Blogs.FetchBlogByID(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "%s\n", b.Title)
	s.dim.Fprintf(s.out, "%s · by %s · %s · %d likes\n",
		b.Category, b.AuthorName, b.CreatedAt.Format(time.DateOnly), len(b.Likes))
	if b.Description != "" {
		fmt.Fprintf(s.out, "\n%s\n", b.Description)
	}
	fmt.Fprintf(s.out, "\n%s\n", b.Content)
	return nil
}

func (s *shell) add(ctx context.Context) error {
	u, err := s.currentUser()
	if err != nil {
		return err
	}
	s.store.Blogs.ClearError()

	title := s.prompt("Title")
	if title == "" {
		return errors.New("title is required")
	}
	description := s.prompt("Description")
	content := s.prompt("Content")
	category := s.prompt(fmt.Sprintf("Category (%s)", strings.Join(models.Categories, ", ")))
	if category == "" {
		category = models.Categories[0]
	}

	now := s.now().UTC()
	b, err := s.store.Blogs.CreateBlog(ctx, models.Blog{
		ID:          s.newID(),
		Title:       title,
		Description: description,
		Content:     content,
		Category:    category,
		UserID:      u.ID,
		AuthorName:  u.FullName,
		Likes:       []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return err
	}
	s.ok.Fprintf(s.out, "Post created: %s\n", b.ID)
	return nil
}

func (s *shell) edit(ctx context.Context, id string) error {
	if _, err := s.currentUser(); err != nil {
		return err
	}
	s.store.Blogs.ClearError()

	current, err := s.store.Blogs.FetchBlogByID(ctx, id)
	if err != nil {
		return err
	}
	patch := models.BlogPatch{
		Title:       s.promptOptional("Title", current.Title),
		Description: s.promptOptional("Description", current.Description),
		Content:     s.promptOptional("Content", current.Content),
		Category:    s.promptOptional("Category", current.Category),
	}
	now := s.now().UTC()
	patch.UpdatedAt = &now

	if _, err := s.store.Blogs.UpdateBlog(ctx, id, patch); err != nil {
		return err
	}
	s.ok.Fprintln(s.out, "Post updated")
	return nil
}

func (s *shell) like(ctx context.Context, id string) error {
	u, err := s.currentUser()
	if err != nil {
		return err
	}
	b, err := s.store.Blogs.ToggleLike(ctx, id, u.ID)
	if err != nil {
		return err
	}
	if models.HasLike(b.Likes, u.ID) {
		s.ok.Fprintf(s.out, "Liked (%d likes)\n", len(b.Likes))
	} else {
		s.ok.Fprintf(s.out, "Unliked (%d likes)\n", len(b.Likes))
	}
	return nil
}

// message prefers the text the containers stored for a rejection.
func message(err error) string {
	var re *state.RejectError
	if errors.As(err, &re) {
		return re.Message
	}
	return err.Error()
}
