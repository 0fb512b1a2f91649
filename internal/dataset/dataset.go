package dataset

import (
	"errors"
	"fmt"

	"github.com/mumumio1/mockapi/internal/model"
)

var (
	// ErrInvalidID is returned when a record id is not positive
	ErrInvalidID = errors.New("id must be positive")
	// ErrDuplicateID is returned when two records of the same kind share an id
	ErrDuplicateID = errors.New("duplicate id")
)

// Dataset is the read-only set of records served by the API.
// It is built once and never mutated, so it is safe to share between
// goroutines without locking.
type Dataset struct {
	posts []model.Post
	users []model.User
}

// Seed returns the reference fixtures
func Seed() *Dataset {
	ds, err := New(
		[]model.Post{
			{ID: 1, Title: "Post 1", Body: "This is post 1", UserID: 1},
			{ID: 2, Title: "Post 2", Body: "This is post 2", UserID: 1},
			{ID: 3, Title: "Post 3", Body: "This is post 3", UserID: 2},
		},
		[]model.User{
			{ID: 1, Name: "John Doe", Email: "john@example.com"},
			{ID: 2, Name: "Jane Smith", Email: "jane@example.com"},
		},
	)
	if err != nil {
		panic(err)
	}
	return ds
}

// New builds a dataset from the given records, preserving their order.
// The slices are copied; later changes by the caller are not observed.
func New(posts []model.Post, users []model.User) (*Dataset, error) {
	seen := make(map[int]struct{}, len(posts))
	for _, p := range posts {
		if err := checkID(seen, p.ID); err != nil {
			return nil, fmt.Errorf("post %d: %w", p.ID, err)
		}
	}

	seen = make(map[int]struct{}, len(users))
	for _, u := range users {
		if err := checkID(seen, u.ID); err != nil {
			return nil, fmt.Errorf("user %d: %w", u.ID, err)
		}
	}

	ds := &Dataset{
		posts: make([]model.Post, len(posts)),
		users: make([]model.User, len(users)),
	}
	copy(ds.posts, posts)
	copy(ds.users, users)

	// Server info is attached per response, never stored
	for i := range ds.posts {
		ds.posts[i].ServerInfo = model.ServerInfo{}
	}
	for i := range ds.users {
		ds.users[i].ServerInfo = model.ServerInfo{}
	}

	return ds, nil
}

func checkID(seen map[int]struct{}, id int) error {
	if id <= 0 {
		return ErrInvalidID
	}
	if _, ok := seen[id]; ok {
		return ErrDuplicateID
	}
	seen[id] = struct{}{}
	return nil
}

// Posts returns a copy of all posts in insertion order
func (d *Dataset) Posts() []model.Post {
	out := make([]model.Post, len(d.posts))
	copy(out, d.posts)
	return out
}

// Users returns a copy of all users in insertion order
func (d *Dataset) Users() []model.User {
	out := make([]model.User, len(d.users))
	copy(out, d.users)
	return out
}

// PostByID returns the post with the given id
func (d *Dataset) PostByID(id int) (model.Post, bool) {
	for _, p := range d.posts {
		if p.ID == id {
			return p, true
		}
	}
	return model.Post{}, false
}

// UserByID returns the user with the given id
func (d *Dataset) UserByID(id int) (model.User, bool) {
	for _, u := range d.users {
		if u.ID == id {
			return u, true
		}
	}
	return model.User{}, false
}

// PostCount returns the number of posts
func (d *Dataset) PostCount() int {
	return len(d.posts)
}

// UserCount returns the number of users
func (d *Dataset) UserCount() int {
	return len(d.users)
}
