package dataset

import (
	"testing"

	"github.com/mumumio1/mockapi/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeed(t *testing.T) {
	ds := Seed()

	posts := ds.Posts()
	require.Len(t, posts, 3)
	for i, p := range posts {
		assert.Equal(t, i+1, p.ID, "posts must keep insertion order")
	}
	assert.Equal(t, "Post 2", posts[1].Title)
	assert.Equal(t, 2, posts[2].UserID)

	users := ds.Users()
	require.Len(t, users, 2)
	assert.Equal(t, "John Doe", users[0].Name)
	assert.Equal(t, "jane@example.com", users[1].Email)
}

func TestSeedReferentialIntegrity(t *testing.T) {
	ds := Seed()
	for _, p := range ds.Posts() {
		_, ok := ds.UserByID(p.UserID)
		assert.True(t, ok, "post %d references missing user %d", p.ID, p.UserID)
	}
}

func TestLookup(t *testing.T) {
	ds := Seed()

	tests := []struct {
		name     string
		id       int
		wantPost bool
		wantUser bool
	}{
		{name: "both present", id: 1, wantPost: true, wantUser: true},
		{name: "post only", id: 3, wantPost: true, wantUser: false},
		{name: "missing", id: 42, wantPost: false, wantUser: false},
		{name: "zero", id: 0, wantPost: false, wantUser: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := ds.PostByID(tt.id)
			assert.Equal(t, tt.wantPost, ok)
			if ok {
				assert.Equal(t, tt.id, p.ID)
			}

			u, ok := ds.UserByID(tt.id)
			assert.Equal(t, tt.wantUser, ok)
			if ok {
				assert.Equal(t, tt.id, u.ID)
			}
		})
	}
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name    string
		posts   []model.Post
		users   []model.User
		wantErr error
	}{
		{
			name:  "valid",
			posts: []model.Post{{ID: 1}, {ID: 2}},
			users: []model.User{{ID: 1}},
		},
		{
			name:    "duplicate post",
			posts:   []model.Post{{ID: 1}, {ID: 1}},
			wantErr: ErrDuplicateID,
		},
		{
			name:    "duplicate user",
			users:   []model.User{{ID: 7}, {ID: 7}},
			wantErr: ErrDuplicateID,
		},
		{
			name:    "zero id",
			posts:   []model.Post{{ID: 0}},
			wantErr: ErrInvalidID,
		},
		{
			name:    "negative id",
			users:   []model.User{{ID: -3}},
			wantErr: ErrInvalidID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.posts, tt.users)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestEmptyDataset(t *testing.T) {
	ds, err := New(nil, nil)
	require.NoError(t, err)

	assert.NotNil(t, ds.Posts())
	assert.Empty(t, ds.Posts())
	assert.NotNil(t, ds.Users())
	assert.Empty(t, ds.Users())
}

func TestImmutable(t *testing.T) {
	src := []model.Post{{ID: 1, Title: "original"}}
	ds, err := New(src, nil)
	require.NoError(t, err)

	src[0].Title = "changed by caller"
	got := ds.Posts()
	assert.Equal(t, "original", got[0].Title)

	got[0].Title = "changed by reader"
	p, ok := ds.PostByID(1)
	require.True(t, ok)
	assert.Equal(t, "original", p.Title)
}

func TestStoredRecordsHaveNoServerInfo(t *testing.T) {
	ds, err := New([]model.Post{{ID: 1, ServerInfo: model.ServerInfo{Server: "stale"}}}, nil)
	require.NoError(t, err)

	p, _ := ds.PostByID(1)
	assert.Equal(t, model.ServerInfo{}, p.ServerInfo)
}

func BenchmarkPostByID(b *testing.B) {
	ds := Seed()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ds.PostByID(3)
	}
}
