package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/session-auth/internal/models"
	"github.com/magabrotheeeer/session-auth/internal/storage"
)

func TestStorage_CreateAssignsSequentialIDs(t *testing.T) {
	ctx := context.Background()
	s := New()

	first, err := s.Create(ctx, models.User{Username: "AdminUser", Email: "admin@example.com", Role: models.RoleAdmin}, nil)
	require.NoError(t, err)
	second, err := s.Create(ctx, models.User{Username: "RegularUser", Email: "user@example.com", Role: models.RoleUser}, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)
	assert.Equal(t, 2, s.Count())

	users, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "AdminUser", users[0].Username)
	assert.Equal(t, "RegularUser", users[1].Username)
}

func TestStorage_Find(t *testing.T) {
	ctx := context.Background()
	s := New()
	_, err := s.Create(ctx, models.User{Username: "RegularUser", Email: "user@example.com"}, nil)
	require.NoError(t, err)

	tests := []struct {
		name    string
		find    func() (*models.User, error)
		wantErr error
	}{
		{
			name: "by email",
			find: func() (*models.User, error) { return s.FindByEmail(ctx, "user@example.com") },
		},
		{
			name: "by username",
			find: func() (*models.User, error) { return s.FindByUsername(ctx, "RegularUser") },
		},
		{
			name:    "email is case sensitive",
			find:    func() (*models.User, error) { return s.FindByEmail(ctx, "User@example.com") },
			wantErr: storage.ErrUserNotFound,
		},
		{
			name:    "unknown username",
			find:    func() (*models.User, error) { return s.FindByUsername(ctx, "nobody") },
			wantErr: storage.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := tt.find()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, u)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "RegularUser", u.Username)
		})
	}
}

func TestStorage_FindReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := New()
	_, err := s.Create(ctx, models.User{Username: "a", Email: "a@example.com"}, nil)
	require.NoError(t, err)

	u, err := s.FindByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	u.Username = "changed"

	again, err := s.FindByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "a", again.Username)
}

func TestStorage_CreateCheckFailureDoesNotMutate(t *testing.T) {
	ctx := context.Background()
	s := New()
	errTaken := errors.New("taken")

	_, err := s.Create(ctx, models.User{Username: "a"}, func([]models.User) error { return errTaken })
	assert.ErrorIs(t, err, errTaken)
	assert.Equal(t, 0, s.Count())
}

func TestStorage_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := New()

	_, err := s.Create(ctx, models.User{Username: "a"}, nil)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = s.FindByEmail(ctx, "a")
	assert.ErrorIs(t, err, context.Canceled)

	_, err = s.List(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStorage_ConcurrentCreateKeepsUniqueness(t *testing.T) {
	ctx := context.Background()
	s := New()
	errTaken := errors.New("taken")

	unique := func(username string) storage.CheckFunc {
		return func(existing []models.User) error {
			for _, u := range existing {
				if u.Username == username {
					return errTaken
				}
			}
			return nil
		}
	}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			// Половина горутин пытается занять одно и то же имя
			name := "same"
			if i%2 == 0 {
				name = fmt.Sprintf("user-%d", i)
			}
			_, _ = s.Create(ctx, models.User{Username: name}, unique(name))
		}()
	}
	wg.Wait()

	users, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 26)

	seen := make(map[string]bool)
	for i, u := range users {
		assert.False(t, seen[u.Username], "duplicate username %s", u.Username)
		seen[u.Username] = true
		assert.Equal(t, int64(i+1), u.ID)
	}
}
