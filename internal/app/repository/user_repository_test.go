package repository

import (
	"testing"

	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupUserTest(t *testing.T) (*gorm.DB, UserRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	repo := NewUserRepository(testDB)
	return testDB, repo
}

func newTestUser(email, username string) *model.User {
	return &model.User{
		Email:        email,
		Username:     username,
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: "hashedpassword",
		Role:         model.RoleUser,
	}
}

func TestUserRepository_Create(t *testing.T) {
	testDB, repo := setupUserTest(t)
	defer db.CleanupTestDB(testDB)

	tests := []struct {
		name    string
		user    *model.User
		wantErr bool
	}{
		{
			name:    "Valid user",
			user:    newTestUser("test@example.com", "test"),
			wantErr: false,
		},
		{
			name:    "Duplicate email",
			user:    newTestUser("test@example.com", "another"),
			wantErr: true,
		},
		{
			name:    "Duplicate username",
			user:    newTestUser("other@example.com", "test"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.Create(tt.user)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.NotZero(t, tt.user.ID)
			}
		})
	}
}

func TestUserRepository_Find(t *testing.T) {
	testDB, repo := setupUserTest(t)
	defer db.CleanupTestDB(testDB)

	user := newTestUser("test@example.com", "test")
	require.NoError(t, repo.Create(user))

	found, err := repo.FindByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "test", found.Username)

	found, err = repo.FindByEmail("test@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = repo.FindByID(9999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = repo.FindByEmail("missing@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserRepository_FindAll(t *testing.T) {
	testDB, repo := setupUserTest(t)
	defer db.CleanupTestDB(testDB)

	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, repo.Create(newTestUser(name+"@example.com", name)))
	}

	users, total, err := repo.FindAll(1, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, users, 2)
	assert.Equal(t, "b", users[0].Username)
}

func TestUserRepository_UpdatePassword(t *testing.T) {
	testDB, repo := setupUserTest(t)
	defer db.CleanupTestDB(testDB)

	user := newTestUser("test@example.com", "test")
	require.NoError(t, repo.Create(user))

	require.NoError(t, repo.UpdatePassword(user.ID, "newhash"))

	found, err := repo.FindByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "newhash", found.PasswordHash)

	assert.ErrorIs(t, repo.UpdatePassword(9999, "x"), gorm.ErrRecordNotFound)
}

func TestSubscriptionRepository(t *testing.T) {
	testDB, users := setupUserTest(t)
	defer db.CleanupTestDB(testDB)

	reader := newTestUser("reader@example.com", "reader")
	first := newTestUser("first@example.com", "first")
	second := newTestUser("second@example.com", "second")
	for _, u := range []*model.User{reader, first, second} {
		require.NoError(t, users.Create(u))
	}

	repo := NewSubscriptionRepository(testDB)

	require.NoError(t, repo.Create(reader.ID, second.ID))
	require.NoError(t, repo.Create(reader.ID, first.ID))
	assert.Error(t, repo.Create(reader.ID, first.ID), "edge pair is unique")

	exists, err := repo.Exists(reader.ID, first.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.Exists(first.ID, reader.ID)
	require.NoError(t, err)
	assert.False(t, exists, "subscriptions are directed")

	subscribed, err := repo.SubscribedAmong(reader.ID, []uint{first.ID, second.ID, reader.ID})
	require.NoError(t, err)
	assert.Equal(t, map[uint]bool{first.ID: true, second.ID: true}, subscribed)

	authors, total, err := repo.FindAuthors(reader.ID, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, authors, 2)
	assert.Equal(t, second.ID, authors[0].ID)
	assert.Equal(t, first.ID, authors[1].ID)

	removed, err := repo.Delete(reader.ID, second.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.Delete(reader.ID, second.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}
