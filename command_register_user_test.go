package enroll_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-enroll"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterUserHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a user with a hashed password", func(t *testing.T) {
		repo := setupRepoManager(t)

		handler := enroll.NewRegisterUserHandler(repo)
		user, err := handler.Execute(ctx, enroll.RegisterUserMessage{
			Email:    "teacher@example.com",
			Name:     "Pat Teacher",
			Password: "s3cret-pw",
			Role:     enroll.RoleTeacher,
		})
		require.NoError(t, err)
		require.NotNil(t, user)

		assert.Equal(t, "teacher@example.com", user.Email)
		assert.Equal(t, "Pat Teacher", user.Name)
		assert.Equal(t, enroll.RoleTeacher, user.Role)
		assert.True(t, user.CanLogin())
		assert.NotEqual(t, "s3cret-pw", user.PasswordHash)
		require.NoError(t, enroll.ComparePasswordAndHash("s3cret-pw", user.PasswordHash))
	})

	t.Run("derives missing name and role", func(t *testing.T) {
		repo := setupRepoManager(t)

		handler := enroll.NewRegisterUserHandler(repo)
		user, err := handler.Execute(ctx, enroll.RegisterUserMessage{
			Email:    "jane.doe@example.com",
			Password: "x",
		})
		require.NoError(t, err)

		assert.Equal(t, "jane.doe", user.Name, "display name falls back to the email local part")
		assert.Equal(t, enroll.RoleStudent, user.Role)
	})

	t.Run("rejects a duplicate email", func(t *testing.T) {
		repo := setupRepoManager(t)

		handler := enroll.NewRegisterUserHandler(repo)
		msg := enroll.RegisterUserMessage{Email: "twice@example.com", Password: "pw"}

		_, err := handler.Execute(ctx, msg)
		require.NoError(t, err)

		_, err = handler.Execute(ctx, msg)
		require.Error(t, err)
		assert.ErrorIs(t, err, enroll.ErrUserExists)
	})

	t.Run("rejects an email already claimed by a signup", func(t *testing.T) {
		repo := setupRepoManager(t)
		mustCreateActivity(t, repo, "Chess Club", 12)

		signup := enroll.NewSignupHandler(repo)
		require.NoError(t, signup.Execute(ctx, enroll.SignupMessage{
			Activity: "Chess Club",
			Email:    "claimed@example.com",
		}))

		handler := enroll.NewRegisterUserHandler(repo)
		_, err := handler.Execute(ctx, enroll.RegisterUserMessage{
			Email:    "claimed@example.com",
			Password: "pw",
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, enroll.ErrUserExists)
	})
}
