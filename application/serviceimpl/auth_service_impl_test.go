package serviceimpl

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"face-attendance/domain/models"
	"face-attendance/domain/services"
	"face-attendance/pkg/utils"
)

const testJWTSecret = "test-secret"

func TestSignUpAndLoginRoundTrip(t *testing.T) {
	repo := newFakeAccountRepo()
	svc := NewAuthService(repo, testJWTSecret)
	ctx := context.Background()

	username, err := svc.SignUp(ctx, "alice", "s3cret-pass", models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, "alice", username)

	// Stored password is a hash, not the plaintext.
	account, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", account.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(account.Password), []byte("s3cret-pass")))

	result, err := svc.Login(ctx, "alice", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, "admin", result.Role)

	claims, err := utils.ValidateToken(result.Token, testJWTSecret)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "admin", claims.Role)
}

func TestSignUpDefaultsToUserRole(t *testing.T) {
	repo := newFakeAccountRepo()
	svc := NewAuthService(repo, testJWTSecret)

	_, err := svc.SignUp(context.Background(), "bob", "password1", "")
	require.NoError(t, err)

	account, err := repo.GetByUsername(context.Background(), "bob")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, account.Role)
}

func TestSignUpDuplicateUsername(t *testing.T) {
	repo := newFakeAccountRepo()
	svc := NewAuthService(repo, testJWTSecret)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, "alice", "password1", models.RoleUser)
	require.NoError(t, err)

	_, err = svc.SignUp(ctx, "alice", "password2", models.RoleUser)
	assert.ErrorIs(t, err, services.ErrUsernameTaken)
}

func TestSignUpRacingDuplicateUsername(t *testing.T) {
	repo := newFakeAccountRepo()
	svc := NewAuthService(repo, testJWTSecret)

	// A concurrent signup that wins the race is only visible as a unique
	// violation on insert, after the existence check has passed.
	repo.createErr = gorm.ErrDuplicatedKey

	_, err := svc.SignUp(context.Background(), "alice", "password1", models.RoleUser)
	assert.ErrorIs(t, err, services.ErrUsernameTaken)
}

func TestLoginUnknownAccount(t *testing.T) {
	svc := NewAuthService(newFakeAccountRepo(), testJWTSecret)

	_, err := svc.Login(context.Background(), "ghost", "whatever")
	assert.ErrorIs(t, err, services.ErrAccountNotFound)
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newFakeAccountRepo()
	svc := NewAuthService(repo, testJWTSecret)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, "alice", "right-password", models.RoleUser)
	require.NoError(t, err)

	_, err = svc.Login(ctx, "alice", "wrong-password")
	assert.ErrorIs(t, err, services.ErrInvalidPassword)
}
