package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"luxegear-backend/internal/auth"
	"luxegear-backend/internal/domain"
	"luxegear-backend/internal/store/memory"
)

const testSecret = "test-secret-that-is-long-enough-for-hs256"

func newAccounts(t *testing.T) (*AccountService, *auth.TokenService, *memory.UserStore) {
	t.Helper()
	users := memory.NewUserStore()
	tokens := auth.NewTokenService(testSecret, time.Hour)
	return NewAccountService(users, tokens), tokens, users
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc, tokens, _ := newAccounts(t)

	reg, err := svc.Register(ctx, RegisterInput{Name: "Ada", Email: " Ada@Example.com ", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", reg.User.Email)
	assert.Equal(t, domain.RoleUser, reg.User.Role)
	assert.Contains(t, reg.User.Avatar, "ada%40example.com")
	assert.NotEqual(t, "secret1", reg.User.PasswordHash)

	claims, err := tokens.Validate(reg.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID.Hex(), claims.ID)

	login, err := svc.Login(ctx, LoginInput{Email: "ADA@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, login.User.ID)
	assert.NotEmpty(t, login.Token)
}

func TestRegisterRejections(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newAccounts(t)
	_, err := svc.Register(ctx, RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "secret1"})
	require.NoError(t, err)

	tests := []struct {
		name    string
		in      RegisterInput
		wantErr error
		message string
	}{
		{"missing name", RegisterInput{Email: "x@example.com", Password: "secret1"}, domain.ErrValidation, "All fields are required"},
		{"short password", RegisterInput{Name: "Bob", Email: "bob@example.com", Password: "123"}, domain.ErrValidation, "Password must be at least 6 characters"},
		{"bad email", RegisterInput{Name: "Bob", Email: "bob", Password: "secret1"}, domain.ErrValidation, "Invalid email address"},
		{"duplicate email", RegisterInput{Name: "Ada Two", Email: "ADA@example.com", Password: "secret1"}, domain.ErrAlreadyExists, "Email already exists"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.in)
			require.ErrorIs(t, err, tt.wantErr)
			assert.EqualError(t, err, tt.message)
		})
	}
}

func TestLoginRejections(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newAccounts(t)
	_, err := svc.Register(ctx, RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, LoginInput{Email: "ada@example.com"})
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.EqualError(t, err, "Email and password required")

	_, err = svc.Login(ctx, LoginInput{Email: "ada@example.com", Password: "wrong-pass"})
	require.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.EqualError(t, err, "Invalid email or password")

	_, err = svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "secret1"})
	require.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.EqualError(t, err, "Invalid email or password", "unknown users look like bad passwords")
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	svc, _, users := newAccounts(t)
	ada := &domain.User{Name: "Ada", Email: "ada@example.com", Role: domain.RoleUser}
	bob := &domain.User{Name: "Bob", Email: "bob@example.com", Role: domain.RoleUser}
	require.NoError(t, users.Create(ctx, ada))
	require.NoError(t, users.Create(ctx, bob))

	updated, err := svc.UpdateProfile(ctx, ada.ID, ProfileInput{Name: ptr("Ada Lovelace")})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", updated.Name)
	assert.Equal(t, "ada@example.com", updated.Email)

	updated, err = svc.UpdateProfile(ctx, ada.ID, ProfileInput{Email: ptr("Countess@Example.com")})
	require.NoError(t, err)
	assert.Equal(t, "countess@example.com", updated.Email)

	_, err = svc.UpdateProfile(ctx, ada.ID, ProfileInput{Email: ptr("bob@example.com")})
	require.ErrorIs(t, err, domain.ErrAlreadyExists)
	assert.EqualError(t, err, "Email already exists")

	_, err = svc.UpdateProfile(ctx, ada.ID, ProfileInput{Name: ptr("A")})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.UpdateProfile(ctx, primitive.NewObjectID(), ProfileInput{Name: ptr("Ghost")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
