package auth

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"luxegear-backend/internal/domain"
	"luxegear-backend/internal/store"
)

// Identity is who is making a request. The zero value is an anonymous caller.
type Identity struct {
	UserID        primitive.ObjectID
	Role          domain.Role
	Authenticated bool
}

func (i Identity) IsAdmin() bool {
	return i.Authenticated && i.Role == domain.RoleAdmin
}

// Anonymous is the identity of a caller without a usable credential.
var Anonymous = Identity{}

// Resolver turns an Authorization header into an identity.
type Resolver struct {
	tokens *TokenService
	users  store.UserStore
}

func NewResolver(tokens *TokenService, users store.UserStore) *Resolver {
	return &Resolver{tokens: tokens, users: users}
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}

// Resolve never fails: a missing, malformed, invalid or expired credential yields Anonymous.
func (r *Resolver) Resolve(header string) Identity {
	token, ok := bearerToken(header)
	if !ok {
		return Anonymous
	}
	claims, err := r.tokens.Validate(token)
	if err != nil {
		return Anonymous
	}
	id, err := primitive.ObjectIDFromHex(claims.ID)
	if err != nil {
		return Anonymous
	}
	return Identity{UserID: id, Role: claims.Role, Authenticated: true}
}

// Authenticate is the strict variant: the token must be valid and its user must still exist.
// Callers should trust the stored user's role over the role in the token.
func (r *Resolver) Authenticate(ctx context.Context, header string) (*domain.User, error) {
	token, ok := bearerToken(header)
	if !ok {
		return nil, domain.Unauthorized("Not authorized, no token")
	}
	claims, err := r.tokens.Validate(token)
	if err != nil {
		return nil, domain.Unauthorized("Token invalid or expired")
	}
	id, err := primitive.ObjectIDFromHex(claims.ID)
	if err != nil {
		return nil, domain.Unauthorized("Token invalid or expired")
	}

	user, err := r.users.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domain.Unauthorized("User not found")
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// IdentityOf builds the identity of an authenticated user.
func IdentityOf(u *domain.User) Identity {
	return Identity{UserID: u.ID, Role: u.Role, Authenticated: true}
}
