package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"luxegear-backend/internal/auth"
	"luxegear-backend/internal/domain"
	"luxegear-backend/internal/logger"
	"luxegear-backend/internal/store"
)

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ProfileInput struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

// AuthResult is a freshly issued token and the user it belongs to.
type AuthResult struct {
	Token string
	User  *domain.User
}

type AccountService struct {
	users  store.UserStore
	tokens *auth.TokenService
}

func NewAccountService(users store.UserStore, tokens *auth.TokenService) *AccountService {
	return &AccountService{users: users, tokens: tokens}
}

func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	name := strings.TrimSpace(in.Name)
	email := domain.NormalizeEmail(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return nil, domain.Validation("All fields are required")
	}
	if len(in.Password) < domain.MinPasswordLength {
		return nil, domain.Validation(fmt.Sprintf("Password must be at least %d characters", domain.MinPasswordLength))
	}
	if err := domain.ValidateProfile(name, email); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		Avatar:       domain.DefaultAvatar(email),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, userWriteErr(err)
	}

	token, err := s.tokens.Generate(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	logger.L(ctx).Info("User registered", zap.String("user_id", user.ID.Hex()))
	return &AuthResult{Token: token, User: user}, nil
}

func (s *AccountService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	email := domain.NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, domain.Validation("Email and password required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domain.Unauthorized("Invalid email or password")
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if err := auth.CheckPassword(user.PasswordHash, in.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, domain.Unauthorized("Invalid email or password")
		}
		return nil, fmt.Errorf("check password: %w", err)
	}

	token, err := s.tokens.Generate(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthResult{Token: token, User: user}, nil
}

// UpdateProfile changes the user's name and/or email.
func (s *AccountService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, in ProfileInput) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domain.NotFound("User not found")
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	if in.Name != nil {
		user.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		user.Email = domain.NormalizeEmail(*in.Email)
	}
	if err := domain.ValidateProfile(user.Name, user.Email); err != nil {
		return nil, err
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, userWriteErr(err)
	}
	return user, nil
}

// fieldLabel turns a field name into the leading word of a message: "email" -> "Email".
// Casers hold state, so one is built per call.
func fieldLabel(field string) string {
	return cases.Title(language.English).String(field)
}

// userWriteErr maps a unique-index violation to a caller-facing error.
func userWriteErr(err error) error {
	var dup *store.DuplicateKeyError
	if errors.As(err, &dup) {
		return domain.AlreadyExists(fieldLabel(dup.Field) + " already exists")
	}
	if errors.Is(err, store.ErrNotFound) {
		return domain.NotFound("User not found")
	}
	return fmt.Errorf("write user: %w", err)
}
