package api

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"luxegear-backend/internal/domain"
)

// userResponse is the account view returned with a freshly issued token.
type userResponse struct {
	ID     primitive.ObjectID `json:"id"`
	Name   string             `json:"name"`
	Email  string             `json:"email"`
	Role   domain.Role        `json:"role"`
	Avatar string             `json:"avatar"`
}

func newUserResponse(u *domain.User) userResponse {
	return userResponse{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, Avatar: u.Avatar}
}
