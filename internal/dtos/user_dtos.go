package dtos

import (
	"time"

	"github.com/simlok-project/backend/internal/models"
)

type UserDTO struct {
	ID         string  `json:"id"`
	Email      string  `json:"email"`
	Name       string  `json:"name"`
	Role       string  `json:"role"`
	VendorName *string `json:"vendor_name,omitempty"`
	IsActive   bool    `json:"is_active"`
	CreatedAt  string  `json:"created_at"`
}

func NewUserDTO(u *models.User) UserDTO {
	return UserDTO{
		ID:         u.ID.String(),
		Email:      u.Email,
		Name:       u.Name,
		Role:       string(u.Role),
		VendorName: u.VendorName,
		IsActive:   u.IsActive,
		CreatedAt:  u.CreatedAt.Format(time.RFC3339),
	}
}

type CreateUserRequest struct {
	Email      string  `json:"email" validate:"required,email"`
	Password   string  `json:"password" validate:"required,min=8"`
	Name       string  `json:"name" validate:"required"`
	Role       string  `json:"role" validate:"required"`
	VendorName *string `json:"vendor_name,omitempty"`
}

type UpdateUserRequest struct {
	Name       *string `json:"name,omitempty"`
	Role       *string `json:"role,omitempty"`
	Password   *string `json:"password,omitempty" validate:"omitempty,min=8"`
	VendorName *string `json:"vendor_name,omitempty"`
	IsActive   *bool   `json:"is_active,omitempty"`
}

type UserListResponse struct {
	Users      []UserDTO     `json:"users"`
	Pagination PaginationDTO `json:"pagination"`
}
