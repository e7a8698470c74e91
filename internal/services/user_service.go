package services

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/simlok-project/backend/internal/dtos"
	"github.com/simlok-project/backend/internal/models"
	"github.com/simlok-project/backend/internal/repositories"
	"github.com/simlok-project/backend/internal/utils"
)

type UserService struct {
	userRepo repositories.UserRepository
}

func NewUserService(userRepo repositories.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) Create(ctx context.Context, req *dtos.CreateUserRequest) (*dtos.UserDTO, error) {
	role := models.UserRole(req.Role)
	if !models.ValidRole(role) {
		return nil, utils.NewAppError(http.StatusBadRequest, utils.ErrCodeValidation, "Unknown role")
	}

	existing, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, utils.NewAppError(http.StatusConflict, utils.ErrCodeConflict, "A user with this email already exists")
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
		Role:         role,
		VendorName:   req.VendorName,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if repositories.IsUniqueViolation(err) {
			return nil, utils.NewAppError(http.StatusConflict, utils.ErrCodeConflict, "A user with this email already exists")
		}
		return nil, err
	}

	dto := dtos.NewUserDTO(user)
	return &dto, nil
}

func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*dtos.UserDTO, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, utils.NewAppError(http.StatusNotFound, utils.ErrCodeNotFound, "User not found")
	}
	dto := dtos.NewUserDTO(user)
	return &dto, nil
}

func (s *UserService) List(ctx context.Context, roleFilter string, limit, offset int) (*dtos.UserListResponse, error) {
	if limit <= 0 {
		limit = historyDefaultLimit
	}
	if limit > historyMaxLimit {
		limit = historyMaxLimit
	}
	if offset < 0 {
		offset = 0
	}

	var role *models.UserRole
	if roleFilter != "" {
		r := models.UserRole(roleFilter)
		if !models.ValidRole(r) {
			return nil, utils.NewAppError(http.StatusBadRequest, utils.ErrCodeValidation, "Unknown role filter")
		}
		role = &r
	}

	users, total, err := s.userRepo.List(ctx, role, limit, offset)
	if err != nil {
		return nil, err
	}

	out := make([]dtos.UserDTO, 0, len(users))
	for _, u := range users {
		out = append(out, dtos.NewUserDTO(u))
	}

	return &dtos.UserListResponse{
		Users: out,
		Pagination: dtos.PaginationDTO{
			Total:   total,
			Limit:   limit,
			Offset:  offset,
			HasMore: offset+len(out) < total,
		},
	}, nil
}

func (s *UserService) Update(ctx context.Context, id uuid.UUID, req *dtos.UpdateUserRequest) (*dtos.UserDTO, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, utils.NewAppError(http.StatusNotFound, utils.ErrCodeNotFound, "User not found")
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Role != nil {
		role := models.UserRole(*req.Role)
		if !models.ValidRole(role) {
			return nil, utils.NewAppError(http.StatusBadRequest, utils.ErrCodeValidation, "Unknown role")
		}
		user.Role = role
	}
	if req.Password != nil {
		hash, err := utils.HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	if req.VendorName != nil {
		user.VendorName = req.VendorName
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	dto := dtos.NewUserDTO(user)
	return &dto, nil
}

func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return utils.NewAppError(http.StatusNotFound, utils.ErrCodeNotFound, "User not found")
	}
	return s.userRepo.Delete(ctx, id)
}
