package services

import (
	"context"
	"math"
	"tech-store/models"
)

type UserLister interface {
	FindAll(ctx context.Context, page, limit int) ([]models.UserWithProfile, int, error)
	GetUserWithProfile(ctx context.Context, userID int) (*models.UserWithProfile, error)
}

type UserService struct {
	userRepo UserLister
}

func NewUserService(userRepo UserLister) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) GetAllUsers(ctx context.Context, page, limit int) (*models.PaginationResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	users, totalItems, err := s.userRepo.FindAll(ctx, page, limit)
	if err != nil {
		return nil, err
	}

	totalPages := int(math.Ceil(float64(totalItems) / float64(limit)))

	return &models.PaginationResponse{
		Success: true,
		Message: "Users retrieved successfully",
		Data:    users,
		Meta: models.MetaData{
			Page:       page,
			Limit:      limit,
			TotalItems: totalItems,
			TotalPages: totalPages,
		},
	}, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id int) (*models.UserWithProfile, error) {
	return s.userRepo.GetUserWithProfile(ctx, id)
}
