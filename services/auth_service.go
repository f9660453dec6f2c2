package services

import (
	"context"
	"errors"
	"tech-store/models"
	"tech-store/utils"
)

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id int) (*models.User, error)
	CreateProfile(ctx context.Context, profile *models.UserProfile) error
	GetProfile(ctx context.Context, userID int) (*models.UserProfile, error)
	UpdateProfile(ctx context.Context, profile *models.UserProfile) error
	GetUserWithProfile(ctx context.Context, userID int) (*models.UserWithProfile, error)
}

type AuthService struct {
	userRepo UserStore
}

func NewAuthService(userRepo UserStore) *AuthService {
	return &AuthService{userRepo: userRepo}
}

func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.LoginResponse, error) {
	existingUser, _ := s.userRepo.FindByEmail(ctx, req.Email)
	if existingUser != nil {
		return nil, errors.New("email already registered")
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:    req.Email,
		Password: hashedPassword,
		Role:     "customer",
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	profile := &models.UserProfile{
		UserID:   user.ID,
		FullName: req.FullName,
		Phone:    req.Phone,
	}

	if err := s.userRepo.CreateProfile(ctx, profile); err != nil {
		return nil, err
	}

	token, err := utils.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	userWithProfile, err := s.userRepo.GetUserWithProfile(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &models.LoginResponse{
		Token: token,
		User:  *userWithProfile,
	}, nil
}

func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, errors.New("invalid email or password")
	}

	valid, err := utils.VerifyPassword(user.Password, req.Password)
	if err != nil || !valid {
		return nil, errors.New("invalid email or password")
	}

	token, err := utils.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	userWithProfile, err := s.userRepo.GetUserWithProfile(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &models.LoginResponse{
		Token: token,
		User:  *userWithProfile,
	}, nil
}

func (s *AuthService) GetProfile(ctx context.Context, userID int) (*models.UserWithProfile, error) {
	return s.userRepo.GetUserWithProfile(ctx, userID)
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID int, req models.UpdateProfileRequest) error {
	profile, err := s.userRepo.GetProfile(ctx, userID)
	if err != nil {
		return err
	}

	if req.FullName != "" {
		profile.FullName = req.FullName
	}
	if req.Phone != "" {
		profile.Phone = req.Phone
	}

	return s.userRepo.UpdateProfile(ctx, profile)
}
