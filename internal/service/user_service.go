package service

import (
	"context"
	"errors"

	"github.com/alligatorO15/jalali-finance/internal/config"
	"github.com/alligatorO15/jalali-finance/internal/models"
	"github.com/alligatorO15/jalali-finance/internal/repository"
)

var ErrUserNotFound = errors.New("user not found")

type UserService interface {
	// GetCurrent профиль владельца токена; гость в базе не хранится
	GetCurrent(ctx context.Context, userID string, guest bool) (*models.User, error)
}

type userService struct {
	userRepo repository.UserRepository
	config   *config.Config
}

func NewUserService(userRepo repository.UserRepository, cfg *config.Config) UserService {
	return &userService{userRepo: userRepo, config: cfg}
}

func (s *userService) GetCurrent(ctx context.Context, userID string, guest bool) (*models.User, error) {
	if guest {
		return guestUser(s.config), nil
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

func guestUser(cfg *config.Config) *models.User {
	return &models.User{ID: cfg.GuestUserID, Name: "مهمان"}
}
