package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/ewanmcc/guardian-bot/internal/domain"
	"github.com/ewanmcc/guardian-bot/internal/repository"
)

type UserService interface {
	GetOrCreate(ctx context.Context, telegramID int64, username string) (*domain.User, error)
}

type userService struct {
	users  repository.UserRepository
	logger *zap.Logger
}

func NewUserService(users repository.UserRepository, logger *zap.Logger) UserService {
	return &userService{users: users, logger: logger}
}

func (s *userService) GetOrCreate(ctx context.Context, telegramID int64, username string) (*domain.User, error) {
	user, err := s.users.GetOrCreate(ctx, telegramID, username)
	if err != nil {
		s.logger.Error("get or create user failed",
			zap.Int64("telegram_id", telegramID),
			zap.Error(err),
		)
		return nil, err
	}
	return user, nil
}
