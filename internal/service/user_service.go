package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"studentblog/internal/cache"
	apperrors "studentblog/internal/errors"
	"studentblog/internal/model"
	"studentblog/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// UserService resolves users for the auth gate. Lookups go through the
// cache; the cached copy never carries the password hash.
type UserService interface {
	GetUser(ctx context.Context, id uuid.UUID) (*model.User, error)
	Invalidate(ctx context.Context, id uuid.UUID)
}

type userService struct {
	repo  repository.UserRepository
	cache *cache.Client
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(repo repository.UserRepository, cache *cache.Client) UserService {
	return &userService{repo: repo, cache: cache}
}

func (s *userService) cacheKey(id uuid.UUID) string {
	return fmt.Sprintf("user:%s", id)
}

func (s *userService) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.User
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if payload, err := json.Marshal(user); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, userCacheTTL)
	}
	return user, nil
}

func (s *userService) Invalidate(ctx context.Context, id uuid.UUID) {
	_ = s.cache.Delete(ctx, s.cacheKey(id))
}
