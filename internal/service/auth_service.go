package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"studentblog/internal/auth"
	apperrors "studentblog/internal/errors"
	"studentblog/internal/model"
	"studentblog/internal/repository"
)

var (
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserAlreadyExists is returned when the email or username is taken.
	ErrUserAlreadyExists = errors.New("user with this email or username already exists")
	// ErrIncorrectPassword is returned when the current password does not match.
	ErrIncorrectPassword = errors.New("current password is incorrect")
	// ErrTokenRevoked is returned for tokens that were logged out.
	ErrTokenRevoked = errors.New("token has been revoked")
)

// RegisterInput holds the fields of a new account.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     model.Role
}

// AuthService handles authentication operations.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (token string, user *model.User, err error)
	Login(ctx context.Context, email, password string) (token string, user *model.User, err error)
	// Logout revokes token when it is still valid. Invalid tokens are ignored.
	Logout(ctx context.Context, token string) error
	// Authenticate verifies token and resolves its user.
	Authenticate(ctx context.Context, token string) (*model.User, *auth.Claims, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, username, email string) (*model.User, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error
}

type authService struct {
	userRepo   repository.UserRepository
	users      UserService
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, users UserService, jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface) AuthService {
	return &authService{
		userRepo:   userRepo,
		users:      users,
		jwtService: jwtService,
		tokenStore: tokenStore,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new user with a hashed password and signs them in.
func (s *authService) Register(ctx context.Context, in RegisterInput) (string, *model.User, error) {
	email := normalizeEmail(in.Email)
	username := strings.TrimSpace(in.Username)

	exists, err := s.userRepo.ExistsByEmailOrUsername(ctx, email, username, uuid.Nil)
	if err != nil {
		return "", nil, fmt.Errorf("check user existence: %w", err)
	}
	if exists {
		return "", nil, ErrUserAlreadyExists
	}

	hashed, err := auth.HashPassword(in.Password)
	if err != nil {
		return "", nil, err
	}

	role := in.Role
	if role == "" {
		role = model.RoleUser
	}

	user := &model.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: hashed,
		Role:         role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", nil, ErrUserAlreadyExists
		}
		return "", nil, fmt.Errorf("create user: %w", err)
	}

	token, _, err := s.jwtService.Issue(user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, user, nil
}

// Login authenticates a user and returns a fresh token.
func (s *authService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("find user: %w", err)
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return "", nil, ErrInvalidCredentials
	}

	token, _, err := s.jwtService.Issue(user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, user, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	claims, err := s.jwtService.Verify(token)
	if err != nil {
		return nil
	}
	if err := s.tokenStore.RevokeToken(ctx, claims.ID, s.jwtService.RemainingLifetime(claims)); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*model.User, *auth.Claims, error) {
	claims, err := s.jwtService.Verify(token)
	if err != nil {
		return nil, nil, err
	}

	revoked, err := s.tokenStore.IsTokenRevoked(ctx, claims.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, nil, ErrTokenRevoked
	}

	user, err := s.users.GetUser(ctx, claims.UserID)
	if err != nil {
		return nil, nil, err
	}
	return user, claims, nil
}

// UpdateProfile changes username and email after checking they are free.
func (s *authService) UpdateProfile(ctx context.Context, userID uuid.UUID, username, email string) (*model.User, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	username = strings.TrimSpace(username)
	email = normalizeEmail(email)

	exists, err := s.userRepo.ExistsByEmailOrUsername(ctx, email, username, userID)
	if err != nil {
		return nil, fmt.Errorf("check user existence: %w", err)
	}
	if exists {
		return nil, ErrUserAlreadyExists
	}

	user.Username = username
	user.Email = email
	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	s.users.Invalidate(ctx, userID)
	return user, nil
}

// ChangePassword replaces the password hash after verifying the current one.
func (s *authService) ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return err
	}

	if !auth.CheckPassword(user.PasswordHash, currentPassword) {
		return ErrIncorrectPassword
	}

	hashed, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hashed
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// findUser reads from the repository so the password hash is present.
func (s *authService) findUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}
