package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"pairchat/internal/domain"
	"pairchat/internal/repository"
)

// UserService coordina reglas de negocio para cuentas de usuario.
type UserService struct {
	logger *zap.Logger
	users  repository.UserRepository
}

func NewUserService(logger *zap.Logger, users repository.UserRepository) *UserService {
	return &UserService{
		logger: logger,
		users:  users,
	}
}

type RegisterInput struct {
	FullName        string
	UserName        string
	Email           string
	Password        string
	ConfirmPassword string
	Gender          string
}

var (
	ErrUserServiceNotConfigured = errors.New("user service not configured")
	ErrUserInvalidInput         = errors.New("user invalid input")
	ErrPasswordMismatch         = errors.New("passwords do not match")
	ErrUserNameTaken            = errors.New("username already exists")
	ErrEmailTaken               = errors.New("email already exists")
	ErrInvalidCredentials       = errors.New("invalid credentials")
	ErrUserNotFound             = errors.New("user not found")
)

func (s *UserService) Register(ctx context.Context, input RegisterInput) (domain.User, error) {
	if s == nil || s.users == nil {
		return domain.User{}, ErrUserServiceNotConfigured
	}

	fullName := strings.TrimSpace(input.FullName)
	userName := strings.TrimSpace(input.UserName)
	emailAddr := normalizeEmail(input.Email)
	password := strings.TrimSpace(input.Password)
	confirm := strings.TrimSpace(input.ConfirmPassword)
	gender := strings.ToLower(strings.TrimSpace(input.Gender))

	if fullName == "" || userName == "" || emailAddr == "" || password == "" {
		return domain.User{}, ErrUserInvalidInput
	}
	if password != confirm {
		return domain.User{}, ErrPasswordMismatch
	}

	if _, err := s.users.GetByUserName(ctx, userName); err == nil {
		return domain.User{}, ErrUserNameTaken
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, err
	}

	if _, err := s.users.GetByEmail(ctx, emailAddr); err == nil {
		return domain.User{}, ErrEmailTaken
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, err
	}

	hashBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, err
	}

	user := domain.User{
		ID:           uuid.NewString(),
		FullName:     fullName,
		UserName:     userName,
		Email:        emailAddr,
		PasswordHash: string(hashBytes),
		Gender:       gender,
		ProfilePic:   profilePicURL(gender, userName),
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		return domain.User{}, err
	}

	return user, nil
}

func (s *UserService) Authenticate(ctx context.Context, userName, password string) (domain.User, error) {
	if s == nil || s.users == nil {
		return domain.User{}, ErrUserServiceNotConfigured
	}

	userName = strings.TrimSpace(userName)
	password = strings.TrimSpace(password)
	if userName == "" || password == "" {
		return domain.User{}, ErrInvalidCredentials
	}

	user, err := s.users.GetByUserName(ctx, userName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}
	if user.PasswordHash == "" {
		return domain.User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.User{}, ErrInvalidCredentials
	}
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (domain.User, error) {
	if s == nil || s.users == nil {
		return domain.User{}, ErrUserServiceNotConfigured
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.User{}, ErrUserInvalidInput
	}
	user, err := s.users.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, ErrUserNotFound
	}
	return user, err
}

func normalizeEmail(emailAddr string) string {
	return strings.ToLower(strings.TrimSpace(emailAddr))
}

// profilePicURL arma el avatar por defecto según el género declarado.
func profilePicURL(gender, userName string) string {
	kind := "boy"
	if gender == "female" {
		kind = "girl"
	}
	return fmt.Sprintf("https://avatar.iran.liara.run/public/%s?username=%s", kind, userName)
}
