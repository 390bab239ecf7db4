package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"pairchat/internal/domain"
)

type mockUserRepo struct {
	byID       map[string]domain.User
	byUserName map[string]string
	byEmail    map[string]string
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		byID:       make(map[string]domain.User),
		byUserName: make(map[string]string),
		byEmail:    make(map[string]string),
	}
}

func (m *mockUserRepo) Create(_ context.Context, user domain.User) error {
	m.byID[user.ID] = user
	m.byUserName[user.UserName] = user.ID
	m.byEmail[user.Email] = user.ID
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (domain.User, error) {
	user, ok := m.byID[id]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return user, nil
}

func (m *mockUserRepo) GetByUserName(_ context.Context, userName string) (domain.User, error) {
	id, ok := m.byUserName[userName]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return m.GetByID(context.Background(), id)
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (domain.User, error) {
	id, ok := m.byEmail[email]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return m.GetByID(context.Background(), id)
}

func validRegisterInput() RegisterInput {
	return RegisterInput{
		FullName:        "Ana Prueba",
		UserName:        "ana",
		Email:           "Ana@Example.com",
		Password:        "secret123",
		ConfirmPassword: "secret123",
		Gender:          "female",
	}
}

func TestUserServiceRegister_CreatesUser(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(zap.NewNop(), repo)

	user, err := svc.Register(context.Background(), validRegisterInput())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.ID == "" {
		t.Fatalf("expected generated id")
	}
	if user.Email != "ana@example.com" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}
	if user.PasswordHash == "" || user.PasswordHash == "secret123" {
		t.Fatalf("expected hashed password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret123")); err != nil {
		t.Fatalf("hash does not verify: %v", err)
	}
	if !strings.Contains(user.ProfilePic, "girl") {
		t.Fatalf("expected gendered default avatar, got %q", user.ProfilePic)
	}
	if _, ok := repo.byID[user.ID]; !ok {
		t.Fatalf("expected user persisted")
	}
}

func TestUserServiceRegister_Validation(t *testing.T) {
	svc := NewUserService(zap.NewNop(), newMockUserRepo())

	mismatch := validRegisterInput()
	mismatch.ConfirmPassword = "otra"
	if _, err := svc.Register(context.Background(), mismatch); !errors.Is(err, ErrPasswordMismatch) {
		t.Fatalf("expected ErrPasswordMismatch, got %v", err)
	}

	empty := validRegisterInput()
	empty.UserName = "  "
	if _, err := svc.Register(context.Background(), empty); !errors.Is(err, ErrUserInvalidInput) {
		t.Fatalf("expected ErrUserInvalidInput, got %v", err)
	}
}

func TestUserServiceRegister_DuplicateChecks(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(zap.NewNop(), repo)

	if _, err := svc.Register(context.Background(), validRegisterInput()); err != nil {
		t.Fatalf("register: %v", err)
	}

	dup := validRegisterInput()
	dup.Email = "otra@example.com"
	if _, err := svc.Register(context.Background(), dup); !errors.Is(err, ErrUserNameTaken) {
		t.Fatalf("expected ErrUserNameTaken, got %v", err)
	}

	dup = validRegisterInput()
	dup.UserName = "otra"
	if _, err := svc.Register(context.Background(), dup); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestUserServiceAuthenticate(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(zap.NewNop(), repo)

	created, err := svc.Register(context.Background(), validRegisterInput())
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	user, err := svc.Authenticate(context.Background(), "ana", "secret123")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if user.ID != created.ID {
		t.Fatalf("expected user %q, got %q", created.ID, user.ID)
	}

	if _, err := svc.Authenticate(context.Background(), "ana", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), "nadie", "secret123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestUserServiceGetByID(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(zap.NewNop(), repo)

	created, err := svc.Register(context.Background(), validRegisterInput())
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	user, err := svc.GetByID(context.Background(), created.ID)
	if err != nil || user.UserName != "ana" {
		t.Fatalf("get by id: %v %+v", err, user)
	}
	if _, err := svc.GetByID(context.Background(), "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
