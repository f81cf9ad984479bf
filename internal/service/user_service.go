package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"buildshare/internal/domain"
	"buildshare/internal/repository"
)

// UserService coordina registro y autenticacion. Este servicio es el
// directorio de usuarios que consume el nucleo de mensajeria; el CRUD de
// perfiles completo queda fuera.
type UserService struct {
	logger *zap.Logger
	users  repository.UserRepository
}

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidUserInput   = errors.New("invalid user input")
)

func NewUserService(logger *zap.Logger, users repository.UserRepository) *UserService {
	return &UserService{logger: logger, users: users}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	UserType string
	Title    string
	Location string
	Company  string
}

func (s *UserService) Register(ctx context.Context, input RegisterInput) (domain.User, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	password := strings.TrimSpace(input.Password)
	userType := strings.ToLower(strings.TrimSpace(input.UserType))

	if name == "" || email == "" || password == "" {
		return domain.User{}, ErrInvalidUserInput
	}
	if userType != domain.UserTypeDeveloper && userType != domain.UserTypeEmployer {
		return domain.User{}, ErrInvalidUserInput
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
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
		Name:         name,
		Email:        email,
		PasswordHash: string(hashBytes),
		UserType:     userType,
		Title:        strings.TrimSpace(input.Title),
		Location:     strings.TrimSpace(input.Location),
		Company:      strings.TrimSpace(input.Company),
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (s *UserService) Authenticate(ctx context.Context, email, password string) (domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	password = strings.TrimSpace(password)
	if email == "" || password == "" {
		return domain.User{}, ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.User{}, ErrInvalidCredentials
	}
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (domain.User, error) {
	return s.users.GetByID(ctx, id)
}
