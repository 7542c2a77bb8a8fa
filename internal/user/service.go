package user

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/MrJamesThe3rd/findules/internal/apperr"
)

const minPasswordLength = 8

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=user
type Repository interface {
	CreateUser(ctx context.Context, u *User) error
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Username string
	Password string
	FullName string
	Role     Role
	BranchID *uuid.UUID
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*User, error) {
	username := strings.ToLower(strings.TrimSpace(params.Username))
	if username == "" || strings.TrimSpace(params.FullName) == "" {
		return nil, apperr.Validation("username and full name are required")
	}

	if !params.Role.Valid() {
		return nil, apperr.Validation("invalid role %q", params.Role)
	}

	if params.Role != RoleManager && params.BranchID == nil {
		return nil, apperr.Validation("%s users must belong to a branch", params.Role)
	}

	if len(params.Password) < minPasswordLength {
		return nil, apperr.Validation("password must be at least %d characters", minPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Persistence("hashing password", err)
	}

	u := &User{
		Username:     username,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(params.FullName),
		Role:         params.Role,
		BranchID:     params.BranchID,
	}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

// Authenticate checks the credentials and returns the user. Unknown users and
// wrong passwords produce the same error.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*User, error) {
	u, err := s.repo.GetUserByUsername(ctx, strings.ToLower(strings.TrimSpace(username)))
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.Unauthorized("invalid username or password")
		}

		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, apperr.Unauthorized("invalid username or password")
	}

	return u, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetUser(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*User, error) {
	return s.repo.ListUsers(ctx)
}
