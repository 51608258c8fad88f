package user

import (
	"context"
	"errors"
	"net/mail"

	"go.uber.org/zap"

	"github.com/mehmetcc/user-auth-service/internal/utils"
)

var (
	ErrHashingPasswordFailed = errors.New("hashing password failed")
	ErrInvalidEmailFormat    = errors.New("invalid email format")
	ErrInvalidRole           = errors.New("invalid role")
)

// UpdateFields carries a partial update; nil fields are left untouched.
type UpdateFields struct {
	Email    *string
	Name     *string
	Password *string
	Role     *Role
	IsActive *bool
}

// Service is the user directory: lookups, creation, partial updates and
// soft deletion.
type Service interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, email, name, password string) (*User, error)
	Update(ctx context.Context, id string, fields UpdateFields) (*User, error)
	Deactivate(ctx context.Context, id string) (*User, error)
}

type service struct {
	repo   Repository
	hasher utils.Hasher
	logger *zap.Logger
}

func NewService(repo Repository, hasher utils.Hasher, logger *zap.Logger) Service {
	return &service{
		repo:   repo,
		hasher: hasher,
		logger: logger,
	}
}

/** READ */
func (s *service) FindByEmail(ctx context.Context, email string) (*User, error) {
	user, err := s.repo.ReadByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			s.logger.Error("failed to get user by email", zap.Error(err))
		}
		return nil, err
	}
	return user, nil
}

func (s *service) FindByID(ctx context.Context, id string) (*User, error) {
	user, err := s.repo.ReadByID(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			s.logger.Error("failed to get user by ID", zap.String("id", id), zap.Error(err))
		}
		return nil, err
	}
	return user, nil
}

/** CREATE */
func (s *service) Create(ctx context.Context, email, name, password string) (*User, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := CheckPassword(password); err != nil {
		return nil, err
	}

	_, err := s.repo.ReadByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, ErrEmailAlreadyExists
	case !errors.Is(err, ErrUserNotFound):
		s.logger.Error("failed to check email uniqueness", zap.Error(err))
		return nil, err
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Error("failed to hash password", zap.Error(err))
		return nil, ErrHashingPasswordFailed
	}

	user := NewUser(email, name, hashed)
	if err := s.repo.Create(ctx, user); err != nil {
		// the unique index catches a create that raced past the pre-check
		if !errors.Is(err, ErrEmailAlreadyExists) {
			s.logger.Error("failed to create user in repository", zap.Error(err))
		}
		return nil, err
	}
	s.logger.Info("user created", zap.String("id", user.ID), zap.String("role", string(user.Role)))
	return user, nil
}

/** UPDATE */
func (s *service) Update(ctx context.Context, id string, fields UpdateFields) (*User, error) {
	user, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if fields.Email != nil && *fields.Email != user.Email {
		if err := validateEmail(*fields.Email); err != nil {
			return nil, err
		}
		user.Email = *fields.Email
	}
	if fields.Name != nil {
		user.Name = *fields.Name
	}
	if fields.Password != nil {
		if err := CheckPassword(*fields.Password); err != nil {
			return nil, err
		}
		hashed, err := s.hasher.Hash(*fields.Password)
		if err != nil {
			s.logger.Error("failed to hash password", zap.String("id", id), zap.Error(err))
			return nil, ErrHashingPasswordFailed
		}
		user.Password = hashed
	}
	if fields.Role != nil {
		if !fields.Role.Valid() {
			return nil, ErrInvalidRole
		}
		user.Role = *fields.Role
	}
	if fields.IsActive != nil {
		user.IsActive = *fields.IsActive
	}

	if err := s.repo.Update(ctx, user); err != nil {
		if !errors.Is(err, ErrEmailAlreadyExists) {
			s.logger.Error("failed to update user in repository", zap.String("id", id), zap.Error(err))
		}
		return nil, err
	}
	return user, nil
}

/** DELETE */
func (s *service) Deactivate(ctx context.Context, id string) (*User, error) {
	user, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.IsActive = false
	if err := s.repo.Update(ctx, user); err != nil {
		s.logger.Error("failed to deactivate user", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	s.logger.Info("user deactivated", zap.String("id", id))
	return user, nil
}

func validateEmail(email string) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return ErrInvalidEmailFormat
	}
	return nil
}
