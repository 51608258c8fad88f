package user

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrEmailAlreadyExists   = errors.New("email already exists")
	ErrUserNotFound         = errors.New("user not found")
	ErrUserNotCreated       = errors.New("user not created")
	ErrUserNotUpdated       = errors.New("user not updated")
	ErrUnresponsiveDatabase = errors.New("error occurred while accessing users table")
)

const uniqueViolation = "23505"

type Repository interface {
	Create(ctx context.Context, user *User) error
	ReadByEmail(ctx context.Context, email string) (*User, error)
	ReadByID(ctx context.Context, id string) (*User, error)
	Update(ctx context.Context, user *User) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ReadByID(ctx context.Context, id string) (*User, error) {
	var user User
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&user).
		Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, ErrUnresponsiveDatabase
	}
	return &user, nil
}

func (r *repository) ReadByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&user).
		Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, ErrUnresponsiveDatabase
	}
	return &user, nil
}

func (r *repository) Create(ctx context.Context, user *User) error {
	err := r.db.WithContext(ctx).Create(user).Error
	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailAlreadyExists
		}
		return ErrUserNotCreated
	}
	return nil
}

func (r *repository) Update(ctx context.Context, user *User) error {
	err := r.db.WithContext(ctx).Save(user).Error
	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailAlreadyExists
		}
		return ErrUserNotUpdated
	}
	return nil
}

// isUniqueViolation recognises duplicate keys from the translated gorm error
// and from a raw postgres error.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
