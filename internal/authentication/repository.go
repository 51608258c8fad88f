package authentication

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrRecordNotFound       = errors.New("no active refresh token record")
	ErrRecordAlreadyRevoked = errors.New("refresh token record already revoked")
	ErrUnresponsiveDatabase = errors.New("error occurred while accessing refresh_tokens table")
)

type RecordRepository interface {
	// FindActiveByUser returns the newest unrevoked, unexpired record.
	FindActiveByUser(ctx context.Context, userID string, now time.Time) (*RefreshTokenRecord, error)
	// Replace revokes every active record of the user and inserts record, atomically.
	Replace(ctx context.Context, record *RefreshTokenRecord, now time.Time) (revoked int64, err error)
	// Rotate consumes consumedID and then does what Replace does, all in one
	// transaction. It fails with ErrRecordAlreadyRevoked if consumedID is no
	// longer active.
	Rotate(ctx context.Context, consumedID string, record *RefreshTokenRecord, now time.Time) error
	RevokeAllForUser(ctx context.Context, userID string, now time.Time) (int64, error)
}

type recordRepository struct {
	db *gorm.DB
}

func NewRecordRepository(db *gorm.DB) RecordRepository {
	return &recordRepository{db: db}
}

func activeFor(tx *gorm.DB, userID string, now time.Time) *gorm.DB {
	return tx.Model(&RefreshTokenRecord{}).
		Where("user_id = ?", userID).
		Where("revoked_at IS NULL").
		Where("expires_at > ?", now)
}

func (r *recordRepository) FindActiveByUser(ctx context.Context, userID string, now time.Time) (*RefreshTokenRecord, error) {
	var record RefreshTokenRecord
	err := activeFor(r.db.WithContext(ctx), userID, now).
		Order("created_at DESC").
		First(&record).
		Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnresponsiveDatabase, err)
	}
	return &record, nil
}

func (r *recordRepository) Replace(ctx context.Context, record *RefreshTokenRecord, now time.Time) (int64, error) {
	var revoked int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := supersede(tx, record, now)
		revoked = n
		return err
	})
	if err != nil {
		return 0, err
	}
	return revoked, nil
}

func (r *recordRepository) Rotate(ctx context.Context, consumedID string, record *RefreshTokenRecord, now time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&RefreshTokenRecord{}).
			Where("id = ?", consumedID).
			Where("revoked_at IS NULL").
			Update("revoked_at", now)
		if res.Error != nil {
			return fmt.Errorf("%w: %v", ErrUnresponsiveDatabase, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrRecordAlreadyRevoked
		}
		_, err := supersede(tx, record, now)
		return err
	})
}

// supersede revokes the user's remaining active records and inserts record.
func supersede(tx *gorm.DB, record *RefreshTokenRecord, now time.Time) (int64, error) {
	res := activeFor(tx, record.UserID, now).Update("revoked_at", now)
	if res.Error != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnresponsiveDatabase, res.Error)
	}
	if err := tx.Omit(clause.Associations).Create(record).Error; err != nil {
		return 0, fmt.Errorf("failed to create refresh token record: %w", err)
	}
	return res.RowsAffected, nil
}

func (r *recordRepository) RevokeAllForUser(ctx context.Context, userID string, now time.Time) (int64, error) {
	res := activeFor(r.db.WithContext(ctx), userID, now).Update("revoked_at", now)
	if res.Error != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnresponsiveDatabase, res.Error)
	}
	return res.RowsAffected, nil
}
