package authentication

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mehmetcc/user-auth-service/internal/lock"
	"github.com/mehmetcc/user-auth-service/internal/user"
	"github.com/mehmetcc/user-auth-service/internal/utils"
)

const testSecret = "test-secret"

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "auth.db") + "?_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), utils.GormConfig(zap.NewNop()))
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("getting sql.DB: %v", err)
	}
	// one connection keeps concurrent tests clear of SQLITE_BUSY
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(&user.User{}, &RefreshTokenRecord{}); err != nil {
		t.Fatalf("migrating: %v", err)
	}
	return db
}

type fixture struct {
	db      *gorm.DB
	users   user.Service
	records RecordRepository
	signer  *utils.JWTSigner
	auth    AuthenticationService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testDB(t)
	hasher := utils.NewBcryptHasher(bcrypt.MinCost)
	signer := utils.NewJWTSigner(testSecret)
	users := user.NewService(user.NewRepository(db), hasher, zap.NewNop())
	records := NewRecordRepository(db)

	auth := NewAuthenticationService(users, records, signer, hasher, lock.NewLocal(), zap.NewNop(), TokenSettings{
		AccessTTL:  10 * time.Minute,
		RefreshTTL: 24 * time.Hour,
	})
	return &fixture{db: db, users: users, records: records, signer: signer, auth: auth}
}

// register creates an active user and returns it with its first token pair.
func (f *fixture) register(t *testing.T, email string) (*user.User, TokenPair) {
	t.Helper()
	u, pair, err := f.auth.Register(context.Background(), email, "Test User", "password1")
	if err != nil {
		t.Fatalf("Register(%s) error = %v", email, err)
	}
	return u, pair
}

func (f *fixture) activeRecords(t *testing.T, userID string) int {
	t.Helper()
	now := time.Now().UTC()
	n := 0
	for _, rec := range listRecords(t, f.db, userID) {
		if isActive(rec, now) {
			n++
		}
	}
	return n
}

// listRecords returns every record of the user, oldest first.
func listRecords(t *testing.T, db *gorm.DB, userID string) []RefreshTokenRecord {
	t.Helper()
	var records []RefreshTokenRecord
	if err := db.Where("user_id = ?", userID).Order("created_at ASC").Find(&records).Error; err != nil {
		t.Fatalf("listing records: %v", err)
	}
	return records
}

func readRecord(t *testing.T, db *gorm.DB, id string) RefreshTokenRecord {
	t.Helper()
	var rec RefreshTokenRecord
	if err := db.Where("id = ?", id).First(&rec).Error; err != nil {
		t.Fatalf("reading record %s: %v", id, err)
	}
	return rec
}

func isActive(rec RefreshTokenRecord, now time.Time) bool {
	return rec.RevokedAt == nil && now.Before(rec.ExpiresAt)
}

func cookieByName(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}
