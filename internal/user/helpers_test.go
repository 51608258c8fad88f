package user

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mehmetcc/user-auth-service/internal/utils"
)

// testDB opens a migrated SQLite database in a temp dir, removed when the test ends.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "users.db") + "?_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), utils.GormConfig(zap.NewNop()))
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("getting sql.DB: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(&User{}); err != nil {
		t.Fatalf("migrating: %v", err)
	}
	return db
}

func testService(t *testing.T) (Service, Repository) {
	t.Helper()
	repo := NewRepository(testDB(t))
	return NewService(repo, utils.NewBcryptHasher(bcrypt.MinCost), zap.NewNop()), repo
}

func ptr[T any](v T) *T { return &v }
