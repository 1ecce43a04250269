// Package testutil opens throwaway databases for package tests.
package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"healthcare-backend/internal/domain/entity"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbSeq atomic.Int64

// Models is every table the service owns, in dependency order.
var Models = []interface{}{
	&entity.User{},
	&entity.Doctor{},
	&entity.Patient{},
	&entity.PatientDoctorMapping{},
	&entity.AuditLog{},
}

// NewTestDB returns an in-memory SQLite database private to t, migrated with
// the service schema. It is closed when the test finishes.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:testdb_%s_%d?mode=memory&cache=shared", name, dbSeq.Add(1))

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get test db handle: %v", err)
	}
	// one connection keeps the shared-cache database alive and serialises writers
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(Models...); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}

	return db
}

// CreateUser inserts a user with a placeholder password hash.
func CreateUser(t *testing.T, db *gorm.DB, email, name string) *entity.User {
	t.Helper()

	user := &entity.User{Username: email, Email: email, Name: name, Password: "x", IsActive: true}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}
