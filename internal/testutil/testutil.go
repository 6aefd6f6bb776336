// Package testutil provides an in-memory database wired like production for tests.
package testutil

import (
	"context"
	"fmt"
	"time"

	ideaDatamodel "github.com/frahmantamala/idea-portal/internal/core/datamodel/idea"
	notificationDatamodel "github.com/frahmantamala/idea-portal/internal/core/datamodel/notification"
	userDatamodel "github.com/frahmantamala/idea-portal/internal/core/datamodel/user"
	"github.com/jmoiron/sqlx"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenSQLite creates a migrated in-memory database. A single connection is
// kept open so every query and transaction sees the same database.
func OpenSQLite() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&userDatamodel.User{},
		&ideaDatamodel.Idea{},
		&ideaDatamodel.Reaction{},
		&ideaDatamodel.Comment{},
		&notificationDatamodel.Notification{},
	)
	if err != nil {
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}
	return db, nil
}

// SQLX exposes the same connection through sqlx.
func SQLX(db *gorm.DB) (*sqlx.DB, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	return sqlx.NewDb(sqlDB, "sqlite3"), nil
}

func Close(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}

// CreateUser inserts a user with the given role and returns its id.
func CreateUser(db *gorm.DB, email, role string) (int64, error) {
	u := &userDatamodel.User{
		Email:        email,
		FullName:     email,
		PasswordHash: "x",
		Role:         role,
	}
	if err := db.WithContext(context.Background()).Create(u).Error; err != nil {
		return 0, err
	}
	return u.ID, nil
}

// CreateIdea inserts an idea row directly, bypassing the service.
func CreateIdea(db *gorm.DB, ownerID int64, title, status string, submitted time.Time) (int64, error) {
	row := &ideaDatamodel.Idea{
		UserID:         ownerID,
		EmployeeName:   "Employee",
		Company:        "Adventz",
		Title:          title,
		Category:       "Process",
		Status:         status,
		SubmissionDate: submitted.UTC(),
		LastEditedAt:   submitted.UTC(),
	}
	if err := db.Create(row).Error; err != nil {
		return 0, err
	}
	return row.ID, nil
}
