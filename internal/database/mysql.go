package database

import (
	"fmt"
	"strings"

	"learnstack-service/internal/config"
	"learnstack-service/internal/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// NewMySQLConnection opens the primary store and migrates the schema.
func NewMySQLConnection(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DBName)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		SkipDefaultTransaction:                   true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %v", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)

	if err := Migrate(db); err != nil {
		if strings.Contains(err.Error(), "already exists") {
			// Schema is already in place, keep going.
			return db, nil
		}
		return nil, fmt.Errorf("failed to migrate database: %v", err)
	}

	return db, nil
}

// Migrate creates or updates the schema for every entity the service owns.
// Shared with the test setup, which runs it against sqlite.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.UserBadge{},
		&models.LoginDay{},
		&models.Session{},
		&models.Question{},
		&models.Answer{},
		&models.QuestionVote{},
		&models.AnswerVote{},
		&models.ChatSession{},
		&models.ChatMessage{},
	)
}
