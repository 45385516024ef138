package db

import (
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"newswire/internal/article"
	"newswire/internal/category"
	"newswire/internal/config"
	"newswire/internal/token"
	"newswire/internal/user"
)

var DB *gorm.DB

func Init(cfg *config.Config) error {
	db, err := gorm.Open(postgres.Open(cfg.Postgres.DSN), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return err
	}

	if err := db.AutoMigrate(
		&user.User{},
		&category.Category{},
		&article.Article{},
		&token.AuthToken{},
	); err != nil {
		return err
	}

	DB = db
	log.Printf("Database connected and migrated")
	return nil
}
