package repository

import (
	"testing"
	"time"

	"blogicum/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}
	// SQLite keeps referential actions off unless asked.
	db.Exec("PRAGMA foreign_keys = ON")

	err = db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Location{},
		&models.Post{},
		&models.Comment{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate database: %v", err)
	}

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "hashed",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create user %s: %v", username, err)
	}
	return user
}

func createTestCategory(t *testing.T, db *gorm.DB, slug string, published bool) *models.Category {
	t.Helper()
	category := &models.Category{
		Title:       "Category " + slug,
		Slug:        slug,
		IsPublished: published,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("Failed to create category %s: %v", slug, err)
	}
	return category
}

func createTestPost(t *testing.T, db *gorm.DB, authorID uint, categoryID *uint, pubDate time.Time, published bool) *models.Post {
	t.Helper()
	post := &models.Post{
		Title:       "Post",
		Text:        "Text",
		AuthorID:    authorID,
		CategoryID:  categoryID,
		PubDate:     pubDate,
		IsPublished: published,
	}
	if err := db.Create(post).Error; err != nil {
		t.Fatalf("Failed to create post: %v", err)
	}
	return post
}
