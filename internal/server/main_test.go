package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"testing"
	"time"

	"blogicum/internal/config"
	"blogicum/internal/database"
	"blogicum/internal/models"
	"blogicum/internal/pagination"
	"blogicum/internal/repository"
	"blogicum/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestServer builds a Server over an in-memory database with the full
// route table mounted. Prometheus middleware is left out so repeated app
// construction does not re-register collectors.
func newTestServer(t *testing.T) (*Server, *fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	db.Exec("PRAGMA foreign_keys = ON")
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{
		JWTSecret:        "handler-test-secret-key-0123456789ab",
		Port:             "8080",
		Env:              "test",
		PageSize:         10,
		CommentMaxLength: 100,
		TitleMaxLength:   256,
	}

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	locationRepo := repository.NewLocationRepository(db)
	paginator := pagination.New(cfg.PageSize)

	s := &Server{
		config:          cfg,
		db:              db,
		userRepo:        userRepo,
		postRepo:        postRepo,
		commentRepo:     commentRepo,
		categoryRepo:    categoryRepo,
		locationRepo:    locationRepo,
		postService:     service.NewPostService(postRepo, categoryRepo, locationRepo, paginator, cfg.TitleMaxLength, nil),
		commentService:  service.NewCommentService(commentRepo, postRepo, cfg.CommentMaxLength, nil),
		categoryService: service.NewCategoryService(categoryRepo, cfg.TitleMaxLength),
		locationService: service.NewLocationService(locationRepo, cfg.TitleMaxLength),
		userService:     service.NewUserService(userRepo, postRepo, paginator, nil),
	}

	app := fiber.New()
	s.SetupRoutes(app)

	return s, app, db
}

func seedUser(t *testing.T, db *gorm.DB, username string, isAdmin bool) *models.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("SecurePass12!@"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: string(hashed),
		IsAdmin:  isAdmin,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedCategory(t *testing.T, db *gorm.DB, slug string, published bool) *models.Category {
	t.Helper()
	category := &models.Category{Title: "Category " + slug, Slug: slug, IsPublished: published}
	require.NoError(t, db.Create(category).Error)
	return category
}

func seedPost(t *testing.T, db *gorm.DB, authorID uint, categoryID *uint, pubDate time.Time, published bool) *models.Post {
	t.Helper()
	post := &models.Post{
		Title:       "Post",
		Text:        "Text",
		AuthorID:    authorID,
		CategoryID:  categoryID,
		PubDate:     pubDate,
		IsPublished: published,
	}
	require.NoError(t, db.Create(post).Error)
	return post
}

func authHeader(t *testing.T, s *Server, userID uint, username string) string {
	t.Helper()
	token, err := s.generateToken(userID, username)
	require.NoError(t, err)
	return "Bearer " + token
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// foreignTokenHeader signs a token with the server's own secret but the given
// issuer and audience claims.
func foreignTokenHeader(t *testing.T, s *Server, userID uint, issuer, audience string) string {
	t.Helper()
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": itoa(userID),
		"iss": issuer,
		"aud": audience,
		"exp": now.Add(time.Hour).Unix(),
		"iat": now.Unix(),
		"nbf": now.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(s.config.JWTSecret))
	require.NoError(t, err)
	return "Bearer " + token
}

func decodeBody(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, dest))
}
