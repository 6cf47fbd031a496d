// Package seed creates demo and test data for the application database.
// Intended for development only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"blogicum/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db   *gorm.DB
	opts Options
	rng  *rand.Rand
}

// NewFactory creates a Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	seed := opts.RandSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	gofakeit.Seed(seed)
	return &Factory{db: db, opts: opts, rng: rand.New(rand.NewSource(seed))}
}

// CreateUser constructs and persists a sample user. Optional override
// functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Username:  strings.ToLower(gofakeit.Username()) + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:     gofakeit.Email(),
		FirstName: gofakeit.FirstName(),
		LastName:  gofakeit.LastName(),
	}

	// Password handling: allow skipping bcrypt in dev fast mode
	if f.opts.SkipBcrypt {
		user.Password = demoPassword
	} else {
		hashed, _ := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
		user.Password = string(hashed)
	}

	for _, override := range overrides {
		override(user)
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateCategory constructs and persists a category. Slugs are derived from
// the title and suffixed to stay unique across runs.
func (f *Factory) CreateCategory(title string, overrides ...func(*models.Category)) (*models.Category, error) {
	category := &models.Category{
		Title:       title,
		Description: gofakeit.Sentence(12),
		Slug:        slugify(title) + fmt.Sprintf("-%d", gofakeit.Number(10, 99)),
		IsPublished: true,
	}
	for _, override := range overrides {
		override(category)
	}
	if err := f.db.Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// CreateLocation constructs and persists a location tag.
func (f *Factory) CreateLocation(overrides ...func(*models.Location)) (*models.Location, error) {
	location := &models.Location{
		Name:        gofakeit.City(),
		IsPublished: true,
	}
	for _, override := range overrides {
		override(location)
	}
	if err := f.db.Create(location).Error; err != nil {
		return nil, err
	}
	return location, nil
}

// BuildPost constructs a post without persisting it. The publication date is
// spread over the recent past; a small share of posts is left as drafts or
// scheduled into the future so seeded data exercises the visibility rules.
func (f *Factory) BuildPost(author *models.User, categoryID, locationID *uint, overrides ...func(*models.Post)) *models.Post {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	post := &models.Post{
		Title:       gofakeit.Sentence(5),
		Text:        gofakeit.Paragraph(2, 4, 8, "\n\n"),
		ImageURL:    fmt.Sprintf("https://picsum.photos/seed/%s/800/600", gofakeit.UUID()),
		AuthorID:    author.ID,
		CategoryID:  categoryID,
		LocationID:  locationID,
		IsPublished: true,
	}

	daysBack := f.rng.Intn(maxDays)
	hoursBack := f.rng.Intn(24)
	post.PubDate = time.Now().UTC().
		Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)

	switch f.rng.Intn(10) {
	case 0:
		post.IsPublished = false
	case 1:
		post.PubDate = time.Now().UTC().Add(time.Duration(1+f.rng.Intn(14)) * 24 * time.Hour)
	}

	for _, override := range overrides {
		override(post)
	}
	return post
}

// CreatePostsBatch persists multiple posts in a single insert.
func (f *Factory) CreatePostsBatch(posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	return f.db.Create(&posts).Error
}

// CreateComment constructs and persists a comment on the given post.
func (f *Factory) CreateComment(post *models.Post, author *models.User, overrides ...func(*models.Comment)) (*models.Comment, error) {
	comment := &models.Comment{
		Text:     gofakeit.Sentence(8 + f.rng.Intn(12)),
		PostID:   post.ID,
		AuthorID: author.ID,
	}
	for _, override := range overrides {
		override(comment)
	}
	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

func slugify(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteByte('-')
		}
	}
	return strings.Trim(b.String(), "-")
}

func logStep(format string, args ...any) {
	log.Printf(format, args...)
}
