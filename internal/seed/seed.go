package seed

import (
	"fmt"

	"blogicum/internal/models"

	"gorm.io/gorm"
)

// demoPassword is the login password every seeded user shares.
const demoPassword = "DemoPassword12!"

// Options configures a seeding run.
type Options struct {
	NumUsers    int
	NumPosts    int
	NumComments int
	MaxDays     int
	SkipBcrypt  bool
	RandSeed    int64
}

// Seeder populates the database with demo data.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
	opts    Options
}

var categoryTitles = []string{
	"Travel", "Food", "Technology", "Music", "Books",
	"Cinema", "Science", "History", "Sports", "Art",
}

// NewSeeder creates a Seeder with the given options.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	if opts.NumUsers <= 0 {
		opts.NumUsers = 20
	}
	if opts.NumPosts <= 0 {
		opts.NumPosts = 100
	}
	if opts.NumComments <= 0 {
		opts.NumComments = opts.NumPosts * 3
	}
	return &Seeder{db: db, factory: NewFactory(db, opts), opts: opts}
}

// ClearAll removes all seeded data. Comments go first so the delete order
// never trips foreign keys on databases without cascading deletes.
func (s *Seeder) ClearAll() error {
	tables := []any{
		&models.Comment{},
		&models.Post{},
		&models.Location{},
		&models.Category{},
		&models.User{},
	}
	for _, table := range tables {
		if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(table).Error; err != nil {
			return fmt.Errorf("failed to clear table %T: %w", table, err)
		}
	}
	return nil
}

// Run seeds users, categories, locations, posts and comments.
func (s *Seeder) Run() error {
	users, err := s.seedUsers()
	if err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}
	logStep("created %d users", len(users))

	categories, err := s.seedCategories()
	if err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}
	logStep("created %d categories", len(categories))

	locations, err := s.seedLocations()
	if err != nil {
		return fmt.Errorf("failed to seed locations: %w", err)
	}
	logStep("created %d locations", len(locations))

	posts, err := s.seedPosts(users, categories, locations)
	if err != nil {
		return fmt.Errorf("failed to seed posts: %w", err)
	}
	logStep("created %d posts", len(posts))

	comments, err := s.seedComments(users, posts)
	if err != nil {
		return fmt.Errorf("failed to seed comments: %w", err)
	}
	logStep("created %d comments", comments)

	return nil
}

func (s *Seeder) seedUsers() ([]*models.User, error) {
	users := make([]*models.User, 0, s.opts.NumUsers)

	admin, err := s.factory.CreateUser(func(u *models.User) {
		u.Username = "admin"
		u.Email = "admin@example.com"
		u.IsAdmin = true
	})
	if err != nil {
		return nil, err
	}
	users = append(users, admin)

	for i := 1; i < s.opts.NumUsers; i++ {
		user, err := s.factory.CreateUser()
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func (s *Seeder) seedCategories() ([]*models.Category, error) {
	categories := make([]*models.Category, 0, len(categoryTitles))
	for i, title := range categoryTitles {
		unpublished := i == len(categoryTitles)-1
		category, err := s.factory.CreateCategory(title, func(c *models.Category) {
			if unpublished {
				c.IsPublished = false
			}
		})
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, nil
}

func (s *Seeder) seedLocations() ([]*models.Location, error) {
	locations := make([]*models.Location, 0, 8)
	for i := 0; i < 8; i++ {
		location, err := s.factory.CreateLocation()
		if err != nil {
			return nil, err
		}
		locations = append(locations, location)
	}
	return locations, nil
}

func (s *Seeder) seedPosts(users []*models.User, categories []*models.Category, locations []*models.Location) ([]*models.Post, error) {
	rng := s.factory.rng
	posts := make([]*models.Post, 0, s.opts.NumPosts)
	for i := 0; i < s.opts.NumPosts; i++ {
		author := users[rng.Intn(len(users))]

		var categoryID *uint
		if rng.Intn(10) != 0 {
			categoryID = &categories[rng.Intn(len(categories))].ID
		}
		var locationID *uint
		if rng.Intn(3) != 0 {
			locationID = &locations[rng.Intn(len(locations))].ID
		}

		posts = append(posts, s.factory.BuildPost(author, categoryID, locationID))
	}
	if err := s.factory.CreatePostsBatch(posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *Seeder) seedComments(users []*models.User, posts []*models.Post) (int, error) {
	if len(posts) == 0 {
		return 0, nil
	}
	rng := s.factory.rng
	created := 0
	for i := 0; i < s.opts.NumComments; i++ {
		post := posts[rng.Intn(len(posts))]
		author := users[rng.Intn(len(users))]
		if _, err := s.factory.CreateComment(post, author); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}
