package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"blogicum/internal/cache"
	"blogicum/internal/models"
	"blogicum/internal/pagination"
	"blogicum/internal/repository"

	"gorm.io/gorm"
)

// PostService enforces visibility and ownership on top of the post
// repository. Every read takes the viewer's user ID (0 for anonymous) and
// answers with not-found for anything the viewer may not see.
type PostService struct {
	postRepo     repository.PostRepository
	categoryRepo repository.CategoryRepository
	locationRepo repository.LocationRepository
	paginator    pagination.Paginator
	titleMax     int
	now          func() time.Time
}

type CreatePostInput struct {
	UserID      uint
	Title       string
	Text        string
	ImageURL    string
	PubDate     time.Time
	IsPublished *bool
	CategoryID  *uint
	LocationID  *uint
}

type UpdatePostInput struct {
	UserID      uint
	PostID      uint
	Title       string
	Text        string
	ImageURL    *string
	PubDate     *time.Time
	IsPublished *bool
	CategoryID  *uint
	LocationID  *uint
}

type DeletePostInput struct {
	UserID uint
	PostID uint
}

// FeedPage is one page of a post listing plus its pagination envelope.
type FeedPage struct {
	Posts []*models.Post  `json:"posts"`
	Page  pagination.Page `json:"page"`
}

// CategoryPage is a category's detail together with one page of its posts.
type CategoryPage struct {
	Category *models.Category `json:"category"`
	Posts    []*models.Post   `json:"posts"`
	Page     pagination.Page  `json:"page"`
}

func NewPostService(
	postRepo repository.PostRepository,
	categoryRepo repository.CategoryRepository,
	locationRepo repository.LocationRepository,
	paginator pagination.Paginator,
	titleMax int,
	now func() time.Time,
) *PostService {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &PostService{
		postRepo:     postRepo,
		categoryRepo: categoryRepo,
		locationRepo: locationRepo,
		paginator:    paginator,
		titleMax:     titleMax,
		now:          now,
	}
}

// PostDetailPath is the public detail URL for a post. Ownership failures
// redirect here instead of erroring.
func PostDetailPath(postID uint) string {
	return fmt.Sprintf("/api/posts/%d", postID)
}

// GetPost returns the post when the viewer may see it. A post that exists
// but is hidden from this viewer is reported exactly like a missing one.
func (s *PostService) GetPost(ctx context.Context, id, viewerID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("post")
	}
	if err != nil {
		return nil, err
	}
	if !post.VisibleTo(viewerID, s.now()) {
		return nil, models.NewNotFoundError("post")
	}
	return post, nil
}

// ListFeed returns one page of the main feed, newest publication first.
// An out-of-range page clamps to the nearest valid page.
func (s *PostService) ListFeed(ctx context.Context, viewerID uint, pageNum int) (*FeedPage, error) {
	now := s.now()
	total, err := s.postRepo.CountFeed(ctx, viewerID, now)
	if err != nil {
		return nil, err
	}
	page := s.paginator.Page(total, pageNum)

	var posts []*models.Post
	if viewerID == 0 && page.Number == 1 {
		// The anonymous first page is by far the hottest read.
		err = cache.Aside(ctx, cache.FeedKey(), &posts, cache.FeedTTL, func() error {
			var fetchErr error
			posts, fetchErr = s.postRepo.ListFeed(ctx, 0, now, page.Limit, page.Offset)
			return fetchErr
		})
	} else {
		posts, err = s.postRepo.ListFeed(ctx, viewerID, now, page.Limit, page.Offset)
	}
	if err != nil {
		return nil, err
	}
	return &FeedPage{Posts: posts, Page: page}, nil
}

// ListByCategory returns the category page: the category itself plus one
// page of its visible posts. An unpublished or missing category is
// not-found for every viewer.
func (s *PostService) ListByCategory(ctx context.Context, slug string, viewerID uint, pageNum int) (*CategoryPage, error) {
	category, err := s.categoryRepo.GetBySlug(ctx, slug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("category")
	}
	if err != nil {
		return nil, err
	}
	if !category.VisibleTo() {
		return nil, models.NewNotFoundError("category")
	}

	now := s.now()
	total, err := s.postRepo.CountByCategory(ctx, category.ID, viewerID, now)
	if err != nil {
		return nil, err
	}
	page := s.paginator.Page(total, pageNum)
	posts, err := s.postRepo.ListByCategory(ctx, category.ID, viewerID, now, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return &CategoryPage{Category: category, Posts: posts, Page: page}, nil
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if err := s.validatePostFields(ctx, in.Title, in.Text, in.CategoryID, in.LocationID); err != nil {
		return nil, err
	}

	pubDate := in.PubDate
	if pubDate.IsZero() {
		pubDate = s.now()
	}
	published := true
	if in.IsPublished != nil {
		published = *in.IsPublished
	}

	post := &models.Post{
		Title:       strings.TrimSpace(in.Title),
		Text:        in.Text,
		ImageURL:    in.ImageURL,
		PubDate:     pubDate,
		IsPublished: published,
		AuthorID:    in.UserID,
		CategoryID:  in.CategoryID,
		LocationID:  in.LocationID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

// UpdatePost applies the given changes when the caller owns the post. A
// non-owner who could see the post gets a redirect to its detail page; a
// non-owner who could not see it gets not-found.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.GetPost(ctx, in.PostID, in.UserID)
	if err != nil {
		return nil, err
	}
	if !post.OwnedBy(in.UserID) {
		return nil, models.NewNotOwnerError(PostDetailPath(post.ID))
	}

	if in.Title != "" {
		if len([]rune(in.Title)) > s.titleMax {
			return nil, models.NewValidationError(fmt.Sprintf("Title too long (max %d characters)", s.titleMax))
		}
		post.Title = strings.TrimSpace(in.Title)
	}
	if in.Text != "" {
		post.Text = in.Text
	}
	if in.ImageURL != nil {
		post.ImageURL = *in.ImageURL
	}
	if in.PubDate != nil {
		post.PubDate = *in.PubDate
	}
	if in.IsPublished != nil {
		post.IsPublished = *in.IsPublished
	}
	if in.CategoryID != nil {
		if err := s.requireCategory(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
		post.CategoryID = in.CategoryID
	}
	if in.LocationID != nil {
		if err := s.requireLocation(ctx, *in.LocationID); err != nil {
			return nil, err
		}
		post.LocationID = in.LocationID
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) error {
	post, err := s.GetPost(ctx, in.PostID, in.UserID)
	if err != nil {
		return err
	}
	if !post.OwnedBy(in.UserID) {
		return models.NewNotOwnerError(PostDetailPath(post.ID))
	}
	return s.postRepo.Delete(ctx, in.PostID)
}

func (s *PostService) validatePostFields(ctx context.Context, title, text string, categoryID, locationID *uint) error {
	if strings.TrimSpace(title) == "" {
		return models.NewValidationError("Title is required")
	}
	if len([]rune(title)) > s.titleMax {
		return models.NewValidationError(fmt.Sprintf("Title too long (max %d characters)", s.titleMax))
	}
	if strings.TrimSpace(text) == "" {
		return models.NewValidationError("Text is required")
	}
	if categoryID == nil {
		return models.NewValidationError("Category is required")
	}
	if err := s.requireCategory(ctx, *categoryID); err != nil {
		return err
	}
	if locationID != nil {
		if err := s.requireLocation(ctx, *locationID); err != nil {
			return err
		}
	}
	return nil
}

func (s *PostService) requireCategory(ctx context.Context, id uint) error {
	_, err := s.categoryRepo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewValidationError("Unknown category")
	}
	return err
}

func (s *PostService) requireLocation(ctx context.Context, id uint) error {
	_, err := s.locationRepo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewValidationError("Unknown location")
	}
	return err
}
