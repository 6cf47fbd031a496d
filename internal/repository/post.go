// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"time"

	"blogicum/internal/cache"
	"blogicum/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations.
// Listing methods take the viewer and the current time so one visibility
// scope shapes every feed.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	ListFeed(ctx context.Context, viewerID uint, now time.Time, limit, offset int) ([]*models.Post, error)
	CountFeed(ctx context.Context, viewerID uint, now time.Time) (int64, error)
	ListByCategory(ctx context.Context, categoryID, viewerID uint, now time.Time, limit, offset int) ([]*models.Post, error)
	CountByCategory(ctx context.Context, categoryID, viewerID uint, now time.Time) (int64, error)
	ListByAuthor(ctx context.Context, authorID, viewerID uint, now time.Time, limit, offset int) ([]*models.Post, error)
	CountByAuthor(ctx context.Context, authorID, viewerID uint, now time.Time) (int64, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	err := r.db.WithContext(ctx).Create(post).Error
	if err == nil {
		cache.Invalidate(ctx, cache.FeedKey())
	}
	return err
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := cache.Aside(ctx, cache.PostKey(id), &post, cache.PostTTL, func() error {
		return r.applyCommentCount(r.db.WithContext(ctx)).
			Preload("Author").
			Preload("Category").
			Preload("Location").
			First(&post, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) ListFeed(ctx context.Context, viewerID uint, now time.Time, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.applyCommentCount(r.db.WithContext(ctx)).
		Preload("Author").
		Preload("Category").
		Preload("Location").
		Scopes(visibleScope(viewerID, now)).
		Order("posts.pub_date DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) CountFeed(ctx context.Context, viewerID uint, now time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Scopes(visibleScope(viewerID, now)).
		Count(&n).Error
	return n, err
}

func (r *postRepository) ListByCategory(ctx context.Context, categoryID, viewerID uint, now time.Time, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.applyCommentCount(r.db.WithContext(ctx)).
		Preload("Author").
		Preload("Category").
		Preload("Location").
		Scopes(visibleScope(viewerID, now)).
		Where("posts.category_id = ?", categoryID).
		Order("posts.pub_date DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) CountByCategory(ctx context.Context, categoryID, viewerID uint, now time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Scopes(visibleScope(viewerID, now)).
		Where("posts.category_id = ?", categoryID).
		Count(&n).Error
	return n, err
}

func (r *postRepository) ListByAuthor(ctx context.Context, authorID, viewerID uint, now time.Time, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	q := r.applyCommentCount(r.db.WithContext(ctx)).
		Preload("Author").
		Preload("Category").
		Preload("Location")
	if viewerID != authorID {
		q = q.Scopes(visibleScope(viewerID, now))
	}
	err := q.
		Where("posts.author_id = ?", authorID).
		Order("posts.pub_date DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) CountByAuthor(ctx context.Context, authorID, viewerID uint, now time.Time) (int64, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(&models.Post{})
	if viewerID != authorID {
		q = q.Scopes(visibleScope(viewerID, now))
	}
	err := q.Where("posts.author_id = ?", authorID).Count(&n).Error
	return n, err
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return err
	}
	cache.InvalidatePost(ctx, post.ID)
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Post{}, id).Error; err != nil {
		return err
	}
	cache.InvalidatePost(ctx, id)
	return nil
}

// visibleScope narrows posts to the rows the viewer may see: published
// posts in published categories whose publication date has passed, plus
// every post the viewer authored. Anonymous viewers (id 0) get only the
// public arm. The category join is LEFT so authors still see their own
// posts after a category deletion nullified the reference.
func visibleScope(viewerID uint, now time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Joins("LEFT JOIN categories ON categories.id = posts.category_id")
		if viewerID != 0 {
			return db.Where(
				"(posts.is_published AND categories.is_published AND posts.pub_date <= ?) OR posts.author_id = ?",
				now, viewerID,
			)
		}
		return db.Where(
			"posts.is_published AND categories.is_published AND posts.pub_date <= ?",
			now,
		)
	}
}

// applyCommentCount selects the live comment count in the same query, so
// the value can never drift from the comments table.
func (r *postRepository) applyCommentCount(db *gorm.DB) *gorm.DB {
	return db.Select("posts.*, (SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comment_count")
}
