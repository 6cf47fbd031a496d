package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"blogicum/internal/models"
	"blogicum/internal/repository"

	"gorm.io/gorm"
)

// CommentService guards comments with the owning post's visibility: no
// operation on a comment succeeds unless the viewer could see the post.
type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	textMax     int
	now         func() time.Time
}

type AddCommentInput struct {
	UserID uint
	PostID uint
	Text   string
}

type UpdateCommentInput struct {
	UserID    uint
	PostID    uint
	CommentID uint
	Text      string
}

type DeleteCommentInput struct {
	UserID    uint
	PostID    uint
	CommentID uint
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	textMax int,
	now func() time.Time,
) *CommentService {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		textMax:     textMax,
		now:         now,
	}
}

func (s *CommentService) AddComment(ctx context.Context, in AddCommentInput) (*models.Comment, error) {
	if err := s.requireVisiblePost(ctx, in.PostID, in.UserID); err != nil {
		return nil, err
	}
	if err := s.validateText(in.Text); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Text:     strings.TrimSpace(in.Text),
		PostID:   in.PostID,
		AuthorID: in.UserID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return s.commentRepo.GetByID(ctx, comment.ID)
}

// ListComments returns all comments of a visible post, oldest first.
func (s *CommentService) ListComments(ctx context.Context, postID, viewerID uint) ([]*models.Comment, error) {
	if err := s.requireVisiblePost(ctx, postID, viewerID); err != nil {
		return nil, err
	}
	return s.commentRepo.ListByPost(ctx, postID)
}

func (s *CommentService) UpdateComment(ctx context.Context, in UpdateCommentInput) (*models.Comment, error) {
	comment, err := s.getOwnedComment(ctx, in.PostID, in.CommentID, in.UserID)
	if err != nil {
		return nil, err
	}
	if err := s.validateText(in.Text); err != nil {
		return nil, err
	}

	comment.Text = strings.TrimSpace(in.Text)
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return s.commentRepo.GetByID(ctx, comment.ID)
}

func (s *CommentService) DeleteComment(ctx context.Context, in DeleteCommentInput) error {
	if _, err := s.getOwnedComment(ctx, in.PostID, in.CommentID, in.UserID); err != nil {
		return err
	}
	return s.commentRepo.Delete(ctx, in.CommentID)
}

// getOwnedComment resolves a comment addressed as post/comment and checks
// ownership. A comment under a different post than the URL names is
// not-found, not an ownership failure.
func (s *CommentService) getOwnedComment(ctx context.Context, postID, commentID, userID uint) (*models.Comment, error) {
	if err := s.requireVisiblePost(ctx, postID, userID); err != nil {
		return nil, err
	}
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("comment")
	}
	if err != nil {
		return nil, err
	}
	if comment.PostID != postID {
		return nil, models.NewNotFoundError("comment")
	}
	if !comment.OwnedBy(userID) {
		return nil, models.NewNotOwnerError(PostDetailPath(postID))
	}
	return comment, nil
}

func (s *CommentService) requireVisiblePost(ctx context.Context, postID, viewerID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError("post")
	}
	if err != nil {
		return err
	}
	if !post.VisibleTo(viewerID, s.now()) {
		return models.NewNotFoundError("post")
	}
	return nil
}

func (s *CommentService) validateText(text string) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return models.NewValidationError("Text is required")
	}
	if len([]rune(trimmed)) > s.textMax {
		return models.NewValidationError(fmt.Sprintf("Comment too long (max %d characters)", s.textMax))
	}
	return nil
}
