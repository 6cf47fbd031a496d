package service

import (
	"context"
	"errors"
	"time"

	"blogicum/internal/models"
	"blogicum/internal/pagination"
	"blogicum/internal/repository"

	"gorm.io/gorm"
)

// UserService covers public profiles and profile editing. The profile feed
// is asymmetric: the owner sees every own post, everyone else sees only the
// publicly visible subset.
type UserService struct {
	userRepo  repository.UserRepository
	postRepo  repository.PostRepository
	paginator pagination.Paginator
	now       func() time.Time
}

type UpdateProfileInput struct {
	UserID    uint
	FirstName *string
	LastName  *string
	Email     string
}

// Profile is a user's public page: the user plus one page of their posts.
type Profile struct {
	User  *models.User    `json:"user"`
	Posts []*models.Post  `json:"posts"`
	Page  pagination.Page `json:"page"`
}

func NewUserService(
	userRepo repository.UserRepository,
	postRepo repository.PostRepository,
	paginator pagination.Paginator,
	now func() time.Time,
) *UserService {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &UserService{
		userRepo:  userRepo,
		postRepo:  postRepo,
		paginator: paginator,
		now:       now,
	}
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("user")
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetProfile returns the profile page for a username. When the viewer is
// the profile owner the post list includes drafts and scheduled posts.
func (s *UserService) GetProfile(ctx context.Context, username string, viewerID uint, pageNum int) (*Profile, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("user")
	}
	if err != nil {
		return nil, err
	}

	now := s.now()
	total, err := s.postRepo.CountByAuthor(ctx, user.ID, viewerID, now)
	if err != nil {
		return nil, err
	}
	page := s.paginator.Page(total, pageNum)
	posts, err := s.postRepo.ListByAuthor(ctx, user.ID, viewerID, now, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return &Profile{User: user, Posts: posts, Page: page}, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("user")
	}
	if err != nil {
		return nil, err
	}

	if in.FirstName != nil {
		user.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		user.LastName = *in.LastName
	}
	if in.Email != "" && in.Email != user.Email {
		existing, err := s.userRepo.GetByEmail(ctx, in.Email)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, models.NewValidationError("Email is already taken")
		}
		user.Email = in.Email
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) SetAdmin(ctx context.Context, targetID uint, isAdmin bool) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, targetID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("user")
	}
	if err != nil {
		return nil, err
	}

	user.IsAdmin = isAdmin
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
