package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"blogicum/internal/models"
	"blogicum/internal/repository"
	"blogicum/internal/validation"

	"gorm.io/gorm"
)

// CategoryService covers the admin-managed category catalogue. Public reads
// go through PostService.ListByCategory; these operations are admin-only.
type CategoryService struct {
	categoryRepo repository.CategoryRepository
	titleMax     int
}

type CreateCategoryInput struct {
	Title       string
	Description string
	Slug        string
	IsPublished *bool
}

type UpdateCategoryInput struct {
	CategoryID  uint
	Title       string
	Description *string
	Slug        string
	IsPublished *bool
}

func NewCategoryService(categoryRepo repository.CategoryRepository, titleMax int) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo, titleMax: titleMax}
}

func (s *CategoryService) CreateCategory(ctx context.Context, in CreateCategoryInput) (*models.Category, error) {
	if err := s.validateTitle(in.Title); err != nil {
		return nil, err
	}
	if err := validation.ValidateCategorySlug(in.Slug); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if _, err := s.categoryRepo.GetBySlug(ctx, in.Slug); err == nil {
		return nil, models.NewValidationError("Slug is already taken")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	published := true
	if in.IsPublished != nil {
		published = *in.IsPublished
	}
	category := &models.Category{
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Slug:        in.Slug,
		IsPublished: published,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) ListCategories(ctx context.Context) ([]*models.Category, error) {
	return s.categoryRepo.ListPublished(ctx)
}

func (s *CategoryService) UpdateCategory(ctx context.Context, in UpdateCategoryInput) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, in.CategoryID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("category")
	}
	if err != nil {
		return nil, err
	}

	if in.Title != "" {
		if err := s.validateTitle(in.Title); err != nil {
			return nil, err
		}
		category.Title = strings.TrimSpace(in.Title)
	}
	if in.Description != nil {
		category.Description = *in.Description
	}
	if in.Slug != "" && in.Slug != category.Slug {
		if err := validation.ValidateCategorySlug(in.Slug); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		if _, err := s.categoryRepo.GetBySlug(ctx, in.Slug); err == nil {
			return nil, models.NewValidationError("Slug is already taken")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		category.Slug = in.Slug
	}
	if in.IsPublished != nil {
		category.IsPublished = *in.IsPublished
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory removes the category. Referencing posts keep existing with
// a null category, which takes them out of every public listing.
func (s *CategoryService) DeleteCategory(ctx context.Context, id uint) error {
	if _, err := s.categoryRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("category")
		}
		return err
	}
	return s.categoryRepo.Delete(ctx, id)
}

func (s *CategoryService) validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return models.NewValidationError("Title is required")
	}
	if len([]rune(title)) > s.titleMax {
		return models.NewValidationError(fmt.Sprintf("Title too long (max %d characters)", s.titleMax))
	}
	return nil
}
