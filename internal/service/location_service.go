package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"blogicum/internal/models"
	"blogicum/internal/repository"

	"gorm.io/gorm"
)

// LocationService covers the admin-managed location catalogue.
type LocationService struct {
	locationRepo repository.LocationRepository
	nameMax      int
}

type CreateLocationInput struct {
	Name        string
	IsPublished *bool
}

type UpdateLocationInput struct {
	LocationID  uint
	Name        string
	IsPublished *bool
}

func NewLocationService(locationRepo repository.LocationRepository, nameMax int) *LocationService {
	return &LocationService{locationRepo: locationRepo, nameMax: nameMax}
}

func (s *LocationService) CreateLocation(ctx context.Context, in CreateLocationInput) (*models.Location, error) {
	if err := s.validateName(in.Name); err != nil {
		return nil, err
	}

	published := true
	if in.IsPublished != nil {
		published = *in.IsPublished
	}
	location := &models.Location{
		Name:        strings.TrimSpace(in.Name),
		IsPublished: published,
	}
	if err := s.locationRepo.Create(ctx, location); err != nil {
		return nil, err
	}
	return location, nil
}

func (s *LocationService) ListLocations(ctx context.Context) ([]*models.Location, error) {
	return s.locationRepo.ListPublished(ctx)
}

func (s *LocationService) UpdateLocation(ctx context.Context, in UpdateLocationInput) (*models.Location, error) {
	location, err := s.locationRepo.GetByID(ctx, in.LocationID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("location")
	}
	if err != nil {
		return nil, err
	}

	if in.Name != "" {
		if err := s.validateName(in.Name); err != nil {
			return nil, err
		}
		location.Name = strings.TrimSpace(in.Name)
	}
	if in.IsPublished != nil {
		location.IsPublished = *in.IsPublished
	}

	if err := s.locationRepo.Update(ctx, location); err != nil {
		return nil, err
	}
	return location, nil
}

// DeleteLocation removes the location; referencing posts keep existing with
// a null location.
func (s *LocationService) DeleteLocation(ctx context.Context, id uint) error {
	if _, err := s.locationRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("location")
		}
		return err
	}
	return s.locationRepo.Delete(ctx, id)
}

func (s *LocationService) validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return models.NewValidationError("Name is required")
	}
	if len([]rune(name)) > s.nameMax {
		return models.NewValidationError(fmt.Sprintf("Name too long (max %d characters)", s.nameMax))
	}
	return nil
}
