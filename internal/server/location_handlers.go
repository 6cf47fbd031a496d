package server

import (
	"blogicum/internal/models"
	"blogicum/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetLocations handles GET /api/locations
func (s *Server) GetLocations(c *fiber.Ctx) error {
	locations, err := s.locationService.ListLocations(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(locations)
}

// CreateLocation handles POST /api/admin/locations
func (s *Server) CreateLocation(c *fiber.Ctx) error {
	var req struct {
		Name        string `json:"name"`
		IsPublished *bool  `json:"is_published"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	location, err := s.locationService.CreateLocation(c.Context(), service.CreateLocationInput{
		Name:        req.Name,
		IsPublished: req.IsPublished,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(location)
}

// UpdateLocation handles PUT /api/admin/locations/:id
func (s *Server) UpdateLocation(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Name        string `json:"name"`
		IsPublished *bool  `json:"is_published"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	location, err := s.locationService.UpdateLocation(c.Context(), service.UpdateLocationInput{
		LocationID:  id,
		Name:        req.Name,
		IsPublished: req.IsPublished,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(location)
}

// DeleteLocation handles DELETE /api/admin/locations/:id
func (s *Server) DeleteLocation(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.locationService.DeleteLocation(c.Context(), id); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Location deleted"})
}
