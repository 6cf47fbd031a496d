package server

import (
	"blogicum/internal/models"
	"blogicum/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetCategories handles GET /api/categories
func (s *Server) GetCategories(c *fiber.Ctx) error {
	categories, err := s.categoryService.ListCategories(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(categories)
}

// GetCategoryPosts handles GET /api/categories/:slug
// Returns the category and one page of its visible posts. An unpublished
// category is indistinguishable from a missing one.
func (s *Server) GetCategoryPosts(c *fiber.Ctx) error {
	slug := c.Params("slug")
	viewerID, _ := s.optionalUserID(c)

	page, err := s.postService.ListByCategory(c.Context(), slug, viewerID, parsePage(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(page)
}

// CreateCategory handles POST /api/admin/categories
func (s *Server) CreateCategory(c *fiber.Ctx) error {
	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Slug        string `json:"slug"`
		IsPublished *bool  `json:"is_published"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	category, err := s.categoryService.CreateCategory(c.Context(), service.CreateCategoryInput{
		Title:       req.Title,
		Description: req.Description,
		Slug:        req.Slug,
		IsPublished: req.IsPublished,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

// UpdateCategory handles PUT /api/admin/categories/:id
func (s *Server) UpdateCategory(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title       string  `json:"title"`
		Description *string `json:"description"`
		Slug        string  `json:"slug"`
		IsPublished *bool   `json:"is_published"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	category, err := s.categoryService.UpdateCategory(c.Context(), service.UpdateCategoryInput{
		CategoryID:  id,
		Title:       req.Title,
		Description: req.Description,
		Slug:        req.Slug,
		IsPublished: req.IsPublished,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(category)
}

// DeleteCategory handles DELETE /api/admin/categories/:id
func (s *Server) DeleteCategory(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.categoryService.DeleteCategory(c.Context(), id); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Category deleted"})
}
