package server

import (
	"time"

	"blogicum/internal/models"
	"blogicum/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetPosts handles GET /api/posts
// Returns one page of the main feed. Authenticated authors also see their
// own hidden posts.
func (s *Server) GetPosts(c *fiber.Ctx) error {
	viewerID, _ := s.optionalUserID(c)

	feed, err := s.postService.ListFeed(c.Context(), viewerID, parsePage(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(feed)
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	viewerID, _ := s.optionalUserID(c)

	post, err := s.postService.GetPost(c.Context(), id, viewerID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(post)
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		Title       string     `json:"title"`
		Text        string     `json:"text"`
		ImageURL    string     `json:"image_url"`
		PubDate     *time.Time `json:"pub_date"`
		IsPublished *bool      `json:"is_published"`
		CategoryID  *uint      `json:"category_id"`
		LocationID  *uint      `json:"location_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	in := service.CreatePostInput{
		UserID:      userID,
		Title:       req.Title,
		Text:        req.Text,
		ImageURL:    req.ImageURL,
		IsPublished: req.IsPublished,
		CategoryID:  req.CategoryID,
		LocationID:  req.LocationID,
	}
	if req.PubDate != nil {
		in.PubDate = *req.PubDate
	}

	post, err := s.postService.CreatePost(c.Context(), in)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// UpdatePost handles PUT /api/posts/:id
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := c.Locals("userID").(uint)

	var req struct {
		Title       string     `json:"title"`
		Text        string     `json:"text"`
		ImageURL    *string    `json:"image_url"`
		PubDate     *time.Time `json:"pub_date"`
		IsPublished *bool      `json:"is_published"`
		CategoryID  *uint      `json:"category_id"`
		LocationID  *uint      `json:"location_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.UpdatePost(c.Context(), service.UpdatePostInput{
		UserID:      userID,
		PostID:      id,
		Title:       req.Title,
		Text:        req.Text,
		ImageURL:    req.ImageURL,
		PubDate:     req.PubDate,
		IsPublished: req.IsPublished,
		CategoryID:  req.CategoryID,
		LocationID:  req.LocationID,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := c.Locals("userID").(uint)

	if err := s.postService.DeletePost(c.Context(), service.DeletePostInput{
		UserID: userID,
		PostID: id,
	}); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Post deleted"})
}
