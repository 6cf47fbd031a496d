package server

import (
	"blogicum/internal/models"
	"blogicum/internal/service"
	"blogicum/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// GetUserProfile handles GET /api/users/:username
// The profile's post list widens to drafts and scheduled posts when the
// viewer is the profile owner.
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	username := c.Params("username")
	viewerID, _ := s.optionalUserID(c)

	profile, err := s.userService.GetProfile(c.Context(), username, viewerID, parsePage(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(profile)
}

// GetMyProfile handles GET /api/profile
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	user, err := s.userService.GetUserByID(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// UpdateMyProfile handles PUT /api/profile
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		FirstName *string `json:"first_name"`
		LastName  *string `json:"last_name"`
		Email     string  `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.Email != "" {
		if err := validation.ValidateEmail(req.Email); err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError(err.Error()))
		}
	}

	user, err := s.userService.UpdateProfile(c.Context(), service.UpdateProfileInput{
		UserID:    userID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// PromoteToAdmin handles POST /api/admin/users/:id/promote
func (s *Server) PromoteToAdmin(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.userService.SetAdmin(c.Context(), id, true)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// DemoteFromAdmin handles POST /api/admin/users/:id/demote
func (s *Server) DemoteFromAdmin(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.userService.SetAdmin(c.Context(), id, false)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}
