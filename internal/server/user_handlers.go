package server

import (
	"context"
	"time"

	"postboard/internal/models"
	"postboard/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateUserRequest is the body accepted by POST /users.
type CreateUserRequest struct {
	Email string  `json:"email" example:"alice@example.com"`
	Name  *string `json:"name" example:"Alice"`
}

// UpdateUserRequest is the body accepted by PUT /users/{id}. Absent or empty
// fields leave the stored value unchanged.
type UpdateUserRequest struct {
	Email models.Optional[string] `json:"email" swaggertype:"string"`
	Name  models.Optional[string] `json:"name" swaggertype:"string"`
}

var (
	listUsersFailure  = failure{operation: "list_users", notFound: msgUserNotFound, internal: "Failed to fetch users"}
	createUserFailure = failure{operation: "create_user", notFound: msgUserNotFound, internal: "Failed to create user"}
	updateUserFailure = failure{operation: "update_user", notFound: msgUserNotFound, internal: "Failed to update user"}
	deleteUserFailure = failure{operation: "delete_user", notFound: msgUserNotFound, internal: "Failed to delete user"}
)

// GetUsers handles GET /users
// @Summary List users
// @Description Get every user with their posts attached
// @Tags users
// @Produce json
// @Success 200 {array} userResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /users [get]
func (s *Server) GetUsers(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	users, err := s.userSvc().ListUsers(ctx)
	if err != nil {
		return s.respondError(c, err, listUsersFailure)
	}

	return c.JSON(newUserList(users))
}

// CreateUser handles POST /users
// @Summary Create user
// @Description Create a user; email must be unique
// @Tags users
// @Accept json
// @Produce json
// @Param request body CreateUserRequest true "User to create"
// @Success 201 {object} userResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /users [post]
func (s *Server) CreateUser(c *fiber.Ctx) error {
	var req CreateUserRequest
	if err := s.parseBody(c, &req); err != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	user, err := s.userSvc().CreateUser(ctx, service.CreateUserInput{
		Email: req.Email,
		Name:  req.Name,
	})
	if err != nil {
		return s.respondError(c, err, createUserFailure)
	}

	return c.Status(fiber.StatusCreated).JSON(newUserResponse(*user))
}

// UpdateUser handles PUT /users/:id
// @Summary Update user
// @Description Merge the supplied non-empty fields into the user
// @Tags users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body UpdateUserRequest true "Fields to change"
// @Success 200 {object} userResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /users/{id} [put]
func (s *Server) UpdateUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, msgInvalidUserID)
	if err != nil {
		return nil
	}

	var req UpdateUserRequest
	if err := s.parseBody(c, &req); err != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	user, err := s.userSvc().UpdateUser(ctx, id, service.UpdateUserInput{
		Email: req.Email,
		Name:  req.Name,
	})
	if err != nil {
		return s.respondError(c, err, updateUserFailure)
	}

	return c.JSON(newUserResponse(*user))
}

// DeleteUser handles DELETE /users/:id
// @Summary Delete user
// @Description Delete a user and every post they authored
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} messageResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /users/{id} [delete]
func (s *Server) DeleteUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, msgInvalidUserID)
	if err != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	if err := s.userSvc().DeleteUser(ctx, id); err != nil {
		return s.respondError(c, err, deleteUserFailure)
	}

	return c.JSON(messageResponse{Message: "User deleted successfully"})
}
