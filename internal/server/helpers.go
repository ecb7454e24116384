package server

import (
	"errors"
	"log/slog"
	"strconv"

	"postboard/internal/middleware"
	"postboard/internal/models"
	"postboard/internal/service"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

const (
	msgInvalidBody   = "Invalid request body"
	msgEmailTaken    = "Email already exists"
	msgUserNotFound  = "User not found"
	msgPostNotFound  = "Post not found"
	msgInvalidUserID = "Invalid user ID"
	msgInvalidPostID = "Invalid post ID"
)

// parseID extracts the "id" route parameter as a positive uint.
// On failure it writes a 400 JSON response with message and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx, message string) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest, message,
			models.NewBadRequestError(message))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// parseBody decodes the JSON body into out, writing a 400 on failure.
func (s *Server) parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest, msgInvalidBody,
			models.NewBadRequestError(msgInvalidBody))
		return errResponseWritten
	}
	return nil
}

// failure names the client messages used when an operation fails.
type failure struct {
	operation string
	notFound  string
	internal  string
}

// respondError translates a service error into the operation's status and
// message. Internal errors are logged with their cause; the body only ever
// carries the generic message.
func (s *Server) respondError(c *fiber.Ctx, err error, f failure) error {
	code := models.ErrorCode(err)
	middleware.HandlerErrors.WithLabelValues(f.operation, code).Inc()

	switch code {
	case models.CodeBadRequest:
		var appErr *models.AppError
		message := msgInvalidBody
		if errors.As(err, &appErr) {
			message = appErr.Message
		}
		return models.RespondWithError(c, fiber.StatusBadRequest, message, err)
	case models.CodeDuplicateKey:
		return models.RespondWithError(c, fiber.StatusBadRequest, msgEmailTaken, err)
	case models.CodeForeignKeyViolation:
		return models.RespondWithError(c, fiber.StatusBadRequest, msgUserNotFound, err)
	case models.CodeNotFound:
		return models.RespondWithError(c, fiber.StatusNotFound, f.notFound, err)
	default:
		middleware.Logger.ErrorContext(c.UserContext(), f.internal,
			slog.String("operation", f.operation),
			slog.String("error", err.Error()),
		)
		return models.RespondWithError(c, fiber.StatusInternalServerError, f.internal, err)
	}
}

func (s *Server) userSvc() *service.UserService {
	if s.userService == nil {
		s.userService = service.NewUserService(s.userRepo)
	}
	return s.userService
}

func (s *Server) postSvc() *service.PostService {
	if s.postService == nil {
		s.postService = service.NewPostService(s.postRepo)
	}
	return s.postService
}
