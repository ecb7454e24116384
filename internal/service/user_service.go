// Package service applies request rules on top of the repositories.
package service

import (
	"context"

	"postboard/internal/models"
	"postboard/internal/repository"
)

// Client-visible validation messages.
const (
	MsgEmailRequired       = "Email is required"
	MsgTitleAuthorRequired = "Title and authorId are required"
	MsgPublishedNotBoolean = "published must be a boolean"
	MsgAuthorIDNotNumber   = "authorId must be a number"
)

type UserService struct {
	userRepo repository.UserRepository
}

type CreateUserInput struct {
	Email string
	Name  *string
}

// UpdateUserInput carries the fields of a partial user update. Email and
// Name are applied only when supplied as non-empty strings.
type UpdateUserInput struct {
	Email models.Optional[string]
	Name  models.Optional[string]
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.userRepo.List(ctx)
}

func (s *UserService) CreateUser(ctx context.Context, in CreateUserInput) (*models.User, error) {
	if in.Email == "" {
		return nil, models.NewBadRequestError(MsgEmailRequired)
	}

	user := &models.User{
		Email: in.Email,
		Name:  nonEmpty(in.Name),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) UpdateUser(ctx context.Context, id uint, in UpdateUserInput) (*models.User, error) {
	return s.userRepo.Update(ctx, id, in.changes())
}

func (s *UserService) DeleteUser(ctx context.Context, id uint) error {
	return s.userRepo.Delete(ctx, id)
}

func (in UpdateUserInput) changes() map[string]interface{} {
	changes := map[string]interface{}{}
	if v := in.Email.Ptr(); v != nil && *v != "" {
		changes["email"] = *v
	}
	if v := in.Name.Ptr(); v != nil && *v != "" {
		changes["name"] = *v
	}
	return changes
}

// nonEmpty maps nil and "" to nil.
func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}
