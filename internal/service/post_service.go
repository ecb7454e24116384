package service

import (
	"context"

	"postboard/internal/models"
	"postboard/internal/repository"
)

type PostService struct {
	postRepo repository.PostRepository
}

type CreatePostInput struct {
	Title     string
	Content   *string
	Published *bool
	AuthorID  uint
}

// UpdatePostInput carries the fields of a partial post update. Title applies
// only when non-empty; Content, Published and AuthorID apply whenever present.
type UpdatePostInput struct {
	Title     models.Optional[string]
	Content   models.Optional[string]
	Published models.Optional[bool]
	AuthorID  models.Optional[uint]
}

func NewPostService(postRepo repository.PostRepository) *PostService {
	return &PostService{postRepo: postRepo}
}

func (s *PostService) ListPosts(ctx context.Context) ([]models.Post, error) {
	return s.postRepo.List(ctx)
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if in.Title == "" || in.AuthorID == 0 {
		return nil, models.NewBadRequestError(MsgTitleAuthorRequired)
	}

	post := &models.Post{
		Title:    in.Title,
		Content:  nonEmpty(in.Content),
		AuthorID: in.AuthorID,
	}
	if in.Published != nil {
		post.Published = *in.Published
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) UpdatePost(ctx context.Context, id uint, in UpdatePostInput) (*models.Post, error) {
	changes, err := in.changes()
	if err != nil {
		return nil, err
	}
	return s.postRepo.Update(ctx, id, changes)
}

func (s *PostService) DeletePost(ctx context.Context, id uint) error {
	return s.postRepo.Delete(ctx, id)
}

func (in UpdatePostInput) changes() (map[string]interface{}, error) {
	changes := map[string]interface{}{}

	if v := in.Title.Ptr(); v != nil && *v != "" {
		changes["title"] = *v
	}

	// An explicit null clears content.
	if in.Content.Set {
		if in.Content.Null {
			changes["content"] = nil
		} else {
			changes["content"] = in.Content.Value
		}
	}

	if in.Published.Set {
		if in.Published.Null {
			return nil, models.NewBadRequestError(MsgPublishedNotBoolean)
		}
		changes["published"] = in.Published.Value
	}

	if in.AuthorID.Set {
		if in.AuthorID.Null {
			return nil, models.NewBadRequestError(MsgAuthorIDNotNumber)
		}
		changes["authorId"] = in.AuthorID.Value
	}

	return changes, nil
}
