package server

import (
	"context"
	"time"

	"postboard/internal/models"
	"postboard/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePostRequest is the body accepted by POST /posts.
type CreatePostRequest struct {
	Title     string  `json:"title" example:"Hello"`
	Content   *string `json:"content" example:"First post"`
	Published *bool   `json:"published" example:"false"`
	AuthorID  uint    `json:"authorId" example:"1"`
}

// UpdatePostRequest is the body accepted by PUT /posts/{id}.
type UpdatePostRequest struct {
	Title     models.Optional[string] `json:"title" swaggertype:"string"`
	Content   models.Optional[string] `json:"content" swaggertype:"string"`
	Published models.Optional[bool]   `json:"published" swaggertype:"boolean"`
	AuthorID  models.Optional[uint]   `json:"authorId" swaggertype:"integer"`
}

var (
	listPostsFailure  = failure{operation: "list_posts", notFound: msgPostNotFound, internal: "Failed to fetch posts"}
	createPostFailure = failure{operation: "create_post", notFound: msgPostNotFound, internal: "Failed to create post"}
	updatePostFailure = failure{operation: "update_post", notFound: msgPostNotFound, internal: "Failed to update post"}
	deletePostFailure = failure{operation: "delete_post", notFound: msgPostNotFound, internal: "Failed to delete post"}
)

// GetPosts handles GET /posts
// @Summary List posts
// @Description Get every post with its author attached
// @Tags posts
// @Produce json
// @Success 200 {array} postResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /posts [get]
func (s *Server) GetPosts(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	posts, err := s.postSvc().ListPosts(ctx)
	if err != nil {
		return s.respondError(c, err, listPostsFailure)
	}

	return c.JSON(newPostList(posts))
}

// CreatePost handles POST /posts
// @Summary Create post
// @Description Create a post for an existing author
// @Tags posts
// @Accept json
// @Produce json
// @Param request body CreatePostRequest true "Post to create"
// @Success 201 {object} postResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /posts [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req CreatePostRequest
	if err := s.parseBody(c, &req); err != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	post, err := s.postSvc().CreatePost(ctx, service.CreatePostInput{
		Title:     req.Title,
		Content:   req.Content,
		Published: req.Published,
		AuthorID:  req.AuthorID,
	})
	if err != nil {
		return s.respondError(c, err, createPostFailure)
	}

	return c.Status(fiber.StatusCreated).JSON(newPostResponse(*post))
}

// UpdatePost handles PUT /posts/:id
// @Summary Update post
// @Description Merge the supplied fields into the post
// @Tags posts
// @Accept json
// @Produce json
// @Param id path int true "Post ID"
// @Param request body UpdatePostRequest true "Fields to change"
// @Success 200 {object} postResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /posts/{id} [put]
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, msgInvalidPostID)
	if err != nil {
		return nil
	}

	var req UpdatePostRequest
	if err := s.parseBody(c, &req); err != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	post, err := s.postSvc().UpdatePost(ctx, id, service.UpdatePostInput{
		Title:     req.Title,
		Content:   req.Content,
		Published: req.Published,
		AuthorID:  req.AuthorID,
	})
	if err != nil {
		return s.respondError(c, err, updatePostFailure)
	}

	return c.JSON(newPostResponse(*post))
}

// DeletePost handles DELETE /posts/:id
// @Summary Delete post
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} messageResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /posts/{id} [delete]
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, msgInvalidPostID)
	if err != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	if err := s.postSvc().DeletePost(ctx, id); err != nil {
		return s.respondError(c, err, deletePostFailure)
	}

	return c.JSON(messageResponse{Message: "Post deleted successfully"})
}
