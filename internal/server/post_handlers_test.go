package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"postboard/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockPostRepository is a mock of the PostRepository interface
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) List(ctx context.Context) ([]models.Post, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Post), args.Error(1)
}

func (m *MockPostRepository) Create(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	if args.Error(0) == nil {
		post.ID = 1
		post.Author = &models.User{ID: post.AuthorID, Email: "a@x.com"}
	}
	return args.Error(0)
}

func (m *MockPostRepository) Update(ctx context.Context, id uint, changes map[string]interface{}) (*models.Post, error) {
	args := m.Called(ctx, id, changes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newPostTestApp(repo *MockPostRepository) *fiber.App {
	app := fiber.New()
	s := &Server{postRepo: repo}
	app.Get("/posts", s.GetPosts)
	app.Post("/posts", s.CreatePost)
	app.Put("/posts/:id", s.UpdatePost)
	app.Delete("/posts/:id", s.DeletePost)
	return app
}

func TestGetPosts(t *testing.T) {
	repo := new(MockPostRepository)
	app := newPostTestApp(repo)
	repo.On("List", mock.Anything).Return([]models.Post{
		{ID: 1, Title: "T", AuthorID: 1, Author: &models.User{ID: 1, Email: "a@x.com"}},
	}, nil)

	status, raw := doJSON(t, app, http.MethodGet, "/posts", "")
	assert.Equal(t, http.StatusOK, status)

	var posts []map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &posts))
	require.Len(t, posts, 1)
	author := posts[0]["author"].(map[string]interface{})
	assert.Equal(t, "a@x.com", author["email"])
	assert.NotContains(t, author, "posts")
	assert.Equal(t, float64(1), posts[0]["authorId"])
	assert.Equal(t, false, posts[0]["published"])
	assert.Nil(t, posts[0]["content"])
}

func TestGetPosts_Empty(t *testing.T) {
	repo := new(MockPostRepository)
	app := newPostTestApp(repo)
	repo.On("List", mock.Anything).Return([]models.Post{}, nil)

	status, raw := doJSON(t, app, http.MethodGet, "/posts", "")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestCreatePost(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		mockSetup      func(repo *MockPostRepository)
		expectedStatus int
		expectedError  string
	}{
		{
			name: "Success",
			body: `{"title":"T","authorId":1}`,
			mockSetup: func(repo *MockPostRepository) {
				repo.On("Create", mock.Anything, mock.MatchedBy(func(p *models.Post) bool {
					return p.Title == "T" && p.AuthorID == 1 && !p.Published && p.Content == nil
				})).Return(nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Missing title",
			body:           `{"authorId":1}`,
			mockSetup:      func(repo *MockPostRepository) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Title and authorId are required",
		},
		{
			name:           "Missing author",
			body:           `{"title":"T"}`,
			mockSetup:      func(repo *MockPostRepository) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Title and authorId are required",
		},
		{
			name:           "Author of wrong type",
			body:           `{"title":"T","authorId":"one"}`,
			mockSetup:      func(repo *MockPostRepository) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Invalid request body",
		},
		{
			name: "Unknown author",
			body: `{"title":"T","authorId":999}`,
			mockSetup: func(repo *MockPostRepository) {
				repo.On("Create", mock.Anything, mock.Anything).
					Return(models.NewForeignKeyError("User", uint(999), nil))
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "User not found",
		},
		{
			name: "Internal failure",
			body: `{"title":"T","authorId":1}`,
			mockSetup: func(repo *MockPostRepository) {
				repo.On("Create", mock.Anything, mock.Anything).
					Return(models.NewInternalError(errors.New("boom")))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "Failed to create post",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockPostRepository)
			app := newPostTestApp(repo)
			tt.mockSetup(repo)

			status, raw := doJSON(t, app, http.MethodPost, "/posts", tt.body)
			assert.Equal(t, tt.expectedStatus, status)
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, decodeError(t, raw).Error)
			} else {
				var post map[string]interface{}
				require.NoError(t, json.Unmarshal(raw, &post))
				assert.Equal(t, float64(1), post["id"])
				assert.Equal(t, false, post["published"])
				assert.NotNil(t, post["author"])
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestUpdatePost(t *testing.T) {
	updated := &models.Post{ID: 3, Title: "T", AuthorID: 1, Author: &models.User{ID: 1, Email: "a@x.com"}}

	tests := []struct {
		name           string
		path           string
		body           string
		mockSetup      func(repo *MockPostRepository)
		expectedStatus int
		expectedError  string
	}{
		{
			name: "Omitted author is kept",
			path: "/posts/3",
			body: `{"content":"","published":true}`,
			mockSetup: func(repo *MockPostRepository) {
				repo.On("Update", mock.Anything, uint(3), map[string]interface{}{"content": "", "published": true}).
					Return(updated, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "Null content clears",
			path: "/posts/3",
			body: `{"content":null}`,
			mockSetup: func(repo *MockPostRepository) {
				repo.On("Update", mock.Anything, uint(3), map[string]interface{}{"content": nil}).
					Return(updated, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Null published",
			path:           "/posts/3",
			body:           `{"published":null}`,
			mockSetup:      func(repo *MockPostRepository) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "published must be a boolean",
		},
		{
			name:           "Published of wrong type",
			path:           "/posts/3",
			body:           `{"published":"yes"}`,
			mockSetup:      func(repo *MockPostRepository) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Invalid request body",
		},
		{
			name:           "Invalid id",
			path:           "/posts/x1",
			body:           `{}`,
			mockSetup:      func(repo *MockPostRepository) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Invalid post ID",
		},
		{
			name: "Unknown author",
			path: "/posts/3",
			body: `{"authorId":42}`,
			mockSetup: func(repo *MockPostRepository) {
				repo.On("Update", mock.Anything, uint(3), map[string]interface{}{"authorId": uint(42)}).
					Return(nil, models.NewForeignKeyError("User", uint(42), nil))
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "User not found",
		},
		{
			name: "Not found",
			path: "/posts/8",
			body: `{"title":"New"}`,
			mockSetup: func(repo *MockPostRepository) {
				repo.On("Update", mock.Anything, uint(8), mock.Anything).
					Return(nil, models.NewNotFoundError("Post", 8))
			},
			expectedStatus: http.StatusNotFound,
			expectedError:  "Post not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockPostRepository)
			app := newPostTestApp(repo)
			tt.mockSetup(repo)

			status, raw := doJSON(t, app, http.MethodPut, tt.path, tt.body)
			assert.Equal(t, tt.expectedStatus, status)
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, decodeError(t, raw).Error)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestDeletePost(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		mockSetup      func(repo *MockPostRepository)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "Success",
			path: "/posts/1",
			mockSetup: func(repo *MockPostRepository) {
				repo.On("Delete", mock.Anything, uint(1)).Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"message":"Post deleted successfully"}`,
		},
		{
			name: "Not found",
			path: "/posts/2",
			mockSetup: func(repo *MockPostRepository) {
				repo.On("Delete", mock.Anything, uint(2)).Return(models.NewNotFoundError("Post", 2))
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"error":"Post not found","code":"NOT_FOUND"}`,
		},
		{
			name: "Internal failure",
			path: "/posts/3",
			mockSetup: func(repo *MockPostRepository) {
				repo.On("Delete", mock.Anything, uint(3)).Return(errors.New("connection reset"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"Failed to delete post","code":"INTERNAL_ERROR"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockPostRepository)
			app := newPostTestApp(repo)
			tt.mockSetup(repo)

			status, raw := doJSON(t, app, http.MethodDelete, tt.path, "")
			assert.Equal(t, tt.expectedStatus, status)
			assert.JSONEq(t, tt.expectedBody, string(raw))
			repo.AssertExpectations(t)
		})
	}
}
