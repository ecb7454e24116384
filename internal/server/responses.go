package server

import "postboard/internal/models"

// userResponse always carries posts, even when empty.
type userResponse struct {
	ID    uint           `json:"id"`
	Email string         `json:"email"`
	Name  *string        `json:"name"`
	Posts []postResponse `json:"posts"`
}

// postResponse embeds its author without the author's posts.
type postResponse struct {
	ID        uint            `json:"id"`
	Title     string          `json:"title"`
	Content   *string         `json:"content"`
	Published bool            `json:"published"`
	AuthorID  uint            `json:"authorId"`
	Author    *authorResponse `json:"author,omitempty"`
}

type authorResponse struct {
	ID    uint    `json:"id"`
	Email string  `json:"email"`
	Name  *string `json:"name"`
}

func newPostResponse(p models.Post) postResponse {
	resp := postResponse{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		Published: p.Published,
		AuthorID:  p.AuthorID,
	}
	if p.Author != nil {
		resp.Author = &authorResponse{ID: p.Author.ID, Email: p.Author.Email, Name: p.Author.Name}
	}
	return resp
}

func newUserResponse(u models.User) userResponse {
	posts := make([]postResponse, 0, len(u.Posts))
	for _, p := range u.Posts {
		p.Author = nil
		posts = append(posts, newPostResponse(p))
	}
	return userResponse{ID: u.ID, Email: u.Email, Name: u.Name, Posts: posts}
}

func newUserList(users []models.User) []userResponse {
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, newUserResponse(u))
	}
	return out
}

func newPostList(posts []models.Post) []postResponse {
	out := make([]postResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, newPostResponse(p))
	}
	return out
}

type messageResponse struct {
	Message string `json:"message"`
}
