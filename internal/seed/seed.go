// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"postboard/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

//go:embed fixtures.yml
var defaultFixtures []byte

// Fixtures is the on-disk shape of a seed file.
type Fixtures struct {
	Users []UserFixture `yaml:"users"`
}

type UserFixture struct {
	Email string        `yaml:"email"`
	Name  string        `yaml:"name"`
	Posts []PostFixture `yaml:"posts"`
}

type PostFixture struct {
	Title     string `yaml:"title"`
	Content   string `yaml:"content"`
	Published bool   `yaml:"published"`
}

// Result counts rows created by a seed run. Existing rows are not counted.
type Result struct {
	UsersCreated int
	PostsCreated int
}

// DefaultFixtures returns the fixtures embedded in the binary.
func DefaultFixtures() (*Fixtures, error) {
	return ParseFixtures(defaultFixtures)
}

// LoadFixtures reads fixtures from path.
func LoadFixtures(path string) (*Fixtures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	return ParseFixtures(data)
}

// ParseFixtures decodes YAML fixtures and checks required fields.
func ParseFixtures(data []byte) (*Fixtures, error) {
	var f Fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	for i, u := range f.Users {
		if strings.TrimSpace(u.Email) == "" {
			return nil, fmt.Errorf("fixture user %d: email is required", i)
		}
		for j, p := range u.Posts {
			if strings.TrimSpace(p.Title) == "" {
				return nil, fmt.Errorf("fixture user %s post %d: title is required", u.Email, j)
			}
		}
	}
	return &f, nil
}

// Seeder writes fixture and fake data.
type Seeder struct {
	db  *gorm.DB
	log *slog.Logger
}

// NewSeeder creates a new Seeder bound to db. A nil logger discards output.
func NewSeeder(db *gorm.DB, logger *slog.Logger) *Seeder {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Seeder{db: db, log: logger}
}

// Apply upserts fixture users by email and their posts by (author, title).
// Existing rows are left untouched, so repeated runs are no-ops.
func (s *Seeder) Apply(ctx context.Context, f *Fixtures) (Result, error) {
	var res Result
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, uf := range f.Users {
			user, created, err := upsertUser(tx, uf.Email, optionalString(uf.Name))
			if err != nil {
				return err
			}
			if created {
				res.UsersCreated++
			}

			for _, pf := range uf.Posts {
				created, err := upsertPost(tx, user.ID, pf)
				if err != nil {
					return err
				}
				if created {
					res.PostsCreated++
				}
			}
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	s.log.InfoContext(ctx, "fixtures applied",
		slog.Int("users_created", res.UsersCreated),
		slog.Int("posts_created", res.PostsCreated),
	)
	return res, nil
}

// Fake creates n random users, each with between zero and three posts.
func (s *Seeder) Fake(ctx context.Context, n int) (Result, error) {
	var res Result
	if n <= 0 {
		return res, nil
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := 0; i < n; i++ {
			name := gofakeit.Name()
			user := &models.User{
				Email: strings.ToLower(gofakeit.LetterN(8) + "." + gofakeit.Email()),
				Name:  &name,
			}
			if err := tx.Create(user).Error; err != nil {
				return fmt.Errorf("create fake user: %w", err)
			}
			res.UsersCreated++

			for j := gofakeit.Number(0, 3); j > 0; j-- {
				content := gofakeit.Paragraph(1, 3, 8, " ")
				post := &models.Post{
					Title:     gofakeit.Sentence(5),
					Content:   &content,
					Published: gofakeit.Bool(),
					AuthorID:  user.ID,
				}
				if err := tx.Create(post).Error; err != nil {
					return fmt.Errorf("create fake post: %w", err)
				}
				res.PostsCreated++
			}
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	s.log.InfoContext(ctx, "fake data created",
		slog.Int("users_created", res.UsersCreated),
		slog.Int("posts_created", res.PostsCreated),
	)
	return res, nil
}

func upsertUser(tx *gorm.DB, email string, name *string) (*models.User, bool, error) {
	var user models.User
	err := tx.Where(&models.User{Email: email}).First(&user).Error
	if err == nil {
		return &user, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("lookup user %s: %w", email, err)
	}

	user = models.User{Email: email, Name: name}
	if err := tx.Create(&user).Error; err != nil {
		return nil, false, fmt.Errorf("create user %s: %w", email, err)
	}
	return &user, true, nil
}

func upsertPost(tx *gorm.DB, authorID uint, pf PostFixture) (bool, error) {
	var existing int64
	if err := tx.Model(&models.Post{}).
		Where(map[string]interface{}{"authorId": authorID, "title": pf.Title}).
		Count(&existing).Error; err != nil {
		return false, fmt.Errorf("lookup post %q: %w", pf.Title, err)
	}
	if existing > 0 {
		return false, nil
	}

	post := &models.Post{
		Title:     pf.Title,
		Content:   optionalString(pf.Content),
		Published: pf.Published,
		AuthorID:  authorID,
	}
	if err := tx.Create(post).Error; err != nil {
		return false, fmt.Errorf("create post %q: %w", pf.Title, err)
	}
	return true, nil
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
