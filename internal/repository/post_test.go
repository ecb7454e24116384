package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"postboard/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const selectUserByID = `SELECT * FROM "User" WHERE "User"."id" = $1 ORDER BY "User"."id" LIMIT $2`

func TestPostRepository_Create_Mock(t *testing.T) {
	tests := []struct {
		name         string
		mockBehavior func(mock sqlmock.Sqlmock)
		wantCode     string
	}{
		{
			name: "Unknown author",
			mockBehavior: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(regexp.QuoteMeta(selectUserByID)).
					WithArgs(42, 1).
					WillReturnRows(sqlmock.NewRows([]string{"id", "email"}))
				mock.ExpectRollback()
			},
			wantCode: models.CodeForeignKeyViolation,
		},
		{
			name: "Store foreign key violation",
			mockBehavior: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(regexp.QuoteMeta(selectUserByID)).
					WithArgs(42, 1).
					WillReturnRows(sqlmock.NewRows([]string{"id", "email"}).AddRow(42, "a@x.com"))
				mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "Post"`)).
					WillReturnError(&pgconn.PgError{Code: "23503", Message: `insert or update on table "Post" violates foreign key constraint "fk_User_posts"`})
				mock.ExpectRollback()
			},
			wantCode: models.CodeForeignKeyViolation,
		},
		{
			name: "Success",
			mockBehavior: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(regexp.QuoteMeta(selectUserByID)).
					WithArgs(42, 1).
					WillReturnRows(sqlmock.NewRows([]string{"id", "email"}).AddRow(42, "a@x.com"))
				mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "Post"`)).
					WillReturnRows(sqlmock.NewRows([]string{"id", "published"}).AddRow(3, false))
				mock.ExpectCommit()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := setupMockDB(t)
			repo := NewPostRepository(db)
			tt.mockBehavior(mock)

			post := &models.Post{Title: "T", AuthorID: 42}
			err := repo.Create(context.Background(), post)

			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, models.ErrorCode(err))
				assert.Nil(t, post.Author)
			} else {
				require.NoError(t, err)
				assert.Equal(t, uint(3), post.ID)
				require.NotNil(t, post.Author)
				assert.Equal(t, "a@x.com", post.Author.Email)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostRepository_Delete_Mock(t *testing.T) {
	tests := []struct {
		name     string
		result   func(mock sqlmock.Sqlmock)
		wantCode string
	}{
		{
			name: "Success",
			result: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "Post" WHERE "Post"."id" = $1`)).
					WithArgs(9).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "Not found",
			result: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "Post" WHERE "Post"."id" = $1`)).
					WithArgs(9).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantCode: models.CodeNotFound,
		},
		{
			name: "Database error",
			result: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "Post" WHERE "Post"."id" = $1`)).
					WithArgs(9).
					WillReturnError(errors.New("connection refused"))
			},
			wantCode: models.CodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := setupMockDB(t)
			repo := NewPostRepository(db)

			mock.ExpectBegin()
			tt.result(mock)
			if tt.wantCode == "" || tt.wantCode == models.CodeNotFound {
				mock.ExpectCommit()
			} else {
				mock.ExpectRollback()
			}

			err := repo.Delete(context.Background(), 9)
			if tt.wantCode == "" {
				assert.NoError(t, err)
			} else {
				assert.Equal(t, tt.wantCode, models.ErrorCode(err))
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostRepository_SQLite(t *testing.T) {
	ctx := context.Background()

	t.Run("example scenario", func(t *testing.T) {
		db := setupSQLiteDB(t)
		users := NewUserRepository(db)
		posts := NewPostRepository(db)

		user := &models.User{Email: "a@x.com"}
		require.NoError(t, users.Create(ctx, user))
		assert.Equal(t, uint(1), user.ID)

		post := &models.Post{Title: "T", AuthorID: 1}
		require.NoError(t, posts.Create(ctx, post))
		assert.Equal(t, uint(1), post.ID)
		assert.False(t, post.Published)
		require.NotNil(t, post.Author)
		assert.Equal(t, "a@x.com", post.Author.Email)

		require.NoError(t, users.Delete(ctx, 1))

		list, err := posts.List(ctx)
		require.NoError(t, err)
		assert.NotNil(t, list)
		assert.Empty(t, list)
	})

	t.Run("create with unknown author", func(t *testing.T) {
		posts := NewPostRepository(setupSQLiteDB(t))
		for _, authorID := range []uint{1, 42, 9999} {
			err := posts.Create(ctx, &models.Post{Title: "T", AuthorID: authorID})
			assert.Equal(t, models.CodeForeignKeyViolation, models.ErrorCode(err))
		}
	})

	t.Run("list attaches author", func(t *testing.T) {
		db := setupSQLiteDB(t)
		users := NewUserRepository(db)
		posts := NewPostRepository(db)

		user := &models.User{Email: "a@x.com", Name: strPtr("A")}
		require.NoError(t, users.Create(ctx, user))
		require.NoError(t, posts.Create(ctx, &models.Post{Title: "first", Content: strPtr("body"), Published: true, AuthorID: user.ID}))
		require.NoError(t, posts.Create(ctx, &models.Post{Title: "second", AuthorID: user.ID}))

		list, err := posts.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "first", list[0].Title)
		assert.True(t, list[0].Published)
		assert.Equal(t, "body", *list[0].Content)
		assert.Nil(t, list[1].Content)
		for _, p := range list {
			require.NotNil(t, p.Author)
			assert.Equal(t, user.ID, p.Author.ID)
		}
	})

	t.Run("update keeps omitted fields", func(t *testing.T) {
		db := setupSQLiteDB(t)
		users := NewUserRepository(db)
		posts := NewPostRepository(db)

		user := &models.User{Email: "a@x.com"}
		require.NoError(t, users.Create(ctx, user))
		post := &models.Post{Title: "T", Content: strPtr("hello"), AuthorID: user.ID}
		require.NoError(t, posts.Create(ctx, post))

		updated, err := posts.Update(ctx, post.ID, map[string]interface{}{"title": "T2"})
		require.NoError(t, err)
		assert.Equal(t, "T2", updated.Title)
		assert.Equal(t, user.ID, updated.AuthorID)
		assert.Equal(t, "hello", *updated.Content)
		require.NotNil(t, updated.Author)

		updated, err = posts.Update(ctx, post.ID, map[string]interface{}{"content": ""})
		require.NoError(t, err)
		require.NotNil(t, updated.Content)
		assert.Equal(t, "", *updated.Content)

		updated, err = posts.Update(ctx, post.ID, map[string]interface{}{"content": nil, "published": true})
		require.NoError(t, err)
		assert.Nil(t, updated.Content)
		assert.True(t, updated.Published)
	})

	t.Run("update reassigns author", func(t *testing.T) {
		db := setupSQLiteDB(t)
		users := NewUserRepository(db)
		posts := NewPostRepository(db)

		a := &models.User{Email: "a@x.com"}
		b := &models.User{Email: "b@x.com"}
		require.NoError(t, users.Create(ctx, a))
		require.NoError(t, users.Create(ctx, b))
		post := &models.Post{Title: "T", AuthorID: a.ID}
		require.NoError(t, posts.Create(ctx, post))

		updated, err := posts.Update(ctx, post.ID, map[string]interface{}{"authorId": b.ID})
		require.NoError(t, err)
		assert.Equal(t, b.ID, updated.AuthorID)
		assert.Equal(t, "b@x.com", updated.Author.Email)

		_, err = posts.Update(ctx, post.ID, map[string]interface{}{"authorId": uint(777)})
		assert.Equal(t, models.CodeForeignKeyViolation, models.ErrorCode(err))

		_, err = posts.Update(ctx, 999, map[string]interface{}{"title": "x"})
		assert.Equal(t, models.CodeNotFound, models.ErrorCode(err))
	})

	t.Run("delete", func(t *testing.T) {
		db := setupSQLiteDB(t)
		users := NewUserRepository(db)
		posts := NewPostRepository(db)

		user := &models.User{Email: "a@x.com"}
		require.NoError(t, users.Create(ctx, user))
		post := &models.Post{Title: "T", AuthorID: user.ID}
		require.NoError(t, posts.Create(ctx, post))

		require.NoError(t, posts.Delete(ctx, post.ID))
		assert.Equal(t, models.CodeNotFound, models.ErrorCode(posts.Delete(ctx, post.ID)))
	})
}
