package repository

import (
	"context"
	"errors"

	"postboard/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	List(ctx context.Context) ([]models.Post, error)
	Create(ctx context.Context, post *models.Post) error
	Update(ctx context.Context, id uint, changes map[string]interface{}) (*models.Post, error)
	Delete(ctx context.Context, id uint) error
}

type postRepository struct {
	db    *gorm.DB
	instr instrumentation
}

// NewPostRepository returns a new PostRepository implementation.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db, instr: newInstrumentation(postTable)}
}

func (r *postRepository) List(ctx context.Context) (posts []models.Post, err error) {
	ctx, finish := r.instr.start(ctx, r.db, "list")
	defer finish(&err)

	posts = []models.Post{}
	if err := r.db.WithContext(ctx).Preload("Author").Scopes(orderByID).Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// findAuthor loads the referenced user inside tx, reporting a missing row as a
// foreign key violation.
func findAuthor(tx *gorm.DB, authorID interface{}) (*models.User, error) {
	var author models.User
	if err := tx.First(&author, authorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewForeignKeyError(userTable, authorID, nil)
		}
		return nil, err
	}
	return &author, nil
}

// Create inserts post after checking its author exists. The store's foreign
// key still decides races with a concurrent user delete.
func (r *postRepository) Create(ctx context.Context, post *models.Post) (err error) {
	ctx, finish := r.instr.start(ctx, r.db, "create")
	defer finish(&err)

	post.Author = nil
	var author *models.User
	txErr := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		a, err := findAuthor(tx, post.AuthorID)
		if err != nil {
			return err
		}
		author = a
		return tx.Create(post).Error
	})
	if txErr != nil {
		if isForeignKeyError(txErr) && !models.IsCode(txErr, models.CodeForeignKeyViolation) {
			return models.NewForeignKeyError(userTable, post.AuthorID, txErr)
		}
		return classify(txErr, postTable, post.ID)
	}
	post.Author = author

	r.instr.log.LogCreate(ctx, map[string]interface{}{"id": post.ID, "authorId": post.AuthorID})
	return nil
}

func (r *postRepository) Update(ctx context.Context, id uint, changes map[string]interface{}) (post *models.Post, err error) {
	ctx, finish := r.instr.start(ctx, r.db, "update")
	defer finish(&err)

	authorID, authorChanged := changes["authorId"]

	var updated models.Post
	txErr := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Post
		if err := tx.First(&existing, id).Error; err != nil {
			return err
		}
		if authorChanged {
			if _, err := findAuthor(tx, authorID); err != nil {
				return err
			}
		}
		if len(changes) > 0 {
			if err := tx.Model(&existing).Updates(changes).Error; err != nil {
				return err
			}
		}
		return tx.Preload("Author").First(&updated, id).Error
	})
	if txErr != nil {
		if isForeignKeyError(txErr) && !models.IsCode(txErr, models.CodeForeignKeyViolation) {
			return nil, models.NewForeignKeyError(userTable, authorID, txErr)
		}
		return nil, classify(txErr, postTable, id)
	}

	r.instr.log.LogUpdate(ctx, map[string]interface{}{"id": id, "fields": len(changes)})
	return &updated, nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) (err error) {
	ctx, finish := r.instr.start(ctx, r.db, "delete")
	defer finish(&err)

	res := r.db.WithContext(ctx).Delete(&models.Post{}, id)
	if res.Error != nil {
		return classify(res.Error, postTable, id)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError(postTable, id)
	}

	r.instr.log.LogDelete(ctx, map[string]interface{}{"id": id})
	return nil
}
