package repository

import (
	"context"
	"errors"

	"postboard/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	// List returns every user with its posts attached.
	List(ctx context.Context) ([]models.User, error)
	// Create inserts user and fills its generated id.
	Create(ctx context.Context, user *models.User) error
	// Update applies changes (column name to value) to the user with id.
	Update(ctx context.Context, id uint, changes map[string]interface{}) (*models.User, error)
	// Delete removes the user with id and all of its posts.
	Delete(ctx context.Context, id uint) error
}

type userRepository struct {
	db    *gorm.DB
	instr instrumentation
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db, instr: newInstrumentation(userTable)}
}

func (r *userRepository) List(ctx context.Context) (users []models.User, err error) {
	ctx, finish := r.instr.start(ctx, r.db, "list")
	defer finish(&err)

	users = []models.User{}
	if err := r.db.WithContext(ctx).Preload("Posts", orderByID).Scopes(orderByID).Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	for i := range users {
		if users[i].Posts == nil {
			users[i].Posts = []models.Post{}
		}
	}
	return users, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) (err error) {
	ctx, finish := r.instr.start(ctx, r.db, "create")
	defer finish(&err)

	user.Posts = nil
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return classify(err, userTable, user.Email)
	}
	user.Posts = []models.Post{}

	r.instr.log.LogCreate(ctx, map[string]interface{}{"id": user.ID})
	return nil
}

func (r *userRepository) Update(ctx context.Context, id uint, changes map[string]interface{}) (user *models.User, err error) {
	ctx, finish := r.instr.start(ctx, r.db, "update")
	defer finish(&err)

	var updated models.User
	txErr := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.User
		if err := tx.First(&existing, id).Error; err != nil {
			return err
		}
		if len(changes) > 0 {
			if err := tx.Model(&existing).Updates(changes).Error; err != nil {
				return err
			}
		}
		return tx.Preload("Posts", orderByID).First(&updated, id).Error
	})
	if txErr != nil {
		return nil, classify(txErr, userTable, id)
	}
	if updated.Posts == nil {
		updated.Posts = []models.Post{}
	}

	r.instr.log.LogUpdate(ctx, map[string]interface{}{"id": id, "fields": len(changes)})
	return &updated, nil
}

func (r *userRepository) Delete(ctx context.Context, id uint) (err error) {
	ctx, finish := r.instr.start(ctx, r.db, "delete")
	defer finish(&err)

	var removedPosts int64
	txErr := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where(map[string]interface{}{"authorId": id}).Delete(&models.Post{})
		if res.Error != nil {
			return res.Error
		}
		removedPosts = res.RowsAffected

		res = tx.Delete(&models.User{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if txErr != nil {
		if errors.Is(txErr, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError(userTable, id)
		}
		return classify(txErr, userTable, id)
	}

	r.instr.log.LogDelete(ctx, map[string]interface{}{"id": id, "posts": removedPosts})
	return nil
}
