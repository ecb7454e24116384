// Package models contains data structures for the application's domain models.
package models

// User is an account that owns zero or more posts.
type User struct {
	ID    uint    `gorm:"primaryKey" json:"id"`
	Email string  `gorm:"uniqueIndex;not null" json:"email"`
	Name  *string `json:"name"`
	Posts []Post  `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"posts,omitempty"`
}

// TableName keeps the table name used by the existing schema.
func (User) TableName() string {
	return "User"
}
