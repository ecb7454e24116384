package models

// Post is a piece of content written by a user.
type Post struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	Title     string  `gorm:"not null" json:"title"`
	Content   *string `json:"content"`
	Published bool    `gorm:"not null;default:false" json:"published"`
	AuthorID  uint    `gorm:"column:authorId;not null;index" json:"authorId"`
	Author    *User   `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

// TableName keeps the table name used by the existing schema.
func (Post) TableName() string {
	return "Post"
}
