package models

import "time"

// Category is an admin-managed classification tag for posts.
type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Slug        string    `gorm:"uniqueIndex;not null" json:"slug"`
	IsPublished bool      `gorm:"not null;default:true" json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// VisibleTo reports whether the category may be shown to any viewer.
// An unpublished category is a not-found condition, even for admins
// browsing the public surface.
func (c *Category) VisibleTo() bool {
	return c.IsPublished
}
