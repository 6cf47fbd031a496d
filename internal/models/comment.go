package models

import "time"

// Comment is a short text attached to a post. Deleting the post cascades to
// its comments. CreatedAt is set once on insert and never updated.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Text      string    `gorm:"not null" json:"text"`
	PostID    uint      `gorm:"not null;index" json:"post_id"`
	Post      *Post     `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	AuthorID  uint      `gorm:"not null;index" json:"author_id"`
	Author    User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`
	CreatedAt time.Time `gorm:"<-:create" json:"created_at"`
}

// OwnedBy reports whether the given viewer may modify or delete the comment.
func (c *Comment) OwnedBy(viewerID uint) bool {
	return viewerID != 0 && c.AuthorID == viewerID
}
