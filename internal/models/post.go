package models

import "time"

// Post represents a blog entry. Category and Location are nullable: deleting
// either nullifies the reference while the post survives. CommentCount is
// computed by a correlated subquery at read time and is never persisted, so
// it cannot go stale under concurrent comment writers.
type Post struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Text        string    `gorm:"type:text;not null" json:"text"`
	ImageURL    string    `json:"image_url,omitempty"`
	PubDate     time.Time `gorm:"not null;index" json:"pub_date"`
	IsPublished bool      `gorm:"not null;default:true" json:"is_published"`
	AuthorID    uint      `gorm:"not null;index" json:"author_id"`
	Author      User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`
	CategoryID  *uint     `gorm:"index" json:"category_id,omitempty"`
	Category    *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"category,omitempty"`
	LocationID  *uint     `gorm:"index" json:"location_id,omitempty"`
	Location    *Location `gorm:"foreignKey:LocationID;constraint:OnDelete:SET NULL" json:"location,omitempty"`
	// CommentCount is not persisted; computed at query time
	CommentCount int       `gorm:"->" json:"comment_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// VisibleTo reports whether the post may be shown to the given viewer at the
// given instant. A post is publicly visible when it is published, belongs to
// a published category, and its publication date is not in the future.
// Authors always see their own posts. Callers must surface an invisible post
// as not-found, never as forbidden.
func (p *Post) VisibleTo(viewerID uint, now time.Time) bool {
	if viewerID != 0 && p.AuthorID == viewerID {
		return true
	}
	return p.IsPublished &&
		p.Category != nil && p.Category.IsPublished &&
		!p.PubDate.After(now)
}

// OwnedBy reports whether the given viewer may modify or delete the post.
func (p *Post) OwnedBy(viewerID uint) bool {
	return viewerID != 0 && p.AuthorID == viewerID
}
