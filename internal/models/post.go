// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Post represents a blog post in the Blogpad application.
type Post struct {
	ID       uint     `gorm:"primaryKey" json:"id"`
	UserID   uint     `gorm:"not null;index" json:"user_id"`
	User     User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Title    string   `gorm:"not null" json:"title"`
	Content  string   `gorm:"type:text" json:"content"`
	Category string   `gorm:"default:'General'" json:"category"`
	Tags     []string `gorm:"serializer:json" json:"tags"`
	IsPublic bool     `gorm:"default:true" json:"is_public"`
	// Slug is derived from the title plus the creation instant and is
	// globally unique.
	Slug string `gorm:"uniqueIndex;not null" json:"slug"`
	// WordCount is derived from Content at write time and persisted so the
	// ledger can settle word deltas without re-reading content.
	WordCount int `gorm:"default:0" json:"word_count"`
	// LikesCount is not persisted; computed at query time
	LikesCount int `gorm:"->" json:"likes_count"`
	// CommentsCount is not persisted; computed at query time
	CommentsCount int `gorm:"->" json:"comments_count"`
	// Liked indicates whether the current requesting user liked this post (computed)
	Liked     bool           `gorm:"->" json:"liked"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
