package models

import (
	"slices"
	"time"
)

// Like records that a user liked a post.
type Like struct {
	User string `json:"user"`
}

// Comment is a reply on a post. Name and Avatar are copied from the author.
type Comment struct {
	ID        string    `json:"id"`
	User      string    `json:"user"`
	Text      string    `json:"text"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"date"`
}

// Post is a short text published by a user. Likes and Comments are ordered
// most-recent-first.
type Post struct {
	ID        string    `json:"id"`
	User      string    `json:"user"`
	Text      string    `json:"text"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar"`
	Likes     []Like    `json:"likes"`
	Comments  []Comment `json:"comments"`
	CreatedAt time.Time `json:"date"`
}

// LikedBy reports whether userID has liked the post.
func (p *Post) LikedBy(userID string) bool {
	return slices.ContainsFunc(p.Likes, func(l Like) bool { return l.User == userID })
}

// Clone returns a deep copy of the post.
func (p *Post) Clone() *Post {
	c := *p
	c.Likes = append([]Like{}, p.Likes...)
	c.Comments = append([]Comment{}, p.Comments...)
	return &c
}
