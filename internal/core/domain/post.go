package domain

import (
	"errors"
	"time"
)

// PostStatus represents the publication state of a post.
type PostStatus string

const (
	PostDraft     PostStatus = "draft"
	PostPublished PostStatus = "published"
	PostArchived  PostStatus = "archived"
)

var ErrPostNotFound = errors.New("post not found")
var ErrForbidden = errors.New("access forbidden")

// ValidPostStatus reports whether s is one of the enumerated post statuses.
func ValidPostStatus(s PostStatus) bool {
	return s == PostDraft || s == PostPublished || s == PostArchived
}

// Post is a blog entry authored by a user. Likes holds the set of user ids
// that liked the post; Views counts deduplicated reads.
type Post struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	AuthorID    string     `json:"author_id"`
	Tags        []string   `json:"tags,omitempty"`
	Status      PostStatus `json:"status"`
	Published   bool       `json:"published"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	Views       int64      `json:"views"`
	Likes       []string   `json:"likes,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// LikeCount is the number of users that liked the post.
func (p *Post) LikeCount() int {
	return len(p.Likes)
}

// LikedBy reports whether userID already liked the post.
func (p *Post) LikedBy(userID string) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// MarkPublished flips the post to published and stamps PublishedAt on the
// first publication only, mirroring the first-publish hook of the store.
func (p *Post) MarkPublished(now time.Time) {
	p.Status = PostPublished
	p.Published = true
	if p.PublishedAt == nil {
		p.PublishedAt = &now
	}
}
