package models

import (
	"errors"
	"time"
)

var validate = newValidator()

// Validate checks if the post meets all validation requirements
func (p *Post) Validate() error {
	if err := validate.Struct(p); err != nil {
		return err
	}

	if p.CreatedAt.IsZero() {
		return errors.New("created_at cannot be zero")
	}

	return nil
}

// BeforeCreate sets up any necessary fields before creation
func (p *Post) BeforeCreate() {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
}

// IsOwnedBy reports whether user authored the post. It drives what the UI
// renders; the backend enforces ownership on its own.
func (p *Post) IsOwnedBy(user *SessionUser) bool {
	return user != nil && p != nil && user.ID == p.AuthorID
}

// TopicSelector returns the forum selector the post belongs to.
func (p *Post) TopicSelector() string {
	if p.TopicID == nil || *p.TopicID == "" {
		return GeneralTopic
	}
	return *p.TopicID
}

// TopicTitle returns the forum title shown in feeds.
func (p *Post) TopicTitle() string {
	if p.Topic == nil || p.Topic.Title == "" {
		return "General"
	}
	return p.Topic.Title
}

// Touch stamps the update time.
func (p *Post) Touch(now time.Time) {
	p.UpdatedAt = &now
}
