package services

import (
	"errors"
	"fmt"
	"strings"

	"conexa/app/models"
)

var (
	// ErrForbidden is returned when a user mutates something they do not own.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalid wraps every input validation failure.
	ErrInvalid = errors.New("invalid input")
	// ErrUnauthorized is returned for bad credentials or unknown tokens.
	ErrUnauthorized = errors.New("unauthorized")
)

// PostInput is the user-editable part of a post.
type PostInput struct {
	Title   string  `json:"title" validate:"required,max=200"`
	Content string  `json:"content" validate:"required"`
	TopicID *string `json:"topicId,omitempty"`
}

// CommentInput is the user-editable part of a comment.
type CommentInput struct {
	Content string `json:"content" validate:"required,max=1000"`
}

func (in *PostInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	if in.TopicID != nil {
		topic := strings.TrimSpace(*in.TopicID)
		if topic == "" || topic == models.GeneralTopic {
			in.TopicID = nil
		} else {
			in.TopicID = &topic
		}
	}
}

func (in *CommentInput) normalize() {
	in.Content = strings.TrimSpace(in.Content)
}

// check runs the shared model validator and tags failures with ErrInvalid.
func check(v interface{}) error {
	if err := models.Validator().Struct(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}
