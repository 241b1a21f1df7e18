package services

import (
	"fmt"
	"time"

	"conexa/app/models"
	"conexa/app/repositories"
)

// CommentService handles business logic for comments
type CommentService struct {
	commentRepo repositories.CommentRepository
	postRepo    repositories.PostRepository
	now         func() time.Time
}

// NewCommentService creates a new CommentService
func NewCommentService(commentRepo repositories.CommentRepository, postRepo repositories.PostRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		now:         time.Now,
	}
}

// ListPostComments retrieves all comments for a post in creation order
func (s *CommentService) ListPostComments(postID string) ([]*models.Comment, error) {
	if _, err := s.postRepo.GetByID(postID); err != nil {
		return nil, err
	}
	return s.commentRepo.ListByPost(postID)
}

// CreateComment adds a comment written by author to postID
func (s *CommentService) CreateComment(author *models.User, postID string, in CommentInput) (*models.Comment, error) {
	in.normalize()
	if err := check(&in); err != nil {
		return nil, err
	}

	post, err := s.postRepo.GetByID(postID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		AuthorID:  author.ID,
		Author:    author.Ref(),
		Content:   in.Content,
		CreatedAt: s.now(),
	}
	if err := comment.SetPost(post); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	if err := s.commentRepo.Create(comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// UpdateComment replaces the content of a comment owned by userID
func (s *CommentService) UpdateComment(userID, id string, in CommentInput) (*models.Comment, error) {
	in.normalize()
	if err := check(&in); err != nil {
		return nil, err
	}

	existing, err := s.commentRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if existing.AuthorID != userID {
		return nil, ErrForbidden
	}

	existing.Content = in.Content
	now := s.now()
	existing.UpdatedAt = &now
	if err := s.commentRepo.Update(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// DeleteComment deletes a comment owned by userID
func (s *CommentService) DeleteComment(userID, id string) error {
	existing, err := s.commentRepo.GetByID(id)
	if err != nil {
		return err
	}
	if existing.AuthorID != userID {
		return ErrForbidden
	}
	return s.commentRepo.Delete(id)
}
