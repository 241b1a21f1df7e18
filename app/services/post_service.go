package services

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"conexa/app/models"
	"conexa/app/repositories"
)

// FeedLimit caps the unfiltered recent feed.
const FeedLimit = 50

// PostService handles business logic for community posts
type PostService struct {
	postRepo    repositories.PostRepository
	commentRepo repositories.CommentRepository
	forumRepo   repositories.ForumRepository
	now         func() time.Time
}

// NewPostService creates a new PostService
func NewPostService(postRepo repositories.PostRepository, commentRepo repositories.CommentRepository, forumRepo repositories.ForumRepository) *PostService {
	return &PostService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		forumRepo:   forumRepo,
		now:         time.Now,
	}
}

// Feed returns the most recent posts across every forum.
func (s *PostService) Feed() ([]*models.Post, error) {
	posts, err := s.list(func(*models.Post) bool { return true })
	if err != nil {
		return nil, err
	}
	if len(posts) > FeedLimit {
		posts = posts[:FeedLimit]
	}
	return posts, nil
}

// ListByTopic returns the posts of one forum, newest first. The "general"
// selector matches posts that belong to no forum.
func (s *PostService) ListByTopic(topic string) ([]*models.Post, error) {
	if topic == "" {
		return s.Feed()
	}
	return s.list(func(p *models.Post) bool {
		return p.TopicSelector() == topic
	})
}

func (s *PostService) list(keep func(*models.Post) bool) ([]*models.Post, error) {
	all, err := s.postRepo.List()
	if err != nil {
		return nil, err
	}

	posts := make([]*models.Post, 0, len(all))
	for _, post := range all {
		if !keep(post) {
			continue
		}
		if err := s.decorate(post); err != nil {
			return nil, fmt.Errorf("failed to load post %s: %w", post.ID, err)
		}
		posts = append(posts, post)
	}

	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	return posts, nil
}

// GetPost retrieves a post by ID
func (s *PostService) GetPost(id string) (*models.Post, error) {
	post, err := s.postRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.decorate(post); err != nil {
		return nil, err
	}
	return post, nil
}

// CreatePost publishes a new post written by author
func (s *PostService) CreatePost(author *models.User, in PostInput) (*models.Post, error) {
	in.normalize()
	if err := check(&in); err != nil {
		return nil, err
	}
	if in.TopicID != nil {
		if _, err := s.forumRepo.GetByID(*in.TopicID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, fmt.Errorf("%w: unknown forum %q", ErrInvalid, *in.TopicID)
			}
			return nil, err
		}
	}

	post := &models.Post{
		Title:     in.Title,
		Content:   in.Content,
		AuthorID:  author.ID,
		Author:    author.Ref(),
		TopicID:   in.TopicID,
		CreatedAt: s.now(),
	}
	if err := s.postRepo.Create(post); err != nil {
		return nil, err
	}
	if err := s.decorate(post); err != nil {
		return nil, err
	}
	return post, nil
}

// UpdatePost replaces title and content of a post owned by userID
func (s *PostService) UpdatePost(userID, id string, in PostInput) (*models.Post, error) {
	in.normalize()
	if err := check(&in); err != nil {
		return nil, err
	}

	existing, err := s.postRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if existing.AuthorID != userID {
		return nil, ErrForbidden
	}

	existing.Title = in.Title
	existing.Content = in.Content
	existing.Touch(s.now())
	if err := s.postRepo.Update(existing); err != nil {
		return nil, err
	}
	if err := s.decorate(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// DeletePost deletes a post owned by userID and all its comments
func (s *PostService) DeletePost(userID, id string) error {
	existing, err := s.postRepo.GetByID(id)
	if err != nil {
		return err
	}
	if existing.AuthorID != userID {
		return ErrForbidden
	}

	comments, err := s.commentRepo.ListByPost(id)
	if err != nil {
		return fmt.Errorf("failed to get comments: %w", err)
	}
	for _, comment := range comments {
		if err := s.commentRepo.Delete(comment.ID); err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("failed to delete comment %s: %w", comment.ID, err)
		}
	}

	return s.postRepo.Delete(id)
}

// decorate fills the derived fields the client renders.
func (s *PostService) decorate(post *models.Post) error {
	comments, err := s.commentRepo.ListByPost(post.ID)
	if err != nil {
		return fmt.Errorf("failed to get comments: %w", err)
	}
	post.CommentCount = len(comments)

	post.Topic = nil
	if post.TopicID != nil {
		forum, err := s.forumRepo.GetByID(*post.TopicID)
		switch {
		case err == nil:
			post.Topic = &models.TopicRef{ID: forum.ID, Title: forum.Title}
		case !errors.Is(err, repositories.ErrNotFound):
			return err
		}
	}
	return nil
}
