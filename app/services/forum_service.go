package services

import (
	"strings"

	"conexa/app/models"
	"conexa/app/repositories"
)

// ForumService lists and creates discussion forums.
type ForumService struct {
	forumRepo repositories.ForumRepository
	postRepo  repositories.PostRepository
}

// NewForumService creates a new ForumService
func NewForumService(forumRepo repositories.ForumRepository, postRepo repositories.PostRepository) *ForumService {
	return &ForumService{forumRepo: forumRepo, postRepo: postRepo}
}

// ListForums returns every forum with its current post count.
func (s *ForumService) ListForums() ([]*models.Forum, error) {
	forums, err := s.forumRepo.List()
	if err != nil {
		return nil, err
	}
	posts, err := s.postRepo.List()
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(forums))
	for _, p := range posts {
		counts[p.TopicSelector()]++
	}
	for _, f := range forums {
		f.PostCount = counts[f.ID]
	}
	return forums, nil
}

// CreateForum stores a forum. An empty ID gets the next sequence value.
func (s *ForumService) CreateForum(forum *models.Forum) error {
	forum.Title = strings.TrimSpace(forum.Title)
	if forum.Title == "" {
		return ErrInvalid
	}
	if forum.ID == models.GeneralTopic {
		return ErrInvalid
	}
	return s.forumRepo.Create(forum)
}
