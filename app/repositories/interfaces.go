package repositories

import (
	"time"

	"conexa/app/models"
)

// PostRepository defines the interface for post data access
type PostRepository interface {
	Create(post *models.Post) error
	GetByID(id string) (*models.Post, error)
	List() ([]*models.Post, error)
	Update(post *models.Post) error
	Delete(id string) error
}

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	Create(comment *models.Comment) error
	GetByID(id string) (*models.Comment, error)
	ListByPost(postID string) ([]*models.Comment, error)
	Update(comment *models.Comment) error
	Delete(id string) error
}

// ForumRepository defines the interface for forum data access
type ForumRepository interface {
	Create(forum *models.Forum) error
	GetByID(id string) (*models.Forum, error)
	List() ([]*models.Forum, error)
}

// UserRepository defines the interface for account data access
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
}

// TokenRepository stores bearer tokens issued at sign-in.
type TokenRepository interface {
	Issue(userID string, ttl time.Duration) (string, error)
	Resolve(token string) (string, error)
	Revoke(token string) error
}

// MarketRepository defines the interface for marketplace listing data access
type MarketRepository interface {
	Create(item *models.MarketItem) error
	List() ([]*models.MarketItem, error)
}
