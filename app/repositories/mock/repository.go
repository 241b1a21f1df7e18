package mock

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"conexa/app/models"
	"conexa/app/repositories"
)

// PostRepository is an in-memory repositories.PostRepository.
type PostRepository struct {
	posts  map[string]*models.Post
	nextID int
	mutex  sync.RWMutex
}

// CommentRepository is an in-memory repositories.CommentRepository.
type CommentRepository struct {
	comments map[string]*models.Comment
	nextID   int
	mutex    sync.RWMutex
}

// ForumRepository is an in-memory repositories.ForumRepository.
type ForumRepository struct {
	forums map[string]*models.Forum
	nextID int
	mutex  sync.RWMutex
}

// UserRepository is an in-memory repositories.UserRepository.
type UserRepository struct {
	users  map[string]*models.User
	nextID int
	mutex  sync.RWMutex
}

// TokenRepository is an in-memory repositories.TokenRepository.
type TokenRepository struct {
	tokens map[string]string
	nextID int
	mutex  sync.Mutex
}

// MarketRepository is an in-memory repositories.MarketRepository.
type MarketRepository struct {
	items  []*models.MarketItem
	nextID int
	mutex  sync.RWMutex
}

func NewPostRepository() *PostRepository {
	return &PostRepository{posts: make(map[string]*models.Post), nextID: 1}
}

func NewCommentRepository() *CommentRepository {
	return &CommentRepository{comments: make(map[string]*models.Comment), nextID: 1}
}

func NewForumRepository() *ForumRepository {
	return &ForumRepository{forums: make(map[string]*models.Forum), nextID: 1}
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]*models.User), nextID: 1}
}

func NewTokenRepository() *TokenRepository {
	return &TokenRepository{tokens: make(map[string]string), nextID: 1}
}

func NewMarketRepository() *MarketRepository {
	return &MarketRepository{nextID: 1}
}

func (m *PostRepository) Clear() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.posts = make(map[string]*models.Post)
	m.nextID = 1
}

// PostRepository implementation
func (m *PostRepository) Create(post *models.Post) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	post.ID = fmt.Sprintf("p%d", m.nextID)
	m.nextID++
	cp := *post
	m.posts[post.ID] = &cp
	return nil
}

func (m *PostRepository) GetByID(id string) (*models.Post, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	post, exists := m.posts[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	cp := *post
	return &cp, nil
}

func (m *PostRepository) List() ([]*models.Post, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	posts := make([]*models.Post, 0, len(m.posts))
	for _, post := range m.posts {
		cp := *post
		posts = append(posts, &cp)
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].ID < posts[j].ID })
	return posts, nil
}

func (m *PostRepository) Update(post *models.Post) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.posts[post.ID]; !exists {
		return repositories.ErrNotFound
	}
	cp := *post
	m.posts[post.ID] = &cp
	return nil
}

func (m *PostRepository) Delete(id string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.posts[id]; !exists {
		return repositories.ErrNotFound
	}
	delete(m.posts, id)
	return nil
}

// CommentRepository implementation
func (m *CommentRepository) Create(comment *models.Comment) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	comment.ID = fmt.Sprintf("c%d", m.nextID)
	m.nextID++
	cp := *comment
	m.comments[comment.ID] = &cp
	return nil
}

func (m *CommentRepository) GetByID(id string) (*models.Comment, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	comment, exists := m.comments[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	cp := *comment
	return &cp, nil
}

func (m *CommentRepository) Update(comment *models.Comment) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.comments[comment.ID]; !exists {
		return repositories.ErrNotFound
	}
	cp := *comment
	m.comments[comment.ID] = &cp
	return nil
}

func (m *CommentRepository) Delete(id string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.comments[id]; !exists {
		return repositories.ErrNotFound
	}
	delete(m.comments, id)
	return nil
}

func (m *CommentRepository) ListByPost(postID string) ([]*models.Comment, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	var comments []*models.Comment
	for _, comment := range m.comments {
		if comment.PostID == postID {
			cp := *comment
			comments = append(comments, &cp)
		}
	}
	sort.Slice(comments, func(i, j int) bool {
		return comments[i].CreatedAt.Before(comments[j].CreatedAt)
	})
	return comments, nil
}

// ForumRepository implementation
func (m *ForumRepository) Create(forum *models.Forum) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if forum.ID == "" {
		for {
			forum.ID = fmt.Sprintf("f%d", m.nextID)
			m.nextID++
			if _, taken := m.forums[forum.ID]; !taken {
				break
			}
		}
	} else if _, exists := m.forums[forum.ID]; exists {
		return repositories.ErrDuplicate
	}
	cp := *forum
	m.forums[forum.ID] = &cp
	return nil
}

func (m *ForumRepository) GetByID(id string) (*models.Forum, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	forum, exists := m.forums[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	cp := *forum
	return &cp, nil
}

func (m *ForumRepository) List() ([]*models.Forum, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	forums := make([]*models.Forum, 0, len(m.forums))
	for _, forum := range m.forums {
		cp := *forum
		forums = append(forums, &cp)
	}
	sort.Slice(forums, func(i, j int) bool { return forums[i].ID < forums[j].ID })
	return forums, nil
}

// UserRepository implementation
func (m *UserRepository) Create(user *models.User) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for _, u := range m.users {
		if strings.EqualFold(u.Email, user.Email) {
			return repositories.ErrDuplicate
		}
	}
	user.ID = fmt.Sprintf("u%d", m.nextID)
	m.nextID++
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *UserRepository) GetByID(id string) (*models.User, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	user, exists := m.users[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	cp := *user
	return &cp, nil
}

func (m *UserRepository) GetByEmail(email string) (*models.User, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	for _, u := range m.users {
		if strings.EqualFold(u.Email, strings.TrimSpace(email)) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

// TokenRepository implementation; ttl is ignored.
func (m *TokenRepository) Issue(userID string, _ time.Duration) (string, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	token := fmt.Sprintf("token-%d", m.nextID)
	m.nextID++
	m.tokens[token] = userID
	return token, nil
}

func (m *TokenRepository) Resolve(token string) (string, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	userID, ok := m.tokens[token]
	if !ok {
		return "", repositories.ErrNotFound
	}
	return userID, nil
}

func (m *TokenRepository) Revoke(token string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	delete(m.tokens, token)
	return nil
}

// MarketRepository implementation
func (m *MarketRepository) Create(item *models.MarketItem) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	item.ID = fmt.Sprintf("m%d", m.nextID)
	m.nextID++
	cp := *item
	m.items = append(m.items, &cp)
	return nil
}

func (m *MarketRepository) List() ([]*models.MarketItem, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	items := make([]*models.MarketItem, 0, len(m.items))
	for _, item := range m.items {
		cp := *item
		items = append(items, &cp)
	}
	return items, nil
}
