package models

import "time"

// GeneralTopic is the selector for posts that belong to no forum.
const GeneralTopic = "general"

// AuthorRef is the denormalized author shown next to posts and comments.
type AuthorRef struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar,omitempty"`
}

// TopicRef is the denormalized forum a post was published in.
type TopicRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Post represents a community post.
type Post struct {
	ID           string     `json:"id" validate:"required"`
	Title        string     `json:"title" validate:"required,max=200"`
	Content      string     `json:"content" validate:"required"`
	AuthorID     string     `json:"userId" validate:"required"`
	Author       AuthorRef  `json:"author" validate:"-"`
	TopicID      *string    `json:"topicId,omitempty" validate:"-"`
	Topic        *TopicRef  `json:"topic,omitempty" validate:"-"`
	CreatedAt    time.Time  `json:"created_at" validate:"required"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty" validate:"-"`
	CommentCount int        `json:"commentCount" validate:"gte=0"`
	LikeCount    int        `json:"likeCount" validate:"gte=0"`
}

// Comment represents a comment on a post.
type Comment struct {
	ID        string     `json:"id" validate:"required"`
	PostID    string     `json:"post_id" validate:"required"`
	AuthorID  string     `json:"user_id" validate:"required"`
	Author    AuthorRef  `json:"author" validate:"-"`
	Content   string     `json:"content" validate:"required,max=1000"`
	CreatedAt time.Time  `json:"created_at" validate:"required"`
	UpdatedAt *time.Time `json:"updated_at,omitempty" validate:"-"`

	// Edited is set on the client when a local edit goes through. It is
	// never sent over the wire.
	Edited bool `json:"-" validate:"-"`
}

// Forum is a named discussion category grouping posts.
type Forum struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	PostCount   int    `json:"postCount"`
}

// MarketItem is a freight marketplace listing. A listing carrying a
// VehicleType is a transport offer; one carrying a RequiredVehicleType is a
// cargo request.
type MarketItem struct {
	ID                  string     `json:"id"`
	Origin              string     `json:"origin" validate:"required"`
	Destination         string     `json:"destination" validate:"required"`
	VehicleType         string     `json:"vehicle_type,omitempty"`
	RequiredVehicleType string     `json:"required_vehicle_type,omitempty"`
	CargoType           string     `json:"cargo_type,omitempty"`
	WeightKg            int64      `json:"weight_kg,omitempty" validate:"gte=0"`
	AvailableDate       *time.Time `json:"available_date,omitempty"`
	ReadyDate           *time.Time `json:"ready_date,omitempty"`
	MapURL              string     `json:"mapUrl,omitempty"`
	Description         string     `json:"description,omitempty"`
	ContactName         string     `json:"contact_name,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
}

// User is an account stored by the reference backend.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email" validate:"required,email"`
	Name         string    `json:"name" validate:"required,min=2,max=80"`
	Role         string    `json:"rol"`
	AvatarURL    string    `json:"avatar,omitempty"`
	PasswordHash []byte    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

// SessionUser is the signed-in user as seen by the web frontend. A nil
// *SessionUser means guest mode.
type SessionUser struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      string `json:"rol"`
	AvatarURL string `json:"avatar,omitempty"`
	Token     string `json:"token"`
}
