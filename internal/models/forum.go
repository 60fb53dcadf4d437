package models

import "time"

// Topic statuses.
const (
	TopicStatusOpen     = "open"
	TopicStatusClosed   = "closed"
	TopicStatusArchived = "archived"
)

// ForumCategory groups topics. TopicCount, PostCount and LastPostAt are denormalized
// from its topics and are rewritten whenever a child topic or post changes.
type ForumCategory struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Name        string     `gorm:"not null;size:100" json:"name"`
	Description string     `gorm:"type:text" json:"description"`
	Slug        string     `gorm:"uniqueIndex;not null;size:100" json:"slug"`
	SortOrder   int        `gorm:"not null;default:0" json:"order"`
	IsActive    bool       `gorm:"not null;default:true" json:"is_active"`
	TopicCount  int        `gorm:"not null;default:0" json:"topic_count"`
	PostCount   int        `gorm:"not null;default:0" json:"post_count"`
	LastPostAt  *time.Time `json:"last_post_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ForumTag labels topics.
type ForumTag struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null;size:50" json:"name"`
	Description string    `json:"description"`
	Color       string    `gorm:"size:16" json:"color"`
	CreatedAt   time.Time `json:"created_at"`
}

// ForumTopic is a discussion thread. LastPostAt equals the newest child post's
// CreatedAt, or the topic's own CreatedAt while it has no posts.
type ForumTopic struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Title         string         `gorm:"not null;size:300" json:"title"`
	Content       string         `gorm:"type:text;not null" json:"content"`
	Slug          string         `gorm:"uniqueIndex;not null" json:"slug"`
	IsPinned      bool           `gorm:"not null;default:false" json:"is_pinned"`
	IsLocked      bool           `gorm:"not null;default:false" json:"is_locked"`
	ViewCount     int            `gorm:"not null;default:0" json:"view_count"`
	Status        string         `gorm:"not null;default:open;size:16" json:"status"`
	CategoryID    uint           `gorm:"not null;index" json:"category_id"`
	Category      *ForumCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	UserID        uint           `gorm:"not null;index" json:"user_id"`
	User          *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Tags          []ForumTag     `gorm:"many2many:forum_topic_tags;" json:"tags"`
	PostCount     int            `gorm:"not null;default:0" json:"post_count"`
	UpvoteCount   int            `gorm:"not null;default:0" json:"upvote_count"`
	DownvoteCount int            `gorm:"not null;default:0" json:"downvote_count"`
	LastPostAt    time.Time      `gorm:"index" json:"last_post_at"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`

	// UserVote is the requesting user's vote on this topic, if any.
	UserVote VoteDirection `gorm:"-" json:"user_vote,omitempty"`
}

// ForumPost is a contribution inside a topic.
type ForumPost struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	Content       string      `gorm:"type:text;not null" json:"content"`
	Slug          string      `gorm:"uniqueIndex;not null" json:"slug"`
	IsEdited      bool        `gorm:"not null;default:false" json:"is_edited"`
	TopicID       uint        `gorm:"not null;index" json:"topic_id"`
	Topic         *ForumTopic `gorm:"foreignKey:TopicID" json:"topic,omitempty"`
	UserID        uint        `gorm:"not null;index" json:"user_id"`
	User          *User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ReplyCount    int         `gorm:"not null;default:0" json:"reply_count"`
	UpvoteCount   int         `gorm:"not null;default:0" json:"upvote_count"`
	DownvoteCount int         `gorm:"not null;default:0" json:"downvote_count"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`

	UserVote VoteDirection `gorm:"-" json:"user_vote,omitempty"`
}

// ForumReply answers a post. Replies do not nest further.
type ForumReply struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Content   string     `gorm:"type:text;not null" json:"content"`
	PostID    uint       `gorm:"not null;index" json:"post_id"`
	Post      *ForumPost `gorm:"foreignKey:PostID" json:"post,omitempty"`
	UserID    uint       `gorm:"not null;index" json:"user_id"`
	User      *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
