package models

import (
	"fmt"
	"time"
)

// VoteTarget is the kind of forum content a vote applies to.
type VoteTarget string

const (
	VoteTargetTopic VoteTarget = "topic"
	VoteTargetPost  VoteTarget = "post"
)

// VoteDirection is the sign of a vote. The empty direction means "no vote".
type VoteDirection string

const (
	VoteNone VoteDirection = ""
	VoteUp   VoteDirection = "up"
	VoteDown VoteDirection = "down"
)

// Opposite returns the other direction.
func (d VoteDirection) Opposite() VoteDirection {
	switch d {
	case VoteUp:
		return VoteDown
	case VoteDown:
		return VoteUp
	default:
		return VoteNone
	}
}

// ParseVoteTarget validates a raw target name.
func ParseVoteTarget(raw string) (VoteTarget, error) {
	switch t := VoteTarget(raw); t {
	case VoteTargetTopic, VoteTargetPost:
		return t, nil
	}
	return "", fmt.Errorf("unknown vote target %q", raw)
}

// ParseVoteDirection validates a raw direction name.
func ParseVoteDirection(raw string) (VoteDirection, error) {
	switch d := VoteDirection(raw); d {
	case VoteUp, VoteDown:
		return d, nil
	}
	return VoteNone, fmt.Errorf("unknown vote direction %q", raw)
}

// VoteAction describes what a recorded vote did to the ledger.
type VoteAction string

const (
	VoteActionAdded    VoteAction = "added"
	VoteActionRemoved  VoteAction = "removed"
	VoteActionSwitched VoteAction = "switched"
)

// VoteState is a target's vote totals together with the caller's current vote.
type VoteState struct {
	Target    VoteTarget    `json:"target_type"`
	TargetID  uint          `json:"target_id"`
	Upvotes   int           `json:"upvotes"`
	Downvotes int           `json:"downvotes"`
	UserVote  VoteDirection `json:"user_vote"`
	Action    VoteAction    `json:"action,omitempty"`
}

// UpvoteForumTopic is one user's upvote on one topic.
type UpvoteForumTopic struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_upvote_topic_user" json:"user_id"`
	TopicID   uint      `gorm:"not null;uniqueIndex:idx_upvote_topic_user;index" json:"topic_id"`
	CreatedAt time.Time `json:"created_at"`
}

// DownvoteForumTopic is one user's downvote on one topic.
type DownvoteForumTopic struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_downvote_topic_user" json:"user_id"`
	TopicID   uint      `gorm:"not null;uniqueIndex:idx_downvote_topic_user;index" json:"topic_id"`
	CreatedAt time.Time `json:"created_at"`
}

// UpvoteForumPost is one user's upvote on one post.
type UpvoteForumPost struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_upvote_post_user" json:"user_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_upvote_post_user;index" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

// DownvoteForumPost is one user's downvote on one post.
type DownvoteForumPost struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_downvote_post_user" json:"user_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_downvote_post_user;index" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}
