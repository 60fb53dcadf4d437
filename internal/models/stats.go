package models

import "time"

// Reputation weights per authored item.
const (
	ReputationPerTopic  = 5
	ReputationPerPost   = 2
	ReputationPerReply  = 1
	ReputationPerUpvote = 3
)

// Reputation is the fixed linear score used by the forum:
// topics*5 + posts*2 + replies*1 + upvotesReceived*3.
func Reputation(topics, posts, replies, upvotesReceived int) int {
	return topics*ReputationPerTopic +
		posts*ReputationPerPost +
		replies*ReputationPerReply +
		upvotesReceived*ReputationPerUpvote
}

// ForumUserStats is the rolled-up forum activity of one user.
type ForumUserStats struct {
	UserID          uint       `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	User            *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	TopicCount      int        `gorm:"not null;default:0" json:"topic_count"`
	PostCount       int        `gorm:"not null;default:0" json:"post_count"`
	ReplyCount      int        `gorm:"not null;default:0" json:"reply_count"`
	UpvotesReceived int        `gorm:"not null;default:0" json:"upvotes_received"`
	Reputation      int        `gorm:"not null;default:0;index" json:"reputation"`
	LastPostAt      *time.Time `json:"last_post_at,omitempty"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// Recompute refreshes Reputation from the stored counts.
func (s *ForumUserStats) Recompute() {
	s.Reputation = Reputation(s.TopicCount, s.PostCount, s.ReplyCount, s.UpvotesReceived)
}
