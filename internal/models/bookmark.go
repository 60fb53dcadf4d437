package models

import "time"

// EpisodeBookmark marks an episode for a user. One row per (user, episode).
type EpisodeBookmark struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_episode_bookmark_user" json:"user_id"`
	EpisodeID uint      `gorm:"not null;uniqueIndex:idx_episode_bookmark_user;index" json:"episode_id"`
	Episode   *Episode  `gorm:"foreignKey:EpisodeID" json:"episode,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
