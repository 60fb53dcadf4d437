package models

// Forum realtime event types.
const (
	EventTopicCreated = "topic_created"
	EventPostCreated  = "post_created"
	EventReplyCreated = "reply_created"
	EventVoteUpdated  = "vote_updated"
)

// ForumEvent is pushed to websocket clients following a forum topic.
// TopicID zero addresses the forum-wide room.
type ForumEvent struct {
	Type    string      `json:"type"`
	TopicID uint        `json:"topic_id"`
	Payload interface{} `json:"payload"`
}
