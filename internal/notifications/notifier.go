package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strconv"
	"strings"

	"cinetheque/internal/middleware"
	"cinetheque/internal/models"

	"github.com/redis/go-redis/v9"
)

const forumTopicChannelPrefix = "forum:topic:"

// Notifier publishes forum events through Redis so every instance can fan
// them out. Without Redis it hands events straight to the local hub.
type Notifier struct {
	rdb *redis.Client
	hub *ForumHub
}

func NewNotifier(rdb *redis.Client, hub *ForumHub) *Notifier {
	return &Notifier{rdb: rdb, hub: hub}
}

// PublishForumEvent sends event to its topic channel.
func (n *Notifier) PublishForumEvent(ctx context.Context, event models.ForumEvent) error {
	if n.rdb == nil {
		if n.hub == nil {
			return nil
		}
		return n.hub.Broadcast(event)
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal forum event: %w", err)
	}
	return n.rdb.Publish(ctx, ForumTopicChannel(event.TopicID), payload).Err()
}

// StartForumSubscriber subscribes to every forum topic channel and calls
// onMessage for each payload until ctx is cancelled.
func (n *Notifier) StartForumSubscriber(ctx context.Context, onMessage func(channel, payload string)) error {
	if n.rdb == nil {
		return nil
	}
	sub := n.rdb.PSubscribe(ctx, forumTopicChannelPrefix+"*")
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("subscribe forum channels: %w", err)
	}
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							middleware.Logger.Error("panic in forum subscriber",
								slog.Any("panic", r),
								slog.String("stack", string(debug.Stack())),
							)
						}
					}()
					onMessage(msg.Channel, msg.Payload)
				}()
			}
		}
	}()

	return nil
}

// ForumTopicChannel derives the Redis channel name for a topic room.
func ForumTopicChannel(topicID uint) string {
	return forumTopicChannelPrefix + strconv.FormatUint(uint64(topicID), 10)
}

// ParseForumTopicChannel extracts the topic ID from a channel name.
func ParseForumTopicChannel(channel string) (uint, bool) {
	raw, ok := strings.CutPrefix(channel, forumTopicChannelPrefix)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}
