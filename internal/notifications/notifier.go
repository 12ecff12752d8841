// Package notifications provides real-time delivery over Redis pub/sub and
// WebSockets.
package notifications

import (
	"context"
	"log"
	"runtime/debug"

	"github.com/redis/go-redis/v9"
)

// Notifier publishes realtime payloads into Redis channels. A nil Redis
// client turns every publish into a no-op so single-node deployments work
// without Redis.
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier instance using the provided Redis
// client.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// PublishUser sends a payload to a profile's channel.
func (n *Notifier) PublishUser(ctx context.Context, profileID string, payload []byte) error {
	if n.rdb == nil {
		return nil
	}
	return n.rdb.Publish(ctx, UserChannel(profileID), payload).Err()
}

// PublishConversation publishes a chat event to a conversation channel.
func (n *Notifier) PublishConversation(ctx context.Context, conversationID string, payload []byte) error {
	if n.rdb == nil {
		return nil
	}
	return n.rdb.Publish(ctx, ConversationChannel(conversationID), payload).Err()
}

// StartUserSubscriber subscribes to all per-profile channels and calls
// onMessage for each incoming message.
func (n *Notifier) StartUserSubscriber(ctx context.Context, onMessage func(channel, payload string)) error {
	return n.startPatternSubscriber(ctx, "user subscriber", onMessage, "notifications:profile:*")
}

// StartChatSubscriber subscribes to all conversation channels and calls
// onMessage for each incoming message.
func (n *Notifier) StartChatSubscriber(ctx context.Context, onMessage func(channel, payload string)) error {
	return n.startPatternSubscriber(ctx, "chat subscriber", onMessage, "chat:conv:*")
}

func (n *Notifier) startPatternSubscriber(ctx context.Context, name string, onMessage func(channel, payload string), patterns ...string) error {
	if n.rdb == nil {
		return nil
	}
	sub := n.rdb.PSubscribe(ctx, patterns...)
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
							log.Printf("PANIC in %s: %v\n%s", name, r, debug.Stack())
						}
					}()
					onMessage(msg.Channel, msg.Payload)
				}()
			}
		}
	}()

	return nil
}

// UserChannel derives the Redis channel name for a profile.
func UserChannel(profileID string) string {
	return "notifications:profile:" + profileID
}

// ConversationChannel derives the Redis channel name for a conversation.
func ConversationChannel(conversationID string) string {
	return "chat:conv:" + conversationID
}
