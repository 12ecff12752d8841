package cache

import (
	"context"
	"fmt"
	"time"
)

// Key formats. IDs are UUID strings.
const (
	ProfileKeyPrefix       = "profile:%s"
	ConversationsKeyPrefix = "profile:%s:conversations"
	MetadataKeyPrefix      = "metadata:%s"
	MetadataAllKey         = "metadata:all"
	NotificationsKeyPrefix = "profile:%s:notifications"
)

// TTLs per key family. Chat data is kept short so clients converge quickly;
// metadata is near-static.
const (
	ProfileTTL       = 5 * time.Minute
	ConversationsTTL = 30 * time.Second
	MetadataTTL      = 10 * time.Minute
	NotificationsTTL = 30 * time.Second
)

func ProfileKey(profileID string) string {
	return fmt.Sprintf(ProfileKeyPrefix, profileID)
}

func ConversationsKey(profileID string) string {
	return fmt.Sprintf(ConversationsKeyPrefix, profileID)
}

func MetadataKey(metadataType string) string {
	return fmt.Sprintf(MetadataKeyPrefix, metadataType)
}

func NotificationsKey(profileID string) string {
	return fmt.Sprintf(NotificationsKeyPrefix, profileID)
}

func Invalidate(ctx context.Context, keys ...string) {
	if client != nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

func InvalidateProfile(ctx context.Context, profileID string) {
	Invalidate(ctx, ProfileKey(profileID))
}

func InvalidateConversations(ctx context.Context, profileIDs ...string) {
	keys := make([]string, len(profileIDs))
	for i, id := range profileIDs {
		keys[i] = ConversationsKey(id)
	}
	Invalidate(ctx, keys...)
}

func InvalidateNotifications(ctx context.Context, profileID string) {
	Invalidate(ctx, NotificationsKey(profileID))
}
