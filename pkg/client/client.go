// Package client is a typed Go client for the lineUp REST API. Read methods
// serve from a key-addressed TTL cache; mutations invalidate the dependent
// query keys only when the server reports success.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client talks to a lineUp API server.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
	cache   *queryCache
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithToken sets the bearer token used on authenticated calls.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New creates a Client for the given base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
		cache:   newQueryCache(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken swaps the bearer token, e.g. after login.
func (c *Client) SetToken(token string) { c.token = token }

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Code       string `json:"code"`
	Message    string `json:"error"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d (%s): %s", e.StatusCode, e.Code, e.Message)
}

// Profile is the API profile shape.
type Profile struct {
	ID                  string  `json:"id"`
	Username            string  `json:"username"`
	FirstName           *string `json:"firstName"`
	LastName            *string `json:"lastName"`
	Location            *string `json:"location"`
	UserType            string  `json:"userType"`
	YearOfBirth         *int    `json:"yearOfBirth"`
	OnboardingCompleted bool    `json:"onboardingCompleted"`
	AvatarURL           *string `json:"avatarUrl"`
	Bio                 *string `json:"bio"`
	AboutMe             *string `json:"aboutMe"`
	ThemeColor          *string `json:"themeColor"`
	SpotifyPlaylistURL  *string `json:"spotifyPlaylistUrl"`
	CreatedAt           string  `json:"createdAt"`
}

// Post is the API post shape.
type Post struct {
	ID        string  `json:"id"`
	AuthorID  string  `json:"authorId"`
	Title     string  `json:"title"`
	Content   string  `json:"content"`
	MediaID   *string `json:"mediaId"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
}

// Bookmark is the API bookmark shape.
type Bookmark struct {
	UserID    string `json:"userId"`
	PostID    string `json:"postId"`
	Post      *Post  `json:"post"`
	CreatedAt string `json:"createdAt"`
}

// Conversation is the API conversation shape.
type Conversation struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"`
	Name         *string   `json:"name"`
	AvatarURL    *string   `json:"avatarUrl"`
	CreatedBy    string    `json:"createdBy"`
	Participants []Profile `json:"participants"`
	CreatedAt    string    `json:"createdAt"`
	UpdatedAt    string    `json:"updatedAt"`
}

// Message is the API message shape.
type Message struct {
	ID               string  `json:"id"`
	ConversationID   string  `json:"conversationId"`
	SenderID         string  `json:"senderId"`
	Content          string  `json:"content"`
	ReplyToMessageID *string `json:"replyToMessageId"`
	EditedAt         *string `json:"editedAt"`
	CreatedAt        string  `json:"createdAt"`
}

// Notification is the API notification shape.
type Notification struct {
	ID          string  `json:"id"`
	RecipientID string  `json:"recipientId"`
	ActorID     *string `json:"actorId"`
	Type        string  `json:"type"`
	Message     string  `json:"message"`
	TargetID    *string `json:"targetId"`
	TargetType  *string `json:"targetType"`
	IsRead      bool    `json:"isRead"`
	CreatedAt   string  `json:"createdAt"`
}

// Metadata is the API taxonomy shape.
type Metadata struct {
	ID        string  `json:"id"`
	Type      string  `json:"type"`
	Name      string  `json:"name"`
	CreatedAt *string `json:"createdAt"`
}

// AuthResponse is returned by signup and login.
type AuthResponse struct {
	Token   string  `json:"token"`
	Profile Profile `json:"profile"`
}

// Signup registers an account and stores the returned token on the client.
func (c *Client) Signup(ctx context.Context, username, email, password string) (*AuthResponse, error) {
	var out AuthResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/signup", map[string]string{
		"username": username, "email": email, "password": password,
	}, &out)
	if err != nil {
		return nil, err
	}
	c.token = out.Token
	return &out, nil
}

// Login authenticates and stores the returned token on the client.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var out AuthResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"email": email, "password": password,
	}, &out)
	if err != nil {
		return nil, err
	}
	c.token = out.Token
	return &out, nil
}

// MyProfile returns the authenticated profile, cached up to 5 minutes.
func (c *Client) MyProfile(ctx context.Context) (*Profile, error) {
	var out Profile
	if err := c.query(ctx, "profile:me", "/api/profiles/me", ProfileStaleness, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateMyProfile patches the authenticated profile and drops the cached
// copy on success.
func (c *Client) UpdateMyProfile(ctx context.Context, fields map[string]any) (*Profile, error) {
	var out Profile
	if err := c.do(ctx, http.MethodPatch, "/api/profiles/me", fields, &out); err != nil {
		return nil, err
	}
	c.cache.invalidate("profile:me")
	return &out, nil
}

// UsernameAvailable checks whether a username can still be claimed. Never
// cached: availability changes under contention.
func (c *Client) UsernameAvailable(ctx context.Context, username string) (bool, error) {
	var out struct {
		Available bool `json:"available"`
	}
	path := "/api/profiles/username-available?username=" + url.QueryEscape(username)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return false, err
	}
	return out.Available, nil
}

// Posts returns the feed page, cached for 30 seconds.
func (c *Client) Posts(ctx context.Context, limit, offset int) ([]Post, error) {
	var out struct {
		Posts []Post `json:"posts"`
	}
	key := fmt.Sprintf("posts:%d:%d", limit, offset)
	path := fmt.Sprintf("/api/posts?limit=%d&offset=%d", limit, offset)
	if err := c.query(ctx, key, path, PostsStaleness, &out); err != nil {
		return nil, err
	}
	return out.Posts, nil
}

// CreatePost publishes a post and invalidates cached feed pages on success.
func (c *Client) CreatePost(ctx context.Context, title, content string, mediaID *string) (*Post, error) {
	var out Post
	body := map[string]any{"title": title, "content": content}
	if mediaID != nil {
		body["mediaId"] = *mediaID
	}
	if err := c.do(ctx, http.MethodPost, "/api/posts", body, &out); err != nil {
		return nil, err
	}
	c.cache.invalidate("posts:")
	return &out, nil
}

// Bookmarks returns the caller's saved posts, cached for a minute.
func (c *Client) Bookmarks(ctx context.Context) ([]Bookmark, error) {
	var out struct {
		Bookmarks []Bookmark `json:"bookmarks"`
	}
	if err := c.query(ctx, "bookmarks", "/api/bookmarks", BookmarksStaleness, &out); err != nil {
		return nil, err
	}
	return out.Bookmarks, nil
}

// CreateBookmark saves a post and invalidates the bookmark list on success.
func (c *Client) CreateBookmark(ctx context.Context, postID string) (*Bookmark, error) {
	var out Bookmark
	if err := c.do(ctx, http.MethodPost, "/api/bookmarks", map[string]string{"postId": postID}, &out); err != nil {
		return nil, err
	}
	c.cache.invalidate("bookmarks")
	return &out, nil
}

// DeleteBookmark removes a saved post and invalidates the bookmark list.
func (c *Client) DeleteBookmark(ctx context.Context, postID string) error {
	if err := c.do(ctx, http.MethodDelete, "/api/bookmarks/"+postID, nil, nil); err != nil {
		return err
	}
	c.cache.invalidate("bookmarks")
	return nil
}

// Conversations returns the caller's conversations, cached for 30 seconds.
func (c *Client) Conversations(ctx context.Context) ([]Conversation, error) {
	var out struct {
		Conversations []Conversation `json:"conversations"`
	}
	if err := c.query(ctx, "conversations", "/api/conversations", ConversationsStaleness, &out); err != nil {
		return nil, err
	}
	return out.Conversations, nil
}

// CreateConversation starts a conversation and invalidates the list.
func (c *Client) CreateConversation(ctx context.Context, convType string, name *string, participantIDs []string) (*Conversation, error) {
	var out Conversation
	body := map[string]any{"type": convType, "participantIds": participantIDs}
	if name != nil {
		body["name"] = *name
	}
	if err := c.do(ctx, http.MethodPost, "/api/conversations", body, &out); err != nil {
		return nil, err
	}
	c.cache.invalidate("conversations")
	return &out, nil
}

// Messages returns a page of conversation messages, cached for 30 seconds.
func (c *Client) Messages(ctx context.Context, conversationID string, limit, offset int) ([]Message, error) {
	var out struct {
		Messages []Message `json:"messages"`
	}
	key := fmt.Sprintf("messages:%s:%d:%d", conversationID, limit, offset)
	path := fmt.Sprintf("/api/conversations/%s/messages?limit=%d&offset=%d", conversationID, limit, offset)
	if err := c.query(ctx, key, path, MessagesStaleness, &out); err != nil {
		return nil, err
	}
	return out.Messages, nil
}

// SendMessage posts into a conversation and invalidates its message pages
// and the conversation list ordering.
func (c *Client) SendMessage(ctx context.Context, conversationID, content string) (*Message, error) {
	var out Message
	body := map[string]any{"content": content}
	err := c.do(ctx, http.MethodPost, "/api/conversations/"+conversationID+"/messages", body, &out)
	if err != nil {
		return nil, err
	}
	c.cache.invalidate("messages:"+conversationID, "conversations")
	return &out, nil
}

// Notifications returns the caller's notifications, cached for 30 seconds.
func (c *Client) Notifications(ctx context.Context) ([]Notification, error) {
	var out struct {
		Notifications []Notification `json:"notifications"`
	}
	if err := c.query(ctx, "notifications", "/api/notifications", NotificationsStaleness, &out); err != nil {
		return nil, err
	}
	return out.Notifications, nil
}

// MarkNotificationRead flips the read state and invalidates the list.
func (c *Client) MarkNotificationRead(ctx context.Context, id string, isRead bool) (*Notification, error) {
	var out Notification
	body := map[string]bool{"isRead": isRead}
	if err := c.do(ctx, http.MethodPatch, "/api/notifications/"+id, body, &out); err != nil {
		return nil, err
	}
	c.cache.invalidate("notifications")
	return &out, nil
}

// MetadataByType returns taxonomy rows, cached up to 5 minutes.
func (c *Client) MetadataByType(ctx context.Context, metadataType string) ([]Metadata, error) {
	var out struct {
		Metadata []Metadata `json:"metadata"`
	}
	key := "metadata:" + metadataType
	path := "/api/metadata"
	if metadataType != "" {
		path += "?type=" + url.QueryEscape(metadataType)
	}
	if err := c.query(ctx, key, path, MetadataStaleness, &out); err != nil {
		return nil, err
	}
	return out.Metadata, nil
}

// query performs a cached GET: fresh cache entries skip the network, and a
// successful fetch refreshes the entry.
func (c *Client) query(ctx context.Context, key, path string, ttl time.Duration, dest any) error {
	if data, ok := c.cache.get(key); ok {
		return json.Unmarshal(data, dest)
	}

	data, err := c.doRaw(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	c.cache.set(key, data, ttl)
	return json.Unmarshal(data, dest)
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	data, err := c.doRaw(ctx, method, path, body)
	if err != nil {
		return err
	}
	if dest == nil || len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, dest)
}

func (c *Client) doRaw(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		_ = json.Unmarshal(data, apiErr)
		return nil, apiErr
	}
	return data, nil
}
