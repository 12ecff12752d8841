package service

import (
	"context"
	"errors"
	"testing"

	"lineup/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Function-field stubs shared by the service tests in this package.

type profileRepoStub struct {
	createFn         func(ctx context.Context, p *models.Profile) error
	getByIDFn        func(ctx context.Context, id string) (*models.Profile, error)
	getByEmailFn     func(ctx context.Context, email string) (*models.Profile, error)
	getByUsernameFn  func(ctx context.Context, username string) (*models.Profile, error)
	usernameExistsFn func(ctx context.Context, username string) (bool, error)
	updateFn         func(ctx context.Context, p *models.Profile) error
	listFn           func(ctx context.Context, limit, offset int) ([]models.Profile, error)
}

func noopProfileRepo() *profileRepoStub {
	return &profileRepoStub{
		createFn:         func(context.Context, *models.Profile) error { return nil },
		getByIDFn:        func(context.Context, string) (*models.Profile, error) { return nil, gorm.ErrRecordNotFound },
		getByEmailFn:     func(context.Context, string) (*models.Profile, error) { return nil, nil },
		getByUsernameFn:  func(context.Context, string) (*models.Profile, error) { return nil, gorm.ErrRecordNotFound },
		usernameExistsFn: func(context.Context, string) (bool, error) { return false, nil },
		updateFn:         func(context.Context, *models.Profile) error { return nil },
		listFn:           func(context.Context, int, int) ([]models.Profile, error) { return nil, nil },
	}
}

func (s *profileRepoStub) Create(ctx context.Context, p *models.Profile) error {
	return s.createFn(ctx, p)
}
func (s *profileRepoStub) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	return s.getByIDFn(ctx, id)
}
func (s *profileRepoStub) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *profileRepoStub) GetByUsername(ctx context.Context, username string) (*models.Profile, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *profileRepoStub) UsernameExists(ctx context.Context, username string) (bool, error) {
	return s.usernameExistsFn(ctx, username)
}
func (s *profileRepoStub) Update(ctx context.Context, p *models.Profile) error {
	return s.updateFn(ctx, p)
}
func (s *profileRepoStub) List(ctx context.Context, limit, offset int) ([]models.Profile, error) {
	return s.listFn(ctx, limit, offset)
}

type chatRepoStub struct {
	createConversationFn     func(ctx context.Context, conv *models.Conversation) error
	updateConversationFn     func(ctx context.Context, conv *models.Conversation) error
	getConversationFn        func(ctx context.Context, id string) (*models.Conversation, error)
	getUserConversationsFn   func(ctx context.Context, profileID string) ([]*models.Conversation, error)
	findDirectConversationFn func(ctx context.Context, a, b string) (*models.Conversation, error)
	addParticipantFn         func(ctx context.Context, convID, profileID string) error
	createMessageFn          func(ctx context.Context, msg *models.Message, mediaIDs []string) error
	getMessageFn             func(ctx context.Context, id string) (*models.Message, error)
	updateMessageFn          func(ctx context.Context, msg *models.Message) error
	getMessagesFn            func(ctx context.Context, convID string, limit, offset int) ([]*models.Message, error)
	updateLastReadFn         func(ctx context.Context, convID, profileID string) error
}

func noopChatRepo() *chatRepoStub {
	return &chatRepoStub{
		createConversationFn: func(context.Context, *models.Conversation) error { return nil },
		updateConversationFn: func(context.Context, *models.Conversation) error { return nil },
		getConversationFn: func(context.Context, string) (*models.Conversation, error) {
			return nil, gorm.ErrRecordNotFound
		},
		getUserConversationsFn: func(context.Context, string) ([]*models.Conversation, error) { return nil, nil },
		findDirectConversationFn: func(context.Context, string, string) (*models.Conversation, error) {
			return nil, gorm.ErrRecordNotFound
		},
		addParticipantFn:    func(context.Context, string, string) error { return nil },
		createMessageFn:     func(context.Context, *models.Message, []string) error { return nil },
		getMessageFn:        func(context.Context, string) (*models.Message, error) { return nil, gorm.ErrRecordNotFound },
		updateMessageFn:     func(context.Context, *models.Message) error { return nil },
		getMessagesFn:       func(context.Context, string, int, int) ([]*models.Message, error) { return nil, nil },
		updateLastReadFn:    func(context.Context, string, string) error { return nil },
	}
}

func (s *chatRepoStub) CreateConversation(ctx context.Context, conv *models.Conversation) error {
	return s.createConversationFn(ctx, conv)
}
func (s *chatRepoStub) UpdateConversation(ctx context.Context, conv *models.Conversation) error {
	return s.updateConversationFn(ctx, conv)
}
func (s *chatRepoStub) GetConversation(ctx context.Context, id string) (*models.Conversation, error) {
	return s.getConversationFn(ctx, id)
}
func (s *chatRepoStub) GetUserConversations(ctx context.Context, profileID string) ([]*models.Conversation, error) {
	return s.getUserConversationsFn(ctx, profileID)
}
func (s *chatRepoStub) FindDirectConversation(ctx context.Context, a, b string) (*models.Conversation, error) {
	return s.findDirectConversationFn(ctx, a, b)
}
func (s *chatRepoStub) AddParticipant(ctx context.Context, convID, profileID string) error {
	return s.addParticipantFn(ctx, convID, profileID)
}
func (s *chatRepoStub) CreateMessage(ctx context.Context, msg *models.Message, mediaIDs []string) error {
	return s.createMessageFn(ctx, msg, mediaIDs)
}
func (s *chatRepoStub) GetMessage(ctx context.Context, id string) (*models.Message, error) {
	return s.getMessageFn(ctx, id)
}
func (s *chatRepoStub) UpdateMessage(ctx context.Context, msg *models.Message) error {
	return s.updateMessageFn(ctx, msg)
}
func (s *chatRepoStub) GetMessages(ctx context.Context, convID string, limit, offset int) ([]*models.Message, error) {
	return s.getMessagesFn(ctx, convID, limit, offset)
}
func (s *chatRepoStub) UpdateLastRead(ctx context.Context, convID, profileID string) error {
	return s.updateLastReadFn(ctx, convID, profileID)
}

type mediaRepoStub struct {
	createFn   func(ctx context.Context, m *models.Media) error
	getByIDFn  func(ctx context.Context, id string) (*models.Media, error)
	getByIDsFn func(ctx context.Context, ids []string) ([]models.Media, error)
	deleteFn   func(ctx context.Context, id string) error
}

func noopMediaRepo() *mediaRepoStub {
	return &mediaRepoStub{
		createFn:   func(context.Context, *models.Media) error { return nil },
		getByIDFn:  func(context.Context, string) (*models.Media, error) { return nil, gorm.ErrRecordNotFound },
		getByIDsFn: func(context.Context, []string) ([]models.Media, error) { return nil, nil },
		deleteFn:   func(context.Context, string) error { return nil },
	}
}

func (s *mediaRepoStub) Create(ctx context.Context, m *models.Media) error {
	return s.createFn(ctx, m)
}
func (s *mediaRepoStub) GetByID(ctx context.Context, id string) (*models.Media, error) {
	return s.getByIDFn(ctx, id)
}
func (s *mediaRepoStub) GetByIDs(ctx context.Context, ids []string) ([]models.Media, error) {
	return s.getByIDsFn(ctx, ids)
}
func (s *mediaRepoStub) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

type notificationRepoStub struct {
	createFn          func(ctx context.Context, n *models.Notification) error
	getByIDFn         func(ctx context.Context, id string) (*models.Notification, error)
	setReadFn         func(ctx context.Context, id string, isRead bool) error
	listByRecipientFn func(ctx context.Context, recipientID string, limit, offset int) ([]models.Notification, error)
	countUnreadFn     func(ctx context.Context, recipientID string) (int64, error)
}

func noopNotificationRepo() *notificationRepoStub {
	return &notificationRepoStub{
		createFn: func(context.Context, *models.Notification) error { return nil },
		getByIDFn: func(context.Context, string) (*models.Notification, error) {
			return nil, gorm.ErrRecordNotFound
		},
		setReadFn: func(context.Context, string, bool) error { return nil },
		listByRecipientFn: func(context.Context, string, int, int) ([]models.Notification, error) {
			return nil, nil
		},
		countUnreadFn: func(context.Context, string) (int64, error) { return 0, nil },
	}
}

func (s *notificationRepoStub) Create(ctx context.Context, n *models.Notification) error {
	return s.createFn(ctx, n)
}
func (s *notificationRepoStub) GetByID(ctx context.Context, id string) (*models.Notification, error) {
	return s.getByIDFn(ctx, id)
}
func (s *notificationRepoStub) SetRead(ctx context.Context, id string, isRead bool) error {
	return s.setReadFn(ctx, id, isRead)
}
func (s *notificationRepoStub) ListByRecipient(ctx context.Context, recipientID string, limit, offset int) ([]models.Notification, error) {
	return s.listByRecipientFn(ctx, recipientID, limit, offset)
}
func (s *notificationRepoStub) CountUnread(ctx context.Context, recipientID string) (int64, error) {
	return s.countUnreadFn(ctx, recipientID)
}

type postRepoStub struct {
	createFn       func(ctx context.Context, p *models.Post) error
	getByIDFn      func(ctx context.Context, id string) (*models.Post, error)
	updateFn       func(ctx context.Context, p *models.Post) error
	deleteFn       func(ctx context.Context, id string) error
	listFn         func(ctx context.Context, limit, offset int) ([]*models.Post, error)
	listByAuthorFn func(ctx context.Context, authorID string, limit, offset int) ([]*models.Post, error)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:  func(context.Context, *models.Post) error { return nil },
		getByIDFn: func(context.Context, string) (*models.Post, error) { return nil, gorm.ErrRecordNotFound },
		updateFn:  func(context.Context, *models.Post) error { return nil },
		deleteFn:  func(context.Context, string) error { return nil },
		listFn:    func(context.Context, int, int) ([]*models.Post, error) { return nil, nil },
		listByAuthorFn: func(context.Context, string, int, int) ([]*models.Post, error) {
			return nil, nil
		},
	}
}

func (s *postRepoStub) Create(ctx context.Context, p *models.Post) error  { return s.createFn(ctx, p) }
func (s *postRepoStub) Update(ctx context.Context, p *models.Post) error  { return s.updateFn(ctx, p) }
func (s *postRepoStub) Delete(ctx context.Context, id string) error       { return s.deleteFn(ctx, id) }
func (s *postRepoStub) GetByID(ctx context.Context, id string) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) List(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	return s.listFn(ctx, limit, offset)
}
func (s *postRepoStub) ListByAuthor(ctx context.Context, authorID string, limit, offset int) ([]*models.Post, error) {
	return s.listByAuthorFn(ctx, authorID, limit, offset)
}

type bookmarkRepoStub struct {
	createFn     func(ctx context.Context, b *models.Bookmark) error
	deleteFn     func(ctx context.Context, userID, postID string) error
	getFn        func(ctx context.Context, userID, postID string) (*models.Bookmark, error)
	listByUserFn func(ctx context.Context, userID string, limit, offset int) ([]models.Bookmark, error)
}

func noopBookmarkRepo() *bookmarkRepoStub {
	return &bookmarkRepoStub{
		createFn: func(context.Context, *models.Bookmark) error { return nil },
		deleteFn: func(context.Context, string, string) error { return nil },
		getFn: func(_ context.Context, userID, postID string) (*models.Bookmark, error) {
			return &models.Bookmark{UserID: userID, PostID: postID}, nil
		},
		listByUserFn: func(context.Context, string, int, int) ([]models.Bookmark, error) {
			return nil, nil
		},
	}
}

func (s *bookmarkRepoStub) Create(ctx context.Context, b *models.Bookmark) error {
	return s.createFn(ctx, b)
}
func (s *bookmarkRepoStub) Delete(ctx context.Context, userID, postID string) error {
	return s.deleteFn(ctx, userID, postID)
}
func (s *bookmarkRepoStub) Get(ctx context.Context, userID, postID string) (*models.Bookmark, error) {
	return s.getFn(ctx, userID, postID)
}
func (s *bookmarkRepoStub) ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.Bookmark, error) {
	return s.listByUserFn(ctx, userID, limit, offset)
}

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T", err)
	require.Equal(t, code, appErr.Code)
}
