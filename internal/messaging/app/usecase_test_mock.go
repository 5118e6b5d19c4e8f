package app

import (
	"context"
	"io"
	"time"

	"customs_clearance_service/internal/messaging/domain"

	"github.com/stretchr/testify/mock"
)

// MockMessageRepository Mock MessageRepository
type MockMessageRepository struct {
	mock.Mock
}

// Insert mock insert message
func (m *MockMessageRepository) Insert(ctx context.Context, msg *domain.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// FindByID mock find message by id
func (m *MockMessageRepository) FindByID(ctx context.Context, messageID string) (*domain.Message, error) {
	args := m.Called(ctx, messageID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Message), args.Error(1)
	}
	return nil, args.Error(1)
}

// MarkSeen mock append read receipts
func (m *MockMessageRepository) MarkSeen(ctx context.Context, shipmentID string, messageIDs []string, userID string, at time.Time) (int64, error) {
	args := m.Called(ctx, shipmentID, messageIDs, userID, at)
	return args.Get(0).(int64), args.Error(1)
}

// FindHistory mock history page
func (m *MockMessageRepository) FindHistory(ctx context.Context, shipmentID string, q domain.HistoryQuery) ([]domain.Message, error) {
	args := m.Called(ctx, shipmentID, q)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.Message), args.Error(1)
	}
	return nil, args.Error(1)
}

// SoftDelete mock soft delete
func (m *MockMessageRepository) SoftDelete(ctx context.Context, messageID string, at time.Time) error {
	args := m.Called(ctx, messageID, at)
	return args.Error(0)
}

// MockShipmentRepository Mock ShipmentRepository
type MockShipmentRepository struct {
	mock.Mock
}

// FindByID mock find shipment without access check
func (m *MockShipmentRepository) FindByID(ctx context.Context, shipmentID string) (*domain.Shipment, error) {
	args := m.Called(ctx, shipmentID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Shipment), args.Error(1)
	}
	return nil, args.Error(1)
}

// FindWithAccess mock find shipment with access check
func (m *MockShipmentRepository) FindWithAccess(ctx context.Context, shipmentID, userID string) (*domain.Shipment, error) {
	args := m.Called(ctx, shipmentID, userID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Shipment), args.Error(1)
	}
	return nil, args.Error(1)
}

// FindAccessibleIDs mock list accessible shipment ids
func (m *MockShipmentRepository) FindAccessibleIDs(ctx context.Context, userID string, limit int64) ([]string, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) != nil {
		return args.Get(0).([]string), args.Error(1)
	}
	return nil, args.Error(1)
}

// RecordMessage mock last_message_at stamp plus unread bump
func (m *MockShipmentRepository) RecordMessage(ctx context.Context, shipmentID, senderID string, participantIDs []string, at time.Time) error {
	args := m.Called(ctx, shipmentID, senderID, participantIDs, at)
	return args.Error(0)
}

// ResetUnread mock unread reset
func (m *MockShipmentRepository) ResetUnread(ctx context.Context, shipmentID, userID string) error {
	args := m.Called(ctx, shipmentID, userID)
	return args.Error(0)
}

// FindUnreadSummaries mock unread summary rows
func (m *MockShipmentRepository) FindUnreadSummaries(ctx context.Context, userID string) ([]domain.ShipmentUnread, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.ShipmentUnread), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockNotificationRepository Mock NotificationRepository
type MockNotificationRepository struct {
	mock.Mock
}

// Insert mock insert notification
func (m *MockNotificationRepository) Insert(ctx context.Context, n *domain.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

// FindByUser mock list notifications
func (m *MockNotificationRepository) FindByUser(ctx context.Context, userID string, limit int64) ([]domain.Notification, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.Notification), args.Error(1)
	}
	return nil, args.Error(1)
}

// MarkRead mock mark notification read
func (m *MockNotificationRepository) MarkRead(ctx context.Context, notificationID, userID string) error {
	args := m.Called(ctx, notificationID, userID)
	return args.Error(0)
}

// MockRoomBackplane Mock RoomBackplane
type MockRoomBackplane struct {
	mock.Mock
}

// Publish mock publish
func (m *MockRoomBackplane) Publish(ctx context.Context, channel string, ev domain.RoomEvent) error {
	args := m.Called(ctx, channel, ev)
	return args.Error(0)
}

// Subscribe mock subscribe
func (m *MockRoomBackplane) Subscribe(ctx context.Context, channel string, handler func(domain.RoomEvent)) error {
	args := m.Called(ctx, channel, handler)
	return args.Error(0)
}

// MockAlertDispatcher Mock AlertDispatcher
type MockAlertDispatcher struct {
	mock.Mock
}

// Dispatch mock out-of-band alert
func (m *MockAlertDispatcher) Dispatch(alert domain.OutboundAlert) error {
	args := m.Called(alert)
	return args.Error(0)
}

// MockAuditRecorder Mock AuditRecorder
type MockAuditRecorder struct {
	mock.Mock
}

// Record mock audit write
func (m *MockAuditRecorder) Record(ctx context.Context, action, shipmentID, actorID string, details map[string]interface{}) {
	m.Called(ctx, action, shipmentID, actorID, details)
}

// MockUserDirectory Mock UserDirectory
type MockUserDirectory struct {
	mock.Mock
}

// ResolveUser mock identity lookup
func (m *MockUserDirectory) ResolveUser(ctx context.Context, userID string) (*domain.UserInfo, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.UserInfo), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockObjectStore Mock ObjectStore
type MockObjectStore struct {
	mock.Mock
}

// UploadObject mock binary upload
func (m *MockObjectStore) UploadObject(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error {
	args := m.Called(ctx, objectName, reader, size, contentType)
	return args.Error(0)
}

// PresignGetURL mock download link
func (m *MockObjectStore) PresignGetURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, objectName, expiry)
	return args.String(0), args.Error(1)
}
