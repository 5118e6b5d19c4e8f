package app

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"customs_clearance_service/internal/messaging/domain"
	"customs_clearance_service/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestMain(m *testing.M) {
	logger.SetNewNop()
	os.Exit(m.Run())
}

func testShipment(shipmentID, senderID string, others ...string) *domain.Shipment {
	sh := &domain.Shipment{
		ID:       shipmentID,
		BLNumber: "BL-1001",
		Participants: []domain.Participant{
			{UserID: senderID, Role: "agent"},
		},
	}
	for _, id := range others {
		sh.Participants = append(sh.Participants, domain.Participant{UserID: id, Role: "officer"})
	}
	return sh
}

func TestMessageUseCase_Send(t *testing.T) {
	ctx := context.Background()
	shipmentID := uuid.New().String()
	senderID := uuid.New().String()
	identity := domain.Identity{UserID: senderID, Role: "agent"}

	mockMsgRepo := new(MockMessageRepository)
	mockShipRepo := new(MockShipmentRepository)
	mockUsers := new(MockUserDirectory)

	mockShipRepo.On("FindWithAccess", ctx, shipmentID, senderID).
		Return(testShipment(shipmentID, senderID, "officer-1", "officer-2"), nil)
	mockUsers.On("ResolveUser", ctx, senderID).
		Return(&domain.UserInfo{ID: senderID, Name: "Ada", Role: "agent", Active: true}, nil)
	mockMsgRepo.On("Insert", ctx, mock.Anything).Return(nil)
	mockShipRepo.On("RecordMessage", ctx, shipmentID, senderID, []string{"officer-1", "officer-2"}, mock.Anything).Return(nil)

	uc := NewMessageUseCase(mockMsgRepo, mockShipRepo, NewRoomUseCase(mockShipRepo), mockUsers, nil)
	msg, recipients, err := uc.Send(ctx, identity, domain.SendMessageInput{
		ShipmentID: shipmentID,
		Body:       "BL documents uploaded",
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, msg.ID)
	assert.Equal(t, domain.MessageTypeUser, msg.MessageType)
	assert.Equal(t, domain.PriorityNormal, msg.Priority)
	assert.Equal(t, []string{"officer-1", "officer-2"}, recipients)

	// the sender has seen their own message from the start
	assert.Len(t, msg.SeenBy, 1)
	assert.Equal(t, senderID, msg.SeenBy[0].UserID)

	mockMsgRepo.AssertExpectations(t)
	mockShipRepo.AssertExpectations(t)
	mockUsers.AssertExpectations(t)
}

func TestMessageUseCase_Send_SanitizesBody(t *testing.T) {
	ctx := context.Background()
	shipmentID := uuid.New().String()
	senderID := uuid.New().String()
	identity := domain.Identity{UserID: senderID, Role: "agent"}

	mockMsgRepo := new(MockMessageRepository)
	mockShipRepo := new(MockShipmentRepository)
	mockUsers := new(MockUserDirectory)

	mockShipRepo.On("FindWithAccess", ctx, shipmentID, senderID).
		Return(testShipment(shipmentID, senderID), nil)
	mockUsers.On("ResolveUser", ctx, senderID).
		Return(&domain.UserInfo{ID: senderID, Name: "Ada", Role: "agent", Active: true}, nil)
	mockMsgRepo.On("Insert", ctx, mock.Anything).Return(nil)
	mockShipRepo.On("RecordMessage", ctx, shipmentID, senderID, []string{}, mock.Anything).Return(nil)

	uc := NewMessageUseCase(mockMsgRepo, mockShipRepo, NewRoomUseCase(mockShipRepo), mockUsers, nil)
	msg, _, err := uc.Send(ctx, identity, domain.SendMessageInput{
		ShipmentID: shipmentID,
		Body:       `hello <script>alert("x")</script>`,
	})

	assert.NoError(t, err)
	assert.Equal(t, "hello", msg.Body)
}

func TestMessageUseCase_Send_AccessDenied(t *testing.T) {
	ctx := context.Background()
	shipmentID := uuid.New().String()
	identity := domain.Identity{UserID: "outsider", Role: "agent"}

	mockMsgRepo := new(MockMessageRepository)
	mockShipRepo := new(MockShipmentRepository)
	mockUsers := new(MockUserDirectory)

	mockShipRepo.On("FindWithAccess", ctx, shipmentID, "outsider").Return(nil, nil)

	uc := NewMessageUseCase(mockMsgRepo, mockShipRepo, NewRoomUseCase(mockShipRepo), mockUsers, nil)
	_, _, err := uc.Send(ctx, identity, domain.SendMessageInput{
		ShipmentID: shipmentID,
		Body:       "hello",
	})

	assert.ErrorIs(t, err, domain.ErrAccessDenied)
	mockMsgRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestMessageUseCase_Send_EmptyBody(t *testing.T) {
	ctx := context.Background()
	shipmentID := uuid.New().String()
	senderID := uuid.New().String()
	identity := domain.Identity{UserID: senderID, Role: "agent"}

	mockMsgRepo := new(MockMessageRepository)
	mockShipRepo := new(MockShipmentRepository)
	mockUsers := new(MockUserDirectory)

	mockShipRepo.On("FindWithAccess", ctx, shipmentID, senderID).
		Return(testShipment(shipmentID, senderID), nil)

	uc := NewMessageUseCase(mockMsgRepo, mockShipRepo, NewRoomUseCase(mockShipRepo), mockUsers, nil)
	_, _, err := uc.Send(ctx, identity, domain.SendMessageInput{
		ShipmentID: shipmentID,
		Body:       "  <script>only markup</script>  ",
	})

	assert.ErrorIs(t, err, ErrEmptyMessage)
}

func TestMessageUseCase_Send_InactiveSender(t *testing.T) {
	ctx := context.Background()
	shipmentID := uuid.New().String()
	senderID := uuid.New().String()
	identity := domain.Identity{UserID: senderID, Role: "agent"}

	mockMsgRepo := new(MockMessageRepository)
	mockShipRepo := new(MockShipmentRepository)
	mockUsers := new(MockUserDirectory)

	mockShipRepo.On("FindWithAccess", ctx, shipmentID, senderID).
		Return(testShipment(shipmentID, senderID), nil)
	mockUsers.On("ResolveUser", ctx, senderID).
		Return(&domain.UserInfo{ID: senderID, Active: false}, nil)

	uc := NewMessageUseCase(mockMsgRepo, mockShipRepo, NewRoomUseCase(mockShipRepo), mockUsers, nil)
	_, _, err := uc.Send(ctx, identity, domain.SendMessageInput{
		ShipmentID: shipmentID,
		Body:       "hello",
	})

	assert.ErrorIs(t, err, ErrUnknownSender)
}

func TestMessageUseCase_ReadMessages(t *testing.T) {
	ctx := context.Background()
	shipmentID := uuid.New().String()
	userID := uuid.New().String()
	identity := domain.Identity{UserID: userID, Role: "officer"}
	messageIDs := []string{uuid.New().String(), uuid.New().String()}

	mockMsgRepo := new(MockMessageRepository)
	mockShipRepo := new(MockShipmentRepository)

	mockMsgRepo.On("MarkSeen", ctx, shipmentID, messageIDs, userID, mock.Anything).Return(int64(2), nil)
	mockShipRepo.On("ResetUnread", ctx, shipmentID, userID).Return(nil)

	uc := NewMessageUseCase(mockMsgRepo, mockShipRepo, NewRoomUseCase(mockShipRepo), nil, nil)
	modified, readAt, err := uc.ReadMessages(ctx, identity, shipmentID, messageIDs)

	assert.NoError(t, err)
	assert.Equal(t, int64(2), modified)
	assert.WithinDuration(t, time.Now(), readAt, time.Second)

	mockMsgRepo.AssertExpectations(t)
	mockShipRepo.AssertExpectations(t)
}

func TestMessageUseCase_ReadMessages_ResetEvenWhenNothingNew(t *testing.T) {
	ctx := context.Background()
	shipmentID := uuid.New().String()
	userID := uuid.New().String()
	identity := domain.Identity{UserID: userID, Role: "officer"}
	messageIDs := []string{uuid.New().String()}

	mockMsgRepo := new(MockMessageRepository)
	mockShipRepo := new(MockShipmentRepository)

	// resubmitted receipts modify nothing, the counter still resets
	mockMsgRepo.On("MarkSeen", ctx, shipmentID, messageIDs, userID, mock.Anything).Return(int64(0), nil)
	mockShipRepo.On("ResetUnread", ctx, shipmentID, userID).Return(nil)

	uc := NewMessageUseCase(mockMsgRepo, mockShipRepo, NewRoomUseCase(mockShipRepo), nil, nil)
	modified, _, err := uc.ReadMessages(ctx, identity, shipmentID, messageIDs)

	assert.NoError(t, err)
	assert.Equal(t, int64(0), modified)
	mockShipRepo.AssertExpectations(t)
}

func TestMessageUseCase_History(t *testing.T) {
	ctx := context.Background()
	shipmentID := uuid.New().String()
	userID := uuid.New().String()
	identity := domain.Identity{UserID: userID, Role: "agent"}

	mockMsgRepo := new(MockMessageRepository)
	mockShipRepo := new(MockShipmentRepository)

	mockShipRepo.On("FindWithAccess", ctx, shipmentID, userID).
		Return(testShipment(shipmentID, userID), nil)

	page := make([]domain.Message, defaultHistoryLimit)
	for i := range page {
		page[i] = domain.Message{ID: uuid.New().String(), ShipmentID: shipmentID}
	}
	mockMsgRepo.On("FindHistory", ctx, shipmentID, domain.HistoryQuery{Limit: defaultHistoryLimit}).Return(page, nil)

	uc := NewMessageUseCase(mockMsgRepo, mockShipRepo, NewRoomUseCase(mockShipRepo), nil, nil)
	messages, hasMore, err := uc.History(ctx, identity, shipmentID, domain.HistoryQuery{})

	assert.NoError(t, err)
	assert.Len(t, messages, defaultHistoryLimit)
	assert.True(t, hasMore)
}

func TestMessageUseCase_History_CapsLimit(t *testing.T) {
	ctx := context.Background()
	shipmentID := uuid.New().String()
	userID := uuid.New().String()
	identity := domain.Identity{UserID: userID, Role: "agent"}

	mockMsgRepo := new(MockMessageRepository)
	mockShipRepo := new(MockShipmentRepository)

	mockShipRepo.On("FindWithAccess", ctx, shipmentID, userID).
		Return(testShipment(shipmentID, userID), nil)
	mockMsgRepo.On("FindHistory", ctx, shipmentID, domain.HistoryQuery{Limit: maxHistoryLimit}).
		Return([]domain.Message{}, nil)

	uc := NewMessageUseCase(mockMsgRepo, mockShipRepo, NewRoomUseCase(mockShipRepo), nil, nil)
	_, hasMore, err := uc.History(ctx, identity, shipmentID, domain.HistoryQuery{Limit: 1000})

	assert.NoError(t, err)
	assert.False(t, hasMore)
	mockMsgRepo.AssertExpectations(t)
}

func TestMessageUseCase_DeleteMessage(t *testing.T) {
	ctx := context.Background()
	messageID := uuid.New().String()
	senderID := uuid.New().String()

	mockMsgRepo := new(MockMessageRepository)
	mockMsgRepo.On("FindByID", ctx, messageID).
		Return(&domain.Message{ID: messageID, SenderID: senderID}, nil)
	mockMsgRepo.On("SoftDelete", ctx, messageID, mock.Anything).Return(nil)

	uc := NewMessageUseCase(mockMsgRepo, nil, nil, nil, nil)
	err := uc.DeleteMessage(ctx, domain.Identity{UserID: senderID, Role: "agent"}, messageID)

	assert.NoError(t, err)
	mockMsgRepo.AssertExpectations(t)
}

func TestMessageUseCase_DeleteMessage_OnlySenderOrAdmin(t *testing.T) {
	ctx := context.Background()
	messageID := uuid.New().String()

	mockMsgRepo := new(MockMessageRepository)
	mockMsgRepo.On("FindByID", ctx, messageID).
		Return(&domain.Message{ID: messageID, SenderID: "someone-else"}, nil)

	uc := NewMessageUseCase(mockMsgRepo, nil, nil, nil, nil)
	err := uc.DeleteMessage(ctx, domain.Identity{UserID: "not-the-sender", Role: "agent"}, messageID)

	assert.ErrorIs(t, err, domain.ErrAccessDenied)
	mockMsgRepo.AssertNotCalled(t, "SoftDelete", mock.Anything, mock.Anything, mock.Anything)
}

func TestMessageUseCase_DeleteMessage_AdminOverride(t *testing.T) {
	ctx := context.Background()
	messageID := uuid.New().String()

	mockMsgRepo := new(MockMessageRepository)
	mockMsgRepo.On("FindByID", ctx, messageID).
		Return(&domain.Message{ID: messageID, SenderID: "someone-else"}, nil)
	mockMsgRepo.On("SoftDelete", ctx, messageID, mock.Anything).Return(nil)

	uc := NewMessageUseCase(mockMsgRepo, nil, nil, nil, nil)
	err := uc.DeleteMessage(ctx, domain.Identity{UserID: "admin-1", Role: "admin"}, messageID)

	assert.NoError(t, err)
}

func TestMessageUseCase_Send_StoreFailure(t *testing.T) {
	ctx := context.Background()
	shipmentID := uuid.New().String()
	senderID := uuid.New().String()
	identity := domain.Identity{UserID: senderID, Role: "agent"}

	mockMsgRepo := new(MockMessageRepository)
	mockShipRepo := new(MockShipmentRepository)
	mockUsers := new(MockUserDirectory)

	mockShipRepo.On("FindWithAccess", ctx, shipmentID, senderID).
		Return(testShipment(shipmentID, senderID), nil)
	mockUsers.On("ResolveUser", ctx, senderID).
		Return(&domain.UserInfo{ID: senderID, Name: "Ada", Role: "agent", Active: true}, nil)
	mockMsgRepo.On("Insert", ctx, mock.Anything).Return(errors.New("write concern timeout"))

	uc := NewMessageUseCase(mockMsgRepo, mockShipRepo, NewRoomUseCase(mockShipRepo), mockUsers, nil)
	_, _, err := uc.Send(ctx, identity, domain.SendMessageInput{ShipmentID: shipmentID, Body: "hello"})

	assert.Error(t, err)
	mockShipRepo.AssertNotCalled(t, "RecordMessage", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestMessageUseCase_Send_StoreFailureAudited(t *testing.T) {
	ctx := context.Background()
	shipmentID := uuid.New().String()
	senderID := uuid.New().String()
	identity := domain.Identity{UserID: senderID, Role: "agent"}

	mockMsgRepo := new(MockMessageRepository)
	mockShipRepo := new(MockShipmentRepository)
	mockUsers := new(MockUserDirectory)
	mockAudit := new(MockAuditRecorder)

	mockShipRepo.On("FindWithAccess", ctx, shipmentID, senderID).
		Return(testShipment(shipmentID, senderID), nil)
	mockUsers.On("ResolveUser", ctx, senderID).
		Return(&domain.UserInfo{ID: senderID, Name: "Ada", Role: "agent", Active: true}, nil)
	mockMsgRepo.On("Insert", ctx, mock.Anything).Return(errors.New("write concern timeout"))
	mockAudit.On("Record", ctx, "message_send_failed", shipmentID, senderID, mock.Anything)

	uc := NewMessageUseCase(mockMsgRepo, mockShipRepo, NewRoomUseCase(mockShipRepo), mockUsers, mockAudit)
	_, _, err := uc.Send(ctx, identity, domain.SendMessageInput{ShipmentID: shipmentID, Body: "hello"})

	assert.Error(t, err)
	mockAudit.AssertCalled(t, "Record", ctx, "message_send_failed", shipmentID, senderID, mock.Anything)
}
