package app

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"customs_clearance_service/internal/messaging/domain"
	"customs_clearance_service/internal/messaging/repository"
	"customs_clearance_service/pkg/logger"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const pingInterval = 10 * time.Minute

// MessagingWebsocketHandler owns the websocket entry point and fans inbound
// events out to the use cases.
type MessagingWebsocketHandler struct {
	roomUC         *RoomUseCase
	messageUC      *MessageUseCase
	notificationUC *NotificationUseCase
	backplane      repository.RoomBackplane
}

// NewMessagingWebsocketHandler create a MessagingWebsocketHandler
func NewMessagingWebsocketHandler(
	roomUC *RoomUseCase,
	messageUC *MessageUseCase,
	notificationUC *NotificationUseCase,
	backplane repository.RoomBackplane,
) *MessagingWebsocketHandler {
	return &MessagingWebsocketHandler{
		roomUC:         roomUC,
		messageUC:      messageUC,
		notificationUC: notificationUC,
		backplane:      backplane,
	}
}

// socketWriter write half of the websocket connection
type socketWriter interface {
	WriteMessage(messageType int, data []byte) error
}

// session one live websocket connection. Backplane subscriptions run in
// their own goroutines and write to the socket concurrently with the read
// loop's replies, so every write goes through writeMu.
type session struct {
	conn     socketWriter
	identity domain.Identity

	writeMu sync.Mutex

	subMu sync.Mutex
	subs  map[string]context.CancelFunc
}

// HandleConnection runs one websocket connection to completion. The caller
// has already authenticated the socket; identity comes from its locals.
func (h *MessagingWebsocketHandler) HandleConnection(ctx context.Context, conn *websocket.Conn, identity domain.Identity) {
	identity.ConnectionID = uuid.New().String()

	s := &session{
		conn:     conn,
		identity: identity,
		subs:     make(map[string]context.CancelFunc),
	}

	logger.Log.Info("websocket connected",
		zap.String("userID", identity.UserID),
		zap.String("connID", identity.ConnectionID))

	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		s.leaveAll()
		conn.Close()
		logger.Log.Info("websocket closed",
			zap.String("userID", identity.UserID),
			zap.String("connID", identity.ConnectionID))
	}()

	conn.SetPingHandler(func(appData string) error {
		return conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(time.Second))
	})

	h.autoJoin(ctx, s)

	closeCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// keepalive ping loop
	go func() {
		for {
			select {
			case <-ticker.C:
				s.writeMu.Lock()
				err := conn.WriteMessage(websocket.PingMessage, []byte("ping"))
				s.writeMu.Unlock()
				if err != nil {
					logger.Log.Errorf("ping error: %v", err)
					return
				}
			case <-closeCtx.Done():
				return
			}
		}
	}()

	for {
		mt, raw, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived,
			) {
				logger.Log.Errorf("websocket read error: %v", err)
			}
			return
		}
		if mt != websocket.TextMessage {
			s.sendError(domain.ErrorPayload{Message: "unsupported message type", Code: domain.CodeInvalidPayload})
			continue
		}
		h.dispatch(ctx, s, raw)
	}
}

// autoJoin places a fresh connection into its accessible rooms.
func (h *MessagingWebsocketHandler) autoJoin(ctx context.Context, s *session) {
	ids, err := h.roomUC.AccessibleShipmentIDs(ctx, s.identity.UserID)
	if err != nil {
		logger.Log.Errorf("auto-join lookup for %s failed: %v", s.identity.UserID, err)
		return
	}
	for _, shipmentID := range ids {
		h.joinRoom(s, shipmentID)
	}
}

func (h *MessagingWebsocketHandler) dispatch(ctx context.Context, s *session, raw []byte) {
	var req domain.WSRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		s.sendError(domain.ErrorPayload{Message: "malformed payload", Code: domain.CodeInvalidPayload})
		return
	}

	switch req.Event {
	case domain.EventJoinShipment:
		h.handleJoin(ctx, s, req)

	case domain.EventMessageSend:
		h.handleSend(ctx, s, req)

	case domain.EventMessageRead:
		h.handleRead(ctx, s, req)

	case domain.EventTypingStart, domain.EventTypingStop:
		h.handleTyping(ctx, s, req)

	default:
		s.sendError(domain.ErrorPayload{Message: "unknown event", Code: domain.CodeInvalidPayload})
	}
}

// handleJoin re-checks access on every explicit join; membership may have
// changed since the connection was opened.
func (h *MessagingWebsocketHandler) handleJoin(ctx context.Context, s *session, req domain.WSRequest) {
	if req.ShipmentID == "" {
		s.sendError(domain.ErrorPayload{Message: "shipment_id is required", Code: domain.CodeInvalidPayload})
		return
	}
	if _, err := h.roomUC.Authorize(ctx, req.ShipmentID, s.identity); err != nil {
		s.sendError(domain.ErrorPayload{Message: "Access denied to this shipment", Code: domain.CodeAccessDenied})
		return
	}

	h.joinRoom(s, req.ShipmentID)
	s.send(domain.WSEvent{Event: domain.EventJoinedShipment, Payload: domain.JoinedPayload{ShipmentID: req.ShipmentID}})
}

func (h *MessagingWebsocketHandler) handleSend(ctx context.Context, s *session, req domain.WSRequest) {
	msg, recipients, err := h.messageUC.Send(ctx, s.identity, domain.SendMessageInput{
		ShipmentID:      req.ShipmentID,
		Body:            req.Body,
		Attachments:     req.Attachments,
		ThreadID:        req.ThreadID,
		ParentMessageID: req.ParentMessageID,
		Priority:        req.Priority,
	})
	if err != nil {
		s.sendError(sendErrorPayload(err))
		return
	}

	// everyone in the room gets the broadcast, the sender included
	ev, err := domain.NewRoomEvent(domain.EventMessageReceived, s.identity.ConnectionID, false, domain.MessageReceivedPayload{Message: msg})
	if err != nil {
		logger.Log.Errorf("envelope for message %s failed: %v", msg.ID, err)
	} else if pubErr := h.backplane.Publish(ctx, repository.RoomChannel(msg.ShipmentID), ev); pubErr != nil {
		logger.Log.Errorf("broadcast of message %s failed: %v", msg.ID, pubErr)
	}

	s.send(domain.WSEvent{Event: domain.EventMessageSent, Payload: domain.MessageSentPayload{MessageID: msg.ID, SentAt: msg.SentAt}})

	h.notificationUC.FanOut(ctx, msg, recipients)
}

func (h *MessagingWebsocketHandler) handleRead(ctx context.Context, s *session, req domain.WSRequest) {
	if req.ShipmentID == "" || len(req.MessageIDs) == 0 {
		s.sendError(domain.ErrorPayload{Message: "shipment_id and message_ids are required", Code: domain.CodeInvalidPayload})
		return
	}

	modified, readAt, err := h.messageUC.ReadMessages(ctx, s.identity, req.ShipmentID, req.MessageIDs)
	if err != nil {
		logger.Log.Errorf("read receipt for %s failed: %v", s.identity.UserID, err)
		s.sendError(domain.ErrorPayload{Message: "Failed to record read receipts", Code: domain.CodeSendFailed})
		return
	}
	if modified == 0 {
		return
	}

	// the reader's own connections get the receipt too, so every open tab
	// converges on the same seen state
	ev, err := domain.NewRoomEvent(domain.EventReadReceipt, s.identity.ConnectionID, false, domain.ReadReceiptPayload{
		MessageIDs: req.MessageIDs,
		UserID:     s.identity.UserID,
		ReadAt:     readAt,
	})
	if err != nil {
		logger.Log.Errorf("read receipt envelope failed: %v", err)
		return
	}
	if err := h.backplane.Publish(ctx, repository.RoomChannel(req.ShipmentID), ev); err != nil {
		logger.Log.Errorf("read receipt broadcast failed: %v", err)
	}
}

// handleTyping relays typing state to the rest of the room without touching
// the store. Only joined rooms relay; a typing event for a room the
// connection never joined is dropped.
func (h *MessagingWebsocketHandler) handleTyping(ctx context.Context, s *session, req domain.WSRequest) {
	if !s.joined(req.ShipmentID) {
		return
	}

	outEvent := domain.EventTyping
	if req.Event == domain.EventTypingStop {
		outEvent = domain.EventTypingStop
	}

	ev, err := domain.NewRoomEvent(outEvent, s.identity.ConnectionID, true, domain.TypingPayload{
		UserID:     s.identity.UserID,
		ShipmentID: req.ShipmentID,
	})
	if err != nil {
		logger.Log.Errorf("typing envelope failed: %v", err)
		return
	}
	if err := h.backplane.Publish(ctx, repository.RoomChannel(req.ShipmentID), ev); err != nil {
		logger.Log.Errorf("typing relay failed: %v", err)
	}
}

// joinRoom subscribes the session to the room's backplane channel. Joining
// a room twice is a no-op.
func (h *MessagingWebsocketHandler) joinRoom(s *session, shipmentID string) {
	s.subMu.Lock()
	if _, ok := s.subs[shipmentID]; ok {
		s.subMu.Unlock()
		return
	}
	subCtx, cancel := context.WithCancel(context.Background())
	s.subs[shipmentID] = cancel
	s.subMu.Unlock()

	go func() {
		err := h.backplane.Subscribe(subCtx, repository.RoomChannel(shipmentID), func(ev domain.RoomEvent) {
			if ev.ExcludeOrigin && ev.Origin == s.identity.ConnectionID {
				return
			}
			s.send(domain.WSEvent{Event: ev.Event, Payload: json.RawMessage(ev.Payload)})
		})
		if err != nil {
			logger.Log.Errorf("room subscription %s for %s failed: %v", shipmentID, s.identity.UserID, err)
		}
	}()
}

func (s *session) joined(shipmentID string) bool {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	_, ok := s.subs[shipmentID]
	return ok
}

func (s *session) leaveAll() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for id, cancel := range s.subs {
		cancel()
		delete(s.subs, id)
	}
}

func (s *session) send(ev domain.WSEvent) {
	b, err := json.Marshal(ev)
	if err != nil {
		logger.Log.Errorf("marshal outbound event failed: %v", err)
		return
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.WriteMessage(websocket.TextMessage, b); err != nil {
		logger.Log.Errorf("write message error: %v", err)
	}
}

func (s *session) sendError(p domain.ErrorPayload) {
	s.send(domain.WSEvent{Event: domain.EventError, Payload: p})
}

// sendErrorPayload maps use-case failures onto stable client-facing codes.
func sendErrorPayload(err error) domain.ErrorPayload {
	switch {
	case errors.Is(err, domain.ErrAccessDenied):
		return domain.ErrorPayload{Message: "Access denied to this shipment", Code: domain.CodeAccessDenied}
	case errors.Is(err, ErrEmptyMessage), errors.Is(err, ErrUnknownSender):
		return domain.ErrorPayload{Message: err.Error(), Code: domain.CodeInvalidPayload}
	default:
		return domain.ErrorPayload{Message: "Failed to send message", Code: domain.CodeSendFailed}
	}
}
