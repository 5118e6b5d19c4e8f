package app

import (
	"context"
	"time"

	"customs_clearance_service/internal/shipment/domain"

	"github.com/stretchr/testify/mock"
)

// MockShipmentRepository Mock ShipmentRepository
type MockShipmentRepository struct {
	mock.Mock
}

// FindByID mock find shipment
func (m *MockShipmentRepository) FindByID(ctx context.Context, shipmentID string) (*domain.Shipment, error) {
	args := m.Called(ctx, shipmentID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Shipment), args.Error(1)
	}
	return nil, args.Error(1)
}

// UpdateStatus mock status write
func (m *MockShipmentRepository) UpdateStatus(ctx context.Context, shipmentID, status string, at time.Time) error {
	args := m.Called(ctx, shipmentID, status, at)
	return args.Error(0)
}

// RecordSubmission mock SGD filing write
func (m *MockShipmentRepository) RecordSubmission(ctx context.Context, shipmentID string, sub domain.SGDSubmission) error {
	args := m.Called(ctx, shipmentID, sub)
	return args.Error(0)
}

// AppendAnchor mock anchor append
func (m *MockShipmentRepository) AppendAnchor(ctx context.Context, shipmentID string, anchor domain.Anchor) error {
	args := m.Called(ctx, shipmentID, anchor)
	return args.Error(0)
}

// SetComplianceScore mock score write
func (m *MockShipmentRepository) SetComplianceScore(ctx context.Context, shipmentID string, score int) error {
	args := m.Called(ctx, shipmentID, score)
	return args.Error(0)
}

// MockNICISClient Mock NICISClient
type MockNICISClient struct {
	mock.Mock
}

// SubmitSGD mock single-window filing
func (m *MockNICISClient) SubmitSGD(ctx context.Context, sh *domain.Shipment) (*domain.SGDSubmission, error) {
	args := m.Called(ctx, sh)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.SGDSubmission), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockStatusMessenger Mock StatusMessenger
type MockStatusMessenger struct {
	mock.Mock
}

// EmitStatusUpdate mock room announcement
func (m *MockStatusMessenger) EmitStatusUpdate(ctx context.Context, shipmentID, oldStatus, newStatus, actorID string) error {
	args := m.Called(ctx, shipmentID, oldStatus, newStatus, actorID)
	return args.Error(0)
}

// MockAuditRecorder Mock AuditRecorder
type MockAuditRecorder struct {
	mock.Mock
}

// Record mock audit append
func (m *MockAuditRecorder) Record(ctx context.Context, action, shipmentID, actorID string, details map[string]interface{}) {
	m.Called(ctx, action, shipmentID, actorID, details)
}
