package app

import (
	"context"
	"os"
	"testing"
	"time"

	msgdomain "customs_clearance_service/internal/messaging/domain"
	shipdomain "customs_clearance_service/internal/shipment/domain"
	"customs_clearance_service/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestMain(m *testing.M) {
	logger.SetNewNop()
	os.Exit(m.Run())
}

// MockShipmentRepository Mock ShipmentRepository
type MockShipmentRepository struct {
	mock.Mock
}

// FindByID mock find shipment
func (m *MockShipmentRepository) FindByID(ctx context.Context, shipmentID string) (*shipdomain.Shipment, error) {
	args := m.Called(ctx, shipmentID)
	if args.Get(0) != nil {
		return args.Get(0).(*shipdomain.Shipment), args.Error(1)
	}
	return nil, args.Error(1)
}

// UpdateStatus mock status write
func (m *MockShipmentRepository) UpdateStatus(ctx context.Context, shipmentID, status string, at time.Time) error {
	args := m.Called(ctx, shipmentID, status, at)
	return args.Error(0)
}

// RecordSubmission mock SGD filing write
func (m *MockShipmentRepository) RecordSubmission(ctx context.Context, shipmentID string, sub shipdomain.SGDSubmission) error {
	args := m.Called(ctx, shipmentID, sub)
	return args.Error(0)
}

// AppendAnchor mock anchor append
func (m *MockShipmentRepository) AppendAnchor(ctx context.Context, shipmentID string, anchor shipdomain.Anchor) error {
	args := m.Called(ctx, shipmentID, anchor)
	return args.Error(0)
}

// SetComplianceScore mock score write
func (m *MockShipmentRepository) SetComplianceScore(ctx context.Context, shipmentID string, score int) error {
	args := m.Called(ctx, shipmentID, score)
	return args.Error(0)
}

// MockFlagMessenger Mock FlagMessenger
type MockFlagMessenger struct {
	mock.Mock
}

// EmitComplianceFlag mock room relay
func (m *MockFlagMessenger) EmitComplianceFlag(ctx context.Context, shipmentID string, flag msgdomain.ComplianceFlag) error {
	args := m.Called(ctx, shipmentID, flag)
	return args.Error(0)
}

func cleanShipment(shipmentID string) *shipdomain.Shipment {
	return &shipdomain.Shipment{
		ID:          shipmentID,
		BLNumber:    "BL-2026-001",
		FormMNumber: "MF-2026-001",
		Status:      shipdomain.StatusDraft,
		Items: []shipdomain.Item{
			{Name: "laptops", Description: "portable computers", HSCode: "8471.30", Value: 500, Quantity: 20},
		},
		DeclaredValue: 10000,
	}
}

func TestPrecheckUseCase_CleanShipmentScoresFull(t *testing.T) {
	ctx := context.Background()
	shipmentID := uuid.New().String()

	mockRepo := new(MockShipmentRepository)
	mockMessenger := new(MockFlagMessenger)

	mockRepo.On("FindByID", ctx, shipmentID).Return(cleanShipment(shipmentID), nil)
	mockRepo.On("SetComplianceScore", ctx, shipmentID, 100).Return(nil)

	uc := NewPrecheckUseCase(mockRepo, mockMessenger)
	result, err := uc.Run(ctx, shipmentID)

	assert.NoError(t, err)
	assert.Equal(t, 100, result.Score)
	assert.Empty(t, result.Flags)
	mockMessenger.AssertNotCalled(t, "EmitComplianceFlag", mock.Anything, mock.Anything, mock.Anything)
}

func TestPrecheckUseCase_MissingDocuments(t *testing.T) {
	ctx := context.Background()
	shipmentID := uuid.New().String()

	sh := cleanShipment(shipmentID)
	sh.BLNumber = ""
	sh.FormMNumber = ""

	mockRepo := new(MockShipmentRepository)
	mockMessenger := new(MockFlagMessenger)

	mockRepo.On("FindByID", ctx, shipmentID).Return(sh, nil)
	mockRepo.On("SetComplianceScore", ctx, shipmentID, 70).Return(nil)
	mockMessenger.On("EmitComplianceFlag", ctx, shipmentID, mock.Anything).Return(nil).Twice()

	uc := NewPrecheckUseCase(mockRepo, mockMessenger)
	result, err := uc.Run(ctx, shipmentID)

	assert.NoError(t, err)
	assert.Equal(t, 70, result.Score)
	assert.Len(t, result.Flags, 2)
	assert.Equal(t, "missing_field", result.Flags[0].Type)
	assert.Equal(t, "error", result.Flags[0].Severity)
	mockMessenger.AssertExpectations(t)
}

func TestPrecheckUseCase_HSCodeMismatch(t *testing.T) {
	ctx := context.Background()
	shipmentID := uuid.New().String()

	sh := cleanShipment(shipmentID)
	sh.Items = []shipdomain.Item{
		{Name: "used vehicle", HSCode: "8471.30", Value: 5000, Quantity: 2},
	}
	sh.DeclaredValue = 10000

	mockRepo := new(MockShipmentRepository)
	mockMessenger := new(MockFlagMessenger)

	mockRepo.On("FindByID", ctx, shipmentID).Return(sh, nil)
	mockRepo.On("SetComplianceScore", ctx, shipmentID, 85).Return(nil)

	var flag msgdomain.ComplianceFlag
	mockMessenger.On("EmitComplianceFlag", ctx, shipmentID, mock.Anything).
		Run(func(args mock.Arguments) { flag = args.Get(2).(msgdomain.ComplianceFlag) }).
		Return(nil)

	uc := NewPrecheckUseCase(mockRepo, mockMessenger)
	result, err := uc.Run(ctx, shipmentID)

	assert.NoError(t, err)
	assert.Equal(t, 85, result.Score)
	assert.Equal(t, "hs_code_mismatch", flag.Type)
	assert.Contains(t, flag.Details, "chapter 87")
}

func TestPrecheckUseCase_HSCodeMismatchDeterministicWording(t *testing.T) {
	ctx := context.Background()
	shipmentID := uuid.New().String()

	// matches both "electronic" (85) and "laptop" (84); the ordered keyword
	// table makes "electronic" win every run
	sh := cleanShipment(shipmentID)
	sh.Items = []shipdomain.Item{
		{Name: "electronic laptop", HSCode: "9999.00", Value: 500, Quantity: 20},
	}

	for i := 0; i < 10; i++ {
		mockRepo := new(MockShipmentRepository)
		mockMessenger := new(MockFlagMessenger)

		mockRepo.On("FindByID", ctx, shipmentID).Return(sh, nil)
		mockRepo.On("SetComplianceScore", ctx, shipmentID, 85).Return(nil)
		mockMessenger.On("EmitComplianceFlag", ctx, shipmentID, mock.Anything).Return(nil)

		uc := NewPrecheckUseCase(mockRepo, mockMessenger)
		result, err := uc.Run(ctx, shipmentID)

		assert.NoError(t, err)
		assert.Len(t, result.Flags, 1)
		assert.Contains(t, result.Flags[0].Details, "chapter 85")
	}
}

func TestPrecheckUseCase_ValuationAnomaly(t *testing.T) {
	ctx := context.Background()
	shipmentID := uuid.New().String()

	sh := cleanShipment(shipmentID)
	// items total 10000, declared far below
	sh.DeclaredValue = 2000

	mockRepo := new(MockShipmentRepository)
	mockMessenger := new(MockFlagMessenger)

	mockRepo.On("FindByID", ctx, shipmentID).Return(sh, nil)
	mockRepo.On("SetComplianceScore", ctx, shipmentID, 85).Return(nil)
	mockMessenger.On("EmitComplianceFlag", ctx, shipmentID, mock.Anything).Return(nil)

	uc := NewPrecheckUseCase(mockRepo, mockMessenger)
	result, err := uc.Run(ctx, shipmentID)

	assert.NoError(t, err)
	assert.Len(t, result.Flags, 1)
	assert.Equal(t, "valuation_anomaly", result.Flags[0].Type)
}

func TestPrecheckUseCase_ScoreFloorsAtZero(t *testing.T) {
	ctx := context.Background()
	shipmentID := uuid.New().String()

	sh := &shipdomain.Shipment{
		ID:     shipmentID,
		Status: shipdomain.StatusDraft,
		Items: []shipdomain.Item{
			{Name: "vehicle", HSCode: "8471.30", Value: 100, Quantity: 1},
			{Name: "phone", HSCode: "8703.23", Value: 100, Quantity: 1},
			{Name: "laptop", HSCode: "8703.23", Value: 100, Quantity: 1},
			{Name: "truck", HSCode: "8471.30", Value: 100, Quantity: 1},
			{Name: "electronics", HSCode: "8703.23", Value: 100, Quantity: 1},
		},
		DeclaredValue: 10,
	}

	mockRepo := new(MockShipmentRepository)
	mockMessenger := new(MockFlagMessenger)

	mockRepo.On("FindByID", ctx, shipmentID).Return(sh, nil)
	mockRepo.On("SetComplianceScore", ctx, shipmentID, 0).Return(nil)
	mockMessenger.On("EmitComplianceFlag", ctx, shipmentID, mock.Anything).Return(nil)

	uc := NewPrecheckUseCase(mockRepo, mockMessenger)
	result, err := uc.Run(ctx, shipmentID)

	assert.NoError(t, err)
	assert.Equal(t, 0, result.Score)

	// 2 missing documents + 5 mismatches + 1 valuation = 8 flags
	assert.Len(t, result.Flags, 8)
}

func TestPrecheckUseCase_MissingShipment(t *testing.T) {
	ctx := context.Background()
	shipmentID := uuid.New().String()

	mockRepo := new(MockShipmentRepository)
	mockRepo.On("FindByID", ctx, shipmentID).Return(nil, nil)

	uc := NewPrecheckUseCase(mockRepo, new(MockFlagMessenger))
	_, err := uc.Run(ctx, shipmentID)

	assert.ErrorIs(t, err, ErrShipmentNotFound)
}
