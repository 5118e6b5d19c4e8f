package repository

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"customs_clearance_service/internal/shipment/domain"
)

// ErrNICISRejected the single window rejected the declaration
var ErrNICISRejected = errors.New("NICIS rejected the declaration")

// NICISClient files single goods declarations with the national single
// window. The real integration is not yet available; the mock accepts any
// declaration whose BL number does not start with "ERR".
type NICISClient interface {
	SubmitSGD(ctx context.Context, sh *domain.Shipment) (*domain.SGDSubmission, error)
}

type mockNICISClient struct{}

// NewMockNICISClient create the mock single-window client
func NewMockNICISClient() NICISClient {
	return &mockNICISClient{}
}

func (c *mockNICISClient) SubmitSGD(ctx context.Context, sh *domain.Shipment) (*domain.SGDSubmission, error) {
	// simulate network latency of the single window
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(100 * time.Millisecond):
	}

	if strings.HasPrefix(sh.BLNumber, "ERR") {
		return nil, ErrNICISRejected
	}

	return &domain.SGDSubmission{
		SGDNumber:   fmt.Sprintf("SGD-%d-%06d", time.Now().Year(), rand.Intn(1000000)),
		SubmittedAt: time.Now().UTC(),
	}, nil
}
