package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	msgdomain "customs_clearance_service/internal/messaging/domain"
	shipdomain "customs_clearance_service/internal/shipment/domain"
	"customs_clearance_service/internal/shipment/repository"
	"customs_clearance_service/pkg/logger"

	"github.com/google/uuid"
)

// ErrShipmentNotFound the shipment id does not exist
var ErrShipmentNotFound = errors.New("shipment not found")

// scorePenalty points deducted per flag
const scorePenalty = 15

// hsKeywords goods keywords paired with the HS chapter their code must start
// with. A description naming the keyword under a different chapter raises a
// mismatch flag. Kept as an ordered slice so an item matching several
// keywords always yields the same flag wording.
var hsKeywords = []struct {
	keyword string
	chapter string
}{
	{"car", "87"},
	{"computer", "84"},
	{"electronic", "85"},
	{"electronics", "85"},
	{"laptop", "84"},
	{"phone", "85"},
	{"truck", "87"},
	{"vehicle", "87"},
}

// FlagMessenger posts compliance flags into the shipment's room; satisfied
// by the messaging context's system-message use case.
type FlagMessenger interface {
	EmitComplianceFlag(ctx context.Context, shipmentID string, flag msgdomain.ComplianceFlag) error
}

// PrecheckResult outcome of one compliance pre-check run
type PrecheckResult struct {
	Score int                        `json:"score"`
	Flags []msgdomain.ComplianceFlag `json:"flags"`
}

// PrecheckUseCase rule-based compliance screening of a declaration before
// it is filed. Each finding is persisted on the shipment as a score and
// relayed into the room as an ai_flag message.
type PrecheckUseCase struct {
	shipments repository.ShipmentRepository
	messenger FlagMessenger
}

// NewPrecheckUseCase create a PrecheckUseCase
func NewPrecheckUseCase(shipments repository.ShipmentRepository, messenger FlagMessenger) *PrecheckUseCase {
	return &PrecheckUseCase{
		shipments: shipments,
		messenger: messenger,
	}
}

// Run screens one shipment and returns its score and flags.
func (uc *PrecheckUseCase) Run(ctx context.Context, shipmentID string) (*PrecheckResult, error) {
	sh, err := uc.shipments.FindByID(ctx, shipmentID)
	if err != nil {
		return nil, err
	}
	if sh == nil {
		return nil, ErrShipmentNotFound
	}

	flags := append(completenessFlags(sh), hsCodeFlags(sh)...)
	flags = append(flags, valuationFlags(sh)...)

	score := 100 - scorePenalty*len(flags)
	if score < 0 {
		score = 0
	}

	if err := uc.shipments.SetComplianceScore(ctx, shipmentID, score); err != nil {
		return nil, err
	}

	for _, flag := range flags {
		if err := uc.messenger.EmitComplianceFlag(ctx, shipmentID, flag); err != nil {
			logger.Log.Errorf("compliance flag message for shipment %s failed: %v", shipmentID, err)
		}
	}

	return &PrecheckResult{Score: score, Flags: flags}, nil
}

func completenessFlags(sh *shipdomain.Shipment) []msgdomain.ComplianceFlag {
	var flags []msgdomain.ComplianceFlag
	if sh.BLNumber == "" {
		flags = append(flags, newFlag("missing_field", "Bill of Lading number is missing", 1.0, "error"))
	}
	if sh.FormMNumber == "" {
		flags = append(flags, newFlag("missing_field", "Form M number is missing", 1.0, "error"))
	}
	return flags
}

func hsCodeFlags(sh *shipdomain.Shipment) []msgdomain.ComplianceFlag {
	var flags []msgdomain.ComplianceFlag
	for _, item := range sh.Items {
		text := strings.ToLower(item.Name + " " + item.Description)
		for _, kw := range hsKeywords {
			if strings.Contains(text, kw.keyword) && !strings.HasPrefix(item.HSCode, kw.chapter) {
				flags = append(flags, newFlag("hs_code_mismatch",
					fmt.Sprintf("item %q suggests HS chapter %s but is declared as %s", item.Name, kw.chapter, item.HSCode),
					0.7, "warning"))
				break
			}
		}
	}
	return flags
}

// valuationFlags compares the declared total to the summed item values; a
// spread above 50% of the item total is anomalous.
func valuationFlags(sh *shipdomain.Shipment) []msgdomain.ComplianceFlag {
	var itemTotal float64
	for _, item := range sh.Items {
		itemTotal += item.Value * float64(item.Quantity)
	}
	if itemTotal == 0 || sh.DeclaredValue == 0 {
		return nil
	}

	spread := sh.DeclaredValue - itemTotal
	if spread < 0 {
		spread = -spread
	}
	if spread > itemTotal*0.5 {
		return []msgdomain.ComplianceFlag{newFlag("valuation_anomaly",
			fmt.Sprintf("declared value %.2f deviates from item total %.2f", sh.DeclaredValue, itemTotal),
			0.6, "warning")}
	}
	return nil
}

func newFlag(flagType, details string, confidence float64, severity string) msgdomain.ComplianceFlag {
	return msgdomain.ComplianceFlag{
		ID:         uuid.New().String(),
		Type:       flagType,
		Details:    details,
		Confidence: confidence,
		Severity:   severity,
	}
}
