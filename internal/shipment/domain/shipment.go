package domain

import "time"

// Shipment statuses, in clearance order
const (
	StatusDraft               = "DRAFT"
	StatusSGDSubmitted        = "SGD_SUBMITTED"
	StatusPAARApproved        = "PAAR_APPROVED"
	StatusPaymentReceived     = "PAYMENT_RECEIVED"
	StatusRiskGreen           = "RISK_GREEN"
	StatusRiskYellow          = "RISK_YELLOW"
	StatusRiskRed             = "RISK_RED"
	StatusInspectionScheduled = "INSPECTION_SCHEDULED"
	StatusExitNoteIssued      = "EXIT_NOTE_ISSUED"
	StatusCleared             = "CLEARED"
)

// statusTransitions allowed next statuses per current status. Risk lanes
// fan out of PAYMENT_RECEIVED; green skips inspection.
var statusTransitions = map[string][]string{
	StatusDraft:               {StatusSGDSubmitted},
	StatusSGDSubmitted:        {StatusPAARApproved},
	StatusPAARApproved:        {StatusPaymentReceived},
	StatusPaymentReceived:     {StatusRiskGreen, StatusRiskYellow, StatusRiskRed},
	StatusRiskGreen:           {StatusExitNoteIssued},
	StatusRiskYellow:          {StatusInspectionScheduled},
	StatusRiskRed:             {StatusInspectionScheduled},
	StatusInspectionScheduled: {StatusExitNoteIssued},
	StatusExitNoteIssued:      {StatusCleared},
}

// CanTransition reports whether from may move to to.
func CanTransition(from, to string) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Item one declared line of the shipment's goods
type Item struct {
	Name        string  `bson:"name" json:"name"`
	Description string  `bson:"description,omitempty" json:"description,omitempty"`
	HSCode      string  `bson:"hs_code" json:"hs_code"`
	Value       float64 `bson:"value" json:"value"`
	Quantity    int     `bson:"quantity" json:"quantity"`
}

// Anchor one hash-tree anchoring of the shipment's state
type Anchor struct {
	MerkleRoot string    `bson:"merkle_root" json:"merkle_root"`
	TxHash     string    `bson:"tx_hash" json:"tx_hash"`
	AnchoredBy string    `bson:"anchored_by" json:"anchored_by"`
	AnchoredAt time.Time `bson:"anchored_at" json:"anchored_at"`
}

// Shipment the workflow-side view of a shipment record. The messaging
// context reads the same collection through its own projection.
type Shipment struct {
	ID                string     `bson:"_id" json:"id"`
	BLNumber          string     `bson:"bl_number" json:"bl_number"`
	FormMNumber       string     `bson:"form_m_number,omitempty" json:"form_m_number,omitempty"`
	Status            string     `bson:"status" json:"status"`
	CreatedBy         string     `bson:"created_by" json:"created_by"`
	AssignedOfficerID string     `bson:"assigned_officer_id,omitempty" json:"assigned_officer_id,omitempty"`
	Items             []Item     `bson:"items,omitempty" json:"items,omitempty"`
	DeclaredValue     float64    `bson:"declared_value" json:"declared_value"`
	ComplianceScore   *int       `bson:"compliance_score,omitempty" json:"compliance_score,omitempty"`
	Anchors           []Anchor   `bson:"anchors,omitempty" json:"anchors,omitempty"`
	SGDNumber         string     `bson:"sgd_number,omitempty" json:"sgd_number,omitempty"`
	UpdatedAt         time.Time  `bson:"updated_at" json:"updated_at"`
	SubmittedAt       *time.Time `bson:"submitted_at,omitempty" json:"submitted_at,omitempty"`
}

// SGDSubmission result of a single goods declaration filing
type SGDSubmission struct {
	SGDNumber   string    `json:"sgd_number"`
	SubmittedAt time.Time `json:"submitted_at"`
}
