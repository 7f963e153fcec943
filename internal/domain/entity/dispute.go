package entity

import (
	"time"
)

type DisputeStatus string

const (
	DisputeStatusOpen            DisputeStatus = "OPEN"
	DisputeStatusSellerResponded DisputeStatus = "SELLER_RESPONDED"
	DisputeStatusUnderReview     DisputeStatus = "UNDER_REVIEW"
	DisputeStatusResolvedClient  DisputeStatus = "RESOLVED_CLIENT"
	DisputeStatusResolvedSeller  DisputeStatus = "RESOLVED_SELLER"
	DisputeStatusRejected        DisputeStatus = "REJECTED"
)

// IsTerminal reports whether no further transition may leave this status.
func (s DisputeStatus) IsTerminal() bool {
	switch s {
	case DisputeStatusResolvedClient, DisputeStatusResolvedSeller, DisputeStatusRejected:
		return true
	}
	return false
}

type DisputeReason string

const (
	DisputeReasonWrongItem   DisputeReason = "wrong_item"
	DisputeReasonDamagedItem DisputeReason = "damaged_item"
	DisputeReasonNotReceived DisputeReason = "not_received"
	DisputeReasonOther       DisputeReason = "other"
)

func (r DisputeReason) Valid() bool {
	switch r {
	case DisputeReasonWrongItem, DisputeReasonDamagedItem, DisputeReasonNotReceived, DisputeReasonOther:
		return true
	}
	return false
}

type ResolutionType string

const (
	ResolutionRefundFull    ResolutionType = "refund_full"
	ResolutionRefundPartial ResolutionType = "refund_partial"
	ResolutionCompensation  ResolutionType = "compensation"
	ResolutionReject        ResolutionType = "reject"
)

func (r ResolutionType) Valid() bool {
	switch r {
	case ResolutionRefundFull, ResolutionRefundPartial, ResolutionCompensation, ResolutionReject:
		return true
	}
	return false
}

// ProofFile is the stored metadata of an uploaded proof. The storage
// collaborator is trusted for the values it hands back.
type ProofFile struct {
	Name       string    `json:"name" firestore:"name"`
	URL        string    `json:"url" firestore:"url"`
	Size       int64     `json:"size" firestore:"size"`
	MimeType   string    `json:"mime_type" firestore:"mimeType"`
	UploadedBy string    `json:"uploaded_by" firestore:"uploadedBy"`
	UploadedAt time.Time `json:"uploaded_at" firestore:"uploadedAt"`
}

// AbuseSignals is the risk snapshot frozen at filing time. It is never
// recomputed afterwards; it records the assessment at the moment the
// dispute was opened.
type AbuseSignals struct {
	ClientMonthlyCount int      `json:"client_monthly_count" firestore:"clientMonthlyCount"`
	ClientSuccessRate  float64  `json:"client_success_rate" firestore:"clientSuccessRate"`
	SellerMonthlyCount int      `json:"seller_monthly_count" firestore:"sellerMonthlyCount"`
	Suspicious         bool     `json:"suspicious" firestore:"suspicious"`
	Reasons            []string `json:"reasons" firestore:"reasons"`
}

type Dispute struct {
	ID       string `json:"id" firestore:"id"`
	OrderID  string `json:"order_id" firestore:"orderId"`
	ClientID string `json:"client_id" firestore:"clientId"`
	SellerID string `json:"seller_id" firestore:"sellerId"`

	Reason      DisputeReason `json:"reason" firestore:"reason"`
	Description string        `json:"description" firestore:"description"`

	ClientProofs []ProofFile `json:"client_proofs" firestore:"clientProofs"`

	Status         DisputeStatus  `json:"status" firestore:"status"`
	SellerResponse string         `json:"seller_response,omitempty" firestore:"sellerResponse,omitempty"`
	SellerProofs   []ProofFile    `json:"seller_proofs,omitempty" firestore:"sellerProofs,omitempty"`
	ResolutionType ResolutionType `json:"resolution_type,omitempty" firestore:"resolutionType,omitempty"`
	AdminDecision  string         `json:"admin_decision,omitempty" firestore:"adminDecision,omitempty"`
	ResolvedBy     string         `json:"resolved_by,omitempty" firestore:"resolvedBy,omitempty"`

	// Set once at creation, never changed afterwards.
	SellerDeadline      time.Time `json:"seller_deadline" firestore:"sellerDeadline"`
	DisputeWindowEndsAt time.Time `json:"dispute_window_ends_at" firestore:"disputeWindowEndsAt"`

	// Stored as an explicit Null when unset; the reminder query filters on
	// `deadlineReminderSentAt == nil`, which never matches an absent field.
	DeadlineReminderSentAt *time.Time `json:"deadline_reminder_sent_at,omitempty" firestore:"deadlineReminderSentAt"`
	EscalatedAt            *time.Time `json:"escalated_at,omitempty" firestore:"escalatedAt,omitempty"`
	ResolvedAt             *time.Time `json:"resolved_at,omitempty" firestore:"resolvedAt,omitempty"`

	AbuseSignals AbuseSignals `json:"abuse_signals" firestore:"abuseSignals"`

	// Guards the one-time reputation adjustment on resolution retries.
	ReputationImpactApplied bool `json:"reputation_impact_applied" firestore:"reputationImpactApplied"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

// MaxProofFiles caps buyer proofs per dispute and seller proofs across
// cumulative submissions.
const MaxProofFiles = 5
