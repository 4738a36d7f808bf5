package checkout

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/asifmahmud/banglahat-backend/pkg/enums"
)

// State is the wizard position. The four form steps are followed by the
// transient submitting state; success and failed are reached from there.
type State string

const (
	StateIdentity   State = "step1_identity"
	StateAddress    State = "step2_address"
	StatePayment    State = "step3_payment"
	StateReview     State = "step4_review"
	StateSubmitting State = "submitting"
	StateSuccess    State = "success"
)

var stepOrder = []State{StateIdentity, StateAddress, StatePayment, StateReview}

// stepIndex returns the 1-based step number, or 0 for non-step states.
func stepIndex(s State) int {
	for i, candidate := range stepOrder {
		if candidate == s {
			return i + 1
		}
	}
	return 0
}

// FormData accumulates the wizard's fields across steps.
type FormData struct {
	CustomerName        string              `json:"customerName"`
	Phone               string              `json:"phone"`
	District            string              `json:"district"`
	Thana               string              `json:"thana"`
	Address             string              `json:"address"`
	PaymentMethod       enums.PaymentMethod `json:"paymentMethod"`
	PaymentNumber       string              `json:"paymentNumber"`
	TransactionID       string              `json:"transactionId"`
	SpecialInstructions string              `json:"specialInstructions"`
}

// Totals is recomputed from the live cart on every read, never cached.
type Totals struct {
	Subtotal        decimal.Decimal `json:"subtotal"`
	DeliveryFee     int             `json:"deliveryFee"`
	Total           decimal.Decimal `json:"total"`
	AmountToCollect decimal.Decimal `json:"amountToCollect"`
}

// Session is a checkout wizard instance persisted in Redis for its TTL.
type Session struct {
	ID        string   `json:"id"`
	CartToken string   `json:"cartToken"`
	State     State    `json:"state"`
	Form      FormData `json:"form"`

	IsCustomOrder        bool             `json:"isCustomOrder"`
	AdvancePaymentAmount *decimal.Decimal `json:"advancePaymentAmount,omitempty"`

	// Note carries a non-blocking informational message, such as the chosen
	// thana being cleared after a district change.
	Note string `json:"note,omitempty"`

	// SubmitErrorKind distinguishes the last failed confirmation: timeout,
	// rejected or unavailable. Empty when no failure happened.
	SubmitErrorKind string `json:"submitErrorKind,omitempty"`

	// Set once the order is created.
	OrderID    string `json:"orderId,omitempty"`
	TrackingID string `json:"trackingId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewSessionID issues a checkout session identifier.
func NewSessionID() string {
	return uuid.NewString()
}

// Step returns the 1-based step number for step states and 0 otherwise.
func (s *Session) Step() int {
	return stepIndex(s.State)
}
