package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/asifmahmud/banglahat-backend/internal/cart"
	"github.com/asifmahmud/banglahat-backend/internal/geo"
	"github.com/asifmahmud/banglahat-backend/internal/orders"
	"github.com/asifmahmud/banglahat-backend/pkg/config"
	"github.com/asifmahmud/banglahat-backend/pkg/enums"
	pkgerrors "github.com/asifmahmud/banglahat-backend/pkg/errors"
	"github.com/asifmahmud/banglahat-backend/pkg/flexible"
	"github.com/asifmahmud/banglahat-backend/pkg/logger"
	"github.com/asifmahmud/banglahat-backend/pkg/metrics"
)

// Store is the subset of the redis client the wizard depends on.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CheckoutKey(checkoutID string) string
}

// View is a session together with its live totals.
type View struct {
	Session *Session `json:"session"`
	Totals  Totals   `json:"totals"`

	// Thanas lists the selectable thanas for the chosen district, empty until
	// a district is picked.
	Thanas []string `json:"thanas"`
}

// ConfirmResult reports the created order back to the caller.
type ConfirmResult struct {
	OrderID    string `json:"orderId"`
	TrackingID string `json:"trackingId"`
}

// StepInput carries the fields submitted for one step. Pointers distinguish
// absent fields from cleared ones so a step submit never wipes fields owned
// by other steps.
type StepInput struct {
	CustomerName        *string `json:"customerName"`
	Phone               *string `json:"phone"`
	District            *string `json:"district"`
	Thana               *string `json:"thana"`
	Address             *string `json:"address"`
	PaymentMethod       *string `json:"paymentMethod"`
	PaymentNumber       *string `json:"paymentNumber"`
	TransactionID       *string `json:"transactionId"`
	SpecialInstructions *string `json:"specialInstructions"`
}

// Service drives the checkout wizard.
type Service interface {
	// Start opens a wizard session for a cart. The cart must not be empty.
	Start(ctx context.Context, cartToken string, isCustomOrder bool, advance *decimal.Decimal) (*View, error)

	// Get returns the session with freshly computed totals.
	Get(ctx context.Context, checkoutID string) (*View, error)

	// SubmitStep validates the active step's fields and advances the wizard.
	SubmitStep(ctx context.Context, checkoutID string, step int, input StepInput) (*View, error)

	// Back moves one step backwards without re-validating anything.
	Back(ctx context.Context, checkoutID string) (*View, error)

	// Confirm submits the order. It re-runs the payment validation as a
	// final guard, builds the order exactly once and clears the cart only
	// on success.
	Confirm(ctx context.Context, checkoutID string) (*ConfirmResult, error)
}

type service struct {
	store   Store
	carts   cart.Service
	geo     geo.Service
	orders  orders.Service
	cfg     config.CheckoutConfig
	logg    *logger.Logger
	metrics *metrics.CheckoutMetrics
}

func NewService(
	store Store,
	carts cart.Service,
	geoSvc geo.Service,
	ordersSvc orders.Service,
	cfg config.CheckoutConfig,
	logg *logger.Logger,
	m *metrics.CheckoutMetrics,
) Service {
	return &service{
		store:   store,
		carts:   carts,
		geo:     geoSvc,
		orders:  ordersSvc,
		cfg:     cfg,
		logg:    logg,
		metrics: m,
	}
}

func (s *service) Start(ctx context.Context, cartToken string, isCustomOrder bool, advance *decimal.Decimal) (*View, error) {
	c, err := s.carts.Get(ctx, cartToken)
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	if isCustomOrder && advance != nil && advance.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "advance payment amount must not be negative")
	}
	if !isCustomOrder {
		advance = nil
	}

	now := time.Now().UTC()
	session := &Session{
		ID:                   NewSessionID(),
		CartToken:            cartToken,
		State:                StateIdentity,
		IsCustomOrder:        isCustomOrder,
		AdvancePaymentAmount: advance,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	return s.view(ctx, session)
}

func (s *service) Get(ctx context.Context, checkoutID string) (*View, error) {
	session, err := s.load(ctx, checkoutID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, session)
}

func (s *service) SubmitStep(ctx context.Context, checkoutID string, step int, input StepInput) (*View, error) {
	session, err := s.load(ctx, checkoutID)
	if err != nil {
		return nil, err
	}
	if session.State == StateSubmitting {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "submission already in flight")
	}
	if session.State == StateSuccess {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "checkout already completed")
	}

	active := session.Step()
	if step < 1 || step > len(stepOrder) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown checkout step")
	}
	if step > active {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cannot submit a step ahead of the active one").
			WithDetails(map[string]any{"activeStep": active, "submittedStep": step})
	}

	s.applyInput(ctx, session, input)

	if fieldErrors := validateStep(step, session.Form, s.geo); fieldErrors != nil {
		// keep the edits for the retry, but pull the wizard back to the
		// failing step so review cannot confirm over invalid fields
		session.State = stepOrder[step-1]
		if err := s.save(ctx, session); err != nil {
			return nil, err
		}
		return nil, validationError(fieldErrors)
	}

	// resubmitting an earlier step keeps the wizard at its furthest position
	if step == active && active < len(stepOrder) {
		session.State = stepOrder[active]
	}
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	return s.view(ctx, session)
}

func (s *service) Back(ctx context.Context, checkoutID string) (*View, error) {
	session, err := s.load(ctx, checkoutID)
	if err != nil {
		return nil, err
	}
	if session.State == StateSubmitting {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "submission already in flight")
	}

	active := session.Step()
	if active > 1 {
		session.State = stepOrder[active-2]
		if err := s.save(ctx, session); err != nil {
			return nil, err
		}
	}
	return s.view(ctx, session)
}

func (s *service) Confirm(ctx context.Context, checkoutID string) (*ConfirmResult, error) {
	session, err := s.load(ctx, checkoutID)
	if err != nil {
		return nil, err
	}

	switch session.State {
	case StateReview:
	case StateSubmitting:
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "submission already in flight")
	case StateSuccess:
		// confirming a finished checkout is answered with the stored result
		return &ConfirmResult{OrderID: session.OrderID, TrackingID: session.TrackingID}, nil
	default:
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "checkout is not at the review step")
	}

	// final guard before money moves
	if fieldErrors := validateStep(3, session.Form, s.geo); fieldErrors != nil {
		return nil, validationError(fieldErrors)
	}

	c, err := s.carts.Get(ctx, session.CartToken)
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	session.State = StateSubmitting
	session.SubmitErrorKind = ""
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}

	input := s.buildOrderInput(session, c)

	started := time.Now()
	submitCtx := ctx
	cancel := context.CancelFunc(func() {})
	if s.cfg.SubmitTimeout > 0 {
		submitCtx, cancel = context.WithTimeout(ctx, s.cfg.SubmitTimeout)
	}
	order, err := s.orders.Create(submitCtx, input)
	cancel()
	s.metrics.ObserveSubmitDuration(time.Since(started))

	if err != nil {
		kind := submitFailureKind(err)
		s.metrics.IncSubmitFailure(kind)

		// back to review with the form and cart untouched
		session.State = StateReview
		session.SubmitErrorKind = kind
		if saveErr := s.save(ctx, session); saveErr != nil && s.logg != nil {
			s.logg.Error(s.logg.WithCheckoutID(ctx, session.ID), "saving failed checkout state", saveErr)
		}
		if kind == "timeout" {
			return nil, pkgerrors.Wrap(pkgerrors.CodeSubmission, err, "order submission timed out").
				WithDetails(map[string]any{"kind": kind})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeSubmission, err, "order submission failed").
			WithDetails(map[string]any{"kind": kind})
	}

	session.State = StateSuccess
	session.OrderID = order.ID.String()
	session.TrackingID = order.TrackingID
	session.Form = FormData{}
	if err := s.save(ctx, session); err != nil && s.logg != nil {
		s.logg.Error(s.logg.WithCheckoutID(ctx, session.ID), "saving completed checkout state", err)
	}

	if err := s.carts.Clear(ctx, session.CartToken); err != nil && s.logg != nil {
		s.logg.Error(s.logg.WithCheckoutID(ctx, session.ID), "clearing cart after order creation", err)
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithTrackingID(ctx, order.TrackingID), "checkout confirmed")
	}
	return &ConfirmResult{OrderID: order.ID.String(), TrackingID: order.TrackingID}, nil
}

// applyInput merges submitted fields into the form and runs the district
// change side effects.
func (s *service) applyInput(ctx context.Context, session *Session, input StepInput) {
	form := &session.Form
	session.Note = ""

	if input.CustomerName != nil {
		form.CustomerName = strings.TrimSpace(*input.CustomerName)
	}
	if input.Phone != nil {
		form.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Address != nil {
		form.Address = strings.TrimSpace(*input.Address)
	}
	if input.PaymentMethod != nil {
		form.PaymentMethod = enums.PaymentMethod(strings.TrimSpace(*input.PaymentMethod))
	}
	if input.PaymentNumber != nil {
		form.PaymentNumber = strings.TrimSpace(*input.PaymentNumber)
	}
	if input.TransactionID != nil {
		form.TransactionID = strings.TrimSpace(*input.TransactionID)
	}
	if input.SpecialInstructions != nil {
		form.SpecialInstructions = strings.TrimSpace(*input.SpecialInstructions)
	}

	if input.District != nil && *input.District != form.District {
		form.District = *input.District
		// the previously chosen thana may not belong to the new district
		if form.Thana != "" && !s.geo.ValidThana(form.District, form.Thana) {
			form.Thana = ""
			if !s.geo.RequiresThana(form.District) {
				session.Note = "থানা নির্বাচন প্রয়োজন নেই"
			}
		}
	}
	if input.Thana != nil {
		form.Thana = *input.Thana
	}
}

func (s *service) buildOrderInput(session *Session, c *cart.Cart) orders.CreateOrderInput {
	subtotal := c.Subtotal()
	fee := s.geo.DeliveryFee(session.Form.District, subtotal)
	total := subtotal.Add(decimal.NewFromInt(int64(fee)))

	amountToCollect := total
	if session.IsCustomOrder && session.AdvancePaymentAmount != nil {
		amountToCollect = *session.AdvancePaymentAmount
	}

	// gather customization payloads across the cart lines
	instructions := []string{}
	images := []string{}
	for _, line := range c.Lines {
		if line.Customization == nil {
			continue
		}
		if line.Customization.Instructions != "" {
			instructions = append(instructions, line.Customization.Instructions)
		}
		images = append(images, line.Customization.CustomImages...)
	}
	if session.Form.SpecialInstructions != "" {
		instructions = append(instructions, session.Form.SpecialInstructions)
	}

	method := session.Form.PaymentMethod
	if method == "" {
		method = enums.PaymentMethodCOD
	}

	return orders.CreateOrderInput{
		CustomerName: session.Form.CustomerName,
		Phone:        session.Form.Phone,
		District:     session.Form.District,
		Thana:        session.Form.Thana,
		Address:      session.Form.Address,
		Items:        c.Items(),
		Subtotal:     subtotal,
		DeliveryFee:  fee,
		Total:        total,
		Payment: &flexible.PaymentInfo{
			Method:        method,
			PaymentNumber: session.Form.PaymentNumber,
			TransactionID: session.Form.TransactionID,
			AmountPaid:    amountToCollect,
			DeliveryFee:   fee,
		},
		CustomInstructions:   strings.Join(instructions, "\n"),
		CustomImages:         images,
		IsCustomOrder:        session.IsCustomOrder,
		AdvancePaymentAmount: session.AdvancePaymentAmount,
	}
}

func (s *service) view(ctx context.Context, session *Session) (*View, error) {
	c, err := s.carts.Get(ctx, session.CartToken)
	if err != nil {
		return nil, err
	}

	subtotal := c.Subtotal()
	fee := s.geo.DeliveryFee(session.Form.District, subtotal)
	total := subtotal.Add(decimal.NewFromInt(int64(fee)))
	amountToCollect := total
	if session.IsCustomOrder && session.AdvancePaymentAmount != nil {
		amountToCollect = *session.AdvancePaymentAmount
	}

	thanas := []string{}
	if session.Form.District != "" {
		if list, ok := s.geo.Thanas(session.Form.District); ok {
			thanas = list
		}
	}

	return &View{
		Session: session,
		Totals: Totals{
			Subtotal:        subtotal,
			DeliveryFee:     fee,
			Total:           total,
			AmountToCollect: amountToCollect,
		},
		Thanas: thanas,
	}, nil
}

func (s *service) load(ctx context.Context, checkoutID string) (*Session, error) {
	raw, err := s.store.Get(ctx, s.store.CheckoutKey(checkoutID))
	if errors.Is(err, redis.Nil) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "checkout session not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading checkout session")
	}

	var session Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decoding checkout session")
	}
	return &session, nil
}

func (s *service) save(ctx context.Context, session *Session) error {
	session.UpdatedAt = time.Now().UTC()
	payload, err := json.Marshal(session)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding checkout session")
	}
	if err := s.store.Set(ctx, s.store.CheckoutKey(session.ID), string(payload), s.cfg.SessionTTL); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving checkout session")
	}
	return nil
}

func submitFailureKind(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	if typed := pkgerrors.As(err); typed != nil {
		switch typed.Code() {
		case pkgerrors.CodeValidation:
			return "rejected"
		case pkgerrors.CodeDependency:
			return "unavailable"
		}
	}
	return "error"
}
