package checkout

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/asifmahmud/banglahat-backend/internal/cart"
	"github.com/asifmahmud/banglahat-backend/internal/geo"
	"github.com/asifmahmud/banglahat-backend/internal/orders"
	"github.com/asifmahmud/banglahat-backend/pkg/config"
	"github.com/asifmahmud/banglahat-backend/pkg/db/models"
	pkgerrors "github.com/asifmahmud/banglahat-backend/pkg/errors"
	"github.com/asifmahmud/banglahat-backend/pkg/flexible"
)

type memoryStore struct {
	values map[string]string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{values: map[string]string{}}
}

func (m *memoryStore) Get(_ context.Context, key string) (string, error) {
	value, ok := m.values[key]
	if !ok {
		return "", redis.Nil
	}
	return value, nil
}

func (m *memoryStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	m.values[key] = fmt.Sprintf("%v", value)
	return nil
}

func (m *memoryStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m.values, key)
	}
	return nil
}

func (m *memoryStore) CartKey(cartToken string) string {
	return "bh:cart:" + cartToken
}

func (m *memoryStore) CheckoutKey(checkoutID string) string {
	return "bh:checkout:" + checkoutID
}

type stubOrders struct {
	orders.Service
	createFn    func(ctx context.Context, input orders.CreateOrderInput) (*models.Order, error)
	lastInput   *orders.CreateOrderInput
	createCalls int
}

func (s *stubOrders) Create(ctx context.Context, input orders.CreateOrderInput) (*models.Order, error) {
	s.createCalls++
	s.lastInput = &input
	return s.createFn(ctx, input)
}

type wizardEnv struct {
	svc   Service
	carts cart.Service
	geo   geo.Service
}

func newWizard(t *testing.T, ordersSvc orders.Service) *wizardEnv {
	t.Helper()
	store := newMemoryStore()
	carts := cart.NewService(store, time.Hour)
	geoSvc := geo.NewService(config.DeliveryConfig{
		InsideDhakaFee:        80,
		OutsideDhakaFee:       120,
		FreeDeliveryThreshold: 2000,
	})
	cfg := config.CheckoutConfig{SessionTTL: time.Hour, SubmitTimeout: 5 * time.Second}
	return &wizardEnv{
		svc:   NewService(store, carts, geoSvc, ordersSvc, cfg, nil, nil),
		carts: carts,
		geo:   geoSvc,
	}
}

func newWizardWithDB(t *testing.T) *wizardEnv {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.Order{}))
	ordersSvc := orders.NewService(orders.NewRepository(conn), nil, nil)
	return newWizard(t, ordersSvc)
}

func str(v string) *string { return &v }

func fillCart(t *testing.T, env *wizardEnv, token string) {
	t.Helper()
	_, err := env.carts.Add(context.Background(), token, cart.Line{
		ProductID: "p1",
		Name:      "পাঞ্জাবি",
		Price:     decimal.NewFromInt(1500),
		Quantity:  1,
	})
	require.NoError(t, err)
}

func advanceToReview(t *testing.T, env *wizardEnv, checkoutID string) {
	t.Helper()
	ctx := context.Background()

	_, err := env.svc.SubmitStep(ctx, checkoutID, 1, StepInput{
		CustomerName: str("রাহিম উদ্দিন"),
		Phone:        str("01812345678"),
	})
	require.NoError(t, err)

	_, err = env.svc.SubmitStep(ctx, checkoutID, 2, StepInput{
		District: str("ঢাকা"),
		Thana:    str("গুলশান"),
		Address:  str("বাড়ি ১২, রোড ৫, গুলশান ১"),
	})
	require.NoError(t, err)

	view, err := env.svc.SubmitStep(ctx, checkoutID, 3, StepInput{
		PaymentMethod: str("bkash"),
		PaymentNumber: str("01898765432"),
		TransactionID: str("9HX72KQ1LM"),
	})
	require.NoError(t, err)
	require.Equal(t, StateReview, view.Session.State)
}

func TestStart_RequiresNonEmptyCart(t *testing.T) {
	env := newWizardWithDB(t)

	_, err := env.svc.Start(context.Background(), "empty-cart", false, nil)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestFullHappyPath(t *testing.T) {
	env := newWizardWithDB(t)
	ctx := context.Background()

	fillCart(t, env, "t1")
	view, err := env.svc.Start(ctx, "t1", false, nil)
	require.NoError(t, err)
	assert.Equal(t, StateIdentity, view.Session.State)
	assert.True(t, decimal.NewFromInt(1500).Equal(view.Totals.Subtotal))

	advanceToReview(t, env, view.Session.ID)

	// totals reflect the capital district fee
	review, err := env.svc.Get(ctx, view.Session.ID)
	require.NoError(t, err)
	assert.Equal(t, 80, review.Totals.DeliveryFee)
	assert.True(t, decimal.NewFromInt(1580).Equal(review.Totals.Total))

	result, err := env.svc.Confirm(ctx, view.Session.ID)
	require.NoError(t, err)
	assert.Contains(t, result.TrackingID, "BH-")

	// the wizard resets and the cart is cleared
	done, err := env.svc.Get(ctx, view.Session.ID)
	require.NoError(t, err)
	assert.Equal(t, StateSuccess, done.Session.State)
	assert.Empty(t, done.Session.Form.Phone)

	c, err := env.carts.Get(ctx, "t1")
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
}

func TestStep1_PhoneValidation(t *testing.T) {
	env := newWizardWithDB(t)
	ctx := context.Background()

	fillCart(t, env, "t1")
	view, err := env.svc.Start(ctx, "t1", false, nil)
	require.NoError(t, err)

	_, err = env.svc.SubmitStep(ctx, view.Session.ID, 1, StepInput{
		CustomerName: str("রাহিম"),
		Phone:        str("02812345678"),
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	// landline prefix rejected, mobile accepted
	next, err := env.svc.SubmitStep(ctx, view.Session.ID, 1, StepInput{
		CustomerName: str("রাহিম"),
		Phone:        str("01812345678"),
	})
	require.NoError(t, err)
	assert.Equal(t, StateAddress, next.Session.State)
}

func TestStep2_ThanaRequiredOnlyWithThanaData(t *testing.T) {
	env := newWizardWithDB(t)
	ctx := context.Background()

	fillCart(t, env, "t1")
	view, err := env.svc.Start(ctx, "t1", false, nil)
	require.NoError(t, err)
	_, err = env.svc.SubmitStep(ctx, view.Session.ID, 1, StepInput{
		CustomerName: str("রাহিম"),
		Phone:        str("01812345678"),
	})
	require.NoError(t, err)

	// capital district demands a thana
	_, err = env.svc.SubmitStep(ctx, view.Session.ID, 2, StepInput{
		District: str("ঢাকা"),
		Address:  str("বাড়ি ১২, রোড ৫, গুলশান ১"),
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	// a district without thana data accepts an empty thana
	next, err := env.svc.SubmitStep(ctx, view.Session.ID, 2, StepInput{
		District: str("ফরিদপুর"),
		Address:  str("কলেজ রোড, ফরিদপুর সদর"),
	})
	require.NoError(t, err)
	assert.Equal(t, StatePayment, next.Session.State)
}

func TestStep2_ShortAddressRejected(t *testing.T) {
	env := newWizardWithDB(t)
	ctx := context.Background()

	fillCart(t, env, "t1")
	view, err := env.svc.Start(ctx, "t1", false, nil)
	require.NoError(t, err)
	_, err = env.svc.SubmitStep(ctx, view.Session.ID, 1, StepInput{
		CustomerName: str("রাহিম"),
		Phone:        str("01812345678"),
	})
	require.NoError(t, err)

	_, err = env.svc.SubmitStep(ctx, view.Session.ID, 2, StepInput{
		District: str("ঢাকা"),
		Thana:    str("গুলশান"),
		Address:  str("ঢাকা"),
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestDistrictChange_RecomputesFeeAndClearsThana(t *testing.T) {
	env := newWizardWithDB(t)
	ctx := context.Background()

	fillCart(t, env, "t1")
	view, err := env.svc.Start(ctx, "t1", false, nil)
	require.NoError(t, err)
	_, err = env.svc.SubmitStep(ctx, view.Session.ID, 1, StepInput{
		CustomerName: str("রাহিম"),
		Phone:        str("01812345678"),
	})
	require.NoError(t, err)

	inside, err := env.svc.SubmitStep(ctx, view.Session.ID, 2, StepInput{
		District: str("ঢাকা"),
		Thana:    str("গুলশান"),
		Address:  str("বাড়ি ১২, রোড ৫, গুলশান ১"),
	})
	require.NoError(t, err)
	assert.Equal(t, 80, inside.Totals.DeliveryFee)

	// changing district on a resubmit clears the stale thana and flags a
	// non-blocking note because the new district has no thana data
	outside, err := env.svc.SubmitStep(ctx, view.Session.ID, 2, StepInput{
		District: str("ফরিদপুর"),
		Address:  str("কলেজ রোড, ফরিদপুর সদর"),
	})
	require.NoError(t, err)
	assert.Equal(t, 120, outside.Totals.DeliveryFee)
	assert.Empty(t, outside.Session.Form.Thana)
	assert.NotEmpty(t, outside.Session.Note)
	assert.True(t, decimal.NewFromInt(1620).Equal(outside.Totals.Total))

	// the wizard keeps its furthest position after the earlier-step resubmit
	assert.Equal(t, StatePayment, outside.Session.State)
}

func TestBack_NeverRevalidates(t *testing.T) {
	env := newWizardWithDB(t)
	ctx := context.Background()

	fillCart(t, env, "t1")
	view, err := env.svc.Start(ctx, "t1", false, nil)
	require.NoError(t, err)
	advanceToReview(t, env, view.Session.ID)

	back, err := env.svc.Back(ctx, view.Session.ID)
	require.NoError(t, err)
	assert.Equal(t, StatePayment, back.Session.State)

	back, err = env.svc.Back(ctx, view.Session.ID)
	require.NoError(t, err)
	assert.Equal(t, StateAddress, back.Session.State)

	// backing off the first step is a no-op
	back, err = env.svc.Back(ctx, view.Session.ID)
	require.NoError(t, err)
	back, err = env.svc.Back(ctx, view.Session.ID)
	require.NoError(t, err)
	assert.Equal(t, StateIdentity, back.Session.State)
}

func TestSubmitStep_FailedEarlierEditBlocksConfirm(t *testing.T) {
	env := newWizardWithDB(t)
	ctx := context.Background()

	fillCart(t, env, "t1")
	view, err := env.svc.Start(ctx, "t1", false, nil)
	require.NoError(t, err)
	advanceToReview(t, env, view.Session.ID)

	// breaking the phone from review pulls the wizard back to step 1
	_, err = env.svc.SubmitStep(ctx, view.Session.ID, 1, StepInput{
		Phone: str("02812345678"),
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	current, err := env.svc.Get(ctx, view.Session.ID)
	require.NoError(t, err)
	assert.Equal(t, StateIdentity, current.Session.State)
	// the failing edit is kept for the retry
	assert.Equal(t, "02812345678", current.Session.Form.Phone)

	_, err = env.svc.Confirm(ctx, view.Session.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())

	// fixing the phone re-opens the path through the remaining steps
	advanceToReview(t, env, view.Session.ID)

	result, err := env.svc.Confirm(ctx, view.Session.ID)
	require.NoError(t, err)
	assert.Contains(t, result.TrackingID, "BH-")
}

func TestSubmitStep_AheadOfActiveRejected(t *testing.T) {
	env := newWizardWithDB(t)
	ctx := context.Background()

	fillCart(t, env, "t1")
	view, err := env.svc.Start(ctx, "t1", false, nil)
	require.NoError(t, err)

	_, err = env.svc.SubmitStep(ctx, view.Session.ID, 3, StepInput{
		PaymentNumber: str("01898765432"),
		TransactionID: str("9HX72KQ1LM"),
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())
}

func TestConfirm_FailureKeepsCartAndForm(t *testing.T) {
	stub := &stubOrders{
		createFn: func(context.Context, orders.CreateOrderInput) (*models.Order, error) {
			return nil, pkgerrors.New(pkgerrors.CodeDependency, "database unavailable")
		},
	}
	env := newWizard(t, stub)
	ctx := context.Background()

	fillCart(t, env, "t1")
	view, err := env.svc.Start(ctx, "t1", false, nil)
	require.NoError(t, err)
	advanceToReview(t, env, view.Session.ID)

	_, err = env.svc.Confirm(ctx, view.Session.ID)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeSubmission, typed.Code())

	// back on review with everything intact so the user can retry
	after, err := env.svc.Get(ctx, view.Session.ID)
	require.NoError(t, err)
	assert.Equal(t, StateReview, after.Session.State)
	assert.Equal(t, "01812345678", after.Session.Form.Phone)
	assert.Equal(t, "unavailable", after.Session.SubmitErrorKind)

	c, err := env.carts.Get(ctx, "t1")
	require.NoError(t, err)
	assert.False(t, c.IsEmpty())

	// the retry goes through as a fresh attempt
	stub.createFn = func(_ context.Context, input orders.CreateOrderInput) (*models.Order, error) {
		order := &models.Order{TrackingID: "BH-RETRY"}
		return order, nil
	}
	result, err := env.svc.Confirm(ctx, view.Session.ID)
	require.NoError(t, err)
	assert.Equal(t, "BH-RETRY", result.TrackingID)
	assert.Equal(t, 2, stub.createCalls)
}

func TestConfirm_TimeoutIsDistinguishable(t *testing.T) {
	stub := &stubOrders{
		createFn: func(ctx context.Context, _ orders.CreateOrderInput) (*models.Order, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
	env := newWizard(t, stub)
	// shrink the submit timeout so the test stays fast
	env.svc.(*service).cfg.SubmitTimeout = 20 * time.Millisecond
	ctx := context.Background()

	fillCart(t, env, "t1")
	view, err := env.svc.Start(ctx, "t1", false, nil)
	require.NoError(t, err)
	advanceToReview(t, env, view.Session.ID)

	_, err = env.svc.Confirm(ctx, view.Session.ID)
	require.Error(t, err)

	after, err := env.svc.Get(ctx, view.Session.ID)
	require.NoError(t, err)
	assert.Equal(t, "timeout", after.Session.SubmitErrorKind)
	assert.Equal(t, StateReview, after.Session.State)
}

func TestConfirm_BuildsOrderInputOnce(t *testing.T) {
	stub := &stubOrders{
		createFn: func(_ context.Context, _ orders.CreateOrderInput) (*models.Order, error) {
			return &models.Order{TrackingID: "BH-ONE"}, nil
		},
	}
	env := newWizard(t, stub)
	ctx := context.Background()

	_, err := env.carts.Add(ctx, "t1", cart.Line{
		ProductID: "p1",
		Name:      "কাস্টম মগ",
		Price:     decimal.NewFromInt(450),
		Quantity:  2,
		Customization: &flexible.Customization{
			CustomImages: []string{"https://cdn.example.com/mug.png"},
			Instructions: "নাম লিখে দিবেন",
		},
	})
	require.NoError(t, err)

	advance := decimal.NewFromInt(200)
	view, err := env.svc.Start(ctx, "t1", true, &advance)
	require.NoError(t, err)
	advanceToReview(t, env, view.Session.ID)

	_, err = env.svc.SubmitStep(ctx, view.Session.ID, 3, StepInput{
		PaymentMethod:       str("nagad"),
		PaymentNumber:       str("01898765432"),
		TransactionID:       str("9HX72KQ1LM"),
		SpecialInstructions: str("ফোন করে ডেলিভারি দিবেন"),
	})
	require.NoError(t, err)

	_, err = env.svc.Confirm(ctx, view.Session.ID)
	require.NoError(t, err)
	require.Equal(t, 1, stub.createCalls)

	input := stub.lastInput
	require.NotNil(t, input)
	assert.True(t, input.IsCustomOrder)
	require.NotNil(t, input.AdvancePaymentAmount)
	assert.True(t, advance.Equal(*input.AdvancePaymentAmount))
	// advance override is what gets collected
	assert.True(t, advance.Equal(input.Payment.AmountPaid))
	assert.Equal(t, []string{"https://cdn.example.com/mug.png"}, input.CustomImages)
	assert.Contains(t, input.CustomInstructions, "নাম লিখে দিবেন")
	assert.Contains(t, input.CustomInstructions, "ফোন করে ডেলিভারি দিবেন")
	assert.Equal(t, 80, input.DeliveryFee)
	assert.True(t, decimal.NewFromInt(980).Equal(input.Total))
}

func TestConfirm_NotAtReviewRejected(t *testing.T) {
	env := newWizardWithDB(t)
	ctx := context.Background()

	fillCart(t, env, "t1")
	view, err := env.svc.Start(ctx, "t1", false, nil)
	require.NoError(t, err)

	_, err = env.svc.Confirm(ctx, view.Session.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())
}

func TestConfirm_AlreadyCompletedReturnsStoredResult(t *testing.T) {
	env := newWizardWithDB(t)
	ctx := context.Background()

	fillCart(t, env, "t1")
	view, err := env.svc.Start(ctx, "t1", false, nil)
	require.NoError(t, err)
	advanceToReview(t, env, view.Session.ID)

	first, err := env.svc.Confirm(ctx, view.Session.ID)
	require.NoError(t, err)

	second, err := env.svc.Confirm(ctx, view.Session.ID)
	require.NoError(t, err)
	assert.Equal(t, first.TrackingID, second.TrackingID)
}
