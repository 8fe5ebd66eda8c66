package deposit_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/natural-surplus/backend/internal/application/adapter"
	"github.com/natural-surplus/backend/internal/application/usecase/deposit"
	"github.com/natural-surplus/backend/internal/domain/entity"
	domainerror "github.com/natural-surplus/backend/internal/domain/error"
	"github.com/natural-surplus/backend/internal/integration/persistence"
	"github.com/natural-surplus/backend/internal/integration/persistence/persistencetest"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type fakeGateway struct {
	mu       sync.Mutex
	pushes   []adapter.STKPushRequest
	pushErr  error
	query    *adapter.STKQueryResponse
	queryErr error
	seq      int
}

func (g *fakeGateway) InitiateSTKPush(_ context.Context, req adapter.STKPushRequest) (*adapter.STKPushResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pushErr != nil {
		return nil, g.pushErr
	}
	g.pushes = append(g.pushes, req)
	g.seq++
	return &adapter.STKPushResponse{
		MerchantRequestID: fmt.Sprintf("mr-%d", g.seq),
		CheckoutRequestID: fmt.Sprintf("ws_CO_%d", g.seq),
		ResponseCode:      "0",
		CustomerMessage:   "Success. Request accepted for processing",
	}, nil
}

func (g *fakeGateway) QuerySTKPush(context.Context, string) (*adapter.STKQueryResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.query, g.queryErr
}

type countingNotifier struct {
	mu        sync.Mutex
	confirmed []adapter.DepositConfirmedEmailInput
}

func (n *countingNotifier) QueueWelcomeEmail(context.Context, adapter.WelcomeEmailInput) error {
	return nil
}

func (n *countingNotifier) QueueDepositConfirmedEmail(_ context.Context, input adapter.DepositConfirmedEmailInput) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.confirmed = append(n.confirmed, input)
	return nil
}

func (n *countingNotifier) QueueInvestmentCompletedEmail(context.Context, adapter.InvestmentCompletedEmailInput) error {
	return nil
}

type depositFixture struct {
	userRepo   adapter.UserRepository
	ledgerRepo adapter.LedgerRepository
	gateway    *fakeGateway
	notifier   *countingNotifier
	initiate   *deposit.InitiateDepositUseCase
	status     *deposit.GetDepositStatusUseCase
	query      *deposit.QueryDepositStatusUseCase
	callback   *deposit.HandleCallbackUseCase
	user       *entity.User
}

func newDepositFixture(t *testing.T) *depositFixture {
	db := persistencetest.NewDB(t)
	clock := fixedClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	txManager := persistence.NewTransactionManager(db)
	depositRepo := persistence.NewDepositRepository(db)

	f := &depositFixture{
		userRepo:   persistence.NewUserRepository(db),
		ledgerRepo: persistence.NewLedgerRepository(db),
		gateway:    &fakeGateway{},
		notifier:   &countingNotifier{},
	}
	creditor := deposit.NewCreditConfirmedDepositUseCase(txManager, f.userRepo, f.ledgerRepo, clock)
	f.initiate = deposit.NewInitiateDepositUseCase(depositRepo, f.gateway, clock)
	f.status = deposit.NewGetDepositStatusUseCase(depositRepo)
	f.query = deposit.NewQueryDepositStatusUseCase(txManager, depositRepo, f.userRepo, f.gateway, creditor, f.notifier, clock)
	f.callback = deposit.NewHandleCallbackUseCase(txManager, depositRepo, f.userRepo, creditor, f.notifier, clock)

	f.user = entity.NewUser("Wanjiku", "wanjiku@example.com", "254712345678", "hash", "WANJ0001", nil, clock.now)
	require.NoError(t, f.userRepo.Create(context.Background(), f.user))
	return f
}

func (f *depositFixture) balance(t *testing.T) string {
	t.Helper()
	u, err := f.userRepo.FindByID(context.Background(), f.user.ID)
	require.NoError(t, err)
	return u.Balance.StringFixed(2)
}

func (f *depositFixture) start(t *testing.T, amount string) *entity.Deposit {
	t.Helper()
	out, err := f.initiate.Execute(context.Background(), deposit.InitiateDepositInput{
		UserID:      f.user.ID,
		PhoneNumber: "0712 345 678",
		Amount:      decimal.RequireFromString(amount),
	})
	require.NoError(t, err)
	return out.Deposit
}

func TestInitiateDeposit(t *testing.T) {
	f := newDepositFixture(t)

	d := f.start(t, "250.75")

	assert.Equal(t, entity.DepositStatusPending, d.Status)
	assert.Equal(t, "254712345678", d.PhoneNumber)
	assert.Equal(t, "250.00", d.Amount.StringFixed(2))
	require.Len(t, f.gateway.pushes, 1)
	assert.Equal(t, int64(250), f.gateway.pushes[0].Amount)
	assert.Equal(t, "Natural Surplus", f.gateway.pushes[0].AccountReference)
	assert.Equal(t, "0.00", f.balance(t))
}

func TestInitiateDeposit_Rejections(t *testing.T) {
	f := newDepositFixture(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		input  deposit.InitiateDepositInput
		expect domainerror.DepositErrorCode
	}{
		{"amount below one", deposit.InitiateDepositInput{UserID: f.user.ID, PhoneNumber: "0712345678", Amount: decimal.RequireFromString("0.9")}, domainerror.ErrCodeInvalidDepositAmount},
		{"landline number", deposit.InitiateDepositInput{UserID: f.user.ID, PhoneNumber: "0202345678", Amount: decimal.NewFromInt(100)}, domainerror.ErrCodeInvalidPhoneNumber},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.initiate.Execute(ctx, tt.input)
			var depErr *domainerror.DepositError
			require.ErrorAs(t, err, &depErr)
			assert.Equal(t, tt.expect, depErr.Code)
		})
	}

	f.gateway.pushErr = fmt.Errorf("dial tcp: %w", domainerror.ErrGatewayUnavailable)
	_, err := f.initiate.Execute(ctx, deposit.InitiateDepositInput{UserID: f.user.ID, PhoneNumber: "0712345678", Amount: decimal.NewFromInt(100)})
	var depErr *domainerror.DepositError
	require.ErrorAs(t, err, &depErr)
	assert.Equal(t, domainerror.ErrCodeGatewayUnavailable, depErr.Code)
}

func successCallback(checkoutID string) deposit.HandleCallbackInput {
	return deposit.HandleCallbackInput{
		MerchantRequestID: "mr-1",
		CheckoutRequestID: checkoutID,
		ResultCode:        0,
		ResultDesc:        "The service request is processed successfully.",
		Amount:            decimal.NewFromInt(500),
		ReceiptNumber:     "QKJ4ABC123",
		PhoneNumber:       "254712345678",
	}
}

func TestHandleCallback_DuplicateCreditsOnce(t *testing.T) {
	f := newDepositFixture(t)
	ctx := context.Background()
	d := f.start(t, "500")

	first, err := f.callback.Execute(ctx, successCallback(d.CheckoutRequestID))
	require.NoError(t, err)
	assert.True(t, first.Transitioned)
	assert.Equal(t, entity.DepositStatusCompleted, first.Deposit.Status)

	second, err := f.callback.Execute(ctx, successCallback(d.CheckoutRequestID))
	require.NoError(t, err)
	assert.False(t, second.Transitioned)

	assert.Equal(t, "500.00", f.balance(t))
	entries, err := f.ledgerRepo.FindByUser(ctx, f.user.ID, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entity.LedgerKindDeposit, entries[0].Kind)
	assert.Len(t, f.notifier.confirmed, 1)
	assert.Equal(t, "QKJ4ABC123", f.notifier.confirmed[0].ReceiptNumber)
}

func TestHandleCallback_FailureIsTerminal(t *testing.T) {
	f := newDepositFixture(t)
	ctx := context.Background()
	d := f.start(t, "500")

	out, err := f.callback.Execute(ctx, deposit.HandleCallbackInput{
		CheckoutRequestID: d.CheckoutRequestID,
		ResultCode:        1032,
		ResultDesc:        "Request cancelled by user",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.DepositStatusFailed, out.Deposit.Status)
	assert.Equal(t, "1032", out.Deposit.ResultCode)

	late, err := f.callback.Execute(ctx, successCallback(d.CheckoutRequestID))
	require.NoError(t, err)
	assert.False(t, late.Transitioned)
	assert.Equal(t, entity.DepositStatusFailed, late.Deposit.Status)
	assert.Equal(t, "0.00", f.balance(t))
	assert.Empty(t, f.notifier.confirmed)
}

func TestHandleCallback_UnknownOrMalformed(t *testing.T) {
	f := newDepositFixture(t)

	out, err := f.callback.Execute(context.Background(), successCallback("ws_CO_unknown"))
	require.NoError(t, err)
	assert.Nil(t, out.Deposit)

	_, err = f.callback.Execute(context.Background(), deposit.HandleCallbackInput{ResultCode: 0})
	var depErr *domainerror.DepositError
	require.ErrorAs(t, err, &depErr)
	assert.Equal(t, domainerror.ErrCodeInvalidCallback, depErr.Code)
}

func TestQueryDepositStatus_ThenCallbackCreditsOnce(t *testing.T) {
	f := newDepositFixture(t)
	ctx := context.Background()
	d := f.start(t, "500")
	f.gateway.query = &adapter.STKQueryResponse{ResponseCode: "0", ResultCode: "0", ResultDesc: "The service request is processed successfully."}

	out, err := f.query.Execute(ctx, deposit.QueryDepositStatusInput{UserID: f.user.ID, CheckoutRequestID: d.CheckoutRequestID})
	require.NoError(t, err)
	assert.Equal(t, entity.DepositStatusCompleted, out.Deposit.Status)
	assert.Equal(t, "0", out.ResultCode)

	cb, err := f.callback.Execute(ctx, successCallback(d.CheckoutRequestID))
	require.NoError(t, err)
	assert.False(t, cb.Transitioned)

	again, err := f.query.Execute(ctx, deposit.QueryDepositStatusInput{UserID: f.user.ID, CheckoutRequestID: d.CheckoutRequestID})
	require.NoError(t, err)
	assert.Equal(t, entity.DepositStatusCompleted, again.Deposit.Status)

	assert.Equal(t, "500.00", f.balance(t))
	assert.Len(t, f.notifier.confirmed, 1)
}

func TestQueryDepositStatus_StillPending(t *testing.T) {
	f := newDepositFixture(t)
	d := f.start(t, "500")
	f.gateway.queryErr = fmt.Errorf("500.001.1001: %w", domainerror.ErrGatewayRejected)

	_, err := f.query.Execute(context.Background(), deposit.QueryDepositStatusInput{UserID: f.user.ID, CheckoutRequestID: d.CheckoutRequestID})

	var depErr *domainerror.DepositError
	require.ErrorAs(t, err, &depErr)
	assert.Equal(t, domainerror.ErrCodeGatewayRejected, depErr.Code)

	status, err := f.status.Execute(context.Background(), deposit.GetDepositStatusInput{UserID: f.user.ID, CheckoutRequestID: d.CheckoutRequestID})
	require.NoError(t, err)
	assert.Equal(t, entity.DepositStatusPending, status.Deposit.Status)
}

func TestGetDepositStatus_OtherUsersDepositIsHidden(t *testing.T) {
	f := newDepositFixture(t)
	d := f.start(t, "500")

	_, err := f.status.Execute(context.Background(), deposit.GetDepositStatusInput{UserID: uuid.New(), CheckoutRequestID: d.CheckoutRequestID})

	var depErr *domainerror.DepositError
	require.ErrorAs(t, err, &depErr)
	assert.Equal(t, domainerror.ErrCodeDepositNotFound, depErr.Code)
}
