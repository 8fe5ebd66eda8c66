package email_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/natural-surplus/backend/internal/application/adapter"
	"github.com/natural-surplus/backend/internal/domain/entity"
	domainerror "github.com/natural-surplus/backend/internal/domain/error"
	"github.com/natural-surplus/backend/internal/integration/email"
	"github.com/natural-surplus/backend/internal/integration/email/templates"
	"github.com/natural-surplus/backend/internal/integration/persistence"
	"github.com/natural-surplus/backend/internal/integration/persistence/persistencetest"
)

type manualClock struct{ now time.Time }

func (c *manualClock) Now() time.Time { return c.now }

type fixture struct {
	clock   *manualClock
	queue   adapter.EmailQueueRepository
	sender  *email.MockEmailSender
	service *email.Service
	worker  *email.Worker
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	renderer, err := templates.NewRenderer()
	require.NoError(t, err)

	clock := &manualClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	queue := persistence.NewEmailQueueRepository(persistencetest.NewDB(t))
	sender := email.NewMockEmailSender()

	return &fixture{
		clock:   clock,
		queue:   queue,
		sender:  sender,
		service: email.NewService(queue, clock, "https://app.example.com"),
		worker: email.NewWorker(queue, sender, renderer, clock, email.WorkerConfig{
			PollInterval: time.Second,
			BatchSize:    10,
		}),
	}
}

func (f *fixture) onlyJob(t *testing.T, recipient string) *entity.EmailJob {
	t.Helper()
	jobs, err := f.queue.GetByRecipient(context.Background(), recipient)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	return jobs[0]
}

func TestWorker_SendsQueuedWelcomeEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.service.QueueWelcomeEmail(ctx, adapter.WelcomeEmailInput{
		UserEmail:    "wanjiku@example.com",
		UserName:     "Wanjiku",
		ReferralCode: "nsx7k2qa",
	}))

	f.worker.ProcessNow(ctx)

	sent := f.sender.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "wanjiku@example.com", sent[0].To)
	assert.Equal(t, "Welcome to Natural Surplus", sent[0].Subject)
	assert.Contains(t, sent[0].HTML, "nsx7k2qa")
	assert.Contains(t, sent[0].Text, "nsx7k2qa")
	assert.Contains(t, sent[0].Text, "https://app.example.com")

	job := f.onlyJob(t, "wanjiku@example.com")
	assert.Equal(t, entity.EmailStatusSent, job.Status)
	assert.Equal(t, "mock-1", job.ResendID)
	require.NotNil(t, job.ProcessedAt)

	f.worker.ProcessNow(ctx)
	assert.Len(t, f.sender.Sent(), 1, "a sent job is not picked up again")
}

func TestWorker_DepositReceiptCarriesAmountAndReceipt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.service.QueueDepositConfirmedEmail(ctx, adapter.DepositConfirmedEmailInput{
		UserEmail:     "otieno@example.com",
		UserName:      "Otieno",
		Amount:        decimal.NewFromInt(1500),
		ReceiptNumber: "QKT12ABC34",
	}))

	f.worker.ProcessNow(ctx)

	sent := f.sender.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "Deposit of KES 1500.00 received", sent[0].Subject)
	assert.Contains(t, sent[0].HTML, "KES 1500.00")
	assert.Contains(t, sent[0].HTML, "QKT12ABC34")
}

func TestWorker_TemporaryFailureIsRetriedAfterBackoff(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.service.QueueInvestmentCompletedEmail(ctx, adapter.InvestmentCompletedEmailInput{
		UserEmail:   "amina@example.com",
		UserName:    "Amina",
		PlanName:    "Starter",
		Amount:      decimal.NewFromInt(1000),
		TotalReturn: decimal.NewFromInt(1200),
	}))

	f.sender.SetFailure(errors.New("connection reset"), false)
	f.worker.ProcessNow(ctx)

	job := f.onlyJob(t, "amina@example.com")
	assert.Equal(t, entity.EmailStatusPending, job.Status)
	assert.Equal(t, 1, job.Attempts)
	assert.True(t, job.ScheduledAt.Equal(f.clock.now.Add(time.Minute)))
	assert.NotEmpty(t, job.LastError)

	f.sender.Reset()
	f.worker.ProcessNow(ctx)
	assert.Empty(t, f.sender.Sent(), "retry is not due yet")

	f.clock.now = f.clock.now.Add(time.Minute)
	f.worker.ProcessNow(ctx)

	sent := f.sender.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "Your Starter investment has completed", sent[0].Subject)
	assert.Equal(t, entity.EmailStatusSent, f.onlyJob(t, "amina@example.com").Status)
}

func TestWorker_PermanentFailureStopsRetries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.service.QueueWelcomeEmail(ctx, adapter.WelcomeEmailInput{
		UserEmail:    "bounce@example.com",
		ReferralCode: "nsaaaaaa",
	}))

	f.sender.SetFailure(errors.New("recipient rejected"), true)
	f.worker.ProcessNow(ctx)

	job := f.onlyJob(t, "bounce@example.com")
	assert.Equal(t, entity.EmailStatusFailed, job.Status)
	assert.Equal(t, 1, job.Attempts)
}

func TestWorker_UnknownTemplateFailsWithoutSending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	job := entity.NewEmailJob("bogus", "ghost@example.com", "", "Hello", map[string]interface{}{}, f.clock.now)
	require.NoError(t, f.queue.Create(ctx, job))

	f.worker.ProcessNow(ctx)

	assert.Empty(t, f.sender.Sent())
	assert.Equal(t, entity.EmailStatusFailed, f.onlyJob(t, "ghost@example.com").Status)
}

type plainFailureSender struct{ err error }

func (s plainFailureSender) Send(context.Context, adapter.SendEmailInput) (*adapter.SendEmailResult, error) {
	return nil, s.err
}

type brokenQueue struct {
	adapter.EmailQueueRepository
}

func (brokenQueue) Create(context.Context, *entity.EmailJob) error {
	return errors.New("database is read-only")
}

func TestWorker_UnclassifiedSenderErrorIsRetried(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	renderer, err := templates.NewRenderer()
	require.NoError(t, err)
	worker := email.NewWorker(f.queue, plainFailureSender{err: errors.New("socket closed")}, renderer, f.clock, email.WorkerConfig{
		PollInterval: time.Second,
		BatchSize:    10,
	})

	require.NoError(t, f.service.QueueWelcomeEmail(ctx, adapter.WelcomeEmailInput{
		UserEmail:    "flaky@example.com",
		ReferralCode: "nsbbbbbb",
	}))
	worker.ProcessNow(ctx)

	job := f.onlyJob(t, "flaky@example.com")
	assert.Equal(t, entity.EmailStatusPending, job.Status)
	assert.Equal(t, 1, job.Attempts)
	assert.Contains(t, job.LastError, domainerror.ErrEmailSendFailed.Error())
	assert.Contains(t, job.LastError, "socket closed")
}

func TestMockEmailSender_ClassifiesFailures(t *testing.T) {
	sender := email.NewMockEmailSender()
	input := adapter.SendEmailInput{To: "someone@example.com"}

	sender.SetFailure(errors.New("mailbox unavailable"), true)
	_, err := sender.Send(context.Background(), input)
	assert.ErrorIs(t, err, domainerror.ErrPermanentEmailFailure)
	assert.True(t, domainerror.IsPermanentEmailFailure(err))

	sender.SetFailure(errors.New("timeout"), false)
	_, err = sender.Send(context.Background(), input)
	assert.ErrorIs(t, err, domainerror.ErrTemporaryEmailFailure)
	assert.False(t, domainerror.IsPermanentEmailFailure(err))
}

func TestService_QueueFailureIsCoded(t *testing.T) {
	clock := &manualClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	service := email.NewService(brokenQueue{}, clock, "https://app.example.com")

	err := service.QueueWelcomeEmail(context.Background(), adapter.WelcomeEmailInput{UserEmail: "a@example.com"})

	assert.ErrorIs(t, err, domainerror.ErrEmailQueueFailed)
	var emailErr *domainerror.EmailError
	require.ErrorAs(t, err, &emailErr)
	assert.Equal(t, domainerror.ErrCodeEmailQueueFailed, emailErr.Code)
}

func TestRenderer_FailureIsCoded(t *testing.T) {
	renderer, err := templates.NewRenderer()
	require.NoError(t, err)

	_, _, err = renderer.Render("welcome", struct{}{})

	assert.ErrorIs(t, err, domainerror.ErrTemplateRenderFailed)
	var emailErr *domainerror.EmailError
	require.ErrorAs(t, err, &emailErr)
	assert.Equal(t, domainerror.ErrCodeTemplateRenderFailed, emailErr.Code)
}
