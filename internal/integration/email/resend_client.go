package email

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/resend/resend-go/v2"

	"github.com/natural-surplus/backend/internal/application/adapter"
	domainerror "github.com/natural-surplus/backend/internal/domain/error"
)

// ResendClient implements the adapter.EmailSender interface using Resend.
type ResendClient struct {
	client  *resend.Client
	from    string
	replyTo string
}

// NewResendClient creates a new Resend client.
func NewResendClient(apiKey, fromName, fromEmail, replyTo string) *ResendClient {
	return &ResendClient{
		client:  resend.NewClient(apiKey),
		from:    fmt.Sprintf("%s <%s>", fromName, fromEmail),
		replyTo: replyTo,
	}
}

// Send sends an email via Resend.
func (c *ResendClient) Send(ctx context.Context, input adapter.SendEmailInput) (*adapter.SendEmailResult, error) {
	params := &resend.SendEmailRequest{
		From:    c.from,
		To:      []string{input.To},
		Subject: input.Subject,
		Html:    input.HTML,
		Text:    input.Text,
		ReplyTo: c.replyTo,
	}

	resp, err := c.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return nil, domainerror.NewDeliveryError("resend delivery failed", isPermanentError(err), err)
	}

	return &adapter.SendEmailResult{ResendID: resp.Id}, nil
}

// permanentPatterns mark provider errors that will not succeed on retry.
// Rate limits (429) and 5xx responses are retried.
var permanentPatterns = []string{
	"401", "403", "422",
	"unauthorized", "forbidden", "validation", "invalid", "bad request",
}

func isPermanentError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, pattern := range permanentPatterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

// LogSender logs emails instead of delivering them. It is used when no
// Resend API key is configured.
type LogSender struct{}

// Send implements adapter.EmailSender.
func (LogSender) Send(_ context.Context, input adapter.SendEmailInput) (*adapter.SendEmailResult, error) {
	slog.Info("Email delivery disabled, dropping message",
		"to", input.To,
		"subject", input.Subject,
	)
	return &adapter.SendEmailResult{ResendID: "log-only"}, nil
}

// MockEmailSender records sent emails for tests.
type MockEmailSender struct {
	mu          sync.Mutex
	sent        []adapter.SendEmailInput
	failErr     error
	isPermanent bool
}

// NewMockEmailSender creates a new mock email sender.
func NewMockEmailSender() *MockEmailSender {
	return &MockEmailSender{}
}

// Send implements the adapter.EmailSender interface for testing.
func (m *MockEmailSender) Send(_ context.Context, input adapter.SendEmailInput) (*adapter.SendEmailResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failErr != nil {
		return nil, domainerror.NewDeliveryError("mock failure", m.isPermanent, m.failErr)
	}

	m.sent = append(m.sent, input)
	return &adapter.SendEmailResult{ResendID: fmt.Sprintf("mock-%d", len(m.sent))}, nil
}

// Sent returns a copy of the emails sent so far.
func (m *MockEmailSender) Sent() []adapter.SendEmailInput {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]adapter.SendEmailInput(nil), m.sent...)
}

// SetFailure makes every following Send fail with err.
func (m *MockEmailSender) SetFailure(err error, permanent bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failErr = err
	m.isPermanent = permanent
}

// Reset clears sent emails and any configured failure.
func (m *MockEmailSender) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = nil
	m.failErr = nil
	m.isPermanent = false
}

var (
	_ adapter.EmailSender = (*ResendClient)(nil)
	_ adapter.EmailSender = LogSender{}
	_ adapter.EmailSender = (*MockEmailSender)(nil)
)
