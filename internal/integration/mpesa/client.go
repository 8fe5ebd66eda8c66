// Package mpesa implements the Safaricom Daraja STK push gateway.
package mpesa

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/natural-surplus/backend/internal/application/adapter"
	domainerror "github.com/natural-surplus/backend/internal/domain/error"
)

const (
	SandboxBaseURL    = "https://sandbox.safaricom.co.ke"
	ProductionBaseURL = "https://api.safaricom.co.ke"

	oauthPath    = "/oauth/v1/generate?grant_type=client_credentials"
	stkPushPath  = "/mpesa/stkpush/v1/processrequest"
	stkQueryPath = "/mpesa/stkpushquery/v1/query"

	transactionType = "CustomerPayBillOnline"
	timestampLayout = "20060102150405"

	// tokenExpiryMargin is subtracted from the gateway's token lifetime before caching.
	tokenExpiryMargin = time.Minute
	defaultTokenTTL   = 3599 * time.Second
)

// nairobi is the zone Daraja expects request timestamps in.
var nairobi = time.FixedZone("EAT", 3*60*60)

var _ adapter.PaymentGateway = (*Client)(nil)

// TokenStore caches OAuth access tokens between requests.
type TokenStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, token string, ttl time.Duration) error
}

// Config holds the Daraja credentials and endpoints.
type Config struct {
	BaseURL        string
	ConsumerKey    string
	ConsumerSecret string
	ShortCode      string
	Passkey        string
	CallbackURL    string
	Timeout        time.Duration
}

// Client is a Daraja API client implementing adapter.PaymentGateway.
type Client struct {
	cfg        Config
	httpClient *http.Client
	tokens     TokenStore
	clock      adapter.Clock
}

// NewClient creates a Daraja client.
func NewClient(cfg Config, tokens TokenStore, clock adapter.Clock) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = SandboxBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		tokens:     tokens,
		clock:      clock,
	}
}

type oauthResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   string `json:"expires_in"`
}

type stkPushRequest struct {
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	TransactionType   string `json:"TransactionType"`
	Amount            int64  `json:"Amount"`
	PartyA            string `json:"PartyA"`
	PartyB            string `json:"PartyB"`
	PhoneNumber       string `json:"PhoneNumber"`
	CallBackURL       string `json:"CallBackURL"`
	AccountReference  string `json:"AccountReference"`
	TransactionDesc   string `json:"TransactionDesc"`
}

type stkPushResponse struct {
	MerchantRequestID   string `json:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	CustomerMessage     string `json:"CustomerMessage"`
}

type stkQueryRequest struct {
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	CheckoutRequestID string `json:"CheckoutRequestID"`
}

type stkQueryResponse struct {
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	MerchantRequestID   string `json:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResultCode          string `json:"ResultCode"`
	ResultDesc          string `json:"ResultDesc"`
}

type errorResponse struct {
	RequestID    string `json:"requestId"`
	ErrorCode    string `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
}

// InitiateSTKPush sends a CustomerPayBillOnline STK push.
func (c *Client) InitiateSTKPush(ctx context.Context, req adapter.STKPushRequest) (*adapter.STKPushResponse, error) {
	password, timestamp := c.password()
	body := stkPushRequest{
		BusinessShortCode: c.cfg.ShortCode,
		Password:          password,
		Timestamp:         timestamp,
		TransactionType:   transactionType,
		Amount:            req.Amount,
		PartyA:            req.PhoneNumber,
		PartyB:            c.cfg.ShortCode,
		PhoneNumber:       req.PhoneNumber,
		CallBackURL:       c.cfg.CallbackURL,
		AccountReference:  req.AccountReference,
		TransactionDesc:   req.Description,
	}

	var resp stkPushResponse
	if err := c.post(ctx, stkPushPath, body, &resp); err != nil {
		return nil, err
	}

	return &adapter.STKPushResponse{
		MerchantRequestID:   resp.MerchantRequestID,
		CheckoutRequestID:   resp.CheckoutRequestID,
		ResponseCode:        resp.ResponseCode,
		ResponseDescription: resp.ResponseDescription,
		CustomerMessage:     resp.CustomerMessage,
	}, nil
}

// QuerySTKPush asks for the outcome of an STK push.
func (c *Client) QuerySTKPush(ctx context.Context, checkoutRequestID string) (*adapter.STKQueryResponse, error) {
	password, timestamp := c.password()
	body := stkQueryRequest{
		BusinessShortCode: c.cfg.ShortCode,
		Password:          password,
		Timestamp:         timestamp,
		CheckoutRequestID: checkoutRequestID,
	}

	var resp stkQueryResponse
	if err := c.post(ctx, stkQueryPath, body, &resp); err != nil {
		return nil, err
	}

	return &adapter.STKQueryResponse{
		ResponseCode: resp.ResponseCode,
		ResultCode:   resp.ResultCode,
		ResultDesc:   resp.ResultDesc,
	}, nil
}

// password returns base64(shortcode + passkey + timestamp) and the timestamp used.
func (c *Client) password() (string, string) {
	timestamp := c.clock.Now().In(nairobi).Format(timestampLayout)
	raw := c.cfg.ShortCode + c.cfg.Passkey + timestamp
	return base64.StdEncoding.EncodeToString([]byte(raw)), timestamp
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	token, err := c.accessToken(ctx)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	respBody, status, err := c.do(req)
	if err != nil {
		return err
	}

	if status >= http.StatusBadRequest {
		return gatewayError(status, respBody)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", domainerror.ErrGatewayUnavailable, err)
	}
	return nil
}

// accessToken returns a cached OAuth token or fetches a new one.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	cacheKey := c.cfg.ConsumerKey
	if c.tokens != nil {
		token, ok, err := c.tokens.Get(ctx, cacheKey)
		if err != nil {
			slog.Warn("Failed to read cached gateway token", "error", err)
		} else if ok {
			return token, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+oauthPath, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.SetBasicAuth(c.cfg.ConsumerKey, c.cfg.ConsumerSecret)

	respBody, status, err := c.do(req)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("%w: token request returned status %d", domainerror.ErrGatewayUnavailable, status)
	}

	var resp oauthResponse
	if err := json.Unmarshal(respBody, &resp); err != nil || resp.AccessToken == "" {
		return "", fmt.Errorf("%w: invalid token response", domainerror.ErrGatewayUnavailable)
	}

	ttl := defaultTokenTTL
	if seconds, err := strconv.Atoi(resp.ExpiresIn); err == nil && seconds > 0 {
		ttl = time.Duration(seconds) * time.Second
	}
	if ttl > tokenExpiryMargin {
		ttl -= tokenExpiryMargin
	}

	if c.tokens != nil {
		if err := c.tokens.Set(ctx, cacheKey, resp.AccessToken, ttl); err != nil {
			slog.Warn("Failed to cache gateway token", "error", err)
		}
	}
	return resp.AccessToken, nil
}

func (c *Client) do(req *http.Request) ([]byte, int, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", domainerror.ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: failed to read response: %v", domainerror.ErrGatewayUnavailable, err)
	}
	return body, resp.StatusCode, nil
}

// gatewayError maps an error status to ErrGatewayRejected when Daraja explains the
// refusal, and to ErrGatewayUnavailable otherwise.
func gatewayError(status int, body []byte) error {
	var apiErr errorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.ErrorCode != "" {
		return fmt.Errorf("%w: %s (%s)", domainerror.ErrGatewayRejected, apiErr.ErrorMessage, apiErr.ErrorCode)
	}
	return fmt.Errorf("%w: status %d", domainerror.ErrGatewayUnavailable, status)
}
