package mpesa

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/natural-surplus/backend/internal/application/adapter"
	domainerror "github.com/natural-surplus/backend/internal/domain/error"
	"github.com/natural-surplus/backend/internal/integration/cache"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type darajaStub struct {
	tokenCalls atomic.Int32
	lastPush   stkPushRequest
	lastQuery  stkQueryRequest
	pushStatus int
	pushBody   any
}

func (s *darajaStub) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/v1/generate", func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "key", user)
		assert.Equal(t, "secret", pass)
		s.tokenCalls.Add(1)
		_ = json.NewEncoder(w).Encode(map[string]string{"access_token": "tok-1", "expires_in": "3599"})
	})
	mux.HandleFunc(stkPushPath, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&s.lastPush))
		status := s.pushStatus
		if status == 0 {
			status = http.StatusOK
		}
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(s.pushBody)
	})
	mux.HandleFunc(stkQueryPath, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&s.lastQuery))
		_ = json.NewEncoder(w).Encode(map[string]string{
			"ResponseCode": "0",
			"ResultCode":   "1032",
			"ResultDesc":   "Request cancelled by user",
		})
	})
	return mux
}

func newTestClient(t *testing.T, stub *darajaStub) *Client {
	t.Helper()
	server := httptest.NewServer(stub.handler(t))
	t.Cleanup(server.Close)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := Config{
		BaseURL:        server.URL,
		ConsumerKey:    "key",
		ConsumerSecret: "secret",
		ShortCode:      "174379",
		Passkey:        "passkey",
		CallbackURL:    "https://example.test/api/v1/mpesa/callback",
		Timeout:        5 * time.Second,
	}
	now := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	return NewClient(cfg, cache.NewTokenCache(rdb, "mpesa:token:"), fixedClock{now: now})
}

func TestClient_InitiateSTKPush(t *testing.T) {
	stub := &darajaStub{pushBody: map[string]string{
		"MerchantRequestID":   "m-1",
		"CheckoutRequestID":   "ws_CO_1",
		"ResponseCode":        "0",
		"ResponseDescription": "Success. Request accepted for processing",
		"CustomerMessage":     "Success. Request accepted for processing",
	}}
	client := newTestClient(t, stub)

	resp, err := client.InitiateSTKPush(context.Background(), adapter.STKPushRequest{
		PhoneNumber:      "254712345678",
		Amount:           500,
		AccountReference: "Natural Surplus",
		Description:      "Investment Payment",
	})
	require.NoError(t, err)

	assert.Equal(t, "ws_CO_1", resp.CheckoutRequestID)
	assert.Equal(t, "0", resp.ResponseCode)

	// 09:30 UTC is 12:30 in Nairobi.
	assert.Equal(t, "20260301123000", stub.lastPush.Timestamp)
	wantPassword := base64.StdEncoding.EncodeToString([]byte("174379passkey20260301123000"))
	assert.Equal(t, wantPassword, stub.lastPush.Password)
	assert.Equal(t, transactionType, stub.lastPush.TransactionType)
	assert.Equal(t, "254712345678", stub.lastPush.PartyA)
	assert.Equal(t, "174379", stub.lastPush.PartyB)
	assert.Equal(t, int64(500), stub.lastPush.Amount)
}

func TestClient_ReusesCachedToken(t *testing.T) {
	stub := &darajaStub{pushBody: map[string]string{"CheckoutRequestID": "ws_CO_1", "ResponseCode": "0"}}
	client := newTestClient(t, stub)

	for i := 0; i < 3; i++ {
		_, err := client.InitiateSTKPush(context.Background(), adapter.STKPushRequest{PhoneNumber: "254712345678", Amount: 1})
		require.NoError(t, err)
	}

	assert.Equal(t, int32(1), stub.tokenCalls.Load())
}

func TestClient_RejectedRequest(t *testing.T) {
	stub := &darajaStub{
		pushStatus: http.StatusBadRequest,
		pushBody: map[string]string{
			"requestId":    "r-1",
			"errorCode":    "400.002.02",
			"errorMessage": "Bad Request - Invalid PhoneNumber",
		},
	}
	client := newTestClient(t, stub)

	_, err := client.InitiateSTKPush(context.Background(), adapter.STKPushRequest{PhoneNumber: "254700000000", Amount: 1})

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerror.ErrGatewayRejected)
}

func TestClient_ServerErrorIsUnavailable(t *testing.T) {
	stub := &darajaStub{pushStatus: http.StatusServiceUnavailable, pushBody: map[string]string{}}
	client := newTestClient(t, stub)

	_, err := client.InitiateSTKPush(context.Background(), adapter.STKPushRequest{PhoneNumber: "254700000000", Amount: 1})

	assert.ErrorIs(t, err, domainerror.ErrGatewayUnavailable)
}

func TestClient_QuerySTKPush(t *testing.T) {
	stub := &darajaStub{}
	client := newTestClient(t, stub)

	resp, err := client.QuerySTKPush(context.Background(), "ws_CO_9")
	require.NoError(t, err)

	assert.Equal(t, "ws_CO_9", stub.lastQuery.CheckoutRequestID)
	assert.Equal(t, "174379", stub.lastQuery.BusinessShortCode)

	assert.Equal(t, "1032", resp.ResultCode)
	assert.Equal(t, "Request cancelled by user", resp.ResultDesc)
}
