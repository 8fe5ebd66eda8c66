package mock

import "net/http"

const (
	DarajaOAuthPath    = "/oauth/v1/generate"
	DarajaSTKPushPath  = "/mpesa/stkpush/v1/processrequest"
	DarajaSTKQueryPath = "/mpesa/stkpushquery/v1/query"
)

// StubDarajaToken makes every OAuth request succeed.
func (a *ApiMock) StubDarajaToken() {
	a.SetResponse(-1, http.MethodGet, DarajaOAuthPath, http.StatusOK, map[string]any{
		"access_token": "mock-daraja-token",
		"expires_in":   "3599",
	})
}

// AcceptSTKPush makes the next STK push requests return checkoutID.
func (a *ApiMock) AcceptSTKPush(merchantID, checkoutID string) {
	a.SetResponse(-1, http.MethodPost, DarajaSTKPushPath, http.StatusOK, map[string]any{
		"MerchantRequestID":   merchantID,
		"CheckoutRequestID":   checkoutID,
		"ResponseCode":        "0",
		"ResponseDescription": "Success. Request accepted for processing",
		"CustomerMessage":     "Success. Request accepted for processing",
	})
}

// RejectSTKPush makes STK push requests fail the way Daraja reports bad input.
func (a *ApiMock) RejectSTKPush(status int, errorCode, message string) {
	a.SetResponse(-1, http.MethodPost, DarajaSTKPushPath, status, map[string]any{
		"requestId":    "mock-request",
		"errorCode":    errorCode,
		"errorMessage": message,
	})
}

// AnswerSTKQuery makes STK status queries report resultCode for checkoutID.
func (a *ApiMock) AnswerSTKQuery(checkoutID, resultCode, resultDesc string) {
	a.SetResponse(-1, http.MethodPost, DarajaSTKQueryPath, http.StatusOK, map[string]any{
		"ResponseCode":        "0",
		"ResponseDescription": "The service request has been accepted successfully",
		"MerchantRequestID":   "mock-merchant",
		"CheckoutRequestID":   checkoutID,
		"ResultCode":          resultCode,
		"ResultDesc":          resultDesc,
	})
}

// Reset forgets every stubbed response and recorded request.
func (a *ApiMock) Reset() {
	for _, path := range []string{DarajaOAuthPath, DarajaSTKPushPath, DarajaSTKQueryPath} {
		a.ClearResponses(http.MethodGet, path)
		a.ClearResponses(http.MethodPost, path)
	}
}

// RequestCount returns how many requests reached method and path.
func (a *ApiMock) RequestCount(method, path string) int {
	return len(a.requestsReceived[method+path])
}
