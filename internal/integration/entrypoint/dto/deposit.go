package dto

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/natural-surplus/backend/internal/domain/entity"
)

// STKPushRequest represents the request body for starting an M-Pesa deposit.
type STKPushRequest struct {
	PhoneNumber      string          `json:"phone_number" binding:"required"`
	Amount           decimal.Decimal `json:"amount"`
	AccountReference string          `json:"account_reference" binding:"omitempty,max=12"`
}

// QueryDepositStatusRequest represents the request body for polling Daraja.
type QueryDepositStatusRequest struct {
	CheckoutRequestID string `json:"checkout_request_id" binding:"required"`
}

// DepositResponse represents a deposit in API responses.
type DepositResponse struct {
	ID                string          `json:"id"`
	CheckoutRequestID string          `json:"checkout_request_id"`
	MerchantRequestID string          `json:"merchant_request_id,omitempty"`
	PhoneNumber       string          `json:"phone_number"`
	Amount            decimal.Decimal `json:"amount"`
	Status            string          `json:"status"`
	ResultCode        string          `json:"result_code,omitempty"`
	ResultDesc        string          `json:"result_desc,omitempty"`
	ReceiptNumber     string          `json:"receipt_number,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	ResolvedAt        *time.Time      `json:"resolved_at,omitempty"`
}

// STKPushResponse represents the response to a started deposit.
type STKPushResponse struct {
	Deposit         DepositResponse `json:"deposit"`
	CustomerMessage string          `json:"customer_message,omitempty"`
}

// ToDepositResponse converts a domain Deposit entity to a DepositResponse DTO.
func ToDepositResponse(d *entity.Deposit) DepositResponse {
	return DepositResponse{
		ID:                d.ID.String(),
		CheckoutRequestID: d.CheckoutRequestID,
		MerchantRequestID: d.MerchantRequestID,
		PhoneNumber:       d.PhoneNumber,
		Amount:            d.Amount,
		Status:            string(d.Status),
		ResultCode:        d.ResultCode,
		ResultDesc:        d.ResultDesc,
		ReceiptNumber:     d.ReceiptNumber,
		CreatedAt:         d.CreatedAt,
		ResolvedAt:        d.ResolvedAt,
	}
}

// MpesaCallbackRequest is the body Daraja posts to the STK callback URL.
type MpesaCallbackRequest struct {
	Body struct {
		STKCallback STKCallback `json:"stkCallback"`
	} `json:"Body"`
}

// STKCallback carries the outcome of one STK push.
type STKCallback struct {
	MerchantRequestID string            `json:"MerchantRequestID"`
	CheckoutRequestID string            `json:"CheckoutRequestID"`
	ResultCode        int               `json:"ResultCode"`
	ResultDesc        string            `json:"ResultDesc"`
	CallbackMetadata  *CallbackMetadata `json:"CallbackMetadata,omitempty"`
}

// CallbackMetadata lists the name/value items of a successful payment.
type CallbackMetadata struct {
	Item []CallbackItem `json:"Item"`
}

// CallbackItem is one metadata entry. Values arrive as JSON numbers or strings.
type CallbackItem struct {
	Name  string          `json:"Name"`
	Value json.RawMessage `json:"Value,omitempty"`
}

// Value returns the raw text of the named item, without quotes.
func (m *CallbackMetadata) Value(name string) string {
	if m == nil {
		return ""
	}
	for _, item := range m.Item {
		if item.Name == name {
			return strings.Trim(strings.TrimSpace(string(item.Value)), `"`)
		}
	}
	return ""
}

// Amount returns the Amount item, or zero when absent or malformed.
func (m *CallbackMetadata) Amount() decimal.Decimal {
	amount, err := decimal.NewFromString(m.Value("Amount"))
	if err != nil {
		return decimal.Zero
	}
	return amount
}

// MpesaCallbackAck is the acknowledgement Daraja expects.
type MpesaCallbackAck struct {
	ResultCode int    `json:"ResultCode"`
	ResultDesc string `json:"ResultDesc"`
}

// AcceptedCallback acknowledges a callback whatever its outcome.
var AcceptedCallback = MpesaCallbackAck{ResultCode: 0, ResultDesc: "Accepted"}

// QueryDepositStatusResponse represents the gateway's answer to a status query.
type QueryDepositStatusResponse struct {
	Deposit    DepositResponse `json:"deposit"`
	ResultCode string          `json:"result_code,omitempty"`
	ResultDesc string          `json:"result_desc,omitempty"`
}
