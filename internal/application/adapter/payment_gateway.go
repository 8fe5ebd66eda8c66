package adapter

import "context"

// STKPushRequest is a request to prompt a customer's phone for payment.
type STKPushRequest struct {
	PhoneNumber      string
	Amount           int64
	AccountReference string
	Description      string
}

// STKPushResponse is the gateway's acknowledgement of an STK push.
type STKPushResponse struct {
	MerchantRequestID   string
	CheckoutRequestID   string
	ResponseCode        string
	ResponseDescription string
	CustomerMessage     string
}

// STKQueryResponse is the gateway's view of an STK push outcome.
type STKQueryResponse struct {
	ResponseCode string
	ResultCode   string
	ResultDesc   string
}

// PaymentGateway defines the interface for the mobile-money gateway.
type PaymentGateway interface {
	// InitiateSTKPush starts a payment prompt on the customer's phone.
	InitiateSTKPush(ctx context.Context, req STKPushRequest) (*STKPushResponse, error)

	// QuerySTKPush asks the gateway for the outcome of an STK push.
	QuerySTKPush(ctx context.Context, checkoutRequestID string) (*STKQueryResponse, error)
}
