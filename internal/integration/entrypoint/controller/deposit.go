package controller

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/natural-surplus/backend/internal/application/usecase/deposit"
	domainerror "github.com/natural-surplus/backend/internal/domain/error"
	"github.com/natural-surplus/backend/internal/integration/entrypoint/dto"
)

// DepositController handles M-Pesa deposit endpoints.
type DepositController struct {
	initiateUseCase *deposit.InitiateDepositUseCase
	statusUseCase   *deposit.GetDepositStatusUseCase
	queryUseCase    *deposit.QueryDepositStatusUseCase
	callbackUseCase *deposit.HandleCallbackUseCase
}

// NewDepositController creates a new deposit controller instance.
func NewDepositController(
	initiateUseCase *deposit.InitiateDepositUseCase,
	statusUseCase *deposit.GetDepositStatusUseCase,
	queryUseCase *deposit.QueryDepositStatusUseCase,
	callbackUseCase *deposit.HandleCallbackUseCase,
) *DepositController {
	return &DepositController{
		initiateUseCase: initiateUseCase,
		statusUseCase:   statusUseCase,
		queryUseCase:    queryUseCase,
		callbackUseCase: callbackUseCase,
	}
}

// STKPush handles POST /deposits/mpesa/stkpush requests.
func (c *DepositController) STKPush(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req dto.STKPushRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body", string(domainerror.ErrCodeInvalidPhoneNumber), err)
		return
	}

	output, err := c.initiateUseCase.Execute(ctx.Request.Context(), deposit.InitiateDepositInput{
		UserID:           userID,
		PhoneNumber:      req.PhoneNumber,
		Amount:           req.Amount,
		AccountReference: req.AccountReference,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.STKPushResponse{
		Deposit:         dto.ToDepositResponse(output.Deposit),
		CustomerMessage: output.CustomerMessage,
	})
}

// Status handles GET /deposits/mpesa/status/:checkoutRequestId requests.
func (c *DepositController) Status(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	output, err := c.statusUseCase.Execute(ctx.Request.Context(), deposit.GetDepositStatusInput{
		UserID:            userID,
		CheckoutRequestID: ctx.Param("checkoutRequestId"),
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToDepositResponse(output.Deposit))
}

// QueryStatus handles POST /deposits/mpesa/query-status requests.
func (c *DepositController) QueryStatus(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req dto.QueryDepositStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body", string(domainerror.ErrCodeMissingCheckoutID), err)
		return
	}

	output, err := c.queryUseCase.Execute(ctx.Request.Context(), deposit.QueryDepositStatusInput{
		UserID:            userID,
		CheckoutRequestID: req.CheckoutRequestID,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.QueryDepositStatusResponse{
		Deposit:    dto.ToDepositResponse(output.Deposit),
		ResultCode: output.ResultCode,
		ResultDesc: output.ResultDesc,
	})
}

// Callback handles POST /deposits/mpesa/callback requests from Daraja.
// The gateway always receives an acceptance so it stops retrying; failures
// are logged and the deposit can still be settled through QueryStatus.
func (c *DepositController) Callback(ctx *gin.Context) {
	var req dto.MpesaCallbackRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		slog.Warn("Malformed M-Pesa callback", "error", err, "remote_ip", ctx.ClientIP())
		ctx.JSON(http.StatusOK, dto.AcceptedCallback)
		return
	}

	cb := req.Body.STKCallback
	output, err := c.callbackUseCase.Execute(ctx.Request.Context(), deposit.HandleCallbackInput{
		MerchantRequestID: cb.MerchantRequestID,
		CheckoutRequestID: cb.CheckoutRequestID,
		ResultCode:        cb.ResultCode,
		ResultDesc:        cb.ResultDesc,
		Amount:            cb.CallbackMetadata.Amount(),
		ReceiptNumber:     cb.CallbackMetadata.Value("MpesaReceiptNumber"),
		PhoneNumber:       cb.CallbackMetadata.Value("PhoneNumber"),
	})
	if err != nil {
		slog.Error("Failed to process M-Pesa callback",
			"checkout_request_id", cb.CheckoutRequestID,
			"result_code", cb.ResultCode,
			"error", err,
		)
		ctx.JSON(http.StatusOK, dto.AcceptedCallback)
		return
	}

	if output.Transitioned {
		slog.Info("M-Pesa callback processed",
			"checkout_request_id", cb.CheckoutRequestID,
			"status", output.Deposit.Status,
		)
	}
	ctx.JSON(http.StatusOK, dto.AcceptedCallback)
}
