// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	domainerror "github.com/natural-surplus/backend/internal/domain/error"
	"github.com/natural-surplus/backend/internal/integration/entrypoint/dto"
)

// respondError writes the HTTP response for a use case error.
func respondError(ctx *gin.Context, err error) {
	var (
		authErr       *domainerror.AuthError
		investmentErr *domainerror.InvestmentError
		planErr       *domainerror.PlanError
		depositErr    *domainerror.DepositError
	)

	switch {
	case errors.As(err, &authErr):
		writeError(ctx, authStatus(authErr.Code), authErr.Message, string(authErr.Code))
	case errors.As(err, &investmentErr):
		writeError(ctx, investmentStatus(investmentErr.Code), investmentErr.Message, string(investmentErr.Code))
	case errors.As(err, &planErr):
		writeError(ctx, planStatus(planErr.Code), planErr.Message, string(planErr.Code))
	case errors.As(err, &depositErr):
		writeError(ctx, depositStatus(depositErr.Code), depositErr.Message, string(depositErr.Code))
	default:
		slog.Error("Unhandled request error",
			"path", ctx.FullPath(),
			"error", err,
		)
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error: "An internal error occurred",
		})
	}
}

func writeError(ctx *gin.Context, status int, message, code string) {
	if status >= http.StatusInternalServerError {
		slog.Error("Request failed", "path", ctx.FullPath(), "code", code, "error", message)
	}
	ctx.JSON(status, dto.ErrorResponse{Error: message, Code: code})
}

func badRequest(ctx *gin.Context, message, code string, err error) {
	resp := dto.ErrorResponse{Error: message, Code: code}
	if err != nil {
		resp.Details = err.Error()
	}
	ctx.JSON(http.StatusBadRequest, resp)
}

func authStatus(code domainerror.AuthErrorCode) int {
	switch code {
	case domainerror.ErrCodeEmailExists:
		return http.StatusConflict
	case domainerror.ErrCodeWeakPassword,
		domainerror.ErrCodeInvalidEmail,
		domainerror.ErrCodeMissingFields,
		domainerror.ErrCodeInvalidReferralCode:
		return http.StatusBadRequest
	case domainerror.ErrCodeInvalidCredentials,
		domainerror.ErrCodeInvalidToken,
		domainerror.ErrCodeExpiredToken,
		domainerror.ErrCodeMissingToken,
		domainerror.ErrCodeInvalidAdminKey:
		return http.StatusUnauthorized
	case domainerror.ErrCodeUserNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func investmentStatus(code domainerror.InvestmentErrorCode) int {
	switch code {
	case domainerror.ErrCodeMissingInvestmentSource,
		domainerror.ErrCodeInvalidInvestmentTerms,
		domainerror.ErrCodeInsufficientBalance:
		return http.StatusBadRequest
	case domainerror.ErrCodeInvestmentNotFound,
		domainerror.ErrCodeInvestorNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodePayoutScanInProgress:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func planStatus(code domainerror.PlanErrorCode) int {
	switch code {
	case domainerror.ErrCodePlanNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodePlanInactive:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func depositStatus(code domainerror.DepositErrorCode) int {
	switch code {
	case domainerror.ErrCodeInvalidDepositAmount,
		domainerror.ErrCodeInvalidPhoneNumber,
		domainerror.ErrCodeMissingCheckoutID,
		domainerror.ErrCodeInvalidCreditAmount,
		domainerror.ErrCodeInvalidCallback:
		return http.StatusBadRequest
	case domainerror.ErrCodeDepositNotFound,
		domainerror.ErrCodeAccountNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeGatewayRejected:
		return http.StatusBadGateway
	case domainerror.ErrCodeGatewayUnavailable:
		return http.StatusServiceUnavailable
	case domainerror.ErrCodeCallbackForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
