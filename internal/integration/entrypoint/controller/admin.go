package controller

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/natural-surplus/backend/internal/application/usecase/payout"
	"github.com/natural-surplus/backend/internal/application/usecase/plan"
	"github.com/natural-surplus/backend/internal/integration/entrypoint/dto"
)

// PayoutRunner starts a manual payout scan.
type PayoutRunner interface {
	RunNow(ctx context.Context) (*payout.RunPayoutScanOutput, error)
}

// AdminController handles operator endpoints.
type AdminController struct {
	seedPlansUseCase *plan.SeedPlansUseCase
	listRunsUseCase  *payout.ListPayoutRunsUseCase
	payoutRunner     PayoutRunner
}

// NewAdminController creates a new admin controller instance.
func NewAdminController(
	seedPlansUseCase *plan.SeedPlansUseCase,
	listRunsUseCase *payout.ListPayoutRunsUseCase,
	payoutRunner PayoutRunner,
) *AdminController {
	return &AdminController{
		seedPlansUseCase: seedPlansUseCase,
		listRunsUseCase:  listRunsUseCase,
		payoutRunner:     payoutRunner,
	}
}

// ResetPlans handles POST /admin/plans/reset requests.
// It replaces the plan catalog with the default plans.
func (c *AdminController) ResetPlans(ctx *gin.Context) {
	output, err := c.seedPlansUseCase.Execute(ctx.Request.Context(), plan.SeedPlansInput{OnlyIfEmpty: false})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SeedPlansResponse{
		Message: "Plans reset successfully",
		Plans:   dto.ToPlanResponses(output.Plans),
	})
}

// RunPayouts handles POST /admin/payouts/run requests.
func (c *AdminController) RunPayouts(ctx *gin.Context) {
	output, err := c.payoutRunner.RunNow(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToPayoutRunResponse(output.Run))
}

// ListPayoutRuns handles GET /admin/payouts/runs requests.
func (c *AdminController) ListPayoutRuns(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.Query("limit"))
	output, err := c.listRunsUseCase.Execute(ctx.Request.Context(), payout.ListPayoutRunsInput{Limit: limit})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.PayoutRunListResponse{Runs: dto.ToPayoutRunResponses(output.Runs)})
}
