package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/natural-surplus/backend/internal/application/usecase/dashboard"
	"github.com/natural-surplus/backend/internal/application/usecase/ledger"
	"github.com/natural-surplus/backend/internal/integration/entrypoint/dto"
)

// DashboardController handles the account overview and ledger endpoints.
type DashboardController struct {
	getDashboardUseCase *dashboard.GetDashboardUseCase
	listLedgerUseCase   *ledger.ListLedgerEntriesUseCase
}

// NewDashboardController creates a new dashboard controller instance.
func NewDashboardController(
	getDashboardUseCase *dashboard.GetDashboardUseCase,
	listLedgerUseCase *ledger.ListLedgerEntriesUseCase,
) *DashboardController {
	return &DashboardController{
		getDashboardUseCase: getDashboardUseCase,
		listLedgerUseCase:   listLedgerUseCase,
	}
}

// GetDashboard handles GET /dashboard requests.
func (c *DashboardController) GetDashboard(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	output, err := c.getDashboardUseCase.Execute(ctx.Request.Context(), dashboard.GetDashboardInput{UserID: userID})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToDashboardResponse(output))
}

// ListLedger handles GET /ledger requests.
func (c *DashboardController) ListLedger(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(ctx.Query("limit"))
	output, err := c.listLedgerUseCase.Execute(ctx.Request.Context(), ledger.ListLedgerEntriesInput{
		UserID: userID,
		Limit:  limit,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.LedgerListResponse{Entries: dto.ToLedgerEntryResponses(output.Entries)})
}
