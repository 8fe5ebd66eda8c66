package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/natural-surplus/backend/internal/application/usecase/investment"
	"github.com/natural-surplus/backend/internal/application/usecase/plan"
	domainerror "github.com/natural-surplus/backend/internal/domain/error"
	"github.com/natural-surplus/backend/internal/domain/valueobject"
	"github.com/natural-surplus/backend/internal/integration/entrypoint/dto"
	"github.com/natural-surplus/backend/internal/integration/entrypoint/middleware"
)

// requireUserID returns the authenticated user, or writes a 401 and returns false.
func requireUserID(ctx *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
	}
	return userID, ok
}

// PlanController handles the public plan catalog.
type PlanController struct {
	listPlansUseCase *plan.ListPlansUseCase
}

// NewPlanController creates a new plan controller instance.
func NewPlanController(listPlansUseCase *plan.ListPlansUseCase) *PlanController {
	return &PlanController{listPlansUseCase: listPlansUseCase}
}

// List handles GET /plans requests. Pass ?all=true to include inactive plans.
func (c *PlanController) List(ctx *gin.Context) {
	output, err := c.listPlansUseCase.Execute(ctx.Request.Context(), plan.ListPlansInput{
		ActiveOnly: ctx.Query("all") != "true",
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.PlanListResponse{Plans: dto.ToPlanResponses(output.Plans)})
}

// InvestmentController handles investment endpoints.
type InvestmentController struct {
	createUseCase *investment.CreateInvestmentUseCase
	listUseCase   *investment.ListInvestmentsUseCase
	getUseCase    *investment.GetInvestmentUseCase
}

// NewInvestmentController creates a new investment controller instance.
func NewInvestmentController(
	createUseCase *investment.CreateInvestmentUseCase,
	listUseCase *investment.ListInvestmentsUseCase,
	getUseCase *investment.GetInvestmentUseCase,
) *InvestmentController {
	return &InvestmentController{
		createUseCase: createUseCase,
		listUseCase:   listUseCase,
		getUseCase:    getUseCase,
	}
}

// Create handles POST /investments requests.
func (c *InvestmentController) Create(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req dto.CreateInvestmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body", string(domainerror.ErrCodeInvalidInvestmentTerms), err)
		return
	}

	output, err := c.createUseCase.Execute(ctx.Request.Context(), investment.CreateInvestmentInput{
		UserID: userID,
		Source: investmentSource(req),
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.CreateInvestmentResponse{
		Investment:  dto.ToInvestmentResponse(output.Investment),
		Commissions: dto.ToCommissionResponses(output.Commissions),
	})
}

// investmentSource picks the plan when plan_id is set, otherwise the custom
// terms when any of them is set. A nil source is rejected by the use case.
func investmentSource(req dto.CreateInvestmentRequest) valueobject.InvestmentSource {
	if req.PlanID != nil {
		return valueobject.PlanBased{PlanID: *req.PlanID}
	}
	if req.Amount == nil && req.DailyReturn == nil && req.Duration == nil {
		return nil
	}

	var terms valueobject.CustomTerms
	if req.Amount != nil {
		terms.Amount = *req.Amount
	}
	if req.DailyReturn != nil {
		terms.DailyReturn = *req.DailyReturn
	}
	if req.Duration != nil {
		terms.Duration = *req.Duration
	}
	return terms
}

// List handles GET /investments requests.
func (c *InvestmentController) List(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), investment.ListInvestmentsInput{UserID: userID})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.InvestmentListResponse{
		Investments: dto.ToInvestmentResponses(output.Investments),
	})
}

// Get handles GET /investments/:id requests.
func (c *InvestmentController) Get(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	investmentID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		writeError(ctx, http.StatusNotFound, "Investment not found", string(domainerror.ErrCodeInvestmentNotFound))
		return
	}

	output, err := c.getUseCase.Execute(ctx.Request.Context(), investment.GetInvestmentInput{
		UserID:       userID,
		InvestmentID: investmentID,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToInvestmentResponse(output.Investment))
}
