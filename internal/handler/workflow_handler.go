package handler

import (
	"context"
	"net/http"
	"strconv"

	"glerp/internal/middleware"
	"glerp/internal/model"
	"glerp/internal/service"
	"glerp/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type WorkflowHandler struct {
	engine *service.WorkflowEngine
}

func NewWorkflowHandler(engine *service.WorkflowEngine) *WorkflowHandler {
	return &WorkflowHandler{engine: engine}
}

func (h *WorkflowHandler) RegisterRoutes(router *gin.RouterGroup) {
	workflows := router.Group("/workflows")
	{
		workflows.POST("/submit", middleware.RequireRole("admin", "manager", "accountant"), h.Submit)
		workflows.PUT("/:id/approve", middleware.RequireRole("admin", "manager"), h.Approve)
		workflows.PUT("/:id/reject", middleware.RequireRole("admin", "manager"), h.Reject)
		workflows.PUT("/:id/withdraw", middleware.RequireRole("admin", "manager", "accountant"), h.Withdraw)
		workflows.GET("/pending", middleware.RequireAuth(), h.PendingApprovals)
		workflows.GET("", middleware.RequireRole("admin", "manager"), h.ListWorkflows)
		workflows.GET("/statistics", middleware.RequireRole("admin", "manager"), h.Statistics)
		workflows.GET("/required-level", middleware.RequireAuth(), h.RequiredLevel)
		workflows.GET("/approvers", middleware.RequireAuth(), h.AvailableApprovers)
	}
}

type actionRequest struct {
	Comments string `json:"comments"`
}

type workflowResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Submit handles POST /workflows/submit to route a draft document into approval
// @Summary      Submit document for approval
// @Description  Resolves the required approval level for a draft journal entry and opens a workflow instance
// @Tags         workflows
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.SubmitRequest  true  "Submission payload"
// @Success      200      {object}  response.Response{data=workflowResult}
// @Failure      400      {object}  response.Response
// @Router       /workflows/submit [post]
func (h *WorkflowHandler) Submit(c *gin.Context) {
	username, ok := currentUsername(c)
	if !ok {
		return
	}

	var req service.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}
	req.SubmittedBy = username

	ok, msg := h.engine.SubmitForApproval(c.Request.Context(), req)
	status := http.StatusOK
	if !ok {
		status = http.StatusBadRequest
	}
	c.JSON(status, response.Success(status, workflowResult{Success: ok, Message: msg}))
}

// Approve handles PUT /workflows/:id/approve
// @Summary      Approve a pending workflow step
// @Tags         workflows
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string          true   "Workflow instance ID"
// @Param        payload  body      actionRequest   false  "Optional comments"
// @Success      200      {object}  response.Response{data=workflowResult}
// @Failure      400      {object}  response.Response
// @Router       /workflows/{id}/approve [put]
func (h *WorkflowHandler) Approve(c *gin.Context) {
	h.action(c, h.engine.ApproveDocumentByID)
}

// Reject handles PUT /workflows/:id/reject
// @Summary      Reject a pending workflow
// @Tags         workflows
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string          true   "Workflow instance ID"
// @Param        payload  body      actionRequest   false  "Rejection reason"
// @Success      200      {object}  response.Response{data=workflowResult}
// @Failure      400      {object}  response.Response
// @Router       /workflows/{id}/reject [put]
func (h *WorkflowHandler) Reject(c *gin.Context) {
	h.action(c, h.engine.RejectDocument)
}

// Withdraw handles PUT /workflows/:id/withdraw
// @Summary      Withdraw an own pending submission
// @Tags         workflows
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string          true   "Workflow instance ID"
// @Param        payload  body      actionRequest   false  "Optional comments"
// @Success      200      {object}  response.Response{data=workflowResult}
// @Failure      400      {object}  response.Response
// @Router       /workflows/{id}/withdraw [put]
func (h *WorkflowHandler) Withdraw(c *gin.Context) {
	h.action(c, h.engine.WithdrawSubmission)
}

func (h *WorkflowHandler) action(c *gin.Context, fn func(ctx context.Context, id uuid.UUID, actor, comments string) (bool, string)) {
	username, ok := currentUsername(c)
	if !ok {
		return
	}

	instanceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid workflow instance ID"))
		return
	}

	var req actionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// Allow empty body — comments are optional
		req.Comments = ""
	}

	ok, msg := fn(c.Request.Context(), instanceID, username, req.Comments)
	status := http.StatusOK
	if !ok {
		status = http.StatusBadRequest
	}
	c.JSON(status, response.Success(status, workflowResult{Success: ok, Message: msg}))
}

// PendingApprovals handles GET /workflows/pending to list the caller's worklist
// @Summary      List pending approvals for the current user
// @Description  Includes steps assigned directly and via active delegations, with overdue flags
// @Tags         workflows
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]model.PendingApproval}
// @Failure      500  {object}  response.Response
// @Router       /workflows/pending [get]
func (h *WorkflowHandler) PendingApprovals(c *gin.Context) {
	username, ok := currentUsername(c)
	if !ok {
		return
	}

	rows, err := h.engine.GetPendingApprovals(c.Request.Context(), username)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, rows))
}

// ListWorkflows handles GET /workflows with status and days filters
// @Summary      List workflow instances
// @Tags         workflows
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Filter by status (PENDING, APPROVED, REJECTED, WITHDRAWN)"
// @Param        days    query     int     false  "Trailing window in days (default 30)"
// @Success      200     {object}  response.Response{data=[]model.WorkflowSummary}
// @Failure      500     {object}  response.Response
// @Router       /workflows [get]
func (h *WorkflowHandler) ListWorkflows(c *gin.Context) {
	status := model.WorkflowStatus(c.Query("status"))
	if status != "" && !status.IsValid() {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid status filter"))
		return
	}
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))

	rows, err := h.engine.GetAllWorkflows(c.Request.Context(), status, days)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, rows))
}

// Statistics handles GET /workflows/statistics
// @Summary      Workflow statistics
// @Description  Counts by status, overdue count, average completion hours, level breakdown and top approvers
// @Tags         workflows
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=model.WorkflowStatistics}
// @Failure      500  {object}  response.Response
// @Router       /workflows/statistics [get]
func (h *WorkflowHandler) Statistics(c *gin.Context) {
	stats, err := h.engine.GetWorkflowStatistics(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, stats))
}

// RequiredLevel handles GET /workflows/required-level
// @Summary      Resolve the approval level a document requires
// @Tags         workflows
// @Produce      json
// @Security     BearerAuth
// @Param        document_number  query     string  true  "Document number"
// @Param        company_code     query     string  true  "Company code"
// @Success      200  {object}  response.Response{data=service.RequiredLevel}
// @Failure      400  {object}  response.Response
// @Router       /workflows/required-level [get]
func (h *WorkflowHandler) RequiredLevel(c *gin.Context) {
	documentNumber := c.Query("document_number")
	companyCode := c.Query("company_code")
	if documentNumber == "" || companyCode == "" {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "document_number and company_code are required"))
		return
	}

	level, err := h.engine.CalculateRequiredApprovalLevel(c.Request.Context(), documentNumber, companyCode)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, level))
}

// AvailableApprovers handles GET /workflows/approvers
// @Summary      List eligible approvers for a level
// @Description  Applies active delegations and excludes the document creator
// @Tags         workflows
// @Produce      json
// @Security     BearerAuth
// @Param        level_id      query     string  true   "Approval level ID"
// @Param        company_code  query     string  true   "Company code"
// @Param        exclude       query     string  false  "Username to exclude (document creator)"
// @Success      200  {object}  response.Response{data=[]service.ApproverInfo}
// @Failure      400  {object}  response.Response
// @Router       /workflows/approvers [get]
func (h *WorkflowHandler) AvailableApprovers(c *gin.Context) {
	levelID, err := uuid.Parse(c.Query("level_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid level_id"))
		return
	}
	companyCode := c.Query("company_code")
	if companyCode == "" {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "company_code is required"))
		return
	}

	approvers, err := h.engine.GetAvailableApprovers(c.Request.Context(), levelID, companyCode, c.Query("exclude"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, approvers))
}
