package handler

import (
	"net/http"

	"glerp/internal/middleware"
	"glerp/internal/service"
	"glerp/pkg/pagination"
	"glerp/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	auditService *service.AuditService
}

func NewAuditHandler(auditService *service.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup) {
	audit := router.Group("/audit", middleware.RequireRole("admin", "manager"))
	{
		audit.GET("/history/:company/:document", middleware.RequireAuth(), h.ApprovalHistory)
		audit.GET("/log", h.ListAuditLog)
	}
}

// ApprovalHistory handles GET /audit/history/:company/:document
// @Summary      Approval history for one document
// @Description  Full chronological transition trail of a journal entry
// @Tags         audit
// @Produce      json
// @Security     BearerAuth
// @Param        company   path      string  true  "Company code"
// @Param        document  path      string  true  "Document number"
// @Success      200  {object}  response.Response{data=[]model.WorkflowAuditLog}
// @Failure      500  {object}  response.Response
// @Router       /audit/history/{company}/{document} [get]
func (h *AuditHandler) ApprovalHistory(c *gin.Context) {
	entries, err := h.auditService.GetApprovalHistory(c.Request.Context(),
		c.Param("document"), c.Param("company"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, entries))
}

// ListAuditLog handles GET /audit/log
// @Summary      Page through the workflow audit trail
// @Tags         audit
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Items per page (default 20)"
// @Success      200    {object}  response.Response{data=object}
// @Failure      500    {object}  response.Response
// @Router       /audit/log [get]
func (h *AuditHandler) ListAuditLog(c *gin.Context) {
	params := pagination.Parse(c)

	entries, total, err := h.auditService.ListAuditLog(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Page(http.StatusOK, entries, total, params.Page, params.Limit))
}
