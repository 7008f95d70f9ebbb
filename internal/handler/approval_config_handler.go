package handler

import (
	"net/http"

	"glerp/internal/middleware"
	"glerp/internal/service"
	"glerp/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ApprovalConfigHandler struct {
	configService *service.ApprovalConfigService
}

func NewApprovalConfigHandler(configService *service.ApprovalConfigService) *ApprovalConfigHandler {
	return &ApprovalConfigHandler{configService: configService}
}

func (h *ApprovalConfigHandler) RegisterRoutes(router *gin.RouterGroup) {
	levels := router.Group("/approval-levels", middleware.RequireRole("admin"))
	{
		levels.POST("", h.CreateLevel)
		levels.GET("", middleware.RequireRole("admin", "manager"), h.ListLevels)
		levels.PUT("/:id", h.UpdateLevel)
		levels.DELETE("/:id", h.DeactivateLevel)
	}

	approvers := router.Group("/approvers", middleware.RequireRole("admin"))
	{
		approvers.POST("", h.AddApprover)
		approvers.GET("", middleware.RequireRole("admin", "manager"), h.ListApprovers)
		approvers.DELETE("/:id", h.RemoveApprover)
	}

	delegations := router.Group("/delegations", middleware.RequireRole("admin", "manager"))
	{
		delegations.POST("", h.CreateDelegation)
		delegations.DELETE("/:id", h.RevokeDelegation)
	}
}

// CreateLevel handles POST /approval-levels
// @Summary      Create an approval level
// @Tags         approval-config
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.ApprovalLevelRequest  true  "Approval level"
// @Success      201      {object}  response.Response{data=model.ApprovalLevel}
// @Failure      400      {object}  response.Response
// @Router       /approval-levels [post]
func (h *ApprovalConfigHandler) CreateLevel(c *gin.Context) {
	var req service.ApprovalLevelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	level, err := h.configService.CreateLevel(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, level))
}

// ListLevels handles GET /approval-levels
// @Summary      List a company's active approval levels
// @Tags         approval-config
// @Produce      json
// @Security     BearerAuth
// @Param        company_code  query     string  true  "Company code"
// @Success      200  {object}  response.Response{data=[]model.ApprovalLevel}
// @Failure      400  {object}  response.Response
// @Router       /approval-levels [get]
func (h *ApprovalConfigHandler) ListLevels(c *gin.Context) {
	companyCode := c.Query("company_code")
	if companyCode == "" {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "company_code is required"))
		return
	}

	levels, err := h.configService.ListLevels(c.Request.Context(), companyCode)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, levels))
}

// UpdateLevel handles PUT /approval-levels/:id
// @Summary      Update an approval level
// @Tags         approval-config
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                        true  "Level ID"
// @Param        payload  body      service.ApprovalLevelRequest  true  "Approval level"
// @Success      200      {object}  response.Response{data=model.ApprovalLevel}
// @Failure      400      {object}  response.Response
// @Router       /approval-levels/{id} [put]
func (h *ApprovalConfigHandler) UpdateLevel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid level ID"))
		return
	}

	var req service.ApprovalLevelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	level, err := h.configService.UpdateLevel(c.Request.Context(), id, req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, level))
}

// DeactivateLevel handles DELETE /approval-levels/:id
// @Summary      Deactivate an approval level
// @Tags         approval-config
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Level ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /approval-levels/{id} [delete]
func (h *ApprovalConfigHandler) DeactivateLevel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid level ID"))
		return
	}

	if err := h.configService.DeactivateLevel(c.Request.Context(), id); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Approval level deactivated"))
}

// AddApprover handles POST /approvers
// @Summary      Add a user to an approval level's pool
// @Tags         approval-config
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.AddApproverRequest  true  "Approver assignment"
// @Success      201      {object}  response.Response{data=model.Approver}
// @Failure      400      {object}  response.Response
// @Router       /approvers [post]
func (h *ApprovalConfigHandler) AddApprover(c *gin.Context) {
	var req service.AddApproverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	approver, err := h.configService.AddApprover(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, approver))
}

// ListApprovers handles GET /approvers
// @Summary      List a company's approver assignments
// @Tags         approval-config
// @Produce      json
// @Security     BearerAuth
// @Param        company_code  query     string  true  "Company code"
// @Success      200  {object}  response.Response{data=[]model.Approver}
// @Failure      400  {object}  response.Response
// @Router       /approvers [get]
func (h *ApprovalConfigHandler) ListApprovers(c *gin.Context) {
	companyCode := c.Query("company_code")
	if companyCode == "" {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "company_code is required"))
		return
	}

	approvers, err := h.configService.ListApprovers(c.Request.Context(), companyCode)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, approvers))
}

// RemoveApprover handles DELETE /approvers/:id
// @Summary      Remove an approver assignment
// @Tags         approval-config
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Approver assignment ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /approvers/{id} [delete]
func (h *ApprovalConfigHandler) RemoveApprover(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid approver ID"))
		return
	}

	if err := h.configService.RemoveApprover(c.Request.Context(), id); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Approver removed"))
}

// CreateDelegation handles POST /delegations
// @Summary      Create a temporary approval delegation
// @Tags         approval-config
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateDelegationRequest  true  "Delegation"
// @Success      201      {object}  response.Response{data=model.ApprovalDelegation}
// @Failure      400      {object}  response.Response
// @Router       /delegations [post]
func (h *ApprovalConfigHandler) CreateDelegation(c *gin.Context) {
	var req service.CreateDelegationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	delegation, err := h.configService.CreateDelegation(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, delegation))
}

// RevokeDelegation handles DELETE /delegations/:id
// @Summary      Revoke a delegation
// @Tags         approval-config
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Delegation ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /delegations/{id} [delete]
func (h *ApprovalConfigHandler) RevokeDelegation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid delegation ID"))
		return
	}

	if err := h.configService.RevokeDelegation(c.Request.Context(), id); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Delegation revoked"))
}
