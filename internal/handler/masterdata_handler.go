package handler

import (
	"net/http"

	"glerp/internal/middleware"
	"glerp/internal/service"
	"glerp/pkg/pagination"
	"glerp/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MasterDataHandler struct {
	masterDataService *service.MasterDataService
}

func NewMasterDataHandler(masterDataService *service.MasterDataService) *MasterDataHandler {
	return &MasterDataHandler{masterDataService: masterDataService}
}

func (h *MasterDataHandler) RegisterRoutes(router *gin.RouterGroup) {
	accounts := router.Group("/gl-accounts")
	{
		accounts.GET("", middleware.RequireAuth(), h.ListGLAccounts)
		accounts.POST("", middleware.RequireRole("admin"), h.CreateGLAccount)
		accounts.PUT("/:id", middleware.RequireRole("admin"), h.UpdateGLAccount)
		accounts.DELETE("/:id", middleware.RequireRole("admin"), h.DeleteGLAccount)
	}

	units := router.Group("/business-units")
	{
		units.GET("", middleware.RequireAuth(), h.ListBusinessUnits)
		units.POST("", middleware.RequireRole("admin"), h.CreateBusinessUnit)
		units.PUT("/:id", middleware.RequireRole("admin"), h.UpdateBusinessUnit)
		units.DELETE("/:id", middleware.RequireRole("admin"), h.DeleteBusinessUnit)
	}

	docTypes := router.Group("/document-types")
	{
		docTypes.GET("", middleware.RequireAuth(), h.ListDocumentTypes)
		docTypes.POST("", middleware.RequireRole("admin"), h.CreateDocumentType)
	}
}

// CreateGLAccount handles POST /gl-accounts
// @Summary      Create a GL account
// @Tags         master-data
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.GLAccountRequest  true  "GL account"
// @Success      201      {object}  response.Response{data=model.GLAccount}
// @Failure      400      {object}  response.Response
// @Router       /gl-accounts [post]
func (h *MasterDataHandler) CreateGLAccount(c *gin.Context) {
	var req service.GLAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	account, err := h.masterDataService.CreateGLAccount(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, account))
}

// UpdateGLAccount handles PUT /gl-accounts/:id
// @Summary      Update a GL account
// @Tags         master-data
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                    true  "Account ID"
// @Param        payload  body      service.GLAccountRequest  true  "GL account"
// @Success      200      {object}  response.Response{data=model.GLAccount}
// @Failure      400      {object}  response.Response
// @Router       /gl-accounts/{id} [put]
func (h *MasterDataHandler) UpdateGLAccount(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid account ID"))
		return
	}

	var req service.GLAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	account, err := h.masterDataService.UpdateGLAccount(c.Request.Context(), id, req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, account))
}

// DeleteGLAccount handles DELETE /gl-accounts/:id
// @Summary      Delete a GL account
// @Tags         master-data
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Account ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /gl-accounts/{id} [delete]
func (h *MasterDataHandler) DeleteGLAccount(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid account ID"))
		return
	}

	if err := h.masterDataService.DeleteGLAccount(c.Request.Context(), id); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "GL account deleted"))
}

// ListGLAccounts handles GET /gl-accounts
// @Summary      List GL accounts
// @Tags         master-data
// @Produce      json
// @Security     BearerAuth
// @Param        account_type  query     string  false  "Filter by account type"
// @Param        page          query     int     false  "Page number (default 1)"
// @Param        limit         query     int     false  "Items per page (default 20)"
// @Success      200  {object}  response.Response{data=object}
// @Failure      500  {object}  response.Response
// @Router       /gl-accounts [get]
func (h *MasterDataHandler) ListGLAccounts(c *gin.Context) {
	params := pagination.Parse(c)

	accounts, total, err := h.masterDataService.ListGLAccounts(c.Request.Context(),
		c.Query("account_type"), params.Page, params.Limit)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Page(http.StatusOK, accounts, total, params.Page, params.Limit))
}

// CreateBusinessUnit handles POST /business-units
// @Summary      Create a business unit
// @Tags         master-data
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.BusinessUnitRequest  true  "Business unit"
// @Success      201      {object}  response.Response{data=model.BusinessUnit}
// @Failure      400      {object}  response.Response
// @Router       /business-units [post]
func (h *MasterDataHandler) CreateBusinessUnit(c *gin.Context) {
	var req service.BusinessUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	unit, err := h.masterDataService.CreateBusinessUnit(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, unit))
}

// UpdateBusinessUnit handles PUT /business-units/:id
// @Summary      Update a business unit
// @Tags         master-data
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                       true  "Unit ID"
// @Param        payload  body      service.BusinessUnitRequest  true  "Business unit"
// @Success      200      {object}  response.Response{data=model.BusinessUnit}
// @Failure      400      {object}  response.Response
// @Router       /business-units/{id} [put]
func (h *MasterDataHandler) UpdateBusinessUnit(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid unit ID"))
		return
	}

	var req service.BusinessUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	unit, err := h.masterDataService.UpdateBusinessUnit(c.Request.Context(), id, req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, unit))
}

// DeleteBusinessUnit handles DELETE /business-units/:id
// @Summary      Delete a business unit
// @Tags         master-data
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Unit ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /business-units/{id} [delete]
func (h *MasterDataHandler) DeleteBusinessUnit(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid unit ID"))
		return
	}

	if err := h.masterDataService.DeleteBusinessUnit(c.Request.Context(), id); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Business unit deleted"))
}

// ListBusinessUnits handles GET /business-units
// @Summary      List business units
// @Tags         master-data
// @Produce      json
// @Security     BearerAuth
// @Param        company_code  query     string  false  "Filter by company"
// @Param        page          query     int     false  "Page number (default 1)"
// @Param        limit         query     int     false  "Items per page (default 20)"
// @Success      200  {object}  response.Response{data=object}
// @Failure      500  {object}  response.Response
// @Router       /business-units [get]
func (h *MasterDataHandler) ListBusinessUnits(c *gin.Context) {
	params := pagination.Parse(c)

	units, total, err := h.masterDataService.ListBusinessUnits(c.Request.Context(),
		c.Query("company_code"), params.Page, params.Limit)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Page(http.StatusOK, units, total, params.Page, params.Limit))
}

// CreateDocumentType handles POST /document-types
// @Summary      Create a document type
// @Tags         master-data
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.DocumentTypeRequest  true  "Document type"
// @Success      201      {object}  response.Response{data=model.DocumentType}
// @Failure      400      {object}  response.Response
// @Router       /document-types [post]
func (h *MasterDataHandler) CreateDocumentType(c *gin.Context) {
	var req service.DocumentTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	docType, err := h.masterDataService.CreateDocumentType(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, docType))
}

// ListDocumentTypes handles GET /document-types
// @Summary      List document types
// @Tags         master-data
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]model.DocumentType}
// @Failure      500  {object}  response.Response
// @Router       /document-types [get]
func (h *MasterDataHandler) ListDocumentTypes(c *gin.Context) {
	types, err := h.masterDataService.ListDocumentTypes(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, types))
}
