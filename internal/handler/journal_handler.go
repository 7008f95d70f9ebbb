package handler

import (
	"net/http"

	"glerp/internal/middleware"
	"glerp/internal/service"
	"glerp/pkg/pagination"
	"glerp/pkg/response"

	"github.com/gin-gonic/gin"
)

type JournalHandler struct {
	journalService *service.JournalService
}

func NewJournalHandler(journalService *service.JournalService) *JournalHandler {
	return &JournalHandler{journalService: journalService}
}

func (h *JournalHandler) RegisterRoutes(router *gin.RouterGroup) {
	journals := router.Group("/journal-entries", middleware.RequireRole("admin", "manager", "accountant"))
	{
		journals.POST("", h.Create)
		journals.GET("", h.List)
		journals.GET("/:company/:document", h.Get)
		journals.PUT("/:company/:document", h.Update)
	}
}

// Create handles POST /journal-entries
// @Summary      Create a draft journal entry
// @Description  Validates balanced lines and active GL accounts, then assigns a document number
// @Tags         journal-entries
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateJournalRequest  true  "Journal entry"
// @Success      201      {object}  response.Response{data=model.JournalEntryHeader}
// @Failure      400      {object}  response.Response
// @Router       /journal-entries [post]
func (h *JournalHandler) Create(c *gin.Context) {
	username, ok := currentUsername(c)
	if !ok {
		return
	}

	var req service.CreateJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}
	req.CreatedBy = username

	header, err := h.journalService.CreateJournalEntry(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, header))
}

// List handles GET /journal-entries with filters and pagination
// @Summary      List journal entries
// @Tags         journal-entries
// @Produce      json
// @Security     BearerAuth
// @Param        company_code     query     string  false  "Filter by company"
// @Param        workflow_status  query     string  false  "Filter by workflow status"
// @Param        created_by       query     string  false  "Filter by creator"
// @Param        page             query     int     false  "Page number (default 1)"
// @Param        limit            query     int     false  "Items per page (default 20)"
// @Success      200  {object}  response.Response{data=object}
// @Failure      500  {object}  response.Response
// @Router       /journal-entries [get]
func (h *JournalHandler) List(c *gin.Context) {
	params := pagination.Parse(c)

	headers, total, err := h.journalService.ListJournalEntries(c.Request.Context(),
		c.Query("company_code"), c.Query("workflow_status"), c.Query("created_by"),
		params.Page, params.Limit)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Page(http.StatusOK, headers, total, params.Page, params.Limit))
}

// Get handles GET /journal-entries/:company/:document
// @Summary      Get a journal entry with its lines
// @Tags         journal-entries
// @Produce      json
// @Security     BearerAuth
// @Param        company   path      string  true  "Company code"
// @Param        document  path      string  true  "Document number"
// @Success      200  {object}  response.Response{data=model.JournalEntryHeader}
// @Failure      404  {object}  response.Response
// @Router       /journal-entries/{company}/{document} [get]
func (h *JournalHandler) Get(c *gin.Context) {
	header, err := h.journalService.GetJournalEntry(c.Request.Context(),
		c.Param("document"), c.Param("company"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, header))
}

// Update handles PUT /journal-entries/:company/:document
// @Summary      Update a draft or rejected journal entry
// @Description  Rejected documents are reset to DRAFT so they can be resubmitted
// @Tags         journal-entries
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        company   path      string                        true  "Company code"
// @Param        document  path      string                        true  "Document number"
// @Param        payload   body      service.UpdateJournalRequest  true  "Updated entry"
// @Success      200  {object}  response.Response{data=model.JournalEntryHeader}
// @Failure      400  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /journal-entries/{company}/{document} [put]
func (h *JournalHandler) Update(c *gin.Context) {
	username, ok := currentUsername(c)
	if !ok {
		return
	}

	var req service.UpdateJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}
	req.UpdatedBy = username

	header, err := h.journalService.UpdateJournalEntry(c.Request.Context(),
		c.Param("document"), c.Param("company"), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, header))
}
