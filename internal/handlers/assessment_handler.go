package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/internlink/assessment-service/internal/repositories"
	"github.com/internlink/assessment-service/internal/services"
)

// AssessmentHandler exposes the authoring, delivery and import/export
// operations over HTTP.
type AssessmentHandler struct {
	BaseHandler
	assessmentService   services.AssessmentService
	deliveryService     services.DeliveryService
	importExportService services.ImportExportService
}

func NewAssessmentHandler(
	assessmentService services.AssessmentService,
	deliveryService services.DeliveryService,
	importExportService services.ImportExportService,
	logger *slog.Logger,
) *AssessmentHandler {
	return &AssessmentHandler{
		BaseHandler:         NewBaseHandler(logger),
		assessmentService:   assessmentService,
		deliveryService:     deliveryService,
		importExportService: importExportService,
	}
}

// ListAssessments returns bank summaries, optionally filtered by skill or
// creator. Question content is never included.
func (h *AssessmentHandler) ListAssessments(c *gin.Context) {
	filters := repositories.AssessmentFilters{
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
	if skill := c.Query("skill"); skill != "" {
		filters.Skill = &skill
	}
	if creatorStr := c.Query("created_by"); creatorStr != "" {
		if creatorID, err := strconv.ParseUint(creatorStr, 10, 32); err == nil {
			id := uint(creatorID)
			filters.CreatedBy = &id
		}
	}
	if limitStr := c.Query("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			filters.Limit = limit
		}
	}
	if offsetStr := c.Query("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil && offset >= 0 {
			filters.Offset = offset
		}
	}

	response, err := h.assessmentService.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// CreateAssessment stores a new question bank.
func (h *AssessmentHandler) CreateAssessment(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req services.CreateAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	summary, err := h.assessmentService.Create(c.Request.Context(), &req, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"assessment": summary})
}

// GetAssessment returns one bank's summary, without question content.
func (h *AssessmentHandler) GetAssessment(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	summary, err := h.assessmentService.GetSummary(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// DeleteAssessment removes a bank. Ownership is enforced in the service.
func (h *AssessmentHandler) DeleteAssessment(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	if err := h.assessmentService.Delete(c.Request.Context(), id, actor); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Assessment deleted"})
}

// StartAssessment hands the caller a randomized, answer-stripped test.
func (h *AssessmentHandler) StartAssessment(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	test, err := h.deliveryService.Start(c.Request.Context(), id, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, test)
}

// SubmitAssessment scores the posted answers and records the result on the
// student's profile.
func (h *AssessmentHandler) SubmitAssessment(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var body struct {
		Answers map[string]int `json:"answers"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	result, err := h.deliveryService.Submit(c.Request.Context(), id, actor, body.Answers)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ImportQuestions parses an uploaded CSV or Excel file into question rows.
func (h *AssessmentHandler) ImportQuestions(c *gin.Context) {
	if _, ok := h.actor(c); !ok {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Missing file upload",
			Details: err.Error(),
		})
		return
	}
	defer file.Close()

	result, err := h.importExportService.ImportQuestionsFromFile(c.Request.Context(), file, header.Filename)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ExportAssessment streams the bank as a spreadsheet, answer key included.
func (h *AssessmentHandler) ExportAssessment(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	format := c.DefaultQuery("format", "xlsx")
	filename := "assessment-" + strconv.FormatUint(uint64(id), 10) + "-" + time.Now().Format("20060102")

	var (
		data        []byte
		contentType string
		err         error
	)
	switch format {
	case "csv":
		data, err = h.importExportService.ExportBankToCSV(c.Request.Context(), id, actor)
		contentType = "text/csv"
		filename += ".csv"
	case "xlsx":
		data, err = h.importExportService.ExportBankToExcel(c.Request.Context(), id, actor)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		filename += ".xlsx"
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Unsupported export format",
			Details: format,
		})
		return
	}
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, contentType, data)
}

func (h *AssessmentHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrors services.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationErrors,
		})
		return
	}

	var validationError *services.ValidationError
	if errors.As(err, &validationError) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationError,
		})
		return
	}

	var permissionError *services.PermissionError
	if errors.As(err, &permissionError) {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Access denied",
			Details: map[string]interface{}{
				"resource": permissionError.Resource,
				"action":   permissionError.Action,
				"reason":   permissionError.Reason,
			},
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrAnswersRequired):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Answers are required",
		})
	case errors.Is(err, services.ErrAssessmentDuplicateTitle):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "An assessment with this title already exists",
		})
	case services.IsNotFound(err):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Resource not found",
		})
	case services.IsUnauthorized(err):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Access denied",
		})
	default:
		h.logger.Error("Unhandled service error",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}
