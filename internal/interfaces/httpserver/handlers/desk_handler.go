package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"vms-server/services/report-api/internal/config"
	domain "vms-server/services/report-api/internal/domain/desk"
	"vms-server/services/report-api/internal/interfaces/httpserver/requests"
	"vms-server/services/report-api/internal/interfaces/httpserver/responses"
	"vms-server/services/report-api/internal/utils/platformerrors"
)

// DeskHandler exposes desk-assignment endpoints.
type DeskHandler struct {
	cfg     *config.Config
	service *domain.Service
	log     zerolog.Logger
}

func NewDeskHandler(cfg *config.Config, service *domain.Service, log zerolog.Logger) *DeskHandler {
	return &DeskHandler{
		cfg:     cfg,
		service: service,
		log:     log.With().Str("component", "desk-handler").Logger(),
	}
}

// Create godoc
// @Summary      Create a desk assignment
// @Tags         desk-assignments
// @Accept       json
// @Produce      json
// @Param        request  body      requests.CreateDeskAssignmentRequest  true  "Assignment"
// @Success      201      {object}  responses.Envelope{data=desk.Assignment}
// @Failure      400      {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /v1/desk-assignments [post]
func (h *DeskHandler) Create(c *gin.Context) {
	var req requests.CreateDeskAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, err.Error(), "desk-create-bind-001")
		return
	}

	assignment, err := h.service.Create(c.Request.Context(), req.ToDomain())
	if err != nil {
		responses.HandleError(c, err, "failed to create desk assignment")
		return
	}
	c.JSON(http.StatusCreated, responses.OK("desk assignment created", assignment))
}

// List godoc
// @Summary      List desk assignments
// @Tags         desk-assignments
// @Produce      json
// @Param        limit   query     int  false  "Page size"
// @Param        offset  query     int  false  "Page offset"
// @Success      200     {object}  responses.Envelope{data=responses.DeskAssignmentListResponse}
// @Security     ApiKeyAuth
// @Router       /v1/desk-assignments [get]
func (h *DeskHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	assignments, total, err := h.service.List(c.Request.Context(), limit, offset)
	if err != nil {
		responses.HandleError(c, err, "failed to list desk assignments")
		return
	}
	c.JSON(http.StatusOK, responses.OK("",
		responses.BuildDeskAssignmentListResponse(assignments, total, limit, offset)))
}

// Get godoc
// @Summary      Get a desk assignment
// @Tags         desk-assignments
// @Produce      json
// @Param        assignment_id  path      string  true  "Assignment ID"
// @Success      200            {object}  responses.Envelope{data=desk.Assignment}
// @Failure      404            {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /v1/desk-assignments/{assignment_id} [get]
func (h *DeskHandler) Get(c *gin.Context) {
	assignment, err := h.service.Get(c.Request.Context(), c.Param("assignment_id"))
	if err != nil {
		responses.HandleError(c, err, "failed to get desk assignment")
		return
	}
	c.JSON(http.StatusOK, responses.OK("", assignment))
}

// Update godoc
// @Summary      Update a desk assignment
// @Tags         desk-assignments
// @Accept       json
// @Produce      json
// @Param        assignment_id  path      string                                true  "Assignment ID"
// @Param        request        body      requests.UpdateDeskAssignmentRequest  true  "Field updates"
// @Success      200            {object}  responses.Envelope{data=desk.Assignment}
// @Failure      404            {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /v1/desk-assignments/{assignment_id} [patch]
func (h *DeskHandler) Update(c *gin.Context) {
	var req requests.UpdateDeskAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, err.Error(), "desk-update-bind-001")
		return
	}

	assignment, err := h.service.Update(c.Request.Context(), c.Param("assignment_id"), req.ToDomain())
	if err != nil {
		responses.HandleError(c, err, "failed to update desk assignment")
		return
	}
	c.JSON(http.StatusOK, responses.OK("desk assignment updated", assignment))
}

// Delete godoc
// @Summary      Delete a desk assignment
// @Tags         desk-assignments
// @Produce      json
// @Param        assignment_id  path  string  true  "Assignment ID"
// @Success      200  {object}  responses.Envelope
// @Failure      404  {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /v1/desk-assignments/{assignment_id} [delete]
func (h *DeskHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("assignment_id")); err != nil {
		responses.HandleError(c, err, "failed to delete desk assignment")
		return
	}
	c.JSON(http.StatusOK, responses.OK("desk assignment deleted", nil))
}
