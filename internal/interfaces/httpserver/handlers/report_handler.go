package handlers

import (
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"vms-server/services/report-api/internal/config"
	domain "vms-server/services/report-api/internal/domain/report"
	"vms-server/services/report-api/internal/infrastructure/metrics"
	"vms-server/services/report-api/internal/interfaces/httpserver/requests"
	"vms-server/services/report-api/internal/interfaces/httpserver/responses"
	"vms-server/services/report-api/internal/utils/platformerrors"
)

// ReportHandler exposes report endpoints.
type ReportHandler struct {
	cfg     *config.Config
	service *domain.Service
	log     zerolog.Logger
}

func NewReportHandler(cfg *config.Config, service *domain.Service, log zerolog.Logger) *ReportHandler {
	return &ReportHandler{
		cfg:     cfg,
		service: service,
		log:     log.With().Str("component", "report-handler").Logger(),
	}
}

// Generate godoc
// @Summary      Generate a report
// @Description  Builds a typed report from analytics data, persists it and renders the requested artifact format.
// @Tags         reports
// @Accept       json
// @Produce      json
// @Param        request  body      requests.GenerateReportRequest  true  "Report filter"
// @Success      200      {object}  responses.Envelope{data=responses.ReportResponse}
// @Failure      400      {object}  responses.ErrorResponse
// @Failure      502      {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /v1/reports/generate [post]
func (h *ReportHandler) Generate(c *gin.Context) {
	var req requests.GenerateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, err.Error(), "report-generate-bind-001")
		return
	}

	filter, err := req.ToFilter()
	if err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, err.Error(), "report-generate-date-001")
		return
	}

	started := time.Now()
	result, err := h.service.Generate(c.Request.Context(), filter)
	if err != nil {
		metrics.RecordGeneration(req.ReportType, req.Format, "error", time.Since(started).Seconds())
		h.log.Error().Err(err).Str("report_type", req.ReportType).Msg("report generation failed")
		responses.HandleError(c, err, "failed to generate report")
		return
	}
	metrics.RecordGeneration(req.ReportType, req.Format, "success", time.Since(started).Seconds())

	c.JSON(http.StatusOK, responses.OK("report generated",
		responses.BuildReportResponse(result.Report, result.DownloadURLs, true)))
}

// List godoc
// @Summary      List reports
// @Description  Returns report metadata pages, newest first.
// @Tags         reports
// @Produce      json
// @Param        limit   query     int  false  "Page size"
// @Param        offset  query     int  false  "Page offset"
// @Success      200     {object}  responses.Envelope{data=responses.ReportListResponse}
// @Security     ApiKeyAuth
// @Router       /v1/reports [get]
func (h *ReportHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	reports, total, err := h.service.List(c.Request.Context(), limit, offset)
	if err != nil {
		responses.HandleError(c, err, "failed to list reports")
		return
	}

	c.JSON(http.StatusOK, responses.OK("",
		responses.BuildReportListResponse(reports, total, limit, offset, h.cfg.DownloadURL)))
}

// Get godoc
// @Summary      Get report metadata
// @Tags         reports
// @Produce      json
// @Param        report_id  path      string  true  "Report ID"
// @Success      200        {object}  responses.Envelope{data=responses.ReportResponse}
// @Failure      404        {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /v1/reports/{report_id} [get]
func (h *ReportHandler) Get(c *gin.Context) {
	rep, err := h.service.Get(c.Request.Context(), c.Param("report_id"))
	if err != nil {
		responses.HandleError(c, err, "failed to get report")
		return
	}

	urls := map[string]string{}
	for _, format := range domain.AllFormats {
		urls[format.Ext()] = h.cfg.DownloadURL(rep.ReportID + "." + format.Ext())
	}
	c.JSON(http.StatusOK, responses.OK("", responses.BuildReportResponse(rep, urls, true)))
}

// Download godoc
// @Summary      Download a report artifact
// @Description  Streams the rendered artifact. Content type follows the file extension.
// @Tags         reports
// @Produce      octet-stream
// @Param        filename  path  string  true  "Artifact filename (report_id.ext)"
// @Success      200
// @Failure      404  {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /v1/reports/download/{filename} [get]
func (h *ReportHandler) Download(c *gin.Context) {
	filename := c.Param("filename")
	ext := strings.TrimPrefix(path.Ext(filename), ".")

	reader, contentType, err := h.service.DownloadArtifact(c.Request.Context(), filename)
	if err != nil {
		metrics.RecordDownload(ext, "error")
		responses.HandleError(c, err, "failed to download report")
		return
	}
	defer reader.Close()
	metrics.RecordDownload(ext, "success")

	c.DataFromReader(http.StatusOK, -1, contentType, reader, map[string]string{
		"Content-Disposition": `attachment; filename="` + filename + `"`,
	})
}

// Delete godoc
// @Summary      Delete a report
// @Description  Removes the metadata row and every stored artifact file for the report.
// @Tags         reports
// @Produce      json
// @Param        report_id  path      string  true  "Report ID"
// @Success      200        {object}  responses.Envelope{data=report.DeleteResult}
// @Failure      404        {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /v1/reports/{report_id} [delete]
func (h *ReportHandler) Delete(c *gin.Context) {
	result, err := h.service.Delete(c.Request.Context(), c.Param("report_id"))
	if err != nil {
		responses.HandleError(c, err, "failed to delete report")
		return
	}
	c.JSON(http.StatusOK, responses.OK("report deleted", result))
}
