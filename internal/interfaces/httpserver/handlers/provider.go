package handlers

import (
	"github.com/rs/zerolog"

	"vms-server/services/report-api/internal/config"
	"vms-server/services/report-api/internal/domain/desk"
	"vms-server/services/report-api/internal/domain/report"
)

// Provider wires HTTP handlers.
type Provider struct {
	Report *ReportHandler
	Desk   *DeskHandler
}

func NewProvider(cfg *config.Config, reportService *report.Service, deskService *desk.Service, log zerolog.Logger) *Provider {
	return &Provider{
		Report: NewReportHandler(cfg, reportService, log),
		Desk:   NewDeskHandler(cfg, deskService, log),
	}
}
