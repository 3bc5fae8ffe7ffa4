// Package render turns typed report bodies into downloadable artifact
// bytes. One renderer instance handles all formats; each format has its
// own file in this package.
package render

import (
	"fmt"

	"vms-server/services/report-api/internal/domain/report"
)

// Renderer produces artifact bytes for every supported format.
type Renderer struct{}

var _ report.Renderer = (*Renderer)(nil)

func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render dispatches on format.
func (r *Renderer) Render(format report.Format, rep *report.Report, body report.Body) ([]byte, error) {
	switch format {
	case report.FormatJSON:
		return renderJSON(rep, body)
	case report.FormatCSV:
		return renderCSV(rep, body)
	case report.FormatXLSX:
		return renderXLSX(rep, body)
	case report.FormatPDF:
		return renderPDF(rep, body)
	default:
		return nil, fmt.Errorf("unsupported report format %q", format)
	}
}
