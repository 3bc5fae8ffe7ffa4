package responses

import (
	"vms-server/services/report-api/internal/domain/desk"
)

// DeskAssignmentListResponse represents a paginated assignment listing
type DeskAssignmentListResponse struct {
	Assignments []*desk.Assignment `json:"assignments"`
	Total       int64              `json:"total"`
	Limit       int                `json:"limit"`
	Offset      int                `json:"offset"`
}

// BuildDeskAssignmentListResponse creates a listing response
func BuildDeskAssignmentListResponse(assignments []*desk.Assignment, total int64, limit, offset int) *DeskAssignmentListResponse {
	return &DeskAssignmentListResponse{
		Assignments: assignments,
		Total:       total,
		Limit:       limit,
		Offset:      offset,
	}
}
