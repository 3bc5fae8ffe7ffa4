package responses

import (
	"errors"
	"net/http"

	"vms-server/services/report-api/internal/utils/platformerrors"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the failure envelope. Success is always false so
// clients can branch on the flag without inspecting the status code.
type ErrorResponse struct {
	Success       bool   `json:"success"`
	Code          string `json:"code,omitempty"` // UUID from PlatformError
	Error         string `json:"error"`
	Message       string `json:"message,omitempty"`
	ErrorInstance error  `json:"-"`
	RequestID     string `json:"request_id,omitempty"`
}

func newErrorResponse(code, message, requestID string, cause error) ErrorResponse {
	return ErrorResponse{
		Success:       false,
		Code:          code,
		Error:         message,
		Message:       message,
		ErrorInstance: cause,
		RequestID:     requestID,
	}
}

// HandleError handles domain errors and returns appropriate HTTP responses
func HandleError(reqCtx *gin.Context, err error, message string) {
	var domainErr *platformerrors.PlatformError
	if errors.As(err, &domainErr) {
		statusCode := platformerrors.ErrorTypeToHTTPStatus(domainErr.GetErrorType())

		errorMessage := domainErr.Message
		if errorMessage == "" {
			errorMessage = message
		}

		reqCtx.AbortWithStatusJSON(statusCode,
			newErrorResponse(domainErr.GetUUID(), errorMessage, domainErr.GetRequestID(), domainErr))
		return
	}
	// Non-platform errors
	reqCtx.AbortWithStatusJSON(http.StatusInternalServerError,
		newErrorResponse("", message, "", err))
}

// HandleNewError creates a new typed error at the route layer and handles it
func HandleNewError(reqCtx *gin.Context, errorType platformerrors.ErrorType, message string, uuid string) {
	ctx := reqCtx.Request.Context()
	err := platformerrors.NewError(ctx, platformerrors.LayerRoute, errorType, message, nil, uuid)

	statusCode := platformerrors.ErrorTypeToHTTPStatus(err.GetErrorType())
	reqCtx.AbortWithStatusJSON(statusCode,
		newErrorResponse(err.GetUUID(), message, err.GetRequestID(), err))
}
