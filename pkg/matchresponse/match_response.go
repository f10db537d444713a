package matchresponse

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/DhavalSuthar-24/crease/internal/scoring"
	"github.com/DhavalSuthar-24/crease/pkg/validator"
	"github.com/gin-gonic/gin"
	playground "github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// RetryAfterSeconds is advertised to clients that lost a lock race.
const RetryAfterSeconds = 1

// --- Structs for Standardized JSON Response Bodies ---

// jsonSuccessResponse is the structure for successful responses.
type jsonSuccessResponse struct {
	Status  string      `json:"status"`            // Typically "success"
	Message string      `json:"message,omitempty"` // Optional descriptive message
	Data    interface{} `json:"data,omitempty"`    // The actual data payload
}

// jsonErrorResponse is the structure for error responses.
type jsonErrorResponse struct {
	Status    string      `json:"status"`              // "error" or "fail"
	Message   string      `json:"message"`             // Error message
	Code      int         `json:"code"`                // HTTP status code
	Kind      string      `json:"kind,omitempty"`      // Scoring error kind
	Retryable bool        `json:"retryable,omitempty"` // Same request may succeed later
	Errors    interface{} `json:"errors,omitempty"`    // Detailed errors, e.g., for validation
}

// --- Public Response Helper Functions ---

// ErrorResponse sends a standardized error JSON response.
// It's used for general errors.
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, jsonErrorResponse{
		Status:  statusText(statusCode),
		Message: message,
		Code:    statusCode,
	})
}

func statusText(statusCode int) string {
	if statusCode >= http.StatusInternalServerError {
		return "fail" // Differentiate client errors from server failures
	}
	return "error"
}

// ValidationErrorResponse sends a structured JSON response for validation errors
// originating from `c.ShouldBindJSON()` or similar.
func ValidationErrorResponse(c *gin.Context, err error) {
	var ve playground.ValidationErrors
	if errors.As(err, &ve) {
		c.AbortWithStatusJSON(http.StatusBadRequest, jsonErrorResponse{
			Status:  "error",
			Message: "Validation failed. Please check your input.",
			Code:    http.StatusBadRequest,
			Errors:  validator.ParseError(ve),
		})
		return
	}
	// For other binding errors (e.g., malformed JSON)
	ErrorResponse(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
}

// StatusForKind maps a scoring error kind to its HTTP status.
func StatusForKind(kind scoring.ErrorKind) int {
	switch kind {
	case scoring.KindNotFound:
		return http.StatusNotFound
	case scoring.KindForbidden:
		return http.StatusForbidden
	case scoring.KindPreconditionFailed:
		return http.StatusConflict
	case scoring.KindValidationFailed:
		return http.StatusUnprocessableEntity
	case scoring.KindContention:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// ScoringError sends the response for an error returned by the scoring engine.
// Contention is answered with a Retry-After header; errors without a kind are
// logged and reported without detail.
func ScoringError(c *gin.Context, err error) {
	var se *scoring.Error
	if !errors.As(err, &se) {
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("scoring operation failed")
		ErrorResponse(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	code := StatusForKind(se.Kind)
	if se.Retryable() {
		c.Header("Retry-After", strconv.Itoa(RetryAfterSeconds))
	}
	zerolog.Ctx(c.Request.Context()).Debug().
		Str("kind", string(se.Kind)).
		Int("code", code).
		Msg(se.Message)

	c.AbortWithStatusJSON(code, jsonErrorResponse{
		Status:    statusText(code),
		Message:   se.Message,
		Code:      code,
		Kind:      string(se.Kind),
		Retryable: se.Retryable(),
	})
}

// SuccessResponse sends a standardized success JSON response.
// The `data` argument provided by the controller is wrapped in the response structure.
// If `data` is `gin.H` and contains a "message" key (string), it's used as the top-level message,
// and the rest of `gin.H` becomes the `data` payload. Otherwise, the whole `data` argument becomes the payload.
func SuccessResponse(c *gin.Context, statusCode int, responseData interface{}) {
	payload := jsonSuccessResponse{
		Status: "success",
	}

	if gh, ok := responseData.(gin.H); ok {
		if msgStr, isStr := gh["message"].(string); isStr {
			payload.Message = msgStr
			dataMap := make(gin.H)
			for k, v := range gh {
				if k != "message" {
					dataMap[k] = v
				}
			}
			if len(dataMap) > 0 {
				payload.Data = dataMap
			}
		} else {
			payload.Data = responseData
		}
	} else if responseData != nil {
		payload.Data = responseData
	}

	c.JSON(statusCode, payload)
}
