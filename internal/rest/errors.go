package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

const (
	problemContentType = "application/problem+json"
	problemBaseURL     = "https://www.jhipster.tech/problem"

	problemWithMessageType  = problemBaseURL + "/problem-with-message"
	constraintViolationType = problemBaseURL + "/constraint-violation"
)

// Problem is an RFC 7807 problem document carrying the keys the client UI translates.
type Problem struct {
	Type        string       `json:"type"`
	Title       string       `json:"title"`
	Status      int          `json:"status"`
	Detail      string       `json:"detail,omitempty"`
	Path        string       `json:"path,omitempty"`
	Message     string       `json:"message"`
	EntityName  string       `json:"entityName,omitempty"`
	ErrorKey    string       `json:"errorKey,omitempty"`
	Params      string       `json:"params,omitempty"`
	FieldErrors []FieldError `json:"fieldErrors,omitempty"`
}

type FieldError struct {
	ObjectName string `json:"objectName"`
	Field      string `json:"field"`
	Message    string `json:"message"`
}

// ValidationError is returned by request parsing when a parameter is malformed.
type ValidationError struct {
	ObjectName string
	Field      string
	Message    string
}

func (e *ValidationError) Error() string {
	return e.ObjectName + "." + e.Field + ": " + e.Message
}

func abortWithProblem(c *gin.Context, p Problem) {
	p.Path = c.Request.URL.Path
	c.Header("Content-Type", problemContentType)
	c.AbortWithStatusJSON(p.Status, p)
}

// badRequestAlert rejects a request that breaks an id contract before the store is touched.
func badRequestAlert(c *gin.Context, title, entityName, errorKey string) {
	writeHeaders(c, FailureAlertHeaders(entityName, errorKey))
	abortWithProblem(c, Problem{
		Type:       problemWithMessageType,
		Title:      title,
		Status:     http.StatusBadRequest,
		Message:    "error." + errorKey,
		EntityName: entityName,
		ErrorKey:   errorKey,
		Params:     entityName,
	})
}

// validationFailed reports binding, validator and query parameter errors.
func validationFailed(c *gin.Context, objectName string, err error) {
	p := Problem{
		Type:    constraintViolationType,
		Title:   "Method argument not valid",
		Status:  http.StatusBadRequest,
		Message: "error.validation",
	}

	var fieldErrs validator.ValidationErrors
	var paramErr *ValidationError
	switch {
	case errors.As(err, &fieldErrs):
		for _, fe := range fieldErrs {
			p.FieldErrors = append(p.FieldErrors, FieldError{
				ObjectName: objectName,
				Field:      fieldPath(fe),
				Message:    fe.Tag(),
			})
		}
	case errors.As(err, &paramErr):
		p.FieldErrors = []FieldError{{
			ObjectName: paramErr.ObjectName,
			Field:      paramErr.Field,
			Message:    paramErr.Message,
		}}
	default:
		p.Detail = err.Error()
	}

	abortWithProblem(c, p)
}

func notFound(c *gin.Context) {
	abortWithProblem(c, Problem{
		Type:    problemWithMessageType,
		Title:   "Not Found",
		Status:  http.StatusNotFound,
		Message: "error.http.404",
	})
}

// internalError logs err and answers with a generic problem; store details never reach the client.
func internalError(c *gin.Context, err error) {
	log.Error().Err(err).Str("method", c.Request.Method).Str("path", c.Request.URL.Path).Msg("Request failed")
	_ = c.Error(err)
	abortWithProblem(c, InternalServerErrorProblem())
}

// InternalServerErrorProblem is the body of every 500 response.
func InternalServerErrorProblem() Problem {
	return Problem{
		Type:    problemWithMessageType,
		Title:   "Internal Server Error",
		Status:  http.StatusInternalServerError,
		Message: "error.http.500",
	}
}
