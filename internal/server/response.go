package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/tripjournal/tripjournal/internal/validation"
)

// timestampLayout matches the backend's LocalDateTime rendering
const timestampLayout = "2006-01-02T15:04:05"

// APIResponse is the success envelope
type APIResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Data      any    `json:"data"`
}

// ValidationError describes one rejected field
type ValidationError struct {
	Field         string `json:"field"`
	Message       string `json:"message"`
	RejectedValue any    `json:"rejectedValue,omitempty"`
}

// ErrorResponse is the failure envelope
type ErrorResponse struct {
	Timestamp        string            `json:"timestamp"`
	Status           int               `json:"status"`
	Error            string            `json:"error"`
	Detail           string            `json:"detail"`
	Path             string            `json:"path"`
	ValidationErrors []ValidationError `json:"validationErrors,omitempty"`
}

func now() string {
	return time.Now().Format(timestampLayout)
}

func respond(c *gin.Context, status int, message string, data any) {
	c.JSON(status, APIResponse{
		Success:   true,
		Message:   message,
		Timestamp: now(),
		Data:      data,
	})
}

func respondError(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		Timestamp: now(),
		Status:    status,
		Error:     http.StatusText(status),
		Detail:    detail,
		Path:      c.Request.URL.Path,
	})
}

func respondValidation(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		respondError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	fields := make([]ValidationError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, ValidationError{
			Field:         fe.Field(),
			Message:       validation.Message(fe),
			RejectedValue: fe.Value(),
		})
	}

	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
		Timestamp:        now(),
		Status:           http.StatusBadRequest,
		Error:            http.StatusText(http.StatusBadRequest),
		Detail:           fields[0].Field + ": " + fields[0].Message,
		Path:             c.Request.URL.Path,
		ValidationErrors: fields,
	})
}

// bindJSON decodes and validates the request body, responding on failure
func (s *Server) bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return s.validate(c, req)
}

func (s *Server) validate(c *gin.Context, req any) bool {
	if err := s.validator.Struct(req); err != nil {
		respondValidation(c, err)
		return false
	}
	return true
}

// pathID parses a positive numeric path parameter
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "Invalid "+name)
		return 0, false
	}
	return id, true
}

// queryInt reads an optional non-negative integer query parameter
func queryInt(c *gin.Context, name string, def int) int {
	n, err := strconv.Atoi(c.Query(name))
	if err != nil || n < 0 {
		return def
	}
	return n
}

// Page is a paginated listing
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalPages    int   `json:"totalPages"`
	TotalElements int64 `json:"totalElements"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
	First         bool  `json:"first"`
	Last          bool  `json:"last"`
}

func newPage[T any](content []T, total int64, number, size int) Page[T] {
	pages := 0
	if size > 0 {
		pages = int((total + int64(size) - 1) / int64(size))
	}
	if content == nil {
		content = []T{}
	}
	return Page[T]{
		Content:       content,
		TotalPages:    pages,
		TotalElements: total,
		Number:        number,
		Size:          size,
		First:         number == 0,
		Last:          number >= pages-1,
	}
}
