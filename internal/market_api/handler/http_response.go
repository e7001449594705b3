package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/shared"
	"github.com/starmarket-sakvta/starmarket.api/internal/market_api/middleware"
)

// Response represents a standard API response
type Response struct {
	Data          interface{} `json:"data,omitempty"`
	Error         *ErrorInfo  `json:"error,omitempty"`
	CorrelationID string      `json:"correlation_id,omitempty"`
	Meta          *MetaInfo   `json:"meta,omitempty"`
}

// ErrorInfo represents error information in a response
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MetaInfo represents pagination metadata in a response
type MetaInfo struct {
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
}

const (
	codeBadRequest        = "BAD_REQUEST"
	codeInvalidRequest    = "INVALID_REQUEST"
	codeNotFound          = "NOT_FOUND"
	codeConflict          = "CONFLICT"
	codeInsufficientFunds = "INSUFFICIENT_FUNDS"
	codeGatewayFailure    = "GATEWAY_FAILURE"
	codeInternal          = "INTERNAL_SERVER_ERROR"
)

// RespondWithData sends a JSON response with data
func RespondWithData(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, &Response{
		Data:          data,
		CorrelationID: middleware.GetCorrelationID(c),
	})
}

// RespondWithError sends a JSON response with an error
func RespondWithError(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, &Response{
		Error:         &ErrorInfo{Code: code, Message: message},
		CorrelationID: middleware.GetCorrelationID(c),
	})
}

// RespondWithPage sends one page of results together with its position
func RespondWithPage(c *gin.Context, data interface{}, page, perPage int, total int64) {
	c.JSON(http.StatusOK, &Response{
		Data:          data,
		CorrelationID: middleware.GetCorrelationID(c),
		Meta:          &MetaInfo{Page: page, PerPage: perPage, Total: total},
	})
}

// RespondOK sends a 200 OK response with data
func RespondOK(c *gin.Context, data interface{}) {
	RespondWithData(c, http.StatusOK, data)
}

// RespondCreated sends a 201 Created response with data
func RespondCreated(c *gin.Context, data interface{}) {
	RespondWithData(c, http.StatusCreated, data)
}

// RespondBadRequest sends a 400 Bad Request response with an error
func RespondBadRequest(c *gin.Context, message string) {
	RespondWithError(c, http.StatusBadRequest, codeBadRequest, message)
}

// RespondInternalError sends a 500 Internal Server Error response with an error
func RespondInternalError(c *gin.Context) {
	RespondWithError(c, http.StatusInternalServerError, codeInternal, "An internal server error occurred")
}

// errorKind resolves the taxonomy kind of err into a response code.
// The boolean is false for infrastructure errors.
func errorKind(err error) (string, bool) {
	switch {
	case errors.Is(err, shared.ErrInvalidRequest):
		return codeInvalidRequest, true
	case errors.Is(err, shared.ErrNotFound):
		return codeNotFound, true
	case errors.Is(err, shared.ErrConflict):
		return codeConflict, true
	case errors.Is(err, shared.ErrInsufficientFunds):
		return codeInsufficientFunds, true
	case errors.Is(err, shared.ErrGatewayFailure):
		return codeGatewayFailure, true
	}
	return "", false
}

var statusByCode = map[string]int{
	codeInvalidRequest:    http.StatusBadRequest,
	codeNotFound:          http.StatusNotFound,
	codeConflict:          http.StatusConflict,
	codeInsufficientFunds: http.StatusBadRequest,
	codeGatewayFailure:    http.StatusBadGateway,
}

// RespondError maps a service error onto its HTTP status. Infrastructure
// errors are hidden behind a generic 500.
func RespondError(c *gin.Context, err error) {
	code, ok := errorKind(err)
	if !ok {
		RespondInternalError(c)
		return
	}
	RespondWithError(c, statusByCode[code], code, err.Error())
}

// RespondPreconditionFailure is the buy endpoint's mapping: every domain
// failure is a 400 and the code tells which precondition broke.
func RespondPreconditionFailure(c *gin.Context, err error) {
	code, ok := errorKind(err)
	if !ok {
		RespondInternalError(c)
		return
	}
	RespondWithError(c, http.StatusBadRequest, code, err.Error())
}

// respondFailure logs infrastructure errors on the request logger and maps err.
// Domain errors are not logged here.
func respondFailure(c *gin.Context, fallback *slog.Logger, msg string, err error, args ...any) {
	if _, ok := errorKind(err); !ok {
		middleware.GetLogger(c, fallback).Error(msg, append(args, "error", err)...)
	}
	RespondError(c, err)
}
