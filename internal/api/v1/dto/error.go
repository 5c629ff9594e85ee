package dto

import "net/http"

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Status  int    `json:"status" doc:"HTTP status code"`
	Message string `json:"error" doc:"Human readable error message"`
	Field   string `json:"field,omitempty" doc:"Input field the error refers to"`
}

func (e *ErrorResponse) Error() string {
	return e.Message
}

func (e *ErrorResponse) GetStatus() int {
	return e.Status
}

func NewError(status int, msg string) *ErrorResponse {
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &ErrorResponse{Status: status, Message: msg}
}

func NewFieldError(status int, field, msg string) *ErrorResponse {
	e := NewError(status, msg)
	e.Field = field
	return e
}

// SuccessResponse acknowledges a mutation that has nothing else to return.
type SuccessResponse struct {
	Success bool `json:"success"`
}
