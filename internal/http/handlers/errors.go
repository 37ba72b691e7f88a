// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// Codes are lowercase snake_case. Generic codes mirror HTTP status semantics;
// domain codes name the operation that failed when the status alone is not
// enough. Clients branch on the code, never on the message.
//
// Example response:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "bad_request",
//	  "message": "All fields are required."
//	}
package handlers

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeUnauthorized     = "unauthorized"
	ErrCodeNotFound         = "not_found"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodeRateLimited      = "too_many_requests"
	ErrCodeInternal         = "internal_error"

	// Domain-specific:
	ErrCodeCreateFailed = "create_failed"
	ErrCodeListFailed   = "list_failed"
)

// User-facing messages.
const (
	MsgAllFieldsRequired  = "All fields are required."
	MsgInvalidNumber      = "Age and weight must be numbers."
	MsgInvalidUnits       = "Units must be metric or imperial."
	MsgInvalidBody        = "Invalid request body"
	MsgMissingCredentials = "Missing credentials"
	MsgBadCredentials     = "There was a problem with your username or password."
	MsgInvalidID          = "Invalid id parameter"
	MsgNotFound           = "Submission not found"
	MsgMethodNotAllowed   = "Method not allowed"
	MsgRouteNotFound      = "route not found"
	MsgInternal           = "Internal server error"
)
