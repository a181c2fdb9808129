// Package api implements the HTTP transport layer: request decoding and
// validation, handler orchestration, and the mapping of application errors
// onto HTTP status codes. Handlers never embed business rules; they delegate
// to the services in internal/service and translate the outcome.
package api
