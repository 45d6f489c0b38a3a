// Package handler implements the civ7save-server HTTP endpoints.
//
// Every JSON response uses the same envelope: {request_id, data} on
// success, {request_id, error{code, message}} on failure. The HTTP status
// is derived from the domain error code.
package handler
