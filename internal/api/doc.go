// Package api contains the HTTP handlers, request/response models, and
// error mapping for the public API surface. Handlers stay thin: they
// decode and validate payloads, call into the service layer, and shape
// responses.
package api
