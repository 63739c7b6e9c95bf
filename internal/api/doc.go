// Package api handles incoming HTTP requests, routing, request validation,
// and response formatting. It acts as an adapter between external clients
// and the application services, translating HTTP concerns into operations
// on applications, documents, credits and activity.
//
// Handlers read the authenticated user ID placed in the request context by
// middleware.AuthMiddleware, decode and validate request bodies with the
// shared package, and map service errors to status codes with
// HandleAPIError so internal error details never reach clients.
package api
