// Package middlewares provides HTTP middleware for budgetd handlers.
//
// Auth resolves a bearer token to a user id through the session
// manager and stores it in the request context; RequestID tags every
// request with a correlation id. Both compose with any chi or plain
// net/http router.
package middlewares
