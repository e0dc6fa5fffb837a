// Package reqctx carries per-request values through context.Context:
// request metadata set by the request id middleware and the verified caller
// set by the auth middleware.
//
// Services read the caller through ClaimsFromContext and forward
// BearerFromContext on calls made on the caller's behalf. Loggers pick up
// RequestIDFromContext and ClientIPFromContext.
package reqctx
