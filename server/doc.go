// Package server provides the HTTP server: gin behind h2c, a standard
// middleware stack and a component.Component adapter.
//
// Middleware (server/middleware) works on http.Handler and runs in front of
// gin: Recovery, RequestID, Tracing, CORS, BodySizeLimit and RequestLogger.
// Probe endpoints live in server/endpoint.
//
//	srv := server.New(cfg, log)
//	srv.ApplyMiddleware(metrics)
//	api.Register(srv.Engine(), ...)
//	registry.Register(server.NewComponent(srv))
package server
