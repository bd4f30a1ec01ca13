// Package middleware provides GameStore decorators.
//
// Middlewares compose with Wrap:
//
//	store := middleware.Wrap(sqliteStore,
//	    middleware.NewLoggingMiddleware(logger),
//	    middleware.NewMetricsMiddleware(metrics),
//	)
package middleware
