// Package logging provides structured logging configuration for koenote-proxy.
//
// This package wraps log/slog so the proxy handlers, the backend client and
// the HTTP server all log the same way.
//
// # Usage
//
//	logger := logging.New(logging.Config{
//	    Level:  logging.LevelInfo,
//	    Format: logging.FormatJSON,
//	})
//
//	logger.Info("server started", "port", 3000)
//	logger.Error("proxy error", "route", "recordings.list", "error", err)
//
// # Integration
//
// Components accept a *slog.Logger through a functional option. If no logger
// is provided they fall back to logging.Nop().
package logging
