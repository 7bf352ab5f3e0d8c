// Package logging holds the slog conventions used across the server: attribute
// keys, logger construction and redaction helpers.
//
// On the stdio transport stdout carries the MCP stream, so every logger built
// here writes to stderr unless told otherwise.
//
//	logger := logging.New(os.Stderr, logging.Options{Debug: true})
//	logging.WithSite(logger, "vesivanov").Info("report ready",
//	    logging.Provider("ga4"),
//	    logging.Status(logging.StatusSuccess))
//
// Service account emails are hashed with AnonymizeEmail before logging and
// credential material is never logged.
package logging
