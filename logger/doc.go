// Package logger provides structured logging on top of zerolog.
//
// It supports console and JSON output, level configuration, component-scoped
// loggers and context-carried request and pipeline run IDs.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.WithComponent("pipeline")
//	log.Info("run finished", logger.Fields("inputs", 3, "failed", 0))
package logger
