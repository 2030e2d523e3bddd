// Package logging holds the package-level diagnostic logger for the ingest
// pipeline. Renames mutate caller-owned storage, so they are always logged
// through this hook; callers that want silence install a no-op logger.
package logging

import "log"

// Logf is the pipeline's diagnostic logger. It defaults to log.Printf but may
// be replaced by SetLogger.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil installs a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}
