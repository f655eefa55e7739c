// Package service contains the application's use-case layer: the
// generation and grading adapters that sit between the HTTP handlers and
// the Opus workflow client. Both adapters degrade to deterministic local
// behavior when the workflow service is unavailable, so callers always
// receive a usable result.
package service
