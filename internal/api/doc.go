// Package api implements the HTTP handlers for the study-assistant REST
// surface: dashboard aggregates, recommended topics, flashcards, profile
// statistics, preset catalogs, and the test generation and grading
// endpoints backed by the service layer.
//
// The API is unauthenticated and serves a single fixed user; every
// handler resolves data against that user's ID.
package api
