// Package opus implements the client for the Opus workflow execution
// service, which runs the AI test-generation and test-grading workflows.
//
// A workflow run is asynchronous on the remote side: the client initiates
// a job, submits typed inputs against the workflow's dynamically
// discovered payload schema, polls the job status until a terminal state
// or deadline, and extracts typed outputs from the display-name-keyed
// result schema. Output matching is intentionally fuzzy (case-insensitive
// and, for some fields, substring-based) because the schema's display
// names are authored by workflow editors, not by this codebase.
package opus
