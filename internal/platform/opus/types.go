package opus

import (
	"encoding/json"
)

// The field names in these types are part of the Opus wire contract and
// must not be renamed: jobExecutionId, jobPayloadSchema,
// jobPayloadSchemaInstance, jobResultsPayloadSchema, status.

// schemaEntry is one variable in a workflow's input schema.
type schemaEntry struct {
	DisplayName string `json:"display_name"`
	Type        string `json:"type"`
}

// workflowDetails is the response of GET /workflow/{workflowId}.
type workflowDetails struct {
	JobPayloadSchema map[string]schemaEntry `json:"jobPayloadSchema"`
}

// initiateJobRequest is the body of POST /job/initiate.
type initiateJobRequest struct {
	WorkflowID  string `json:"workflowId"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// initiateJobResponse is the response of POST /job/initiate.
type initiateJobResponse struct {
	JobExecutionID string `json:"jobExecutionId"`
}

// executeJobRequest is the body of POST /job/execute.
type executeJobRequest struct {
	JobExecutionID           string                `json:"jobExecutionId"`
	JobPayloadSchemaInstance map[string]TypedValue `json:"jobPayloadSchemaInstance"`
}

// statusResponse is the response of GET /job/{jobExecutionId}/status.
type statusResponse struct {
	Status string `json:"status"`
}

// OutputField is one entry of the result schema: an opaque variable name
// maps to a display name chosen by the workflow author and the produced
// value.
type OutputField struct {
	DisplayName string `json:"display_name"`
	Value       any    `json:"value"`
}

// RawResults is the full, undecoded body of GET /job/{id}/results.
// The interesting part is the jobResultsPayloadSchema key, but some
// workflows also emit top-level keys (e.g. "questions"), so the whole
// object is preserved.
type RawResults map[string]any

// Fields decodes the jobResultsPayloadSchema entry of the raw results
// into output fields keyed by variable name. Returns nil when the key is
// absent or malformed; extraction treats that the same as an empty schema.
func (r RawResults) Fields() map[string]OutputField {
	raw, ok := r["jobResultsPayloadSchema"]
	if !ok {
		return nil
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return nil
	}

	var fields map[string]OutputField
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil
	}

	return fields
}
