package api

import (
	"net/http"

	"github.com/mindcraftr/mindcraftr-api/internal/api/shared"
)

// presets is the fixed catalog of standardized exams offered as one-click
// test setups.
var presets = []PresetResponse{
	{ID: "GRE", Name: "GRE", Description: "Graduate Record Examinations"},
	{ID: "SAT", Name: "SAT", Description: "Scholastic Assessment Test"},
	{ID: "ACT", Name: "ACT", Description: "American College Testing"},
}

// PresetHandler serves the preset exam catalog.
type PresetHandler struct{}

// NewPresetHandler creates a new PresetHandler.
func NewPresetHandler() *PresetHandler {
	return &PresetHandler{}
}

// List handles GET /api/v1/presets.
func (h *PresetHandler) List(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, presets)
}
