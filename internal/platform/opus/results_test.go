package opus

import (
	"testing"

	"github.com/mindcraftr/mindcraftr-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawWithFields(fields map[string]any) RawResults {
	return RawResults{"jobResultsPayloadSchema": fields}
}

func TestExtractGradingResult(t *testing.T) {
	t.Parallel()

	raw := rawWithFields(map[string]any{
		"var_1": map[string]any{"display_name": "Score", "value": "85"},
		"var_2": map[string]any{"display_name": "Strength", "value": []any{"Algebra", "Geometry"}},
		"var_3": map[string]any{"display_name": "Weakness", "value": "Probability"},
		"var_4": map[string]any{"display_name": "AI Summary Extended", "value": "Solid overall performance."},
		"var_5": map[string]any{"display_name": "Total Questions Count", "value": float64(20)},
		"var_6": map[string]any{"display_name": "Correctly Answered Questions", "value": float64(17)},
	})

	res := ExtractGradingResult(raw)

	assert.Equal(t, 85, res.Score)
	assert.Equal(t, 20, res.TotalQuestions)
	assert.Equal(t, 17, res.CorrectAnswers)
	assert.Equal(t, []string{"Algebra", "Geometry"}, res.Strengths)
	assert.Equal(t, []string{"Probability"}, res.Weaknesses)
	assert.Equal(t, "Solid overall performance.", res.Summary)
}

func TestExtractGradingResultDefaults(t *testing.T) {
	t.Parallel()

	res := ExtractGradingResult(RawResults{})

	assert.Equal(t, 0, res.Score)
	assert.Equal(t, 0, res.TotalQuestions)
	assert.Equal(t, 0, res.CorrectAnswers)
	assert.Equal(t, []string{}, res.Strengths)
	assert.Equal(t, []string{}, res.Weaknesses)
	assert.Equal(t, DefaultSummary, res.Summary)
}

func TestExtractGradingResultIgnoresUnknownFields(t *testing.T) {
	t.Parallel()

	raw := rawWithFields(map[string]any{
		"var_1": map[string]any{"display_name": "Something Else", "value": "ignored"},
		"var_2": map[string]any{"display_name": "score", "value": float64(73)},
	})

	res := ExtractGradingResult(raw)

	assert.Equal(t, 73, res.Score)
	assert.Equal(t, []string{}, res.Strengths)
}

func TestExtractGradingResultEmptySummaryKeepsDefault(t *testing.T) {
	t.Parallel()

	raw := rawWithFields(map[string]any{
		"var_1": map[string]any{"display_name": "AI Summary", "value": ""},
	})

	res := ExtractGradingResult(raw)
	assert.Equal(t, DefaultSummary, res.Summary)
}

func TestExtractQuestionsFromSchemaField(t *testing.T) {
	t.Parallel()

	raw := rawWithFields(map[string]any{
		"var_1": map[string]any{
			"display_name": "Generated Questions",
			"value": []any{
				map[string]any{"type": "multiple_choice", "question": "Pick one", "options": []any{"a", "b"}, "correctAnswer": "a"},
				map[string]any{"type": "short_answer", "question": "Explain", "correctAnswer": "because"},
			},
		},
	})

	questions := ExtractQuestions(raw)

	require.Len(t, questions, 2)
	assert.Equal(t, 1, questions[0].ID)
	assert.Equal(t, 2, questions[1].ID)
	assert.Equal(t, domain.QuestionTypeMultipleChoice, questions[0].Type)
	assert.Equal(t, "Explain", questions[1].Question)
}

func TestExtractQuestionsFromJSONString(t *testing.T) {
	t.Parallel()

	raw := rawWithFields(map[string]any{
		"var_1": map[string]any{
			"display_name": "Output",
			"value":        `{"questions": [{"type": "short_answer", "question": "Define X", "correctAnswer": "Y"}]}`,
		},
	})

	questions := ExtractQuestions(raw)

	require.Len(t, questions, 1)
	assert.Equal(t, "Define X", questions[0].Question)
	assert.Equal(t, 1, questions[0].ID)
}

func TestExtractQuestionsTopLevelFallback(t *testing.T) {
	t.Parallel()

	raw := RawResults{
		"questions": []any{
			map[string]any{"type": "short_answer", "question": "Q1", "correctAnswer": "A1"},
		},
	}

	questions := ExtractQuestions(raw)

	require.Len(t, questions, 1)
	assert.Equal(t, "Q1", questions[0].Question)
}

func TestExtractQuestionsDeterministicFieldOrder(t *testing.T) {
	t.Parallel()

	// Both fields carry values; the sorted-first variable name wins.
	raw := rawWithFields(map[string]any{
		"var_b": map[string]any{
			"display_name": "Second",
			"value":        []any{map[string]any{"question": "from b", "type": "short_answer"}},
		},
		"var_a": map[string]any{
			"display_name": "First",
			"value":        []any{map[string]any{"question": "from a", "type": "short_answer"}},
		},
	})

	questions := ExtractQuestions(raw)

	require.Len(t, questions, 1)
	assert.Equal(t, "from a", questions[0].Question)
}

func TestExtractQuestionsEmpty(t *testing.T) {
	t.Parallel()

	assert.Nil(t, ExtractQuestions(RawResults{}))
	assert.Nil(t, ExtractQuestions(rawWithFields(map[string]any{
		"var_1": map[string]any{"display_name": "Empty", "value": nil},
	})))
}

func TestToInt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value any
		want  int
	}{
		{name: "int", value: 5, want: 5},
		{name: "float truncates", value: 85.9, want: 85},
		{name: "numeric string", value: "85", want: 85},
		{name: "float string truncates", value: "33.33", want: 33},
		{name: "padded string", value: " 12 ", want: 12},
		{name: "garbage", value: "not a number", want: 0},
		{name: "nil", value: nil, want: 0},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, toInt(tc.value))
		})
	}
}
