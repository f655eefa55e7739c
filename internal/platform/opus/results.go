package opus

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/mindcraftr/mindcraftr-api/internal/domain"
)

// DefaultSummary is used when the grading workflow produced no summary
// field.
const DefaultSummary = "No summary available."

// GradingResult is the normalized outcome of the grading workflow,
// assembled from the result schema's display-name-matched fields.
type GradingResult struct {
	Score          int
	TotalQuestions int
	CorrectAnswers int
	Strengths      []string
	Weaknesses     []string
	Summary        string
}

// gradingRule pairs a display-name predicate with the field it fills.
// The rules are applied per output field; the first matching rule wins.
type gradingRule struct {
	match func(displayName string) bool
	apply func(res *GradingResult, value any)
}

// The matching below is deliberately fuzzy: display names are authored in
// the workflow editor and have drifted before ("Strength" vs "strength",
// "AI Summary Extended"). Exact-fold for the short names, substring-fold
// for the verbose ones.
var gradingRules = []gradingRule{
	{equalsFold("strength"), func(r *GradingResult, v any) { r.Strengths = toStringList(v) }},
	{equalsFold("weakness"), func(r *GradingResult, v any) { r.Weaknesses = toStringList(v) }},
	{containsFold("ai summary"), func(r *GradingResult, v any) {
		if s := toString(v); s != "" {
			r.Summary = s
		}
	}},
	{equalsFold("score"), func(r *GradingResult, v any) { r.Score = toInt(v) }},
	{containsFold("total questions"), func(r *GradingResult, v any) { r.TotalQuestions = toInt(v) }},
	{containsFold("correctly answered"), func(r *GradingResult, v any) { r.CorrectAnswers = toInt(v) }},
}

// ExtractGradingResult assembles a GradingResult from raw job results.
// Unrecognized fields are ignored and missing fields keep their defaults
// (empty lists, zero counts, placeholder summary); extraction never
// fails.
func ExtractGradingResult(raw RawResults) GradingResult {
	res := GradingResult{
		Strengths:  []string{},
		Weaknesses: []string{},
		Summary:    DefaultSummary,
	}

	fields := raw.Fields()
	for _, variable := range sortedKeys(fields) {
		field := fields[variable]
		for _, rule := range gradingRules {
			if rule.match(field.DisplayName) {
				rule.apply(&res, field.Value)
				break
			}
		}
	}

	return res
}

// ExtractQuestions pulls the generated question list out of raw job
// results. The generation workflow does not use stable display names, so
// the first output field carrying a value is taken to be the question
// list; failing that, a top-level "questions" key is tried. Fields are
// visited in sorted variable-name order so the choice is deterministic.
func ExtractQuestions(raw RawResults) []domain.Question {
	fields := raw.Fields()
	for _, variable := range sortedKeys(fields) {
		if value := fields[variable].Value; value != nil {
			return toQuestions(value)
		}
	}

	if value, ok := raw["questions"]; ok {
		return toQuestions(value)
	}

	return nil
}

// toQuestions converts a result value into a question list. The value
// may be a JSON array, an object wrapping a "questions" array, or a JSON
// string containing either. Returns nil when no conversion applies.
func toQuestions(value any) []domain.Question {
	var data []byte

	if s, ok := value.(string); ok {
		data = []byte(s)
	} else {
		encoded, err := json.Marshal(value)
		if err != nil {
			return nil
		}
		data = encoded
	}

	var questions []domain.Question
	if err := json.Unmarshal(data, &questions); err == nil {
		return numberQuestions(questions)
	}

	var wrapper struct {
		Questions []domain.Question `json:"questions"`
	}
	if err := json.Unmarshal(data, &wrapper); err == nil {
		return numberQuestions(wrapper.Questions)
	}

	return nil
}

// numberQuestions assigns sequential IDs to questions the workflow left
// unnumbered.
func numberQuestions(questions []domain.Question) []domain.Question {
	for i := range questions {
		if questions[i].ID == 0 {
			questions[i].ID = i + 1
		}
	}
	return questions
}

func equalsFold(name string) func(string) bool {
	return func(displayName string) bool {
		return strings.EqualFold(strings.TrimSpace(displayName), name)
	}
}

func containsFold(fragment string) func(string) bool {
	return func(displayName string) bool {
		return strings.Contains(strings.ToLower(displayName), fragment)
	}
}

// toString renders a value as text. Nil becomes the empty string.
func toString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

// toStringList coerces a value to a string list, wrapping a scalar into a
// single-element list. Nil becomes an empty list.
func toStringList(value any) []string {
	switch v := value.(type) {
	case nil:
		return []string{}
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, toString(item))
		}
		return out
	default:
		if s := toString(v); s != "" {
			return []string{s}
		}
		return []string{}
	}
}

// toInt coerces numeric and numeric-string values to int, truncating
// toward zero. Anything else yields zero.
func toInt(value any) int {
	switch v := value.(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float32:
		return int(v)
	case float64:
		return int(v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n)
		}
		if f, err := v.Float64(); err == nil {
			return int(f)
		}
		return 0
	case string:
		s := strings.TrimSpace(v)
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int(f)
		}
		return 0
	default:
		return 0
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
