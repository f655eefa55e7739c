package opus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		value    any
		wantType ValueType
	}{
		{name: "bool true", value: true, wantType: TypeBool},
		{name: "bool false", value: false, wantType: TypeBool},
		{name: "int", value: 42, wantType: TypeInt},
		{name: "int64", value: int64(7), wantType: TypeInt},
		{name: "uint", value: uint(3), wantType: TypeInt},
		{name: "float64", value: 3.14, wantType: TypeFloat},
		{name: "float32", value: float32(1.5), wantType: TypeFloat},
		{name: "string", value: "hello", wantType: TypeString},
		{name: "numeric string stays string", value: "42", wantType: TypeString},
		{name: "string slice", value: []string{"a", "b"}, wantType: TypeArray},
		{name: "any slice", value: []any{1, "two"}, wantType: TypeArray},
		{name: "string map", value: map[string]any{"k": "v"}, wantType: TypeObject},
		{name: "struct", value: struct{ A int }{A: 1}, wantType: TypeObject},
		{name: "nil falls back to string", value: nil, wantType: TypeString},
		{name: "channel falls back to string", value: make(chan int), wantType: TypeString},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := Classify(tc.value)
			assert.Equal(t, tc.wantType, got.Type)
		})
	}
}

func TestClassifyBoolNeverInt(t *testing.T) {
	t.Parallel()

	// A bool submitted as int corrupts schemas expecting a bool input.
	got := Classify(true)
	assert.Equal(t, TypeBool, got.Type)
	assert.Equal(t, true, got.Value)
}

func TestClassifyPointerFollowsTarget(t *testing.T) {
	t.Parallel()

	n := 42
	got := Classify(&n)
	assert.Equal(t, TypeInt, got.Type)
	assert.Equal(t, 42, got.Value)
}

func TestEncodeInputsWithMapping(t *testing.T) {
	t.Parallel()

	inputs := map[string]any{
		"Exam Type":           "GRE",
		"Number of Questions": 10,
	}
	mapping := map[string]string{
		"Exam Type":           "exam_type",
		"Number of Questions": "num_questions",
	}

	payload := EncodeInputs(inputs, mapping)

	assert.Len(t, payload, 2)
	assert.Equal(t, TypedValue{Value: "GRE", Type: TypeString}, payload["exam_type"])
	assert.Equal(t, TypedValue{Value: 10, Type: TypeInt}, payload["num_questions"])
}

func TestEncodeInputsEmptyMappingKeepsKeys(t *testing.T) {
	t.Parallel()

	inputs := map[string]any{
		"Exam Type":  "SAT",
		"Time Limit": 30,
	}

	payload := EncodeInputs(inputs, map[string]string{})

	assert.Len(t, payload, 2)
	assert.Contains(t, payload, "Exam Type")
	assert.Contains(t, payload, "Time Limit")
	assert.Equal(t, TypeString, payload["Exam Type"].Type)
	assert.Equal(t, TypeInt, payload["Time Limit"].Type)
}

func TestEncodeInputsPartialMapping(t *testing.T) {
	t.Parallel()

	inputs := map[string]any{
		"Mapped":   "a",
		"Unmapped": "b",
	}
	mapping := map[string]string{"Mapped": "var_1"}

	payload := EncodeInputs(inputs, mapping)

	assert.Contains(t, payload, "var_1")
	assert.Contains(t, payload, "Unmapped")
	assert.NotContains(t, payload, "Mapped")
}
