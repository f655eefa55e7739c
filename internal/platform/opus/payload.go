package opus

import (
	"fmt"
	"reflect"
)

// ValueType is the closed set of type tags the Opus payload schema
// accepts.
type ValueType string

// Wire type tags.
const (
	TypeBool   ValueType = "bool"
	TypeInt    ValueType = "int"
	TypeFloat  ValueType = "float"
	TypeArray  ValueType = "array"
	TypeObject ValueType = "object"
	TypeString ValueType = "str"
)

// TypedValue is the tagged wrapper every submitted input value must be
// converted to.
type TypedValue struct {
	Value any       `json:"value"`
	Type  ValueType `json:"type"`
}

// Classify converts a native value into a TypedValue.
//
// The precedence order is a hard invariant: bool before int (a bool must
// never be submitted as an int), then int, float, array, object, and
// finally a lossy string conversion for everything else. Reordering these
// cases silently corrupts payloads whose schema expects a specific
// primitive type.
func Classify(value any) TypedValue {
	switch v := value.(type) {
	case bool:
		return TypedValue{Value: v, Type: TypeBool}
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return TypedValue{Value: v, Type: TypeInt}
	case float32, float64:
		return TypedValue{Value: v, Type: TypeFloat}
	case string:
		return TypedValue{Value: v, Type: TypeString}
	}

	// Slices, arrays and string-keyed maps of any element type count as
	// array/object; reflection catches the concrete types a plain type
	// switch cannot enumerate.
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return TypedValue{Value: value, Type: TypeArray}
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			return TypedValue{Value: value, Type: TypeObject}
		}
	case reflect.Struct, reflect.Pointer:
		if rv.Kind() == reflect.Pointer && !rv.IsNil() {
			return Classify(rv.Elem().Interface())
		}
		if rv.Kind() == reflect.Struct {
			return TypedValue{Value: value, Type: TypeObject}
		}
	}

	// Explicit lossy fallback, not an error.
	return TypedValue{Value: fmt.Sprintf("%v", value), Type: TypeString}
}

// EncodeInputs converts caller-keyed native values into the
// variable-name-keyed typed payload the service expects. Keys are
// resolved through the display-name mapping; keys absent from the mapping
// are used verbatim as variable names (the identity fallback that makes
// an empty mapping harmless).
func EncodeInputs(inputs map[string]any, mapping map[string]string) map[string]TypedValue {
	payload := make(map[string]TypedValue, len(inputs))

	for key, value := range inputs {
		variable := key
		if mapped, ok := mapping[key]; ok && mapped != "" {
			variable = mapped
		}
		payload[variable] = Classify(value)
	}

	return payload
}
