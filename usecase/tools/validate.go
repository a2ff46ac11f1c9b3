package tools

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/invopop/jsonschema"

	"github.com/fastygo/taskchat/domain"
)

// validate checks required fields, primitive types and enums. Unknown
// arguments are ignored.
func validate(schema *jsonschema.Schema, args map[string]interface{}) error {
	for _, name := range schema.Required {
		if v, ok := args[name]; !ok || v == nil {
			return domain.NewError(domain.ErrCodeInvalid, fmt.Sprintf("missing required argument: %s", name))
		}
	}
	if schema.Properties == nil {
		return nil
	}
	for pair := schema.Properties.Oldest(); pair != nil; pair = pair.Next() {
		value, ok := args[pair.Key]
		if !ok || value == nil {
			continue
		}
		prop := pair.Value
		if !matchesType(prop.Type, value) {
			return domain.NewError(domain.ErrCodeInvalid, fmt.Sprintf("argument %s must be %s", pair.Key, prop.Type))
		}
		if len(prop.Enum) > 0 && !inEnum(prop.Enum, value) {
			allowed := make([]string, 0, len(prop.Enum))
			for _, e := range prop.Enum {
				allowed = append(allowed, fmt.Sprint(e))
			}
			return domain.NewError(domain.ErrCodeInvalid,
				fmt.Sprintf("argument %s must be one of %s", pair.Key, strings.Join(allowed, ", ")))
		}
	}
	return nil
}

func matchesType(want string, value interface{}) bool {
	switch want {
	case "string":
		_, ok := value.(string)
		return ok
	case "boolean":
		_, ok := value.(bool)
		return ok
	case "integer":
		return isInteger(value)
	case "number":
		switch value.(type) {
		case float64, float32, int, int64, int32, json.Number:
			return true
		}
		return false
	default:
		return true
	}
}

func isInteger(value interface{}) bool {
	switch v := value.(type) {
	case int, int64, int32:
		return true
	case float64:
		return v == math.Trunc(v) && !math.IsInf(v, 0) && math.Abs(v) < 1<<53
	case json.Number:
		_, err := v.Int64()
		return err == nil
	default:
		return false
	}
}

func inEnum(enum []interface{}, value interface{}) bool {
	for _, e := range enum {
		if e == value {
			return true
		}
	}
	return false
}
