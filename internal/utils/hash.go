package utils

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"reflect"
)

// HashFields creates a deterministic hash from a map of fields. Nil pointers
// and zero values hash the same as an absent key.
func HashFields(fields map[string]any) string {
	normalized := make(map[string]any, len(fields))
	for key, value := range fields {
		if v := normalizeValue(value); v != nil {
			normalized[key] = v
		}
	}

	// encoding/json sorts map keys
	jsonBytes, err := json.Marshal(normalized)
	if err != nil {
		jsonBytes = []byte("{}")
	}

	hash := sha256.Sum256(jsonBytes)
	return fmt.Sprintf("%x", hash)
}

func normalizeValue(value any) any {
	if value == nil {
		return nil
	}

	v := reflect.ValueOf(value)

	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil
		}
		return normalizeValue(v.Elem().Interface())
	}

	if v.IsZero() {
		return nil
	}

	switch v.Kind() {
	case reflect.String:
		return v.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int()
	case reflect.Bool:
		return v.Bool()
	default:
		return value
	}
}
