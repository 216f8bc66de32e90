package mutation

import (
	"fmt"
	"reflect"
)

// extractID pulls the entity identifier out of a mutated record using
// reflection, trying the field names the backend models actually carry.
// It returns "" when none is found; the invalidation map still evicts the
// kind's list and stats families, only the entity-scoped keys are skipped.
func extractID(record any) string {
	v := reflect.ValueOf(record)
	if !v.IsValid() {
		return ""
	}
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return ""
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return ""
	}

	for _, fieldName := range []string{"ID", "Id", "Username", "Name"} {
		field := v.FieldByName(fieldName)
		if field.IsValid() && field.CanInterface() {
			if s := fmt.Sprintf("%v", field.Interface()); s != "" {
				return s
			}
		}
	}
	return ""
}
