package schema

import "sort"

// Schema is a map of field names to their expected types.
// Example: {"states": Slice(String()), "initial_state": String()}
type Schema map[string]Type

// Validate checks if data conforms to the schema.
// Returns an AggregateError with all validation failures found, nil when the
// document is clean. Fields are checked in name order so error lists are
// stable.
func Validate(schema Schema, data map[string]any) error {
	if len(schema) == 0 {
		// No schema = no validation
		return nil
	}

	fields := make([]string, 0, len(schema))
	for name := range schema {
		fields = append(fields, name)
	}
	sort.Strings(fields)

	var errs []error
	for _, fieldName := range fields {
		fieldType := schema[fieldName]
		value, exists := data[fieldName]
		if !exists {
			if _, optional := fieldType.(*OptionalType); optional {
				continue
			}
			errs = append(errs, &ValidationError{
				Field:  fieldName,
				Reason: "required",
			})
			continue
		}

		if err := fieldType.Validate(value); err != nil {
			errs = append(errs, &ValidationError{
				Field:  fieldName,
				Reason: err.Error(),
				Value:  value,
			})
		}
	}

	return Aggregate(errs)
}
