package config

import (
	"fmt"
	"reflect"
	"strconv"
)

// RequiredValidator ensures a configuration value is not nil or empty
func RequiredValidator(key string, value interface{}) error {
	if value == nil {
		return fmt.Errorf("configuration key %s is required", key)
	}

	if str, ok := value.(string); ok && str == "" {
		return fmt.Errorf("configuration key %s cannot be empty", key)
	}

	return nil
}

// IntRangeValidator validates that an integer value is within the specified range
func IntRangeValidator(min, max int) ConfigValidator {
	return func(key string, value interface{}) error {
		var intVal int

		switch v := value.(type) {
		case int:
			intVal = v
		case int64:
			intVal = int(v)
		case float64:
			intVal = int(v)
		case string:
			var err error
			if intVal, err = strconv.Atoi(v); err != nil {
				return fmt.Errorf("configuration key %s must be an integer", key)
			}
		default:
			return fmt.Errorf("configuration key %s must be an integer", key)
		}

		if intVal < min || intVal > max {
			return fmt.Errorf("configuration key %s must be between %d and %d", key, min, max)
		}

		return nil
	}
}

// OneOfValidator validates that a value is one of the allowed values
func OneOfValidator(validValues ...interface{}) ConfigValidator {
	return func(key string, value interface{}) error {
		for _, valid := range validValues {
			if reflect.DeepEqual(value, valid) {
				return nil
			}
		}
		return fmt.Errorf("configuration key %s must be one of: %v", key, validValues)
	}
}

// ChainValidator allows chaining multiple validators
func ChainValidator(validators ...ConfigValidator) ConfigValidator {
	return func(key string, value interface{}) error {
		for _, validator := range validators {
			if err := validator(key, value); err != nil {
				return err
			}
		}
		return nil
	}
}
