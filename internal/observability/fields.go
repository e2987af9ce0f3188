package observability

import "go.uber.org/zap"

// String constructs a string log field.
func String(key, value string) zap.Field {
	return zap.String(key, value)
}

// Strings constructs a string slice log field.
func Strings(key string, values []string) zap.Field {
	return zap.Strings(key, values)
}

// Int constructs an int log field.
func Int(key string, value int) zap.Field {
	return zap.Int(key, value)
}

// Float64 constructs a float64 log field.
func Float64(key string, value float64) zap.Field {
	return zap.Float64(key, value)
}

// Float64s constructs a float64 slice log field.
func Float64s(key string, values []float64) zap.Field {
	return zap.Float64s(key, values)
}

// Bool constructs a bool log field.
func Bool(key string, value bool) zap.Field {
	return zap.Bool(key, value)
}

// Error constructs an error log field under the "error" key.
func Error(err error) zap.Field {
	return zap.Error(err)
}

// Reason constructs the field used to classify absorbed failures.
func Reason(reason string) zap.Field {
	return zap.String("reason", reason)
}
