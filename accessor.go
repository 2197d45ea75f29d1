// File: snowcfg/accessor.go
package snowcfg

import (
	"fmt"
	"reflect"
	"strconv"
)

// Typed accessors over ResolveValue. These attempt the conversions callers
// expect from loosely-typed configuration text: environment values arrive as
// strings, TOML integers as int64, and so on.

// String resolves key and renders it as a string.
func (r *ConfigurationResolver) String(key, def string) string {
	val := r.ResolveValue(key, def)
	if val == nil {
		return def
	}
	if s, ok := val.(string); ok {
		return s
	}
	switch v := val.(type) {
	case fmt.Stringer:
		return v.String()
	case []byte:
		return string(v)
	case bool:
		return strconv.FormatBool(v)
	default:
		rv := reflect.ValueOf(val)
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return strconv.FormatInt(rv.Int(), 10)
		case reflect.Float32, reflect.Float64:
			return strconv.FormatFloat(rv.Float(), 'f', -1, 64)
		}
		return fmt.Sprintf("%v", val)
	}
}

// Int64 resolves key as an integer, converting numeric types, parsable
// strings and booleans.
func (r *ConfigurationResolver) Int64(key string, def int64) (int64, error) {
	val := r.ResolveValue(key, def)
	if val == nil {
		return def, nil
	}

	rv := reflect.ValueOf(val)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Float32, reflect.Float64:
		return int64(rv.Float()), nil
	case reflect.String:
		s := rv.String()
		i, err := strconv.ParseInt(s, 0, 64)
		if err != nil {
			return 0, fmt.Errorf("cannot convert %q to int64 for key %s: %w", s, key, err)
		}
		return i, nil
	case reflect.Bool:
		if rv.Bool() {
			return 1, nil
		}
		return 0, nil
	}
	return 0, fmt.Errorf("cannot convert type %T to int64 for key %s", val, key)
}

// Bool resolves key as a boolean, converting numeric types (0 = false) and
// parsable strings.
func (r *ConfigurationResolver) Bool(key string, def bool) (bool, error) {
	val := r.ResolveValue(key, def)
	if val == nil {
		return def, nil
	}

	rv := reflect.ValueOf(val)
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool(), nil
	case reflect.String:
		s := rv.String()
		b, err := strconv.ParseBool(s)
		if err != nil {
			return false, fmt.Errorf("cannot convert %q to bool for key %s: %w", s, key, err)
		}
		return b, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0, nil
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0, nil
	}
	return false, fmt.Errorf("cannot convert type %T to bool for key %s", val, key)
}
