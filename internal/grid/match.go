package grid

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// matcher implements the free-text search: a record matches when the string
// form of any of its attributes contains the query, ignoring case.
type matcher struct {
	needle string
}

func newMatcher(query string) matcher {
	return matcher{needle: strings.ToLower(query)}
}

func (m matcher) match(rec any) bool {
	if m.needle == "" {
		return true
	}
	for _, s := range Attributes(rec) {
		if strings.Contains(strings.ToLower(s), m.needle) {
			return true
		}
	}
	return false
}

var stringerType = reflect.TypeOf((*fmt.Stringer)(nil)).Elem()

// Attributes returns the searchable string form of every attribute of rec.
//
// For a struct these are its exported fields; for a map, its values; any
// other value is its own single attribute. Strings, numbers, booleans,
// fmt.Stringer and time.Time values are searchable. Slices of those are
// joined with commas. Nested structs and maps without a String method are
// not searched.
func Attributes(rec any) []string {
	v := reflect.ValueOf(rec)
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if s, ok := stringify(v); ok {
		return []string{s}
	}
	var out []string
	switch v.Kind() {
	case reflect.Struct:
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			if !t.Field(i).IsExported() {
				continue
			}
			if s, ok := stringify(v.Field(i)); ok {
				out = append(out, s)
			}
		}
	case reflect.Map:
		iter := v.MapRange()
		for iter.Next() {
			if s, ok := stringify(iter.Value()); ok {
				out = append(out, s)
			}
		}
	}
	return out
}

func stringify(v reflect.Value) (string, bool) {
	if !v.IsValid() {
		return "", false
	}
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return "", false
		}
		v = v.Elem()
	}
	if v.CanInterface() {
		switch x := v.Interface().(type) {
		case time.Time:
			return x.Format(time.RFC3339), true
		case fmt.Stringer:
			return x.String(), true
		}
		if v.Type().Implements(stringerType) {
			return v.Interface().(fmt.Stringer).String(), true
		}
	}
	switch v.Kind() {
	case reflect.String:
		return v.String(), true
	case reflect.Bool:
		return strconv.FormatBool(v.Bool()), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10), true
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64), true
	case reflect.Slice, reflect.Array:
		parts := make([]string, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			s, ok := stringify(v.Index(i))
			if !ok {
				return "", false
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, ","), true
	}
	return "", false
}
