package layering

import (
	"encoding/json"
	"reflect"
	"strings"
)

// Trace reports what each layer held for one dotted path, strongest first.
type Trace struct {
	Path   string       `json:"path"`
	Layers []Provenance `json:"layers"`
}

// Provenance is one layer's contribution to a traced path.
type Provenance struct {
	Source string `json:"source"`
	Name   string `json:"name"`
	Value  any    `json:"value,omitempty"`
	Found  bool   `json:"found"`
}

// Winner returns the strongest layer that set the path.
func (t Trace) Winner() (Provenance, bool) {
	for _, layer := range t.Layers {
		if layer.Found {
			return layer, true
		}
	}
	return Provenance{}, false
}

func (t Trace) ToJSON() ([]byte, error) {
	return json.Marshal(t)
}

// Trace looks path up in every layer. Segments match a field's yaml tag or,
// ignoring case, its Go name.
func (s *Stack[T]) Trace(path string) Trace {
	out := Trace{Path: path}
	for _, layer := range s.Ordered() {
		value, found := lookup(reflect.ValueOf(layer.Value), path)
		entry := Provenance{Source: layer.Source.String(), Name: layer.Name, Found: found}
		if found {
			entry.Value = value
		}
		out.Layers = append(out.Layers, entry)
	}
	return out
}

func lookup(v reflect.Value, path string) (any, bool) {
	if path == "" {
		return nil, false
	}
	for _, segment := range strings.Split(path, ".") {
		v = indirect(v)
		if !v.IsValid() {
			return nil, false
		}
		switch v.Kind() {
		case reflect.Struct:
			v = fieldByKey(v, segment)
		case reflect.Map:
			if v.Type().Key().Kind() != reflect.String {
				return nil, false
			}
			v = v.MapIndex(reflect.ValueOf(segment).Convert(v.Type().Key()))
		default:
			return nil, false
		}
	}
	v = indirect(v)
	if !v.IsValid() || !v.CanInterface() {
		return nil, false
	}
	if (v.Kind() == reflect.Map || v.Kind() == reflect.Slice) && v.IsNil() {
		return nil, false
	}
	return v.Interface(), true
}

func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

func fieldByKey(v reflect.Value, key string) reflect.Value {
	typ := v.Type()
	for i := range typ.NumField() {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		tag, _, _ := strings.Cut(field.Tag.Get("yaml"), ",")
		if tag == key || strings.EqualFold(field.Name, key) {
			return v.Field(i)
		}
	}
	return reflect.Value{}
}
