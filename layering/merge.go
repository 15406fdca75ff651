// Package layering composes partial configuration values. A layer leaves a
// setting unset with a nil pointer, map or slice; scalars always count as set,
// so optional scalars belong behind pointers.
package layering

import "reflect"

// MergeLayers composes layers ordered from strongest to weakest. Set values in
// stronger layers win; unset ones are filled from weaker layers. Structs and
// maps merge field by field, slices are replaced whole. The result shares no
// memory with its inputs.
func MergeLayers[T any](layers ...T) T {
	var zero T
	if len(layers) == 0 {
		return zero
	}

	var merged reflect.Value
	for i := len(layers) - 1; i >= 0; i-- {
		merged = merge(reflect.ValueOf(layers[i]), merged)
	}
	if !merged.IsValid() {
		return zero
	}
	typ := reflect.TypeOf(zero)
	if typ != nil && merged.Type() != typ {
		merged = merged.Convert(typ)
	}
	out, _ := merged.Interface().(T)
	return out
}

// merge returns strong layered over weak. An invalid weak makes it a deep
// copy of strong.
func merge(strong, weak reflect.Value) reflect.Value {
	if !strong.IsValid() {
		if !weak.IsValid() {
			return weak
		}
		return merge(weak, reflect.Value{})
	}

	switch strong.Kind() {
	case reflect.Pointer:
		if strong.IsNil() {
			return fallthroughValue(strong, weak)
		}
		out := reflect.New(strong.Type().Elem())
		out.Elem().Set(merge(strong.Elem(), deref(weak, reflect.Pointer)))
		return out

	case reflect.Interface:
		if strong.IsNil() {
			return fallthroughValue(strong, weak)
		}
		return merge(strong.Elem(), deref(weak, reflect.Interface)).Convert(strong.Type())

	case reflect.Struct:
		out := reflect.New(strong.Type()).Elem()
		sameType := weak.IsValid() && weak.Type() == strong.Type()
		for i := range strong.NumField() {
			field := out.Field(i)
			if !field.CanSet() {
				continue
			}
			var weakField reflect.Value
			if sameType {
				weakField = weak.Field(i)
			}
			field.Set(merge(strong.Field(i), weakField))
		}
		return out

	case reflect.Map:
		if strong.IsNil() {
			return fallthroughValue(strong, weak)
		}
		out := reflect.MakeMapWithSize(strong.Type(), strong.Len())
		if weak.IsValid() && weak.Kind() == reflect.Map && !weak.IsNil() {
			for iter := weak.MapRange(); iter.Next(); {
				out.SetMapIndex(iter.Key(), merge(iter.Value(), reflect.Value{}))
			}
		}
		for iter := strong.MapRange(); iter.Next(); {
			existing := out.MapIndex(iter.Key())
			out.SetMapIndex(iter.Key(), merge(iter.Value(), existing))
		}
		return out

	case reflect.Slice:
		if strong.IsNil() {
			return fallthroughValue(strong, weak)
		}
		out := reflect.MakeSlice(strong.Type(), strong.Len(), strong.Len())
		for i := range strong.Len() {
			out.Index(i).Set(merge(strong.Index(i), reflect.Value{}))
		}
		return out

	case reflect.Array:
		out := reflect.New(strong.Type()).Elem()
		for i := range strong.Len() {
			var weakElem reflect.Value
			if weak.IsValid() && weak.Kind() == reflect.Array && weak.Len() > i {
				weakElem = weak.Index(i)
			}
			out.Index(i).Set(merge(strong.Index(i), weakElem))
		}
		return out

	default:
		out := reflect.New(strong.Type()).Elem()
		out.Set(strong)
		return out
	}
}

// fallthroughValue copies weak when it can stand in for an unset strong.
func fallthroughValue(strong, weak reflect.Value) reflect.Value {
	if weak.IsValid() && weak.Type() == strong.Type() {
		return merge(weak, reflect.Value{})
	}
	return reflect.Zero(strong.Type())
}

func deref(v reflect.Value, kind reflect.Kind) reflect.Value {
	if !v.IsValid() || v.Kind() != kind || v.IsNil() {
		return reflect.Value{}
	}
	return v.Elem()
}
