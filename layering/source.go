package layering

import (
	"cmp"
	"slices"
)

// Source identifies where a configuration layer came from. Higher sources
// override lower ones.
type Source int

const (
	SourceUnknown Source = iota
	SourceDefaults
	SourceFile
	SourceEnv
	SourceOverride
)

func (s Source) String() string {
	switch s {
	case SourceDefaults:
		return "defaults"
	case SourceFile:
		return "file"
	case SourceEnv:
		return "env"
	case SourceOverride:
		return "override"
	default:
		return "unknown"
	}
}

// Layer is one partial value tagged with its source.
type Layer[T any] struct {
	Source Source
	Name   string
	Value  T
}

// Stack collects layers in any order and resolves them by source precedence.
type Stack[T any] struct {
	layers []Layer[T]
}

// Push adds a layer. Layers with an unknown source are ignored.
func (s *Stack[T]) Push(source Source, name string, value T) {
	if source == SourceUnknown {
		return
	}
	s.layers = append(s.layers, Layer[T]{Source: source, Name: name, Value: value})
}

// Ordered returns the layers from strongest to weakest. Layers from the same
// source keep push order, later pushes being stronger.
func (s *Stack[T]) Ordered() []Layer[T] {
	out := slices.Clone(s.layers)
	slices.Reverse(out)
	slices.SortStableFunc(out, func(a, b Layer[T]) int {
		return cmp.Compare(b.Source, a.Source)
	})
	return out
}

// Names lists layer names strongest first, for diagnostics.
func (s *Stack[T]) Names() []string {
	ordered := s.Ordered()
	names := make([]string, len(ordered))
	for i, layer := range ordered {
		names[i] = layer.Source.String() + ":" + layer.Name
	}
	return names
}

// Resolve merges every layer by precedence.
func (s *Stack[T]) Resolve() T {
	ordered := s.Ordered()
	values := make([]T, len(ordered))
	for i, layer := range ordered {
		values[i] = layer.Value
	}
	return MergeLayers(values...)
}
