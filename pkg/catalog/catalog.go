// Package catalog loads product catalogs from YAML or JSON documents.
//
// A document is either a bare list of product records or a mapping with a
// `products` list. Records are hydrated one by one, validated, and handed to
// storefront.NewCatalog in document order.
package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	storefront "github.com/goliatone/go-storefront"
	"github.com/goliatone/go-storefront/internal/hydrate"
)

// Format names a document encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

//go:embed sample/phones.yaml
var samplePhones []byte

// Option configures decoding.
type Option func(*loaderConfig)

type loaderConfig struct {
	strict bool
	source string
}

// WithStrict rejects record fields that do not map to a Product field.
func WithStrict() Option {
	return func(cfg *loaderConfig) {
		cfg.strict = true
	}
}

// WithSource names the document in error messages.
func WithSource(name string) Option {
	return func(cfg *loaderConfig) {
		cfg.source = name
	}
}

// FormatFromPath picks a format by file extension, defaulting to YAML.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// LoadFile reads and decodes the catalog at path.
func LoadFile(path string, opts ...Option) (*storefront.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	opts = append([]Option{WithSource(filepath.Base(path))}, opts...)
	return Decode(bytes.NewReader(data), FormatFromPath(path), opts...)
}

// Sample returns the bundled six-phone demo catalog.
func Sample() (*storefront.Catalog, error) {
	return Decode(bytes.NewReader(samplePhones), FormatYAML, WithSource("phones.yaml"))
}

// MustSample is Sample for fixtures; it panics on error.
func MustSample() *storefront.Catalog {
	c, err := Sample()
	if err != nil {
		panic(err)
	}
	return c
}

// Decode parses r as format and builds a catalog.
func Decode(r io.Reader, format Format, opts ...Option) (*storefront.Catalog, error) {
	cfg := loaderConfig{source: "catalog"}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	records, err := readRecords(r, format)
	if err != nil {
		return nil, fmt.Errorf("catalog: %s: %w", cfg.source, err)
	}

	decoderOpts := []hydrate.DecoderOption[storefront.Product]{
		hydrate.WithPreHook[storefront.Product](normalizeRecord),
		hydrate.WithPostHook[storefront.Product](validateProduct),
	}
	if cfg.strict {
		decoderOpts = append(decoderOpts, hydrate.WithDisallowUnknownFields[storefront.Product]())
	}
	products, err := hydrate.NewDecoder(decoderOpts...).DecodeAll(cfg.source, records)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", storefront.ErrInvalidCatalog, err)
	}
	return storefront.NewCatalog(products...)
}

type document struct {
	Products []map[string]any `json:"products" yaml:"products"`
}

func readRecords(r io.Reader, format Format) ([]map[string]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	unmarshal := yaml.Unmarshal
	switch format {
	case FormatJSON:
		unmarshal = json.Unmarshal
	case FormatYAML, "":
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}

	if trimmed[0] == '[' || (format == FormatYAML && trimmed[0] == '-') {
		var list []map[string]any
		if err := unmarshal(data, &list); err != nil {
			return nil, err
		}
		return list, nil
	}
	var doc document
	if err := unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc.Products, nil
}

// normalizeRecord accepts unquoted numeric ids and trims text keys.
func normalizeRecord(_ hydrate.Context, record map[string]any) (map[string]any, error) {
	switch id := record["id"].(type) {
	case float64:
		record["id"] = strconv.FormatFloat(id, 'f', -1, 64)
	case int:
		record["id"] = strconv.Itoa(id)
	}
	for _, key := range []string{"id", "name", "brand", "category"} {
		if value, ok := record[key].(string); ok {
			record[key] = strings.TrimSpace(value)
		}
	}
	return record, nil
}

func validateProduct(_ hydrate.Context, product *storefront.Product) error {
	return product.Validate()
}
