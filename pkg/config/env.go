package config

import (
	"fmt"
	"strconv"
	"strings"
)

// EnvPrefix prefixes every environment variable Load reads.
const EnvPrefix = "STOREFRONT_"

// Environment variables recognised by Load.
const (
	EnvStorageDriver = EnvPrefix + "STORAGE_DRIVER"
	EnvStorageDSN    = EnvPrefix + "STORAGE_DSN"
	EnvStoragePrefix = EnvPrefix + "STORAGE_PREFIX"
	EnvStorageTTL    = EnvPrefix + "STORAGE_TTL"
	EnvCatalogPath   = EnvPrefix + "CATALOG_PATH"
	EnvCatalogStrict = EnvPrefix + "CATALOG_STRICT"
	EnvLogLevel      = EnvPrefix + "LOG_LEVEL"
	EnvLogFormat     = EnvPrefix + "LOG_FORMAT"
	EnvRulesEngine   = EnvPrefix + "RULES_ENGINE"
	EnvTaxRate       = EnvPrefix + "TAX_RATE"
	EnvTenantID      = EnvPrefix + "TENANT_ID"
)

func readEnv(lookup func(string) (string, bool)) (layer, error) {
	var out layer
	str := func(key string, dst **string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = ptr(strings.TrimSpace(v))
		}
	}
	str(EnvStorageDriver, &out.Storage.Driver)
	str(EnvStorageDSN, &out.Storage.DSN)
	str(EnvStoragePrefix, &out.Storage.Prefix)
	str(EnvStorageTTL, &out.Storage.TTL)
	str(EnvCatalogPath, &out.Catalog.Path)
	str(EnvLogLevel, &out.Logging.Level)
	str(EnvLogFormat, &out.Logging.Format)
	str(EnvRulesEngine, &out.Rules.Engine)
	str(EnvTenantID, &out.TenantID)

	if v, ok := lookup(EnvCatalogStrict); ok && v != "" {
		strict, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return out, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, EnvCatalogStrict, err)
		}
		out.Catalog.Strict = &strict
	}
	if v, ok := lookup(EnvTaxRate); ok && v != "" {
		rate, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return out, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, EnvTaxRate, err)
		}
		out.Checkout.TaxRate = &rate
	}
	return out, nil
}
