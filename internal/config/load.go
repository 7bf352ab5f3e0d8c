package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment variables read by LoadRegistryFromEnv.
const (
	EnvSites         = "ANALYTICS_SITES"
	EnvSitesFile     = "ANALYTICS_SITES_FILE"
	EnvSiteKey       = "ANALYTICS_SITE_KEY"
	EnvGSCSiteURL    = "GSC_SITE_URL"
	EnvGA4PropertyID = "GA4_PROPERTY_ID"
)

// sitesFile is the on-disk YAML layout.
type sitesFile struct {
	Sites []SiteConfig `yaml:"sites"`
}

// LoadRegistryFromFile reads a YAML sites file.
func LoadRegistryFromFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sites file: %w", err)
	}
	return ParseRegistry(data)
}

// ParseRegistry parses a YAML sites document. Unknown fields are rejected.
func ParseRegistry(data []byte) (*Registry, error) {
	var f sitesFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to parse sites file: %w", err)
	}
	return NewRegistry(f.Sites)
}

// LoadRegistryFromEnv builds the registry from environment variables using
// getenv (usually os.Getenv).
//
// When ANALYTICS_SITES lists keys, every key k needs GSC_SITE_URL_<K> and
// GA4_PROPERTY_ID_<K>, where <K> is k upper-cased with '-' and '.' mapped
// to '_'. Otherwise a single site is built from GSC_SITE_URL and
// GA4_PROPERTY_ID, keyed by ANALYTICS_SITE_KEY or "default".
func LoadRegistryFromEnv(getenv func(string) string) (*Registry, error) {
	if list := getenv(EnvSites); strings.TrimSpace(list) != "" {
		var sites []SiteConfig
		for _, key := range strings.Split(list, ",") {
			key = strings.TrimSpace(key)
			if key == "" {
				continue
			}
			suffix := EnvSuffix(key)
			sites = append(sites, SiteConfig{
				Key:           key,
				GSCURL:        getenv(EnvGSCSiteURL + "_" + suffix),
				GA4PropertyID: getenv(EnvGA4PropertyID + "_" + suffix),
			})
		}
		return NewRegistry(sites)
	}

	gscURL := getenv(EnvGSCSiteURL)
	propertyID := getenv(EnvGA4PropertyID)
	if gscURL == "" && propertyID == "" {
		return nil, fmt.Errorf("no sites configured: set %s, %s or %s and %s",
			EnvSitesFile, EnvSites, EnvGSCSiteURL, EnvGA4PropertyID)
	}

	key := getenv(EnvSiteKey)
	if key == "" {
		key = DefaultSiteKey
	}
	return NewRegistry([]SiteConfig{{Key: key, GSCURL: gscURL, GA4PropertyID: propertyID}})
}

// LoadRegistry picks the sites file when path is set and falls back to the
// environment otherwise.
func LoadRegistry(path string, getenv func(string) string) (*Registry, error) {
	if path == "" {
		path = getenv(EnvSitesFile)
	}
	if path != "" {
		return LoadRegistryFromFile(path)
	}
	return LoadRegistryFromEnv(getenv)
}

// EnvSuffix maps a site key to the suffix used in per-site variable names.
func EnvSuffix(key string) string {
	r := strings.NewReplacer("-", "_", ".", "_")
	return strings.ToUpper(r.Replace(key))
}
