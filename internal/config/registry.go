package config

import (
	"fmt"
	"strings"
)

// DefaultSiteKey is the key given to the site built from the single-site
// GSC_SITE_URL / GA4_PROPERTY_ID variables when no key is configured.
const DefaultSiteKey = "default"

// SiteConfig describes one reportable site.
type SiteConfig struct {
	Key           string `yaml:"key" json:"key"`
	GSCURL        string `yaml:"gsc_url" json:"gsc_url"`
	GA4PropertyID string `yaml:"ga4_property_id" json:"ga4_property_id"`
}

// UnknownSiteError is returned when a request names a site that is not in the registry.
type UnknownSiteError struct {
	Key string
}

func (e *UnknownSiteError) Error() string {
	return fmt.Sprintf("unknown site: %s", e.Key)
}

// Registry is an immutable, ordered set of sites.
type Registry struct {
	sites []SiteConfig
	byKey map[string]SiteConfig
}

// NewRegistry validates the given sites and builds a registry from them.
// Order is preserved; the first site becomes the default.
func NewRegistry(sites []SiteConfig) (*Registry, error) {
	if len(sites) == 0 {
		return nil, fmt.Errorf("no sites configured")
	}

	r := &Registry{
		sites: make([]SiteConfig, 0, len(sites)),
		byKey: make(map[string]SiteConfig, len(sites)),
	}

	for i, site := range sites {
		site.Key = strings.TrimSpace(site.Key)
		site.GSCURL = strings.TrimSpace(site.GSCURL)
		site.GA4PropertyID = strings.TrimSpace(site.GA4PropertyID)

		if site.Key == "" {
			return nil, fmt.Errorf("site #%d: key is required", i+1)
		}
		if _, dup := r.byKey[site.Key]; dup {
			return nil, fmt.Errorf("site %q: duplicate key", site.Key)
		}
		if site.GSCURL == "" {
			return nil, fmt.Errorf("site %q: GSC site URL is required", site.Key)
		}
		if site.GA4PropertyID == "" {
			return nil, fmt.Errorf("site %q: GA4 property id is required", site.Key)
		}

		r.sites = append(r.sites, site)
		r.byKey[site.Key] = site
	}

	return r, nil
}

// Resolve returns the site registered under key. An empty key resolves to
// the default site.
func (r *Registry) Resolve(key string) (SiteConfig, error) {
	if key == "" {
		return r.Default(), nil
	}
	site, ok := r.byKey[key]
	if !ok {
		return SiteConfig{}, &UnknownSiteError{Key: key}
	}
	return site, nil
}

// Default returns the first configured site.
func (r *Registry) Default() SiteConfig {
	return r.sites[0]
}

// Keys returns the site keys in configuration order.
func (r *Registry) Keys() []string {
	keys := make([]string, len(r.sites))
	for i, s := range r.sites {
		keys[i] = s.Key
	}
	return keys
}

// Sites returns a copy of the configured sites in order.
func (r *Registry) Sites() []SiteConfig {
	out := make([]SiteConfig, len(r.sites))
	copy(out, r.sites)
	return out
}

// Len returns the number of configured sites.
func (r *Registry) Len() int {
	return len(r.sites)
}
