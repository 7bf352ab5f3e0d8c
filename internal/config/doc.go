// Package config holds the site registry for the unified-analytics server.
//
// A site is the unit every report is scoped to. Each site pairs a Search
// Console property URL with a GA4 property id:
//
//	sites:
//	  - key: vesivanov
//	    gsc_url: https://vesivanov.com/
//	    ga4_property_id: "123456789"
//
// Sites are loaded once at startup, either from a YAML file, from the
// ANALYTICS_SITES family of environment variables, or from the single-site
// GSC_SITE_URL / GA4_PROPERTY_ID pair. The first configured site is the
// default one used when a request does not name a site.
package config
