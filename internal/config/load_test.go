package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) string {
	return func(key string) string { return m[key] }
}

func TestLoadRegistryFromEnv_MultiSite(t *testing.T) {
	r, err := LoadRegistryFromEnv(envMap(map[string]string{
		"ANALYTICS_SITES":              "vesivanov, mebel-center",
		"GSC_SITE_URL_VESIVANOV":       "https://vesivanov.com/",
		"GA4_PROPERTY_ID_VESIVANOV":    "111",
		"GSC_SITE_URL_MEBEL_CENTER":    "https://mebelcenter.bg/",
		"GA4_PROPERTY_ID_MEBEL_CENTER": "222",
	}))
	require.NoError(t, err)

	assert.Equal(t, []string{"vesivanov", "mebel-center"}, r.Keys())
	site, err := r.Resolve("mebel-center")
	require.NoError(t, err)
	assert.Equal(t, "https://mebelcenter.bg/", site.GSCURL)
	assert.Equal(t, "222", site.GA4PropertyID)
}

func TestLoadRegistryFromEnv_MultiSiteMissingProperty(t *testing.T) {
	_, err := LoadRegistryFromEnv(envMap(map[string]string{
		"ANALYTICS_SITES":        "vesivanov",
		"GSC_SITE_URL_VESIVANOV": "https://vesivanov.com/",
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GA4 property id is required")
}

func TestLoadRegistryFromEnv_SingleSite(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantKey string
		wantErr string
	}{
		{
			name: "default key",
			env: map[string]string{
				"GSC_SITE_URL":    "https://example.com/",
				"GA4_PROPERTY_ID": "123",
			},
			wantKey: "default",
		},
		{
			name: "explicit key",
			env: map[string]string{
				"ANALYTICS_SITE_KEY": "example",
				"GSC_SITE_URL":       "https://example.com/",
				"GA4_PROPERTY_ID":    "123",
			},
			wantKey: "example",
		},
		{
			name:    "nothing configured",
			env:     map[string]string{},
			wantErr: "no sites configured",
		},
		{
			name:    "missing property id",
			env:     map[string]string{"GSC_SITE_URL": "https://example.com/"},
			wantErr: `site "default": GA4 property id is required`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := LoadRegistryFromEnv(envMap(tt.env))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKey, r.Default().Key)
		})
	}
}

func TestLoadRegistryFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sites.yaml")
	content := `sites:
  - key: vesivanov
    gsc_url: https://vesivanov.com/
    ga4_property_id: "111"
  - key: mebelcenter
    gsc_url: https://mebelcenter.bg/
    ga4_property_id: "222"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	r, err := LoadRegistryFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"vesivanov", "mebelcenter"}, r.Keys())

	site, err := r.Resolve("mebelcenter")
	require.NoError(t, err)
	assert.Equal(t, "222", site.GA4PropertyID)
}

func TestParseRegistry_RejectsUnknownFields(t *testing.T) {
	_, err := ParseRegistry([]byte(`sites:
  - key: a
    gsc_url: https://a/
    ga4_propery_id: "1"
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse sites file")
}

func TestLoadRegistry_PrefersFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sites.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sites:\n  - key: fromfile\n    gsc_url: https://f/\n    ga4_property_id: \"9\"\n"), 0600))

	env := envMap(map[string]string{
		"ANALYTICS_SITES_FILE": path,
		"GSC_SITE_URL":         "https://env/",
		"GA4_PROPERTY_ID":      "1",
	})

	r, err := LoadRegistry("", env)
	require.NoError(t, err)
	assert.Equal(t, "fromfile", r.Default().Key)

	_, err = LoadRegistry(filepath.Join(dir, "missing.yaml"), env)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read sites file")
}

func TestEnvSuffix(t *testing.T) {
	tests := map[string]string{
		"vesivanov":    "VESIVANOV",
		"mebel-center": "MEBEL_CENTER",
		"example.com":  "EXAMPLE_COM",
	}
	for in, want := range tests {
		if got := EnvSuffix(in); got != want {
			t.Errorf("EnvSuffix(%q) = %q, want %q", in, got, want)
		}
	}
}
