package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("Load_Defaults", func(t *testing.T) {
		t.Setenv("COOKIE_SECRET", "")
		t.Setenv("STORAGE_DRIVER", "")
		t.Setenv("EMAIL_DRIVER", "")

		cfg, err := Load()
		require.NoError(t, err)
		require.Equal(t, "https://dummyjson.com", cfg.Catalog.BaseURL)
		require.Equal(t, "local", cfg.Storage.Driver)
		require.Equal(t, "log", cfg.Email.Driver)
		require.Equal(t, 10, cfg.Listing.Placeholders)
		require.Equal(t, 300*time.Millisecond, cfg.Listing.RenderDelay)
		require.NotEmpty(t, cfg.Cookies.Secret)
	})

	t.Run("Load_RejectsTooFewPlaceholders", func(t *testing.T) {
		t.Setenv("LISTING_PLACEHOLDERS", "3")
		_, err := Load()
		require.Error(t, err)
	})

	t.Run("Load_RequiresSecretInProduction", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		t.Setenv("COOKIE_SECRET", "")
		_, err := Load()
		require.Error(t, err)
	})

	t.Run("Load_S3NeedsBucket", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "s3")
		t.Setenv("S3_REGION", "eu-central-1")
		t.Setenv("S3_BUCKET", "")
		_, err := Load()
		require.Error(t, err)
	})

	t.Run("Load_BadDurationFallsBack", func(t *testing.T) {
		t.Setenv("CATALOG_TIMEOUT", "soon")
		cfg, err := Load()
		require.NoError(t, err)
		require.Equal(t, 8*time.Second, cfg.Catalog.Timeout)
	})
}

func TestNavigation(t *testing.T) {
	t.Run("LoadNavigation_MissingFileUsesDefaults", func(t *testing.T) {
		nav, err := LoadNavigation(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)
		require.Equal(t, DefaultNavigation(), nav)
	})

	t.Run("ParseNavigation_TrimsAndDedupes", func(t *testing.T) {
		raw := []byte(`
default_category: " laptops "
groups:
  - name: Electronics
    categories: [laptops, " tablets", laptops, ""]
quick_chips: [groceries, groceries]
`)
		nav, err := ParseNavigation(raw)
		require.NoError(t, err)
		require.Equal(t, "laptops", nav.DefaultCategory)
		require.Equal(t, []string{"laptops", "tablets"}, nav.Groups[0].Categories)
		require.Equal(t, []string{"groceries"}, nav.QuickChips)
		require.Equal(t, "Electronics", nav.GroupOf("tablets"))
		require.Equal(t, "", nav.GroupOf("groceries"))
	})

	t.Run("LoadNavigation_ReadsFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nav.yaml")
		require.NoError(t, os.WriteFile(path, []byte("default_category: tops\n"), 0o644))
		nav, err := LoadNavigation(path)
		require.NoError(t, err)
		require.Equal(t, "tops", nav.DefaultCategory)
	})

	t.Run("ParseNavigation_InvalidYAML", func(t *testing.T) {
		_, err := ParseNavigation([]byte("groups: [:"))
		require.Error(t, err)
	})
}
