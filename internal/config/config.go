package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env     string
	BaseURL string

	HTTP     HTTPConfig
	Catalog  CatalogConfig
	Listing  ListingConfig
	Storage  StorageConfig
	Cookies  CookieConfig
	Email    EmailConfig
	SMTP     SMTPConfig
	Mailtrap MailtrapConfig
	Kafka    KafkaConfig

	NavigationFile string
}

type HTTPConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type CatalogConfig struct {
	BaseURL        string
	Timeout        time.Duration
	PageLimit      int // 0 keeps the API default page size
	ResolveWorkers int
}

type ListingConfig struct {
	Placeholders   int
	RenderDelay    time.Duration
	SearchDebounce time.Duration
	CollateLang    string
	SessionTTL     time.Duration
}

type StorageConfig struct {
	Driver string // local | s3 | mysql | memory

	LocalDir string

	S3Region string
	S3Bucket string
	S3Prefix string

	DBDSN string
}

type CookieConfig struct {
	Secret        []byte
	ShopperName   string
	FlashName     string
	Secure        bool
	ShopperMaxAge time.Duration
}

type EmailConfig struct {
	Driver    string // mailtrap | smtp | log
	From      string
	FromName  string
	Timeout   time.Duration
	StatusTTL time.Duration
}

type SMTPConfig struct {
	Host          string
	Port          string
	User          string
	Pass          string
	TLSMode       string // none | tls | starttls
	SkipVerifyTLS bool
}

type MailtrapConfig struct {
	APIURL   string
	APIToken string
}

type KafkaConfig struct {
	Brokers string
	Topic   string
}

// Load reads .env (when present) and the process environment.
func Load() (Config, error) {
	// prod uses real env vars, a missing .env is fine
	_ = godotenv.Load()

	cfg := Config{
		Env:     envOr("APP_ENV", "development"),
		BaseURL: envOr("APP_BASE_URL", "http://localhost:8080"),
		HTTP: HTTPConfig{
			Addr:         envOr("HTTP_ADDR", ":8080"),
			ReadTimeout:  envDuration("HTTP_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: envDuration("HTTP_WRITE_TIMEOUT", 30*time.Second),
		},
		Catalog: CatalogConfig{
			BaseURL:        envOr("CATALOG_API_URL", "https://dummyjson.com"),
			Timeout:        envDuration("CATALOG_TIMEOUT", 8*time.Second),
			PageLimit:      envInt("CATALOG_PAGE_LIMIT", 0),
			ResolveWorkers: envInt("CATALOG_RESOLVE_WORKERS", 8),
		},
		Listing: ListingConfig{
			Placeholders:   envInt("LISTING_PLACEHOLDERS", 10),
			RenderDelay:    envDuration("LISTING_RENDER_DELAY", 300*time.Millisecond),
			SearchDebounce: envDuration("LISTING_SEARCH_DEBOUNCE", 250*time.Millisecond),
			CollateLang:    envOr("LISTING_COLLATE_LANG", "en"),
			SessionTTL:     envDuration("LISTING_SESSION_TTL", 30*time.Minute),
		},
		Storage: StorageConfig{
			Driver:   strings.ToLower(envOr("STORAGE_DRIVER", "local")),
			LocalDir: envOr("LOCAL_STORAGE_DIR", "./storage/selections"),
			S3Region: os.Getenv("S3_REGION"),
			S3Bucket: os.Getenv("S3_BUCKET"),
			S3Prefix: envOr("S3_PREFIX", "selections"),
			DBDSN:    os.Getenv("DB_DSN"),
		},
		Cookies: CookieConfig{
			Secret:        []byte(os.Getenv("COOKIE_SECRET")),
			ShopperName:   envOr("SHOPPER_COOKIE_NAME", "storefront_shopper"),
			FlashName:     envOr("FLASH_COOKIE_NAME", "storefront_flash"),
			Secure:        envBool("COOKIE_SECURE", false),
			ShopperMaxAge: envDuration("SHOPPER_COOKIE_MAX_AGE", 365*24*time.Hour),
		},
		Email: EmailConfig{
			Driver:    strings.ToLower(envOr("EMAIL_DRIVER", "log")),
			From:      envOr("EMAIL_FROM", "orders@storefront.local"),
			FromName:  envOr("EMAIL_FROM_NAME", "Storefront"),
			Timeout:   envDuration("EMAIL_TIMEOUT", 15*time.Second),
			StatusTTL: envDuration("EMAIL_STATUS_TTL", 10*time.Minute),
		},
		SMTP: SMTPConfig{
			Host:          envOr("SMTP_HOST", "localhost"),
			Port:          envOr("SMTP_PORT", "1025"),
			User:          os.Getenv("SMTP_USER"),
			Pass:          os.Getenv("SMTP_PASS"),
			TLSMode:       strings.ToLower(envOr("SMTP_TLS_MODE", "none")),
			SkipVerifyTLS: envBool("SMTP_SKIP_VERIFY_TLS", false),
		},
		Mailtrap: MailtrapConfig{
			APIURL:   os.Getenv("MAILTRAP_API_URL"),
			APIToken: os.Getenv("MAILTRAP_API_TOKEN"),
		},
		Kafka: KafkaConfig{
			Brokers: os.Getenv("KAFKA_BROKERS"),
			Topic:   envOr("KAFKA_ORDER_TOPIC", "order.placed"),
		},
		NavigationFile: envOr("NAVIGATION_FILE", "configs/navigation.yaml"),
	}

	if len(cfg.Cookies.Secret) == 0 && !cfg.IsProduction() {
		cfg.Cookies.Secret = []byte("dev-only-insecure-secret")
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) IsProduction() bool { return c.Env == "production" }

func (c Config) validate() error {
	if len(c.Cookies.Secret) == 0 {
		return fmt.Errorf("COOKIE_SECRET is required")
	}
	if c.Listing.Placeholders < 6 {
		return fmt.Errorf("LISTING_PLACEHOLDERS must be >= 6, got %d", c.Listing.Placeholders)
	}
	if c.Catalog.ResolveWorkers < 1 {
		return fmt.Errorf("CATALOG_RESOLVE_WORKERS must be >= 1, got %d", c.Catalog.ResolveWorkers)
	}
	switch c.Storage.Driver {
	case "local", "memory":
	case "s3":
		if c.Storage.S3Region == "" || c.Storage.S3Bucket == "" {
			return fmt.Errorf("S3 config missing: S3_REGION, S3_BUCKET required")
		}
	case "mysql":
		if c.Storage.DBDSN == "" {
			return fmt.Errorf("DB_DSN is required for STORAGE_DRIVER=mysql")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER: %s", c.Storage.Driver)
	}
	switch c.Email.Driver {
	case "log", "smtp":
	case "mailtrap":
		if c.Mailtrap.APIURL == "" || c.Mailtrap.APIToken == "" {
			return fmt.Errorf("mailtrap config missing: MAILTRAP_API_URL, MAILTRAP_API_TOKEN required")
		}
	default:
		return fmt.Errorf("unknown EMAIL_DRIVER: %s", c.Email.Driver)
	}
	return nil
}

func envOr(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envBool(k string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func envDuration(k string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
