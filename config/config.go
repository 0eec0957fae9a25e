// Package config loads weddingd settings from flags, environment variables
// and an optional config file.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"weddingsite/auth"
	"weddingsite/db"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	EnvPrefix = "WEDDING"

	defaultAddr      = ":3000"
	defaultDBDriver  = db.DriverSQLite
	defaultDBPath    = "data/wedding.db"
	defaultImagesDir = "public/images"
)

type Config struct {
	Addr         string
	DBDriver     string
	DBDSN        string
	DBPath       string
	AdminPass    string
	ImagesDir    string
	CookieSecure bool
	SessionTTL   time.Duration
	WebOrigin    string
	Verbose      bool
}

// New returns a viper instance with defaults and environment bindings. Every
// key is read from WEDDING_<KEY> with dots replaced by underscores; the admin
// password and database URL also honour their conventional bare names.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("addr", defaultAddr)
	v.SetDefault("db.driver", defaultDBDriver)
	v.SetDefault("db.dsn", "")
	v.SetDefault("db.path", defaultDBPath)
	v.SetDefault("admin.password", "")
	v.SetDefault("images.dir", defaultImagesDir)
	v.SetDefault("cookie.secure", false)
	v.SetDefault("session.ttl", auth.DefaultSessionTTL)
	v.SetDefault("web.origin", "")
	v.SetDefault("log.verbose", false)

	_ = v.BindEnv("admin.password", EnvPrefix+"_ADMIN_PASSWORD", "ADMIN_PASSWORD")
	_ = v.BindEnv("db.dsn", EnvPrefix+"_DB_DSN", "DATABASE_URL")
	return v
}

// BindFlags attaches command-line flags to their config keys.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	bindings := map[string]string{
		"addr":          "addr",
		"db-driver":     "db.driver",
		"db-dsn":        "db.dsn",
		"db-path":       "db.path",
		"images-dir":    "images.dir",
		"cookie-secure": "cookie.secure",
		"session-ttl":   "session.ttl",
		"web-origin":    "web.origin",
		"verbose":       "log.verbose",
	}
	for flag, key := range bindings {
		f := flags.Lookup(flag)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", flag, err)
		}
	}
	return nil
}

// Load reads the optional config file and returns the validated settings.
func Load(v *viper.Viper, file string) (Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("error reading config file %s: %w", file, err)
		}
	}
	cfg := Config{
		Addr:         strings.TrimSpace(v.GetString("addr")),
		DBDriver:     strings.TrimSpace(v.GetString("db.driver")),
		DBDSN:        strings.TrimSpace(v.GetString("db.dsn")),
		DBPath:       strings.TrimSpace(v.GetString("db.path")),
		AdminPass:    v.GetString("admin.password"),
		ImagesDir:    strings.TrimSpace(v.GetString("images.dir")),
		CookieSecure: v.GetBool("cookie.secure"),
		SessionTTL:   v.GetDuration("session.ttl"),
		WebOrigin:    strings.TrimSpace(v.GetString("web.origin")),
		Verbose:      v.GetBool("log.verbose"),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.DBDriver {
	case db.DriverSQLite:
		if c.DBPath == "" {
			return fmt.Errorf("db.path is required when db.driver=sqlite")
		}
	case db.DriverPostgres:
		if c.DBDSN == "" {
			return fmt.Errorf("db.dsn (or DATABASE_URL) is required when db.driver=postgres")
		}
	default:
		return fmt.Errorf("unsupported db driver: %s", c.DBDriver)
	}
	if c.Addr == "" {
		return fmt.Errorf("addr must not be empty")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("session.ttl must be positive")
	}
	if c.WebOrigin != "" && OriginFromBaseURL(c.WebOrigin) == "" {
		return fmt.Errorf("web.origin %q is not an absolute URL", c.WebOrigin)
	}
	return nil
}

// DSN returns the connection string for the configured driver.
func (c Config) DSN() string {
	if c.DBDriver == db.DriverPostgres {
		return c.DBDSN
	}
	return c.DBPath
}

// Origin is the CORS origin derived from WebOrigin.
func (c Config) Origin() string {
	return OriginFromBaseURL(c.WebOrigin)
}

// LogDSN describes the database target without secrets.
func (c Config) LogDSN() string {
	if c.DBDriver != db.DriverPostgres {
		return c.DBPath
	}
	redacted, err := RedactPostgresDSN(c.DBDSN)
	if err != nil {
		return "postgres (unparsed DSN)"
	}
	return redacted
}

// RedactPostgresDSN accepts both key=value and postgres:// URL forms.
func RedactPostgresDSN(dsn string) (string, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return "", err
		}
		if u.Host == "" || strings.Trim(u.Path, "/") == "" {
			return "", fmt.Errorf("missing host/dbname in DSN")
		}
		port := u.Port()
		if port == "" {
			port = "5432"
		}
		return fmt.Sprintf("user=%s host=%s port=%s dbname=%s password=***",
			u.User.Username(), u.Hostname(), port, strings.Trim(u.Path, "/")), nil
	}
	parts := strings.Fields(dsn)
	kv := make(map[string]string, len(parts))
	for _, part := range parts {
		split := strings.SplitN(part, "=", 2)
		if len(split) != 2 {
			continue
		}
		kv[split[0]] = split[1]
	}
	user := kv["user"]
	host := kv["host"]
	port := kv["port"]
	dbname := kv["dbname"]
	if host == "" || dbname == "" {
		return "", fmt.Errorf("missing host/dbname in DSN")
	}
	if port == "" {
		port = "5432"
	}
	return fmt.Sprintf("user=%s host=%s port=%s dbname=%s password=***", user, host, port, dbname), nil
}

func OriginFromBaseURL(baseURL string) string {
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return ""
	}
	return fmt.Sprintf("%s://%s", parsed.Scheme, parsed.Host)
}
