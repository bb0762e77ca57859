package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultPath = "."

	defaultSessionTTL  = 24 * time.Hour
	defaultCookieName  = "warden_session"
	defaultRedactionAs = "***"
	defaultSeparator   = ";"
)

type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	HTTP struct {
		Port     int `json:"port" yaml:"port"`
		Timeouts struct {
			ReadTimeout       time.Duration `json:"readTimeout" yaml:"readTimeout"`
			ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout"`
			WriteTimeout      time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
			IdleTimeout       time.Duration `json:"idleTimeout" yaml:"idleTimeout"`
		} `json:"timeouts" yaml:"timeouts"`
	} `json:"http" yaml:"http"`

	Postgres *PostgresConfig `json:"postgres" yaml:"postgres"`

	Redis *RedisConfig `json:"redis" yaml:"redis"`

	Auth *AuthConfig `json:"auth" yaml:"auth" validate:"required"`

	// Redaction configures the injectable PII redaction used by the logger
	// and the audit dump. Optional; nil disables redaction.
	Redaction *RedactionConfig `json:"redaction" yaml:"redaction"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// PostgresConfig defines the connection settings for the identity store.
type PostgresConfig struct {
	Host            string        `json:"host" yaml:"host" validate:"required"`
	Port            int           `json:"port" yaml:"port" validate:"required"`
	Username        string        `json:"username" yaml:"username"`
	Password        string        `json:"password" yaml:"password"`
	DBName          string        `json:"dbName" yaml:"dbName" validate:"required"`
	SSLMode         string        `json:"sslMode" yaml:"sslMode"`
	MaxOpenConns    int           `json:"maxOpenConns" yaml:"maxOpenConns"`
	MaxIdleConns    int           `json:"maxIdleConns" yaml:"maxIdleConns"`
	ConnMaxLifetime time.Duration `json:"connMaxLifetime" yaml:"connMaxLifetime"`
}

// DSN renders the config as a keyword/value PostgreSQL connection string.
func (c *PostgresConfig) DSN() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	parts := []string{
		"host=" + c.Host,
		"port=" + strconv.Itoa(c.Port),
		"dbname=" + c.DBName,
		"sslmode=" + sslMode,
	}
	if c.Username != "" {
		parts = append(parts, "user="+c.Username)
	}
	if c.Password != "" {
		parts = append(parts, "password="+c.Password)
	}

	return strings.Join(parts, " ")
}

// RedisConfig defines the connection settings for the session store.
type RedisConfig struct {
	Addr     string `json:"addr" yaml:"addr" validate:"required"`
	Password string `json:"password" yaml:"password"`
	DB       int    `json:"db" yaml:"db"`
}

// AuthConfig defines authentication-related configuration.
type AuthConfig struct {
	BcryptCost        int           `json:"bcryptCost" yaml:"bcryptCost" validate:"omitempty,min=4,max=31"`
	SessionTTL        time.Duration `json:"sessionTtl" yaml:"sessionTtl"`
	MaxActiveSessions int           `json:"maxActiveSessions" yaml:"maxActiveSessions"`
	CookieName        string        `json:"cookieName" yaml:"cookieName"`
	CookieSecure      bool          `json:"cookieSecure" yaml:"cookieSecure"`
}

// RedactionConfig names the fields whose values must never reach log output.
type RedactionConfig struct {
	Fields      []string `json:"fields" yaml:"fields" validate:"required,min=1"`
	Replacement string   `json:"replacement" yaml:"replacement"`
	Separator   string   `json:"separator" yaml:"separator"`
}

// LoadWithEnv loads .yaml files through koanf, then overlays environment variables.
func LoadWithEnv[T any](currEnv string, configPath ...string) (*T, error) {
	cfg := new(T)
	koanfInstance := koanf.New(".")

	// Build list of paths to search for config file
	searchPaths := []string{defaultPath}
	if len(configPath) != 0 {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "os.Getwd")
		}
		for _, path := range configPath {
			searchPaths = append(searchPaths, filepath.Join(pwd, path))
		}
	}

	var configFile string
	var found bool
	for _, path := range searchPaths {
		candidate := filepath.Join(path, currEnv+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate
			found = true

			break
		}
	}

	if !found {
		return nil, errors.Errorf("config file %s.yaml not found in any search path", currEnv)
	}

	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s config failed", currEnv)
	}

	existingConfigMap := koanfInstance.Raw()

	// Overlay environment variables. Each env key segment is aligned with the
	// casing of the keys already present in the YAML document, so
	// POSTGRES_SSLMODE lands on postgres.sslMode rather than postgres.sslmode.
	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		TransformFunc: func(k, v string) (string, any) {
			return canonicalizeEnvKey(k, existingConfigMap), v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	if err := koanfInstance.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				// Case-insensitive matching for env var overrides
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s config failed", currEnv)
	}

	return cfg, nil
}

// New loads, defaults, and validates the service configuration.
func New() (*Config, error) {
	cfg, err := LoadWithEnv[Config]("config", "config", "../config", "../../config")
	if err != nil {
		return nil, err
	}

	applyDefaults(cfg)

	if err := validator.New().Struct(cfg); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Auth == nil {
		cfg.Auth = &AuthConfig{}
	}
	if cfg.Auth.BcryptCost == 0 {
		cfg.Auth.BcryptCost = bcrypt.DefaultCost
	}
	if cfg.Auth.SessionTTL == 0 {
		cfg.Auth.SessionTTL = defaultSessionTTL
	}
	if cfg.Auth.CookieName == "" {
		cfg.Auth.CookieName = defaultCookieName
	}

	if cfg.Redaction != nil {
		if cfg.Redaction.Replacement == "" {
			cfg.Redaction.Replacement = defaultRedactionAs
		}
		if cfg.Redaction.Separator == "" {
			cfg.Redaction.Separator = defaultSeparator
		}
	}
}

func canonicalizeEnvKey(rawKey string, existing map[string]any) string {
	segments := strings.Split(strings.ToLower(rawKey), "_")
	canonical := make([]string, 0, len(segments))
	current := existing

	for _, segment := range segments {
		if segment == "" {
			continue
		}

		if matched, next, ok := findExistingSegment(current, segment); ok {
			canonical = append(canonical, matched)
			current = next
		} else {
			canonical = append(canonical, segment)
			current = nil
		}
	}

	return strings.Join(canonical, ".")
}

func findExistingSegment(current map[string]any, segment string) (matched string, next map[string]any, ok bool) {
	if len(current) == 0 {
		return "", nil, false
	}

	needle := normalizeToken(segment)
	for key, value := range current {
		if normalizeToken(key) != needle {
			continue
		}

		child, _ := value.(map[string]any)

		return key, child, true
	}

	return "", nil, false
}

func normalizeToken(s string) string {
	var normalized strings.Builder
	normalized.Grow(len(s))

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		normalized.WriteRune(unicode.ToLower(r))
	}

	return normalized.String()
}
