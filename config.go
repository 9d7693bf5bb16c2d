package ludb

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"

	"github.com/Lupennat/ludb-sub002/schema"
)

// Config describes one connection. It can be loaded from YAML with
// LoadConfig or from DB_* environment variables with LoadEnvConfig.
type Config struct {
	// Driver is one of the names accepted by dialect.Lookup, such as
	// "mysql", "pgsql", "sqlite" or "sqlsrv".
	Driver    string            `yaml:"driver"`
	Host      string            `yaml:"host"`
	Port      int               `yaml:"port"`
	Database  string            `yaml:"database"`
	Username  string            `yaml:"username"`
	Password  string            `yaml:"password"`
	Charset   string            `yaml:"charset"`
	Collation string            `yaml:"collation"`
	Engine    string            `yaml:"engine"`
	Schema    string            `yaml:"schema"`
	Prefix    string            `yaml:"prefix"`
	SSLMode   string            `yaml:"sslmode"`
	Params    map[string]string `yaml:"params"`

	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"`

	SlowQueryThreshold  time.Duration `yaml:"slow_query_threshold"`
	DefaultStringLength int           `yaml:"default_string_length"`
	MorphKeyType        string        `yaml:"morph_key_type"`
}

// DefaultConfig returns a local MySQL configuration with conservative pool
// limits.
func DefaultConfig() *Config {
	return &Config{
		Driver:          "mysql",
		Host:            "localhost",
		Port:            3306,
		Charset:         "utf8mb4",
		Collation:       "utf8mb4_unicode_ci",
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
		ConnMaxIdleTime: 5 * time.Minute,
	}
}

var envPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-([^}]*))?\}`)

// expandEnv replaces ${VAR} and ${VAR:-default}. A bare $ is left alone so
// passwords may contain it.
func expandEnv(s string) string {
	return envPattern.ReplaceAllStringFunc(s, func(match string) string {
		m := envPattern.FindStringSubmatch(match)
		if v, ok := os.LookupEnv(m[1]); ok && v != "" {
			return v
		}
		return m[2]
	})
}

// LoadConfig reads a YAML connection file. ${VAR} references are expanded
// from the environment before parsing; unknown keys are rejected.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ludb: failed to read config file: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig parses YAML connection settings.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.UnmarshalWithOptions([]byte(expandEnv(string(data))), cfg, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("ludb: failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadEnvConfig builds a Config from DB_* variables. files are read with
// godotenv; variables already set in the process environment win.
func LoadEnvConfig(files ...string) (*Config, error) {
	fromFiles := map[string]string{}
	if len(files) > 0 {
		m, err := godotenv.Read(files...)
		if err != nil {
			return nil, fmt.Errorf("ludb: failed to load env file: %w", err)
		}
		fromFiles = m
	}
	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := fromFiles[key]
		return v, ok
	}

	cfg := DefaultConfig()
	strs := map[string]*string{
		"DB_CONNECTION":     &cfg.Driver,
		"DB_HOST":           &cfg.Host,
		"DB_DATABASE":       &cfg.Database,
		"DB_USERNAME":       &cfg.Username,
		"DB_PASSWORD":       &cfg.Password,
		"DB_CHARSET":        &cfg.Charset,
		"DB_COLLATION":      &cfg.Collation,
		"DB_ENGINE":         &cfg.Engine,
		"DB_SCHEMA":         &cfg.Schema,
		"DB_PREFIX":         &cfg.Prefix,
		"DB_SSLMODE":        &cfg.SSLMode,
		"DB_MORPH_KEY_TYPE": &cfg.MorphKeyType,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"DB_PORT":                  &cfg.Port,
		"DB_MAX_OPEN_CONNS":        &cfg.MaxOpenConns,
		"DB_MAX_IDLE_CONNS":        &cfg.MaxIdleConns,
		"DB_DEFAULT_STRING_LENGTH": &cfg.DefaultStringLength,
	}
	for key, dst := range ints {
		if v, ok := lookup(key); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("ludb: %s: %w", key, err)
			}
			*dst = n
		}
	}

	durations := map[string]*time.Duration{
		"DB_CONN_MAX_LIFETIME":    &cfg.ConnMaxLifetime,
		"DB_CONN_MAX_IDLE_TIME":   &cfg.ConnMaxIdleTime,
		"DB_SLOW_QUERY_THRESHOLD": &cfg.SlowQueryThreshold,
	}
	for key, dst := range durations {
		if v, ok := lookup(key); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return nil, fmt.Errorf("ludb: %s: %w", key, err)
			}
			*dst = d
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the driver name and the morph key type.
func (c *Config) Validate() error {
	if _, err := c.DriverName(); err != nil {
		return err
	}
	switch schema.MorphKeyType(c.MorphKeyType) {
	case "", schema.MorphKeyInt, schema.MorphKeyUUID, schema.MorphKeyULID:
	default:
		return fmt.Errorf("ludb: invalid morph key type %q", c.MorphKeyType)
	}
	return nil
}

// DriverName returns the database/sql driver registered for c.Driver.
func (c *Config) DriverName() (string, error) {
	switch strings.ToLower(c.Driver) {
	case "mysql", "mariadb":
		return "mysql", nil
	case "pgsql", "postgres", "pgx":
		return "pgx", nil
	case "sqlite", "sqlite3":
		return "sqlite", nil
	case "sqlsrv", "sqlserver", "mssql":
		return "sqlserver", nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDriver, c.Driver)
}

func (c *Config) address(defaultPort int) string {
	host := c.Host
	if host == "" {
		host = "localhost"
	}
	port := c.Port
	if port == 0 {
		port = defaultPort
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}

// DSN renders the data source name for the driver.
func (c *Config) DSN() (string, error) {
	driver, err := c.DriverName()
	if err != nil {
		return "", err
	}
	switch driver {
	case "mysql":
		mc := mysql.NewConfig()
		mc.User = c.Username
		mc.Passwd = c.Password
		mc.Net = "tcp"
		mc.Addr = c.address(3306)
		mc.DBName = c.Database
		mc.ParseTime = true
		mc.Collation = c.Collation
		if c.Charset != "" || len(c.Params) > 0 {
			mc.Params = map[string]string{}
			for k, v := range c.Params {
				mc.Params[k] = v
			}
			if c.Charset != "" {
				mc.Params["charset"] = c.Charset
			}
		}
		return mc.FormatDSN(), nil

	case "pgx":
		q := url.Values{}
		for k, v := range c.Params {
			q.Set(k, v)
		}
		if c.SSLMode != "" {
			q.Set("sslmode", c.SSLMode)
		}
		if c.Schema != "" {
			q.Set("search_path", c.Schema)
		}
		u := url.URL{
			Scheme:   "postgres",
			Host:     c.address(5432),
			Path:     "/" + c.Database,
			RawQuery: q.Encode(),
		}
		if c.Username != "" {
			u.User = url.UserPassword(c.Username, c.Password)
		}
		return u.String(), nil

	case "sqlserver":
		q := url.Values{}
		for k, v := range c.Params {
			q.Set(k, v)
		}
		if c.Database != "" {
			q.Set("database", c.Database)
		}
		u := url.URL{
			Scheme:   "sqlserver",
			Host:     c.address(1433),
			RawQuery: q.Encode(),
		}
		if c.Username != "" {
			u.User = url.UserPassword(c.Username, c.Password)
		}
		return u.String(), nil

	default:
		if c.Database == "" {
			return ":memory:", nil
		}
		return c.Database, nil
	}
}

// Settings returns the values schema grammars read from the connection.
func (c *Config) Settings() map[string]string {
	return map[string]string{
		"charset":   c.Charset,
		"collation": c.Collation,
		"engine":    c.Engine,
		"schema":    c.Schema,
		"username":  c.Username,
	}
}

// SchemaConfig returns the Blueprint defaults described by c.
func (c *Config) SchemaConfig() schema.Config {
	cfg := schema.DefaultConfig()
	if c.DefaultStringLength > 0 {
		cfg.DefaultStringLength = c.DefaultStringLength
	}
	if c.MorphKeyType != "" {
		cfg.MorphKeyType = schema.MorphKeyType(c.MorphKeyType)
	}
	return cfg
}

// Options turns c into DB options. Explicit options passed to NewDB after
// these still win.
func (c *Config) Options() []Option {
	return []Option{
		WithTablePrefix(c.Prefix),
		WithSlowQueryThreshold(c.SlowQueryThreshold),
		WithSchemaConfig(c.SchemaConfig()),
		WithDatabaseName(c.Database),
		WithSettings(c.Settings()),
	}
}
