package sqlexec

import (
	"database/sql"
	"os"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite"

	"github.com/typedsql/typedsql/database/sqlbuilder"
	"github.com/typedsql/typedsql/errors"
)

// Registered database/sql driver names.
const (
	MySQLDriver    = "mysql"
	PostgresDriver = "pgx"
	SQLiteDriver   = "sqlite"
)

const (
	defaultStatementCacheSize = 64
	defaultLogLevel           = "info"
)

type Config struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`

	// Maximum number of prepared statements kept open per executor.
	StatementCacheSize int `yaml:"statement_cache_size"`

	// A zerolog level name.
	LogLevel string `yaml:"log_level"`
}

// Parses a yaml config and fills in defaults for the optional fields.
func ParseConfig(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "Invalid sqlexec config: ")
	}

	if cfg.StatementCacheSize == 0 {
		cfg.StatementCacheSize = defaultStatementCacheSize
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLogLevel
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to read config %s: ", path)
	}
	return ParseConfig(data)
}

func (c *Config) validate() error {
	switch c.Driver {
	case MySQLDriver, PostgresDriver, SQLiteDriver:
	default:
		return errors.Newf("Unsupported driver: %q", c.Driver)
	}
	if c.DSN == "" {
		return errors.New("Missing dsn")
	}
	if c.StatementCacheSize < 1 {
		return errors.Newf(
			"Invalid statement_cache_size: %d",
			c.StatementCacheSize)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

func (c *Config) Level() (zerolog.Level, error) {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.NoLevel, errors.Wrapf(
			err,
			"Invalid log_level %q: ",
			c.LogLevel)
	}
	return level, nil
}

// Returns the sqlbuilder database statements are rendered for.  MySQL
// tables are qualified with the dsn's database name.  Postgres tables are
// qualified with the dsn's search_path, when it names a single schema.
// SQLite tables are never qualified.
func (c *Config) Database() (sqlbuilder.Database, error) {
	switch c.Driver {
	case MySQLDriver:
		dsn, err := mysql.ParseDSN(c.DSN)
		if err != nil {
			return nil, errors.Wrap(err, "Invalid mysql dsn: ")
		}
		if dsn.DBName == "" {
			return sqlbuilder.NewMySQLDatabase(nil), nil
		}
		name := dsn.DBName
		return sqlbuilder.NewMySQLDatabase(&name), nil
	case PostgresDriver:
		connConfig, err := pgx.ParseConfig(c.DSN)
		if err != nil {
			return nil, errors.Wrap(err, "Invalid postgres dsn: ")
		}
		schema, ok := connConfig.RuntimeParams["search_path"]
		if !ok || schema == "" || strings.Contains(schema, ",") {
			return sqlbuilder.NewPostgresDatabase(nil), nil
		}
		return sqlbuilder.NewPostgresDatabase(&schema), nil
	case SQLiteDriver:
		return sqlbuilder.NewSQLiteDatabase(), nil
	}
	return nil, errors.Newf("Unsupported driver: %q", c.Driver)
}

// Opens a connection pool for the configured driver.  The pool is not
// pinged.
func Open(cfg *Config) (*sql.DB, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to open %s database: ", cfg.Driver)
	}
	return db, nil
}

// Opens the configured database and wraps it in an Executor.  The executor
// owns the pool: closing the executor closes it.  options.Logger gets the
// configured level applied.
func OpenExecutor(cfg *Config, options ExecutorOptions) (*Executor, error) {
	dbInfo, err := cfg.Database()
	if err != nil {
		return nil, err
	}
	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	db, err := Open(cfg)
	if err != nil {
		return nil, err
	}

	if options.StatementCacheSize == 0 {
		options.StatementCacheSize = cfg.StatementCacheSize
	}
	if options.Logger != nil {
		logger := options.Logger.Level(level)
		options.Logger = &logger
	}

	executor := NewExecutor(db, dbInfo, options)
	executor.ownsDB = true
	return executor, nil
}
