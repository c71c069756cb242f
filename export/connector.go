package export

import (
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver (pgx)
	_ "github.com/mattn/go-sqlite3"    // SQLite driver
)

// Database types understood by the connector
const (
	PostgreSQL = "postgresql"
	MySQL      = "mysql"
	SQLite     = "sqlite"
)

// DatabaseConnector opens export databases from connection URLs
type DatabaseConnector struct {
	poolSettings ConnectionPoolSettings
}

// ConnectionPoolSettings defines database connection pool configuration
type ConnectionPoolSettings struct {
	MaxOpenConns    int // Maximum number of open connections
	MaxIdleConns    int // Maximum number of idle connections
	ConnMaxLifetime int // Maximum lifetime of connections in seconds
}

// ConnectionInfo contains parsed database connection information
type ConnectionInfo struct {
	Type     string
	Host     string
	Port     string
	Database string
	Username string
	Password string
	Options  map[string]string
}

// NewDatabaseConnector creates a new database connector with default settings
func NewDatabaseConnector() *DatabaseConnector {
	return &DatabaseConnector{
		poolSettings: ConnectionPoolSettings{
			MaxOpenConns:    4,
			MaxIdleConns:    4,
			ConnMaxLifetime: 300,
		},
	}
}

// SetPoolSettings configures connection pool settings
func (c *DatabaseConnector) SetPoolSettings(settings ConnectionPoolSettings) {
	c.poolSettings = settings
}

// ResolveURL turns a configured driver and connection into a connection URL.
// A connection without a scheme is taken as a plain path or host for driver.
func ResolveURL(driver, connection string) (string, error) {
	if connection == "" {
		return "", ErrEmptyDatabaseURL
	}

	if strings.Contains(connection, "://") {
		return connection, nil
	}

	switch driver {
	case "postgres", "postgresql", "pgx":
		return "postgres://" + connection, nil
	case "mysql":
		return "mysql://" + connection, nil
	case "sqlite", "sqlite3":
		return "sqlite://" + connection, nil
	case "":
		return "", fmt.Errorf("%w: '%s' has no scheme and no driver is configured", ErrInvalidDatabaseURL, connection)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedDatabase, driver)
	}
}

// ParseDatabaseURL extracts database type from connection URL
func (c *DatabaseConnector) ParseDatabaseURL(databaseURL string) (string, error) {
	if databaseURL == "" {
		return "", ErrEmptyDatabaseURL
	}

	u, err := url.Parse(databaseURL)
	if err != nil {
		return "", ErrInvalidDatabaseURL
	}

	switch u.Scheme {
	case "postgres", "postgresql":
		return PostgreSQL, nil
	case "mysql":
		return MySQL, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	default:
		return "", ErrUnsupportedDatabase
	}
}

// ValidateConnectionString validates the format of a database connection string
func (c *DatabaseConnector) ValidateConnectionString(databaseURL string) error {
	dbType, err := c.ParseDatabaseURL(databaseURL)
	if err != nil {
		return err
	}

	u, _ := url.Parse(databaseURL)

	switch dbType {
	case PostgreSQL, MySQL:
		if u.Host == "" || strings.TrimPrefix(u.Path, "/") == "" {
			return ErrInvalidDatabaseURL
		}
	case SQLite:
		if u.Path == "" && u.Host == "" {
			return ErrInvalidDatabaseURL
		}
	}

	return nil
}

// Connect opens a database connection and returns it with its database type
func (c *DatabaseConnector) Connect(databaseURL string) (*sql.DB, string, error) {
	if err := c.ValidateConnectionString(databaseURL); err != nil {
		return nil, "", err
	}

	dbType, err := c.ParseDatabaseURL(databaseURL)
	if err != nil {
		return nil, "", err
	}

	connStr, err := c.convertToDriverString(databaseURL, dbType)
	if err != nil {
		return nil, "", err
	}

	db, err := sql.Open(getDriverName(dbType), connStr)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	db.SetMaxOpenConns(c.poolSettings.MaxOpenConns)
	db.SetMaxIdleConns(c.poolSettings.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(c.poolSettings.ConnMaxLifetime) * time.Second)

	return db, dbType, nil
}

// ParseConnectionInfo parses a database URL into connection information
func (c *DatabaseConnector) ParseConnectionInfo(databaseURL string) (ConnectionInfo, error) {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return ConnectionInfo{}, ErrInvalidDatabaseURL
	}

	info := ConnectionInfo{
		Options: make(map[string]string),
	}

	switch u.Scheme {
	case "postgres", "postgresql", "mysql":
		info.Type = PostgreSQL
		info.Port = "5432"

		if u.Scheme == "mysql" {
			info.Type = MySQL
			info.Port = "3306"
		}

		info.Host = u.Hostname()
		if port := u.Port(); port != "" {
			info.Port = port
		}

		info.Database = strings.TrimPrefix(u.Path, "/")

		if u.User != nil {
			info.Username = u.User.Username()
			if password, ok := u.User.Password(); ok {
				info.Password = password
			}
		}
	case "sqlite", "sqlite3":
		info.Type = SQLite
		if u.Host == "" {
			// sqlite:///path/to/db.db format
			info.Database = u.Path
		} else {
			// sqlite://./db.db format
			info.Database = u.Host + u.Path
		}
	default:
		return ConnectionInfo{}, ErrUnsupportedDatabase
	}

	for key, values := range u.Query() {
		if len(values) > 0 {
			info.Options[key] = values[0]
		}
	}

	return info, nil
}

func (c *DatabaseConnector) convertToDriverString(databaseURL, dbType string) (string, error) {
	info, err := c.ParseConnectionInfo(databaseURL)
	if err != nil {
		return "", err
	}

	switch dbType {
	case PostgreSQL:
		// pgx accepts URLs; only sslmode gets a default
		u, _ := url.Parse(databaseURL)
		u.Scheme = "postgres"

		query := u.Query()
		if query.Get("sslmode") == "" {
			query.Set("sslmode", "disable")
		}

		u.RawQuery = query.Encode()

		return u.String(), nil
	case MySQL:
		// go-sql-driver/mysql DSN: user:pass@tcp(host:port)/db?opts
		var sb strings.Builder

		if info.Username != "" {
			sb.WriteString(info.Username)

			if info.Password != "" {
				sb.WriteString(":" + info.Password)
			}

			sb.WriteString("@")
		}

		sb.WriteString("tcp(" + info.Host + ":" + info.Port + ")/" + info.Database)

		if _, ok := info.Options["parseTime"]; !ok {
			info.Options["parseTime"] = "true"
		}

		values := url.Values{}
		for key, value := range info.Options {
			values.Set(key, value)
		}

		sb.WriteString("?" + values.Encode())

		return sb.String(), nil
	case SQLite:
		return info.Database, nil
	default:
		return "", ErrUnsupportedDatabase
	}
}

func getDriverName(dbType string) string {
	switch dbType {
	case PostgreSQL:
		return "pgx"
	case MySQL:
		return "mysql"
	case SQLite:
		return "sqlite3"
	default:
		return ""
	}
}
