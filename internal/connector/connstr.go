package connector

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	postgresScheme = "postgresql://"
	psycopgScheme  = "postgresql+psycopg2://"
)

// Normalize rewrites a bare postgresql:// URL to the driver-qualified
// form the backend expects. Strings that already carry a driver suffix
// are returned unchanged.
func Normalize(raw string) string {
	if strings.Contains(raw, "+") {
		return raw
	}
	return strings.ReplaceAll(raw, postgresScheme, psycopgScheme)
}

// Target is a password-free description of a connection string.
type Target struct {
	Driver   string
	User     string
	Host     string
	Port     uint16
	Database string
}

func (t Target) String() string {
	var b strings.Builder
	if t.User != "" {
		b.WriteString(t.User)
		b.WriteByte('@')
	}
	b.WriteString(t.Host)
	if t.Port != 0 {
		fmt.Fprintf(&b, ":%d", t.Port)
	}
	if t.Database != "" {
		b.WriteByte('/')
		b.WriteString(t.Database)
	}
	return b.String()
}

// Describe parses a postgres-family connection string into a Target.
// It reports false for other schemes and for strings pgx cannot parse;
// the backend remains the authority on whether the string is valid.
func Describe(connStr string) (Target, bool) {
	scheme, rest, ok := strings.Cut(strings.TrimSpace(connStr), "://")
	if !ok {
		return Target{}, false
	}

	base, driver, _ := strings.Cut(strings.ToLower(scheme), "+")
	if base != "postgresql" && base != "postgres" {
		return Target{}, false
	}

	cfg, err := pgconn.ParseConfig(base + "://" + rest)
	if err != nil {
		return Target{}, false
	}

	return Target{
		Driver:   driver,
		User:     cfg.User,
		Host:     cfg.Host,
		Port:     cfg.Port,
		Database: cfg.Database,
	}, true
}
