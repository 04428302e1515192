package database

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openPostgres(cfg Config) (*gorm.DB, error) {
	dsn, err := buildPostgresDSN(cfg)
	if err != nil {
		return nil, err
	}
	return gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
}

// buildPostgresDSN renders a libpq keyword/value string. Connection keys come
// first in a fixed order; extra options follow sorted by key.
func buildPostgresDSN(cfg Config) (string, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		if cfg.User == "" || cfg.Name == "" {
			return "", errors.New("postgres: user and database name are required")
		}
		host, port := endpoint(cfg, "localhost", 5432)

		extra := map[string]string{"sslmode": "disable"}
		maps.Copy(extra, cfg.Options)
		for _, key := range []string{"host", "port", "user", "dbname", "password"} {
			delete(extra, key)
		}

		pairs := []string{
			"host=" + quoteConnValue(host),
			"port=" + strconv.Itoa(port),
			"user=" + quoteConnValue(cfg.User),
			"dbname=" + quoteConnValue(cfg.Name),
		}
		if cfg.Password != "" {
			pairs = append(pairs, "password="+quoteConnValue(cfg.Password))
		}
		for _, key := range slices.Sorted(maps.Keys(extra)) {
			pairs = append(pairs, key+"="+quoteConnValue(extra[key]))
		}
		dsn = strings.Join(pairs, " ")
	}

	if _, err := pgconn.ParseConfig(dsn); err != nil {
		return "", fmt.Errorf("postgres: invalid connection settings: %w", err)
	}
	return dsn, nil
}

// quoteConnValue applies libpq quoting to values that are empty or contain
// whitespace, quotes or backslashes.
func quoteConnValue(v string) string {
	if v != "" && !strings.ContainsAny(v, " \t\n'\\") {
		return v
	}
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(v) + "'"
}
