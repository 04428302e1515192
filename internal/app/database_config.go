package app

import (
	"strings"

	"github.com/lironatar/TasksList/internal/database"
)

// DatabaseOpenConfig converts DatabaseConfig into database.Config, picking the section for the selected driver.
func (c DatabaseConfig) DatabaseOpenConfig() database.Config {
	cfg := database.Config{
		Driver: c.Driver,
		Path:   c.Path,
		DSN:    c.DSN,
	}

	var section DBAuthConfig
	switch strings.ToLower(strings.TrimSpace(c.Driver)) {
	case "postgres", "postgresql":
		section = c.Postgres
	case "mysql", "mariadb":
		section = c.MySQL
	default:
		return cfg
	}

	cfg.Host = section.Host
	cfg.Port = section.Port
	cfg.Name = section.Database
	cfg.User = section.Username
	cfg.Password = section.Password
	cfg.Options = section.Options
	return cfg
}
