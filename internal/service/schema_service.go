package service

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog"
	"github.com/unach/escuela-backend/migrations"
)

// SchemaStatus reports the migration version after a bootstrap.
type SchemaStatus struct {
	Message string `json:"message"`
	Version uint   `json:"version"`
	Dirty   bool   `json:"dirty"`
	Changed bool   `json:"changed"`
}

// SchemaService applies the embedded migrations.
type SchemaService struct {
	databaseURL string
	log         zerolog.Logger
}

// NewSchemaService creates a new SchemaService.
func NewSchemaService(databaseURL string, log zerolog.Logger) *SchemaService {
	return &SchemaService{
		databaseURL: databaseURL,
		log:         log.With().Str("component", "schema_service").Logger(),
	}
}

// NewMigrator builds a migrate instance over the embedded SQL files.
func NewMigrator(databaseURL string) (*migrate.Migrate, error) {
	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return nil, fmt.Errorf("open embedded migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create migrator: %w", err)
	}
	return m, nil
}

// EnsureSchema migrates the database to the latest version. Running it on an
// up-to-date database is a no-op.
func (s *SchemaService) EnsureSchema() (*SchemaStatus, error) {
	m, err := NewMigrator(s.databaseURL)
	if err != nil {
		return nil, err
	}
	defer m.Close()

	changed := true
	if err := m.Up(); err != nil {
		if !errors.Is(err, migrate.ErrNoChange) {
			return nil, fmt.Errorf("migrate up: %w", err)
		}
		changed = false
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return nil, fmt.Errorf("read version: %w", err)
	}

	s.log.Info().Uint("version", version).Bool("changed", changed).Msg("Schema ensured")

	msg := "El esquema ya estaba actualizado"
	if changed {
		msg = "Tablas creadas exitosamente"
	}
	return &SchemaStatus{Message: msg, Version: version, Dirty: dirty, Changed: changed}, nil
}
