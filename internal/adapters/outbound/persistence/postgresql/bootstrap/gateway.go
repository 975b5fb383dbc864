package bootstrap

import (
	"context"
	"database/sql"
	stderrors "errors"
	"log"
	"path/filepath"

	portsout "cocoscan/internal/application/ports/out"
	"cocoscan/internal/domain/entities"
	apperrors "cocoscan/internal/shared_kernel/errors"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

type Gateway struct {
	databaseURL    string
	databaseTarget string
	migrationsPath string
	catalogSeed    []entities.ColoredAssetDefinition
	logger         *log.Logger
}

var _ portsout.PersistenceBootstrapGateway = (*Gateway)(nil)

func NewGateway(
	databaseURL string,
	databaseTarget string,
	migrationsPath string,
	catalogSeed []entities.ColoredAssetDefinition,
	logger *log.Logger,
) *Gateway {
	seed := make([]entities.ColoredAssetDefinition, len(catalogSeed))
	copy(seed, catalogSeed)

	return &Gateway{
		databaseURL:    databaseURL,
		databaseTarget: databaseTarget,
		migrationsPath: migrationsPath,
		catalogSeed:    seed,
		logger:         logger,
	}
}

func (g *Gateway) CheckReadiness(ctx context.Context) *apperrors.AppError {
	db, err := sql.Open("pgx", g.databaseURL)
	if err != nil {
		g.logf("database connection initialization failed target=%s error=%v", g.databaseTarget, err)
		return apperrors.NewInternal(
			"DB_CONNECT_INIT_FAILED",
			"failed to initialize database connection",
			map[string]any{"database_target": g.databaseTarget},
		)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		g.logf("database readiness check failed target=%s error=%v", g.databaseTarget, err)
		return apperrors.NewInternal(
			"DB_CONNECT_FAILED",
			"failed to connect to database",
			map[string]any{"database_target": g.databaseTarget},
		)
	}

	g.logf("database readiness check succeeded target=%s", g.databaseTarget)
	return nil
}

func (g *Gateway) RunMigrations(ctx context.Context) *apperrors.AppError {
	if err := ctx.Err(); err != nil {
		return apperrors.NewInternal(
			"DB_MIGRATION_CONTEXT_CANCELED",
			"migration context canceled",
			map[string]any{"database_target": g.databaseTarget},
		)
	}

	migrationsAbsPath, err := filepath.Abs(g.migrationsPath)
	if err != nil {
		return apperrors.NewInternal(
			"DB_MIGRATION_PATH_RESOLVE_FAILED",
			"failed to resolve migration path",
			map[string]any{"migrations_path": g.migrationsPath},
		)
	}

	sourceURL := "file://" + filepath.ToSlash(migrationsAbsPath)
	migrationRunner, err := migrate.New(sourceURL, g.databaseURL)
	if err != nil {
		return apperrors.NewInternal(
			"DB_MIGRATION_SETUP_FAILED",
			"failed to initialize migration runner",
			map[string]any{
				"database_target": g.databaseTarget,
				"migrations_path": g.migrationsPath,
			},
		)
	}

	defer func() {
		sourceErr, dbErr := migrationRunner.Close()
		if sourceErr != nil {
			g.logf("migration source close warning path=%s error=%v", g.migrationsPath, sourceErr)
		}
		if dbErr != nil {
			g.logf("migration db close warning target=%s error=%v", g.databaseTarget, dbErr)
		}
	}()

	err = migrationRunner.Up()
	if err != nil && !stderrors.Is(err, migrate.ErrNoChange) {
		g.logf("database migrations failed target=%s error=%v", g.databaseTarget, err)
		return apperrors.NewInternal(
			"DB_MIGRATION_APPLY_FAILED",
			"failed to apply migrations",
			map[string]any{
				"database_target": g.databaseTarget,
				"migrations_path": g.migrationsPath,
			},
		)
	}

	if stderrors.Is(err, migrate.ErrNoChange) {
		g.logf("database migrations up to date target=%s", g.databaseTarget)
	} else {
		g.logf("database migrations applied target=%s", g.databaseTarget)
	}

	return nil
}

// SyncColoredAssetCatalog makes app.colored_asset_catalog mirror the
// configured seed. Rows absent from the seed are disabled, never deleted,
// because wallet accounts reference them.
func (g *Gateway) SyncColoredAssetCatalog(ctx context.Context) *apperrors.AppError {
	seedIDs, appErr := validateCatalogSeed(g.catalogSeed)
	if appErr != nil {
		return appErr
	}

	db, err := sql.Open("pgx", g.databaseURL)
	if err != nil {
		return apperrors.NewInternal(
			"DB_CONNECT_INIT_FAILED",
			"failed to initialize database connection",
			map[string]any{"database_target": g.databaseTarget},
		)
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return apperrors.NewInternal(
			"colored_asset_catalog_tx_begin_failed",
			"failed to start colored asset catalog transaction",
			map[string]any{"error": err.Error()},
		)
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const upsertQuery = `
INSERT INTO app.colored_asset_catalog (asset_id, asset_type, name, divisibility, enabled)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (asset_id) DO UPDATE
SET asset_type = EXCLUDED.asset_type,
    name = EXCLUDED.name,
    divisibility = EXCLUDED.divisibility,
    enabled = EXCLUDED.enabled,
    updated_at = now()
`
	for _, definition := range g.catalogSeed {
		if _, err := tx.ExecContext(
			ctx,
			upsertQuery,
			definition.AssetID,
			definition.Type.String(),
			definition.Name,
			definition.Divisibility,
			definition.Enabled,
		); err != nil {
			return apperrors.NewInternal(
				"colored_asset_catalog_upsert_failed",
				"failed to upsert colored asset catalog entry",
				map[string]any{"asset_id": definition.AssetID, "error": err.Error()},
			)
		}
	}

	const disableQuery = `
UPDATE app.colored_asset_catalog
SET enabled = FALSE, updated_at = now()
WHERE enabled = TRUE
  AND NOT (asset_id = ANY($1))
`
	result, err := tx.ExecContext(ctx, disableQuery, seedIDs)
	if err != nil {
		return apperrors.NewInternal(
			"colored_asset_catalog_disable_failed",
			"failed to disable stale colored asset catalog entries",
			map[string]any{"error": err.Error()},
		)
	}
	disabled, _ := result.RowsAffected()

	if err := tx.Commit(); err != nil {
		return apperrors.NewInternal(
			"colored_asset_catalog_tx_commit_failed",
			"failed to commit colored asset catalog transaction",
			map[string]any{"error": err.Error()},
		)
	}
	committed = true

	g.logf("colored asset catalog synced entries=%d disabled=%d", len(g.catalogSeed), disabled)
	return nil
}

func validateCatalogSeed(seed []entities.ColoredAssetDefinition) ([]string, *apperrors.AppError) {
	ids := make([]string, 0, len(seed))
	seen := make(map[string]struct{}, len(seed))
	for _, definition := range seed {
		if definition.AssetID == "" {
			return nil, apperrors.NewInternal(
				"invalid_configuration",
				"colored asset catalog entry is missing an asset id",
				nil,
			)
		}
		if _, exists := seen[definition.AssetID]; exists {
			return nil, apperrors.NewInternal(
				"invalid_configuration",
				"colored asset catalog contains a duplicate asset id",
				map[string]any{"asset_id": definition.AssetID},
			)
		}
		seen[definition.AssetID] = struct{}{}
		ids = append(ids, definition.AssetID)
	}
	return ids, nil
}

func (g *Gateway) logf(format string, args ...any) {
	if g.logger == nil {
		return
	}
	g.logger.Printf(format, args...)
}
