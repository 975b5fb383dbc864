package assetcatalog

import (
	"context"
	"database/sql"

	portsout "cocoscan/internal/application/ports/out"
	"cocoscan/internal/domain/entities"
	apperrors "cocoscan/internal/shared_kernel/errors"
)

type ReadModel struct {
	db *sql.DB
}

var _ portsout.ColoredAssetCatalogReadModel = (*ReadModel)(nil)

func NewReadModel(db *sql.DB) *ReadModel {
	return &ReadModel{db: db}
}

func (r *ReadModel) ListEnabled(ctx context.Context) ([]entities.ColoredAssetDefinition, *apperrors.AppError) {
	const query = `
SELECT
  asset_id,
  asset_type,
  name,
  divisibility
FROM app.colored_asset_catalog
WHERE enabled = TRUE
ORDER BY
  CASE asset_type WHEN 'MT' THEN 0 WHEN 'MASS' THEN 1 WHEN 'RMC' THEN 2 ELSE 3 END ASC,
  asset_id ASC
`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.NewInternal(
			"colored_asset_catalog_query_failed",
			"failed to query colored asset catalog",
			map[string]any{"error": err.Error()},
		)
	}
	defer rows.Close()

	definitions := make([]entities.ColoredAssetDefinition, 0)
	for rows.Next() {
		var (
			assetID      string
			assetType    string
			name         sql.NullString
			divisibility int32
		)

		if scanErr := rows.Scan(&assetID, &assetType, &name, &divisibility); scanErr != nil {
			return nil, apperrors.NewInternal(
				"colored_asset_catalog_scan_failed",
				"failed to parse colored asset catalog row",
				map[string]any{"error": scanErr.Error()},
			)
		}

		definition, appErr := entities.NewColoredAssetDefinition(assetID, assetType, name.String, divisibility, true)
		if appErr != nil {
			return nil, apperrors.NewInternal(
				"colored_asset_catalog_row_invalid",
				"colored asset catalog row is invalid",
				map[string]any{"asset_id": assetID, "reason": appErr.Code},
			)
		}

		definitions = append(definitions, definition)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternal(
			"colored_asset_catalog_rows_failed",
			"failed to iterate colored asset catalog rows",
			map[string]any{"error": err.Error()},
		)
	}

	return definitions, nil
}
