package walletaccount

import (
	"context"
	"database/sql"
	stderrors "errors"
	"log"
	"time"

	"cocoscan/internal/application/dto"
	portsout "cocoscan/internal/application/ports/out"
	"cocoscan/internal/domain/entities"
	valueobjects "cocoscan/internal/domain/value_objects"
	apperrors "cocoscan/internal/shared_kernel/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// KeySealer encrypts key material before it reaches a table column.
type KeySealer interface {
	Seal(plaintext []byte) ([]byte, error)
}

type Repository struct {
	db     *sql.DB
	sealer KeySealer
	newID  func() string
	logger *log.Logger
}

var _ portsout.WalletAccountRepository = (*Repository)(nil)

func NewRepository(db *sql.DB, sealer KeySealer, logger *log.Logger) *Repository {
	return &Repository{
		db:     db,
		sealer: sealer,
		newID:  func() string { return uuid.NewString() },
		logger: logger,
	}
}

func (r *Repository) FindAccountIDByAddress(ctx context.Context, address string) (string, bool, *apperrors.AppError) {
	const query = `
SELECT id::text
FROM app.wallet_accounts
WHERE address = $1
`

	var accountID string
	err := r.db.QueryRowContext(ctx, query, address).Scan(&accountID)
	if stderrors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, apperrors.NewInternal(
			"wallet_account_lookup_failed",
			"failed to look up wallet account by address",
			map[string]any{"error": err.Error()},
		)
	}

	return accountID, true, nil
}

func (r *Repository) FindByAddress(ctx context.Context, address string) (entities.WalletAccount, bool, *apperrors.AppError) {
	const query = `
SELECT
  wa.id::text,
  wa.kind,
  wa.address,
  wa.asset_id,
  ac.asset_type,
  ac.name,
  ac.divisibility,
  wa.encrypted_private_key IS NOT NULL OR wa.encrypted_extended_key IS NOT NULL,
  wa.backup_state,
  wa.created_at
FROM app.wallet_accounts wa
LEFT JOIN app.colored_asset_catalog ac ON ac.asset_id = wa.asset_id
WHERE wa.address = $1
`

	account, err := scanWalletAccount(r.db.QueryRowContext(ctx, query, address))
	if stderrors.Is(err, sql.ErrNoRows) {
		return entities.WalletAccount{}, false, nil
	}
	if err != nil {
		return entities.WalletAccount{}, false, asAppError(err, "wallet_account_query_failed", "failed to query wallet account")
	}

	return account, true, nil
}

func (r *Repository) Create(ctx context.Context, command dto.CreateWalletAccountCommand) (entities.WalletAccount, *apperrors.AppError) {
	backupState := command.BackupState
	if backupState == "" {
		backupState = valueobjects.BackupStateUnknown
	}

	account, appErr := entities.NewWalletAccount(entities.NewWalletAccountInput{
		ID:          r.newID(),
		Kind:        command.Kind,
		Address:     command.Address,
		Asset:       command.Asset,
		HasKey:      command.PrivateKeyWIF != "" || command.ExtendedKey != "",
		BackupState: backupState,
		CreatedAt:   time.Now().UTC(),
	})
	if appErr != nil {
		return entities.WalletAccount{}, appErr
	}

	encryptedPrivateKey, appErr := r.seal(command.PrivateKeyWIF)
	if appErr != nil {
		return entities.WalletAccount{}, appErr
	}
	encryptedExtendedKey, appErr := r.seal(command.ExtendedKey)
	if appErr != nil {
		return entities.WalletAccount{}, appErr
	}

	const query = `
INSERT INTO app.wallet_accounts (
  id,
  kind,
  address,
  asset_id,
  encrypted_private_key,
  encrypted_extended_key,
  backup_state,
  created_at,
  updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
`

	_, err := r.db.ExecContext(
		ctx,
		query,
		account.ID,
		account.Kind.String(),
		nullableString(account.Address),
		account.AssetID,
		encryptedPrivateKey,
		encryptedExtendedKey,
		account.BackupState.String(),
		account.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return entities.WalletAccount{}, apperrors.NewConflict(
				"wallet_account_address_conflict",
				"a wallet account already exists for this address",
				map[string]any{"address": account.Address},
			)
		}
		return entities.WalletAccount{}, apperrors.NewInternal(
			"wallet_account_insert_failed",
			"failed to insert wallet account",
			map[string]any{"error": err.Error(), "kind": account.Kind.String()},
		)
	}

	r.logf("wallet account created id=%s kind=%s", account.ID, account.Kind)
	return account, nil
}

// EnableAsset stores a spendable colored account for a discovered address.
// An account already bound to the address is returned with Created unset.
func (r *Repository) EnableAsset(ctx context.Context, command dto.MaterializeColoredAccountCommand) (dto.MaterializedColoredAccount, *apperrors.AppError) {
	encryptedPrivateKey, appErr := r.seal(command.PrivateKeyWIF)
	if appErr != nil {
		return dto.MaterializedColoredAccount{}, appErr
	}
	if encryptedPrivateKey == nil {
		return dto.MaterializedColoredAccount{}, apperrors.NewInternal(
			"colored_account_private_key_missing",
			"colored account materialization requires a private key",
			map[string]any{"address": command.Address},
		)
	}

	const query = `
INSERT INTO app.wallet_accounts (
  id,
  kind,
  address,
  asset_id,
  encrypted_private_key,
  backup_state,
  created_at,
  updated_at
) VALUES ($1, $2, $3, $4, $5, $6, now(), now())
ON CONFLICT (address) WHERE address IS NOT NULL DO NOTHING
RETURNING id::text
`

	var accountID string
	err := r.db.QueryRowContext(
		ctx,
		query,
		r.newID(),
		valueobjects.AccountKindColored.String(),
		command.Address,
		command.Asset.AssetID,
		encryptedPrivateKey,
		valueobjects.BackupStateIgnored.String(),
	).Scan(&accountID)
	if stderrors.Is(err, sql.ErrNoRows) {
		existingID, found, appErr := r.FindAccountIDByAddress(ctx, command.Address)
		if appErr != nil {
			return dto.MaterializedColoredAccount{}, appErr
		}
		if !found {
			return dto.MaterializedColoredAccount{}, apperrors.NewInternal(
				"colored_account_materialization_race",
				"colored account conflicted but could not be reloaded",
				map[string]any{"address": command.Address},
			)
		}
		r.logf("colored account already present id=%s asset_id=%s", existingID, command.Asset.AssetID)
		return dto.MaterializedColoredAccount{AccountID: existingID}, nil
	}
	if err != nil {
		return dto.MaterializedColoredAccount{}, apperrors.NewInternal(
			"colored_account_insert_failed",
			"failed to insert colored account",
			map[string]any{"error": err.Error(), "asset_id": command.Asset.AssetID},
		)
	}

	r.logf("colored account materialized id=%s asset_id=%s", accountID, command.Asset.AssetID)
	return dto.MaterializedColoredAccount{AccountID: accountID, Created: true}, nil
}

// AttachPrivateKey upgrades a read-only account to its spendable kind.
func (r *Repository) AttachPrivateKey(ctx context.Context, accountID string, privateKeyWIF string) (entities.WalletAccount, *apperrors.AppError) {
	encryptedPrivateKey, appErr := r.seal(privateKeyWIF)
	if appErr != nil {
		return entities.WalletAccount{}, appErr
	}
	if encryptedPrivateKey == nil {
		return entities.WalletAccount{}, apperrors.NewValidation(
			"private_key_required",
			"private key is required",
			nil,
		)
	}

	const query = `
WITH upgraded AS (
  UPDATE app.wallet_accounts
  SET kind = CASE kind WHEN 'colored_read_only' THEN 'colored' ELSE 'single_address' END,
      encrypted_private_key = $2,
      backup_state = 'ignored',
      updated_at = now()
  WHERE id = $1::uuid
    AND kind IN ('colored_read_only', 'single_address_read_only')
  RETURNING *
)
SELECT
  wa.id::text,
  wa.kind,
  wa.address,
  wa.asset_id,
  ac.asset_type,
  ac.name,
  ac.divisibility,
  TRUE,
  wa.backup_state,
  wa.created_at
FROM upgraded wa
LEFT JOIN app.colored_asset_catalog ac ON ac.asset_id = wa.asset_id
`

	account, err := scanWalletAccount(r.db.QueryRowContext(ctx, query, accountID, encryptedPrivateKey))
	if stderrors.Is(err, sql.ErrNoRows) {
		return entities.WalletAccount{}, apperrors.NewConflict(
			"wallet_account_not_read_only",
			"wallet account does not exist or is already spendable",
			map[string]any{"account_id": accountID},
		)
	}
	if err != nil {
		return entities.WalletAccount{}, asAppError(err, "wallet_account_upgrade_failed", "failed to attach private key to wallet account")
	}

	r.logf("wallet account upgraded id=%s kind=%s", account.ID, account.Kind)
	return account, nil
}

func (r *Repository) seal(plaintext string) ([]byte, *apperrors.AppError) {
	if plaintext == "" {
		return nil, nil
	}
	if r.sealer == nil {
		return nil, apperrors.NewInternal(
			"key_sealer_missing",
			"key sealer is required to store key material",
			nil,
		)
	}

	sealed, err := r.sealer.Seal([]byte(plaintext))
	if err != nil {
		return nil, apperrors.NewInternal(
			"key_material_seal_failed",
			"failed to encrypt key material",
			map[string]any{"error": err.Error()},
		)
	}
	return sealed, nil
}

func (r *Repository) logf(format string, args ...any) {
	if r.logger == nil {
		return
	}
	r.logger.Printf(format, args...)
}

func scanWalletAccount(row *sql.Row) (entities.WalletAccount, error) {
	var (
		id           string
		kind         string
		address      sql.NullString
		assetID      sql.NullString
		assetType    sql.NullString
		assetName    sql.NullString
		divisibility sql.NullInt32
		hasKey       bool
		backupState  string
		createdAt    time.Time
	)

	if err := row.Scan(
		&id,
		&kind,
		&address,
		&assetID,
		&assetType,
		&assetName,
		&divisibility,
		&hasKey,
		&backupState,
		&createdAt,
	); err != nil {
		return entities.WalletAccount{}, err
	}

	parsedKind, appErr := valueobjects.ParseAccountKind(kind)
	if appErr != nil {
		return entities.WalletAccount{}, appErr
	}
	parsedBackupState, appErr := valueobjects.ParseBackupState(backupState)
	if appErr != nil {
		return entities.WalletAccount{}, appErr
	}

	var asset *entities.ColoredAssetDefinition
	if assetID.Valid {
		definition, appErr := entities.NewColoredAssetDefinition(
			assetID.String,
			assetType.String,
			assetName.String,
			divisibility.Int32,
			true,
		)
		if appErr != nil {
			return entities.WalletAccount{}, appErr
		}
		asset = &definition
	}

	account, appErr := entities.NewWalletAccount(entities.NewWalletAccountInput{
		ID:          id,
		Kind:        parsedKind,
		Address:     address.String,
		Asset:       asset,
		HasKey:      hasKey,
		BackupState: parsedBackupState,
		CreatedAt:   createdAt,
	})
	if appErr != nil {
		return entities.WalletAccount{}, appErr
	}
	return account, nil
}

func asAppError(err error, code string, message string) *apperrors.AppError {
	var appErr *apperrors.AppError
	if stderrors.As(err, &appErr) {
		return apperrors.NewInternal(
			"wallet_account_row_invalid",
			"stored wallet account row is invalid",
			map[string]any{"reason": appErr.Code},
		)
	}
	return apperrors.NewInternal(code, message, map[string]any{"error": err.Error()})
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !stderrors.As(err, &pgErr) {
		return false
	}

	return pgErr.Code == "23505"
}
