package use_cases

import (
	"context"

	"cocoscan/internal/application/dto"
	portsin "cocoscan/internal/application/ports/in"
	portsout "cocoscan/internal/application/ports/out"
	"cocoscan/internal/domain/policies"
	valueobjects "cocoscan/internal/domain/value_objects"
	apperrors "cocoscan/internal/shared_kernel/errors"
)

type discoverColoredAccountsUseCase struct {
	accounts     portsout.WalletAccountLookup
	assets       portsout.ColoredAssetLookupGateway
	materializer portsout.ColoredAccountMaterializer
}

func NewDiscoverColoredAccountsUseCase(
	accounts portsout.WalletAccountLookup,
	assets portsout.ColoredAssetLookupGateway,
	materializer portsout.ColoredAccountMaterializer,
) portsin.DiscoverColoredAccountsUseCase {
	return &discoverColoredAccountsUseCase{
		accounts:     accounts,
		assets:       assets,
		materializer: materializer,
	}
}

// Execute walks m/44'/0'/account'/0/address from the root, creating one
// colored account for every unowned address that holds a recognized asset.
// The walk leaves an account after AddressGapLimit consecutive misses and
// stops after AccountGapLimit consecutive unused accounts. An account that
// cannot be stored is counted in AccountsFailed and examined as a miss. A
// canceled or failed walk still returns the counts reached so far.
func (u *discoverColoredAccountsUseCase) Execute(
	ctx context.Context,
	root portsout.HDKeyNode,
	progress portsout.DiscoveryProgressObserver,
) (dto.DiscoveryResult, *apperrors.AppError) {
	if appErr := u.validate(root); appErr != nil {
		return dto.DiscoveryResult{}, appErr
	}

	state := policies.NewDiscoveryState()
	for !state.Exhausted() {
		for !state.AccountExhausted() {
			if err := ctx.Err(); err != nil {
				return resultOf(state), discoveryCanceled(state, err)
			}

			next, appErr := u.step(ctx, root, state)
			if appErr != nil {
				return resultOf(state), appErr
			}
			if next.Scanned() != state.Scanned() && progress != nil {
				progress.OnDiscoveryProgress(next.Scanned())
			}
			state = next
		}
		state = state.FinishAccount()
	}

	return resultOf(state), nil
}

func resultOf(state policies.DiscoveryState) dto.DiscoveryResult {
	return dto.DiscoveryResult{
		FirstAccountID:  state.FirstAccountID(),
		AccountsCreated: state.AccountsCreated(),
		AccountsFailed:  state.FailedAccounts(),
		Scanned:         state.Scanned(),
	}
}

func (u *discoverColoredAccountsUseCase) validate(root portsout.HDKeyNode) *apperrors.AppError {
	if u.accounts == nil || u.assets == nil || u.materializer == nil {
		return apperrors.NewInternal(
			"discovery_dependencies_missing",
			"account lookup, asset lookup and materializer are required",
			nil,
		)
	}
	if root == nil {
		return apperrors.NewValidation(
			"hd_root_required",
			"root key node is required",
			nil,
		)
	}
	if root.Depth() != 0 {
		return apperrors.NewValidation(
			"hd_root_depth_invalid",
			"discovery requires a root key node with depth 0",
			map[string]any{"depth": root.Depth()},
		)
	}
	if !root.IsPrivate() {
		return apperrors.NewValidation(
			"xpub_should_be_xpriv",
			"discovery requires a private root key node",
			nil,
		)
	}
	return nil
}

func (u *discoverColoredAccountsUseCase) step(
	ctx context.Context,
	root portsout.HDKeyNode,
	state policies.DiscoveryState,
) (policies.DiscoveryState, *apperrors.AppError) {
	coordinate, appErr := valueobjects.NewDerivationCoordinate(
		state.Coordinate().AccountIndex,
		state.Coordinate().AddressIndex,
	)
	if appErr != nil {
		return state, appErr
	}

	child, appErr := root.DeriveChild(coordinate.Path())
	if appErr != nil {
		return state, withCoordinate(appErr, coordinate.String())
	}
	address, appErr := child.Address()
	if appErr != nil {
		return state, withCoordinate(appErr, coordinate.String())
	}

	_, exists, appErr := u.accounts.FindAccountIDByAddress(ctx, address)
	if appErr != nil {
		return state, appErr
	}
	if exists {
		return state.Skip(), nil
	}

	holdings, lookupErr := u.assets.LookupAssets(ctx, address)
	if lookupErr != nil {
		return state.Examine(policies.LookupFailed), nil
	}
	if len(holdings) == 0 {
		return state.Examine(policies.LookupMiss), nil
	}

	privateKey, appErr := child.PrivateKey()
	if appErr != nil {
		return state, withCoordinate(appErr, coordinate.String())
	}
	materialized, appErr := u.materializer.EnableAsset(ctx, dto.MaterializeColoredAccountCommand{
		Asset:         holdings[0].Asset,
		Address:       address,
		PrivateKeyWIF: privateKey,
	})
	if appErr != nil {
		return state.MaterializationFailed(), nil
	}

	next := state.Examine(policies.LookupHit)
	if !materialized.Created {
		return next, nil
	}
	return next.Materialized(materialized.AccountID), nil
}

func discoveryCanceled(state policies.DiscoveryState, cause error) *apperrors.AppError {
	return apperrors.NewCanceled(
		"discovery_canceled",
		"discovery was canceled",
		map[string]any{
			"scanned":          state.Scanned(),
			"accounts_created": state.AccountsCreated(),
			"cause":            cause.Error(),
		},
	)
}

func withCoordinate(appErr *apperrors.AppError, path string) *apperrors.AppError {
	details := make(map[string]any, len(appErr.Details)+1)
	for key, value := range appErr.Details {
		details[key] = value
	}
	details["path"] = path

	return &apperrors.AppError{
		Type:    appErr.Type,
		Code:    appErr.Code,
		Message: appErr.Message,
		Details: details,
	}
}
