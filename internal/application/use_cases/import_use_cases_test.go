//go:build !integration

package use_cases

import (
	"context"
	"fmt"
	"testing"
	"time"

	"cocoscan/internal/application/dto"
	portsout "cocoscan/internal/application/ports/out"
	"cocoscan/internal/domain/entities"
	valueobjects "cocoscan/internal/domain/value_objects"
	apperrors "cocoscan/internal/shared_kernel/errors"
)

const (
	testMainnetAddress = "1BvBMSEYstWetqTFn5Au4m4GFg7xJaNVN2"
	testWIF            = "wif-test"
)

func TestImportHDNodeUseCaseDepthThreeCreatesBIP44Account(t *testing.T) {
	repository := newFakeWalletAccountRepository()
	scheduler := &fakeScheduler{}
	parser := &fakeKeyParser{node: &fakeHDNode{depth: 3, private: true}}
	useCase := NewImportHDNodeUseCase(parser, repository, scheduler)

	output, appErr := useCase.Execute(context.Background(), dto.ImportHDNodeCommand{ExtendedKey: "xprv-account"})
	if appErr != nil {
		t.Fatalf("expected no error, got %+v", appErr)
	}
	if output.Account == nil || output.Discovery != nil {
		t.Fatalf("expected account output only, got %+v", output)
	}
	if output.Account.Kind != "bip44" || output.Account.BackupState != "ignored" {
		t.Fatalf("unexpected account: %+v", output.Account)
	}
	if repository.created[0].ExtendedKey != "xprv-fake" {
		t.Fatalf("expected serialized key stored, got %q", repository.created[0].ExtendedKey)
	}
	if len(scheduler.scheduled) != 0 {
		t.Fatalf("expected no discovery scheduled")
	}
}

func TestImportHDNodeUseCaseMasterPrivateKeySchedulesDiscovery(t *testing.T) {
	repository := newFakeWalletAccountRepository()
	scheduler := &fakeScheduler{}
	parser := &fakeKeyParser{node: newFakeRoot()}
	useCase := NewImportHDNodeUseCase(parser, repository, scheduler)

	output, appErr := useCase.Execute(context.Background(), dto.ImportHDNodeCommand{
		ExtendedKey: "xprv-master",
		CallbackURL: "HTTPS://Hooks.Example.com/discovery",
	})
	if appErr != nil {
		t.Fatalf("expected no error, got %+v", appErr)
	}
	if output.Discovery == nil || output.Discovery.Status != "queued" {
		t.Fatalf("expected queued discovery, got %+v", output)
	}
	if scheduler.callbackURLs[0] != "https://hooks.example.com/discovery" {
		t.Fatalf("expected normalized callback url, got %q", scheduler.callbackURLs[0])
	}
	if len(repository.created) != 0 {
		t.Fatalf("expected no account created before discovery")
	}
}

func TestImportHDNodeUseCaseRejectsMasterPublicKey(t *testing.T) {
	root := newFakeRoot()
	root.private = false
	useCase := NewImportHDNodeUseCase(&fakeKeyParser{node: root}, newFakeWalletAccountRepository(), &fakeScheduler{})

	_, appErr := useCase.Execute(context.Background(), dto.ImportHDNodeCommand{ExtendedKey: "xpub-master"})
	if appErr == nil || appErr.Code != "xpub_should_be_xpriv" {
		t.Fatalf("expected xpub_should_be_xpriv, got %+v", appErr)
	}
}

func TestImportHDNodeUseCaseRejectsUnsupportedDepth(t *testing.T) {
	useCase := NewImportHDNodeUseCase(
		&fakeKeyParser{node: &fakeHDNode{depth: 4, private: true}},
		newFakeWalletAccountRepository(),
		&fakeScheduler{},
	)

	_, appErr := useCase.Execute(context.Background(), dto.ImportHDNodeCommand{ExtendedKey: "xprv-chain"})
	if appErr == nil || appErr.Code != "hd_node_depth_unsupported" {
		t.Fatalf("expected hd_node_depth_unsupported, got %+v", appErr)
	}
}

func TestImportHDNodeUseCaseRejectsInvalidCallbackURL(t *testing.T) {
	scheduler := &fakeScheduler{}
	useCase := NewImportHDNodeUseCase(&fakeKeyParser{node: newFakeRoot()}, newFakeWalletAccountRepository(), scheduler)

	_, appErr := useCase.Execute(context.Background(), dto.ImportHDNodeCommand{ExtendedKey: "xprv", CallbackURL: "ftp://x"})
	if appErr == nil || appErr.Type != apperrors.TypeValidation {
		t.Fatalf("expected validation error, got %+v", appErr)
	}
	if len(scheduler.scheduled) != 0 {
		t.Fatalf("expected no discovery scheduled")
	}
}

func TestImportPrivateKeyUseCaseCreatesColoredAccountForFirstAsset(t *testing.T) {
	repository := newFakeWalletAccountRepository()
	assets := &fakeAssetLookup{
		holdings: map[string][]entities.ColoredAssetHolding{
			testMainnetAddress: {testHolding("asset-mass", valueobjects.ColoredAssetTypeMASS)},
		},
		failures: map[string]bool{},
	}
	useCase := NewImportPrivateKeyUseCase(&fakeKeyParser{}, repository, assets, &fakeCatalog{})

	output, appErr := useCase.Execute(context.Background(), dto.ImportPrivateKeyCommand{WIF: testWIF})
	if appErr != nil {
		t.Fatalf("expected no error, got %+v", appErr)
	}
	if output.Account.Kind != "colored" || *output.Account.AssetID != "asset-mass" {
		t.Fatalf("unexpected account: %+v", output.Account)
	}
	if len(output.Holdings) != 1 || output.Holdings[0].Amount.String() != "1" {
		t.Fatalf("unexpected holdings: %+v", output.Holdings)
	}
	if repository.created[0].PrivateKeyWIF != testWIF {
		t.Fatalf("expected private key passed to repository")
	}
}

func TestImportPrivateKeyUseCaseRequiresSelectionWhenNoAssetFound(t *testing.T) {
	useCase := NewImportPrivateKeyUseCase(&fakeKeyParser{}, newFakeWalletAccountRepository(), emptyAssetLookup(), newTestCatalog())

	_, appErr := useCase.Execute(context.Background(), dto.ImportPrivateKeyCommand{WIF: testWIF})
	if appErr == nil || appErr.Code != "asset_selection_required" {
		t.Fatalf("expected asset_selection_required, got %+v", appErr)
	}
	selectable, ok := appErr.Details["selectable"].([]string)
	if !ok || fmt.Sprint(selectable) != "[BTC MT RMC]" {
		t.Fatalf("unexpected selectable list: %#v", appErr.Details["selectable"])
	}
}

func TestImportPrivateKeyUseCaseBitcoinSelectionCreatesSingleAddress(t *testing.T) {
	repository := newFakeWalletAccountRepository()
	useCase := NewImportPrivateKeyUseCase(&fakeKeyParser{}, repository, emptyAssetLookup(), newTestCatalog())

	output, appErr := useCase.Execute(context.Background(), dto.ImportPrivateKeyCommand{WIF: testWIF, AssetType: "btc"})
	if appErr != nil {
		t.Fatalf("expected no error, got %+v", appErr)
	}
	if output.Account.Kind != "single_address" || output.Account.Label != "BTC Single Address" {
		t.Fatalf("unexpected account: %+v", output.Account)
	}
}

func TestImportPrivateKeyUseCaseColoredSelectionUsesCatalog(t *testing.T) {
	repository := newFakeWalletAccountRepository()
	assets := emptyAssetLookup()
	assets.failures[testMainnetAddress] = true
	useCase := NewImportPrivateKeyUseCase(&fakeKeyParser{}, repository, assets, newTestCatalog())

	output, appErr := useCase.Execute(context.Background(), dto.ImportPrivateKeyCommand{WIF: testWIF, AssetType: "RMC"})
	if appErr != nil {
		t.Fatalf("expected no error, got %+v", appErr)
	}
	if output.Account.Kind != "colored" || *output.Account.AssetID != "asset-rmc" {
		t.Fatalf("unexpected account: %+v", output.Account)
	}

	_, appErr = useCase.Execute(context.Background(), dto.ImportPrivateKeyCommand{WIF: "other", AssetType: "MASS"})
	if appErr == nil || appErr.Code != "colored_asset_type_unavailable" {
		t.Fatalf("expected colored_asset_type_unavailable, got %+v", appErr)
	}
}

func TestImportPrivateKeyUseCaseUpgradesReadOnlyAccount(t *testing.T) {
	repository := newFakeWalletAccountRepository()
	repository.seed(valueobjects.AccountKindSingleAddressReadOnly, testMainnetAddress)
	assets := emptyAssetLookup()
	useCase := NewImportPrivateKeyUseCase(&fakeKeyParser{}, repository, assets, newTestCatalog())

	output, appErr := useCase.Execute(context.Background(), dto.ImportPrivateKeyCommand{WIF: testWIF})
	if appErr != nil {
		t.Fatalf("expected no error, got %+v", appErr)
	}
	if !output.Upgraded || output.Account.Kind != "single_address" || output.Account.ReadOnly {
		t.Fatalf("expected upgraded spendable account, got %+v", output)
	}
	if len(assets.lookups) != 0 {
		t.Fatalf("expected no asset lookup for upgrade")
	}
}

func TestImportPrivateKeyUseCaseRejectsExistingSpendableAccount(t *testing.T) {
	repository := newFakeWalletAccountRepository()
	repository.seed(valueobjects.AccountKindSingleAddress, testMainnetAddress)
	useCase := NewImportPrivateKeyUseCase(&fakeKeyParser{}, repository, emptyAssetLookup(), newTestCatalog())

	_, appErr := useCase.Execute(context.Background(), dto.ImportPrivateKeyCommand{WIF: testWIF})
	if appErr == nil || appErr.Code != "account_already_exists" {
		t.Fatalf("expected account_already_exists, got %+v", appErr)
	}
	if appErr.Details["label"] != "BTC Single Address" {
		t.Fatalf("expected kind label in details, got %+v", appErr.Details)
	}
}

func TestImportAddressUseCaseSingleAddressReadOnly(t *testing.T) {
	repository := newFakeWalletAccountRepository()
	assets := emptyAssetLookup()
	useCase := NewImportAddressUseCase(valueobjects.BitcoinNetworkMainnet, repository, assets, newTestCatalog())

	output, appErr := useCase.Execute(context.Background(), dto.ImportAddressCommand{Address: testMainnetAddress, AddressType: "sa"})
	if appErr != nil {
		t.Fatalf("expected no error, got %+v", appErr)
	}
	if output.Account.Kind != "single_address_read_only" || !output.Account.ReadOnly {
		t.Fatalf("unexpected account: %+v", output.Account)
	}
	if len(assets.lookups) != 0 {
		t.Fatalf("expected no asset lookup for sa import")
	}
}

func TestImportAddressUseCaseColuRequiresAsset(t *testing.T) {
	useCase := NewImportAddressUseCase(valueobjects.BitcoinNetworkMainnet, newFakeWalletAccountRepository(), emptyAssetLookup(), newTestCatalog())

	_, appErr := useCase.Execute(context.Background(), dto.ImportAddressCommand{Address: testMainnetAddress, AddressType: "colu"})
	if appErr == nil || appErr.Code != "colored_asset_not_found" {
		t.Fatalf("expected colored_asset_not_found, got %+v", appErr)
	}
}

func TestImportAddressUseCaseColuCreatesReadOnlyColoredAccount(t *testing.T) {
	assets := emptyAssetLookup()
	assets.holdings[testMainnetAddress] = []entities.ColoredAssetHolding{testHolding("asset-mt", valueobjects.ColoredAssetTypeMT)}
	useCase := NewImportAddressUseCase(valueobjects.BitcoinNetworkMainnet, newFakeWalletAccountRepository(), assets, newTestCatalog())

	output, appErr := useCase.Execute(context.Background(), dto.ImportAddressCommand{Address: testMainnetAddress, AddressType: "colu"})
	if appErr != nil {
		t.Fatalf("expected no error, got %+v", appErr)
	}
	if output.Account.Kind != "colored_read_only" || output.Account.Label != "MT" {
		t.Fatalf("unexpected account: %+v", output.Account)
	}
}

func TestImportAddressUseCaseUnknownTypeFallsBackToSelection(t *testing.T) {
	useCase := NewImportAddressUseCase(valueobjects.BitcoinNetworkMainnet, newFakeWalletAccountRepository(), emptyAssetLookup(), newTestCatalog())

	_, appErr := useCase.Execute(context.Background(), dto.ImportAddressCommand{Address: testMainnetAddress})
	if appErr == nil || appErr.Code != "asset_selection_required" {
		t.Fatalf("expected asset_selection_required, got %+v", appErr)
	}

	output, appErr := useCase.Execute(context.Background(), dto.ImportAddressCommand{Address: testMainnetAddress, AssetType: "MT"})
	if appErr != nil {
		t.Fatalf("expected no error, got %+v", appErr)
	}
	if output.Account.Kind != "colored_read_only" {
		t.Fatalf("expected colored_read_only, got %s", output.Account.Kind)
	}
}

func TestImportAddressUseCaseRejectsExistingAccountAndBadInput(t *testing.T) {
	repository := newFakeWalletAccountRepository()
	repository.seed(valueobjects.AccountKindSingleAddressReadOnly, testMainnetAddress)
	useCase := NewImportAddressUseCase(valueobjects.BitcoinNetworkMainnet, repository, emptyAssetLookup(), newTestCatalog())

	_, appErr := useCase.Execute(context.Background(), dto.ImportAddressCommand{Address: testMainnetAddress, AddressType: "sa"})
	if appErr == nil || appErr.Type != apperrors.TypeConflict {
		t.Fatalf("expected conflict, got %+v", appErr)
	}

	_, appErr = useCase.Execute(context.Background(), dto.ImportAddressCommand{Address: "not-an-address"})
	if appErr == nil || appErr.Code != "invalid_request" {
		t.Fatalf("expected invalid_request, got %+v", appErr)
	}

	_, appErr = useCase.Execute(context.Background(), dto.ImportAddressCommand{Address: testMainnetAddress, AddressType: "p2sh"})
	if appErr == nil || appErr.Code != "address_type_invalid" {
		t.Fatalf("expected address_type_invalid, got %+v", appErr)
	}
}

func TestListColoredAssetsUseCase(t *testing.T) {
	output, appErr := NewListColoredAssetsUseCase(newTestCatalog()).Execute(context.Background(), dto.ListColoredAssetsQuery{})
	if appErr != nil {
		t.Fatalf("expected no error, got %+v", appErr)
	}
	if len(output.Assets) != 2 || output.Assets[0].AssetID != "asset-mt" || output.Assets[1].Type != "RMC" {
		t.Fatalf("unexpected assets: %+v", output.Assets)
	}
}

func TestDiscoveryJobUseCasesRequireID(t *testing.T) {
	scheduler := &fakeScheduler{}
	if _, appErr := NewGetDiscoveryJobUseCase(scheduler).Execute(context.Background(), dto.DiscoveryJobQuery{JobID: " "}); appErr == nil {
		t.Fatalf("expected validation error for empty id")
	}

	view, appErr := NewCancelDiscoveryJobUseCase(scheduler).Execute(context.Background(), dto.DiscoveryJobQuery{JobID: "job-1"})
	if appErr != nil || view.Status != "canceled" {
		t.Fatalf("expected canceled view, got %+v / %+v", view, appErr)
	}

	view, appErr = NewRetryDiscoveryJobUseCase(scheduler).Execute(context.Background(), dto.DiscoveryJobQuery{JobID: "job-1"})
	if appErr != nil || view.RetryOf != "job-1" {
		t.Fatalf("expected retry view, got %+v / %+v", view, appErr)
	}
}

func emptyAssetLookup() *fakeAssetLookup {
	return &fakeAssetLookup{
		holdings: map[string][]entities.ColoredAssetHolding{},
		failures: map[string]bool{},
	}
}

func newTestCatalog() *fakeCatalog {
	return &fakeCatalog{definitions: []entities.ColoredAssetDefinition{
		{AssetID: "asset-mt", Type: valueobjects.ColoredAssetTypeMT, Name: "MT", Divisibility: 8, Enabled: true},
		{AssetID: "asset-rmc", Type: valueobjects.ColoredAssetTypeRMC, Name: "RMC", Divisibility: 4, Enabled: true},
	}}
}

type fakeCatalog struct {
	definitions []entities.ColoredAssetDefinition
}

func (f *fakeCatalog) ListEnabled(_ context.Context) ([]entities.ColoredAssetDefinition, *apperrors.AppError) {
	return f.definitions, nil
}

type fakeKeyParser struct {
	node portsout.HDKeyNode
}

func (f *fakeKeyParser) ParseExtendedKey(_ string) (portsout.HDKeyNode, *apperrors.AppError) {
	return f.node, nil
}

func (f *fakeKeyParser) ParsePrivateKey(wif string) (portsout.PrivateKeyMaterial, *apperrors.AppError) {
	address := testMainnetAddress
	if wif != testWIF {
		address = "addr-" + wif
	}
	return portsout.PrivateKeyMaterial{WIF: wif, Address: address}, nil
}

type fakeWalletAccountRepository struct {
	accounts map[string]entities.WalletAccount
	created  []dto.CreateWalletAccountCommand
}

func newFakeWalletAccountRepository() *fakeWalletAccountRepository {
	return &fakeWalletAccountRepository{accounts: map[string]entities.WalletAccount{}}
}

func (f *fakeWalletAccountRepository) seed(kind valueobjects.AccountKind, address string) {
	f.accounts[address] = entities.WalletAccount{
		ID:          "seeded",
		Kind:        kind,
		Address:     address,
		BackupState: valueobjects.BackupStateUnknown,
	}
}

func (f *fakeWalletAccountRepository) FindAccountIDByAddress(_ context.Context, address string) (string, bool, *apperrors.AppError) {
	account, ok := f.accounts[address]
	return account.ID, ok, nil
}

func (f *fakeWalletAccountRepository) FindByAddress(_ context.Context, address string) (entities.WalletAccount, bool, *apperrors.AppError) {
	account, ok := f.accounts[address]
	return account, ok, nil
}

func (f *fakeWalletAccountRepository) EnableAsset(ctx context.Context, command dto.MaterializeColoredAccountCommand) (dto.MaterializedColoredAccount, *apperrors.AppError) {
	account, appErr := f.Create(ctx, dto.CreateWalletAccountCommand{
		Kind:          valueobjects.AccountKindColored,
		Address:       command.Address,
		Asset:         &command.Asset,
		PrivateKeyWIF: command.PrivateKeyWIF,
	})
	if appErr != nil {
		return dto.MaterializedColoredAccount{}, appErr
	}
	return dto.MaterializedColoredAccount{AccountID: account.ID, Created: true}, nil
}

func (f *fakeWalletAccountRepository) Create(_ context.Context, command dto.CreateWalletAccountCommand) (entities.WalletAccount, *apperrors.AppError) {
	f.created = append(f.created, command)
	account, appErr := entities.NewWalletAccount(entities.NewWalletAccountInput{
		ID:          fmt.Sprintf("wa-%d", len(f.created)),
		Kind:        command.Kind,
		Address:     command.Address,
		Asset:       command.Asset,
		HasKey:      command.PrivateKeyWIF != "" || command.ExtendedKey != "",
		BackupState: command.BackupState,
		CreatedAt:   time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC),
	})
	if appErr != nil {
		return entities.WalletAccount{}, appErr
	}
	if command.Address != "" {
		f.accounts[command.Address] = account
	}
	return account, nil
}

func (f *fakeWalletAccountRepository) AttachPrivateKey(_ context.Context, accountID string, _ string) (entities.WalletAccount, *apperrors.AppError) {
	for address, account := range f.accounts {
		if account.ID == accountID {
			account.Kind = account.Kind.SpendableCounterpart()
			account.HasKey = true
			f.accounts[address] = account
			return account, nil
		}
	}
	return entities.WalletAccount{}, apperrors.NewNotFound("wallet_account_not_found", "missing", nil)
}

type fakeScheduler struct {
	scheduled    []portsout.HDKeyNode
	callbackURLs []string
}

func (f *fakeScheduler) Schedule(_ context.Context, root portsout.HDKeyNode, callbackURL string) (dto.DiscoveryJobView, *apperrors.AppError) {
	f.scheduled = append(f.scheduled, root)
	f.callbackURLs = append(f.callbackURLs, callbackURL)
	return dto.DiscoveryJobView{ID: "job-1", RootIdentifier: root.Identifier(), Status: "queued"}, nil
}

func (f *fakeScheduler) Get(_ context.Context, jobID string) (dto.DiscoveryJobView, *apperrors.AppError) {
	return dto.DiscoveryJobView{ID: jobID, Status: "running"}, nil
}

func (f *fakeScheduler) Cancel(_ context.Context, jobID string) (dto.DiscoveryJobView, *apperrors.AppError) {
	return dto.DiscoveryJobView{ID: jobID, Status: "canceled"}, nil
}

func (f *fakeScheduler) Retry(_ context.Context, jobID string) (dto.DiscoveryJobView, *apperrors.AppError) {
	return dto.DiscoveryJobView{ID: "job-2", Status: "queued", RetryOf: jobID}, nil
}
