package use_cases

import (
	"context"
	"strings"

	"cocoscan/internal/application/dto"
	portsin "cocoscan/internal/application/ports/in"
	portsout "cocoscan/internal/application/ports/out"
	valueobjects "cocoscan/internal/domain/value_objects"
	apperrors "cocoscan/internal/shared_kernel/errors"
)

const bip44AccountDepth = 3

type importHDNodeUseCase struct {
	parser     portsout.HDKeyParser
	repository portsout.WalletAccountRepository
	scheduler  portsout.DiscoveryJobScheduler
}

func NewImportHDNodeUseCase(
	parser portsout.HDKeyParser,
	repository portsout.WalletAccountRepository,
	scheduler portsout.DiscoveryJobScheduler,
) portsin.ImportHDNodeUseCase {
	return &importHDNodeUseCase{
		parser:     parser,
		repository: repository,
		scheduler:  scheduler,
	}
}

// Execute routes an extended key on its depth: account level keys become a
// plain BIP44 account, a private master key starts a colored account
// discovery.
func (u *importHDNodeUseCase) Execute(
	ctx context.Context,
	command dto.ImportHDNodeCommand,
) (dto.ImportHDNodeOutput, *apperrors.AppError) {
	if u.parser == nil || u.repository == nil || u.scheduler == nil {
		return dto.ImportHDNodeOutput{}, apperrors.NewInternal(
			"import_hd_node_dependencies_missing",
			"key parser, account repository and discovery scheduler are required",
			nil,
		)
	}
	if strings.TrimSpace(command.ExtendedKey) == "" {
		return dto.ImportHDNodeOutput{}, apperrors.NewValidation(
			"invalid_request",
			"extended_key is required",
			map[string]any{"field": "extended_key"},
		)
	}

	callbackURL := ""
	if strings.TrimSpace(command.CallbackURL) != "" {
		normalized, appErr := valueobjects.NormalizeCallbackURL(command.CallbackURL)
		if appErr != nil {
			return dto.ImportHDNodeOutput{}, appErr
		}
		callbackURL = normalized
	}

	node, appErr := u.parser.ParseExtendedKey(command.ExtendedKey)
	if appErr != nil {
		return dto.ImportHDNodeOutput{}, appErr
	}

	switch node.Depth() {
	case bip44AccountDepth:
		serialized, appErr := node.Serialize()
		if appErr != nil {
			return dto.ImportHDNodeOutput{}, appErr
		}
		account, appErr := u.repository.Create(ctx, dto.CreateWalletAccountCommand{
			Kind:        valueobjects.AccountKindBIP44,
			ExtendedKey: serialized,
			BackupState: valueobjects.BackupStateIgnored,
		})
		if appErr != nil {
			return dto.ImportHDNodeOutput{}, appErr
		}
		view := dto.NewWalletAccountView(account)
		return dto.ImportHDNodeOutput{Account: &view}, nil
	case 0:
		if !node.IsPrivate() {
			return dto.ImportHDNodeOutput{}, apperrors.NewValidation(
				"xpub_should_be_xpriv",
				"a master public key cannot be scanned for colored accounts; provide the private key",
				nil,
			)
		}
		job, appErr := u.scheduler.Schedule(ctx, node, callbackURL)
		if appErr != nil {
			return dto.ImportHDNodeOutput{}, appErr
		}
		return dto.ImportHDNodeOutput{Discovery: &job}, nil
	default:
		return dto.ImportHDNodeOutput{}, apperrors.NewValidation(
			"hd_node_depth_unsupported",
			"only master keys (depth 0) and BIP44 account keys (depth 3) can be imported",
			map[string]any{"depth": node.Depth()},
		)
	}
}
