package use_cases

import (
	"context"

	"cocoscan/internal/application/dto"
	portsin "cocoscan/internal/application/ports/in"
	portsout "cocoscan/internal/application/ports/out"
	apperrors "cocoscan/internal/shared_kernel/errors"
)

const defaultOpenAPIContentType = "application/yaml; charset=utf-8"

type getOpenAPISpecUseCase struct {
	readModel portsout.OpenAPISpecReadModel
}

func NewGetOpenAPISpecUseCase(readModel portsout.OpenAPISpecReadModel) portsin.GetOpenAPISpecUseCase {
	return &getOpenAPISpecUseCase{readModel: readModel}
}

func (u *getOpenAPISpecUseCase) Execute(ctx context.Context, _ dto.GetOpenAPISpecQuery) (dto.OpenAPISpecOutput, *apperrors.AppError) {
	if u.readModel == nil {
		return dto.OpenAPISpecOutput{}, apperrors.NewInternal(
			"openapi_spec_read_model_missing",
			"OpenAPI read model is required",
			nil,
		)
	}

	output, appErr := u.readModel.Read(ctx)
	if appErr != nil {
		return dto.OpenAPISpecOutput{}, appErr
	}
	if output.ContentType == "" {
		output.ContentType = defaultOpenAPIContentType
	}
	return output, nil
}
