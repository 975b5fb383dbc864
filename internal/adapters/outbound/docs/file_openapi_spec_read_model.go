package docs

import (
	"context"
	"os"

	"cocoscan/internal/application/dto"
	portsout "cocoscan/internal/application/ports/out"
	apperrors "cocoscan/internal/shared_kernel/errors"
)

const openAPIContentType = "application/yaml; charset=utf-8"

// FileOpenAPISpecReadModel serves the API document from disk on every read
// so edits show up without a restart.
type FileOpenAPISpecReadModel struct {
	path string
}

var _ portsout.OpenAPISpecReadModel = (*FileOpenAPISpecReadModel)(nil)

func NewFileOpenAPISpecReadModel(path string) *FileOpenAPISpecReadModel {
	return &FileOpenAPISpecReadModel{path: path}
}

func (r *FileOpenAPISpecReadModel) Read(_ context.Context) (dto.OpenAPISpecOutput, *apperrors.AppError) {
	content, err := os.ReadFile(r.path)
	if err != nil {
		return dto.OpenAPISpecOutput{}, apperrors.NewInternal(
			"openapi_spec_read_failed",
			"failed to read OpenAPI document",
			map[string]any{"path": r.path, "error": err.Error()},
		)
	}
	if len(content) == 0 {
		return dto.OpenAPISpecOutput{}, apperrors.NewInternal(
			"openapi_spec_empty",
			"OpenAPI document is empty",
			map[string]any{"path": r.path},
		)
	}

	return dto.OpenAPISpecOutput{Content: content, ContentType: openAPIContentType}, nil
}
