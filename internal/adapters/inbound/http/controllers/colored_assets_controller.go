package controllers

import (
	"log"
	"net/http"

	"cocoscan/internal/application/dto"
	portsin "cocoscan/internal/application/ports/in"
)

type ColoredAssetsController struct {
	useCase portsin.ListColoredAssetsUseCase
	logger  *log.Logger
}

func NewColoredAssetsController(useCase portsin.ListColoredAssetsUseCase, logger *log.Logger) *ColoredAssetsController {
	return &ColoredAssetsController{useCase: useCase, logger: logger}
}

func (c *ColoredAssetsController) ListColoredAssets(w http.ResponseWriter, r *http.Request) {
	output, appErr := c.useCase.Execute(r.Context(), dto.ListColoredAssetsQuery{})
	if appErr != nil {
		logRequestError(c.logger, "/v1/colored-assets", r, appErr)
		writeAppError(w, appErr)
		return
	}

	writeJSON(w, http.StatusOK, output)
}
