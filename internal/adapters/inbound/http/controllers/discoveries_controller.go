package controllers

import (
	"log"
	"net/http"

	"cocoscan/internal/application/dto"
	portsin "cocoscan/internal/application/ports/in"
)

type DiscoveriesController struct {
	getUseCase    portsin.GetDiscoveryJobUseCase
	cancelUseCase portsin.CancelDiscoveryJobUseCase
	retryUseCase  portsin.RetryDiscoveryJobUseCase
	logger        *log.Logger
}

func NewDiscoveriesController(
	getUseCase portsin.GetDiscoveryJobUseCase,
	cancelUseCase portsin.CancelDiscoveryJobUseCase,
	retryUseCase portsin.RetryDiscoveryJobUseCase,
	logger *log.Logger,
) *DiscoveriesController {
	return &DiscoveriesController{
		getUseCase:    getUseCase,
		cancelUseCase: cancelUseCase,
		retryUseCase:  retryUseCase,
		logger:        logger,
	}
}

func (c *DiscoveriesController) GetDiscovery(w http.ResponseWriter, r *http.Request) {
	view, appErr := c.getUseCase.Execute(r.Context(), dto.DiscoveryJobQuery{JobID: r.PathValue("id")})
	if appErr != nil {
		logRequestError(c.logger, "/v1/discoveries/{id}", r, appErr)
		writeAppError(w, appErr)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

func (c *DiscoveriesController) CancelDiscovery(w http.ResponseWriter, r *http.Request) {
	view, appErr := c.cancelUseCase.Execute(r.Context(), dto.DiscoveryJobQuery{JobID: r.PathValue("id")})
	if appErr != nil {
		logRequestError(c.logger, "/v1/discoveries/{id}", r, appErr)
		writeAppError(w, appErr)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

func (c *DiscoveriesController) RetryDiscovery(w http.ResponseWriter, r *http.Request) {
	view, appErr := c.retryUseCase.Execute(r.Context(), dto.DiscoveryJobQuery{JobID: r.PathValue("id")})
	if appErr != nil {
		logRequestError(c.logger, "/v1/discoveries/{id}/retry", r, appErr)
		writeAppError(w, appErr)
		return
	}

	w.Header().Set("Location", "/v1/discoveries/"+view.ID)
	writeJSON(w, http.StatusAccepted, view)
}
