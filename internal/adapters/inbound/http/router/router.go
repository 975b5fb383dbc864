package router

import (
	"net/http"

	"cocoscan/internal/adapters/inbound/http/controllers"
)

type Dependencies struct {
	HealthController        *controllers.HealthController
	SwaggerController       *controllers.SwaggerController
	ColoredAssetsController *controllers.ColoredAssetsController
	ImportsController       *controllers.ImportsController
	DiscoveriesController   *controllers.DiscoveriesController
	MetricsHandler          http.Handler
}

func New(deps Dependencies) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", deps.HealthController.GetHealth)
	if deps.MetricsHandler != nil {
		mux.Handle("GET /metrics", deps.MetricsHandler)
	}
	mux.HandleFunc("GET /swagger", deps.SwaggerController.RedirectToIndex)
	mux.HandleFunc("GET /swagger/openapi.yaml", deps.SwaggerController.GetOpenAPISpec)
	mux.HandleFunc("GET /swagger/", deps.SwaggerController.ServeUI)

	mux.HandleFunc("GET /v1/colored-assets", deps.ColoredAssetsController.ListColoredAssets)
	mux.HandleFunc("POST /v1/hd-nodes", deps.ImportsController.ImportHDNode)
	mux.HandleFunc("POST /v1/private-keys", deps.ImportsController.ImportPrivateKey)
	mux.HandleFunc("POST /v1/addresses", deps.ImportsController.ImportAddress)
	mux.HandleFunc("GET /v1/discoveries/{id}", deps.DiscoveriesController.GetDiscovery)
	mux.HandleFunc("DELETE /v1/discoveries/{id}", deps.DiscoveriesController.CancelDiscovery)
	mux.HandleFunc("POST /v1/discoveries/{id}/retry", deps.DiscoveriesController.RetryDiscovery)

	return mux
}
