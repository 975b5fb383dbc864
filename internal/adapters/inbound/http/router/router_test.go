package router

import (
	"bytes"
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cocoscan/internal/adapters/inbound/http/controllers"
	"cocoscan/internal/adapters/outbound/docs"
	"cocoscan/internal/application/dto"
	portsout "cocoscan/internal/application/ports/out"
	"cocoscan/internal/application/use_cases"
	"cocoscan/internal/domain/entities"
	valueobjects "cocoscan/internal/domain/value_objects"
	"cocoscan/internal/infrastructure/metrics"
	apperrors "cocoscan/internal/shared_kernel/errors"
)

func TestRouterHealthAndSwaggerRoutes(t *testing.T) {
	openAPISpecPath := writeTempOpenAPISpec(t)
	mux := newTestRouter(openAPISpecPath)

	t.Run("healthz returns 200", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		rec := httptest.NewRecorder()

		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
			t.Fatalf("expected body to contain status ok, got %s", rec.Body.String())
		}
	})

	t.Run("swagger root redirects to index", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/swagger", nil)
		rec := httptest.NewRecorder()

		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusTemporaryRedirect {
			t.Fatalf("expected status %d, got %d", http.StatusTemporaryRedirect, rec.Code)
		}
		if location := rec.Header().Get("Location"); location != "/swagger/index.html" {
			t.Fatalf("expected redirect location /swagger/index.html, got %q", location)
		}
	})

	t.Run("swagger UI index is served", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
		rec := httptest.NewRecorder()

		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		if contentType := rec.Header().Get("Content-Type"); !strings.Contains(contentType, "text/html") {
			t.Fatalf("expected text/html content type, got %q", contentType)
		}
	})

	t.Run("openapi spec is served", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/swagger/openapi.yaml", nil)
		rec := httptest.NewRecorder()

		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "openapi: 3.0.3") {
			t.Fatalf("expected openapi version 3.0.3 in body, got %s", rec.Body.String())
		}
	})

	t.Run("metrics are exposed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		rec := httptest.NewRecorder()

		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "cocoscan_discovery_jobs_running") {
			t.Fatalf("expected discovery gauge in exposition, got %s", rec.Body.String())
		}
	})
}

func TestRouterDomainRoutes(t *testing.T) {
	mux := newTestRouter(writeTempOpenAPISpec(t))

	t.Run("colored assets route returns 200", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/colored-assets", nil)
		rec := httptest.NewRecorder()

		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `"assets"`) {
			t.Fatalf("expected assets payload, got %s", rec.Body.String())
		}
	})

	t.Run("hd node import schedules a discovery", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/hd-nodes", bytes.NewBufferString(`{"extended_key":"xprv-master"}`))
		rec := httptest.NewRecorder()

		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusAccepted {
			t.Fatalf("expected status 202, got %d body=%s", rec.Code, rec.Body.String())
		}
	})

	t.Run("discovery status route resolves the id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/discoveries/disc_test", nil)
		rec := httptest.NewRecorder()

		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d body=%s", rec.Code, rec.Body.String())
		}
		if !strings.Contains(rec.Body.String(), `"id":"disc_test"`) {
			t.Fatalf("expected discovery id in body, got %s", rec.Body.String())
		}
	})
}

func TestRouterHealthzRejectsNonGET(t *testing.T) {
	mux := newTestRouter(writeTempOpenAPISpec(t))

	req := httptest.NewRequest(http.MethodPost, "/healthz", nil)
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	if rec.Code == http.StatusOK {
		t.Fatalf("expected non-200 status for POST /healthz, got %d", rec.Code)
	}
}

func TestRouterDiscoveriesRejectsPut(t *testing.T) {
	mux := newTestRouter(writeTempOpenAPISpec(t))

	req := httptest.NewRequest(http.MethodPut, "/v1/discoveries/disc_test", nil)
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rec.Code)
	}
}

func newTestRouter(openAPISpecPath string) *http.ServeMux {
	logger := log.New(io.Discard, "", 0)

	openAPIUseCase := use_cases.NewGetOpenAPISpecUseCase(docs.NewFileOpenAPISpecReadModel(openAPISpecPath))
	scheduler := stubScheduler{}

	return New(Dependencies{
		HealthController:  controllers.NewHealthController(use_cases.NewGetHealthUseCase(valueobjects.BitcoinNetworkMainnet, nil), logger),
		SwaggerController: controllers.NewSwaggerController(openAPIUseCase, logger),
		ColoredAssetsController: controllers.NewColoredAssetsController(
			use_cases.NewListColoredAssetsUseCase(stubCatalogReadModel{}),
			logger,
		),
		ImportsController: controllers.NewImportsController(
			stubImportHDNodeUseCase{},
			stubImportPrivateKeyUseCase{},
			stubImportAddressUseCase{},
			logger,
		),
		DiscoveriesController: controllers.NewDiscoveriesController(
			use_cases.NewGetDiscoveryJobUseCase(scheduler),
			use_cases.NewCancelDiscoveryJobUseCase(scheduler),
			use_cases.NewRetryDiscoveryJobUseCase(scheduler),
			logger,
		),
		MetricsHandler: metrics.NewRecorder().Handler(),
	})
}

func writeTempOpenAPISpec(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "openapi.yaml")

	content := []byte("openapi: 3.0.3\ninfo:\n  title: test\n  version: 1.0.0\npaths:\n  /healthz:\n    get:\n      responses:\n        '200':\n          description: ok\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("failed to write temp openapi file: %v", err)
	}

	return path
}

type stubCatalogReadModel struct{}

func (stubCatalogReadModel) ListEnabled(context.Context) ([]entities.ColoredAssetDefinition, *apperrors.AppError) {
	return []entities.ColoredAssetDefinition{}, nil
}

type stubImportHDNodeUseCase struct{}

func (stubImportHDNodeUseCase) Execute(context.Context, dto.ImportHDNodeCommand) (dto.ImportHDNodeOutput, *apperrors.AppError) {
	return dto.ImportHDNodeOutput{Discovery: &dto.DiscoveryJobView{ID: "disc_test", Status: "queued"}}, nil
}

type stubImportPrivateKeyUseCase struct{}

func (stubImportPrivateKeyUseCase) Execute(context.Context, dto.ImportPrivateKeyCommand) (dto.ImportAccountOutput, *apperrors.AppError) {
	return dto.ImportAccountOutput{}, nil
}

type stubImportAddressUseCase struct{}

func (stubImportAddressUseCase) Execute(context.Context, dto.ImportAddressCommand) (dto.ImportAccountOutput, *apperrors.AppError) {
	return dto.ImportAccountOutput{}, nil
}

type stubScheduler struct{}

func (stubScheduler) Schedule(context.Context, portsout.HDKeyNode, string) (dto.DiscoveryJobView, *apperrors.AppError) {
	return dto.DiscoveryJobView{}, nil
}

func (stubScheduler) Get(_ context.Context, jobID string) (dto.DiscoveryJobView, *apperrors.AppError) {
	return dto.DiscoveryJobView{ID: jobID, Status: "running"}, nil
}

func (stubScheduler) Cancel(_ context.Context, jobID string) (dto.DiscoveryJobView, *apperrors.AppError) {
	return dto.DiscoveryJobView{ID: jobID, Status: "canceled"}, nil
}

func (stubScheduler) Retry(_ context.Context, jobID string) (dto.DiscoveryJobView, *apperrors.AppError) {
	return dto.DiscoveryJobView{ID: jobID + "_retry", Status: "queued"}, nil
}
