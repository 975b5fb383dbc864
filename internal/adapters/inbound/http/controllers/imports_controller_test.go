package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"cocoscan/internal/application/dto"
	apperrors "cocoscan/internal/shared_kernel/errors"
)

func TestImportsControllerImportHDNodeAccountCreated(t *testing.T) {
	hdNode := &stubImportHDNodeUseCase{
		output: dto.ImportHDNodeOutput{Account: &dto.WalletAccountView{ID: "acc-1", Kind: "bip44"}},
	}
	controller := newTestImportsController(hdNode, &stubImportPrivateKeyUseCase{}, &stubImportAddressUseCase{})

	req := httptest.NewRequest(http.MethodPost, "/v1/hd-nodes", bytes.NewBufferString(`{"extended_key":"xprv-account"}`))
	rec := httptest.NewRecorder()
	controller.ImportHDNode(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	if hdNode.command.ExtendedKey != "xprv-account" {
		t.Fatalf("expected extended key to reach use case, got %q", hdNode.command.ExtendedKey)
	}
}

func TestImportsControllerImportHDNodeDiscoveryAccepted(t *testing.T) {
	hdNode := &stubImportHDNodeUseCase{
		output: dto.ImportHDNodeOutput{Discovery: &dto.DiscoveryJobView{ID: "disc_1", Status: "queued"}},
	}
	controller := newTestImportsController(hdNode, &stubImportPrivateKeyUseCase{}, &stubImportAddressUseCase{})

	body := bytes.NewBufferString(`{"extended_key":"xprv-master","callback_url":"https://example.com/hook"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/hd-nodes", body)
	rec := httptest.NewRecorder()
	controller.ImportHDNode(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected status 202, got %d body=%s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("Location") != "/v1/discoveries/disc_1" {
		t.Fatalf("expected Location header for the job, got %q", rec.Header().Get("Location"))
	}
	if hdNode.command.CallbackURL != "https://example.com/hook" {
		t.Fatalf("expected callback url to reach use case, got %q", hdNode.command.CallbackURL)
	}
}

func TestImportsControllerImportHDNodeRejectsUnknownFields(t *testing.T) {
	controller := newTestImportsController(&stubImportHDNodeUseCase{}, &stubImportPrivateKeyUseCase{}, &stubImportAddressUseCase{})

	req := httptest.NewRequest(http.MethodPost, "/v1/hd-nodes", bytes.NewBufferString(`{"xprv":"x"}`))
	rec := httptest.NewRecorder()
	controller.ImportHDNode(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d body=%s", rec.Code, rec.Body.String())
	}
	assertErrorCode(t, rec, "invalid_request")
}

func TestImportsControllerImportHDNodeRejectsTrailingData(t *testing.T) {
	controller := newTestImportsController(&stubImportHDNodeUseCase{}, &stubImportPrivateKeyUseCase{}, &stubImportAddressUseCase{})

	req := httptest.NewRequest(http.MethodPost, "/v1/hd-nodes", bytes.NewBufferString(`{"extended_key":"x"}{}`))
	rec := httptest.NewRecorder()
	controller.ImportHDNode(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestImportsControllerImportHDNodeMapsValidationError(t *testing.T) {
	hdNode := &stubImportHDNodeUseCase{
		appErr: apperrors.NewValidation("xpub_should_be_xpriv", "provide the private key", nil),
	}
	controller := newTestImportsController(hdNode, &stubImportPrivateKeyUseCase{}, &stubImportAddressUseCase{})

	req := httptest.NewRequest(http.MethodPost, "/v1/hd-nodes", bytes.NewBufferString(`{"extended_key":"xpub"}`))
	rec := httptest.NewRecorder()
	controller.ImportHDNode(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d body=%s", rec.Code, rec.Body.String())
	}
	assertErrorCode(t, rec, "xpub_should_be_xpriv")
}

func TestImportsControllerImportHDNodeMapsRunningConflict(t *testing.T) {
	hdNode := &stubImportHDNodeUseCase{
		appErr: apperrors.NewConflict("discovery_already_running", "a discovery is already running", nil),
	}
	controller := newTestImportsController(hdNode, &stubImportPrivateKeyUseCase{}, &stubImportAddressUseCase{})

	req := httptest.NewRequest(http.MethodPost, "/v1/hd-nodes", bytes.NewBufferString(`{"extended_key":"xprv"}`))
	rec := httptest.NewRecorder()
	controller.ImportHDNode(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestImportsControllerImportPrivateKeyCreated(t *testing.T) {
	privateKey := &stubImportPrivateKeyUseCase{
		output: dto.ImportAccountOutput{Account: dto.WalletAccountView{ID: "acc-1", Kind: "colored"}},
	}
	controller := newTestImportsController(&stubImportHDNodeUseCase{}, privateKey, &stubImportAddressUseCase{})

	body := bytes.NewBufferString(`{"wif":"KwDiBf89QgGbjEhKnhXJuH7LrciVrZi3qYjgd9M7rFU73sVHnoWn","asset_type":"MT"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/private-keys", body)
	rec := httptest.NewRecorder()
	controller.ImportPrivateKey(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	if privateKey.command.AssetType != "MT" {
		t.Fatalf("expected asset type MT, got %q", privateKey.command.AssetType)
	}
}

func TestImportsControllerImportPrivateKeyUpgradedReturnsOK(t *testing.T) {
	privateKey := &stubImportPrivateKeyUseCase{
		output: dto.ImportAccountOutput{Account: dto.WalletAccountView{ID: "acc-1", Kind: "single_address"}, Upgraded: true},
	}
	controller := newTestImportsController(&stubImportHDNodeUseCase{}, privateKey, &stubImportAddressUseCase{})

	req := httptest.NewRequest(http.MethodPost, "/v1/private-keys", bytes.NewBufferString(`{"wif":"K"}`))
	rec := httptest.NewRecorder()
	controller.ImportPrivateKey(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestImportsControllerImportAddressSelectionRequired(t *testing.T) {
	address := &stubImportAddressUseCase{
		appErr: apperrors.NewValidation(
			"asset_selection_required",
			"choose an asset type",
			map[string]any{"selectable": []string{"BTC", "MT"}},
		),
	}
	controller := newTestImportsController(&stubImportHDNodeUseCase{}, &stubImportPrivateKeyUseCase{}, address)

	body := bytes.NewBufferString(`{"address":"1BgGZ9tcN4rm9KBzDn7KprQz87SZ26SAMH","address_type":"unknown"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/addresses", body)
	rec := httptest.NewRecorder()
	controller.ImportAddress(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d body=%s", rec.Code, rec.Body.String())
	}
	assertErrorCode(t, rec, "asset_selection_required")
	if address.command.AddressType != "unknown" {
		t.Fatalf("expected address type to reach use case, got %q", address.command.AddressType)
	}
}

func TestImportsControllerImportAddressCreated(t *testing.T) {
	address := &stubImportAddressUseCase{
		output: dto.ImportAccountOutput{Account: dto.WalletAccountView{ID: "acc-2", Kind: "single_address_read_only", ReadOnly: true}},
	}
	controller := newTestImportsController(&stubImportHDNodeUseCase{}, &stubImportPrivateKeyUseCase{}, address)

	body := bytes.NewBufferString(`{"address":"1BgGZ9tcN4rm9KBzDn7KprQz87SZ26SAMH","address_type":"sa"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/addresses", body)
	rec := httptest.NewRecorder()
	controller.ImportAddress(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d body=%s", rec.Code, rec.Body.String())
	}

	var payload dto.ImportAccountOutput
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("expected valid json: %v", err)
	}
	if !payload.Account.ReadOnly {
		t.Fatalf("expected read only account in response")
	}
}

func newTestImportsController(
	hdNode *stubImportHDNodeUseCase,
	privateKey *stubImportPrivateKeyUseCase,
	address *stubImportAddressUseCase,
) *ImportsController {
	return NewImportsController(hdNode, privateKey, address, log.New(io.Discard, "", 0))
}

func assertErrorCode(t *testing.T, rec *httptest.ResponseRecorder, expected string) {
	t.Helper()

	var payload errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("expected valid json error body: %v", err)
	}
	if payload.Error.Code != expected {
		t.Fatalf("expected error code %s, got %s", expected, payload.Error.Code)
	}
}

type stubImportHDNodeUseCase struct {
	command dto.ImportHDNodeCommand
	output  dto.ImportHDNodeOutput
	appErr  *apperrors.AppError
}

func (s *stubImportHDNodeUseCase) Execute(_ context.Context, command dto.ImportHDNodeCommand) (dto.ImportHDNodeOutput, *apperrors.AppError) {
	s.command = command
	return s.output, s.appErr
}

type stubImportPrivateKeyUseCase struct {
	command dto.ImportPrivateKeyCommand
	output  dto.ImportAccountOutput
	appErr  *apperrors.AppError
}

func (s *stubImportPrivateKeyUseCase) Execute(_ context.Context, command dto.ImportPrivateKeyCommand) (dto.ImportAccountOutput, *apperrors.AppError) {
	s.command = command
	return s.output, s.appErr
}

type stubImportAddressUseCase struct {
	command dto.ImportAddressCommand
	output  dto.ImportAccountOutput
	appErr  *apperrors.AppError
}

func (s *stubImportAddressUseCase) Execute(_ context.Context, command dto.ImportAddressCommand) (dto.ImportAccountOutput, *apperrors.AppError) {
	s.command = command
	return s.output, s.appErr
}
