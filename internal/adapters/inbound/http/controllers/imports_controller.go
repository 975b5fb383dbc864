package controllers

import (
	"log"
	"net/http"

	"cocoscan/internal/application/dto"
	portsin "cocoscan/internal/application/ports/in"
)

// ImportsController accepts key and address material and turns it into
// wallet accounts or discovery jobs.
type ImportsController struct {
	hdNodeUseCase     portsin.ImportHDNodeUseCase
	privateKeyUseCase portsin.ImportPrivateKeyUseCase
	addressUseCase    portsin.ImportAddressUseCase
	logger            *log.Logger
}

type importHDNodePayload struct {
	ExtendedKey string `json:"extended_key"`
	CallbackURL string `json:"callback_url,omitempty"`
}

type importPrivateKeyPayload struct {
	WIF       string `json:"wif"`
	AssetType string `json:"asset_type,omitempty"`
}

type importAddressPayload struct {
	Address     string `json:"address"`
	AddressType string `json:"address_type,omitempty"`
	AssetType   string `json:"asset_type,omitempty"`
}

func NewImportsController(
	hdNodeUseCase portsin.ImportHDNodeUseCase,
	privateKeyUseCase portsin.ImportPrivateKeyUseCase,
	addressUseCase portsin.ImportAddressUseCase,
	logger *log.Logger,
) *ImportsController {
	return &ImportsController{
		hdNodeUseCase:     hdNodeUseCase,
		privateKeyUseCase: privateKeyUseCase,
		addressUseCase:    addressUseCase,
		logger:            logger,
	}
}

// ImportHDNode answers 201 with the stored account for account level keys
// and 202 with the scheduled job for master keys.
func (c *ImportsController) ImportHDNode(w http.ResponseWriter, r *http.Request) {
	payload := importHDNodePayload{}
	if appErr := decodeJSONBody(r, &payload); appErr != nil {
		writeAppError(w, appErr)
		return
	}

	output, appErr := c.hdNodeUseCase.Execute(r.Context(), dto.ImportHDNodeCommand{
		ExtendedKey: payload.ExtendedKey,
		CallbackURL: payload.CallbackURL,
	})
	if appErr != nil {
		logRequestError(c.logger, "/v1/hd-nodes", r, appErr)
		writeAppError(w, appErr)
		return
	}

	if output.Discovery != nil {
		w.Header().Set("Location", "/v1/discoveries/"+output.Discovery.ID)
		writeJSON(w, http.StatusAccepted, output)
		return
	}
	writeJSON(w, http.StatusCreated, output)
}

func (c *ImportsController) ImportPrivateKey(w http.ResponseWriter, r *http.Request) {
	payload := importPrivateKeyPayload{}
	if appErr := decodeJSONBody(r, &payload); appErr != nil {
		writeAppError(w, appErr)
		return
	}

	output, appErr := c.privateKeyUseCase.Execute(r.Context(), dto.ImportPrivateKeyCommand{
		WIF:       payload.WIF,
		AssetType: payload.AssetType,
	})
	if appErr != nil {
		logRequestError(c.logger, "/v1/private-keys", r, appErr)
		writeAppError(w, appErr)
		return
	}

	writeImportedAccount(w, output)
}

func (c *ImportsController) ImportAddress(w http.ResponseWriter, r *http.Request) {
	payload := importAddressPayload{}
	if appErr := decodeJSONBody(r, &payload); appErr != nil {
		writeAppError(w, appErr)
		return
	}

	output, appErr := c.addressUseCase.Execute(r.Context(), dto.ImportAddressCommand{
		Address:     payload.Address,
		AddressType: payload.AddressType,
		AssetType:   payload.AssetType,
	})
	if appErr != nil {
		logRequestError(c.logger, "/v1/addresses", r, appErr)
		writeAppError(w, appErr)
		return
	}

	writeImportedAccount(w, output)
}

// An upgraded read-only account already existed, so it is not a creation.
func writeImportedAccount(w http.ResponseWriter, output dto.ImportAccountOutput) {
	if output.Upgraded {
		writeJSON(w, http.StatusOK, output)
		return
	}
	writeJSON(w, http.StatusCreated, output)
}
