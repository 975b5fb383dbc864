package colu

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type addressInfo struct {
	Address string `json:"address"`
	UTXOs   []utxo `json:"utxos"`
}

type utxo struct {
	TxID   string      `json:"txid"`
	Index  uint32      `json:"index"`
	Value  int64       `json:"value"`
	Assets []utxoAsset `json:"assets"`
}

type utxoAsset struct {
	AssetID      string `json:"assetId"`
	Amount       int64  `json:"amount"`
	Divisibility int32  `json:"divisibility"`
}

type unexpectedStatusError struct {
	statusCode int
}

func (e *unexpectedStatusError) Error() string {
	return fmt.Sprintf("colored asset explorer returned status %d", e.statusCode)
}

type addressInfoClient struct {
	baseURL     string
	httpClient  *http.Client
	httpTimeout time.Duration
}

func newAddressInfoClient(baseURL string, httpClient *http.Client, httpTimeout time.Duration) *addressInfoClient {
	return &addressInfoClient{
		baseURL:     strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient:  httpClient,
		httpTimeout: httpTimeout,
	}
}

// fetch returns an empty result for addresses the explorer has never seen.
func (c *addressInfoClient) fetch(ctx context.Context, address string) (addressInfo, error) {
	if c.baseURL == "" {
		return addressInfo{}, fmt.Errorf("colored asset explorer base url is not configured")
	}

	endpoint := c.baseURL + "/v3/addressinfo/" + url.PathEscape(address)

	requestCtx, cancel := context.WithTimeout(ctx, c.httpTimeout)
	defer cancel()

	request, err := http.NewRequestWithContext(requestCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return addressInfo{}, fmt.Errorf("build address info request: %w", err)
	}
	request.Header.Set("Accept", "application/json")

	response, err := c.httpClient.Do(request)
	if err != nil {
		return addressInfo{}, fmt.Errorf("query address info: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode == http.StatusNotFound {
		return addressInfo{Address: address}, nil
	}
	if response.StatusCode != http.StatusOK {
		return addressInfo{}, &unexpectedStatusError{statusCode: response.StatusCode}
	}

	info := addressInfo{}
	if err := json.NewDecoder(response.Body).Decode(&info); err != nil {
		return addressInfo{}, fmt.Errorf("decode address info: %w", err)
	}
	return info, nil
}
