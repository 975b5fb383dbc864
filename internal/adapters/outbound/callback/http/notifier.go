package http

import (
	"bytes"
	"context"
	"crypto/hmac"
	cryptorand "crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"strconv"
	"strings"
	"time"

	"cocoscan/internal/application/dto"
	portsout "cocoscan/internal/application/ports/out"
	apperrors "cocoscan/internal/shared_kernel/errors"
)

const (
	defaultHTTPTimeout = 5 * time.Second
	maxErrorBodyBytes  = 1024
	signatureVersionV1 = "v1"
	nonceByteLength    = 16
)

type Config struct {
	HMACSecret string
	Timeout    time.Duration
}

// Notifier posts a signed discovery result to the callback URL a client gave
// when importing its HD root.
type Notifier struct {
	hmacSecret string
	client     *nethttp.Client
	now        func() time.Time
}

var _ portsout.DiscoveryResultNotifier = (*Notifier)(nil)

type callbackPayload struct {
	EventID    string               `json:"event_id"`
	EventType  string               `json:"event_type"`
	OccurredAt time.Time            `json:"occurred_at"`
	Data       dto.DiscoveryJobView `json:"data"`
}

func NewNotifier(cfg Config) *Notifier {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}

	return &Notifier{
		hmacSecret: strings.TrimSpace(cfg.HMACSecret),
		client: &nethttp.Client{
			Timeout: timeout,
		},
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (n *Notifier) NotifyDiscoveryResult(
	ctx context.Context,
	event dto.DiscoveryResultEvent,
) (dto.DiscoveryResultEventOutput, *apperrors.AppError) {
	if n == nil || n.client == nil {
		return dto.DiscoveryResultEventOutput{}, apperrors.NewInternal(
			"callback_notifier_not_configured",
			"callback notifier is not configured",
			nil,
		)
	}
	if n.hmacSecret == "" {
		return dto.DiscoveryResultEventOutput{}, apperrors.NewInternal(
			"callback_hmac_secret_missing",
			"callback hmac secret is missing",
			nil,
		)
	}

	eventID := strings.TrimSpace(event.EventID)
	if eventID == "" {
		return dto.DiscoveryResultEventOutput{}, apperrors.NewValidation(
			"callback_event_id_missing",
			"callback event id is required",
			nil,
		)
	}
	eventType := strings.TrimSpace(event.EventType)
	if eventType == "" {
		return dto.DiscoveryResultEventOutput{}, apperrors.NewValidation(
			"callback_event_type_missing",
			"callback event type is required",
			nil,
		)
	}
	callbackURL := strings.TrimSpace(event.CallbackURL)
	if callbackURL == "" {
		return dto.DiscoveryResultEventOutput{}, apperrors.NewValidation(
			"callback_url_missing",
			"callback url is required",
			map[string]any{"field": "callback_url"},
		)
	}

	occurredAt := n.now()
	body, err := json.Marshal(callbackPayload{
		EventID:    eventID,
		EventType:  eventType,
		OccurredAt: occurredAt,
		Data:       event.Job,
	})
	if err != nil {
		return dto.DiscoveryResultEventOutput{}, apperrors.NewInternal(
			"callback_payload_encode_failed",
			"failed to encode callback payload",
			map[string]any{"error": err.Error()},
		)
	}

	timestamp := strconv.FormatInt(occurredAt.Unix(), 10)
	nonce, nonceErr := callbackNonce()
	if nonceErr != nil {
		return dto.DiscoveryResultEventOutput{}, apperrors.NewInternal(
			"callback_nonce_generation_failed",
			"failed to generate callback nonce",
			map[string]any{"error": nonceErr.Error()},
		)
	}
	signature := callbackSignature(n.hmacSecret, timestamp, nonce, eventID, eventType, body)

	request, err := nethttp.NewRequestWithContext(ctx, nethttp.MethodPost, callbackURL, bytes.NewReader(body))
	if err != nil {
		return dto.DiscoveryResultEventOutput{}, apperrors.NewInternal(
			"callback_request_build_failed",
			"failed to build callback request",
			map[string]any{"error": err.Error()},
		)
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Idempotency-Key", eventID)
	request.Header.Set("X-CocoScan-Event-Id", eventID)
	request.Header.Set("X-CocoScan-Event-Type", eventType)
	request.Header.Set("X-CocoScan-Timestamp", timestamp)
	request.Header.Set("X-CocoScan-Nonce", nonce)
	request.Header.Set("X-CocoScan-Signature-Version", signatureVersionV1)
	request.Header.Set("X-CocoScan-Signature", "sha256="+signature)

	response, err := n.client.Do(request)
	if err != nil {
		return dto.DiscoveryResultEventOutput{}, apperrors.NewInternal(
			"callback_delivery_failed",
			"failed to send callback request",
			map[string]any{"error": err.Error()},
		)
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		bodyPreview := ""
		raw, readErr := io.ReadAll(io.LimitReader(response.Body, maxErrorBodyBytes))
		if readErr == nil {
			bodyPreview = strings.TrimSpace(string(raw))
		}
		return dto.DiscoveryResultEventOutput{StatusCode: response.StatusCode}, apperrors.NewInternal(
			"callback_delivery_failed",
			"callback endpoint returned non-2xx status",
			map[string]any{
				"status_code": response.StatusCode,
				"body":        bodyPreview,
			},
		)
	}

	return dto.DiscoveryResultEventOutput{StatusCode: response.StatusCode}, nil
}

func callbackNonce() (string, error) {
	raw := make([]byte, nonceByteLength)
	if _, err := cryptorand.Read(raw); err != nil {
		return "", err
	}
	return hex.EncodeToString(raw), nil
}

// callbackSignature is HMAC-SHA256 over timestamp.nonce.event_id.event_type.body.
func callbackSignature(
	secret string,
	timestamp string,
	nonce string,
	eventID string,
	eventType string,
	body []byte,
) string {
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write([]byte(timestamp))
	_, _ = mac.Write([]byte("."))
	_, _ = mac.Write([]byte(nonce))
	_, _ = mac.Write([]byte("."))
	_, _ = mac.Write([]byte(eventID))
	_, _ = mac.Write([]byte("."))
	_, _ = mac.Write([]byte(eventType))
	_, _ = mac.Write([]byte("."))
	_, _ = mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// BuildExpectedSignatureHeader lets callback receivers and tests verify a
// delivery.
func BuildExpectedSignatureHeader(
	secret string,
	timestamp string,
	nonce string,
	eventID string,
	eventType string,
	body []byte,
) string {
	return fmt.Sprintf("sha256=%s", callbackSignature(secret, timestamp, nonce, eventID, eventType, body))
}
