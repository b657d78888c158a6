// Package paymentprovider реализует клиент внешнего платёжного шлюза,
// работающего по ссылке на транзакцию (tx_ref) с переадресацией на страницу оплаты.
package paymentprovider

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/magabrotheeeer/job-marketplace/internal/lib/apperrors"
	"github.com/magabrotheeeer/job-marketplace/internal/telemetry"
)

const statusSuccess = "success"

// ErrRejected означает, что шлюз ответил, но отказал в операции.
// В отличие от сетевых сбоев и таймаутов исход такой операции однозначен.
var ErrRejected = errors.New("gateway rejected request")

// Client — HTTP-клиент шлюза.
type Client struct {
	secretKey  string
	apiURL     string
	timeout    time.Duration
	httpClient *http.Client
}

// NewClient создаёт клиент шлюза. timeout ограничивает каждый вызов.
func NewClient(apiURL, secretKey string, timeout time.Duration) *Client {
	return &Client{
		secretKey:  secretKey,
		apiURL:     strings.TrimRight(apiURL, "/"),
		timeout:    timeout,
		httpClient: &http.Client{},
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.apiURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, int, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return nil, 0, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return raw, resp.StatusCode, nil
}

// Initialize создаёт платёж и возвращает ссылку на страницу оплаты.
func (c *Client) Initialize(ctx context.Context, reqParams InitializeRequest) (string, error) {
	const op = "paymentprovider.Initialize"
	ctx, span := telemetry.Tracer("paymentprovider").Start(ctx, "gateway.initialize")
	defer span.End()
	span.SetAttributes(telemetry.String("tx_ref", reqParams.TxRef))

	raw, code, err := c.do(ctx, http.MethodPost, "/transaction/initialize", reqParams)
	if err != nil {
		span.RecordError(err)
		return "", apperrors.Gateway("payment gateway is unreachable", fmt.Errorf("%s: %w", op, err))
	}

	var out InitializeResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", apperrors.Gateway("malformed gateway response", fmt.Errorf("%s: %w: %w", op, ErrRejected, err))
	}
	if code != http.StatusOK || out.Status != statusSuccess || out.Data.CheckoutURL == "" {
		err := fmt.Errorf("%s: %w: status %d: %s", op, ErrRejected, code, out.Message)
		span.RecordError(err)
		return "", apperrors.Gateway("payment initialization failed", err)
	}
	return out.Data.CheckoutURL, nil
}

// Verify запрашивает у шлюза статус платежа по ссылке.
func (c *Client) Verify(ctx context.Context, txRef string) (VerifyResult, error) {
	const op = "paymentprovider.Verify"
	ctx, span := telemetry.Tracer("paymentprovider").Start(ctx, "gateway.verify")
	defer span.End()
	span.SetAttributes(telemetry.String("tx_ref", txRef))

	raw, code, err := c.do(ctx, http.MethodGet, "/transaction/verify/"+url.PathEscape(txRef), nil)
	if err != nil {
		span.RecordError(err)
		return VerifyResult{}, apperrors.Gateway("payment gateway is unreachable", fmt.Errorf("%s: %w", op, err))
	}

	var out VerifyResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return VerifyResult{}, apperrors.Gateway("malformed gateway response", fmt.Errorf("%s: %w", op, err))
	}
	if code != http.StatusOK || out.Data.Status == "" {
		err := fmt.Errorf("%s: %w: status %d: %s", op, ErrRejected, code, out.Message)
		span.RecordError(err)
		return VerifyResult{}, apperrors.Gateway("payment verification failed", err)
	}
	return VerifyResult{Status: strings.ToLower(out.Data.Status), Raw: raw}, nil
}

// VerifySignature сверяет HMAC-SHA256 подпись тела уведомления (hex).
func VerifySignature(secret string, body []byte, signature string) bool {
	if secret == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(signature)))
}

// FormatAmount переводит сумму в минимальных единицах в десятичную строку шлюза.
func FormatAmount(minor int64) string {
	return fmt.Sprintf("%d.%02d", minor/100, minor%100)
}
