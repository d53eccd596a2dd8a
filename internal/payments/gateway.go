package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"

	"busly/internal/shared/config"
)

// GatewayStatusSuccessful is the only gateway status treated as a
// confirmed payment; every other value is uniformly non-success.
const GatewayStatusSuccessful = "SUCCESSFUL"

// Gateway is the mobile-money processor integration. Amounts cross the
// wire in cents; callers pass major units.
type Gateway interface {
	Initiate(ctx context.Context, req *InitiateRequest) (*InitiateResult, error)
	GetStatus(ctx context.Context, transactionID string) (*TransactionStatus, error)
}

// InitiateRequest carries one direct-pay collection request
type InitiateRequest struct {
	Amount     float64
	MomoNumber string
	Reference  string
}

// InitiateResult is the gateway's acceptance of a collection request
type InitiateResult struct {
	TransactionID string `json:"transactionId"`
	Instructions  string `json:"paymentInstructions,omitempty"`
}

// TransactionStatus is the gateway's view of a transaction
type TransactionStatus struct {
	TransactionID string  `json:"transactionId"`
	Status        string  `json:"status"`
	Amount        float64 `json:"amount"`
}

// Successful reports whether the gateway confirmed funds received.
func (t *TransactionStatus) Successful() bool {
	return t.Status == GatewayStatusSuccessful
}

type gatewayError struct {
	Message string `json:"message"`
}

type httpGateway struct {
	cfg            config.PaymentConfig
	initiateClient *http.Client
	verifyClient   *http.Client
}

// NewGateway builds the HTTP gateway client. Initiation and verification
// carry separate bounded timeouts; neither call is ever retried here.
func NewGateway(cfg config.PaymentConfig) Gateway {
	return &httpGateway{
		cfg:            cfg,
		initiateClient: &http.Client{Timeout: cfg.InitiateTimeout},
		verifyClient:   &http.Client{Timeout: cfg.VerifyTimeout},
	}
}

func (g *httpGateway) Initiate(ctx context.Context, req *InitiateRequest) (*InitiateResult, error) {
	if g.cfg.APIUser == "" || g.cfg.APIKey == "" {
		return nil, fmt.Errorf("payment gateway credentials not configured")
	}

	payload := map[string]interface{}{
		"amount":      toCents(req.Amount),
		"phone":       req.MomoNumber,
		"apiUser":     g.cfg.APIUser,
		"apiKey":      g.cfg.APIKey,
		"reference":   req.Reference,
		"callbackUrl": g.cfg.CallbackURL,
		"metadata": map[string]string{
			"service": "bus-ticketing",
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payment request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.BaseURL+"/direct-pay", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := g.initiateClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("payment gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read gateway response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var gwErr gatewayError
		if json.Unmarshal(respBody, &gwErr) == nil && gwErr.Message != "" {
			return nil, fmt.Errorf("gateway rejected payment: %s", gwErr.Message)
		}
		return nil, fmt.Errorf("gateway rejected payment with status %d", resp.StatusCode)
	}

	var result InitiateResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("malformed gateway response: %w", err)
	}
	if result.TransactionID == "" {
		return nil, fmt.Errorf("invalid response from payment gateway: missing transaction id")
	}

	return &result, nil
}

func (g *httpGateway) GetStatus(ctx context.Context, transactionID string) (*TransactionStatus, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, g.cfg.BaseURL+"/transaction/"+transactionID, nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("api-user", g.cfg.APIUser)
	httpReq.Header.Set("api-key", g.cfg.APIKey)
	httpReq.Header.Set("Cache-Control", "no-cache")

	resp, err := g.verifyClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("transaction status request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("gateway returned status %d for transaction %s", resp.StatusCode, transactionID)
	}

	var status TransactionStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("malformed transaction status response: %w", err)
	}
	return &status, nil
}

func toCents(amount float64) int64 {
	return int64(amount*100 + 0.5)
}

var momoMaskPattern = regexp.MustCompile(`^(\d{3})\d+(\d{3})$`)

// MaskMomoNumber hides the middle digits of a mobile-money number for
// logging. Full numbers must never reach the logs.
func MaskMomoNumber(number string) string {
	if momoMaskPattern.MatchString(number) {
		return momoMaskPattern.ReplaceAllString(number, "$1****$2")
	}
	if len(number) > 4 {
		return number[:2] + "****"
	}
	return "****"
}
