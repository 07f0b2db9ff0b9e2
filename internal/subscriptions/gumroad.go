package subscriptions

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/hndlyt/releaseboard-backend/pkg/config"
	pkgerrors "github.com/hndlyt/releaseboard-backend/pkg/errors"
)

// VerifyResult is the outcome of a successful license verification.
type VerifyResult struct {
	VariantName string
	// ExpiresAt is nil when the vendor response carries no end date.
	ExpiresAt *time.Time
}

// GumroadClient verifies license keys against the Gumroad-compatible
// verification endpoint.
type GumroadClient struct {
	httpClient *http.Client
	verifyURL  string
	productID  string
}

func NewGumroadClient(cfg config.GumroadConfig) (*GumroadClient, error) {
	if cfg.VerifyURL == "" {
		return nil, fmt.Errorf("gumroad verify url required")
	}
	if cfg.ProductID == "" {
		return nil, fmt.Errorf("gumroad product id required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &GumroadClient{
		httpClient: &http.Client{Timeout: timeout},
		verifyURL:  cfg.VerifyURL,
		productID:  cfg.ProductID,
	}, nil
}

type verifyRequest struct {
	ProductID  string `json:"product_id"`
	LicenseKey string `json:"license_key"`
}

type verifyResponse struct {
	Success  bool `json:"success"`
	Purchase struct {
		VariantName         string     `json:"variant_name"`
		SubscriptionEndedAt *time.Time `json:"subscription_ended_at"`
		EndedAt             *time.Time `json:"ended_at"`
	} `json:"purchase"`
}

// Verify posts the license key to the verification endpoint. Any
// transport failure or non-success response comes back as a
// verification error so activation surfaces a single failure mode.
func (c *GumroadClient) Verify(ctx context.Context, licenseKey string) (*VerifyResult, error) {
	body, err := json.Marshal(verifyRequest{ProductID: c.productID, LicenseKey: licenseKey})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding verification request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.verifyURL, bytes.NewReader(body))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building verification request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeVerification, err, "license verification service unreachable")
	}
	defer resp.Body.Close()

	// Gumroad answers 404 with success=false for unknown keys.
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNotFound {
		return nil, pkgerrors.New(pkgerrors.CodeVerification,
			fmt.Sprintf("license verification service returned status %d", resp.StatusCode))
	}

	var parsed verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeVerification, err, "decoding verification response")
	}
	if !parsed.Success {
		return nil, pkgerrors.New(pkgerrors.CodeVerification, "license key was not accepted")
	}

	result := &VerifyResult{VariantName: parsed.Purchase.VariantName}
	switch {
	case parsed.Purchase.SubscriptionEndedAt != nil:
		result.ExpiresAt = parsed.Purchase.SubscriptionEndedAt
	case parsed.Purchase.EndedAt != nil:
		result.ExpiresAt = parsed.Purchase.EndedAt
	}
	return result, nil
}
