package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/appbank/credit-engine/internal/domain"
	customError "github.com/appbank/credit-engine/pkg/errors"
)

const paymentsByProductPath = "/api/v1/payments"

// PaymentClient talks to the payment service over HTTP.
type PaymentClient struct {
	httpClient *http.Client
	baseURL    string
}

var _ PaymentService = (*PaymentClient)(nil)

func NewPaymentClient(baseURL string, timeout time.Duration) *PaymentClient {
	return &PaymentClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
	}
}

type paymentListResponse struct {
	Success bool              `json:"success"`
	Data    []*domain.Payment `json:"data"`
}

// FindAllByProduct returns the payments recorded for a product, sorted by
// payment date on the service side.
func (c *PaymentClient) FindAllByProduct(ctx context.Context, productID string) ([]*domain.Payment, error) {
	url := fmt.Sprintf("%s%s?product_id=%s&sort=date_payment", c.baseURL, paymentsByProductPath, productID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, customError.WrapRemoteServiceError("payment", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, customError.WrapRemoteServiceError("payment", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, customError.WrapRemoteServiceError("payment",
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var envelope paymentListResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, customError.WrapRemoteServiceError("payment", err)
	}

	return envelope.Data, nil
}
