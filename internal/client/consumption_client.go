package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/appbank/credit-engine/internal/domain"
	customError "github.com/appbank/credit-engine/pkg/errors"
)

const (
	unbilledConsumptionsPath = "/api/v1/consumptions/unbilled"
	saveConsumptionsPath     = "/api/v1/consumptions/batch"
)

// ConsumptionClient talks to the consumption service over HTTP.
type ConsumptionClient struct {
	httpClient *http.Client
	baseURL    string
}

var _ ConsumptionService = (*ConsumptionClient)(nil)

func NewConsumptionClient(baseURL string, timeout time.Duration) *ConsumptionClient {
	return &ConsumptionClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
	}
}

type consumptionListResponse struct {
	Success bool                  `json:"success"`
	Data    []*domain.Consumption `json:"data"`
}

func (c *ConsumptionClient) FindUnbilled(ctx context.Context, creditCardID string) ([]*domain.Consumption, error) {
	url := fmt.Sprintf("%s%s?credit_card_id=%s", c.baseURL, unbilledConsumptionsPath, creditCardID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, customError.WrapRemoteServiceError("consumption", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, customError.WrapRemoteServiceError("consumption", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, customError.WrapRemoteServiceError("consumption",
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var envelope consumptionListResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, customError.WrapRemoteServiceError("consumption", err)
	}

	return envelope.Data, nil
}

func (c *ConsumptionClient) SaveAll(ctx context.Context, consumptions []*domain.Consumption) ([]*domain.Consumption, error) {
	body, err := json.Marshal(consumptions)
	if err != nil {
		return nil, customError.WrapRemoteServiceError("consumption", err)
	}

	url := c.baseURL + saveConsumptionsPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return nil, customError.WrapRemoteServiceError("consumption", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, customError.WrapRemoteServiceError("consumption", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, customError.WrapRemoteServiceError("consumption",
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var envelope consumptionListResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, customError.WrapRemoteServiceError("consumption", err)
	}

	return envelope.Data, nil
}
