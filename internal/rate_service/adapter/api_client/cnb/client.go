package cnb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/wdolek/mewsy-bankator/internal/entities"
)

// HTTPClient fetches the daily fixing from the CNB exrates API.
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// Close releases idle connections held by the underlying transport.
func (c *HTTPClient) Close() {
	c.client.CloseIdleConnections()
}

type dailyResponse struct {
	Rates []rateDTO `json:"rates"`
}

type rateDTO struct {
	Amount       int     `json:"amount"`
	CurrencyCode string  `json:"currencyCode"`
	Rate         float64 `json:"rate"`
	ValidFor     string  `json:"validFor"`
}

// FetchRates requests all rates the source publishes and returns them as a
// fresh snapshot. Entries with a non-positive amount or rate are dropped.
func (c *HTTPClient) FetchRates(ctx context.Context) (*entities.RateSnapshot, error) {
	apiURL, err := c.getURL()
	if err != nil {
		return nil, fmt.Errorf("build url error: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request error: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("api_client get error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}

	var result dailyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("json decode error: %w", err)
	}

	if len(result.Rates) == 0 {
		return nil, entities.ErrEmptySnapshot
	}

	rates := make([]entities.SourceRate, 0, len(result.Rates))
	for _, r := range result.Rates {
		if r.Amount <= 0 || r.Rate <= 0 {
			continue
		}
		rates = append(rates, entities.SourceRate{
			CurrencyCode: entities.CurrencyCode(r.CurrencyCode),
			Amount:       r.Amount,
			Rate:         r.Rate,
		})
	}

	return entities.NewSnapshot(rates, time.Now()), nil
}

func (c *HTTPClient) getURL() (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}

	q := u.Query()
	q.Set("lang", "EN")
	u.RawQuery = q.Encode()

	return u.String(), nil
}
