package repository

import (
	"context"
	"fmt"
	"strconv"

	"SolCharts/internal/domain/models"
	domrepo "SolCharts/internal/domain/repository"
	xhttp "SolCharts/pkg/http"
)

// HistoryHTTP implements HistoryProvider against the upstream token-data
// REST API. The upstream serves candles already sorted ascending and
// deduplicated; they are passed through untouched.
type HistoryHTTP struct {
	client  *xhttp.Client
	baseURL string
}

// NewHistoryHTTP creates an HTTP-backed history provider.
func NewHistoryHTTP(client *xhttp.Client, baseURL string) domrepo.HistoryProvider {
	return &HistoryHTTP{client: client, baseURL: baseURL}
}

func (h *HistoryHTTP) GetHistory(ctx context.Context, mint string, tf domrepo.Timeframe, limit int) ([]models.Candle, error) {
	var candles []models.Candle
	err := h.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: "GET",
		URL:    fmt.Sprintf("%s/api/tokens/%s/candles", h.baseURL, mint),
		QueryParams: map[string][]string{
			"tf":    {string(tf)},
			"limit": {strconv.Itoa(limit)},
		},
	}, &candles)
	if err != nil {
		return nil, fmt.Errorf("history candles: %w", err)
	}
	return candles, nil
}

func (h *HistoryHTTP) GetLatestPrice(ctx context.Context, mint string) (*models.PriceQuote, error) {
	var quote models.PriceQuote
	err := h.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: "GET",
		URL:    fmt.Sprintf("%s/api/tokens/%s/price", h.baseURL, mint),
	}, &quote)
	if err != nil {
		return nil, fmt.Errorf("latest price: %w", err)
	}
	if quote.Price <= 0 {
		return nil, fmt.Errorf("latest price: empty quote for %s", mint)
	}
	return &quote, nil
}
