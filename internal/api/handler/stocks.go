package handler

import (
	"context"
	"net/http"

	"github.com/radpocket/radpocket/internal/api/response"
	"github.com/radpocket/radpocket/internal/stocks"
)

// maxRequestSymbols bounds how many tickers one request may name.
const maxRequestSymbols = 10

// StockService provides per-symbol price series.
type StockService interface {
	Series(ctx context.Context, symbols []string) []stocks.SeriesResult
	Cached(ctx context.Context) []stocks.SeriesResult
}

// StockHandler handles the stock endpoints.
type StockHandler struct {
	service StockService
}

// NewStockHandler creates a new StockHandler.
func NewStockHandler(service StockService) *StockHandler {
	return &StockHandler{service: service}
}

// stocksResponse is the GET /v1/stocks body.
type stocksResponse struct {
	Results []stocks.SeriesResult `json:"results"`
}

// GetStocks handles GET /v1/stocks?symbols=UNH,HCA. Without a symbols
// parameter the background-refreshed default list is served.
func (h *StockHandler) GetStocks(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("symbols")
	if raw == "" {
		response.JSON(w, r, http.StatusOK, stocksResponse{Results: h.service.Cached(r.Context())})
		return
	}

	symbols := stocks.ParseSymbols(raw)
	if len(symbols) == 0 {
		response.BadRequest(w, r, "symbols parameter contains no valid tickers")
		return
	}
	if len(symbols) > maxRequestSymbols {
		response.BadRequest(w, r, "too many symbols requested")
		return
	}

	response.JSON(w, r, http.StatusOK, stocksResponse{Results: h.service.Series(r.Context(), symbols)})
}
