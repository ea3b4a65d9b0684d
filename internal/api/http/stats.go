package http

import (
	"net/http"

	"github.com/snugunits/snug/internal/cache"
	"github.com/snugunits/snug/internal/observability"
)

// StatsResponse reports symbol usage and cache effectiveness.
type StatsResponse struct {
	TopSymbols  []observability.SymbolStat `json:"top_symbols"`
	TopFailures []observability.SymbolStat `json:"top_failures"`
	Cache       *cache.CacheStats          `json:"cache,omitempty"`
}

// StatsHandler handles GET /v1/stats.
type StatsHandler struct {
	stats *observability.SymbolStats
	cache *cache.ParseCache
	topN  int
}

// NewStatsHandler creates a stats handler. c may be nil when caching is off.
func NewStatsHandler(stats *observability.SymbolStats, c *cache.ParseCache, topN int) *StatsHandler {
	if topN <= 0 {
		topN = 10
	}
	return &StatsHandler{stats: stats, cache: c, topN: topN}
}

// ServeHTTP handles the stats HTTP request.
func (h *StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", GetRequestID(r.Context()))
		return
	}

	resp := StatsResponse{
		TopSymbols:  h.stats.GetTopSymbols(h.topN),
		TopFailures: h.stats.GetTopFailures(h.topN),
	}
	if h.cache != nil {
		cs := h.cache.Stats()
		resp.Cache = &cs
	}
	writeJSON(w, http.StatusOK, resp)
}

// NewRouter registers every API route on a new mux, wrapping each in
// middleware. /health is left unwrapped.
func NewRouter(units *UnitHandler, stats *StatsHandler, middleware func(http.Handler) http.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/v1/parse", middleware(http.HandlerFunc(units.HandleParse)))
	mux.Handle("/v1/quantity", middleware(http.HandlerFunc(units.HandleQuantity)))
	mux.Handle("/v1/compute", middleware(http.HandlerFunc(units.HandleCompute)))
	mux.Handle("/v1/batch", middleware(http.HandlerFunc(units.HandleBatch)))
	mux.Handle("/v1/stats", middleware(stats))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})
	return mux
}
