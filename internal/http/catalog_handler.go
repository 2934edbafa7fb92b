package http

import (
	"encoding/json"
	"net/http"

	"github.com/bean4896/hessen-custom/internal/catalog"
	"github.com/bean4896/hessen-custom/internal/pricing"
)

type CatalogHandler struct {
	catalog *catalog.Catalog
}

func NewCatalogHandler(cat *catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: cat}
}

type CatalogResponseDTO struct {
	BasePrice float64         `json:"base_price"`
	Currency  string          `json:"currency"`
	Groups    []catalog.Group `json:"groups"`
}

func (h *CatalogHandler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, CatalogResponseDTO{
		BasePrice: pricing.BasePrice,
		Currency:  pricing.Currency,
		Groups:    h.catalog.Groups(),
	})
}

type QuoteRequestDTO struct {
	Configuration catalog.Configuration `json:"configuration"`
}

type QuoteResponseDTO struct {
	UnitPrice float64        `json:"unit_price"`
	Currency  string         `json:"currency"`
	Breakdown []pricing.Line `json:"breakdown"`
}

// Quote prices a configuration without touching the cart; the configurator
// summary panel calls this on every change.
func (h *CatalogHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req QuoteRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	respondJSON(w, http.StatusOK, QuoteResponseDTO{
		UnitPrice: pricing.Price(req.Configuration, h.catalog),
		Currency:  pricing.Currency,
		Breakdown: pricing.Breakdown(req.Configuration, h.catalog),
	})
}
