package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/bean4896/hessen-custom/internal/cache"
	"github.com/bean4896/hessen-custom/internal/catalog"
	"github.com/bean4896/hessen-custom/internal/configurator"
	"github.com/bean4896/hessen-custom/internal/pricing"
)

// ConfiguratorHandler exposes the in-progress selection for the product
// page. Each request rebuilds the store from the session's persisted
// snapshot, so the selection survives reloads and new tabs.
type ConfiguratorHandler struct {
	catalog *catalog.Catalog
	configs cache.ConfigStore
	timeout time.Duration
}

func NewConfiguratorHandler(cat *catalog.Catalog, configs cache.ConfigStore, timeout time.Duration) *ConfiguratorHandler {
	return &ConfiguratorHandler{
		catalog: cat,
		configs: configs,
		timeout: timeout,
	}
}

// sessionPersister binds the session-scoped config store to the
// configurator's context-free port.
type sessionPersister struct {
	ctx       context.Context
	sessionID string
	configs   cache.ConfigStore
}

func (p sessionPersister) Save(cfg catalog.Configuration) error {
	return p.configs.Save(p.ctx, p.sessionID, cfg)
}

func (p sessionPersister) Load() (catalog.Configuration, bool, error) {
	return p.configs.Load(p.ctx, p.sessionID)
}

func (h *ConfiguratorHandler) store(ctx context.Context) *configurator.Store {
	return configurator.NewStore(h.catalog, sessionPersister{
		ctx:       ctx,
		sessionID: getSessionID(ctx),
		configs:   h.configs,
	})
}

type ConfiguratorResponseDTO struct {
	Configuration catalog.Configuration `json:"configuration"`
	Summary       string                `json:"summary"`
	UnitPrice     float64               `json:"unit_price"`
	Currency      string                `json:"currency"`
	Breakdown     []pricing.Line        `json:"breakdown"`
}

func (h *ConfiguratorHandler) respondState(w http.ResponseWriter, store *configurator.Store) {
	cfg := store.Current()
	respondJSON(w, http.StatusOK, ConfiguratorResponseDTO{
		Configuration: cfg,
		Summary:       cfg.Summary(),
		UnitPrice:     store.Price(),
		Currency:      pricing.Currency,
		Breakdown:     store.Breakdown(),
	})
}

func (h *ConfiguratorHandler) GetConfiguration(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	h.respondState(w, h.store(ctx))
}

type SelectOptionRequestDTO struct {
	Category catalog.Category `json:"category"`
	OptionID string           `json:"option_id"`
}

func (h *ConfiguratorHandler) SelectOption(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req SelectOptionRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.OptionID == "" {
		respondError(w, http.StatusBadRequest, "option_id is required")
		return
	}

	store := h.store(ctx)
	if err := store.Select(req.Category, req.OptionID); err != nil {
		if errors.Is(err, configurator.ErrUnknownCategory) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		handleServiceError(w, err)
		return
	}

	h.respondState(w, store)
}

type ToggleOptionRequestDTO struct {
	OptionID string `json:"option_id"`
}

func (h *ConfiguratorHandler) ToggleOption(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req ToggleOptionRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.OptionID == "" {
		respondError(w, http.StatusBadRequest, "option_id is required")
		return
	}

	store := h.store(ctx)
	store.ToggleOption(req.OptionID)

	h.respondState(w, store)
}

func (h *ConfiguratorHandler) ResetConfiguration(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	store := h.store(ctx)
	store.Reset()

	h.respondState(w, store)
}
