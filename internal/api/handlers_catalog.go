// Mathesis - Adaptive Knowledge Mapping and Mastery Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mathesis

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/mathesis/internal/catalog"
	"github.com/tomtom215/mathesis/internal/logging"
)

// CatalogStats handles catalog statistics requests
//
// @Summary Get catalog statistics
// @Description Returns item, probe, and trajectory counts plus per-level and per-domain breakdowns
// @Tags Catalog
// @Produce json
// @Success 200 {object} APIResponse{data=catalog.Stats} "Catalog statistics"
// @Failure 503 {object} APIResponse "No catalog loaded"
// @Router /catalog [get]
func (h *Handler) CatalogStats(w http.ResponseWriter, r *http.Request) {
	cat := h.store.Current()
	if cat == nil {
		respondError(w, http.StatusServiceUnavailable, "CATALOG_UNAVAILABLE", "No catalog loaded", nil)
		return
	}

	respondSuccess(w, http.StatusOK, cat.Stats())
}

// CatalogItem handles single item lookup requests
//
// @Summary Get a catalog item
// @Description Returns one item by id
// @Tags Catalog
// @Produce json
// @Param id path string true "Item ID"
// @Success 200 {object} APIResponse{data=catalog.Item} "Catalog item"
// @Failure 404 {object} APIResponse "Item not found"
// @Router /catalog/items/{id} [get]
func (h *Handler) CatalogItem(w http.ResponseWriter, r *http.Request) {
	cat := h.store.Current()
	if cat == nil {
		respondError(w, http.StatusServiceUnavailable, "CATALOG_UNAVAILABLE", "No catalog loaded", nil)
		return
	}

	id := chi.URLParam(r, "id")
	item, ok := cat.Item(id)
	if !ok {
		respondError(w, http.StatusNotFound, "ITEM_NOT_FOUND", "Item does not exist in the current catalog", nil)
		return
	}

	respondSuccess(w, http.StatusOK, item)
}

// CatalogNear handles spatial neighbour queries
//
// @Summary Find items near a position
// @Description Returns the k nearest catalog items to a point in the knowledge plane
// @Tags Catalog
// @Produce json
// @Param x query number true "X coordinate in [0,1]"
// @Param y query number true "Y coordinate in [0,1]"
// @Param k query int false "Number of neighbours (1-100)" default(5)
// @Success 200 {object} APIResponse{data=[]NearNeighbor} "Nearest items"
// @Failure 400 {object} APIResponse "Invalid coordinates"
// @Router /catalog/near [get]
func (h *Handler) CatalogNear(w http.ResponseWriter, r *http.Request) {
	cat := h.store.Current()
	if cat == nil {
		respondError(w, http.StatusServiceUnavailable, "CATALOG_UNAVAILABLE", "No catalog loaded", nil)
		return
	}

	x, okX := getFloatParam(r, "x")
	y, okY := getFloatParam(r, "y")
	if !okX || !okY {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Query parameters x and y are required", nil)
		return
	}

	req := NearRequest{
		X: x,
		Y: y,
		K: getIntParam(r, "k", 5),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	neighbors := cat.Index().NearestK(catalog.Position{X: req.X, Y: req.Y}, req.K)

	out := make([]NearNeighbor, len(neighbors))
	for i, n := range neighbors {
		out[i] = NearNeighbor{
			ID:       n.ID,
			Position: n.Pos,
			Distance: n.Distance,
		}
	}

	respondSuccess(w, http.StatusOK, out)
}

// ReloadCatalog handles admin catalog reload requests
//
// Remote catalogs are fetched conditionally; an upstream 304 is reported as
// reloaded=false with the current catalog's statistics. Sessions created
// before the reload keep their original catalog snapshot.
//
// @Summary Reload the catalog
// @Description Re-reads the catalog from the configured source and swaps it in for new sessions
// @Tags Catalog
// @Produce json
// @Success 200 {object} APIResponse{data=ReloadResponse} "Reload outcome"
// @Failure 502 {object} APIResponse "Remote fetch failed"
// @Failure 503 {object} APIResponse "No catalog source configured"
// @Router /catalog/reload [post]
func (h *Handler) ReloadCatalog(w http.ResponseWriter, r *http.Request) {
	if h.fetcher != nil {
		cat, err := h.fetcher.Fetch(r.Context())
		switch {
		case errors.Is(err, catalog.ErrNotModified):
			current := h.store.Current()
			respondSuccess(w, http.StatusOK, ReloadResponse{
				Reloaded: false,
				Source:   "remote",
				Stats:    current.Stats(),
			})
			return
		case err != nil:
			respondError(w, http.StatusBadGateway, "CATALOG_FETCH_FAILED", "Failed to fetch remote catalog", err)
			return
		}

		h.store.Swap(cat)
		logging.Info().Int("items", cat.Len()).Msg("Catalog reloaded from remote source")
		respondSuccess(w, http.StatusOK, ReloadResponse{
			Reloaded: true,
			Source:   "remote",
			Stats:    cat.Stats(),
		})
		return
	}

	path := h.config.Catalog.Path
	if path == "" {
		respondError(w, http.StatusServiceUnavailable, "RELOAD_NOT_CONFIGURED", "No catalog source configured", nil)
		return
	}

	cat, err := catalog.LoadFile(path)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "CATALOG_LOAD_FAILED", "Failed to load catalog file", err)
		return
	}

	h.store.Swap(cat)
	logging.Info().Int("items", cat.Len()).Str("path", path).Msg("Catalog reloaded from file")
	respondSuccess(w, http.StatusOK, ReloadResponse{
		Reloaded: true,
		Source:   "file",
		Stats:    cat.Stats(),
	})
}
