// Package http provides http transport for walks
package http

import (
	stdhttp "net/http"

	"sylwalk/internal/modkit/httpkit"
	"sylwalk/internal/services/walker/domain"
	svc "sylwalk/internal/services/walker/service"
)

// Register mounts walk endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}

	httpkit.PostJSON[domain.WalkInput](r, "/", h.walk)
	httpkit.PostJSON[domain.BatchInput](r, "/batch", h.batch)

	httpkit.Get(r, "/stats", h.stats)
	httpkit.Get(r, "/profiles", h.profiles)
	httpkit.Get(r, "/syllables/{syllable}", h.lookup)
}

type handlers struct{ svc svc.Service }

// swagger:route POST /walks Walks walkOne
// @Summary Run one seeded walk
// @Description Dead ends are reported in the result with the partial walk.
// @Tags Walks
// @Accept json
// @Produce json
// @Param payload body domain.WalkInput true "Walk"
// @Success 200 {object} domain.WalkResult "ok"
// @Failure 400 {object} phttp.Envelope "bad request"
// @Failure 404 {object} phttp.Envelope "unknown start"
// @Failure 422 {object} phttp.Envelope "invalid profile"
// @Router /walks [post]
func (h *handlers) walk(r *stdhttp.Request, in domain.WalkInput) (any, error) {
	return h.svc.Walk(r.Context(), in)
}

// swagger:route POST /walks/batch Walks walkBatch
// @Summary Run a batch of walks from one base seed
// @Tags Walks
// @Accept json
// @Produce json
// @Param payload body domain.BatchInput true "Batch"
// @Success 200 {object} domain.BatchResult "ok"
// @Failure 400 {object} phttp.Envelope "bad request"
// @Failure 422 {object} phttp.Envelope "invalid profile"
// @Router /walks/batch [post]
func (h *handlers) batch(r *stdhttp.Request, in domain.BatchInput) (any, error) {
	return h.svc.Batch(r.Context(), in)
}

// swagger:route GET /walks/stats Walks walkStats
// @Summary Corpus and neighbor graph statistics
// @Tags Walks
// @Produce json
// @Success 200 {object} domain.Stats "ok"
// @Router /walks/stats [get]
func (h *handlers) stats(r *stdhttp.Request) (any, error) {
	return h.svc.Stats(r.Context())
}

// swagger:route GET /walks/profiles Walks walkProfiles
// @Summary Registered walk profiles
// @Tags Walks
// @Produce json
// @Success 200 {array} profile.Profile "ok"
// @Router /walks/profiles [get]
func (h *handlers) profiles(r *stdhttp.Request) (any, error) {
	return h.svc.Profiles(r.Context())
}

// swagger:route GET /walks/syllables/{syllable} Walks walkLookup
// @Summary Corpus entries spelled like syllable, with their neighbors
// @Tags Walks
// @Produce json
// @Param syllable path string true "Syllable text"
// @Success 200 {array} domain.SyllableDetail "ok"
// @Failure 404 {object} phttp.Envelope "unknown syllable"
// @Router /walks/syllables/{syllable} [get]
func (h *handlers) lookup(r *stdhttp.Request) (any, error) {
	return h.svc.Lookup(r.Context(), httpkit.Param(r, "syllable"))
}
