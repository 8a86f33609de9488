// internal/api/courts/handlers.go
package courts

import (
	"net/http"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/codr1/mphcourts/internal/api/apiutil"
	"github.com/codr1/mphcourts/internal/courts"
)

var (
	topology     *courts.Topology
	topologyOnce sync.Once
)

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(topo *courts.Topology) {
	if topo == nil {
		return
	}
	topologyOnce.Do(func() {
		topology = topo
	})
}

type courtResponse struct {
	ID              string   `json:"id"`
	Sport           string   `json:"sport"`
	Label           string   `json:"label"`
	HourlyRateCents int64    `json:"hourly_rate_cents"`
	Overlaps        []string `json:"overlaps"`
}

type courtListResponse struct {
	Courts []courtResponse `json:"courts"`
}

// GET /api/v1/courts?sport=
func HandleCourtList(w http.ResponseWriter, r *http.Request) {
	topo := topology
	if topo == nil {
		log.Ctx(r.Context()).Error().Msg("Court topology not initialized")
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusInternalServerError, Message: "Internal Server Error"})
		return
	}

	list := topo.Courts()
	if raw := strings.TrimSpace(r.URL.Query().Get("sport")); raw != "" {
		sport, err := courts.ParseSport(raw)
		if err != nil {
			apiutil.WriteBadRequest(w, r, err.Error())
			return
		}
		list = topo.CourtsForSport(sport)
	}

	resp := courtListResponse{Courts: make([]courtResponse, 0, len(list))}
	for _, c := range list {
		overlaps := topo.OverlapsOf(c.ID)
		ids := make([]string, 0, len(overlaps))
		for _, id := range overlaps {
			ids = append(ids, string(id))
		}
		resp.Courts = append(resp.Courts, courtResponse{
			ID:              string(c.ID),
			Sport:           string(c.Sport),
			Label:           c.Label,
			HourlyRateCents: c.HourlyRateCents,
			Overlaps:        ids,
		})
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, resp); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write response")
	}
}
