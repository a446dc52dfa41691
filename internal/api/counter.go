package api

import (
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"github.com/soumil/jeeprep/internal/catalog"
	"github.com/soumil/jeeprep/internal/progress"
)

// GetCounter returns the students helped counter.
func (h *Handler) GetCounter(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]int64{
		"students_helped": h.counter.Read(r.Context()),
	})
}

// Contact counts a click on a contact channel and returns its link.
func (h *Handler) Contact(w http.ResponseWriter, r *http.Request) {
	channel := chi.URLParam(r, "channel")
	link, known := h.cfg.Contact.Links()[channel]
	if !known {
		Error(w, http.StatusNotFound, "unknown_channel")
		return
	}

	resp := map[string]interface{}{
		"channel":         channel,
		"students_helped": h.counter.Bump(r.Context(), 1),
		"navigate":        false,
	}
	if url, ok := catalog.Resolve(link); ok {
		resp["url"] = url
		resp["navigate"] = true
	}
	JSON(w, http.StatusOK, resp)
}

// GetConfig returns the settings the page needs to render.
func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	links := h.cfg.Contact.Links()
	channels := make([]string, 0, len(links))
	for name, link := range links {
		if _, ok := catalog.Resolve(link); ok {
			channels = append(channels, name)
		}
	}
	sort.Strings(channels)

	JSON(w, http.StatusOK, map[string]interface{}{
		"pass_threshold":    progress.PassThreshold,
		"contact_channels":  channels,
		"reporting_enabled": h.cfg.Report.Enabled(),
	})
}
