package handler

import (
	"net/http"

	"github.com/publication-admin/internal/application/topic"
)

// MetaHandler serves liveness and catalog endpoints.
type MetaHandler struct {
	topics topic.Service
	errs   *ErrorWriter
}

func NewMetaHandler(topics topic.Service, errs *ErrorWriter) *MetaHandler {
	return &MetaHandler{topics: topics, errs: errs}
}

func (h *MetaHandler) Ping(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, "ok")
}

func (h *MetaHandler) Topics(w http.ResponseWriter, r *http.Request) {
	topics, err := h.topics.All(r.Context())
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, topics)
}
