package httpapi

import (
	"net/http"

	"restoflow/internal/domain"
)

func (h *Handler) createNews(w http.ResponseWriter, r *http.Request) {
	var in domain.NewsInput
	if err := decodeJSON(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	id, err := h.News.Create(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": "published", "news_id": id})
}

func (h *Handler) listNews(w http.ResponseWriter, r *http.Request) {
	news, err := h.News.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, news)
}

func (h *Handler) getNews(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	item, err := h.News.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *Handler) contactInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.Contact.Info(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (h *Handler) contactMessage(w http.ResponseWriter, r *http.Request) {
	var in domain.ContactMessageInput
	if err := decodeJSON(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	id, err := h.Contact.SubmitMessage(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": "received", "message_id": id})
}
