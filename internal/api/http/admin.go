package httpapi

import (
	"net/http"

	"restoflow/internal/domain"

	"github.com/gorilla/mux"
)

func (h *Handler) getMenu(w http.ResponseWriter, r *http.Request) {
	items, err := h.Menu.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) createDish(w http.ResponseWriter, r *http.Request) {
	var in domain.DishInput
	if err := decodeJSON(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	id, err := h.Admin.CreateDish(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": "created", "dish_id": id})
}

func (h *Handler) updateDish(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var in domain.DishInput
	if err := decodeJSON(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.Admin.UpdateDish(r.Context(), id, in); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": "updated", "dish_id": id})
}

func (h *Handler) deleteDish(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.Admin.DeleteDish(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": "deleted", "dish_id": id})
}

func (h *Handler) createCategory(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	if _, err := h.Admin.CreateCategory(r.Context(), in.Name); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": "created", "category": in.Name})
}

func (h *Handler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if err := h.Admin.DeleteCategory(r.Context(), name); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": "deleted", "category": name})
}

// getEntity returns the stored attributes flattened next to ent_name and ent_id.
func (h *Handler) getEntity(w http.ResponseWriter, r *http.Request) {
	entityType := mux.Vars(r)["entity_type"]
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	rec, err := h.Admin.GetEntity(r.Context(), entityType, id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	body := make(map[string]interface{}, len(rec)+2)
	for k, v := range rec {
		body[k] = v
	}
	body["ent_name"] = entityType
	body["ent_id"] = id
	writeJSON(w, http.StatusOK, body)
}

func (h *Handler) updateEntity(w http.ResponseWriter, r *http.Request) {
	entityType := mux.Vars(r)["entity_type"]
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var in domain.EntityUpdate
	if err := decodeJSON(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.Admin.UpdateEntity(r.Context(), entityType, id, in.Fields); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": "updated", "ent_name": entityType, "ent_id": id})
}

func (h *Handler) deleteEntity(w http.ResponseWriter, r *http.Request) {
	entityType := mux.Vars(r)["entity_type"]
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.Admin.DeleteEntity(r.Context(), entityType, id); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": "deleted", "ent_name": entityType, "ent_id": id})
}

func (h *Handler) listEntities(w http.ResponseWriter, r *http.Request) {
	list, err := h.Admin.ListEntities(r.Context(), mux.Vars(r)["entity_type"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) listEntityTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.Admin.ListEntityTypes(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, types)
}

func (h *Handler) registerEntityType(w http.ResponseWriter, r *http.Request) {
	var in domain.EntityType
	if err := decodeJSON(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.Admin.RegisterEntityType(r.Context(), in); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": "created", "ent_name": in.Name})
}

func (h *Handler) deleteEntityType(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if err := h.Admin.DeleteEntityType(r.Context(), name); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": "deleted", "ent_name": name})
}
