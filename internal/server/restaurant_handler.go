package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"tastebook/internal/db"
	"tastebook/internal/model"
)

func currentUserID(r *http.Request) int64 {
	u, _ := UserFromContext(r.Context())
	return u.ID
}

// pathID parses the {id} URL parameter. Malformed ids are reported as not
// found, the same as ids owned by someone else.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, db.ErrNotFound
	}
	return id, nil
}

func (h *handler) listRestaurants(w http.ResponseWriter, r *http.Request) {
	var f db.RestaurantFilter
	q := r.URL.Query()
	if v := q.Get("favorites"); v != "" {
		fav, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, r, h.logger, model.ValidationErrors{"favorites": "must be true or false"})
			return
		}
		f.FavoritesOnly = fav
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, r, h.logger, model.ValidationErrors{"limit": "must be a positive integer"})
			return
		}
		f.Limit = n
	}

	list, err := db.ListRestaurants(r.Context(), h.db, currentUserID(r), f)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *handler) createRestaurant(w http.ResponseWriter, r *http.Request) {
	var in model.RestaurantInput
	if err := decodeJSON(w, r, &in, false); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	rest, err := db.InsertRestaurant(r.Context(), h.db, currentUserID(r), in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, rest)
}

func (h *handler) restaurantStats(w http.ResponseWriter, r *http.Request) {
	stats, err := db.RestaurantStats(r.Context(), h.db, currentUserID(r))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *handler) getRestaurant(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	rest, err := db.GetRestaurant(r.Context(), h.db, currentUserID(r), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, rest)
}

func (h *handler) updateRestaurant(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	var in model.RestaurantInput
	if err := decodeJSON(w, r, &in, false); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	rest, err := db.UpdateRestaurant(r.Context(), h.db, currentUserID(r), id, in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, rest)
}

func (h *handler) deleteRestaurant(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if err := db.DeleteRestaurant(r.Context(), h.db, currentUserID(r), id); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
