package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"tastebook/internal/db"
	"tastebook/internal/model"
)

// DefaultPromoteRating is given to a promoted restaurant when the request
// does not carry a rating.
const DefaultPromoteRating = 3

func (h *handler) listWishlist(w http.ResponseWriter, r *http.Request) {
	items, err := db.ListWishlist(r.Context(), h.db, currentUserID(r))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *handler) wishlistByPriority(w http.ResponseWriter, r *http.Request) {
	p := model.Priority(chi.URLParam(r, "priority"))
	if !p.Valid() {
		writeError(w, r, h.logger, model.ValidationErrors{"priority": "must be one of low, medium, high"})
		return
	}
	items, err := db.ListWishlistByPriority(r.Context(), h.db, currentUserID(r), p)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *handler) wishlistCount(w http.ResponseWriter, r *http.Request) {
	n, err := db.CountWishlist(r.Context(), h.db, currentUserID(r))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, model.WishlistCount{Count: n})
}

func (h *handler) createWishlistItem(w http.ResponseWriter, r *http.Request) {
	var in model.WishlistInput
	if err := decodeJSON(w, r, &in, false); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	item, err := db.InsertWishlistItem(r.Context(), h.db, currentUserID(r), in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *handler) getWishlistItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	item, err := db.GetWishlistItem(r.Context(), h.db, currentUserID(r), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *handler) updateWishlistItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	var in model.WishlistInput
	if err := decodeJSON(w, r, &in, false); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	item, err := db.UpdateWishlistItem(r.Context(), h.db, currentUserID(r), id, in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *handler) deleteWishlistItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if err := db.DeleteWishlistItem(r.Context(), h.db, currentUserID(r), id); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type promoteRequest struct {
	Rating int `json:"rating"`
}

func (h *handler) promoteWishlistItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	var req promoteRequest
	if err := decodeJSON(w, r, &req, true); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if req.Rating == 0 {
		req.Rating = DefaultPromoteRating
	}
	if req.Rating < model.RatingMin || req.Rating > model.RatingMax {
		writeError(w, r, h.logger, model.ValidationErrors{"rating": "must be between 1 and 5"})
		return
	}

	rest, err := db.PromoteWishlistItem(r.Context(), h.db, currentUserID(r), id, req.Rating)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, rest)
}
