package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"tastebook/internal/model"
	"tastebook/internal/search"
)

type autocompleteRequest struct {
	SearchTerm string `json:"search_term"`
}

type autocompleteResponse struct {
	Suggestions []model.Suggestion `json:"suggestions"`
}

func (h *handler) autocomplete(w http.ResponseWriter, r *http.Request) {
	pool := search.Pool(chi.URLParam(r, "pool"))
	if pool != search.PoolRestaurants && pool != search.PoolWishlist {
		writeErrorStatus(w, http.StatusNotFound, "not found")
		return
	}

	var req autocompleteRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	list, err := h.suggester.Suggest(r.Context(), currentUserID(r), pool, req.SearchTerm)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if list == nil {
		list = []model.Suggestion{}
	}
	writeJSON(w, http.StatusOK, autocompleteResponse{Suggestions: list})
}
