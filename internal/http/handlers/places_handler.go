// README: Places handlers backing the origin/destination autocomplete.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tripcost/internal/maps"
)

type PlacesLookup interface {
	Autocomplete(ctx context.Context, input string) ([]maps.Suggestion, error)
	Details(ctx context.Context, placeID, fallback string) (maps.Place, error)
}

type PlacesHandler struct {
	places PlacesLookup
}

func NewPlacesHandler(places PlacesLookup) *PlacesHandler {
	return &PlacesHandler{places: places}
}

func (h *PlacesHandler) Autocomplete(c *gin.Context) {
	out, err := h.places.Autocomplete(c.Request.Context(), c.Query("input"))
	if err != nil {
		_ = c.Error(err)
		writeError(c, http.StatusBadGateway, "No se pudieron obtener sugerencias")
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"suggestions": out})
}

func (h *PlacesHandler) Details(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		writeError(c, http.StatusBadRequest, "missing place id")
		return
	}
	place, err := h.places.Details(c.Request.Context(), id, c.Query("description"))
	if errors.Is(err, maps.ErrPlaceNotFound) {
		writeError(c, http.StatusNotFound, "Lugar no encontrado")
		return
	}
	if err != nil {
		_ = c.Error(err)
		writeError(c, http.StatusBadGateway, "No se pudo obtener el lugar")
		return
	}
	writeJSON(c, http.StatusOK, place)
}
