// README: Saved trip handlers; every call works on the caller's own list.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tripcost/internal/modules/savedtrip"
)

type SavedTripHandler struct {
	saved    *savedtrip.Service
	defaults TripDefaults
}

func NewSavedTripHandler(saved *savedtrip.Service, defaults TripDefaults) *SavedTripHandler {
	return &SavedTripHandler{saved: saved, defaults: defaults}
}

type savedTripView struct {
	savedtrip.SavedTrip
	ShareURL string `json:"share_url"`
}

func (h *SavedTripHandler) view(t savedtrip.SavedTrip) savedTripView {
	return savedTripView{SavedTrip: t, ShareURL: h.defaults.shareURL(t.Params)}
}

func (h *SavedTripHandler) List(c *gin.Context) {
	trips, err := h.saved.List(c.Request.Context(), clientKey(c))
	if err != nil {
		writeSavedTripError(c, err)
		return
	}
	out := make([]savedTripView, 0, len(trips))
	for _, t := range trips {
		out = append(out, h.view(t))
	}
	writeJSON(c, http.StatusOK, gin.H{"trips": out})
}

func (h *SavedTripHandler) Get(c *gin.Context) {
	t, err := h.saved.Get(c.Request.Context(), clientKey(c), c.Param("id"))
	if err != nil {
		writeSavedTripError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, h.view(t))
}

type createSavedTripReq struct {
	Name   string  `json:"name"`
	Params tripReq `json:"params"`
}

func (h *SavedTripHandler) Create(c *gin.Context) {
	var req createSavedTripReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	p, err := req.Params.toParams(h.defaults)
	if err != nil {
		writeTripError(c, err)
		return
	}
	t, err := h.saved.Add(c.Request.Context(), clientKey(c), req.Name, p)
	if err != nil {
		writeSavedTripError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, h.view(t))
}

func (h *SavedTripHandler) Delete(c *gin.Context) {
	if err := h.saved.Delete(c.Request.Context(), clientKey(c), c.Param("id")); err != nil {
		writeSavedTripError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
