// README: Vehicle catalog handler.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tripcost/internal/modules/vehicle"
)

type VehicleHandler struct {
	catalog *vehicle.Catalog
}

func NewVehicleHandler(catalog *vehicle.Catalog) *VehicleHandler {
	return &VehicleHandler{catalog: catalog}
}

func (h *VehicleHandler) List(c *gin.Context) {
	writeJSON(c, http.StatusOK, gin.H{"brands": h.catalog.Brands()})
}
