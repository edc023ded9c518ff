// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tripcost/internal/http/middleware"
	"tripcost/internal/maps"
	"tripcost/internal/modules/savedtrip"
	"tripcost/internal/modules/trip"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

// tripErrorStatus maps calculation errors to a status and a message for the user.
func tripErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, trip.ErrInvalidConsumption):
		return http.StatusBadRequest, "Por favor ingresa un consumo válido del vehículo"
	case errors.Is(err, trip.ErrMissingEndpoints):
		return http.StatusBadRequest, "Por favor selecciona origen y destino"
	case errors.Is(err, trip.ErrSameLocation):
		return http.StatusBadRequest, "El origen y el destino deben ser distintos"
	case errors.Is(err, trip.ErrMissingTravelTime):
		return http.StatusBadRequest, "Indica la fecha y hora del viaje"
	case errors.Is(err, trip.ErrInvalidMode):
		return http.StatusBadRequest, "Modo de viaje inválido"
	case errors.Is(err, trip.ErrInvalidFuelPrice):
		return http.StatusBadRequest, "Por favor ingresa un precio de combustible válido"
	case errors.Is(err, trip.ErrInvalidPassengers):
		return http.StatusBadRequest, "La cantidad de pasajeros debe ser al menos 1"
	case errors.Is(err, maps.ErrNoRoute):
		return http.StatusNotFound, "No se encontró ruta entre los puntos seleccionados"
	case errors.Is(err, maps.ErrRouteService):
		return http.StatusBadGateway, "Error al calcular la ruta. Verifica tu API Key y que tenga las APIs habilitadas."
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusGatewayTimeout, "El servicio de rutas no respondió a tiempo. Intenta nuevamente."
	default:
		return http.StatusInternalServerError, "Error al calcular el viaje. Intenta nuevamente."
	}
}

func writeTripError(c *gin.Context, err error) {
	status, msg := tripErrorStatus(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	writeError(c, status, msg)
}

func writeSavedTripError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, savedtrip.ErrNotFound):
		writeError(c, http.StatusNotFound, "Viaje guardado no encontrado")
	case errors.Is(err, savedtrip.ErrInvalidTrip):
		writeError(c, http.StatusBadRequest, "Calcula un viaje con origen y destino antes de guardarlo")
	case errors.Is(err, savedtrip.ErrMissingClient):
		writeError(c, http.StatusBadRequest, "missing client id")
	default:
		_ = c.Error(err)
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

func clientKey(c *gin.Context) string {
	return middleware.CallerClientID(c)
}
