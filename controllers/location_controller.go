package controllers

import (
	"errors"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ByteFlowWebAgency/buckeye-bin-cleaning/services"
)

// LocationController validates whether an address falls inside the service
// area.
type LocationController struct {
	Geocoder services.Geocoder
	Area     *services.ServiceArea
	Logger   *zap.Logger
}

type locationRequest struct {
	Address string `json:"address"`
}

func (lc *LocationController) ValidateLocation(c *gin.Context) {
	var req locationRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Address == "" {
		respondError(c, lc.Logger, http.StatusBadRequest, "Address is required", err)
		return
	}

	result, err := lc.Geocoder.Geocode(c.Request.Context(), req.Address)
	if err != nil {
		var geoErr *services.GeocodeError
		if errors.As(err, &geoErr) && geoErr.NoResults() {
			respondError(c, lc.Logger, http.StatusBadRequest,
				"Invalid address. Please include street, city, and state.", err)
			return
		}
		respondError(c, lc.Logger, http.StatusInternalServerError,
			"Error validating location. Please try again.", err)
		return
	}

	eval := lc.Area.Evaluate(result.Latitude, result.Longitude)

	c.JSON(http.StatusOK, gin.H{
		"success":             true,
		"isWithinServiceArea": eval.WithinServiceArea,
		"distance":            int(math.Round(eval.DistanceMiles)),
		"direction":           eval.Direction,
		"formattedAddress":    result.FormattedAddress,
		"serviceCenter":       lc.Area.CenterName,
		"message":             eval.Message,
	})
}
