package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskbalance/backend/internal/httputil"
	"github.com/taskbalance/backend/internal/middleware"
	"github.com/taskbalance/backend/internal/models"
)

// RegisterExportRoutes registers the routes for data export with the
// RouterGroup that is passed.
func RegisterExportRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", httputil.OptionsGet)
	r.GET("", GetExport)
}

type ExportResponse struct {
	Error *string            `json:"error" example:"there is an error in your request"` // The error, if any occurred
	Data  *models.ExportData `json:"data"`                                              // Everything the user owns
}

// @Summary		Export user data
// @Description	Returns a full dump of the authenticated user's data for backup or migration
// @Tags			Export
// @Produce		json
// @Success		200	{object}	ExportResponse
// @Failure		500	{object}	ExportResponse
// @Router			/v1/export [get]
func GetExport(c *gin.Context) {
	data, err := models.Export(models.DB, middleware.UserID(c))
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExportResponse{
			Error: &e,
		})
		return
	}

	c.JSON(http.StatusOK, ExportResponse{Data: &data})
}
