package v1

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskbalance/backend/internal/currency"
	"github.com/taskbalance/backend/internal/httputil"
	"github.com/taskbalance/backend/internal/models"
	"github.com/taskbalance/backend/internal/rates"
)

// RegisterRateRoutes registers the routes for exchange rates with the
// RouterGroup that is passed.
func RegisterRateRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", httputil.OptionsGetPatch)
		r.GET("", GetRates)
		r.PATCH("", UpdateRateSettings)
	}
	{
		r.OPTIONS("/refresh", httputil.OptionsPost)
		r.POST("/refresh", RefreshRates)
	}
}

// RateData is the exchange rate configuration together with the stored
// rate table.
type RateData struct {
	BaseCurrency   currency.Code      `json:"baseCurrency" example:"UYU"`                    // Currency that amounts are normalized to
	RatesUpdatedAt time.Time          `json:"ratesUpdatedAt" example:"2026-08-31T06:00:00Z"` // Last successful rate refresh
	Stale          bool               `json:"stale" example:"false"`                         // Whether the table is due for a refresh
	Rates          currency.RateTable `json:"rates"`                                         // Pivot units per unit of each currency
}

type RateResponse struct {
	Error *string   `json:"error" example:"the exchange rate provider is currently not available"` // The error, if any occurred
	Data  *RateData `json:"data"`                                                                  // The settings and the rate table
}

type RateSettingsEditable struct {
	BaseCurrency currency.Code `json:"baseCurrency" example:"USD"` // Currency that amounts are normalized to
}

// @Summary		Get exchange rates
// @Description	Returns the exchange rate settings and the stored rate table
// @Tags			Rates
// @Produce		json
// @Success		200	{object}	RateResponse
// @Failure		500	{object}	RateResponse
// @Router			/v1/rates [get]
func GetRates(c *gin.Context) {
	settings, err := models.Settings(models.DB)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), RateResponse{Error: &e})
		return
	}

	table, err := models.Rates(models.DB)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), RateResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, RateResponse{
		Data: &RateData{
			BaseCurrency:   settings.BaseCurrency,
			RatesUpdatedAt: settings.RatesUpdatedAt,
			Stale:          settings.NeedsRefresh(time.Now().In(time.UTC)),
			Rates:          table,
		},
	})
}

// @Summary		Update rate settings
// @Description	Changes the base currency. Stored rates are pivot-relative and stay untouched.
// @Tags			Rates
// @Accept			json
// @Produce		json
// @Success		200			{object}	RateResponse
// @Failure		400			{object}	RateResponse
// @Failure		500			{object}	RateResponse
// @Param			settings	body		RateSettingsEditable	true	"Settings"
// @Router			/v1/rates [patch]
func UpdateRateSettings(c *gin.Context) {
	var data RateSettingsEditable
	err := httputil.BindData(c, &data)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), RateResponse{Error: &e})
		return
	}

	err = models.SetBaseCurrency(models.DB, data.BaseCurrency)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), RateResponse{Error: &e})
		return
	}

	GetRates(c)
}

// @Summary		Refresh exchange rates
// @Description	Fetches a fresh rate table from the configured provider. When the provider is unavailable or returns an invalid table, the stored rates are kept.
// @Tags			Rates
// @Produce		json
// @Success		200	{object}	RateResponse
// @Failure		502	{object}	RateResponse
// @Router			/v1/rates/refresh [post]
func RefreshRates(c *gin.Context) {
	client := rates.NewClient(os.Getenv("RATES_URL"))

	err := rates.Refresh(c.Request.Context(), models.DB, client, time.Now().In(time.UTC))
	if err != nil {
		e := err.Error()
		c.JSON(status(err), RateResponse{Error: &e})
		return
	}

	GetRates(c)
}
