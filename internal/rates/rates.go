// Package rates fetches exchange rates from an external provider and
// feeds them into the stored rate table.
package rates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/taskbalance/backend/internal/currency"
	"github.com/taskbalance/backend/internal/models"
	"gorm.io/gorm"
)

// ErrProviderUnavailable is returned when the rate provider cannot be
// reached or does not answer with a usable rate table.
var ErrProviderUnavailable = errors.New("the exchange rate provider is currently not available")

// Client fetches rate tables from a provider endpoint.
//
// The provider answers GET requests with a JSON document of the form
//
//	{"base": "UYU", "rates": {"USD": "42.5", "EUR": "46.8"}}
//
// where each rate is the amount of pivot currency one unit of the
// keyed currency is worth.
type Client struct {
	URL  string
	HTTP *http.Client
}

func NewClient(url string) Client {
	return Client{
		URL: url,
		HTTP: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type providerResponse struct {
	Base  string                     `json:"base"`
	Rates map[string]decimal.Decimal `json:"rates"`
}

// Fetch downloads the current rate table from the provider. The result
// is validated, a provider answer that misses a currency or reports a
// non-positive rate is an error.
func (c Client) Fetch(ctx context.Context) (currency.RateTable, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrProviderUnavailable, err)
	}

	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrProviderUnavailable, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrProviderUnavailable, res.StatusCode)
	}

	var body providerResponse
	err = json.NewDecoder(res.Body).Decode(&body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrProviderUnavailable, err)
	}

	table := currency.RateTable{
		currency.Pivot: decimal.NewFromInt(1),
	}
	for code, rate := range body.Rates {
		if currency.Code(code).Valid() {
			table[currency.Code(code)] = rate
		}
	}

	err = table.Validate()
	if err != nil {
		return nil, err
	}

	return table, nil
}

// Refresh fetches a new rate table and swaps it in. When the fetch or
// validation fails, the stored table stays untouched and the error is
// returned.
func Refresh(ctx context.Context, db *gorm.DB, client Client, now time.Time) error {
	table, err := client.Fetch(ctx)
	if err != nil {
		return err
	}

	err = models.ReplaceRates(db, table, now)
	if err != nil {
		return err
	}

	log.Info().Time("updatedAt", now).Msg("exchange rates refreshed")
	return nil
}

// RefreshIfStale refreshes the rate table when the stored one is older
// than the staleness cutoff. It reports whether a refresh was
// attempted.
func RefreshIfStale(ctx context.Context, db *gorm.DB, client Client, now time.Time) (bool, error) {
	settings, err := models.Settings(db)
	if err != nil {
		return false, err
	}

	if !settings.NeedsRefresh(now) {
		return false, nil
	}

	return true, Refresh(ctx, db, client, now)
}

// Run periodically checks for stale rates until the context is
// canceled. Failures are logged and retried on the next tick, the
// stored rates keep serving in the meantime.
func Run(ctx context.Context, db *gorm.DB, client Client, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			_, err := RefreshIfStale(ctx, db, client, now.In(time.UTC))
			if err != nil {
				log.Warn().Err(err).Msg("exchange rate refresh failed, keeping stored rates")
			}
		}
	}
}
