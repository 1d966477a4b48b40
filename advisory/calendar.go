package advisory

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"agroverse/catalog"
	"agroverse/errx"
	"agroverse/models"
)

const NoCalendarMessage = "No data found for this state."

var (
	//go:embed data/crop_calendar.json
	calendarJSON []byte
	//go:embed data/crop_prices.json
	pricesJSON []byte

	loadOnce  sync.Once
	calendar  []models.CalendarEntry
	prices    []models.PriceRecord
	loadError error
)

func load() error {
	loadOnce.Do(func() {
		if err := json.Unmarshal(calendarJSON, &calendar); err != nil {
			loadError = fmt.Errorf("crop calendar: %w", err)
			return
		}
		if err := json.Unmarshal(pricesJSON, &prices); err != nil {
			loadError = fmt.Errorf("crop prices: %w", err)
		}
	})
	return loadError
}

// States lists the states the calendar covers, sorted.
func States() []string {
	if load() != nil {
		return nil
	}
	var out []string
	for _, e := range calendar {
		if e.State != "" {
			out = append(out, e.State)
		}
	}
	slices.Sort(out)
	return out
}

// Calendar returns the sowing calendar entries for state.
func Calendar(state string) ([]models.CalendarEntry, error) {
	if err := load(); err != nil {
		return nil, err
	}
	var out []models.CalendarEntry
	for _, e := range calendar {
		if e.State == state {
			out = append(out, e)
		}
	}
	if len(out) == 0 {
		return nil, errx.Invalid(NoCalendarMessage)
	}
	return out, nil
}

// Prices filters the price records. An empty state or commodity matches all.
func Prices(state, commodity string) []models.PriceRecord {
	if load() != nil {
		return nil
	}
	out := make([]models.PriceRecord, 0, len(prices))
	for _, r := range prices {
		if state != "" && r.State != state {
			continue
		}
		if commodity != "" && r.Commodity != commodity {
			continue
		}
		out = append(out, r)
	}
	return out
}

func PriceStates() []string {
	if load() != nil {
		return nil
	}
	return catalog.Categories(prices, models.PriceRecord.Group)
}

func PriceCommodities() []string {
	if load() != nil {
		return nil
	}
	return catalog.Categories(prices, models.PriceRecord.Label)
}
