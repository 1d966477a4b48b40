package models

import "time"

// Weather is the condensed current-conditions report.
type Weather struct {
	Location    string  `json:"location"`
	Description string  `json:"description"`
	Temperature float64 `json:"temperature"`
	Humidity    int     `json:"humidity"`
}

type ArticleSource struct {
	Name string `json:"name"`
}

type Article struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	URL         string        `json:"url"`
	Source      ArticleSource `json:"source"`
	PublishedAt time.Time     `json:"publishedAt"`
}

type Season struct {
	Months []string `json:"months"`
	Crops  []string `json:"crops"`
}

// CalendarEntry is the sowing calendar for one state.
type CalendarEntry struct {
	State  string `json:"state"`
	Kharif Season `json:"kharif"`
	Rabi   Season `json:"rabi"`
}

// PriceRecord is one mandi price observation. Prices arrive as strings.
type PriceRecord struct {
	State       string `json:"state"`
	District    string `json:"district"`
	Market      string `json:"market"`
	Commodity   string `json:"commodity"`
	Variety     string `json:"variety"`
	ArrivalDate string `json:"arrival_date"`
	MinPrice    Price  `json:"min_price"`
	MaxPrice    Price  `json:"max_price"`
	ModalPrice  Price  `json:"modal_price"`
	Unit        string `json:"unit,omitempty"`
}

func (r PriceRecord) Key() string   { return r.Market + "/" + r.Commodity + "/" + r.ArrivalDate }
func (r PriceRecord) Label() string { return r.Commodity }
func (r PriceRecord) Group() string { return r.State }
