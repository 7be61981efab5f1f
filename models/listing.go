package models

import (
	"errors"
	"time"
)

// CSV header names. The upstream sheet is maintained by hand, so these are load-bearing.
const (
	ColumnJournal  = "revista"
	ColumnTopics   = "tematica"
	ColumnTopicsEN = "tematicaEN"
	ColumnFee      = "pago"
	ColumnQuartile = "cuartil"
	ColumnAbstract = "resumen"
	ColumnDeadline = "deadline"
	ColumnCFPName  = "nombreCFP"
	ColumnLink     = "link"
)

// Columns lists the required header columns in the order they are exported.
var Columns = []string{
	ColumnJournal, ColumnTopics, ColumnTopicsEN, ColumnFee, ColumnQuartile,
	ColumnAbstract, ColumnDeadline, ColumnCFPName, ColumnLink,
}

// Quartiles is the closed set of quartile labels the filter accepts.
var Quartiles = []string{"Q1", "Q2", "Q3"}

// AbstractOptions is the closed set of abstract-required values the filter accepts.
var AbstractOptions = []string{"Sí", "No"}

// ErrInvalidCriteria is returned when a filter value falls outside its closed set.
var ErrInvalidCriteria = errors.New("invalid filter criteria")

// RawListing is one CSV data row keyed by header name, exactly as read.
type RawListing struct {
	Line   int
	Fields map[string]string
}

// Get returns the field for column, or "" when the row does not carry it.
func (r *RawListing) Get(column string) string {
	if r == nil || r.Fields == nil {
		return ""
	}
	return r.Fields[column]
}

// Listing is a validated call for papers. It is never mutated after cleaning.
type Listing struct {
	Journal  string `json:"revista"`
	CFPName  string `json:"nombreCFP"`
	Topics   string `json:"tematica"`
	TopicsEN string `json:"tematicaEN"`
	Quartile string `json:"cuartil"`
	Abstract string `json:"resumen"`

	// Fee is the raw fee text; FeeKnown reports whether FeeAmount was parsed from it.
	Fee       string  `json:"pago"`
	FeeAmount float64 `json:"-"`
	FeeKnown  bool    `json:"-"`

	// DeadlineRaw keeps the source text; Deadline is midnight UTC of that day.
	DeadlineRaw string    `json:"deadline"`
	Deadline    time.Time `json:"-"`
	Link        string    `json:"link"`
	Line        int       `json:"-"`
}

// Quarantined is a CSV row that could not become a Listing.
type Quarantined struct {
	Line   int
	Reason string
	Raw    *RawListing
}

// Criteria is the immutable set of user-selected constraints. Zero values mean "any".
type Criteria struct {
	Quartile string
	Abstract string
	// MaxFee is nil when no ceiling is set.
	MaxFee *float64
	Topic  string
	Lang   string
}

// IsZero reports whether no constraint is set.
func (c Criteria) IsZero() bool {
	return c.Quartile == "" && c.Abstract == "" && c.MaxFee == nil && c.Topic == ""
}

// Cleared returns the criteria with every constraint reset, keeping the language.
func (c Criteria) Cleared() Criteria {
	return Criteria{Lang: c.Lang}
}

// Page is one slice of the filtered listings.
type Page struct {
	Items      []*Listing `json:"items"`
	Total      int        `json:"total"`
	Page       int        `json:"page"`
	PerPage    int        `json:"perPage"`
	TotalPages int        `json:"totalPages"`
}

// HasPrev reports whether a previous page exists.
func (p *Page) HasPrev() bool { return p.Page > 1 }

// HasNext reports whether a following page exists.
func (p *Page) HasNext() bool { return p.Page < p.TotalPages }

// StatsReport holds the computed summary over the cleaned dataset.
type StatsReport struct {
	TotalRows       int
	OpenListings    int
	Quarantined     int
	Expired         int
	ByQuartile      map[string]int
	AbstractOnly    int
	MinFee          float64
	MaxFee          float64
	AverageFee      float64
	FeesKnown       int
	NearestDeadline *Listing
}
