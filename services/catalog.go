package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"callforscience/models"
	"callforscience/utils"
)

// Source yields the raw CSV text. *upstream.Fetcher satisfies it.
type Source interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// Snapshot is one load of the dataset. It is read-only once returned.
// Raw holds every parsed row, quarantined ones included.
type Snapshot struct {
	Rows        int
	Raw         []*models.RawListing
	Listings    []*models.Listing
	Quarantined []*models.Quarantined
	LoadedAt    time.Time
}

// Catalog loads and cleans the dataset on demand. Nothing is cached between loads.
type Catalog struct {
	source  Source
	parser  *Parser
	cleaner *Cleaner
	logger  *utils.Logger
}

// NewCatalog wires a Catalog around source.
func NewCatalog(source Source, logger *utils.Logger) *Catalog {
	return &Catalog{
		source:  source,
		parser:  NewParser(logger),
		cleaner: NewCleaner(logger),
		logger:  logger,
	}
}

// Load fetches, parses and cleans the CSV.
func (c *Catalog) Load(ctx context.Context) (*Snapshot, error) {
	body, err := c.source.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return c.FromBytes(body)
}

// FromBytes parses and cleans already-fetched CSV text.
func (c *Catalog) FromBytes(body []byte) (*Snapshot, error) {
	raw, err := c.parser.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	listings, quarantined := c.cleaner.Clean(raw)
	return &Snapshot{
		Rows:        len(raw),
		Raw:         raw,
		Listings:    listings,
		Quarantined: quarantined,
		LoadedAt:    time.Now(),
	}, nil
}
