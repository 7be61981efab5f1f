package services

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"callforscience/models"
	"callforscience/utils"
)

var (
	// feeRegexp captures the leading number of a fee cell, the way a lenient float parse would.
	feeRegexp = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`)

	errEmptyDeadline   = errors.New("empty deadline")
	errInvalidDeadline = errors.New("invalid deadline")
)

// Cleaner transforms RawListings into validated Listings.
type Cleaner struct {
	logger *utils.Logger
}

// NewCleaner creates a Cleaner with the given logger.
func NewCleaner(logger *utils.Logger) *Cleaner {
	return &Cleaner{logger: logger}
}

// Clean converts raw rows into listings. Rows without a journal name, without
// source-language topics or with an unparsable deadline are quarantined.
// Source order is preserved.
func (c *Cleaner) Clean(raw []*models.RawListing) ([]*models.Listing, []*models.Quarantined) {
	result := make([]*models.Listing, 0, len(raw))
	var quarantined []*models.Quarantined

	for _, r := range raw {
		reason := ""
		journal := normaliseText(r.Get(models.ColumnJournal))
		topics := strings.TrimSpace(r.Get(models.ColumnTopics))
		deadlineRaw := strings.TrimSpace(r.Get(models.ColumnDeadline))
		deadline, err := ParseDeadline(deadlineRaw)

		switch {
		case journal == "":
			reason = "empty journal name"
		case topics == "":
			reason = "empty topics"
		case err != nil:
			reason = err.Error()
		}
		if reason != "" {
			c.logger.Warn("[cleaner] Quarantining row at line %d: %s", r.Line, reason)
			quarantined = append(quarantined, &models.Quarantined{Line: r.Line, Reason: reason, Raw: r})
			continue
		}

		fee := strings.TrimSpace(r.Get(models.ColumnFee))
		amount, known := ParseFee(fee)
		if fee != "" && !known {
			c.logger.Debug("[cleaner] Non-numeric fee %q at line %d treated as unknown", fee, r.Line)
		}

		result = append(result, &models.Listing{
			Journal:     journal,
			CFPName:     normaliseText(r.Get(models.ColumnCFPName)),
			Topics:      topics,
			TopicsEN:    strings.TrimSpace(r.Get(models.ColumnTopicsEN)),
			Quartile:    strings.TrimSpace(r.Get(models.ColumnQuartile)),
			Abstract:    strings.TrimSpace(r.Get(models.ColumnAbstract)),
			Fee:         fee,
			FeeAmount:   amount,
			FeeKnown:    known,
			DeadlineRaw: deadlineRaw,
			Deadline:    deadline,
			Link:        strings.TrimSpace(r.Get(models.ColumnLink)),
			Line:        r.Line,
		})
	}

	c.logger.Info("[cleaner] Cleaned %d → %d listings (quarantined %d)",
		len(raw), len(result), len(quarantined))
	return result, quarantined
}

// ParseDeadline reads a day/month/year deadline as midnight UTC of that day.
// An ISO year-month-day string is accepted as well. Out-of-range days such as
// 31/02 are rejected rather than rolled over.
func ParseDeadline(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errEmptyDeadline
	}

	var y, m, d int
	var err error
	if parts := strings.Split(raw, "/"); len(parts) == 3 {
		d, m, y, err = atoi3(parts[0], parts[1], parts[2])
	} else if parts := strings.Split(raw, "-"); len(parts) == 3 {
		y, m, d, err = atoi3(parts[0], parts[1], parts[2])
	} else {
		return time.Time{}, errInvalidDeadline
	}
	if err != nil || y <= 0 || m < 1 || m > 12 || d < 1 {
		return time.Time{}, errInvalidDeadline
	}

	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Day() != d || int(t.Month()) != m {
		return time.Time{}, errInvalidDeadline
	}
	return t, nil
}

// ParseFee extracts the leading number of a fee cell. "500", "500 USD" and
// "1e3" parse; "", "$500" and "gratis" do not.
func ParseFee(raw string) (float64, bool) {
	match := feeRegexp.FindString(strings.TrimSpace(raw))
	if match == "" {
		return 0, false
	}
	val, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	return val, true
}

func atoi3(a, b, c string) (int, int, int, error) {
	x, err := strconv.Atoi(strings.TrimSpace(a))
	if err != nil {
		return 0, 0, 0, err
	}
	y, err := strconv.Atoi(strings.TrimSpace(b))
	if err != nil {
		return 0, 0, 0, err
	}
	z, err := strconv.Atoi(strings.TrimSpace(c))
	if err != nil {
		return 0, 0, 0, err
	}
	return x, y, z, nil
}

// normaliseText strips leading/trailing whitespace and collapses internal whitespace.
func normaliseText(s string) string {
	s = strings.TrimSpace(s)
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r)
	})
	return strings.Join(fields, " ")
}
