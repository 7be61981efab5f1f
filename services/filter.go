package services

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"callforscience/models"
)

// Supported language codes. Spanish is the source language of the dataset.
const (
	LangES = "es"
	LangEN = "en"
)

// NormaliseLang maps any input to a supported language code, defaulting to Spanish.
func NormaliseLang(lang string) string {
	if strings.EqualFold(strings.TrimSpace(lang), LangEN) {
		return LangEN
	}
	return LangES
}

// CriteriaInput is the unvalidated, string-typed form of the filter controls.
type CriteriaInput struct {
	Quartile string
	Abstract string
	MaxFee   string
	Topic    string
	Lang     string
}

// NewCriteria validates in against the closed option sets and returns immutable criteria.
func NewCriteria(in CriteriaInput) (models.Criteria, error) {
	c := models.Criteria{
		Topic: strings.TrimSpace(in.Topic),
		Lang:  NormaliseLang(in.Lang),
	}

	if q := strings.TrimSpace(in.Quartile); q != "" {
		if !contains(models.Quartiles, q) {
			return models.Criteria{}, fmt.Errorf("%w: quartile %q", models.ErrInvalidCriteria, q)
		}
		c.Quartile = q
	}

	if a := strings.TrimSpace(in.Abstract); a != "" {
		matched := ""
		for _, opt := range models.AbstractOptions {
			if fold(LangES, opt) == fold(LangES, a) {
				matched = opt
				break
			}
		}
		if matched == "" {
			return models.Criteria{}, fmt.Errorf("%w: abstract %q", models.ErrInvalidCriteria, a)
		}
		c.Abstract = matched
	}

	if f := strings.TrimSpace(in.MaxFee); f != "" {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return models.Criteria{}, fmt.Errorf("%w: max fee %q", models.ErrInvalidCriteria, f)
		}
		c.MaxFee = &v
	}

	return c, nil
}

// Filter returns the listings that are still open at now and match every set
// criterion. Source order is preserved and the input is never modified.
func Filter(listings []*models.Listing, c models.Criteria, now time.Time) []*models.Listing {
	lang := NormaliseLang(c.Lang)
	lower := cases.Lower(tagFor(lang))
	topic := lower.String(c.Topic)
	abstract := strings.TrimSpace(lower.String(c.Abstract))

	out := make([]*models.Listing, 0, len(listings))
	for _, l := range listings {
		if !IsOpen(l, now) {
			continue
		}
		if c.Quartile != "" && l.Quartile != c.Quartile {
			continue
		}
		if c.Abstract != "" && strings.TrimSpace(lower.String(l.Abstract)) != abstract {
			continue
		}
		if c.MaxFee != nil && l.FeeKnown && l.FeeAmount > *c.MaxFee {
			continue
		}
		if topic != "" && !strings.Contains(lower.String(TopicsFor(l, lang)), topic) {
			continue
		}
		out = append(out, l)
	}
	return out
}

// IsOpen reports whether l passes the baseline checks: journal and source
// topics present, and a valid deadline not strictly before now.
func IsOpen(l *models.Listing, now time.Time) bool {
	if l == nil || l.Journal == "" || l.Topics == "" {
		return false
	}
	if l.Deadline.IsZero() {
		return false
	}
	return !l.Deadline.Before(now)
}

// TopicsFor returns the topic string shown for lang.
func TopicsFor(l *models.Listing, lang string) string {
	if NormaliseLang(lang) == LangEN {
		return l.TopicsEN
	}
	return l.Topics
}

// Keywords splits the topic string for lang into trimmed, non-empty keywords.
func Keywords(l *models.Listing, lang string) []string {
	var out []string
	for _, kw := range strings.Split(TopicsFor(l, lang), ";") {
		if kw = strings.TrimSpace(kw); kw != "" {
			out = append(out, kw)
		}
	}
	return out
}

// IsAbstractOnly reports whether the call only asks for an abstract.
func IsAbstractOnly(l *models.Listing) bool {
	return strings.TrimSpace(fold(LangES, l.Abstract)) == "sí"
}

func tagFor(lang string) language.Tag {
	if lang == LangEN {
		return language.English
	}
	return language.Spanish
}

func fold(lang, s string) string {
	return cases.Lower(tagFor(lang)).String(s)
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
