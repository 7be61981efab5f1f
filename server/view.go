package server

import (
	"net/url"
	"strconv"

	"callforscience/models"
	"callforscience/services"
)

type chip struct {
	Text string
	URL  string
}

type card struct {
	*models.Listing
	Keywords     []chip
	Deadline     string
	AbstractOnly bool
}

type pageView struct {
	s *Server

	Lang      string
	OtherLang string
	Input     services.CriteriaInput
	Criteria  models.Criteria

	Quartiles       []string
	AbstractOptions []string
	PageSizes       []int

	Page        *models.Page
	Cards       []card
	Suggestions []string
	Year        int

	ToggleURL string
	ClearURL  string
	PrevURL   string
	NextURL   string
}

// T translates key for the page language.
func (v *pageView) T(key string) string { return v.s.bundle.T(v.Lang, key) }

// Found is the translated "N calls found" line.
func (v *pageView) Found() string { return v.s.bundle.Tf(v.Lang, "encontrados", v.Page.Total) }

// FeeValue echoes the fee ceiling back into its input, or "" when none applies.
func (v *pageView) FeeValue() string {
	if v.Criteria.MaxFee == nil {
		return ""
	}
	return v.Input.MaxFee
}

func (s *Server) buildView(lang string, in services.CriteriaInput, c models.Criteria, page *models.Page, suggestions []string) *pageView {
	base := queryFor(c, in, page.PerPage)

	v := &pageView{
		s:               s,
		Lang:            lang,
		OtherLang:       s.bundle.Other(lang),
		Input:           in,
		Criteria:        c,
		Quartiles:       models.Quartiles,
		AbstractOptions: models.AbstractOptions,
		PageSizes:       services.PageSizes,
		Page:            page,
		Suggestions:     suggestions,
		Year:            s.now().Year(),
	}

	toggle := cloneValues(base)
	toggle.Set("page", strconv.Itoa(page.Page))
	toggle.Set("lang", v.OtherLang)
	v.ToggleURL = "/?" + toggle.Encode()

	cleared := url.Values{}
	cleared.Set("perPage", strconv.Itoa(page.PerPage))
	v.ClearURL = "/?" + cleared.Encode()

	if page.HasPrev() {
		prev := cloneValues(base)
		prev.Set("page", strconv.Itoa(page.Page-1))
		v.PrevURL = "/?" + prev.Encode()
	}
	if page.HasNext() {
		next := cloneValues(base)
		next.Set("page", strconv.Itoa(page.Page+1))
		v.NextURL = "/?" + next.Encode()
	}

	v.Cards = make([]card, 0, len(page.Items))
	for _, l := range page.Items {
		cd := card{
			Listing:      l,
			Deadline:     s.bundle.FormatDeadline(l.DeadlineRaw, lang),
			AbstractOnly: services.IsAbstractOnly(l),
		}
		for _, kw := range services.Keywords(l, lang) {
			q := cloneValues(base)
			q.Set("tematica", kw)
			cd.Keywords = append(cd.Keywords, chip{Text: kw, URL: "/?" + q.Encode()})
		}
		v.Cards = append(v.Cards, cd)
	}
	return v
}

// queryFor encodes the active criteria so links keep them. The fee is echoed
// as typed, since only a parsable value ever reaches the criteria.
func queryFor(c models.Criteria, in services.CriteriaInput, perPage int) url.Values {
	q := url.Values{}
	if c.Quartile != "" {
		q.Set("cuartil", c.Quartile)
	}
	if c.Abstract != "" {
		q.Set("resumen", c.Abstract)
	}
	if c.MaxFee != nil {
		q.Set("pago", in.MaxFee)
	}
	if c.Topic != "" {
		q.Set("tematica", c.Topic)
	}
	q.Set("perPage", strconv.Itoa(perPage))
	return q
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}
