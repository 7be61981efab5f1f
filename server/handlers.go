package server

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"callforscience/models"
	"callforscience/services"
)

// handleCSV relays the upstream CSV text. One attempt, no retry.
func (s *Server) handleCSV(w http.ResponseWriter, r *http.Request) {
	body, err := s.source.Fetch(r.Context())
	if err != nil {
		s.logger.Error("[proxy] CSV fetch failed: %v", err)
		s.writeError(w, http.StatusInternalServerError, "CSV unavailable")
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Cache-Control", fmt.Sprintf("s-maxage=%d, stale-while-revalidate", s.cfg.CacheSMaxAge))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

type listingsResponse struct {
	*models.Page
	Lang string `json:"lang"`
}

// handleListings returns one filtered page as JSON.
func (s *Server) handleListings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	criteria, err := services.NewCriteria(criteriaInput(q, Lang(r)))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	req, err := pageRequest(q, s.defaultPageSize())
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	snap, err := s.catalog.Load(r.Context())
	if err != nil {
		s.logger.Error("[api] Dataset load failed: %v", err)
		s.writeError(w, http.StatusInternalServerError, "CSV unavailable")
		return
	}

	page := services.Paginate(services.Filter(snap.Listings, criteria, s.now()), req)
	s.writeJSON(w, http.StatusOK, listingsResponse{Page: page, Lang: criteria.Lang})
}

// handleTopics returns the autocomplete suggestions for the active language.
func (s *Server) handleTopics(w http.ResponseWriter, r *http.Request) {
	snap, err := s.catalog.Load(r.Context())
	if err != nil {
		s.logger.Error("[api] Dataset load failed: %v", err)
		s.writeError(w, http.StatusInternalServerError, "CSV unavailable")
		return
	}
	topics := services.TopicSuggestions(snap.Raw, Lang(r))
	if topics == nil {
		topics = []string{}
	}
	s.writeJSON(w, http.StatusOK, topics)
}

// handleIndex renders the card grid. A failed load renders an empty grid.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	lang := Lang(r)
	q := r.URL.Query()
	in := criteriaInput(q, lang)
	criteria := lenientCriteria(in)

	req, err := pageRequest(q, s.defaultPageSize())
	if err != nil {
		req = services.PageRequest{Page: 1, Size: s.defaultPageSize()}
	}

	var (
		listings []*models.Listing
		rows     []*models.RawListing
	)
	snap, err := s.catalog.Load(r.Context())
	if err != nil {
		s.logger.Warn("[page] Dataset load failed, rendering empty grid: %v", err)
	} else {
		listings, rows = snap.Listings, snap.Raw
	}

	filtered := services.Filter(listings, criteria, s.now())
	view := s.buildView(lang, in, criteria, services.Paginate(filtered, req), services.TopicSuggestions(rows, lang))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, "index.html", view); err != nil {
		s.logger.Error("[page] Template exec error: %v", err)
	}
}

func (s *Server) defaultPageSize() int {
	if services.ValidPageSize(s.cfg.DefaultPageSize) {
		return s.cfg.DefaultPageSize
	}
	return services.DefaultPageSize
}

func criteriaInput(q url.Values, lang string) services.CriteriaInput {
	return services.CriteriaInput{
		Quartile: q.Get("cuartil"),
		Abstract: q.Get("resumen"),
		MaxFee:   q.Get("pago"),
		Topic:    q.Get("tematica"),
		Lang:     lang,
	}
}

// lenientCriteria keeps every field that validates on its own and drops the rest.
func lenientCriteria(in services.CriteriaInput) models.Criteria {
	c, err := services.NewCriteria(in)
	if err == nil {
		return c
	}
	c, _ = services.NewCriteria(services.CriteriaInput{Topic: in.Topic, Lang: in.Lang})
	if v, err := services.NewCriteria(services.CriteriaInput{Quartile: in.Quartile}); err == nil {
		c.Quartile = v.Quartile
	}
	if v, err := services.NewCriteria(services.CriteriaInput{Abstract: in.Abstract}); err == nil {
		c.Abstract = v.Abstract
	}
	if v, err := services.NewCriteria(services.CriteriaInput{MaxFee: in.MaxFee}); err == nil {
		c.MaxFee = v.MaxFee
	}
	return c
}

func pageRequest(q url.Values, defaultSize int) (services.PageRequest, error) {
	page, size := 1, defaultSize
	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return services.PageRequest{}, fmt.Errorf("%w: page %q", models.ErrInvalidCriteria, v)
		}
		page = n
	}
	if v := q.Get("perPage"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return services.PageRequest{}, fmt.Errorf("%w: perPage %q", models.ErrInvalidCriteria, v)
		}
		size = n
	}
	return services.NewPageRequest(page, size)
}
