package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"tenderfeed/lib/scrapers"
	"tenderfeed/lib/tender"
	"tenderfeed/lib/tenderstore"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultMaxTenders = 20
	maxTendersCeiling = 200
)

type TendersService struct {
	config Config
	tracer trace.Tracer
}

// GetTenders handles GET /tenders?source=&max_tenders=&save_to=.
func (s TendersService) GetTenders(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.tracer.Start(r.Context(), "GetTenders")
	defer span.End()

	query := r.URL.Query()

	source := query.Get("source")
	if source == "" {
		source = tender.SourceRostender
	}
	span.SetAttributes(attribute.String("source", source))

	maxTenders := defaultMaxTenders
	if raw := query.Get("max_tenders"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxTendersCeiling {
			http.Error(w, "max_tenders must be an integer between 1 and 200", http.StatusBadRequest)
			return
		}
		maxTenders = parsed
	}

	sourceConfig := s.config.Rostender
	if source == tender.SourceB2B {
		sourceConfig = s.config.B2B
	}
	scraper, err := scrapers.New(source, sourceConfig.ClientOptions())
	if errors.Is(err, scrapers.ErrUnknownSource) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to build scraper")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	raw, err := scraper.Fetch(ctx, maxTenders)
	if err != nil {
		// a dead listing page degrades to an empty batch, matching the
		// fetch layer's "absence means skip" policy
		span.RecordError(err)
		slog.ErrorContext(ctx, "fetch failed, responding with empty batch",
			"source", source, "err", err)
		raw = nil
	}

	items, err := tender.NormalizeAll(raw)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "normalization integrity fault")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if saveTo := query.Get("save_to"); saveTo != "" {
		if err := tenderstore.Save(saveTo, raw); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to save csv")
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(items); err != nil {
		span.RecordError(err)
	}
}
