// Package service runs the metrics engine against resolved market data and
// optionally submits the result.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"portfolio-metrics/internal/data"
	"portfolio-metrics/internal/metrics"
	"portfolio-metrics/internal/model"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// Submitter delivers a computed report somewhere, returning the raw response.
type Submitter interface {
	Submit(ctx context.Context, payload any) (json.RawMessage, error)
}

// Request is one calculation over a set of positions.
type Request struct {
	Positions      []model.Position
	StartDate      time.Time
	EndDate        time.Time
	TargetCurrency string
}

// Outcome is the result of a calculate-and-submit run.
type Outcome struct {
	Report             *metrics.Report
	SubmissionResponse json.RawMessage
}

// SubmissionError means the report was computed but could not be delivered.
type SubmissionError struct {
	Report *metrics.Report
	Err    error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("submission failed: %v", e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// ErrNoSubmitter is returned by CalculateAndSubmit when no submitter is configured.
var ErrNoSubmitter = errors.New("no submitter configured")

type serviceMetrics struct {
	calculations *prometheus.CounterVec
	duration     prometheus.Histogram
	submissions  *prometheus.CounterVec
}

func newServiceMetrics(reg prometheus.Registerer) *serviceMetrics {
	factory := promauto.With(reg)
	return &serviceMetrics{
		calculations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "portfolio_calculations_total",
			Help: "Metric calculations by outcome.",
		}, []string{"outcome"}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "portfolio_calculation_duration_seconds",
			Help:    "Time spent resolving market data and running the engine.",
			Buckets: prometheus.DefBuckets,
		}),
		submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "portfolio_submissions_total",
			Help: "Report submissions by outcome.",
		}, []string{"outcome"}),
	}
}

// Service wires a market data source, the engine and a submitter.
type Service struct {
	source    data.Source
	submitter Submitter
	engine    *metrics.Engine
	log       zerolog.Logger
	metrics   *serviceMetrics
}

// New creates a service. submitter may be nil when only Calculate is used.
// reg may be nil, in which case metrics are not registered anywhere.
func New(source data.Source, submitter Submitter, log zerolog.Logger, reg prometheus.Registerer) *Service {
	return &Service{
		source:    source,
		submitter: submitter,
		engine:    metrics.New(log),
		log:       log.With().Str("component", "service").Logger(),
		metrics:   newServiceMetrics(reg),
	}
}

// Calculate resolves market data and runs the engine.
func (s *Service) Calculate(ctx context.Context, req Request) (*metrics.Report, error) {
	began := time.Now()
	report, err := s.calculate(ctx, req)
	s.metrics.duration.Observe(time.Since(began).Seconds())
	s.metrics.calculations.WithLabelValues(outcomeLabel(err)).Inc()
	return report, err
}

func (s *Service) calculate(ctx context.Context, req Request) (*metrics.Report, error) {
	target := strings.ToUpper(req.TargetCurrency)
	in := model.Inputs{
		Positions:      req.Positions,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		TargetCurrency: target,
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if req.EndDate.Before(req.StartDate) {
		return nil, &model.ValidationError{Field: "end_date", Reason: "must not be before start_date"}
	}

	md, err := s.source.MarketData(ctx, req.Positions, req.StartDate, req.EndDate, target)
	if err != nil {
		return nil, fmt.Errorf("resolve market data: %w", err)
	}
	in.FxRates = md.FxRates
	in.Prices = md.Prices

	result, err := s.engine.Run(in)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Int("positions", len(req.Positions)).
		Int("days", len(result.Dates)).
		Str("currency", target).
		Msg("calculation complete")
	return result.Report(), nil
}

// CalculateAndSubmit calculates and then submits the report. A delivery failure is
// returned as *SubmissionError carrying the computed report.
func (s *Service) CalculateAndSubmit(ctx context.Context, req Request) (*Outcome, error) {
	if s.submitter == nil {
		return nil, ErrNoSubmitter
	}
	report, err := s.Calculate(ctx, req)
	if err != nil {
		return nil, err
	}

	resp, err := s.submitter.Submit(ctx, report)
	s.metrics.submissions.WithLabelValues(outcomeLabel(err)).Inc()
	if err != nil {
		s.log.Error().Err(err).Msg("submission failed")
		return nil, &SubmissionError{Report: report, Err: err}
	}
	return &Outcome{Report: report, SubmissionResponse: resp}, nil
}

func outcomeLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
