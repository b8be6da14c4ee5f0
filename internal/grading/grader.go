package grading

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var (
	gradingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "classboard",
		Subsystem: "grading",
		Name:      "duration_seconds",
		Help:      "End-to-end duration of one grading run",
	})

	gradingTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "classboard",
		Subsystem: "grading",
		Name:      "runs_total",
		Help:      "Grading runs by outcome",
	}, []string{"outcome"})
)

// Grader is the single entry point invoked when a student submits an
// assignment: extraction, then scoring. Each stage absorbs its own failures,
// so Grade cannot fail and always yields a well-formed Result.
type Grader struct {
	extractor *Extractor
	scorer    *Scorer
	tracer    trace.Tracer
	logger    zerolog.Logger
}

// NewGrader wires the extraction cascade and the scorer into a pipeline.
func NewGrader(extractor *Extractor, scorer *Scorer, logger zerolog.Logger) *Grader {
	return &Grader{
		extractor: extractor,
		scorer:    scorer,
		tracer:    otel.Tracer("github.com/classboard-dev/classboard-api/internal/grading"),
		logger:    logger.With().Str("component", "grader").Logger(),
	}
}

// Grade runs the pipeline once for one uploaded file. No retries: a stage
// that degrades has already produced meaningful input for the next one.
func (g *Grader) Grade(ctx context.Context, data []byte, filename, answerKey string) Result {
	ctx, span := g.tracer.Start(ctx, "grading.grade", trace.WithAttributes(
		attribute.String("grading.filename", filename),
		attribute.Int("grading.file_bytes", len(data)),
	))
	defer span.End()

	start := time.Now()

	transcript := g.extractor.Extract(ctx, data, filename)
	span.SetAttributes(attribute.Int("grading.transcript_chars", len(transcript)))

	result := g.scorer.Score(ctx, transcript, answerKey)

	gradingDuration.Observe(time.Since(start).Seconds())
	outcome := "graded"
	if result.Degraded() {
		outcome = "degraded"
	}
	gradingTotal.WithLabelValues(outcome).Inc()

	span.SetAttributes(
		attribute.Int("grading.score", result.Score),
		attribute.Bool("grading.degraded", result.Degraded()),
	)

	g.logger.Info().
		Str("filename", filename).
		Int("score", result.Score).
		Bool("degraded", result.Degraded()).
		Msg("submission graded")

	return result
}
