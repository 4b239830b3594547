package welcome

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/wolfman30/connection-card/internal/observability/metrics"
	"github.com/wolfman30/connection-card/internal/visitor"
	"github.com/wolfman30/connection-card/pkg/logging"
)

var tracer = otel.Tracer("connectioncard.internal.welcome")

const (
	OutcomeGenerated = "generated"
	OutcomeFallback  = "fallback"
)

type failureReason string

const (
	reasonNone       failureReason = ""
	reasonNoClient   failureReason = "no_client"
	reasonTransport  failureReason = "transport"
	reasonEmpty      failureReason = "empty"
	reasonMalformed  failureReason = "malformed"
	reasonIncomplete failureReason = "incomplete"
	reasonPanic      failureReason = "panic"
)

// outcome is the result of one generation attempt. It never leaves the
// package: Generate maps every failure to Fallback.
type outcome struct {
	content Content
	reason  failureReason
	err     error
}

func (o outcome) failed() bool { return o.reason != reasonNone }

func failure(reason failureReason, err error) outcome {
	return outcome{reason: reason, err: err}
}

// Generator turns a visitor record into a welcome message and prayer.
type Generator struct {
	client      LLMClient
	model       string
	timeout     time.Duration
	temperature float32
	logger      *logging.Logger
	metrics     *metrics.GenerationMetrics
}

// Option configures a Generator.
type Option func(*Generator)

func WithModel(model string) Option {
	return func(g *Generator) { g.model = model }
}

// WithTimeout bounds each generation call. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(g *Generator) { g.timeout = d }
}

func WithTemperature(t float32) Option {
	return func(g *Generator) { g.temperature = t }
}

func WithLogger(logger *logging.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

func WithMetrics(m *metrics.GenerationMetrics) Option {
	return func(g *Generator) { g.metrics = m }
}

// NewGenerator builds a Generator. A nil client is allowed and means every
// card gets the fallback content, which is how the service runs without an
// API key.
func NewGenerator(client LLMClient, opts ...Option) *Generator {
	g := &Generator{
		client:  client,
		model:   defaultGeminiModel,
		timeout: 20 * time.Second,
		logger:  logging.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate always returns content with both fields populated. Transport and
// payload failures are logged and replaced by Fallback(rec.FirstName).
func (g *Generator) Generate(ctx context.Context, rec visitor.Record) Content {
	start := time.Now()
	ctx, span := tracer.Start(ctx, "welcome.generate")
	defer span.End()
	span.SetAttributes(
		attribute.String("connectioncard.model", g.model),
		attribute.String("connectioncard.membership_interest", rec.MembershipInterest.String()),
	)

	res := g.attempt(ctx, rec)
	elapsed := time.Since(start)

	if res.failed() {
		g.logger.Warn("welcome generation failed, using fallback content",
			"reason", string(res.reason),
			"error", res.err,
			"duration_ms", elapsed.Milliseconds(),
		)
		span.RecordError(res.err)
		span.SetStatus(codes.Error, string(res.reason))
		span.SetAttributes(
			attribute.String("connectioncard.outcome", OutcomeFallback),
			attribute.String("connectioncard.failure_reason", string(res.reason)),
		)
		g.metrics.ObserveGeneration(OutcomeFallback, string(res.reason), elapsed.Seconds())
		return Fallback(rec.FirstName)
	}

	span.SetAttributes(attribute.String("connectioncard.outcome", OutcomeGenerated))
	g.metrics.ObserveGeneration(OutcomeGenerated, "", elapsed.Seconds())
	g.logger.Debug("welcome generated", "duration_ms", elapsed.Milliseconds())
	return res.content
}

func (g *Generator) attempt(ctx context.Context, rec visitor.Record) (res outcome) {
	defer func() {
		if r := recover(); r != nil {
			res = failure(reasonPanic, fmt.Errorf("welcome: llm client panicked: %v", r))
		}
	}()

	if g.client == nil {
		return failure(reasonNoClient, errors.New("welcome: no llm client configured"))
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	resp, err := g.client.Complete(ctx, LLMRequest{
		Model:       g.model,
		Prompt:      BuildPrompt(rec),
		Schema:      ContentSchema(),
		Temperature: g.temperature,
	})
	if err != nil {
		return failure(reasonTransport, err)
	}

	content, reason, err := parseContent(resp.Text)
	if err != nil {
		return failure(reason, err)
	}
	return outcome{content: content}
}

// parseContent decodes the model's JSON. Extra properties are ignored; both
// required strings must be present and non-blank. The strings are returned
// as sent.
func parseContent(text string) (Content, failureReason, error) {
	if strings.TrimSpace(text) == "" {
		return Content{}, reasonEmpty, errors.New("welcome: no content generated")
	}

	var content Content
	if err := json.Unmarshal([]byte(text), &content); err != nil {
		return Content{}, reasonMalformed, fmt.Errorf("welcome: decode generated content: %w", err)
	}
	if strings.TrimSpace(content.WelcomeMessage) == "" {
		return Content{}, reasonIncomplete, errors.New("welcome: generated content missing welcomeMessage")
	}
	if strings.TrimSpace(content.Prayer) == "" {
		return Content{}, reasonIncomplete, errors.New("welcome: generated content missing prayer")
	}
	return content, reasonNone, nil
}
