package welcome

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/connection-card/internal/observability/metrics"
	"github.com/wolfman30/connection-card/internal/visitor"
	"github.com/wolfman30/connection-card/pkg/logging"
)

// stubLLM returns a canned response and records the last request.
type stubLLM struct {
	text  string
	err   error
	panic any
	wait  bool
	calls int
	last  LLMRequest
}

func (s *stubLLM) Complete(ctx context.Context, req LLMRequest) (LLMResponse, error) {
	s.calls++
	s.last = req
	if s.panic != nil {
		panic(s.panic)
	}
	if s.wait {
		<-ctx.Done()
		return LLMResponse{}, ctx.Err()
	}
	if s.err != nil {
		return LLMResponse{}, s.err
	}
	return LLMResponse{Text: s.text}, nil
}

func janeDoe() visitor.Record {
	return visitor.Record{
		FirstName:          "Jane",
		LastName:           "Doe",
		AgeRange:           visitor.AgeRange30To49,
		Email:              "jane@x.com",
		Address:            "1 Elm St",
		CityOrRegion:       "Springfield, IL",
		PrayerRequest:      "healing for my mother",
		MembershipInterest: visitor.MembershipYes,
	}
}

func newTestGenerator(client LLMClient, opts ...Option) *Generator {
	opts = append([]Option{WithLogger(logging.Discard())}, opts...)
	return NewGenerator(client, opts...)
}

func TestGenerateReturnsParsedContentUnmodified(t *testing.T) {
	llm := &stubLLM{text: `{"welcomeMessage":"W","prayer":"P"}`}
	got := newTestGenerator(llm).Generate(context.Background(), janeDoe())

	assert.Equal(t, Content{WelcomeMessage: "W", Prayer: "P"}, got)
	assert.Equal(t, 1, llm.calls)
}

func TestGenerateJaneDoeSuccess(t *testing.T) {
	llm := &stubLLM{text: `{"welcomeMessage":"Jane, welcome home — we're thrilled about your interest in membership!","prayer":"Lord, bring healing and comfort to Jane's mother."}`}
	got := newTestGenerator(llm).Generate(context.Background(), janeDoe())

	assert.Equal(t, "Jane, welcome home — we're thrilled about your interest in membership!", got.WelcomeMessage)
	assert.Equal(t, "Lord, bring healing and comfort to Jane's mother.", got.Prayer)
}

func TestGenerateJaneDoeNetworkFailure(t *testing.T) {
	llm := &stubLLM{err: errors.New("dial tcp: connection refused")}
	got := newTestGenerator(llm).Generate(context.Background(), janeDoe())

	assert.Equal(t, Content{
		WelcomeMessage: "Welcome, Jane! We are so glad you chose to worship with us today.",
		Prayer:         "Lord, we ask for your blessing upon this visitor. Meet their needs and guide their steps. Amen.",
	}, got)
}

func TestGenerateFallsBackOnBadPayloads(t *testing.T) {
	tests := []struct {
		name string
		llm  *stubLLM
	}{
		{"transport error", &stubLLM{err: errors.New("503")}},
		{"truncated json", &stubLLM{text: `{"welcomeMessage":"Hi Jane","pra`}},
		{"missing prayer", &stubLLM{text: `{"welcomeMessage":"Hi Jane"}`}},
		{"missing welcome", &stubLLM{text: `{"prayer":"Amen"}`}},
		{"blank prayer", &stubLLM{text: `{"welcomeMessage":"Hi","prayer":"   "}`}},
		{"empty text", &stubLLM{text: ""}},
		{"json null", &stubLLM{text: "null"}},
		{"array payload", &stubLLM{text: `["W","P"]`}},
		{"wrong types", &stubLLM{text: `{"welcomeMessage":1,"prayer":true}`}},
		{"client panics", &stubLLM{panic: "nil map write"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := newTestGenerator(tt.llm).Generate(context.Background(), janeDoe())
			assert.Contains(t, got.WelcomeMessage, "Jane")
			assert.Equal(t, FallbackPrayer, got.Prayer)
		})
	}
}

func TestGenerateToleratesExtraFields(t *testing.T) {
	llm := &stubLLM{text: `{"welcomeMessage":"W","prayer":"P","mood":"joyful"}`}
	got := newTestGenerator(llm).Generate(context.Background(), janeDoe())
	assert.Equal(t, Content{WelcomeMessage: "W", Prayer: "P"}, got)
}

func TestGenerateWithoutClientUsesFallback(t *testing.T) {
	got := newTestGenerator(nil).Generate(context.Background(), janeDoe())
	assert.Equal(t, Fallback("Jane"), got)
}

func TestGenerateTimeoutFallsBack(t *testing.T) {
	llm := &stubLLM{wait: true}
	start := time.Now()
	got := newTestGenerator(llm, WithTimeout(20*time.Millisecond)).Generate(context.Background(), janeDoe())

	assert.Equal(t, Fallback("Jane"), got)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestGenerateSendsPromptSchemaAndModel(t *testing.T) {
	llm := &stubLLM{text: `{"welcomeMessage":"W","prayer":"P"}`}
	newTestGenerator(llm, WithModel("gemini-test"), WithTemperature(0.7)).Generate(context.Background(), janeDoe())

	assert.Equal(t, "gemini-test", llm.last.Model)
	assert.Equal(t, float32(0.7), llm.last.Temperature)
	assert.Equal(t, BuildPrompt(janeDoe()), llm.last.Prompt)
	require.NotNil(t, llm.last.Schema)
	assert.Equal(t, []string{"welcomeMessage", "prayer"}, llm.last.Schema.RequiredNames())
}

// Every record, including blank ones, yields two non-empty strings.
func TestGenerateAlwaysPopulatesBothFields(t *testing.T) {
	clients := []LLMClient{
		nil,
		&stubLLM{err: errors.New("boom")},
		&stubLLM{text: "{}"},
		&stubLLM{text: `{"welcomeMessage":"W","prayer":"P"}`},
	}
	records := []visitor.Record{visitor.DefaultRecord(), janeDoe()}
	for _, client := range clients {
		for _, rec := range records {
			got := newTestGenerator(client).Generate(context.Background(), rec)
			assert.NotEmpty(t, got.WelcomeMessage)
			assert.NotEmpty(t, got.Prayer)
		}
	}
}

func TestGenerateRecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewGenerationMetrics(reg)

	newTestGenerator(&stubLLM{text: `{"welcomeMessage":"W","prayer":"P"}`}, WithMetrics(m)).Generate(context.Background(), janeDoe())
	newTestGenerator(&stubLLM{text: "oops"}, WithMetrics(m)).Generate(context.Background(), janeDoe())

	families, err := reg.Gather()
	require.NoError(t, err)
	var total float64
	for _, mf := range families {
		if mf.GetName() != "connectioncard_welcome_generations_total" {
			continue
		}
		for _, metric := range mf.GetMetric() {
			total += metric.GetCounter().GetValue()
		}
	}
	assert.Equal(t, float64(2), total)
}

func TestParseContentReasons(t *testing.T) {
	_, reason, err := parseContent("  ")
	assert.Error(t, err)
	assert.Equal(t, reasonEmpty, reason)

	_, reason, _ = parseContent("{")
	assert.Equal(t, reasonMalformed, reason)

	_, reason, _ = parseContent(`{"welcomeMessage":"W"}`)
	assert.Equal(t, reasonIncomplete, reason)

	content, reason, err := parseContent(`{"welcomeMessage":"  W ","prayer":"P\n"}`)
	require.NoError(t, err)
	assert.Equal(t, reasonNone, reason)
	assert.Equal(t, Content{WelcomeMessage: "  W ", Prayer: "P\n"}, content)
}
