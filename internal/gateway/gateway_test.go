package gateway

import (
	"context"
	"errors"
	"io"
	"medilens/internal/structures"
	"medilens/internal/testutil"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompletion struct {
	resp openai.ChatCompletionResponse
	err  error
	reqs []openai.ChatCompletionRequest
}

func (f *fakeCompletion) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.reqs = append(f.reqs, req)
	return f.resp, f.err
}

func answer(content string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Role: "assistant", Content: content}}},
	}
}

func newFakeGateway(fc *fakeCompletion) *OpenAIGateway {
	return &OpenAIGateway{
		client:      fc,
		model:       "gemini-2.5-flash",
		temperature: 0.4,
		logger:      &testutil.MockLogger{},
		metrics:     testutil.NoopMetrics(),
	}
}

func gatewayConfig(baseURL, key string) *structures.Config {
	return &structures.Config{
		Gateway: structures.GatewayConfig{
			BaseURL:     baseURL,
			Model:       "gemini-2.5-flash",
			Temperature: 0.4,
			Timeout:     5 * time.Second,
			APIKey:      key,
		},
	}
}

func TestAnalyzeText_ReturnsMarkdown(t *testing.T) {
	fc := &fakeCompletion{resp: answer("## Glucose\nNormal")}
	g := newFakeGateway(fc)

	out, err := g.AnalyzeText(context.Background(), "glucose 90 mg/dL")
	require.NoError(t, err)
	assert.Equal(t, "## Glucose\nNormal", out)

	require.Len(t, fc.reqs, 1)
	req := fc.reqs[0]
	assert.Equal(t, "gemini-2.5-flash", req.Model)
	assert.InDelta(t, 0.4, req.Temperature, 1e-6)
	require.Len(t, req.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, req.Messages[0].Role)
	assert.Contains(t, req.Messages[0].Content, "medical translator")
	assert.Equal(t, "Here is the medical text content:\nglucose 90 mg/dL", req.Messages[1].Content)
}

func TestAnalyzeImage_SendsDataURIPart(t *testing.T) {
	fc := &fakeCompletion{resp: answer("ok")}
	g := newFakeGateway(fc)

	_, err := g.AnalyzeImage(context.Background(), "data:image/png;base64,iVBOR")
	require.NoError(t, err)

	parts := fc.reqs[0].Messages[1].MultiContent
	require.Len(t, parts, 2)
	assert.Equal(t, openai.ChatMessagePartTypeImageURL, parts[1].Type)
	assert.Equal(t, "data:image/png;base64,iVBOR", parts[1].ImageURL.URL)
}

func TestAnalyze_EmptyResponseUsesFallback(t *testing.T) {
	fc := &fakeCompletion{resp: answer("   ")}
	g := newFakeGateway(fc)

	out, err := g.AnalyzeImage(context.Background(), "AAAA")
	require.NoError(t, err)
	assert.Equal(t, imageFallback, out)

	out, err = g.AnalyzeText(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, textFallback, out)
}

func TestAnalyze_NoChoicesUsesFallback(t *testing.T) {
	g := newFakeGateway(&fakeCompletion{})
	out, err := g.AnalyzeText(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, textFallback, out)
}

func TestAnalyze_MissingCredentialIsConfigurationError(t *testing.T) {
	g := NewOpenAIGateway(gatewayConfig("http://unused", ""), &testutil.MockLogger{}, testutil.NoopMetrics())

	_, err := g.AnalyzeText(context.Background(), "x")
	require.Error(t, err)
	assert.Equal(t, KindConfiguration, KindOf(err))
	assert.ErrorIs(t, err, ErrMissingCredential)
	assert.Equal(t, ErrMissingCredential.Error(), UserMessage(err))
}

func TestAnalyze_NetworkErrorIsTransient(t *testing.T) {
	g := newFakeGateway(&fakeCompletion{err: errors.New("connection reset")})

	_, err := g.AnalyzeImage(context.Background(), "data:image/jpeg;base64,AAAA")
	require.Error(t, err)
	assert.Equal(t, KindTransient, KindOf(err))
	assert.Equal(t, "Failed to analyze image. Please check your connection and try again.", UserMessage(err))
	assert.NotContains(t, UserMessage(err), "connection reset")
}

func TestAnalyze_UnauthorizedIsConfigurationError(t *testing.T) {
	g := newFakeGateway(&fakeCompletion{err: &openai.APIError{HTTPStatusCode: http.StatusUnauthorized, Message: "bad key"}})

	_, err := g.AnalyzeText(context.Background(), "x")
	assert.Equal(t, KindConfiguration, KindOf(err))
	assert.Contains(t, UserMessage(err), "API_KEY")
}

func TestAnalyzeText_BlankInputRejected(t *testing.T) {
	fc := &fakeCompletion{resp: answer("ok")}
	g := newFakeGateway(fc)

	_, err := g.AnalyzeText(context.Background(), "  \n ")
	assert.ErrorIs(t, err, ErrEmptyInput)
	assert.Empty(t, fc.reqs)
}

func TestKindOf_ForeignError(t *testing.T) {
	assert.Equal(t, KindTransient, KindOf(errors.New("other")))
	assert.Equal(t, "An unexpected error occurred", UserMessage(errors.New("other")))
}

func newCompletionServer(t *testing.T, handler func(w http.ResponseWriter, body map[string]any)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		raw, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		var body map[string]any
		assert.NoError(t, json.Unmarshal(raw, &body))
		w.Header().Set("Content-Type", "application/json")
		handler(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenAIGateway_HTTPRoundtrip(t *testing.T) {
	srv := newCompletionServer(t, func(w http.ResponseWriter, body map[string]any) {
		assert.Equal(t, "gemini-2.5-flash", body["model"])
		_, _ = io.WriteString(w, `{"id":"c1","object":"chat.completion","created":1,"model":"gemini-2.5-flash",
			"choices":[{"index":0,"message":{"role":"assistant","content":"## Result\n- **Iron** low"},"finish_reason":"stop"}]}`)
	})

	g := NewOpenAIGateway(gatewayConfig(srv.URL+"/v1/", "test-key"), &testutil.MockLogger{}, testutil.NoopMetrics())
	out, err := g.AnalyzeText(context.Background(), "ferritin 8")
	require.NoError(t, err)
	assert.Equal(t, "## Result\n- **Iron** low", out)
}

func TestOpenAIGateway_HTTPUnauthorized(t *testing.T) {
	srv := newCompletionServer(t, func(w http.ResponseWriter, _ map[string]any) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":{"message":"invalid api key","type":"invalid_request_error","code":"invalid_api_key"}}`)
	})

	g := NewOpenAIGateway(gatewayConfig(srv.URL+"/v1", "test-key"), &testutil.MockLogger{}, testutil.NoopMetrics())
	_, err := g.AnalyzeText(context.Background(), "x")
	require.Error(t, err)
	assert.Equal(t, KindConfiguration, KindOf(err))
}

func TestOpenAIGateway_HTTPServerErrorIsTransient(t *testing.T) {
	srv := newCompletionServer(t, func(w http.ResponseWriter, _ map[string]any) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"error":{"message":"backend exploded","type":"server_error"}}`)
	})

	g := NewOpenAIGateway(gatewayConfig(srv.URL+"/v1", "test-key"), &testutil.MockLogger{}, testutil.NoopMetrics())
	_, err := g.AnalyzeImage(context.Background(), "AAAA")
	require.Error(t, err)
	assert.Equal(t, KindTransient, KindOf(err))
	assert.False(t, strings.Contains(UserMessage(err), "exploded"))
}
