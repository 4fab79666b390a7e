package gateway

import (
	"context"
	"errors"
	"medilens/internal/providers"
	"medilens/internal/structures"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

type Source string

const (
	SourceImage Source = "image"
	SourceText  Source = "text"
)

var ErrEmptyInput = errors.New("empty input")

// Gateway turns a medical document into a plain-language markdown explanation.
type Gateway interface {
	AnalyzeImage(ctx context.Context, dataURI string) (string, error)
	AnalyzeText(ctx context.Context, text string) (string, error)
}

type completionClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIGateway talks to any OpenAI-compatible chat completion endpoint.
// The default configuration targets Gemini's compatibility endpoint.
type OpenAIGateway struct {
	client      completionClient
	model       string
	temperature float32
	timeout     time.Duration
	logger      providers.Logger
	metrics     providers.MetricsProviderInterface
}

func NewOpenAIGateway(conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface) Gateway {
	gw := &OpenAIGateway{
		model:       conf.Gateway.Model,
		temperature: conf.Gateway.Temperature,
		timeout:     conf.Gateway.Timeout,
		logger:      logger,
		metrics:     metrics,
	}

	if conf.Gateway.APIKey == "" {
		logger.Warnf(providers.TypeGateway, "No API key configured, analyses will fail until API_KEY is set")
		return gw
	}

	clientConf := openai.DefaultConfig(conf.Gateway.APIKey)
	if conf.Gateway.BaseURL != "" {
		clientConf.BaseURL = strings.TrimSuffix(conf.Gateway.BaseURL, "/")
	}
	gw.client = openai.NewClientWithConfig(clientConf)
	logger.Infof(providers.TypeGateway, "Gateway ready: model=%s endpoint=%s", gw.model, clientConf.BaseURL)

	return gw
}

func (g *OpenAIGateway) AnalyzeImage(ctx context.Context, dataURI string) (string, error) {
	uri, err := NormalizeDataURI(dataURI)
	if err != nil {
		return "", &Error{Kind: KindTransient, Source: SourceImage, Err: err}
	}
	user := openai.ChatCompletionMessage{
		Role: openai.ChatMessageRoleUser,
		MultiContent: []openai.ChatMessagePart{
			{Type: openai.ChatMessagePartTypeText, Text: "Please explain this document."},
			{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{URL: uri}},
		},
	}
	return g.complete(ctx, SourceImage, user)
}

func (g *OpenAIGateway) AnalyzeText(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", &Error{Kind: KindTransient, Source: SourceText, Err: ErrEmptyInput}
	}
	user := openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: textPrompt(text),
	}
	return g.complete(ctx, SourceText, user)
}

func (g *OpenAIGateway) complete(ctx context.Context, source Source, user openai.ChatCompletionMessage) (string, error) {
	if g.client == nil {
		g.metrics.IncGatewayCalls(string(source), KindConfiguration.String())
		return "", &Error{Kind: KindConfiguration, Source: source, Err: ErrMissingCredential}
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	req := openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: g.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			user,
		},
	}

	start := time.Now()
	resp, err := g.client.CreateChatCompletion(ctx, req)
	g.metrics.ObserveGatewayDuration(string(source), time.Since(start))
	if err != nil {
		gwErr := &Error{Kind: classify(err), Source: source, Err: err}
		g.metrics.IncGatewayCalls(string(source), gwErr.Kind.String())
		g.logger.Errorf(providers.TypeGateway, "Gateway call failed: %s", gwErr)
		return "", gwErr
	}
	g.metrics.IncGatewayCalls(string(source), "ok")

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		g.logger.Warnf(providers.TypeGateway, "Empty %s analysis returned, using fallback text", source)
		return FallbackText(source), nil
	}
	return resp.Choices[0].Message.Content, nil
}

// FallbackText is substituted for an empty analysis.
func FallbackText(source Source) string {
	if source == SourceImage {
		return imageFallback
	}
	return textFallback
}

func isCredentialStatus(code int) bool {
	return code == http.StatusUnauthorized || code == http.StatusForbidden
}

func classify(err error) Kind {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && isCredentialStatus(apiErr.HTTPStatusCode) {
		return KindConfiguration
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && isCredentialStatus(reqErr.HTTPStatusCode) {
		return KindConfiguration
	}
	return KindTransient
}
