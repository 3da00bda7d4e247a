package llm

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/hoo-dkwozd/hoorag/pkg/retriever"
)

// EnvAPIKey is the environment variable consulted when no explicit API key
// is supplied at construction.
const EnvAPIKey = "OPENAI_API_KEY"

const (
	defaultMaxTokens    = 1000
	defaultSystemPrompt = "You are a helpful assistant."

	// retrieverNone is the retriever tag reported when none is configured.
	retrieverNone = "none"
)

// Wrapper binds a generation provider and an optional retriever into one
// request/response API. A Wrapper moves through three states: constructed
// (provider established, models listed), configured (model version bound via
// Configure), and, when RAG is wanted, embedded (retriever reports usable
// embeddings after Embed).
//
// A Wrapper is not safe for concurrent use: Configure, Embed, and Generate
// read and mutate shared state without synchronization. Run independent
// instances per goroutine or guard a shared instance with a mutex.
type Wrapper struct {
	provider        Provider
	modelName       string
	availableModels map[string]struct{}
	logger          *zap.Logger

	modelVersion string
	systemPrompt string
	retriever    retriever.Retriever
}

// Option configures Wrapper construction.
type Option func(*options)

type options struct {
	apiKey   string
	baseURL  string
	provider Provider
	logger   *zap.Logger
}

// WithAPIKey supplies the provider credential explicitly instead of the
// OPENAI_API_KEY environment fallback.
func WithAPIKey(key string) Option {
	return func(o *options) { o.apiKey = key }
}

// WithBaseURL overrides the default provider endpoint, e.g. for proxies or
// OpenAI-compatible local servers.
func WithBaseURL(url string) Option {
	return func(o *options) { o.baseURL = url }
}

// WithProvider injects a generation provider, replacing the default OpenAI
// backend. Credential resolution still applies.
func WithProvider(p Provider) Option {
	return func(o *options) { o.provider = p }
}

// WithLogger attaches a logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// New creates a Wrapper for modelName, resolving the credential from the
// explicit option or the environment, establishing the provider, and fetching
// the account's available model identifiers. Model version, system prompt,
// and retriever all start unset; bind them with Configure.
func New(ctx context.Context, modelName string, opts ...Option) (*Wrapper, error) {
	o := &options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(o)
	}

	if modelName == "" {
		return nil, Errorf(ErrorTypeConfiguration, "model name is required")
	}

	apiKey := o.apiKey
	if apiKey == "" {
		apiKey = os.Getenv(EnvAPIKey)
	}
	if apiKey == "" {
		return nil, Errorf(ErrorTypeConfiguration, "no API key provided and %s is not set", EnvAPIKey)
	}

	logger := o.logger.Named("llm")

	provider := o.provider
	if provider == nil {
		var err error
		provider, err = NewOpenAIProvider(&ProviderConfig{
			APIKey:  apiKey,
			BaseURL: o.baseURL,
		}, logger)
		if err != nil {
			return nil, NewError(ErrorTypeConfiguration, "create provider", err)
		}
	}

	models, err := provider.ListModels(ctx)
	if err != nil {
		return nil, ClassifyProviderError(err)
	}

	available := make(map[string]struct{}, len(models))
	for _, id := range models {
		available[id] = struct{}{}
	}

	logger.Debug("wrapper constructed",
		zap.String("model_name", modelName),
		zap.Int("available_models", len(available)))

	return &Wrapper{
		provider:        provider,
		modelName:       modelName,
		availableModels: available,
		logger:          logger,
	}, nil
}

// ConfigureResult acknowledges a successful Configure call.
type ConfigureResult struct {
	Status       bool   `json:"status"`
	Message      string `json:"message"`
	ModelVersion string `json:"model_version"`
	Retriever    string `json:"retriever"`
}

// ConfigureOption sets optional Configure inputs.
type ConfigureOption func(*configureOptions)

type configureOptions struct {
	systemPrompt string
	retriever    retriever.Retriever
	retrieverSet bool
}

// WithSystemPrompt stores a system prompt applied to every Generate call
// unless overridden per request.
func WithSystemPrompt(prompt string) ConfigureOption {
	return func(o *configureOptions) { o.systemPrompt = prompt }
}

// WithRetriever binds a retrieval backend, enabling RAG generation after a
// successful Embed. The wrapper holds the reference only; it does not own
// the retriever's lifecycle.
func WithRetriever(r retriever.Retriever) ConfigureOption {
	return func(o *configureOptions) {
		o.retriever = r
		o.retrieverSet = true
	}
}

// Configure binds a model version and optionally a system prompt and
// retriever. It fully replaces any prior configuration; omitted options reset
// to unset. On a validation failure prior configuration is left untouched.
func (w *Wrapper) Configure(modelVersion string, opts ...ConfigureOption) (*ConfigureResult, error) {
	if err := w.checkClient(); err != nil {
		return nil, err
	}

	o := &configureOptions{}
	for _, opt := range opts {
		opt(o)
	}

	if modelVersion == "" {
		return nil, Errorf(ErrorTypeValidation, "model version must be specified")
	}
	if _, ok := w.availableModels[modelVersion]; !ok {
		return nil, Errorf(ErrorTypeValidation, "model version %q is not available", modelVersion)
	}
	if o.retrieverSet && o.retriever == nil {
		return nil, Errorf(ErrorTypeTypeMismatch, "retriever does not satisfy the retriever capability")
	}

	w.modelVersion = modelVersion
	w.systemPrompt = o.systemPrompt
	w.retriever = o.retriever

	tag := retrieverNone
	if w.retriever != nil {
		tag = fmt.Sprintf("%T", w.retriever)
	}

	w.logger.Info("wrapper configured",
		zap.String("model_version", modelVersion),
		zap.String("retriever", tag))

	return &ConfigureResult{
		Status:       true,
		Message:      fmt.Sprintf("model %q configured successfully", w.modelName),
		ModelVersion: w.modelVersion,
		Retriever:    tag,
	}, nil
}

// EmbedResult reports a successful embedding pass.
type EmbedResult struct {
	Status    bool   `json:"status"`
	Message   string `json:"message"`
	Embedding any    `json:"embedding"`
	Model     string `json:"model"`
}

// Embed delegates embedding generation to the configured retriever, handing
// it the provider's embedding capability. Any retriever failure is
// re-signaled as an embedding error with the original cause preserved.
func (w *Wrapper) Embed(ctx context.Context) (*EmbedResult, error) {
	if err := w.checkClient(); err != nil {
		return nil, err
	}
	if err := w.checkRetriever(); err != nil {
		return nil, err
	}

	embedder, ok := w.provider.(retriever.EmbeddingClient)
	if !ok {
		return nil, Errorf(ErrorTypeEmbedding, "provider does not support embeddings")
	}

	payload, err := w.retriever.Embed(ctx, embedder)
	if err != nil {
		return nil, NewError(ErrorTypeEmbedding, "failed to generate embeddings", err)
	}

	w.logger.Info("embeddings generated", zap.String("retriever", fmt.Sprintf("%T", w.retriever)))

	return &EmbedResult{
		Status:    true,
		Message:   "embeddings generated successfully",
		Embedding: payload,
		Model:     w.modelName,
	}, nil
}

// GenerateOptions carries per-request generation settings. The zero value
// requests a plain, non-RAG completion with the default token budget.
type GenerateOptions struct {
	// UseRAG appends retrieved context to the request. Requires a configured
	// retriever with embeddings already generated.
	UseRAG bool
	// MaxTokens caps the completion length. Defaults to 1000.
	MaxTokens int
	// SystemPrompt overrides the wrapper's stored system prompt for this
	// request only.
	SystemPrompt string
	// Temperature is passed through to the provider unmodified.
	Temperature float32
	// TopK is the retrieval depth when UseRAG is set. Defaults to 10.
	TopK int
	// Stop sequences are passed through to the provider unmodified.
	Stop []string
}

// GenerateResult is the normalized outcome of a generation call.
type GenerateResult struct {
	Status  bool     `json:"status"`
	Message string   `json:"message"`
	Choices []string `json:"choices"`
	Model   string   `json:"model"`
	Usage   Usage    `json:"usage"`
}

// Generate produces a completion for userPrompt, optionally conditioning on
// retrieved context. All preconditions are checked before any network call;
// a request that fails validation never reaches the provider.
func (w *Wrapper) Generate(ctx context.Context, userPrompt string, opts GenerateOptions) (*GenerateResult, error) {
	if err := w.checkClient(); err != nil {
		return nil, err
	}
	if opts.UseRAG {
		if err := w.checkRetriever(); err != nil {
			return nil, err
		}
		if !w.retriever.HasEmbedding() {
			return nil, Errorf(ErrorTypeEmbedding, "embeddings have not been generated, call Embed first")
		}
	}

	systemPrompt := opts.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = w.systemPrompt
	}
	if systemPrompt == "" {
		systemPrompt = defaultSystemPrompt
	}

	messages := []Message{
		{Role: RoleSystem, Content: systemPrompt},
		{Role: RoleUser, Content: userPrompt},
	}

	if opts.UseRAG {
		docs, err := w.retriever.Retrieve(ctx, userPrompt, opts.TopK)
		if err != nil {
			return nil, NewError(ErrorTypeRetrieval, "failed to retrieve context", err)
		}
		// Retrieved context rides as a prior assistant turn so a single
		// round-trip can condition on it.
		messages = append(messages, Message{
			Role:    RoleAssistant,
			Content: formatContext(docs),
		})
	}

	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	w.logger.Debug("generation request",
		zap.String("model_version", w.modelVersion),
		zap.Bool("use_rag", opts.UseRAG),
		zap.Int("max_tokens", maxTokens),
		zap.Int("messages", len(messages)))

	completion, err := w.provider.Complete(ctx, &CompletionRequest{
		Model:       w.modelVersion,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: opts.Temperature,
		Stop:        opts.Stop,
	})
	if err != nil {
		return nil, ClassifyProviderError(err)
	}

	w.logger.Info("generation completed",
		zap.Int("choices", len(completion.Choices)),
		zap.Int("prompt_tokens", completion.Usage.PromptTokens),
		zap.Int("completion_tokens", completion.Usage.CompletionTokens))

	return &GenerateResult{
		Status:  true,
		Message: "response generated successfully",
		Choices: completion.Choices,
		Model:   w.modelName,
		Usage:   completion.Usage,
	}, nil
}

// ModelName returns the immutable model name set at construction.
func (w *Wrapper) ModelName() string {
	return w.modelName
}

// ModelVersion returns the currently configured model version, or "" when
// the wrapper is unconfigured.
func (w *Wrapper) ModelVersion() string {
	return w.modelVersion
}

// IsConfigured reports whether Configure has bound a model version.
func (w *Wrapper) IsConfigured() bool {
	return w.modelVersion != ""
}

// IsEmbedded reports whether the configured retriever has usable embeddings.
func (w *Wrapper) IsEmbedded() bool {
	return w.retriever != nil && w.retriever.HasEmbedding()
}

func (w *Wrapper) checkClient() error {
	if w.provider == nil {
		return Errorf(ErrorTypeNotInitialized, "provider client is not initialized")
	}
	return nil
}

func (w *Wrapper) checkRetriever() error {
	if w.retriever == nil {
		return Errorf(ErrorTypeNotInitialized, "retriever is not set, configure a retriever first")
	}
	return nil
}

// formatContext flattens retrieved documents into a single context block.
func formatContext(docs []retriever.Document) string {
	contents := make([]string, 0, len(docs))
	for _, d := range docs {
		if d.Content != "" {
			contents = append(contents, d.Content)
		}
	}
	return strings.Join(contents, "\n\n")
}
