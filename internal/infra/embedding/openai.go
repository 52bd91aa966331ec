package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/pkoukk/tiktoken-go"

	domain "github.com/paybench/salary-advisor/internal/domain/recommendation"
)

const (
	defaultBaseURL   = "https://api.openai.com/v1"
	defaultModel     = "text-embedding-3-small"
	fallbackEncoding = "cl100k_base"
)

// Config drives the OpenAI-compatible embeddings client.
type Config struct {
	APIKey         string
	BaseURL        string
	Model          string
	Dimension      int
	Timeout        time.Duration
	MaxRetries     int
	MaxInputTokens int
}

// Client calls an OpenAI-compatible embeddings endpoint. Transient failures
// (network errors, 429, 5xx) are retried with bounded exponential backoff;
// every attempt honors the caller's context.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger

	encoderOnce sync.Once
	encoder     *tiktoken.Tiktoken
}

// NewClient constructs the embeddings client. The configured dimension must
// match the catalog's embedding dimension; a mismatch at call time is treated
// as a configuration error.
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("embedding api key cannot be empty")
	}
	if cfg.Dimension <= 0 {
		return nil, errors.New("embedding dimension must be positive")
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = defaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = defaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.MaxInputTokens <= 0 {
		cfg.MaxInputTokens = 8000
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger.With("component", "embedding.openai"),
	}, nil
}

type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

// Embed returns the embedding vector for one text.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	text = c.truncate(text)

	backoff := 100 * time.Millisecond
	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
			c.logger.Debug("retrying embedding request", "attempt", attempt)
		}

		vector, retryable, err := c.embedOnce(ctx, text)
		if err == nil {
			if len(vector) != c.cfg.Dimension {
				return nil, fmt.Errorf("embedding dimension mismatch: configured %d, provider returned %d", c.cfg.Dimension, len(vector))
			}
			return vector, nil
		}
		lastErr = err
		if !retryable || ctx.Err() != nil {
			break
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return nil, lastErr
}

func (c *Client) embedOnce(ctx context.Context, text string) ([]float32, bool, error) {
	payload, err := json.Marshal(embeddingRequest{
		Model: c.cfg.Model,
		Input: []string{text},
	})
	if err != nil {
		return nil, false, fmt.Errorf("encode embedding request: %w", err)
	}

	endpoint := c.cfg.BaseURL + "/embeddings"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, false, fmt.Errorf("build embedding request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, false, ctxErr
		}
		return nil, true, fmt.Errorf("request embeddings: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return nil, retryable, fmt.Errorf("embedding request failed: status=%d body=%s", resp.StatusCode, string(body))
	}

	var decoded embeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, false, fmt.Errorf("decode embedding response: %w", err)
	}
	if len(decoded.Data) == 0 || len(decoded.Data[0].Embedding) == 0 {
		return nil, false, errors.New("embedding response empty")
	}

	vector := make([]float32, len(decoded.Data[0].Embedding))
	copy(vector, decoded.Data[0].Embedding)
	return vector, false, nil
}

// truncate trims over-long input by token count so one oversized job
// description cannot blow the provider's input cap. The token encoding is
// loaded lazily; when it is unavailable a character cap stands in.
func (c *Client) truncate(text string) string {
	c.encoderOnce.Do(func() {
		encoder, err := tiktoken.EncodingForModel(c.cfg.Model)
		if err != nil {
			encoder, err = tiktoken.GetEncoding(fallbackEncoding)
		}
		if err != nil {
			c.logger.Warn("token encoding unavailable, using character cap", "error", err)
			return
		}
		c.encoder = encoder
	})

	if c.encoder == nil {
		// Roughly four characters per token for English text.
		limit := c.cfg.MaxInputTokens * 4
		if len(text) <= limit {
			return text
		}
		c.logger.Warn("truncating embedding input", "chars", len(text), "limit", limit)
		return text[:limit]
	}

	tokens := c.encoder.Encode(text, nil, nil)
	if len(tokens) <= c.cfg.MaxInputTokens {
		return text
	}
	c.logger.Warn("truncating embedding input", "tokens", len(tokens), "limit", c.cfg.MaxInputTokens)
	return c.encoder.Decode(tokens[:c.cfg.MaxInputTokens])
}

var _ domain.EmbeddingClient = (*Client)(nil)
