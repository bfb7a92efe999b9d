// Package roboflow provides a client for the Roboflow hosted inference API
package roboflow

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/UnendingLoop/FoodScanner/internal/model"
)

const maxResponseBytes = 16 << 20

type Options struct {
	BaseURL    string
	APIKey     string
	ModelID    string // "<project>/<version>"
	Timeout    time.Duration
	Confidence *float64
	Overlap    *float64
}

type Client struct {
	baseURL    string
	apiKey     string
	modelID    string
	confidence *float64
	overlap    *float64
	httpc      *http.Client
}

func New(opts Options) *Client {
	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		apiKey:     opts.APIKey,
		modelID:    strings.Trim(opts.ModelID, "/"),
		confidence: opts.Confidence,
		overlap:    opts.Overlap,
		httpc:      &http.Client{Timeout: opts.Timeout},
	}
}

func (c *Client) ModelID() string { return c.modelID }

// Infer sends the image to the model and returns the response body untouched.
// Every failure is a *model.InferenceError; its text never contains the api key.
func (c *Client) Infer(ctx context.Context, image []byte) (json.RawMessage, error) {
	if len(image) == 0 {
		return nil, model.NewInferenceError("empty image provided for inference")
	}

	payload := base64.StdEncoding.EncodeToString(image)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), strings.NewReader(payload))
	if err != nil {
		return nil, model.NewInferenceError("failed to build inference request: %v", redact(err))
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, model.NewInferenceError("inference request to model %s failed: %v", c.modelID, redact(err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, model.NewInferenceError("failed to read inference response: %v", redact(err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, model.NewInferenceError("inference service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	body = bytes.TrimSpace(body)
	if !json.Valid(body) {
		return nil, model.NewInferenceError("inference service returned non-JSON body")
	}

	return json.RawMessage(body), nil
}

func (c *Client) endpoint() string {
	q := url.Values{}
	q.Set("api_key", c.apiKey)
	if c.confidence != nil {
		q.Set("confidence", strconv.FormatFloat(*c.confidence, 'f', -1, 64))
	}
	if c.overlap != nil {
		q.Set("overlap", strconv.FormatFloat(*c.overlap, 'f', -1, 64))
	}
	return fmt.Sprintf("%s/%s?%s", c.baseURL, c.modelID, q.Encode())
}

// redact убирает url.Error-обертку: в ней полный URL вместе с api_key
func redact(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return uerr.Err
	}
	return err
}
