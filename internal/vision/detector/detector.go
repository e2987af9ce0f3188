// Package detector counts objects per class by calling an external detection server.
//
// The server hosts the model weights. The client asks it to load the configured
// model once, caches the returned model handle and class names, and then posts
// images for prediction. Any server that speaks the following JSON-over-HTTP
// contract can back it; a thin wrapper around an Ultralytics YOLO process is
// enough.
//
// Load a model:
//
//	POST {DETECTOR_URL}/v1/models
//	Content-Type: application/json
//
//	{"model": "yolo11n.pt"}
//
//	200 OK
//	{"model_id": "m-1", "names": {"0": "person", "1": "bicycle"}}
//
// model_id must be non-empty. names maps class ids to class names; ids missing
// from it are reported by their decimal id.
//
// Predict:
//
//	POST {DETECTOR_URL}/v1/predict
//	Content-Type: multipart/form-data
//
//	image     file part with the encoded image bytes
//	model_id  handle returned by /v1/models
//	imgsz     inference size, DETECTOR_IMAGE_SIZE
//	conf      minimum confidence, DETECTOR_CONFIDENCE
//
//	200 OK
//	{"detections": [{"class_id": 0, "confidence": 0.91}]}
//
// A 404 from /v1/predict means the server dropped the handle; the client
// reloads the model on its next call. Any other non-2xx status, a transport
// failure or an undecodable body is reported as domain.ErrDetectorUnavailable.
package detector

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/davidbz/skill4green/internal/domain"
	"github.com/davidbz/skill4green/internal/observability"
)

const (
	maxScores         = 5
	maxErrorBodyBytes = 1024
	loadKey           = "model"
)

// New returns an HTTP detector, or a Disabled one when no URL is configured.
func New(cfg *Config) domain.Detector {
	if cfg == nil || strings.TrimSpace(cfg.URL) == "" {
		return Disabled{}
	}
	return NewClient(*cfg)
}

// Disabled is a detector that is always unavailable.
type Disabled struct{}

// Detect always fails with domain.ErrDetectorUnavailable.
func (Disabled) Detect(context.Context, []byte) (*domain.Detection, error) {
	return nil, fmt.Errorf("%w: DETECTOR_URL is not set", domain.ErrDetectorUnavailable)
}

// model is a loaded model handle and its class names.
type model struct {
	id    string
	names map[int]string
}

// Client implements domain.Detector against a detection server.
type Client struct {
	baseURL    string
	config     Config
	httpClient *http.Client

	mu     sync.Mutex
	loaded *model
	group  singleflight.Group
}

// NewClient creates a new detection server client.
func NewClient(config Config) *Client {
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(config.URL), "/"),
		config:  config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.Timeout) * time.Second,
		},
	}
}

type loadRequest struct {
	Model string `json:"model"`
}

type loadResponse struct {
	ModelID string         `json:"model_id"`
	Names   map[int]string `json:"names"`
}

type predictResponse struct {
	Detections []struct {
		ClassID    int     `json:"class_id"`
		Confidence float64 `json:"confidence"`
	} `json:"detections"`
}

// Detect returns per-class object counts for an encoded image.
func (c *Client) Detect(ctx context.Context, image []byte) (*domain.Detection, error) {
	m, err := c.ensureModel(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := c.predict(ctx, m, image)
	if err != nil {
		return nil, err
	}

	detection := &domain.Detection{
		Counts: domain.ClassCountHistogram{},
		Total:  len(resp.Detections),
		Scores: make([]float64, 0, min(len(resp.Detections), maxScores)),
	}
	for i, d := range resp.Detections {
		name, ok := m.names[d.ClassID]
		if !ok {
			name = strconv.Itoa(d.ClassID)
		}
		detection.Counts[name]++
		if i < maxScores {
			detection.Scores = append(detection.Scores, d.Confidence)
		}
	}

	return detection, nil
}

// ensureModel returns the cached model, loading it once on first use.
// Concurrent first callers share one load; a failed load is retried by the next caller.
func (c *Client) ensureModel(ctx context.Context) (*model, error) {
	if m := c.cached(); m != nil {
		return m, nil
	}

	ch := c.group.DoChan(loadKey, func() (any, error) {
		if m := c.cached(); m != nil {
			return m, nil
		}

		// The load outlives the caller that triggered it.
		m, err := c.loadModel(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.loaded = m
		c.mu.Unlock()

		return m, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*model), nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", domain.ErrDetectorUnavailable, ctx.Err())
	}
}

func (c *Client) cached() *model {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

func (c *Client) forget(m *model) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded == m {
		c.loaded = nil
	}
}

func (c *Client) loadModel(ctx context.Context) (*model, error) {
	logger := observability.FromContext(ctx)
	logger.Info("loading detection model", observability.String("model_path", c.config.ModelPath))

	body, err := json.Marshal(loadRequest{Model: c.config.ModelPath})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal load request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/models", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrDetectorUnavailable, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	var resp loadResponse
	if err := c.do(httpReq, &resp); err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}

	if resp.ModelID == "" {
		return nil, fmt.Errorf("%w: load model: empty model_id", domain.ErrDetectorUnavailable)
	}

	logger.Info("detection model loaded",
		observability.String("model_id", resp.ModelID),
		observability.Int("classes", len(resp.Names)))

	names := resp.Names
	if names == nil {
		names = map[int]string{}
	}

	return &model{id: resp.ModelID, names: names}, nil
}

func (c *Client) predict(ctx context.Context, m *model, image []byte) (*predictResponse, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("image", "image")
	if err != nil {
		return nil, fmt.Errorf("failed to create image part: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return nil, fmt.Errorf("failed to write image part: %w", err)
	}

	fields := map[string]string{
		"model_id": m.id,
		"imgsz":    strconv.Itoa(c.config.ImageSize),
		"conf":     strconv.FormatFloat(c.config.Confidence, 'f', -1, 64),
	}
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("failed to write %s field: %w", k, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/predict", &buf)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrDetectorUnavailable, err)
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	var resp predictResponse
	if err := c.do(httpReq, &resp); err != nil {
		var statusErr *statusError
		if errors.As(err, &statusErr) && statusErr.code == http.StatusNotFound {
			// The server no longer knows the handle, reload on next call.
			c.forget(m)
		}
		return nil, fmt.Errorf("predict: %w", err)
	}

	return &resp, nil
}

// statusError reports a non-2xx answer from the detection server.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.code, e.body)
}

func (e *statusError) Unwrap() error {
	return domain.ErrDetectorUnavailable
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrDetectorUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return &statusError{code: resp.StatusCode, body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %w", domain.ErrDetectorUnavailable, err)
	}

	return nil
}
