package pose

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/motionlab/MotionLab/api/internal/analysis"
)

// Client provides HTTP access to the pose extraction service
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a pose service client
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// extractRequest is the request to extract landmarks from a video
type extractRequest struct {
	VideoURL string `json:"video_url"`
}

// extractResponse is the pose service's landmark payload
type extractResponse struct {
	Frames          []frameLandmarks `json:"frames"`
	TotalFrames     int              `json:"total_frames"`
	DurationSeconds float64          `json:"duration_seconds"`
	FPS             float64          `json:"fps"`
}

type frameLandmarks struct {
	Index     int                  `json:"index"`
	Timestamp float64              `json:"timestamp"`
	Landmarks map[string]landmark3 `json:"landmarks"`
}

type landmark3 struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Visibility float64 `json:"visibility"`
}

// ExtractLandmarks runs pose extraction for a video URL and returns the
// landmark sequence. Failures surface as SYS_ACQUISITION except a caller
// deadline, which is passed through for timeout classification.
func (c *Client) ExtractLandmarks(ctx context.Context, videoURL string) (*analysis.LandmarkSequence, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/api/v1/extract", extractRequest{VideoURL: videoURL})
	if err != nil {
		return nil, analysis.NewAcquisitionError(err)
	}

	var parsed extractResponse
	if err := c.doRequest(req, &parsed); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, analysis.NewAcquisitionError(err)
	}

	seq := toSequence(parsed)
	if err := seq.Validate(); err != nil {
		return nil, analysis.NewAcquisitionError(fmt.Errorf("pose service returned an invalid sequence: %w", err))
	}
	return seq, nil
}

// Health probes the pose service
func (c *Client) Health(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return err
	}
	return c.doRequest(req, nil)
}

func toSequence(parsed extractResponse) *analysis.LandmarkSequence {
	seq := &analysis.LandmarkSequence{
		TotalFrames:     parsed.TotalFrames,
		DurationSeconds: parsed.DurationSeconds,
		FPS:             parsed.FPS,
	}
	for _, frame := range parsed.Frames {
		points := make(map[string]analysis.Point, len(frame.Landmarks))
		for name, p := range frame.Landmarks {
			points[name] = analysis.Point{X: p.X, Y: p.Y, Z: p.Z, Visibility: p.Visibility}
		}
		seq.Frames = append(seq.Frames, analysis.FrameLandmarks{
			Index:     frame.Index,
			Timestamp: frame.Timestamp,
			Points:    points,
		})
	}
	if seq.TotalFrames == 0 {
		seq.TotalFrames = len(seq.Frames)
	}
	return seq
}

// Helper methods

func (c *Client) newRequest(ctx context.Context, method, path string, body interface{}) (*http.Request, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	return req, nil
}

func (c *Client) doRequest(req *http.Request, result interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("pose service error: %s (status: %d)", string(body), resp.StatusCode)
	}

	if result != nil {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}

	return nil
}
