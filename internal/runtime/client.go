package runtime

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Client implements Loader by talking to a running transformers sidecar
// over HTTP.
type Client struct {
	baseURL        string
	apiKey         string
	reqTimeout     time.Duration
	connectTimeout time.Duration
	httpClient     *http.Client
}

// NewClient constructs a sidecar-backed loader. reqTimeout bounds individual
// calls; zero disables the per-call deadline (model loads and inference can
// legitimately run for minutes on CPU).
func NewClient(baseURL, apiKey string, reqTimeout, connectTimeout time.Duration) *Client {
	if connectTimeout <= 0 {
		connectTimeout = 10 * time.Second
	}
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   connectTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	// Timeout stays 0 on the client itself: deadlines are carried by the
	// request context so a caller-supplied context always wins.
	cli := &http.Client{Transport: tr, Timeout: 0}
	return &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		apiKey:         apiKey,
		reqTimeout:     reqTimeout,
		connectTimeout: connectTimeout,
		httpClient:     cli,
	}
}

type loadRequest struct {
	ModelSpec
	Task string `json:"task"`
}

type loadResponse struct {
	Session    string `json:"session"`
	PadTokenID *int   `json:"pad_token_id"`
	EOSTokenID *int   `json:"eos_token_id"`
}

// LoadImageModel asks the sidecar to initialize an image model and returns
// a handle bound to the resulting session.
func (c *Client) LoadImageModel(ctx context.Context, spec ModelSpec) (ImageModel, error) {
	var resp loadResponse
	if err := c.postJSON(ctx, "/models/load", loadRequest{ModelSpec: spec, Task: "image"}, &resp); err != nil {
		return nil, fmt.Errorf("load image model %s: %w", spec.HubID, err)
	}
	return &imageModel{client: c, session: resp.Session}, nil
}

// LoadTextModel asks the sidecar to initialize a text-generation model and
// returns a handle carrying the tokenizer's pad/eos token ids.
func (c *Client) LoadTextModel(ctx context.Context, spec ModelSpec) (TextModel, error) {
	var resp loadResponse
	if err := c.postJSON(ctx, "/models/load", loadRequest{ModelSpec: spec, Task: "text"}, &resp); err != nil {
		return nil, fmt.Errorf("load text model %s: %w", spec.HubID, err)
	}
	return &textModel{client: c, session: resp.Session, padTokenID: resp.PadTokenID, eosTokenID: resp.EOSTokenID}, nil
}

// postJSON performs one sidecar call. The response body is decoded into out
// when out is non-nil; pass a *json.RawMessage to keep the raw payload.
func (c *Client) postJSON(ctx context.Context, path string, payload, out any) error {
	if c == nil || c.httpClient == nil {
		return errors.New("runtime client not initialized")
	}
	if c.reqTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.reqTimeout)
		defer cancel()
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("runtime %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("runtime %s: http %s: %s", path, resp.Status, strings.TrimSpace(string(b)))
	}
	if out == nil {
		return nil
	}
	if raw, ok := out.(*json.RawMessage); ok {
		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("runtime %s: read body: %w", path, err)
		}
		*raw = json.RawMessage(b)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("runtime %s: decode response: %w", path, err)
	}
	return nil
}

// encodeImage serializes an image as base64 PNG for transport.
func encodeImage(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode image: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
