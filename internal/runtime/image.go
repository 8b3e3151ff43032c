package runtime

import (
	"context"
	"encoding/json"
	"image"
)

// imageModel is the sidecar-backed ImageModel implementation. Every call is
// bound to the session established at load time.
type imageModel struct {
	client  *Client
	session string
}

type imageCallRequest struct {
	Session string `json:"session"`
	Image   string `json:"image"`
	Prompt  string `json:"prompt,omitempty"`
}

func (m *imageModel) Pipeline(ctx context.Context, img image.Image) ([]Generation, error) {
	data, err := encodeImage(img)
	if err != nil {
		return nil, err
	}
	var resp struct {
		Results []Generation `json:"results"`
	}
	if err := m.client.postJSON(ctx, "/pipeline", imageCallRequest{Session: m.session, Image: data}, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

func (m *imageModel) GenerateWithPrompt(ctx context.Context, img image.Image, prompt string) (string, error) {
	data, err := encodeImage(img)
	if err != nil {
		return "", err
	}
	var resp struct {
		Text string `json:"text"`
	}
	if err := m.client.postJSON(ctx, "/generate_tagged", imageCallRequest{Session: m.session, Image: data, Prompt: prompt}, &resp); err != nil {
		return "", err
	}
	return resp.Text, nil
}

func (m *imageModel) Query(ctx context.Context, img image.Image, prompt string) (json.RawMessage, error) {
	data, err := encodeImage(img)
	if err != nil {
		return nil, err
	}
	var raw json.RawMessage
	if err := m.client.postJSON(ctx, "/query", imageCallRequest{Session: m.session, Image: data, Prompt: prompt}, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (m *imageModel) Caption(ctx context.Context, img image.Image) (json.RawMessage, error) {
	data, err := encodeImage(img)
	if err != nil {
		return nil, err
	}
	var raw json.RawMessage
	if err := m.client.postJSON(ctx, "/caption", imageCallRequest{Session: m.session, Image: data}, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}
