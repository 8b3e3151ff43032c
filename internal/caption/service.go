// Package caption implements the model caches and the per-backend adapters
// that normalize three incompatible inference calling conventions behind one
// request contract.
package caption

import (
	"context"
	"image"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"captiond/internal/registry"
	"captiond/internal/runtime"
	"captiond/pkg/types"
)

// Config encapsulates all tunables for Service construction.
type Config struct {
	Log    zerolog.Logger
	Loader runtime.Loader
	// DefaultImageModel and DefaultTextModel override the registry defaults
	// when set. Unknown request keys resolve to these.
	DefaultImageModel string
	DefaultTextModel  string
}

// Service owns the two model caches (image backends, text generators) and
// routes requests to the adapter resolved at load time. Handles live for the
// process lifetime; nothing is persisted.
type Service struct {
	log    zerolog.Logger
	loader runtime.Loader

	defaultImage string
	defaultText  string

	imageMu sync.Mutex
	images  map[string]Backend

	textMu sync.Mutex
	texts  map[string]*generator
}

// New constructs a Service. Call Warmup afterwards to eagerly load the
// default image model.
func New(cfg Config) *Service {
	s := &Service{
		log:          cfg.Log,
		loader:       cfg.Loader,
		defaultImage: cfg.DefaultImageModel,
		defaultText:  cfg.DefaultTextModel,
		images:       make(map[string]Backend),
		texts:        make(map[string]*generator),
	}
	if s.defaultImage == "" {
		s.defaultImage = registry.DefaultImageModel
	}
	if s.defaultText == "" {
		s.defaultText = registry.DefaultTextModel
	}
	return s
}

// Warmup eagerly loads the default image model once at startup. Failure is
// logged and swallowed: the process keeps serving and the first real request
// retries the load from scratch.
func (s *Service) Warmup(ctx context.Context) {
	s.log.Info().Str("model", s.defaultImage).Msg("loading default image captioning model")
	if _, err := s.getOrLoadImage(ctx, s.resolveImage(s.defaultImage)); err != nil {
		s.log.Error().Err(err).Str("model", s.defaultImage).Msg("failed to load default model")
		return
	}
	s.log.Info().Str("model", s.defaultImage).Msg("default model loaded successfully")
}

// CaptionRequest is a decoded caption/VQA request.
type CaptionRequest struct {
	// Image is the decoded upload, already converted to 3-channel color.
	Image image.Image
	// Model selects the image model; empty or unknown keys fall back to the
	// configured default.
	Model string
	// Question is optional free text; its meaning depends on the backend.
	Question string
	// Mode selects a captioning variant; unknown modes degrade to the
	// descriptor's default, never error.
	Mode string
}

// Caption resolves the model, loading it on first use, and runs the adapter.
func (s *Service) Caption(ctx context.Context, req CaptionRequest) (string, error) {
	desc := s.resolveImage(req.Model)
	backend, err := s.getOrLoadImage(ctx, desc)
	if err != nil {
		return "", err
	}
	text, err := backend.Caption(ctx, req.Image, req.Question, req.Mode)
	if err != nil {
		return "", err
	}
	s.log.Info().Str("model", desc.Key).Msg("image analyzed successfully")
	return text, nil
}

// Generate runs text generation and reports the model key that served the
// request after default fallback.
func (s *Service) Generate(ctx context.Context, req types.GenerateRequest) (string, string, error) {
	desc := s.resolveText(req.Model)
	gen, err := s.getOrLoadText(ctx, desc)
	if err != nil {
		return "", desc.Key, err
	}
	text, err := gen.Generate(ctx, req.Prompt, req.MaxNewTokens, req.Temperature)
	if err != nil {
		return "", desc.Key, err
	}
	s.log.Info().Str("model", desc.Key).Msg("text generated successfully")
	return text, desc.Key, nil
}

// ListModels returns the registry listings in declaration order.
func (s *Service) ListModels() types.ModelsResponse {
	var resp types.ModelsResponse
	for _, d := range registry.ImageModels() {
		info := types.ImageModelInfo{
			Key:         d.Key,
			Name:        d.Name,
			Description: d.Description,
			DefaultMode: d.DefaultMode,
		}
		if len(d.ModeOrder) > 0 {
			info.Modes = append([]string(nil), d.ModeOrder...)
		}
		resp.Models = append(resp.Models, info)
	}
	for _, d := range registry.TextModels() {
		resp.LLMs = append(resp.LLMs, types.TextModelInfo{
			Key:         d.Key,
			Name:        d.Name,
			Description: d.Description,
		})
	}
	return resp
}

func (s *Service) resolveImage(key string) registry.Descriptor {
	if key != "" {
		if d, ok := registry.LookupImage(key); ok {
			return d
		}
	}
	d, _ := registry.LookupImage(s.defaultImage)
	return d
}

func (s *Service) resolveText(key string) registry.Descriptor {
	if key != "" {
		if d, ok := registry.LookupText(key); ok {
			return d
		}
	}
	d, _ := registry.LookupText(s.defaultText)
	return d
}

// getOrLoadImage returns the cached backend for the descriptor, loading it on
// first use. The mutex is held across the load so concurrent first requests
// for one key cannot double-initialize; a failed load caches nothing and the
// next call retries.
func (s *Service) getOrLoadImage(ctx context.Context, desc registry.Descriptor) (Backend, error) {
	s.imageMu.Lock()
	defer s.imageMu.Unlock()
	if b, ok := s.images[desc.Key]; ok {
		return b, nil
	}
	s.log.Info().Str("model", desc.Name).Msg("loading image model")
	start := time.Now()
	model, err := s.loader.LoadImageModel(ctx, runtime.ModelSpec{HubID: desc.HubID, Revision: desc.Revision})
	if err != nil {
		return nil, err
	}
	b := newBackend(desc, model)
	s.images[desc.Key] = b
	observeLoad("image", desc.Key, time.Since(start))
	s.log.Info().Str("model", desc.Name).Dur("dur", time.Since(start)).Msg("image model loaded")
	return b, nil
}

func (s *Service) getOrLoadText(ctx context.Context, desc registry.Descriptor) (*generator, error) {
	s.textMu.Lock()
	defer s.textMu.Unlock()
	if g, ok := s.texts[desc.Key]; ok {
		return g, nil
	}
	s.log.Info().Str("model", desc.Name).Msg("loading text model")
	start := time.Now()
	model, err := s.loader.LoadTextModel(ctx, runtime.ModelSpec{HubID: desc.HubID, Revision: desc.Revision})
	if err != nil {
		return nil, err
	}
	g, err := newGenerator(ctx, model, desc)
	if err != nil {
		return nil, err
	}
	s.texts[desc.Key] = g
	observeLoad("text", desc.Key, time.Since(start))
	s.log.Info().Str("model", desc.Name).Dur("dur", time.Since(start)).Msg("text model loaded")
	return g, nil
}
