package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"captiond/internal/caption"
	"captiond/pkg/types"

	// Decoders for the upload formats we accept.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	ListModels() types.ModelsResponse
	Caption(ctx context.Context, req caption.CaptionRequest) (string, error)
	Generate(ctx context.Context, req types.GenerateRequest) (text, model string, err error)
}

// NewMux builds the router with the full middleware stack and all routes.
func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(MetricsMiddleware)
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
		}))
	}
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	r.Get("/models", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(svc.ListModels()); err != nil {
			writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
		}
	})

	r.Post("/caption", func(w http.ResponseWriter, r *http.Request) {
		handleCaption(svc, w, r)
	})

	r.Post("/generate", func(w http.ResponseWriter, r *http.Request) {
		handleGenerate(svc, w, r)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		// No dependency checks: healthy even before any model has loaded.
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(types.HealthResponse{Status: "ok"})
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)

	return r
}

// captionForm is the decoded multipart payload of POST /caption.
type captionForm struct {
	imageData []byte
	model     string
	question  string
	mode      string
}

// readCaptionForm walks the multipart parts directly so a file part with an
// empty filename stays distinguishable from a missing part;
// ParseMultipartForm folds empty-filename parts into plain values and would
// lose that case.
func readCaptionForm(r *http.Request) (captionForm, int, string) {
	var form captionForm
	mr, err := r.MultipartReader()
	if err != nil {
		return form, http.StatusBadRequest, "No image provided"
	}
	sawImage := false
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			if maxErr := (*http.MaxBytesError)(nil); errors.As(err, &maxErr) {
				return form, http.StatusRequestEntityTooLarge, "Request body too large"
			}
			return form, http.StatusBadRequest, "No image provided"
		}
		switch part.FormName() {
		case "image":
			sawImage = true
			if part.FileName() == "" {
				part.Close()
				return form, http.StatusBadRequest, "No image selected"
			}
			data, err := io.ReadAll(part)
			part.Close()
			if err != nil {
				if maxErr := (*http.MaxBytesError)(nil); errors.As(err, &maxErr) {
					return form, http.StatusRequestEntityTooLarge, "Request body too large"
				}
				return form, http.StatusBadRequest, "No image provided"
			}
			form.imageData = data
		case "model":
			form.model = readPartValue(part)
		case "question":
			form.question = readPartValue(part)
		case "mode":
			form.mode = readPartValue(part)
		default:
			part.Close()
		}
	}
	if !sawImage {
		return form, http.StatusBadRequest, "No image provided"
	}
	return form, 0, ""
}

func readPartValue(part *multipart.Part) string {
	defer part.Close()
	b, _ := io.ReadAll(io.LimitReader(part, 1<<20))
	return string(b)
}

func handleCaption(svc Service, w http.ResponseWriter, r *http.Request) {
	// Hosting-layer upload cap; oversize requests fail during part reads.
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	start := time.Now()
	form, status, msg := readCaptionForm(r)
	if status != 0 {
		logWarn(r, msg)
		writeJSONError(w, status, msg)
		return
	}

	img, err := decodeToRGB(form.imageData)
	if err != nil {
		captionError(w, r, err, start)
		return
	}

	// Join server base context with request context so shutdown cancels work too.
	ctx, cancel := joinContexts(serverBaseCtx, r.Context())
	defer cancel()
	text, err := svc.Caption(ctx, caption.CaptionRequest{
		Image:    img,
		Model:    form.model,
		Question: form.question,
		Mode:     form.mode,
	})
	if err != nil {
		if r.Context().Err() != nil || serverBaseCtx.Err() != nil {
			return
		}
		captionError(w, r, err, start)
		return
	}

	logInfo(r, "caption served", time.Since(start))
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(types.CaptionResponse{Text: text})
}

func handleGenerate(svc Service, w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	start := time.Now()

	// Malformed or absent bodies behave like an empty object; every field
	// has a server-side default. Oversize bodies are still rejected.
	var body struct {
		Prompt       *string  `json:"prompt"`
		Model        string   `json:"model"`
		MaxNewTokens *int     `json:"max_new_tokens"`
		Temperature  *float64 `json:"temperature"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		if maxErr := (*http.MaxBytesError)(nil); errors.As(err, &maxErr) {
			logWarn(r, "Request body too large")
			writeJSONError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
	}

	req := types.GenerateRequest{
		Model:        body.Model,
		MaxNewTokens: caption.DefaultMaxNewTokens,
		Temperature:  caption.DefaultTemperature,
	}
	if body.Prompt != nil {
		req.Prompt = *body.Prompt
	}
	if body.MaxNewTokens != nil {
		req.MaxNewTokens = *body.MaxNewTokens
	}
	if body.Temperature != nil {
		req.Temperature = *body.Temperature
	}

	ctx, cancel := joinContexts(serverBaseCtx, r.Context())
	defer cancel()
	text, model, err := svc.Generate(ctx, req)
	if err != nil {
		if r.Context().Err() != nil || serverBaseCtx.Err() != nil {
			return
		}
		logError(r, err, time.Since(start))
		writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("Error generating text: %s", err))
		return
	}

	logInfo(r, "generate served", time.Since(start))
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(types.GenerateResponse{Text: text, Model: model})
}

// captionError applies the catch-all policy: log the failure server-side and
// surface the message text to the caller as a 500.
func captionError(w http.ResponseWriter, r *http.Request, err error, start time.Time) {
	logError(r, err, time.Since(start))
	writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("Error analyzing image: %s", err))
}

// decodeToRGB decodes the uploaded bytes and normalizes them to 3-channel
// color (alpha is dropped when the runtime re-encodes).
func decodeToRGB(data []byte) (image.Image, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	b := src.Bounds()
	rgb := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgb, rgb.Bounds(), src, b.Min, draw.Src)
	return rgb, nil
}
