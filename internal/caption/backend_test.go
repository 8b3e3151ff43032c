package caption

import (
	"context"
	"encoding/json"
	"testing"

	"captiond/internal/registry"
	"captiond/internal/runtime"
)

func florenceDesc(t *testing.T) registry.Descriptor {
	t.Helper()
	d, ok := registry.LookupImage("florence-2")
	if !ok {
		t.Fatalf("florence-2 missing from registry")
	}
	return d
}

func moondreamDesc(t *testing.T) registry.Descriptor {
	t.Helper()
	d, ok := registry.LookupImage("moondream-2")
	if !ok {
		t.Fatalf("moondream-2 missing from registry")
	}
	return d
}

func TestPipelineBackendTakesFirstResult(t *testing.T) {
	img := &fakeImageModel{pipelineResults: []runtime.Generation{
		{GeneratedText: "a dog"},
		{GeneratedText: "a cat"},
	}}
	b := newBackend(registry.Descriptor{Key: "blip-base", Backend: registry.BackendPipeline}, img)
	got, err := b.Caption(context.Background(), testImg(), "", "")
	if err != nil {
		t.Fatalf("caption: %v", err)
	}
	if got != "a dog" {
		t.Fatalf("got %q", got)
	}
}

func TestPipelineBackendEmptyResultErrors(t *testing.T) {
	b := newBackend(registry.Descriptor{Backend: registry.BackendPipeline}, &fakeImageModel{})
	if _, err := b.Caption(context.Background(), testImg(), "", ""); err == nil {
		t.Fatalf("expected error for empty pipeline result")
	}
}

func TestTagPromptedUnknownModeMatchesDefault(t *testing.T) {
	img := &fakeImageModel{generatedText: "<MORE_DETAILED_CAPTION> a view"}
	b := newBackend(florenceDesc(t), img)

	if _, err := b.Caption(context.Background(), testImg(), "", "no-such-mode"); err != nil {
		t.Fatalf("caption: %v", err)
	}
	unknownTag := img.lastTag
	if _, err := b.Caption(context.Background(), testImg(), "", "more_detailed"); err != nil {
		t.Fatalf("caption: %v", err)
	}
	if img.lastTag != unknownTag {
		t.Fatalf("unknown mode tag %q != default mode tag %q", unknownTag, img.lastTag)
	}
	if img.lastTag != "<MORE_DETAILED_CAPTION>" {
		t.Fatalf("tag=%q", img.lastTag)
	}
}

func TestTagPromptedExplicitMode(t *testing.T) {
	img := &fakeImageModel{generatedText: "<OCR>some text"}
	b := newBackend(florenceDesc(t), img)
	got, err := b.Caption(context.Background(), testImg(), "", "ocr")
	if err != nil {
		t.Fatalf("caption: %v", err)
	}
	if img.lastTag != "<OCR>" {
		t.Fatalf("tag=%q", img.lastTag)
	}
	if got != "some text" {
		t.Fatalf("tag prefix not stripped: %q", got)
	}
}

func TestTagPromptedKeepsOutputWithoutTagPrefix(t *testing.T) {
	img := &fakeImageModel{generatedText: "a plain caption"}
	b := newBackend(florenceDesc(t), img)
	got, err := b.Caption(context.Background(), testImg(), "", "")
	if err != nil {
		t.Fatalf("caption: %v", err)
	}
	if got != "a plain caption" {
		t.Fatalf("got %q", got)
	}
}

func TestTagPromptedQuestionPrefix(t *testing.T) {
	img := &fakeImageModel{generatedText: "<MORE_DETAILED_CAPTION>a busy street"}
	b := newBackend(florenceDesc(t), img)
	got, err := b.Caption(context.Background(), testImg(), "what is shown?", "")
	if err != nil {
		t.Fatalf("caption: %v", err)
	}
	want := "Question: what is shown?\nAnswer: a busy street"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestConversationalRoastUsesQuestionOrFallback(t *testing.T) {
	img := &fakeImageModel{queryRaw: json.RawMessage(`{"answer":"zing"}`)}
	b := newBackend(moondreamDesc(t), img)
	ctx := context.Background()

	got, err := b.Caption(ctx, testImg(), "why so serious?", "roast")
	if err != nil {
		t.Fatalf("caption: %v", err)
	}
	if got != "zing" {
		t.Fatalf("got %q", got)
	}
	if img.lastQuery != "why so serious?" {
		t.Fatalf("query=%q", img.lastQuery)
	}

	if _, err := b.Caption(ctx, testImg(), "   ", "roast"); err != nil {
		t.Fatalf("caption: %v", err)
	}
	if img.lastQuery != fallbackRoastPrompt {
		t.Fatalf("expected fallback roast prompt, got %q", img.lastQuery)
	}
}

func TestConversationalDefaultModeCaptions(t *testing.T) {
	img := &fakeImageModel{captionRaw: json.RawMessage(`{"caption":"a quiet lake"}`)}
	b := newBackend(moondreamDesc(t), img)
	got, err := b.Caption(context.Background(), testImg(), "", "")
	if err != nil {
		t.Fatalf("caption: %v", err)
	}
	if got != "a quiet lake" {
		t.Fatalf("got %q", got)
	}
	if len(img.calls) != 1 || img.calls[0] != "caption" {
		t.Fatalf("calls=%v", img.calls)
	}
}

func TestConversationalUnstructuredResultStringified(t *testing.T) {
	img := &fakeImageModel{captionRaw: json.RawMessage(`"bare text"`)}
	b := newBackend(moondreamDesc(t), img)
	got, err := b.Caption(context.Background(), testImg(), "", "caption")
	if err != nil {
		t.Fatalf("caption: %v", err)
	}
	if got != "bare text" {
		t.Fatalf("got %q", got)
	}
}

func TestFieldOrString(t *testing.T) {
	cases := []struct {
		name  string
		raw   string
		field string
		want  string
	}{
		{"structured", `{"answer":"yes"}`, "answer", "yes"},
		{"missing field falls back", `{"other":1}`, "answer", `{"other":1}`},
		{"json string", `"plain"`, "answer", "plain"},
		{"non-json", `plain`, "answer", "plain"},
	}
	for _, tc := range cases {
		if got := fieldOrString(json.RawMessage(tc.raw), tc.field); got != tc.want {
			t.Fatalf("%s: got %q want %q", tc.name, got, tc.want)
		}
	}
}
