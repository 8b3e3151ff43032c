package registry

import "testing"

func TestImageModelsOrderAndUniqueness(t *testing.T) {
	want := []string{"blip-base", "blip-large", "vit-gpt2", "florence-2", "moondream-2"}
	got := ImageModels()
	if len(got) != len(want) {
		t.Fatalf("expected %d image models, got %d", len(want), len(got))
	}
	seen := map[string]bool{}
	for i, d := range got {
		if d.Key != want[i] {
			t.Fatalf("position %d: expected %q got %q", i, want[i], d.Key)
		}
		if seen[d.Key] {
			t.Fatalf("duplicate key %q", d.Key)
		}
		seen[d.Key] = true
	}
}

func TestTextModelsOrder(t *testing.T) {
	want := []string{"smollm2-1.7b", "phi3-mini", "gemma2-2b", "qwen2.5-1.5b", "tinyllama-1.1b"}
	got := TextModels()
	if len(got) != len(want) {
		t.Fatalf("expected %d text models, got %d", len(want), len(got))
	}
	for i, d := range got {
		if d.Key != want[i] {
			t.Fatalf("position %d: expected %q got %q", i, want[i], d.Key)
		}
	}
}

func TestImageModelsReturnsCopy(t *testing.T) {
	out := ImageModels()
	out[0].Key = "mutated"
	out2 := ImageModels()
	if out2[0].Key != "blip-base" {
		t.Fatalf("registry mutated via returned slice")
	}
}

func TestLookupImageUnknown(t *testing.T) {
	if _, ok := LookupImage("no-such-model"); ok {
		t.Fatalf("expected miss for unknown key")
	}
	d, ok := LookupImage(DefaultImageModel)
	if !ok || d.Backend != BackendTagPrompted {
		t.Fatalf("default image model not resolvable: ok=%v backend=%q", ok, d.Backend)
	}
}

func TestLookupTextPadToken(t *testing.T) {
	d, ok := LookupText("smollm2-1.7b")
	if !ok {
		t.Fatalf("expected smollm2-1.7b in registry")
	}
	if d.PadTokenID == nil || *d.PadTokenID != 128000 {
		t.Fatalf("expected pinned pad token 128000, got %v", d.PadTokenID)
	}
	if d2, _ := LookupText("phi3-mini"); d2.PadTokenID != nil {
		t.Fatalf("phi3-mini should not pin a pad token")
	}
}

func TestPromptTagFallbacks(t *testing.T) {
	d, _ := LookupImage("florence-2")
	cases := []struct {
		name string
		mode string
		want string
	}{
		{"explicit", "ocr", "<OCR>"},
		{"empty falls back to default", "", "<MORE_DETAILED_CAPTION>"},
		{"unknown falls back to default", "sideways", "<MORE_DETAILED_CAPTION>"},
		{"default equals explicit default", "more_detailed", "<MORE_DETAILED_CAPTION>"},
	}
	for _, tc := range cases {
		if got := d.PromptTag(tc.mode, "<MORE_DETAILED_CAPTION>"); got != tc.want {
			t.Fatalf("%s: PromptTag(%q)=%q want %q", tc.name, tc.mode, got, tc.want)
		}
	}
	// No mode table at all: hardcoded fallback wins.
	bare := Descriptor{Key: "bare"}
	if got := bare.PromptTag("anything", "<CAPTION>"); got != "<CAPTION>" {
		t.Fatalf("expected hardcoded fallback, got %q", got)
	}
}
