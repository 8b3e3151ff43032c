package caption

import (
	"context"
	"encoding/json"
	"errors"
	"image"

	"captiond/internal/runtime"
)

// fakeImageModel scripts the runtime calls and records the prompts it saw.
type fakeImageModel struct {
	pipelineResults []runtime.Generation
	generatedText   string
	queryRaw        json.RawMessage
	captionRaw      json.RawMessage
	err             error

	lastTag   string
	lastQuery string
	calls     []string
}

func (f *fakeImageModel) Pipeline(ctx context.Context, img image.Image) ([]runtime.Generation, error) {
	f.calls = append(f.calls, "pipeline")
	return f.pipelineResults, f.err
}

func (f *fakeImageModel) GenerateWithPrompt(ctx context.Context, img image.Image, prompt string) (string, error) {
	f.calls = append(f.calls, "generate")
	f.lastTag = prompt
	return f.generatedText, f.err
}

func (f *fakeImageModel) Query(ctx context.Context, img image.Image, prompt string) (json.RawMessage, error) {
	f.calls = append(f.calls, "query")
	f.lastQuery = prompt
	return f.queryRaw, f.err
}

func (f *fakeImageModel) Caption(ctx context.Context, img image.Image) (json.RawMessage, error) {
	f.calls = append(f.calls, "caption")
	return f.captionRaw, f.err
}

// fakeTextModel scripts tokenizer state and generation output.
type fakeTextModel struct {
	padID      *int
	eosID      *int
	out        string
	genErr     error
	setPadIDs  []int
	lastParams runtime.GenerateParams
}

func (f *fakeTextModel) PadTokenID() (int, bool) {
	if f.padID == nil {
		return 0, false
	}
	return *f.padID, true
}

func (f *fakeTextModel) EOSTokenID() (int, bool) {
	if f.eosID == nil {
		return 0, false
	}
	return *f.eosID, true
}

func (f *fakeTextModel) SetPadTokenID(ctx context.Context, id int) error {
	f.setPadIDs = append(f.setPadIDs, id)
	v := id
	f.padID = &v
	return nil
}

func (f *fakeTextModel) Generate(ctx context.Context, params runtime.GenerateParams) (string, error) {
	f.lastParams = params
	return f.out, f.genErr
}

// fakeLoader counts initializations per hub id, which is the load-count side
// channel the cache tests observe.
type fakeLoader struct {
	image      *fakeImageModel
	text       *fakeTextModel
	imageLoads map[string]int
	textLoads  map[string]int
	failNext   int
}

func newFakeLoader(img *fakeImageModel, txt *fakeTextModel) *fakeLoader {
	return &fakeLoader{
		image:      img,
		text:       txt,
		imageLoads: make(map[string]int),
		textLoads:  make(map[string]int),
	}
}

func (f *fakeLoader) LoadImageModel(ctx context.Context, spec runtime.ModelSpec) (runtime.ImageModel, error) {
	if f.failNext > 0 {
		f.failNext--
		return nil, errors.New("runtime unavailable")
	}
	f.imageLoads[spec.HubID]++
	return f.image, nil
}

func (f *fakeLoader) LoadTextModel(ctx context.Context, spec runtime.ModelSpec) (runtime.TextModel, error) {
	if f.failNext > 0 {
		f.failNext--
		return nil, errors.New("runtime unavailable")
	}
	f.textLoads[spec.HubID]++
	return f.text, nil
}

func (f *fakeLoader) totalImageLoads() int {
	n := 0
	for _, c := range f.imageLoads {
		n += c
	}
	return n
}

func testImg() image.Image {
	return image.NewNRGBA(image.Rect(0, 0, 2, 2))
}
