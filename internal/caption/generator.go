package caption

import (
	"context"
	"strings"

	"captiond/internal/registry"
	"captiond/internal/runtime"
)

// Defaults applied by the HTTP layer when the generate request omits fields.
const (
	DefaultMaxNewTokens = 256
	DefaultTemperature  = 0.7
)

// generator wraps a loaded text model with its resolved pad token.
type generator struct {
	model      runtime.TextModel
	padTokenID *int
}

// newGenerator resolves the pad token once at load time: descriptor literal,
// else the tokenizer's own pad id, else its eos id. When the tokenizer has no
// pad id configured, the resolved value is pushed back so generation calls do
// not warn or fail.
func newGenerator(ctx context.Context, model runtime.TextModel, desc registry.Descriptor) (*generator, error) {
	var pad *int
	switch {
	case desc.PadTokenID != nil:
		v := *desc.PadTokenID
		pad = &v
	default:
		if id, ok := model.PadTokenID(); ok {
			v := id
			pad = &v
		} else if id, ok := model.EOSTokenID(); ok {
			v := id
			pad = &v
		}
	}
	if _, ok := model.PadTokenID(); !ok && pad != nil {
		if err := model.SetPadTokenID(ctx, *pad); err != nil {
			return nil, err
		}
	}
	return &generator{model: model, padTokenID: pad}, nil
}

// Generate runs one sampling call and strips the exact prompt prefix from the
// output when the model echoes it, so only the continuation is returned.
func (g *generator) Generate(ctx context.Context, prompt string, maxNewTokens int, temperature float64) (string, error) {
	out, err := g.model.Generate(ctx, runtime.GenerateParams{
		Prompt:             prompt,
		MaxNewTokens:       maxNewTokens,
		Temperature:        temperature,
		DoSample:           true,
		PadTokenID:         g.padTokenID,
		NumReturnSequences: 1,
	})
	if err != nil {
		return "", err
	}
	if strings.HasPrefix(out, prompt) {
		return out[len(prompt):], nil
	}
	return out, nil
}
