package runtime

import "context"

// textModel is the sidecar-backed TextModel implementation. Tokenizer token
// ids are captured once at load time; SetPadTokenID writes through to the
// sidecar and the local copy.
type textModel struct {
	client     *Client
	session    string
	padTokenID *int
	eosTokenID *int
}

func (m *textModel) PadTokenID() (int, bool) {
	if m.padTokenID == nil {
		return 0, false
	}
	return *m.padTokenID, true
}

func (m *textModel) EOSTokenID() (int, bool) {
	if m.eosTokenID == nil {
		return 0, false
	}
	return *m.eosTokenID, true
}

func (m *textModel) SetPadTokenID(ctx context.Context, id int) error {
	payload := struct {
		Session    string `json:"session"`
		PadTokenID int    `json:"pad_token_id"`
	}{Session: m.session, PadTokenID: id}
	if err := m.client.postJSON(ctx, "/tokenizer/pad", payload, nil); err != nil {
		return err
	}
	m.padTokenID = &id
	return nil
}

func (m *textModel) Generate(ctx context.Context, params GenerateParams) (string, error) {
	payload := struct {
		Session string `json:"session"`
		GenerateParams
	}{Session: m.session, GenerateParams: params}
	var resp struct {
		GeneratedText string `json:"generated_text"`
	}
	if err := m.client.postJSON(ctx, "/generate", payload, &resp); err != nil {
		return "", err
	}
	return resp.GeneratedText, nil
}
