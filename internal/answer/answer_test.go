package answer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/futig/docqa-backend/internal/entity"
)

type fakeModel struct {
	reply      string
	err        error
	configured bool
	prompts    []string
}

func (f *fakeModel) Generate(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

func (f *fakeModel) Configured() bool { return f.configured }

func docs(texts ...string) []*entity.Document {
	out := make([]*entity.Document, len(texts))
	for i, text := range texts {
		out[i] = &entity.Document{Name: "doc" + string(rune('A'+i)), ExtractedText: text}
	}
	return out
}

func TestNew_SelectsStrategy(t *testing.T) {
	configured := &fakeModel{configured: true}
	unconfigured := &fakeModel{}

	tests := []struct {
		name     string
		mode     string
		client   LanguageModel
		expected string
		wantErr  bool
	}{
		{name: "local", mode: "local", client: configured, expected: "local"},
		{name: "model", mode: "model", client: unconfigured, expected: "model"},
		{name: "auto with credential", mode: "auto", client: configured, expected: "model"},
		{name: "auto without credential", mode: "auto", client: unconfigured, expected: "local"},
		{name: "auto without client", mode: "auto", client: nil, expected: "local"},
		{name: "model without client", mode: "model", client: nil, wantErr: true},
		{name: "unknown", mode: "magic", client: configured, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			answerer, err := New(tc.mode, tc.client)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, answerer.Name())
		})
	}
}

func TestLocal_NoReadableText(t *testing.T) {
	answer, err := NewLocal().Answer(context.Background(), "what?", docs("", "  \n"))

	require.NoError(t, err)
	assert.Equal(t, NoReadableTextMessage, answer)
}

func TestLocal_BestMatch(t *testing.T) {
	answer, err := NewLocal().Answer(context.Background(), "When is the invoice due?",
		docs("The invoice is due on March 3.", "Unrelated shipping notes."))

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(answer, "Best-matching text from your documents:"))
	assert.Contains(t, answer, "invoice is due on March 3")
}

func TestLocal_PreviewWhenNothingMatches(t *testing.T) {
	answer, err := NewLocal().Answer(context.Background(), "zebra", docs("alpha beta", "gamma"))

	require.NoError(t, err)
	assert.Contains(t, answer, "I couldn't find a strong match.")
	assert.Contains(t, answer, "alpha beta\n\ngamma")
}

func TestModel_NoReadableTextSkipsModel(t *testing.T) {
	model := &fakeModel{configured: true, reply: "should not be used"}

	answer, err := NewModel(model).Answer(context.Background(), "what?", docs(""))

	require.NoError(t, err)
	assert.Equal(t, NoReadableTextMessage, answer)
	assert.Empty(t, model.prompts)
}

func TestModel_ReturnsReplyVerbatim(t *testing.T) {
	model := &fakeModel{configured: true, reply: "  The total is 42.\n"}

	answer, err := NewModel(model).Answer(context.Background(), "total?", docs("Total: 42"))

	require.NoError(t, err)
	assert.Equal(t, "  The total is 42.\n", answer)
	require.Len(t, model.prompts, 1)
	assert.Contains(t, model.prompts[0], "Document 1: docA\n---\nTotal: 42")
}

func TestModel_EmptyReplyFallback(t *testing.T) {
	answer, err := NewModel(&fakeModel{configured: true, reply: " "}).Answer(context.Background(), "q", docs("text"))

	require.NoError(t, err)
	assert.Equal(t, NoResponseText, answer)
}

func TestModel_PropagatesTypedErrors(t *testing.T) {
	for _, sentinel := range []error{entity.ErrModelNotConfigured, entity.ErrModelTransport} {
		model := &fakeModel{err: errors.Join(sentinel, errors.New("detail"))}

		_, err := NewModel(model).Answer(context.Background(), "q", docs("text"))

		assert.ErrorIs(t, err, sentinel)
	}
}
