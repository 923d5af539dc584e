package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"procurement/cache"
)

func TestCachedCallsModelOncePerPrompt(t *testing.T) {
	ctx := context.Background()
	mock := &MockGenerator{Reply: func(p string) (string, error) { return "answer to " + p, nil }}
	c := cache.New()
	gen := Cached(mock, c)

	a, err := gen.Generate(ctx, "how many?")
	require.NoError(t, err)
	b, err := gen.Generate(ctx, "how many?")
	require.NoError(t, err)
	assert.Equal(t, "answer to how many?", a)
	assert.Equal(t, a, b)
	assert.Equal(t, 1, mock.Calls())

	_, err = gen.Generate(ctx, "how many? ")
	require.NoError(t, err)
	assert.Equal(t, 2, mock.Calls(), "prompt text is matched exactly")

	c.Clear()
	_, err = gen.Generate(ctx, "how many?")
	require.NoError(t, err)
	assert.Equal(t, 3, mock.Calls())
}

func TestCachedDoesNotStoreFailures(t *testing.T) {
	ctx := context.Background()
	fail := true
	mock := &MockGenerator{Reply: func(string) (string, error) {
		if fail {
			return "", errors.New("quota exceeded")
		}
		return "fine", nil
	}}
	gen := Cached(mock, cache.New())

	_, err := gen.Generate(ctx, "q")
	assert.EqualError(t, err, "quota exceeded")

	fail = false
	got, err := gen.Generate(ctx, "q")
	require.NoError(t, err)
	assert.Equal(t, "fine", got)
	assert.Equal(t, 2, mock.Calls())
}

func TestResponseText(t *testing.T) {
	_, err := responseText(nil)
	assert.ErrorIs(t, err, ErrEmptyResponse)

	_, err = responseText(&genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: &genai.Content{}}}})
	assert.ErrorIs(t, err, ErrEmptyResponse)

	got, err := responseText(&genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content: &genai.Content{Parts: []genai.Part{genai.Text("Acme "), genai.Text("supplies 3 items.")}},
	}}})
	require.NoError(t, err)
	assert.Equal(t, "Acme supplies 3 items.", got)
}

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient(context.Background(), "", "")
	assert.Error(t, err)
}

func TestUnavailable(t *testing.T) {
	gen := Unavailable(errors.New("no key"))
	_, err := gen.Generate(context.Background(), "q")
	assert.EqualError(t, err, "no key")
}
