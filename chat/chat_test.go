package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"procurement/cache"
	"procurement/gemini"
	"procurement/models"
	"procurement/session"
)

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt("Total items: 2", "who supplies rice?")
	assert.True(t, strings.HasPrefix(p, "You are a helpful data assistant."))
	assert.Contains(t, p, "Data context:\nTotal items: 2\nUser question: who supplies rice?")
	assert.True(t, strings.HasSuffix(p, "who supplies rice?"))
	assert.Equal(t, p, BuildPrompt("Total items: 2", "who supplies rice?"))
}

func TestAskAppendsTurnsInOrder(t *testing.T) {
	mock := &gemini.MockGenerator{Reply: func(string) (string, error) { return "Acme supplies rice.", nil }}
	o := NewOrchestrator(mock, 50)
	sess := session.NewStore().Create()

	turns, err := o.Ask(context.Background(), sess, "summary", "who supplies rice?")
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, models.RoleUser, turns[0].Role)
	assert.Equal(t, "who supplies rice?", turns[0].Text)
	assert.Equal(t, models.RoleAssistant, turns[1].Role)
	assert.Equal(t, models.HintAssistant, turns[1].Hint)
	assert.Equal(t, "Acme supplies rice.", turns[1].Text)
	assert.Equal(t, turns, sess.History())
	assert.Contains(t, mock.LastPrompt(), "summary")
}

func TestAskFailureIsInlineAndRetried(t *testing.T) {
	fail := true
	mock := &gemini.MockGenerator{Reply: func(string) (string, error) {
		if fail {
			return "", errors.New("503 unavailable")
		}
		return "42 units", nil
	}}
	o := NewOrchestrator(gemini.Cached(mock, cache.New()), 50)
	sess := session.NewStore().Create()
	ctx := context.Background()

	turns, err := o.Ask(ctx, sess, "summary", "how many?")
	require.NoError(t, err)
	assert.Equal(t, FailureText, turns[1].Text)
	assert.Equal(t, models.HintError, turns[1].Hint)

	fail = false
	turns, err = o.Ask(ctx, sess, "summary", "how many?")
	require.NoError(t, err)
	assert.Equal(t, "42 units", turns[1].Text)
	assert.Equal(t, 2, mock.Calls())
	assert.Len(t, sess.History(), 4)
}

func TestAskWithoutData(t *testing.T) {
	mock := &gemini.MockGenerator{}
	o := NewOrchestrator(mock, 50)
	sess := session.NewStore().Create()

	_, err := o.Ask(context.Background(), sess, "  ", "anything?")
	assert.ErrorIs(t, err, ErrNoData)
	assert.Zero(t, mock.Calls())
	assert.Empty(t, sess.History())
}

func TestRenderIsBounded(t *testing.T) {
	o := NewOrchestrator(&gemini.MockGenerator{}, 3)
	sess := session.NewStore().Create()
	for i := 0; i < 3; i++ {
		_, err := o.Ask(context.Background(), sess, "summary", "q")
		require.NoError(t, err)
	}

	shown := o.Render(sess)
	require.Len(t, shown, 3)
	assert.Equal(t, models.RoleAssistant, shown[0].Role)
	assert.Equal(t, models.RoleAssistant, shown[2].Role)

	o.HistoryLimit = 0
	assert.Len(t, o.Render(sess), 6)
}
