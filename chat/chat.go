// Package chat answers operator questions about the table on screen.
package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"procurement/config"
	"procurement/gemini"
	"procurement/models"
	"procurement/session"
)

// FailureText replaces the answer when the model call fails.
const FailureText = "Error: Could not get response from Gemini AI."

// NoDataText is shown when there is no table to discuss.
const NoDataText = "No data available for chat."

// ErrNoData means the current view has no rows to answer from.
var ErrNoData = errors.New("no data available for chat")

var instructions = []string{
	"You are a helpful data assistant.",
	"Answer the user's question in clear, natural language, using only the data provided below.",
	"If the answer is not in the data, say you don't know.",
	"If the user asks about a product by name (e.g. 'Tastic Rice'), match it to the closest product name in the product mapping (using substring or fuzzy match if needed).",
	"If the user asks about a generic product (e.g. 'Tastic Rice'), show all matching products and their sales or recommended order quantities.",
	"If the user asks about a specific product (e.g. 'Tastic 10kg'), show just that product's sales or recommended order.",
	"If the user asks about a supplier (by name or SupplierID), use the supplier mapping to answer.",
	"If the user asks which supplier provides a product, use the product-to-supplier mapping.",
	"If the user asks which supplier sold the most product or has the highest recommended order, use the supplier total quantity mapping.",
}

// BuildPrompt combines the fixed instructions, the table summary and the question.
func BuildPrompt(summary, question string) string {
	var b strings.Builder
	b.WriteString(strings.Join(instructions, " "))
	b.WriteString(" Data context:\n")
	b.WriteString(summary)
	b.WriteString("\nUser question: ")
	b.WriteString(question)
	return b.String()
}

// Orchestrator runs one question/answer exchange per call and keeps the
// session's conversation in request order.
type Orchestrator struct {
	Generator    gemini.Generator
	HistoryLimit int

	now func() time.Time
}

func NewOrchestrator(gen gemini.Generator, historyLimit int) *Orchestrator {
	return &Orchestrator{Generator: gen, HistoryLimit: historyLimit, now: time.Now}
}

// Ask sends question with summary as context and appends both turns to sess.
// A model failure is not returned as an error; it becomes an assistant turn
// with the error hint.
func (o *Orchestrator) Ask(ctx context.Context, sess *session.State, summary, question string) ([]models.ConversationTurn, error) {
	if strings.TrimSpace(summary) == "" {
		return nil, ErrNoData
	}

	asked := o.now()
	answer, err := o.Generator.Generate(ctx, BuildPrompt(summary, question))
	hint := models.HintAssistant
	if err != nil {
		config.LogError("chat", "Ask", "model call failed", logrus.Fields{"session": sess.ID}, err)
		answer, hint = FailureText, models.HintError
	}

	turns := []models.ConversationTurn{
		{Role: models.RoleUser, Text: question, Hint: models.HintUser, CreatedAt: asked},
		{Role: models.RoleAssistant, Text: answer, Hint: hint, CreatedAt: o.now()},
	}
	sess.Append(turns...)
	return turns, nil
}

// Render returns the most recent turns that fit the history limit, oldest first.
// A limit of zero or less shows everything.
func (o *Orchestrator) Render(sess *session.State) []models.ConversationTurn {
	if o.HistoryLimit <= 0 {
		return sess.History()
	}
	return sess.Last(o.HistoryLimit)
}
