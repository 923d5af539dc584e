package session

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"procurement/models"
)

func TestCreateAndGet(t *testing.T) {
	st := NewStore()
	s := st.Create()

	_, err := uuid.Parse(s.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ViewSalesReport, s.ViewMode())

	got, err := st.Get(s.ID)
	require.NoError(t, err)
	assert.Same(t, s, got)

	_, err = st.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	st.Delete(s.ID)
	assert.Equal(t, 0, st.Len())
}

func TestGetOrCreateKeepsID(t *testing.T) {
	st := NewStore()
	s := st.GetOrCreate("abc")
	assert.Equal(t, "abc", s.ID)
	assert.Same(t, s, st.GetOrCreate("abc"))
	assert.Equal(t, 1, st.Len())
}

func TestViewModeToggle(t *testing.T) {
	s := NewStore().Create()
	assert.Equal(t, models.ViewPurchaseSchedule, s.Toggle())
	assert.Equal(t, models.ViewSalesReport, s.Toggle())
	assert.Equal(t, models.ViewPurchaseSchedule, s.SetViewMode(models.ViewPurchaseSchedule))
	assert.Equal(t, models.ViewPurchaseSchedule, s.SetViewMode(models.ViewPurchaseSchedule))
}

func TestHistoryOrderAndBound(t *testing.T) {
	s := NewStore().Create()
	for _, text := range []string{"q1", "a1", "q2", "a2"} {
		s.Append(models.ConversationTurn{Text: text})
	}

	last := s.Last(3)
	require.Len(t, last, 3)
	assert.Equal(t, "a1", last[0].Text)
	assert.Equal(t, "a2", last[2].Text)
	assert.Len(t, s.Last(10), 4)

	// Copies do not alias internal state.
	last[0].Text = "changed"
	assert.Equal(t, "a1", s.History()[1].Text)

	s.ClearHistory()
	assert.Empty(t, s.History())
}

func TestConcurrentAppend(t *testing.T) {
	s := NewStore().Create()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Append(models.ConversationTurn{Role: models.RoleUser}, models.ConversationTurn{Role: models.RoleAssistant})
		}()
	}
	wg.Wait()

	h := s.History()
	require.Len(t, h, 40)
	for i := 0; i < len(h); i += 2 {
		assert.Equal(t, models.RoleUser, h[i].Role)
		assert.Equal(t, models.RoleAssistant, h[i+1].Role)
	}
}
