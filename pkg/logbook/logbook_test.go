package logbook

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"readyroom/pkg/settings"
)

var stardatePattern = regexp.MustCompile(`^(\d{2})\.(\d{4})$`)

func TestStardate_Format(t *testing.T) {
	wantYear := fmt.Sprintf("%02d", time.Now().Year()%100)

	for i := 0; i < 50; i++ {
		sd := Stardate()
		m := stardatePattern.FindStringSubmatch(sd)
		require.NotNil(t, m, "stardate %q should match YY.NNNN", sd)
		assert.Equal(t, wantYear, m[1])

		n, err := strconv.Atoi(m[2])
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 1000)
		assert.LessOrEqual(t, n, 9999)
	}
}

type fakeCompleter struct {
	title string
	err   error
	calls int
}

func (f *fakeCompleter) Complete(ctx context.Context, systemPrompt, userPrompt string, temperature float64, maxTokens int64) (string, error) {
	f.calls++
	return f.title, f.err
}

func TestAnnotator_Success(t *testing.T) {
	llm := &fakeCompleter{title: "The Measure of a Colleague"}
	a := NewAnnotator(llm)

	title, stardate := a.Annotate(context.Background(), "Should I confront a colleague?", "You must.", settings.PersonaPicard)

	assert.Equal(t, "The Measure of a Colleague", title)
	assert.Regexp(t, stardatePattern, stardate)
	assert.Equal(t, 1, llm.calls)
}

func TestAnnotator_FallbackOnFailure(t *testing.T) {
	tests := []struct {
		persona   settings.Persona
		wantTitle string
	}{
		{settings.PersonaPicard, FallbackTitlePicard},
		{settings.PersonaLocutus, FallbackTitleLocutus},
	}

	for _, tt := range tests {
		t.Run(string(tt.persona), func(t *testing.T) {
			llm := &fakeCompleter{err: errors.New("provider unavailable")}
			a := NewAnnotator(llm)

			title, stardate := a.Annotate(context.Background(), "dilemma", "advice", tt.persona)

			assert.Equal(t, tt.wantTitle, title)
			assert.NotEmpty(t, stardate)
			assert.Regexp(t, stardatePattern, stardate)
		})
	}
}

func TestAnnotator_FallbackOnEmptyTitle(t *testing.T) {
	llm := &fakeCompleter{title: ""}
	a := NewAnnotator(llm)

	title, _ := a.Annotate(context.Background(), "dilemma", "advice", settings.PersonaPicard)
	assert.Equal(t, FallbackTitlePicard, title)
}

func TestStore_AppendAssignsIDAndTimestamp(t *testing.T) {
	store := NewStore(context.Background(), nil)

	e, created := store.Append(context.Background(), Entry{
		Dilemma: "Should I confront a colleague?",
		Advice:  "The line must be drawn here.",
		Persona: settings.PersonaPicard,
		Title:   "Drawing the Line",
	})

	assert.True(t, created)
	assert.NotEmpty(t, e.ID)
	assert.False(t, e.SavedAt.IsZero())
	assert.Len(t, store.Entries(), 1)
}

func TestStore_DuplicateSaveIsIdempotent(t *testing.T) {
	store := NewStore(context.Background(), nil)

	first, created := store.Append(context.Background(), Entry{
		Dilemma: "same dilemma",
		Advice:  "same advice",
	})
	require.True(t, created)

	second, created := store.Append(context.Background(), Entry{
		Dilemma: "same dilemma",
		Advice:  "same advice",
		Title:   "a different title does not matter",
	})

	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, store.Entries(), 1)
}

func TestStore_DifferentPairsBothSaved(t *testing.T) {
	store := NewStore(context.Background(), nil)

	_, created := store.Append(context.Background(), Entry{Dilemma: "d1", Advice: "a1"})
	require.True(t, created)
	_, created = store.Append(context.Background(), Entry{Dilemma: "d1", Advice: "a2"})
	require.True(t, created)
	_, created = store.Append(context.Background(), Entry{Dilemma: "d2", Advice: "a1"})
	require.True(t, created)

	entries := store.Entries()
	require.Len(t, entries, 3)
	// Insertion order is preserved
	assert.Equal(t, "d1", entries[0].Dilemma)
	assert.Equal(t, "a2", entries[1].Advice)
	assert.Equal(t, "d2", entries[2].Dilemma)
}
