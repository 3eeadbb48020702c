package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"readyroom/pkg/settings"
)

func TestBuildSystemPrompt_Deterministic(t *testing.T) {
	s := settings.Defaults()
	first := BuildSystemPrompt(s)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, BuildSystemPrompt(s))
	}
}

func TestBuildSystemPrompt_LocutusIgnoresStyleAndShakespeare(t *testing.T) {
	styles := []settings.Style{
		settings.StyleDiplomatic,
		settings.StylePhilosophical,
		settings.StyleDirect,
		settings.StyleInspirational,
	}

	base := BuildSystemPrompt(settings.Settings{Persona: settings.PersonaLocutus})
	require.NotEmpty(t, base)
	assert.Contains(t, base, "Locutus")

	// All style/shakespeare combinations produce the identical prompt
	for _, style := range styles {
		for _, shakespeare := range []bool{true, false} {
			s := settings.Settings{
				Persona:         settings.PersonaLocutus,
				AdviceStyle:     style,
				ShakespeareMode: shakespeare,
			}
			assert.Equal(t, base, BuildSystemPrompt(s))
		}
	}
}

func TestBuildSystemPrompt_ExactlyOneShakespeareClause(t *testing.T) {
	for _, shakespeare := range []bool{true, false} {
		s := settings.Defaults()
		s.ShakespeareMode = shakespeare
		out := BuildSystemPrompt(s)

		enabled := strings.Contains(out, shakespeareEnabled)
		suppressed := strings.Contains(out, shakespeareSuppressed)
		assert.NotEqual(t, enabled, suppressed,
			"exactly one clause must be present (shakespeareMode=%v)", shakespeare)
		assert.Equal(t, shakespeare, enabled)
	}
}

func TestBuildSystemPrompt_UnknownStyleAddsNoBlock(t *testing.T) {
	s := settings.Defaults()
	s.AdviceStyle = settings.Style("klingon")
	out := BuildSystemPrompt(s)

	for _, block := range styleBlocks {
		assert.NotContains(t, out, block)
	}
	// Preamble and closing are still present
	assert.Contains(t, out, "Jean-Luc Picard")
	assert.Contains(t, out, "natural paragraph breaks")
}

func TestBuildSystemPrompt_DirectStyleExcludesOthers(t *testing.T) {
	s := settings.Settings{
		Persona:         settings.PersonaPicard,
		AdviceStyle:     settings.StyleDirect,
		ShakespeareMode: false,
	}
	out := BuildSystemPrompt(s)

	assert.Contains(t, out, styleBlocks[settings.StyleDirect])
	assert.Contains(t, out, shakespeareSuppressed)
	assert.NotContains(t, out, shakespeareEnabled)
	assert.NotContains(t, out, styleBlocks[settings.StyleDiplomatic])
	assert.NotContains(t, out, styleBlocks[settings.StylePhilosophical])
	assert.NotContains(t, out, styleBlocks[settings.StyleInspirational])
}

func TestBuildTitlePrompt_TruncatesInputs(t *testing.T) {
	longDilemma := strings.Repeat("d", 250)
	longAdvice := strings.Repeat("a", 500)

	out := BuildTitlePrompt(longDilemma, longAdvice, settings.PersonaPicard)

	assert.Contains(t, out, strings.Repeat("d", 100)+"...")
	assert.NotContains(t, out, strings.Repeat("d", 101))
	assert.Contains(t, out, strings.Repeat("a", 300)+"...")
	assert.NotContains(t, out, strings.Repeat("a", 301))
}

func TestBuildTitlePrompt_PersonaTone(t *testing.T) {
	picard := BuildTitlePrompt("a dilemma", "some advice", settings.PersonaPicard)
	locutus := BuildTitlePrompt("a dilemma", "some advice", settings.PersonaLocutus)

	assert.Contains(t, picard, "As Captain Picard")
	assert.Contains(t, locutus, "As Locutus of Borg")
	assert.NotEqual(t, picard, locutus)
}
