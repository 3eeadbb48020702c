package logbook

import (
	"context"
	"log"

	"readyroom/pkg/prompt"
	"readyroom/pkg/settings"
)

// Fallback titles, used whenever the title request fails or comes back
// empty. The caller is never left without both fields.
const (
	FallbackTitlePicard  = "Captain's Log Entry"
	FallbackTitleLocutus = "Collective Analysis Protocol"
)

const (
	titleTemperature = 0.7
	titleMaxTokens   = 30
)

// TitleCompleter is the one provider call the annotator needs.
type TitleCompleter interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string, temperature float64, maxTokens int64) (string, error)
}

// Annotator produces the title and stardate for a completed response.
type Annotator struct {
	llm TitleCompleter
}

func NewAnnotator(llm TitleCompleter) *Annotator {
	return &Annotator{llm: llm}
}

// Annotate issues one title request and generates a stardate locally.
// Provider failure is fully recovered: the persona fallback title is
// returned and never an error.
func (a *Annotator) Annotate(ctx context.Context, dilemma, advice string, persona settings.Persona) (title, stardate string) {
	stardate = Stardate()

	userPrompt := prompt.BuildTitlePrompt(dilemma, advice, persona)
	title, err := a.llm.Complete(ctx, prompt.TitleSystemPrompt, userPrompt, titleTemperature, titleMaxTokens)
	if err != nil || title == "" {
		if err != nil {
			log.Printf("Title generation failed, using fallback: %v", err)
		}
		return fallbackTitle(persona), stardate
	}

	return title, stardate
}

func fallbackTitle(persona settings.Persona) string {
	if persona == settings.PersonaLocutus {
		return FallbackTitleLocutus
	}
	return FallbackTitlePicard
}
