package settings

import "encoding/json"

// Persona selects which fixed character voice the system prompt adopts.
type Persona string

const (
	PersonaPicard  Persona = "picard"
	PersonaLocutus Persona = "locutus"
)

// Style is a secondary tone modifier applied only in the Picard persona.
type Style string

const (
	StyleDiplomatic    Style = "diplomatic"
	StylePhilosophical Style = "philosophical"
	StyleDirect        Style = "direct"
	StyleInspirational Style = "inspirational"
)

// Settings mirrors the ship's computer settings panel. AnimationSpeed
// drives the client-side reveal pacing (0 = instant, 1-100 = paced).
// When Persona is locutus, AdviceStyle and ShakespeareMode are ignored
// by the prompt builder. Encryption and DataRetention are cosmetic
// toggles kept for blob compatibility with older stored settings.
type Settings struct {
	AnimationSpeed  int     `json:"animationSpeed"`
	AdviceStyle     Style   `json:"adviceStyle"`
	Persona         Persona `json:"personaMode"`
	ShakespeareMode bool    `json:"shakespeareMode"`
	Encryption      bool    `json:"encryption"`
	DataRetention   bool    `json:"dataRetention"`
}

func Defaults() Settings {
	return Settings{
		AnimationSpeed:  50,
		AdviceStyle:     StyleDiplomatic,
		Persona:         PersonaPicard,
		ShakespeareMode: true,
		Encryption:      true,
		DataRetention:   false,
	}
}

// Normalized clamps AnimationSpeed into 0..100 and substitutes the default
// persona for unknown values. Unknown advice styles are left as-is: the
// prompt builder treats them as "no style block", which is not an error.
func (s Settings) Normalized() Settings {
	if s.AnimationSpeed < 0 {
		s.AnimationSpeed = 0
	}
	if s.AnimationSpeed > 100 {
		s.AnimationSpeed = 100
	}
	if s.Persona != PersonaLocutus {
		s.Persona = PersonaPicard
	}
	return s
}

// Parse decodes a stored settings blob, merging over the defaults so a
// partial blob (from an older version of the panel) keeps default values
// for the fields it omits. Malformed data yields the defaults.
func Parse(data []byte) Settings {
	s := Defaults()
	if len(data) == 0 {
		return s
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return Defaults()
	}
	return s.Normalized()
}
