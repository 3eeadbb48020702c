package logbook

import (
	"fmt"
	"math/rand"
	"time"

	"readyroom/pkg/settings"
)

// Entry is one archived consultation. Entries are immutable once created;
// the log is append-only.
type Entry struct {
	ID       string           `json:"id"`
	Dilemma  string           `json:"dilemma"`
	Advice   string           `json:"advice"`
	Persona  settings.Persona `json:"persona"`
	Title    string           `json:"title"`
	Stardate string           `json:"stardate"`
	SavedAt  time.Time        `json:"savedAt"`
}

// Stardate generates a synthetic stardate: the current year's last two
// digits, a period, and a random 4-digit number. Purely cosmetic, no
// calendrical meaning.
func Stardate() string {
	year := time.Now().Year() % 100
	return fmt.Sprintf("%02d.%d", year, rand.Intn(9000)+1000)
}
