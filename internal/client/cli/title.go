package cli

import (
	"math/rand"
	"time"
)

var (
	drinkWords = []string{
		"Sip", "Gulp", "Drink", "Hydrate", "Chug", "Pour", "Swig", "Refresh",
	}
	timeWords = []string{
		"Morning", "Noon", "Evening", "Night", "Bedtime", "Late Night",
		"Sunrise", "Sunset", "Daily", "Today", "Now",
	}
	trackingWords = []string{
		"Log", "Count", "Tracker", "Journal", "Monitor", "Record", "Reminder", "Flow",
	}
)

// TitleGenerator produces readable titles for records the user did not
// bother to name, like "Morning Sip" or "HydrateTracker".
type TitleGenerator struct {
	r *rand.Rand
}

func NewTitleGenerator() *TitleGenerator {
	return &TitleGenerator{r: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (g *TitleGenerator) pick(words []string) string {
	return words[g.r.Intn(len(words))]
}

// Title combines a drink, time, and tracking word in one of eight
// patterns.
func (g *TitleGenerator) Title() string {
	switch g.r.Intn(8) {
	case 0:
		return g.pick(drinkWords) + g.pick(trackingWords)
	case 1:
		return g.pick(timeWords) + " " + g.pick(drinkWords)
	case 2:
		return g.pick(trackingWords) + " " + g.pick(drinkWords)
	case 3:
		return g.pick(timeWords) + " " + g.pick(trackingWords)
	case 4:
		return g.pick(drinkWords) + " " + g.pick(timeWords)
	case 5:
		return g.pick(trackingWords) + g.pick(timeWords)
	case 6:
		return g.pick(drinkWords) + " " + g.pick(trackingWords) + " " + g.pick(timeWords)
	default:
		return g.pick(timeWords) + " " + g.pick(drinkWords) + " " + g.pick(trackingWords)
	}
}

// Suggestions returns up to n distinct generated titles.
func (g *TitleGenerator) Suggestions(n int) []string {
	seen := make(map[string]struct{}, n)
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		t := g.Title()
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
