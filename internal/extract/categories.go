package extract

import "strings"

// Inference holds keyword scores per category and the selected categories.
type Inference struct {
	Scores   map[string]int `json:"scores"`
	Selected []string       `json:"selected_categories"`
}

var categoryKeywords = map[string][]string{
	"CPM": {
		"cellular potts", "cpm", "adhesion", "contact energy",
		"volume constraint", "surface constraint", "cell sorting",
	},
	"PDE": {
		"reaction-diffusion", "diffusion equation", "chemotaxis",
		"morphogen", "concentration field", "gradient",
	},
	"ODE": {
		"ordinary differential equation", "ode",
		"kinetic model", "rate equation", "temporal dynamics",
	},
	"Multiscale": {
		"multiscale", "coupled model", "hybrid model",
		"cell-field interaction", "feedback loop",
	},
}

// categoryOrder keeps selected categories deterministic.
var categoryOrder = []string{"CPM", "PDE", "ODE", "Multiscale"}

// InferCategories scores paper text against per-category keyword lists and
// selects every category with at least one hit, falling back to
// Miscellaneous when nothing matches.
func InferCategories(text string) Inference {
	t := strings.ToLower(text)
	scores := make(map[string]int, len(categoryKeywords))
	for cat, keywords := range categoryKeywords {
		n := 0
		for _, k := range keywords {
			if strings.Contains(t, k) {
				n++
			}
		}
		scores[cat] = n
	}

	var selected []string
	for _, cat := range categoryOrder {
		if scores[cat] > 0 {
			selected = append(selected, cat)
		}
	}
	if len(selected) == 0 {
		selected = []string{"Miscellaneous"}
	}
	return Inference{Scores: scores, Selected: selected}
}
