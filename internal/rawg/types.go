package rawg

// Game is the subset of a RAWG game record the reports use.
type Game struct {
	ID         int      `json:"id" yaml:"id"`
	Name       string   `json:"name" yaml:"name"`
	Released   string   `json:"released,omitempty" yaml:"released,omitempty"`
	Rating     float64  `json:"rating" yaml:"rating"`
	Metacritic int      `json:"metacritic,omitempty" yaml:"metacritic,omitempty"`
	Platforms  []string `json:"platforms,omitempty" yaml:"platforms,omitempty"`
}

type searchResponse struct {
	Count   int          `json:"count"`
	Results []gameRecord `json:"results"`
}

type gameRecord struct {
	ID         int     `json:"id"`
	Name       string  `json:"name"`
	Released   string  `json:"released"`
	Rating     float64 `json:"rating"`
	Metacritic int     `json:"metacritic"`
	Platforms  []struct {
		Platform struct {
			Name string `json:"name"`
		} `json:"platform"`
	} `json:"platforms"`
}

func (r gameRecord) toGame() Game {
	g := Game{
		ID:         r.ID,
		Name:       r.Name,
		Released:   r.Released,
		Rating:     r.Rating,
		Metacritic: r.Metacritic,
	}
	for _, p := range r.Platforms {
		if p.Platform.Name != "" {
			g.Platforms = append(g.Platforms, p.Platform.Name)
		}
	}
	return g
}
