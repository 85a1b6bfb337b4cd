package igdb

// NamedRef is a normalized {id, name} lookup row (genres, platforms).
type NamedRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// SearchQuery describes one catalog search. Limit and Offset are
// clamped to safe bounds before anything is sent upstream.
type SearchQuery struct {
	Term   string
	Limit  int
	Offset int
}

// GameSummary is the normalized projection returned by Search.
// Identity is the upstream numeric id; the core never mutates games,
// only fetches and reshapes them.
type GameSummary struct {
	ID               int64    `json:"id"`
	Name             string   `json:"name"`
	Genres           []string `json:"genres"`
	Platforms        []string `json:"platforms"`
	ReleaseTimestamp int64    `json:"releaseTimestamp,omitempty"`
	Summary          string   `json:"summary,omitempty"`
	Storyline        string   `json:"storyline,omitempty"`
	CoverURL         string   `json:"coverUrl,omitempty"`
	Rating           float64  `json:"rating,omitempty"`
	RatingCount      int      `json:"ratingCount,omitempty"`
	Companies        []string `json:"companies"`
	Screenshots      []string `json:"screenshots"`
	VideoIDs         []string `json:"videoIds"`
}

// GameDetail extends GameSummary with the associations only fetched for
// a single game.
type GameDetail struct {
	GameSummary
	GameModes    []string `json:"gameModes"`
	Themes       []string `json:"themes"`
	Perspectives []string `json:"perspectives"`
}

// Raw upstream shapes. IGDB nests expanded associations as objects.

type rawNamed struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type rawURL struct {
	URL string `json:"url"`
}

type rawGame struct {
	ID                 int64      `json:"id"`
	Name               string     `json:"name"`
	Genres             []rawNamed `json:"genres"`
	Platforms          []rawNamed `json:"platforms"`
	FirstReleaseDate   int64      `json:"first_release_date"`
	Summary            string     `json:"summary"`
	Storyline          string     `json:"storyline"`
	Cover              rawURL     `json:"cover"`
	Rating             float64    `json:"rating"`
	RatingCount        int        `json:"rating_count"`
	InvolvedCompanies  []struct {
		Company rawNamed `json:"company"`
	} `json:"involved_companies"`
	Screenshots []rawURL `json:"screenshots"`
	Videos      []struct {
		VideoID string `json:"video_id"`
	} `json:"videos"`
	GameModes          []rawNamed `json:"game_modes"`
	Themes             []rawNamed `json:"themes"`
	PlayerPerspectives []rawNamed `json:"player_perspectives"`
}

func names(refs []rawNamed) []string {
	out := make([]string, 0, len(refs))
	for _, r := range refs {
		if r.Name != "" {
			out = append(out, r.Name)
		}
	}
	return out
}

func urls(refs []rawURL) []string {
	out := make([]string, 0, len(refs))
	for _, r := range refs {
		if r.URL != "" {
			out = append(out, r.URL)
		}
	}
	return out
}

func (g *rawGame) summary() GameSummary {
	s := GameSummary{
		ID:               g.ID,
		Name:             g.Name,
		Genres:           names(g.Genres),
		Platforms:        names(g.Platforms),
		ReleaseTimestamp: g.FirstReleaseDate,
		Summary:          g.Summary,
		Storyline:        g.Storyline,
		CoverURL:         g.Cover.URL,
		Rating:           g.Rating,
		RatingCount:      g.RatingCount,
		Screenshots:      urls(g.Screenshots),
	}

	s.Companies = make([]string, 0, len(g.InvolvedCompanies))
	for _, ic := range g.InvolvedCompanies {
		if ic.Company.Name != "" {
			s.Companies = append(s.Companies, ic.Company.Name)
		}
	}

	s.VideoIDs = make([]string, 0, len(g.Videos))
	for _, v := range g.Videos {
		if v.VideoID != "" {
			s.VideoIDs = append(s.VideoIDs, v.VideoID)
		}
	}

	return s
}

func (g *rawGame) detail() GameDetail {
	return GameDetail{
		GameSummary:  g.summary(),
		GameModes:    names(g.GameModes),
		Themes:       names(g.Themes),
		Perspectives: names(g.PlayerPerspectives),
	}
}
