package dto

type Sport struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Event struct {
	ID       string `json:"id"`
	SportID  string `json:"sport_id"`
	HomeTeam string `json:"home_team"`
	AwayTeam string `json:"away_team"`
	StartsAt string `json:"starts_at"`
	Status   string `json:"status"`
}

type Market struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

type Odds struct {
	ID       string `json:"id"`
	MarketID string `json:"market_id"`
	Name     string `json:"name"`
	Value    string `json:"value"`
	Selector string `json:"selector,omitempty"`
}
