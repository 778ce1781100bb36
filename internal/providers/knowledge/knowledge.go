package knowledge

import "context"

// BotInfo mirrors one entry of the query service's bot listing.
type BotInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
}

// Source is one cited document as returned by the query service.
type Source struct {
	Source string `json:"source"`
	Page   int    `json:"page"`
}

// Result is a raw answer before citation normalization.
type Result struct {
	Answer  string   `json:"answer"`
	Sources []Source `json:"sources"`
}

type Provider interface {
	Query(ctx context.Context, botName, query string) (*Result, error)
	AvailableBots(ctx context.Context) ([]BotInfo, error)
	Health(ctx context.Context) error
}
