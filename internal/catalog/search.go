package catalog

import (
	"fmt"
	"strings"
)

// SearchQuery combines free-text search with attribute filters. Zero
// values mean "no filter".
type SearchQuery struct {
	Text     string
	Brand    string
	RAM      string
	Storage  string
	Battery  string
	MinCents int
	MaxCents int

	Page  int
	Limit int
}

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Normalize clamps pagination to sane bounds.
func (q SearchQuery) Normalize() SearchQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = DefaultPageSize
	}
	if q.Limit > MaxPageSize {
		q.Limit = MaxPageSize
	}
	return q
}

// likeEscaper quotes the ILIKE metacharacters so user input always
// matches literally, never as a wildcard.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// WhereClause builds the WHERE fragment and its arguments for a search.
// Returns an empty string when nothing is filtered.
func (q SearchQuery) WhereClause() (string, []any) {
	var conds []string
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	pattern := func(s string) string {
		return arg("%" + likeEscaper.Replace(s) + "%")
	}

	if q.Text != "" {
		p := pattern(q.Text)
		conds = append(conds, fmt.Sprintf("(name ILIKE %s OR description ILIKE %s)", p, p))
	}
	if q.Brand != "" {
		conds = append(conds, "brand ILIKE "+pattern(q.Brand))
	}
	if q.RAM != "" {
		conds = append(conds, "spec_ram ILIKE "+pattern(q.RAM))
	}
	if q.Storage != "" {
		conds = append(conds, "spec_storage ILIKE "+pattern(q.Storage))
	}
	if q.Battery != "" {
		conds = append(conds, "spec_battery ILIKE "+pattern(q.Battery))
	}
	if q.MinCents > 0 {
		conds = append(conds, "offer_cents >= "+arg(q.MinCents))
	}
	if q.MaxCents > 0 {
		conds = append(conds, "offer_cents <= "+arg(q.MaxCents))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

type SearchResult struct {
	Page       int       `json:"page"`
	Limit      int       `json:"limit"`
	TotalFound int       `json:"totalProductsFound"`
	TotalPages int       `json:"totalPages"`
	Products   []Product `json:"products"`
}
