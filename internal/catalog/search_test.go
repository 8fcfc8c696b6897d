package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSearchQueryNormalize(t *testing.T) {
	q := SearchQuery{}.Normalize()
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, DefaultPageSize, q.Limit)

	q = SearchQuery{Page: -2, Limit: 5000}.Normalize()
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, MaxPageSize, q.Limit)

	q = SearchQuery{Page: 3, Limit: 25}.Normalize()
	assert.Equal(t, 3, q.Page)
	assert.Equal(t, 25, q.Limit)
}

func TestWhereClauseEmpty(t *testing.T) {
	where, args := SearchQuery{}.WhereClause()
	assert.Empty(t, where)
	assert.Empty(t, args)
}

func TestWhereClauseText(t *testing.T) {
	where, args := SearchQuery{Text: "iphone"}.WhereClause()
	assert.Equal(t, " WHERE (name ILIKE $1 OR description ILIKE $1)", where)
	assert.Equal(t, []any{"%iphone%"}, args)
}

func TestWhereClauseCombined(t *testing.T) {
	q := SearchQuery{
		Text:     "pro",
		Brand:    "apple",
		RAM:      "8GB",
		MinCents: 50_000,
		MaxCents: 120_000,
	}
	where, args := q.WhereClause()
	assert.Equal(t,
		" WHERE (name ILIKE $1 OR description ILIKE $1)"+
			" AND brand ILIKE $2 AND spec_ram ILIKE $3"+
			" AND offer_cents >= $4 AND offer_cents <= $5",
		where)
	assert.Equal(t, []any{"%pro%", "%apple%", "%8GB%", 50_000, 120_000}, args)
}

func TestWhereClauseEscapesWildcards(t *testing.T) {
	// %, _ and \ in user input must match literally, not as patterns
	where, args := SearchQuery{Text: "100%_deal"}.WhereClause()
	assert.Equal(t, " WHERE (name ILIKE $1 OR description ILIKE $1)", where)
	assert.Equal(t, []any{`%100\%\_deal%`}, args)

	_, args = SearchQuery{Brand: `acme\inc`}.WhereClause()
	assert.Equal(t, []any{`%acme\\inc%`}, args)
}

func TestWhereClauseSpecFilters(t *testing.T) {
	where, args := SearchQuery{Storage: "256GB", Battery: "5000mAh"}.WhereClause()
	assert.Equal(t, " WHERE spec_storage ILIKE $1 AND spec_battery ILIKE $2", where)
	assert.Equal(t, []any{"%256GB%", "%5000mAh%"}, args)
}
