package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/guyeu9/Interactive-story-game-editor/internal/dataset"
	"github.com/guyeu9/Interactive-story-game-editor/internal/store"
)

// Search matches the query as a case-insensitive substring of the record
// name or text. Name hits rank first.
func (c *Client) Search(ctx context.Context, query string, kind dataset.Kind, worldview string) ([]store.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query must not be empty")
	}

	sql := `
SELECT kind, position, record_id, name, worldview, content,
    (CASE WHEN strpos(lower(name), lower($1)) > 0 THEN 2 ELSE 1 END)::float8 AS score
FROM records
WHERE (strpos(lower(name), lower($1)) > 0 OR strpos(lower(content), lower($1)) > 0)
  AND ($2 = '' OR kind = $2)
  AND ($3 = '' OR worldview = $3)
ORDER BY score DESC, name ASC
LIMIT 50
`

	rows, err := c.pool.Query(ctx, sql, strings.TrimSpace(query), string(kind), worldview)
	if err != nil {
		return nil, fmt.Errorf("searching records: %w", err)
	}
	defer rows.Close()

	needle := strings.ToLower(strings.TrimSpace(query))
	results := []store.SearchResult{}
	for rows.Next() {
		var r store.SearchResult
		var k, content string
		err := rows.Scan(&k, &r.Position, &r.ID, &r.Name, &r.Worldview, &content, &r.Score)
		if err != nil {
			return nil, fmt.Errorf("scanning search result: %w", err)
		}
		r.Kind = dataset.Kind(k)
		r.Snippet = store.Snippet(content, needle)
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating search results: %w", err)
	}

	return results, nil
}
