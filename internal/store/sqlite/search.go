package sqlite

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/guyeu9/Interactive-story-game-editor/internal/dataset"
	"github.com/guyeu9/Interactive-story-game-editor/internal/store"
)

// Search matches records through the trigram index. Queries with a term
// shorter than three runes cannot use the index and fall back to a scan.
func (c *Client) Search(ctx context.Context, query string, kind dataset.Kind, worldview string) ([]store.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query must not be empty")
	}
	if !indexable(query) {
		return c.scan(ctx, query, kind, worldview)
	}

	ftsQuery := matchExpression(query)
	if ftsQuery == "" {
		return c.scan(ctx, query, kind, worldview)
	}

	sqlQuery := `
	SELECT r.kind, r.position, r.record_id, r.name, r.worldview,
		   -bm25(records_fts, 10.0, 1.0) AS score,
		   snippet(records_fts, 1, '**', '**', '...', 16) AS snippet
	FROM records_fts
	JOIN records r ON records_fts.rowid = r.id
	WHERE records_fts MATCH ?
	  AND (? = '' OR r.kind = ?)
	  AND (? = '' OR r.worldview = ?)
	ORDER BY score DESC, r.name ASC
	LIMIT 50
	`

	rows, err := c.db.QueryContext(ctx, sqlQuery, ftsQuery, kind, kind, worldview, worldview)
	if err != nil {
		return nil, fmt.Errorf("searching records: %w", err)
	}
	defer rows.Close()

	results := []store.SearchResult{}
	for rows.Next() {
		var r store.SearchResult
		err := rows.Scan(&r.Kind, &r.Position, &r.ID, &r.Name, &r.Worldview, &r.Score, &r.Snippet)
		if err != nil {
			return nil, fmt.Errorf("scanning search result: %w", err)
		}
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating search results: %w", err)
	}

	return results, nil
}

func (c *Client) scan(ctx context.Context, query string, kind dataset.Kind, worldview string) ([]store.SearchResult, error) {
	rows, err := c.db.QueryContext(ctx, `
	SELECT kind, position, record_id, name, worldview, content
	FROM records
	WHERE (? = '' OR kind = ?)
	  AND (? = '' OR worldview = ?)
	`, kind, kind, worldview, worldview)
	if err != nil {
		return nil, fmt.Errorf("scanning records: %w", err)
	}
	defer rows.Close()

	var candidates []store.Row
	for rows.Next() {
		var r store.Row
		if err := rows.Scan(&r.Kind, &r.Position, &r.ID, &r.Name, &r.Worldview, &r.Text); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		candidates = append(candidates, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}

	results := store.MatchRows(candidates, query, kind, worldview)
	if len(results) > 50 {
		results = results[:50]
	}
	return results, nil
}

// searchTerm is one unit of a search query: a word or quoted phrase, or an
// AND/OR/NOT operator.
type searchTerm struct {
	text    string
	op      string
	negated bool
}

// splitQuery tokenizes a web-style query. Quoted phrases stay whole and a
// leading "-" negates a term.
func splitQuery(query string) []searchTerm {
	var terms []searchTerm
	for i, part := range strings.Split(query, `"`) {
		if i%2 == 1 {
			if phrase := strings.TrimSpace(part); phrase != "" {
				terms = append(terms, searchTerm{text: phrase})
			}
			continue
		}
		for _, word := range strings.Fields(part) {
			switch upper := strings.ToUpper(word); upper {
			case "AND", "OR", "NOT":
				terms = append(terms, searchTerm{op: upper})
				continue
			}
			t := searchTerm{text: strings.TrimSuffix(word, "*")}
			if strings.HasPrefix(t.text, "-") && len(t.text) > 1 {
				t.text, t.negated = t.text[1:], true
			}
			if t.text != "" {
				terms = append(terms, t)
			}
		}
	}
	return terms
}

// indexable reports whether every search term is long enough for the
// trigram tokenizer.
func indexable(query string) bool {
	n := 0
	for _, t := range splitQuery(query) {
		if t.op != "" {
			continue
		}
		if utf8.RuneCountInString(t.text) < 3 {
			return false
		}
		n++
	}
	return n > 0
}

// matchExpression builds an FTS5 MATCH expression. Every term is quoted so
// punctuation in record text cannot break the query; adjacent terms are
// joined with AND.
func matchExpression(query string) string {
	var parts []string
	pendingOp := ""
	for _, t := range splitQuery(query) {
		if t.op != "" {
			pendingOp = t.op
			continue
		}
		quoted := `"` + strings.ReplaceAll(t.text, `"`, `""`) + `"`
		if len(parts) == 0 {
			if t.negated || pendingOp == "NOT" {
				pendingOp = ""
				continue
			}
			parts = append(parts, quoted)
			pendingOp = ""
			continue
		}
		op := pendingOp
		if op == "" {
			op = "AND"
		}
		if t.negated {
			op = "NOT"
		}
		parts = append(parts, op, quoted)
		pendingOp = ""
	}
	return strings.Join(parts, " ")
}
