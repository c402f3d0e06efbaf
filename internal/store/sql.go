package store

import (
	"errors"
	"strconv"
	"strings"
	"unicode"
)

var ErrWriteQuery = errors.New("only read queries are allowed")

// PositionalArgs orders params keyed "1", "2", ... into an argument list,
// stopping at the first gap.
func PositionalArgs(params map[string]any) []any {
	args := make([]any, 0, len(params))
	for i := 1; ; i++ {
		val, ok := params[strconv.Itoa(i)]
		if !ok {
			return args
		}
		args = append(args, val)
	}
}

// writeKeywords make a statement a write wherever they appear, including
// inside a WITH clause or after EXPLAIN.
var writeKeywords = map[string]bool{
	"INSERT": true, "UPDATE": true, "DELETE": true, "REPLACE": true, "UPSERT": true,
	"CREATE": true, "DROP": true, "ALTER": true, "ATTACH": true, "DETACH": true,
	"VACUUM": true, "REINDEX": true, "TRUNCATE": true, "MERGE": true, "COPY": true,
}

// CheckReadOnly rejects statements other than SELECT, WITH, EXPLAIN, VALUES
// and PRAGMA reads, anything containing a second statement, and anything
// naming a write keyword. Backends still run accepted queries read-only.
func CheckReadOnly(query string) error {
	q := strings.TrimSpace(query)
	q = strings.TrimSuffix(q, ";")
	if strings.Contains(q, ";") {
		return ErrWriteQuery
	}
	words := strings.FieldsFunc(strings.ToUpper(stripLiterals(q)), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
	if len(words) == 0 {
		return ErrWriteQuery
	}
	for _, w := range words {
		if writeKeywords[w] {
			return ErrWriteQuery
		}
	}
	switch words[0] {
	case "SELECT", "WITH", "EXPLAIN", "VALUES":
		return nil
	case "PRAGMA":
		if !strings.ContainsAny(q, "=(") || isPragmaCall(q) {
			return nil
		}
	}
	return ErrWriteQuery
}

// stripLiterals blanks single-quoted strings so their contents are not
// mistaken for keywords.
func stripLiterals(q string) string {
	var b strings.Builder
	quoted := false
	for _, r := range q {
		if r == '\'' {
			quoted = !quoted
			b.WriteRune(' ')
			continue
		}
		if quoted {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// isPragmaCall accepts the table-valued read forms such as
// table_info(records), which take an argument but change nothing.
func isPragmaCall(q string) bool {
	if strings.Contains(q, "=") {
		return false
	}
	name := strings.ToLower(strings.TrimSpace(q[len("PRAGMA"):]))
	for _, read := range []string{"table_info(", "table_xinfo(", "index_list(", "index_info(", "foreign_key_list("} {
		if strings.HasPrefix(name, read) {
			return true
		}
	}
	return false
}

// JSONValue makes a scanned column value printable as JSON.
func JSONValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
