package dataset

import "strings"

// SplitTargetIDs splits a comma-joined foreign key list, trimming whitespace
// around each entry and dropping empty entries.
func SplitTargetIDs(s string) []string {
	var ids []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			ids = append(ids, part)
		}
	}
	return ids
}

func JoinTargetIDs(ids []string) string {
	return strings.Join(ids, ",")
}
