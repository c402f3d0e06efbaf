package sqlite

import (
	"testing"
)

func TestMatchExpression(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple term",
			input:    "实验室",
			expected: `"实验室"`,
		},
		{
			name:     "multiple terms",
			input:    "废弃 实验室",
			expected: `"废弃" AND "实验室"`,
		},
		{
			name:     "explicit AND",
			input:    "密码锁 and 保险箱",
			expected: `"密码锁" AND "保险箱"`,
		},
		{
			name:     "explicit OR",
			input:    "密码锁 OR 保险箱",
			expected: `"密码锁" OR "保险箱"`,
		},
		{
			name:     "negation",
			input:    "实验室 -化学品",
			expected: `"实验室" NOT "化学品"`,
		},
		{
			name:     "leading negation dropped",
			input:    "-化学品 实验室",
			expected: `"实验室"`,
		},
		{
			name:     "phrase",
			input:    `"escape room"`,
			expected: `"escape room"`,
		},
		{
			name:     "phrase with other term",
			input:    `"escape room" lab`,
			expected: `"escape room" AND "lab"`,
		},
		{
			name:     "prefix marker stripped",
			input:    "earth*",
			expected: `"earth"`,
		},
		{
			name:     "punctuation quoted",
			input:    "NPC提供线索:",
			expected: `"NPC提供线索:"`,
		},
		{
			name:     "complex query",
			input:    `"escape room" -fire castle OR tower`,
			expected: `"escape room" NOT "fire" AND "castle" OR "tower"`,
		},
		{
			name:     "NOT operator",
			input:    "地下设施 NOT 化学品",
			expected: `"地下设施" NOT "化学品"`,
		},
		{
			name:     "operators only",
			input:    "NOT OR",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := matchExpression(tt.input)
			if result != tt.expected {
				t.Errorf("matchExpression(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestIndexable(t *testing.T) {
	tests := map[string]bool{
		"实验室":         true,
		"废弃 实验室":      false,
		"实验室 OR 保险箱":  true,
		`"地下 设施"`:     true,
		`"地下"`:        false,
		"-化学品 earth*": true,
		"钥匙":          false,
		"   ":         false,
		"AND":         false,
	}
	for query, want := range tests {
		if got := indexable(query); got != want {
			t.Errorf("indexable(%q) = %v, want %v", query, got, want)
		}
	}
}
