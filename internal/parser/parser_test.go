package parser

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{name: "pipe separated", raw: "废弃实验室 | 危险 | 恐怖,室内", want: []string{"废弃实验室", "危险", "恐怖,室内"}},
		{name: "full-width pipe", raw: "中央公园｜阳光", want: []string{"中央公园", "阳光"}},
		{name: "colon fallback", raw: "开场准备：1", want: []string{"开场准备", "1"}},
		{name: "pipe wins over colon", raw: "a:b | c", want: []string{"a:b", "c"}},
		{name: "numbered list marker", raw: "1. 搜寻物资 | 找道具", want: []string{"搜寻物资", "找道具"}},
		{name: "dash marker", raw: "- 天气突变", want: []string{"天气突变"}},
		{name: "chinese enumeration", raw: "2、破解密码锁", want: []string{"破解密码锁"}},
		{name: "empty fields kept", raw: "名字||结果", want: []string{"名字", "", "结果"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line, err := ParseLine(tt.raw)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !reflect.DeepEqual(line.Fields, tt.want) {
				t.Fatalf("fields = %#v, want %#v", line.Fields, tt.want)
			}
		})
	}

	t.Run("blank line", func(t *testing.T) {
		if _, err := ParseLine("   "); !errors.Is(err, ErrEmptyLine) {
			t.Fatalf("expected ErrEmptyLine, got %v", err)
		}
	})

	t.Run("marker only", func(t *testing.T) {
		if _, err := ParseLine("3."); !errors.Is(err, ErrEmptyLine) {
			t.Fatalf("expected ErrEmptyLine, got %v", err)
		}
	})
}

func TestLineField(t *testing.T) {
	line := Line{Fields: []string{"a", "b"}}
	if line.Field(1) != "b" || line.Field(5) != "" || line.Field(-1) != "" {
		t.Fatalf("unexpected field lookup on %#v", line)
	}
}

func TestParseTags(t *testing.T) {
	got := ParseTags("恐怖, 解谜，室内,,")
	want := []string{"恐怖", "解谜", "室内"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("tags = %#v, want %#v", got, want)
	}
	if ParseTags("") != nil {
		t.Fatalf("expected nil tags for empty input")
	}
}

func TestTrailingTags(t *testing.T) {
	t.Run("brackets", func(t *testing.T) {
		desc, tags := TrailingTags("阴暗的地下室 [恐怖,室内]")
		if desc != "阴暗的地下室" || !reflect.DeepEqual(tags, []string{"恐怖", "室内"}) {
			t.Fatalf("got %q %#v", desc, tags)
		}
	})

	t.Run("parentheses", func(t *testing.T) {
		desc, tags := TrailingTags("公园(开放)")
		if desc != "公园" || !reflect.DeepEqual(tags, []string{"开放"}) {
			t.Fatalf("got %q %#v", desc, tags)
		}
	})

	t.Run("no suffix", func(t *testing.T) {
		desc, tags := TrailingTags("普通描述")
		if desc != "普通描述" || tags != nil {
			t.Fatalf("got %q %#v", desc, tags)
		}
	})
}

func TestParse(t *testing.T) {
	t.Run("frontmatter defaults", func(t *testing.T) {
		content := []byte("---\nkind: command\nworldview: 月王故事\nscope: layer\ntargets: [L1, L2]\n---\n突发地震|地面摇晃|30\n\n天气突变\n")
		doc, err := Parse(content)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if doc.Defaults.Kind != "command" || doc.Defaults.Worldview != "月王故事" || doc.Defaults.Scope != "layer" {
			t.Fatalf("unexpected defaults: %#v", doc.Defaults)
		}
		if !reflect.DeepEqual(doc.Defaults.Targets, []string{"L1", "L2"}) {
			t.Fatalf("unexpected targets: %#v", doc.Defaults.Targets)
		}
		if len(doc.Lines) != 2 {
			t.Fatalf("expected 2 lines, got %d", len(doc.Lines))
		}
		if doc.Lines[0].Number != 7 || doc.Lines[1].Number != 9 {
			t.Fatalf("unexpected line numbers: %d %d", doc.Lines[0].Number, doc.Lines[1].Number)
		}
	})

	t.Run("no frontmatter", func(t *testing.T) {
		doc, err := Parse([]byte("开场准备|1\n核心解谜|2"))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(doc.Lines) != 2 || doc.Lines[1].Field(1) != "2" {
			t.Fatalf("unexpected lines: %#v", doc.Lines)
		}
	})

	t.Run("missing closing marker", func(t *testing.T) {
		_, err := Parse([]byte("---\nkind: scene\n"))
		if !errors.Is(err, ErrUnterminatedHeader) {
			t.Fatalf("expected ErrUnterminatedHeader, got %v", err)
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		_, err := Parse([]byte("---\nkind: [\n---\nx\n"))
		if !errors.Is(err, ErrInvalidYAML) {
			t.Fatalf("expected ErrInvalidYAML, got %v", err)
		}
	})

	t.Run("crlf input", func(t *testing.T) {
		doc, err := Parse([]byte("a|b\r\nc|d\r\n"))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(doc.Lines) != 2 || doc.Lines[0].Field(1) != "b" {
			t.Fatalf("unexpected lines: %#v", doc.Lines)
		}
	})
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenes.txt")
	if err := os.WriteFile(path, []byte("废弃实验室|危险\n"), 0o600); err != nil {
		t.Fatalf("writing file: %v", err)
	}
	doc, err := ParseFile(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if doc.SourceFile != path || len(doc.Lines) != 1 {
		t.Fatalf("unexpected document: %#v", doc)
	}
}
