package story

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/guyeu9/Interactive-story-game-editor/internal/dataset"
)

const (
	historyBanner = "=== 剧情织造机 - 历史记录批量导出 ==="
	timeLayout    = "2006-01-02 15:04:05"
)

// FormatItem renders one item the way text exports show it.
func FormatItem(it Item) string {
	switch it.Type {
	case ItemHeader:
		return fmt.Sprintf("=== 场景: %s ===\n描述: %s", strings.TrimPrefix(it.Text, headerPrefix), it.Desc)
	case ItemPlay:
		return fmt.Sprintf("[%s] 玩法: %s\n描述: %s\n结果: %s", it.LayerName, it.Title, it.Content, it.Result)
	case ItemCommand:
		return fmt.Sprintf("[指令] %s (%s): %s", it.Title, it.Scope, it.Content)
	}
	return ""
}

// FormatText renders a story as plain text, items separated by a blank line.
func FormatText(s *Story) string {
	parts := make([]string, len(s.Items))
	for i, it := range s.Items {
		parts[i] = FormatItem(it)
	}
	return strings.Join(parts, "\n\n")
}

// FormatHistory renders every story into one text document.
func FormatHistory(stories []Story, exportedAt time.Time) string {
	var b strings.Builder
	b.WriteString(historyBanner + "\n")
	fmt.Fprintf(&b, "导出时间: %s\n\n", exportedAt.Format(timeLayout))
	for i := range stories {
		s := &stories[i]
		fmt.Fprintf(&b, "\n==================== 故事 %d: %s ====================\n", i+1, s.Title)
		fmt.Fprintf(&b, "生成时间: %s\n\n", s.CreatedAt.Format(timeLayout))
		b.WriteString(FormatText(s))
		b.WriteString("\n")
	}
	return b.String()
}

// DataURI encodes d as a base64 JSON data URI that can be shared and
// imported again.
func DataURI(d *dataset.Dataset) (string, error) {
	c := d.Clone()
	c.Normalize()
	raw, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("encoding dataset: %w", err)
	}
	return "data:application/json;base64," + base64.StdEncoding.EncodeToString(raw), nil
}
