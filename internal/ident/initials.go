package ident

import (
	"strings"

	"golang.org/x/text/width"
)

var initials = map[rune]byte{
	'废': 'F', '弃': 'Q', '实': 'S', '验': 'Y', '室': 'S', '中': 'Z', '央': 'Y',
	'公': 'G', '园': 'Y', '图': 'T', '书': 'S', '馆': 'G', '商': 'S', '店': 'D',
	'学': 'X', '校': 'X', '教': 'J', '堂': 'T', '医': 'Y', '院': 'Y', '派': 'P',
	'出': 'C', '所': 'S', '警': 'J', '察': 'C', '局': 'J', '银': 'Y', '行': 'H',
	'车': 'C', '站': 'Z', '机': 'J', '场': 'C', '码': 'M', '头': 'T', '港': 'G',
	'市': 'S', '政': 'Z', '府': 'F', '体': 'T', '育': 'Y', '文': 'W', '化': 'H',
	'心': 'X', '森': 'S', '林': 'L', '山': 'S', '顶': 'D', '海': 'H', '边': 'B',
	'湖': 'H', '泊': 'B', '河': 'H', '谷': 'G', '峡': 'X', '瀑': 'P', '布': 'B',
	'洞': 'D', '穴': 'X', '岛': 'D', '古': 'G', '城': 'C', '镇': 'Z', '乡': 'X',
	'村': 'C', '街': 'J', '道': 'D', '路': 'L', '桥': 'Q', '门': 'M', '楼': 'L',
	'塔': 'T', '寺': 'S', '庙': 'M', '观': 'G', '阁': 'G', '台': 'T', '殿': 'D',
	'苑': 'Y', '轩': 'X', '居': 'J', '庐': 'L', '舍': 'S', '斋': 'Z', '榭': 'X',
	'亭': 'T', '廊': 'L', '房': 'F', '厅': 'T', '宫': 'G', '邸': 'D', '第': 'D',
	'庄': 'Z', '圃': 'P', '囿': 'Y', '堡': 'B', '寨': 'Z', '关': 'G', '卡': 'K',
	'湾': 'W', '澳': 'A', '县': 'X', '区': 'Q', '州': 'Z', '省': 'S', '京': 'J',
	'都': 'D', '会': 'H', '广': 'G', '博': 'B', '物': 'W', '展': 'Z', '览': 'L',
	'科': 'K', '技': 'J', '工': 'G', '业': 'Y', '创': 'C', '艺': 'Y', '术': 'S',
	'运': 'Y', '动': 'D', '游': 'Y', '乐': 'L', '植': 'Z', '野': 'Y', '生': 'S',
	'水': 'S', '族': 'Z', '洋': 'Y', '天': 'T', '历': 'L', '史': 'S', '自': 'Z',
	'然': 'R',
}

// Initials transliterates s into at most max upper-case letters. Full-width
// Latin letters are folded first; characters without a mapping are skipped.
func Initials(s string, max int) string {
	var b strings.Builder
	for _, r := range width.Fold.String(s) {
		if b.Len() >= max {
			break
		}
		switch {
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r)
		case r >= 'a' && r <= 'z':
			b.WriteRune(r - 'a' + 'A')
		default:
			if letter, ok := initials[r]; ok {
				b.WriteByte(letter)
			}
		}
	}
	return b.String()
}

func pad(s string, n int) string {
	if len(s) >= n {
		return s[:n]
	}
	return s + strings.Repeat("A", n-len(s))
}

// WorldviewPrefix returns the three letter prefix for a worldview, or the
// empty string for an empty worldview.
func WorldviewPrefix(worldview string) string {
	if worldview == "" {
		return ""
	}
	return pad(Initials(worldview, 3), 3)
}

// NamePrefix returns the two letter prefix derived from a display name,
// falling back to the worldview prefix and then to "AA".
func NamePrefix(hint, worldviewPrefix string) string {
	if strings.TrimSpace(hint) != "" {
		return pad(Initials(hint, 2), 2)
	}
	return pad(worldviewPrefix, 2)
}
