package dataset

import (
	"fmt"
	"strings"
)

type Kind string

const (
	KindScene   Kind = "scene"
	KindLayer   Kind = "layer"
	KindPlay    Kind = "play"
	KindCommand Kind = "command"
)

// Kinds lists every record kind in dataset order.
var Kinds = []Kind{KindScene, KindLayer, KindPlay, KindCommand}

// Letter is the leading character of IDs minted for the kind.
func (k Kind) Letter() string {
	switch k {
	case KindScene:
		return "S"
	case KindLayer:
		return "L"
	case KindPlay:
		return "P"
	case KindCommand:
		return "C"
	}
	return ""
}

// Label is the human readable plural used in summaries.
func (k Kind) Label() string {
	switch k {
	case KindScene:
		return "场景"
	case KindLayer:
		return "层级"
	case KindPlay:
		return "玩法"
	case KindCommand:
		return "指令"
	}
	return string(k)
}

// ParseKind accepts singular or plural kind names.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "scene", "scenes":
		return KindScene, nil
	case "layer", "layers":
		return KindLayer, nil
	case "play", "plays":
		return KindPlay, nil
	case "command", "commands":
		return KindCommand, nil
	}
	return "", fmt.Errorf("unknown record kind %q", s)
}

type ScopeType string

const (
	ScopeGlobal ScopeType = "GLOBAL"
	ScopeScene  ScopeType = "SCENE"
	ScopeLayer  ScopeType = "LAYER"
)

// NormalizeScope maps any casing of a known scope to its constant and
// everything else to ScopeGlobal.
func NormalizeScope(s string) ScopeType {
	switch ScopeType(strings.ToUpper(strings.TrimSpace(s))) {
	case ScopeScene:
		return ScopeScene
	case ScopeLayer:
		return ScopeLayer
	}
	return ScopeGlobal
}

// ValidScope reports whether s names a scope without normalization.
func ValidScope(s ScopeType) bool {
	return s == ScopeGlobal || s == ScopeScene || s == ScopeLayer
}
