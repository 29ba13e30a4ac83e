package codec

import (
	"fmt"
	"strings"
	"time"
)

// DefaultPrefix is the filename prefix used when none is configured.
const DefaultPrefix = "export"

// EffectivePrefix returns the prefix Filename actually uses for prefix.
func EffectivePrefix(prefix string) string {
	if prefix == "" {
		return DefaultPrefix
	}
	return prefix
}

// Filename returns the download name for an export:
//
//	<prefix>-<radius>px-<YYYY-MM-DDTHH-MM-SS><ext>
//
// The timestamp is t in UTC truncated to seconds, with colons replaced by
// dashes so the name is valid on every filesystem.
func Filename(prefix string, radius int, t time.Time, f Format) string {
	prefix = EffectivePrefix(prefix)
	stamp := strings.ReplaceAll(t.UTC().Format("2006-01-02T15:04:05"), ":", "-")
	return fmt.Sprintf("%s-%dpx-%s%s", prefix, radius, stamp, f.Extension())
}
