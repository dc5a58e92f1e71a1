// internal/change/leak.go
package change

import "strings"

// chromeMarkers are placeholder labels the host widget may transiently
// render before it is fully initialized. Seeing them in the very first
// content notification means the widget leaked its own chrome into the
// document, not that the user typed anything.
var chromeMarkers = []string{
	"Type '/' for commands",
	"Add a comment...",
	"Start writing...",
	"输入 '/' 唤起命令",
	"开始书写...",
	"添加评论...",
}

// A leaked notification is short; a real document that merely quotes
// one marker is not.
const leakMaxRunes = 120

// looksLikeChromeLeak reports whether content is a placeholder leak:
// at least one marker present, and the text is either short or carries
// several markers at once.
func looksLikeChromeLeak(content string) bool {
	hits := 0
	for _, marker := range chromeMarkers {
		if strings.Contains(content, marker) {
			hits++
		}
	}
	if hits == 0 {
		return false
	}
	return hits >= 2 || len([]rune(content)) <= leakMaxRunes
}
