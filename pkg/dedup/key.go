package dedup

import (
	"sort"
	"strings"
)

// Key joins a request kind and its identifying parts with "-".
func Key(kind string, parts ...string) string {
	return kind + "-" + strings.Join(parts, "-")
}

// Locator returns the selector when set, otherwise the text.
func Locator(selector, text string) string {
	if selector != "" {
		return selector
	}
	return text
}

// AnnotateKey identifies a highlight/label request.
func AnnotateKey(selector, text, label, color string) string {
	return Key("annotate", Locator(selector, text), label, color)
}

// CommentKey identifies a comment request.
func CommentKey(selector, text, comment, position, style string) string {
	return Key("comment", Locator(selector, text), comment, position, style)
}

func sortRecords(records []Record) {
	sort.Slice(records, func(i, j int) bool { return records[i].Key < records[j].Key })
}
