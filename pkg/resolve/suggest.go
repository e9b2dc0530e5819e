package resolve

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/entrhq/annotator/pkg/dom"
)

const maxSimilar = 5

var (
	idToken    = regexp.MustCompile(`#([\w-]+)`)
	classToken = regexp.MustCompile(`\.([\w-]+)`)
	tagToken   = regexp.MustCompile(`^(\w+)`)
)

// GenericAdvice is the only suggestion when nothing more specific applies.
const GenericAdvice = "Check that the page has finished loading, or try a more general selector"

// Suggest builds hints for a locator that matched nothing: ids and classes
// that resemble the selector's tokens, how many elements share its tag, and
// a reminder about the missing text. Failures while collecting hints are
// ignored.
func Suggest(tree dom.Tree, selector, text string) []string {
	var out []string

	if selector != "" {
		if m := idToken.FindStringSubmatch(selector); m != nil {
			if ids := similar(attributeValues(tree, "id", false), m[1]); len(ids) > 0 {
				out = append(out, "Similar IDs: "+prefixAll("#", ids))
			}
		}
		if m := classToken.FindStringSubmatch(selector); m != nil {
			if classes := similar(attributeValues(tree, "class", true), m[1]); len(classes) > 0 {
				out = append(out, "Similar classes: "+prefixAll(".", classes))
			}
		}
		if m := tagToken.FindStringSubmatch(selector); m != nil {
			if nodes, err := tree.Query(m[1]); err == nil && len(nodes) > 0 {
				out = append(out, fmt.Sprintf("The page has %d <%s> element(s)", len(nodes), m[1]))
			}
		}
	}

	if text != "" {
		out = append(out, fmt.Sprintf("Hint: no element on the page contains the text %q", text))
	}

	if len(out) == 0 {
		out = append(out, GenericAdvice)
	}
	return out
}

// attributeValues lists attribute values in document order. With split set,
// values are split on whitespace and de-duplicated (class lists).
func attributeValues(tree dom.Tree, name string, split bool) []string {
	nodes, err := tree.Query("[" + name + "]")
	if err != nil {
		return nil
	}

	seen := make(map[string]bool)
	var values []string
	for _, n := range nodes {
		v, ok, err := n.Attribute(name)
		if err != nil || !ok {
			continue
		}
		parts := []string{v}
		if split {
			parts = strings.Fields(v)
		}
		for _, p := range parts {
			if p == "" || (split && seen[p]) {
				continue
			}
			seen[p] = true
			values = append(values, p)
		}
	}
	return values
}

// similar keeps values where either string contains the other,
// case-insensitively, up to maxSimilar entries.
func similar(values []string, token string) []string {
	token = strings.ToLower(token)
	var out []string
	for _, v := range values {
		lv := strings.ToLower(v)
		if strings.Contains(lv, token) || strings.Contains(token, lv) {
			out = append(out, v)
			if len(out) == maxSimilar {
				break
			}
		}
	}
	return out
}

func prefixAll(prefix string, values []string) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = prefix + v
	}
	return strings.Join(parts, ", ")
}
