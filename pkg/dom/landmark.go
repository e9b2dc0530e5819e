package dom

import "strings"

// LandmarkSet is a bit set of landmark roles found on an element or any of
// its ancestors.
type LandmarkSet uint16

const (
	LandmarkMain LandmarkSet = 1 << iota
	LandmarkArticle
	LandmarkSection
	LandmarkNav
	LandmarkAside
	LandmarkHeader
	LandmarkFooter
	// LandmarkChrome marks page chrome identified by class name:
	// .sidebar, .navigation, .footer and .header.
	LandmarkChrome
)

// ExcludedLandmarks are the regions whose content is skipped when only
// visible, primary content is wanted.
const ExcludedLandmarks = LandmarkNav | LandmarkAside | LandmarkHeader | LandmarkFooter | LandmarkChrome

var landmarkTags = map[string]LandmarkSet{
	"main":    LandmarkMain,
	"article": LandmarkArticle,
	"section": LandmarkSection,
	"nav":     LandmarkNav,
	"aside":   LandmarkAside,
	"header":  LandmarkHeader,
	"footer":  LandmarkFooter,
}

var chromeClasses = map[string]bool{
	"sidebar":    true,
	"navigation": true,
	"footer":     true,
	"header":     true,
}

// ClassifyElement returns the landmarks contributed by a single element
// given its tag name and class attribute.
func ClassifyElement(tag, class string) LandmarkSet {
	set := landmarkTags[strings.ToLower(tag)]
	for _, c := range strings.Fields(class) {
		if chromeClasses[c] {
			set |= LandmarkChrome
		}
	}
	return set
}

// Has reports whether any of the given landmarks is present.
func (s LandmarkSet) Has(l LandmarkSet) bool {
	return s&l != 0
}

// Excluded reports whether the element sits inside navigation, sidebar,
// header or footer content.
func (s LandmarkSet) Excluded() bool {
	return s.Has(ExcludedLandmarks)
}

// Score ranks relevance: main 10, article 8, section 6, excluded 1 and
// everything else 5. The checks run in that order, so an article inside a
// main region scores 10.
func (s LandmarkSet) Score() int {
	switch {
	case s.Has(LandmarkMain):
		return 10
	case s.Has(LandmarkArticle):
		return 8
	case s.Has(LandmarkSection):
		return 6
	case s.Excluded():
		return 1
	default:
		return 5
	}
}

// Names lists the landmarks in the set.
func (s LandmarkSet) Names() []string {
	var names []string
	for _, entry := range []struct {
		flag LandmarkSet
		name string
	}{
		{LandmarkMain, "main"},
		{LandmarkArticle, "article"},
		{LandmarkSection, "section"},
		{LandmarkNav, "nav"},
		{LandmarkAside, "aside"},
		{LandmarkHeader, "header"},
		{LandmarkFooter, "footer"},
		{LandmarkChrome, "chrome"},
	} {
		if s.Has(entry.flag) {
			names = append(names, entry.name)
		}
	}
	return names
}

func (s LandmarkSet) String() string {
	names := s.Names()
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}
