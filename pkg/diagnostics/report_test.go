package diagnostics

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/annotator/pkg/dedup"
	"github.com/entrhq/annotator/pkg/dom"
	"github.com/entrhq/annotator/pkg/geometry"
	"github.com/entrhq/annotator/pkg/overlay"
)

var page = dom.Metrics{ViewportWidth: 1280, ViewportHeight: 720, DocumentWidth: 1280, DocumentHeight: 3000}

func visual(id string, kind overlay.Kind, left, top float64) overlay.Visual {
	return overlay.Visual{ID: id, Kind: kind, Rect: geometry.NewRect(left, top, 50, 20)}
}

func TestBuildEmpty(t *testing.T) {
	r := Build(page, nil, nil)
	assert.Equal(t, 0, r.Inventory.Total)
	require.Len(t, r.Suggestions, 1)
	assert.Contains(t, r.Suggestions[0], "No annotations")
	assert.False(t, r.Healthy())
}

func TestBuildHealthy(t *testing.T) {
	r := Build(page, []overlay.Visual{
		visual("highlight-1", overlay.KindHighlight, 10, 10),
		visual("label-1", overlay.KindLabel, 10, 0),
		visual("comment-1", overlay.KindComment, 100, 10),
		visual("underline-1", overlay.KindUnderline, 10, 30),
	}, []dedup.Record{{Key: "annotate-#a--yellow", Executed: time.Unix(0, 0)}})

	assert.Equal(t, Inventory{Highlights: 1, Labels: 1, Comments: 1, Underlines: 1, Total: 3}, r.Inventory)
	assert.Equal(t, []string{"Everything looks fine"}, r.Suggestions)
	assert.True(t, r.Healthy())
	assert.Len(t, r.Annotations, 4)

	s := r.Summary()
	assert.Equal(t, 3, s.TotalAnnotations)
	assert.False(t, s.HasDuplicates)
}

func TestBuildProblems(t *testing.T) {
	records := make([]dedup.Record, 11)
	for i := range records {
		records[i] = dedup.Record{Key: fmt.Sprintf("k%d", i)}
	}

	r := Build(page, []overlay.Visual{
		visual("comment-a", overlay.KindComment, -5, 10),
		visual("comment-a", overlay.KindComment, 10, 4000),
		visual("comment-b", overlay.KindComment, math.NaN(), 10),
		visual("label-x", overlay.KindLabel, -100, -100),
	}, records)

	assert.Equal(t, []string{"comment-a"}, r.DuplicateIDs)
	require.Len(t, r.PositionIssues, 3, "only comments are position checked")
	assert.Equal(t, IssueNegative, r.PositionIssues[0].Issue)
	assert.Equal(t, IssueOutsideDocument, r.PositionIssues[1].Issue)
	assert.Equal(t, IssueInvalid, r.PositionIssues[2].Issue)

	assert.Equal(t, []string{
		"Found 1 duplicated annotation ID(s); consider clearing and annotating again",
		"Found 3 annotation(s) with position problems",
		"Many recent executions (11); requests may be repeating",
	}, r.Suggestions)
	assert.True(t, r.Summary().HasPositionIssues)
}

func TestBuildTooMany(t *testing.T) {
	var vs []overlay.Visual
	for i := 0; i < 51; i++ {
		vs = append(vs, visual(fmt.Sprintf("highlight-%d", i), overlay.KindHighlight, 1, 1))
	}
	r := Build(page, vs, nil)
	assert.Equal(t, []string{"Too many annotations (51); consider clearing and annotating again"}, r.Suggestions)
}

func TestRender(t *testing.T) {
	r := Build(page, []overlay.Visual{
		visual("comment-a", overlay.KindComment, 10, 10),
		visual("comment-a", overlay.KindComment, 10, 10),
	}, nil)

	out := Render(r)
	assert.Contains(t, out, "Annotation diagnostics")
	assert.Contains(t, out, "1280x720")
	assert.Contains(t, out, "comment-a")
	assert.Contains(t, out, "duplicated annotation ID")
}
