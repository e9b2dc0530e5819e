// Package diagnostics inspects the annotations on a page without changing
// anything: inventory per kind, duplicate IDs, implausible positions and the
// state of the dedup table, summarized as suggestions.
package diagnostics

import (
	"fmt"
	"math"

	"github.com/entrhq/annotator/pkg/dedup"
	"github.com/entrhq/annotator/pkg/dom"
	"github.com/entrhq/annotator/pkg/overlay"
)

// Thresholds above which the report suggests action.
const (
	MaxHealthyAnnotations = 50
	MaxHealthyRecords     = 10
)

// Issue names a position problem.
type Issue string

const (
	IssueInvalid         Issue = "invalid position"
	IssueNegative        Issue = "negative position"
	IssueOutsideDocument Issue = "position outside the document"
)

// Inventory counts annotations by kind. Total covers highlights, labels and
// comments; underlines belong to their comment.
type Inventory struct {
	Highlights int `json:"highlights"`
	Labels     int `json:"labels"`
	Comments   int `json:"comments"`
	Underlines int `json:"underlines"`
	Total      int `json:"total"`
}

// PositionIssue is a comment whose position cannot be right.
type PositionIssue struct {
	ID    string `json:"id"`
	Kind  string `json:"kind"`
	Issue Issue  `json:"issue"`
}

// Entry summarizes one annotation. Left and Top are nil when the stored
// position is not a finite number.
type Entry struct {
	ID   string   `json:"id"`
	Kind string   `json:"kind"`
	Text string   `json:"text,omitempty"`
	Left *float64 `json:"left"`
	Top  *float64 `json:"top"`
}

// Report is the result of Build.
type Report struct {
	Page             dom.Metrics     `json:"page"`
	Inventory        Inventory       `json:"inventory"`
	Annotations      []Entry         `json:"annotations"`
	DuplicateIDs     []string        `json:"duplicateIds,omitempty"`
	PositionIssues   []PositionIssue `json:"positionIssues,omitempty"`
	ExecutionRecords []dedup.Record  `json:"executionRecords,omitempty"`
	Suggestions      []string        `json:"suggestions"`
}

// Summary is the short form returned alongside the full report.
type Summary struct {
	TotalAnnotations  int      `json:"totalAnnotations"`
	HasDuplicates     bool     `json:"hasDuplicates"`
	HasPositionIssues bool     `json:"hasPositionIssues"`
	Suggestions       []string `json:"suggestions"`
}

// Healthy reports whether nothing needs attention.
func (r *Report) Healthy() bool {
	return r.Inventory.Total > 0 && len(r.DuplicateIDs) == 0 && len(r.PositionIssues) == 0 &&
		r.Inventory.Total <= MaxHealthyAnnotations && len(r.ExecutionRecords) <= MaxHealthyRecords
}

// Summary condenses the report.
func (r *Report) Summary() Summary {
	return Summary{
		TotalAnnotations:  r.Inventory.Total,
		HasDuplicates:     len(r.DuplicateIDs) > 0,
		HasPositionIssues: len(r.PositionIssues) > 0,
		Suggestions:       r.Suggestions,
	}
}

// Build inspects annotations against the page metrics and dedup records.
func Build(page dom.Metrics, annotations []overlay.Visual, records []dedup.Record) *Report {
	r := &Report{Page: page, ExecutionRecords: records}

	seen := make(map[string]int)
	for _, v := range annotations {
		switch v.Kind {
		case overlay.KindHighlight:
			r.Inventory.Highlights++
		case overlay.KindLabel:
			r.Inventory.Labels++
		case overlay.KindComment:
			r.Inventory.Comments++
			if issue, ok := checkPosition(v, page); ok {
				r.PositionIssues = append(r.PositionIssues, PositionIssue{ID: v.ID, Kind: string(v.Kind), Issue: issue})
			}
		case overlay.KindUnderline:
			r.Inventory.Underlines++
		}

		r.Annotations = append(r.Annotations, Entry{
			ID:   v.ID,
			Kind: string(v.Kind),
			Text: truncate(v.Text, 50),
			Left: finite(v.Rect.Left),
			Top:  finite(v.Rect.Top),
		})

		if v.ID != "" {
			seen[v.ID]++
			if seen[v.ID] == 2 {
				r.DuplicateIDs = append(r.DuplicateIDs, v.ID)
			}
		}
	}
	r.Inventory.Total = r.Inventory.Highlights + r.Inventory.Labels + r.Inventory.Comments
	r.Suggestions = suggest(r)
	return r
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func checkPosition(v overlay.Visual, page dom.Metrics) (Issue, bool) {
	left, top := v.Rect.Left, v.Rect.Top
	switch {
	case math.IsNaN(left) || math.IsNaN(top) || math.IsInf(left, 0) || math.IsInf(top, 0):
		return IssueInvalid, true
	case left < 0 || top < 0:
		return IssueNegative, true
	case top > page.DocumentHeight || left > page.DocumentWidth:
		return IssueOutsideDocument, true
	}
	return "", false
}

func suggest(r *Report) []string {
	var out []string
	total := r.Inventory.Total
	if total == 0 {
		out = append(out, "No annotations on the page; they may have failed or been cleared")
	}
	if total > MaxHealthyAnnotations {
		out = append(out, fmt.Sprintf("Too many annotations (%d); consider clearing and annotating again", total))
	}
	if n := len(r.DuplicateIDs); n > 0 {
		out = append(out, fmt.Sprintf("Found %d duplicated annotation ID(s); consider clearing and annotating again", n))
	}
	if n := len(r.PositionIssues); n > 0 {
		out = append(out, fmt.Sprintf("Found %d annotation(s) with position problems", n))
	}
	if n := len(r.ExecutionRecords); n > MaxHealthyRecords {
		out = append(out, fmt.Sprintf("Many recent executions (%d); requests may be repeating", n))
	}
	if len(out) == 0 {
		out = append(out, "Everything looks fine")
	}
	return out
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
