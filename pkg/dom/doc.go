// Package dom defines the small capability contract the annotator needs from
// a rendered document: structural queries, geometry, text, computed
// visibility and landmark ancestry.
//
// The core never stores or matches the document itself. Two adapters live in
// this repository: htmltree (static HTML with declared boxes, used offline and
// in tests) and the playwright backed page tree in pkg/tools/browser.
package dom
