package browser

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/annotator/pkg/annotator"
)

const livePage = `<!DOCTYPE html>
<html><body style="margin:0">
<header class="header" style="height:60px">Site</header>
<main style="padding:40px">
  <h1 id="title">Release notes</h1>
  <button class="cta">Buy now</button>
  <p style="display:none" class="cta">hidden</p>
</main>
</body></html>`

func TestLivePageAnnotation(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	manager := NewSessionManager()
	require.NoError(t, manager.Initialize())
	defer manager.Shutdown()

	session, err := manager.StartSession("live", SessionOptions{
		Headless: true,
		Viewport: &Viewport{Width: 1024, Height: 768},
	})
	require.NoError(t, err)
	require.NoError(t, session.Page.SetContent(livePage))

	resp := session.Annotate(annotator.AnnotateRequest{
		Locator: annotator.Locator{Selector: "#title"},
		Label:   "Heading",
		Color:   "blue",
	})
	require.True(t, resp.Success, resp.Message)
	assert.Len(t, resp.IDs, 2)

	resp = session.Annotate(annotator.AnnotateRequest{
		Locator: annotator.Locator{Text: "Buy now", MaxMatches: 5},
	})
	require.True(t, resp.Success, resp.Message)
	assert.Equal(t, 1, resp.Count, "hidden matches are skipped")

	resp = session.Comment(annotator.CommentRequest{
		Locator: annotator.Locator{Selector: ".cta"},
		Comment: "Make this stand out",
		Style:   "sticky",
	})
	require.True(t, resp.Success, resp.Message)

	count, err := session.Page.Evaluate(`() => document.querySelectorAll('#page-annotator-container > *').length`)
	require.NoError(t, err)
	assert.EqualValues(t, 5, count)

	report, err := session.Inspect()
	require.NoError(t, err)
	assert.Equal(t, 1, report.Inventory.Comments)
	assert.Equal(t, 2, report.Inventory.Highlights)
	assert.Empty(t, report.DuplicateIDs)
	assert.Empty(t, report.PositionIssues)

	path := filepath.Join(t.TempDir(), "annotated.png")
	png, err := session.Screenshot(ScreenshotOptions{Path: path})
	require.NoError(t, err)
	assert.NotEmpty(t, png)

	resp = session.ClearAnnotations()
	require.True(t, resp.Success)
	assert.Equal(t, 5, resp.RemovedCount)

	require.NoError(t, manager.CloseSession("live"))
}
