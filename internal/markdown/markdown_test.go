package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	t.Parallel()

	out := string(Render("# Hello\n\nSome **bold** text."))
	assert.Contains(t, out, "<h1")
	assert.Contains(t, out, "<strong>bold</strong>")
}

func TestRenderStripsScripts(t *testing.T) {
	t.Parallel()

	out := string(Render("safe\n\n<script>alert('x')</script>"))
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "safe")
}

func TestRenderExternalLinks(t *testing.T) {
	t.Parallel()

	out := string(Render("[link](https://example.com)"))
	assert.Contains(t, out, `target="_blank"`)
	assert.Contains(t, out, "noreferrer")
}
