package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderEmpty(t *testing.T) {
	assert.Equal(t, "", string(Render("  \n ")))
}

func TestRenderAddsClasses(t *testing.T) {
	out := string(Render("# Hamarosan\n\nAz **esküvő** *hamarosan*.\n\n- egy\n- kettő\n\n> idézet\n\n---\n"))
	assert.Contains(t, out, `<h1 class="font-serif text-4xl md:text-5xl text-primary mb-6">Hamarosan</h1>`)
	assert.Contains(t, out, `<p class="text-gray-700 leading-relaxed mb-4">`)
	assert.Contains(t, out, `<strong class="font-semibold text-primary">esküvő</strong>`)
	assert.Contains(t, out, `<em class="italic">hamarosan</em>`)
	assert.Contains(t, out, `<ul class="list-disc list-inside mb-4 space-y-1 text-gray-700">`)
	assert.Contains(t, out, `<blockquote class="border-l-4 border-primary pl-4 italic text-gray-600 my-4">`)
	assert.Contains(t, out, `<hr class="my-8 border-t border-gray-200"`)
}

func TestRenderExternalLinksOpenInNewTab(t *testing.T) {
	out := string(Render("[térkép](https://maps.example.com) és [program](#info)"))
	assert.Contains(t, out, `href="https://maps.example.com"`)
	assert.Contains(t, out, `target="_blank"`)
	assert.Contains(t, out, `rel="noopener noreferrer"`)
	assert.Equal(t, 1, strings.Count(out, `target="_blank"`))
}

func TestRenderDropsRawHTML(t *testing.T) {
	out := string(Render("hello <script>alert(1)</script>"))
	assert.NotContains(t, out, "<script>")
}
