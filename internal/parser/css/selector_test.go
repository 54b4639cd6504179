package css_test

import (
	"sync"
	"testing"

	"bennypowers.dev/emailprune/internal/collections"
	"bennypowers.dev/emailprune/internal/parser/css"
	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name     string
		selector string
		want     []string
	}{
		{name: "single class", selector: ".a", want: []string{".a"}},
		{name: "single id", selector: "#main", want: []string{"#main"}},
		{name: "compound", selector: ".a.b#c", want: []string{"#c", ".a", ".b"}},
		{name: "descendant combinator", selector: ".card .title", want: []string{".card", ".title"}},
		{name: "child combinator with tag", selector: "td.cell > #hero", want: []string{"#hero", ".cell"}},
		{name: "pseudo class name is not a token", selector: ".btn:hover", want: []string{".btn"}},
		{name: "negation argument", selector: "p:not(.lead)", want: []string{".lead"}},
		{name: "attribute selector string ignored", selector: `a[href$=".pdf"]`, want: []string{}},
		{name: "type selector only", selector: "body", want: []string{}},
		{name: "dashes and underscores", selector: ".btn--primary_x", want: []string{".btn--primary_x"}},
		{name: "empty", selector: "", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := collections.Sorted(css.Extract(tt.selector))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 20 {
				got := css.Extract(".x #y")
				assert.True(t, got.HasAll(".x", "#y"))
			}
		}()
	}
	wg.Wait()
}

func TestIsNameChar(t *testing.T) {
	for _, c := range []byte("azAZ09-_.#") {
		assert.True(t, css.IsNameChar(c), "%q", c)
	}
	for _, c := range []byte(" {}>,:[\"'") {
		assert.False(t, css.IsNameChar(c), "%q", c)
	}
}

func TestIsToken(t *testing.T) {
	assert.True(t, css.IsToken(".a"))
	assert.True(t, css.IsToken("#hero-1"))
	assert.False(t, css.IsToken("."))
	assert.False(t, css.IsToken("a"))
	assert.False(t, css.IsToken(".a.b"))
	assert.False(t, css.IsToken(".{{name}}"))
}

func TestIsName(t *testing.T) {
	assert.True(t, css.IsName("card_title-2"))
	assert.False(t, css.IsName(""))
	assert.False(t, css.IsName("a.b"))
	assert.False(t, css.IsName("{{x}}"))
}
