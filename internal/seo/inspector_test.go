package seo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
<title> Tulip Shop </title>
<meta name="description" content="Fresh tulips delivered.">
<link rel="canonical" href="https://tulips.example/shop">
</head>
<body>
<h1>Tulips</h1>
<h1> Delivered Fast </h1>
<h2>Red</h2><h2>Yellow</h2><h2>Mixed</h2>
<img src="a.jpg" alt="a red tulip">
<img src="b.jpg" alt="">
<img src="c.jpg">
<p>Order fresh tulips today and get them tomorrow.</p>
</body>
</html>`

func TestInspect_ExtractsPageFacts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	facts, err := NewInspector(srv.Client()).Inspect(context.Background(), srv.URL)
	assert.NoError(t, err)
	assert.Equal(t, "Tulip Shop", facts.Title)
	assert.Equal(t, "Fresh tulips delivered.", facts.MetaDescription)
	assert.Equal(t, "https://tulips.example/shop", facts.Canonical)
	assert.Equal(t, []string{"Tulips", "Delivered Fast"}, facts.H1s)
	assert.Equal(t, 3, facts.H2Count)
	assert.Equal(t, 3, facts.ImageCount)
	assert.Equal(t, 2, facts.ImagesMissingAlt)
	assert.Greater(t, facts.WordCount, 5)
}

func TestInspect_RejectsNonHTTPSchemes(t *testing.T) {
	_, err := NewInspector(nil).Inspect(context.Background(), "ftp://example.com")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "scheme")
}

func TestInspect_FailsOnErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := NewInspector(srv.Client()).Inspect(context.Background(), srv.URL)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestRender_ListsFactsForPrompt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	facts, err := NewInspector(srv.Client()).Inspect(context.Background(), srv.URL)
	assert.NoError(t, err)

	block := Render(facts)
	assert.Contains(t, block, "Title: Tulip Shop")
	assert.Contains(t, block, "H1 headings: Tulips | Delivered Fast")
	assert.Contains(t, block, "Images: 3 (2 missing alt text)")
	assert.True(t, strings.HasPrefix(block, "URL: "))
}

func TestRender_NilFacts(t *testing.T) {
	assert.Equal(t, "", Render(nil))
}
