package models

// PageFacts summarises the on-page SEO signals of a fetched URL.
type PageFacts struct {
	URL              string   `json:"url"`
	Title            string   `json:"title"`
	MetaDescription  string   `json:"metaDescription"`
	Canonical        string   `json:"canonical"`
	H1s              []string `json:"h1s"`
	H2Count          int      `json:"h2Count"`
	ImageCount       int      `json:"imageCount"`
	ImagesMissingAlt int      `json:"imagesMissingAlt"`
	WordCount        int      `json:"wordCount"`
}
