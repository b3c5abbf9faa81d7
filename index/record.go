package index

import "github.com/w-h-a/newsagent/article"

type Record struct {
	Id        string
	Embedding []float32
	Metadata  article.Article
}

type Match struct {
	Id       string
	Score    float32
	Metadata article.Article
}

type QueryRequest struct {
	Vector []float32
	TopK   int
	Filter *Filter
}

// Filter restricts a query to records whose metadata url equals URL exactly.
type Filter struct {
	URL string
}

func (f *Filter) Matches(a article.Article) bool {
	if f == nil {
		return true
	}
	return a.URL == f.URL
}
