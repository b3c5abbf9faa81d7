package index

import "github.com/w-h-a/newsagent/article"

func articleWithURL(url string) article.Article {
	return article.Article{Title: "t", URL: url}
}
