package agent

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/w-h-a/newsagent/article"
)

const (
	assistantRole = "You are a news assistant who provides accurate information based on articles in your database."
	instructions  = "Based ONLY on the information from the articles above, answer the question. If the information is not present in the articles, say that you don't have this information."
	outputFormat  = `{"answer": "Your detailed response to the query", "reasoning": "Your step-by-step reasoning process"}`
)

func buildContext(articles []article.Article) string {
	blocks := make([]string, 0, len(articles))
	for _, a := range articles {
		blocks = append(blocks, fmt.Sprintf("ARTICLE: %s\nCONTENT: %s\nURL: %s\nDATE: %s", a.Title, a.Content, a.URL, a.Date))
	}
	return strings.Join(blocks, "\n\n")
}

func buildPrompt(query string, articles []article.Article) string {
	var sb bytes.Buffer

	sb.WriteString(assistantRole)
	sb.WriteString(fmt.Sprintf("\n\nQUESTION: %s\n", query))
	sb.WriteString("\nRELEVANT ARTICLES:\n")
	sb.WriteString(buildContext(articles))
	sb.WriteString("\n\n")
	sb.WriteString(instructions)
	sb.WriteString("\n\nProvide your answer in the following JSON format:\n")
	sb.WriteString(outputFormat)
	sb.WriteString("\n")

	return sb.String()
}
