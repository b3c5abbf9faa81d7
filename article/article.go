package article

import "strings"

const (
	idPrefix    = "article-"
	idTailRunes = 40
)

type Article struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	URL     string `json:"url"`
	Date    string `json:"date"`
}

func (a Article) Source() Source {
	return Source{
		Title: a.Title,
		URL:   a.URL,
		Date:  a.Date,
	}
}

type Source struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Date  string `json:"date"`
}

type AgentResponse struct {
	Answer  string   `json:"answer"`
	Sources []Source `json:"sources"`
}

// RecordID derives the index id from the last 40 characters of the url.
// Distinct urls sharing those characters collide.
func RecordID(url string) string {
	runes := []rune(url)
	if len(runes) > idTailRunes {
		runes = runes[len(runes)-idTailRunes:]
	}

	var b strings.Builder
	b.WriteString(idPrefix)
	for _, r := range runes {
		if isAlphanumeric(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune('-')
		}
	}

	return b.String()
}

func isAlphanumeric(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// EmbeddingText is the text embedded for a stored article.
func EmbeddingText(a Article) string {
	return "Title: " + a.Title + "\nContent: " + a.Content
}
