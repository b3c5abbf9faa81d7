package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/w-h-a/newsagent/article"
)

func TestDetectURL(t *testing.T) {
	assert.Equal(t, "https://x.com/y", DetectURL("summarize this: https://x.com/y please"))
	assert.Equal(t, "http://a.b/c?d=1", DetectURL("http://a.b/c?d=1 and https://second.com"))
	assert.Equal(t, "", DetectURL("no links here"))
	assert.Equal(t, "", DetectURL("ftp://files.example.com"))
}

func TestParseAnswer_Fenced(t *testing.T) {
	answer, err := ParseAnswer("```json\n{\"answer\":\"X\",\"reasoning\":\"Y\"}\n```")
	require.NoError(t, err)
	assert.Equal(t, Answer{Answer: "X", Reasoning: "Y"}, answer)
}

func TestParseAnswer_FencedWithoutLanguage(t *testing.T) {
	answer, err := ParseAnswer("Here:\n```\n{\"answer\": \"X\"}\n```\nDone")
	require.NoError(t, err)
	assert.Equal(t, "X", answer.Answer)
}

func TestParseAnswer_BareObject(t *testing.T) {
	answer, err := ParseAnswer(`The result is {"answer": "uses {braces}", "reasoning": "nested \"quotes\""} hope that helps {}`)
	require.NoError(t, err)
	assert.Equal(t, "uses {braces}", answer.Answer)
	assert.Equal(t, `nested "quotes"`, answer.Reasoning)
}

func TestParseAnswer_NoJSON(t *testing.T) {
	raw := "I don't have this information."
	answer, err := ParseAnswer(raw)

	assert.ErrorIs(t, err, ErrParse)
	assert.Equal(t, raw, answer.Answer)
	assert.Equal(t, ParseFailureReasoning, answer.Reasoning)
}

func TestParseAnswer_InvalidJSON(t *testing.T) {
	raw := "{answer: not json}"
	answer, err := ParseAnswer(raw)

	assert.ErrorIs(t, err, ErrParse)
	assert.Equal(t, raw, answer.Answer)
}

func TestParseAnswer_EmptyAnswerField(t *testing.T) {
	raw := `{"reasoning": "only reasoning"}`
	answer, err := ParseAnswer(raw)

	assert.ErrorIs(t, err, ErrParse)
	assert.Equal(t, raw, answer.Answer)
}

func TestBuildPrompt(t *testing.T) {
	prompt := buildPrompt("what happened?", []article.Article{
		{Title: "T1", Content: "C1", URL: "U1", Date: "D1"},
		{Title: "T2", Content: "C2", URL: "U2", Date: "D2"},
	})

	assert.Contains(t, prompt, "You are a news assistant")
	assert.Contains(t, prompt, "QUESTION: what happened?")
	assert.Contains(t, prompt, "RELEVANT ARTICLES:\nARTICLE: T1\nCONTENT: C1\nURL: U1\nDATE: D1\n\nARTICLE: T2\nCONTENT: C2\nURL: U2\nDATE: D2")
	assert.Contains(t, prompt, "Based ONLY on the information from the articles above")
	assert.Contains(t, prompt, `{"answer": "Your detailed response to the query", "reasoning": "Your step-by-step reasoning process"}`)
}
