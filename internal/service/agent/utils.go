package agent

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const (
	ParseFailureReasoning = "Failed to parse structured output"
)

var (
	ErrParse = errors.New("structured output could not be parsed")
)

var (
	urlPattern    = regexp.MustCompile(`https?://\S+`)
	fencedPattern = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*(\\{.*?\\})\\s*```")
)

type Answer struct {
	Answer    string `json:"answer"`
	Reasoning string `json:"reasoning"`
}

// DetectURL returns the first http(s) url in the text, or "".
func DetectURL(text string) string {
	return urlPattern.FindString(text)
}

// ParseAnswer extracts the structured answer from a model response. On
// failure it still returns the raw text as the answer alongside ErrParse.
func ParseAnswer(raw string) (Answer, error) {
	candidate := raw
	if m := fencedPattern.FindStringSubmatch(raw); m != nil {
		candidate = m[1]
	} else if obj, ok := firstObject(raw); ok {
		candidate = obj
	}

	var answer Answer
	if err := json.Unmarshal([]byte(candidate), &answer); err != nil {
		return rawAnswer(raw), fmt.Errorf("%w: %v", ErrParse, err)
	}

	if len(strings.TrimSpace(answer.Answer)) == 0 {
		return rawAnswer(raw), fmt.Errorf("%w: empty answer", ErrParse)
	}

	return answer, nil
}

func rawAnswer(raw string) Answer {
	return Answer{
		Answer:    raw,
		Reasoning: ParseFailureReasoning,
	}
}

// firstObject returns the first balanced {...} span, skipping braces inside
// json strings.
func firstObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}

	return "", false
}
