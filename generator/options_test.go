package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewOptions_Defaults(t *testing.T) {
	options := NewOptions()

	assert.Equal(t, int64(1024), options.MaxTokens)
	assert.NotNil(t, options.Context)
	assert.Empty(t, options.Model)
}

func TestFullPrompt(t *testing.T) {
	assert.Equal(t, "hi", NewOptions().FullPrompt("hi"))
	assert.Equal(t, "be brief\nhi", NewOptions(WithPromptPrefix("be brief")).FullPrompt("hi"))
}
