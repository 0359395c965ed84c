package ai

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	_, err := Request{Prompt: "   \n"}.Normalize()
	assert.ErrorIs(t, err, ErrEmptyPrompt)

	r, err := Request{Prompt: "  olá  ", Kind: "desconhecido"}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, "olá", r.Prompt)
	assert.Equal(t, KindGeneric, r.Kind)
	assert.Equal(t, "pt-BR", r.Language)

	long := strings.Repeat("ã", MaxPromptRunes+50)
	_, err = Request{Prompt: long, Kind: KindBlog}.Normalize()
	assert.ErrorIs(t, err, ErrPromptTooLong)

	r, err = Request{Prompt: strings.Repeat("ã", MaxPromptRunes), Kind: KindBlog}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, KindBlog, r.Kind)
}

func TestSystemInstructionByKind(t *testing.T) {
	blog := systemInstruction(Request{Kind: KindBlog, Language: "pt-BR", Tone: "leve"})
	assert.Contains(t, blog, "blog post")
	assert.Contains(t, blog, "Tone: leve.")
	assert.True(t, strings.HasSuffix(blog, "Respond in pt-BR."))

	team := systemInstruction(Request{Kind: KindTeam, Language: "en"})
	assert.Contains(t, team, "bio")
	assert.NotContains(t, team, "Tone:")
}

func TestPlaceholderGenerator(t *testing.T) {
	var g Generator = PlaceholderGenerator{}
	ctx := context.Background()

	res, err := g.Generate(ctx, Request{Prompt: "sites rápidos", Kind: KindBlog})
	require.NoError(t, err)
	assert.Equal(t, "placeholder", res.Provider)
	assert.True(t, strings.HasPrefix(res.Content, "# sites rápidos"))

	again, err := g.Generate(ctx, Request{Prompt: "sites rápidos", Kind: KindBlog})
	require.NoError(t, err)
	assert.Equal(t, res, again)

	_, err = g.Generate(ctx, Request{})
	assert.ErrorIs(t, err, ErrEmptyPrompt)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = g.Generate(cancelled, Request{Prompt: "x"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewGenAIGeneratorRequiresKey(t *testing.T) {
	_, err := NewGenAIGenerator(context.Background(), "", "")
	assert.Error(t, err)
}
