package markup

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initEngine(t *testing.T, name string) {
	t.Helper()
	viper.Set("service.markup.engine", name)
	InitMarkup()
}

func TestRenderMarkdown(t *testing.T) {
	initEngine(t, "markdown")

	bodyHTML, bodyText := Render("hello **world**")
	assert.Contains(t, bodyHTML, "<strong>world</strong>")
	assert.Contains(t, bodyText, "hello world")
	assert.NotContains(t, bodyText, "<")
}

// 同样的输入渲染结果确定
func TestRenderDeterministic(t *testing.T) {
	initEngine(t, "markdown")

	h1, t1 := Render("# 标题\n\n正文")
	h2, t2 := Render("# 标题\n\n正文")
	assert.Equal(t, h1, h2)
	assert.Equal(t, t1, t2)
}

func TestRenderPlain(t *testing.T) {
	initEngine(t, "plain")

	bodyHTML, bodyText := Render("a < b\nc & d")
	assert.Equal(t, "a &lt; b<br/>c &amp; d", bodyHTML)
	assert.Contains(t, bodyText, "a < b")
	assert.Contains(t, bodyText, "c & d")
}

func TestHTMLToPlainText(t *testing.T) {
	assert.Equal(t, "hello world", HTMLToPlainText("<p>hello <em>world</em></p>"))
	assert.Equal(t, "a < b", HTMLToPlainText("a &lt; b")) // 实体被还原
	assert.Equal(t, "", HTMLToPlainText(""))
}

func TestInitMarkupUnknownEngine(t *testing.T) {
	viper.Set("service.markup.engine", "textile")
	defer viper.Set("service.markup.engine", "markdown")

	require.Panics(t, func() { InitMarkup() })
}
