package markup

import (
	"fmt"
	"html"
	"strings"

	"github.com/russross/blackfriday/v2"
	"github.com/spf13/viper"
	xhtml "golang.org/x/net/html"
)

// Engine 将原始内容渲染为 HTML
type Engine func(body string) string

var engines = map[string]Engine{
	"markdown": renderMarkdown,
	"plain":    renderPlain,
}

var engine Engine

// InitMarkup 根据配置选择渲染引擎，配置了未知引擎属于致命的配置错误
func InitMarkup() {
	name := viper.GetString("service.markup.engine")
	e, ok := engines[name]
	if !ok {
		panic(fmt.Sprintf("markup: unknown engine %q", name))
	}
	engine = e
}

// Render 由 body 派生 body_html 与 body_text
// 纯函数，同一引擎配置下结果确定
func Render(body string) (bodyHTML, bodyText string) {
	bodyHTML = engine(body)
	bodyText = HTMLToPlainText(bodyHTML)
	return
}

// HTMLToPlainText 剥掉所有标签并还原实体，得到可用于摘要/检索的纯文本
func HTMLToPlainText(s string) string {
	var sb strings.Builder
	tokenizer := xhtml.NewTokenizer(strings.NewReader(s))
	for {
		tt := tokenizer.Next()
		if tt == xhtml.ErrorToken {
			break // io.EOF 或非法输入，两种情况都按读完处理
		}
		if tt == xhtml.TextToken {
			sb.Write(tokenizer.Text()) // Text 已经完成实体反转义
		}
	}
	return sb.String()
}

func renderMarkdown(body string) string {
	return string(blackfriday.Run([]byte(body)))
}

// plain 引擎：转义后按行转 <br>
func renderPlain(body string) string {
	escaped := html.EscapeString(body)
	return strings.ReplaceAll(escaped, "\n", "<br/>")
}
