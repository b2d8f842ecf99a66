package report

import (
	"bytes"
	"fmt"
	"html"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// pageCSS keeps the rendered page readable without external assets.
const pageCSS = "body{font-family:system-ui,Segoe UI,Roboto,Helvetica,Arial,sans-serif;" +
	"max-width:960px;margin:2rem auto;padding:0 1rem} h1{font-size:1.8rem} " +
	"h2{font-size:1.3rem;margin-top:2rem} code,pre{background:#f6f8fa;" +
	"border:1px solid #eaecef;border-radius:6px;padding:.2rem .4rem}"

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.Table),
)

// renderHTML converts the markdown form into a styled standalone page.
// A conversion failure degrades to an escaped fallback body so the site
// still gets a usable HTML artifact.
func renderHTML(md string) string {
	var buf bytes.Buffer
	var body string
	if err := markdown.Convert([]byte(md), &buf); err != nil {
		body = fallbackBody(md)
	} else {
		body = buf.String()
	}
	return wrapPage(body)
}

func fallbackBody(md string) string {
	return "<pre>" + html.EscapeString(md) + "</pre>"
}

func wrapPage(body string) string {
	return fmt.Sprintf("<!doctype html><html><head><meta charset='utf-8'>"+
		"<title>SharePoint Audit</title><style>%s</style></head><body>%s</body></html>",
		pageCSS, body)
}
