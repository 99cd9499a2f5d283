package report

import (
	"html"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// HTML converts Markdown to an HTML fragment with GFM tables.
func HTML(md string) (string, error) {
	var out strings.Builder
	if err := markdown.Convert([]byte(md), &out); err != nil {
		return "", eris.Wrap(err, "report: markdown convert")
	}
	return out.String(), nil
}

const pageStyle = "body{font-family:system-ui,sans-serif;max-width:960px;margin:2rem auto;padding:0 1rem;color:#1c1917;} " +
	"table{border-collapse:collapse;width:100%;font-size:0.9rem;} " +
	"th,td{border:1px solid #a8a29e;padding:0.35rem 0.5rem;text-align:left;vertical-align:top;} " +
	"thead th{background:#f1f5f9;} " +
	"blockquote{background:#fef3c7;border-left:4px solid #f59e0b;margin:1rem 0;padding:0.5rem 1rem;}"

// Page wraps rendered Markdown in a standalone HTML document.
func Page(title, md string) (string, error) {
	body, err := HTML(md)
	if err != nil {
		return "", err
	}
	return "<!doctype html><html><head><meta charset='utf-8'><title>" + html.EscapeString(title) + "</title>" +
		"<style>" + pageStyle + "</style></head><body>" + body + "</body></html>", nil
}
