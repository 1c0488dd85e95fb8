// Package markdown renders post bodies to sanitized HTML.
package markdown

import (
	"bytes"
	"context"
	"html"
	"html/template"
	"io"
	"net/url"
	"regexp"
	"strings"
	"sync"

	"github.com/a-h/templ"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

var (
	reCodeLang = regexp.MustCompile(`^language-[\w+#.-]+$`)
	reCheckbox = regexp.MustCompile(`^checkbox$`)
)

var bufPool = sync.Pool{
	New: func() any { return new(bytes.Buffer) },
}

// Renderer converts GitHub-flavored markdown to HTML. Raw HTML in the source
// is kept in the document and every result is passed through the sanitizer
// before it is returned. A Renderer is safe for concurrent use.
type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// New returns a Renderer with tables, autolinks, strikethrough, task lists
// and heading IDs enabled.
func New() *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			gmhtml.WithUnsafe(),
		),
	)
	return &Renderer{md: md, policy: Policy()}
}

// Policy returns the sanitization policy applied to rendered posts: the
// bluemonday UGC policy plus code language classes and task-list checkboxes.
func Policy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Matching(reCodeLang).OnElements("code")
	p.AllowAttrs("type").Matching(reCheckbox).OnElements("input")
	p.AllowAttrs("checked", "disabled").OnElements("input")
	p.RequireNoFollowOnLinks(false)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	return p
}

// Render converts src to sanitized HTML. Malformed markdown never fails;
// an error means the output could not be written.
func (r *Renderer) Render(src []byte) (template.HTML, error) {
	buf := bufPool.Get().(*bytes.Buffer)
	defer func() {
		buf.Reset()
		bufPool.Put(buf)
	}()
	if err := r.md.Convert(src, buf); err != nil {
		return "", err
	}
	return template.HTML(r.policy.SanitizeBytes(buf.Bytes())), nil
}

// RenderString is Render for string input.
func (r *Renderer) RenderString(src string) (template.HTML, error) {
	return r.Render([]byte(src))
}

// Markdown returns a templ.Component that renders md as sanitized HTML.
func (r *Renderer) Markdown(md string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		out, err := r.RenderString(md)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, string(out))
		return err
	})
}

// SafeURL validates and sanitizes a URL for use in HTML attributes.
// Relative paths and http, https, mailto and tel URLs are accepted;
// anything else yields "".
func SafeURL(raw string) string {
	val := strings.TrimSpace(html.UnescapeString(raw))
	if val == "" {
		return ""
	}
	if strings.HasPrefix(val, "/") || strings.HasPrefix(val, "#") {
		return val
	}
	parsed, err := url.Parse(val)
	if err != nil || parsed.Scheme == "" {
		return ""
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https", "mailto", "tel":
		return val
	default:
		return ""
	}
}
