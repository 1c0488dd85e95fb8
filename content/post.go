// Package content is the read-only post repository. It scans a directory of
// markdown files with YAML frontmatter and turns them into validated posts.
package content

import (
	"errors"
	"fmt"
	"html/template"
	"strings"
	"time"
)

// ErrNotFound is returned when no post or profile matches a lookup.
var ErrNotFound = errors.New("content: not found")

// dateLayouts are the accepted frontmatter date formats, most specific first.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Post is a blog post read from the content directory.
type Post struct {
	Slug       string
	Title      string
	Date       string
	Published  time.Time
	Lang       string
	Dir        string
	Excerpt    string
	CoverImage string
	Tags       []string
	Draft      bool
	SourcePath string

	// Body is the raw markdown after the frontmatter block.
	Body string
	// HTML is the sanitized rendered body. It is empty on listings.
	HTML template.HTML
}

// Path returns the site path of the post, e.g. "/en/blog/hello-world/".
func (p Post) Path() string {
	return "/" + p.Lang + "/blog/" + p.Slug + "/"
}

// Key identifies a post within the content set.
func (p Post) Key() string {
	return p.Lang + "/" + p.Slug
}

// Frontmatter is the typed metadata block at the top of a post file.
type Frontmatter struct {
	Title      string   `yaml:"title"`
	Date       string   `yaml:"date"`
	Lang       string   `yaml:"lang"`
	Slug       string   `yaml:"slug"`
	Excerpt    string   `yaml:"excerpt"`
	CoverImage string   `yaml:"coverImage"`
	Tags       []string `yaml:"tags"`
	Draft      bool     `yaml:"draft"`
}

// Validate checks the required fields and returns the parsed date.
func (fm Frontmatter) Validate() (time.Time, error) {
	if strings.TrimSpace(fm.Title) == "" {
		return time.Time{}, &ValidationError{Field: "title", Reason: "is required"}
	}
	if strings.TrimSpace(fm.Date) == "" {
		return time.Time{}, &ValidationError{Field: "date", Reason: "is required"}
	}
	t, err := ParseDate(fm.Date)
	if err != nil {
		return time.Time{}, &ValidationError{Field: "date", Reason: err.Error()}
	}
	return t, nil
}

// ParseDate parses a frontmatter date in any of the accepted layouts.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q, use YYYY-MM-DD or RFC3339", s)
}

// ValidationError reports a post file that was rejected at parse time.
type ValidationError struct {
	Path   string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("content: %s: %s", e.Path, e.Reason)
	}
	return fmt.Sprintf("content: %s: %s %s", e.Path, e.Field, e.Reason)
}

// DuplicateSlugError reports two files that resolve to the same language and
// slug.
type DuplicateSlugError struct {
	Lang   string
	Slug   string
	First  string
	Second string
}

func (e *DuplicateSlugError) Error() string {
	return fmt.Sprintf("content: duplicate slug %q for language %q in %s and %s", e.Slug, e.Lang, e.First, e.Second)
}
