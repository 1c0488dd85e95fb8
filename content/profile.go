package content

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"gopkg.in/yaml.v3"

	"github.com/eringen/folio/i18n"
)

// Profile is the resume shown on the about page. Each language has its own
// file, <lang>.yaml, in the about directory.
type Profile struct {
	Lang       string       `yaml:"-"`
	Name       string       `yaml:"name"`
	Headline   string       `yaml:"headline"`
	Photo      string       `yaml:"photo"`
	Address    string       `yaml:"address"`
	Email      string       `yaml:"email"`
	Summary    string       `yaml:"summary"` // markdown
	Skills     []SkillGroup `yaml:"skills"`
	Experience []Experience `yaml:"experience"`
	Education  []string     `yaml:"education"`
	Social     []Link       `yaml:"social"`
}

type SkillGroup struct {
	Category string   `yaml:"category"`
	Tools    []string `yaml:"tools"`
}

type Experience struct {
	Title       string `yaml:"title"`
	Company     string `yaml:"company"`
	Duration    string `yaml:"duration"`
	Description string `yaml:"description"`
}

type Link struct {
	Label string `yaml:"label"`
	URL   string `yaml:"url"`
}

// Profiles reads about-page data from an fs.FS. Files are read on every
// call, so edits show up without a reindex.
type Profiles struct {
	fsys    fs.FS
	locales *i18n.Set
}

// NewProfiles creates Profiles over fsys.
func NewProfiles(fsys fs.FS, locales *i18n.Set) *Profiles {
	return &Profiles{fsys: fsys, locales: locales}
}

// Get returns the profile for lang. A language without its own file gets
// the default locale's profile, with Lang set accordingly. ErrNotFound
// means neither exists.
func (ps *Profiles) Get(lang string) (Profile, error) {
	p, err := ps.read(lang)
	if errors.Is(err, ErrNotFound) {
		if def := ps.locales.Default().Code; def != lang {
			p, err = ps.read(def)
		}
	}
	return p, err
}

func (ps *Profiles) read(lang string) (Profile, error) {
	for _, name := range []string{lang + ".yaml", lang + ".yml"} {
		b, err := fs.ReadFile(ps.fsys, name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return Profile{}, fmt.Errorf("content: read %s: %w", name, err)
		}
		var p Profile
		dec := yaml.NewDecoder(bytes.NewReader(b))
		dec.KnownFields(true)
		if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
			return Profile{}, fmt.Errorf("content: decode %s: %w", name, err)
		}
		p.Lang = lang
		return p, nil
	}
	return Profile{}, ErrNotFound
}
