package markdown

import (
	"bytes"
	"fmt"
	"maps"
	"time"

	"github.com/adrg/frontmatter"
)

// FrontMatter is the metadata block at the top of an imported wiki page.
type FrontMatter struct {
	Title   string
	Slug    string
	Summary string
	Tags    []string
	Author  string
	Date    time.Time
	Draft   bool
	// Custom holds keys the page declares beyond the known ones.
	Custom map[string]any
}

// ParseFrontMatter splits source into its front matter and Markdown body.
// Sources without a front matter block yield zero metadata and the full
// source as body.
func ParseFrontMatter(source []byte) (FrontMatter, []byte, error) {
	var meta frontMatterEnvelope

	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return FrontMatter{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}

	return meta.frontMatter(), body, nil
}

type frontMatterEnvelope struct {
	Title   string         `yaml:"title" toml:"title" json:"title"`
	Slug    string         `yaml:"slug" toml:"slug" json:"slug"`
	Summary string         `yaml:"summary" toml:"summary" json:"summary"`
	Tags    []string       `yaml:"tags" toml:"tags" json:"tags"`
	Author  string         `yaml:"author" toml:"author" json:"author"`
	Date    time.Time      `yaml:"date" toml:"date" json:"date"`
	Draft   bool           `yaml:"draft" toml:"draft" json:"draft"`
	Custom  map[string]any `yaml:",inline"`
}

func (env frontMatterEnvelope) frontMatter() FrontMatter {
	custom := map[string]any{}
	if env.Custom != nil {
		custom = maps.Clone(env.Custom)
	}
	return FrontMatter{
		Title:   env.Title,
		Slug:    env.Slug,
		Summary: env.Summary,
		Tags:    append([]string(nil), env.Tags...),
		Author:  env.Author,
		Date:    env.Date,
		Draft:   env.Draft,
		Custom:  custom,
	}
}
