// SPDX-FileCopyrightText: 2025 The Appmod Authors
// SPDX-License-Identifier: EUPL-1.2

package detail

import "github.com/janderssonse/appmod/internal/domain"

// Social preview properties written by Apply.
const (
	PropTitle       = "og:title"
	PropDescription = "og:description"
	PropImage       = "og:image"
	PropURL         = "og:url"
	PropType        = "og:type"
)

// MetaTag is one property/content pair of page metadata.
type MetaTag struct {
	Property string `json:"property"`
	Content  string `json:"content"`
}

// Presentation is the page-level state a detail view owns while mounted.
type Presentation struct {
	Title string
	Icon  string
	Meta  []MetaTag

	defaultTitle string
	defaultIcon  string
}

// NewPresentation creates a presentation showing the given defaults.
func NewPresentation(defaultTitle, defaultIcon string) *Presentation {
	return &Presentation{
		Title:        defaultTitle,
		Icon:         defaultIcon,
		defaultTitle: defaultTitle,
		defaultIcon:  defaultIcon,
	}
}

// Apply binds the presentation to app. canonicalURL is the address of the detail page.
func (p *Presentation) Apply(app *domain.AppDetail, canonicalURL string) {
	if app == nil {
		return
	}

	p.Title = app.Title
	if app.Icon != "" {
		p.Icon = app.Icon
	}

	p.Upsert(PropTitle, app.Title)
	p.Upsert(PropDescription, app.ShortDescription)
	p.Upsert(PropImage, app.Icon)
	p.Upsert(PropURL, canonicalURL)
	p.Upsert(PropType, "website")
}

// Upsert sets content for property, replacing an existing entry in place.
func (p *Presentation) Upsert(property, content string) {
	for i := range p.Meta {
		if p.Meta[i].Property == property {
			p.Meta[i].Content = content

			return
		}
	}

	p.Meta = append(p.Meta, MetaTag{Property: property, Content: content})
}

// Lookup returns the content for property.
func (p *Presentation) Lookup(property string) (string, bool) {
	for _, m := range p.Meta {
		if m.Property == property {
			return m.Content, true
		}
	}

	return "", false
}

// Reset restores the defaults and drops all metadata.
func (p *Presentation) Reset() {
	p.Title = p.defaultTitle
	p.Icon = p.defaultIcon
	p.Meta = nil
}

// IsDefault reports whether nothing has been applied since the last reset.
func (p *Presentation) IsDefault() bool {
	return p.Title == p.defaultTitle && p.Icon == p.defaultIcon && len(p.Meta) == 0
}
