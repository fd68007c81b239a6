// SPDX-FileCopyrightText: 2025 The Appmod Authors
// SPDX-License-Identifier: EUPL-1.2

package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	md "github.com/gomarkdown/markdown"
	"github.com/janderssonse/appmod/internal/catalog"
	"github.com/janderssonse/appmod/internal/detail"
	"github.com/janderssonse/appmod/internal/domain"
	"github.com/janderssonse/appmod/internal/download"
	"github.com/janderssonse/appmod/internal/stringutil"
	"github.com/microcosm-cc/bluemonday"
)

//go:embed templates/*.html static/*
var assets embed.FS

// Page names.
const (
	pageHome     = "home"
	pageDetail   = "detail"
	pageContact  = "contact"
	pageNotFound = "notfound"
)

// pageData is the model every template renders.
type pageData struct {
	// Presentation
	Title     string
	Icon      string
	Meta      []detail.MetaTag
	Base      string
	SiteTitle string
	Refresh   int

	// List
	Apps       []domain.AppRecord
	Criteria   catalog.Criteria
	Categories []string
	Types      []string
	Total      int

	// Detail
	Slug        string
	App         *domain.AppDetail
	Info        []domain.InfoField
	Description template.HTML
	Download    *download.State
	SessionID   string
}

type renderer struct {
	pages  map[string]*template.Template
	policy *bluemonday.Policy
}

func newRenderer() (*renderer, error) {
	funcs := template.FuncMap{
		"truncate": stringutil.Truncate,
		"join":     strings.Join,
	}

	r := &renderer{
		pages:  make(map[string]*template.Template),
		policy: bluemonday.UGCPolicy(),
	}

	for _, name := range []string{pageHome, pageDetail, pageContact, pageNotFound} {
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(assets,
			"templates/layout.html",
			"templates/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", name, err)
		}

		r.pages[name] = tmpl
	}

	return r, nil
}

// render executes page into a buffer first so a template error never
// leaves a half-written response.
func (r *renderer) render(w http.ResponseWriter, status int, page string, data *pageData) error {
	tmpl, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("failed to render %s: %w", page, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)

	return err
}

// markdown converts src to sanitized HTML.
func (r *renderer) markdown(src string) template.HTML {
	if strings.TrimSpace(src) == "" {
		return ""
	}

	//nolint:gosec // output is sanitized by the UGC policy
	return template.HTML(r.policy.SanitizeBytes(md.ToHTML([]byte(src), nil, nil)))
}
