// SPDX-FileCopyrightText: 2025 The Appmod Authors
// SPDX-License-Identifier: EUPL-1.2

package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"
	"github.com/janderssonse/appmod/internal/catalog"
	"github.com/janderssonse/appmod/internal/detail"
	"github.com/janderssonse/appmod/internal/domain"
	"github.com/janderssonse/appmod/internal/download"
)

// sessionStatus is the JSON body of GET {base}/downloads/{id}.
type sessionStatus struct {
	ID   string `json:"id"`
	Slug string `json:"slug"`

	download.State
}

func (s *Server) newPage(pres *detail.Presentation) *pageData {
	return &pageData{
		Title:     pres.Title,
		Icon:      pres.Icon,
		Meta:      pres.Meta,
		Base:      s.opts.BasePath,
		SiteTitle: s.opts.SiteTitle,
	}
}

func (s *Server) defaultPresentation() *detail.Presentation {
	return detail.NewPresentation(s.opts.SiteTitle, s.opts.DefaultIcon)
}

func (s *Server) write(w http.ResponseWriter, status int, page string, data *pageData) {
	if err := s.render.render(w, status, page, data); err != nil {
		s.logger.Error("render failed", "page", page, "err", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// handleHome renders the filtered list. Every request is a fresh mount:
// the catalog is fetched and shuffled again. A request without a query
// string shows the shuffled order; a submitted form filters.
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	criteria := catalog.Criteria{
		Query:    query.Get("q"),
		Category: query.Get("category"),
		Type:     query.Get("type"),
	}

	snapshot, err := s.catalog.Load(r.Context())
	if err != nil {
		s.logger.Error("catalog load failed", "err", err)
	}

	data := s.newPage(s.defaultPresentation())
	data.Criteria = criteria
	data.Apps = snapshot.Initial()
	if r.URL.RawQuery != "" {
		data.Apps = snapshot.View(criteria)
	}
	data.Categories = snapshot.Categories
	data.Types = snapshot.Types
	data.Total = snapshot.Len()

	s.write(w, http.StatusOK, pageHome, data)
}

func (s *Server) handleContact(w http.ResponseWriter, _ *http.Request) {
	data := s.newPage(s.defaultPresentation())
	data.Title = "Contact - " + s.opts.SiteTitle

	s.write(w, http.StatusOK, pageContact, data)
}

func (s *Server) handleNotFound(w http.ResponseWriter, _ *http.Request) {
	s.write(w, http.StatusNotFound, pageNotFound, s.newPage(s.defaultPresentation()))
}

// handleDetail renders one app. A session query parameter shows the state of
// that download; while it runs the page refreshes itself every second.
func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	app, ok := s.resolve(w, r, slug)
	if !ok {
		return
	}

	pres := s.defaultPresentation()
	pres.Apply(app, s.canonicalURL(r, slug))

	data := s.newPage(pres)
	data.Slug = slug
	data.App = app
	data.Info = app.InfoGrid()
	data.Description = s.render.markdown(app.LongDescription)

	if session := s.sessionFor(r.URL.Query().Get("session"), slug); session != nil {
		state := session.State()
		data.Download = &state
		data.SessionID = session.ID

		if state.Phase == download.PhaseDownloading {
			data.Refresh = refreshSeconds
		}
	}

	s.write(w, http.StatusOK, pageDetail, data)
}

// handleStartDownload starts a session and redirects to the detail page.
// Posting again for a session that already started keeps that session.
func (s *Server) handleStartDownload(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)

		return
	}

	if session := s.sessionFor(r.Form.Get("session"), slug); session != nil && !session.State().Phase.AcceptsStart() {
		s.redirectToSession(w, r, slug, session.ID)

		return
	}

	app, ok := s.resolve(w, r, slug)
	if !ok {
		return
	}

	session, err := s.registry.Start(slug, app.Download)
	if err != nil {
		if errors.Is(err, download.ErrRateLimited) {
			http.Error(w, "Rate limit exceeded", http.StatusTooManyRequests)

			return
		}

		s.logger.Error("download start failed", "slug", slug, "err", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)

		return
	}

	s.logger.Info("download started", "slug", slug, "session", session.ID)
	s.redirectToSession(w, r, slug, session.ID)
}

func (s *Server) handleDownloadStatus(w http.ResponseWriter, r *http.Request) {
	session, err := s.registry.Get(mux.Vars(r)["id"])
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})

		return
	}

	writeJSON(w, http.StatusOK, sessionStatus{
		ID:    session.ID,
		Slug:  session.Slug,
		State: session.State(),
	})
}

func (s *Server) handleCancelDownload(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	session, err := s.registry.Get(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)

		return
	}

	if err := s.registry.Cancel(id); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)

		return
	}

	s.logger.Info("download cancelled", "slug", session.Slug, "session", id)
	http.Redirect(w, r, s.opts.BasePath+"/apps/"+url.PathEscape(session.Slug), http.StatusSeeOther)
}

func (s *Server) handleDataFile(w http.ResponseWriter, r *http.Request) {
	if s.opts.DataFile == "" {
		s.handleNotFound(w, r)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	http.ServeFile(w, r, s.opts.DataFile)
}

// resolve looks up slug and writes the not-found page when it is missing.
// Fetch failures are logged and rendered the same way.
func (s *Server) resolve(w http.ResponseWriter, r *http.Request, slug string) (*domain.AppDetail, bool) {
	result, err := s.details.Resolve(r.Context(), slug)
	if err != nil {
		s.logger.Error("detail resolve failed", "slug", slug, "err", err)
	}

	if err != nil || !result.Found {
		data := s.newPage(s.defaultPresentation())
		data.Slug = slug

		s.write(w, http.StatusNotFound, pageNotFound, data)

		return nil, false
	}

	return result.App, true
}

// sessionFor returns the session with id when it belongs to slug.
func (s *Server) sessionFor(id, slug string) *download.Session {
	if id == "" {
		return nil
	}

	session, err := s.registry.Get(id)
	if err != nil || session.Slug != slug {
		return nil
	}

	return session
}

func (s *Server) redirectToSession(w http.ResponseWriter, r *http.Request, slug, id string) {
	target := s.opts.BasePath + "/apps/" + url.PathEscape(slug) + "?session=" + url.QueryEscape(id)
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// canonicalURL is the absolute address of the detail page for slug.
func (s *Server) canonicalURL(r *http.Request, slug string) string {
	origin := s.opts.PublicURL
	if origin == "" {
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}

		origin = scheme + "://" + r.Host
	}

	return origin + s.opts.BasePath + "/apps/" + url.PathEscape(slug)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
