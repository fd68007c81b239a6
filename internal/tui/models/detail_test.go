// SPDX-FileCopyrightText: 2025 The Appmod Authors
// SPDX-License-Identifier: EUPL-1.2

package models

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/janderssonse/appmod/internal/detail"
	"github.com/janderssonse/appmod/internal/download"
	"github.com/janderssonse/appmod/internal/testutil"
	"github.com/janderssonse/appmod/internal/tui/styles"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tickUntilIdle(m *DetailModel, limit int) int {
	ticks := 0
	for ticks < limit && m.DownloadState().Phase == download.PhaseDownloading {
		m.Update(downloadTickMsg{token: m.token})
		ticks++
	}

	return ticks
}

func TestDetailModelResolves(t *testing.T) {
	t.Parallel()

	model := NewTestDetailModel(styles.New(), "subway-runner")

	app, found := model.App()
	require.True(t, found)
	assert.Equal(t, "Subway Runner", app.Title)

	pres := model.deps.Presentation
	assert.Equal(t, "Subway Runner", pres.Title)

	title, ok := pres.Lookup(detail.PropTitle)
	assert.True(t, ok)
	assert.Equal(t, "Subway Runner", title)

	url, _ := pres.Lookup(detail.PropURL)
	assert.Equal(t, "appmod://apps/subway-runner", url)

	view := model.View()
	assert.Contains(t, view, "Download Subway Runner Mod Apk (Unlimited Coins) V 3.1")
	assert.Contains(t, view, "150 MB")
	assert.Contains(t, view, "Download")
}

func TestDetailModelResolveSetsWindowTitle(t *testing.T) {
	t.Parallel()

	source := &testutil.StaticSource{Apps: testutil.SampleCatalog()}
	model := NewDetailModel(context.Background(), styles.New(), NewTestDeps(source), "photo-studio")

	msg := model.resolve()()
	_, cmd := model.Update(msg)
	assert.NotNil(t, cmd)
	assert.Equal(t, "Photo Studio", model.deps.Presentation.Title)
}

func TestDetailModelNotFound(t *testing.T) {
	t.Parallel()

	model := NewTestDetailModel(styles.New(), "missing")

	_, found := model.App()
	assert.False(t, found)
	assert.True(t, model.deps.Presentation.IsDefault())
	assert.Contains(t, model.View(), "App not found")

	// Download is unavailable without a record
	assert.Nil(t, model.StartDownload())
	assert.Equal(t, download.PhaseIdle, model.DownloadState().Phase)
}

func TestDetailModelFetchError(t *testing.T) {
	t.Parallel()

	source := &testutil.StaticSource{Err: errors.New("connection reset")}
	model := NewDetailModel(context.Background(), styles.New(), NewTestDeps(source), "subway-runner")
	model.Update(model.resolve()())

	assert.Error(t, model.err)
	assert.Contains(t, model.View(), "App not found")
	assert.NotContains(t, model.View(), "Catalog could not be downloaded")
}

func TestDetailModelStaleResolutionIgnored(t *testing.T) {
	t.Parallel()

	model := NewTestDetailModel(styles.New(), "subway-runner")

	model.Update(detailResolvedMsg{result: detail.Result{Slug: "other"}})

	_, found := model.App()
	assert.True(t, found)
}

func TestDetailModelDownloadFlow(t *testing.T) {
	t.Parallel()

	model := NewTestDetailModel(styles.New(), "subway-runner")
	assert.Equal(t, download.PhaseIdle, model.DownloadState().Phase)

	_, cmd := model.Update(keyRunes("d"))
	require.NotNil(t, cmd)
	assert.Equal(t, download.State{Phase: download.PhaseDownloading, Progress: 0}, model.DownloadState())

	for k := 1; k < 10; k++ {
		model.Update(downloadTickMsg{token: model.token})
		assert.Equal(t, 10*k, model.DownloadState().Progress)
		assert.Equal(t, download.PhaseDownloading, model.DownloadState().Phase)
	}

	assert.Contains(t, model.View(), "Downloading")

	_, cmd = model.Update(downloadTickMsg{token: model.token})
	assert.Nil(t, cmd)

	state := model.DownloadState()
	assert.Equal(t, download.PhaseReady, state.Phase)
	assert.Equal(t, 100, state.Progress)
	require.Len(t, state.Links, 2)
	assert.Equal(t, "Download Link 1", state.Links[0].Label)

	view := model.View()
	assert.Contains(t, view, downloadReadyMessage)
	assert.Contains(t, view, "https://dl.example.com/subway-2.apk")
}

func TestDetailModelRestartIgnored(t *testing.T) {
	t.Parallel()

	model := NewTestDetailModel(styles.New(), "subway-runner")
	require.NotNil(t, model.StartDownload())

	model.Update(downloadTickMsg{token: model.token})
	assert.Nil(t, model.StartDownload())
	assert.Equal(t, 10, model.DownloadState().Progress)

	tickUntilIdle(model, 20)
	assert.Nil(t, model.StartDownload())
	assert.Equal(t, download.PhaseReady, model.DownloadState().Phase)
}

func TestDetailModelBackTearsDown(t *testing.T) {
	t.Parallel()

	model := NewTestDetailModel(styles.New(), "subway-runner")
	model.StartDownload()
	model.Update(downloadTickMsg{token: model.token})

	staleToken := model.token

	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.True(t, model.Closed())
	assert.True(t, model.deps.Presentation.IsDefault())

	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok)

	var navigated bool

	for _, c := range batch {
		if nav, ok := c().(NavigateMsg); ok {
			navigated = true

			assert.Equal(t, ListScreen, nav.Screen)
		}
	}

	assert.True(t, navigated)

	// Ticks issued before teardown are dropped
	_, cmd = model.Update(downloadTickMsg{token: staleToken})
	assert.Nil(t, cmd)
	assert.Equal(t, 10, model.DownloadState().Progress)
}

func TestDetailModelQuitResetsPresentation(t *testing.T) {
	t.Parallel()

	model := NewTestDetailModel(styles.New(), "photo-studio")
	require.False(t, model.deps.Presentation.IsDefault())

	_, cmd := model.Update(keyRunes("q"))
	require.NotNil(t, cmd)

	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
	assert.True(t, model.deps.Presentation.IsDefault())
}
