// SPDX-FileCopyrightText: 2025 The Appmod Authors
// SPDX-License-Identifier: EUPL-1.2

package models

import (
	"context"

	"github.com/janderssonse/appmod/internal/testutil"
	"github.com/janderssonse/appmod/internal/tui/styles"
)

// NewTestListModel creates a list model with the mock catalog already loaded.
func NewTestListModel(styleConfig *styles.Styles, width, height int) *ListModel {
	source := &testutil.StaticSource{Apps: testutil.SampleCatalog()}
	model := NewListModel(context.Background(), styleConfig, NewTestDeps(source))
	model.resize(width, height)

	snapshot, err := model.deps.Catalog.Load(context.Background())
	model.handleLoaded(catalogLoadedMsg{snapshot: snapshot, err: err})

	return model
}

// NewTestDetailModel creates a detail model with slug already resolved against the mock catalog.
func NewTestDetailModel(styleConfig *styles.Styles, slug string) *DetailModel {
	source := &testutil.StaticSource{Apps: testutil.SampleCatalog()}
	model := NewDetailModel(context.Background(), styleConfig, NewTestDeps(source), slug)
	model.resize(80, 40)

	result, err := model.deps.Details.Resolve(context.Background(), slug)
	model.handleResolved(detailResolvedMsg{result: result, err: err})

	return model
}
