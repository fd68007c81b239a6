// SPDX-FileCopyrightText: 2025 The Appmod Authors
// SPDX-License-Identifier: EUPL-1.2

// Package domain holds the catalog records, ports and error types shared by
// every appmod front end.
package domain

import "strings"

// AppRecord is the listing projection of a catalog entry.
type AppRecord struct {
	Icon             string `json:"icon"`
	Title            string `json:"title"`
	ShortDescription string `json:"shortDescription"`
	LongDescription  string `json:"longDescription"`
	Date             string `json:"date"`
	Slug             string `json:"slug"`
	Category         string `json:"category"`
	Type             string `json:"type"`
	Version          string `json:"version"`
}

// AppDetail is the full catalog entry as stored in the data file.
type AppDetail struct {
	AppRecord

	Banner     string   `json:"banner"`
	Images     []string `json:"images"`
	Features   []string `json:"features"`
	Size       string   `json:"size"`
	Price      string   `json:"price"`
	Developer  string   `json:"developer"`
	Download   []string `json:"download"`
	MinVersion string   `json:"minVersion"`
	Package    string   `json:"package"`
}

// Records projects a detail collection to listing records, keeping order.
func Records(details []AppDetail) []AppRecord {
	records := make([]AppRecord, len(details))
	for i := range details {
		records[i] = details[i].AppRecord
	}

	return records
}

// Headline is the detail page heading, e.g.
// "Download Foo Mod Apk (Unlocked, No Ads) V 1.2".
func (a *AppDetail) Headline() string {
	var b strings.Builder

	b.WriteString("Download ")
	b.WriteString(a.Title)
	b.WriteString(" Mod Apk")

	if len(a.Features) > 0 {
		b.WriteString(" (")
		b.WriteString(strings.Join(a.Features, ", "))
		b.WriteString(")")
	}

	if a.Version != "" {
		b.WriteString(" V ")
		b.WriteString(a.Version)
	}

	return b.String()
}

// InfoField is one labelled row of the detail information grid.
type InfoField struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// InfoGrid returns the labelled detail fields in display order.
func (a *AppDetail) InfoGrid() []InfoField {
	link := "Unavailable"
	if len(a.Download) > 0 {
		link = "Available"
	}

	return []InfoField{
		{Label: "Name", Value: a.Title},
		{Label: "Category", Value: a.Category},
		{Label: "Publisher", Value: a.Developer},
		{Label: "Version", Value: a.Version},
		{Label: "Size", Value: a.Size},
		{Label: "Price", Value: a.Price},
		{Label: "Requires", Value: a.MinVersion},
		{Label: "Package Name", Value: a.Package},
		{Label: "Download Link", Value: link},
		{Label: "Type", Value: a.Type},
	}
}
