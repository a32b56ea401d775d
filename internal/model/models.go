// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for threads and conversations.
package model

import "fmt"

// =============================================================================
// MODEL INFO TYPE
// =============================================================================

// ModelInfo describes an entry of the model selector.
type ModelInfo struct {
	// ID is the identifier tracked as the selected model
	ID string `json:"id"`

	// Name is the card title
	Name string `json:"name"`

	// Description is the card subtitle
	Description string `json:"description"`
}

// String returns "Name (id)".
func (m ModelInfo) String() string {
	return fmt.Sprintf("%s (%s)", m.Name, m.ID)
}

// =============================================================================
// MODEL CATALOG
// =============================================================================

// Catalog is the fixed list of selectable models, in display order.
var Catalog = []ModelInfo{
	{ID: "model1", Name: "PRD Assistant", Description: "Description for Model 1"},
	{ID: "model2", Name: "Legal Policy GPT", Description: "Description for Model 2"},
	{ID: "model3", Name: "General Chat", Description: "Description for Model 3"},
	{ID: "model4", Name: "Research Assistant", Description: "Description for Model 4"},
}

// LookupModel returns the catalog entry with the given id.
func LookupModel(id string) (ModelInfo, bool) {
	for _, m := range Catalog {
		if m.ID == id {
			return m, true
		}
	}
	return ModelInfo{}, false
}
