// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
Package validation validates form payloads with go-playground/validator v10
before they are sent to the API.

A single validator instance is built lazily and shared. Field names are taken
from `form` tags, then `json` tags, so error paths match the HTML input names
(for example "categories[1].name").

# Custom Tags

  - unique_names: a slice of structs with a Name field holds no duplicate
    names, compared case-insensitively after trimming
  - image_ext: a file name ends in .jpg, .jpeg or .png

# Usage

	payload := models.EvaluateBookPayload{BookID: id, Rate: rate, Description: desc}
	if verr := validation.ValidateStruct(&payload); verr != nil {
	    // re-render the form with status 422
	    data.Errors = verr.Fields()
	}

Messages are written for the end user and are shown inline beside each
input. Specific field/tag pairs have their own wording; everything else falls
back to a generic template per tag.
*/
package validation
