package rpc

// listTools describes every exposed operation. Unit arguments take roster ids
// (for example "Station1" or "RHQ-North") or the administrative ids
// "super-admin" and "sub-admin".
func (s *Server) listTools() interface{} {
	unitProp := map[string]interface{}{"type": "string", "description": "Roster unit id or administrative id"}
	yearProp := map[string]interface{}{"type": "string", "description": "Reporting year, e.g. 2026"}
	templateProp := map[string]interface{}{"type": "string", "description": "Template id, e.g. PI1"}
	activityProp := map[string]interface{}{"type": "string", "description": "Activity row id"}
	monthProp := map[string]interface{}{"type": "integer", "description": "Month index 0-11"}

	return map[string]interface{}{
		"tools": []interface{}{
			map[string]interface{}{
				"name":        "resolve_templates",
				"description": "Resolve the full template set for one unit and year, with overrides, defaults, and hidden sets applied.",
				"inputSchema": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"year": yearProp,
						"unit": unitProp,
					},
					"required": []string{"year", "unit"},
				},
			},
			map[string]interface{}{
				"name":        "resolve_consolidated",
				"description": "Resolve the consolidated view combining all roster units for an administrative viewer.",
				"inputSchema": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"year":   yearProp,
						"viewer": unitProp,
						"scope":  map[string]interface{}{"type": "string", "enum": []string{"all-units", "regional-hq-only", "station-only"}},
					},
					"required": []string{"year", "viewer"},
				},
			},
			map[string]interface{}{
				"name":        "resolve_view",
				"description": "Resolve the view for a viewer looking at a subject unit. The mode is derived from the two roles: administrative viewers looking at themselves or at a sub-admin get the consolidated roll-up, everyone else gets the subject's per-unit view.",
				"inputSchema": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"year":    yearProp,
						"viewer":  unitProp,
						"subject": unitProp,
						"scope":   map[string]interface{}{"type": "string", "enum": []string{"all-units", "regional-hq-only", "station-only"}},
					},
					"required": []string{"year", "viewer", "subject"},
				},
			},
			map[string]interface{}{
				"name":        "upload_file",
				"description": "Upload attachment bytes to the configured backend and get back a file descriptor for set_files. Only available with the remote store backend.",
				"inputSchema": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"name":         map[string]interface{}{"type": "string"},
						"content_type": map[string]interface{}{"type": "string"},
						"data":         map[string]interface{}{"type": "string", "description": "Base64-encoded file contents"},
					},
					"required": []string{"name", "data"},
				},
			},
			map[string]interface{}{
				"name":        "set_accomplishment",
				"description": "Set one accomplishment cell for a unit. Non-numeric values coerce to 0.",
				"inputSchema": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"actor":       unitProp,
						"unit":        unitProp,
						"year":        yearProp,
						"template_id": templateProp,
						"activity_id": activityProp,
						"month":       monthProp,
						"value":       map[string]interface{}{"description": "Cell value; numbers and numeric strings accepted"},
					},
					"required": []string{"actor", "unit", "year", "template_id", "activity_id", "month", "value"},
				},
			},
			map[string]interface{}{
				"name":        "set_files",
				"description": "Replace the file attachments on one accomplishment cell.",
				"inputSchema": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"actor":       unitProp,
						"unit":        unitProp,
						"year":        yearProp,
						"template_id": templateProp,
						"activity_id": activityProp,
						"month":       monthProp,
						"files":       map[string]interface{}{"type": "array", "description": "File descriptors"},
					},
					"required": []string{"actor", "unit", "year", "template_id", "activity_id", "month", "files"},
				},
			},
			map[string]interface{}{
				"name":        "rename_label",
				"description": "Rename an activity or indicator label for one unit.",
				"inputSchema": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"actor":       unitProp,
						"unit":        unitProp,
						"year":        yearProp,
						"template_id": templateProp,
						"activity_id": activityProp,
						"field":       map[string]interface{}{"type": "string", "enum": []string{"activity", "indicator"}},
						"text":        map[string]interface{}{"type": "string"},
					},
					"required": []string{"actor", "unit", "year", "template_id", "activity_id", "field", "text"},
				},
			},
			map[string]interface{}{
				"name":        "rename_title",
				"description": "Rename a template title for one unit.",
				"inputSchema": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"actor":       unitProp,
						"unit":        unitProp,
						"year":        yearProp,
						"template_id": templateProp,
						"text":        map[string]interface{}{"type": "string"},
					},
					"required": []string{"actor", "unit", "year", "template_id", "text"},
				},
			},
			map[string]interface{}{
				"name":        "rename_tab_label",
				"description": "Rename a template's tab label for one unit.",
				"inputSchema": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"actor":       unitProp,
						"unit":        unitProp,
						"year":        yearProp,
						"template_id": templateProp,
						"text":        map[string]interface{}{"type": "string"},
					},
					"required": []string{"actor", "unit", "year", "template_id", "text"},
				},
			},
			map[string]interface{}{
				"name":        "add_template",
				"description": "Create a new custom template at the end of the year's template list.",
				"inputSchema": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"actor": unitProp,
						"year":  yearProp,
					},
					"required": []string{"actor", "year"},
				},
			},
			map[string]interface{}{
				"name":        "add_activity_row",
				"description": "Append a new activity row to a template for one unit.",
				"inputSchema": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"actor":       unitProp,
						"unit":        unitProp,
						"year":        yearProp,
						"template_id": templateProp,
					},
					"required": []string{"actor", "unit", "year", "template_id"},
				},
			},
			map[string]interface{}{
				"name":        "remove_activity_row",
				"description": "Remove an activity row from a template for one unit.",
				"inputSchema": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"actor":       unitProp,
						"unit":        unitProp,
						"year":        yearProp,
						"template_id": templateProp,
						"activity_id": activityProp,
					},
					"required": []string{"actor", "unit", "year", "template_id", "activity_id"},
				},
			},
			map[string]interface{}{
				"name":        "hide_template",
				"description": "Hide a template for a unit or hidden-set group.",
				"inputSchema": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"actor":       unitProp,
						"unit":        map[string]interface{}{"type": "string", "description": "Unit id or group id, e.g. group:stations"},
						"template_id": templateProp,
					},
					"required": []string{"actor", "unit", "template_id"},
				},
			},
			map[string]interface{}{
				"name":        "unhide_all",
				"description": "Clear the hidden set for a unit or group.",
				"inputSchema": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"actor": unitProp,
						"unit":  map[string]interface{}{"type": "string", "description": "Unit id or group id"},
					},
					"required": []string{"actor", "unit"},
				},
			},
			map[string]interface{}{
				"name":        "reorder_templates",
				"description": "Move a template one position up or down in the year's display order.",
				"inputSchema": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"actor":       unitProp,
						"year":        yearProp,
						"template_id": templateProp,
						"direction":   map[string]interface{}{"type": "string", "enum": []string{"up", "down"}},
					},
					"required": []string{"actor", "year", "template_id", "direction"},
				},
			},
			map[string]interface{}{
				"name":        "clear_template_data",
				"description": "Delete every stored accomplishment cell of one template for one unit.",
				"inputSchema": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"actor":       unitProp,
						"unit":        unitProp,
						"year":        yearProp,
						"template_id": templateProp,
					},
					"required": []string{"actor", "unit", "year", "template_id"},
				},
			},
			map[string]interface{}{
				"name":        "import_labels",
				"description": "Bulk-apply activity and indicator labels from tabular rows. Returns applied and skipped counts.",
				"inputSchema": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"actor":       unitProp,
						"unit":        unitProp,
						"year":        yearProp,
						"template_id": templateProp,
						"rows":        map[string]interface{}{"type": "array", "description": "Rows of [activity, indicator] cells"},
					},
					"required": []string{"actor", "unit", "year", "template_id", "rows"},
				},
			},
		},
	}
}
