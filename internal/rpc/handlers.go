package rpc

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"pireport/internal/mutate"
	"pireport/internal/policy"
	"pireport/internal/resolve"
)

// errInvalidParams marks argument decoding failures so they surface with
// the JSON-RPC invalid-params code instead of a generic tool error.
var errInvalidParams = errors.New("invalid params")

// uploader is the optional backend capability behind the upload_file tool.
// Only the remote store implements it.
type uploader interface {
	Upload(name, contentType string, data []byte) (string, error)
}

func (s *Server) callTool(params json.RawMessage) (interface{}, interface{}) {
	var call struct {
		Name      string                 `json:"name"`
		Arguments map[string]interface{} `json:"arguments"`
	}
	if err := json.Unmarshal(params, &call); err != nil {
		return nil, map[string]interface{}{"code": -32602, "message": "Invalid params"}
	}
	args := call.Arguments

	var data interface{}
	var err error

	switch call.Name {
	case "resolve_templates":
		data, err = s.handleResolveTemplates(args)
	case "resolve_consolidated":
		data, err = s.handleResolveConsolidated(args)
	case "resolve_view":
		data, err = s.handleResolveView(args)
	case "set_accomplishment":
		var month int
		if month, err = requireInt(args, "month"); err == nil {
			err = s.withActorTarget(args, func(actor, target policy.Unit) error {
				return s.mutator.SetAccomplishment(actor, target,
					argString(args, "year"), argString(args, "template_id"), argString(args, "activity_id"),
					month, args["value"])
			})
		}
	case "set_files":
		var month int
		var files []resolve.FileDescriptor
		if month, err = requireInt(args, "month"); err == nil {
			if err = decodeArg(args, "files", &files); err == nil {
				err = s.withActorTarget(args, func(actor, target policy.Unit) error {
					return s.mutator.SetFiles(actor, target,
						argString(args, "year"), argString(args, "template_id"), argString(args, "activity_id"),
						month, files)
				})
			}
		}
	case "upload_file":
		data, err = s.handleUploadFile(args)
	case "rename_label":
		err = s.withActorTarget(args, func(actor, target policy.Unit) error {
			return s.mutator.RenameLabel(actor, target,
				argString(args, "year"), argString(args, "template_id"), argString(args, "activity_id"),
				mutate.LabelField(argString(args, "field")), argString(args, "text"))
		})
	case "rename_title":
		err = s.withActorTarget(args, func(actor, target policy.Unit) error {
			return s.mutator.RenameTitle(actor, target,
				argString(args, "year"), argString(args, "template_id"), argString(args, "text"))
		})
	case "rename_tab_label":
		err = s.withActorTarget(args, func(actor, target policy.Unit) error {
			return s.mutator.RenameTabLabel(actor, target,
				argString(args, "year"), argString(args, "template_id"), argString(args, "text"))
		})
	case "add_template":
		var actor policy.Unit
		if actor, err = lookupUnit(argString(args, "actor")); err == nil {
			data, err = s.mutator.AddTemplate(actor, argString(args, "year"))
		}
	case "add_activity_row":
		err = s.withActorTarget(args, func(actor, target policy.Unit) error {
			id, rowErr := s.mutator.AddActivityRow(actor, target,
				argString(args, "year"), argString(args, "template_id"))
			data = map[string]interface{}{"activity_id": id}
			return rowErr
		})
	case "remove_activity_row":
		err = s.withActorTarget(args, func(actor, target policy.Unit) error {
			return s.mutator.RemoveActivityRow(actor, target,
				argString(args, "year"), argString(args, "template_id"), argString(args, "activity_id"))
		})
	case "hide_template":
		var actor policy.Unit
		if actor, err = lookupUnit(argString(args, "actor")); err == nil {
			err = s.mutator.HideTemplateForUnit(actor, argString(args, "unit"), argString(args, "template_id"))
		}
	case "unhide_all":
		var actor policy.Unit
		if actor, err = lookupUnit(argString(args, "actor")); err == nil {
			err = s.mutator.UnhideAllForUnit(actor, argString(args, "unit"))
		}
	case "reorder_templates":
		var actor policy.Unit
		if actor, err = lookupUnit(argString(args, "actor")); err == nil {
			err = s.mutator.ReorderTemplates(actor,
				argString(args, "year"), argString(args, "template_id"),
				mutate.Direction(argString(args, "direction")))
		}
	case "clear_template_data":
		err = s.withActorTarget(args, func(actor, target policy.Unit) error {
			return s.mutator.ClearUnitTemplateData(actor, argString(args, "year"), target, argString(args, "template_id"))
		})
	case "import_labels":
		var rows [][]string
		if err = decodeArg(args, "rows", &rows); err == nil {
			err = s.withActorTarget(args, func(actor, target policy.Unit) error {
				summary, impErr := s.mutator.ImportLabels(actor, target,
					argString(args, "year"), argString(args, "template_id"), rows)
				data = summary
				return impErr
			})
		}
	default:
		return nil, map[string]interface{}{"code": -32601, "message": "Tool not found"}
	}

	if err != nil {
		code := -32000
		if errors.Is(err, errInvalidParams) {
			code = -32602
		}
		return nil, map[string]interface{}{"code": code, "message": err.Error()}
	}
	if data == nil {
		data = map[string]interface{}{"ok": true}
	}

	return map[string]interface{}{
		"content": []interface{}{
			map[string]interface{}{
				"type": "text",
				"text": s.formatResult(data),
			},
		},
	}, nil
}

func (s *Server) handleResolveTemplates(args map[string]interface{}) (interface{}, error) {
	unit, err := lookupUnit(argString(args, "unit"))
	if err != nil {
		return nil, err
	}
	return s.resolver.Templates(argString(args, "year"), unit, resolve.ModeNormal), nil
}

func (s *Server) handleResolveConsolidated(args map[string]interface{}) (interface{}, error) {
	viewer, err := lookupUnit(argString(args, "viewer"))
	if err != nil {
		return nil, err
	}
	if !viewer.Role.IsAdmin() {
		return nil, fmt.Errorf("consolidated view requires an administrative viewer, got role %s", viewer.Role)
	}

	scope := policy.DashboardScope(argString(args, "scope"))
	if scope == "" {
		scope = policy.ScopeAllUnits
	}
	return s.engine.Consolidated(argString(args, "year"), viewer, scope), nil
}

// handleResolveView is the automatic entry point: the view mode is derived
// from the viewer and subject roles, never requested explicitly. An
// administrative viewer looking at themselves or at a sub-admin gets the
// consolidated roll-up; every other pairing resolves the subject's own view.
func (s *Server) handleResolveView(args map[string]interface{}) (interface{}, error) {
	viewer, err := lookupUnit(argString(args, "viewer"))
	if err != nil {
		return nil, err
	}
	subject, err := lookupUnit(argString(args, "subject"))
	if err != nil {
		return nil, err
	}

	if policy.SelectViewMode(viewer.Role, subject.Role) == policy.ViewConsolidated {
		scope := policy.DashboardScope(argString(args, "scope"))
		if scope == "" {
			scope = policy.ScopeAllUnits
		}
		return s.engine.Consolidated(argString(args, "year"), viewer, scope), nil
	}
	return s.resolver.Templates(argString(args, "year"), subject, resolve.ModeNormal), nil
}

// handleUploadFile pushes attachment bytes to the store backend and returns
// a ready file descriptor whose ref can go straight into set_files.
func (s *Server) handleUploadFile(args map[string]interface{}) (interface{}, error) {
	up, ok := s.store.(uploader)
	if !ok {
		return nil, fmt.Errorf("store backend does not support uploads")
	}

	data, err := base64.StdEncoding.DecodeString(argString(args, "data"))
	if err != nil {
		return nil, fmt.Errorf("%w: data must be base64", errInvalidParams)
	}

	name := argString(args, "name")
	contentType := argString(args, "content_type")
	ref, err := up.Upload(name, contentType, data)
	if err != nil {
		return nil, err
	}
	return resolve.FileDescriptor{
		Name:        name,
		Size:        int64(len(data)),
		ContentType: contentType,
		Ref:         ref,
		UploadedAt:  time.Now().UTC(),
	}, nil
}

// withActorTarget resolves the "actor" and "unit" arguments and runs fn with
// them. The two roster lookups are shared by most mutation tools.
func (s *Server) withActorTarget(args map[string]interface{}, fn func(actor, target policy.Unit) error) error {
	actor, err := lookupUnit(argString(args, "actor"))
	if err != nil {
		return err
	}
	target, err := lookupUnit(argString(args, "unit"))
	if err != nil {
		return err
	}
	return fn(actor, target)
}

// lookupUnit maps a wire unit id to a policy.Unit. Administrative roles have
// no roster entry, so their role names double as ids.
func lookupUnit(id string) (policy.Unit, error) {
	switch id {
	case string(policy.RoleSuperAdmin):
		return policy.Unit{ID: id, Name: "Super Admin", Role: policy.RoleSuperAdmin}, nil
	case string(policy.RoleSubAdmin):
		return policy.Unit{ID: id, Name: "Sub Admin", Role: policy.RoleSubAdmin}, nil
	}
	unit, ok := policy.FindUnit(id)
	if !ok {
		return policy.Unit{}, fmt.Errorf("unknown unit id %q", id)
	}
	return unit, nil
}

func argString(args map[string]interface{}, key string) string {
	v, _ := args[key].(string)
	return v
}

// requireInt rejects absent, mistyped, and fractional arguments instead of
// letting them collapse to 0.
func requireInt(args map[string]interface{}, key string) (int, error) {
	v, ok := args[key].(float64)
	if !ok || v != math.Trunc(v) {
		return 0, fmt.Errorf("%w: %s must be an integer", errInvalidParams, key)
	}
	return int(v), nil
}

// decodeArg round-trips one argument through JSON into a typed value.
func decodeArg(args map[string]interface{}, key string, into interface{}) error {
	raw, err := json.Marshal(args[key])
	if err != nil {
		return fmt.Errorf("invalid %s argument: %w", key, err)
	}
	if err := json.Unmarshal(raw, into); err != nil {
		return fmt.Errorf("invalid %s argument: %w", key, err)
	}
	return nil
}
