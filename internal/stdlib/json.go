package stdlib

import (
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/rillscript/rill/internal/errs"
	"github.com/rillscript/rill/internal/registry"
	"github.com/rillscript/rill/internal/value"
)

// registerJSON installs json_get, json_set and json_format, backed by
// tidwall's gjson/sjson/pretty trio — a path-based JSON toolkit rill scripts
// use instead of a parsed-document value type.
func registerJSON(reg *registry.Registry) {
	reg.Override("json_get", []value.TypeID{value.String, value.String},
		func(args []value.Value) (value.Value, error) {
			doc, path := args[0].Raw().(string), args[1].Raw().(string)
			res := gjson.Get(doc, path)
			if !res.Exists() {
				return value.Value{}, &errs.UnboundName{Name: "json path " + path}
			}
			return gjsonToValue(res), nil
		})

	reg.Override("json_set", []value.TypeID{value.String, value.String, value.String},
		func(args []value.Value) (value.Value, error) {
			doc, path, val := args[0].Raw().(string), args[1].Raw().(string), args[2].Raw().(string)
			out, err := sjson.Set(doc, path, val)
			if err != nil {
				return value.Value{}, err
			}
			return value.Str(out), nil
		})

	reg.Override("json_format", []value.TypeID{value.String},
		func(args []value.Value) (value.Value, error) {
			doc := args[0].Raw().(string)
			return value.Str(string(pretty.Pretty([]byte(doc)))), nil
		})
}

// gjsonToValue converts a gjson.Result into the dynamic value tree a rill
// script expects: scalars map onto int64/float64/bool/string, a JSON array
// onto an array of recursively-converted elements, and null onto unit. rill
// has no object/map value type (spec.md §4.A), so a JSON object is left as
// its raw source text — callers path further into it with another json_get.
func gjsonToValue(res gjson.Result) value.Value {
	switch res.Type {
	case gjson.True, gjson.False:
		return value.Bln(res.Bool())
	case gjson.Number:
		if looksLikeInteger(res.Raw) {
			return value.Int(res.Int())
		}
		return value.Flt(res.Float())
	case gjson.String:
		return value.Str(res.String())
	case gjson.Null:
		return value.NewUnit()
	case gjson.JSON:
		if res.IsArray() {
			elems := make([]value.Value, 0, len(res.Array()))
			res.ForEach(func(_, v gjson.Result) bool {
				elems = append(elems, gjsonToValue(v))
				return true
			})
			return value.Arr(elems)
		}
		return value.Str(res.Raw)
	default:
		return value.Str(res.String())
	}
}

func looksLikeInteger(raw string) bool {
	return !strings.ContainsAny(raw, ".eE")
}
