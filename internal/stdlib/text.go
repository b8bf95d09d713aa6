// Package stdlib registers the engine's built-in library functions: the
// native functions every script gets for free, without a host calling
// RegisterFunction (SPEC_FULL.md "DOMAIN STACK"). Unlike internal/eval's
// Bootstrap, which installs the primitive operators the grammar itself
// depends on, these are ordinary registry entries a script calls by name.
package stdlib

import (
	"fmt"

	"golang.org/x/text/collate"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/language"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/rillscript/rill/internal/errs"
	"github.com/rillscript/rill/internal/registry"
	"github.com/rillscript/rill/internal/value"
)

var normForms = map[string]norm.Form{
	"NFC":  norm.NFC,
	"NFD":  norm.NFD,
	"NFKC": norm.NFKC,
	"NFKD": norm.NFKD,
}

// registerText installs str_normalize, str_to_utf16, str_from_utf16 and
// str_collate, backed by golang.org/x/text.
func registerText(reg *registry.Registry) {
	reg.Override("str_normalize", []value.TypeID{value.String, value.String},
		func(args []value.Value) (value.Value, error) {
			s := args[0].Raw().(string)
			form, ok := normForms[args[1].Raw().(string)]
			if !ok {
				return value.Value{}, &errs.ArithmeticError{Reason: fmt.Sprintf("unknown normalization form %q", args[1].Raw())}
			}
			return value.Str(form.String(s)), nil
		})

	reg.Override("str_to_utf16", []value.TypeID{value.String},
		func(args []value.Value) (value.Value, error) {
			s := args[0].Raw().(string)
			enc := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
			encoded, _, err := transform.String(enc.NewEncoder(), s)
			if err != nil {
				return value.Value{}, err
			}
			units := make([]value.Value, 0, len(encoded)/2)
			for i := 0; i+1 < len(encoded); i += 2 {
				units = append(units, value.Int(int64(uint16(encoded[i])|uint16(encoded[i+1])<<8)))
			}
			return value.Arr(units), nil
		})

	reg.Override("str_from_utf16", []value.TypeID{value.Array},
		func(args []value.Value) (value.Value, error) {
			units, err := value.Unwrap[[]value.Value](args[0])
			if err != nil {
				return value.Value{}, err
			}
			buf := make([]byte, 0, len(units)*2)
			for _, u := range units {
				n, err := value.Unwrap[int64](u)
				if err != nil {
					return value.Value{}, err
				}
				buf = append(buf, byte(n), byte(n>>8))
			}
			enc := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
			decoded, _, err := transform.Bytes(enc.NewDecoder(), buf)
			if err != nil {
				return value.Value{}, err
			}
			return value.Str(string(decoded)), nil
		})

	reg.Override("str_collate", []value.TypeID{value.String, value.String, value.String},
		func(args []value.Value) (value.Value, error) {
			a, b := args[0].Raw().(string), args[1].Raw().(string)
			tag, err := language.Parse(args[2].Raw().(string))
			if err != nil {
				return value.Value{}, &errs.ArithmeticError{Reason: "invalid locale: " + err.Error()}
			}
			col := collate.New(tag)
			return value.Int(int64(col.CompareString(a, b))), nil
		})
}
