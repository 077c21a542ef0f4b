package mir

import (
	"encoding/json"

	"gopkg.in/yaml.v3"

	"github.com/shiika-lang/shiikac/internal/classdict"
	"github.com/shiika-lang/shiikac/internal/names"
	"github.com/shiika-lang/shiikac/internal/ty"
)

// SkTypeExport is the serializable shape of one SkType's public surface:
// enough to rebuild a foreign class entry in a downstream compilation unit
// without its method bodies.
type SkTypeExport struct {
	Fullname   string            `json:"fullname" yaml:"fullname"`
	IsModule   bool              `json:"is_module" yaml:"is_module"`
	Superclass string            `json:"superclass,omitempty" yaml:"superclass,omitempty"`
	Methods    map[string]string `json:"methods" yaml:"methods"` // firstname -> signature string, for display/debugging only
}

// LibraryExports is SUPPLEMENTED FEATURES item 8's flat triple
// (`sk_types`, `vtables`, `constants`), grounded on
// _examples/original_source/lib/skc_mir/src/library.rs, with fixed
// json/yaml field order matching spec §6's "field order fixed as listed; no
// trailing fields".
type LibraryExports struct {
	SkTypes   []SkTypeExport    `json:"sk_types" yaml:"sk_types"`
	VTables   []*VTable         `json:"vtables" yaml:"vtables"`
	Constants map[string]string `json:"constants" yaml:"constants"` // ConstFullname -> TermTy.String()
}

// NewLibraryExports builds the export triple from a completed Mir and the
// constant table the HIR builder produced.
func NewLibraryExports(d *classdict.ClassDict, m *Mir, constants map[names.ConstFullname]ty.TermTy) *LibraryExports {
	skTypes := make([]SkTypeExport, 0, len(m.OwnClasses))
	for _, name := range m.OwnClasses {
		t, ok := d.FindType(names.NewClassFullname(name))
		if !ok {
			continue
		}
		exp := SkTypeExport{Fullname: name, Methods: map[string]string{}}
		if cls, isClass := t.(*classdict.SkClass); isClass {
			if cls.Superclass != nil {
				exp.Superclass = cls.Superclass.Fullname.String()
			}
		} else {
			exp.IsModule = true
		}
		for firstname, sig := range t.Base().MethodSigs {
			exp.Methods[string(firstname)] = sig.String()
		}
		skTypes = append(skTypes, exp)
	}

	vtables := make([]*VTable, 0, len(m.VTables))
	for _, name := range m.OwnClasses {
		if vt, ok := m.VTables[name]; ok {
			vtables = append(vtables, vt)
		}
	}

	constOut := make(map[string]string, len(constants))
	for k, v := range constants {
		constOut[k.String()] = v.String()
	}

	return &LibraryExports{SkTypes: skTypes, VTables: vtables, Constants: constOut}
}

// ToJSON serializes the export triple, field order fixed by struct tag
// order (spec §6).
func (le *LibraryExports) ToJSON(indent bool) ([]byte, error) {
	if indent {
		return json.MarshalIndent(le, "", "  ")
	}
	return json.Marshal(le)
}

// ToYAML serializes the export triple via gopkg.in/yaml.v3, used by the
// driver's `dump_exports: yaml` config setting alongside the canonical JSON form.
func (le *LibraryExports) ToYAML() ([]byte, error) {
	return yaml.Marshal(le)
}
