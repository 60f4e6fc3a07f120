package asset

import (
	"encoding/hex"
	"fmt"
)

// Well-known material parameter ids. Ids not listed here are carried
// through decode and encode untouched.
const (
	ParamDiffuseColor  uint32 = 1
	ParamAmbientColor  uint32 = 2
	ParamSpecularColor uint32 = 3
	ParamEmissiveColor uint32 = 4
	ParamShininess     uint32 = 5
	ParamOpacity       uint32 = 6

	ParamDiffuseTexture  uint32 = 16
	ParamNormalTexture   uint32 = 17
	ParamSpecularTexture uint32 = 18
	ParamEmissiveTexture uint32 = 19
)

// ParamType is how a parameter's bytes are interpreted.
type ParamType uint8

const (
	ParamRaw ParamType = iota
	ParamFloat
	ParamFloat4
	ParamText
)

func (t ParamType) String() string {
	switch t {
	case ParamFloat:
		return "float"
	case ParamFloat4:
		return "float4"
	case ParamText:
		return "text"
	default:
		return "raw"
	}
}

// ParamDef describes one registered parameter id.
type ParamDef struct {
	Name string
	Type ParamType
}

// ParamRegistry maps parameter ids to their meaning. It lives outside the
// binary format so new ids can be added without a format change.
type ParamRegistry map[uint32]ParamDef

// DefaultRegistry describes the well-known parameter ids.
var DefaultRegistry = ParamRegistry{
	ParamDiffuseColor:    {"diffuse_color", ParamFloat4},
	ParamAmbientColor:    {"ambient_color", ParamFloat4},
	ParamSpecularColor:   {"specular_color", ParamFloat4},
	ParamEmissiveColor:   {"emissive_color", ParamFloat4},
	ParamShininess:       {"shininess", ParamFloat},
	ParamOpacity:         {"opacity", ParamFloat},
	ParamDiffuseTexture:  {"diffuse_texture", ParamText},
	ParamNormalTexture:   {"normal_texture", ParamText},
	ParamSpecularTexture: {"specular_texture", ParamText},
	ParamEmissiveTexture: {"emissive_texture", ParamText},
}

// ParamValue is a parameter rendered for display.
type ParamValue struct {
	ID    uint32 `yaml:"id"`
	Name  string `yaml:"name,omitempty"`
	Type  string `yaml:"type"`
	Value string `yaml:"value"`
}

// Describe renders every effective parameter of m, in table order, skipping
// entries shadowed by a later entry with the same id. Unregistered ids are
// shown as hex.
func (reg ParamRegistry) Describe(m *Material) []ParamValue {
	last := make(map[uint32]int, len(m.Params))
	for i, p := range m.Params {
		last[p.ID] = i
	}

	var out []ParamValue
	for i, p := range m.Params {
		if last[p.ID] != i {
			continue
		}
		def, known := reg[p.ID]
		v := ParamValue{ID: p.ID, Name: def.Name, Type: def.Type.String()}
		raw, _ := m.Param(p.ID)
		switch def.Type {
		case ParamFloat:
			f, ok := m.Float(p.ID)
			v.Value = formatOr(ok, fmt.Sprintf("%g", f), raw)
		case ParamFloat4:
			f, ok := m.Float4(p.ID)
			v.Value = formatOr(ok, fmt.Sprintf("%g", f), raw)
		case ParamText:
			v.Value, _ = m.Text(p.ID)
		default:
			v.Value = hex.EncodeToString(raw)
		}
		if !known {
			v.Type = ParamRaw.String()
		}
		out = append(out, v)
	}
	return out
}

func formatOr(ok bool, s string, raw []byte) string {
	if ok {
		return s
	}
	return hex.EncodeToString(raw)
}

// LegacyMaterial is the fixed-field view of a material used by renderers
// that predate the parameter table. Absent parameters keep their zero value.
type LegacyMaterial struct {
	Name            string
	DiffuseColor    [4]float32
	AmbientColor    [4]float32
	SpecularColor   [4]float32
	EmissiveColor   [4]float32
	Shininess       float32
	Opacity         float32
	DiffuseTexture  string
	NormalTexture   string
	SpecularTexture string
}

// Legacy returns the fixed-field view of m. Opacity defaults to 1.
func (m *Material) Legacy() LegacyMaterial {
	l := LegacyMaterial{Name: m.Name, Opacity: 1}
	l.DiffuseColor, _ = m.Float4(ParamDiffuseColor)
	l.AmbientColor, _ = m.Float4(ParamAmbientColor)
	l.SpecularColor, _ = m.Float4(ParamSpecularColor)
	l.EmissiveColor, _ = m.Float4(ParamEmissiveColor)
	l.Shininess, _ = m.Float(ParamShininess)
	if v, ok := m.Float(ParamOpacity); ok {
		l.Opacity = v
	}
	l.DiffuseTexture, _ = m.Text(ParamDiffuseTexture)
	l.NormalTexture, _ = m.Text(ParamNormalTexture)
	l.SpecularTexture, _ = m.Text(ParamSpecularTexture)
	return l
}

// HasDiffuseTexture reports whether a diffuse texture path is set.
func (m *Material) HasDiffuseTexture() bool {
	return m.Has(ParamDiffuseTexture)
}

// HasNormalTexture reports whether a normal map path is set.
func (m *Material) HasNormalTexture() bool {
	return m.Has(ParamNormalTexture)
}

// HasSpecularTexture reports whether a specular map path is set.
func (m *Material) HasSpecularTexture() bool {
	return m.Has(ParamSpecularTexture)
}
