package asset

import "fmt"

// VertexType selects the vertex record layout of a mesh.
type VertexType uint32

const (
	VertexPosNormTex           VertexType = 0 // position, normal, texcoord
	VertexPosNormTexTanBin     VertexType = 1 // + tangent, binormal
	VertexPosNormTexSkin       VertexType = 2 // + bone weights, bone ids
	VertexPosNormTexTanBinSkin VertexType = 3 // + tangent, binormal, bone weights, bone ids
	VertexPosColorTex          VertexType = 4 // position, RGBA color, texcoord
	VertexPosColor             VertexType = 5 // position, RGB color
)

// String returns a human-readable layout name.
func (t VertexType) String() string {
	switch t {
	case VertexPosNormTex:
		return "PosNormTex"
	case VertexPosNormTexTanBin:
		return "PosNormTexTanBin"
	case VertexPosNormTexSkin:
		return "PosNormTexSkin"
	case VertexPosNormTexTanBinSkin:
		return "PosNormTexTanBinSkin"
	case VertexPosColorTex:
		return "PosColorTex"
	case VertexPosColor:
		return "PosColor"
	default:
		return fmt.Sprintf("Unknown(%d)", uint32(t))
	}
}

// FieldKind names a vertex attribute.
type FieldKind uint8

const (
	FieldPosition FieldKind = iota
	FieldNormal
	FieldTexCoord
	FieldTangent
	FieldBinormal
	FieldBoneWeights
	FieldBoneIDs
	FieldColor
)

var fieldNames = [...]string{
	FieldPosition:    "position",
	FieldNormal:      "normal",
	FieldTexCoord:    "texcoord",
	FieldTangent:     "tangent",
	FieldBinormal:    "binormal",
	FieldBoneWeights: "bone_weights",
	FieldBoneIDs:     "bone_ids",
	FieldColor:       "color",
}

func (k FieldKind) String() string {
	if int(k) < len(fieldNames) {
		return fieldNames[k]
	}
	return fmt.Sprintf("field(%d)", uint8(k))
}

// VertexField is one attribute of a vertex record.
// Floats is zero for packed byte fields (bone ids).
type VertexField struct {
	Kind   FieldKind
	Floats int
	Size   int
	Offset int
}

// VertexLayout describes the byte layout of one vertex record.
type VertexLayout struct {
	Type   VertexType
	Fields []VertexField
	Stride int
}

// Field returns the named field, or false if the layout lacks it.
func (l VertexLayout) Field(kind FieldKind) (VertexField, bool) {
	for _, f := range l.Fields {
		if f.Kind == kind {
			return f, true
		}
	}
	return VertexField{}, false
}

type fieldSpec struct {
	kind   FieldKind
	floats int // 0 means four packed bytes
}

var (
	position    = fieldSpec{FieldPosition, 3}
	normal      = fieldSpec{FieldNormal, 3}
	texCoord    = fieldSpec{FieldTexCoord, 2}
	tangent     = fieldSpec{FieldTangent, 3}
	binormal    = fieldSpec{FieldBinormal, 3}
	boneWeights = fieldSpec{FieldBoneWeights, 3}
	boneIDs     = fieldSpec{FieldBoneIDs, 0}
	colorRGBA   = fieldSpec{FieldColor, 4}
	colorRGB    = fieldSpec{FieldColor, 3}
)

func newLayout(t VertexType, specs ...fieldSpec) VertexLayout {
	l := VertexLayout{Type: t}
	for _, s := range specs {
		size := s.floats * 4
		if s.floats == 0 {
			size = 4
		}
		l.Fields = append(l.Fields, VertexField{Kind: s.kind, Floats: s.floats, Size: size, Offset: l.Stride})
		l.Stride += size
	}
	return l
}

var layouts = [...]VertexLayout{
	newLayout(VertexPosNormTex, position, normal, texCoord),
	newLayout(VertexPosNormTexTanBin, position, normal, texCoord, tangent, binormal),
	newLayout(VertexPosNormTexSkin, position, normal, texCoord, boneWeights, boneIDs),
	newLayout(VertexPosNormTexTanBinSkin, position, normal, texCoord, tangent, binormal, boneWeights, boneIDs),
	newLayout(VertexPosColorTex, position, colorRGBA, texCoord),
	newLayout(VertexPosColor, position, colorRGB),
}

// LayoutFor returns the vertex layout registered for tag.
func LayoutFor(tag uint32) (VertexLayout, error) {
	if uint64(tag) >= uint64(len(layouts)) {
		return VertexLayout{}, fmt.Errorf("%w: %d", ErrUnknownVertexType, tag)
	}
	return layouts[tag], nil
}
