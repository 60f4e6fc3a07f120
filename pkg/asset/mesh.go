package asset

import (
	"encoding/binary"
	"fmt"
	stdmath "math"
)

// Mesh is an indexed triangle list whose vertex records follow the layout
// selected by Type.
type Mesh struct {
	Type     VertexType
	Vertices []byte // VertexCount() records of Layout().Stride bytes
	Indices  []uint32
}

// Layout returns the mesh's vertex layout.
func (m *Mesh) Layout() (VertexLayout, error) {
	return LayoutFor(uint32(m.Type))
}

// VertexCount returns the number of vertex records, or 0 for an unknown
// vertex type.
func (m *Mesh) VertexCount() int {
	l, err := m.Layout()
	if err != nil {
		return 0
	}
	return len(m.Vertices) / l.Stride
}

// Vertex returns the raw bytes of vertex i.
func (m *Mesh) Vertex(i int) []byte {
	l, err := m.Layout()
	if err != nil || i < 0 || i >= m.VertexCount() {
		return nil
	}
	return m.Vertices[i*l.Stride : (i+1)*l.Stride]
}

// Attribute decodes the float components of one field of vertex i. Packed
// bone ids are widened to one float per byte.
func (m *Mesh) Attribute(i int, kind FieldKind) ([]float32, bool) {
	l, err := m.Layout()
	if err != nil {
		return nil, false
	}
	f, ok := l.Field(kind)
	v := m.Vertex(i)
	if !ok || v == nil {
		return nil, false
	}
	raw := v[f.Offset : f.Offset+f.Size]
	if f.Floats == 0 {
		out := make([]float32, len(raw))
		for j, b := range raw {
			out[j] = float32(b)
		}
		return out, true
	}
	out := make([]float32, f.Floats)
	for j := range out {
		out[j] = stdmath.Float32frombits(binary.LittleEndian.Uint32(raw[j*4:]))
	}
	return out, true
}

// TriangleCount returns the number of triangles in the index list.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Validate checks the vertex buffer against the layout stride and every
// index against the vertex count.
func (m *Mesh) Validate() error {
	l, err := m.Layout()
	if err != nil {
		return &DecodeError{Section: SectionMesh, Index: -1, Err: err}
	}
	if len(m.Vertices)%l.Stride != 0 {
		return &DecodeError{Section: SectionMesh, Index: -1, Err: ErrVertexStride,
			Detail: fmt.Sprintf("vertex buffer of %d bytes is not a multiple of stride %d", len(m.Vertices), l.Stride)}
	}
	return checkIndices(m.Indices, uint32(len(m.Vertices)/l.Stride), 0)
}

func checkIndices(indices []uint32, vertexCount uint32, at int) error {
	for i, idx := range indices {
		if idx >= vertexCount {
			return &DecodeError{
				Section: SectionMesh,
				Index:   -1,
				Offset:  at + i*4,
				Err:     ErrIndexOutOfRange,
				Detail:  fmt.Sprintf("index %d is %d, vertex count is %d", i, idx, vertexCount),
			}
		}
	}
	return nil
}

// ReadMesh decodes one mesh and checks every index against its vertex count.
func ReadMesh(r *Reader) (Mesh, error) {
	var m Mesh
	tagAt := r.Offset()
	tag, err := r.U32()
	if err != nil {
		return m, err
	}
	layout, err := LayoutFor(tag)
	if err != nil {
		return m, &DecodeError{Index: -1, Offset: tagAt, Err: ErrUnknownVertexType,
			Detail: fmt.Sprintf("type tag %d", tag)}
	}
	m.Type = layout.Type

	vertexCount, err := r.U32()
	if err != nil {
		return m, err
	}
	if m.Vertices, err = r.Bytes(uint64(vertexCount), uint64(layout.Stride)); err != nil {
		return m, err
	}

	indexCount, err := r.U32()
	if err != nil {
		return m, err
	}
	indicesAt := r.Offset()
	if m.Indices, err = r.Uint32s(uint64(indexCount)); err != nil {
		return m, err
	}
	if err := checkIndices(m.Indices, vertexCount, indicesAt); err != nil {
		return m, err
	}
	return m, nil
}

// WriteMesh encodes m without validating it.
func WriteMesh(w *Writer, m *Mesh) {
	stride := 1
	if l, err := m.Layout(); err == nil {
		stride = l.Stride
	}
	w.U32(uint32(m.Type))
	w.U32(uint32(len(m.Vertices) / stride))
	w.WriteBytes(m.Vertices)
	w.U32(uint32(len(m.Indices)))
	w.Uint32s(m.Indices)
}
