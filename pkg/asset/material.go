package asset

import (
	"encoding/binary"
	"errors"
	"fmt"
	stdmath "math"
)

// Field widths of the material section.
const (
	MaterialNameSize = 48
	paramIndexSize   = 4 + 2 + 2
)

// ParamIndex locates one parameter inside a material's data blob.
type ParamIndex struct {
	ID     uint32
	Size   uint16
	Offset uint16
}

// Material is a named material model plus an open-ended parameter table.
// How a parameter's bytes are interpreted is decided by its id, not by the
// format; see ParamRegistry.
type Material struct {
	Name   string
	Type   uint32 // material model, opaque to the format
	Params []ParamIndex
	Data   []byte
}

// ErrParamTooLarge is returned by the Set* helpers when a parameter does not
// fit the 16-bit offset and size fields.
var ErrParamTooLarge = errors.New("material parameter exceeds 16-bit range")

// Param returns the bytes of parameter id. When several entries share an
// id the one appearing last in Params wins. The returned slice aliases
// m.Data.
func (m *Material) Param(id uint32) ([]byte, bool) {
	for i := len(m.Params) - 1; i >= 0; i-- {
		p := m.Params[i]
		if p.ID != id {
			continue
		}
		end := int(p.Offset) + int(p.Size)
		if end > len(m.Data) {
			return nil, false
		}
		return m.Data[p.Offset:end], true
	}
	return nil, false
}

// Has reports whether parameter id is present with a non-empty value.
func (m *Material) Has(id uint32) bool {
	b, ok := m.Param(id)
	return ok && len(b) > 0
}

// Float returns parameter id decoded as a float32.
func (m *Material) Float(id uint32) (float32, bool) {
	b, ok := m.Param(id)
	if !ok || len(b) < 4 {
		return 0, false
	}
	return stdmath.Float32frombits(binary.LittleEndian.Uint32(b)), true
}

// Float4 returns parameter id decoded as four float32 values.
func (m *Material) Float4(id uint32) ([4]float32, bool) {
	var v [4]float32
	b, ok := m.Param(id)
	if !ok || len(b) < 16 {
		return v, false
	}
	for i := range v {
		v[i] = stdmath.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v, true
}

// Text returns parameter id decoded as a NUL-terminated string.
func (m *Material) Text(id uint32) (string, bool) {
	b, ok := m.Param(id)
	if !ok {
		return "", false
	}
	for i, c := range b {
		if c == 0 {
			return string(b[:i]), true
		}
	}
	return string(b), true
}

// SetParam appends value to the data blob and adds an index entry for id.
// Earlier entries with the same id stay in the table but are shadowed.
func (m *Material) SetParam(id uint32, value []byte) error {
	if len(m.Data) > stdmath.MaxUint16 || len(value) > stdmath.MaxUint16 {
		return fmt.Errorf("%w: id %d at offset %d, %d bytes", ErrParamTooLarge, id, len(m.Data), len(value))
	}
	m.Params = append(m.Params, ParamIndex{ID: id, Size: uint16(len(value)), Offset: uint16(len(m.Data))})
	m.Data = append(m.Data, value...)
	return nil
}

// SetFloat stores a float32 parameter.
func (m *Material) SetFloat(id uint32, v float32) error {
	return m.SetParam(id, binary.LittleEndian.AppendUint32(nil, stdmath.Float32bits(v)))
}

// SetFloat4 stores a four-component float parameter.
func (m *Material) SetFloat4(id uint32, v [4]float32) error {
	b := make([]byte, 0, 16)
	for _, f := range v {
		b = binary.LittleEndian.AppendUint32(b, stdmath.Float32bits(f))
	}
	return m.SetParam(id, b)
}

// SetText stores a NUL-terminated string parameter.
func (m *Material) SetText(id uint32, s string) error {
	return m.SetParam(id, append([]byte(s), 0))
}

func paramError(p ParamIndex, entry int, dataSize uint64) *ParamError {
	start := uint64(p.Offset)
	return &ParamError{ID: p.ID, Entry: entry, Start: start, End: start + uint64(p.Size), DataSize: dataSize}
}

// Validate checks that every index entry lies inside the data blob.
func (m *Material) Validate() error {
	for i, p := range m.Params {
		if int(p.Offset)+int(p.Size) > len(m.Data) {
			return &DecodeError{
				Section: SectionMaterial,
				Index:   -1,
				Err:     paramError(p, i, uint64(len(m.Data))),
			}
		}
	}
	return nil
}

// ReadMaterial decodes one material and checks its index against the
// declared data size.
func ReadMaterial(r *Reader) (Material, error) {
	var m Material
	var err error
	if m.Name, err = r.Name(MaterialNameSize); err != nil {
		return m, err
	}
	if m.Type, err = r.U32(); err != nil {
		return m, err
	}
	count, err := r.U32()
	if err != nil {
		return m, err
	}
	dataSize, err := r.U64()
	if err != nil {
		return m, err
	}

	indexAt := r.Offset()
	if _, err := r.span(uint64(count), paramIndexSize); err != nil {
		return m, err
	}
	if count > 0 {
		m.Params = make([]ParamIndex, count)
	}
	for i := range m.Params {
		p := &m.Params[i]
		p.ID, _ = r.U32()
		p.Size, _ = r.U16()
		p.Offset, _ = r.U16()
		if uint64(p.Offset)+uint64(p.Size) > dataSize {
			return m, &DecodeError{
				Section: SectionMaterial,
				Index:   -1,
				Offset:  indexAt + i*paramIndexSize,
				Err:     paramError(*p, i, dataSize),
			}
		}
	}

	if m.Data, err = r.Bytes(dataSize, 1); err != nil {
		return m, err
	}
	return m, nil
}

// WriteMaterial encodes m without validating it.
func WriteMaterial(w *Writer, m *Material) {
	w.Name(m.Name, MaterialNameSize)
	w.U32(m.Type)
	w.U32(uint32(len(m.Params)))
	w.U64(uint64(len(m.Data)))
	for _, p := range m.Params {
		w.U32(p.ID)
		w.U16(p.Size)
		w.U16(p.Offset)
	}
	w.WriteBytes(m.Data)
}
