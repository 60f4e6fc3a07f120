package asset

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeMaterial(name string, typ uint32, params []ParamIndex, data []byte, dataSize uint64) []byte {
	buf := new(bytes.Buffer)
	field := make([]byte, MaterialNameSize)
	copy(field, name)
	buf.Write(field)
	binary.Write(buf, binary.LittleEndian, typ)
	binary.Write(buf, binary.LittleEndian, uint32(len(params)))
	binary.Write(buf, binary.LittleEndian, dataSize)
	for _, p := range params {
		binary.Write(buf, binary.LittleEndian, p.ID)
		binary.Write(buf, binary.LittleEndian, p.Size)
		binary.Write(buf, binary.LittleEndian, p.Offset)
	}
	buf.Write(data)
	return buf.Bytes()
}

func TestReadMaterial_DuplicateIDLastWins(t *testing.T) {
	data := make([]byte, 20)
	copy(data[0:], []byte{1, 1, 1, 1})
	copy(data[16:], []byte{2, 2, 2, 2})
	params := []ParamIndex{
		{ID: 7, Size: 4, Offset: 0},
		{ID: 7, Size: 4, Offset: 16},
	}

	m, err := ReadMaterial(NewReader(makeMaterial("metal", 3, params, data, uint64(len(data)))))
	require.NoError(t, err)
	assert.Equal(t, "metal", m.Name)
	assert.Equal(t, uint32(3), m.Type)

	got, ok := m.Param(7)
	require.True(t, ok)
	assert.Equal(t, []byte{2, 2, 2, 2}, got)

	got, ok = m.Param(999)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestReadMaterial_EntryPastData(t *testing.T) {
	params := []ParamIndex{
		{ID: 1, Size: 4, Offset: 0},
		{ID: 42, Size: 8, Offset: 10},
	}
	data := makeMaterial("broken", 0, params, make([]byte, 16), 16)

	_, err := ReadMaterial(NewReader(data))
	require.ErrorIs(t, err, ErrInvalidMaterialParam)

	var de *DecodeError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, minMaterialSize+paramIndexSize, de.Offset)

	var pe *ParamError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, &ParamError{ID: 42, Entry: 1, Start: 10, End: 18, DataSize: 16}, pe)
	assert.Contains(t, err.Error(), "id 42")
}

func TestReadMaterial_EntryEndingAtDataSize(t *testing.T) {
	params := []ParamIndex{{ID: 1, Size: 16, Offset: 0}, {ID: 2, Size: 0, Offset: 16}}
	m, err := ReadMaterial(NewReader(makeMaterial("edge", 0, params, make([]byte, 16), 16)))
	require.NoError(t, err)

	v, ok := m.Param(2)
	assert.True(t, ok)
	assert.Empty(t, v)
	assert.False(t, m.Has(2), "empty values do not count as present")
}

func TestReadMaterial_HugeDataSize(t *testing.T) {
	_, err := ReadMaterial(NewReader(makeMaterial("huge", 0, nil, nil, 1<<63)))
	require.ErrorIs(t, err, ErrLengthOverflow)

	_, err = ReadMaterial(NewReader(makeMaterial("big", 0, nil, nil, 1<<40)))
	require.ErrorIs(t, err, ErrTruncated)
}

func TestReadMaterial_Truncated(t *testing.T) {
	params := []ParamIndex{{ID: 1, Size: 4, Offset: 0}}
	data := makeMaterial("m", 0, params, []byte{1, 2, 3, 4}, 4)
	for n := 0; n < len(data); n++ {
		_, err := ReadMaterial(NewReader(data[:n]))
		require.ErrorIs(t, err, ErrTruncated, "prefix of %d bytes", n)
	}
}

func TestMaterial_TypedParams(t *testing.T) {
	m := &Material{Name: "skin"}
	require.NoError(t, m.SetFloat4(ParamDiffuseColor, [4]float32{1, 0.5, 0.25, 1}))
	require.NoError(t, m.SetFloat(ParamShininess, 32))
	require.NoError(t, m.SetText(ParamDiffuseTexture, "tex/skin.png"))
	require.NoError(t, m.Validate())

	c, ok := m.Float4(ParamDiffuseColor)
	require.True(t, ok)
	assert.Equal(t, [4]float32{1, 0.5, 0.25, 1}, c)

	s, ok := m.Float(ParamShininess)
	require.True(t, ok)
	assert.Equal(t, float32(32), s)

	path, ok := m.Text(ParamDiffuseTexture)
	require.True(t, ok)
	assert.Equal(t, "tex/skin.png", path)

	assert.True(t, m.HasDiffuseTexture())
	assert.False(t, m.HasNormalTexture())
	assert.False(t, m.HasSpecularTexture())

	_, ok = m.Float4(ParamShininess)
	assert.False(t, ok, "a 4-byte value is too short for float4")
}

func TestMaterial_SetParamShadows(t *testing.T) {
	m := &Material{}
	require.NoError(t, m.SetFloat(ParamOpacity, 0.25))
	require.NoError(t, m.SetFloat(ParamOpacity, 0.75))

	v, ok := m.Float(ParamOpacity)
	require.True(t, ok)
	assert.Equal(t, float32(0.75), v)
	assert.Len(t, m.Params, 2)
}

func TestMaterial_SetParamTooLarge(t *testing.T) {
	m := &Material{}
	err := m.SetParam(1, make([]byte, 70000))
	assert.ErrorIs(t, err, ErrParamTooLarge)

	m.Data = make([]byte, 70000)
	err = m.SetParam(1, []byte{1})
	assert.ErrorIs(t, err, ErrParamTooLarge)
}

func TestMaterial_Legacy(t *testing.T) {
	m := &Material{Name: "stone"}
	require.NoError(t, m.SetFloat4(ParamAmbientColor, [4]float32{0.1, 0.1, 0.1, 1}))
	require.NoError(t, m.SetText(ParamNormalTexture, "tex/stone_n.png"))

	l := m.Legacy()
	assert.Equal(t, "stone", l.Name)
	assert.Equal(t, [4]float32{0.1, 0.1, 0.1, 1}, l.AmbientColor)
	assert.Equal(t, "tex/stone_n.png", l.NormalTexture)
	assert.Equal(t, float32(1), l.Opacity)
	assert.Empty(t, l.DiffuseTexture)
	assert.Zero(t, l.Shininess)
}

func TestMaterial_ValidateInMemory(t *testing.T) {
	m := &Material{Params: []ParamIndex{{ID: 9, Size: 4, Offset: 2}}, Data: make([]byte, 4)}
	err := m.Validate()
	assert.ErrorIs(t, err, ErrInvalidMaterialParam)

	var pe *ParamError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, uint32(9), pe.ID)
	assert.Equal(t, 0, pe.Entry)
}

func TestParamRegistry_Describe(t *testing.T) {
	m := &Material{}
	require.NoError(t, m.SetFloat(ParamShininess, 8))
	require.NoError(t, m.SetParam(999, []byte{0xca, 0xfe}))
	require.NoError(t, m.SetFloat(ParamShininess, 16))
	require.NoError(t, m.SetText(ParamDiffuseTexture, "a.png"))

	got := DefaultRegistry.Describe(m)
	require.Len(t, got, 3)

	assert.Equal(t, ParamValue{ID: 999, Type: "raw", Value: "cafe"}, got[0])
	assert.Equal(t, ParamValue{ID: ParamShininess, Name: "shininess", Type: "float", Value: "16"}, got[1])
	assert.Equal(t, ParamValue{ID: ParamDiffuseTexture, Name: "diffuse_texture", Type: "text", Value: "a.png"}, got[2])
}

func TestMaterial_RoundTrip(t *testing.T) {
	m := &Material{Name: "cloth", Type: 5}
	require.NoError(t, m.SetFloat4(ParamSpecularColor, [4]float32{1, 1, 1, 1}))
	require.NoError(t, m.SetParam(12345, []byte{9, 8, 7}))

	w := NewWriter(0)
	WriteMaterial(w, m)
	got, err := ReadMaterial(NewReader(w.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, *m, got)
}
