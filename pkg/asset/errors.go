package asset

import (
	"errors"
	"fmt"
)

// Decode errors. Every error returned by Decode wraps exactly one of these,
// so callers can match with errors.Is. ErrNameTooLong, ErrInvalidName and
// ErrVertexStride only come from Validate on in-memory assets.
var (
	ErrTruncated                 = errors.New("truncated asset data")
	ErrLengthOverflow            = errors.New("declared length overflows")
	ErrUnknownVertexType         = errors.New("unknown vertex type")
	ErrInvalidSkeleton           = errors.New("invalid skeleton")
	ErrInvalidAnimation          = errors.New("invalid animation")
	ErrInvalidMaterialParam      = errors.New("invalid material parameter")
	ErrIndexOutOfRange           = errors.New("mesh index out of range")
	ErrSkeletonAnimationMismatch = errors.New("animation does not match skeleton")
	ErrInvalidHeader             = errors.New("invalid section table")
	ErrTrailingData              = errors.New("trailing data after last section")
	ErrNameTooLong               = errors.New("name does not fit its field")
	ErrInvalidName               = errors.New("name contains a NUL byte")
	ErrVertexStride              = errors.New("vertex buffer is not a whole number of vertices")
)

// Section names reported in DecodeError.
const (
	SectionHeader    = "header"
	SectionSkeleton  = "skeleton"
	SectionMesh      = "mesh"
	SectionMaterial  = "material"
	SectionAnimation = "animation"
	SectionTrailer   = "trailer"
)

// DecodeError carries the location of a decode failure.
type DecodeError struct {
	Section string // section kind, one of the Section* constants
	Index   int    // element index within the section, -1 if not applicable
	Offset  int    // byte offset into the buffer where the failing read started
	Detail  string
	Err     error
}

func (e *DecodeError) Error() string {
	msg := e.Section
	if e.Index >= 0 {
		msg = fmt.Sprintf("%s %d", msg, e.Index)
	}
	msg = fmt.Sprintf("%s at offset %d: %v", msg, e.Offset, e.Err)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ParamError names the material parameter entry whose byte range falls
// outside the data blob. It wraps ErrInvalidMaterialParam.
type ParamError struct {
	ID       uint32 // parameter id of the entry
	Entry    int    // position of the entry in the index table
	Start    uint64
	End      uint64
	DataSize uint64
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("%v: id %d (entry %d) spans [%d, %d) past data size %d",
		ErrInvalidMaterialParam, e.ID, e.Entry, e.Start, e.End, e.DataSize)
}

func (e *ParamError) Unwrap() error {
	return ErrInvalidMaterialParam
}

// locate attaches section context to err. Errors raised below the element
// level pick up the section and element index of their caller; errors that
// already name an element keep it.
func locate(err error, section string, index int) error {
	var de *DecodeError
	if errors.As(err, &de) {
		if de.Section == "" {
			de.Section = section
		}
		if de.Section == section && de.Index < 0 {
			de.Index = index
		}
		return err
	}
	return &DecodeError{Section: section, Index: index, Err: err}
}
