package junction

import (
	"encoding/binary"
	"unicode/utf16"

	"github.com/pkg/errors"
)

// TagMountPoint is the reparse tag of NTFS mount points, which is what
// junctions are under the hood. It is the only tag this package
// authors; any other tag found during a query marks a foreign reparse
// point.
const TagMountPoint uint32 = 0xA0000003

const (
	// maxReparseDataBufferSize mirrors the kernel's
	// MAXIMUM_REPARSE_DATA_BUFFER_SIZE. The filesystem rejects
	// anything larger, so we do too, before issuing any syscall.
	maxReparseDataBufferSize = 16 * 1024

	// reparseHeaderSize covers ReparseTag, ReparseDataLength and
	// Reserved.
	reparseHeaderSize = 8

	// mountPointHeaderSize covers the four uint16 offset/length
	// fields that locate the substitute and print names.
	mountPointHeaderSize = 8

	pathBufferOffset = reparseHeaderSize + mountPointHeaderSize
)

// reparseInfo is the decoded form of a reparse data buffer. For tags
// other than TagMountPoint, only Tag is populated.
type reparseInfo struct {
	Tag            uint32
	SubstituteName string
	PrintName      string
}

// encodeMountPoint lays out a REPARSE_DATA_BUFFER with a mount point
// payload. substitute must be the NT-namespace form of the target
// (see ntNormalize), printName its cosmetic display form. Both are
// NUL-terminated inside the path buffer; the declared lengths exclude
// the terminators, like the driver's own buffers do.
//
// All fields are little-endian, the native order of every Windows
// machine Go runs on.
func encodeMountPoint(substitute, printName string) ([]byte, error) {
	sub := utf16.Encode([]rune(substitute))
	prn := utf16.Encode([]rune(printName))

	// Lengths are stored in bytes in 16-bit fields.
	if len(sub)*2 > 0xffff || len(prn)*2 > 0xffff {
		return nil, errors.WithMessage(ErrPathTooLong, substitute)
	}

	pathBufferLen := (len(sub) + 1 + len(prn) + 1) * 2
	total := pathBufferOffset + pathBufferLen
	if total > maxReparseDataBufferSize {
		return nil, errors.WithMessagef(ErrBufferOverflow, "%d bytes", total)
	}

	b := make([]byte, total)
	binary.LittleEndian.PutUint32(b[0:4], TagMountPoint)
	binary.LittleEndian.PutUint16(b[4:6], uint16(mountPointHeaderSize+pathBufferLen))
	// b[6:8] is Reserved, left zero.
	binary.LittleEndian.PutUint16(b[8:10], 0)
	binary.LittleEndian.PutUint16(b[10:12], uint16(len(sub)*2))
	binary.LittleEndian.PutUint16(b[12:14], uint16((len(sub)+1)*2))
	binary.LittleEndian.PutUint16(b[14:16], uint16(len(prn)*2))

	off := pathBufferOffset
	for _, u := range sub {
		binary.LittleEndian.PutUint16(b[off:off+2], u)
		off += 2
	}
	off += 2 // NUL after the substitute name
	for _, u := range prn {
		binary.LittleEndian.PutUint16(b[off:off+2], u)
		off += 2
	}
	// NUL after the print name is the remaining zeroed tail.

	return b, nil
}

// encodeRemoval builds the buffer FSCTL_DELETE_REPARSE_POINT expects:
// just the tag with a zero data length.
func encodeRemoval(tag uint32) []byte {
	b := make([]byte, reparseHeaderSize)
	binary.LittleEndian.PutUint32(b[0:4], tag)
	return b
}

// decodeReparse picks apart a buffer returned by
// FSCTL_GET_REPARSE_POINT. The driver is not trusted: every declared
// offset and length is checked against the buffer's actual size
// before being dereferenced.
func decodeReparse(b []byte) (*reparseInfo, error) {
	if len(b) < reparseHeaderSize {
		return nil, errors.WithMessagef(ErrMalformedBuffer, "%d bytes is too short for a reparse header", len(b))
	}

	tag := binary.LittleEndian.Uint32(b[0:4])
	if tag != TagMountPoint {
		// Foreign reparse point. Report the tag, nothing else: we
		// don't know the payload's layout.
		return &reparseInfo{Tag: tag}, nil
	}

	dataLen := int(binary.LittleEndian.Uint16(b[4:6]))
	if dataLen < mountPointHeaderSize {
		return nil, errors.WithMessagef(ErrMalformedBuffer, "declared data length %d is too short for a mount point", dataLen)
	}
	if reparseHeaderSize+dataLen > len(b) {
		return nil, errors.WithMessagef(ErrMalformedBuffer, "declared data length %d overruns %d-byte buffer", dataLen, len(b))
	}

	subOff := int(binary.LittleEndian.Uint16(b[8:10]))
	subLen := int(binary.LittleEndian.Uint16(b[10:12]))
	prnOff := int(binary.LittleEndian.Uint16(b[12:14]))
	prnLen := int(binary.LittleEndian.Uint16(b[14:16]))

	pathBuffer := b[pathBufferOffset : reparseHeaderSize+dataLen]

	if subOff%2 != 0 || subLen%2 != 0 || prnOff%2 != 0 || prnLen%2 != 0 {
		return nil, errors.WithMessage(ErrMalformedBuffer, "odd name offset or length")
	}
	if subOff+subLen > len(pathBuffer) || prnOff+prnLen > len(pathBuffer) {
		return nil, errors.WithMessage(ErrMalformedBuffer, "name extends past path buffer")
	}
	// The substitute name must be NUL-terminated in place: we hand
	// these out as Go strings but the check guards against a buffer
	// that was truncated mid-name.
	if subOff+subLen+2 > len(pathBuffer) ||
		pathBuffer[subOff+subLen] != 0 || pathBuffer[subOff+subLen+1] != 0 {
		return nil, errors.WithMessage(ErrMalformedBuffer, "substitute name is not NUL-terminated")
	}

	return &reparseInfo{
		Tag:            tag,
		SubstituteName: decodeUTF16(pathBuffer[subOff : subOff+subLen]),
		PrintName:      decodeUTF16(pathBuffer[prnOff : prnOff+prnLen]),
	}, nil
}

func decodeUTF16(b []byte) string {
	u := make([]uint16, len(b)/2)
	for i := range u {
		u[i] = binary.LittleEndian.Uint16(b[2*i:])
	}
	return string(utf16.Decode(u))
}
