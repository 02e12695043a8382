package junction

import (
	"encoding/binary"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_MountPointLayout(t *testing.T) {
	b, err := encodeMountPoint(`\??\C:\data\shared`, `C:\data\shared`)
	require.NoError(t, err)

	subBytes := len(`\??\C:\data\shared`) * 2
	prnBytes := len(`C:\data\shared`) * 2

	assert.EqualValues(t, TagMountPoint, binary.LittleEndian.Uint32(b[0:4]))
	assert.EqualValues(t, mountPointHeaderSize+subBytes+2+prnBytes+2, binary.LittleEndian.Uint16(b[4:6]))
	assert.EqualValues(t, 0, binary.LittleEndian.Uint16(b[6:8]), "reserved field")
	assert.EqualValues(t, 0, binary.LittleEndian.Uint16(b[8:10]), "substitute name offset")
	assert.EqualValues(t, subBytes, binary.LittleEndian.Uint16(b[10:12]))
	assert.EqualValues(t, subBytes+2, binary.LittleEndian.Uint16(b[12:14]), "print name offset")
	assert.EqualValues(t, prnBytes, binary.LittleEndian.Uint16(b[14:16]))
	assert.Len(t, b, pathBufferOffset+subBytes+2+prnBytes+2)

	// Both names are NUL-terminated in place.
	assert.Equal(t, []byte{0, 0}, b[pathBufferOffset+subBytes:pathBufferOffset+subBytes+2])
	assert.Equal(t, []byte{0, 0}, b[len(b)-2:])
}

func Test_RoundTrip(t *testing.T) {
	paths := []string{
		`\??\C:\data\shared`,
		`\??\C:\`,
		`\??\UNC\fileserver\builds\v2`,
		`\??\C:\данные\目録\🗂`,
	}

	for _, p := range paths {
		b, err := encodeMountPoint(p, ntStrip(p))
		require.NoError(t, err)

		info, err := decodeReparse(b)
		require.NoError(t, err)
		assert.EqualValues(t, TagMountPoint, info.Tag)
		assert.Equal(t, p, info.SubstituteName)
		assert.Equal(t, ntStrip(p), info.PrintName)
	}
}

func Test_EncodeRejectsOverlongName(t *testing.T) {
	// 40000 UTF-16 code units can't fit a 16-bit byte length.
	long := `\??\C:\` + strings.Repeat("a", 40000)
	_, err := encodeMountPoint(long, "")
	assert.ErrorIs(t, err, ErrPathTooLong)
}

func Test_EncodeRejectsOverlongBuffer(t *testing.T) {
	// Each name fits its length field, but together they blow the
	// 16 KiB whole-buffer ceiling.
	long := `\??\C:\` + strings.Repeat("a", 9000)
	_, err := encodeMountPoint(long, "")
	assert.ErrorIs(t, err, ErrBufferOverflow)
}

func Test_RemovalBuffer(t *testing.T) {
	b := encodeRemoval(TagMountPoint)
	require.Len(t, b, reparseHeaderSize)
	assert.EqualValues(t, TagMountPoint, binary.LittleEndian.Uint32(b[0:4]))
	assert.EqualValues(t, 0, binary.LittleEndian.Uint16(b[4:6]), "data length must be zero")
}

func Test_DecodeForeignTag(t *testing.T) {
	// A symlink reparse point: recognized as "some other reparse
	// point", never resolved to a junction target.
	const tagSymlink = 0xA000000C

	b := make([]byte, 64)
	binary.LittleEndian.PutUint32(b[0:4], tagSymlink)
	binary.LittleEndian.PutUint16(b[4:6], 56)

	info, err := decodeReparse(b)
	require.NoError(t, err)
	assert.EqualValues(t, tagSymlink, info.Tag)
	assert.Empty(t, info.SubstituteName)
	assert.Empty(t, info.PrintName)
}

func Test_DecodeMalformed(t *testing.T) {
	valid, err := encodeMountPoint(`\??\C:\data`, `C:\data`)
	require.NoError(t, err)

	patch := func(mutate func(b []byte)) []byte {
		b := append([]byte(nil), valid...)
		mutate(b)
		return b
	}

	cases := []struct {
		name string
		b    []byte
	}{
		{"truncated header", valid[:6]},
		{"data length overruns buffer", patch(func(b []byte) {
			binary.LittleEndian.PutUint16(b[4:6], uint16(len(valid)))
		})},
		{"data length below mount point header", patch(func(b []byte) {
			binary.LittleEndian.PutUint16(b[4:6], 4)
		})},
		{"substitute name past path buffer", patch(func(b []byte) {
			binary.LittleEndian.PutUint16(b[10:12], 0x4000)
		})},
		{"print name past path buffer", patch(func(b []byte) {
			binary.LittleEndian.PutUint16(b[12:14], 0x4000)
		})},
		{"odd substitute name length", patch(func(b []byte) {
			binary.LittleEndian.PutUint16(b[10:12], 7)
		})},
		{"missing NUL terminator", patch(func(b []byte) {
			subLen := binary.LittleEndian.Uint16(b[10:12])
			b[pathBufferOffset+int(subLen)] = 0xff
		})},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := decodeReparse(c.b)
			assert.ErrorIs(t, err, ErrMalformedBuffer)
		})
	}
}
