package scale

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCompactSingleByteMode(t *testing.T) {
	d := NewDecoder([]byte{0x04}) // 1 << 2
	v, err := d.ReadCompactUint64()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), v)
}

func TestReadCompactTwoByteMode(t *testing.T) {
	// 0x01 mode, value 300 -> (300<<2)|1 = 1201 = 0x04B1 -> LE bytes b1 04
	d := NewDecoder([]byte{0xb1, 0x04})
	v, err := d.ReadCompactUint64()
	require.NoError(t, err)
	assert.Equal(t, uint64(300), v)
}

func TestReadCompactFourByteMode(t *testing.T) {
	// value 70000: (70000<<2)|2 = 0x445c2, LE bytes c2 45 04 00
	d := NewDecoder([]byte{0xc2, 0x45, 0x04, 0x00})
	v, err := d.ReadCompactUint64()
	require.NoError(t, err)
	assert.Equal(t, uint64(70000), v)
}

func TestReadCompactBigIntMode(t *testing.T) {
	// byteLen-4 = 0 => first byte 0x03 (mode 3, top bits 0), then 4 LE bytes for value 1_000_000_000
	d := NewDecoder([]byte{0x03, 0x00, 0xca, 0x9a, 0x3b})
	v, err := d.ReadCompactUint64()
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000_000_000), v)
}

func TestReadBoolAndOption(t *testing.T) {
	d := NewDecoder([]byte{0x01, 0x00, 0x01})
	b, err := d.ReadBool()
	require.NoError(t, err)
	assert.True(t, b)

	present, err := d.ReadOptionPresence()
	require.NoError(t, err)
	assert.False(t, present)

	present, err = d.ReadOptionPresence()
	require.NoError(t, err)
	assert.True(t, present)
}

func TestReadUintLittleEndian(t *testing.T) {
	d := NewDecoder([]byte{0x01, 0x00, 0x00, 0x80})
	v, err := d.ReadUint(4)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x80000001), v)
}

func TestReadBitSequence(t *testing.T) {
	// 10 bits: compact(10) = 0x28 (10<<2), then 2 bytes packed LSB0
	d := NewDecoder([]byte{0x28, 0b00000101, 0b00000010})
	bits, err := d.ReadBitSequence()
	require.NoError(t, err)
	require.Len(t, bits, 10)
	assert.True(t, bits[0])
	assert.False(t, bits[1])
	assert.True(t, bits[2])
}

func TestTakeInsufficientBytes(t *testing.T) {
	d := NewDecoder([]byte{0x01})
	_, err := d.ReadUint(4)
	assert.Error(t, err)
}
