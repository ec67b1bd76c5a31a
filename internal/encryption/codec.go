package encryption

import (
	"encoding/binary"
	"fmt"
)

// BlockSize is the Blowfish block size in bytes.
const BlockSize = 8

const (
	minPasswordLen = 1
	maxPasswordLen = numKeyWords * 4
)

// ValidatePassword checks that password is between 1 and 56 bytes long.
func ValidatePassword(password []byte) error {
	if k := len(password); k < minPasswordLen || k > maxPasswordLen {
		return KeySizeError(k)
	}
	return nil
}

// PasswordToKeyWords packs password into key words four bytes at a time,
// most significant byte first, wrapping around to the start of the password
// whenever it runs out.
func PasswordToKeyWords(password []byte) (KeyWords, error) {
	var words KeyWords
	if err := ValidatePassword(password); err != nil {
		return words, err
	}

	j := 0
	for i := range words {
		var w uint32
		for n := 0; n < 4; n++ {
			w = w<<8 | uint32(password[j])
			j++
			if j >= len(password) {
				j = 0
			}
		}
		words[i] = w
	}
	return words, nil
}

// PadAndPack pads data out to a whole number of blocks and groups it into
// big-endian blocks. Between 1 and BlockSize padding bytes are always added,
// each holding the padding length, so block-aligned input gains a full block.
func PadAndPack(data []byte) []uint64 {
	padLen := BlockSize - len(data)%BlockSize
	blocks := make([]uint64, (len(data)+padLen)/BlockSize)

	full := len(data) / BlockSize
	for i := 0; i < full; i++ {
		blocks[i] = binary.BigEndian.Uint64(data[i*BlockSize:])
	}

	var last [BlockSize]byte
	n := copy(last[:], data[full*BlockSize:])
	for ; n < BlockSize; n++ {
		last[n] = byte(padLen)
	}
	blocks[full] = binary.BigEndian.Uint64(last[:])
	return blocks
}

// UnpackAndUnpad flattens blocks back into bytes and strips the padding added
// by PadAndPack. Nothing is returned alongside ErrMalformedPadding.
func UnpackAndUnpad(blocks []uint64) ([]byte, error) {
	data := bytesFromBlocks(blocks)
	if len(data) == 0 {
		return nil, ErrMalformedPadding
	}

	padLen := int(data[len(data)-1])
	if padLen == 0 || padLen > BlockSize || padLen > len(data) {
		return nil, ErrMalformedPadding
	}
	for _, b := range data[len(data)-padLen:] {
		if int(b) != padLen {
			return nil, ErrMalformedPadding
		}
	}
	return data[:len(data)-padLen], nil
}

// blocksFromBytes groups data, which must already be a positive multiple of
// BlockSize long, into big-endian blocks.
func blocksFromBytes(data []byte) ([]uint64, error) {
	if len(data) == 0 || len(data)%BlockSize != 0 {
		return nil, fmt.Errorf("%w: got %d bytes", ErrInvalidLength, len(data))
	}
	blocks := make([]uint64, len(data)/BlockSize)
	for i := range blocks {
		blocks[i] = binary.BigEndian.Uint64(data[i*BlockSize:])
	}
	return blocks, nil
}

func bytesFromBlocks(blocks []uint64) []byte {
	data := make([]byte, len(blocks)*BlockSize)
	for i, b := range blocks {
		binary.BigEndian.PutUint64(data[i*BlockSize:], b)
	}
	return data
}
