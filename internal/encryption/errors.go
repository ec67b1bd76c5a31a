package encryption

import (
	"errors"
	"strconv"
)

var (
	// ErrInvalidPasswordLength is returned for passwords shorter than 1 or longer than 56 bytes.
	ErrInvalidPasswordLength = errors.New("encryption: invalid password length")
	// ErrInvalidLength is returned when ciphertext is not a positive multiple of BlockSize.
	ErrInvalidLength = errors.New("encryption: ciphertext is not a positive multiple of the block size")
	// ErrMalformedPadding is returned when decrypted data does not end in valid
	// padding, which usually means the password was wrong or the input is not
	// ciphertext.
	ErrMalformedPadding = errors.New("encryption: malformed padding")
)

// KeySizeError reports the length of a rejected password.
type KeySizeError int

func (k KeySizeError) Error() string {
	return "encryption: invalid password length " + strconv.Itoa(int(k))
}

// Is allows errors.Is(err, ErrInvalidPasswordLength) to match a KeySizeError.
func (k KeySizeError) Is(target error) bool {
	return target == ErrInvalidPasswordLength
}
