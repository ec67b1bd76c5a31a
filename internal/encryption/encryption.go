// Package encryption implements the Blowfish block cipher along with the
// password packing and padding needed to encrypt arbitrary byte strings.
//
// Blocks are processed independently of one another (ECB), so there is no
// chaining or IV and identical plaintext blocks produce identical ciphertext
// blocks. Nothing in this package authenticates the ciphertext.
package encryption

import "sync"

// Smallest number of blocks handed to a single goroutine. Inputs too small to
// give every worker this many blocks are processed with fewer workers.
const minBlocksPerWorker = 512

// Crypter encrypts and decrypts byte strings under a password. The zero value
// processes blocks sequentially on the calling goroutine.
type Crypter struct {
	// Number of goroutines blocks are spread across. Values below 2 disable
	// parallel processing.
	Workers int
}

var defaultCrypter Crypter

// Encrypt pads plaintext and encrypts it with a key derived from password
// using the default sequential Crypter.
func Encrypt(password, plaintext []byte) ([]byte, error) {
	return defaultCrypter.Encrypt(password, plaintext)
}

// Decrypt reverses Encrypt using the default sequential Crypter.
func Decrypt(password, ciphertext []byte) ([]byte, error) {
	return defaultCrypter.Decrypt(password, ciphertext)
}

// Encrypt pads plaintext to a whole number of blocks and encrypts each block
// under the key derived from password. The result is always a positive
// multiple of BlockSize long.
func (c Crypter) Encrypt(password, plaintext []byte) ([]byte, error) {
	key, err := PasswordToKeyWords(password)
	if err != nil {
		return nil, err
	}
	st := DeriveState(key)
	defer st.wipe()

	blocks := PadAndPack(plaintext)
	c.process(blocks, st.EncryptBlock)
	return bytesFromBlocks(blocks), nil
}

// Decrypt decrypts ciphertext produced by Encrypt and strips its padding.
// A wrong password is reported as ErrMalformedPadding in almost every case.
func (c Crypter) Decrypt(password, ciphertext []byte) ([]byte, error) {
	key, err := PasswordToKeyWords(password)
	if err != nil {
		return nil, err
	}
	blocks, err := blocksFromBytes(ciphertext)
	if err != nil {
		return nil, err
	}
	st := DeriveState(key)
	defer st.wipe()

	c.process(blocks, st.DecryptBlock)
	return UnpackAndUnpad(blocks)
}

// process applies fn to every block in place. With more than one worker the
// slice is cut into contiguous ranges that are each owned by one goroutine,
// so results land back in their original positions without any locking.
func (c Crypter) process(blocks []uint64, fn func(uint64) uint64) {
	workers := c.Workers
	if limit := len(blocks) / minBlocksPerWorker; workers > limit {
		workers = limit
	}
	if workers < 2 {
		cryptRange(blocks, fn)
		return
	}

	chunk := (len(blocks) + workers - 1) / workers
	var wg sync.WaitGroup
	for start := 0; start < len(blocks); start += chunk {
		end := start + chunk
		if end > len(blocks) {
			end = len(blocks)
		}
		wg.Add(1)
		go func(part []uint64) {
			defer wg.Done()
			cryptRange(part, fn)
		}(blocks[start:end])
	}
	wg.Wait()
}

func cryptRange(blocks []uint64, fn func(uint64) uint64) {
	for i, b := range blocks {
		blocks[i] = fn(b)
	}
}
