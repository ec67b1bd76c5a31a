package encryption

import (
	"bytes"
	"errors"
	"fmt"
	"math/rand"
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for pwLen := minPasswordLen; pwLen <= maxPasswordLen; pwLen++ {
		password := make([]byte, pwLen)
		rng.Read(password)

		for dataLen := 0; dataLen <= 5*BlockSize; dataLen++ {
			plaintext := make([]byte, dataLen)
			rng.Read(plaintext)

			ciphertext, err := Encrypt(password, plaintext)
			if err != nil {
				t.Fatalf("Encrypt() returned an unexpected error: %v", err)
			}
			if len(ciphertext) == 0 || len(ciphertext)%BlockSize != 0 {
				t.Fatalf("expected ciphertext to be a positive multiple of %d bytes, got %d", BlockSize, len(ciphertext))
			}

			decrypted, err := Decrypt(password, ciphertext)
			if err != nil {
				t.Fatalf("Decrypt() returned an unexpected error (password %d bytes, data %d bytes): %v", pwLen, dataLen, err)
			}
			if !bytes.Equal(decrypted, plaintext) {
				t.Fatalf("expected Decrypt() to have decrypted to the original data (password %d bytes, data %d bytes)", pwLen, dataLen)
			}
		}
	}
}

func TestEncrypt_EmptyPlaintext(t *testing.T) {
	ciphertext, err := Encrypt([]byte("test"), []byte{})
	if err != nil {
		t.Fatalf("Encrypt() returned an unexpected error: %v", err)
	}
	if len(ciphertext) != BlockSize {
		t.Fatalf("expected a single %d byte block, got %d bytes", BlockSize, len(ciphertext))
	}

	st := DeriveState(mustKeyWords(t, "test"))
	want := bytesFromBlocks([]uint64{st.EncryptBlock(0x0808080808080808)})
	if diff := cmp.Diff(want, ciphertext); diff != "" {
		t.Errorf("expected the encryption of a full padding block; diff:\n%s", diff)
	}

	plaintext, err := Decrypt([]byte("test"), ciphertext)
	if err != nil {
		t.Fatalf("Decrypt() returned an unexpected error: %v", err)
	}
	if len(plaintext) != 0 {
		t.Errorf("expected Decrypt() to return no data, got %v", plaintext)
	}
}

func TestEncrypt_Deterministic(t *testing.T) {
	password := []byte("same inputs")
	plaintext := []byte("test data with padding _")

	first, err := Encrypt(password, plaintext)
	if err != nil {
		t.Fatalf("Encrypt() returned an unexpected error: %v", err)
	}
	second, err := Encrypt(password, plaintext)
	if err != nil {
		t.Fatalf("Encrypt() returned an unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected Encrypt() to be deterministic")
	}
	if bytes.Contains(first, plaintext[:BlockSize]) {
		t.Fatalf("expected Encrypt() to have encrypted data")
	}

	other, err := Encrypt([]byte("different inputs"), plaintext)
	if err != nil {
		t.Fatalf("Encrypt() returned an unexpected error: %v", err)
	}
	if reflect.DeepEqual(first, other) {
		t.Fatalf("expected a different password to produce different ciphertext")
	}
}

func TestEncrypt_DoesNotModifyInput(t *testing.T) {
	plaintext := []byte("0123456789abcdef")
	original := append([]byte(nil), plaintext...)

	ciphertext, err := Encrypt([]byte("key"), plaintext)
	if err != nil {
		t.Fatalf("Encrypt() returned an unexpected error: %v", err)
	}
	if !bytes.Equal(plaintext, original) {
		t.Errorf("Encrypt() modified its input")
	}

	encrypted := append([]byte(nil), ciphertext...)
	if _, err := Decrypt([]byte("key"), ciphertext); err != nil {
		t.Fatalf("Decrypt() returned an unexpected error: %v", err)
	}
	if !bytes.Equal(ciphertext, encrypted) {
		t.Errorf("Decrypt() modified its input")
	}
}

func TestEncryptDecrypt_Errors(t *testing.T) {
	tests := []struct {
		name    string
		op      func(password, data []byte) ([]byte, error)
		pw      []byte
		data    []byte
		wantErr error
	}{
		{name: "encrypt with empty password", op: Encrypt, pw: []byte(""), data: []byte{1, 2, 3}, wantErr: ErrInvalidPasswordLength},
		{name: "encrypt with oversized password", op: Encrypt, pw: make([]byte, 57), data: []byte{1, 2, 3}, wantErr: ErrInvalidPasswordLength},
		{name: "decrypt with empty password", op: Decrypt, pw: nil, data: make([]byte, 8), wantErr: ErrInvalidPasswordLength},
		{name: "password is checked before length", op: Decrypt, pw: nil, data: []byte{1, 2, 3}, wantErr: ErrInvalidPasswordLength},
		{name: "decrypt partial block", op: Decrypt, pw: []byte("key"), data: []byte{1, 2, 3, 4, 5}, wantErr: ErrInvalidLength},
		{name: "decrypt empty ciphertext", op: Decrypt, pw: []byte("key"), data: []byte{}, wantErr: ErrInvalidLength},
		{name: "decrypt trailing partial block", op: Decrypt, pw: []byte("key"), data: make([]byte, 12), wantErr: ErrInvalidLength},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.op(tt.pw, tt.data)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if got != nil {
				t.Errorf("expected no output alongside the error, got %v", got)
			}
		})
	}
}

func TestDecrypt_WrongPassword(t *testing.T) {
	ciphertext, err := Encrypt([]byte("other"), []byte("hello"))
	if err != nil {
		t.Fatalf("Encrypt() returned an unexpected error: %v", err)
	}
	got, err := Decrypt([]byte("key"), ciphertext)
	if err == nil && string(got) == "hello" {
		t.Fatalf("expected the wrong password not to recover the plaintext")
	}
	if err != nil && !errors.Is(err, ErrMalformedPadding) {
		t.Fatalf("Decrypt() error = %v, want ErrMalformedPadding", err)
	}

	// A wrong key only slips past the padding check when the decrypted tail
	// happens to look like valid padding, so nearly every attempt must fail.
	var rejected int
	const attempts = 64
	for i := 0; i < attempts; i++ {
		got, err := Decrypt([]byte(fmt.Sprintf("wrong password %d", i)), ciphertext)
		switch {
		case errors.Is(err, ErrMalformedPadding):
			if got != nil {
				t.Fatalf("expected no plaintext alongside ErrMalformedPadding")
			}
			rejected++
		case err != nil:
			t.Fatalf("Decrypt() returned an unexpected error: %v", err)
		}
	}
	if rejected < attempts-8 {
		t.Errorf("expected nearly all wrong passwords to be rejected, only %d of %d were", rejected, attempts)
	}
}

func TestCrypter_ParallelMatchesSequential(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	password := []byte("parallel password")

	for _, size := range []int{0, 100, minBlocksPerWorker * BlockSize, 9*minBlocksPerWorker*BlockSize + 3} {
		plaintext := make([]byte, size)
		rng.Read(plaintext)

		want, err := Crypter{}.Encrypt(password, plaintext)
		if err != nil {
			t.Fatalf("Encrypt() returned an unexpected error: %v", err)
		}

		for _, workers := range []int{-1, 2, 4, 16} {
			c := Crypter{Workers: workers}
			got, err := c.Encrypt(password, plaintext)
			if err != nil {
				t.Fatalf("Encrypt() returned an unexpected error: %v", err)
			}
			if !bytes.Equal(got, want) {
				t.Fatalf("%d workers produced different ciphertext than sequential for %d bytes", workers, size)
			}

			decrypted, err := c.Decrypt(password, got)
			if err != nil {
				t.Fatalf("Decrypt() returned an unexpected error: %v", err)
			}
			if !bytes.Equal(decrypted, plaintext) {
				t.Fatalf("%d workers failed to round trip %d bytes", workers, size)
			}
		}
	}
}

func TestCrypter_Process(t *testing.T) {
	blocks := make([]uint64, 10*minBlocksPerWorker+7)
	for i := range blocks {
		blocks[i] = uint64(i)
	}
	Crypter{Workers: 3}.process(blocks, func(b uint64) uint64 { return b * 2 })

	for i, b := range blocks {
		if b != uint64(i)*2 {
			t.Fatalf("block %d = %d, expected every block to be processed exactly once in place", i, b)
		}
	}
}
