/* Copyright 2010 The Go Authors. All rights reserved.
* Use of this source code is governed by a BSD-style
* license that can be found in the LICENSE file.
*
* Round structure adapted from golang.org/x/crypto/blowfish to operate on
* 64-bit big-endian blocks and a single State value.
 */

package encryption

// f is the Blowfish round function.
func (st *State) f(x uint32) uint32 {
	return ((st.s[0][byte(x>>24)] + st.s[1][byte(x>>16)]) ^ st.s[2][byte(x>>8)]) + st.s[3][byte(x)]
}

// EncryptBlock runs the 16 Feistel rounds over b. Each loop iteration covers
// two rounds so the halves never need to be swapped explicitly.
func (st *State) EncryptBlock(b uint64) uint64 {
	l, r := uint32(b>>32), uint32(b)
	for i := 0; i < 16; i += 2 {
		l ^= st.p[i]
		r ^= st.f(l)
		r ^= st.p[i+1]
		l ^= st.f(r)
	}
	l, r = r^st.p[17], l^st.p[16]
	return uint64(l)<<32 | uint64(r)
}

// DecryptBlock is the inverse of EncryptBlock: the same rounds with the
// P-array walked from the end.
func (st *State) DecryptBlock(b uint64) uint64 {
	l, r := uint32(b>>32), uint32(b)
	for i := 17; i > 1; i -= 2 {
		l ^= st.p[i]
		r ^= st.f(l)
		r ^= st.p[i-1]
		l ^= st.f(r)
	}
	l, r = r^st.p[0], l^st.p[1]
	return uint64(l)<<32 | uint64(r)
}
