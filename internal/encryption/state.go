package encryption

const (
	// Number of entries in the P-array: one per round plus the two output whitening words.
	numSubkeys = 18
	// Number of 32-bit words a password is packed into (56 bytes of key material).
	numKeyWords = 14
)

// KeyWords is a password packed into the 14 big-endian words consumed by the
// key schedule. See PasswordToKeyWords.
type KeyWords [numKeyWords]uint32

// State is the complete secret state of a keyed Blowfish instance: the 18
// round subkeys and the four substitution boxes.
//
// A State is only written while it is being derived. Once DeriveState returns
// it is safe for concurrent use by any number of goroutines.
type State struct {
	p [numSubkeys]uint32
	s [4][256]uint32
}

// DeriveState expands key into a fully scheduled State.
func DeriveState(key KeyWords) *State {
	st := new(State)
	initState(st)
	mixKey(st, key[:])
	bootstrap(st)
	return st
}

func initState(st *State) {
	st.p = piSubkeys
	st.s = piSBoxes
}

// mixKey XORs the key words into the leading P-array entries. Any entries
// beyond len(words) keep their pi values.
func mixKey(st *State, words []uint32) {
	for i := 0; i < len(words) && i < numSubkeys; i++ {
		st.p[i] ^= words[i]
	}
}

// bootstrap replaces every P-array entry and then every S-box entry, two at a
// time, with the output of encrypting a running block under the state as it
// exists at that point. The block starts at zero and each result is fed back
// in as the next input.
func bootstrap(st *State) {
	var block uint64
	for i := 0; i < numSubkeys; i += 2 {
		block = st.EncryptBlock(block)
		st.p[i], st.p[i+1] = uint32(block>>32), uint32(block)
	}
	for b := range st.s {
		for i := 0; i < 256; i += 2 {
			block = st.EncryptBlock(block)
			st.s[b][i], st.s[b][i+1] = uint32(block>>32), uint32(block)
		}
	}
}

// wipe zeroes the state so that no key-derived material lingers after use.
func (st *State) wipe() {
	st.p = [numSubkeys]uint32{}
	st.s = [4][256]uint32{}
}

// String keeps key material out of logs and error messages.
func (st *State) String() string { return "encryption.State{redacted}" }

// GoString is the %#v counterpart of String.
func (st *State) GoString() string { return st.String() }
