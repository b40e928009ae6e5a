package credential

import "crypto/subtle"

// Credential is the validated, hashed and base64-encoded form of a password.
// It is the only secret the vault ever sees. Keep it for the duration of one
// vault operation and call Wipe when done.
type Credential []byte

// String returns the credential text. It is what the key-generation command
// receives in its final argument slot.
func (c Credential) String() string {
	return string(c)
}

// Bytes returns the credential as a byte slice sharing the backing array.
func (c Credential) Bytes() []byte {
	return c
}

// Len returns the number of characters in the credential. Logs record this
// instead of the value.
func (c Credential) Len() int {
	return len(c)
}

// Equal reports whether c and other hold the same characters.
func (c Credential) Equal(other Credential) bool {
	return subtle.ConstantTimeCompare(c, other) == 1
}

// Wipe zeroes the backing array.
func (c Credential) Wipe() {
	clear(c)
}
