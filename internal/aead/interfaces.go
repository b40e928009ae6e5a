package aead

//go:generate mockgen -source=interfaces.go -destination=../mock/aead_mock.go -package=mock -mock_names=Service=MockCipher

// Service encrypts and decrypts the save-state file with a key from the
// vault and a nonce persisted next to it.
type Service interface {
	// EnsureNonce returns the persisted nonce, creating it on first use.
	EnsureNonce() ([]byte, error)

	// Encrypt seals the file at plaintextPath into ciphertextPath. Any
	// previous ciphertext is replaced.
	Encrypt(key, nonce []byte, plaintextPath, ciphertextPath string) error

	// Decrypt opens the file at ciphertextPath into plaintextPath. On
	// ErrAuthentication no plaintext is written.
	Decrypt(key, nonce []byte, ciphertextPath, plaintextPath string) error
}
