package signer

//go:generate mockgen -source=interfaces.go -destination=../mock/signer_mock.go -package=mock -mock_names=Service=MockSigner

import "crypto"

// Service produces and checks detached signatures over the artifact file and
// moves signature bytes to and from disk.
type Service interface {
	// Sign returns the signature of the artifact at artifactPath.
	Sign(algorithm string, key crypto.PrivateKey, artifactPath string) ([]byte, error)

	// Verify reports whether sig is a valid signature of the artifact. A
	// mismatch is (false, nil); errors are reserved for bad keys, unknown
	// algorithms and unreadable files.
	Verify(sig []byte, key crypto.PublicKey, algorithm, artifactPath string) (bool, error)

	// Persist writes sig to path, replacing any previous signature.
	Persist(path string, sig []byte) error

	// Load reads the signature stored at path.
	Load(path string) ([]byte, error)
}
