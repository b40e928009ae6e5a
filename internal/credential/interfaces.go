package credential

//go:generate mockgen -source=interfaces.go -destination=../mock/credential_mock.go -package=mock

// Deriver turns a raw password typed by the user into the [Credential] that
// unlocks the key vault.
//
// Derive normalizes raw to NFKC, requires the normalized text to consist of
// 6 to 70 ASCII letters and digits, hashes its UTF-8 bytes with the configured
// digest and returns the padded standard base64 encoding of the digest.
// Any rejection is reported as an error wrapping [ErrInvalidCredential]; the
// method never panics.
type Deriver interface {
	Derive(raw string) (Credential, error)
}
