// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package session

import (
	"errors"

	"github.com/MKhiriev/go-pong-guard/internal/aead"
	"github.com/MKhiriev/go-pong-guard/internal/credential"
	"github.com/MKhiriev/go-pong-guard/internal/signer"
	"github.com/MKhiriev/go-pong-guard/internal/vault"
)

// Player-facing messages. They are shown through the Prompter, either as a
// notice or as the error line of the next password prompt.
const (
	// MsgPasswordTooShort is shown when a password fails validation.
	MsgPasswordTooShort = "Your password must contain at least 6 characters!"

	// MsgVaultCreated confirms first-run keystore creation.
	MsgVaultCreated = "Keystore was created."

	// MsgSignatureValid and MsgSignatureInvalid report the startup check.
	MsgSignatureValid   = "Signature is valid"
	MsgSignatureInvalid = "Signature is not valid"

	// MsgNoSignature is shown on startup when no previous session has
	// signed the game yet.
	MsgNoSignature = "No signature has been recorded yet"

	// MsgGameOverSuffix follows the winner's name when a match ends.
	MsgGameOverSuffix = " won! Game over"

	// MsgThanksForPlaying closes the peer's session.
	MsgThanksForPlaying = "Thanks for playing"

	// MsgSaveTampered is shown when the encrypted save fails
	// authentication on load.
	MsgSaveTampered = "Saved game could not be loaded: it was tampered with"

	// MsgNoSavedGame is shown when a load is requested before any save.
	MsgNoSavedGame = "There is no saved game to load"

	// MsgGameLoaded confirms a successful load.
	MsgGameLoaded = "Saved game was loaded."

	// MsgWrongPassword is shown when the password does not unlock the
	// keystore.
	MsgWrongPassword = "Wrong password, please try again."

	// MsgKeystoreMissing is shown when the keystore file disappeared.
	MsgKeystoreMissing = "Keystore was not found."

	// MsgKeystoreDamaged is shown when the keystore cannot be read.
	MsgKeystoreDamaged = "Keystore is damaged."

	// MsgKeyGenerationFailed is shown when the key pair could not be made.
	MsgKeyGenerationFailed = "Keys could not be generated, please try again."

	// MsgFileError covers unreadable or unwritable game files.
	MsgFileError = "Game files could not be read or written."

	// MsgUnsupportedCrypto covers misconfigured algorithms and key sizes.
	MsgUnsupportedCrypto = "The configured cryptographic settings are not supported."

	// MsgUnexpected is the fallback.
	MsgUnexpected = "Something went wrong, please try again."
)

// userMessage maps an error from a collaborator to the line shown to the
// player on the next prompt.
func userMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, credential.ErrInvalidCredential):
		return MsgPasswordTooShort
	case errors.Is(err, vault.ErrAuthFailure):
		return MsgWrongPassword
	case errors.Is(err, vault.ErrNotFound):
		return MsgKeystoreMissing
	case errors.Is(err, vault.ErrCorrupt), errors.Is(err, vault.ErrEntryMissing):
		return MsgKeystoreDamaged
	case errors.Is(err, vault.ErrKeyGeneration):
		return MsgKeyGenerationFailed
	case errors.Is(err, aead.ErrAuthentication):
		return MsgSaveTampered
	case errors.Is(err, vault.ErrStorage), errors.Is(err, signer.ErrIO), errors.Is(err, aead.ErrIO):
		return MsgFileError
	case errors.Is(err, vault.ErrCrypto), errors.Is(err, aead.ErrCrypto), errors.Is(err, aead.ErrCorrupt),
		errors.Is(err, signer.ErrNoSuchAlgorithm), errors.Is(err, signer.ErrInvalidKey), errors.Is(err, signer.ErrSignature):
		return MsgUnsupportedCrypto
	default:
		return MsgUnexpected
	}
}
