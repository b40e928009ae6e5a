package session

import (
	"context"
	"crypto"
	"errors"
	"io/fs"

	"github.com/MKhiriev/go-pong-guard/internal/aead"
	"github.com/MKhiriev/go-pong-guard/internal/credential"
	"github.com/MKhiriev/go-pong-guard/internal/signer"
	"github.com/MKhiriev/go-pong-guard/models"
)

// firstRun creates the vault and enters SessionActive.
func (o *Orchestrator) firstRun(ctx context.Context) error {
	err := o.withCredential(ctx, PurposeCreateVault, "", func(cred credential.Credential) error {
		return o.deps.Vault.CreateAndStore(ctx, cred)
	})
	if err != nil {
		return err
	}

	o.record(ctx, models.EventVaultCreated, true, "")
	if err = o.display(ctx, MsgVaultCreated); err != nil {
		return err
	}

	o.setState(SessionActive)
	return nil
}

// returning checks the artifact signature left by the previous session.
// The result is advisory: the session becomes active either way.
func (o *Orchestrator) returning(ctx context.Context) error {
	var message string

	err := o.withCredential(ctx, PurposeVerifySignature, "", func(cred credential.Credential) error {
		keys, err := o.deps.Vault.Open(ctx, cred)
		if err != nil {
			return err
		}
		defer keys.Close()

		pub, err := keys.PublicKey(ctx)
		if err != nil {
			return err
		}

		message = o.verify(ctx, pub)
		return nil
	})
	if err != nil {
		return err
	}

	if err = o.display(ctx, message); err != nil {
		return err
	}

	o.setState(SessionActive)
	return nil
}

// verify checks the stored signature against pub and returns the message
// for the player. Problems with the signature or artifact files count as an
// invalid signature rather than a reason to re-prompt.
func (o *Orchestrator) verify(ctx context.Context, pub crypto.PublicKey) string {
	files := o.cfg.Files

	sig, err := o.deps.Signer.Load(files.Signature)
	if errors.Is(err, signer.ErrNotFound) {
		o.log.Info().Str("path", files.Signature).Msg("no signature recorded")
		o.record(ctx, models.EventVerification, false, MsgNoSignature)
		return MsgNoSignature
	}

	valid := false
	if err == nil {
		valid, err = o.deps.Signer.Verify(sig, pub, o.cfg.SignatureAlgorithm, files.Artifact)
	}
	if err != nil {
		o.log.Error().Err(err).Str("artifact", files.Artifact).Msg("signature check failed")
	}

	message := MsgSignatureInvalid
	if valid {
		message = MsgSignatureValid
	}
	o.log.Info().Bool("valid", valid).Msg("artifact verified")
	o.record(ctx, models.EventVerification, valid, message)
	return message
}

// save encrypts the save state, then signs the artifact and exits with the
// same credential.
func (o *Orchestrator) save(ctx context.Context) error {
	o.setState(Saving)
	files := o.cfg.Files

	var kept credential.Credential
	defer func() { kept.Wipe() }()

	err := o.withCredential(ctx, PurposeSaveGame, "", func(cred credential.Credential) error {
		keys, err := o.deps.Vault.Open(ctx, cred)
		if err != nil {
			return err
		}
		defer keys.Close()

		secret, err := keys.SecretKey(ctx)
		if err != nil {
			return err
		}
		defer clear(secret)

		if err = o.deps.Game.WriteState(ctx, files.SaveState); err != nil {
			return err
		}
		nonce, err := o.deps.Cipher.EnsureNonce()
		if err != nil {
			return err
		}
		if err = o.deps.Cipher.Encrypt(secret, nonce, files.SaveState, files.EncryptedSaveState); err != nil {
			return err
		}

		kept = append(credential.Credential(nil), cred...)
		return nil
	})
	if err != nil {
		o.setState(SessionActive)
		return err
	}

	o.log.Info().Str("path", files.EncryptedSaveState).Msg("game saved")
	o.record(ctx, models.EventSaved, true, files.EncryptedSaveState)

	return o.signAndExit(ctx, "", kept)
}

// signAndExit signs the artifact, announces the outcome and terminates.
// A non-nil cred is tried first without prompting.
func (o *Orchestrator) signAndExit(ctx context.Context, winner string, cred credential.Credential) error {
	o.setState(Signing)

	firstError := ""
	if cred != nil {
		err := o.sign(ctx, cred)
		if err == nil {
			return o.finish(ctx, winner)
		}
		o.log.Warn().Err(err).Msg("signing with save credential failed")
		firstError = userMessage(err)
	}

	err := o.withCredential(ctx, PurposeSignAndExit, firstError, func(cred credential.Credential) error {
		return o.sign(ctx, cred)
	})
	if err != nil {
		o.setState(SessionActive)
		return err
	}

	return o.finish(ctx, winner)
}

func (o *Orchestrator) sign(ctx context.Context, cred credential.Credential) error {
	keys, err := o.deps.Vault.Open(ctx, cred)
	if err != nil {
		return err
	}
	defer keys.Close()

	priv, err := keys.PrivateKey(ctx)
	if err != nil {
		return err
	}

	files := o.cfg.Files
	sig, err := o.deps.Signer.Sign(o.cfg.SignatureAlgorithm, priv, files.Artifact)
	if err != nil {
		return err
	}
	return o.deps.Signer.Persist(files.Signature, sig)
}

func (o *Orchestrator) finish(ctx context.Context, winner string) error {
	o.log.Info().Str("winner", winner).Msg("artifact signed")
	o.record(ctx, models.EventSigned, true, winner)

	if winner != "" {
		if err := o.display(ctx, winner+MsgGameOverSuffix); err != nil {
			o.log.Warn().Err(err).Msg("game over message not shown")
		}
	}

	if o.deps.Announcer != nil {
		outcome := models.Outcome{Finished: true, Winner: winner, SessionID: o.sessionID}
		if err := o.deps.Announcer.Announce(ctx, outcome); err != nil {
			o.log.Warn().Err(err).Msg("outcome not announced")
		}
	}

	o.setState(Terminated)
	return nil
}

// load decrypts the saved game and hands it back to the game. A tampered
// or missing save is reported and the session stays active.
func (o *Orchestrator) load(ctx context.Context) error {
	o.setState(Loading)
	defer o.setState(SessionActive)
	files := o.cfg.Files

	var notice string
	err := o.withCredential(ctx, PurposeLoadGame, "", func(cred credential.Credential) error {
		keys, err := o.deps.Vault.Open(ctx, cred)
		if err != nil {
			return err
		}
		defer keys.Close()

		secret, err := keys.SecretKey(ctx)
		if err != nil {
			return err
		}
		defer clear(secret)

		nonce, err := o.deps.Cipher.EnsureNonce()
		if err != nil {
			return err
		}

		err = o.deps.Cipher.Decrypt(secret, nonce, files.EncryptedSaveState, files.SaveState)
		switch {
		case errors.Is(err, aead.ErrAuthentication):
			notice = MsgSaveTampered
			return abort(err)
		case errors.Is(err, fs.ErrNotExist):
			notice = MsgNoSavedGame
			return abort(err)
		case err != nil:
			return err
		}

		if err = o.deps.Game.RestoreState(ctx, files.SaveState); err != nil {
			notice = MsgFileError
			return abort(err)
		}
		return nil
	})

	switch {
	case err == nil:
		o.log.Info().Str("path", files.EncryptedSaveState).Msg("game loaded")
		o.record(ctx, models.EventLoaded, true, files.EncryptedSaveState)
		return o.display(ctx, MsgGameLoaded)
	case notice != "":
		o.log.Warn().Err(err).Msg("load aborted")
		o.record(ctx, models.EventLoaded, false, notice)
		return o.display(ctx, notice)
	default:
		return err
	}
}
