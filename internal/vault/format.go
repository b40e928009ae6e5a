// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/boltdb/bolt"
	"golang.org/x/crypto/argon2"

	"github.com/MKhiriev/go-pong-guard/internal/credential"
)

// On-disk layout of a vault file. A vault is a bolt database with two
// buckets: "meta" holds everything needed to turn a credential into the
// key-encryption key (KEK), "entries" maps an alias to a sealed entry.
var (
	metaBucket    = []byte("meta")
	entriesBucket = []byte("entries")

	versionKey   = []byte("version")
	storeTypeKey = []byte("storetype")
	saltKey      = []byte("salt")
	kdfKey       = []byte("kdf")
	verifierKey  = []byte("verifier")
)

const (
	// latestVersion is the vault format version written by this package.
	latestVersion = 0x01

	// saltLength is the size of the argon2id salt in bytes.
	saltLength = 16

	// kekLength is the size of the derived key-encryption key (AES-256).
	kekLength = 32

	// openTimeout bounds how long bolt waits for the file lock.
	openTimeout = 2 * time.Second

	fileMode = 0o600
)

// minFileSize is the smallest file bolt ever writes: two meta pages, a
// freelist page and an empty leaf. Shorter files are rejected before bolt
// sees them.
var minFileSize = int64(4 * os.Getpagesize())

// verifierPlaintext is sealed under the KEK at creation time. Opening it is
// how a wrong credential is told apart from a good one before any entry is
// touched.
var verifierPlaintext = []byte("go-pong-guard vault verifier")

// Entry kinds stored in the entries bucket.
const (
	kindKeyPair = "keypair"
	kindSecret  = "secret"
)

// KDFParams are the argon2id tuning parameters. They are recorded in the
// vault file at creation time, so later opens always use the creation-time
// values regardless of the current configuration.
type KDFParams struct {
	Time    uint32 `json:"time"`
	Memory  uint32 `json:"memory"`
	Threads uint8  `json:"threads"`
}

// DefaultKDFParams returns the argon2id parameters recommended by OWASP:
// one pass, 64 MiB of memory and four lanes.
func DefaultKDFParams() KDFParams {
	return KDFParams{
		Time:    1,
		Memory:  64 * 1024,
		Threads: 4,
	}
}

func (p KDFParams) withDefaults() KDFParams {
	def := DefaultKDFParams()
	if p.Time == 0 {
		p.Time = def.Time
	}
	if p.Memory == 0 {
		p.Memory = def.Memory
	}
	if p.Threads == 0 {
		p.Threads = def.Threads
	}
	return p
}

// Target describes where a key pair must be written.
type Target struct {
	Path      string
	Alias     string
	StoreType string
	KDF       KDFParams
}

// sealedEntry is the JSON value stored under an alias.
type sealedEntry struct {
	Kind        string    `json:"kind"`
	Algorithm   string    `json:"algorithm"`
	Nonce       []byte    `json:"nonce"`
	Sealed      []byte    `json:"sealed"`
	Certificate []byte    `json:"certificate,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// vaultMeta is the decoded content of the meta bucket.
type vaultMeta struct {
	version   byte
	storeType string
	salt      []byte
	kdf       KDFParams
	verifier  []byte
}

// deriveKEK stretches the credential into the key-encryption key.
func deriveKEK(cred credential.Credential, salt []byte, p KDFParams) []byte {
	return argon2.IDKey(cred.Bytes(), salt, p.Time, p.Memory, p.Threads, kekLength)
}

// seal encrypts plaintext under kek with AES-256-GCM and a random nonce.
// additionalData binds the ciphertext to its alias so that entries cannot
// be swapped between aliases.
func seal(kek, plaintext, additionalData []byte) (nonce, sealed []byte, err error) {
	block, err := aes.NewCipher(kek)
	if err != nil {
		return nil, nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, nil, err
	}

	nonce = make([]byte, gcm.NonceSize())
	if _, err = io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, nil, err
	}

	return nonce, gcm.Seal(nil, nonce, plaintext, additionalData), nil
}

// unseal reverses seal. An error almost always means the KEK is wrong or the
// entry has been altered.
func unseal(kek, nonce, sealed, additionalData []byte) ([]byte, error) {
	block, err := aes.NewCipher(kek)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	if len(nonce) != gcm.NonceSize() {
		return nil, errors.New("nonce has wrong length")
	}

	return gcm.Open(nil, nonce, sealed, additionalData)
}

// openDB opens the vault file. readOnly opens are used by every accessor;
// writers pass create=true when the file may not exist yet.
func openDB(path string, readOnly, create bool) (*bolt.DB, error) {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if !create {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		if dir := filepath.Dir(path); dir != "." {
			if err = os.MkdirAll(dir, 0o700); err != nil {
				return nil, fmt.Errorf("%w: create vault dir: %w", ErrStorage, err)
			}
		}
	case err != nil:
		return nil, fmt.Errorf("%w: stat vault file: %w", ErrStorage, err)
	case info.IsDir():
		return nil, fmt.Errorf("%w: %s is a directory", ErrCorrupt, path)
	case info.Size() < minFileSize:
		return nil, fmt.Errorf("%w: %s is too short (%d bytes)", ErrCorrupt, path, info.Size())
	}

	db, err := bolt.Open(path, fileMode, &bolt.Options{Timeout: openTimeout, ReadOnly: readOnly})
	if err != nil {
		if errors.Is(err, bolt.ErrTimeout) {
			return nil, fmt.Errorf("%w: vault file is locked: %w", ErrStorage, err)
		}
		if errors.Is(err, fs.ErrPermission) {
			return nil, fmt.Errorf("%w: %w", ErrStorage, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	return db, nil
}

// readMeta decodes the meta bucket.
func readMeta(tx *bolt.Tx) (vaultMeta, error) {
	bucket := tx.Bucket(metaBucket)
	if bucket == nil {
		return vaultMeta{}, fmt.Errorf("%w: meta bucket missing", ErrCorrupt)
	}

	var m vaultMeta
	version := bucket.Get(versionKey)
	if len(version) != 1 {
		return vaultMeta{}, fmt.Errorf("%w: version missing", ErrCorrupt)
	}
	m.version = version[0]
	if m.version != latestVersion {
		return vaultMeta{}, fmt.Errorf("%w: unknown vault version %d", ErrCorrupt, m.version)
	}

	m.storeType = string(bucket.Get(storeTypeKey))
	m.salt = cloneBytes(bucket.Get(saltKey))
	if len(m.salt) != saltLength {
		return vaultMeta{}, fmt.Errorf("%w: salt has wrong length", ErrCorrupt)
	}

	if err := json.Unmarshal(bucket.Get(kdfKey), &m.kdf); err != nil {
		return vaultMeta{}, fmt.Errorf("%w: decode kdf params: %w", ErrCorrupt, err)
	}
	if m.kdf.Time == 0 || m.kdf.Memory == 0 || m.kdf.Threads == 0 {
		return vaultMeta{}, fmt.Errorf("%w: kdf params are incomplete", ErrCorrupt)
	}

	m.verifier = cloneBytes(bucket.Get(verifierKey))
	if len(m.verifier) == 0 {
		return vaultMeta{}, fmt.Errorf("%w: verifier missing", ErrCorrupt)
	}

	return m, nil
}

// initMeta writes a fresh meta bucket and returns the KEK derived for cred.
func initMeta(tx *bolt.Tx, cred credential.Credential, storeType string, kdf KDFParams) ([]byte, error) {
	bucket, err := tx.CreateBucketIfNotExists(metaBucket)
	if err != nil {
		return nil, err
	}
	if _, err = tx.CreateBucketIfNotExists(entriesBucket); err != nil {
		return nil, err
	}

	salt := make([]byte, saltLength)
	if _, err = io.ReadFull(rand.Reader, salt); err != nil {
		return nil, err
	}
	kdf = kdf.withDefaults()
	kdfJSON, err := json.Marshal(kdf)
	if err != nil {
		return nil, err
	}

	kek := deriveKEK(cred, salt, kdf)
	nonce, sealed, err := seal(kek, verifierPlaintext, verifierKey)
	if err != nil {
		return nil, err
	}

	for key, value := range map[string][]byte{
		string(versionKey):   {latestVersion},
		string(storeTypeKey): []byte(storeType),
		string(saltKey):      salt,
		string(kdfKey):       kdfJSON,
		string(verifierKey):  append(nonce, sealed...),
	} {
		if err = bucket.Put([]byte(key), value); err != nil {
			return nil, err
		}
	}

	return kek, nil
}

// unlock derives the KEK for cred and checks it against the verifier.
func unlock(m vaultMeta, cred credential.Credential) ([]byte, error) {
	kek := deriveKEK(cred, m.salt, m.kdf)

	const nonceSize = 12
	if len(m.verifier) < nonceSize {
		return nil, fmt.Errorf("%w: verifier too short", ErrCorrupt)
	}
	if _, err := unseal(kek, m.verifier[:nonceSize], m.verifier[nonceSize:], verifierKey); err != nil {
		return nil, ErrAuthFailure
	}

	return kek, nil
}

// unlockTx reads the meta bucket of an open transaction and unlocks it,
// also checking the store type when expected is non-empty.
func unlockTx(tx *bolt.Tx, cred credential.Credential, expectedStoreType string) ([]byte, error) {
	m, err := readMeta(tx)
	if err != nil {
		return nil, err
	}
	if expectedStoreType != "" && m.storeType != expectedStoreType {
		return nil, fmt.Errorf("%w: store type %q, want %q", ErrCorrupt, m.storeType, expectedStoreType)
	}
	return unlock(m, cred)
}

// putEntry seals plaintext under kek and stores it as alias.
func putEntry(tx *bolt.Tx, kek []byte, alias string, entry sealedEntry, plaintext []byte) error {
	bucket := tx.Bucket(entriesBucket)
	if bucket == nil {
		return fmt.Errorf("%w: entries bucket missing", ErrCorrupt)
	}

	nonce, sealed, err := seal(kek, plaintext, []byte(alias))
	if err != nil {
		return fmt.Errorf("%w: seal entry: %w", ErrCrypto, err)
	}
	entry.Nonce = nonce
	entry.Sealed = sealed
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("%w: encode entry: %w", ErrStorage, err)
	}

	return bucket.Put([]byte(alias), raw)
}

// getEntry loads alias and opens its sealed payload.
func getEntry(tx *bolt.Tx, kek []byte, alias, kind string) (sealedEntry, []byte, error) {
	bucket := tx.Bucket(entriesBucket)
	if bucket == nil {
		return sealedEntry{}, nil, fmt.Errorf("%w: entries bucket missing", ErrCorrupt)
	}

	raw := bucket.Get([]byte(alias))
	if raw == nil {
		return sealedEntry{}, nil, fmt.Errorf("%w: %q", ErrEntryMissing, alias)
	}

	var entry sealedEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return sealedEntry{}, nil, fmt.Errorf("%w: decode entry %q: %w", ErrCorrupt, alias, err)
	}
	if entry.Kind != kind {
		return sealedEntry{}, nil, fmt.Errorf("%w: %q holds a %s entry, want %s", ErrEntryMissing, alias, entry.Kind, kind)
	}

	plaintext, err := unseal(kek, entry.Nonce, entry.Sealed, []byte(alias))
	if err != nil {
		return sealedEntry{}, nil, fmt.Errorf("%w: open entry %q: %w", ErrCorrupt, alias, err)
	}

	return entry, plaintext, nil
}

// cloneBytes copies b. Slices returned by bolt are only valid inside the
// transaction.
func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
