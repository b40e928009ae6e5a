package config

import (
	"errors"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

// NetAddress holds structured network address data for host and port.
// It implements the pflag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// Flags holds the values of the configuration flags after parsing. Zero
// values mean "not given".
type Flags struct {
	address            NetAddress
	jsonConfigPath     string
	vaultPath          string
	keyGenCommand      string
	artifactPath       string
	signaturePath      string
	noncePath          string
	saveStatePath      string
	digestAlgorithm    string
	signatureAlgorithm string
	cipherAlgorithm    string
	keyBits            int
	hashKey            string
	pollInterval       time.Duration
	journalDSN         string
	winningScore       int
	logFile            string
	logLevel           string
}

// BindFlags registers the configuration flags on fs. Parse fs before
// passing the result to [Load].
//
// Flags:
//
//	-a/--address outcome channel address in format [host]:[port]
//	-c/--config json file path with configs
//	--vault vault file path
//	--keygen-command external key pair generator
//	--artifact file to sign
//	--signature signature file path
//	--nonce nonce file path
//	--save-file plaintext save-state path (the encrypted copy gets ".enc")
//	--digest password digest algorithm
//	--signature-algorithm artifact signature algorithm
//	--cipher save-state cipher
//	--key-bits symmetric key size
//	--hash-key outcome integrity key
//	--poll-interval peer poll interval (e.g., "1s")
//	--journal journal database file, "off" to disable
//	--winning-score points that end a match
//	--log-file log file path
//	--log-level log level
func BindFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{}

	fs.VarP(&f.address, "address", "a", "Outcome channel address host:port")
	fs.StringVarP(&f.jsonConfigPath, "config", "c", "", "JSON config file path")
	fs.StringVar(&f.vaultPath, "vault", "", "Vault file path")
	fs.StringVar(&f.keyGenCommand, "keygen-command", "", "External key pair generator")
	fs.StringVar(&f.artifactPath, "artifact", "", "File to sign")
	fs.StringVar(&f.signaturePath, "signature", "", "Signature file path")
	fs.StringVar(&f.noncePath, "nonce", "", "Nonce file path")
	fs.StringVar(&f.saveStatePath, "save-file", "", "Save-state file path")
	fs.StringVar(&f.digestAlgorithm, "digest", "", "Password digest algorithm")
	fs.StringVar(&f.signatureAlgorithm, "signature-algorithm", "", "Artifact signature algorithm")
	fs.StringVar(&f.cipherAlgorithm, "cipher", "", "Save-state cipher")
	fs.IntVar(&f.keyBits, "key-bits", 0, "Symmetric key size in bits")
	fs.StringVar(&f.hashKey, "hash-key", "", "Outcome integrity key")
	fs.DurationVar(&f.pollInterval, "poll-interval", 0, "Peer poll interval (e.g., 1s)")
	fs.StringVar(&f.journalDSN, "journal", "", `Journal database file, "off" to disable`)
	fs.IntVar(&f.winningScore, "winning-score", 0, "Points that end a match")
	fs.StringVar(&f.logFile, "log-file", "", "Log file path")
	fs.StringVar(&f.logLevel, "log-level", "", "Log level")

	return f
}

func (f *Flags) config() *StructuredConfig {
	var encrypted string
	if f.saveStatePath != "" {
		encrypted = f.saveStatePath + ".enc"
	}

	return &StructuredConfig{
		Crypto: Crypto{
			DigestAlgorithm:    f.digestAlgorithm,
			SignatureAlgorithm: f.signatureAlgorithm,
			CipherAlgorithm:    f.cipherAlgorithm,
			KeyBits:            f.keyBits,
		},
		Vault: Vault{
			Path:          f.vaultPath,
			KeyGenCommand: f.keyGenCommand,
		},
		Files: Files{
			Artifact:           f.artifactPath,
			Signature:          f.signaturePath,
			Nonce:              f.noncePath,
			SaveState:          f.saveStatePath,
			EncryptedSaveState: encrypted,
		},
		Transport: Transport{
			Address:      f.address.String(),
			PollInterval: f.pollInterval,
			HashKey:      f.hashKey,
		},
		Journal: Journal{
			DSN: f.journalDSN,
		},
		Game: Game{
			WinningScore: f.winningScore,
		},
		Log: Log{
			File:  f.logFile,
			Level: f.logLevel,
		},
		JSONFilePath: f.jsonConfigPath,
	}
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost"
// or empty, and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 || port > 65535 {
		return errors.New("port number must be between 1 and 65535")
	}

	if host != "localhost" && host != "" {
		ip := net.ParseIP(host)
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}

// Type implements pflag.Value.
func (a *NetAddress) Type() string {
	return "host:port"
}
