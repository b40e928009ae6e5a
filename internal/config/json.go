package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig is the layout of the JSON config file.
type StructuredJSONConfig struct {
	Crypto struct {
		DigestAlgorithm    string `json:"digest_algorithm"`
		SignatureAlgorithm string `json:"signature_algorithm"`
		CipherAlgorithm    string `json:"cipher_algorithm"`
		KeyBits            int    `json:"key_bits"`
		NonceLength        int    `json:"nonce_length"`
		TagLength          int    `json:"tag_length"`
		ChunkSize          int    `json:"chunk_size"`
	} `json:"crypto,omitempty"`

	Vault struct {
		Path           string `json:"path"`
		StoreType      string `json:"store_type"`
		KeyPairAlias   string `json:"key_pair_alias"`
		SecretKeyAlias string `json:"secret_key_alias"`
		KeyGenCommand  string `json:"keygen_command"`
		KDFTime        uint32 `json:"kdf_time"`
		KDFMemory      uint32 `json:"kdf_memory"`
		KDFThreads     uint8  `json:"kdf_threads"`
	} `json:"vault,omitempty"`

	Files struct {
		Artifact           string `json:"artifact"`
		Signature          string `json:"signature"`
		Nonce              string `json:"nonce"`
		SaveState          string `json:"save_state"`
		EncryptedSaveState string `json:"encrypted_save_state"`
	} `json:"files,omitempty"`

	Transport struct {
		Address        string   `json:"address"`
		PollInterval   Duration `json:"poll_interval"`
		RequestTimeout Duration `json:"request_timeout"`
		HashKey        string   `json:"hash_key"`
	} `json:"transport,omitempty"`

	Journal struct {
		DSN string `json:"dsn"`
	} `json:"journal,omitempty"`

	Game struct {
		WinningScore int `json:"winning_score"`
	} `json:"game,omitempty"`

	Log struct {
		File  string `json:"file"`
		Level string `json:"level"`
	} `json:"log,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		Crypto: Crypto(jsonCfg.Crypto),
		Vault:  Vault(jsonCfg.Vault),
		Files:  Files(jsonCfg.Files),
		Transport: Transport{
			Address:        jsonCfg.Transport.Address,
			PollInterval:   time.Duration(jsonCfg.Transport.PollInterval),
			RequestTimeout: time.Duration(jsonCfg.Transport.RequestTimeout),
			HashKey:        jsonCfg.Transport.HashKey,
		},
		Journal: Journal{
			DSN: jsonCfg.Journal.DSN,
		},
		Game: Game{
			WinningScore: jsonCfg.Game.WinningScore,
		},
		Log: Log{
			File:  jsonCfg.Log.File,
			Level: jsonCfg.Log.Level,
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
