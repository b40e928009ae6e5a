package config

import "fmt"

// PeerConfig is the part of the configuration a peer needs: it never touches
// key material, so only the outcome channel and logging are read.
type PeerConfig struct {
	Transport Transport
	Log       Log
}

// LoadPeer assembles and validates the peer configuration from the same
// sources as [Load]. Host-only sections are not validated.
func LoadPeer(flags *Flags) (*PeerConfig, error) {
	cfg, err := newConfigBuilder().
		withFlags(flags).
		withEnv().
		withJSON().
		withDefaults().
		merge()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	peerCfg := &PeerConfig{
		Transport: cfg.Transport,
		Log:       cfg.Log,
	}
	return peerCfg, peerCfg.validate()
}

func (cfg *PeerConfig) validate() error {
	return cfg.Transport.validate()
}
