package main

import (
	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-pong-guard/internal/app"
	"github.com/MKhiriev/go-pong-guard/internal/credential"
	"github.com/MKhiriev/go-pong-guard/internal/vault"
)

var keygenOpts app.KeygenOptions

func init() {
	keygenCmd.Flags().StringVar(&keygenOpts.Alias, "alias", vault.DefaultKeyPairAlias, "alias of the key pair entry")
	keygenCmd.Flags().StringVar(&keygenOpts.KeyAlg, "keyalg", "EC", "key algorithm: EC or Ed25519")
	keygenCmd.Flags().StringVar(&keygenOpts.DName, "dname", "CN="+vault.DefaultCommonName, "certificate subject")
	keygenCmd.Flags().StringVar(&keygenOpts.StoreType, "storetype", vault.DefaultStoreType, "vault store type")
	keygenCmd.Flags().StringVar(&keygenOpts.Keystore, "keystore", "", "vault file (defaults to --vault)")
	keygenCmd.Flags().StringVar(&keygenOpts.StorePass, "storepass", "", "derived vault credential; prompts for a password when empty")
}

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate the signing key pair into a vault",
	Long: `Generates a key pair with a self-signed certificate and stores it in
the vault. The host runs this subcommand when --keygen-command points at
this binary; it can also be run by hand.

Examples:
  # Create the key pair interactively
  pongguard keygen --keystore resources/Keystore.pgv

  # Use Ed25519 with a custom subject
  pongguard keygen --keyalg Ed25519 --dname "CN=Arcade, O=Pong"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig("keygen")
		if err != nil {
			return err
		}

		opts := keygenOpts
		if opts.Keystore == "" {
			opts.Keystore = cfg.Vault.Path
		}
		opts.KDF = vault.KDFParams{
			Time:    cfg.Vault.KDFTime,
			Memory:  cfg.Vault.KDFMemory,
			Threads: cfg.Vault.KDFThreads,
		}

		deriver := credential.NewDeriver(cfg.Crypto.DigestAlgorithm)
		return app.Keygen(cmd.Context(), opts, newLinePrompter(cmd), deriver, log)
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check the artifact signature",
	Long: `Prompts for the vault password and checks the artifact against the
signature left by the last host session. Exits non-zero when the signature
is not valid.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig("verify")
		if err != nil {
			return err
		}
		return app.Verify(cmd.Context(), cfg, newLinePrompter(cmd), cmd.OutOrStdout(), log)
	},
}

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "List vault entries and the last attestation check",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig("inspect")
		if err != nil {
			return err
		}
		return app.Inspect(cmd.Context(), cfg, newLinePrompter(cmd), cmd.OutOrStdout(), log)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, args []string) {
		printBuildInfo(cmd.OutOrStdout())
	},
}
