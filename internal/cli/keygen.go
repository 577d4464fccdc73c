package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sufield/dirreg/internal/core/domain"
)

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate a fresh identity key pair",
	Long: `Generate a fresh identity key pair with the key shapes the directory
accepts (EC P-256 signing, RSA-1280 encryption) and write both private
keys as PKCS#8 PEM files.`,
	RunE: runKeygen,
}

func init() {
	keygenCmd.Flags().StringP("out", "o", ".", "Directory to write signing.pem and encryption.pem into")
}

func runKeygen(cmd *cobra.Command, args []string) error {
	outDir, _ := cmd.Flags().GetString("out")

	identity, err := domain.NewIdentity()
	if err != nil {
		return fmt.Errorf("failed to generate identity: %w", err)
	}

	signingPEM, err := domain.MarshalSigningKey(identity.SigningKey)
	if err != nil {
		return err
	}
	encryptionPEM, err := domain.MarshalEncryptionKey(identity.EncryptionKey)
	if err != nil {
		return err
	}

	signingPath := filepath.Join(outDir, "signing.pem")
	encryptionPath := filepath.Join(outDir, "encryption.pem")

	if err := os.WriteFile(signingPath, signingPEM, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", signingPath, err)
	}
	if err := os.WriteFile(encryptionPath, encryptionPEM, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", encryptionPath, err)
	}

	fmt.Printf("Wrote %s and %s\n", signingPath, encryptionPath)
	return nil
}
