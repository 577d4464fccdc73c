package cli

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sufield/dirreg/internal/adapters/config"
	"github.com/sufield/dirreg/internal/core/domain"
	"github.com/sufield/dirreg/pkg/dirreg"
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a device identity with the directory",
	Long: `Register a device identity with the directory service.

The identity's private keys, the auth and push key pairs, and the push
token are read from files. Validation data comes from an external
attestation mechanism and expires; when the directory reports expiry,
fetch fresh validation data and run the command again.

Flags can also be set through DIRREG_* environment variables, e.g.
DIRREG_USER_ID.

Examples:
  dirreg register --config directory.yaml \
    --handle mailto:user@example.org \
    --user-id D:12345 \
    --signing-key signing.pem --encryption-key encryption.pem \
    --auth-cert auth.crt --auth-key auth.pem \
    --push-cert push.crt --push-key push.pem \
    --push-token push-token.b64 \
    --validation-data validation.b64`,
	PreRunE: validateRegisterFlags,
	RunE:    runRegister,
}

func init() {
	registerCmd.Flags().StringP("config", "c", "", "Path to configuration file")
	registerCmd.Flags().String("endpoint", "", "Directory registration endpoint URL (overrides config)")
	registerCmd.Flags().StringSlice("handle", nil, "Handle URI to register (repeatable)")
	registerCmd.Flags().String("user-id", "", "Directory user id token")
	registerCmd.Flags().String("signing-key", "", "Path to the identity EC signing private key (PEM)")
	registerCmd.Flags().String("encryption-key", "", "Path to the identity RSA encryption private key (PEM)")
	registerCmd.Flags().String("auth-cert", "", "Path to the auth certificate (PEM)")
	registerCmd.Flags().String("auth-key", "", "Path to the auth private key (PEM)")
	registerCmd.Flags().String("push-cert", "", "Path to the push certificate (PEM)")
	registerCmd.Flags().String("push-key", "", "Path to the push private key (PEM)")
	registerCmd.Flags().String("push-token", "", "Path to a file holding the base64 push token")
	registerCmd.Flags().String("validation-data", "", "Path to a file holding base64 validation data")
	registerCmd.Flags().Bool("json", false, "Print the certificate map as JSON")

	registerCmd.MarkFlagFilename("config", "yaml", "yml")

	viper.SetEnvPrefix("DIRREG")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	for _, name := range []string{"endpoint", "user-id", "push-token", "validation-data"} {
		_ = viper.BindPFlag(name, registerCmd.Flags().Lookup(name))
	}
}

// validateRegisterFlags performs business logic validation after Cobra's
// built-in validation.
func validateRegisterFlags(cmd *cobra.Command, args []string) error {
	handles, _ := cmd.Flags().GetStringSlice("handle")
	if len(handles) == 0 {
		return fmt.Errorf("at least one --handle is required")
	}
	if viper.GetString("user-id") == "" {
		return fmt.Errorf("--user-id (or DIRREG_USER_ID) is required")
	}
	for _, name := range []string{"signing-key", "encryption-key", "auth-cert", "auth-key", "push-cert", "push-key"} {
		if v, _ := cmd.Flags().GetString(name); v == "" {
			return fmt.Errorf("--%s is required", name)
		}
	}
	return nil
}

func runRegister(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")

	var cfg *dirreg.Configuration
	if configFile != "" {
		provider := config.NewFileProvider()
		loaded, err := provider.LoadConfiguration(cmd.Context(), configFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		cfg = loaded
	} else {
		cfg = dirreg.DefaultConfiguration()
	}
	if endpoint := viper.GetString("endpoint"); endpoint != "" {
		cfg.Directory.Endpoint = endpoint
	}

	identity, err := loadIdentity(cmd)
	if err != nil {
		return err
	}

	params, err := loadRegisterParams(cmd, identity)
	if err != nil {
		return err
	}

	client, err := dirreg.NewClient(cfg)
	if err != nil {
		return err
	}

	result, err := client.Register(cmd.Context(), params)
	if err != nil {
		if dirreg.IsValidationExpired(err) {
			return fmt.Errorf("%w; fetch fresh validation data and retry", err)
		}
		return err
	}

	return printResult(cmd, result)
}

func loadIdentity(cmd *cobra.Command) (*dirreg.Identity, error) {
	signingPath, _ := cmd.Flags().GetString("signing-key")
	encryptionPath, _ := cmd.Flags().GetString("encryption-key")

	signingPEM, err := os.ReadFile(signingPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read signing key: %w", err)
	}
	encryptionPEM, err := os.ReadFile(encryptionPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read encryption key: %w", err)
	}

	signing, err := domain.ParseSigningKey(signingPEM)
	if err != nil {
		return nil, err
	}
	encryption, err := domain.ParseEncryptionKey(encryptionPEM)
	if err != nil {
		return nil, err
	}
	return domain.FromPrivateKeys(signing, encryption), nil
}

func loadRegisterParams(cmd *cobra.Command, identity *dirreg.Identity) (dirreg.RegisterParams, error) {
	var params dirreg.RegisterParams

	params.Identity = identity
	params.Handles, _ = cmd.Flags().GetStringSlice("handle")
	params.UserID = viper.GetString("user-id")

	authKey, err := loadKeyPair(cmd, "auth-cert", "auth-key")
	if err != nil {
		return params, err
	}
	pushKey, err := loadKeyPair(cmd, "push-cert", "push-key")
	if err != nil {
		return params, err
	}
	params.AuthKey = authKey
	params.PushKey = pushKey

	pushToken, err := readBase64Input(viper.GetString("push-token"), "push token")
	if err != nil {
		return params, err
	}
	validationData, err := readBase64Input(viper.GetString("validation-data"), "validation data")
	if err != nil {
		return params, err
	}
	params.PushToken = pushToken
	params.ValidationData = validationData

	return params, nil
}

func loadKeyPair(cmd *cobra.Command, certFlag, keyFlag string) (dirreg.KeyPair, error) {
	certPath, _ := cmd.Flags().GetString(certFlag)
	keyPath, _ := cmd.Flags().GetString(keyFlag)

	cert, err := os.ReadFile(certPath)
	if err != nil {
		return dirreg.KeyPair{}, fmt.Errorf("failed to read %s: %w", certFlag, err)
	}
	key, err := os.ReadFile(keyPath)
	if err != nil {
		return dirreg.KeyPair{}, fmt.Errorf("failed to read %s: %w", keyFlag, err)
	}
	return dirreg.KeyPair{Certificate: cert, PrivateKey: key}, nil
}

// readBase64Input reads a file holding a base64 value and decodes it.
func readBase64Input(path, what string) ([]byte, error) {
	if path == "" {
		return nil, fmt.Errorf("%s is required", what)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", what, err)
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(raw)))
	if err != nil {
		return nil, fmt.Errorf("%s is not valid base64: %w", what, err)
	}
	return decoded, nil
}

func printResult(cmd *cobra.Command, result dirreg.RegistrationResult) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON {
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	for service, cert := range result {
		fmt.Printf("%s:\n%s\n\n", service, cert)
	}
	return nil
}
