package ports

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// DefaultRegisterPath is the directory's registration endpoint path,
// joined to the configured base URL.
const DefaultRegisterPath = "/WebObjects/TDIdentityService.woa/wa/register"

// Configuration represents the complete configuration for a registration
// client: where the directory lives and how the device describes itself.
type Configuration struct {
	// Directory contains the connection settings for the directory
	// service. Required.
	Directory DirectoryConfig `yaml:"directory" mapstructure:"directory" validate:"required"`

	// Device contains the metadata the directory records about the
	// registering device. Empty fields fall back to defaults.
	Device DeviceConfig `yaml:"device,omitempty" mapstructure:"device"`
}

// DirectoryConfig contains directory connection settings.
type DirectoryConfig struct {
	// Endpoint is the full HTTPS URL of the registration operation.
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint" validate:"required,url"`
}

// DeviceConfig contains the device metadata block sent at the top level
// of every registration request.
type DeviceConfig struct {
	Name            string `yaml:"name,omitempty" mapstructure:"name"`
	HardwareVersion string `yaml:"hardware_version,omitempty" mapstructure:"hardware_version"`
	OSVersion       string `yaml:"os_version,omitempty" mapstructure:"os_version"`
	SoftwareVersion string `yaml:"software_version,omitempty" mapstructure:"software_version"`
	Language        string `yaml:"language,omitempty" mapstructure:"language"`
}

var validate = validator.New()

// Validate checks if the configuration is valid and returns any
// validation errors.
func (c *Configuration) Validate() error {
	if c == nil {
		return fmt.Errorf("configuration cannot be nil")
	}
	if err := validate.Struct(c); err != nil {
		var invalid validator.ValidationErrors
		if errors.As(err, &invalid) && len(invalid) > 0 {
			first := invalid[0]
			return fmt.Errorf("invalid configuration: field %s failed %q validation",
				strings.ToLower(first.Namespace()), first.Tag())
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// ApplyDefaults fills empty device metadata fields with the defaults the
// directory has been observed to accept.
func (c *Configuration) ApplyDefaults() {
	def := DefaultConfiguration()
	if c.Directory.Endpoint == "" {
		c.Directory.Endpoint = def.Directory.Endpoint
	}
	if c.Device.Name == "" {
		c.Device.Name = def.Device.Name
	}
	if c.Device.HardwareVersion == "" {
		c.Device.HardwareVersion = def.Device.HardwareVersion
	}
	if c.Device.OSVersion == "" {
		c.Device.OSVersion = def.Device.OSVersion
	}
	if c.Device.SoftwareVersion == "" {
		c.Device.SoftwareVersion = def.Device.SoftwareVersion
	}
	if c.Device.Language == "" {
		c.Device.Language = def.Device.Language
	}
}

// DefaultConfiguration returns the configuration used when no file is
// provided.
func DefaultConfiguration() *Configuration {
	return &Configuration{
		Directory: DirectoryConfig{
			Endpoint: "https://identity.ess.apple.com" + DefaultRegisterPath,
		},
		Device: DeviceConfig{
			Name:            "dirreg",
			HardwareVersion: "MacBookPro18,3",
			OSVersion:       "macOS,13.2.1,22D68",
			SoftwareVersion: "22D68",
			Language:        "en-US",
		},
	}
}
