package provider

import (
	"fmt"
	"os"

	"github.com/JSONbored/directory-relay/event"
	"gopkg.in/yaml.v3"
)

/* Loader reads the provider set from providers.yaml
 * Secrets are never stored in the file: each entry names the environment
 * variable holding its signing secret, resolved at load time
 */

// Config represents the structure of providers.yaml
type Config struct {
	Providers []ProviderConfig `yaml:"providers"`
}

// ProviderConfig represents a single provider in the YAML file
type ProviderConfig struct {
	Name            string   `yaml:"name"`
	Scheme          string   `yaml:"scheme"`
	SecretEnv       string   `yaml:"secret_env"`
	SignatureHeader string   `yaml:"signature_header"`
	TimestampHeader string   `yaml:"timestamp_header"`
	IDHeader        string   `yaml:"id_header"`
	TypeField       string   `yaml:"type_field"`
	KeyField        string   `yaml:"key_field"`
	AllowedOrigins  []string `yaml:"allowed_origins"`
}

// Load reads and parses the providers file into a validated registry
func Load(filePath string) (*Registry, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("reading providers file: %w", err)
	}

	return Parse(data)
}

// Parse builds a registry from raw providers YAML
func Parse(data []byte) (*Registry, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing providers YAML: %w", err)
	}

	if len(config.Providers) == 0 {
		return nil, fmt.Errorf("providers file declares no providers")
	}

	descriptors := make([]*Descriptor, 0, len(config.Providers))
	for _, pc := range config.Providers {
		if pc.SecretEnv == "" {
			return nil, fmt.Errorf("secret_env cannot be empty for provider %s", pc.Name)
		}

		descriptors = append(descriptors, &Descriptor{
			Name:            pc.Name,
			Source:          event.NewSource(pc.Name),
			Scheme:          NewScheme(pc.Scheme),
			Secret:          os.Getenv(pc.SecretEnv),
			SecretEnvKey:    pc.SecretEnv,
			SignatureHeader: pc.SignatureHeader,
			TimestampHeader: pc.TimestampHeader,
			IDHeader:        pc.IDHeader,
			TypeField:       pc.TypeField,
			KeyField:        pc.KeyField,
			CORS:            CORSPolicy{AllowedOrigins: pc.AllowedOrigins},
		})
	}

	registry, err := NewRegistry(descriptors...)
	if err != nil {
		return nil, fmt.Errorf("building registry: %w", err)
	}

	return registry, nil
}
