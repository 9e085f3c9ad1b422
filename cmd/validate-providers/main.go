package main

import (
	"fmt"
	"os"

	"github.com/JSONbored/directory-relay/provider"
)

/* validate-providers - Standalone CLI tool to validate providers.yaml
 * Usage: go run cmd/validate-providers/main.go [providers.yaml]
 * Exit codes: 0 = valid, 1 = invalid
 */

func main() {
	providersFile := "providers.yaml"
	if len(os.Args) > 1 {
		providersFile = os.Args[1]
	}

	fmt.Printf("Validating providers file: %s\n\n", providersFile)

	registry, err := provider.Load(providersFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ VALIDATION FAILED\n\n")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	descriptors := registry.List()
	fmt.Printf("✓ VALIDATION PASSED\n\n")
	fmt.Printf("Loaded %d provider(s):\n", len(descriptors))

	for i, d := range descriptors {
		fmt.Printf("\n%d. Provider: %s\n", i+1, d.Name)
		fmt.Printf("   Source:           %s\n", d.Source)
		fmt.Printf("   Scheme:           %s\n", d.Scheme)
		fmt.Printf("   Signature Header: %s\n", d.SignatureHeader)
		if d.TimestampHeader != "" {
			fmt.Printf("   Timestamp Header: %s\n", d.TimestampHeader)
		}
		if d.IDHeader != "" {
			fmt.Printf("   ID Header:        %s\n", d.IDHeader)
		}
		if d.SecretEnvKey != "" {
			fmt.Printf("   Secret Env:       %s\n", d.SecretEnvKey)
		}
		if len(d.CORS.AllowedOrigins) > 0 {
			fmt.Printf("   Allowed Origins:  %v\n", d.CORS.AllowedOrigins)
		}
	}

	fmt.Printf("\n✓ All providers are valid!\n")
	os.Exit(0)
}
