package main

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
)

var keysFlags struct {
	output string
	keyID  string
}

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage signing keys",
	Long: `Generate and manage ECDSA keypairs for record signing.

The keys command provides utilities for managing the private key the
local signing oracle loads at startup. Keys use the NIST P-256 curve.

Subcommands:
  generate - Generate new ECDSA keypair
  list     - List all keys (not yet implemented)

Examples:
  # Generate new keypair
  caduceus keys generate

  # Generate with custom key ID
  caduceus keys generate --key-id "prod-2026"`,
}

var keysGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate new keypair",
	Long: `Generate a new ECDSA P-256 keypair for record signing.

The generated keys are saved to PEM files with restrictive permissions:
  - Public key:  0644 (readable by all)
  - Private key: 0600 (readable only by owner)

Examples:
  # Generate keypair with auto-generated ID
  caduceus keys generate

  # Generate with custom ID
  caduceus keys generate --key-id "prod-2026-08"

  # Save to custom directory
  caduceus keys generate --output /etc/caduceus/keys`,
	RunE: generateKeys,
}

var keysListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all keys",
	Long:  `List all signing keys with metadata.`,
	RunE:  listKeys,
}

func init() {
	rootCmd.AddCommand(keysCmd)
	keysCmd.AddCommand(keysGenerateCmd, keysListCmd)

	keysGenerateCmd.Flags().StringVarP(&keysFlags.output, "output", "o", "./keys", "output directory")
	keysGenerateCmd.Flags().StringVar(&keysFlags.keyID, "key-id", "", "key ID (auto-generated if empty)")
}

func generateKeys(cmd *cobra.Command, args []string) error {
	if keysFlags.keyID == "" {
		keysFlags.keyID = fmt.Sprintf("key-%d", time.Now().Unix())
	}

	fmt.Println("Generating ECDSA P-256 keypair...")
	fmt.Println()

	privateKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return fmt.Errorf("failed to generate keypair: %w", err)
	}

	if err := os.MkdirAll(keysFlags.output, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	publicKeyPath := filepath.Join(keysFlags.output, keysFlags.keyID+"_public.pem")
	if err := savePublicKey(publicKeyPath, &privateKey.PublicKey); err != nil {
		return fmt.Errorf("failed to save public key: %w", err)
	}

	privateKeyPath := filepath.Join(keysFlags.output, keysFlags.keyID+"_private.pem")
	if err := savePrivateKey(privateKeyPath, privateKey); err != nil {
		return fmt.Errorf("failed to save private key: %w", err)
	}

	fmt.Printf("Key ID: %s\n", keysFlags.keyID)
	fmt.Printf("Public Key:  %s\n", publicKeyPath)
	fmt.Printf("Private Key: %s\n", privateKeyPath)
	fmt.Println()
	fmt.Println("⚠️  Warning: Store private key securely and never commit to version control")
	fmt.Println("✓  Keys generated successfully")
	fmt.Println()
	fmt.Println("Configuration snippet:")
	fmt.Println("signing:")
	fmt.Printf("  key_path: \"%s\"\n", privateKeyPath)

	return nil
}

func savePublicKey(path string, key *ecdsa.PublicKey) error {
	der, err := x509.MarshalPKIXPublicKey(key)
	if err != nil {
		return err
	}

	block := &pem.Block{
		Type:  "PUBLIC KEY",
		Bytes: der,
	}

	// #nosec G304 G302 - User-specified output path for public key is expected behavior for a CLI tool.
	// Public key file permissions (0644) are intentionally world-readable as this is a public key.
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer file.Close()

	return pem.Encode(file, block)
}

func savePrivateKey(path string, key *ecdsa.PrivateKey) error {
	der, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		return err
	}

	block := &pem.Block{
		Type:  "EC PRIVATE KEY",
		Bytes: der,
	}

	// #nosec G304 - User-specified output path for private key is expected behavior for a CLI tool.
	// File permissions (0600) are correctly restricted to owner-only access.
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer file.Close()

	return pem.Encode(file, block)
}

func listKeys(cmd *cobra.Command, args []string) error {
	fmt.Println("Key listing not yet implemented")
	fmt.Println()
	fmt.Println("For now, you can list keys manually:")
	fmt.Println("  ls -la keys/")
	return nil
}
