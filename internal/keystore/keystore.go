// Package keystore persists the gateway API key in a per-user config file,
// obfuscated with a reversible machine-derived XOR cipher.
//
// This is NOT cryptographically secure. The key material is derived from
// stable machine identifiers, so anyone with access to the file and the
// machine can recover the credential. It is only better than plaintext on
// disk; treat it as obfuscation, not encryption.
package keystore

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"runtime"
)

const (
	appDir          = "nova"
	credentialsFile = "credentials.json"
)

// Store reads and writes the obfuscated credential file.
type Store struct {
	path      string
	machineID string
}

type fileFormat struct {
	APIKey string `json:"api_key"`
}

// New constructs a Store rooted at the user's config directory.
func New() (*Store, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("resolve config dir: %w", err)
	}
	return &Store{
		path:      filepath.Join(base, appDir, credentialsFile),
		machineID: machineID(),
	}, nil
}

// Path returns the credential file location.
func (s *Store) Path() string {
	return s.path
}

// Save obfuscates and persists the key with owner-only permissions.
func (s *Store) Save(apiKey string) error {
	if apiKey == "" {
		return fmt.Errorf("api key is empty")
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	payload, err := json.MarshalIndent(fileFormat{APIKey: s.obfuscate(apiKey)}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal credentials: %w", err)
	}

	if err := os.WriteFile(s.path, payload, 0o600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	return nil
}

// Load returns the stored key, or an empty string when no credential file
// exists or it cannot be recovered.
func (s *Store) Load() string {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return ""
	}

	var ff fileFormat
	if err := json.Unmarshal(data, &ff); err != nil {
		return ""
	}

	key, err := s.deobfuscate(ff.APIKey)
	if err != nil {
		return ""
	}
	return key
}

// Delete removes the credential file. Deleting a non-existent file is not
// an error.
func (s *Store) Delete() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete credentials: %w", err)
	}
	return nil
}

// Exists reports whether a credential file is present.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

func (s *Store) obfuscate(plain string) string {
	return base64.StdEncoding.EncodeToString(xorCycle([]byte(plain), []byte(s.machineID)))
}

func (s *Store) deobfuscate(encoded string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("decode credentials: %w", err)
	}
	return string(xorCycle(raw, []byte(s.machineID))), nil
}

func xorCycle(data, key []byte) []byte {
	if len(key) == 0 {
		return data
	}
	out := make([]byte, len(data))
	for i, b := range data {
		out[i] = b ^ key[i%len(key)]
	}
	return out
}

// machineID derives a stable per-machine key from the hostname, platform,
// and primary MAC address.
func machineID() string {
	host, _ := os.Hostname()
	seed := fmt.Sprintf("%s-%s-%s-%s", host, runtime.GOOS, runtime.GOARCH, primaryMAC())
	sum := sha256.Sum256([]byte(seed))
	return hex.EncodeToString(sum[:])[:32]
}

func primaryMAC() string {
	ifaces, err := net.Interfaces()
	if err != nil {
		return "unknown"
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagLoopback != 0 || len(iface.HardwareAddr) == 0 {
			continue
		}
		return iface.HardwareAddr.String()
	}
	return "unknown"
}
