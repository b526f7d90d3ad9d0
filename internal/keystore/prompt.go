package keystore

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// PromptForKey reads an API key from the terminal with input masked, then
// offers to persist it. Returns the entered key, which may be empty if the
// user gave up.
func (s *Store) PromptForKey(providerName string) (string, error) {
	fmt.Fprintf(os.Stderr, "Enter your %s API key (input hidden): ", providerName)

	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read key: %w", err)
	}

	key := strings.TrimSpace(string(raw))
	if key == "" {
		return "", nil
	}

	fmt.Fprint(os.Stderr, "Save this key for future sessions? [y/N]: ")
	reader := bufio.NewReader(os.Stdin)
	answer, _ := reader.ReadString('\n')
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(answer)), "y") {
		if err := s.Save(key); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not save key: %v\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "Key saved to %s\n", s.path)
		}
	}

	return key, nil
}
