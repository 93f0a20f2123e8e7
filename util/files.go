// Package util provides bundle selection and reporting helpers for commands.
package util

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	log "github.com/sirupsen/logrus"
)

// Interactive reports whether both stdin and stdout are terminals.
func Interactive() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())
}

// ResolveBundle resolves the bundle to use: the one named by nameArg, which
// may be a full base name or its last segments (e.g. "messages" for
// "com.acme.messages"), or the only candidate when nameArg is empty. When
// several candidates match, interactive mode asks the user and
// non-interactive mode returns an error.
func ResolveBundle(nameArg string, candidates []string) (string, error) {
	if len(candidates) == 0 {
		return "", fmt.Errorf("no bundles found\nHint: Run in the project root or use --root")
	}

	var matches []string
	if nameArg == "" {
		matches = candidates
	} else {
		for _, c := range candidates {
			if c == nameArg {
				return c, nil
			}
			if strings.HasSuffix(c, "."+nameArg) {
				matches = append(matches, c)
			}
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("bundle %s not found in: %s", nameArg, strings.Join(candidates, ", "))
	case 1:
		if nameArg == "" {
			log.Infof("auto-selected bundle: %s", matches[0])
		}
		return matches[0], nil
	}

	if Interactive() {
		fmt.Printf("Multiple bundles found:\n")
		for i, name := range matches {
			fmt.Printf("  [%d] %s\n", i+1, name)
		}
		answer := GetUserInput(fmt.Sprintf("Select bundle (1-%d): ", len(matches)), "1")
		var idx int
		if _, err := fmt.Sscanf(answer, "%d", &idx); err != nil || idx < 1 || idx > len(matches) {
			return "", fmt.Errorf("invalid selection: %s", answer)
		}
		log.Infof("user selected bundle: %s", matches[idx-1])
		return matches[idx-1], nil
	}
	return "", fmt.Errorf("multiple bundles found (%s), specify one explicitly in non-interactive mode\nHint: Use --bundle <base-name>", strings.Join(matches, ", "))
}
