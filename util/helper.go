package util

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/l10n-tools/bundle-helper/keys"
	log "github.com/sirupsen/logrus"
)

// Exist check if path is exist.
func Exist(name string) bool {
	if _, err := os.Stat(name); err == nil {
		return true
	}
	return false
}

// IsFile returns true if path is exist and is a file.
func IsFile(name string) bool {
	fi, err := os.Stat(name)
	if err != nil || fi.IsDir() {
		return false
	}
	return true
}

// IsDir returns true if path is exist and is a directory.
func IsDir(name string) bool {
	fi, err := os.Stat(name)
	if err != nil || !fi.IsDir() {
		return false
	}
	return true
}

// GetUserInput reads user input from stdin.
// Prompt is written to stderr so stdout remains clean for redirects.
func GetUserInput(prompt, defaultValue string) string {
	fmt.Fprint(os.Stderr, prompt)

	reader := bufio.NewReader(os.Stdin)
	text, _ := reader.ReadString('\n')
	text = strings.TrimSpace(text)

	if text == "" {
		return defaultValue
	}
	return text
}

// AnswerIsTrue indicates answer is a true value
func AnswerIsTrue(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes", "t", "true", "on", "1":
		return true
	}
	return false
}

// ReportResult logs the outcome of a change spanning several files: one
// info line when every file was changed, otherwise one error line per
// failed file.
func ReportResult(res *keys.Result) {
	if res == nil {
		return
	}
	if !res.Failed() {
		log.Infof("%s: %d file(s) changed", res.Name, res.Applied)
		return
	}

	showHorizontalLine()
	for _, f := range res.Failures {
		for _, line := range strings.Split(f.Err.Error(), "\n") {
			log.Errorf("%s\t%s", f.File, line)
		}
	}
	showHorizontalLine()
	log.Warnf("%s: %d file(s) changed, %d failed", res.Name, res.Applied, len(res.Failures))
}

func showHorizontalLine() {
	fmt.Fprintln(os.Stderr, strings.Repeat("-", 78))
}
