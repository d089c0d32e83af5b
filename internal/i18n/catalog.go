package i18n

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// German translations of CLI messages. Keys are the English format strings.
var german = map[string]string{
	"No changes detected.\n":      "Keine Änderungen gefunden.\n",
	"Rules differ:\n":             "Regeln unterscheiden sich:\n",
	"rule %s: ok\n":               "Regel %s: ok\n",
	"%d of %d rules valid\n":      "%d von %d Regeln gültig\n",
	"Configuration invalid:\n":    "Konfiguration ungültig:\n",
	"%s version %s (commit %s)\n": "%s Version %s (Commit %s)\n",
	"Unknown command: %s\n":       "Unbekannter Befehl: %s\n",
}

func init() {
	if err := register(language.German, german); err != nil {
		panic("failed to register German messages: " + err.Error())
	}
}

// register adds msgs to the default catalog for tag.
func register(tag language.Tag, msgs map[string]string) error {
	for key, msg := range msgs {
		if err := message.SetString(tag, key, msg); err != nil {
			return fmt.Errorf("message %q: %w", key, err)
		}
	}
	return nil
}
