package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"grimm.is/fwrule/internal/config"
)

// RunFmt prints the canonical formatting of a rule file, or rewrites the
// file in place when write is set.
func RunFmt(w io.Writer, configFile string, write bool) error {
	src, err := os.ReadFile(configFile)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	out, err := config.Format(src, configFile)
	if err != nil {
		return err
	}

	if !write {
		_, err = w.Write(out)
		return err
	}
	if bytes.Equal(src, out) {
		return nil
	}
	info, err := os.Stat(configFile)
	if err != nil {
		return err
	}
	return os.WriteFile(configFile, out, info.Mode().Perm())
}
