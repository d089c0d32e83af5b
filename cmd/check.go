package cmd

import (
	"errors"
	"fmt"
	"io"

	"grimm.is/fwrule/internal/config"
	"grimm.is/fwrule/internal/render"
)

// RunCheck loads a rule file and builds every rule against the live system,
// reporting each rule's outcome. With verbose set, valid rules are also
// shown in iptables form.
func RunCheck(w io.Writer, configFile string, verbose bool, metricsFile string) error {
	ws, err := load(configFile)
	if err != nil {
		var verrs config.ValidationErrors
		if errors.As(err, &verrs) {
			Printer.Fprintf(w, "Configuration invalid:\n")
			for _, e := range verrs {
				fmt.Fprintf(w, "  %s\n", e.Error())
			}
		}
		return err
	}
	defer ws.Close()

	valid := 0
	for i := range ws.cfg.Rules {
		rc := &ws.cfg.Rules[i]
		r, err := rc.Build(ws.sys)
		if err != nil {
			// Build names the rule itself
			fmt.Fprintf(w, "%v\n", err)
			continue
		}
		valid++
		Printer.Fprintf(w, "rule %s: ok\n", rc.Name)

		if verbose {
			out, err := r.Export(render.IPTables())
			if err != nil {
				return fmt.Errorf("rule %q: %w", rc.Name, err)
			}
			fmt.Fprintf(w, "  %s\n", out.Text)
		}
	}

	total := len(ws.cfg.Rules)
	Printer.Fprintf(w, "%d of %d rules valid\n", valid, total)

	if err := writeMetrics(metricsFile); err != nil {
		return err
	}
	if valid < total {
		return fmt.Errorf("%w: %d of %d", ErrInvalidRules, total-valid, total)
	}
	return nil
}
