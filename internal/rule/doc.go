// Package rule models a single firewall rule as a set of self-validating
// match criteria plus one terminal action.
//
// # Overview
//
// A [Rule] owns a [Registry] of criteria ("modules") and exactly one [Action].
// Each [Module] validates the values written to it against live system state
// (protocol database, interface table, DNS) through a [System]. The registry
// keeps at most one module per [Kind]; writing a kind twice routes into the
// existing module.
//
// # Export
//
// Rules are serialized through a pluggable [Renderer]. The renderer's output
// shape is discovered by rendering an empty [Payload] once, then the rule
// assembles the per-module renders accordingly:
//
//	Map      → merge every module and the action into one map
//	Sequence → one element per module, action last
//	Text     → space-joined renders of non-empty modules, then the action
//
// # Example
//
//	r := rule.New(sys)
//	r.Modules.Set(rule.KindSource, "10.0.0.1/24")
//	r.Action = rule.Drop{}
//	out, err := r.Export(render.IPTables())
//	// out.Text == "-s 10.0.0.1/24 -J DROP"
package rule
