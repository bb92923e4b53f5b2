// Package panel implements the interactive terminal control panel.
//
// The panel is a Bubble Tea program with four screens:
//   - Config: the status card above an inline editor for the node
//     configuration. Reverting the editor always asks for confirmation.
//   - Editor: the standalone modal editor started by `webnetesctl edit`.
//     Whether closing asks first is configurable.
//   - Nodes: mDNS discovery of nodes to apply the configuration to.
//   - Result: the outcome of the last apply.
//
// The panel only renders state and forwards intents. The draft and its
// dirty flag live in a draft.Session, status fields in a status.Store fed by
// a status.Pipeline. Committing the editor runs the configured
// apply.Applier in a background command and shows the result.
//
// # Key Bindings
//
//   - ctrl+s save & apply, esc revert/close, ctrl+p toggle highlighted preview
//   - ctrl+l locate me, ctrl+n nodes, ctrl+c quit
//   - Discard dialog: ←/→ choose, enter confirm, y discard, n/esc keep
//
// All screens share RenderApplicationContainer for the header and footer.
package panel
