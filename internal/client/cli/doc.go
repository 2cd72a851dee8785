// Package cli provides the interactive blogdesk terminal client.
//
// It wires configuration, the local session database, the API clients and
// services, and serves a line-oriented REPL in place of a browser view
// layer. Typical flow: verify a saved session, prompt for credentials when
// there is none, then execute commands.
//
// Key features:
//   - Register / Login / Logout, with local validation before any request
//   - List posts, drafts only or published only; show one post
//   - Compose and edit posts: title, content with live word count, excerpt,
//     tags and a featured image; save as draft or publish
//   - Batch delete with confirmation and a per-post report
//
// Post commands go through App.guard, which sends anonymous users to the
// login flow first. Each command runs with its own context that Ctrl-C
// cancels; results arriving after that are dropped.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
