// Package firewall runs the scanner pipeline and the policy engine over
// retrieved artifacts. It is the single entry point used by the CLI, the HTTP
// API and the retriever adapters; external consumers should use pkg/core.
package firewall
