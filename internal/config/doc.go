// Package config loads ragfw configuration from local and global YAML files,
// validates it and builds the scanners, rules and graph schema it declares.
// CLI and server code map the result into a firewall.
package config
