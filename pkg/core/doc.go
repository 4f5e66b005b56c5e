// Package core provides a small, stable facade over ragfw's internal firewall
// for applications that embed it in a retrieval pipeline. It re-exports a
// narrow API surface so callers can depend on a stable import path without
// importing internal packages.
//
// Example:
//
//	fw, closeFn, err := core.NewFromFile("")
//	if err != nil { /* handle */ }
//	defer closeFn()
//	safe := core.Wrap(myRetriever, fw)
//	docs, err := safe.Retrieve(ctx, "how do refunds work?")
package core
