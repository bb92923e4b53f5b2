// Package urls provides centralized constants for the external URLs used
// throughout the application.
//
// Usage:
//
//	import "github.com/webnetes/webnetesctl/internal/urls"
//
//	fmt.Printf("Example configuration: %s\n", urls.ExampleNodeConfig)
package urls
