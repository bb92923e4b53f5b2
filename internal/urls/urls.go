package urls

// Project links shown in help output, error hints and the User-Agent

// Repository is the source repository of webnetesctl
const Repository = "https://github.com/webnetes/webnetesctl"

// Issues is where bug reports go
const Issues = Repository + "/issues"

// ExampleNodeConfig is a complete example node configuration document,
// a good starting point for a new node.
const ExampleNodeConfig = "https://github.com/alphahorizonio/webnetes/blob/main/app/webnetes_node/node.yaml"

// NominatimUsagePolicy explains the rate limit and User-Agent rules of the
// public reverse geocoding server.
const NominatimUsagePolicy = "https://operations.osmfoundation.org/policies/nominatim/"
