// Package discovery finds webnetes nodes on the local network over mDNS.
//
// Nodes advertise the "_webnetes._tcp" service in the "local." domain. The
// TXT record may carry:
//
//	id=edge-42          node id, falls back to the instance name
//	path=/control       control endpoint path, defaults to /control
//	version=0.1.0       node runtime version
//
// # Usage Example
//
//	nodes, err := discovery.Scan(ctx, 5*time.Second)
//	if err != nil {
//	    return err
//	}
//	for _, node := range nodes {
//	    fmt.Println(node.ID, node.ControlURL())
//	}
//
// Discovery only works within one broadcast domain. Nodes behind routers
// or VPNs must be configured by control URL instead.
package discovery
