// Package apply delivers committed node configuration documents.
//
// An Applier is the commit hook of an editing session. Two implementations
// exist:
//
//   - FileApplier replaces the node's configuration file atomically.
//   - SocketApplier pushes the document to a running node over its
//     WebSocket control endpoint.
//
// Multi chains several appliers and reports every failure. What the node
// does with the document after delivery is up to the node.
//
// # Control Socket Protocol
//
// The panel sends one text frame and waits for the matching acknowledgement:
//
//	→ {"kind":"apply","definition":"<yaml>","digest":"3fa9c1e07b2d"}
//	← {"kind":"ack","ok":true,"digest":"3fa9c1e07b2d"}
//	← {"kind":"ack","ok":false,"error":"invalid resource quota"}
//
// Frames of any other kind received before the ack are ignored.
package apply
