// Package status gathers the information shown on the node status card.
//
// A Pipeline runs three independent lookups and merges their results into a
// Store:
//
//   - the public address, looked up once when the pipeline starts;
//   - the device coordinates, looked up on demand by Locate;
//   - the place name and flag, looked up again every time coordinates are
//     written.
//
// Each lookup writes its fields as one group through Store.Update, so a
// subscriber never sees Locating cleared while the old coordinates are still
// in place. Lookup failures are logged and leave the affected fields as they
// were, except a failed Locate, which writes (0, 0).
//
// The place fields lag behind the coordinates while a reverse lookup is in
// flight or after one failed. Snapshot.Stale reports that window.
package status
