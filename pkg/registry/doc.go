// Package registry lists, creates, writes and deletes Windows registry keys.
//
// Keys are addressed by strings such as `HKCU\Software\Acme`, where the
// first segment names a hive by alias or canonical name in any case. A
// Client binds the operations to one backend: the live registry
// (OpenNative), a bbolt file (OpenFile) or memory (NewMemory).
//
// # Batches
//
// Every operation accepts many items. Items run one at a time, in input
// order, and the caller picks how failures aggregate:
//
//	FailFast    the first failure is returned; later items are not attempted
//	BestEffort  failed items are dropped from the result; no error
//
// ListOutcomes returns one Outcome per item for callers wanting both.
//
// # Listing
//
// A snapshot of a missing key has Exists false. Subkeys or values the
// backend cannot return, and values of unknown native type, are left out
// of a snapshot and counted in KeySnapshot.Skipped.
//
// Example:
//
//	c, err := registry.OpenNative()
//	if err != nil {
//	    return err
//	}
//	defer c.Close()
//
//	err = c.Put(ctx, types.PutRequest{
//	    Address: `HKCU\Software\Acme`,
//	    Values: []types.ValueRecord{
//	        {Name: "Enabled", Kind: types.KindDword, Data: []byte{1, 0, 0, 0}},
//	    },
//	})
package registry
