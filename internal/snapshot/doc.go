/*
Package snapshot provides I/O operations for collected states of the deployed
claims contract and decoding of its storage.

A snapshot consists of the contract state and its full storage pulled from
the blockchain at some height. Snapshots are stored in the file system using
human-readable encoding and can be used to audit ledger balances without a
running node or to reproduce them in tests.

Storage items of the contract are decoded into a Ledger view by Ledger.Apply,
so the same decoding is used for both snapshots and live storage traversal.
*/
package snapshot
