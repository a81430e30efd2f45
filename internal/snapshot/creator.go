package snapshot

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
)

// Creator saves state of the claims contract. Output file format:
//
//	'<label>-<block>-contract.json': JSON object with contract name and state
//	'<label>-<block>-storage.csv': CSV of contract storage
//
// Storage CSV records are 'key,value' where binary key-value are
// base64-encoded.
//
// Use Open or List to access existing snapshots.
type Creator struct {
	streams

	contract *snapshotContractState

	storageItemsCSV *csv.Writer
}

// NewCreator returns Creator which saves the snapshot into given directory.
// Resulting Creator should be closed when finished working with it.
//
// NewCreator fails if snapshot with provided ID already exists.
func NewCreator(dir string, id ID) (*Creator, error) {
	var res Creator

	err := initStreams(&res.streams, dir, id, false)
	if err != nil {
		return nil, err
	}

	res.storageItemsCSV = csv.NewWriter(res.streams.storageItems)

	return &res, nil
}

// SetContract sets state of the named contract. It must be called before
// Flush.
func (x *Creator) SetContract(name string, st state.Contract) {
	x.contract = &snapshotContractState{
		Name:  name,
		State: st,
	}
}

// Write saves given binary key-value as contract storage item.
func (x *Creator) Write(key, value []byte) error {
	err := x.storageItemsCSV.Write([]string{
		_encoding.EncodeToString(key),
		_encoding.EncodeToString(value),
	})
	if err != nil {
		return fmt.Errorf("write storage item as CSV data: %w", err)
	}

	return nil
}

// Flush flushes accumulated data to the file system.
func (x *Creator) Flush() error {
	if x.contract == nil {
		return errors.New("contract state is not set")
	}

	jEnc := json.NewEncoder(x.streams.contract)
	jEnc.SetIndent("", " ")

	err := jEnc.Encode(x.contract)
	if err != nil {
		return fmt.Errorf("encode contract state to JSON: %w", err)
	}

	x.storageItemsCSV.Flush()

	err = x.storageItemsCSV.Error()
	if err != nil {
		return fmt.Errorf("flush CSV data: %w", err)
	}

	return nil
}

// Close releases underlying resources of the Creator and makes it unusable.
func (x *Creator) Close() {
	x.close()
}
