package snapshot

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
)

type kv struct{ k, v []byte }

// Reader reads contract state and storage of the saved snapshot.
type Reader struct {
	contract snapshotContractState
	storage  []kv
}

// List returns IDs of all snapshots found in the specified directory sorted
// by label and block.
func List(dir string) ([]ID, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read directory: %w", err)
	}

	var res []ID
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, sep+stateFileSuffix) {
			continue
		}

		var id ID
		if err := id.decodeString(name); err != nil {
			return nil, fmt.Errorf("decode snapshot ID from file name '%s': %w", name, err)
		}
		res = append(res, id)
	}

	sort.Slice(res, func(i, j int) bool {
		if res[i].Label != res[j].Label {
			return res[i].Label < res[j].Label
		}
		return res[i].Block < res[j].Block
	})

	return res, nil
}

// Open reads snapshot with the given ID from the specified directory.
func Open(dir string, id ID) (*Reader, error) {
	var s streams

	err := initStreams(&s, dir, id, true)
	if err != nil {
		return nil, err
	}
	defer s.close()

	var r Reader
	err = r.fromStreams(s.contract, s.storageItems)
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", id, err)
	}

	return &r, nil
}

func (x *Reader) fromStreams(rContract, rStorageItems io.Reader) error {
	err := json.NewDecoder(rContract).Decode(&x.contract)
	if err != nil {
		return fmt.Errorf("decode contract state from JSON: %w", err)
	}

	_csv := csv.NewReader(rStorageItems)
	_csv.FieldsPerRecord = 2

	for {
		rec, err := _csv.Read()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("read next CSV record: %w", err)
		}

		var item kv

		// out-of-range safety guaranteed by csv settings
		item.k, err = _encoding.DecodeString(rec[0])
		if err != nil {
			return fmt.Errorf("decode storage item key: %w", err)
		}

		item.v, err = _encoding.DecodeString(rec[1])
		if err != nil {
			return fmt.Errorf("decode storage item value: %w", err)
		}

		x.storage = append(x.storage, item)
	}
}

// Contract returns name and state of the saved contract.
func (x *Reader) Contract() (string, state.Contract) {
	return x.contract.Name, x.contract.State
}

// IterateStorage passes all saved storage items into f in the order they
// were written. IterateStorage breaks on any f's error and returns it.
func (x *Reader) IterateStorage(f func(key, value []byte) error) error {
	for i := range x.storage {
		if err := f(x.storage[i].k, x.storage[i].v); err != nil {
			return err
		}
	}
	return nil
}

// Ledger decodes saved storage items into ledger view.
func (x *Reader) Ledger() (*Ledger, error) {
	l := NewLedger()
	if err := x.IterateStorage(l.Apply); err != nil {
		return nil, err
	}
	return l, nil
}
