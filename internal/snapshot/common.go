package snapshot

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
)

// ID is a unique identifier of the snapshot.
type ID struct {
	// Label of the snapshot source (e.g. testnet, mainnet).
	Label string
	// Blockchain height at which the state was pulled.
	Block uint32
}

// String returns hyphen-separated ID fields.
func (x ID) String() string {
	return x.Label + sep + strconv.FormatUint(uint64(x.Block), 10)
}

// decodes ID fields from the hyphen-separated file name. Label can contain
// separators itself, so block number is the penultimate word.
func (x *ID) decodeString(s string) error {
	ss := strings.Split(s, sep)
	if len(ss) < 3 {
		return fmt.Errorf("expected '%s'-separated string with at least 3 items", sep)
	}

	n, err := strconv.ParseUint(ss[len(ss)-2], 10, 32)
	if err != nil {
		return fmt.Errorf("decode block number from '%s': %w", ss[len(ss)-2], err)
	}

	x.Label = strings.Join(ss[:len(ss)-2], sep)
	x.Block = uint32(n)

	return nil
}

// global encoding of binary values.
var _encoding = base64.StdEncoding

// snapshotContractState is a JSON-encoded information about the contract.
type snapshotContractState struct {
	Name  string         `json:"name"`
	State state.Contract `json:"state"`
}

// streams groups data streams for contract state and storage.
type streams struct {
	contract, storageItems io.ReadWriteCloser
}

func (x *streams) close() {
	_ = x.storageItems.Close()
	_ = x.contract.Close()
}

const (
	// word separator used in file naming
	sep = "-"
	// suffix of file with contract state
	stateFileSuffix = "contract.json"
	// suffix of file with storage items
	storageFileSuffix = "storage.csv"
)

func fileName(id ID, suffix string) string {
	return id.String() + sep + suffix
}

// initStreams opens data streams for the snapshot files located in the
// specified directory. If read flag is set, streams are read-only. Otherwise,
// files must not exist, and streams are write only.
func initStreams(s *streams, dir string, id ID, read bool) error {
	var err error

	pathStorage := filepath.Join(dir, fileName(id, storageFileSuffix))
	pathContract := filepath.Join(dir, fileName(id, stateFileSuffix))

	var flag int
	var perm os.FileMode

	if read {
		flag = os.O_RDONLY
	} else {
		for _, p := range []string{pathStorage, pathContract} {
			if err = checkFileNotExists(p); err != nil {
				return err
			}
		}
		flag = os.O_CREATE | os.O_WRONLY
		perm = 0600
	}

	s.storageItems, err = os.OpenFile(pathStorage, flag, perm)
	if err != nil {
		return fmt.Errorf("open file with storage items: %w", err)
	}

	s.contract, err = os.OpenFile(pathContract, flag, perm)
	if err != nil {
		_ = s.storageItems.Close()
		return fmt.Errorf("open file with contract state: %w", err)
	}

	return nil
}

// checkFileNotExists checks that there is no file at the specified path.
func checkFileNotExists(p string) error {
	_, err := os.Stat(p)
	if !os.IsNotExist(err) {
		if err == nil {
			err = os.ErrExist
		}
		return fmt.Errorf("file '%s' absence check failed: %w", p, err)
	}
	return nil
}
