package cli

import (
	"context"
	"fmt"

	"github.com/nspcc-dev/claims-contract/rpc/claims"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/invoker"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// remote is a connection to Neo RPC node serving the claims contract.
type remote struct {
	rpc    *rpcclient.Client
	reader *claims.ContractReader
	hash   util.Uint160
	log    *zap.Logger
}

// dial resolves configuration and connects to the configured RPC node.
// Connection and all requests are done within configured timeout.
func dial(ctx context.Context) (*remote, error) {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return nil, err
	}

	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	hash, err := cfg.validate()
	if err != nil {
		return nil, err
	}

	c, err := rpcclient.New(ctx, cfg.RPC, rpcclient.Options{
		DialTimeout:    cfg.Timeout,
		RequestTimeout: cfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("RPC client dial: %w", err)
	}

	log.Debug("connected to RPC node",
		zap.String("endpoint", cfg.RPC),
		zap.Stringer("contract", hash))

	return &remote{
		rpc:    c,
		reader: claims.NewReader(invoker.New(c, nil), hash),
		hash:   hash,
		log:    log,
	}, nil
}

func (x *remote) close() {
	x.rpc.Close()
	_ = x.log.Sync()
}

// iterateContractStorage iterates over all storage items of the claims
// contract at the given height and passes them into f. It breaks on any f's
// error and returns it.
func (x *remote) iterateContractStorage(height uint32, f func(key, value []byte) error) error {
	stateRoot, err := x.rpc.GetStateRootByHeight(height)
	if err != nil {
		return fmt.Errorf("get state root at block #%d: %w", height, err)
	}

	var (
		start []byte
		pages int
	)

	for {
		res, err := x.rpc.FindStates(stateRoot.Root, x.hash, nil, start, nil)
		if err != nil {
			return fmt.Errorf("get historical storage items at state root '%s': %w", stateRoot.Root, err)
		}
		pages++

		for i := range res.Results {
			err = f(res.Results[i].Key, res.Results[i].Value)
			if err != nil {
				return err
			}
		}

		if !res.Truncated {
			x.log.Debug("contract storage traversed", zap.Int("pages", pages))
			return nil
		}

		start = res.Results[len(res.Results)-1].Key
	}
}
