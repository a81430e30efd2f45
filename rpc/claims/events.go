package claims

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/nspcc-dev/claims-contract/claims/category"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// Event names emitted by the contract.
const (
	ClaimAddedEventName               = "ClaimAdded"
	ClaimRemovedEventName             = "ClaimRemoved"
	ClaimCollectedEventName           = "ClaimCollected"
	AllClaimsCollectedEventName       = "AllClaimsCollected"
	ThirdPartyClaimAddedEventName     = "ThirdPartyClaimAdded"
	ThirdPartyClaimCollectedEventName = "ThirdPartyClaimCollected"
	PrivilegedAddressAddedEventName   = "PrivilegedAddressAdded"
	PrivilegedAddressRemovedEventName = "PrivilegedAddressRemoved"
	DepositorAddressAddedEventName    = "DepositorAddressAdded"
	DepositorAddressRemovedEventName  = "DepositorAddressRemoved"
	ThirdPartyAuthorizedEventName     = "ThirdPartyAuthorized"
	ThirdPartyUnauthorizedEventName   = "ThirdPartyUnauthorized"
	HarvestPausedEventName            = "HarvestPaused"
	HarvestUnpausedEventName          = "HarvestUnpaused"
)

// ClaimAddedEvent represents "ClaimAdded" event emitted by the contract.
type ClaimAddedEvent struct {
	Operator util.Uint160
	Address  util.Uint160
	Category category.Category
	Amount   *big.Int
}

// ClaimEvent represents "ClaimRemoved" and "ClaimCollected" events emitted
// by the contract.
type ClaimEvent struct {
	Address  util.Uint160
	Category category.Category
	Amount   *big.Int
}

// AllClaimsCollectedEvent represents "AllClaimsCollected" event emitted by
// the contract.
type AllClaimsCollectedEvent struct {
	Address util.Uint160
	Amount  *big.Int
}

// ThirdPartyClaimEvent represents "ThirdPartyClaimAdded" and
// "ThirdPartyClaimCollected" events emitted by the contract.
type ThirdPartyClaimEvent struct {
	Address util.Uint160
	Token   util.Uint160
	Amount  *big.Int
}

// RoleEvent represents role registry events emitted by the contract, Name
// is one of the role event names.
type RoleEvent struct {
	Name    string
	Address util.Uint160
}

// PauseEvent represents "HarvestPaused" and "HarvestUnpaused" events emitted
// by the contract. Caller is set for "HarvestPaused" only.
type PauseEvent struct {
	Paused bool
	Caller util.Uint160
}

var roleEventNames = map[string]struct{}{
	PrivilegedAddressAddedEventName:   {},
	PrivilegedAddressRemovedEventName: {},
	DepositorAddressAddedEventName:    {},
	DepositorAddressRemovedEventName:  {},
	ThirdPartyAuthorizedEventName:     {},
	ThirdPartyUnauthorizedEventName:   {},
}

type eventPtr[T any] interface {
	*T
	FromStackItem(*stackitem.Array) error
}

// eventsFromApplicationLog retrieves all events with one of the given names
// from the provided [result.ApplicationLog].
func eventsFromApplicationLog[T any, PT eventPtr[T]](log *result.ApplicationLog, names ...string) ([]*T, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*T
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if !hasName(names, e.Name) {
				continue
			}
			event := PT(new(T))
			if err := event.FromStackItem(e.Item); err != nil {
				return nil, fmt.Errorf("failed to deserialize %s event from stackitem (execution #%d, event #%d): %w", e.Name, i, j, err)
			}
			res = append(res, (*T)(event))
		}
	}

	return res, nil
}

func hasName(names []string, name string) bool {
	for i := range names {
		if names[i] == name {
			return true
		}
	}
	return false
}

// ClaimAddedEventsFromApplicationLog retrieves a set of all emitted events
// with "ClaimAdded" name from the provided [result.ApplicationLog].
func ClaimAddedEventsFromApplicationLog(log *result.ApplicationLog) ([]*ClaimAddedEvent, error) {
	return eventsFromApplicationLog[ClaimAddedEvent](log, ClaimAddedEventName)
}

// ClaimRemovedEventsFromApplicationLog retrieves a set of all emitted events
// with "ClaimRemoved" name from the provided [result.ApplicationLog].
func ClaimRemovedEventsFromApplicationLog(log *result.ApplicationLog) ([]*ClaimEvent, error) {
	return eventsFromApplicationLog[ClaimEvent](log, ClaimRemovedEventName)
}

// ClaimCollectedEventsFromApplicationLog retrieves a set of all emitted events
// with "ClaimCollected" name from the provided [result.ApplicationLog].
func ClaimCollectedEventsFromApplicationLog(log *result.ApplicationLog) ([]*ClaimEvent, error) {
	return eventsFromApplicationLog[ClaimEvent](log, ClaimCollectedEventName)
}

// AllClaimsCollectedEventsFromApplicationLog retrieves a set of all emitted
// events with "AllClaimsCollected" name from the provided [result.ApplicationLog].
func AllClaimsCollectedEventsFromApplicationLog(log *result.ApplicationLog) ([]*AllClaimsCollectedEvent, error) {
	return eventsFromApplicationLog[AllClaimsCollectedEvent](log, AllClaimsCollectedEventName)
}

// ThirdPartyClaimAddedEventsFromApplicationLog retrieves a set of all emitted
// events with "ThirdPartyClaimAdded" name from the provided [result.ApplicationLog].
func ThirdPartyClaimAddedEventsFromApplicationLog(log *result.ApplicationLog) ([]*ThirdPartyClaimEvent, error) {
	return eventsFromApplicationLog[ThirdPartyClaimEvent](log, ThirdPartyClaimAddedEventName)
}

// ThirdPartyClaimCollectedEventsFromApplicationLog retrieves a set of all
// emitted events with "ThirdPartyClaimCollected" name from the provided
// [result.ApplicationLog].
func ThirdPartyClaimCollectedEventsFromApplicationLog(log *result.ApplicationLog) ([]*ThirdPartyClaimEvent, error) {
	return eventsFromApplicationLog[ThirdPartyClaimEvent](log, ThirdPartyClaimCollectedEventName)
}

// RoleEventsFromApplicationLog retrieves a set of all emitted role registry
// events from the provided [result.ApplicationLog].
func RoleEventsFromApplicationLog(log *result.ApplicationLog) ([]*RoleEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*RoleEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if _, ok := roleEventNames[e.Name]; !ok {
				continue
			}
			event := &RoleEvent{Name: e.Name}
			if err := event.FromStackItem(e.Item); err != nil {
				return nil, fmt.Errorf("failed to deserialize %s event from stackitem (execution #%d, event #%d): %w", e.Name, i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// PauseEventsFromApplicationLog retrieves a set of all emitted pause state
// events from the provided [result.ApplicationLog].
func PauseEventsFromApplicationLog(log *result.ApplicationLog) ([]*PauseEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*PauseEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			var event PauseEvent
			switch e.Name {
			case HarvestPausedEventName:
				event.Paused = true
			case HarvestUnpausedEventName:
			default:
				continue
			}
			if err := event.FromStackItem(e.Item); err != nil {
				return nil, fmt.Errorf("failed to deserialize %s event from stackitem (execution #%d, event #%d): %w", e.Name, i, j, err)
			}
			res = append(res, &event)
		}
	}

	return res, nil
}

func eventFields(item *stackitem.Array, n int) ([]stackitem.Item, error) {
	if item == nil {
		return nil, errors.New("nil item")
	}
	return structFields(item, n)
}

func itemToCategory(item stackitem.Item) (category.Category, error) {
	i, err := item.TryInteger()
	if err != nil {
		return 0, err
	}
	if !i.IsInt64() || !category.IsValid(int(i.Int64())) {
		return 0, fmt.Errorf("invalid category %s", i)
	}
	return category.Category(i.Int64()), nil
}

// FromStackItem converts provided [stackitem.Array] to ClaimAddedEvent or
// returns an error if it's not possible to do to so.
func (e *ClaimAddedEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventFields(item, 4)
	if err != nil {
		return err
	}

	e.Operator, err = itemToUint160(arr[0])
	if err != nil {
		return fmt.Errorf("field Operator: %w", err)
	}

	e.Address, err = itemToUint160(arr[1])
	if err != nil {
		return fmt.Errorf("field Address: %w", err)
	}

	e.Category, err = itemToCategory(arr[2])
	if err != nil {
		return fmt.Errorf("field Category: %w", err)
	}

	e.Amount, err = arr[3].TryInteger()
	if err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}

	return nil
}

// FromStackItem converts provided [stackitem.Array] to ClaimEvent or
// returns an error if it's not possible to do to so.
func (e *ClaimEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventFields(item, 3)
	if err != nil {
		return err
	}

	e.Address, err = itemToUint160(arr[0])
	if err != nil {
		return fmt.Errorf("field Address: %w", err)
	}

	e.Category, err = itemToCategory(arr[1])
	if err != nil {
		return fmt.Errorf("field Category: %w", err)
	}

	e.Amount, err = arr[2].TryInteger()
	if err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}

	return nil
}

// FromStackItem converts provided [stackitem.Array] to
// AllClaimsCollectedEvent or returns an error if it's not possible to do to
// so.
func (e *AllClaimsCollectedEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventFields(item, 2)
	if err != nil {
		return err
	}

	e.Address, err = itemToUint160(arr[0])
	if err != nil {
		return fmt.Errorf("field Address: %w", err)
	}

	e.Amount, err = arr[1].TryInteger()
	if err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}

	return nil
}

// FromStackItem converts provided [stackitem.Array] to ThirdPartyClaimEvent
// or returns an error if it's not possible to do to so.
func (e *ThirdPartyClaimEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventFields(item, 3)
	if err != nil {
		return err
	}

	e.Address, err = itemToUint160(arr[0])
	if err != nil {
		return fmt.Errorf("field Address: %w", err)
	}

	e.Token, err = itemToUint160(arr[1])
	if err != nil {
		return fmt.Errorf("field Token: %w", err)
	}

	e.Amount, err = arr[2].TryInteger()
	if err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}

	return nil
}

// FromStackItem converts provided [stackitem.Array] to RoleEvent or returns
// an error if it's not possible to do to so. Name is not changed.
func (e *RoleEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventFields(item, 1)
	if err != nil {
		return err
	}

	e.Address, err = itemToUint160(arr[0])
	if err != nil {
		return fmt.Errorf("field Address: %w", err)
	}

	return nil
}

// FromStackItem converts provided [stackitem.Array] to PauseEvent or returns
// an error if it's not possible to do to so. Both pause events share the
// type, so Paused must be set before the call.
func (e *PauseEvent) FromStackItem(item *stackitem.Array) error {
	if !e.Paused {
		_, err := eventFields(item, 0)
		return err
	}

	arr, err := eventFields(item, 1)
	if err != nil {
		return err
	}

	e.Caller, err = itemToUint160(arr[0])
	if err != nil {
		return fmt.Errorf("field Caller: %w", err)
	}

	return nil
}
