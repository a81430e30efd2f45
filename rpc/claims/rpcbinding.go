// Package claims contains RPC wrappers for Claims contract.
package claims

import (
	"errors"
	"math/big"

	"github.com/google/uuid"
	"github.com/nspcc-dev/claims-contract/claims/category"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// ErrNotSet is returned by getters of optional contract settings which were
// not configured yet.
var ErrNotSet = errors.New("value is not set")

// Invoker is used by ContractReader to call various safe methods.
type Invoker interface {
	Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error)
	CallAndExpandIterator(contract util.Uint160, method string, maxItems int, params ...any) (*result.Invoke, error)
	TerminateSession(sessionID uuid.UUID) error
	TraverseIterator(sessionID uuid.UUID, iterator *result.Iterator, num int) ([]stackitem.Item, error)
}

// Actor is used by Contract to call state-changing methods.
type Actor interface {
	Invoker

	MakeCall(contract util.Uint160, method string, params ...any) (*transaction.Transaction, error)
	MakeUnsignedCall(contract util.Uint160, method string, attrs []transaction.Attribute, params ...any) (*transaction.Transaction, error)
	SendCall(contract util.Uint160, method string, params ...any) (util.Uint256, uint32, error)
}

// ContractReader implements safe contract methods.
type ContractReader struct {
	invoker Invoker
	hash    util.Uint160
}

// Contract implements all contract methods.
type Contract struct {
	ContractReader
	actor Actor
	hash  util.Uint160
}

// NewReader creates an instance of ContractReader using provided contract hash and the given Invoker.
func NewReader(invoker Invoker, hash util.Uint160) *ContractReader {
	return &ContractReader{invoker, hash}
}

// New creates an instance of Contract using provided contract hash and the given Actor.
func New(actor Actor, hash util.Uint160) *Contract {
	return &Contract{ContractReader{actor, hash}, actor, hash}
}

// Hash returns the contract hash.
func (c *ContractReader) Hash() util.Uint160 {
	return c.hash
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

// Owner invokes `owner` method of contract.
func (c *ContractReader) Owner() (util.Uint160, error) {
	return unwrap.Uint160(c.invoker.Call(c.hash, "owner"))
}

// ClaimToken invokes `claimToken` method of contract. It returns ErrNotSet
// if the token is not set yet.
func (c *ContractReader) ClaimToken() (util.Uint160, error) {
	return optionalUint160(c.invoker.Call(c.hash, "claimToken"))
}

// FactoryAddress invokes `factoryAddress` method of contract. It returns
// ErrNotSet if the factory is not set yet.
func (c *ContractReader) FactoryAddress() (util.Uint160, error) {
	return optionalUint160(c.invoker.Call(c.hash, "factoryAddress"))
}

// IsPaused invokes `isPaused` method of contract.
func (c *ContractReader) IsPaused() (bool, error) {
	return unwrap.Bool(c.invoker.Call(c.hash, "isPaused"))
}

// IsPrivileged invokes `isPrivileged` method of contract.
func (c *ContractReader) IsPrivileged(addr util.Uint160) (bool, error) {
	return unwrap.Bool(c.invoker.Call(c.hash, "isPrivileged", addr))
}

// HasDepositRights invokes `hasDepositRights` method of contract.
func (c *ContractReader) HasDepositRights(addr util.Uint160) (bool, error) {
	return unwrap.Bool(c.invoker.Call(c.hash, "hasDepositRights", addr))
}

// IsAuthorizedThirdParty invokes `isAuthorizedThirdParty` method of contract.
func (c *ContractReader) IsAuthorizedThirdParty(addr util.Uint160) (bool, error) {
	return unwrap.Bool(c.invoker.Call(c.hash, "isAuthorizedThirdParty", addr))
}

// PrivilegedAddresses invokes `privilegedAddresses` method of contract.
func (c *ContractReader) PrivilegedAddresses() ([]util.Uint160, error) {
	return unwrap.ArrayOfUint160(c.invoker.Call(c.hash, "privilegedAddresses"))
}

// DepositorAddresses invokes `depositorAddresses` method of contract.
func (c *ContractReader) DepositorAddresses() ([]util.Uint160, error) {
	return unwrap.ArrayOfUint160(c.invoker.Call(c.hash, "depositorAddresses"))
}

// AuthorizedThirdParties invokes `authorizedThirdParties` method of contract.
func (c *ContractReader) AuthorizedThirdParties() ([]util.Uint160, error) {
	return unwrap.ArrayOfUint160(c.invoker.Call(c.hash, "authorizedThirdParties"))
}

// ViewClaim invokes `viewClaim` method of contract.
func (c *ContractReader) ViewClaim(addr util.Uint160, cat category.Category) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "viewClaim", addr, int64(cat)))
}

// ViewClaimModifyDate invokes `viewClaimModifyDate` method of contract.
func (c *ContractReader) ViewClaimModifyDate(addr util.Uint160, cat category.Category) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "viewClaimModifyDate", addr, int64(cat)))
}

// ViewClaims invokes `viewClaims` method of contract.
func (c *ContractReader) ViewClaims(addr util.Uint160) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "viewClaims", addr))
}

// ViewClaimsWithDate invokes `viewClaimsWithDate` method of contract.
// Claims are returned in category order.
func (c *ContractReader) ViewClaimsWithDate(addr util.Uint160) ([]*Claim, error) {
	return itemToClaims(unwrap.Item(c.invoker.Call(c.hash, "viewClaimsWithDate", addr)))
}

// ViewThirdPartyNativeClaim invokes `viewThirdPartyNativeClaim` method of contract.
func (c *ContractReader) ViewThirdPartyNativeClaim(addr util.Uint160) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "viewThirdPartyNativeClaim", addr))
}

// ViewThirdPartyTokenClaims invokes `viewThirdPartyTokenClaims` method of contract.
func (c *ContractReader) ViewThirdPartyTokenClaims(addr util.Uint160) ([]*TokenClaim, error) {
	return itemToTokenClaims(unwrap.Item(c.invoker.Call(c.hash, "viewThirdPartyTokenClaims", addr)))
}

// IterateThirdPartyTokenClaims invokes `iterateThirdPartyTokenClaims` method of contract.
func (c *ContractReader) IterateThirdPartyTokenClaims(addr util.Uint160) (uuid.UUID, result.Iterator, error) {
	return unwrap.SessionIterator(c.invoker.Call(c.hash, "iterateThirdPartyTokenClaims", addr))
}

// IterateThirdPartyTokenClaimsExpanded is similar to IterateThirdPartyTokenClaims (uses the same contract
// method), but can be useful if the server used doesn't support sessions and
// doesn't expand iterators. It creates a script that will get the specified
// number of result items from the iterator right in the VM and return them to
// you. It's only limited by VM stack and GAS available for RPC invocations.
func (c *ContractReader) IterateThirdPartyTokenClaimsExpanded(addr util.Uint160, _numOfIteratorItems int) ([]*TokenClaim, error) {
	arr, err := unwrap.Array(c.invoker.CallAndExpandIterator(c.hash, "iterateThirdPartyTokenClaims", _numOfIteratorItems, addr))
	return itemToTokenClaims(stackitem.NewArray(arr), err)
}

// TraverseTokenClaims fetches the next batch of items from the iterator
// returned by IterateThirdPartyTokenClaims. An empty result means that the
// iterator is exhausted.
func (c *ContractReader) TraverseTokenClaims(sessionID uuid.UUID, iter *result.Iterator, num int) ([]*TokenClaim, error) {
	items, err := c.invoker.TraverseIterator(sessionID, iter, num)
	if err != nil {
		return nil, err
	}
	return itemToTokenClaims(stackitem.NewArray(items), nil)
}

// TerminateSession closes iterator session opened by
// IterateThirdPartyTokenClaims.
func (c *ContractReader) TerminateSession(sessionID uuid.UUID) error {
	return c.invoker.TerminateSession(sessionID)
}

// ViewThirdPartyClaimModifyDate invokes `viewThirdPartyClaimModifyDate` method of contract.
func (c *ContractReader) ViewThirdPartyClaimModifyDate(addr util.Uint160, token util.Uint160) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "viewThirdPartyClaimModifyDate", addr, token))
}

// ViewFactoryData invokes `viewFactoryData` method of contract.
func (c *ContractReader) ViewFactoryData() (*FactoryData, error) {
	return itemToFactoryData(unwrap.Item(c.invoker.Call(c.hash, "viewFactoryData")))
}

// ViewClaimsData invokes `viewClaimsData` method of contract.
func (c *ContractReader) ViewClaimsData(addr util.Uint160) (*ClaimsData, error) {
	return itemToClaimsData(unwrap.Item(c.invoker.Call(c.hash, "viewClaimsData", addr)))
}

func optionalUint160(r *result.Invoke, err error) (util.Uint160, error) {
	item, err := unwrap.Item(r, err)
	if err != nil {
		return util.Uint160{}, err
	}
	if _, ok := item.(stackitem.Null); ok {
		return util.Uint160{}, ErrNotSet
	}
	return itemToUint160(item)
}

// Update creates a transaction invoking `update` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Update(nefFile []byte, manifest []byte, data any) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "update", nefFile, manifest, data)
}

// UpdateUnsigned creates a transaction invoking `update` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) UpdateUnsigned(nefFile []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "update", nil, nefFile, manifest, data)
}

// SetClaimToken creates a transaction invoking `setClaimToken` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SetClaimToken(token util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "setClaimToken", token)
}

// SetClaimTokenTransaction creates a transaction invoking `setClaimToken` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SetClaimTokenTransaction(token util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "setClaimToken", token)
}

// SetFactoryAddress creates a transaction invoking `setFactoryAddress` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SetFactoryAddress(addr util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "setFactoryAddress", addr)
}

// SetFactoryAddressTransaction creates a transaction invoking `setFactoryAddress` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SetFactoryAddressTransaction(addr util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "setFactoryAddress", addr)
}

// Pause creates a transaction invoking `pause` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Pause(caller util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "pause", caller)
}

// Unpause creates a transaction invoking `unpause` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Unpause() (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "unpause")
}

// AddPrivilegedAddress creates a transaction invoking `addPrivilegedAddress` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) AddPrivilegedAddress(addr util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "addPrivilegedAddress", addr)
}

// RemovePrivilegedAddress creates a transaction invoking `removePrivilegedAddress` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) RemovePrivilegedAddress(addr util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "removePrivilegedAddress", addr)
}

// AddDepositorAddress creates a transaction invoking `addDepositorAddress` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) AddDepositorAddress(addr util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "addDepositorAddress", addr)
}

// RemoveDepositorAddress creates a transaction invoking `removeDepositorAddress` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) RemoveDepositorAddress(addr util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "removeDepositorAddress", addr)
}

// AuthorizeThirdParty creates a transaction invoking `authorizeThirdParty` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) AuthorizeThirdParty(addr util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "authorizeThirdParty", addr)
}

// UnauthorizeThirdParty creates a transaction invoking `unauthorizeThirdParty` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) UnauthorizeThirdParty(addr util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "unauthorizeThirdParty", addr)
}

// RemoveClaim creates a transaction invoking `removeClaim` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) RemoveClaim(addr util.Uint160, cat category.Category, amount *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "removeClaim", addr, int64(cat), amount)
}

// RemoveClaimTransaction creates a transaction invoking `removeClaim` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) RemoveClaimTransaction(addr util.Uint160, cat category.Category, amount *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "removeClaim", addr, int64(cat), amount)
}

// RemoveClaims creates a transaction invoking `removeClaims` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) RemoveClaims(items []ClaimItem) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "removeClaims", claimItemsToParams(items))
}

// RemoveClaimsTransaction creates a transaction invoking `removeClaims` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) RemoveClaimsTransaction(items []ClaimItem) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "removeClaims", claimItemsToParams(items))
}

// Claim creates a transaction invoking `claim` method of the contract
// collecting claims of the account in the given category.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Claim(account util.Uint160, cat category.Category) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "claim", account, int64(cat))
}

// ClaimAll creates a transaction invoking `claim` method of the contract
// collecting claims of the account in all categories.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) ClaimAll(account util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "claim", account, nil)
}

// ClaimThirdParty creates a transaction invoking `claimThirdParty` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) ClaimThirdParty(account util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "claimThirdParty", account)
}

// ClaimThirdPartyUnsigned creates a transaction invoking `claimThirdParty` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) ClaimThirdPartyUnsigned(account util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "claimThirdParty", nil, account)
}
