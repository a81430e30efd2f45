/*
Claims contract keeps track of funds reserved for addresses and lets these
addresses collect (harvest) them.

Claims are kept per address and per category (see category package) in a
single NEP-17 token set once by the owner. The owner, privileged addresses
and depositors fund claims by transferring claim tokens to the contract with
payment data describing the recipients. Only the owner can remove claims,
removed funds are returned to the owner. Harvesting is blocked while the
contract is paused, contract is paused after deployment.

Contract also keeps a separate ledger of third party royalties. Authorized
third parties transfer GAS or any NEP-17 token to the contract for some
address. A tax is taken from every deposit and transferred to the treasury,
both tax rate (in basis points) and treasury address are provided by the
factory contract at the moment of deposit.

Payments

Claims and royalties are deposited with NEP-17 transfer to the contract with
an array as transfer data:

  ["addClaim", address, category]
  ["addClaims", [[address, category, amount], ...]]
  ["addThirdPartyClaim", address]

Contract notifications

ClaimAdded notification. This notification is produced when a claim is
funded by an operator.

  ClaimAdded:
    - name: operator
      type: Hash160
    - name: address
      type: Hash160
    - name: category
      type: Integer
    - name: amount
      type: Integer

ClaimRemoved notification. This notification is produced when the owner
removes a claim.

  ClaimRemoved:
    - name: address
      type: Hash160
    - name: category
      type: Integer
    - name: amount
      type: Integer

ClaimCollected notification. This notification is produced for every
harvested category.

  ClaimCollected:
    - name: address
      type: Hash160
    - name: category
      type: Integer
    - name: amount
      type: Integer

AllClaimsCollected notification. This notification is produced after all
categories are harvested at once.

  AllClaimsCollected:
    - name: address
      type: Hash160
    - name: amount
      type: Integer

ThirdPartyClaimAdded notification. This notification is produced when third
party royalty is deposited. Amount is the deposit without tax.

  ThirdPartyClaimAdded:
    - name: address
      type: Hash160
    - name: token
      type: Hash160
    - name: amount
      type: Integer

ThirdPartyClaimCollected notification. This notification is produced for
every token (GAS included) transferred on third party royalties harvest.

  ThirdPartyClaimCollected:
    - name: address
      type: Hash160
    - name: token
      type: Hash160
    - name: amount
      type: Integer

PrivilegedAddressAdded, PrivilegedAddressRemoved, DepositorAddressAdded,
DepositorAddressRemoved, ThirdPartyAuthorized and ThirdPartyUnauthorized
notifications are produced on role changes.

  PrivilegedAddressAdded:
    - name: address
      type: Hash160

HarvestPaused and HarvestUnpaused notifications are produced on pause
state changes.

  HarvestPaused:
    - name: caller
      type: Hash160
  HarvestUnpaused:
*/
package claims
