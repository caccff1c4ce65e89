package types

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/Layr-Labs/sui-operator-go/pkg/jsonrpc"
	"github.com/Layr-Labs/sui-operator-go/pkg/suiErrors"
	"github.com/mr-tron/base58"
)

const DigestLength = 32

type InputObjectKind int

const (
	InputObjectUnknown InputObjectKind = iota
	InputMovePackage
	InputImmOrOwnedMoveObject
	InputSharedMoveObject
)

type SharedObjectInput struct {
	ID                   string         `json:"id"`
	InitialSharedVersion SequenceNumber `json:"initial_shared_version"`
	Mutable              bool           `json:"mutable"`
}

// InputObject is one entry of the inputObjects list of an unsigned transaction:
// {"MovePackage":"0x.."}, {"ImmOrOwnedMoveObject":{..}} or {"SharedMoveObject":{..}}.
type InputObject struct {
	Kind      InputObjectKind
	PackageID string
	Object    ObjectRef
	Shared    SharedObjectInput
	Raw       json.RawMessage
}

func (i *InputObject) UnmarshalJSON(data []byte) error {
	*i = InputObject{}

	var fields map[string]json.RawMessage
	if err := jsonrpc.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("input object must be an object: %w", err)
	}
	if raw, ok := fields["MovePackage"]; ok {
		i.Kind = InputMovePackage
		return jsonrpc.Unmarshal(raw, &i.PackageID)
	}
	if raw, ok := fields["ImmOrOwnedMoveObject"]; ok {
		i.Kind = InputImmOrOwnedMoveObject
		return jsonrpc.Unmarshal(raw, &i.Object)
	}
	if raw, ok := fields["SharedMoveObject"]; ok {
		i.Kind = InputSharedMoveObject
		return jsonrpc.Unmarshal(raw, &i.Shared)
	}
	i.Raw = append(json.RawMessage{}, bytes.TrimSpace(data)...)
	return nil
}

func (i InputObject) MarshalJSON() ([]byte, error) {
	switch i.Kind {
	case InputMovePackage:
		return jsonrpc.Marshal(map[string]string{"MovePackage": i.PackageID})
	case InputImmOrOwnedMoveObject:
		return jsonrpc.Marshal(map[string]ObjectRef{"ImmOrOwnedMoveObject": i.Object})
	case InputSharedMoveObject:
		return jsonrpc.Marshal(map[string]SharedObjectInput{"SharedMoveObject": i.Shared})
	default:
		if len(i.Raw) == 0 {
			return []byte("null"), nil
		}
		return i.Raw, nil
	}
}

// UnsafeTransactionResult is an unsigned transaction returned by the unsafe_* methods.
type UnsafeTransactionResult struct {
	TxBytes      string        `json:"txBytes"`
	Gas          []ObjectRef   `json:"gas"`
	InputObjects []InputObject `json:"inputObjects"`
}

// Bytes decodes the base64 transaction data.
func (u *UnsafeTransactionResult) Bytes() ([]byte, error) {
	if u.TxBytes == "" {
		return nil, suiErrors.EmptyInput("transaction bytes")
	}
	raw, err := base64.StdEncoding.DecodeString(u.TxBytes)
	if err != nil {
		return nil, suiErrors.DecodeFailure("invalid transaction bytes base64: %v", err)
	}
	return raw, nil
}

type ExecutionStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type GasCostSummary struct {
	ComputationCost         string `json:"computationCost"`
	StorageCost             string `json:"storageCost"`
	StorageRebate           string `json:"storageRebate"`
	NonRefundableStorageFee string `json:"nonRefundableStorageFee"`
}

// NetCost is computation + storage - rebate. It is negative when the rebate wins.
func (g *GasCostSummary) NetCost() (int64, error) {
	var total int64
	for _, f := range []struct {
		value string
		sign  int64
	}{
		{g.ComputationCost, 1},
		{g.StorageCost, 1},
		{g.StorageRebate, -1},
	} {
		if f.value == "" {
			continue
		}
		v, err := strconv.ParseInt(f.value, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid gas cost %q: %w", f.value, err)
		}
		total += f.sign * v
	}
	return total, nil
}

type TransactionEffects struct {
	MessageVersion     string           `json:"messageVersion"`
	Status             ExecutionStatus  `json:"status"`
	ExecutedEpoch      string           `json:"executedEpoch"`
	GasUsed            GasCostSummary   `json:"gasUsed"`
	ModifiedAtVersions []ObjectVersion  `json:"modifiedAtVersions"`
	TransactionDigest  string           `json:"transactionDigest"`
	Created            []OwnedObjectRef `json:"created,omitempty"`
	Mutated            []OwnedObjectRef `json:"mutated,omitempty"`
	Unwrapped          []OwnedObjectRef `json:"unwrapped,omitempty"`
	Deleted            []ObjectRef      `json:"deleted,omitempty"`
	Wrapped            []ObjectRef      `json:"wrapped,omitempty"`
	GasObject          OwnedObjectRef   `json:"gasObject"`
	EventsDigest       string           `json:"eventsDigest,omitempty"`
	Dependencies       []string         `json:"dependencies,omitempty"`
}

func (e *TransactionEffects) Succeeded() bool {
	return e.Status.Status == "success"
}

// ImmutableObjectIDs returns the ids of created objects owned by nobody, which is where a
// freshly published package shows up.
func (e *TransactionEffects) ImmutableObjectIDs() []string {
	ids := []string{}
	for _, created := range e.Created {
		if created.Owner.IsImmutable() {
			ids = append(ids, created.Reference.ObjectID)
		}
	}
	return ids
}

// CreatedBy returns created object ids owned by the given address.
func (e *TransactionEffects) CreatedBy(address string) []string {
	ids := []string{}
	for _, created := range e.Created {
		if created.Owner.Kind == OwnerAddress && created.Owner.Address == address {
			ids = append(ids, created.Reference.ObjectID)
		}
	}
	return ids
}

type ObjectChange struct {
	Type            string         `json:"type"`
	Sender          string         `json:"sender,omitempty"`
	Owner           *Owner         `json:"owner,omitempty"`
	ObjectType      string         `json:"objectType,omitempty"`
	ObjectID        string         `json:"objectId,omitempty"`
	PackageID       string         `json:"packageId,omitempty"`
	Modules         []string       `json:"modules,omitempty"`
	Version         SequenceNumber `json:"version"`
	PreviousVersion SequenceNumber `json:"previousVersion,omitempty"`
	Digest          string         `json:"digest,omitempty"`
}

type BalanceChange struct {
	Owner    Owner  `json:"owner"`
	CoinType string `json:"coinType"`
	Amount   string `json:"amount"`
}

// TransactionBlockResponse is the result of sui_executeTransactionBlock. Every section other
// than the digest is optional and depends on the response options that were requested.
type TransactionBlockResponse struct {
	Digest                  string              `json:"digest"`
	Transaction             json.RawMessage     `json:"transaction,omitempty"`
	RawTransaction          string              `json:"rawTransaction,omitempty"`
	Effects                 *TransactionEffects `json:"effects,omitempty"`
	Events                  []json.RawMessage   `json:"events,omitempty"`
	ObjectChanges           []ObjectChange      `json:"objectChanges,omitempty"`
	BalanceChanges          []BalanceChange     `json:"balanceChanges,omitempty"`
	ConfirmedLocalExecution *bool               `json:"confirmedLocalExecution,omitempty"`
	TimestampMs             string              `json:"timestampMs,omitempty"`
	Checkpoint              string              `json:"checkpoint,omitempty"`
	Errors                  []string            `json:"errors,omitempty"`
}

// DigestBytes decodes the base58 transaction digest.
func (r *TransactionBlockResponse) DigestBytes() ([]byte, error) {
	return DecodeDigest(r.Digest)
}

// ImmutableObjectIDs is empty when effects were not returned.
func (r *TransactionBlockResponse) ImmutableObjectIDs() []string {
	if r.Effects == nil {
		return []string{}
	}
	return r.Effects.ImmutableObjectIDs()
}

// PublishedPackageID returns the package id announced in objectChanges, if any.
func (r *TransactionBlockResponse) PublishedPackageID() (string, bool) {
	for _, change := range r.ObjectChanges {
		if change.Type == "published" && change.PackageID != "" {
			return change.PackageID, true
		}
	}
	return "", false
}

func DecodeDigest(digest string) ([]byte, error) {
	if digest == "" {
		return nil, suiErrors.EmptyInput("digest")
	}
	raw, err := base58.Decode(digest)
	if err != nil {
		return nil, suiErrors.DecodeFailure("invalid base58 digest %q: %v", digest, err)
	}
	if len(raw) != DigestLength {
		return nil, suiErrors.DecodeFailure("digest %q is %d bytes, expected %d", digest, len(raw), DigestLength)
	}
	return raw, nil
}
