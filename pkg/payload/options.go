package payload

import (
	"fmt"

	"github.com/Layr-Labs/sui-operator-go/pkg/jsonrpc"
)

// TransactionBlockResponseOptions selects which sections the gateway returns after execution.
type TransactionBlockResponseOptions struct {
	ShowInput          bool `json:"showInput"`
	ShowRawInput       bool `json:"showRawInput"`
	ShowEffects        bool `json:"showEffects"`
	ShowEvents         bool `json:"showEvents"`
	ShowObjectChanges  bool `json:"showObjectChanges"`
	ShowBalanceChanges bool `json:"showBalanceChanges"`
}

func DefaultTransactionBlockResponseOptions() *TransactionBlockResponseOptions {
	return &TransactionBlockResponseOptions{
		ShowInput:          true,
		ShowRawInput:       true,
		ShowEffects:        true,
		ShowEvents:         true,
		ShowObjectChanges:  true,
		ShowBalanceChanges: true,
	}
}

// ObjectDataOptions selects the object fields returned by object queries.
type ObjectDataOptions struct {
	ShowType                bool `json:"showType"`
	ShowOwner               bool `json:"showOwner"`
	ShowPreviousTransaction bool `json:"showPreviousTransaction"`
	ShowDisplay             bool `json:"showDisplay"`
	ShowContent             bool `json:"showContent"`
	ShowBcs                 bool `json:"showBcs"`
	ShowStorageRebate       bool `json:"showStorageRebate"`
}

// DefaultObjectDataOptions shows everything except the storage rebate.
func DefaultObjectDataOptions() *ObjectDataOptions {
	return &ObjectDataOptions{
		ShowType:                true,
		ShowOwner:               true,
		ShowPreviousTransaction: true,
		ShowDisplay:             true,
		ShowContent:             true,
		ShowBcs:                 true,
	}
}

type filterKind int

const (
	filterMatchNone filterKind = iota
	filterMatchAll
	filterMatchAny
	filterPackage
	filterMoveModule
	filterStructType
)

// QueryFilter narrows owned-object queries. The zero value is MatchNone([]).
// Each variant serializes as a single-key object, e.g. {"Package":"0x2"}.
type QueryFilter struct {
	kind    filterKind
	value   string
	module  string
	filters []QueryFilter
}

func MatchAll(filters ...QueryFilter) QueryFilter {
	return QueryFilter{kind: filterMatchAll, filters: filters}
}

func MatchAny(filters ...QueryFilter) QueryFilter {
	return QueryFilter{kind: filterMatchAny, filters: filters}
}

func MatchNone(filters ...QueryFilter) QueryFilter {
	return QueryFilter{kind: filterMatchNone, filters: filters}
}

func PackageFilter(pkg string) QueryFilter {
	return QueryFilter{kind: filterPackage, value: pkg}
}

func MoveModuleFilter(pkg, module string) QueryFilter {
	return QueryFilter{kind: filterMoveModule, value: pkg, module: module}
}

func StructTypeFilter(structType string) QueryFilter {
	return QueryFilter{kind: filterStructType, value: structType}
}

func (f QueryFilter) MarshalJSON() ([]byte, error) {
	var body interface{}
	var key string

	switch f.kind {
	case filterMatchAll, filterMatchAny, filterMatchNone:
		nested := f.filters
		if nested == nil {
			nested = []QueryFilter{}
		}
		body = nested
		key = map[filterKind]string{
			filterMatchAll:  "MatchAll",
			filterMatchAny:  "MatchAny",
			filterMatchNone: "MatchNone",
		}[f.kind]
	case filterPackage:
		key, body = "Package", f.value
	case filterMoveModule:
		key = "MoveModule"
		body = struct {
			Package string `json:"package"`
			Module  string `json:"module"`
		}{Package: f.value, Module: f.module}
	case filterStructType:
		key, body = "StructType", f.value
	default:
		return nil, fmt.Errorf("unknown query filter kind %d", f.kind)
	}

	return jsonrpc.Marshal(map[string]interface{}{key: body})
}

// ObjectResponseQuery is the second positional parameter of suix_getOwnedObjects.
type ObjectResponseQuery struct {
	Options *ObjectDataOptions `json:"options"`
	Filter  QueryFilter        `json:"filter"`
}

func DefaultObjectResponseQuery() *ObjectResponseQuery {
	return &ObjectResponseQuery{Options: DefaultObjectDataOptions(), Filter: MatchNone()}
}

func QueryByPackage(pkg string) *ObjectResponseQuery {
	return &ObjectResponseQuery{Options: DefaultObjectDataOptions(), Filter: MatchAll(PackageFilter(pkg))}
}

func QueryByModule(pkg, module string) *ObjectResponseQuery {
	return &ObjectResponseQuery{Options: DefaultObjectDataOptions(), Filter: MatchAll(MoveModuleFilter(pkg, module))}
}

func QueryByStructType(structType string) *ObjectResponseQuery {
	return &ObjectResponseQuery{Options: DefaultObjectDataOptions(), Filter: MatchAll(StructTypeFilter(structType))}
}
