package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/Layr-Labs/sui-operator-go/pkg/jsonrpc"
)

// SequenceNumber is an object version. The gateway sends it either as a JSON number or as a
// decimal string depending on the endpoint, so both are accepted.
type SequenceNumber uint64

func (s *SequenceNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := jsonrpc.Unmarshal(data, &str); err != nil {
			return err
		}
		if str == "" {
			*s = 0
			return nil
		}
		v, err := strconv.ParseUint(str, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid sequence number %q: %w", str, err)
		}
		*s = SequenceNumber(v)
		return nil
	}
	v, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid sequence number %s: %w", string(data), err)
	}
	*s = SequenceNumber(v)
	return nil
}

func (s SequenceNumber) String() string {
	return strconv.FormatUint(uint64(s), 10)
}

type OwnerKind int

const (
	OwnerUnknown OwnerKind = iota
	OwnerImmutable
	OwnerAddress
	OwnerObject
	OwnerShared
)

func (k OwnerKind) String() string {
	switch k {
	case OwnerImmutable:
		return "Immutable"
	case OwnerAddress:
		return "AddressOwner"
	case OwnerObject:
		return "ObjectOwner"
	case OwnerShared:
		return "Shared"
	default:
		return "Unknown"
	}
}

// Owner is the ownership tag of an object. On the wire it is either a bare string such as
// "Immutable" or a single-key object such as {"AddressOwner":"0x.."}.
type Owner struct {
	Kind OwnerKind

	// Address is set for AddressOwner and ObjectOwner.
	Address string

	// InitialSharedVersion is set for Shared.
	InitialSharedVersion SequenceNumber

	// Raw keeps the original encoding of shapes this client does not model.
	Raw json.RawMessage
}

func ImmutableOwner() Owner {
	return Owner{Kind: OwnerImmutable}
}

func AddressOwner(address string) Owner {
	return Owner{Kind: OwnerAddress, Address: address}
}

func ObjectOwner(objectID string) Owner {
	return Owner{Kind: OwnerObject, Address: objectID}
}

func SharedOwner(initialSharedVersion uint64) Owner {
	return Owner{Kind: OwnerShared, InitialSharedVersion: SequenceNumber(initialSharedVersion)}
}

func (o Owner) IsImmutable() bool {
	return o.Kind == OwnerImmutable
}

func (o Owner) String() string {
	switch o.Kind {
	case OwnerAddress, OwnerObject:
		return fmt.Sprintf("%s(%s)", o.Kind, o.Address)
	case OwnerShared:
		return fmt.Sprintf("Shared(%d)", o.InitialSharedVersion)
	case OwnerImmutable:
		return "Immutable"
	default:
		return string(o.Raw)
	}
}

type sharedOwner struct {
	InitialSharedVersion SequenceNumber `json:"initial_shared_version"`
}

func (o *Owner) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*o = Owner{}

	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if data[0] == '"' {
		var tag string
		if err := jsonrpc.Unmarshal(data, &tag); err != nil {
			return err
		}
		if tag == "Immutable" {
			o.Kind = OwnerImmutable
			return nil
		}
		o.Raw = append(json.RawMessage{}, data...)
		return nil
	}

	var fields map[string]json.RawMessage
	if err := jsonrpc.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("owner must be a string or an object: %w", err)
	}

	if raw, ok := fields["AddressOwner"]; ok {
		o.Kind = OwnerAddress
		return jsonrpc.Unmarshal(raw, &o.Address)
	}
	if raw, ok := fields["ObjectOwner"]; ok {
		o.Kind = OwnerObject
		return jsonrpc.Unmarshal(raw, &o.Address)
	}
	if raw, ok := fields["Shared"]; ok {
		var shared sharedOwner
		if err := jsonrpc.Unmarshal(raw, &shared); err != nil {
			return err
		}
		o.Kind = OwnerShared
		o.InitialSharedVersion = shared.InitialSharedVersion
		return nil
	}

	o.Raw = append(json.RawMessage{}, data...)
	return nil
}

func (o Owner) MarshalJSON() ([]byte, error) {
	switch o.Kind {
	case OwnerImmutable:
		return []byte(`"Immutable"`), nil
	case OwnerAddress:
		return jsonrpc.Marshal(map[string]string{"AddressOwner": o.Address})
	case OwnerObject:
		return jsonrpc.Marshal(map[string]string{"ObjectOwner": o.Address})
	case OwnerShared:
		return jsonrpc.Marshal(map[string]map[string]uint64{
			"Shared": {"initial_shared_version": uint64(o.InitialSharedVersion)},
		})
	default:
		if len(o.Raw) == 0 {
			return []byte("null"), nil
		}
		return o.Raw, nil
	}
}
