// Package intent frames messages with the three-byte intent prefix and hashes them into the
// 32-byte digest that is actually signed.
package intent

import (
	"fmt"

	"github.com/Layr-Labs/sui-operator-go/pkg/suiErrors"
	"golang.org/x/crypto/blake2b"
)

type Scope uint8

const (
	ScopeTransactionData    Scope = 0
	ScopeTransactionEffects Scope = 1
	ScopeCheckpointSummary  Scope = 2
	ScopePersonalMessage    Scope = 3
)

func (s Scope) String() string {
	switch s {
	case ScopeTransactionData:
		return "TransactionData"
	case ScopeTransactionEffects:
		return "TransactionEffects"
	case ScopeCheckpointSummary:
		return "CheckpointSummary"
	case ScopePersonalMessage:
		return "PersonalMessage"
	default:
		return fmt.Sprintf("Scope(%d)", uint8(s))
	}
}

type Version uint8

const V0 Version = 0

type AppId uint8

const AppIdSui AppId = 0

const (
	PrefixLength = 3
	DigestLength = blake2b.Size256
)

type Digest [DigestLength]byte

// Intent is the prefix prepended to every signed message.
type Intent struct {
	Scope   Scope
	Version Version
	AppId   AppId
}

func ForScope(scope Scope) Intent {
	return Intent{Scope: scope, Version: V0, AppId: AppIdSui}
}

func (i Intent) Bytes() [PrefixLength]byte {
	return [PrefixLength]byte{byte(i.Scope), byte(i.Version), byte(i.AppId)}
}

// ParseIntent reads the intent prefix of a framed message.
func ParseIntent(framed []byte) (Intent, []byte, error) {
	if len(framed) < PrefixLength {
		return Intent{}, nil, suiErrors.DecodeFailure("framed message is %d bytes, shorter than the intent prefix", len(framed))
	}
	i := Intent{
		Scope:   Scope(framed[0]),
		Version: Version(framed[1]),
		AppId:   AppId(framed[2]),
	}
	return i, framed[PrefixLength:], nil
}

// Frame returns [scope, version, app id] ++ msg. The input slice is not modified.
func Frame(scope Scope, msg []byte) []byte {
	prefix := ForScope(scope).Bytes()
	out := make([]byte, 0, PrefixLength+len(msg))
	out = append(out, prefix[:]...)
	return append(out, msg...)
}

// Hash is a single blake2b-256 pass over the whole framed buffer.
func Hash(framed []byte) Digest {
	return blake2b.Sum256(framed)
}

// MessageDigest frames msg under scope and hashes it.
func MessageDigest(scope Scope, msg []byte) Digest {
	return Hash(Frame(scope, msg))
}
