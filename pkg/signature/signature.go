package signature

import (
	"crypto/ed25519"
	"encoding/base64"
	"fmt"

	"github.com/Layr-Labs/sui-operator-go/pkg/intent"
	"github.com/Layr-Labs/sui-operator-go/pkg/suiErrors"
)

// Scheme is the one-byte signature scheme flag that leads every serialized signature.
type Scheme uint8

const (
	SchemeED25519   Scheme = 0x00
	SchemeSecp256k1 Scheme = 0x01
	SchemeSecp256r1 Scheme = 0x02
	SchemeMultiSig  Scheme = 0x03
)

func (s Scheme) String() string {
	switch s {
	case SchemeED25519:
		return "ed25519"
	case SchemeSecp256k1:
		return "secp256k1"
	case SchemeSecp256r1:
		return "secp256r1"
	case SchemeMultiSig:
		return "multisig"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(s))
	}
}

func (s Scheme) Valid() bool {
	return s <= SchemeMultiSig
}

// Sizes returns the signature and public key lengths for the scheme. Only ed25519 is
// implemented; ok is false for the rest.
func (s Scheme) Sizes() (sigSize int, pubKeySize int, ok bool) {
	switch s {
	case SchemeED25519:
		return ed25519.SignatureSize, ed25519.PublicKeySize, true
	default:
		return 0, 0, false
	}
}

func ParseScheme(b byte) (Scheme, error) {
	s := Scheme(b)
	if !s.Valid() {
		return 0, suiErrors.DecodeFailure("unknown signature scheme flag 0x%02x", b)
	}
	return s, nil
}

// Signer is anything that can sign a 32-byte intent digest.
type Signer interface {
	Scheme() Scheme
	PublicKey() ed25519.PublicKey
	SignDigest(digest intent.Digest) []byte
}

// Envelope is the wire form of a signature: [scheme] ++ signature ++ public key.
type Envelope struct {
	Scheme    Scheme
	Signature []byte
	PublicKey []byte
}

func (e *Envelope) Bytes() []byte {
	out := make([]byte, 0, 1+len(e.Signature)+len(e.PublicKey))
	out = append(out, byte(e.Scheme))
	out = append(out, e.Signature...)
	return append(out, e.PublicKey...)
}

func (e *Envelope) Base64() string {
	return base64.StdEncoding.EncodeToString(e.Bytes())
}

func (e *Envelope) String() string {
	return e.Base64()
}

// FromBytes splits a serialized envelope back into its parts.
func FromBytes(raw []byte) (*Envelope, error) {
	if len(raw) == 0 {
		return nil, suiErrors.DecodeFailure("empty signature envelope")
	}
	scheme, err := ParseScheme(raw[0])
	if err != nil {
		return nil, err
	}
	sigSize, pubSize, ok := scheme.Sizes()
	if !ok {
		return nil, suiErrors.DecodeFailure("unsupported signature scheme %s", scheme)
	}
	if len(raw) != 1+sigSize+pubSize {
		return nil, suiErrors.DecodeFailure("%s envelope must be %d bytes, got %d", scheme, 1+sigSize+pubSize, len(raw))
	}

	sig := make([]byte, sigSize)
	copy(sig, raw[1:1+sigSize])
	pub := make([]byte, pubSize)
	copy(pub, raw[1+sigSize:])

	return &Envelope{Scheme: scheme, Signature: sig, PublicKey: pub}, nil
}

// Parse decodes a base64 envelope.
func Parse(b64 string) (*Envelope, error) {
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, suiErrors.DecodeFailure("invalid signature base64: %v", err)
	}
	return FromBytes(raw)
}

// Sign signs the digest, never the raw message, and wraps the result.
func Sign(signer Signer, digest intent.Digest) (*Envelope, error) {
	if signer == nil {
		return nil, suiErrors.EmptyInput("signer")
	}
	scheme := signer.Scheme()
	if _, _, ok := scheme.Sizes(); !ok {
		return nil, fmt.Errorf("signing with scheme %s is not supported", scheme)
	}
	return &Envelope{
		Scheme:    scheme,
		Signature: signer.SignDigest(digest),
		PublicKey: []byte(signer.PublicKey()),
	}, nil
}

// SignMessage frames msg under scope, hashes it and signs the digest.
func SignMessage(signer Signer, scope intent.Scope, msg []byte) (*Envelope, error) {
	return Sign(signer, intent.MessageDigest(scope, msg))
}

// Verify checks an ed25519 envelope against msg framed under scope.
func Verify(env *Envelope, scope intent.Scope, msg []byte) bool {
	if env == nil || env.Scheme != SchemeED25519 {
		return false
	}
	if len(env.PublicKey) != ed25519.PublicKeySize || len(env.Signature) != ed25519.SignatureSize {
		return false
	}
	digest := intent.MessageDigest(scope, msg)
	return ed25519.Verify(ed25519.PublicKey(env.PublicKey), digest[:], env.Signature)
}
