package account

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"github.com/Layr-Labs/sui-operator-go/pkg/intent"
	"github.com/Layr-Labs/sui-operator-go/pkg/signature"
	"github.com/Layr-Labs/sui-operator-go/pkg/suiErrors"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"
)

const (
	SeedSize = ed25519.SeedSize

	// addressFlag is hashed in front of the public key when deriving an address.
	addressFlag byte = 0x00
)

// Account is an ed25519 keypair and its derived address. It is never mutated after
// construction, so concurrent readers need no locking.
type Account struct {
	privateKey ed25519.PrivateKey
	publicKey  ed25519.PublicKey
	address    string
}

// Compile-time check to ensure Account can sign envelopes
var _ signature.Signer = (*Account)(nil)

// FromSeed builds an account from a 32-byte secret seed.
func FromSeed(seed []byte) (*Account, error) {
	if len(seed) != SeedSize {
		return nil, suiErrors.DecodeFailure("secret key must be %d bytes, got %d", SeedSize, len(seed))
	}
	privateKey := ed25519.NewKeyFromSeed(seed)
	publicKey := privateKey.Public().(ed25519.PublicKey)

	return &Account{
		privateKey: privateKey,
		publicKey:  publicKey,
		address:    DeriveAddress(publicKey),
	}, nil
}

// FromKeystoreRecord decodes a Sui CLI keystore entry: base64 of [scheme flag] ++ seed.
func FromKeystoreRecord(record string) (*Account, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(record))
	if err != nil {
		return nil, suiErrors.DecodeFailure("invalid keystore record base64: %v", err)
	}
	if len(raw) == 0 {
		return nil, suiErrors.DecodeFailure("keystore record is empty")
	}
	scheme, err := signature.ParseScheme(raw[0])
	if err != nil {
		return nil, err
	}
	if scheme != signature.SchemeED25519 {
		return nil, suiErrors.DecodeFailure("keystore record uses unsupported scheme %s", scheme)
	}
	return FromSeed(raw[1:])
}

// FromHexSecret decodes a hex encoded seed. The 0x prefix is optional.
func FromHexSecret(secret string) (*Account, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, suiErrors.EmptyInput("hex secret key")
	}
	if !strings.HasPrefix(secret, "0x") && !strings.HasPrefix(secret, "0X") {
		secret = "0x" + secret
	}
	seed, err := hexutil.Decode(secret)
	if err != nil {
		return nil, suiErrors.DecodeFailure("invalid hex secret key: %v", err)
	}
	return FromSeed(seed)
}

// FromEnv reads a hex seed from the named environment variable.
func FromEnv(name string) (*Account, error) {
	value, ok := os.LookupEnv(name)
	if !ok || strings.TrimSpace(value) == "" {
		return nil, suiErrors.EmptyInput(fmt.Sprintf("environment variable %s", name))
	}
	acct, err := FromHexSecret(value)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load account from %s", name)
	}
	return acct, nil
}

// Generate creates a fresh account from the system CSPRNG.
func Generate() (*Account, error) {
	seed := make([]byte, SeedSize)
	if _, err := rand.Read(seed); err != nil {
		return nil, errors.Wrap(err, "failed to read random seed")
	}
	return FromSeed(seed)
}

// DeriveAddress returns "0x" ++ hex(blake2b-256(0x00 ++ pubkey)).
func DeriveAddress(publicKey ed25519.PublicKey) string {
	buf := make([]byte, 0, 1+len(publicKey))
	buf = append(buf, addressFlag)
	buf = append(buf, publicKey...)
	h := blake2b.Sum256(buf)
	return hexutil.Encode(h[:])
}

func (a *Account) Address() string {
	return a.address
}

func (a *Account) Scheme() signature.Scheme {
	return signature.SchemeED25519
}

// PublicKey returns a copy of the public key.
func (a *Account) PublicKey() ed25519.PublicKey {
	out := make(ed25519.PublicKey, len(a.publicKey))
	copy(out, a.publicKey)
	return out
}

func (a *Account) PublicKeyBase64() string {
	return base64.StdEncoding.EncodeToString(a.publicKey)
}

// Seed returns a copy of the 32-byte secret seed.
func (a *Account) Seed() []byte {
	return append([]byte{}, a.privateKey.Seed()...)
}

func (a *Account) SecretHex() string {
	return hexutil.Encode(a.privateKey.Seed())
}

// KeystoreRecord is the inverse of FromKeystoreRecord.
func (a *Account) KeystoreRecord() string {
	raw := make([]byte, 0, 1+SeedSize)
	raw = append(raw, byte(signature.SchemeED25519))
	raw = append(raw, a.privateKey.Seed()...)
	return base64.StdEncoding.EncodeToString(raw)
}

func (a *Account) SignDigest(digest intent.Digest) []byte {
	return ed25519.Sign(a.privateKey, digest[:])
}

// SignMessage frames msg under scope and returns the wrapped signature.
func (a *Account) SignMessage(scope intent.Scope, msg []byte) (*signature.Envelope, error) {
	return signature.SignMessage(a, scope, msg)
}

func (a *Account) String() string {
	return fmt.Sprintf("sui account: %s", a.address)
}
