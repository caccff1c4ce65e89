package signature

import (
	"crypto/ed25519"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/Layr-Labs/sui-operator-go/pkg/intent"
	"github.com/Layr-Labs/sui-operator-go/pkg/suiErrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	fixtureSeedHex   = "023d81259600323d802e84e77a35a5f85a3d2761c4d6d01a34facd32237a28c5"
	fixtureDigestHex = "ad94ece744614adc09ac7804a779faae5040c8a54a993d1c27508e10d754af0a"
	fixtureSignature = "ABCbWyMJdo/y+RDUSqJ0TghGwzfQbmVTYHdb/FQ9SX3YybVkRrB+6nh4qutm7E1ZRqUzzC0YiG2FY9rl5IQkNAewlwaDbsn0alvR1qMy7xdd9548ZGz4MI7Mp0lic5Scsg=="
)

type seedSigner struct {
	key ed25519.PrivateKey
}

func newSeedSigner(t *testing.T) *seedSigner {
	seed, err := hex.DecodeString(fixtureSeedHex)
	require.NoError(t, err)
	return &seedSigner{key: ed25519.NewKeyFromSeed(seed)}
}

func (s *seedSigner) Scheme() Scheme { return SchemeED25519 }

func (s *seedSigner) PublicKey() ed25519.PublicKey {
	return s.key.Public().(ed25519.PublicKey)
}

func (s *seedSigner) SignDigest(d intent.Digest) []byte {
	return ed25519.Sign(s.key, d[:])
}

type secpSigner struct{ seedSigner }

func (s *secpSigner) Scheme() Scheme { return SchemeSecp256k1 }

func Test_Sign(t *testing.T) {
	signer := newSeedSigner(t)

	raw, err := hex.DecodeString(fixtureDigestHex)
	require.NoError(t, err)
	var digest intent.Digest
	copy(digest[:], raw)

	t.Run("Should produce the fixture envelope", func(t *testing.T) {
		env, err := Sign(signer, digest)
		require.NoError(t, err)
		assert.Equal(t, fixtureSignature, env.Base64())
		assert.Len(t, env.Bytes(), 1+ed25519.SignatureSize+ed25519.PublicKeySize)
		assert.Equal(t, byte(0x00), env.Bytes()[0])
	})

	t.Run("Should be deterministic", func(t *testing.T) {
		a, err := Sign(signer, digest)
		require.NoError(t, err)
		b, err := Sign(signer, digest)
		require.NoError(t, err)
		assert.Equal(t, a.Signature, b.Signature)
	})

	t.Run("Should refuse unimplemented schemes", func(t *testing.T) {
		_, err := Sign(&secpSigner{*signer}, digest)
		assert.Error(t, err)
	})

	t.Run("Should refuse a nil signer", func(t *testing.T) {
		_, err := Sign(nil, digest)
		assert.True(t, errors.Is(err, suiErrors.ErrEmptyInput))
	})
}

func Test_Parse(t *testing.T) {
	t.Run("Should recover every part losslessly", func(t *testing.T) {
		env, err := Parse(fixtureSignature)
		require.NoError(t, err)

		assert.Equal(t, SchemeED25519, env.Scheme)
		assert.Equal(t, "sJcGg27J9Gpb0dajMu8XXfeePGRs+DCOzKdJYnOUnLI=", base64.StdEncoding.EncodeToString(env.PublicKey))
		assert.Len(t, env.Signature, ed25519.SignatureSize)
		assert.Equal(t, fixtureSignature, env.Base64())
	})

	tests := []struct {
		name string
		raw  []byte
	}{
		{name: "empty", raw: []byte{}},
		{name: "unknown scheme", raw: append([]byte{0x07}, make([]byte, 96)...)},
		{name: "secp256k1 is not decodable", raw: append([]byte{0x01}, make([]byte, 96)...)},
		{name: "truncated ed25519", raw: append([]byte{0x00}, make([]byte, 95)...)},
	}
	for _, tt := range tests {
		t.Run("Should reject "+tt.name, func(t *testing.T) {
			_, err := Parse(base64.StdEncoding.EncodeToString(tt.raw))
			assert.True(t, errors.Is(err, suiErrors.ErrDecodeFailure))
		})
	}

	t.Run("Should reject invalid base64", func(t *testing.T) {
		_, err := Parse("%%%")
		assert.True(t, errors.Is(err, suiErrors.ErrDecodeFailure))
	})
}

func Test_Scheme(t *testing.T) {
	tests := []struct {
		scheme Scheme
		name   string
		flag   byte
	}{
		{SchemeED25519, "ed25519", 0x00},
		{SchemeSecp256k1, "secp256k1", 0x01},
		{SchemeSecp256r1, "secp256r1", 0x02},
		{SchemeMultiSig, "multisig", 0x03},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.scheme.String())
			parsed, err := ParseScheme(tt.flag)
			require.NoError(t, err)
			assert.Equal(t, tt.scheme, parsed)
		})
	}

	_, err := ParseScheme(0x04)
	assert.Error(t, err)
}

func Test_Verify(t *testing.T) {
	signer := newSeedSigner(t)
	msg := []byte("hello")

	env, err := SignMessage(signer, intent.ScopePersonalMessage, msg)
	require.NoError(t, err)

	assert.True(t, Verify(env, intent.ScopePersonalMessage, msg))
	assert.False(t, Verify(env, intent.ScopePersonalMessage, []byte("hellO")))
	assert.False(t, Verify(env, intent.ScopeTransactionData, msg))
	assert.False(t, Verify(nil, intent.ScopePersonalMessage, msg))

	tampered := *env
	tampered.Scheme = SchemeSecp256r1
	assert.False(t, Verify(&tampered, intent.ScopePersonalMessage, msg))
}

func FuzzParseRoundTrip(f *testing.F) {
	f.Add(make([]byte, 64), make([]byte, 32))

	f.Fuzz(func(t *testing.T, sig []byte, pub []byte) {
		if len(sig) != ed25519.SignatureSize || len(pub) != ed25519.PublicKeySize {
			return
		}
		env := &Envelope{Scheme: SchemeED25519, Signature: sig, PublicKey: pub}
		parsed, err := Parse(env.Base64())
		require.NoError(t, err)
		require.Equal(t, env.Bytes(), parsed.Bytes())
	})
}
