package intent

import (
	"encoding/base64"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/Layr-Labs/sui-operator-go/pkg/suiErrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureTxBytes = "AAACACAKJ/b307eQf7zEJl7o5j9URzEqj1P7Jwo2+JLm8mQAjwEAxeH0cqZyHhw5O9ex6npRVN/VqjeaklGk0sd3652k4IBGAAAAAAAAACAhCZTCQGadfZFHMUOmF/7vzYjaOL3iOFOttgQ8Vq8WRwEBAQEBAAEAAAon9vfTt5B/vMQmXujmP1RHMSqPU/snCjb4kubyZACPASyl4AYgixH+XTi5XBSI10IUmYMOMKQxedmoPg/qzXfZRQAAAAAAAAAgbcf/hvgkTrSAFqX06JcGyUca6ZeqRPOSOhgE/MNEw88KJ/b307eQf7zEJl7o5j9URzEqj1P7Jwo2+JLm8mQAj+gDAAAAAAAAwMYtAAAAAAAA"

func Test_Frame(t *testing.T) {
	t.Run("Should prepend scope, version and app id in order", func(t *testing.T) {
		msg := []byte{0xde, 0xad}
		framed := Frame(ScopePersonalMessage, msg)
		assert.Equal(t, []byte{3, 0, 0, 0xde, 0xad}, framed)
		assert.Equal(t, []byte{0xde, 0xad}, msg)
	})

	t.Run("Should frame an empty message as the bare prefix", func(t *testing.T) {
		assert.Equal(t, []byte{0, 0, 0}, Frame(ScopeTransactionData, nil))
	})

	t.Run("Should parse the prefix back", func(t *testing.T) {
		i, rest, err := ParseIntent(Frame(ScopeCheckpointSummary, []byte("abc")))
		require.NoError(t, err)
		assert.Equal(t, ForScope(ScopeCheckpointSummary), i)
		assert.Equal(t, []byte("abc"), rest)
	})

	t.Run("Should reject a buffer shorter than the prefix", func(t *testing.T) {
		_, _, err := ParseIntent([]byte{0, 0})
		assert.True(t, errors.Is(err, suiErrors.ErrDecodeFailure))
	})
}

func Test_MessageDigest(t *testing.T) {
	txBytes, err := base64.StdEncoding.DecodeString(fixtureTxBytes)
	require.NoError(t, err)

	tests := []struct {
		name     string
		scope    Scope
		msg      []byte
		expected string
	}{
		{
			name:     "transaction data",
			scope:    ScopeTransactionData,
			msg:      txBytes,
			expected: "ad94ece744614adc09ac7804a779faae5040c8a54a993d1c27508e10d754af0a",
		},
		{
			name:     "personal message",
			scope:    ScopePersonalMessage,
			msg:      []byte("hello"),
			expected: "17a9095bddfe52fc488de772c55656a830d7ceb2cc5893e6406ebf190bc6a6e1",
		},
		{
			name:     "empty transaction data",
			scope:    ScopeTransactionData,
			msg:      nil,
			expected: "ab29e6dc16755d0071eba349ebda225d15e4f910cb474549c47e95cb85ecc4d6",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := MessageDigest(tt.scope, tt.msg)
			assert.Equal(t, tt.expected, hex.EncodeToString(d[:]))
			assert.Equal(t, d, MessageDigest(tt.scope, tt.msg))
		})
	}

	t.Run("Scopes produce distinct digests for the same bytes", func(t *testing.T) {
		assert.NotEqual(t,
			MessageDigest(ScopeTransactionData, []byte("x")),
			MessageDigest(ScopePersonalMessage, []byte("x")),
		)
	})
}

func FuzzFrameParseRoundTrip(f *testing.F) {
	f.Add(uint8(0), []byte{})
	f.Add(uint8(3), []byte("hello"))

	f.Fuzz(func(t *testing.T, scope uint8, msg []byte) {
		framed := Frame(Scope(scope), msg)
		require.Len(t, framed, len(msg)+PrefixLength)

		i, rest, err := ParseIntent(framed)
		require.NoError(t, err)
		require.Equal(t, Scope(scope), i.Scope)
		require.Equal(t, V0, i.Version)
		require.Equal(t, AppIdSui, i.AppId)
		require.Equal(t, len(msg), len(rest))
	})
}
