package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "0123456789abcdef0123456789abcdef"

func TestEncryptor_RoundTrip(t *testing.T) {
	enc, err := NewEncryptor(testKey)
	require.NoError(t, err)

	ciphertext, err := enc.Encrypt([]byte("cst_abc123"))
	require.NoError(t, err)
	assert.NotContains(t, ciphertext, "cst_abc123")

	plaintext, err := enc.Decrypt(ciphertext)
	require.NoError(t, err)
	assert.Equal(t, []byte("cst_abc123"), plaintext)
}

func TestEncryptor_NoncesDiffer(t *testing.T) {
	enc, err := NewEncryptor(testKey)
	require.NoError(t, err)

	a, err := enc.Encrypt([]byte("same input"))
	require.NoError(t, err)
	b, err := enc.Encrypt([]byte("same input"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestNewEncryptor_KeyLength(t *testing.T) {
	_, err := NewEncryptor("too short")
	assert.Error(t, err)
}

func TestDecrypt_Tampered(t *testing.T) {
	enc, err := NewEncryptor(testKey)
	require.NoError(t, err)

	_, err = enc.Decrypt("not-base64!!")
	assert.Error(t, err)

	_, err = enc.Decrypt("c2hvcnQ=")
	assert.Error(t, err)
}
