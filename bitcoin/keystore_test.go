package bitcoin

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testIterations = 1024

func TestKeystore_EncryptDecrypt(t *testing.T) {
	key := mustKey(t, scalarHex(1234567))

	ks, err := encryptSecretKey(key, "correct horse", testIterations)
	require.NoError(t, err)
	assert.Equal(t, keystoreCipher, ks.Crypto.Cipher)
	assert.Equal(t, keystoreKDF, ks.Crypto.KDF)
	assert.NotContains(t, ks.Crypto.Ciphertext, scalarHex(1234567))

	decrypted, err := DecryptKeystore(ks, "correct horse")
	require.NoError(t, err)
	assert.True(t, decrypted.Equal(key))

	_, err = DecryptKeystore(ks, "wrong")
	assert.ErrorIs(t, err, ErrKeystorePassword)
}

func TestKeystore_PublicKeyMismatch(t *testing.T) {
	ks, err := encryptSecretKey(mustKey(t, scalarHex(1)), "pw", testIterations)
	require.NoError(t, err)

	ks.PublicKey = generatorHex[:2] + "c6047f9441ed7d6d3045406e95c07cd85c778e4b8cef3ca7abac09b95c709ee5"
	_, err = DecryptKeystore(ks, "pw")
	assert.Error(t, err)
}

func TestKeystore_UnsupportedParams(t *testing.T) {
	ks, err := encryptSecretKey(mustKey(t, scalarHex(1)), "pw", testIterations)
	require.NoError(t, err)

	bad := *ks
	bad.Crypto.KDF = "scrypt"
	_, err = DecryptKeystore(&bad, "pw")
	assert.Error(t, err)

	bad = *ks
	bad.Version = 9
	_, err = DecryptKeystore(&bad, "pw")
	assert.Error(t, err)

	bad = *ks
	bad.Crypto.KDFParams.PRF = "hmac-sha1"
	_, err = DecryptKeystore(&bad, "pw")
	assert.Error(t, err)
}

func TestKeystore_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vault.json")
	key := mustKey(t, scalarHex(99))

	ks, err := SaveKeystore(path, key, "pw")
	require.NoError(t, err)
	assert.Equal(t, keystoreIterations, ks.Crypto.KDFParams.C)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := LoadKeystore(path, "pw")
	require.NoError(t, err)
	assert.True(t, loaded.Equal(key))

	_, err = LoadKeystore(filepath.Join(t.TempDir(), "missing.json"), "pw")
	assert.Error(t, err)
}
