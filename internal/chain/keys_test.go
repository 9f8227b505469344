package chain

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const testKeyHex = "4c0883a69102937d6231471b5dbb6204fe512961708279f1d3e25a03f5f4f4f4"

func TestEncryptDecryptRoundTrip(t *testing.T) {
	blob, err := EncryptKey(testKeyHex, "hunter2")
	require.NoError(t, err)

	got, err := DecryptKey(blob, "hunter2")
	require.NoError(t, err)
	require.Equal(t, testKeyHex, got)
}

func TestEncryptAccepts0xPrefix(t *testing.T) {
	blob, err := EncryptKey("0x"+testKeyHex, "hunter2")
	require.NoError(t, err)

	got, err := DecryptKey(blob, "hunter2")
	require.NoError(t, err)
	require.Equal(t, testKeyHex, got)
}

func TestDecryptWrongPassword(t *testing.T) {
	blob, err := EncryptKey(testKeyHex, "hunter2")
	require.NoError(t, err)

	_, err = DecryptKey(blob, "wrong")
	require.Error(t, err)
}

func TestEncryptRejectsBadKeys(t *testing.T) {
	_, err := EncryptKey(testKeyHex, "")
	require.Error(t, err, "empty password")

	_, err = EncryptKey("zzzz", "hunter2")
	require.Error(t, err, "non-hex key")

	_, err = EncryptKey("abcd", "hunter2")
	require.Error(t, err, "short key")
}

func TestLoadKeyResolutionOrder(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "key.json")

	blob, err := EncryptKey(testKeyHex, "hunter2")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, blob, 0o600))

	// Raw key wins over the encrypted file.
	got, err := LoadKey(KeyConfig{
		RawPrivateKey:    "0x" + testKeyHex,
		EncryptedKeyPath: path,
	})
	require.NoError(t, err)
	require.Equal(t, testKeyHex, got)

	// Encrypted file with password.
	got, err = LoadKey(KeyConfig{
		EncryptedKeyPath: path,
		KeyPassword:      "hunter2",
	})
	require.NoError(t, err)
	require.Equal(t, testKeyHex, got)

	// Nothing configured.
	_, err = LoadKey(KeyConfig{})
	require.Error(t, err)
}
