package bitcoin

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/crypto/pbkdf2"
)

const (
	keystoreVersion    = 1
	keystoreCipher     = "aes-256-gcm"
	keystoreKDF        = "pbkdf2"
	keystorePRF        = "hmac-sha256"
	keystoreKeyLen     = 32
	keystoreSaltLen    = 32
	keystoreIterations = 262144
)

// ErrKeystorePassword is returned when the keystore cannot be opened with the
// supplied password.
var ErrKeystorePassword = errors.New("wrong keystore password")

// Keystore is the on-disk form of an encrypted vault key.
type Keystore struct {
	Version   int            `json:"version"`
	PublicKey string         `json:"publicKey"`
	Crypto    KeystoreCrypto `json:"crypto"`
}

type KeystoreCrypto struct {
	Cipher     string    `json:"cipher"`
	Ciphertext string    `json:"ciphertext"`
	IV         string    `json:"iv"`
	KDF        string    `json:"kdf"`
	KDFParams  KDFParams `json:"kdfparams"`
}

type KDFParams struct {
	DKLen int    `json:"dklen"`
	Salt  string `json:"salt"`
	C     int    `json:"c"`
	PRF   string `json:"prf"`
}

// EncryptSecretKey seals the key under a password derived AES key.
func EncryptSecretKey(key *SecretKey, password string) (*Keystore, error) {
	return encryptSecretKey(key, password, keystoreIterations)
}

func encryptSecretKey(key *SecretKey, password string, iterations int) (*Keystore, error) {
	if !key.valid() {
		return nil, ErrInvalidSecretKey
	}

	salt := make([]byte, keystoreSaltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("failed to read salt: %w", err)
	}
	params := KDFParams{
		DKLen: keystoreKeyLen,
		Salt:  hex.EncodeToString(salt),
		C:     iterations,
		PRF:   keystorePRF,
	}

	aead, err := keystoreAEAD(password, salt, params)
	if err != nil {
		return nil, err
	}
	iv := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return nil, fmt.Errorf("failed to read iv: %w", err)
	}

	plain := key.Bytes()
	defer zeroBytes(plain)
	ciphertext := aead.Seal(nil, iv, plain, nil)

	return &Keystore{
		Version:   keystoreVersion,
		PublicKey: hex.EncodeToString(key.PubKey().SerializeCompressed()),
		Crypto: KeystoreCrypto{
			Cipher:     keystoreCipher,
			Ciphertext: hex.EncodeToString(ciphertext),
			IV:         hex.EncodeToString(iv),
			KDF:        keystoreKDF,
			KDFParams:  params,
		},
	}, nil
}

// DecryptKeystore opens the keystore and checks the recovered key against
// the stored public key.
func DecryptKeystore(ks *Keystore, password string) (*SecretKey, error) {
	if ks.Version != keystoreVersion {
		return nil, fmt.Errorf("unsupported keystore version %d", ks.Version)
	}
	if ks.Crypto.Cipher != keystoreCipher {
		return nil, fmt.Errorf("unsupported cipher: %s", ks.Crypto.Cipher)
	}
	if ks.Crypto.KDF != keystoreKDF {
		return nil, fmt.Errorf("unsupported kdf: %s", ks.Crypto.KDF)
	}

	salt, err := hex.DecodeString(ks.Crypto.KDFParams.Salt)
	if err != nil {
		return nil, fmt.Errorf("failed to decode salt: %w", err)
	}
	iv, err := hex.DecodeString(ks.Crypto.IV)
	if err != nil {
		return nil, fmt.Errorf("failed to decode iv: %w", err)
	}
	ciphertext, err := hex.DecodeString(ks.Crypto.Ciphertext)
	if err != nil {
		return nil, fmt.Errorf("failed to decode ciphertext: %w", err)
	}

	aead, err := keystoreAEAD(password, salt, ks.Crypto.KDFParams)
	if err != nil {
		return nil, err
	}
	if len(iv) != aead.NonceSize() {
		return nil, fmt.Errorf("invalid iv length %d", len(iv))
	}
	plain, err := aead.Open(nil, iv, ciphertext, nil)
	if err != nil {
		return nil, ErrKeystorePassword
	}
	defer zeroBytes(plain)

	key, err := SecretKeyFromBytes(plain)
	if err != nil {
		return nil, err
	}
	if ks.PublicKey != "" {
		expected, err := ParsePublicKeyHex(ks.PublicKey)
		if err != nil {
			key.Zero()
			return nil, err
		}
		if !expected.IsEqual(key.PubKey()) {
			key.Zero()
			return nil, errors.New("keystore public key does not match decrypted key")
		}
	}
	return key, nil
}

func keystoreAEAD(password string, salt []byte, params KDFParams) (cipher.AEAD, error) {
	if params.PRF != keystorePRF {
		return nil, fmt.Errorf("unsupported prf: %s", params.PRF)
	}
	if params.DKLen != keystoreKeyLen || params.C <= 0 {
		return nil, fmt.Errorf("invalid kdf params: dklen=%d c=%d", params.DKLen, params.C)
	}
	derived := pbkdf2.Key([]byte(password), salt, params.C, params.DKLen, sha256.New)
	defer zeroBytes(derived)

	block, err := aes.NewCipher(derived)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create gcm: %w", err)
	}
	return aead, nil
}

func LoadKeystore(path, password string) (*SecretKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read keystore: %w", err)
	}
	var ks Keystore
	if err := json.Unmarshal(data, &ks); err != nil {
		return nil, fmt.Errorf("failed to parse keystore: %w", err)
	}
	return DecryptKeystore(&ks, password)
}

func SaveKeystore(path string, key *SecretKey, password string) (*Keystore, error) {
	ks, err := EncryptSecretKey(key, password)
	if err != nil {
		return nil, err
	}
	if err := writeKeystore(path, ks); err != nil {
		return nil, err
	}
	return ks, nil
}

func writeKeystore(path string, ks *Keystore) error {
	data, err := json.MarshalIndent(ks, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal keystore: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write keystore: %w", err)
	}
	return nil
}
