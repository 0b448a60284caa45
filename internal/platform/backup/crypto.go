package backup

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

// Key derivation and cipher parameters. These mirror the WebCrypto output of
// earlier backup tooling, so encrypted files are interchangeable.
const (
	kdfIterations = 150000
	saltLen       = 16
	ivLen         = 12
	keyLen        = 32
)

// envelope is the encrypted file layout: {v, salt, iv, data}, all binary
// fields standard base64.
type envelope struct {
	V    int    `json:"v"`
	Salt string `json:"salt"`
	IV   string `json:"iv"`
	Data string `json:"data"`
}

func deriveKey(passphrase string, salt []byte) []byte {
	return pbkdf2.Key([]byte(passphrase), salt, kdfIterations, keyLen, sha256.New)
}

// Encrypt seals plaintext with a passphrase-derived AES-256-GCM key.
func Encrypt(plaintext []byte, passphrase string) ([]byte, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	iv := make([]byte, ivLen)
	if _, err := rand.Read(iv); err != nil {
		return nil, fmt.Errorf("generate iv: %w", err)
	}

	block, err := aes.NewCipher(deriveKey(passphrase, salt))
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	sealed := gcm.Seal(nil, iv, plaintext, nil)

	return json.Marshal(envelope{
		V:    1,
		Salt: base64.StdEncoding.EncodeToString(salt),
		IV:   base64.StdEncoding.EncodeToString(iv),
		Data: base64.StdEncoding.EncodeToString(sealed),
	})
}

// Decrypt opens an encrypted backup file. A wrong passphrase surfaces as an
// authentication failure.
func Decrypt(encrypted []byte, passphrase string) ([]byte, error) {
	var env envelope
	if err := json.Unmarshal(encrypted, &env); err != nil {
		return nil, fmt.Errorf("parse encrypted backup: %w", err)
	}
	if env.V != 1 {
		return nil, fmt.Errorf("unsupported backup envelope version %d", env.V)
	}
	salt, err := base64.StdEncoding.DecodeString(env.Salt)
	if err != nil {
		return nil, fmt.Errorf("decode salt: %w", err)
	}
	iv, err := base64.StdEncoding.DecodeString(env.IV)
	if err != nil {
		return nil, fmt.Errorf("decode iv: %w", err)
	}
	sealed, err := base64.StdEncoding.DecodeString(env.Data)
	if err != nil {
		return nil, fmt.Errorf("decode data: %w", err)
	}

	block, err := aes.NewCipher(deriveKey(passphrase, salt))
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	plain, err := gcm.Open(nil, iv, sealed, nil)
	if err != nil {
		return nil, fmt.Errorf("decrypt backup: wrong passphrase or corrupt file")
	}
	return plain, nil
}
