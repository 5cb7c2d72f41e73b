package config

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/crypto/pbkdf2"
)

const (
	credentialsFile = "credentials.json"
	kdfIterations   = 100_000
	saltLen         = 16
)

// ErrNoCredentials indicates setup has not run yet.
var ErrNoCredentials = errors.New("credentials not configured")

// ErrBadMasterPassword indicates decryption failed, almost always because
// the master password is wrong.
var ErrBadMasterPassword = errors.New("could not decrypt credentials (wrong master password?)")

// LLMCredentials holds the optional model provider settings.
type LLMCredentials struct {
	Provider string
	Model    string
	APIKey   string
}

// Credentials is the decrypted credential set for one account.
type Credentials struct {
	Email    string
	APIToken string
	Language string // default locale tag for prompts, e.g. "pt-BR"
	LLM      *LLMCredentials
}

// credentialsFileFormat is the on-disk shape. Secrets are sealed with
// AES-256-GCM under a PBKDF2-derived key; everything else is plaintext.
type credentialsFileFormat struct {
	Email          string        `json:"email"`
	EncryptedToken string        `json:"encrypted_token"`
	Language       string        `json:"language"`
	LLM            *llmFileEntry `json:"llm,omitempty"`
}

type llmFileEntry struct {
	Provider     string `json:"provider"`
	Model        string `json:"model"`
	EncryptedKey string `json:"encrypted_key"`
}

// CredentialStore reads and writes the encrypted credentials file.
type CredentialStore struct {
	dir string
}

// NewCredentialStore opens the store in the fasttoggl config directory.
func NewCredentialStore() (*CredentialStore, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	return &CredentialStore{dir: dir}, nil
}

// NewCredentialStoreAt opens the store in an explicit directory. Used by
// tests.
func NewCredentialStoreAt(dir string) *CredentialStore {
	return &CredentialStore{dir: dir}
}

func (s *CredentialStore) path() string {
	return filepath.Join(s.dir, credentialsFile)
}

// Exists reports whether credentials have been saved.
func (s *CredentialStore) Exists() bool {
	_, err := os.Stat(s.path())
	return err == nil
}

// Save encrypts the secrets under masterPassword and writes the file.
func (s *CredentialStore) Save(creds Credentials, masterPassword string) error {
	if creds.Email == "" || creds.APIToken == "" {
		return fmt.Errorf("email and API token are required")
	}

	encToken, err := seal(creds.APIToken, masterPassword)
	if err != nil {
		return err
	}

	out := credentialsFileFormat{
		Email:          creds.Email,
		EncryptedToken: encToken,
		Language:       creds.Language,
	}
	if creds.LLM != nil && creds.LLM.APIKey != "" {
		encKey, err := seal(creds.LLM.APIKey, masterPassword)
		if err != nil {
			return err
		}
		out.LLM = &llmFileEntry{
			Provider:     creds.LLM.Provider,
			Model:        creds.LLM.Model,
			EncryptedKey: encKey,
		}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding credentials: %w", err)
	}
	if err := os.WriteFile(s.path(), data, 0o600); err != nil {
		return fmt.Errorf("writing credentials: %w", err)
	}
	return nil
}

// Load decrypts and returns the saved credentials.
func (s *CredentialStore) Load(masterPassword string) (*Credentials, error) {
	raw, err := os.ReadFile(s.path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoCredentials
		}
		return nil, fmt.Errorf("reading credentials: %w", err)
	}

	var file credentialsFileFormat
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("decoding credentials: %w", err)
	}

	token, err := open(file.EncryptedToken, masterPassword)
	if err != nil {
		return nil, err
	}

	creds := &Credentials{
		Email:    file.Email,
		APIToken: token,
		Language: file.Language,
	}
	if file.LLM != nil {
		key, err := open(file.LLM.EncryptedKey, masterPassword)
		if err != nil {
			return nil, err
		}
		creds.LLM = &LLMCredentials{
			Provider: file.LLM.Provider,
			Model:    file.LLM.Model,
			APIKey:   key,
		}
	}
	return creds, nil
}

// Language returns the saved default language without needing the master
// password. Falls back to "pt-BR" like the rest of the tool.
func (s *CredentialStore) Language() string {
	raw, err := os.ReadFile(s.path())
	if err != nil {
		return "pt-BR"
	}
	var file credentialsFileFormat
	if err := json.Unmarshal(raw, &file); err != nil || file.Language == "" {
		return "pt-BR"
	}
	return file.Language
}

// seal derives a key from the master password and encrypts plaintext with
// AES-256-GCM. The output packs salt, nonce and ciphertext in one base64
// string.
func seal(plaintext, masterPassword string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	gcm, err := newGCM(masterPassword, salt)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generating nonce: %w", err)
	}

	blob := append(salt, nonce...)
	blob = gcm.Seal(blob, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(blob), nil
}

func open(encoded, masterPassword string) (string, error) {
	blob, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("decoding encrypted field: %w", err)
	}
	if len(blob) < saltLen {
		return "", ErrBadMasterPassword
	}

	salt := blob[:saltLen]
	gcm, err := newGCM(masterPassword, salt)
	if err != nil {
		return "", err
	}
	if len(blob) < saltLen+gcm.NonceSize() {
		return "", ErrBadMasterPassword
	}

	nonce := blob[saltLen : saltLen+gcm.NonceSize()]
	ciphertext := blob[saltLen+gcm.NonceSize():]

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", ErrBadMasterPassword
	}
	return string(plaintext), nil
}

func newGCM(masterPassword string, salt []byte) (cipher.AEAD, error) {
	key := pbkdf2.Key([]byte(masterPassword), salt, kdfIterations, 32, sha256.New)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("initializing cipher: %w", err)
	}
	return cipher.NewGCM(block)
}
