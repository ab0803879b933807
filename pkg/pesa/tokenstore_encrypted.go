package pesa

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/kms"
)

// Cipher encrypts token values before they reach a store.
type Cipher interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
}

// EncryptedTokenStore encrypts the access token value at rest in the wrapped store.
type EncryptedTokenStore struct {
	inner  TokenStore
	cipher Cipher
}

// NewEncryptedTokenStore wraps inner with cipher.
func NewEncryptedTokenStore(inner TokenStore, cipher Cipher) (*EncryptedTokenStore, error) {
	if inner == nil {
		return nil, ErrTokenStoreRequired
	}

	if cipher == nil {
		return nil, ErrCipherRequired
	}

	return &EncryptedTokenStore{inner: inner, cipher: cipher}, nil
}

// Put encrypts the value before delegating. Nothing is written if encryption fails.
func (s *EncryptedTokenStore) Put(ctx context.Context, accessToken string, ttlSeconds int64) error {
	sealed, err := s.cipher.Encrypt(ctx, []byte(accessToken))
	if err != nil {
		return fmt.Errorf("encrypting token: %w", err)
	}

	return s.inner.Put(ctx, base64.StdEncoding.EncodeToString(sealed), ttlSeconds)
}

// Get decrypts the stored value.
func (s *EncryptedTokenStore) Get(ctx context.Context) (*Token, error) {
	token, err := s.inner.Get(ctx)
	if err != nil || token == nil {
		return nil, err
	}

	sealed, err := base64.StdEncoding.DecodeString(token.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedStoreEntry, err)
	}

	plain, err := s.cipher.Decrypt(ctx, sealed)
	if err != nil {
		return nil, fmt.Errorf("decrypting token: %w", err)
	}

	token.AccessToken = string(plain)

	return token, nil
}

// Clear delegates to the wrapped store.
func (s *EncryptedTokenStore) Clear(ctx context.Context) error {
	return s.inner.Clear(ctx)
}

// KMSAPI is the subset of the AWS KMS client used by KMSCipher.
type KMSAPI interface {
	Encrypt(ctx context.Context, params *kms.EncryptInput, optFns ...func(*kms.Options)) (*kms.EncryptOutput, error)
	Decrypt(ctx context.Context, params *kms.DecryptInput, optFns ...func(*kms.Options)) (*kms.DecryptOutput, error)
}

// KMSCipher implements Cipher with an AWS KMS key.
type KMSCipher struct {
	client KMSAPI
	keyID  string
}

// NewKMSCipher creates a cipher for keyID.
func NewKMSCipher(client KMSAPI, keyID string) (*KMSCipher, error) {
	if keyID == "" {
		return nil, ErrKMSKeyRequired
	}

	return &KMSCipher{client: client, keyID: keyID}, nil
}

// NewKMSCipherFromRegion loads the default AWS configuration for region.
func NewKMSCipherFromRegion(ctx context.Context, region, keyID string) (*KMSCipher, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	return NewKMSCipher(kms.NewFromConfig(cfg), keyID)
}

// Encrypt seals plaintext under the configured key.
func (c *KMSCipher) Encrypt(ctx context.Context, plaintext []byte) ([]byte, error) {
	out, err := c.client.Encrypt(ctx, &kms.EncryptInput{
		KeyId:     aws.String(c.keyID),
		Plaintext: plaintext,
	})
	if err != nil {
		return nil, fmt.Errorf("kms encrypt: %w", err)
	}

	return out.CiphertextBlob, nil
}

// Decrypt opens ciphertext produced by Encrypt.
func (c *KMSCipher) Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error) {
	out, err := c.client.Decrypt(ctx, &kms.DecryptInput{
		CiphertextBlob: ciphertext,
		KeyId:          aws.String(c.keyID),
	})
	if err != nil {
		return nil, fmt.Errorf("kms decrypt: %w", err)
	}

	return out.Plaintext, nil
}
