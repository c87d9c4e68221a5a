package manifest

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SigningMethod selects the manifest signature algorithm.
type SigningMethod string

const (
	// MethodEd25519 signs with an Ed25519 key pair (default).
	MethodEd25519 SigningMethod = "ed25519"
	// MethodHS256 signs with a shared secret.
	MethodHS256 SigningMethod = "hs256"
)

// Config configures a Signer. PrivateKey may be omitted on verify-only
// signers. Ed25519 keys may be raw or PEM encoded.
type Config struct {
	SigningMethod SigningMethod
	PrivateKey    []byte
	PublicKey     []byte
	Issuer        string
	KeyID         string
	TTL           time.Duration // zero issues manifests without expiry
	Leeway        time.Duration
}

// Claims is the signed manifest payload.
type Claims struct {
	Registry string  `json:"reg"`
	Entries  []Entry `json:"entries"`
	jwt.RegisteredClaims
}

// Signer signs and verifies manifests.
type Signer struct {
	config Config
}

// NewSigner validates cfg and returns a Signer.
func NewSigner(cfg Config) (*Signer, error) {
	if cfg.SigningMethod == "" {
		cfg.SigningMethod = MethodEd25519
	}
	if cfg.TTL < 0 {
		return nil, errors.New("invalid TTL configuration")
	}
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("invalid leeway configuration")
	}
	cfg.KeyID = strings.TrimSpace(cfg.KeyID)

	switch cfg.SigningMethod {
	case MethodHS256:
		if len(cfg.PrivateKey) == 0 {
			return nil, errors.New("hs256 requires private key")
		}
	case MethodEd25519:
		if len(cfg.PrivateKey) > 0 {
			if _, err := parseEdPrivateKey(cfg.PrivateKey); err != nil {
				return nil, err
			}
		}
		if len(cfg.PublicKey) == 0 {
			return nil, errors.New("ed25519 requires public key")
		}
		if _, err := parseEdPublicKey(cfg.PublicKey); err != nil {
			return nil, err
		}
	default:
		return nil, errors.New("unsupported signing method")
	}

	return &Signer{config: cfg}, nil
}

// Sign issues a manifest for the registry identified by registryID.
func (s *Signer) Sign(registryID string, entries []Entry) (string, error) {
	if len(s.config.PrivateKey) == 0 {
		return "", errors.New("signer has no private key")
	}

	now := time.Now()
	claims := Claims{
		Registry: registryID,
		Entries:  entries,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
			Issuer:   s.config.Issuer,
		},
	}
	if s.config.TTL > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.config.TTL))
	}

	token := jwt.NewWithClaims(s.method(), claims)
	if s.config.KeyID != "" {
		token.Header["kid"] = s.config.KeyID
	}

	key, err := s.signKey()
	if err != nil {
		return "", err
	}
	return token.SignedString(key)
}

// Parse verifies a manifest token and returns its claims.
func (s *Signer) Parse(tokenStr string) (*Claims, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{s.method().Alg()}),
		jwt.WithIssuedAt(),
	}
	if s.config.Leeway > 0 {
		options = append(options, jwt.WithLeeway(s.config.Leeway))
	}
	if s.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(s.config.Issuer))
	}

	parser := jwt.NewParser(options...)
	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != s.method().Alg() {
			return nil, fmt.Errorf("unexpected signing algorithm: %s", t.Method.Alg())
		}
		if s.config.KeyID != "" {
			kid, _ := t.Header["kid"].(string)
			if kid != s.config.KeyID {
				return nil, errors.New("unknown kid")
			}
		}
		return s.verifyKey()
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

func (s *Signer) method() jwt.SigningMethod {
	if s.config.SigningMethod == MethodHS256 {
		return jwt.SigningMethodHS256
	}
	return jwt.SigningMethodEdDSA
}

func (s *Signer) signKey() (interface{}, error) {
	if s.config.SigningMethod == MethodHS256 {
		return s.config.PrivateKey, nil
	}
	return parseEdPrivateKey(s.config.PrivateKey)
}

func (s *Signer) verifyKey() (interface{}, error) {
	if s.config.SigningMethod == MethodHS256 {
		return s.config.PrivateKey, nil
	}
	return parseEdPublicKey(s.config.PublicKey)
}

func parseEdPrivateKey(key []byte) (ed25519.PrivateKey, error) {
	if len(key) == ed25519.PrivateKeySize {
		return ed25519.PrivateKey(key), nil
	}
	parsed, err := jwt.ParseEdPrivateKeyFromPEM(key)
	if err != nil {
		return nil, errors.New("invalid ed25519 private key")
	}
	edKey, ok := parsed.(ed25519.PrivateKey)
	if !ok {
		return nil, errors.New("invalid ed25519 private key type")
	}
	return edKey, nil
}

func parseEdPublicKey(key []byte) (ed25519.PublicKey, error) {
	if len(key) == ed25519.PublicKeySize {
		return ed25519.PublicKey(key), nil
	}
	parsed, err := jwt.ParseEdPublicKeyFromPEM(key)
	if err != nil {
		return nil, errors.New("invalid ed25519 public key")
	}
	edKey, ok := parsed.(ed25519.PublicKey)
	if !ok {
		return nil, errors.New("invalid ed25519 public key type")
	}
	return edKey, nil
}
