// Package auth is the identity provider: it owns credentials, checks
// passwords, and issues and verifies the bearer tokens clients present.
package auth

import (
	"FoodieFriends/internal/docstore"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/crypto/bcrypt"
)

const (
	identitiesCollection = "identities"
	emailsCollection     = "emails"

	// Issuer is the iss claim of every token this provider signs
	Issuer = "foodiefriends"

	defaultTokenTTL  = time.Hour
	liveCacheEntries = 10000
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrAccountNotFound    = errors.New("account not found")
	ErrPasswordTooLong    = errors.New("password exceeds 72 bytes")
)

// identity is the credential record, keyed by uid
type identity struct {
	CreatedAt    time.Time `json:"createdAt" firestore:"createdAt"`
	UID          string    `json:"uid" firestore:"uid"`
	Email        string    `json:"email" firestore:"email"`
	PasswordHash string    `json:"passwordHash" firestore:"passwordHash"`
}

// emailIndex maps a normalized email to its uid and enforces uniqueness
type emailIndex struct {
	UID string `json:"uid" firestore:"uid"`
}

// Config configures token signing and password hashing
type Config struct {
	Secret     []byte
	TokenTTL   time.Duration
	BcryptCost int
}

// Provider stores identities in the document store next to the profiles
type Provider struct {
	store  docstore.Store
	live   *lru.Cache[string, struct{}] // uids known to still have an identity
	now    func() time.Time
	logger *slog.Logger
	secret []byte
	ttl    time.Duration
	cost   int
}

// NewProvider creates an identity provider. An empty secret is rejected.
func NewProvider(store docstore.Store, cfg Config, logger *slog.Logger) (*Provider, error) {
	if len(cfg.Secret) == 0 {
		return nil, fmt.Errorf("token secret is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	cost := cfg.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	cache, err := lru.New[string, struct{}](liveCacheEntries)
	if err != nil {
		log.Printf("WARNING: Failed to create liveness cache: %v", err)
		cache, _ = lru.New[string, struct{}](1)
	}

	return &Provider{
		store:  store,
		live:   cache,
		now:    time.Now,
		logger: logger,
		secret: cfg.Secret,
		ttl:    ttl,
		cost:   cost,
	}, nil
}

// CreateAccount registers a new identity and returns its uid
func (p *Provider) CreateAccount(ctx context.Context, email, password string) (string, error) {
	email = normalizeEmail(email)
	hash, err := p.hash(password)
	if err != nil {
		return "", err
	}

	uid := uuid.NewString()
	batch := p.store.Batch()
	batch.Create(emailsCollection, emailKey(email), emailIndex{UID: uid})
	batch.Create(identitiesCollection, uid, identity{
		UID:          uid,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    p.now().UTC().Truncate(time.Microsecond),
	})
	if err := batch.Commit(ctx); err != nil {
		if errors.Is(err, docstore.ErrAlreadyExists) {
			return "", ErrEmailTaken
		}
		return "", fmt.Errorf("failed to create identity: %w", err)
	}

	p.live.Add(uid, struct{}{})
	p.logger.Info("identity created", "uid", uid)
	return uid, nil
}

// Authenticate checks an email/password pair and returns the uid
func (p *Provider) Authenticate(ctx context.Context, email, password string) (string, error) {
	email = normalizeEmail(email)

	doc, err := p.store.Get(ctx, emailsCollection, emailKey(email))
	if errors.Is(err, docstore.ErrNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up email: %w", err)
	}
	var idx emailIndex
	if err := doc.DataTo(&idx); err != nil {
		return "", err
	}

	ident, err := p.getIdentity(ctx, idx.UID)
	if errors.Is(err, ErrAccountNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(ident.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return ident.UID, nil
}

// DeleteAccount removes the identity and its email reservation.
// Deleting an unknown uid succeeds.
func (p *Provider) DeleteAccount(ctx context.Context, uid string) error {
	ident, err := p.getIdentity(ctx, uid)
	if errors.Is(err, ErrAccountNotFound) {
		p.live.Remove(uid)
		return nil
	}
	if err != nil {
		return err
	}

	batch := p.store.Batch()
	batch.Delete(identitiesCollection, uid)
	batch.Delete(emailsCollection, emailKey(ident.Email))
	if err := batch.Commit(ctx); err != nil {
		return fmt.Errorf("failed to delete identity: %w", err)
	}

	p.live.Remove(uid)
	p.logger.Info("identity deleted", "uid", uid)
	return nil
}

// SetPassword replaces the password hash of uid
func (p *Provider) SetPassword(ctx context.Context, uid, password string) error {
	hash, err := p.hash(password)
	if err != nil {
		return err
	}

	batch := p.store.Batch()
	batch.Update(identitiesCollection, uid, docstore.Set("passwordHash", hash))
	if err := batch.Commit(ctx); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return ErrAccountNotFound
		}
		return fmt.Errorf("failed to set password: %w", err)
	}
	return nil
}

// IssueToken signs a bearer token for uid
func (p *Provider) IssueToken(uid string) (string, error) {
	now := p.now()
	claims := jwt.RegisteredClaims{
		Subject:   uid,
		Issuer:    Issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(p.ttl)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

// Verify checks the token signature, algorithm, issuer and expiry, then
// confirms the account still exists. It returns the uid.
func (p *Provider) Verify(ctx context.Context, tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{},
		func(token *jwt.Token) (interface{}, error) {
			return p.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	uid := claims.Subject

	if _, ok := p.live.Get(uid); ok {
		return uid, nil
	}
	if _, err := p.getIdentity(ctx, uid); err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return "", fmt.Errorf("%w: account deleted", ErrInvalidToken)
		}
		return "", err
	}
	p.live.Add(uid, struct{}{})
	return uid, nil
}

func (p *Provider) getIdentity(ctx context.Context, uid string) (*identity, error) {
	doc, err := p.store.Get(ctx, identitiesCollection, uid)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get identity: %w", err)
	}
	var ident identity
	if err := doc.DataTo(&ident); err != nil {
		return nil, err
	}
	return &ident, nil
}

func (p *Provider) hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", ErrPasswordTooLong
	}
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// emailKey derives a document id from an email; raw addresses may contain
// characters that are not valid in document ids
func emailKey(email string) string {
	sum := sha256.Sum256([]byte(email))
	return hex.EncodeToString(sum[:])
}
