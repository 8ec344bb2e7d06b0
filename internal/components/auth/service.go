package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/andrasnagy-data/credentials/internal/shared/password"
	"github.com/google/uuid"
)

type (
	// Result is what a successful register or login yields
	Result struct {
		Email string
		Token string
	}

	servicer interface {
		Register(context.Context, Credential) (*Result, error)
		Login(context.Context, Credential) (*Result, error)
	}

	hasher interface {
		Hash(plain string) (string, error)
		Compare(hash, plain string) error
	}

	issuer interface {
		Issue(email string) (string, error)
	}

	service struct {
		repo   repoer
		hasher hasher
		tokens issuer
		// compared against when the email is unknown so both failure paths cost one bcrypt comparison
		dummyHash string
	}
)

func NewService(repo repoer, hasher *password.Hasher, tokens *TokenIssuer) (servicer, error) {
	return newService(repo, hasher, tokens)
}

func newService(repo repoer, h hasher, tokens issuer) (*service, error) {
	if tokens == nil {
		tokens = (*TokenIssuer)(nil)
	}
	dummy, err := h.Hash(uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("hash dummy password: %w", err)
	}
	return &service{
		repo:      repo,
		hasher:    h,
		tokens:    tokens,
		dummyHash: dummy,
	}, nil
}

// parseCredential decodes a UTF-8 JSON object into a Credential. Both fields must be
// present under their exact lower-case keys, string typed and non-empty.
func parseCredential(body []byte) (Credential, error) {
	if !utf8.Valid(body) {
		return Credential{}, fmt.Errorf("%w: body is not valid UTF-8", ErrMalformedRequest)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		return Credential{}, fmt.Errorf("%w: invalid JSON body", ErrMalformedRequest)
	}
	for key := range fields {
		if key == fieldEmail || key == fieldPassword {
			continue
		}
		if strings.EqualFold(key, fieldEmail) || strings.EqualFold(key, fieldPassword) {
			return Credential{}, fmt.Errorf("%w: unexpected field %q", ErrMalformedRequest, key)
		}
	}

	email, err := stringField(fields, fieldEmail)
	if err != nil {
		return Credential{}, err
	}
	pass, err := stringField(fields, fieldPassword)
	if err != nil {
		return Credential{}, err
	}
	if len(pass) > password.MaxLength {
		return Credential{}, fmt.Errorf("%w: password exceeds %d bytes", ErrMalformedRequest, password.MaxLength)
	}
	return Credential{Email: email, Password: pass}, nil
}

func stringField(fields map[string]json.RawMessage, name string) (string, error) {
	var v *string
	if raw, ok := fields[name]; ok {
		if err := json.Unmarshal(raw, &v); err != nil {
			return "", fmt.Errorf("%w: %s must be a string", ErrMalformedRequest, name)
		}
	}
	if v == nil || *v == "" {
		return "", fmt.Errorf("%w: %s is required", ErrMalformedRequest, name)
	}
	return *v, nil
}

// Register stores a new user with a hashed password. The token is signed before
// the insert so a signing failure leaves no row behind.
func (s *service) Register(ctx context.Context, cred Credential) (*Result, error) {
	hash, err := s.hasher.Hash(cred.Password)
	if errors.Is(err, password.ErrTooLong) {
		return nil, fmt.Errorf("%w: %w", ErrMalformedRequest, err)
	}
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	token, err := s.tokens.Issue(cred.Email)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	if err := s.repo.Create(ctx, cred.Email, hash); err != nil {
		return nil, err
	}
	return &Result{Email: cred.Email, Token: token}, nil
}

// Login verifies the password against the stored hash. Unknown email and wrong
// password both yield ErrInvalidCredentials.
func (s *service) Login(ctx context.Context, cred Credential) (*Result, error) {
	user, err := s.repo.GetByEmail(ctx, cred.Email)
	if errors.Is(err, errUserNotFound) {
		_ = s.hasher.Compare(s.dummyHash, cred.Password)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := s.hasher.Compare(user.PasswordHash, cred.Password); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: unusable password hash: %w", ErrUnknownStore, err)
	}

	token, err := s.tokens.Issue(user.Email)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &Result{Email: user.Email, Token: token}, nil
}
