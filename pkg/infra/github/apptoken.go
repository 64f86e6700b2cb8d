package github

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/google/go-github/v75/github"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/m-mizutani/goerr/v2"
)

// tokenSource mints GitHub App JWTs and exchanges them for installation
// tokens. Installation tokens live for an hour; the cached token is
// reused until shortly before expiry.
type tokenSource struct {
	appID          int64
	installationID int64
	key            jwk.Key

	mu      sync.Mutex
	token   string
	expires time.Time
}

func newTokenSource(appID, installationID int64, privateKey []byte) (*tokenSource, error) {
	key, err := jwk.ParseKey(privateKey, jwk.WithPEM(true))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse GitHub App private key")
	}

	return &tokenSource{
		appID:          appID,
		installationID: installationID,
		key:            key,
	}, nil
}

// appJWT builds the short-lived JWT that authenticates as the App
// itself. GitHub caps the expiration at 10 minutes; issued-at is
// backdated to tolerate clock skew.
func (s *tokenSource) appJWT() (string, error) {
	now := time.Now()

	token, err := jwt.NewBuilder().
		Issuer(strconv.FormatInt(s.appID, 10)).
		IssuedAt(now.Add(-30 * time.Second)).
		Expiration(now.Add(9 * time.Minute)).
		Build()
	if err != nil {
		return "", goerr.Wrap(err, "failed to build App JWT")
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.RS256, s.key))
	if err != nil {
		return "", goerr.Wrap(err, "failed to sign App JWT")
	}

	return string(signed), nil
}

// Token returns a valid installation token, exchanging a fresh App JWT
// when the cached one is expired or about to expire.
func (s *tokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" && time.Until(s.expires) > time.Minute {
		return s.token, nil
	}

	appJWT, err := s.appJWT()
	if err != nil {
		return "", err
	}

	appClient := github.NewClient(nil).WithAuthToken(appJWT)
	installation, _, err := appClient.Apps.CreateInstallationToken(ctx, s.installationID, nil)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create installation token",
			goerr.V("installation_id", s.installationID))
	}

	s.token = installation.GetToken()
	s.expires = installation.GetExpiresAt().Time

	return s.token, nil
}
