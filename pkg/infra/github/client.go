package github

import (
	"context"
	"io"
	"net/http"

	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/tagship/pkg/domain/interfaces"
)

type client struct {
	tokens *tokenSource
}

// NewClient creates a GitHub client authenticated as a GitHub App
// installation. The App JWT is minted locally from the private key and
// exchanged for installation tokens on demand.
func NewClient(appID, installationID int64, privateKey []byte) (interfaces.GitHubClient, error) {
	tokens, err := newTokenSource(appID, installationID, privateKey)
	if err != nil {
		return nil, err
	}

	return &client{tokens: tokens}, nil
}

// DownloadZipball downloads the source code zipball for a specific commit
func (c *client) DownloadZipball(ctx context.Context, owner, repo, ref string) ([]byte, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	gh := github.NewClient(nil).WithAuthToken(token)

	// Get download URL for zipball, following redirects
	url, _, err := gh.Repositories.GetArchiveLink(ctx, owner, repo, github.Zipball, &github.RepositoryContentGetOptions{
		Ref: ref,
	}, 3)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get zipball download URL",
			goerr.V("owner", owner), goerr.V("repo", repo), goerr.V("ref", ref))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url.String(), nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create download request", goerr.V("url", url.String()))
	}

	// Reuse the authenticated transport for the download itself
	resp, err := gh.Client().Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to download zipball", goerr.V("url", url.String()))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, goerr.New("unexpected status code for zipball download",
			goerr.V("status", resp.StatusCode), goerr.V("url", url.String()))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read zipball response")
	}

	return data, nil
}
