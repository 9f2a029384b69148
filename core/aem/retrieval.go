package aem

import (
	"context"
	"encoding/json"
	"fmt"

	"asset-resynch/core/utils"

	"github.com/google/go-querystring/query"
)

// PropLastReplicationAction is the jcr:content property holding the last replication command.
const PropLastReplicationAction = "cq:lastReplicationAction"

// Replication commands accepted by the replicate endpoint.
const (
	CmdActivate   = "Activate"
	CmdDeactivate = "Deactivate"
)

// ReplicateForm is the form body of a replication command.
type ReplicateForm struct {
	Charset string `url:"_charset_"`
	Cmd     string `url:"cmd"`
	Path    string `url:"path"`
}

// FetchPage retrieves one page of an Assets API listing.
func (api *API) FetchPage(ctx context.Context, href string) (*Page, error) {
	body, err := api.get(ctx, href)
	if err != nil {
		return nil, fmt.Errorf("aem: couldn't fetch page %s: %w", href, err)
	}

	var page Page
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("aem: couldn't parse listing page %s: %w", href, err)
	}

	return &page, nil
}

// ReplicationStatus returns the last replication action recorded on author for path,
// or "" when the property is absent.
func (api *API) ReplicationStatus(ctx context.Context, path string) (string, error) {
	u := api.statusURL(path)

	body, err := api.get(ctx, u)
	if err != nil {
		return "", fmt.Errorf("aem: couldn't fetch replication status of %s: %w", path, err)
	}

	var props map[string]any
	if err := json.Unmarshal(body, &props); err != nil {
		return "", fmt.Errorf("aem: couldn't parse replication status of %s: %w", path, err)
	}

	value, ok := props[PropLastReplicationAction]
	if !ok || value == nil {
		return "", nil
	}
	return utils.ToString(value), nil
}

// Replicate sends cmd (Activate or Deactivate) for path to the author replication queue.
func (api *API) Replicate(ctx context.Context, cmd, path string) error {
	if cmd != CmdActivate && cmd != CmdDeactivate {
		return fmt.Errorf("aem: unsupported replication command %q", cmd)
	}

	form, err := query.Values(ReplicateForm{
		Charset: "utf-8",
		Cmd:     cmd,
		Path:    ContentPath(path),
	})
	if err != nil {
		return fmt.Errorf("aem: couldn't encode replication form: %w", err)
	}

	if _, err := api.postForm(ctx, api.replicateURL(), form); err != nil {
		return fmt.Errorf("aem: couldn't %s %s: %w", cmd, path, err)
	}
	return nil
}
