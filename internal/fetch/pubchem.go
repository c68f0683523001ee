// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch retrieves compound records from the PubChem PUG-REST API.
package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/compound-etl/pkg/types"
)

// Sentinel errors for the extract stage. Callers match with errors.Is.
var (
	// ErrInvalidInput reports an empty or blank compound name. Raised
	// before any network call.
	ErrInvalidInput = errors.New("invalid compound name")

	// ErrRemote reports a non-success HTTP status from PubChem.
	ErrRemote = errors.New("pubchem request failed")

	// ErrNotFound reports a well-formed response with no compound entries.
	ErrNotFound = errors.New("no compound data found")

	// ErrMissingField reports a compound entry whose property list has
	// no connectivity SMILES.
	ErrMissingField = errors.New("no connectivity SMILES property")
)

// Client queries the PubChem compound-by-name endpoint.
type Client struct {
	HTTP      *http.Client
	BaseURL   string
	UserAgent string
	Logger    *zap.Logger
}

// New returns a Client for cfg. An empty base URL selects the public
// PubChem endpoint; a nil logger is replaced with a no-op.
func New(client *http.Client, cfg types.FetchConfig, logger *zap.Logger) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = types.DefaultBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		HTTP:      client,
		BaseURL:   strings.TrimSuffix(base, "/"),
		UserAgent: cfg.UserAgent,
		Logger:    logger,
	}
}

// Compound looks up name and returns its record with the connectivity
// SMILES. Only the first entry of the response's compound list is
// considered, and within it only the first property tagged with label
// "SMILES" and name "Connectivity".
func (c *Client) Compound(ctx context.Context, name string) (types.CompoundRecord, error) {
	if strings.TrimSpace(name) == "" {
		return types.CompoundRecord{}, fmt.Errorf("%w: %q", ErrInvalidInput, name)
	}

	reqURL := c.BaseURL + "/" + url.PathEscape(name) + "/JSON"
	c.Logger.Debug("fetching compound", zap.String("url", reqURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return types.CompoundRecord{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return types.CompoundRecord{}, fmt.Errorf("%w: %v", ErrRemote, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.Logger.Warn("pubchem returned non-success status",
			zap.String("url", reqURL), zap.Int("status", resp.StatusCode))
		return types.CompoundRecord{}, fmt.Errorf("%w: HTTP %d", ErrRemote, resp.StatusCode)
	}

	var pr pugResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return types.CompoundRecord{}, fmt.Errorf("parsing pubchem response: %w", err)
	}

	if len(pr.PCCompounds) == 0 {
		return types.CompoundRecord{}, fmt.Errorf("%w for %q", ErrNotFound, name)
	}

	smiles := connectivitySMILES(pr.PCCompounds[0].Props)
	if smiles == "" {
		return types.CompoundRecord{}, fmt.Errorf("%w for %q", ErrMissingField, name)
	}

	c.Logger.Info("fetched compound",
		zap.String("name", name), zap.String("smiles", smiles))
	return types.CompoundRecord{Name: name, SMILES: smiles}, nil
}

// connectivitySMILES returns the first property value tagged with label
// "SMILES" and name "Connectivity", or "" when none matches.
func connectivitySMILES(props []pugProp) string {
	for _, p := range props {
		if p.URN.Label == "SMILES" && p.URN.Name == "Connectivity" {
			return p.Value.SVal
		}
	}
	return ""
}

// PubChem PUG-REST JSON structures.
type pugResponse struct {
	PCCompounds []pugCompound `json:"PC_Compounds"`
}

type pugCompound struct {
	Props []pugProp `json:"props"`
}

type pugProp struct {
	URN   pugURN   `json:"urn"`
	Value pugValue `json:"value"`
}

type pugURN struct {
	Label string `json:"label"`
	Name  string `json:"name"`
}

type pugValue struct {
	SVal string `json:"sval"`
}
