package sfdc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/browser"

	"github.com/soqlgen/soqlgen/config"
	"github.com/soqlgen/soqlgen/log"
	"github.com/soqlgen/soqlgen/types"
)

// Connection is an authenticated Salesforce REST session.
type Connection struct {
	client      *http.Client
	logger      log.Logger
	accessToken string
	instanceURL string
	apiVersion  string
}

// NewConnection authenticates and returns a ready session.
func NewConnection(ctx context.Context, cfg *config.Config, logger log.Logger) (*Connection, error) {
	token, err := NewAuthenticator(cfg, logger).Token(ctx)
	if err != nil {
		return nil, err
	}
	return newConnection(token, cfg.APIVersion, logger), nil
}

func newConnection(token *TokenResponse, apiVersion string, logger log.Logger) *Connection {
	return &Connection{
		client:      &http.Client{Timeout: 30 * time.Second},
		logger:      logger,
		accessToken: token.AccessToken,
		instanceURL: token.InstanceURL,
		apiVersion:  apiVersion,
	}
}

// InstanceURL returns the base URL of the connected org.
func (c *Connection) InstanceURL() string {
	return c.instanceURL
}

// Query executes a SOQL statement and returns the decoded result set.
func (c *Connection) Query(ctx context.Context, soql string) (*types.QueryResponse, error) {
	c.logger.Debug("executing query", "soql", soql)

	path := fmt.Sprintf("/services/data/v%s/query/?q=%s", c.apiVersion, url.QueryEscape(soql))
	var result types.QueryResponse
	if err := c.getJSON(ctx, path, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DescribeGlobal lists the org's sobjects. Used to build the schema
// cache behind interactive completion.
func (c *Connection) DescribeGlobal(ctx context.Context) (*types.DescribeGlobalResponse, error) {
	path := fmt.Sprintf("/services/data/v%s/sobjects/", c.apiVersion)
	var raw interface{}
	if err := c.getJSON(ctx, path, &raw); err != nil {
		return nil, err
	}

	var result types.DescribeGlobalResponse
	if err := types.Decode(raw, &result); err != nil {
		return nil, fmt.Errorf("decoding describe response: %w", err)
	}
	return &result, nil
}

// DescribeObject returns the field metadata of one sobject.
func (c *Connection) DescribeObject(ctx context.Context, name string) (*types.DescribeObjectResponse, error) {
	path := fmt.Sprintf("/services/data/v%s/sobjects/%s/describe/", c.apiVersion, url.PathEscape(name))
	var raw interface{}
	if err := c.getJSON(ctx, path, &raw); err != nil {
		return nil, err
	}

	var result types.DescribeObjectResponse
	if err := types.Decode(raw, &result); err != nil {
		return nil, fmt.Errorf("decoding describe response: %w", err)
	}
	return &result, nil
}

// OpenRecord opens the first record of a result in the browser. Queries
// built with open() are capped at one row, so the first record is the
// record.
func (c *Connection) OpenRecord(result *types.QueryResponse) error {
	if len(result.Records) == 0 {
		return fmt.Errorf("no record to open")
	}
	id := result.Records[0].ID()
	if id == "" {
		return fmt.Errorf("record has no Id field")
	}
	return browser.OpenURL(c.instanceURL + "/" + id)
}

func (c *Connection) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.instanceURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.apiError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// apiError decodes the error array Salesforce returns on failed
// requests. An undecodable body falls back to the HTTP status.
func (c *Connection) apiError(resp *http.Response) error {
	var apiErrors []types.APIError
	if err := json.NewDecoder(resp.Body).Decode(&apiErrors); err == nil && len(apiErrors) > 0 {
		return apiErrors[0]
	}
	return fmt.Errorf("request failed with status %s", resp.Status)
}
