package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// runGet performs an authenticated GET on any API path and prints the JSON body.
func (c *Cli) runGet(ctx context.Context, path string) error {
	c.session.Bootstrap(ctx)

	var body json.RawMessage
	if err := c.apiClient.Do(ctx, http.MethodGet, path, nil, &body); err != nil {
		return err
	}
	if len(body) == 0 {
		c.io.Println("(empty response)")
		return nil
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, body, "", "  "); err != nil {
		return fmt.Errorf("failed to format response: %w", err)
	}
	pretty.WriteByte('\n')
	_, err := c.io.Write(pretty.Bytes())
	return err
}
