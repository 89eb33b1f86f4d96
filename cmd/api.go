package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ghostarr/ghostarr/internal/shared"
	"github.com/urfave/cli/v3"
)

// APIGet makes a direct GET request to the backend
func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: request path is required", shared.ErrMissingArgument)
	}

	r.logger.Info("GET request", "path", path)

	resp, err := r.api.Get(ctx, path)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	return r.writeAPIResponse(resp.StatusCode, resp.Body, resp.IsJSON, resp.JSONData, cmd.Bool("pretty"))
}

// APIPost makes a direct POST request to the backend
func (r *Runner) APIPost(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: request path is required", shared.ErrMissingArgument)
	}
	data := cmd.String("data")

	r.logger.Info("POST request", "path", path)

	if data != "" {
		var jsonTest any
		if err := json.Unmarshal([]byte(data), &jsonTest); err != nil {
			return fmt.Errorf("%w: data is not valid JSON: %v", shared.ErrInvalidInput, err)
		}
	}

	resp, err := r.api.Post(ctx, path, []byte(data))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	return r.writeAPIResponse(resp.StatusCode, resp.Body, resp.IsJSON, resp.JSONData, cmd.Bool("pretty"))
}

// APIDelete makes a direct DELETE request to the backend
func (r *Runner) APIDelete(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: request path is required", shared.ErrMissingArgument)
	}

	r.logger.Info("DELETE request", "path", path)

	resp, err := r.api.Delete(ctx, path)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	return r.writeAPIResponse(resp.StatusCode, resp.Body, resp.IsJSON, resp.JSONData, cmd.Bool("pretty"))
}

func (r *Runner) writeAPIResponse(status int, body []byte, isJSON bool, jsonData any, pretty bool) error {
	if status < 200 || status >= 300 {
		return fmt.Errorf("%w: status %d, body: %s", shared.ErrAPIRequest, status, string(body))
	}

	if isJSON {
		return r.writeJSON(jsonData, pretty)
	}

	r.output.Write(body)
	r.output.Write([]byte("\n"))
	return nil
}
