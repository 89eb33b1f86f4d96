package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ghostarr/ghostarr/internal/services"
	"github.com/ghostarr/ghostarr/internal/shared"
	tu "github.com/ghostarr/ghostarr/internal/testing"
	"github.com/urfave/cli/v3"
)

func testRunner(t *testing.T, handler http.Handler) (*Runner, *bytes.Buffer) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	output := &bytes.Buffer{}
	logger := shared.NewLogger(io.Discard)
	client := services.NewClient(server.URL, server.Client(), logger)

	runner := NewRunner(RunnerOpts{
		Config: shared.DefaultConfig(),
		Client: client,
		API:    services.NewAPIService(server.URL, server.Client()),
		Logger: logger,
		Output: output,
	})
	return runner, output
}

func runApp(t *testing.T, runner *Runner, args ...string) error {
	t.Helper()

	app := &cli.Command{
		Name:     "ghostarr",
		Commands: runner.register(),
	}
	return app.Run(context.Background(), append([]string{"ghostarr"}, args...))
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}
			client := services.NewClient("http://localhost:8000", httpClient, logger)
			api := services.NewAPIService("http://localhost:8000", httpClient)

			runner := NewRunner(RunnerOpts{
				Config:     config,
				Client:     client,
				API:        api,
				HTTPClient: httpClient,
				Logger:     logger,
				Output:     output,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.client != client {
				t.Error("expected client to be set")
			}
			if runner.api != api {
				t.Error("expected api to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
			if runner.engine == nil {
				t.Error("expected export engine to be built")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil httpClient uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.httpClient != http.DefaultClient {
				t.Error("expected httpClient to default to http.DefaultClient")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, true)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, false)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if output.String() != expected {
				t.Errorf("expected %q, got %q", expected, output.String())
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			err := runner.writeJSON(make(chan int), false)

			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)

			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)

			if err == nil {
				t.Fatal("expected error writing newline")
			}
			if !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			err := runner.writePlain("hello %s", "world")

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "hello world" {
				t.Errorf("expected 'hello world', got %q", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			if err := runner.writePlain("hello"); err == nil {
				t.Fatal("expected error from failing writer")
			}
		})
	})
}

func TestCommands(t *testing.T) {
	t.Run("templates list renders names and defaults", func(t *testing.T) {
		runner, output := testRunner(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if req.URL.Path != "/api/v1/templates" {
				t.Errorf("unexpected path %s", req.URL.Path)
			}
			json.NewEncoder(w).Encode([]map[string]any{
				{"id": "tpl-1", "name": "Weekly Digest", "is_default": true},
				{"id": "tpl-2", "name": "Monthly Roundup", "is_default": false},
			})
		}))

		if err := runApp(t, runner, "templates", "list"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		result := output.String()
		if !strings.Contains(result, "Weekly Digest") {
			t.Errorf("expected template name in output, got %s", result)
		}
		if !strings.Contains(result, "Found 2 templates") {
			t.Errorf("expected count in output, got %s", result)
		}
	})

	t.Run("templates list with json flag emits raw records", func(t *testing.T) {
		runner, output := testRunner(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			json.NewEncoder(w).Encode([]map[string]any{{"id": "tpl-1", "name": "Weekly Digest"}})
		}))

		if err := runApp(t, runner, "templates", "list", "--json"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var decoded []map[string]any
		if err := json.Unmarshal(output.Bytes(), &decoded); err != nil {
			t.Fatalf("expected JSON output, got %q", output.String())
		}
		if len(decoded) != 1 || decoded[0]["id"] != "tpl-1" {
			t.Errorf("unexpected decoded output %v", decoded)
		}
	})

	t.Run("history get renders the step log", func(t *testing.T) {
		runner, output := testRunner(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{
				"id":     "gen-7",
				"status": "success",
				"type":   "manual",
				"progress_log": []map[string]any{
					{"step": "fetch_tautulli", "status": "success", "message": "done", "items_count": 12},
					{"step": "render_template", "status": "success", "message": "done"},
				},
			})
		}))

		if err := runApp(t, runner, "history", "get", "gen-7"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		result := output.String()
		if !strings.Contains(result, "gen-7") {
			t.Errorf("expected run id in output, got %s", result)
		}
		if !strings.Contains(result, "fetch_tautulli") {
			t.Errorf("expected step name in output, got %s", result)
		}
		if !strings.Contains(result, "(12 items)") {
			t.Errorf("expected item count in output, got %s", result)
		}
	})

	t.Run("history delete uses bulk endpoint for multiple ids", func(t *testing.T) {
		var gotPath string
		runner, output := testRunner(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			gotPath = req.URL.Path
			json.NewEncoder(w).Encode(map[string]int{"deleted": 2})
		}))

		if err := runApp(t, runner, "history", "delete", "gen-1", "gen-2"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if gotPath != "/api/v1/history/bulk-delete" {
			t.Errorf("expected bulk delete path, got %s", gotPath)
		}
		if !strings.Contains(output.String(), "Deleted 2 of 2") {
			t.Errorf("expected deletion summary, got %s", output.String())
		}
	})

	t.Run("history list forwards status and type filters", func(t *testing.T) {
		var gotQuery url.Values
		runner, _ := testRunner(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			gotQuery = req.URL.Query()
			json.NewEncoder(w).Encode([]map[string]any{})
		}))

		if err := runApp(t, runner, "history", "list", "--status", "failed", "--type", "scheduled"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if gotQuery.Get("status") != "failed" {
			t.Errorf("expected status filter in query, got %v", gotQuery)
		}
		if gotQuery.Get("type") != "scheduled" {
			t.Errorf("expected type filter in query, got %v", gotQuery)
		}
	})

	t.Run("history export without ids or --all errors", func(t *testing.T) {
		runner, _ := testRunner(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			t.Errorf("unexpected request to %s", req.URL.Path)
		}))

		err := runApp(t, runner, "history", "export")
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Fatalf("expected missing argument error, got %v", err)
		}
	})

	t.Run("templates create posts the file content", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "digest.html")
		if err := os.WriteFile(file, []byte("<h1>{{ title }}</h1>"), 0644); err != nil {
			t.Fatal(err)
		}

		var gotBody map[string]any
		runner, output := testRunner(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if req.Method != http.MethodPost || req.URL.Path != "/api/v1/templates" {
				t.Errorf("unexpected request %s %s", req.Method, req.URL.Path)
			}
			json.NewDecoder(req.Body).Decode(&gotBody)
			json.NewEncoder(w).Encode(map[string]any{"id": "tpl-9", "name": "Digest"})
		}))

		if err := runApp(t, runner, "templates", "create", "--name", "Digest", "--file", file); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if gotBody["name"] != "Digest" {
			t.Errorf("expected template name in body, got %v", gotBody)
		}
		if gotBody["content"] != "<h1>{{ title }}</h1>" {
			t.Errorf("expected file content in body, got %v", gotBody)
		}
		if !strings.Contains(output.String(), "tpl-9") {
			t.Errorf("expected created id in output, got %s", output.String())
		}
	})

	t.Run("templates update keeps fields the user did not change", func(t *testing.T) {
		var gotBody map[string]any
		runner, _ := testRunner(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if req.URL.Path != "/api/v1/templates/tpl-1" {
				t.Errorf("unexpected path %s", req.URL.Path)
			}
			switch req.Method {
			case http.MethodGet:
				json.NewEncoder(w).Encode(map[string]any{
					"id": "tpl-1", "name": "Weekly", "description": "old words", "content": "<p>body</p>",
				})
			case http.MethodPut:
				json.NewDecoder(req.Body).Decode(&gotBody)
				json.NewEncoder(w).Encode(map[string]any{"id": "tpl-1", "name": "Renamed"})
			default:
				t.Errorf("unexpected method %s", req.Method)
			}
		}))

		if err := runApp(t, runner, "templates", "update", "tpl-1", "--name", "Renamed"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if gotBody["name"] != "Renamed" {
			t.Errorf("expected renamed template in body, got %v", gotBody)
		}
		if gotBody["description"] != "old words" || gotBody["content"] != "<p>body</p>" {
			t.Errorf("expected untouched fields to survive, got %v", gotBody)
		}
	})

	t.Run("schedules update overlays only the provided flags", func(t *testing.T) {
		var gotMethod, gotPath string
		var gotBody map[string]any
		runner, _ := testRunner(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if req.Method == http.MethodGet {
				json.NewEncoder(w).Encode(map[string]any{
					"id": "sched-1", "name": "weekly", "cron_expression": "0 9 * * 1", "enabled": true,
				})
				return
			}
			gotMethod, gotPath = req.Method, req.URL.Path
			json.NewDecoder(req.Body).Decode(&gotBody)
			json.NewEncoder(w).Encode(map[string]any{"id": "sched-1", "name": "biweekly"})
		}))

		if err := runApp(t, runner, "schedules", "update", "sched-1", "--name", "biweekly"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if gotMethod != http.MethodPut || gotPath != "/api/v1/schedules/sched-1" {
			t.Errorf("expected PUT to the schedule resource, got %s %s", gotMethod, gotPath)
		}
		if gotBody["name"] != "biweekly" {
			t.Errorf("expected new name in body, got %v", gotBody)
		}
		if gotBody["cron_expression"] != "0 9 * * 1" || gotBody["enabled"] != true {
			t.Errorf("expected untouched fields to survive, got %v", gotBody)
		}
	})

	t.Run("schedules validate reports invalid expressions without failing", func(t *testing.T) {
		runner, output := testRunner(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{"valid": false, "error": "too many fields"})
		}))

		if err := runApp(t, runner, "schedules", "validate", "* * * * * *"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if !strings.Contains(output.String(), "too many fields") {
			t.Errorf("expected validation error in output, got %s", output.String())
		}
	})

	t.Run("schedules create rejects invalid cron before hitting the create endpoint", func(t *testing.T) {
		var created bool
		runner, _ := testRunner(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if req.URL.Path == "/api/v1/schedules/validate-cron" {
				json.NewEncoder(w).Encode(map[string]any{"valid": false, "error": "bad expression"})
				return
			}
			created = true
			json.NewEncoder(w).Encode(map[string]any{"id": "sched-1"})
		}))

		err := runApp(t, runner, "schedules", "create", "--name", "weekly", "--cron", "bogus")
		if err == nil {
			t.Fatal("expected error for invalid cron")
		}
		if created {
			t.Error("expected create endpoint to be skipped")
		}
	})

	t.Run("logs stats renders totals by level", func(t *testing.T) {
		runner, output := testRunner(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{
				"total":  10,
				"levels": map[string]int{"error": 2, "info": 8},
			})
		}))

		if err := runApp(t, runner, "logs", "stats"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		result := output.String()
		if !strings.Contains(result, "Total: 10") {
			t.Errorf("expected total in output, got %s", result)
		}
		if !strings.Contains(result, "error") || !strings.Contains(result, "info") {
			t.Errorf("expected level breakdown, got %s", result)
		}
	})

	t.Run("api get prints raw JSON and surfaces error statuses", func(t *testing.T) {
		runner, output := testRunner(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if req.URL.Path == "/missing" {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
		}))

		if err := runApp(t, runner, "api", "get", "/health"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), `"status":"ok"`) {
			t.Errorf("expected JSON body in output, got %s", output.String())
		}

		if err := runApp(t, runner, "api", "get", "/missing"); err == nil {
			t.Error("expected error for 404 response")
		}
	})

	t.Run("generate cancel requires an id when nothing is active", func(t *testing.T) {
		runner, _ := testRunner(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			json.NewEncoder(w).Encode(map[string]string{})
		}))

		err := runApp(t, runner, "generate", "cancel")
		if err == nil {
			t.Fatal("expected error without an id")
		}
		if !strings.Contains(err.Error(), "generation id is required") {
			t.Errorf("unexpected error %v", err)
		}
	})
}
