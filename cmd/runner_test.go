package main

import (
	"bytes"
	"net/http"
	"os"
	"strings"
	"testing"

	"github.com/uniworld/cli/internal/models"
	"github.com/uniworld/cli/internal/shared"
	"github.com/uniworld/cli/internal/tasks"
	tu "github.com/uniworld/cli/internal/testing"
)

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
			})

			if runner.config != config {
				t.Error("expected config to be set")
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
			if runner.api == nil {
				t.Error("expected API client to be constructed")
			}
			if runner.service == nil {
				t.Error("expected service to be constructed")
			}
			if runner.assistant == nil {
				t.Error("expected assistant to be constructed")
			}
			if runner.engine == nil {
				t.Error("expected catalog engine to be constructed")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				Config: nil,
			})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				Logger: nil,
			})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				Output: nil,
			})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil httpClient uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				HTTPClient: nil,
			})

			if runner.httpClient != http.DefaultClient {
				t.Error("expected httpClient to default to http.DefaultClient")
			}
		})

		t.Run("with configPath sets field", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				ConfigPath: "/test/path/config.toml",
			})

			if runner.configPath != "/test/path/config.toml" {
				t.Errorf("expected configPath to be set, got %s", runner.configPath)
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

			result := output.String()
			expected := `{"key":"value"}` + "\n"
			if result != expected {
				t.Errorf("expected %q, got %q", expected, result)
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			// channels cannot be marshaled to JSON
			data := make(chan int)
			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			failing := &tu.FWriter{}
			runner := NewRunner(RunnerOpts{Output: failing})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			data := map[string]string{"key": "value"}
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(data, false)

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

			result := output.String()
			if result != "hello world" {
				t.Errorf("expected 'hello world', got %q", result)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			failing := &tu.FWriter{}
			runner := NewRunner(RunnerOpts{Output: failing})

			err := runner.writePlain("test")

			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		if len(commands) == 0 {
			t.Error("expected at least one command to be registered")
		}

		for i, cmd := range commands {
			if cmd == nil {
				t.Errorf("command at index %d is nil", i)
			}
		}
	})
}

func TestResolveDraft(t *testing.T) {
	program := &models.Program{
		ID:   1,
		Name: "Data Science MSc",
		University: models.University{
			Name: "TU Berlin",
		},
	}

	t.Run("explicit subject and body pass through", func(t *testing.T) {
		subject, body, err := resolveDraft("Hello", "World", "", nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if subject != "Hello" || body != "World" {
			t.Errorf("expected pass-through, got %q / %q", subject, body)
		}
	})

	t.Run("missing subject and body without template fails", func(t *testing.T) {
		_, _, err := resolveDraft("", "", "", nil)
		if err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("template with program fills placeholders", func(t *testing.T) {
		subject, body, err := resolveDraft("", "", string(tasks.TemplateInquiry), program)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(body, "Data Science MSc") {
			t.Errorf("expected program name in body, got %q", body)
		}
		if !strings.Contains(body, "TU Berlin") {
			t.Errorf("expected university name in body, got %q", body)
		}
		if !strings.Contains(subject, "Data Science MSc") {
			t.Errorf("expected program name in subject, got %q", subject)
		}
	})

	t.Run("template without program stays generic", func(t *testing.T) {
		subject, body, err := resolveDraft("", "", string(tasks.TemplateScholarship), nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(body, "[Program Name]") {
			t.Errorf("expected unfilled placeholder in body, got %q", body)
		}
		if !strings.Contains(subject, "your program") {
			t.Errorf("expected generic subject, got %q", subject)
		}
	})

	t.Run("explicit subject wins over template default", func(t *testing.T) {
		subject, _, err := resolveDraft("Custom subject", "", string(tasks.TemplateAdmission), program)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if subject != "Custom subject" {
			t.Errorf("expected custom subject, got %q", subject)
		}
	})

	t.Run("unknown template fails", func(t *testing.T) {
		_, _, err := resolveDraft("", "", "followup", nil)
		if err == nil {
			t.Fatal("expected error for unknown template")
		}
	})
}
