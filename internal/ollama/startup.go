package ollama

import (
	"context"
	"fmt"
	"io"
	"time"
)

// EnsureReady checks that Ollama is running and required models are available.
// It pulls missing models automatically with progress output written to w.
// After all models are available, it warms up the extraction model so memory
// extraction calls don't pay the cold-load penalty.
// Returns a non-nil error if Ollama is unreachable.
func EnsureReady(ctx context.Context, c *Client, model, extractModel string, w io.Writer) error {
	if !c.IsRunning(ctx) {
		return fmt.Errorf("Ollama is not running. Start it with: ollama serve")
	}

	needed := []string{model}
	if extractModel != model {
		needed = append(needed, extractModel)
	}
	for _, m := range needed {
		if c.HasModel(ctx, m) {
			fmt.Fprintf(w, "model %s: ready\n", m)
			continue
		}

		fmt.Fprintf(w, "model %s: pulling...\n", m)
		err := c.PullModel(ctx, m, func(p PullProgress) {
			if p.Total > 0 {
				pct := float64(p.Completed) / float64(p.Total) * 100
				fmt.Fprintf(w, "  %s %.0f%%\n", p.Status, pct)
			} else {
				fmt.Fprintf(w, "  %s\n", p.Status)
			}
		})
		if err != nil {
			return fmt.Errorf("pulling model %s: %w", m, err)
		}
		fmt.Fprintf(w, "model %s: ready\n", m)
	}

	// Warm up the extraction model with a trivial request so it stays
	// loaded for low-latency memory extraction.
	fmt.Fprintf(w, "model %s: warming up...\n", extractModel)
	warmCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if _, err := c.Generate(warmCtx, extractModel, "ping", nil); err != nil {
		fmt.Fprintf(w, "model %s: warm-up failed (non-fatal): %v\n", extractModel, err)
	} else {
		fmt.Fprintf(w, "model %s: warm\n", extractModel)
	}

	return nil
}
