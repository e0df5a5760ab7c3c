package worker

// snapshot_worker.go
// Processes snapshot jobs from QueueSnapshot: serializes the customer table to
// CSV and commits it to the configured GitHub repository. The commit goes
// through the circuit breaker so a downed remote never stalls the pool.

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"time"

	"loyaltypos/internal/infra"
	"loyaltypos/internal/repository"

	"github.com/rs/zerolog/log"
)

// SnapshotJobPayload is the job envelope sent to QueueSnapshot.
type SnapshotJobPayload struct {
	Reason string `json:"reason"`
}

// SnapshotWorker exports the customer table as a CSV snapshot to GitHub.
type SnapshotWorker struct {
	customers repository.CustomerRepository
	gh        *infra.GitHubClient
	cb        *infra.CircuitBreaker
}

func NewSnapshotWorker(customers repository.CustomerRepository, gh *infra.GitHubClient, cb *infra.CircuitBreaker) *SnapshotWorker {
	return &SnapshotWorker{customers: customers, gh: gh, cb: cb}
}

func (w *SnapshotWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload SnapshotJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("snapshot_worker: invalid payload")
		return
	}
	if w.gh == nil || !w.gh.Enabled() {
		log.Debug().Msg("snapshot_worker: remote snapshot not configured — skipping")
		return
	}
	if w.cb.State() == infra.CBOpen {
		log.Debug().Msg("snapshot_worker: circuit breaker is open — skipping")
		return
	}

	content, rows, err := w.buildCSV(ctx)
	if err != nil {
		log.Error().Err(err).Msg("snapshot_worker: failed to build snapshot")
		return
	}

	message := fmt.Sprintf("loyalty snapshot %s (%s)", time.Now().UTC().Format(time.RFC3339), payload.Reason)
	err = w.cb.Execute(func() error {
		return w.gh.PushSnapshot(ctx, content, message)
	})
	if err != nil {
		log.Error().Err(err).Msg("snapshot_worker: snapshot commit failed")
		return
	}
	log.Info().Int("customers", rows).Str("reason", payload.Reason).Msg("snapshot_worker: snapshot committed")
}

func (w *SnapshotWorker) buildCSV(ctx context.Context) ([]byte, int, error) {
	customers, err := w.customers.List(ctx)
	if err != nil {
		return nil, 0, err
	}

	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	if err := cw.Write([]string{"phone", "birthday", "total_points"}); err != nil {
		return nil, 0, err
	}
	for _, c := range customers {
		birthday := ""
		if c.Birthday != nil {
			birthday = c.Birthday.Format("2006-01-02")
		}
		if err := cw.Write([]string{c.Phone, birthday, c.TotalPoints.StringFixed(2)}); err != nil {
			return nil, 0, err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, 0, err
	}
	return buf.Bytes(), len(customers), nil
}
