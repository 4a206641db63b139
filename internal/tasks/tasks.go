// package tasks orchestrates the download pipeline and friend reconciliation
package tasks

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/trackdrop/internal/models"
)

// RequestResult records what happened to one download request.
type RequestResult struct {
	Request models.DownloadRequest
	Outcome *models.DownloadOutcome // nil when the download failed
	Err     error                   // download or sync failure for this request
}

// PipelineReport contains all data from one pipeline pass.
type PipelineReport struct {
	Results   []RequestResult
	Succeeded int
	Failed    int
}

// Pipeline wires ingestion, dispatch and playlist sync into one pass.
type Pipeline struct {
	ingestor   *Ingestor
	dispatcher *Dispatcher
	sync       *SyncEngine
	logger     *log.Logger
}

// NewPipeline creates a Pipeline from its three stages.
func NewPipeline(ingestor *Ingestor, dispatcher *Dispatcher, sync *SyncEngine, logger *log.Logger) *Pipeline {
	return &Pipeline{
		ingestor:   ingestor,
		dispatcher: dispatcher,
		sync:       sync,
		logger:     logger,
	}
}

// RunOnce polls for new download requests and processes each to completion.
//
// A failure in one request's download or sync is recorded in the report and
// never affects the other requests in the batch. The returned error covers
// only the poll itself.
func (p *Pipeline) RunOnce(ctx context.Context) (*PipelineReport, error) {
	requests, err := p.ingestor.Poll(ctx)
	if err != nil {
		return nil, err
	}

	report := &PipelineReport{}
	if len(requests) == 0 {
		p.logger.Debug("no new download requests")
		return report, nil
	}

	for _, req := range requests {
		result := RequestResult{Request: req}

		outcome, err := p.dispatcher.Dispatch(ctx, req)
		if err != nil {
			p.logger.Error("download failed", "id", req.NotificationID, "err", err)
			result.Err = err
			report.Results = append(report.Results, result)
			report.Failed++
			continue
		}
		result.Outcome = outcome

		if outcome.Type == models.TypePlaylist {
			if err := p.sync.Sync(ctx, outcome, req.SenderName); err != nil {
				p.logger.Error("playlist sync abandoned",
					"id", req.NotificationID, "playlist", outcome.Name, "err", err)
				result.Err = err
				report.Results = append(report.Results, result)
				report.Failed++
				continue
			}
		}

		report.Results = append(report.Results, result)
		report.Succeeded++
	}

	return report, nil
}
