// internal/workers/essay/generate-essay/handler.go
package generateessay

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	apperrors "scholarship-engine/internal/common/errors"
	"scholarship-engine/internal/common/logger"
	"scholarship-engine/internal/common/metrics"
	"scholarship-engine/internal/common/observability"
	"scholarship-engine/internal/models"
	"scholarship-engine/internal/service"
)

const (
	TaskType = "generate-essay"
)

type EssayGenerator interface {
	GenerateEssay(ctx context.Context, req service.EssayRequest) (*models.EssayResult, error)
}

type Handler struct {
	config       *Config
	generator    EssayGenerator
	obs          *observability.Observability
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, generator EssayGenerator, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		generator:    generator,
		obs:          obs,
		errorHandler: apperrors.NewErrorHandler(log),
		logger:       log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	err := json.Unmarshal([]byte(job.Variables), &input)
	if err != nil {
		err = apperrors.NewInvalidRequestError(fmt.Sprintf("parse input: %v", err))
	} else {
		var output *Output
		if output, err = h.execute(ctx, &input); err == nil {
			err = h.completeJob(ctx, client, job, output)
		}
	}

	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(apperrors.CodeOf(err))).Inc()
		h.obs.RecordRequest(ctx, "zeebe", "essay", "error")
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	h.obs.RecordRequest(ctx, "zeebe", "essay", "success")
	h.obs.RecordRequestDuration(ctx, "zeebe", "essay", time.Since(start), "success")
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	result, err := h.generator.GenerateEssay(ctx, service.EssayRequest{
		ScholarshipDescription: input.ScholarshipDescription,
		ScholarshipName:        input.ScholarshipName,
		StudentProfile:         input.StudentProfile,
	})
	if err != nil {
		return nil, err
	}

	output := &Output{
		Essay:            result.Essay,
		SelectedStrategy: result.SelectedStrategy,
		MatchingClusters: result.MatchingClusters,
		ScholarshipName:  result.ScholarshipName,
		WordCount:        len(strings.Fields(result.Essay)),
	}

	h.logger.Info("essay generated", map[string]interface{}{
		"scholarship": output.ScholarshipName,
		"strategy":    output.SelectedStrategy.ClusterName,
		"wordCount":   output.WordCount,
	})
	return output, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) error {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		return apperrors.NewInternalError(fmt.Errorf("encode job variables: %w", err))
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
	}
	return nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
