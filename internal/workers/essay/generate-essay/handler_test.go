package generateessay

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"scholarship-engine/internal/common/config"
	apperrors "scholarship-engine/internal/common/errors"
	"scholarship-engine/internal/common/logger"
	"scholarship-engine/internal/models"
	"scholarship-engine/internal/service"
)

// ==========================
// Mock Generator Implementation
// ==========================

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) GenerateEssay(ctx context.Context, req service.EssayRequest) (*models.EssayResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EssayResult), args.Error(1)
}

func createTestHandler(t *testing.T, gen EssayGenerator) *Handler {
	return NewHandler(&Config{Timeout: 5 * time.Second}, gen, nil, logger.NewTestLogger(t))
}

func createValidInput() *Input {
	return &Input{
		ScholarshipDescription: "Community Builders Grant\nFor students who organise their neighbourhoods.",
		StudentProfile: &models.Profile{
			Name:            "Tomás Vega",
			DegreeLevel:     models.DegreeUndergraduate,
			Activities:      "Organised a tenants' association of 200 households.",
			BackgroundStory: "Raised by my grandmother in public housing.",
			CareerGoals:     "Become an urban planner for affordable housing.",
		},
	}
}

// ==========================
// Execute Tests
// ==========================

func TestHandler_Execute_Success(t *testing.T) {
	gen := new(MockGenerator)
	input := createValidInput()
	result := &models.EssayResult{
		Essay:            "The flyer went up on a Tuesday.\n\nBy Friday, forty neighbours came.",
		SelectedStrategy: models.StrategyEntry{ClusterID: 3, ClusterName: "Community Service"},
		MatchingClusters: []string{"Community Service", "Leadership & Impact"},
		ScholarshipName:  "Community Builders Grant",
	}
	gen.On("GenerateEssay", mock.Anything, service.EssayRequest{
		ScholarshipDescription: input.ScholarshipDescription,
		StudentProfile:         input.StudentProfile,
	}).Return(result, nil)

	output, err := createTestHandler(t, gen).Execute(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, result.Essay, output.Essay)
	assert.Equal(t, "Community Service", output.SelectedStrategy.ClusterName)
	assert.Equal(t, result.MatchingClusters, output.MatchingClusters)
	assert.Equal(t, "Community Builders Grant", output.ScholarshipName)
	assert.Equal(t, 12, output.WordCount)
	gen.AssertExpectations(t)
}

func TestHandler_Execute_ErrorsPassThrough(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{"timeout", apperrors.NewGenerationTimeoutError(90*time.Second, context.DeadlineExceeded), true},
		{"empty", apperrors.NewGenerationEmptyError("no text"), false},
		{"invalid request", apperrors.NewInvalidRequestError("scholarshipDescription is required"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := new(MockGenerator)
			gen.On("GenerateEssay", mock.Anything, mock.Anything).Return(nil, tt.err)

			_, err := createTestHandler(t, gen).Execute(context.Background(), createValidInput())
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.err))
			assert.Equal(t, tt.retryable, apperrors.AsStandardError(err).Retryable)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	assert.Equal(t, 200*time.Second, LoadConfig(config.WorkerConfig{Timeout: 200000}).Timeout)
	assert.Equal(t, defaultTimeout, LoadConfig(config.WorkerConfig{}).Timeout)
}

func TestActivity(t *testing.T) {
	a := Activity()
	assert.Equal(t, TaskType, a.TaskType)
	assert.Equal(t, defaultTimeout.String(), a.Timeout)
	assert.Contains(t, a.ErrorCodes, string(apperrors.ErrCodeInvalidProfile))
	assert.NotEmpty(t, a.InputSchema["required"])
}
