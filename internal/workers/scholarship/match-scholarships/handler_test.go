package matchscholarships

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
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
// Mock Matcher Implementation
// ==========================

type MockMatcher struct {
	mock.Mock
}

func (m *MockMatcher) Match(ctx context.Context, req service.MatchRequest) (*service.MatchResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.MatchResponse), args.Error(1)
}

// ==========================
// Test Helper Functions
// ==========================

func createMockJob(key int64, variables map[string]interface{}) entities.Job {
	variablesJSON, _ := json.Marshal(variables)

	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:                key,
		Type:               TaskType,
		ProcessInstanceKey: key * 10,
		BpmnProcessId:      "scholarship-application",
		ElementId:          "Activity_MatchScholarships",
		CustomHeaders:      "{}",
		Worker:             "test-worker",
		Retries:            3,
		Variables:          string(variablesJSON),
	}}
}

func createTestProfile() *models.Profile {
	return &models.Profile{
		Name:            "Amara Lewis",
		DegreeLevel:     models.DegreeHighSchool,
		Activities:      "Founded the robotics club and tutor middle schoolers.",
		BackgroundStory: "First in my family to apply to college.",
		CareerGoals:     "Study mechanical engineering and build prosthetics.",
	}
}

func createTestHandler(t *testing.T, matcher Matcher) *Handler {
	return NewHandler(&Config{Timeout: 5 * time.Second}, matcher, nil, logger.NewTestLogger(t))
}

// ==========================
// Execute Tests
// ==========================

func TestHandler_Execute_Success(t *testing.T) {
	matcher := new(MockMatcher)
	profile := createTestProfile()
	matches := []models.MatchResult{
		{Scholarship: "Robotics Futures", Rank: 1, MatchScore: 91},
		{Scholarship: "First Gen Award", Rank: 2, MatchScore: 84},
	}
	matcher.On("Match", mock.Anything, service.MatchRequest{StudentProfile: profile, TopN: 2}).
		Return(&service.MatchResponse{Matches: matches}, nil)

	output, err := createTestHandler(t, matcher).Execute(context.Background(), &Input{StudentProfile: profile, TopN: 2})
	require.NoError(t, err)

	assert.Equal(t, 2, output.MatchCount)
	assert.Equal(t, matches, output.Matches)
	matcher.AssertExpectations(t)
}

func TestHandler_Execute_Errors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode apperrors.ErrorCode
	}{
		{"invalid profile", apperrors.NewInvalidProfileError([]string{"name: required"}), apperrors.ErrCodeInvalidProfile},
		{"embedding failed", apperrors.NewEmbeddingFailedError("openai", errors.New("503")), apperrors.ErrCodeEmbeddingFailed},
		{"empty corpus", apperrors.NewEmptyCorpusError("no records"), apperrors.ErrCodeEmptyCorpus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matcher := new(MockMatcher)
			matcher.On("Match", mock.Anything, mock.Anything).Return(nil, tt.err)

			_, err := createTestHandler(t, matcher).Execute(context.Background(), &Input{})
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, apperrors.CodeOf(err))
		})
	}
}

// ==========================
// Input Decoding Tests
// ==========================

func TestDecodeInput(t *testing.T) {
	job := createMockJob(42, map[string]interface{}{
		"studentProfile": createTestProfile(),
		"topN":           3,
		"applicationId":  "app-7",
	})

	input, err := decodeInput(job.Variables)
	require.NoError(t, err)
	assert.Equal(t, 3, input.TopN)
	require.NotNil(t, input.StudentProfile)
	assert.Equal(t, "Amara Lewis", input.StudentProfile.Name)

	_, err = decodeInput("{not json")
	assert.True(t, errors.Is(err, apperrors.ErrInvalidRequest))
}

func TestLoadConfig(t *testing.T) {
	assert.Equal(t, 1500*time.Millisecond, LoadConfig(config.WorkerConfig{Timeout: 1500}).Timeout)
	assert.Equal(t, defaultTimeout, LoadConfig(config.WorkerConfig{}).Timeout)
}

func TestActivity(t *testing.T) {
	a := Activity()
	assert.Equal(t, TaskType, a.TaskType)
	assert.Equal(t, defaultTimeout.String(), a.Timeout)
	assert.Contains(t, a.ErrorCodes, string(apperrors.ErrCodeInvalidProfile))
	assert.NotEmpty(t, a.InputSchema["required"])
}
