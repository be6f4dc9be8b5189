package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldserve/dispatch-api/internal/dto"
)

type generateServiceMock struct {
	resp *dto.GenerateFromRulesResult
	err  error
}

func (m *generateServiceMock) GenerateFromRules(ctx context.Context, req dto.GenerateFromRulesRequest) (*dto.GenerateFromRulesResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.resp, nil
}

type copyServiceMock struct {
	resp *dto.CopyWeekResult
	err  error
}

func (m *copyServiceMock) CopyWeek(ctx context.Context, req dto.CopyWeekRequest) (*dto.CopyWeekResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.resp, nil
}

func TestScheduleHandlerGenerateSummary(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewScheduleHandler(&generateServiceMock{resp: &dto.GenerateFromRulesResult{
		Created: 4,
		Skipped: 2,
		SkipReasons: map[string]int{
			"already_exists": 1,
			"clash":          1,
		},
	}}, &copyServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(dto.GenerateFromRulesRequest{WeekStart: time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)})
	req, _ := http.NewRequest(http.MethodPost, "/schedule/generate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Generate(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data dto.GenerateFromRulesResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, 4, envelope.Data.Created)
	assert.Equal(t, 2, envelope.Data.Skipped)
	assert.Equal(t, 1, envelope.Data.SkipReasons["clash"])
}

func TestScheduleHandlerGenerateInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewScheduleHandler(&generateServiceMock{}, &copyServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/schedule/generate", bytes.NewReader([]byte(`oops`)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Generate(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScheduleHandlerCopyWeekSummary(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewScheduleHandler(&generateServiceMock{}, &copyServiceMock{resp: &dto.CopyWeekResult{
		CopiedCount:  6,
		SkippedCount: 1,
		SkipReasons:  map[string]int{"outside_working_hours": 1},
	}})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(dto.CopyWeekRequest{
		SourceWeekStart: time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC),
		TargetWeekStart: time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC),
	})
	req, _ := http.NewRequest(http.MethodPost, "/schedule/copy-week", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.CopyWeek(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data dto.CopyWeekResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, 6, envelope.Data.CopiedCount)
	assert.Equal(t, 1, envelope.Data.SkippedCount)
}
