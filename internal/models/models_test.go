package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBaseModelBeforeCreateGeneratesID(t *testing.T) {
	var base BaseModel
	require.NoError(t, base.BeforeCreate(nil))
	require.NotEmpty(t, base.ID)

	keep := BaseModel{ID: "fixed"}
	require.NoError(t, keep.BeforeCreate(nil))
	require.Equal(t, "fixed", keep.ID)
}

func TestEmbeddedModelsUseBaseBeforeCreate(t *testing.T) {
	cases := []struct {
		name  string
		model func() *BaseModel
	}{
		{"user", func() *BaseModel { return &(&User{}).BaseModel }},
		{"verification_code", func() *BaseModel { return &(&VerificationCode{}).BaseModel }},
		{"task_list", func() *BaseModel { return &(&TaskList{}).BaseModel }},
		{"task", func() *BaseModel { return &(&Task{}).BaseModel }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			base := tc.model()
			require.NoError(t, base.BeforeCreate(nil))
			require.NotEmpty(t, base.ID)
		})
	}
}

func TestParseTaskPriority(t *testing.T) {
	p, ok := ParseTaskPriority("")
	require.True(t, ok)
	require.Equal(t, TaskPriorityMedium, p)

	p, ok = ParseTaskPriority(" HIGH ")
	require.True(t, ok)
	require.Equal(t, TaskPriorityHigh, p)

	_, ok = ParseTaskPriority("urgent")
	require.False(t, ok)
}

func TestParseTaskStatus(t *testing.T) {
	s, ok := ParseTaskStatus("")
	require.True(t, ok)
	require.Equal(t, TaskStatusPending, s)

	s, ok = ParseTaskStatus("in_progress")
	require.True(t, ok)
	require.Equal(t, TaskStatusInProgress, s)

	_, ok = ParseTaskStatus("done")
	require.False(t, ok)
}

func TestVerificationCodeActive(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	code := VerificationCode{ExpiresAt: now.Add(time.Minute)}
	require.True(t, code.Active(now))
	require.False(t, code.Active(now.Add(2*time.Minute)))

	consumed := now
	code.ConsumedAt = &consumed
	require.False(t, code.Active(now))
}
