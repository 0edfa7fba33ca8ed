package domain

import (
	"time"

	"github.com/google/uuid"
)

// GenerationStatus статус попытки генерации карты
type GenerationStatus string

const (
	GenerationStatusPending GenerationStatus = "pending"
	GenerationStatusReady   GenerationStatus = "ready"
	GenerationStatusFailed  GenerationStatus = "failed"
)

func (s GenerationStatus) String() string {
	return string(s)
}

// GenerationStep шаг пайплайна генерации, используется в ошибках и журнале
type GenerationStep string

const (
	StepValidate      GenerationStep = "validate-input"
	StepLock          GenerationStep = "acquire-lock"
	StepBegin         GenerationStep = "begin-generation"
	StepFetchChart    GenerationStep = "fetch-chart"
	StepFetchPlanets  GenerationStep = "fetch-planets"
	StepDownloadImage GenerationStep = "download-image"
	StepUploadImage   GenerationStep = "upload-image"
	StepUpdateProfile GenerationStep = "update-profile-metadata"
	StepTimeout       GenerationStep = "timeout"
)

func (s GenerationStep) String() string {
	return string(s)
}

// Generation запись журнала генераций: одна строка на пользователя,
// Version растёт при каждой новой попытке
type Generation struct {
	UserID      string           `json:"user_id" db:"user_id"`
	Version     int64            `json:"version" db:"version"`
	AttemptID   uuid.UUID        `json:"attempt_id" db:"attempt_id"`
	Status      GenerationStatus `json:"status" db:"status"`
	ChartURL    *string          `json:"chart_url,omitempty" db:"chart_url"`
	StoragePath *string          `json:"storage_path,omitempty" db:"storage_path"`
	FailedStep  *string          `json:"failed_step,omitempty" db:"failed_step"`
	Error       *string          `json:"error,omitempty" db:"error"`
	StartedAt   time.Time        `json:"started_at" db:"started_at"`
	UpdatedAt   time.Time        `json:"updated_at" db:"updated_at"`
}
