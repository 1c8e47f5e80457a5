package main

import (
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
	"golang.org/x/time/rate"
	"google.golang.org/adk/runner"
	"google.golang.org/adk/session"

	"github.com/muhammadolammi/resumematch/internal/cache"
	"github.com/muhammadolammi/resumematch/internal/database"
	"github.com/muhammadolammi/resumematch/internal/fetch"
	"github.com/muhammadolammi/resumematch/internal/pipeline"
)

const (
	uploadsQueue   = "resume_uploads"
	sessionsQueue  = "sessions"
	updateExchange = "session_updates"
)

type WorkerConfig struct {
	DB                  *database.Queries
	Objects             *fetch.ObjectStore
	Pipeline            *pipeline.Pipeline
	Cache               *cache.Redis
	RabbitConn          *amqp.Connection
	RABBITMQUrl         string
	AgentRunner         *runner.Runner
	AgentSessionService session.Service
	AgentName           string
	AgentLimiter        *rate.Limiter
}

// ResumeUpload is published by the API after a file lands in the bucket.
// Either ObjectKey or URL locates the bytes; when both are empty the stored
// resume row is used.
type ResumeUpload struct {
	ResumeID  uuid.UUID `json:"resume_id"`
	SessionID uuid.UUID `json:"session_id"`
	ObjectKey string    `json:"object_key,omitempty"`
	URL       string    `json:"url,omitempty"`
	Mime      string    `json:"mime"`
	Filename  string    `json:"filename"`
}

type AnalysesResult struct {
	ResumeID            uuid.UUID `json:"resume_id"`
	CandidateName       string    `json:"candidate_name"`
	CandidateEmail      string    `json:"candidate_email"`
	MatchScore          int       `json:"match_score"`
	RelevantExperiences []string  `json:"relevant_experiences"`
	RelevantSkills      []string  `json:"relevant_skills"`
	MissingSkills       []string  `json:"missing_skills"`
	Summary             string    `json:"summary"`
	Recomendation       string    `json:"recommendation"`
	// Error result entry
	IsErrorResult bool   `json:"is_error_result"`
	Error         string `json:"error,omitempty"`
}

type AnalysesResults struct {
	ID        uuid.UUID        `json:"id"`
	Results   []AnalysesResult `json:"results" db:"results"`
	CreatedAt time.Time        `json:"created_at"`
	SessionID uuid.UUID        `json:"session_id"`
	UpdatedAt time.Time        `json:"updated_at"`
}

type Session struct {
	ID             uuid.UUID `json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	Name           string    `json:"name"`
	UserID         uuid.UUID `json:"user_id"`
	Status         string    `json:"status"`
	JobTitle       string    `json:"job_title"`
	JobDescription string    `json:"job_description"`
}
