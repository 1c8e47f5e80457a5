package main

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/streadway/amqp"

	"github.com/muhammadolammi/resumematch/internal/database"
	"github.com/muhammadolammi/resumematch/internal/resume"
)

func CleanJson(input string) string {
	clean := strings.TrimSpace(input)

	// Remove opening ```json or ``` with optional newline
	if strings.HasPrefix(clean, "```json") {
		clean = strings.TrimPrefix(clean, "```json")
	} else if strings.HasPrefix(clean, "```") {
		clean = strings.TrimPrefix(clean, "```")
	}
	clean = strings.TrimLeft(clean, "\r\n")

	clean = strings.TrimSuffix(clean, "```")

	return strings.TrimSpace(clean)
}

const analysisSchema = `{
  "type": "object",
  "required": ["match_score", "summary", "recommendation"],
  "properties": {
    "candidate_email": {"type": "string"},
    "match_score": {"type": "integer", "minimum": 0, "maximum": 100},
    "relevant_experiences": {"type": "array", "items": {"type": "string"}},
    "relevant_skills": {"type": "array", "items": {"type": "string"}},
    "missing_skills": {"type": "array", "items": {"type": "string"}},
    "summary": {"type": "string"},
    "recommendation": {"type": "string"}
  }
}`

var (
	compiledAnalysisSchema *jsonschema.Schema
	analysisSchemaErr      error
	analysisSchemaOnce     sync.Once
)

// validateAnalysis checks an agent reply against the analysis schema.
func validateAnalysis(data []byte) error {
	analysisSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("analysis.json", strings.NewReader(analysisSchema)); err != nil {
			analysisSchemaErr = fmt.Errorf("add schema: %w", err)
			return
		}
		compiledAnalysisSchema, analysisSchemaErr = compiler.Compile("analysis.json")
	})
	if analysisSchemaErr != nil {
		return fmt.Errorf("compile schema: %w", analysisSchemaErr)
	}

	var v any
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := compiledAnalysisSchema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}

// extractionParams maps a canonical record onto the resume row.
func extractionParams(id uuid.UUID, rec resume.CanonicalResumeExtraction) (database.UpdateResumeExtractionParams, error) {
	experience, err := json.Marshal(rec.Experience)
	if err != nil {
		return database.UpdateResumeExtractionParams{}, fmt.Errorf("marshal experience: %w", err)
	}
	education, err := json.Marshal(rec.Education)
	if err != nil {
		return database.UpdateResumeExtractionParams{}, fmt.Errorf("marshal education: %w", err)
	}
	skills, err := json.Marshal(rec.Skills)
	if err != nil {
		return database.UpdateResumeExtractionParams{}, fmt.Errorf("marshal skills: %w", err)
	}

	status := "parsed"
	if rec.ParseError != "" || rec.FormatUsed == resume.FormatUnsupported {
		status = "needs_review"
	}

	return database.UpdateResumeExtractionParams{
		CandidateName: rec.Name,
		Email:         rec.Contact.Email,
		Phone:         rec.Contact.Phone,
		Location:      rec.Contact.Location,
		Linkedin:      rec.Contact.LinkedIn,
		Summary:       rec.Summary,
		Experience:    experience,
		Education:     education,
		Skills:        skills,
		FullText:      rec.FullText,
		FormatUsed:    string(rec.FormatUsed),
		ParseError:    sql.NullString{String: rec.ParseError, Valid: rec.ParseError != ""},
		UploadStatus:  status,
		ID:            id,
	}, nil
}

var errNoBroker = errors.New("no rabbitmq connection")

func publishSessionUpdate(rabbitConn *amqp.Connection, sessionID string, update map[string]any) error {
	if rabbitConn == nil {
		return errNoBroker
	}
	ch, err := rabbitConn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	body, err := json.Marshal(update)
	if err != nil {
		return err
	}
	routingKey := fmt.Sprintf("session.%s", sessionID)

	return ch.Publish(
		updateExchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}
