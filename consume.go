package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/streadway/amqp"
	"google.golang.org/adk/agent"
	"google.golang.org/adk/session"
	"google.golang.org/genai"

	"github.com/muhammadolammi/resumematch/internal/cache"
	"github.com/muhammadolammi/resumematch/internal/database"
	"github.com/muhammadolammi/resumematch/internal/resume"
	"github.com/muhammadolammi/resumematch/internal/retry"
)

func aggregateResult(results *AnalysesResults, base AnalysesResult, resultStr string, hasError bool, errorMsg string) {
	result := base
	switch {
	case hasError:
		result.IsErrorResult = true
		result.Error = errorMsg

	case strings.TrimSpace(resultStr) == "":
		result.IsErrorResult = true
		result.Error = "empty response from agent"

	default:
		cleaned := []byte(CleanJson(resultStr))

		if err := validateAnalysis(cleaned); err != nil {
			result.IsErrorResult = true
			result.Error = "invalid agent response: " + err.Error()
		} else if err := json.Unmarshal(cleaned, &result); err != nil {
			result.IsErrorResult = true
			result.Error = "json unmarshal error: " + err.Error()
		}
	}

	results.Results = append(results.Results, result)
}

// extractResume loads the uploaded bytes, runs the extraction pipeline and
// stores the canonical record on the resume row.
func extractResume(ctx context.Context, upload ResumeUpload, workerConfig *WorkerConfig) (resume.CanonicalResumeExtraction, error) {
	if upload.ObjectKey == "" && upload.URL == "" {
		row, err := workerConfig.DB.GetResume(ctx, upload.ResumeID)
		if err != nil {
			return resume.CanonicalResumeExtraction{}, fmt.Errorf("error getting resume %v: %w", upload.ResumeID, err)
		}
		upload.ObjectKey = row.ObjectKey
		upload.Mime = row.Mime
		upload.Filename = row.OriginalFilename
	}

	var data []byte
	if upload.URL != "" {
		data = workerConfig.Pipeline.Fetcher.FetchBytes(ctx, upload.URL)
	} else {
		data = workerConfig.Objects.FetchObject(ctx, upload.ObjectKey)
	}
	doc := &resume.RawDocument{
		Bytes:            data,
		DeclaredMimeType: upload.Mime,
		FileName:         upload.Filename,
	}

	key := cache.Key(doc)
	rec, hit := workerConfig.Cache.Get(ctx, key)
	if !hit {
		var err error
		rec, err = workerConfig.Pipeline.Dispatch(ctx, doc)
		if err != nil {
			return resume.CanonicalResumeExtraction{}, err
		}
		workerConfig.Cache.Set(ctx, key, rec)
	}

	params, err := extractionParams(upload.ResumeID, rec)
	if err != nil {
		return resume.CanonicalResumeExtraction{}, err
	}
	_, err = retry.Do(ctx, 3, retry.DefaultDelay, func() (any, error) {
		return nil, workerConfig.DB.UpdateResumeExtraction(ctx, params)
	})
	if err != nil {
		return resume.CanonicalResumeExtraction{}, fmt.Errorf("failed to save extraction after retries: %w", err)
	}
	log.Printf("resume %s extracted. format: %s, cached: %t, degraded: %t", upload.ResumeID, rec.FormatUsed, hit, rec.ParseError != "")
	return rec, nil
}

// callAgent scores every resume of a session against its job description
// and stores the aggregated results.
func callAgent(currentSession Session, workerConfig *WorkerConfig) error {
	ctx := context.Background()
	resumes, err := workerConfig.DB.GetResumesBySession(ctx, currentSession.ID)
	if err != nil {
		return fmt.Errorf("error getting resumes for session: %v, err: %v", currentSession.ID, err)
	}

	results := &AnalysesResults{
		SessionID: currentSession.ID,
	}

	agentSession, err := workerConfig.AgentSessionService.Create(ctx, &session.CreateRequest{
		AppName:   workerConfig.AgentName,
		UserID:    currentSession.UserID.String(),
		SessionID: currentSession.ID.String(),
	})
	if err != nil {
		return fmt.Errorf("failed to create runner: %w", err)
	}

	for _, r := range resumes {
		base := AnalysesResult{ResumeID: r.ID, CandidateName: r.CandidateName, CandidateEmail: r.Email}
		fullText := r.FullText

		if !r.ExtractedAt.Valid {
			rec, err := extractResume(ctx, ResumeUpload{
				ResumeID:  r.ID,
				SessionID: r.SessionID,
				ObjectKey: r.ObjectKey,
				Mime:      r.Mime,
				Filename:  r.OriginalFilename,
			}, workerConfig)
			if err != nil {
				log.Printf("⚠️ Extraction failed for %s: %v", r.ObjectKey, err)
				aggregateResult(results, base, "", true, fmt.Sprintf("text extraction error: %v", err))
				continue
			}
			base.CandidateName = rec.Name
			base.CandidateEmail = rec.Contact.Email
			fullText = rec.FullText
		}

		if strings.TrimSpace(fullText) == "" {
			aggregateResult(results, base, "", true, "no text could be extracted from this resume")
			continue
		}

		msg := fmt.Sprintf(
			"Job Title:\n%s\n\nJob Description:\n%s\n\nResume:\n%s",
			currentSession.JobTitle,
			currentSession.JobDescription,
			fullText,
		)

		finalOutput, streamErr := retry.Do(ctx, 2, retry.DefaultDelay,
			func() (string, error) {
				if err := workerConfig.AgentLimiter.Wait(ctx); err != nil {
					return "", err
				}
				stream := workerConfig.AgentRunner.Run(ctx, agentSession.Session.UserID(), agentSession.Session.ID(), &genai.Content{
					Role: "user",
					Parts: []*genai.Part{
						{Text: msg},
					},
				}, agent.RunConfig{})

				var output string
				for event, err := range stream {
					if err != nil {
						return "", err
					}
					if event != nil && event.IsFinalResponse() && event.Content != nil && len(event.Content.Parts) > 0 {
						output = event.Content.Parts[0].Text
					}
				}

				if output == "" {
					return "", fmt.Errorf("empty agent response")
				}
				return output, nil
			})

		if streamErr != nil {
			log.Printf("⚠️ Agent failed for %s after retries: %v", r.ObjectKey, streamErr)
			aggregateResult(results, base, "", true, fmt.Sprintf("agent stream error: %v", streamErr))
		} else {
			aggregateResult(results, base, finalOutput, false, "")
		}
	}
	log.Println("session id: " + agentSession.Session.ID() + " analyzed")
	err = workerConfig.AgentSessionService.Delete(ctx, &session.DeleteRequest{
		AppName:   agentSession.Session.AppName(),
		UserID:    agentSession.Session.UserID(),
		SessionID: agentSession.Session.ID(),
	})
	if err != nil {
		return fmt.Errorf("failed to delete session: %v", err)
	}

	resultsJSON, err := json.Marshal(results.Results)
	if err != nil {
		return fmt.Errorf("failed to marshal analyses results: %w", err)
	}

	_, err = retry.Do(ctx, 3, retry.DefaultDelay, func() (any, error) {
		return nil, workerConfig.DB.CreateOrUpdateAnalysesResults(ctx, database.CreateOrUpdateAnalysesResultsParams{
			Results:   resultsJSON,
			SessionID: results.SessionID,
		})
	})
	if err != nil {
		return fmt.Errorf("failed to save agent result after retries: %w", err)
	}

	return nil
}

func (workerConfig *WorkerConfig) notifySession(id fmt.Stringer, status, message string) {
	update := map[string]any{
		"session_id": id.String(),
		"status":     status,
		"message":    message,
		"timestamp":  time.Now(),
	}
	if err := publishSessionUpdate(workerConfig.RabbitConn, id.String(), update); err != nil {
		log.Println("failed to publish update:", err)
	}
}

func (workerConfig *WorkerConfig) handleSession(id int, msg amqp.Delivery) {
	ctx := context.Background()
	currentSession := Session{}
	if err := json.Unmarshal(msg.Body, &currentSession); err != nil {
		log.Printf("error unmarshalling message body. err: %v", err)
		if currentSession.ID != uuid.Nil {
			workerConfig.updateSessionStatus(ctx, currentSession, "failed")
			workerConfig.notifySession(currentSession.ID, "failed", "analysis failed")
		}
		return
	}
	if currentSession.JobDescription == "" {
		stored, err := workerConfig.DB.GetSession(ctx, currentSession.ID)
		if err != nil {
			log.Printf("error loading session %v. err: %v", currentSession.ID, err)
		} else {
			currentSession.UserID = stored.UserID
			currentSession.JobTitle = stored.JobTitle
			currentSession.JobDescription = stored.JobDescription
		}
	}
	log.Printf("Worker %d processing session. session_id: %s", id+1, currentSession.ID)

	workerConfig.notifySession(currentSession.ID, "processing", "analysis started")
	workerConfig.updateSessionStatus(ctx, currentSession, "processing")

	if err := callAgent(currentSession, workerConfig); err != nil {
		log.Printf("error running agent for session_id: %v. err: %v", currentSession.ID, err)
		workerConfig.updateSessionStatus(ctx, currentSession, "failed")
		workerConfig.notifySession(currentSession.ID, "failed", "analysis failed")
		return
	}

	workerConfig.updateSessionStatus(ctx, currentSession, "completed")
	workerConfig.notifySession(currentSession.ID, "completed", "analysis completed")
}

func (workerConfig *WorkerConfig) updateSessionStatus(ctx context.Context, s Session, status string) {
	err := workerConfig.DB.UpdateSessionStatus(ctx, database.UpdateSessionStatusParams{
		Status: status,
		ID:     s.ID,
	})
	if err != nil {
		log.Printf("error updating session status in db to %s for session_id: %v. err: %v", status, s.ID, err)
	}
}

func (workerConfig *WorkerConfig) updateResumeStatus(ctx context.Context, id uuid.UUID, status string) {
	err := workerConfig.DB.UpdateResumeStatus(ctx, database.UpdateResumeStatusParams{
		UploadStatus: status,
		ID:           id,
	})
	if err != nil {
		log.Printf("error updating resume status to %s for resume_id: %v. err: %v", status, id, err)
	}
}

func (workerConfig *WorkerConfig) handleUpload(id int, msg amqp.Delivery) {
	ctx := context.Background()
	upload := ResumeUpload{}
	if err := json.Unmarshal(msg.Body, &upload); err != nil {
		log.Printf("error unmarshalling upload message. err: %v", err)
		return
	}
	log.Printf("Worker %d extracting resume. resume_id: %s", id+1, upload.ResumeID)

	workerConfig.updateResumeStatus(ctx, upload.ResumeID, "processing")

	update := map[string]any{
		"session_id": upload.SessionID.String(),
		"resume_id":  upload.ResumeID.String(),
		"timestamp":  time.Now(),
	}
	rec, err := extractResume(ctx, upload, workerConfig)
	if err != nil {
		log.Printf("error extracting resume_id: %v. err: %v", upload.ResumeID, err)
		workerConfig.updateResumeStatus(ctx, upload.ResumeID, "failed")
		update["status"] = "failed"
		update["message"] = "resume extraction failed"
	} else {
		update["status"] = "completed"
		update["message"] = "resume extracted"
		update["name"] = rec.Name
		update["format_used"] = rec.FormatUsed
		if rec.ParseError != "" {
			update["message"] = rec.Summary
		}
	}
	if err := publishSessionUpdate(workerConfig.RabbitConn, upload.SessionID.String(), update); err != nil {
		log.Println("failed to publish update:", err)
	}
}

func worker(id int, queue string, workerConfig *WorkerConfig, handle func(int, amqp.Delivery), wg *sync.WaitGroup) {
	defer wg.Done()
	conn, err := amqp.Dial(workerConfig.RABBITMQUrl)
	if err != nil {
		log.Fatal("error dialling rabbitmq: " + err.Error())
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatal("error connecting to rabbitmq channel: " + err.Error())
	}
	defer ch.Close()
	_, err = ch.QueueDeclare(
		queue, // queue name
		true,  // durable (survives broker restarts)
		false, // auto-delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		log.Fatalf("Failed to declare queue %s: %v", queue, err)
	}

	msgs, err := ch.Consume(
		queue, // queue name
		"",    // consumer tag
		true,  // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		log.Fatal("error consuming rabbitmq message: " + err.Error())
	}

	for msg := range msgs {
		handle(id, msg)
	}
}

// StartConsumerWorkerPool runs numWorkers consumers on each queue and blocks
// until they all stop.
func (workerConfig *WorkerConfig) StartConsumerWorkerPool(numWorkers int) {
	var wg sync.WaitGroup
	wg.Add(2 * numWorkers)

	for i := range numWorkers {
		log.Println("worker id ", i+1, "started")
		go worker(i, uploadsQueue, workerConfig, workerConfig.handleUpload, &wg)
		go worker(i, sessionsQueue, workerConfig, workerConfig.handleSession, &wg)
	}
	wg.Wait()
}
