package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"insight/internal/attendance"
	"insight/internal/config"
	"insight/internal/mailer"
	"insight/internal/people"
	"insight/internal/queue"
	"insight/internal/store"
)

// The worker drains the job queue: detached attendance writes coming out of
// the face-match flow, and outbound email.
func main() {
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("shutdown signal received")
		cancel()
	}()

	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer db.Close()

	redisClient := store.NewRedis(cfg.RedisAddr)

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		q = queue.NewInMemory(64)
	} else {
		q = queue.NewRedisQueue(redisClient.Client, "insight:jobs")
	}

	attSvc := attendance.NewService(attendance.NewRepository(db.Client))
	peopleSvc := people.NewService(people.NewRepository(db.Client))

	var transport mailer.Transport
	if cfg.SendgridAPIKey != "" {
		transport = mailer.NewSendgridTransport(cfg.SendgridAPIKey)
	} else {
		transport = mailer.NewConsoleTransport()
	}
	mail := mailer.NewService(transport, cfg.EmailFrom, cfg.EmailFromName)

	messages, err := q.Consume(ctx)
	if err != nil {
		log.Fatalf("queue consume init failed: %v", err)
	}

	log.Println("worker started, waiting for messages...")
	for msg := range messages {
		switch msg.Type {
		case queue.TypeAttendance:
			handleAttendance(ctx, attSvc, peopleSvc, msg.Body)
		case queue.TypeEmail:
			handleEmail(ctx, mail, msg.Body)
		default:
			log.Printf("unknown message type %q, dropping", msg.Type)
		}
	}

	log.Println("worker stopped")
}

// handleAttendance performs the write behind an already-reported match. The
// match shown to the user is final, so failures here are logged, never
// surfaced.
func handleAttendance(ctx context.Context, att *attendance.Service, ppl *people.Service, body []byte) {
	var job queue.AttendanceJob
	if err := json.Unmarshal(body, &job); err != nil {
		log.Printf("bad attendance job: %v", err)
		return
	}

	rec, err := att.MarkRecognized(ctx, job.SubjectID, job.SubjectName, job.Class, job.Confidence)
	if err != nil {
		if errors.Is(err, attendance.ErrAlreadyMarked) {
			log.Printf("attendance for %s already marked today, skipping", job.SubjectID)
			return
		}
		log.Printf("attendance write failed for %s: %v", job.SubjectID, err)
		return
	}

	identity := people.Identity{ID: job.SubjectID, Name: job.SubjectName, Class: job.Class, Role: people.Role(job.Role)}
	entry := people.RecentEntry{
		Date:       rec.Date.Format("2006-01-02"),
		Status:     string(rec.Status),
		Time:       rec.Time,
		Confidence: job.Confidence,
		Method:     rec.Method,
	}
	if err := ppl.AppendRecent(ctx, identity, entry); err != nil {
		log.Printf("recent history update failed for %s: %v", job.SubjectID, err)
	}
	log.Printf("attendance recorded for %s (%d%% confidence)", job.SubjectID, job.Confidence)
}

func handleEmail(ctx context.Context, mail *mailer.Service, body []byte) {
	var job queue.EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		log.Printf("bad email job: %v", err)
		return
	}

	msg := mailer.Message{To: job.To, Subject: job.Subject, HTML: job.HTML, Type: job.Type}
	if _, err := mail.Send(ctx, job.Caller, msg); err != nil {
		log.Printf("queued email to %s failed: %v", job.To, err)
		return
	}
	log.Printf("email sent to %s", job.To)
}
