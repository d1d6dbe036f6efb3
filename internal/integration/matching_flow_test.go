package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"talentbridge/internal/config"
	"talentbridge/internal/database"
	dbpostgres "talentbridge/internal/database/postgres"
	"talentbridge/internal/database/schema"
	"talentbridge/internal/delivery/http/middleware"
	"talentbridge/internal/delivery/http/routes"
	"talentbridge/internal/pkg/jwt"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type rankedJobItem struct {
	MatchID uuid.UUID `json:"match_id"`
	JobID   uuid.UUID `json:"job_id"`
	Score   int       `json:"score"`
}

type matchItem struct {
	ID       uuid.UUID `json:"id"`
	IsMutual bool      `json:"is_mutual"`
}

type applicationItem struct {
	ID         uuid.UUID `json:"id"`
	Status     string    `json:"status"`
	MatchScore int       `json:"match_score"`
}

type unreadItem struct {
	UnreadCount int `json:"unread_count"`
}

// End-to-end walk over a live Postgres: ranking, apply, mutual
// interest, gated messaging, notifications. Skips when no test DB is
// configured.
func TestIntegration_MatchToMessageFlow(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	db := connectTestDB(t, ctx)
	defer func() { _ = db.Close() }()

	if err := schema.Ensure(ctx, db); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}

	candidateID, companyID, jobID := uuid.New(), uuid.New(), uuid.New()
	seedPair(t, ctx, db, candidateID, companyID, jobID)
	defer cleanupPair(t, ctx, db, candidateID, jobID)

	cfg := testConfig()
	app := newTestApp(cfg, db)

	jwtSvc := jwt.NewHMACService(cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret, cfg.JWT.AccessExpiresIn, cfg.JWT.RefreshExpiresIn)
	candidateTok, err := jwtSvc.GenerateAccessToken(candidateID, "candidate")
	if err != nil {
		t.Fatalf("candidate token: %v", err)
	}
	companyTok, err := jwtSvc.GenerateAccessToken(companyID, "company")
	if err != nil {
		t.Fatalf("company token: %v", err)
	}

	// Ranked jobs materializes the match row.
	var ranked []rankedJobItem
	env := doJSON(t, app, "GET", "/api/v1/matching/jobs?limit=20&min_score=0", candidateTok, nil, 200)
	mustUnmarshal(t, env.Data, &ranked)
	matchID := uuid.Nil
	for _, it := range ranked {
		if it.JobID == jobID {
			matchID = it.MatchID
			if it.Score < 0 || it.Score > 100 {
				t.Fatalf("score out of range: %d", it.Score)
			}
		}
	}
	if matchID == uuid.Nil {
		t.Fatalf("seeded job missing from ranking")
	}

	// Messaging is locked until both sides opt in.
	doJSON(t, app, "POST", "/api/v1/messages/"+matchID.String(), candidateTok,
		map[string]string{"content": "hello"}, 403)

	// Apply, then duplicate apply conflicts.
	var applied applicationItem
	env = doJSON(t, app, "POST", "/api/v1/jobs/"+jobID.String()+"/apply", candidateTok,
		map[string]string{"cover_letter": "hi"}, 201)
	mustUnmarshal(t, env.Data, &applied)
	if applied.Status != "pending" {
		t.Fatalf("expected pending application, got %s", applied.Status)
	}
	doJSON(t, app, "POST", "/api/v1/jobs/"+jobID.String()+"/apply", candidateTok,
		map[string]string{"cover_letter": "hi again"}, 409)

	// Both sides express interest.
	var m matchItem
	env = doJSON(t, app, "PUT", "/api/v1/matches/"+matchID.String()+"/action", candidateTok,
		map[string]string{"action": "interested"}, 200)
	mustUnmarshal(t, env.Data, &m)
	if m.IsMutual {
		t.Fatalf("one-sided interest must not be mutual")
	}
	env = doJSON(t, app, "PUT", "/api/v1/matches/"+matchID.String()+"/action", companyTok,
		map[string]string{"action": "interested"}, 200)
	mustUnmarshal(t, env.Data, &m)
	if !m.IsMutual {
		t.Fatalf("expected mutual match")
	}

	// The gate is open now.
	doJSON(t, app, "POST", "/api/v1/messages/"+matchID.String(), candidateTok,
		map[string]string{"content": "hello"}, 201)
	env = doJSON(t, app, "GET", "/api/v1/messages/"+matchID.String(), companyTok, nil, 200)
	var msgs []json.RawMessage
	mustUnmarshal(t, env.Data, &msgs)
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}

	// The company accumulated notifications along the way.
	var unread unreadItem
	env = doJSON(t, app, "GET", "/api/v1/notifications/unread-count", companyTok, nil, 200)
	mustUnmarshal(t, env.Data, &unread)
	if unread.UnreadCount == 0 {
		t.Fatalf("expected unread notifications for the company")
	}

	// Review, then a late withdraw must conflict.
	doJSON(t, app, "PUT", "/api/v1/applications/"+applied.ID.String()+"/status", companyTok,
		map[string]string{"status": "reviewed"}, 200)
	doJSON(t, app, "DELETE", "/api/v1/applications/"+applied.ID.String(), candidateTok, nil, 409)
}

func connectTestDB(t *testing.T, ctx context.Context) database.DB {
	t.Helper()

	host := stringsOrDefault(os.Getenv("TALENTBRIDGE_TEST_DB_HOST"), os.Getenv("DB_HOST"))
	port := stringsOrDefault(os.Getenv("TALENTBRIDGE_TEST_DB_PORT"), os.Getenv("DB_PORT"))
	name := stringsOrDefault(os.Getenv("TALENTBRIDGE_TEST_DB_NAME"), os.Getenv("DB_NAME"))
	user := stringsOrDefault(os.Getenv("TALENTBRIDGE_TEST_DB_USER"), os.Getenv("DB_USER"))
	pass := stringsOrDefault(os.Getenv("TALENTBRIDGE_TEST_DB_PASSWORD"), os.Getenv("DB_PASSWORD"))
	ssl := stringsOrDefault(os.Getenv("TALENTBRIDGE_TEST_DB_SSL_MODE"), os.Getenv("DB_SSL_MODE"))

	if host == "" || port == "" || name == "" || user == "" {
		t.Skip("missing test DB env vars: set TALENTBRIDGE_TEST_DB_HOST/PORT/NAME/USER/PASSWORD (or DB_*)")
	}
	if ssl == "" {
		ssl = "disable"
	}

	db, err := dbpostgres.Connect(ctx, config.DatabaseConfig{
		DBHost:     host,
		DBPort:     port,
		DBName:     name,
		DBUser:     user,
		DBPassword: pass,
		DBSSLMode:  ssl,
	})
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	return db
}

func testConfig() config.Config {
	return config.Config{
		App: config.AppConfig{AppName: "talentbridge", Environment: "test", HTTPPort: "0"},
		JWT: config.JWTConfig{
			AccessSecret:     stringsOrDefault(os.Getenv("TALENTBRIDGE_TEST_JWT_ACCESS_SECRET"), "test-access-secret"),
			RefreshSecret:    stringsOrDefault(os.Getenv("TALENTBRIDGE_TEST_JWT_REFRESH_SECRET"), "test-refresh-secret"),
			AccessExpiresIn:  15 * time.Minute,
			RefreshExpiresIn: 24 * time.Hour,
		},
		Notification: config.NotificationConfig{DedupBucket: 10 * time.Minute},
	}
}

func newTestApp(cfg config.Config, db database.DB) *fiber.App {
	app := fiber.New(fiber.Config{})
	app.Use(middleware.NewErrorMiddleware().Middleware())

	logger := log.New(os.Stderr, "[test] ", log.LstdFlags)
	routes.NewRegistry(cfg, db, nil, logger).Register(app)
	return app
}

func seedPair(t *testing.T, ctx context.Context, db database.DB, candidateID, companyID, jobID uuid.UUID) {
	t.Helper()

	_, err := db.Exec(ctx,
		`INSERT INTO candidates (id, full_name, skills, experience_years, education_level, location)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		candidateID, "Integration Candidate", []string{"Go", "PostgreSQL"}, 4, "bachelor", "Berlin")
	if err != nil {
		t.Fatalf("seed candidate: %v", err)
	}

	_, err = db.Exec(ctx,
		`INSERT INTO jobs (id, company_id, title, required_skills, experience_min, experience_max,
			education_level, location, is_remote, contract_type, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, TRUE)`,
		jobID, companyID, "Backend Engineer", []string{"Go", "PostgreSQL"}, 2, 6, "bachelor", "Berlin", false, "full_time")
	if err != nil {
		t.Fatalf("seed job: %v", err)
	}
}

func cleanupPair(t *testing.T, ctx context.Context, db database.DB, candidateID, jobID uuid.UUID) {
	t.Helper()

	_, _ = db.Exec(ctx, `DELETE FROM notifications WHERE related_id IN (SELECT id FROM matches WHERE candidate_id = $1)`, candidateID)
	_, _ = db.Exec(ctx, `DELETE FROM notifications WHERE related_id IN (SELECT id FROM applications WHERE candidate_id = $1)`, candidateID)
	_, _ = db.Exec(ctx, `DELETE FROM messages WHERE match_id IN (SELECT id FROM matches WHERE candidate_id = $1)`, candidateID)
	_, _ = db.Exec(ctx, `DELETE FROM applications WHERE candidate_id = $1`, candidateID)
	_, _ = db.Exec(ctx, `DELETE FROM matches WHERE candidate_id = $1`, candidateID)
	_, _ = db.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, jobID)
	_, _ = db.Exec(ctx, `DELETE FROM candidates WHERE id = $1`, candidateID)
}

func doJSON(t *testing.T, app *fiber.App, method, target, token string, body any, wantStatus int) envelope {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("%s %s: encode body: %v", method, target, err)
		}
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, target, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("%s %s: decode: %v", method, target, err)
	}
	if resp.StatusCode != wantStatus {
		t.Fatalf("%s %s: expected %d, got %d (message=%s)", method, target, wantStatus, resp.StatusCode, env.Message)
	}
	if wantSuccess := wantStatus < 400; env.Success != wantSuccess {
		t.Fatalf("%s %s: expected success=%v, got %v", method, target, wantSuccess, env.Success)
	}
	return env
}

func mustUnmarshal(t *testing.T, raw json.RawMessage, out any) {
	t.Helper()
	if err := json.Unmarshal(raw, out); err != nil {
		t.Fatalf("unmarshal data: %v", err)
	}
}

func stringsOrDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}
