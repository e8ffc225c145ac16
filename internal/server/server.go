// Package server composes the family engine with its persistence,
// notification and HTTP collaborators.
package server

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/dglass/copperpot/internal/backup"
	"github.com/dglass/copperpot/internal/config"
	"github.com/dglass/copperpot/internal/email"
	"github.com/dglass/copperpot/internal/events"
	"github.com/dglass/copperpot/internal/family"
	"github.com/dglass/copperpot/internal/gate"
	"github.com/dglass/copperpot/internal/handler"
	"github.com/dglass/copperpot/internal/middleware"
	"github.com/dglass/copperpot/internal/model"
	"github.com/dglass/copperpot/internal/push"
	"github.com/dglass/copperpot/internal/store"
)

const (
	saveDebounce        = 2 * time.Second
	maintenanceInterval = time.Hour
)

type Server struct {
	db     *sql.DB
	cfg    *config.Config
	logger *slog.Logger

	hub       *events.Hub
	familySvc *family.Service
	snapshots *store.SnapshotStore
	saver     *saver

	gate     *gate.Gate
	recovery *gate.Recovery

	pushSvc       *push.Service
	pushScheduler *push.Scheduler
	backupManager *backup.Manager
	rateLimiter   *middleware.RateLimiter

	memberH      *handler.MemberHandler
	choreH       *handler.ChoreHandler
	jobH         *handler.JobHandler
	templateH    *handler.TemplateHandler
	transactionH *handler.TransactionHandler
	settingsH    *handler.SettingsHandler
	gateH        *handler.GateHandler
	pushH        *handler.PushHandler
	backupH      *handler.BackupHandler

	cancel context.CancelFunc
}

func New(db *sql.DB, cfg *config.Config, logger *slog.Logger) (*Server, error) {
	hub := events.NewHub(logger.With("component", "events"))
	snapshots := store.NewSnapshotStore(db)
	pushStore := store.NewPushStore(db)
	backupStore := store.NewBackupStore(db)

	s := &Server{
		db:          db,
		cfg:         cfg,
		logger:      logger,
		hub:         hub,
		snapshots:   snapshots,
		rateLimiter: middleware.NewRateLimiter(),
	}

	// Bring the family state up from the last snapshot. A missing or
	// corrupt snapshot starts a fresh family.
	data, err := snapshots.Load()
	if err != nil {
		return nil, err
	}
	svc := family.New(nil,
		family.WithLogger(logger.With("component", "family")),
		family.WithEvents(s.onFamilyEvent),
	)
	s.familySvc = svc
	s.saver = newSaver(saveDebounce, s.persistSnapshot)
	svc.Restore(data)

	s.gate = gate.New(svc, logger.With("component", "gate"))
	emailClient := email.NewClient(cfg.Email.PostmarkToken, cfg.Email.FromEmail)
	s.recovery = gate.NewRecovery(s.gate, emailClient, logger.With("component", "recovery"))

	s.pushSvc = push.NewService(cfg.Push.VAPIDPublicKey, cfg.Push.VAPIDPrivateKey)
	s.pushScheduler = push.NewScheduler(s.pushSvc, pushStore, svc, logger)

	s.backupManager = backup.NewManager(backup.Config{
		S3: backup.S3Config{
			Endpoint:  cfg.Backup.S3Endpoint,
			Bucket:    cfg.Backup.S3Bucket,
			Region:    cfg.Backup.S3Region,
			AccessKey: cfg.Backup.S3AccessKey,
			SecretKey: cfg.Backup.S3SecretKey,
		},
		Passphrase:    cfg.Backup.Passphrase,
		ScheduleHour:  cfg.Backup.ScheduleHour,
		RetentionDays: cfg.Backup.RetentionDays,
	}, svc, backupStore, logger, func(status backup.Status) {
		hub.Broadcast(events.Message{
			Type:   "backup_status",
			Entity: "backup",
			Action: string(status.State),
		})
	})

	s.memberH = handler.NewMemberHandler(svc)
	s.choreH = handler.NewChoreHandler(svc)
	s.jobH = handler.NewJobHandler(svc)
	s.templateH = handler.NewTemplateHandler(svc)
	s.transactionH = handler.NewTransactionHandler(svc)
	s.settingsH = handler.NewSettingsHandler(svc)
	s.gateH = handler.NewGateHandler(s.gate, s.recovery, svc, cfg.Email.RecoveryEmail, s.saver.Request)
	s.pushH = handler.NewPushHandler(s.pushSvc, pushStore)
	s.backupH = handler.NewBackupHandler(s.backupManager, svc, s.saver.Request)

	return s, nil
}

// onFamilyEvent runs inside the family service's critical section, so
// it must not call back into the service. Lookups for notifications
// happen on a separate goroutine.
func (s *Server) onFamilyEvent(e family.Event) {
	userID := ""
	if e.UserID != nil {
		userID = e.UserID.String()
	}
	s.hub.Broadcast(events.NewMessage(e.Entity, e.Action, e.ID.String(), userID, e.Amount))
	s.saver.Request()

	if e.Action == "completed" {
		go s.notifyIfPending(e)
	}
}

// notifyIfPending pushes an approval request to parents when a
// completion landed in the pending state.
func (s *Server) notifyIfPending(e family.Event) {
	if e.UserID == nil {
		return
	}
	member := s.familySvc.Member(*e.UserID)
	if member == nil {
		return
	}

	switch e.Entity {
	case "chore":
		for _, c := range s.familySvc.Chores() {
			if c.ID == e.ID && c.PendingApproval {
				s.pushScheduler.NotifyApprovalRequested(member.Name, c.Name)
				return
			}
		}
	case "job":
		for _, j := range s.familySvc.Jobs() {
			if j.ID != e.ID {
				continue
			}
			for _, ce := range j.Completions {
				if ce.Status == model.CompletionPending {
					s.pushScheduler.NotifyApprovalRequested(member.Name, j.Title)
					return
				}
			}
		}
	}
}

func (s *Server) persistSnapshot() {
	data, err := s.familySvc.Snapshot()
	if err != nil {
		s.logger.Error("snapshot family state", "error", err)
		return
	}
	if err := s.snapshots.Save(data); err != nil {
		s.logger.Error("save snapshot", "error", err)
	}
}

// Start kicks off the background loops: periodic maintenance, approval
// reminders, scheduled backups, and rate limiter cleanup. Maintenance
// also runs once immediately so expired periods are settled before the
// first request.
func (s *Server) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	s.runMaintenance()
	go func() {
		ticker := time.NewTicker(maintenanceInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.runMaintenance()
			}
		}
	}()

	s.pushScheduler.Start(ctx)
	s.backupManager.Start(ctx)
	s.rateLimiter.StartCleanup(ctx, 10*time.Minute)
}

// Stop halts the background loops and flushes any pending snapshot.
func (s *Server) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.pushScheduler.Stop()
	s.backupManager.Stop()
	s.saver.Flush()
}

func (s *Server) runMaintenance() {
	report := s.familySvc.Maintenance()
	if report.ChoresReset > 0 || report.JobsReset > 0 || report.PendingAutoReject > 0 {
		s.logger.Info("maintenance",
			"chores_reset", report.ChoresReset,
			"jobs_reset", report.JobsReset,
			"pending_auto_rejected", report.PendingAutoReject)
	}
}

// Router builds the HTTP handler with logging, panic recovery, and
// rate limiting on the gate endpoints.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("GET /ws", events.Handler(s.hub, s.logger.With("component", "websocket")))

	// Members
	mux.HandleFunc("GET /api/members", s.memberH.List)
	mux.HandleFunc("POST /api/members", s.memberH.Create)
	mux.HandleFunc("PUT /api/members/{id}", s.memberH.Update)
	mux.HandleFunc("DELETE /api/members/{id}", s.memberH.Delete)
	mux.HandleFunc("POST /api/members/{id}/switch", s.memberH.Switch)
	mux.HandleFunc("GET /api/members/active", s.memberH.Active)

	// Chores
	mux.HandleFunc("GET /api/chores", s.choreH.List)
	mux.HandleFunc("POST /api/chores", s.choreH.Create)
	mux.HandleFunc("DELETE /api/chores/{id}", s.choreH.Delete)
	mux.HandleFunc("POST /api/chores/{id}/assign", s.choreH.Assign)
	mux.HandleFunc("POST /api/chores/{id}/complete", s.choreH.Complete)
	mux.HandleFunc("POST /api/chores/{id}/approve", s.choreH.Approve)
	mux.HandleFunc("POST /api/chores/{id}/reject", s.choreH.Reject)

	// Jobs
	mux.HandleFunc("GET /api/jobs", s.jobH.List)
	mux.HandleFunc("POST /api/jobs", s.jobH.Create)
	mux.HandleFunc("DELETE /api/jobs/{id}", s.jobH.Delete)
	mux.HandleFunc("POST /api/jobs/{id}/complete", s.jobH.Complete)
	mux.HandleFunc("POST /api/jobs/{id}/approve", s.jobH.Approve)
	mux.HandleFunc("POST /api/jobs/{id}/reject", s.jobH.Reject)
	mux.HandleFunc("GET /api/jobs/{id}/progress", s.jobH.Progress)
	mux.HandleFunc("GET /api/jobs/{id}/can-complete", s.jobH.CanComplete)

	// Templates
	mux.HandleFunc("GET /api/templates/chores", s.templateH.ListChore)
	mux.HandleFunc("POST /api/templates/chores", s.templateH.CreateChore)
	mux.HandleFunc("DELETE /api/templates/chores/{id}", s.templateH.DeleteChore)
	mux.HandleFunc("POST /api/templates/chores/{id}/apply", s.templateH.ApplyChore)
	mux.HandleFunc("GET /api/templates/jobs", s.templateH.ListJob)
	mux.HandleFunc("POST /api/templates/jobs", s.templateH.CreateJob)
	mux.HandleFunc("DELETE /api/templates/jobs/{id}", s.templateH.DeleteJob)
	mux.HandleFunc("POST /api/templates/jobs/{id}/apply", s.templateH.ApplyJob)

	// Transactions
	mux.HandleFunc("GET /api/transactions", s.transactionH.List)
	mux.HandleFunc("POST /api/transactions/redeem", s.transactionH.Redeem)
	mux.HandleFunc("POST /api/transactions/adjust", s.transactionH.Adjust)

	// Settings
	mux.HandleFunc("GET /api/settings", s.settingsH.Get)
	mux.HandleFunc("PUT /api/settings", s.settingsH.Update)

	// Parent gate. Submit and recovery endpoints are rate limited to
	// slow down guessing.
	gateLimit := middleware.RateLimit(s.rateLimiter, middleware.RealIP, 10, time.Minute)
	mux.HandleFunc("GET /api/gate", s.gateH.Status)
	mux.HandleFunc("POST /api/gate/request", s.gateH.Request)
	mux.Handle("POST /api/gate/submit", gateLimit(http.HandlerFunc(s.gateH.Submit)))
	mux.HandleFunc("POST /api/gate/cancel", s.gateH.Cancel)
	mux.Handle("POST /api/gate/recovery/request", gateLimit(http.HandlerFunc(s.gateH.RecoveryRequest)))
	mux.Handle("POST /api/gate/recovery/verify", gateLimit(http.HandlerFunc(s.gateH.RecoveryVerify)))

	// Push subscriptions
	mux.HandleFunc("GET /api/push/vapid-key", s.pushH.VAPIDKey)
	mux.HandleFunc("POST /api/push/subscribe", s.pushH.Subscribe)
	mux.HandleFunc("POST /api/push/unsubscribe", s.pushH.Unsubscribe)

	// Backups
	mux.HandleFunc("GET /api/backup/status", s.backupH.Status)
	mux.HandleFunc("POST /api/backup/run", s.backupH.Run)
	mux.HandleFunc("POST /api/backup/restore", s.backupH.Restore)

	var h http.Handler = mux
	h = middleware.RequestLogger(s.logger.With("component", "http"))(h)
	h = middleware.Recoverer(s.logger.With("component", "http"))(h)
	return h
}
