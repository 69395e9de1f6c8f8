package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"edu-entitlement-platform/internal/domain"
	"edu-entitlement-platform/internal/domain/model"
	"edu-entitlement-platform/internal/domain/ports/adapter"
	"edu-entitlement-platform/internal/infra/logging"
	"edu-entitlement-platform/internal/infra/metrics"
	"edu-entitlement-platform/internal/usecase"
)

const dateLayout = "2006-01-02"

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// A struct to define the expected JSON request body for submitting a
// subscription request.
type submitRequestBody struct {
	UserID            string `json:"user_id"`
	UserName          string `json:"user_name"`
	Plan              string `json:"plan"`
	PaymentFromNumber string `json:"payment_from_number"`
	SubjectName       string `json:"subject_name"`
	UnitID            string `json:"unit_id"`
	ItemID            string `json:"item_id"`
}

func (s *Server) submitRequestHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req submitRequestBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	created, err := s.ledger.SubmitRequest(ctx, usecase.SubmitRequestInput{
		UserID:            req.UserID,
		UserName:          req.UserName,
		Plan:              model.Plan(req.Plan),
		PaymentFromNumber: req.PaymentFromNumber,
		SubjectName:       req.SubjectName,
		UnitID:            req.UnitID,
		ItemID:            req.ItemID,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "Failed to submit request", http.StatusInternalServerError)
		return
	}

	metrics.IncRequestsSubmitted()
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) listRequestsHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	status := model.RequestStatus(r.URL.Query().Get("status"))
	requests, err := s.ledger.ListRequests(ctx, status)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) {
			http.Error(w, "Unknown status filter", http.StatusBadRequest)
			return
		}
		http.Error(w, "Failed to list requests", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Data []*model.SubscriptionRequest `json:"data"`
	}{Data: requests})
}

func (s *Server) approveHandler(w http.ResponseWriter, r *http.Request) {
	defer logging.TraceDuration(s.log, "WebServer.approve")()
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	// The override end date is optional; an empty body means plan-derived.
	var body struct {
		EndDate string `json:"end_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	var override time.Time
	if body.EndDate != "" {
		parsed, err := time.Parse(dateLayout, body.EndDate)
		if err != nil {
			http.Error(w, "Invalid end_date, want YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		override = parsed
	}

	sub, err := s.ledger.ApproveRequest(ctx, id, override)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			http.NotFound(w, r)
		case errors.Is(err, domain.ErrRequestNotPending):
			http.Error(w, "Request is not pending", http.StatusConflict)
		default:
			http.Error(w, "Failed to approve request", http.StatusInternalServerError)
		}
		return
	}

	metrics.IncRequestsDecided("approved")
	metrics.AddSubscriptionsGranted(1)
	writeJSON(w, http.StatusOK, sub)
}

func (s *Server) rejectHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	if err := s.ledger.RejectRequest(ctx, id); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			http.NotFound(w, r)
		case errors.Is(err, domain.ErrRequestNotPending):
			http.Error(w, "Request was already approved", http.StatusConflict)
		default:
			http.Error(w, "Failed to reject request", http.StatusInternalServerError)
		}
		return
	}

	metrics.IncRequestsDecided("rejected")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) entitlementHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := chi.URLParam(r, "userID")
	itemID := r.URL.Query().Get("item_id")

	entitled, err := s.ledger.IsEntitled(ctx, userID, itemID)
	if err != nil {
		http.Error(w, "Failed to check entitlement", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Entitled bool `json:"entitled"`
	}{Entitled: entitled})
}

// lessonHandler serves lesson content to entitled users; the entitlement gate
// is the lesson's unit scope.
func (s *Server) lessonHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	userID := r.URL.Query().Get("user_id")

	lesson, err := s.ledger.ReadLesson(ctx, userID, id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidArgument):
			http.Error(w, "user_id is required", http.StatusBadRequest)
		case errors.Is(err, domain.ErrNotFound):
			http.NotFound(w, r)
		case errors.Is(err, domain.ErrNotEntitled):
			http.Error(w, "Not entitled", http.StatusForbidden)
		default:
			http.Error(w, "Failed to load lesson", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, lesson)
}

type generateCodesBody struct {
	Count        int    `json:"count"`
	DurationDays int    `json:"duration_days"`
	MaxUses      int    `json:"max_uses"`
	TeacherID    string `json:"teacher_id"`
}

func (s *Server) generateCodesHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req generateCodesBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	codes, err := s.ledger.GenerateCodes(ctx, usecase.GenerateCodesConfig{
		Count:        req.Count,
		DurationDays: req.DurationDays,
		MaxUses:      req.MaxUses,
		TeacherID:    req.TeacherID,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) {
			http.Error(w, "count, duration_days and max_uses must be at least 1", http.StatusBadRequest)
			return
		}
		http.Error(w, "Failed to generate codes", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, struct {
		Data []*model.PrepaidCode `json:"data"`
	}{Data: codes})
}

func (s *Server) listCodesHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	codes, err := s.ledger.ListCodes(ctx)
	if err != nil {
		http.Error(w, "Failed to list codes", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Data []*model.PrepaidCode `json:"data"`
	}{Data: codes})
}

func (s *Server) deleteCodeHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	code := chi.URLParam(r, "code")

	if err := s.ledger.DeleteCode(ctx, code); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, "Failed to delete code", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type redeemBody struct {
	Code   string `json:"code"`
	UserID string `json:"user_id"`
}

func (s *Server) redeemHandler(w http.ResponseWriter, r *http.Request) {
	defer logging.TraceDuration(s.log, "WebServer.redeem")()
	ctx := r.Context()

	var req redeemBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if s.guard != nil && req.Code != "" {
		token, err := s.guard.TryLock(ctx, req.Code, 10*time.Second)
		if err != nil {
			if errors.Is(err, domain.ErrOperationFailed) {
				http.Error(w, "Redemption already in progress", http.StatusConflict)
				return
			}
			s.log.Warn().Err(err).Msg("redeem guard unavailable, continuing without it")
		} else {
			defer func() { _ = s.guard.Unlock(ctx, req.Code, token) }()
		}
	}

	result, err := s.ledger.RedeemCode(ctx, req.Code, req.UserID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidArgument):
			http.Error(w, "code and user_id are required", http.StatusBadRequest)
		case errors.Is(err, domain.ErrCodeNotFound):
			http.Error(w, "invalid code", http.StatusNotFound)
		case errors.Is(err, domain.ErrCodeExhausted):
			http.Error(w, "already used", http.StatusConflict)
		case errors.Is(err, domain.ErrNothingToGrant):
			http.Error(w, "nothing to grant", http.StatusUnprocessableEntity)
		default:
			http.Error(w, "Failed to redeem code", http.StatusInternalServerError)
		}
		return
	}

	metrics.IncCodesRedeemed()
	metrics.AddSubscriptionsGranted(len(result.Granted))
	writeJSON(w, http.StatusOK, struct {
		Message       string                `json:"message"`
		Subscriptions []*model.Subscription `json:"subscriptions"`
	}{Message: result.Message, Subscriptions: result.Granted})
}

// sessionLoadHandler is the student session hook: it lazily generates expiry
// reminders for the user and returns the resulting inbox.
func (s *Server) sessionLoadHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := chi.URLParam(r, "userID")

	created, err := s.notif.GenerateExpiryReminders(ctx, userID)
	if err != nil {
		http.Error(w, "Failed to generate reminders", http.StatusInternalServerError)
		return
	}
	inbox, err := s.notif.Inbox(ctx, userID)
	if err != nil {
		http.Error(w, "Failed to load notifications", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		RemindersCreated int                   `json:"reminders_created"`
		Notifications    []*model.Notification `json:"notifications"`
	}{RemindersCreated: created, Notifications: inbox})
}

func (s *Server) inboxHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := chi.URLParam(r, "userID")

	inbox, err := s.notif.Inbox(ctx, userID)
	if err != nil {
		http.Error(w, "Failed to load notifications", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Data []*model.Notification `json:"data"`
	}{Data: inbox})
}

func (s *Server) markReadHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	if err := s.notif.MarkRead(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, "Failed to mark notification read", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) deleteNotificationHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	if err := s.notif.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, "Failed to delete notification", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// pricingHandler serves either a single price lookup (?plan=&mode=) or the
// whole table when no filter is given.
func (s *Server) pricingHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	planStr, modeStr := q.Get("plan"), q.Get("mode")

	if planStr == "" && modeStr == "" {
		writeJSON(w, http.StatusOK, s.pricing.Table())
		return
	}
	if planStr == "" || modeStr == "" {
		http.Error(w, "plan and mode must be given together", http.StatusBadRequest)
		return
	}

	plan, err := model.ParsePlan(planStr)
	if err != nil {
		http.Error(w, "Unknown plan", http.StatusBadRequest)
		return
	}
	mode := model.PricingMode(modeStr)
	if mode != model.PricingModeComprehensive && mode != model.PricingModeSingleSubject {
		http.Error(w, "Unknown pricing mode", http.StatusBadRequest)
		return
	}

	price := s.pricing.PriceFor(plan, mode)
	if price == nil {
		http.Error(w, "Combination not offered", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Price int64 `json:"price"`
	}{Price: *price})
}

func (s *Server) usersListHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	users, err := s.users.List(ctx)
	if err != nil {
		http.Error(w, "Failed to list users", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Data []*model.User `json:"data"`
	}{Data: users})
}

func (s *Server) userGetHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	user, err := s.users.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, "Failed to get user", http.StatusInternalServerError)
		return
	}

	subs, err := s.ledger.SubscriptionsFor(ctx, user.ID)
	if err != nil {
		http.Error(w, "Failed to get user subscriptions", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		User          *model.User           `json:"user"`
		Subscriptions []*model.Subscription `json:"subscriptions"`
	}{User: user, Subscriptions: subs})
}

func (s *Server) userUpdateHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	var user model.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	user.ID = id

	if err := s.users.Update(ctx, &user); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, "Failed to update user", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) userDeleteHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, "Failed to delete user", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	pending, err := s.stats.PendingRequests(ctx)
	if err != nil {
		http.Error(w, "Failed to count pending requests", http.StatusInternalServerError)
		return
	}
	active, err := s.stats.ActiveSubscriptions(ctx)
	if err != nil {
		http.Error(w, "Failed to count active subscriptions", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		PendingRequests     int `json:"pending_requests"`
		ActiveSubscriptions int `json:"active_subscriptions"`
	}{PendingRequests: pending, ActiveSubscriptions: active})
}

type quizBody struct {
	UserID     string `json:"user_id"`
	ItemID     string `json:"item_id"`
	LessonText string `json:"lesson_text"`
	Count      int    `json:"count"`
}

func (s *Server) quizHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req quizBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	questions, err := s.quiz.GenerateQuiz(ctx, req.UserID, req.ItemID, req.LessonText, req.Count)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotEntitled):
			http.Error(w, "Not entitled", http.StatusForbidden)
		case errors.Is(err, domain.ErrInvalidArgument):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, "Quiz generation failed", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Questions []model.QuizQuestion `json:"questions"`
	}{Questions: questions})
}

type chatBody struct {
	UserID   string            `json:"user_id"`
	ItemID   string            `json:"item_id"`
	Messages []adapter.Message `json:"messages"`
}

func (s *Server) chatHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req chatBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	reply, err := s.quiz.Chat(ctx, req.UserID, req.ItemID, req.Messages)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotEntitled):
			http.Error(w, "Not entitled", http.StatusForbidden)
		case errors.Is(err, domain.ErrInvalidArgument):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, "Chat failed", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Reply string `json:"reply"`
	}{Reply: reply})
}
