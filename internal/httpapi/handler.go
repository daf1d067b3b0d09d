package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"oteldemo/user-service/internal/obs"
	"oteldemo/user-service/internal/service"
	"oteldemo/user-service/internal/store"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type Handler struct {
	svc  *service.UserService
	sink obs.Sink
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type logoutRequest struct {
	SessionID string `json:"sessionId"`
}

type registerResponse struct {
	Message  string `json:"message"`
	Username string `json:"username"`
}

type loginResponse struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
	Username  string `json:"username"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type userEntry struct {
	Username string `json:"username"`
}

type listUsersResponse struct {
	Count int         `json:"count"`
	Users []userEntry `json:"users"`
}

type currentUserResponse struct {
	Username  string `json:"username"`
	SessionID string `json:"sessionId"`
}

type statsResponse struct {
	TotalUsers     int `json:"totalUsers"`
	ActiveSessions int `json:"activeSessions"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func NewHandler(svc *service.UserService, sink obs.Sink) *Handler {
	return &Handler{svc: svc, sink: sink}
}

func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/register", h.handleRegister)
	mux.HandleFunc("/login", h.handleLogin)
	mux.HandleFunc("/logout", h.handleLogout)
	mux.HandleFunc("/users", h.handleUsers)
	mux.HandleFunc("/user", h.handleCurrentUser)
	mux.HandleFunc("/stats", h.handleStats)
	return mux
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	requestID := RequestIDFromContext(r.Context())
	ctx, span := h.sink.StartSpan(r.Context(), "user.register",
		attribute.String("request.id", requestID))
	defer span.End()

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		req = credentialsRequest{}
	}

	h.sink.Emit(ctx, slog.LevelDebug, "開始處理註冊請求",
		attribute.String("user.username", req.Username),
		attribute.String("request.id", requestID))

	if req.Username == "" || req.Password == "" {
		missing := "username"
		if req.Username != "" {
			missing = "password"
		}
		h.sink.Emit(ctx, slog.LevelError, "註冊失敗：缺少必要欄位",
			attribute.String("user.username", req.Username),
			attribute.String("error.type", "validation_error"),
			attribute.String("error.field", missing),
			attribute.String("request.id", requestID))
		span.SetStatus(codes.Error, "validation_error")
		writeError(w, http.StatusBadRequest, "請提供帳號和密碼")
		return
	}

	user, total, err := h.svc.Register(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, store.ErrUserExists) {
			h.sink.Emit(ctx, slog.LevelError, "註冊失敗：帳號已存在",
				attribute.String("user.username", req.Username),
				attribute.String("error.type", "conflict"),
				attribute.String("request.id", requestID))
			span.SetStatus(codes.Error, "conflict")
			writeError(w, http.StatusConflict, "帳號已存在")
			return
		}
		h.sink.Emit(ctx, slog.LevelError, "註冊失敗：數據庫錯誤",
			attribute.String("error.type", "store_error"),
			attribute.String("error.message", err.Error()),
			attribute.String("request.id", requestID))
		span.SetStatus(codes.Error, "store_error")
		writeError(w, http.StatusInternalServerError, "註冊失敗，請稍後再試")
		return
	}

	h.sink.Emit(ctx, slog.LevelInfo, "用戶註冊成功",
		attribute.String("user.username", user.Username),
		attribute.String("user.action", "register"),
		attribute.Int("users.total_count", total),
		attribute.String("request.id", requestID))
	span.SetAttributes(attribute.String("user.username", user.Username))
	span.SetStatus(codes.Ok, "")
	writeJSON(w, http.StatusCreated, registerResponse{Message: "註冊成功", Username: user.Username})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	requestID := RequestIDFromContext(r.Context())
	ctx, span := h.sink.StartSpan(r.Context(), "user.login",
		attribute.String("request.id", requestID))
	defer span.End()

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		req = credentialsRequest{}
	}

	h.sink.Emit(ctx, slog.LevelDebug, "開始處理登入請求",
		attribute.String("user.username", req.Username),
		attribute.String("request.id", requestID))

	if req.Username == "" || req.Password == "" {
		h.sink.Emit(ctx, slog.LevelError, "登入失敗：缺少必要欄位",
			attribute.String("error.type", "validation_error"),
			attribute.String("request.id", requestID))
		span.SetStatus(codes.Error, "validation_error")
		writeError(w, http.StatusBadRequest, "請提供帳號和密碼")
		return
	}

	user, sessionID, active, err := h.svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrUserNotFound), errors.Is(err, service.ErrInvalidPassword):
			reason := "invalid_password"
			if errors.Is(err, store.ErrUserNotFound) {
				reason = "user_not_found"
			}
			h.sink.Emit(ctx, slog.LevelError, "登入失敗：帳號或密碼錯誤",
				attribute.String("user.username", req.Username),
				attribute.String("error.type", "authentication_failed"),
				attribute.String("error.reason", reason),
				attribute.String("request.id", requestID))
			span.SetStatus(codes.Error, "authentication_failed")
			writeError(w, http.StatusUnauthorized, "帳號或密碼錯誤")
		default:
			h.sink.Emit(ctx, slog.LevelError, "登入失敗：數據庫錯誤",
				attribute.String("error.type", "store_error"),
				attribute.String("error.message", err.Error()),
				attribute.String("request.id", requestID))
			span.SetStatus(codes.Error, "store_error")
			writeError(w, http.StatusInternalServerError, "登入失敗，請稍後再試")
		}
		return
	}

	h.sink.Emit(ctx, slog.LevelInfo, "用戶登入成功",
		attribute.String("user.username", user.Username),
		attribute.String("user.action", "login"),
		attribute.String("session.id", sessionID),
		attribute.Int("sessions.active_count", active),
		attribute.String("request.id", requestID))
	span.SetAttributes(
		attribute.String("user.username", user.Username),
		attribute.String("session.id", sessionID),
	)
	span.SetStatus(codes.Ok, "")
	writeJSON(w, http.StatusOK, loginResponse{Message: "登入成功", SessionID: sessionID, Username: user.Username})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	requestID := RequestIDFromContext(r.Context())
	ctx, span := h.sink.StartSpan(r.Context(), "user.logout",
		attribute.String("request.id", requestID))
	defer span.End()

	var req logoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		req = logoutRequest{}
	}

	if req.SessionID == "" {
		h.sink.Emit(ctx, slog.LevelError, "登出失敗：缺少 sessionId",
			attribute.String("error.type", "validation_error"),
			attribute.String("request.id", requestID))
		span.SetStatus(codes.Error, "validation_error")
		writeError(w, http.StatusBadRequest, "請提供 sessionId")
		return
	}

	username, remaining, err := h.svc.Logout(ctx, req.SessionID)
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			h.sink.Emit(ctx, slog.LevelError, "登出失敗：Session 不存在或已過期",
				attribute.String("session.id", req.SessionID),
				attribute.String("error.type", "session_not_found"),
				attribute.String("request.id", requestID))
			span.SetStatus(codes.Error, "session_not_found")
			writeError(w, http.StatusNotFound, "Session 不存在或已過期")
			return
		}
		h.sink.Emit(ctx, slog.LevelError, "登出失敗：數據庫錯誤",
			attribute.String("error.type", "store_error"),
			attribute.String("error.message", err.Error()),
			attribute.String("request.id", requestID))
		span.SetStatus(codes.Error, "store_error")
		writeError(w, http.StatusInternalServerError, "登出失敗，請稍後再試")
		return
	}

	h.sink.Emit(ctx, slog.LevelInfo, "用戶登出成功",
		attribute.String("user.username", username),
		attribute.String("user.action", "logout"),
		attribute.String("session.id", req.SessionID),
		attribute.Int("sessions.remaining_count", remaining),
		attribute.String("request.id", requestID))
	span.SetAttributes(attribute.String("user.username", username))
	span.SetStatus(codes.Ok, "")
	writeJSON(w, http.StatusOK, messageResponse{Message: "登出成功"})
}

func (h *Handler) handleUsers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	requestID := RequestIDFromContext(r.Context())
	ctx, span := h.sink.StartSpan(r.Context(), "user.list",
		attribute.String("request.id", requestID))
	defer span.End()

	users, err := h.svc.GetAllUsers(ctx)
	if err != nil {
		h.sink.Emit(ctx, slog.LevelError, "查詢用戶列表失敗：數據庫錯誤",
			attribute.String("error.type", "store_error"),
			attribute.String("error.message", err.Error()),
			attribute.String("request.id", requestID))
		span.SetStatus(codes.Error, "store_error")
		writeError(w, http.StatusInternalServerError, "查詢失敗，請稍後再試")
		return
	}

	entries := make([]userEntry, 0, len(users))
	for _, user := range users {
		entries = append(entries, userEntry{Username: user.Username})
	}

	h.sink.Emit(ctx, slog.LevelInfo, "查詢用戶列表",
		attribute.String("operation", "list_users"),
		attribute.Int("users.count", len(entries)),
		attribute.String("request.id", requestID))
	span.SetAttributes(attribute.Int("users.count", len(entries)))
	span.SetStatus(codes.Ok, "")
	writeJSON(w, http.StatusOK, listUsersResponse{Count: len(entries), Users: entries})
}

func (h *Handler) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	requestID := RequestIDFromContext(r.Context())
	ctx, span := h.sink.StartSpan(r.Context(), "user.current",
		attribute.String("request.id", requestID))
	defer span.End()

	sessionID := r.URL.Query().Get("sessionId")
	if sessionID == "" {
		h.sink.Emit(ctx, slog.LevelError, "查詢失敗：缺少 sessionId",
			attribute.String("error.type", "validation_error"),
			attribute.String("request.id", requestID))
		span.SetStatus(codes.Error, "validation_error")
		writeError(w, http.StatusBadRequest, "請提供 sessionId")
		return
	}

	username, err := h.svc.GetUserBySession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			h.sink.Emit(ctx, slog.LevelError, "查詢失敗：Session 不存在或已過期",
				attribute.String("session.id", sessionID),
				attribute.String("error.type", "session_not_found"),
				attribute.String("request.id", requestID))
			span.SetStatus(codes.Error, "session_not_found")
			writeError(w, http.StatusNotFound, "Session 不存在或已過期")
			return
		}
		h.sink.Emit(ctx, slog.LevelError, "查詢用戶失敗：數據庫錯誤",
			attribute.String("error.type", "store_error"),
			attribute.String("error.message", err.Error()),
			attribute.String("request.id", requestID))
		span.SetStatus(codes.Error, "store_error")
		writeError(w, http.StatusInternalServerError, "查詢失敗，請稍後再試")
		return
	}

	h.sink.Emit(ctx, slog.LevelInfo, "查詢當前用戶成功",
		attribute.String("operation", "get_current_user"),
		attribute.String("user.username", username),
		attribute.String("session.id", sessionID),
		attribute.String("request.id", requestID))
	span.SetAttributes(attribute.String("user.username", username))
	span.SetStatus(codes.Ok, "")
	writeJSON(w, http.StatusOK, currentUserResponse{Username: username, SessionID: sessionID})
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	requestID := RequestIDFromContext(r.Context())
	ctx, span := h.sink.StartSpan(r.Context(), "user.stats",
		attribute.String("request.id", requestID))
	defer span.End()

	total, active, err := h.svc.Stats(ctx)
	if err != nil {
		h.sink.Emit(ctx, slog.LevelError, "查詢統計失敗：數據庫錯誤",
			attribute.String("error.type", "store_error"),
			attribute.String("error.message", err.Error()),
			attribute.String("request.id", requestID))
		span.SetStatus(codes.Error, "store_error")
		writeError(w, http.StatusInternalServerError, "查詢失敗，請稍後再試")
		return
	}

	h.sink.Emit(ctx, slog.LevelInfo, "查詢統計成功",
		attribute.String("operation", "get_stats"),
		attribute.Int("users.total_count", total),
		attribute.Int("sessions.active_count", active),
		attribute.String("request.id", requestID))
	span.SetStatus(codes.Ok, "")
	writeJSON(w, http.StatusOK, statsResponse{TotalUsers: total, ActiveSessions: active})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}
