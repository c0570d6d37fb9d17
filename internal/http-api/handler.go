package http_api

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/iamvkosarev/repair-chat-bot/internal/model"
	"github.com/iamvkosarev/repair-chat-bot/internal/usecase"
	"github.com/sirupsen/logrus"
	"net/http"
	"strings"
	"time"
)

// Owner is the storage owner of the single local web user.
const Owner = "web"

// base64 inflates the payload by a third; the rest is headroom for the JSON envelope.
const maxRequestBodySize = model.MaxAttachmentSize/3*4 + 1<<20

const actionPickAttachment = "pick_attachment"

type HandlerDeps struct {
	Workspaces *usecase.WorkspaceUsecase
	Advisor    *usecase.AdvisorUsecase
	ErrorCodes *usecase.ErrorCodeUsecase
	Logger     logrus.FieldLogger
}

type Handler struct {
	HandlerDeps
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error apiError `json:"error"`
}

type messageRequest struct {
	Text        string `json:"text"`
	ImageBase64 string `json:"image_base64,omitempty"`
	ImageName   string `json:"image_name,omitempty"`
}

type continueRequest struct {
	Problem string `json:"problem"`
}

type settingsRequest struct {
	APIKey  *string `json:"api_key,omitempty"`
	Vehicle *string `json:"vehicle,omitempty"`
}

type messageResponse struct {
	ID             string    `json:"id"`
	Role           string    `json:"role"`
	Content        string    `json:"content"`
	Timestamp      time.Time `json:"timestamp"`
	AttachmentName string    `json:"attachment_name,omitempty"`
	Tools          []string  `json:"tools,omitempty"`
	KnownIssue     bool      `json:"known_issue,omitempty"`
}

type sessionResponse struct {
	ID            string            `json:"id"`
	Title         string            `json:"title"`
	CreatedAt     time.Time         `json:"created_at"`
	State         string            `json:"state"`
	Vehicle       string            `json:"vehicle"`
	HasCredential bool              `json:"has_credential"`
	PromptTokens  int               `json:"prompt_tokens"`
	Messages      []messageResponse `json:"messages"`
}

type archiveEntryResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	Messages  int       `json:"messages"`
}

type actionResponse struct {
	Action string `json:"action"`
}

func NewHandler(deps HandlerDeps) *Handler {
	return &Handler{HandlerDeps: deps}
}

func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	r.Get(
		"/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		},
	)

	r.Route(
		"/api", func(r chi.Router) {
			r.Get("/session", h.GetSession)
			r.Post("/messages", h.SendMessage)
			r.Post("/messages/{id}/repair/{action}", h.Repair)
			r.Post("/continue", h.ContinueTroubleshooting)

			r.Route(
				"/sessions", func(r chi.Router) {
					r.Get("/", h.ListSessions)
					r.Post("/", h.StartSession)
					r.Delete("/", h.ClearSessions)
					r.Post("/{id}/load", h.LoadSession)
				},
			)

			r.Get("/lookup", h.Lookup)
			r.Get("/tools", h.Tools)
			r.Get("/known-issues", h.KnownIssues)
			r.Get("/prompts", h.Prompts)
			r.Put("/settings", h.UpdateSettings)
		},
	)
	return r
}

// turnContext keeps a model request running after the client goes away.
// A started turn always ends with a recorded reply or failure notice.
func turnContext(r *http.Request) context.Context {
	return context.WithoutCancel(r.Context())
}

func (h *Handler) workspace(r *http.Request) *usecase.Workspace {
	// Nothing can be pushed to a browser, the client opens its file picker on actionPickAttachment.
	return h.Workspaces.Get(r.Context(), Owner, nil)
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.sessionResponse(h.workspace(r)))
}

func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResp("ATTACHMENT_TOO_LARGE", "Image size must be less than 10MB"))
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body"))
		return
	}

	var attachment *model.Attachment
	if req.ImageBase64 != "" {
		data, mimeType, err := decodeImage(req.ImageBase64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResp("ATTACHMENT_UNREADABLE", "Image could not be decoded"))
			return
		}
		attachment = &model.Attachment{
			Name:     req.ImageName,
			MimeType: mimeType,
			Data:     data,
		}
	}

	workspace := h.workspace(r)
	reply, err := workspace.Chat.SendUserTurn(turnContext(r), req.Text, attachment)
	if err != nil {
		h.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.messageResponse(workspace, reply))
}

func (h *Handler) Repair(w http.ResponseWriter, r *http.Request) {
	action, err := usecase.ParseRepairAction(chi.URLParam(r, "action"))
	if err != nil {
		h.handleError(w, err)
		return
	}

	workspace := h.workspace(r)
	reply, err := workspace.Chat.Repair(turnContext(r), chi.URLParam(r, "id"), action)
	if err != nil {
		h.handleError(w, err)
		return
	}
	if action == usecase.RepairActionSendPhoto {
		writeJSON(w, http.StatusOK, actionResponse{Action: actionPickAttachment})
		return
	}
	writeJSON(w, http.StatusOK, h.messageResponse(workspace, reply))
}

func (h *Handler) ContinueTroubleshooting(w http.ResponseWriter, r *http.Request) {
	var req continueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Problem) == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Problem is required"))
		return
	}

	workspace := h.workspace(r)
	reply, err := workspace.Chat.ContinueTroubleshooting(turnContext(r), strings.TrimSpace(req.Problem))
	if err != nil {
		h.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.messageResponse(workspace, reply))
}

func (h *Handler) ListSessions(w http.ResponseWriter, r *http.Request) {
	archive := h.workspace(r).Conversation.Archive()
	entries := make([]archiveEntryResponse, 0, len(archive))
	for _, session := range archive {
		entries = append(
			entries, archiveEntryResponse{
				ID:        session.ID.String(),
				Title:     session.Title(),
				CreatedAt: session.CreatedAt,
				Messages:  len(session.Messages),
			},
		)
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	workspace := h.workspace(r)
	if err := workspace.Chat.StartNew(r.Context()); err != nil {
		h.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, h.sessionResponse(workspace))
}

func (h *Handler) LoadSession(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid session ID"))
		return
	}
	workspace := h.workspace(r)
	if err = workspace.Chat.Load(r.Context(), sessionID); err != nil {
		h.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.sessionResponse(workspace))
}

func (h *Handler) ClearSessions(w http.ResponseWriter, r *http.Request) {
	if err := h.workspace(r).Conversation.ClearArchive(r.Context()); err != nil {
		h.handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Lookup(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	record, ok := h.ErrorCodes.Resolve(query)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "No results found for "+query))
		return
	}
	writeJSON(
		w, http.StatusOK, map[string]any{
			"record":       record,
			"chat_message": usecase.LookupToChatText(record),
		},
	)
}

func (h *Handler) Tools(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, nonNil(h.Advisor.SuggestTools(r.URL.Query().Get("text"))))
}

func (h *Handler) KnownIssues(w http.ResponseWriter, r *http.Request) {
	vehicle := h.workspace(r).Settings.VehicleProfile()
	writeJSON(w, http.StatusOK, nonNil(h.Advisor.KnownIssues(vehicle, r.URL.Query().Get("text"))))
}

func (h *Handler) Prompts(w http.ResponseWriter, r *http.Request) {
	vehicle := h.workspace(r).Settings.VehicleProfile()
	writeJSON(w, http.StatusOK, nonNil(h.Advisor.QuickPrompts(vehicle)))
}

func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body"))
		return
	}

	workspace := h.workspace(r)
	if req.Vehicle != nil {
		if err := workspace.Settings.ValidateVehicleProfile(*req.Vehicle); err != nil {
			h.handleError(w, err)
			return
		}
	}
	if req.APIKey != nil {
		if err := workspace.Settings.SetCredential(r.Context(), *req.APIKey); err != nil {
			h.handleError(w, err)
			return
		}
	}
	if req.Vehicle != nil {
		if err := workspace.Settings.SetVehicleProfile(r.Context(), *req.Vehicle); err != nil {
			h.handleError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, h.sessionResponse(workspace))
}

func (h *Handler) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrEmptyTurn):
		writeJSON(w, http.StatusBadRequest, errorResp("EMPTY_TURN", "Message is required"))
	case errors.Is(err, model.ErrMissingCredential):
		writeJSON(w, http.StatusBadRequest, errorResp("MISSING_CREDENTIAL", "OpenAI API key is required"))
	case errors.Is(err, model.ErrUnknownVehicle):
		writeJSON(w, http.StatusBadRequest, errorResp("UNKNOWN_VEHICLE", "Unknown vehicle model"))
	case errors.Is(err, model.ErrUnknownRepairAction):
		writeJSON(w, http.StatusBadRequest, errorResp("UNKNOWN_ACTION", "Unknown repair action"))
	case errors.Is(err, model.ErrRepairNotApplicable):
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Message is not an assistant reply of the active session"))
	case errors.Is(err, model.ErrSessionNotFound):
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Session not found"))
	case errors.Is(err, model.ErrRequestInFlight):
		writeJSON(w, http.StatusConflict, errorResp("IN_FLIGHT", "A request is already in flight"))
	case errors.Is(err, model.ErrAttachmentTooLarge):
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResp("ATTACHMENT_TOO_LARGE", "Image size must be less than 10MB"))
	default:
		h.Logger.WithError(err).Error("request failed")
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Internal server error"))
	}
}

func (h *Handler) sessionResponse(workspace *usecase.Workspace) sessionResponse {
	session := workspace.Conversation.Active()
	messages := make([]messageResponse, 0, len(session.Messages))
	for _, msg := range session.Messages {
		messages = append(messages, h.messageResponse(workspace, msg))
	}
	return sessionResponse{
		ID:            session.ID.String(),
		Title:         session.Title(),
		CreatedAt:     session.CreatedAt,
		State:         workspace.Chat.State().String(),
		Vehicle:       workspace.Settings.VehicleProfile(),
		HasCredential: workspace.Settings.HasCredential(),
		PromptTokens:  workspace.Chat.LastPromptTokens(),
		Messages:      messages,
	}
}

func (h *Handler) messageResponse(workspace *usecase.Workspace, msg model.Message) messageResponse {
	resp := messageResponse{
		ID:        msg.ID,
		Role:      string(msg.Role),
		Content:   msg.Content,
		Timestamp: msg.Timestamp,
	}
	if msg.Attachment != nil {
		resp.AttachmentName = msg.Attachment.Name
	}
	if msg.Role == model.MessageRoleAssistant && !msg.IsWelcome() {
		resp.Tools = h.Advisor.SuggestTools(msg.Content)
		resp.KnownIssue = h.Advisor.IsKnownIssue(workspace.Settings.VehicleProfile(), msg.Content)
	}
	return resp
}

// decodeImage accepts raw base64 or a data URI and returns the bytes with their MIME type.
func decodeImage(encoded string) ([]byte, string, error) {
	mimeType := ""
	if rest, ok := strings.CutPrefix(encoded, "data:"); ok {
		header, payload, found := strings.Cut(rest, ",")
		if !found {
			return nil, "", errors.New("malformed data uri")
		}
		mimeType = strings.TrimSuffix(header, ";base64")
		encoded = payload
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, "", err
	}
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	return data, mimeType, nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResp(code, message string) errorResponse {
	return errorResponse{
		Error: apiError{
			Code:    code,
			Message: message,
		},
	}
}
