// Package handler exposes the contact sync engine over HTTP. Handlers only
// decode, authenticate, and translate errors; every decision about a contact
// lives in the service.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Ip-Tec/ContactSync-sub000/internal/contacts/models"
	"github.com/Ip-Tec/ContactSync-sub000/internal/importer"
	"github.com/Ip-Tec/ContactSync-sub000/internal/platform/middleware"
	"github.com/Ip-Tec/ContactSync-sub000/internal/vcard"
	id "github.com/Ip-Tec/ContactSync-sub000/pkg/domain"
	dErrors "github.com/Ip-Tec/ContactSync-sub000/pkg/domain-errors"
	"github.com/Ip-Tec/ContactSync-sub000/pkg/platform/audit"
	"github.com/Ip-Tec/ContactSync-sub000/pkg/platform/httputil"
)

// maxImportBytes bounds uploaded contact files. The largest address books
// seen in production are well under a megabyte.
const maxImportBytes = 8 << 20

// Service is the contact engine surface the handlers need.
type Service interface {
	Sync(ctx context.Context, userID id.UserID, device []models.DeviceContact) (*models.SyncReport, error)
	List(ctx context.Context, userID id.UserID) ([]models.Contact, error)
	DuplicateGroups(ctx context.Context, userID id.UserID) ([]models.DuplicateGroup, error)
	MergeGroup(ctx context.Context, userID id.UserID, memberIDs []id.ContactID) (*models.MergedContact, error)
}

// AuditPublisher records upload acceptances; sync outcomes are audited by
// the service itself.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Handler wires the contact endpoints to the service.
type Handler struct {
	service        Service
	importer       *importer.Importer
	logger         *slog.Logger
	auditPublisher AuditPublisher
	// displayCountryCode is the plus-prefixed code vCard exports localize
	// against, e.g. "+234".
	displayCountryCode string
}

type Option func(*Handler)

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(h *Handler) {
		h.auditPublisher = publisher
	}
}

func WithDisplayCountryCode(code string) Option {
	return func(h *Handler) {
		h.displayCountryCode = code
	}
}

// New constructs a Handler.
func New(service Service, imp *importer.Importer, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{
		service:            service,
		importer:           imp,
		logger:             logger,
		displayCountryCode: "+234",
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts the contact endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/contacts/sync", h.HandleSync)
	r.Get("/contacts", h.HandleList)
	r.Get("/contacts/duplicates", h.HandleDuplicates)
	r.Post("/contacts/duplicates/merge", h.HandleMerge)
	r.Post("/contacts/import", h.HandleImport)
	r.Get("/contacts/export/vcard", h.HandleExportVCard)
}

type syncRequest struct {
	Contacts []models.DeviceContact `json:"contacts"`
}

// HandleSync handles POST /contacts/sync.
func (h *Handler) HandleSync(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.requireUser(w, ctx)
	if !ok {
		return
	}

	var req syncRequest
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}
	start := time.Now()

	report, err := h.service.Sync(ctx, userID, req.Contacts)
	if err != nil {
		h.logger.ErrorContext(ctx, "sync failed",
			"request_id", middleware.GetRequestID(ctx),
			"user_id", userID,
			"error", err)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "sync handled",
		"request_id", middleware.GetRequestID(ctx),
		"user_id", userID,
		"total", report.Total(),
		"duration_ms", time.Since(start).Milliseconds())
	httputil.WriteJSON(w, http.StatusOK, report)
}

// HandleList handles GET /contacts.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.requireUser(w, ctx)
	if !ok {
		return
	}

	contacts, err := h.service.List(ctx, userID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if contacts == nil {
		contacts = []models.Contact{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"contacts": contacts})
}

// HandleDuplicates handles GET /contacts/duplicates.
func (h *Handler) HandleDuplicates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.requireUser(w, ctx)
	if !ok {
		return
	}

	groups, err := h.service.DuplicateGroups(ctx, userID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if groups == nil {
		groups = []models.DuplicateGroup{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"groups": groups})
}

type mergeRequest struct {
	MemberIDs []string `json:"member_ids"`
}

// HandleMerge handles POST /contacts/duplicates/merge.
func (h *Handler) HandleMerge(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.requireUser(w, ctx)
	if !ok {
		return
	}

	var req mergeRequest
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}

	memberIDs := make([]id.ContactID, 0, len(req.MemberIDs))
	for _, raw := range req.MemberIDs {
		cid, err := id.ParseContactID(raw)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid member id: "+raw))
			return
		}
		memberIDs = append(memberIDs, cid)
	}

	merged, err := h.service.MergeGroup(ctx, userID, memberIDs)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, merged)
}

// HandleImport handles POST /contacts/import. The uploaded file (multipart
// field "file", CSV or VCF by extension) is parsed into candidate records
// and pushed through the same reconciliation path a device snapshot takes.
func (h *Handler) HandleImport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.requireUser(w, ctx)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "multipart field 'file' is required"))
		return
	}
	defer file.Close()

	var device []models.DeviceContact
	switch strings.ToLower(filepath.Ext(header.Filename)) {
	case ".csv":
		device, err = h.importer.ParseCSV(file)
	case ".vcf":
		device, err = h.importer.ParseVCF(file)
	default:
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "unsupported file type; expected .csv or .vcf"))
		return
	}
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if h.auditPublisher != nil {
		_ = h.auditPublisher.Emit(ctx, audit.Event{
			UserID:    userID,
			Action:    audit.ActionImportAccepted,
			Subject:   header.Filename,
			RequestID: middleware.GetRequestID(ctx),
		})
	}

	report, err := h.service.Sync(ctx, userID, device)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"parsed": len(device),
		"report": report,
	})
}

// HandleExportVCard handles GET /contacts/export/vcard.
func (h *Handler) HandleExportVCard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.requireUser(w, ctx)
	if !ok {
		return
	}

	contacts, err := h.service.List(ctx, userID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/vcard; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="contacts.vcf"`)
	_, _ = w.Write([]byte(vcard.Encode(contacts, h.displayCountryCode)))
}

func (h *Handler) requireUser(w http.ResponseWriter, ctx context.Context) (id.UserID, bool) {
	userID := middleware.GetUserID(ctx)
	if userID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return id.UserID{}, false
	}
	return userID, true
}
