package lead

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"podcastcrm/internal/apperror"
	"podcastcrm/internal/pkg/i18n"
	"podcastcrm/internal/pkg/response"
	"podcastcrm/internal/pkg/validator"
)

// Handler exposes the lead store over HTTP.
type Handler struct {
	store       *Store
	defaultLang string
}

func NewHandler(store *Store, defaultLang string) *Handler {
	return &Handler{store: store, defaultLang: defaultLang}
}

func (h *Handler) lang(c *gin.Context) string {
	return i18n.FromAcceptLanguage(c.GetHeader("Accept-Language"), h.defaultLang)
}

// bind decodes and validates the body into req. It writes the error
// response itself and reports whether the handler should continue.
func (h *Handler) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.Error(c, http.StatusBadRequest, string(apperror.KindValidation), "Invalid request body")
		return false
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, string(apperror.KindValidation),
			apperror.MessageFor(apperror.KindValidation, h.lang(c)), errs)
		return false
	}
	return true
}

// SubmitContactForm stores a contact form submission.
// @Summary		Submit contact form
// @Tags		Leads
// @Accept		json
// @Produce		json
// @Param		body	body	ContactFormRequest	true	"payload"
// @Success		201	{object}	map[string]interface{}
// @Router		/contact [post]
func (h *Handler) SubmitContactForm(c *gin.Context) {
	var req ContactFormRequest
	if !h.bind(c, &req) {
		return
	}

	l, err := h.store.Create(c.Request.Context(), req.Input())
	if err != nil {
		response.AppError(c, err, h.lang(c))
		return
	}
	response.Success(c, http.StatusCreated, l)
}

// SubmitLead stores a lead from a landing page or popup.
// @Summary		Submit lead
// @Tags		Leads
// @Accept		json
// @Produce		json
// @Param		body	body	SubmitLeadRequest	true	"payload"
// @Success		201	{object}	map[string]interface{}
// @Router		/leads [post]
func (h *Handler) SubmitLead(c *gin.Context) {
	var req SubmitLeadRequest
	if !h.bind(c, &req) {
		return
	}
	if req.Source == SourceManual {
		response.Error(c, http.StatusUnprocessableEntity, string(apperror.KindValidation), ErrInvalidSource.Error())
		return
	}

	l, err := h.store.Create(c.Request.Context(), req.Input())
	if err != nil {
		response.AppError(c, err, h.lang(c))
		return
	}
	response.Success(c, http.StatusCreated, l)
}

// QuickCapture caches the lead locally and answers before the remote copy
// is written.
func (h *Handler) QuickCapture(c *gin.Context) {
	var req SubmitLeadRequest
	if !h.bind(c, &req) {
		return
	}
	if req.Source == SourceManual {
		response.Error(c, http.StatusUnprocessableEntity, string(apperror.KindValidation), ErrInvalidSource.Error())
		return
	}

	l, _, err := h.store.QuickCapture(c.Request.Context(), req.Input())
	if err != nil {
		response.AppError(c, err, h.lang(c))
		return
	}
	response.Success(c, http.StatusAccepted, l)
}

/* ---------- ADMIN ---------- */

func (h *Handler) List(c *gin.Context) {
	leads, err := h.store.List(c.Request.Context())
	if err != nil {
		response.AppError(c, err, h.lang(c))
		return
	}
	response.Success(c, http.StatusOK, leads)
}

func (h *Handler) Stats(c *gin.Context) {
	st, err := h.store.Stats(c.Request.Context())
	if err != nil {
		response.AppError(c, err, h.lang(c))
		return
	}
	response.Success(c, http.StatusOK, st)
}

func (h *Handler) Create(c *gin.Context) {
	var req AdminCreateRequest
	if !h.bind(c, &req) {
		return
	}

	l, err := h.store.Create(c.Request.Context(), req.Input())
	if err != nil {
		response.AppError(c, err, h.lang(c))
		return
	}
	response.Success(c, http.StatusCreated, l)
}

func (h *Handler) Update(c *gin.Context) {
	var req UpdateLeadRequest
	if !h.bind(c, &req) {
		return
	}

	patch := req.Patch()
	if patch.IsEmpty() {
		response.Error(c, http.StatusUnprocessableEntity, string(apperror.KindValidation),
			apperror.MessageFor(apperror.KindValidation, h.lang(c)))
		return
	}

	leads, err := h.store.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		response.AppError(c, err, h.lang(c))
		return
	}
	response.Success(c, http.StatusOK, leads)
}

func (h *Handler) Delete(c *gin.Context) {
	leads, err := h.store.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.AppError(c, err, h.lang(c))
		return
	}
	response.Success(c, http.StatusOK, leads)
}

func (h *Handler) LinkUser(c *gin.Context) {
	var req LinkUserRequest
	if !h.bind(c, &req) {
		return
	}

	leads, err := h.store.LinkUser(c.Request.Context(), c.Param("id"), req.UserID)
	if err != nil {
		response.AppError(c, err, h.lang(c))
		return
	}
	response.Success(c, http.StatusOK, leads)
}
