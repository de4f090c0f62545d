package widget

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"podcastcrm/internal/apperror"
	"podcastcrm/internal/pkg/i18n"
	"podcastcrm/internal/pkg/response"
	"podcastcrm/internal/pkg/validator"
)

type Handler struct {
	registry    *Registry
	defaultLang string
}

func NewHandler(registry *Registry, defaultLang string) *Handler {
	return &Handler{registry: registry, defaultLang: defaultLang}
}

type CreateWidgetRequest struct {
	Language string `json:"language" validate:"omitempty,max=35"`
}

type SendMessageRequest struct {
	Text string `json:"text" validate:"required,max=4000"`
}

// widget resolves the :id param, writing a 404 when it is unknown.
func (h *Handler) widget(c *gin.Context) (*Controller, bool) {
	w, ok := h.registry.Get(c.Param("id"))
	if !ok {
		lang := i18n.FromAcceptLanguage(c.GetHeader("Accept-Language"), h.defaultLang)
		response.Error(c, http.StatusNotFound, string(apperror.KindNotFound), apperror.MessageFor(apperror.KindNotFound, lang))
		return nil, false
	}
	return w, true
}

func (h *Handler) bind(c *gin.Context, lang string, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.Error(c, http.StatusBadRequest, string(apperror.KindValidation), "Invalid request body")
		return false
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, string(apperror.KindValidation),
			apperror.MessageFor(apperror.KindValidation, lang), errs)
		return false
	}
	return true
}

// CreateWidget starts a closed widget for one page load. The language is
// taken from the body, then Accept-Language, then the configured default.
// @Summary		Create chat widget
// @Tags		Chat
// @Accept		json
// @Produce		json
// @Success		201	{object}	map[string]interface{}
// @Router		/chat/widgets [post]
func (h *Handler) CreateWidget(c *gin.Context) {
	var req CreateWidgetRequest
	if c.Request.ContentLength > 0 {
		if !h.bind(c, h.defaultLang, &req) {
			return
		}
	}
	lang := req.Language
	if lang == "" {
		lang = i18n.FromAcceptLanguage(c.GetHeader("Accept-Language"), h.defaultLang)
	}
	w := h.registry.Create(lang)
	response.Success(c, http.StatusCreated, w.Snapshot())
}

func (h *Handler) GetWidget(c *gin.Context) {
	w, ok := h.widget(c)
	if !ok {
		return
	}
	response.Success(c, http.StatusOK, w.Snapshot())
}

func (h *Handler) OpenWidget(c *gin.Context) {
	w, ok := h.widget(c)
	if !ok {
		return
	}
	w.Open(c.Request.Context())
	response.Success(c, http.StatusOK, w.Snapshot())
}

func (h *Handler) CloseWidget(c *gin.Context) {
	w, ok := h.widget(c)
	if !ok {
		return
	}
	w.Close()
	response.Success(c, http.StatusOK, w.Snapshot())
}

// SendMessage forwards one visitor turn to the assistant. Assistant
// failures still answer 200: the apology is part of the transcript.
func (h *Handler) SendMessage(c *gin.Context) {
	w, ok := h.widget(c)
	if !ok {
		return
	}
	var req SendMessageRequest
	if !h.bind(c, w.Language(), &req) {
		return
	}
	if _, err := w.Send(c.Request.Context(), req.Text); err != nil {
		response.AppError(c, err, w.Language())
		return
	}
	response.Success(c, http.StatusOK, w.Snapshot())
}

func (h *Handler) SubmitLead(c *gin.Context) {
	w, ok := h.widget(c)
	if !ok {
		return
	}
	var form LeadForm
	if !h.bind(c, w.Language(), &form) {
		return
	}
	if _, err := w.SubmitLeadForm(c.Request.Context(), form); err != nil {
		response.AppError(c, err, w.Language())
		return
	}
	response.Success(c, http.StatusCreated, w.Snapshot())
}

func (h *Handler) DismissNotification(c *gin.Context) {
	w, ok := h.widget(c)
	if !ok {
		return
	}
	w.DismissNotification()
	response.Success(c, http.StatusOK, w.Snapshot())
}
