package widget

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"podcastcrm/internal/apperror"
	"podcastcrm/internal/assistant"
	"podcastcrm/internal/domain/lead"
	"podcastcrm/internal/pkg/i18n"
	"podcastcrm/internal/pkg/logger"
)

const (
	chatbotInterest = "Chatbot Conversation"
	chatbotTag      = "AI Lead"
)

// LeadCreator is the part of the lead store the widget uses.
type LeadCreator interface {
	Create(ctx context.Context, in lead.Input) (*lead.Lead, error)
}

// Deps are shared by every widget.
type Deps struct {
	Starter    assistant.Starter
	Dispatcher *assistant.Dispatcher
	Leads      LeadCreator
	Episodes   assistant.EpisodeFinder
	Log        *zap.Logger
}

// LeadForm is what the visitor types into a ui-form turn.
type LeadForm struct {
	Name  string `json:"name" validate:"required,max=200"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"omitempty,max=40"`
}

type NotificationLevel string

const (
	NotificationSuccess NotificationLevel = "success"
	NotificationError   NotificationLevel = "error"
)

// Notification is the transient banner shown above the transcript.
type Notification struct {
	ID    string                `json:"id"`
	Type  assistant.MessageType `json:"type"`
	Level NotificationLevel     `json:"level"`
	Text  string                `json:"text"`
}

// View is a rendered snapshot of a widget.
type View struct {
	ID            string                      `json:"id"`
	Language      string                      `json:"language"`
	Open          bool                        `json:"open"`
	SessionActive bool                        `json:"sessionActive"`
	Thinking      bool                        `json:"thinking"`
	Messages      []assistant.RenderedMessage `json:"messages"`
	Notification  *Notification               `json:"notification,omitempty"`
}

// Controller is the state machine of one visitor's chat widget. It is
// closed or open, and its session is either not started or active.
// Sends are serialized so exchanges never interleave; callers that need
// submission order issue them from one goroutine.
type Controller struct {
	id       string
	language string
	deps     Deps
	log      *zap.Logger
	now      func() time.Time

	sendMu sync.Mutex

	mu           sync.Mutex
	open         bool
	welcomed     bool
	thinking     bool
	session      assistant.Session
	transcript   []assistant.Message
	notification *Notification
	lastActive   time.Time
	listeners    map[int]func(Event)
	nextListener int
}

// NewController creates a closed widget with no session.
func NewController(id, language string, deps Deps) *Controller {
	c := &Controller{
		id:        id,
		language:  i18n.Normalize(language),
		deps:      deps,
		now:       time.Now,
		listeners: make(map[int]func(Event)),
	}
	c.log = logger.OrNop(deps.Log).Named("widget").With(zap.String("widget_id", id))
	c.lastActive = c.now()
	return c
}

func (c *Controller) ID() string { return c.id }
func (c *Controller) Language() string { return c.language }

// Open shows the widget and starts a session when there is none. A
// failed start leaves the session empty so the next send retries. The
// resulting state is emitted last.
func (c *Controller) Open(ctx context.Context) {
	c.mu.Lock()
	c.open = true
	c.lastActive = c.now()
	c.mu.Unlock()

	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	defer func() { c.emit(Event{Type: EventState, Payload: c.Snapshot()}) }()

	if _, err := c.ensureSession(context.WithoutCancel(ctx)); err != nil {
		c.appendTurns(c.errorTurn(err))
		return
	}

	c.mu.Lock()
	if c.welcomed {
		c.mu.Unlock()
		return
	}
	c.welcomed = true
	c.mu.Unlock()
	c.appendTurns(assistant.NewMessage(assistant.RoleModel, i18n.Text(c.language, i18n.KeyWelcome), assistant.TypeText, nil))
}

// Close hides the widget. Session and transcript are kept.
func (c *Controller) Close() {
	c.mu.Lock()
	c.open = false
	c.lastActive = c.now()
	c.mu.Unlock()
	c.emit(Event{Type: EventState, Payload: c.Snapshot()})
}

// Send appends the user turn and the assistant's answer. Assistant
// failures become a single localized model turn; only an empty text is
// reported as an error. The remote call is not cancelled with ctx.
func (c *Controller) Send(ctx context.Context, text string) ([]assistant.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperror.New(apperror.KindValidation, "message text is required", "widget.send")
	}

	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	ctx = context.WithoutCancel(ctx)

	userTurn := assistant.NewMessage(assistant.RoleUser, text, assistant.TypeText, nil)
	c.appendTurns(userTurn)

	c.setThinking(true)
	defer c.setThinking(false)

	sess, err := c.ensureSession(ctx)
	if err != nil {
		turn := c.errorTurn(err)
		c.appendTurns(turn)
		return []assistant.Message{userTurn, turn}, nil
	}

	reply, err := sess.Send(ctx, text)
	if err != nil {
		turn := c.errorTurn(err)
		c.appendTurns(turn)
		return []assistant.Message{userTurn, turn}, nil
	}

	turns := c.deps.Dispatcher.Reply(reply, c.language)
	c.appendTurns(turns...)
	return append([]assistant.Message{userTurn}, turns...), nil
}

// SubmitLeadForm stores the visitor as a chatbot lead. The widget must be
// open with an active session. Success adds a thank-you turn and a
// success notification; failure only sets an error notification. The
// conversation continues either way.
func (c *Controller) SubmitLeadForm(ctx context.Context, form LeadForm) (*lead.Lead, error) {
	c.mu.Lock()
	ready := c.open && c.session != nil
	c.mu.Unlock()
	if !ready {
		return nil, apperror.New(apperror.KindValidation, "lead form requires an open chat", "widget.lead")
	}

	l, err := c.deps.Leads.Create(context.WithoutCancel(ctx), lead.Input{
		Name:     form.Name,
		Email:    form.Email,
		Phone:    form.Phone,
		Interest: chatbotInterest,
		Source:   lead.SourceChatbot,
		Tags:     []string{chatbotTag},
	})
	if err != nil {
		c.log.Warn("chat lead capture failed", zap.Error(err))
		c.notify(NotificationError, i18n.Text(c.language, i18n.KeyLeadFailed))
		return nil, err
	}

	c.appendTurns(assistant.NewMessage(assistant.RoleModel,
		i18n.Textf(c.language, i18n.KeyLeadThanks, strings.TrimSpace(form.Name)), assistant.TypeText, nil))
	c.notify(NotificationSuccess, i18n.Text(c.language, i18n.KeyLeadSaved))
	return l, nil
}

// DismissNotification clears the banner.
func (c *Controller) DismissNotification() {
	c.mu.Lock()
	c.notification = nil
	c.lastActive = c.now()
	c.mu.Unlock()
	c.emit(Event{Type: EventNotification, Payload: nil})
}

// Snapshot renders the current state.
func (c *Controller) Snapshot() View {
	c.mu.Lock()
	transcript := make([]assistant.Message, len(c.transcript))
	copy(transcript, c.transcript)
	v := View{
		ID:            c.id,
		Language:      c.language,
		Open:          c.open,
		SessionActive: c.session != nil,
		Thinking:      c.thinking,
	}
	if c.notification != nil {
		n := *c.notification
		v.Notification = &n
	}
	c.mu.Unlock()
	v.Messages = assistant.Render(transcript, c.deps.Episodes)
	return v
}

// LastActive reports when the visitor last touched the widget.
func (c *Controller) LastActive() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastActive
}

func (c *Controller) busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.thinking
}

// ensureSession must be called with sendMu held.
func (c *Controller) ensureSession(ctx context.Context) (assistant.Session, error) {
	c.mu.Lock()
	sess := c.session
	c.mu.Unlock()
	if sess != nil {
		return sess, nil
	}

	sess, err := c.deps.Starter.Start(ctx, c.language)
	if err != nil {
		return nil, apperror.Classify(err, apperror.KindLLM, "widget.start")
	}
	c.mu.Lock()
	c.session = sess
	c.mu.Unlock()
	return sess, nil
}

func (c *Controller) errorTurn(err error) assistant.Message {
	kind := apperror.Classify(err, apperror.KindLLM, "widget.send").Kind
	c.log.Warn("assistant turn failed", zap.String("kind", string(kind)), zap.Error(err))
	return assistant.NewMessage(assistant.RoleModel, apperror.MessageFor(kind, c.language), assistant.TypeText, nil)
}

func (c *Controller) appendTurns(turns ...assistant.Message) {
	c.mu.Lock()
	c.transcript = append(c.transcript, turns...)
	c.lastActive = c.now()
	c.mu.Unlock()
	for _, r := range assistant.Render(turns, c.deps.Episodes) {
		c.emit(Event{Type: EventTurn, Payload: r})
	}
}

func (c *Controller) setThinking(v bool) {
	c.mu.Lock()
	c.thinking = v
	c.mu.Unlock()
	c.emit(Event{Type: EventThinking, Payload: v})
}

func (c *Controller) notify(level NotificationLevel, text string) {
	n := &Notification{ID: uuid.NewString(), Type: assistant.TypeNotification, Level: level, Text: text}
	c.mu.Lock()
	c.notification = n
	c.lastActive = c.now()
	c.mu.Unlock()
	c.emit(Event{Type: EventNotification, Payload: *n})
}
