package convo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"bank-assist/internal/bank"
	"bank-assist/internal/intent"
	"bank-assist/internal/metrics"
	"bank-assist/internal/repo"

	"github.com/google/uuid"
)

// BankAPI is the pair of external data providers the engine calls.
type BankAPI interface {
	Transactions(ctx context.Context) ([]bank.Transaction, error)
	PredictedFee(ctx context.Context, from, to string) (*bank.FeePrediction, error)
}

// Gateway delivers bot replies to a remote transport address.
type Gateway interface {
	SendText(ctx context.Context, to string, text string) error
}

// HistoryStore persists chat messages. Failures are logged and ignored.
type HistoryStore interface {
	InsertMessage(ctx context.Context, rec repo.MessageRecord) error
}

const (
	ackText          = "You are welcome. Let me know if you have any additional questions"
	apologyText      = "Sorry, I couldn't process your request at this time. Please try again later."
	emptyHistoryText = "We did not find any transactions in your history."
	listPrefix       = "Here are your recent transactions:\n\n"
	choicePrompt     = "Which transaction do you want details on?"
	detailsPrefix    = "Here are the details:\n\n"
	feeInfoPrefix    = "Here is some info that may help:\n\n"
	fallbackText     = "In a real app this would be sent to an LLM for processing. Try asking for 'status of transaction' or 'transfer rate'"
)

var errSimulatedFailure = errors.New("simulated provider failure")

// errFailureRecorded reports a branch that marked the message failed and sent
// its own reply. Handle must neither append the apology nor clear the marker.
var errFailureRecorded = errors.New("failure recorded by branch")

// Config tunes the engine.
type Config struct {
	FromCurrency    string
	ToCurrency      string
	ProviderTimeout time.Duration
	ReplyGap        time.Duration
}

// Engine drives the per-message dialogue state machine.
type Engine struct {
	classifier *intent.Classifier
	api        BankAPI
	store      HistoryStore
	gateway    Gateway
	metrics    *metrics.Metrics
	logger     *slog.Logger
	cfg        Config
}

// New creates a dialogue engine. store and gateway may be nil.
func New(classifier *intent.Classifier, api BankAPI, store HistoryStore, gateway Gateway, m *metrics.Metrics, logger *slog.Logger, cfg Config) *Engine {
	if cfg.FromCurrency == "" {
		cfg.FromCurrency = "USD"
	}
	if cfg.ToCurrency == "" {
		cfg.ToCurrency = "PHP"
	}
	if cfg.ProviderTimeout <= 0 {
		cfg.ProviderTimeout = 15 * time.Second
	}
	return &Engine{
		classifier: classifier,
		api:        api,
		store:      store,
		gateway:    gateway,
		metrics:    m,
		logger:     logger.With("component", "convo"),
		cfg:        cfg,
	}
}

// Handle processes one user message. Whitespace-only content is a no-op.
// On a non-retry the user message is appended before any processing so it
// stays visible even when the branch fails. Branch errors never escape: they
// mark the message failed and append the apology reply. A failed message
// resubmitted with isRetry true skips the duplicate append and, on success,
// clears its failure marker.
func (e *Engine) Handle(ctx context.Context, conv *Conversation, msg Message, isRetry bool) {
	if strings.TrimSpace(msg.Content) == "" {
		return
	}

	conv.mu.Lock()
	defer conv.mu.Unlock()

	if !isRetry {
		conv.messages = append(conv.messages, msg)
		e.persist(ctx, conv, msg)
	}

	switch err := e.dispatch(ctx, conv, msg, isRetry); {
	case errors.Is(err, errFailureRecorded):
		// The branch already marked the message and replied.
	case err != nil:
		e.logger.Error("message handling failed", "conversation", conv.id, "error", err)
		e.metrics.HandleFailures.Inc()
		conv.failed[msg.ID] = struct{}{}
		e.reply(ctx, conv, apologyText)
	default:
		delete(conv.failed, msg.ID)
	}

	if !isRetry {
		conv.draft = ""
	}
}

// dispatch selects the branch for a message; first match wins.
func (e *Engine) dispatch(ctx context.Context, conv *Conversation, msg Message, isRetry bool) error {
	switch {
	case e.classifier.IsGratitude(msg.Content):
		e.metrics.IncomingMessages.WithLabelValues("gratitude").Inc()
		e.reply(ctx, conv, ackText)
		return nil
	case conv.awaitingChoice:
		e.metrics.IncomingMessages.WithLabelValues("transaction_choice").Inc()
		e.resolveTransactionChoice(ctx, conv, msg)
		return nil
	case e.classifier.MentionsTransactionHistory(msg.Content):
		e.metrics.IncomingMessages.WithLabelValues("transaction_history").Inc()
		return e.handleTransactionRequest(ctx, conv, msg, isRetry)
	case e.classifier.MentionsTransferInquiry(msg.Content):
		e.metrics.IncomingMessages.WithLabelValues("transfer_inquiry").Inc()
		return e.handleTransferInquiry(ctx, conv, msg, isRetry)
	default:
		e.metrics.IncomingMessages.WithLabelValues("generic").Inc()
		return e.handleGeneric(ctx, conv, msg, isRetry)
	}
}

// resolveTransactionChoice matches the reply against the candidate list.
// An unresolved choice appends nothing and keeps the conversation in
// choosing mode, so the user can simply try again.
func (e *Engine) resolveTransactionChoice(ctx context.Context, conv *Conversation, msg Message) {
	lines := make([]string, 0, len(conv.candidates))
	for _, candidate := range conv.candidates {
		lines = append(lines, candidate.Line)
	}

	line, ok := e.classifier.BestMatch(lines, msg.Content)
	if !ok {
		return
	}
	for _, candidate := range conv.candidates {
		if candidate.Line == line {
			e.reply(ctx, conv, detailsPrefix+candidate.Transaction.Summary())
			conv.awaitingChoice = false
			return
		}
	}
}

func (e *Engine) handleTransactionRequest(ctx context.Context, conv *Conversation, msg Message, isRetry bool) error {
	if hasSimulatedFault(msg, isRetry) {
		return errSimulatedFailure
	}

	callCtx, cancel := context.WithTimeout(ctx, e.cfg.ProviderTimeout)
	defer cancel()
	transactions, err := e.api.Transactions(callCtx)
	if err != nil {
		return fmt.Errorf("fetch transactions: %w", err)
	}

	if len(transactions) == 0 {
		e.reply(ctx, conv, emptyHistoryText)
		return nil
	}

	listing, lines := bank.Summarize(transactions)
	conv.candidates = lines

	e.reply(ctx, conv, listPrefix+listing)
	e.pause(ctx)
	e.reply(ctx, conv, choicePrompt)
	conv.awaitingChoice = true
	return nil
}

func (e *Engine) handleTransferInquiry(ctx context.Context, conv *Conversation, msg Message, isRetry bool) error {
	if hasSimulatedFault(msg, isRetry) {
		return errSimulatedFailure
	}

	callCtx, cancel := context.WithTimeout(ctx, e.cfg.ProviderTimeout)
	defer cancel()
	prediction, err := e.api.PredictedFee(callCtx, e.cfg.FromCurrency, e.cfg.ToCurrency)
	if err != nil {
		return fmt.Errorf("fetch fee prediction: %w", err)
	}

	e.reply(ctx, conv, feeInfoPrefix+prediction.Summary())
	return nil
}

// handleGeneric marks a simulated failure directly instead of raising, and
// replies with the fallback text either way. Kept asymmetric with the
// provider branches on purpose: the fallback reply is appended even for a
// failed message, and the apology never is.
func (e *Engine) handleGeneric(ctx context.Context, conv *Conversation, msg Message, isRetry bool) error {
	if hasSimulatedFault(msg, isRetry) {
		e.metrics.HandleFailures.Inc()
		conv.failed[msg.ID] = struct{}{}
		e.reply(ctx, conv, fallbackText)
		return errFailureRecorded
	}
	e.reply(ctx, conv, fallbackText)
	return nil
}

// hasSimulatedFault is the deterministic fault-injection convention: content
// containing "fail" fails on the first attempt and succeeds on retry.
func hasSimulatedFault(msg Message, isRetry bool) bool {
	return !isRetry && strings.Contains(msg.Content, "fail")
}

func (e *Engine) reply(ctx context.Context, conv *Conversation, content string) {
	if strings.TrimSpace(content) == "" {
		return
	}

	bot := Message{ID: uuid.New(), Content: content, IsUser: false, Timestamp: time.Now()}
	conv.messages = append(conv.messages, bot)
	e.metrics.BotReplies.Inc()
	e.persist(ctx, conv, bot)

	if e.gateway != nil && conv.remote != "" {
		if err := e.gateway.SendText(ctx, conv.remote, content); err != nil {
			e.logger.Warn("failed sending reply", "conversation", conv.id, "error", err)
		}
	}
}

func (e *Engine) persist(ctx context.Context, conv *Conversation, msg Message) {
	if e.store == nil {
		return
	}
	direction := "outgoing"
	if msg.IsUser {
		direction = "incoming"
	}
	rec := repo.MessageRecord{
		ConversationID: conv.id,
		MessageID:      msg.ID,
		Direction:      direction,
		Content:        msg.Content,
		CreatedAt:      msg.Timestamp,
	}
	if err := e.store.InsertMessage(ctx, rec); err != nil {
		e.logger.Warn("failed logging message", "conversation", conv.id, "error", err)
	}
}

// pause separates the transaction listing from the follow-up prompt so the
// two read as distinct turns.
func (e *Engine) pause(ctx context.Context) {
	if e.cfg.ReplyGap <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(e.cfg.ReplyGap):
	}
}
