package logic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"taskchat-backend/agent"
	"taskchat-backend/models"
)

const conversationTitleLimit = 60

// ConversationStore is the slice of the conversation DAO the exchange needs.
type ConversationStore interface {
	CreateConversation(ownerID uint64, title string) (*models.Conversation, error)
	GetConversationByID(id uuid.UUID) (*models.Conversation, error)
	TouchConversation(id uuid.UUID) error
}

// MessageStore appends and loads turns. Append-only; prior turns are never
// mutated.
type MessageStore interface {
	CreateMessage(conversationID uuid.UUID, role, content string, toolCalls datatypes.JSON) (*models.Message, error)
	GetMessagesByConversationID(conversationID uuid.UUID) ([]models.Message, error)
}

// UsageStore records consumed model tokens per user.
type UsageStore interface {
	AddTokensConsumed(id uint64, delta uint64) error
}

// ExchangeResult is what the chat endpoint returns for one exchange.
type ExchangeResult struct {
	ConversationID uuid.UUID              `json:"conversation_id"`
	Response       string                 `json:"response"`
	ToolCalls      []agent.ToolCallRecord `json:"tool_calls"`
	Truncated      bool                   `json:"truncated"`
}

// ExchangeLogic runs one complete message-in, response-out exchange: resolve
// the conversation, drive the agent loop, persist the final turn pair.
type ExchangeLogic struct {
	convoStore   ConversationStore
	messageStore MessageStore
	usageStore   UsageStore
	loop         *agent.Loop
}

func NewExchangeLogic(convoStore ConversationStore, messageStore MessageStore, usageStore UsageStore, loop *agent.Loop) *ExchangeLogic {
	return &ExchangeLogic{
		convoStore:   convoStore,
		messageStore: messageStore,
		usageStore:   usageStore,
		loop:         loop,
	}
}

// RunExchange handles one inbound message for ownerID. A nil conversationID
// starts a new conversation. Nothing is persisted until the loop terminates:
// an aborted exchange leaves no turns behind, a new conversation is only
// created once there is something to store in it.
func (l *ExchangeLogic) RunExchange(ctx context.Context, ownerID uint64, conversationID *uuid.UUID, message string) (*ExchangeResult, error) {
	var history []agent.Turn
	if conversationID != nil {
		convo, err := l.convoStore.GetConversationByID(*conversationID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		if convo.OwnerID != ownerID {
			return nil, ErrNotFound
		}

		messages, err := l.messageStore.GetMessagesByConversationID(*conversationID)
		if err != nil {
			return nil, err
		}
		history = hydrateHistory(messages)
	}

	outcome, err := l.loop.Run(ctx, ownerID, history, message)
	if err != nil {
		return nil, err
	}

	convoID, err := l.persistExchange(ownerID, conversationID, message, outcome)
	if err != nil {
		return nil, err
	}

	if outcome.TokensUsed > 0 {
		if err := l.usageStore.AddTokensConsumed(ownerID, outcome.TokensUsed); err != nil {
			log.Printf("failed to record token usage for user %d: %v", ownerID, err)
		}
	}

	return &ExchangeResult{
		ConversationID: convoID,
		Response:       outcome.Text,
		ToolCalls:      outcome.Trace,
		Truncated:      outcome.Truncated,
	}, nil
}

// persistExchange commits exactly one user turn and one assistant turn. The
// assistant turn carries the whole trace for the exchange.
func (l *ExchangeLogic) persistExchange(ownerID uint64, conversationID *uuid.UUID, message string, outcome *agent.Result) (uuid.UUID, error) {
	var convoID uuid.UUID
	if conversationID != nil {
		convoID = *conversationID
	} else {
		convo, err := l.convoStore.CreateConversation(ownerID, deriveTitle(message))
		if err != nil {
			return uuid.Nil, err
		}
		convoID = convo.ID
	}

	if _, err := l.messageStore.CreateMessage(convoID, "user", message, nil); err != nil {
		return uuid.Nil, err
	}

	var trace datatypes.JSON
	if len(outcome.Trace) > 0 {
		raw, err := json.Marshal(outcome.Trace)
		if err != nil {
			return uuid.Nil, fmt.Errorf("failed to marshal tool-call trace: %v", err)
		}
		trace = datatypes.JSON(raw)
	}
	if _, err := l.messageStore.CreateMessage(convoID, "assistant", outcome.Text, trace); err != nil {
		return uuid.Nil, err
	}

	if err := l.convoStore.TouchConversation(convoID); err != nil {
		log.Printf("failed to touch conversation %s: %v", convoID, err)
	}

	return convoID, nil
}

// hydrateHistory maps persisted turns back into the loop's working history.
// Only the distilled user/assistant transcript is replayed; the per-round
// tool chatter of past exchanges stays in the trace column.
func hydrateHistory(messages []models.Message) []agent.Turn {
	history := make([]agent.Turn, 0, len(messages))
	for _, msg := range messages {
		history = append(history, agent.Turn{Role: msg.Role, Content: msg.Content})
	}
	return history
}

func deriveTitle(message string) string {
	if utf8.RuneCountInString(message) <= conversationTitleLimit {
		return message
	}
	runes := []rune(message)
	return string(runes[:conversationTitleLimit]) + "…"
}
