package logic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"taskchat-backend/agent"
	"taskchat-backend/models"
)

type fakeConvoStore struct {
	convos  map[uuid.UUID]*models.Conversation
	created int
	touched int
}

func newFakeConvoStore() *fakeConvoStore {
	return &fakeConvoStore{convos: map[uuid.UUID]*models.Conversation{}}
}

func (s *fakeConvoStore) CreateConversation(ownerID uint64, title string) (*models.Conversation, error) {
	convo := &models.Conversation{ID: uuid.New(), OwnerID: ownerID, Title: title}
	s.convos[convo.ID] = convo
	s.created++
	return convo, nil
}

func (s *fakeConvoStore) GetConversationByID(id uuid.UUID) (*models.Conversation, error) {
	convo, ok := s.convos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return convo, nil
}

func (s *fakeConvoStore) TouchConversation(id uuid.UUID) error {
	s.touched++
	return nil
}

type fakeMessageStore struct {
	messages map[uuid.UUID][]models.Message
	nextID   uint64
}

func newFakeMessageStore() *fakeMessageStore {
	return &fakeMessageStore{messages: map[uuid.UUID][]models.Message{}, nextID: 1}
}

func (s *fakeMessageStore) CreateMessage(conversationID uuid.UUID, role, content string, toolCalls datatypes.JSON) (*models.Message, error) {
	msg := models.Message{
		ID:             s.nextID,
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
		ToolCalls:      toolCalls,
	}
	s.nextID++
	s.messages[conversationID] = append(s.messages[conversationID], msg)
	return &msg, nil
}

func (s *fakeMessageStore) GetMessagesByConversationID(conversationID uuid.UUID) ([]models.Message, error) {
	return s.messages[conversationID], nil
}

func (s *fakeMessageStore) total() int {
	n := 0
	for _, msgs := range s.messages {
		n += len(msgs)
	}
	return n
}

type fakeUsageStore struct {
	added uint64
}

func (s *fakeUsageStore) AddTokensConsumed(id uint64, delta uint64) error {
	s.added += delta
	return nil
}

// scriptedGateway replays fixed model turns; histories records what the model
// was shown on each call.
type scriptedGateway struct {
	turns     []*agent.ModelTurn
	err       error
	calls     int
	histories [][]agent.Turn
}

func (g *scriptedGateway) Converse(ctx context.Context, system string, history []agent.Turn, tools []*agent.Tool) (*agent.ModelTurn, error) {
	g.calls++
	snapshot := make([]agent.Turn, len(history))
	copy(snapshot, history)
	g.histories = append(g.histories, snapshot)

	if g.err != nil {
		return nil, g.err
	}
	if len(g.turns) == 0 {
		return &agent.ModelTurn{Text: "out of script"}, nil
	}
	turn := g.turns[0]
	g.turns = g.turns[1:]
	return turn, nil
}

type stubTaskStore struct{}

func (stubTaskStore) CreateTask(ownerID uint64, title, description string) (*models.Task, error) {
	return &models.Task{ID: 1, OwnerID: ownerID, Title: title, Description: description}, nil
}
func (stubTaskStore) GetTask(ownerID, taskID uint64) (*models.Task, error) {
	return nil, gorm.ErrRecordNotFound
}
func (stubTaskStore) ListTasks(ownerID uint64, completed *bool) ([]models.Task, error) {
	return nil, nil
}
func (stubTaskStore) UpdateTask(ownerID, taskID uint64, updates map[string]interface{}) (*models.Task, error) {
	return nil, gorm.ErrRecordNotFound
}
func (stubTaskStore) DeleteTask(ownerID, taskID uint64) error {
	return gorm.ErrRecordNotFound
}

func newTestExchange(gateway agent.Gateway) (*ExchangeLogic, *fakeConvoStore, *fakeMessageStore, *fakeUsageStore) {
	convos := newFakeConvoStore()
	messages := newFakeMessageStore()
	usage := &fakeUsageStore{}
	loop := agent.NewLoop(gateway, agent.NewTaskRegistry(stubTaskStore{}))
	return NewExchangeLogic(convos, messages, usage, loop), convos, messages, usage
}

func TestRunExchangeCreatesConversationAndPersistsTurnPair(t *testing.T) {
	gateway := &scriptedGateway{turns: []*agent.ModelTurn{
		{Text: "All done.", TokensUsed: 42},
	}}
	exchange, convos, messages, usage := newTestExchange(gateway)

	result, err := exchange.RunExchange(context.Background(), 1, nil, "hello")
	if err != nil {
		t.Fatalf("RunExchange() error = %v", err)
	}

	if result.ConversationID == uuid.Nil {
		t.Fatal("no conversation id returned")
	}
	if convos.created != 1 {
		t.Fatalf("conversations created = %d, want 1", convos.created)
	}
	convo := convos.convos[result.ConversationID]
	if convo == nil || convo.OwnerID != 1 || convo.Title != "hello" {
		t.Fatalf("conversation = %+v", convo)
	}

	persisted := messages.messages[result.ConversationID]
	if len(persisted) != 2 {
		t.Fatalf("persisted %d messages, want 2", len(persisted))
	}
	if persisted[0].Role != "user" || persisted[0].Content != "hello" || persisted[0].ToolCalls != nil {
		t.Fatalf("user turn = %+v", persisted[0])
	}
	if persisted[1].Role != "assistant" || persisted[1].Content != "All done." {
		t.Fatalf("assistant turn = %+v", persisted[1])
	}
	if usage.added != 42 {
		t.Fatalf("usage recorded = %d, want 42", usage.added)
	}
	if convos.touched != 1 {
		t.Fatalf("conversation touched %d times, want 1", convos.touched)
	}
}

func TestRunExchangePersistsTraceOnAssistantTurn(t *testing.T) {
	gateway := &scriptedGateway{turns: []*agent.ModelTurn{
		{ToolRequests: []agent.ToolRequest{{ID: "call_1", Name: "create_task", Args: map[string]interface{}{"title": "buy milk"}}}},
		{Text: "Added it."},
	}}
	exchange, _, messages, _ := newTestExchange(gateway)

	result, err := exchange.RunExchange(context.Background(), 1, nil, "add buy milk")
	if err != nil {
		t.Fatalf("RunExchange() error = %v", err)
	}
	if len(result.ToolCalls) != 1 || result.ToolCalls[0].Tool != "create_task" {
		t.Fatalf("tool calls = %+v", result.ToolCalls)
	}

	persisted := messages.messages[result.ConversationID]
	if len(persisted) != 2 {
		t.Fatalf("persisted %d messages, want 2", len(persisted))
	}
	var trace []agent.ToolCallRecord
	if err := json.Unmarshal(persisted[1].ToolCalls, &trace); err != nil {
		t.Fatalf("assistant trace not JSON: %v", err)
	}
	if len(trace) != 1 || trace[0].Tool != "create_task" {
		t.Fatalf("trace = %+v", trace)
	}
}

func TestRunExchangeModelUnavailablePersistsNothing(t *testing.T) {
	gateway := &scriptedGateway{err: fmt.Errorf("%w: boom", agent.ErrModelUnavailable)}
	exchange, convos, messages, usage := newTestExchange(gateway)

	_, err := exchange.RunExchange(context.Background(), 1, nil, "hello")
	if !errors.Is(err, agent.ErrModelUnavailable) {
		t.Fatalf("RunExchange() error = %v, want ErrModelUnavailable", err)
	}
	if convos.created != 0 {
		t.Fatalf("conversations created = %d, want 0", convos.created)
	}
	if messages.total() != 0 {
		t.Fatalf("persisted %d messages, want 0", messages.total())
	}
	if usage.added != 0 {
		t.Fatalf("usage recorded = %d, want 0", usage.added)
	}
}

func TestRunExchangeRejectsForeignConversation(t *testing.T) {
	gateway := &scriptedGateway{}
	exchange, convos, messages, _ := newTestExchange(gateway)

	other, _ := convos.CreateConversation(2, "someone else's thread")
	convos.created = 0

	_, err := exchange.RunExchange(context.Background(), 1, &other.ID, "hello")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("RunExchange() error = %v, want ErrNotFound", err)
	}
	if gateway.calls != 0 {
		t.Fatalf("gateway called %d times, want 0", gateway.calls)
	}
	if messages.total() != 0 {
		t.Fatalf("persisted %d messages, want 0", messages.total())
	}
}

func TestRunExchangeUnknownConversation(t *testing.T) {
	gateway := &scriptedGateway{}
	exchange, _, _, _ := newTestExchange(gateway)

	id := uuid.New()
	_, err := exchange.RunExchange(context.Background(), 1, &id, "hello")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("RunExchange() error = %v, want ErrNotFound", err)
	}
}

func TestRunExchangeHydratesHistory(t *testing.T) {
	gateway := &scriptedGateway{turns: []*agent.ModelTurn{{Text: "ok"}}}
	exchange, convos, messages, _ := newTestExchange(gateway)

	convo, _ := convos.CreateConversation(1, "earlier")
	messages.CreateMessage(convo.ID, "user", "first question", nil)
	messages.CreateMessage(convo.ID, "assistant", "first answer", nil)

	_, err := exchange.RunExchange(context.Background(), 1, &convo.ID, "second question")
	if err != nil {
		t.Fatalf("RunExchange() error = %v", err)
	}

	shown := gateway.histories[0]
	if len(shown) != 3 {
		t.Fatalf("model saw %d turns, want 3", len(shown))
	}
	if shown[0].Content != "first question" || shown[1].Content != "first answer" {
		t.Fatalf("history = %+v", shown)
	}
	if shown[2].Role != "user" || shown[2].Content != "second question" {
		t.Fatalf("new user turn = %+v", shown[2])
	}

	persisted := messages.messages[convo.ID]
	if len(persisted) != 4 {
		t.Fatalf("persisted %d messages, want 4", len(persisted))
	}
}

func TestRunExchangeTruncatedStillPersists(t *testing.T) {
	turns := make([]*agent.ModelTurn, 0, agent.MaxRounds+1)
	for i := 0; i <= agent.MaxRounds; i++ {
		turns = append(turns, &agent.ModelTurn{ToolRequests: []agent.ToolRequest{
			{ID: fmt.Sprintf("call_%d", i), Name: "list_tasks", Args: map[string]interface{}{"status": "all"}},
		}})
	}
	gateway := &scriptedGateway{turns: turns}
	exchange, _, messages, _ := newTestExchange(gateway)

	result, err := exchange.RunExchange(context.Background(), 1, nil, "never stop")
	if err != nil {
		t.Fatalf("RunExchange() error = %v", err)
	}
	if !result.Truncated {
		t.Fatal("result not truncated")
	}
	if len(result.ToolCalls) != agent.MaxRounds {
		t.Fatalf("trace length = %d, want %d", len(result.ToolCalls), agent.MaxRounds)
	}
	if messages.total() != 2 {
		t.Fatalf("persisted %d messages, want 2", messages.total())
	}
}

func TestDeriveTitleTruncates(t *testing.T) {
	short := deriveTitle("buy milk")
	if short != "buy milk" {
		t.Fatalf("title = %q", short)
	}

	long := deriveTitle("a very long message that goes on and on and on well past the conversation title limit")
	if len([]rune(long)) != conversationTitleLimit+1 {
		t.Fatalf("truncated title length = %d", len([]rune(long)))
	}
}
