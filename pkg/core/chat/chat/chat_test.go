package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scienceol/labmate/internal/testutil"
	"github.com/scienceol/labmate/pkg/common/code"
	"github.com/scienceol/labmate/pkg/core/chat"
	"github.com/scienceol/labmate/pkg/middleware/auth"
	"github.com/scienceol/labmate/pkg/repo"
	actStore "github.com/scienceol/labmate/pkg/repo/activity"
	cStore "github.com/scienceol/labmate/pkg/repo/calculation"
	chatStore "github.com/scienceol/labmate/pkg/repo/chat"
	eStore "github.com/scienceol/labmate/pkg/repo/experiment"
	"github.com/scienceol/labmate/pkg/repo/model"
)

type fakeLLM struct {
	enabled bool
	reply   string
	err     error
	prompts []string
}

func (f *fakeLLM) Enabled() bool { return f.enabled }

func (f *fakeLLM) Complete(_ context.Context, _ string, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

type recorder struct {
	actions []model.ActionType
	descs   []string
}

func (r *recorder) Log(_ context.Context, _ int64, action model.ActionType, desc string) {
	r.actions = append(r.actions, action)
	r.descs = append(r.descs, desc)
}

type fixture struct {
	ctx   context.Context
	svc   chat.Service
	llm   *fakeLLM
	rec   *recorder
	calcs repo.CalculationRepo
	exps  repo.ExperimentRepo
	msgs  repo.ChatRepo
}

func setup(t *testing.T) *fixture {
	t.Helper()
	testutil.SetupDB(t)
	f := &fixture{
		ctx:   auth.WithUser(context.Background(), &auth.UserInfo{ID: 3, Name: "marie"}),
		llm:   &fakeLLM{},
		rec:   &recorder{},
		calcs: cStore.NewCalculationRepo(),
		exps:  eStore.NewExperimentRepo(),
		msgs:  chatStore.NewChatRepo(),
	}
	f.svc = NewWith(f.exps, f.calcs, actStore.NewActivityRepo(), f.msgs, f.llm, f.rec)
	return f
}

func TestSendEmpty(t *testing.T) {
	f := setup(t)

	_, err := f.svc.Send(f.ctx, &chat.SendReq{Message: "   "})
	assert.True(t, errors.Is(err, code.EmptyMessage))
	assert.Empty(t, f.rec.actions)

	_, err = f.svc.Send(context.Background(), &chat.SendReq{Message: "hi"})
	assert.True(t, errors.Is(err, code.UnLogin))
}

func TestSendWithLLM(t *testing.T) {
	f := setup(t)
	require.NoError(t, f.exps.CreateExperiment(f.ctx, &model.Experiment{UserID: 3, Title: "Buffer prep"}))
	f.llm.enabled = true
	f.llm.reply = "  Use a pH meter.  "

	resp, err := f.svc.Send(f.ctx, &chat.SendReq{Message: "How do I check my buffer?"})
	require.NoError(t, err)
	assert.Equal(t, "**LabMate AI:** Use a pH meter.", resp.Response)
	require.Len(t, f.llm.prompts, 1)
	assert.Contains(t, f.llm.prompts[0], `"title": "Buffer prep"`)
	assert.Contains(t, f.llm.prompts[0], `"Sodium Chloride"`)
	assert.Contains(t, f.llm.prompts[0], "USER MESSAGE: How do I check my buffer?")

	msgs, total, err := f.msgs.ListMessages(f.ctx, 3, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, msgs, 2)
	users := slices.IndexFunc(msgs, func(m *model.ChatMessage) bool { return m.IsUserMessage })
	require.GreaterOrEqual(t, users, 0)
	assert.Equal(t, "How do I check my buffer?", msgs[users].Message)
	assert.Empty(t, msgs[users].Response)
	assert.Equal(t, resp.Response, msgs[1-users].Response)

	assert.Equal(t, []model.ActionType{model.ActionChatbot}, f.rec.actions)
	assert.Equal(t, "Asked: How do I check my buffer?...", f.rec.descs[0])
}

func TestFormatAnswer(t *testing.T) {
	assert.Equal(t, "**Bold** start", formatAnswer("**Bold** start"))
	assert.Equal(t, "LabMate AI here", formatAnswer("LabMate AI here"))
	assert.Equal(t, "**LabMate AI:** plain", formatAnswer("plain"))
}

func TestSendLLMFailureFallsBack(t *testing.T) {
	f := setup(t)
	f.llm.enabled = true
	f.llm.err = errors.New("quota")

	resp, err := f.svc.Send(f.ctx, &chat.SendReq{Message: "Tell me about titration"})
	require.NoError(t, err)
	assert.Contains(t, resp.Response, "Titration Process")
}

func TestAskedPreviewTruncates(t *testing.T) {
	f := setup(t)
	long := strings.Repeat("x", 80)

	_, err := f.svc.Send(f.ctx, &chat.SendReq{Message: long})
	require.NoError(t, err)
	assert.Equal(t, "Asked: "+strings.Repeat("x", 50)+"...", f.rec.descs[0])
}

func TestRulesCalculation(t *testing.T) {
	f := setup(t)

	resp, err := f.svc.Send(f.ctx, &chat.SendReq{Message: "Calculate 0.1M NaCl for 100mL"})
	require.NoError(t, err)
	assert.Contains(t, resp.Response, "✅ **Calculation Complete!**")
	assert.Contains(t, resp.Response, "**Chemical:** Sodium Chloride (NaCl)")
	assert.Contains(t, resp.Response, "**Mass needed:** 0.5844 g")

	calcs, err := f.calcs.ListCalculations(f.ctx, repo.CalculationQuery{UserID: 3})
	require.NoError(t, err)
	require.Len(t, calcs, 1)
	assert.Equal(t, "Sodium Chloride", calcs[0].Reagent)
	assert.Equal(t, 100.0, calcs[0].Volume)

	resp, err = f.svc.Send(f.ctx, &chat.SendReq{Message: "calculate the mass of glucose"})
	require.NoError(t, err)
	assert.Equal(t, "❌ I need more information. Please specify: molarity (e.g., 0.1M), volume (e.g., 100mL).\n\n"+
		"Example: 'Calculate 0.1M NaCl for 100mL'", resp.Response)
}

func TestRulesIntents(t *testing.T) {
	f := setup(t)
	r := &rules{calcStore: f.calcs, llmEnabled: f.llm.Enabled}

	cases := []struct {
		message string
		want    string
	}{
		{"Tell me about the chemical Ethanol", "**Ethanol** (C2H5OH)"},
		{"find reagent xyz", "I couldn't find that chemical in my database"},
		{"Is Sulfuric Acid dangerous?", "Store separately from reducing agents"},
		{"safety first", "General Laboratory Safety Tips"},
		{"plan an experiment", "Experiment Planning Assistance"},
		{"what can you do", "❌ AI assistant (Not Available)"},
		{"explain covalent bonds", "Chemical Bonds"},
		{"what is ph", "pH and Acids/Bases"},
		{"tell me a joke", "I'd be happy to help with that!"},
	}
	for _, tc := range cases {
		t.Run(tc.message, func(t *testing.T) {
			assert.Contains(t, r.reply(f.ctx, 3, tc.message), tc.want)
		})
	}

	assert.Contains(t, greetings, r.reply(f.ctx, 3, "hello there"))
}

func TestChemicalInfoLimit(t *testing.T) {
	msg := chemicalInfo("compare Sodium Chloride, Sodium Hydroxide, Glucose, Ethanol and Acetic Acid")
	assert.Equal(t, 3, strings.Count(msg, "• Molar Mass:"))
	assert.Contains(t, msg, "... and 2 more chemicals found.")
}

func TestClassifyOrder(t *testing.T) {
	assert.Equal(t, intentCalculation, classify("calculate safety margin"))
	assert.Equal(t, intentSafety, classify("is it toxic"))
	assert.Equal(t, intentGeneral, classify("titration"))
}

func TestHistoryAndClear(t *testing.T) {
	f := setup(t)
	for _, m := range []string{"titration", "ph", "bonds"} {
		_, err := f.svc.Send(f.ctx, &chat.SendReq{Message: m})
		require.NoError(t, err)
	}

	page, err := f.svc.History(f.ctx, &chat.HistoryReq{Page: 1, PerPage: 4})
	require.NoError(t, err)
	assert.EqualValues(t, 6, page.Total)
	assert.Len(t, page.Data, 4)
	assert.True(t, page.HasNext)
	assert.False(t, page.HasPrev)
	assert.Equal(t, 2, page.Pages)

	req := &chat.HistoryReq{}
	_, err = f.svc.History(f.ctx, req)
	require.NoError(t, err)
	assert.Equal(t, chat.DefaultPerPage, req.PerPage)

	cleared, err := f.svc.Clear(f.ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 6, cleared.Deleted)
	assert.Equal(t, "Cleared chat history", f.rec.descs[len(f.rec.descs)-1])

	page, err = f.svc.History(f.ctx, &chat.HistoryReq{})
	require.NoError(t, err)
	assert.Empty(t, page.Data)
}

func TestSocket(t *testing.T) {
	gin.SetMode(gin.TestMode)
	f := setup(t)
	sock := NewSocket(context.Background(), f.svc)

	e := gin.New()
	e.GET("/ws", func(ctx *gin.Context) {
		ctx.Set(auth.USERKEY, &auth.UserInfo{ID: 3, Name: "marie"})
		sock.Connect(ctx)
	})
	srv := httptest.NewServer(e)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"message":"explain titration"}`)))
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	got := &chat.SocketMsg{}
	require.NoError(t, json.Unmarshal(data, got))
	assert.Contains(t, got.Response, "Titration Process")
	assert.NotNil(t, got.Timestamp)
	assert.Equal(t, 1, sock.(*socket).online())

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"message":""}`)))
	_, data, err = conn.ReadMessage()
	require.NoError(t, err)
	got = &chat.SocketMsg{}
	require.NoError(t, json.Unmarshal(data, got))
	assert.Equal(t, "Message cannot be empty", got.Error)

	sock.Close(context.Background())
}
