package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/scienceol/labmate/pkg/common"
	"github.com/scienceol/labmate/pkg/common/code"
	"github.com/scienceol/labmate/pkg/core/activity"
	aImpl "github.com/scienceol/labmate/pkg/core/activity/activity"
	"github.com/scienceol/labmate/pkg/core/chat"
	"github.com/scienceol/labmate/pkg/core/chemical"
	"github.com/scienceol/labmate/pkg/middleware/auth"
	"github.com/scienceol/labmate/pkg/middleware/logger"
	"github.com/scienceol/labmate/pkg/repo"
	actStore "github.com/scienceol/labmate/pkg/repo/activity"
	cStore "github.com/scienceol/labmate/pkg/repo/calculation"
	chatStore "github.com/scienceol/labmate/pkg/repo/chat"
	eStore "github.com/scienceol/labmate/pkg/repo/experiment"
	"github.com/scienceol/labmate/pkg/repo/llm"
	"github.com/scienceol/labmate/pkg/repo/model"
	"github.com/scienceol/labmate/pkg/utils"
)

const askedPreview = 50

const assistantSystem = "You are LabMate AI, an intelligent laboratory assistant for chemistry and laboratory work."

const assistantPrompt = `You are LabMate AI, an intelligent laboratory assistant for chemistry and laboratory work. You can answer both general chemistry questions and provide personalized assistance based on the user's experiment history.

USER'S RECENT EXPERIMENTS:
%s

USER'S RECENT CALCULATIONS:
%s

USER'S RECENT ACTIVITIES:
%s

AVAILABLE CHEMICALS DATABASE:
%s

USER MESSAGE: %s

INSTRUCTIONS:
1. **Answer ALL types of chemistry and laboratory questions** - general questions, specific problems, calculations, safety, procedures, etc.
2. **Use your general chemistry knowledge** to answer questions even if not related to the user's history
3. **Reference the user's experiment history ONLY when relevant** to provide personalized insights
4. **Be conversational and supportive** in all responses
5. **Format your response with proper markdown** (use **bold** for emphasis)
6. **Keep responses informative but concise**
7. **Always prioritize safety** in your recommendations
8. **If performing calculations, show steps and results**

Respond as LabMate AI:`

type chatImpl struct {
	expStore  repo.ExperimentRepo
	calcStore repo.CalculationRepo
	actStore  repo.ActivityRepo
	chatStore repo.ChatRepo
	llm       repo.LLMRepo
	recorder  activity.Recorder
	rules     *rules
}

func New() chat.Service {
	return NewWith(
		eStore.NewExperimentRepo(),
		cStore.NewCalculationRepo(),
		actStore.NewActivityRepo(),
		chatStore.NewChatRepo(),
		llm.NewLLMRepo(),
		aImpl.New(),
	)
}

func NewWith(exp repo.ExperimentRepo, calc repo.CalculationRepo, act repo.ActivityRepo,
	msgs repo.ChatRepo, l repo.LLMRepo, recorder activity.Recorder,
) chat.Service {
	return &chatImpl{
		expStore:  exp,
		calcStore: calc,
		actStore:  act,
		chatStore: msgs,
		llm:       l,
		recorder:  recorder,
		rules:     &rules{calcStore: calc, llmEnabled: l.Enabled},
	}
}

func currentUser(ctx context.Context) (*auth.UserInfo, error) {
	userInfo := auth.GetCurrentUser(ctx)
	if userInfo == nil {
		return nil, code.UnLogin
	}
	return userInfo, nil
}

func (c *chatImpl) Send(ctx context.Context, req *chat.SendReq) (*chat.SendResp, error) {
	userInfo, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, code.EmptyMessage
	}

	response := c.respond(ctx, userInfo, message)

	// 保存失败不影响本次回复
	if err := c.chatStore.CreateMessages(ctx,
		&model.ChatMessage{UserID: userInfo.ID, Message: message, IsUserMessage: true},
		&model.ChatMessage{UserID: userInfo.ID, Response: response},
	); err != nil {
		logger.Errorf(ctx, "save chat conversation user: %d err: %+v", userInfo.ID, err)
	}
	c.recorder.Log(ctx, userInfo.ID, model.ActionChatbot,
		fmt.Sprintf("Asked: %s...", utils.Truncate(message, askedPreview)))

	return &chat.SendResp{Response: response, Timestamp: time.Now()}, nil
}

func (c *chatImpl) respond(ctx context.Context, userInfo *auth.UserInfo, message string) string {
	if c.llm.Enabled() {
		prompt := c.prompt(ctx, userInfo.ID, message)
		answer, err := c.llm.Complete(ctx, assistantSystem, prompt)
		if err == nil && strings.TrimSpace(answer) != "" {
			return formatAnswer(answer)
		}
		logger.Warnf(ctx, "chat llm completion failed, falling back to rules user: %d err: %+v", userInfo.ID, err)
	}
	return c.rules.reply(ctx, userInfo.ID, message)
}

// formatAnswer 统一模型回复的前缀
func formatAnswer(answer string) string {
	answer = strings.TrimSpace(answer)
	if strings.HasPrefix(answer, "**") || strings.HasPrefix(answer, chat.AssistantName) {
		return answer
	}
	return "**" + chat.AssistantName + ":** " + answer
}

// userContext 读取失败时返回空上下文
func (c *chatImpl) userContext(ctx context.Context, userID int64) *chat.UserContext {
	uc := &chat.UserContext{
		Experiments:  []chat.ExperimentContext{},
		Calculations: []chat.CalculationContext{},
		Activities:   []chat.ActivityContext{},
	}

	exps, err := c.expStore.ListExperiments(ctx, userID, chat.ExperimentContextSize)
	if err != nil {
		logger.Warnf(ctx, "chat context experiments user: %d err: %+v", userID, err)
	}
	for _, e := range exps {
		uc.Experiments = append(uc.Experiments, chat.NewExperimentContext(e))
	}

	calcs, err := c.calcStore.ListCalculations(ctx, repo.CalculationQuery{UserID: userID, Limit: chat.CalculationContextSize})
	if err != nil {
		logger.Warnf(ctx, "chat context calculations user: %d err: %+v", userID, err)
	}
	for _, calc := range calcs {
		uc.Calculations = append(uc.Calculations, chat.NewCalculationContext(calc))
	}

	acts, _, err := c.actStore.ListActivities(ctx, repo.ActivityQuery{UserID: userID, Limit: chat.ActivityContextSize})
	if err != nil {
		logger.Warnf(ctx, "chat context activities user: %d err: %+v", userID, err)
	}
	for _, a := range acts {
		uc.Activities = append(uc.Activities, chat.NewActivityContext(a))
	}
	return uc
}

func indented(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "[]"
	}
	return string(b)
}

func (c *chatImpl) prompt(ctx context.Context, userID int64, message string) string {
	uc := c.userContext(ctx, userID)
	return fmt.Sprintf(assistantPrompt,
		indented(uc.Experiments),
		indented(uc.Calculations),
		indented(uc.Activities),
		indented(chemical.Names()),
		message,
	)
}

func (c *chatImpl) History(ctx context.Context, req *chat.HistoryReq) (*chat.HistoryResp, error) {
	userInfo, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	req.Normalize()

	msgs, total, err := c.chatStore.ListMessages(ctx, userInfo.ID, (req.Page-1)*req.PerPage, req.PerPage)
	if err != nil {
		return nil, err
	}
	data := utils.FilterSlice(msgs, func(m *model.ChatMessage) (*chat.MessageResp, bool) {
		return chat.NewMessageResp(m), true
	})
	return common.NewPageMoreResp(data, total, req.Page, req.PerPage), nil
}

func (c *chatImpl) Clear(ctx context.Context) (*chat.ClearResp, error) {
	userInfo, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	deleted, err := c.chatStore.DeleteMessages(ctx, userInfo.ID)
	if err != nil {
		return nil, err
	}
	c.recorder.Log(ctx, userInfo.ID, model.ActionChatbot, "Cleared chat history")
	return &chat.ClearResp{Deleted: deleted}, nil
}
