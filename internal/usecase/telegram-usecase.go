package usecase

import (
	"context"
	"errors"
	"fmt"
	api "github.com/OvyFlash/telegram-bot-api"
	"github.com/google/uuid"
	"github.com/iamvkosarev/repair-chat-bot/config"
	"github.com/iamvkosarev/repair-chat-bot/internal/model"
	"github.com/iamvkosarev/repair-chat-bot/pkg/local"
	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/pool"
	"io"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
	"unicode/utf8"
)

const (
	CommandStart   = "start"
	CommandHelp    = "help"
	CommandNew     = "new"
	CommandHistory = "history"
	CommandLoad    = "load"
	CommandClear   = "clear"
	CommandKey     = "key"
	CommandVehicle = "vehicle"
	CommandPrompts = "prompts"
	CommandCode    = "code"
	CommandTools   = "tools"
	CommandTip     = "tip"

	callbackRepair  = "repair"
	callbackLoad    = "load"
	callbackVehicle = "vehicle"
	callbackPrompt  = "prompt"
	callbackExample = "example"
	callbackLookup  = "lookup"

	// Telegram rejects callback data longer than 64 bytes and messages longer than 4096 characters.
	maxCallbackDataLength = 64
	maxMessageLength      = 4096

	typingInterval = 4 * time.Second
)

type TelegramUsecaseDeps struct {
	Bot        *api.BotAPI
	Workspaces *WorkspaceUsecase
	Advisor    *AdvisorUsecase
	ErrorCodes *ErrorCodeUsecase
	HTTPClient *http.Client
	Logger     logrus.FieldLogger
}

type TelegramUsecase struct {
	TelegramUsecaseDeps
	cfg        config.Telegram
	welcome    string
	tipCounter atomic.Int64
}

type telegramPicker struct {
	t      *TelegramUsecase
	chatID int64
}

// RequestAttachment answers in the language of the update that triggered it.
func (p *telegramPicker) RequestAttachment(ctx context.Context) error {
	_, err := p.t.sendMessage(p.chatID, MessageRequestPhoto.Text(local.FromContext(ctx)))
	return err
}

func NewTelegramUsecase(cfg config.Telegram, deps TelegramUsecaseDeps, welcome string) (*TelegramUsecase, error) {
	_, err := deps.Bot.Request(
		api.NewSetMyCommands(
			[]api.BotCommand{
				{Command: CommandHelp, Description: "Get help"},
				{Command: CommandNew, Description: "Start a new conversation"},
				{Command: CommandHistory, Description: "Show recent conversations"},
				{Command: CommandVehicle, Description: "Choose your model"},
				{Command: CommandPrompts, Description: "Quick prompts for your model"},
				{Command: CommandCode, Description: "Decode an error code or symptom"},
				{Command: CommandTools, Description: "Tools needed for a repair"},
				{Command: CommandTip, Description: "Maintenance tip"},
				{Command: CommandKey, Description: "Set your OpenAI API key"},
			}...,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to set bot commands: %w", err)
	}
	if deps.HTTPClient == nil {
		deps.HTTPClient = http.DefaultClient
	}
	return &TelegramUsecase{
		TelegramUsecaseDeps: deps,
		cfg:                 cfg,
		welcome:             welcome,
	}, nil
}

func (t *TelegramUsecase) Run(ctx context.Context) error {
	u := api.NewUpdate(0)
	u.Timeout = t.cfg.UpdateTimeout

	updates := t.Bot.GetUpdatesChan(u)
	go func() {
		<-ctx.Done()
		t.Bot.StopReceivingUpdates()
	}()

	workers := pool.New().WithMaxGoroutines(max(t.cfg.Workers, 1))
	for update := range updates {
		workers.Go(
			func() {
				if update.Message != nil {
					if err := t.handleMessage(ctx, update.Message); err != nil {
						t.Logger.WithError(err).Error("error handling message")
					}
				}
				if update.CallbackQuery != nil {
					if err := t.handleCallbackQuery(ctx, update.CallbackQuery); err != nil {
						t.Logger.WithError(err).Error("error handling callback query")
					}
				}
			},
		)
	}
	workers.Wait()
	return nil
}

func (t *TelegramUsecase) workspace(ctx context.Context, chatID int64) *Workspace {
	picker := &telegramPicker{
		t:      t,
		chatID: chatID,
	}
	return t.Workspaces.Get(ctx, getTelegramOwner(chatID), picker)
}

func (t *TelegramUsecase) handleMessage(ctx context.Context, msg *api.Message) error {
	chatID := msg.Chat.ID
	language := local.Eng
	if msg.From != nil {
		language = local.ParseLanguage(msg.From.LanguageCode)
	}
	ctx = local.WithLanguage(ctx, language)
	workspace := t.workspace(ctx, chatID)

	if msg.IsCommand() {
		return t.handleCommand(ctx, msg, workspace, language)
	}

	attachment, err := t.readAttachment(ctx, msg)
	if err != nil {
		if errors.Is(err, model.ErrAttachmentTooLarge) {
			t.sendMessageAndHandleErr(chatID, MessageAttachmentTooLarge.Text(language))
			return nil
		}
		t.sendMessageAndHandleErr(chatID, MessageAttachmentUnreadable.Text(language))
		return fmt.Errorf("failed to read attachment: %w", err)
	}

	text := msg.Text
	if attachment != nil {
		text = msg.Caption
	} else if strings.TrimSpace(text) == "" {
		t.sendMessageAndHandleErr(chatID, emptyTurnNotice(msg).Text(language))
		return nil
	}
	return t.sendTurn(
		ctx, chatID, language, workspace, func(ctx context.Context) (model.Message, error) {
			return workspace.Chat.SendUserTurn(ctx, text, attachment)
		},
	)
}

func (t *TelegramUsecase) handleCommand(
	ctx context.Context,
	msg *api.Message,
	workspace *Workspace,
	language local.Language,
) error {
	chatID := msg.Chat.ID
	args := strings.TrimSpace(msg.CommandArguments())

	switch msg.Command() {
	case CommandStart:
		t.sendMessageAndHandleErr(chatID, t.welcome)
		t.sendExamples(chatID, language)
		if !workspace.Settings.HasCredential() {
			t.sendMessageAndHandleErr(chatID, MessageMissingCredential.Text(language))
		}
	case CommandHelp:
		t.sendMessageAndHandleErr(chatID, MessageCommandHelp.Text(language))
	case CommandNew:
		if err := workspace.Chat.StartNew(ctx); err != nil {
			return t.handleTurnError(chatID, language, err)
		}
		t.sendMessageAndHandleErr(chatID, MessageNewSession.Text(language))
	case CommandHistory:
		t.sendHistory(chatID, language, workspace)
	case CommandLoad:
		n, err := strconv.Atoi(args)
		archive := workspace.Conversation.Archive()
		if err != nil || n < 1 || n > len(archive) {
			t.sendMessageAndHandleErr(chatID, MessageLoadUsage.Text(language))
			return nil
		}
		return t.loadSession(ctx, chatID, language, workspace, archive[n-1].ID)
	case CommandClear:
		if err := workspace.Conversation.ClearArchive(ctx); err != nil {
			t.sendMessageAndHandleErr(chatID, MessageServerError.Text(language))
			return fmt.Errorf("failed to clear archive: %w", err)
		}
		t.sendMessageAndHandleErr(chatID, MessageHistoryCleared.Text(language))
	case CommandKey:
		if _, err := t.Bot.Request(api.NewDeleteMessage(chatID, msg.MessageID)); err != nil {
			t.Logger.WithError(err).Warn("failed to delete credential message")
		}
		if err := workspace.Settings.SetCredential(ctx, args); err != nil {
			if errors.Is(err, model.ErrMissingCredential) {
				t.sendMessageAndHandleErr(chatID, MessageMissingCredential.Text(language))
				return nil
			}
			t.sendMessageAndHandleErr(chatID, MessageServerError.Text(language))
			return fmt.Errorf("failed to save credential: %w", err)
		}
		t.sendMessageAndHandleErr(chatID, MessageCredentialSaved.Text(language))
	case CommandVehicle:
		if args == "" {
			return t.sendVehicleKeyboard(chatID, language)
		}
		return t.selectVehicle(ctx, chatID, language, workspace, args)
	case CommandPrompts:
		return t.sendQuickPrompts(chatID, language, workspace)
	case CommandCode:
		if args == "" {
			t.sendMessageAndHandleErr(chatID, MessageLookupUsage.Text(language))
			return nil
		}
		return t.sendLookup(chatID, language, args)
	case CommandTools:
		if args == "" {
			t.sendMessageAndHandleErr(chatID, MessageToolsUsage.Text(language))
			return nil
		}
		tools := t.Advisor.SuggestTools(args)
		if len(tools) == 0 {
			t.sendMessageAndHandleErr(chatID, MessageNoTools.Text(language))
			return nil
		}
		t.sendMessageAndHandleErr(chatID, formatTools(tools, language))
	case CommandTip:
		tip := t.Advisor.Tip(int(t.tipCounter.Add(1) - 1))
		if tip != "" {
			t.sendMessageAndHandleErr(chatID, MessageTipFormat.Format(language, tip))
		}
	default:
		t.sendMessageAndHandleErr(chatID, MessageCommandUnknown.Text(language))
	}
	return nil
}

func (t *TelegramUsecase) handleCallbackQuery(ctx context.Context, query *api.CallbackQuery) error {
	if _, err := t.Bot.Request(api.NewCallback(query.ID, "")); err != nil {
		return fmt.Errorf("failed to request callback: %w", err)
	}
	if query.Message == nil {
		return nil
	}
	chatID := query.Message.Chat.ID
	language := local.Eng
	if query.From != nil {
		language = local.ParseLanguage(query.From.LanguageCode)
	}
	ctx = local.WithLanguage(ctx, language)
	workspace := t.workspace(ctx, chatID)

	kind, payload := parseCallbackData(query.Data)
	switch kind {
	case callbackRepair:
		actionRaw, messageID, _ := strings.Cut(payload, ":")
		action, err := ParseRepairAction(actionRaw)
		if err != nil {
			return err
		}
		return t.sendTurn(
			ctx, chatID, language, workspace, func(ctx context.Context) (model.Message, error) {
				return workspace.Chat.Repair(ctx, messageID, action)
			},
		)
	case callbackLoad:
		sessionID, err := uuid.Parse(payload)
		if err != nil {
			return fmt.Errorf("failed to parse session id %s: %w", payload, err)
		}
		return t.loadSession(ctx, chatID, language, workspace, sessionID)
	case callbackVehicle:
		vehicles := t.Advisor.Vehicles()
		i, err := strconv.Atoi(payload)
		if err != nil || i < 0 || i >= len(vehicles) {
			return fmt.Errorf("bad vehicle callback %q", payload)
		}
		return t.selectVehicle(ctx, chatID, language, workspace, vehicles[i])
	case callbackPrompt, callbackExample:
		var text string
		var ok bool
		if kind == callbackPrompt {
			text, ok = resolveQuickPrompt(t.Advisor, payload)
		} else {
			text, ok = resolveOption(t.Advisor.Examples(), payload)
		}
		if !ok {
			return fmt.Errorf("bad %s callback %q", kind, payload)
		}
		return t.sendTurn(
			ctx, chatID, language, workspace, func(ctx context.Context) (model.Message, error) {
				return workspace.Chat.SendUserTurn(ctx, text, nil)
			},
		)
	case callbackLookup:
		record, ok := t.ErrorCodes.Resolve(payload)
		if !ok {
			t.sendMessageAndHandleErr(chatID, MessageNoResultsFormat.Format(language, payload))
			return nil
		}
		return t.sendTurn(
			ctx, chatID, language, workspace, func(ctx context.Context) (model.Message, error) {
				return workspace.Chat.SendLookupToChat(ctx, record)
			},
		)
	default:
		return fmt.Errorf("unknown callback %q", query.Data)
	}
}

// sendTurn runs one controller call while keeping the typing indicator alive, then renders the reply.
func (t *TelegramUsecase) sendTurn(
	ctx context.Context,
	chatID int64,
	language local.Language,
	workspace *Workspace,
	turn func(ctx context.Context) (model.Message, error),
) error {
	done := make(chan struct{})
	var reply model.Message
	var err error

	wg := conc.NewWaitGroup()
	wg.Go(
		func() {
			defer close(done)
			reply, err = turn(ctx)
		},
	)
	wg.Go(
		func() {
			ticker := time.NewTicker(typingInterval)
			defer ticker.Stop()
			for {
				if _, err := t.Bot.Request(api.NewChatAction(chatID, api.ChatTyping)); err != nil {
					t.Logger.WithError(err).Debug("failed to send typing action")
				}
				select {
				case <-done:
					return
				case <-ticker.C:
				}
			}
		},
	)
	wg.Wait()

	if err != nil {
		return t.handleTurnError(chatID, language, err)
	}
	if reply.ID == "" {
		return nil
	}
	return t.sendReply(chatID, language, workspace, reply)
}

func (t *TelegramUsecase) handleTurnError(chatID int64, language local.Language, err error) error {
	switch {
	case errors.Is(err, model.ErrEmptyTurn):
		return nil
	case errors.Is(err, model.ErrMissingCredential):
		t.sendMessageAndHandleErr(chatID, MessageMissingCredential.Text(language))
		return nil
	case errors.Is(err, model.ErrRequestInFlight):
		t.sendMessageAndHandleErr(chatID, MessageStillWorking.Text(language))
		return nil
	case errors.Is(err, model.ErrAttachmentTooLarge):
		t.sendMessageAndHandleErr(chatID, MessageAttachmentTooLarge.Text(language))
		return nil
	case errors.Is(err, model.ErrRepairNotApplicable):
		t.sendMessageAndHandleErr(chatID, MessageRepairNotApplicable.Text(language))
		return nil
	default:
		t.sendMessageAndHandleErr(chatID, MessageServerError.Text(language))
		return err
	}
}

func (t *TelegramUsecase) sendReply(chatID int64, language local.Language, workspace *Workspace, reply model.Message) error {
	text := decorateReply(t.Advisor, workspace.Settings.VehicleProfile(), reply.Content, language)
	chunks := chunkText(text, maxMessageLength)
	for i, chunk := range chunks {
		msg := api.NewMessage(chatID, chunk)
		if i == len(chunks)-1 {
			msg.ReplyMarkup = repairKeyboard(reply.ID, language)
		}
		if _, err := t.sendToBot(msg); err != nil {
			return fmt.Errorf("failed to send reply to bot: %w", err)
		}
	}
	return nil
}

func (t *TelegramUsecase) loadSession(
	ctx context.Context,
	chatID int64,
	language local.Language,
	workspace *Workspace,
	sessionID uuid.UUID,
) error {
	if err := workspace.Chat.Load(ctx, sessionID); err != nil {
		if errors.Is(err, model.ErrSessionNotFound) {
			t.sendMessageAndHandleErr(chatID, MessageLoadUsage.Text(language))
			return nil
		}
		return t.handleTurnError(chatID, language, err)
	}
	session := workspace.Conversation.Active()
	t.sendMessageAndHandleErr(chatID, MessageSessionLoadedFormat.Format(language, session.Title()))
	for i := len(session.Messages) - 1; i >= 0; i-- {
		msg := session.Messages[i]
		if msg.Role == model.MessageRoleAssistant && !msg.IsWelcome() {
			return t.sendReply(chatID, language, workspace, msg)
		}
	}
	return nil
}

func (t *TelegramUsecase) selectVehicle(
	ctx context.Context,
	chatID int64,
	language local.Language,
	workspace *Workspace,
	vehicle string,
) error {
	if err := workspace.Settings.SetVehicleProfile(ctx, vehicle); err != nil {
		if errors.Is(err, model.ErrUnknownVehicle) {
			t.sendMessageAndHandleErr(chatID, MessageUnknownVehicle.Text(language))
			return nil
		}
		t.sendMessageAndHandleErr(chatID, MessageServerError.Text(language))
		return fmt.Errorf("failed to save vehicle profile: %w", err)
	}
	t.sendMessageAndHandleErr(chatID, MessageVehicleSelectedFormat.Format(language, vehicle))
	return t.sendQuickPrompts(chatID, language, workspace)
}

func (t *TelegramUsecase) sendHistory(chatID int64, language local.Language, workspace *Workspace) {
	archive := workspace.Conversation.Archive()
	if len(archive) == 0 {
		t.sendMessageAndHandleErr(chatID, MessageHistoryEmpty.Text(language))
		return
	}
	result := strings.Builder{}
	result.WriteString(MessageHistoryHeader.Text(language))
	buttons := make([]api.InlineKeyboardButton, 0, len(archive))
	for i, session := range archive {
		result.WriteString(fmt.Sprintf("\n%v) %s (%s)", i+1, session.Title(), session.CreatedAt.Format("2006-01-02")))
		buttons = append(
			buttons, api.NewInlineKeyboardButtonData(strconv.Itoa(i+1), callbackData(callbackLoad, session.ID.String())),
		)
	}
	msg := api.NewMessage(chatID, result.String())
	msg.ReplyMarkup = buildKeyboard(buttons, 5)
	if _, err := t.sendToBot(msg); err != nil {
		t.Logger.WithError(err).Error("failed to send history")
	}
}

func (t *TelegramUsecase) sendVehicleKeyboard(chatID int64, language local.Language) error {
	vehicles := t.Advisor.Vehicles()
	buttons := make([]api.InlineKeyboardButton, 0, len(vehicles))
	for i, vehicle := range vehicles {
		buttons = append(buttons, api.NewInlineKeyboardButtonData(vehicle, callbackData(callbackVehicle, strconv.Itoa(i))))
	}
	msg := api.NewMessage(chatID, MessageSelectVehicle.Text(language))
	msg.ReplyMarkup = buildKeyboard(buttons, 2)
	if _, err := t.sendToBot(msg); err != nil {
		return fmt.Errorf("failed to send vehicle keyboard: %w", err)
	}
	return nil
}

func (t *TelegramUsecase) sendQuickPrompts(chatID int64, language local.Language, workspace *Workspace) error {
	vehicle := workspace.Settings.VehicleProfile()
	prompts := t.Advisor.QuickPrompts(vehicle)
	vehicleIndex := slices.Index(t.Advisor.Vehicles(), vehicle)
	if len(prompts) == 0 || vehicleIndex < 0 {
		t.sendMessageAndHandleErr(chatID, MessageSelectVehicleFirst.Text(language))
		return nil
	}
	// The buttons name their vehicle so an old keyboard still sends its own prompt.
	return t.sendOptions(
		chatID, MessageQuickPrompts.Text(language), callbackPrompt, prompts, func(i int) string {
			return quickPromptPayload(vehicleIndex, i)
		},
	)
}

func (t *TelegramUsecase) sendExamples(chatID int64, language local.Language) {
	examples := t.Advisor.Examples()
	if len(examples) == 0 {
		return
	}
	if err := t.sendOptions(chatID, MessageExamplesHeader.Text(language), callbackExample, examples, strconv.Itoa); err != nil {
		t.Logger.WithError(err).Error("failed to send examples")
	}
}

func (t *TelegramUsecase) sendOptions(
	chatID int64,
	header, kind string,
	options []string,
	payload func(i int) string,
) error {
	buttons := make([]api.InlineKeyboardButton, 0, len(options))
	for i, option := range options {
		buttons = append(buttons, api.NewInlineKeyboardButtonData(option, callbackData(kind, payload(i))))
	}
	msg := api.NewMessage(chatID, header)
	msg.ReplyMarkup = buildKeyboard(buttons, 1)
	if _, err := t.sendToBot(msg); err != nil {
		return fmt.Errorf("failed to send %s options: %w", kind, err)
	}
	return nil
}

func (t *TelegramUsecase) sendLookup(chatID int64, language local.Language, query string) error {
	record, ok := t.ErrorCodes.Resolve(query)
	if !ok {
		t.sendMessageAndHandleErr(chatID, MessageNoResultsFormat.Format(language, query))
		return nil
	}
	msg := api.NewMessage(chatID, formatErrorRecord(record))
	data := callbackData(callbackLookup, strings.ToLower(strings.TrimSpace(query)))
	if len(data) <= maxCallbackDataLength {
		msg.ReplyMarkup = api.NewInlineKeyboardMarkup(
			[]api.InlineKeyboardButton{api.NewInlineKeyboardButtonData(MessageSendLookupToChat.Text(language), data)},
		)
	}
	if _, err := t.sendToBot(msg); err != nil {
		return fmt.Errorf("failed to send lookup result: %w", err)
	}
	return nil
}

func (t *TelegramUsecase) readAttachment(ctx context.Context, msg *api.Message) (*model.Attachment, error) {
	var fileID, name, mimeType string
	var size int64
	switch {
	case len(msg.Photo) > 0:
		photo := msg.Photo[len(msg.Photo)-1]
		fileID, name, mimeType, size = photo.FileID, photo.FileUniqueID+".jpg", "image/jpeg", int64(photo.FileSize)
	case msg.Document != nil && strings.HasPrefix(msg.Document.MimeType, "image/"):
		document := msg.Document
		fileID, name, mimeType, size = document.FileID, document.FileName, document.MimeType, int64(document.FileSize)
	default:
		return nil, nil
	}
	if err := model.CheckAttachmentSize(size); err != nil {
		return nil, err
	}

	fileURL, err := t.Bot.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to get file url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create file request: %w", err)
	}
	resp, err := t.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download file: status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, model.MaxAttachmentSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if err = model.CheckAttachmentSize(int64(len(data))); err != nil {
		return nil, err
	}
	return &model.Attachment{
		Name:     name,
		MimeType: mimeType,
		Data:     data,
	}, nil
}

func (t *TelegramUsecase) sendMessageAndHandleErr(chatID int64, message string) api.Message {
	msg, err := t.sendMessage(chatID, message)
	if err != nil {
		t.Logger.WithError(err).Error("failed to send new message to bot")
	}
	return msg
}

func (t *TelegramUsecase) sendMessage(chatID int64, message string) (api.Message, error) {
	return t.sendToBot(api.NewMessage(chatID, message))
}

func (t *TelegramUsecase) sendToBot(c api.Chattable) (api.Message, error) {
	return t.Bot.Send(c)
}

func getTelegramOwner(chatID int64) string {
	return fmt.Sprintf("tg_%d", chatID)
}

func callbackData(kind, payload string) string {
	return kind + ":" + payload
}

func parseCallbackData(data string) (string, string) {
	kind, payload, _ := strings.Cut(data, ":")
	return kind, payload
}

func quickPromptPayload(vehicleIndex, promptIndex int) string {
	return strconv.Itoa(vehicleIndex) + ":" + strconv.Itoa(promptIndex)
}

// resolveQuickPrompt looks a prompt up by the vehicle encoded in the payload, not the current profile.
func resolveQuickPrompt(advisor *AdvisorUsecase, payload string) (string, bool) {
	vehicleRaw, promptRaw, found := strings.Cut(payload, ":")
	if !found {
		return "", false
	}
	vehicles := advisor.Vehicles()
	vehicleIndex, err := strconv.Atoi(vehicleRaw)
	if err != nil || vehicleIndex < 0 || vehicleIndex >= len(vehicles) {
		return "", false
	}
	return resolveOption(advisor.QuickPrompts(vehicles[vehicleIndex]), promptRaw)
}

func resolveOption(options []string, payload string) (string, bool) {
	i, err := strconv.Atoi(payload)
	if err != nil || i < 0 || i >= len(options) {
		return "", false
	}
	return options[i], true
}

// emptyTurnNotice explains why a message carried nothing to send, such as a sticker or a non-image file.
func emptyTurnNotice(msg *api.Message) local.TextSet {
	if msg.Document != nil {
		return MessageAttachmentUnreadable
	}
	return MessageCommandHelp
}

func repairKeyboard(messageID string, language local.Language) api.InlineKeyboardMarkup {
	return buildKeyboard(
		[]api.InlineKeyboardButton{
			api.NewInlineKeyboardButtonData(
				ButtonRepairWorked.Text(language), callbackData(callbackRepair, string(RepairActionWorked)+":"+messageID),
			),
			api.NewInlineKeyboardButtonData(
				ButtonRepairDidntHelp.Text(language),
				callbackData(callbackRepair, string(RepairActionDidntHelp)+":"+messageID),
			),
			api.NewInlineKeyboardButtonData(
				ButtonRepairSendPhoto.Text(language),
				callbackData(callbackRepair, string(RepairActionSendPhoto)+":"+messageID),
			),
		}, 1,
	)
}

func buildKeyboard(buttons []api.InlineKeyboardButton, maxButtonsInRow int) api.InlineKeyboardMarkup {
	inlineRows := make([][]api.InlineKeyboardButton, 0)
	inlineButtons := make([]api.InlineKeyboardButton, 0)
	for _, button := range buttons {
		if len(inlineButtons) >= maxButtonsInRow {
			inlineRows = append(inlineRows, inlineButtons)
			inlineButtons = make([]api.InlineKeyboardButton, 0)
		}
		inlineButtons = append(inlineButtons, button)
	}
	if len(inlineButtons) > 0 {
		inlineRows = append(inlineRows, inlineButtons)
	}
	return api.NewInlineKeyboardMarkup(inlineRows...)
}

func decorateReply(advisor *AdvisorUsecase, vehicle, content string, language local.Language) string {
	result := strings.Builder{}
	result.WriteString(content)
	if advisor.IsKnownIssue(vehicle, content) {
		result.WriteString("\n\n")
		result.WriteString(MessageKnownIssue.Text(language))
	}
	if tools := advisor.SuggestTools(content); len(tools) > 0 {
		result.WriteString("\n\n")
		result.WriteString(formatTools(tools, language))
	}
	return result.String()
}

func formatTools(tools []string, language local.Language) string {
	return MessageToolsHeader.Text(language) + " " + strings.Join(tools, ", ")
}

func formatErrorRecord(record model.ErrorRecord) string {
	result := strings.Builder{}
	result.WriteString(fmt.Sprintf("%s (%s)\n", record.Issue, record.Difficulty))
	result.WriteString(fmt.Sprintf("🔧 Fix: %s", record.Fix))
	if len(record.PartsNeeded) > 0 {
		result.WriteString(fmt.Sprintf("\n📦 Parts needed: %s", strings.Join(record.PartsNeeded, ", ")))
	}
	if record.Caution != "" {
		result.WriteString(fmt.Sprintf("\n⚠️ Caution: %s", record.Caution))
	}
	return result.String()
}

// chunkText splits text into pieces of at most limit runes, preferring line breaks.
func chunkText(text string, limit int) []string {
	if utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}
	chunks := make([]string, 0)
	runes := []rune(text)
	for len(runes) > limit {
		cut := limit
		for i := limit; i > limit/2; i-- {
			if runes[i-1] == '\n' {
				cut = i
				break
			}
		}
		chunks = append(chunks, string(runes[:cut]))
		runes = runes[cut:]
	}
	if len(runes) > 0 {
		chunks = append(chunks, string(runes))
	}
	return chunks
}
