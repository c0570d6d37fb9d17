package usecase

import "github.com/iamvkosarev/repair-chat-bot/pkg/local"

var (
	MessageServerError = local.NewSet(
		"Something went wrong on my side. Try again later.",
		local.NewTrans(local.Rus, "Что-то пошло не так. Попробуйте позже."),
	)
	MessageMissingCredential = local.NewSet(
		"An OpenAI API key is required. Send it with /key sk-... (get one at https://platform.openai.com/api-keys). "+
			"The key is kept only in this bot's storage.",
		local.NewTrans(
			local.Rus,
			"Нужен ключ OpenAI API. Отправьте его командой /key sk-... (https://platform.openai.com/api-keys).",
		),
	)
	MessageCredentialSaved = local.NewSet(
		"API key saved. Your message with the key was removed from the chat.",
		local.NewTrans(local.Rus, "Ключ сохранён. Сообщение с ключом удалено из чата."),
	)
	MessageStillWorking = local.NewSet(
		"I'm still working on your previous question, please wait.",
		local.NewTrans(local.Rus, "Я ещё отвечаю на предыдущий вопрос, подождите."),
	)
	MessageAttachmentTooLarge = local.NewSet(
		"Image size must be less than 10MB.",
		local.NewTrans(local.Rus, "Размер изображения должен быть меньше 10 МБ."),
	)
	MessageAttachmentUnreadable = local.NewSet(
		"I couldn't read that image. Please send it again as a photo.",
		local.NewTrans(local.Rus, "Не удалось прочитать изображение. Отправьте его ещё раз как фото."),
	)
	MessageRequestPhoto = local.NewSet(
		"📷 Send me a photo of the problem (up to 10MB). You can add a caption with details.",
		local.NewTrans(local.Rus, "📷 Пришлите фото проблемы (до 10 МБ). Можно добавить подпись."),
	)
	MessageRepairNotApplicable = local.NewSet(
		"That reply is no longer part of the current conversation.",
		local.NewTrans(local.Rus, "Этот ответ больше не относится к текущему разговору."),
	)
	MessageNewSession = local.NewSet(
		"Started a new conversation.",
		local.NewTrans(local.Rus, "Начат новый разговор."),
	)
	MessageHistoryEmpty = local.NewSet(
		"No previous conversations yet.",
		local.NewTrans(local.Rus, "Предыдущих разговоров пока нет."),
	)
	MessageHistoryHeader = local.NewSet(
		"Recent conversations:",
		local.NewTrans(local.Rus, "Недавние разговоры:"),
	)
	MessageHistoryCleared = local.NewSet(
		"Conversation history cleared.",
		local.NewTrans(local.Rus, "История разговоров очищена."),
	)
	MessageSessionLoadedFormat = local.NewSet(
		"Continuing: %s",
		local.NewTrans(local.Rus, "Продолжаем: %s"),
	)
	MessageLoadUsage = local.NewSet(
		"Use /load <number> with a number from /history.",
		local.NewTrans(local.Rus, "Используйте /load <номер> с номером из /history."),
	)
	MessageSelectVehicle = local.NewSet(
		"Select your model for personalized advice:",
		local.NewTrans(local.Rus, "Выберите модель для персональных советов:"),
	)
	MessageVehicleSelectedFormat = local.NewSet(
		"Model set to %s.",
		local.NewTrans(local.Rus, "Модель: %s."),
	)
	MessageUnknownVehicle = local.NewSet(
		"I don't know that model. Use /vehicle to pick one from the list.",
		local.NewTrans(local.Rus, "Неизвестная модель. Выберите её через /vehicle."),
	)
	MessageSelectVehicleFirst = local.NewSet(
		"Pick your model with /vehicle to get quick prompts.",
		local.NewTrans(local.Rus, "Выберите модель через /vehicle, чтобы получить подсказки."),
	)
	MessageQuickPrompts = local.NewSet(
		"Quick prompts:",
		local.NewTrans(local.Rus, "Быстрые вопросы:"),
	)
	MessageLookupUsage = local.NewSet(
		"Use /code <error code or symptom>, e.g. /code E07 or /code motor whines.",
		local.NewTrans(local.Rus, "Используйте /code <код или симптом>, например /code E07."),
	)
	MessageNoResultsFormat = local.NewSet(
		"No results found for %q. Try a common error code or a symptom like \"motor whines\" or \"battery not charging\".",
		local.NewTrans(local.Rus, "Ничего не найдено по %q. Попробуйте код ошибки или симптом."),
	)
	MessageSendLookupToChat = local.NewSet(
		"Send to chat for more help",
		local.NewTrans(local.Rus, "Спросить в чате"),
	)
	MessageToolsUsage = local.NewSet(
		"Use /tools <what you are fixing>, e.g. /tools replace brake pads.",
		local.NewTrans(local.Rus, "Используйте /tools <что чините>."),
	)
	MessageNoTools = local.NewSet(
		"No specific tools found for that.",
		local.NewTrans(local.Rus, "Подходящих инструментов не найдено."),
	)
	MessageToolsHeader = local.NewSet(
		"🔩 Tools you'll need:",
		local.NewTrans(local.Rus, "🔩 Понадобятся инструменты:"),
	)
	MessageKnownIssue = local.NewSet(
		"⚠️ This is a known issue on this model. Here's what users have tried...",
		local.NewTrans(local.Rus, "⚠️ Это известная проблема этой модели. Вот что пробовали другие..."),
	)
	MessageTipFormat = local.NewSet(
		"💡 Tip: %s",
		local.NewTrans(local.Rus, "💡 Совет: %s"),
	)
	MessageExamplesHeader = local.NewSet(
		"Try one of these:",
		local.NewTrans(local.Rus, "Попробуйте спросить:"),
	)
	MessageCommandHelp = local.NewSet(
		"Describe the problem or send a photo.\n"+
			"/new - start a new conversation\n"+
			"/history - recent conversations\n"+
			"/load <n> - continue a conversation\n"+
			"/clear - clear history\n"+
			"/vehicle - choose your model\n"+
			"/prompts - quick prompts for your model\n"+
			"/code <code> - decode an error code or symptom\n"+
			"/tools <text> - tools for a repair\n"+
			"/tip - maintenance tip\n"+
			"/key <key> - set your OpenAI API key",
	)
	MessageCommandUnknown = local.NewSet(
		"I don't know that command. See /help.",
		local.NewTrans(local.Rus, "Неизвестная команда. Смотрите /help."),
	)
	ButtonRepairWorked = local.NewSet(
		"✅ That worked!",
		local.NewTrans(local.Rus, "✅ Помогло!"),
	)
	ButtonRepairDidntHelp = local.NewSet(
		"🔁 Didn't help, show next step",
		local.NewTrans(local.Rus, "🔁 Не помогло, дальше"),
	)
	ButtonRepairSendPhoto = local.NewSet(
		"📷 Want to send photo",
		local.NewTrans(local.Rus, "📷 Отправить фото"),
	)
)
