package services

// User-facing texts. Content authored by the operator lives in the content
// tables; these are the fixed system messages.
const (
	TextApology          = "⚠️ Сталася помилка. Спробуй пізніше."
	TextQuestionFailed   = "⚠️ Сталася помилка з питанням."
	TextContentFailed    = "⚠️ Сталася помилка при отриманні контенту. Спробуй пізніше."
	TextPhotoFailed      = "⚠️ Не вдалося надіслати фото"
	TextVideoNoteInvalid = "⚠️ Не вдалося відтворити відео-кружечок."
	TextTooFast          = "⏳ Не так швидко"

	TextStartGameButton = "🕵️‍♀️ Дослідити архетип"
	TextQuestionNoPhoto = "❗️ Фото до питання відсутнє."
	TextQuestionPrompt  = "🧠 Обери той варіант, який тобі найближчий:"
	TextChosenAnswer    = "%s Обрана відповідь:\n<b>%s</b>"
	TextOptionFallback  = "Варіант №%d"

	TextResultDivider   = "🧼 ~ ~ ~ ~ ~ ~ ~ ~ ~ ~ ~ ~ ~ ~ ~ ~ ~ ~"
	TextResultNotFound  = "⚠️ Результат не знайдено."
	TextResultCTA       = "Архетип — це тільки вершина айсберга.\nСправжні трансформації починаються після розбору.\n💬 Натисни, щоб отримати його ⬇️"
	TextResultCTAButton = "🔍 Отримати мій розбір архетипу"

	TextScreenshotReceived = "✅ Скріншот отримано. Очікуй підтвердження."
	TextNotPending         = "⚠️ Схоже, що ти ще не натискала кнопку \"Приєднатись до кімнати\". Спробуй спочатку її."
	TextPaymentApproved    = "✨ Все зійшлося! Скоро буде продовження — чекай мій меседж 💬"
	TextPaymentRejected    = "⛔️ Скрін не пройшов перевірку. Спробуй ще раз або напиши нам."

	TextStickerID  = "🎭 Отримано file_id стікера:\n\n%s"
	TextAudioID    = "🎧 Отримано file_id звуку:\n\n%s"
	TextDocumentID = "📎 Отримано PDF файл!\n\n%s"
)

// Admin-facing texts.
const (
	AdminResultNotice      = "📊 Користувач %s отримав результат <b>%d</b>"
	AdminPaymentStarted    = "💳 Клієнт %s перейшов до оплати"
	AdminScreenshotCaption = "📸 Новий скріншот від %s\n%s"
	AdminApproveButton     = "✅ Підтвердити"
	AdminRejectButton      = "⛔️ Відхилити"
	AdminApproved          = "✅ Оплату підтверджено для %s (%s)"
	AdminRejected          = "❌ Оплату відхилено для користувача %s (%s)"
	AdminDuplicateAction   = "⚠️ Повторна дія або запис уже видалено."
)

// answerIcons decorate the answer acknowledgement.
var answerIcons = []string{"💄", "🧺", "🍷", "🧁", "🪴", "👠", "🧽"}
