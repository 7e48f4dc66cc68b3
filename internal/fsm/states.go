package fsm

const (
	QuizNotStarted = "not_started"
	QuizInProgress = "in_progress"
	QuizFinished   = "finished"
)

// Callback data understood by the dispatcher. Parameterized callbacks are
// built as <prefix>_<args...>.
const (
	CallbackStartGame         = "start_game"
	CallbackAfterPayment      = "after_payment_1"
	CallbackStartPaymentFlow  = "start_payment_flow"
	CallbackStartSubscription = "start_subscription"

	PrefixAnswer  = "answer"
	PrefixApprove = "approve"
	PrefixReject  = "reject"
)
