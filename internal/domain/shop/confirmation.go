package shop

// ConfirmationState is the poller-facing state of an order confirmation check
type ConfirmationState string

const (
	// ConfirmationLoading is the initial state before the first poll resolves
	ConfirmationLoading ConfirmationState = "LOADING"
	// ConfirmationConfirmed is terminal; polling stops once it is reached
	ConfirmationConfirmed ConfirmationState = "CONFIRMED"
	// ConfirmationPending means the backend answered but the order is not
	// confirmed yet; polling continues
	ConfirmationPending ConfirmationState = "PENDING"
	// ConfirmationError means the last poll failed; polling continues and the
	// order is treated as not yet confirmed for display purposes
	ConfirmationError ConfirmationState = "ERROR"
)

// ConfirmationStatus is the published output of a confirmation poller
type ConfirmationStatus struct {
	State   ConfirmationState `json:"state"`
	Message string            `json:"message,omitempty"`
}

// Confirmed reports whether polling has reached its terminal state
func (s ConfirmationStatus) Confirmed() bool {
	return s.State == ConfirmationConfirmed
}

// DisplayPending reports whether the UI should render the order as awaiting
// confirmation. Error states read as pending with an inline message.
func (s ConfirmationStatus) DisplayPending() bool {
	return s.State == ConfirmationPending || s.State == ConfirmationError
}
