package quiz

import "errors"

var (
	// ErrInvalidSection is returned when selection is requested against an
	// absent or empty section.
	ErrInvalidSection = errors.New("section is missing or empty")

	// ErrInvalidTransition is returned when a state-machine operation is
	// invoked in a state that forbids it. The operation must not have
	// mutated any session state.
	ErrInvalidTransition = errors.New("invalid session transition")

	// ErrAlreadyAnswered is returned when a question that already carries an
	// answer is answered again without an intervening Clear. The second
	// answer is ignored, never double-counted.
	ErrAlreadyAnswered = errors.New("question already answered")

	// ErrIndexOutOfRange is returned by navigation to a position outside the
	// session's question sequence.
	ErrIndexOutOfRange = errors.New("question index out of range")

	// ErrAlreadyAssembled is returned when a session's submission records
	// are requested more than once.
	ErrAlreadyAssembled = errors.New("session already assembled")
)
