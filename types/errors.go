package types

// InvalidStateError rejects an operation the target's current state does not
// allow. HTTP handlers map it to a 400 response with the message as detail.
type InvalidStateError string

func (e InvalidStateError) Error() string { return string(e) }
