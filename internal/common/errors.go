package common

import "errors"

// Error taxonomy shared by the decoders and the CLI. Decode and validation
// failures are reported per device, never fatal to the whole run.
var (
	ErrDeviceUnreadable = errors.New("device unreadable")
	ErrInvalidSignature = errors.New("invalid boot sector signature")
	ErrInvalidGPTHeader = errors.New("invalid GPT header")
)
