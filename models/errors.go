package models

import "errors"

// Sentinel errors for the vvw pipeline. Orchestration composes these with
// contextual path/parameter information; nothing here is retried
// automatically and a partial output is never surfaced as success.
var (
	ErrInputNotFound          = errors.New("carrier file not found")
	ErrInputNotWav            = errors.New("carrier is not a valid RIFF/WAVE file")
	ErrUnsupportedSampleFormat = errors.New("carrier uses an unsupported sample format (float PCM is rejected)")
	ErrInvalidParameter       = errors.New("invalid parameter")
	ErrCapacityExceeded       = errors.New("payload exceeds carrier capacity")
	ErrCorruptData            = errors.New("embedded data is corrupt or truncated")
	ErrCryptoMissingCredential = errors.New("operation requires a passphrase or key that was not provided")
	ErrDecryptionFailed       = errors.New("decryption failed")
	ErrSignatureInvalid       = errors.New("signature verification failed")
	ErrNoEmbeddedData         = errors.New("no embedded data found in carrier")
	ErrIO                     = errors.New("filesystem failure")

	// Narrower errors retained for the aux-chunk path, where a more
	// specific cause is useful alongside the kind above.
	ErrNotFound  = errors.New("auxiliary chunk not present")
	ErrCorrupt   = errors.New("RIFF container is malformed")
	ErrNotWav    = errors.New("missing RIFF/WAVE magic")
)
