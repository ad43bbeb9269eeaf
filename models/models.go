package models

// EmbedMethod selects which steganographic channel carries the container.
type EmbedMethod int

const (
	MethodLSB EmbedMethod = iota
	MethodAuxChunk
)

// IsValid reports whether m is a recognized embedding method.
func (m EmbedMethod) IsValid() bool {
	return m == MethodLSB || m == MethodAuxChunk
}

func (m EmbedMethod) String() string {
	switch m {
	case MethodLSB:
		return "lsb"
	case MethodAuxChunk:
		return "aux-chunk"
	default:
		return "unknown"
	}
}

// ChannelMask selects which interleaved PCM channels are eligible for LSB
// embedding.
type ChannelMask int

const (
	ChannelBoth ChannelMask = iota
	ChannelLeft
	ChannelRight
)

func (c ChannelMask) IsValid() bool {
	return c == ChannelBoth || c == ChannelLeft || c == ChannelRight
}

// EncryptionMode selects which envelope, if any, wraps the payload.
type EncryptionMode int

const (
	EncryptionNone EncryptionMode = iota
	EncryptionSymmetric
	EncryptionAsymmetric
)

// EncodeRequest describes one encode pipeline invocation:
// LoadCarrier -> BuildPayload -> ChooseEnvelope -> Encrypt? -> Sign? ->
// BuildContainer -> CheckCapacity -> EmbedViaMethod -> Write.
type EncodeRequest struct {
	CarrierPath string
	OutputPath  string

	Text      string
	AudioPath string

	Method  EmbedMethod
	Bits    int
	Channel ChannelMask

	Encryption  EncryptionMode
	Passphrase  string
	Recipients  [][]byte // X25519 public keys, one per recipient

	Sign       bool
	SigningKey []byte // 32-byte Ed25519 seed
}

// EncodeResult reports what an encode produced.
type EncodeResult struct {
	OutputPath     string
	Method         EmbedMethod
	ContainerBytes int
	PayloadBytes   int
	Signed         bool
	Encrypted      EncryptionMode
}

// DecodeRequest describes one decode pipeline invocation.
type DecodeRequest struct {
	CarrierPath string

	Bits    int
	Channel ChannelMask

	Passphrase string
	PrivateKey []byte // 64-byte raw (seed || kex_priv) private key material

	VerifyKey []byte // 32-byte Ed25519 public key, optional
}

// DecodeResult is the recovered payload plus provenance flags.
type DecodeResult struct {
	Text            string
	Audio           []byte
	Method          EmbedMethod
	SignatureValid  bool
	SignatureChecked bool
}

// InspectResult reports container metadata without ever decrypting the
// payload, matching the "inspect never raises DecryptionFailed" contract.
type InspectResult struct {
	Method          EmbedMethod
	HasText         bool
	HasAudio        bool
	Signed          bool
	SymEncrypted    bool
	AsymEncrypted   bool
	RecipientCount  int
	PayloadBytes    int
	TotalBytes      int
	SignatureFingerprint string // 12 lowercase hex chars, empty if unsigned
}

// CapacityReport mirrors the teacher's /capacity endpoint, generalized to
// the four LSB bit depths across each channel mask.
type CapacityReport struct {
	Bits1Both int `json:"bits1_both"`
	Bits2Both int `json:"bits2_both"`
	Bits3Both int `json:"bits3_both"`
	Bits4Both int `json:"bits4_both"`
	Bits1Left int `json:"bits1_left"`
	Bits2Left int `json:"bits2_left"`
	Bits3Left int `json:"bits3_left"`
	Bits4Left int `json:"bits4_left"`
	AuxChunk  int `json:"aux_chunk"`
}

// KeygenResult is returned by the keygen operation.
type KeygenResult struct {
	PrivatePath string
	PublicPath  string
	Fingerprint string
}
