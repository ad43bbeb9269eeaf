package handlers

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vvwio/vvw/models"
	"github.com/vvwio/vvw/service"
)

// Handlers holds the pipeline dependency shared by every route.
type Handlers struct {
	pipeline *service.Pipeline
}

// NewHandlers creates a new handlers instance wired to a pipeline.
func NewHandlers(pipeline *service.Pipeline) *Handlers {
	return &Handlers{pipeline: pipeline}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}

// errorResponse is the standardized JSON error body.
type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code"`
}

func sendError(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, errorResponse{Success: false, Error: message, Code: code})
}

// HealthHandler handles the health check endpoint
//
//	@Summary		Health Check
//	@Description	Returns the health status of the API service
//	@Tags			System
//	@Produce		json
//	@Success		200	{object}	HealthResponse	"Service is healthy"
//	@Router			/health [get]
func (h *Handlers) HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   "1.0.0",
	})
}

// CalculateCapacityHandler reports LSB payload capacity across bit depths
// and channel masks, plus the effectively unbounded aux-chunk capacity.
//
//	@Summary		Calculate audio embedding capacity
//	@Description	Reports how many payload bytes a carrier WAV can hold, for every LSB bit depth and channel mask, plus the aux-chunk channel.
//	@Tags			Steganography
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			audio	formData	file	true	"Carrier WAV file"
//	@Success		200		{object}	models.CapacityReport
//	@Failure		400		{object}	errorResponse
//	@Failure		500		{object}	errorResponse
//	@Router			/capacity [post]
func (h *Handlers) CalculateCapacityHandler(c *gin.Context) {
	requestID := requestIDFrom(c)
	log.Printf("[INFO] [%s] CalculateCapacityHandler: request from %s", requestID, c.ClientIP())

	carrierPath, cleanup, err := saveUpload(c, "audio")
	if err != nil {
		sendError(c, http.StatusBadRequest, "MISSING_FILE", err.Error())
		return
	}
	defer cleanup()

	report, err := h.pipeline.Stego.Capacity(carrierPath, 1, models.ChannelBoth)
	if err != nil {
		log.Printf("[ERROR] [%s] CalculateCapacityHandler: %v", requestID, err)
		sendError(c, http.StatusInternalServerError, "PROCESSING_ERROR", err.Error())
		return
	}

	c.JSON(http.StatusOK, report)
}

// EncodeHandler embeds a text and/or audio secret into a carrier WAV.
//
//	@Summary		Encode a secret into a carrier WAV
//	@Description	Embeds text and/or an audio-in-audio secret into the carrier via LSB or the auxiliary RIFF chunk, with optional encryption and signing.
//	@Tags			Steganography
//	@Accept			multipart/form-data
//	@Produce		audio/wav
//	@Param			audio			formData	file	true	"Carrier WAV file"
//	@Param			secret_audio	formData	file	false	"Audio-in-audio secret (48kHz mono/stereo WAV)"
//	@Param			text			formData	string	false	"Secret text"
//	@Param			method			formData	string	false	"lsb or aux-chunk (default lsb)"
//	@Param			bits			formData	int		false	"LSB bit depth 1-4 (default 1)"
//	@Param			channel			formData	string	false	"both, left, or right (default both)"
//	@Param			encryption		formData	string	false	"none, symmetric, or asymmetric (default none)"
//	@Param			passphrase		formData	string	false	"Passphrase for symmetric encryption"
//	@Param			recipients		formData	string	false	"Comma-separated hex X25519 public keys for asymmetric encryption"
//	@Param			sign			formData	bool	false	"Sign the envelope"
//	@Param			signing_key		formData	string	false	"Hex Ed25519 seed, required when sign=true"
//	@Success		200				{file}		binary	"Stego WAV file"
//	@Header			200				{string}	X-Embedding-Method	"lsb or aux-chunk"
//	@Header			200				{int}		X-Secret-Size		"payload size in bytes"
//	@Failure		400				{object}	errorResponse
//	@Failure		500				{object}	errorResponse
//	@Router			/encode [post]
func (h *Handlers) EncodeHandler(c *gin.Context) {
	startTime := time.Now()
	requestID := requestIDFrom(c)
	log.Printf("[INFO] [%s] EncodeHandler: request from %s", requestID, c.ClientIP())

	carrierPath, cleanup, err := saveUpload(c, "audio")
	if err != nil {
		sendError(c, http.StatusBadRequest, "MISSING_FILE", err.Error())
		return
	}
	defer cleanup()

	req := &models.EncodeRequest{
		CarrierPath: carrierPath,
		Text:        c.PostForm("text"),
		Method:      parseMethod(c.PostForm("method")),
		Bits:        parseIntDefault(c.PostForm("bits"), 1),
		Channel:     parseChannel(c.PostForm("channel")),
		Encryption:  parseEncryption(c.PostForm("encryption")),
		Passphrase:  c.PostForm("passphrase"),
		Sign:        c.PostForm("sign") == "true",
	}

	if secretPath, secretCleanup, err := saveUpload(c, "secret_audio"); err == nil {
		defer secretCleanup()
		req.AudioPath = secretPath
	}

	if recipients := c.PostForm("recipients"); recipients != "" {
		keys, err := decodeHexList(recipients)
		if err != nil {
			sendError(c, http.StatusBadRequest, "INVALID_RECIPIENTS", err.Error())
			return
		}
		req.Recipients = keys
	}

	if req.Sign {
		seed, err := hex.DecodeString(c.PostForm("signing_key"))
		if err != nil {
			sendError(c, http.StatusBadRequest, "INVALID_SIGNING_KEY", "signing_key must be hex-encoded")
			return
		}
		req.SigningKey = seed
	}

	outPath, outCleanup, err := tempOutputPath("stego-*.wav")
	if err != nil {
		sendError(c, http.StatusInternalServerError, "PROCESSING_ERROR", err.Error())
		return
	}
	defer outCleanup()
	req.OutputPath = outPath

	res, err := h.pipeline.Encode(req)
	if err != nil {
		log.Printf("[ERROR] [%s] EncodeHandler: %v", requestID, err)
		sendError(c, http.StatusBadRequest, "ENCODE_FAILED", err.Error())
		return
	}

	stego, err := os.ReadFile(res.OutputPath)
	if err != nil {
		sendError(c, http.StatusInternalServerError, "PROCESSING_ERROR", "failed to read stego output")
		return
	}

	processingTime := time.Since(startTime).Milliseconds()
	c.Header("Content-Disposition", `attachment; filename="stego.wav"`)
	c.Header("X-Embedding-Method", res.Method.String())
	c.Header("X-Secret-Size", strconv.Itoa(res.PayloadBytes))
	c.Header("X-Processing-Time", strconv.FormatInt(processingTime, 10))
	c.Data(http.StatusOK, "audio/wav", stego)
}

// DecodeHandler recovers a secret previously embedded by EncodeHandler.
//
//	@Summary		Decode a secret from a stego WAV
//	@Description	Auto-detects the aux-chunk or LSB channel, verifies a signature and/or decrypts if the envelope requires it, and returns the recovered payload.
//	@Tags			Steganography
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			stego_audio		formData	file	true	"Stego WAV file"
//	@Param			bits			formData	int		false	"LSB bit depth 1-4 (default 1)"
//	@Param			channel			formData	string	false	"both, left, or right (default both)"
//	@Param			passphrase		formData	string	false	"Passphrase, if the envelope is symmetric"
//	@Param			private_key		formData	string	false	"Hex 64-byte private identity, if the envelope is asymmetric"
//	@Param			verify_key		formData	string	false	"Hex Ed25519 public key, to verify a signature"
//	@Success		200				{object}	decodeResponse
//	@Failure		400				{object}	errorResponse
//	@Failure		500				{object}	errorResponse
//	@Router			/decode [post]
func (h *Handlers) DecodeHandler(c *gin.Context) {
	startTime := time.Now()
	requestID := requestIDFrom(c)
	log.Printf("[INFO] [%s] DecodeHandler: request from %s", requestID, c.ClientIP())

	stegoPath, cleanup, err := saveUpload(c, "stego_audio")
	if err != nil {
		sendError(c, http.StatusBadRequest, "MISSING_FILE", err.Error())
		return
	}
	defer cleanup()

	req := &models.DecodeRequest{
		CarrierPath: stegoPath,
		Bits:        parseIntDefault(c.PostForm("bits"), 1),
		Channel:     parseChannel(c.PostForm("channel")),
		Passphrase:  c.PostForm("passphrase"),
	}

	if raw := c.PostForm("private_key"); raw != "" {
		blob, err := hex.DecodeString(raw)
		if err != nil {
			sendError(c, http.StatusBadRequest, "INVALID_PRIVATE_KEY", "private_key must be hex-encoded")
			return
		}
		req.PrivateKey = blob
	}
	if raw := c.PostForm("verify_key"); raw != "" {
		blob, err := hex.DecodeString(raw)
		if err != nil {
			sendError(c, http.StatusBadRequest, "INVALID_VERIFY_KEY", "verify_key must be hex-encoded")
			return
		}
		req.VerifyKey = blob
	}

	res, err := h.pipeline.Decode(req)
	if err != nil {
		log.Printf("[ERROR] [%s] DecodeHandler: %v", requestID, err)
		sendError(c, http.StatusBadRequest, "DECODE_FAILED", err.Error())
		return
	}

	processingTime := time.Since(startTime).Milliseconds()
	c.Header("X-Extraction-Method", res.Method.String())
	c.Header("X-Processing-Time", strconv.FormatInt(processingTime, 10))

	c.JSON(http.StatusOK, decodeResponse{
		Text:             res.Text,
		AudioBase64:      base64.StdEncoding.EncodeToString(res.Audio),
		Method:           res.Method.String(),
		SignatureChecked: res.SignatureChecked,
		SignatureValid:   res.SignatureValid,
	})
}

type decodeResponse struct {
	Text             string `json:"text,omitempty"`
	AudioBase64      string `json:"audio_base64,omitempty"`
	Method           string `json:"method"`
	SignatureChecked bool   `json:"signature_checked"`
	SignatureValid   bool   `json:"signature_valid"`
}

// InspectHandler reports container metadata without ever decrypting.
//
//	@Summary		Inspect a stego WAV
//	@Description	Reports embedding method, flags, sizes, recipient count, and signature presence without touching decryption or verification.
//	@Tags			Steganography
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			stego_audio	formData	file	true	"Stego WAV file"
//	@Param			bits		formData	int		false	"LSB bit depth 1-4 (default 1)"
//	@Param			channel		formData	string	false	"both, left, or right (default both)"
//	@Success		200			{object}	models.InspectResult
//	@Failure		400			{object}	errorResponse
//	@Router			/inspect [post]
func (h *Handlers) InspectHandler(c *gin.Context) {
	requestID := requestIDFrom(c)
	log.Printf("[INFO] [%s] InspectHandler: request from %s", requestID, c.ClientIP())

	stegoPath, cleanup, err := saveUpload(c, "stego_audio")
	if err != nil {
		sendError(c, http.StatusBadRequest, "MISSING_FILE", err.Error())
		return
	}
	defer cleanup()

	bits := parseIntDefault(c.PostForm("bits"), 1)
	channel := parseChannel(c.PostForm("channel"))

	res, err := h.pipeline.Inspect(stegoPath, bits, channel)
	if err != nil {
		log.Printf("[ERROR] [%s] InspectHandler: %v", requestID, err)
		sendError(c, http.StatusBadRequest, "INSPECT_FAILED", err.Error())
		return
	}

	if res.AsymEncrypted {
		c.Header("X-Recipient-Count", strconv.Itoa(res.RecipientCount))
	}
	if res.SignatureFingerprint != "" {
		c.Header("X-Signature-Fingerprint", res.SignatureFingerprint)
	}
	c.JSON(http.StatusOK, res)
}

// KeygenHandler generates a fresh dual Ed25519/X25519 identity and returns
// the armored private and public key material.
//
//	@Summary		Generate a dual-purpose identity
//	@Description	Generates an Ed25519 signing keypair and an independently random X25519 key-agreement keypair, armored the same way on disk and in this response.
//	@Tags			Keys
//	@Produce		json
//	@Success		200	{object}	keygenResponse
//	@Failure		500	{object}	errorResponse
//	@Router			/keygen [post]
func (h *Handlers) KeygenHandler(c *gin.Context) {
	requestID := requestIDFrom(c)

	dir, err := os.MkdirTemp("", "vvw-keygen-*")
	if err != nil {
		sendError(c, http.StatusInternalServerError, "PROCESSING_ERROR", err.Error())
		return
	}
	defer os.RemoveAll(dir)

	res, err := h.pipeline.Keys.Generate(filepath.Join(dir, "identity"))
	if err != nil {
		log.Printf("[ERROR] [%s] KeygenHandler: %v", requestID, err)
		sendError(c, http.StatusInternalServerError, "KEYGEN_FAILED", err.Error())
		return
	}

	privArmor, err := os.ReadFile(res.PrivatePath)
	if err != nil {
		sendError(c, http.StatusInternalServerError, "PROCESSING_ERROR", err.Error())
		return
	}
	pubArmor, err := os.ReadFile(res.PublicPath)
	if err != nil {
		sendError(c, http.StatusInternalServerError, "PROCESSING_ERROR", err.Error())
		return
	}

	log.Printf("[INFO] [%s] KeygenHandler: generated identity fingerprint=%s", requestID, res.Fingerprint)
	c.JSON(http.StatusOK, keygenResponse{
		PrivateKey:  string(privArmor),
		PublicKey:   string(pubArmor),
		Fingerprint: res.Fingerprint,
	})
}

type keygenResponse struct {
	PrivateKey  string `json:"private_key"`
	PublicKey   string `json:"public_key"`
	Fingerprint string `json:"fingerprint"`
}

func requestIDFrom(c *gin.Context) string {
	if id, ok := c.Get("trace_id"); ok {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return c.GetHeader("X-Trace-Id")
}

// saveUpload writes a multipart form file to a temp path so the pipeline,
// which operates on filesystem paths rather than in-memory buffers, can
// read it directly. The returned cleanup func removes the temp file.
func saveUpload(c *gin.Context, field string) (string, func(), error) {
	header, err := c.FormFile(field)
	if err != nil {
		return "", nil, fmt.Errorf("%s not provided", field)
	}

	src, err := header.Open()
	if err != nil {
		return "", nil, fmt.Errorf("failed to open %s", field)
	}
	defer src.Close()

	ext := filepath.Ext(header.Filename)
	if ext == "" {
		ext = ".wav"
	}
	dst, err := os.CreateTemp("", "vvw-upload-*"+ext)
	if err != nil {
		return "", nil, fmt.Errorf("failed to buffer %s", field)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", nil, fmt.Errorf("failed to buffer %s", field)
	}

	path := dst.Name()
	return path, func() { os.Remove(path) }, nil
}

func tempOutputPath(pattern string) (string, func(), error) {
	f, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", nil, err
	}
	path := f.Name()
	f.Close()
	return path, func() { os.Remove(path) }, nil
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func parseMethod(s string) models.EmbedMethod {
	if strings.EqualFold(s, "aux-chunk") || strings.EqualFold(s, "aux") {
		return models.MethodAuxChunk
	}
	return models.MethodLSB
}

func parseChannel(s string) models.ChannelMask {
	switch strings.ToLower(s) {
	case "left":
		return models.ChannelLeft
	case "right":
		return models.ChannelRight
	default:
		return models.ChannelBoth
	}
}

func parseEncryption(s string) models.EncryptionMode {
	switch strings.ToLower(s) {
	case "symmetric":
		return models.EncryptionSymmetric
	case "asymmetric":
		return models.EncryptionAsymmetric
	default:
		return models.EncryptionNone
	}
}

func decodeHexList(s string) ([][]byte, error) {
	parts := strings.Split(s, ",")
	out := make([][]byte, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		b, err := hex.DecodeString(p)
		if err != nil {
			return nil, fmt.Errorf("invalid hex recipient key: %w", err)
		}
		out = append(out, b)
	}
	return out, nil
}
