package service

import (
	"fmt"
	"log"
	"math"
	"os"

	"github.com/vvwio/vvw/auxchunk"
	"github.com/vvwio/vvw/lsb"
	"github.com/vvwio/vvw/models"
	"github.com/vvwio/vvw/wavio"
)

// stegoService implements SteganographyService by dispatching to the lsb
// and auxchunk packages per models.EmbedMethod.
type stegoService struct{}

// NewStegoService creates a new steganography service instance
func NewStegoService() SteganographyService {
	return &stegoService{}
}

// Capacity reports how much container data a carrier can hold, for every
// LSB bit depth and channel mask plus the unbounded aux-chunk channel, per
// the teacher's /capacity endpoint generalized across spec.md §4.2's modes.
func (s *stegoService) Capacity(carrierPath string, bits int, mask models.ChannelMask) (*models.CapacityReport, error) {
	sb, err := wavio.Read(carrierPath)
	if err != nil {
		return nil, err
	}

	report := &models.CapacityReport{}
	for _, c := range []struct {
		bits int
		mask models.ChannelMask
		dst  *int
	}{
		{1, models.ChannelBoth, &report.Bits1Both},
		{2, models.ChannelBoth, &report.Bits2Both},
		{3, models.ChannelBoth, &report.Bits3Both},
		{4, models.ChannelBoth, &report.Bits4Both},
		{1, models.ChannelLeft, &report.Bits1Left},
		{2, models.ChannelLeft, &report.Bits2Left},
		{3, models.ChannelLeft, &report.Bits3Left},
		{4, models.ChannelLeft, &report.Bits4Left},
	} {
		n, err := lsb.Capacity(sb, c.bits, c.mask)
		if err != nil {
			return nil, err
		}
		*c.dst = n
	}

	// The aux-chunk channel is bounded only by the RIFF chunk size field
	// (uint32), not by the carrier's sample count.
	report.AuxChunk = math.MaxUint32

	log.Printf("[DEBUG] Capacity: %s -> %d bytes at 1-bit/both (requested %d-bit/mask=%d for reference)", carrierPath, report.Bits1Both, bits, mask)
	return report, nil
}

// Embed writes carrierPath plus container embedded via method to outPath.
func (s *stegoService) Embed(method models.EmbedMethod, carrierPath, outPath string, container []byte, bits int, mask models.ChannelMask) error {
	switch method {
	case models.MethodLSB:
		sb, err := wavio.Read(carrierPath)
		if err != nil {
			return err
		}
		out, err := lsb.Embed(sb, container, bits, mask)
		if err != nil {
			return err
		}
		log.Printf("[DEBUG] Embed: wrote %d container bytes via lsb (%d-bit/mask=%d) to %s", len(container), bits, mask, outPath)
		return wavio.Write(outPath, out)

	case models.MethodAuxChunk:
		raw, err := os.ReadFile(carrierPath)
		if err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("%w: %s", models.ErrInputNotFound, carrierPath)
			}
			return fmt.Errorf("%w: %v", models.ErrIO, err)
		}
		out, err := auxchunk.Embed(raw, container)
		if err != nil {
			return err
		}
		log.Printf("[DEBUG] Embed: wrote %d container bytes via aux-chunk to %s", len(container), outPath)
		if err := os.WriteFile(outPath, out, 0644); err != nil {
			return fmt.Errorf("%w: %v", models.ErrIO, err)
		}
		return nil

	default:
		return fmt.Errorf("%w: unknown embedding method", models.ErrInvalidParameter)
	}
}

// Extract reverses Embed for the given method.
func (s *stegoService) Extract(method models.EmbedMethod, carrierPath string, bits int, mask models.ChannelMask) ([]byte, error) {
	switch method {
	case models.MethodLSB:
		sb, err := wavio.Read(carrierPath)
		if err != nil {
			return nil, err
		}
		return lsb.Extract(sb, bits, mask)

	case models.MethodAuxChunk:
		raw, err := os.ReadFile(carrierPath)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("%w: %s", models.ErrInputNotFound, carrierPath)
			}
			return nil, fmt.Errorf("%w: %v", models.ErrIO, err)
		}
		return auxchunk.Extract(raw)

	default:
		return nil, fmt.Errorf("%w: unknown embedding method", models.ErrInvalidParameter)
	}
}
