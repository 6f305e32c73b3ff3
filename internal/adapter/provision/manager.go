// Package provision implements the MAC provisioning adapter. It inspects the
// persistent MAC slot in the RTC's protected EEPROM block and copies the
// factory-assigned EUI-48 into it on first boot.
package provision

import (
	"context"
	"fmt"

	"nanodectl/internal/pkg/logging"
	"nanodectl/internal/port"
	"nanodectl/internal/types"

	"github.com/sirupsen/logrus"
)

// MCP79410-style layout: the MAC slot lives in the RTC's protected EEPROM
// block and writing it requires a two-byte unlock sequence on the control
// device first.
const (
	macOffset       = 0xf2 // start of the MAC slot in the protected block
	unlockReg       = 0x09 // EEUNLOCK register on the RTC control device
	unlockFirst     = 0x55
	unlockSecond    = 0xaa
	candidateOffset = 0xfa // EUI-48 location in the factory EEPROM
)

// Manager decides whether the persistent MAC slot needs provisioning and
// performs the one-time copy from the factory EEPROM. It implements the
// MacProvisioner port.
type Manager struct {
	idArea port.I2CDevice // protected EEPROM block holding the MAC slot
	ctrl   port.I2CDevice // RTC control registers, receives the unlock sequence
	macROM port.I2CDevice // factory EEPROM carrying the candidate EUI-48
}

// Ensure Manager implements the MacProvisioner port
var _ port.MacProvisioner = (*Manager)(nil)

// NewManager creates a new MAC provisioning adapter.
func NewManager(idArea, ctrl, macROM port.I2CDevice) *Manager {
	return &Manager{
		idArea: idArea,
		ctrl:   ctrl,
		macROM: macROM,
	}
}

// Provision reads the MAC slot and classifies it on the first matching rule:
// a slot whose first byte reads erased (0xff) has never been programmed and
// gets filled from the factory EEPROM, an all-zero slot means the EEPROM
// hardware is not fitted, and anything else is an address provisioned on an
// earlier boot. At most one write happens per invocation and the write is not
// read back for verification.
func (m *Manager) Provision(ctx context.Context) (types.ProvisionResult, error) {
	logger := logging.WithComponent("provision")

	if err := ctx.Err(); err != nil {
		return types.ProvisionResult{}, err
	}

	var buf [6]byte
	if err := m.idArea.ReadAt(macOffset, buf[:]); err != nil {
		return types.ProvisionResult{}, fmt.Errorf("failed to read MAC slot: %w", err)
	}
	current := types.MacFromBytes(buf[:])
	logger.WithField("mac", current.String()).Debug("Read MAC slot")

	switch {
	case current.IsUnset():
		return m.provisionFromROM(ctx, logger)
	case current.IsBlank():
		logger.Warn("MAC slot reads all zero, EEPROM hardware appears not fitted")
		return types.ProvisionResult{Status: types.StatusNotFitted}, nil
	default:
		logger.WithField("mac", current.String()).Info("MAC already provisioned")
		return types.ProvisionResult{Status: types.StatusAlreadyProvisioned, Mac: current}, nil
	}
}

// provisionFromROM copies the factory EUI-48 into the MAC slot.
func (m *Manager) provisionFromROM(ctx context.Context, logger *logrus.Entry) (types.ProvisionResult, error) {
	var buf [6]byte
	if err := m.macROM.ReadAt(candidateOffset, buf[:]); err != nil {
		return types.ProvisionResult{}, fmt.Errorf("failed to read factory EUI-48: %w", err)
	}
	candidate := types.MacFromBytes(buf[:])

	if !candidate.Usable() {
		logger.WithField("candidate", candidate.String()).Warn("Factory EEPROM holds no usable address")
		return types.ProvisionResult{Status: types.StatusNoSource}, nil
	}

	if err := ctx.Err(); err != nil {
		return types.ProvisionResult{}, err
	}

	// Unlock the protected block. The two magic bytes must go out as
	// separate transactions.
	if err := m.ctrl.WriteAt(unlockReg, unlockFirst); err != nil {
		return types.ProvisionResult{}, fmt.Errorf("failed to unlock MAC slot: %w", err)
	}
	if err := m.ctrl.WriteAt(unlockReg, unlockSecond); err != nil {
		return types.ProvisionResult{}, fmt.Errorf("failed to unlock MAC slot: %w", err)
	}

	if err := m.idArea.WriteAt(macOffset, candidate[:]...); err != nil {
		return types.ProvisionResult{}, fmt.Errorf("failed to write MAC slot: %w", err)
	}

	logger.WithField("mac", candidate.String()).Info("Provisioned MAC from factory EEPROM")
	return types.ProvisionResult{Status: types.StatusProvisioned, Mac: candidate}, nil
}
