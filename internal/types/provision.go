package types

// ProvisionStatus classifies the outcome of a MAC provisioning pass.
type ProvisionStatus int

const (
	// StatusAlreadyProvisioned means the unique-ID slot already held an
	// address and nothing was written.
	StatusAlreadyProvisioned ProvisionStatus = iota

	// StatusProvisioned means a candidate from the factory EEPROM was
	// written into the unique-ID slot.
	StatusProvisioned

	// StatusNoSource means the slot is unset and the factory EEPROM held
	// no usable candidate.
	StatusNoSource

	// StatusNotFitted means the slot read all-zero: no RTC chip answered.
	StatusNotFitted
)

// String returns the log-friendly name of the status.
func (s ProvisionStatus) String() string {
	switch s {
	case StatusAlreadyProvisioned:
		return "already-provisioned"
	case StatusProvisioned:
		return "provisioned"
	case StatusNoSource:
		return "no-source"
	case StatusNotFitted:
		return "not-fitted"
	default:
		return "unknown"
	}
}

// ProvisionResult carries the classification and the MAC the board ends
// up with for this boot.
type ProvisionResult struct {
	Status ProvisionStatus
	Mac    MacAddress
}
