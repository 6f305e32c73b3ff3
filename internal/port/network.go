// Package port defines the primary ports (interfaces) for the application.
// This follows the Ports and Adapters (Hexagonal Architecture) pattern.
package port

import (
	"context"

	"nanodectl/internal/types"
)

// MacProvisioner is the primary port for MAC address provisioning.
// Implementations inspect the persistent MAC slot and decide whether the
// factory-assigned address needs to be copied into it.
type MacProvisioner interface {
	// Provision reads the MAC slot, writes the factory EUI-48 into it when
	// the slot has never been programmed, and reports what it found.
	// At most one write is performed per invocation.
	Provision(ctx context.Context) (types.ProvisionResult, error)
}

// NetworkBringUp is the primary port for bringing a network interface up.
type NetworkBringUp interface {
	// BringUp requests a DHCP lease using the given MAC address as the
	// client identity and returns the offered network configuration.
	BringUp(ctx context.Context, mac types.MacAddress) (types.NetworkConfig, error)

	// GetInterfaceName returns the name of the managed network interface.
	GetInterfaceName() string
}

// LinkTester is the primary port for the radio link test roles.
// The sender and receiver sides both implement it.
type LinkTester interface {
	// Run executes the link test until the context is cancelled.
	// It returns an error if the radio fails or if the context is cancelled.
	Run(ctx context.Context) error
}
