// Package bringup implements the network bring-up adapter. It requests a
// single DHCP lease using the provisioned MAC address and optionally applies
// the lease to the interface via netlink.
package bringup

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"nanodectl/internal/pkg/logging"
	"nanodectl/internal/port"
	"nanodectl/internal/types"

	"github.com/insomniacslk/dhcp/dhcpv4"
	"github.com/vishvananda/netlink"
)

// Manager brings a network interface up by acquiring one DHCP lease. It
// implements the NetworkBringUp port.
type Manager struct {
	interfaceName string
	timeout       time.Duration
	apply         bool
	dhcpClient    port.DHCPClient
	networkMgr    port.NetworkManager
	fileMgr       port.FileManager
}

// Ensure Manager implements the NetworkBringUp port
var _ port.NetworkBringUp = (*Manager)(nil)

// NewManager creates a new bring-up adapter for the given interface name.
// When apply is false the lease is only reported, not installed.
func NewManager(interfaceName string, timeout time.Duration, apply bool,
	dhcpClient port.DHCPClient, networkMgr port.NetworkManager, fileMgr port.FileManager) *Manager {
	return &Manager{
		interfaceName: interfaceName,
		timeout:       timeout,
		apply:         apply,
		dhcpClient:    dhcpClient,
		networkMgr:    networkMgr,
		fileMgr:       fileMgr,
	}
}

// GetInterfaceName returns the name of the network interface managed by this manager.
func (m *Manager) GetInterfaceName() string {
	return m.interfaceName
}

// BringUp brings the link up and performs a single DHCP exchange using the
// given MAC address as the client identity. There is no retry and no renewal:
// a failed exchange is reported to the caller, who decides what to do next.
func (m *Manager) BringUp(ctx context.Context, mac types.MacAddress) (types.NetworkConfig, error) {
	logger := logging.WithComponentAndInterface("bringup", m.interfaceName).WithField("mac", mac.String())
	logger.Info("Starting network bring-up")

	// Get netlink interface using the network manager port
	link, err := m.networkMgr.GetLinkByName(m.interfaceName)
	if err != nil {
		return types.NetworkConfig{}, fmt.Errorf("failed to get netlink interface: %w", err)
	}

	// The link must be up before the DHCP socket can be opened on it
	if err := m.networkMgr.SetLinkUp(link); err != nil {
		return types.NetworkConfig{}, fmt.Errorf("failed to bring link up: %w", err)
	}

	// Single DHCP DISCOVER/OFFER/REQUEST/ACK exchange
	ack, err := m.dhcpClient.RequestLease(ctx, m.interfaceName, mac.HardwareAddr(), m.timeout)
	if err != nil {
		return types.NetworkConfig{}, fmt.Errorf("DHCP lease request failed: %w", err)
	}

	config := configFromACK(ack)
	logger.WithFields(map[string]interface{}{
		"ip":      config.Address.String(),
		"netmask": config.Netmask.String(),
		"gateway": config.Gateway.String(),
		"dns":     config.DNS.String(),
		"server":  config.Server.String(),
	}).Info("Obtained DHCP lease")

	if m.apply {
		if err := m.applyLease(ctx, link, ack); err != nil {
			return types.NetworkConfig{}, fmt.Errorf("failed to apply DHCP lease: %w", err)
		}
		logger.Info("Successfully configured interface")
	}

	return config, nil
}

// configFromACK collects the offered parameters from a DHCP ACK into a
// NetworkConfig, populated in one step.
func configFromACK(ack *dhcpv4.DHCPv4) types.NetworkConfig {
	config := types.NetworkConfig{
		Address: types.IPv4From(ack.YourIPAddr),
		Server:  types.IPv4From(ack.ServerIdentifier()),
	}

	mask := ack.SubnetMask()
	if mask == nil {
		// Default to /24 if no subnet mask provided
		mask = net.IPv4Mask(255, 255, 255, 0)
	}
	config.Netmask = types.IPv4From(net.IP(mask))

	if routers := ack.Router(); len(routers) > 0 {
		config.Gateway = types.IPv4From(routers[0])
	}
	if dns := ack.DNS(); len(dns) > 0 {
		config.DNS = types.IPv4From(dns[0])
	}

	return config
}

// applyLease configures the network interface with the received DHCP lease
// using netlink. Addresses and routes that already match are left in place.
func (m *Manager) applyLease(ctx context.Context, link netlink.Link, ack *dhcpv4.DHCPv4) error {
	logger := logging.WithComponentAndInterface("bringup", m.interfaceName)

	subnetMask := ack.SubnetMask()
	if subnetMask == nil {
		subnetMask = net.IPv4Mask(255, 255, 255, 0)
	}
	ipNet := &net.IPNet{
		IP:   ack.YourIPAddr,
		Mask: subnetMask,
	}

	logger.WithField("ip", ipNet.String()).Info("Configuring interface with IP")

	// Get existing addresses to check for duplicates
	existingAddrs, err := m.networkMgr.ListAddresses(link)
	if err != nil {
		return fmt.Errorf("failed to list existing addresses: %w", err)
	}

	// Check if the target IP is already configured
	targetConfigured := false
	for _, addr := range existingAddrs {
		if addr.IPNet.IP.Equal(ipNet.IP) && addr.IPNet.Mask.String() == ipNet.Mask.String() {
			logger.WithField("ip", ipNet.String()).Info("IP address already configured, skipping")
			targetConfigured = true
			break
		}
	}

	if !targetConfigured {
		// Remove existing IPv4 addresses that don't match our target
		for _, addr := range existingAddrs {
			if !addr.IPNet.IP.Equal(ipNet.IP) {
				if err := m.networkMgr.DeleteAddress(link, &addr); err != nil {
					logger.WithError(err).WithField("address", addr.IPNet.String()).Warn("Failed to remove existing address")
				} else {
					logger.WithField("address", addr.IPNet.String()).Debug("Removed existing address")
				}
			}
		}

		leaseTime := ack.IPAddressLeaseTime(60 * time.Second)
		addr := &netlink.Addr{
			IPNet:       ipNet,
			ValidLft:    int(leaseTime.Seconds()),
			PreferedLft: int(leaseTime.Seconds()),
		}
		if err := m.networkMgr.AddAddress(link, addr); err != nil {
			return fmt.Errorf("failed to add IP address %s: %w", ipNet.String(), err)
		}
		logger.WithField("ip", ipNet.String()).Info("Successfully added IP address")
	}

	// Configure default gateway if provided
	if routers := ack.Router(); len(routers) > 0 {
		gateway := routers[0]
		logger.WithField("gateway", gateway.String()).Info("Setting default gateway")

		if err := m.configureDefaultRoute(ctx, link, gateway); err != nil {
			return fmt.Errorf("failed to set default gateway: %w", err)
		}
	}

	// Write DNS servers to resolv.conf if provided
	if dnsServers := ack.DNS(); len(dnsServers) > 0 {
		var dnsStrings []string
		for _, dns := range dnsServers {
			dnsStrings = append(dnsStrings, dns.String())
		}
		logger.WithField("dns_servers", strings.Join(dnsStrings, ", ")).Info("DNS servers received")

		if err := m.configureDNS(ctx, dnsServers); err != nil {
			logger.WithError(err).Warn("Failed to configure DNS")
		}
	}

	return nil
}

// configureDefaultRoute installs the default route unless it already exists.
func (m *Manager) configureDefaultRoute(ctx context.Context, link netlink.Link, gateway net.IP) error {
	logger := logging.WithComponentAndInterface("bringup", m.interfaceName).WithField("gateway", gateway.String())

	routes, err := m.networkMgr.ListRoutes()
	if err != nil {
		return fmt.Errorf("failed to list routes: %w", err)
	}

	// Check if the desired default route already exists
	targetRouteExists := false
	for _, route := range routes {
		if (route.Dst == nil || route.Dst.String() == "0.0.0.0/0") &&
			route.Gw != nil && route.Gw.Equal(gateway) &&
			route.LinkIndex == link.Attrs().Index {
			logger.Info("Default route already exists, skipping")
			targetRouteExists = true
			break
		}
	}

	if !targetRouteExists {
		// Remove existing default routes that don't match our target
		for _, route := range routes {
			if route.Dst == nil || route.Dst.String() == "0.0.0.0/0" {
				if route.Gw != nil && route.Gw.Equal(gateway) && route.LinkIndex == link.Attrs().Index {
					continue
				}

				if err := m.networkMgr.DeleteRoute(&route); err != nil {
					logger.WithError(err).Warn("Failed to remove existing default route")
				} else {
					logger.Debug("Removed existing default route")
				}
			}
		}

		route := &netlink.Route{
			LinkIndex: link.Attrs().Index,
			Gw:        gateway,
		}
		if err := m.networkMgr.AddRoute(route); err != nil {
			return fmt.Errorf("failed to add default route: %w", err)
		}

		logger.Info("Successfully added default route")
	}

	return nil
}

// configureDNS writes the DNS servers to /etc/resolv.conf.
func (m *Manager) configureDNS(ctx context.Context, dnsServers []net.IP) error {
	logger := logging.WithComponentAndInterface("bringup", m.interfaceName)

	newContent := "# Generated by nanodectl\n"
	for _, dns := range dnsServers {
		newContent += fmt.Sprintf("nameserver %s\n", dns.String())
	}

	// Skip the write if the current content already matches
	if currentContent, err := m.fileMgr.ReadFile("/etc/resolv.conf"); err == nil {
		if string(currentContent) == newContent {
			logger.Debug("DNS configuration already up to date, skipping")
			return nil
		}
	}

	if err := m.fileMgr.WriteFile("/etc/resolv.conf", []byte(newContent), 0644); err != nil {
		return fmt.Errorf("failed to write /etc/resolv.conf: %w", err)
	}

	logger.Info("Updated /etc/resolv.conf with DNS servers")
	return nil
}
