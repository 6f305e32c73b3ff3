//go:build integration
// +build integration

package test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/insomniacslk/dhcp/dhcpv4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vishvananda/netlink"
	"go.uber.org/mock/gomock"

	"nanodectl/internal/adapter/bringup"
	"nanodectl/internal/adapter/provision"
	"nanodectl/internal/mock"
	"nanodectl/internal/port"
	"nanodectl/internal/types"
)

var (
	factoryMac = [6]byte{0x00, 0x04, 0xa3, 0x12, 0x34, 0x56}
	erasedSlot = [6]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}
	zeroSlot   = [6]byte{}
)

// fillOnRead copies canned EEPROM content into the read buffer.
func fillOnRead(data [6]byte) func(byte, []byte) error {
	return func(_ byte, buf []byte) error {
		copy(buf, data[:])
		return nil
	}
}

// fullACK builds a DHCP ACK carrying address, mask, router, DNS and server id.
func fullACK() *dhcpv4.DHCPv4 {
	ack := &dhcpv4.DHCPv4{}
	ack.YourIPAddr = net.ParseIP("192.168.1.100")
	ack.Options = make(dhcpv4.Options)
	ack.Options.Update(dhcpv4.OptSubnetMask(net.IPv4Mask(255, 255, 255, 0)))
	ack.Options.Update(dhcpv4.OptRouter(net.ParseIP("192.168.1.1")))
	ack.Options.Update(dhcpv4.OptDNS(net.ParseIP("8.8.8.8")))
	ack.Options.Update(dhcpv4.OptServerIdentifier(net.ParseIP("192.168.1.2")))
	ack.Options.Update(dhcpv4.OptIPAddressLeaseTime(10 * time.Minute))
	return ack
}

// runPipeline mirrors the provision command: provision the MAC first, then
// bring the network up when a usable address came out of it.
func runPipeline(ctx context.Context, provisioner port.MacProvisioner,
	networkUp port.NetworkBringUp) (types.ProvisionResult, types.NetworkConfig, error) {
	result, err := provisioner.Provision(ctx)
	if err != nil {
		return result, types.NetworkConfig{}, err
	}
	if !result.Mac.Usable() {
		return result, types.NetworkConfig{}, nil
	}
	netCfg, err := networkUp.BringUp(ctx, result.Mac)
	return result, netCfg, err
}

// TestProvisionToBringUpPipeline runs the complete first-boot decision matrix
// across the provisioning and bring-up adapters wired together.
func TestProvisionToBringUpPipeline(t *testing.T) {
	ctx := context.Background()
	mockLink := &netlink.Dummy{LinkAttrs: netlink.LinkAttrs{Index: 2, Name: "eth0"}}

	t.Run("FreshBoardEndToEnd", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		idArea := mock.NewMockI2CDevice(ctrl)
		rtc := mock.NewMockI2CDevice(ctrl)
		macROM := mock.NewMockI2CDevice(ctrl)
		dhcpClient := mock.NewMockDHCPClient(ctrl)
		networkMgr := mock.NewMockNetworkManager(ctrl)
		fileMgr := mock.NewMockFileManager(ctrl)

		// Erased slot forces a copy from the factory EEPROM.
		idArea.EXPECT().ReadAt(byte(0xf2), gomock.Len(6)).DoAndReturn(fillOnRead(erasedSlot))
		macROM.EXPECT().ReadAt(byte(0xfa), gomock.Len(6)).DoAndReturn(fillOnRead(factoryMac))
		gomock.InOrder(
			rtc.EXPECT().WriteAt(byte(0x09), byte(0x55)).Return(nil),
			rtc.EXPECT().WriteAt(byte(0x09), byte(0xaa)).Return(nil),
			idArea.EXPECT().WriteAt(byte(0xf2),
				byte(0x00), byte(0x04), byte(0xa3), byte(0x12), byte(0x34), byte(0x56)).
				Return(nil),
		)

		// The freshly written MAC identifies the DHCP exchange.
		networkMgr.EXPECT().GetLinkByName("eth0").Return(mockLink, nil)
		networkMgr.EXPECT().SetLinkUp(mockLink).Return(nil)
		dhcpClient.EXPECT().
			RequestLease(ctx, "eth0", net.HardwareAddr(factoryMac[:]), 15*time.Second).
			Return(fullACK(), nil).
			Times(1)

		networkMgr.EXPECT().ListAddresses(mockLink).Return([]netlink.Addr{}, nil)
		networkMgr.EXPECT().AddAddress(mockLink, gomock.Any()).Return(nil)
		networkMgr.EXPECT().ListRoutes().Return([]netlink.Route{}, nil)
		networkMgr.EXPECT().AddRoute(gomock.Any()).Return(nil)
		fileMgr.EXPECT().ReadFile("/etc/resolv.conf").Return(nil, assert.AnError)
		fileMgr.EXPECT().
			WriteFile("/etc/resolv.conf", []byte("# Generated by nanodectl\nnameserver 8.8.8.8\n"), 0644).
			Return(nil)

		provisioner := provision.NewManager(idArea, rtc, macROM)
		manager := bringup.NewManager("eth0", 15*time.Second, true, dhcpClient, networkMgr, fileMgr)

		result, netCfg, err := runPipeline(ctx, provisioner, manager)

		require.NoError(t, err)
		assert.Equal(t, types.StatusProvisioned, result.Status)
		assert.Equal(t, "00:04:a3:12:34:56", result.Mac.String())
		assert.Equal(t, "192.168.1.100", netCfg.Address.String())
		assert.Equal(t, "255.255.255.0", netCfg.Netmask.String())
		assert.Equal(t, "192.168.1.1", netCfg.Gateway.String())
		assert.Equal(t, "8.8.8.8", netCfg.DNS.String())
		assert.Equal(t, "192.168.1.2", netCfg.Server.String())
	})

	t.Run("ProvisionedBoardBootsStraightToNetwork", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		idArea := mock.NewMockI2CDevice(ctrl)
		rtc := mock.NewMockI2CDevice(ctrl)
		macROM := mock.NewMockI2CDevice(ctrl)
		dhcpClient := mock.NewMockDHCPClient(ctrl)
		networkMgr := mock.NewMockNetworkManager(ctrl)
		fileMgr := mock.NewMockFileManager(ctrl)

		idArea.EXPECT().ReadAt(byte(0xf2), gomock.Len(6)).DoAndReturn(fillOnRead(factoryMac))
		// Should not touch the RTC or the factory ROM on later boots.

		networkMgr.EXPECT().GetLinkByName("eth0").Return(mockLink, nil)
		networkMgr.EXPECT().SetLinkUp(mockLink).Return(nil)
		dhcpClient.EXPECT().
			RequestLease(ctx, "eth0", net.HardwareAddr(factoryMac[:]), 15*time.Second).
			Return(fullACK(), nil)

		provisioner := provision.NewManager(idArea, rtc, macROM)
		manager := bringup.NewManager("eth0", 15*time.Second, false, dhcpClient, networkMgr, fileMgr)

		result, netCfg, err := runPipeline(ctx, provisioner, manager)

		require.NoError(t, err)
		assert.Equal(t, types.StatusAlreadyProvisioned, result.Status)
		assert.Equal(t, "192.168.1.100", netCfg.Address.String())
	})

	t.Run("UnfittedBoardStopsBeforeNetwork", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		idArea := mock.NewMockI2CDevice(ctrl)
		rtc := mock.NewMockI2CDevice(ctrl)
		macROM := mock.NewMockI2CDevice(ctrl)
		dhcpClient := mock.NewMockDHCPClient(ctrl)
		networkMgr := mock.NewMockNetworkManager(ctrl)
		fileMgr := mock.NewMockFileManager(ctrl)

		idArea.EXPECT().ReadAt(byte(0xf2), gomock.Len(6)).DoAndReturn(fillOnRead(zeroSlot))
		// Should not call the DHCP client since there is no MAC to use.

		provisioner := provision.NewManager(idArea, rtc, macROM)
		manager := bringup.NewManager("eth0", 15*time.Second, false, dhcpClient, networkMgr, fileMgr)

		result, netCfg, err := runPipeline(ctx, provisioner, manager)

		require.NoError(t, err)
		assert.Equal(t, types.StatusNotFitted, result.Status)
		assert.True(t, netCfg.Address.IsZero())
	})

	t.Run("MissingFactorySourceStopsBeforeNetwork", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		idArea := mock.NewMockI2CDevice(ctrl)
		rtc := mock.NewMockI2CDevice(ctrl)
		macROM := mock.NewMockI2CDevice(ctrl)
		dhcpClient := mock.NewMockDHCPClient(ctrl)
		networkMgr := mock.NewMockNetworkManager(ctrl)
		fileMgr := mock.NewMockFileManager(ctrl)

		idArea.EXPECT().ReadAt(byte(0xf2), gomock.Len(6)).DoAndReturn(fillOnRead(erasedSlot))
		macROM.EXPECT().ReadAt(byte(0xfa), gomock.Len(6)).DoAndReturn(fillOnRead(erasedSlot))
		// Should not unlock or write anything without a usable candidate.

		provisioner := provision.NewManager(idArea, rtc, macROM)
		manager := bringup.NewManager("eth0", 15*time.Second, false, dhcpClient, networkMgr, fileMgr)

		result, _, err := runPipeline(ctx, provisioner, manager)

		require.NoError(t, err)
		assert.Equal(t, types.StatusNoSource, result.Status)
	})

	t.Run("DHCPFailureSurfacesAfterProvisioning", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		idArea := mock.NewMockI2CDevice(ctrl)
		rtc := mock.NewMockI2CDevice(ctrl)
		macROM := mock.NewMockI2CDevice(ctrl)
		dhcpClient := mock.NewMockDHCPClient(ctrl)
		networkMgr := mock.NewMockNetworkManager(ctrl)
		fileMgr := mock.NewMockFileManager(ctrl)

		idArea.EXPECT().ReadAt(byte(0xf2), gomock.Len(6)).DoAndReturn(fillOnRead(factoryMac))

		networkMgr.EXPECT().GetLinkByName("eth0").Return(mockLink, nil)
		networkMgr.EXPECT().SetLinkUp(mockLink).Return(nil)
		dhcpClient.EXPECT().
			RequestLease(ctx, "eth0", gomock.Any(), 15*time.Second).
			Return(nil, assert.AnError).
			Times(1)
		// Exactly one attempt, the pipeline does not retry.

		provisioner := provision.NewManager(idArea, rtc, macROM)
		manager := bringup.NewManager("eth0", 15*time.Second, false, dhcpClient, networkMgr, fileMgr)

		result, _, err := runPipeline(ctx, provisioner, manager)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "DHCP lease request failed")
		assert.Equal(t, types.StatusAlreadyProvisioned, result.Status)
	})
}
