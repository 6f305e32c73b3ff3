//go:build unit

package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewManagerAdapter(t *testing.T) {
	adapter := NewManagerAdapter()
	assert.NotNil(t, adapter)
}

func TestManagerAdapter_GetLinkByName(t *testing.T) {
	adapter := NewManagerAdapter()

	t.Run("ValidInterface", func(t *testing.T) {
		// Test with the loopback interface which should exist on most systems
		link, err := adapter.GetLinkByName("lo")
		if err != nil {
			t.Skip("Loopback interface not available, skipping test")
		}
		assert.NoError(t, err)
		assert.NotNil(t, link)
		assert.Equal(t, "lo", link.Attrs().Name)
	})

	t.Run("InvalidInterface", func(t *testing.T) {
		_, err := adapter.GetLinkByName("nonexistent")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to look up link")
	})
}

func TestManagerAdapter_ListAddresses(t *testing.T) {
	adapter := NewManagerAdapter()

	link, err := adapter.GetLinkByName("lo")
	if err != nil {
		t.Skip("Loopback interface not available, skipping test")
	}

	addresses, err := adapter.ListAddresses(link)
	assert.NoError(t, err)
	assert.NotNil(t, addresses)
	// Loopback typically has at least 127.0.0.1
}

// AddAddress, DeleteAddress, AddRoute, DeleteRoute and SetLinkUp require
// elevated privileges and would modify system state. The bringup adapter
// tests cover their orchestration through the NetworkManager port mock.
