package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStat_String(t *testing.T) {
	tests := []struct {
		stat Stat
		want string
	}{
		{StatReady, "READY"},
		{StatOK, "OK"},
		{StatPasswdError, "PASSWD_ERROR"},
		{StatTimestampLastUpdateNotMatch, "TIMESTAMP_LAST_UPDATE_NOT_MATCH"},
		{StatNoNetwork, "NO_NETWORK"},
		{StatLocalDeviceIDNotMatch, "LOCAL_DEVICE_ID_NOT_MATCH"},
		{Stat(12345), "STAT(12345)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.stat.String())
	}
}

func TestStat_IsSuccess(t *testing.T) {
	assert.True(t, StatReady.IsSuccess())
	assert.True(t, StatOK.IsSuccess())
	assert.False(t, StatError.IsSuccess())
	assert.False(t, StatNoNetwork.IsSuccess())
}

func TestStat_WireValues(t *testing.T) {
	assert.Equal(t, 706, int(StatNoNetwork))
	assert.Equal(t, 802, int(StatLocalDeviceIDNotMatch))
	assert.True(t, StatMapIDError.Known())
	assert.False(t, Stat(42).Known())
}
